// Package display provides the registry of display drivers, which
// present the frames of an emulator and feed back its input.
package display

import (
	"flag"
	"fmt"
	"sort"
	"strconv"

	"github.com/pcasaretto/gameboy/internal/joypad"
	"github.com/pcasaretto/gameboy/pkg/display/event"
	"github.com/pcasaretto/gameboy/pkg/emulator"
)

// Driver is the interface that wraps the basic methods for a
// display driver.
type Driver interface {
	// Initialize initializes the display driver by attaching it to
	// the emulator that is using it.
	Initialize(emu Emulator)
	// Start the display driver. Frames are 160x144 RGBA bytes.
	Start(fb <-chan []byte, events <-chan event.Event, pressed, released chan<- joypad.Button) error
	// Stop the display driver.
	Stop() error
}

// Emulator is the interface that wraps the basic methods for an
// emulator to implement in order for the driver to be able to
// interact with it. This is used to allow the driver to
// control the emulator. The emulator is passed to the driver
// during initialization.
type Emulator interface {
	// SendCommand sends a command packet to the emulator.
	SendCommand(command emulator.CommandPacket) emulator.ResponsePacket
	// Speed returns the speed of the emulator.
	Speed() float64
	// Status returns the status of the emulator.
	Status() emulator.Status
}

var (
	Pause        = emulator.CommandPacket{Command: emulator.CommandPause}
	Resume       = emulator.CommandPacket{Command: emulator.CommandResume}
	Reset        = emulator.CommandPacket{Command: emulator.CommandReset}
	Close        = emulator.CommandPacket{Command: emulator.CommandClose}
	CyclePalette = emulator.CommandPacket{Command: emulator.CommandCyclePalette}
	Screenshot   = emulator.CommandPacket{Command: emulator.CommandScreenshot}
)

// TogglePause pauses a running emulator, and resumes a paused one.
func TogglePause(e Emulator) {
	switch s := e.Status(); {
	case s.IsRunning():
		e.SendCommand(Pause)
	case s.IsPaused():
		e.SendCommand(Resume)
	}
}

// DriverOption is a display driver option. This is used to
// configure a display driver.
type DriverOption struct {
	Name        string // name of the option
	Default     any    // default value of the option
	Value       any    // pointer to the value of the option
	Description string // description of the option
	Type        string // "int", "bool", "string", "float"
}

// InstalledDriver is a driver that has been installed. This is
// used to allow drivers to register their name.
type InstalledDriver struct {
	Name    string
	Options []DriverOption
	Driver
}

// InstalledDrivers is a list of all the installed drivers. This
// variable is exported so that it can be used by the main
// program to determine which drivers can be used. Drivers should
// call display.Install in their init() function.
var InstalledDrivers []*InstalledDriver

// GetDriver returns the driver with the given name, or nil if
// no driver with that name is installed. The name "auto" selects
// the first installed driver.
func GetDriver(name string) Driver {
	if name == "auto" {
		if len(InstalledDrivers) == 0 {
			return nil
		}
		return InstalledDrivers[0].Driver
	}
	for _, driver := range InstalledDrivers {
		if driver.Name == name {
			return driver.Driver
		}
	}

	return nil
}

// Names returns the names of the installed drivers.
func Names() []string {
	names := make([]string, len(InstalledDrivers))
	for i, driver := range InstalledDrivers {
		names[i] = driver.Name
	}
	return names
}

// Install registers a display driver with the given name.
func Install(name string, driver Driver, options []DriverOption) {
	InstalledDrivers = append(InstalledDrivers, &InstalledDriver{
		Name:    name,
		Options: options,
		Driver:  driver,
	})
}

// RegisterFlags iterates through all the display driver
// options and registers them with the flag set. An option
// shared by several drivers is registered once under its own
// name, and sets every driver at once. An option unique to a
// driver is prefixed with the driver name.
func RegisterFlags(fs *flag.FlagSet) {
	optionCounts := make(map[string]int)
	opts := make(map[string][]DriverOption)
	prefixes := make(map[string]string)

	for _, driver := range InstalledDrivers {
		for _, opt := range driver.Options {
			// track how many times an option is used
			optionCounts[opt.Name]++
			opts[opt.Name] = append(opts[opt.Name], opt)
			prefixes[opt.Name] = driver.Name
		}
	}

	names := make([]string, 0, len(opts))
	for o := range opts {
		names = append(names, o)
	}
	sort.Strings(names)

	for _, o := range names {
		opt := opts[o][0]
		// this requires an option merge
		if optionCounts[o] > 1 {
			multi := &multiValue{values: make([]any, 0, len(opts[o])), defaultValue: opt.Default}
			for _, mOpt := range opts[o] {
				multi.values = append(multi.values, mOpt.Value)
				if err := multi.set(mOpt.Value, fmt.Sprint(opt.Default)); err != nil {
					panic(fmt.Sprintf("display: option %s: %v", o, err))
				}
			}
			fs.Var(multi, o, opt.Description)
			continue
		}

		// this option is unique and should be prefixed
		optName := fmt.Sprintf("%s-%s", prefixes[o], opt.Name)
		switch opt.Type {
		case "string":
			fs.StringVar(opt.Value.(*string), optName, opt.Default.(string), opt.Description)
		case "bool":
			fs.BoolVar(opt.Value.(*bool), optName, opt.Default.(bool), opt.Description)
		case "float":
			fs.Float64Var(opt.Value.(*float64), optName, opt.Default.(float64), opt.Description)
		case "int":
			fs.IntVar(opt.Value.(*int), optName, opt.Default.(int), opt.Description)
		}
	}
}

type multiValue struct {
	values       []any
	defaultValue any
}

func (m *multiValue) String() string {
	if m == nil || m.defaultValue == nil {
		return ""
	}
	return fmt.Sprint(m.defaultValue)
}

func (m *multiValue) Set(value string) error {
	// update all the pointers with the provided value
	for _, ptr := range m.values {
		if err := m.set(ptr, value); err != nil {
			return err
		}
	}

	return nil
}

func (m *multiValue) set(ptr any, value string) error {
	switch p := ptr.(type) {
	case *string:
		*p = value
	case *bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		*p = b
	case *float64:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		*p = f
	case *int:
		i, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		*p = i
	default:
		return fmt.Errorf("unknown type: %T", ptr)
	}
	return nil
}

func (m *multiValue) IsBoolFlag() bool {
	_, isBool := m.defaultValue.(bool)
	return isBool
}
