// Package gameboy provides an emulation of a Nintendo Game Boy.
package gameboy

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pcasaretto/gameboy/internal/boot"
	"github.com/pcasaretto/gameboy/internal/cartridge"
	"github.com/pcasaretto/gameboy/internal/cpu"
	"github.com/pcasaretto/gameboy/internal/interrupts"
	"github.com/pcasaretto/gameboy/internal/joypad"
	"github.com/pcasaretto/gameboy/internal/mmu"
	"github.com/pcasaretto/gameboy/internal/opcodes"
	"github.com/pcasaretto/gameboy/internal/ppu"
	"github.com/pcasaretto/gameboy/internal/ppu/palette"
	"github.com/pcasaretto/gameboy/internal/serial"
	"github.com/pcasaretto/gameboy/internal/timer"
	"github.com/pcasaretto/gameboy/internal/types"
	"github.com/pcasaretto/gameboy/pkg/display/event"
	"github.com/pcasaretto/gameboy/pkg/emulator"
	"github.com/pcasaretto/gameboy/pkg/log"
)

const (
	// ClockSpeed is the clock speed of the Game Boy.
	ClockSpeed = cpu.ClockSpeed // 4.194304 MHz
	// FrameRate is the number of frames drawn per second.
	FrameRate = 60
	// FrameTime is the time taken to draw a frame at normal
	// speed.
	FrameTime = time.Second / FrameRate
)

// GameBoy represents a Game Boy. It contains all the components of the Game Boy.
// It is the main entry point for the emulator.
//
// The components are only ever touched by the goroutine holding the
// lock, which is the one running Start once the emulator is started.
type GameBoy struct {
	CPU *cpu.CPU
	MMU *mmu.MMU
	PPU *ppu.PPU

	Joypad     *joypad.State
	Interrupts *interrupts.Service
	Timer      *timer.Controller
	Serial     *serial.Controller

	log.Logger
	Performance *emulator.Performance

	sync.Mutex

	rom       []byte
	config    config
	status    atomic.Int32
	lastFrame []byte
}

type config struct {
	bootROM []byte
	serial  io.Writer
	opcodes *opcodes.Table
	trace   bool
	palette int
	speed   float64
}

// NewGameBoy returns a new GameBoy with rom inserted. An empty rom
// leaves the cartridge slot empty. The options are applied before
// the GameBoy is powered on.
func NewGameBoy(rom []byte, opts ...Opt) (*GameBoy, error) {
	g := &GameBoy{
		Logger: log.NewNullLogger(),
		config: config{speed: 1},
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.config.speed <= 0 {
		return nil, fmt.Errorf("gameboy: invalid speed %v", g.config.speed)
	}
	if g.config.palette < 0 || g.config.palette >= len(palette.Palettes) {
		return nil, fmt.Errorf("gameboy: invalid palette %d", g.config.palette)
	}

	if err := g.powerOn(rom); err != nil {
		return nil, err
	}
	return g, nil
}

// powerOn builds every component from scratch with rom inserted.
func (g *GameBoy) powerOn(rom []byte) error {
	cart := cartridge.NewEmptyCartridge()
	if len(rom) > 0 {
		var err error
		if cart, err = cartridge.New(rom); err != nil {
			return fmt.Errorf("gameboy: loading cartridge: %w", err)
		}
		header := cart.Header()
		if header.CartridgeType.RequiresMBC() {
			g.Warnf("cartridge %q requires a %s controller, only the first 32kB are mapped", header.Title, header.CartridgeType)
		}
		if !header.Valid() {
			g.Warnf("cartridge %q has an invalid header checksum", header.Title)
		}
	}

	memBus := mmu.NewMMU(cart)
	memBus.Log = log.WithComponent(g.Logger, "mmu")
	irq := interrupts.NewService(memBus)
	pad := joypad.New(irq)
	memBus.AttachJoypad(pad)
	serialCtl := serial.NewController(g.config.serial)
	memBus.AttachSerial(serialCtl)

	video := ppu.New(memBus, irq)
	video.SetPalette(g.config.palette)

	processor := cpu.NewCPU(memBus, irq)
	processor.SetLogger(log.WithComponent(g.Logger, "cpu"))
	processor.Trace = g.config.trace
	processor.AttachOpcodes(g.config.opcodes)

	g.CPU = processor
	g.MMU = memBus
	g.PPU = video
	g.Joypad = pad
	g.Interrupts = irq
	g.Timer = timer.NewController(memBus, irq)
	g.Serial = serialCtl
	g.rom = rom
	g.lastFrame = nil

	if g.config.bootROM != nil {
		bootROM, err := boot.LoadBootROM(g.config.bootROM)
		if err != nil {
			return fmt.Errorf("gameboy: loading boot rom: %w", err)
		}
		g.Infof("booting with %s boot rom", bootROM.Model())
		memBus.SetBootROM(bootROM)
		// everything starts zeroed, the boot rom sets up the rest
		return nil
	}

	g.skipBoot()
	return nil
}

// postBootRegisters holds the values of the hardware registers
// once the DMG boot ROM has handed over to the cartridge.
var postBootRegisters = []struct {
	address uint16
	value   uint8
}{
	{types.SB, 0x00}, {types.SC, 0x7E}, {types.DIV, 0x18},
	{types.TIMA, 0x00}, {types.TMA, 0x00}, {types.TAC, 0xF8},
	{types.IF, 0xE1},
	{types.NR10, 0x80}, {types.NR11, 0xBF}, {types.NR12, 0xF3},
	{types.NR13, 0xFF}, {types.NR14, 0xBF}, {types.NR21, 0x3F},
	{types.NR22, 0x00}, {types.NR23, 0xFF}, {types.NR24, 0xBF},
	{types.NR30, 0x7F}, {types.NR31, 0xFF}, {types.NR32, 0x9F},
	{types.NR33, 0xBF}, {types.NR41, 0xFF}, {types.NR42, 0x00},
	{types.NR43, 0x00}, {types.NR50, 0x77}, {types.NR51, 0xF3},
	{types.NR52, 0xF1},
	{types.LCDC, 0x91}, {types.SCY, 0x00}, {types.SCX, 0x00},
	{types.LY, 0x85}, {types.LYC, 0x85}, {types.DMA, 0xFF},
	{types.BGP, 0xFC}, {types.OBP0, 0x00}, {types.OBP1, 0x00},
	{types.WY, 0x00}, {types.WX, 0x00},
	{types.IE, 0x00},
}

// skipBoot sets the registers to the values upon completion
// of the boot ROM, and starts execution at 0x100.
func (g *GameBoy) skipBoot() {
	g.CPU.A = 0x01
	g.CPU.F = 0x80
	g.CPU.B = 0x00
	g.CPU.C = 0x13
	g.CPU.D = 0x00
	g.CPU.E = 0xD8
	g.CPU.H = 0x01
	g.CPU.L = 0x4D
	g.CPU.SP = 0xFFFE
	g.CPU.PC = 0x0100

	for _, r := range postBootRegisters {
		g.MMU.Set(r.address, r.value)
	}
}

// Step executes a single CPU instruction, and then steps the
// interrupt service, the timer and the PPU by the number of
// ticks it took. The number of ticks is returned.
func (g *GameBoy) Step() uint8 {
	ticks := g.CPU.Step()
	g.Interrupts.Step(g.CPU, ticks)
	g.Timer.Step(ticks)
	g.PPU.Step(ticks)
	return ticks
}

// Frame will step the emulation until the PPU has finished
// rendering the current frame, and return it as RGBA bytes.
func (g *GameBoy) Frame() []byte {
	start := time.Now()
	for !g.PPU.HasFrame() {
		g.Step()
	}
	g.lastFrame = g.PPU.Frame()

	if g.Performance != nil {
		g.Performance.Record(time.Since(start))
	}
	return g.lastFrame
}

// LastFrame returns the most recently completed frame, or nil if
// no frame has been completed yet.
func (g *GameBoy) LastFrame() []byte {
	return g.lastFrame
}

// Press presses a button, requesting the joypad interrupt if the
// button was released.
func (g *GameBoy) Press(button joypad.Button) {
	g.Joypad.Set(button, true)
}

// Release releases a button.
func (g *GameBoy) Release(button joypad.Button) {
	g.Joypad.Set(button, false)
}

// Title returns the window title for the current cartridge.
func (g *GameBoy) Title() string {
	if title := g.MMU.Cart.Title(); title != "" {
		return title
	}
	return "GameBoy"
}

// Status returns the current status of the emulator.
func (g *GameBoy) Status() emulator.Status {
	return emulator.Status(g.status.Load())
}

func (g *GameBoy) setStatus(s emulator.Status) {
	g.status.Store(int32(s))
}

// Speed returns the speed multiplier of the emulator.
func (g *GameBoy) Speed() float64 {
	g.Lock()
	defer g.Unlock()
	return g.config.speed
}

// frameInterval returns the time between frames at the current
// speed. Must be called with the lock held.
func (g *GameBoy) frameInterval() time.Duration {
	return time.Duration(float64(FrameTime) / g.config.speed)
}

// SendCommand applies the command to the emulator, waiting for any
// frame in progress to finish.
func (g *GameBoy) SendCommand(packet emulator.CommandPacket) emulator.ResponsePacket {
	g.Lock()
	defer g.Unlock()

	response := emulator.ResponsePacket{Command: packet.Command}
	switch packet.Command {
	case emulator.CommandPause:
		if g.Status().IsRunning() {
			g.setStatus(emulator.Paused)
		}
	case emulator.CommandResume:
		if g.Status().IsPaused() {
			g.setStatus(emulator.Running)
		}
	case emulator.CommandClose:
		g.setStatus(emulator.Halted)
	case emulator.CommandReset:
		response.Error = g.powerOn(g.rom)
	case emulator.CommandLoadROM:
		response.Error = g.powerOn(packet.Data)
	case emulator.CommandSetSpeed:
		speed, err := packet.Speed()
		if err != nil {
			response.Error = err
			break
		}
		g.config.speed = speed
	case emulator.CommandCyclePalette:
		g.config.palette = (g.config.palette + 1) % len(palette.Palettes)
		g.PPU.SetPalette(g.config.palette)
		response.Data = []byte(palette.Palettes[g.config.palette].Name)
	case emulator.CommandScreenshot:
		response.Data = g.lastFrame
	default:
		response.Error = emulator.ErrUnknownCommand
	}

	if response.Error != nil {
		g.Errorf("%s: %v", packet.Command, response.Error)
	}
	return response
}

// Start starts the Game Boy emulation, sending every frame to fb and
// applying the buttons received from pressed and released between
// frames. Frames are paced to 60 per second, scaled by the speed of
// the emulator. Start returns once the emulator is closed, after
// sending an event.Quit. A panic in the hardware, such as an
// undefined opcode, marks the emulator as errored and is then
// propagated, as the emulated state can no longer be trusted.
func (g *GameBoy) Start(fb chan<- []byte, events chan<- event.Event, pressed, released <-chan joypad.Button) {
	defer func() {
		r := recover()
		if r != nil {
			g.setStatus(emulator.Errored)
			g.Errorf("emulation stopped: %v", r)
		}
		send(events, event.Event{Type: event.Quit})
		if r != nil {
			panic(r)
		}
	}()

	g.Lock()
	interval := g.frameInterval()
	g.Unlock()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// setup fps counter
	frames := 0
	start := time.Now()

	for {
		select {
		case b := <-pressed:
			g.Lock()
			g.Press(b)
			g.Unlock()
		case b := <-released:
			g.Lock()
			g.Release(b)
			g.Unlock()
		case <-ticker.C:
			frame, status := g.nextFrame()
			if status.IsHalted() || status.IsErrored() {
				return
			}
			if frame == nil {
				continue
			}

			g.Lock()
			if next := g.frameInterval(); next != interval {
				interval = next
				ticker.Reset(interval)
			}
			title := g.Title()
			g.Unlock()

			// drop the frame rather than block if the driver is behind
			select {
			case fb <- frame:
			default:
			}

			frames++
			if time.Since(start) > time.Second {
				send(events, event.Event{Type: event.Title, Data: fmt.Sprintf("%s | FPS: %d", title, frames)})
				if g.Performance != nil {
					send(events, event.Event{Type: event.FrameTime, Data: g.Performance.Samples()})
				}

				frames = 0
				start = time.Now()
			}
		}
	}
}

// nextFrame runs a frame if the emulator is running, returning
// the frame and the status it was run under.
func (g *GameBoy) nextFrame() ([]byte, emulator.Status) {
	g.Lock()
	defer g.Unlock()

	status := g.Status()
	if !status.IsRunning() {
		return nil, status
	}
	return g.Frame(), status
}

func send(events chan<- event.Event, e event.Event) {
	select {
	case events <- e:
	default:
	}
}
