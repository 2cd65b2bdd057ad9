//go:build !test

package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/pcasaretto/gameboy/internal/gameboy"
	"github.com/pcasaretto/gameboy/internal/joypad"
	"github.com/pcasaretto/gameboy/internal/opcodes"
	"github.com/pcasaretto/gameboy/internal/ppu"
	"github.com/pcasaretto/gameboy/internal/ppu/palette"
	"github.com/pcasaretto/gameboy/pkg/display"
	"github.com/pcasaretto/gameboy/pkg/display/event"
	_ "github.com/pcasaretto/gameboy/pkg/display/fyne"
	_ "github.com/pcasaretto/gameboy/pkg/display/glfw"
	_ "github.com/pcasaretto/gameboy/pkg/display/sdl"
	_ "github.com/pcasaretto/gameboy/pkg/display/web"
	"github.com/pcasaretto/gameboy/pkg/emulator"
	"github.com/pcasaretto/gameboy/pkg/log"
	"github.com/pcasaretto/gameboy/pkg/utils"
)

var (
	_ display.Emulator = &gameboy.GameBoy{}
)

func main() {
	logLevel := flag.String("log-level", "info", "The level to log at (debug, info, warn, error)")
	romFile := flag.String("rom", "", "The rom file to load")
	bootROM := flag.String("boot", "", "The boot rom file to load")
	displayDriver := flag.String("driver", "auto", "The display driver to use. Can be auto, "+strings.Join(display.Names(), ", "))
	speed := flag.Float64("speed", 1, "The speed to run the emulator at")
	paletteName := flag.String("palette", "greyscale", "The palette to render with")
	trace := flag.Bool("trace", false, "Log every executed instruction")
	opcodeFile := flag.String("opcodes", "", "An opcode description file used to disassemble traced instructions")
	serial := flag.Bool("serial", false, "Write serial output to stdout")
	headless := flag.Bool("headless", false, "Run without a display driver")
	frames := flag.Int("frames", 60, "The number of frames to run when headless")
	screenshot := flag.String("screenshot", "", "Save the last frame to this file when headless")
	perfPlot := flag.String("perf-plot", "", "Plot the frame times to this PNG file when headless")

	display.RegisterFlags(flag.CommandLine)
	flag.Parse()

	logger, err := log.New(*logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if *romFile == "" && !*headless {
		*romFile, err = utils.AskForFile("Open ROM", ".")
		if err != nil {
			logger.Fatal(err)
		}
	}

	var rom []byte
	if *romFile != "" {
		if rom, err = utils.LoadFile(*romFile); err != nil {
			logger.Fatal(err)
		}
	}

	perf := emulator.NewPerformance(0)
	opts := []gameboy.Opt{
		gameboy.WithLogger(logger),
		gameboy.Speed(*speed),
		gameboy.WithPerformance(perf),
	}

	if *bootROM != "" {
		boot, err := utils.LoadFile(*bootROM)
		if err != nil {
			logger.Fatal(err)
		}
		opts = append(opts, gameboy.WithBootROM(boot))
	}

	idx, err := palette.ByName(*paletteName)
	if err != nil {
		logger.Fatal(err)
	}
	opts = append(opts, gameboy.WithPalette(idx))

	if *trace {
		opts = append(opts, gameboy.Debug())
	}
	if *opcodeFile != "" {
		table, err := opcodes.LoadFile(*opcodeFile)
		if err != nil {
			logger.Fatal(err)
		}
		opts = append(opts, gameboy.WithOpcodeInfo(table))
	}
	if *serial {
		opts = append(opts, gameboy.WithSerialWriter(os.Stdout))
	}

	gb, err := gameboy.NewGameBoy(rom, opts...)
	if err != nil {
		logger.Fatal(err)
	}

	if *headless {
		if err := runHeadless(gb, perf, *frames, *screenshot, *perfPlot); err != nil {
			logger.Fatal(err)
		}
		return
	}

	if len(display.InstalledDrivers) == 0 {
		logger.Fatal("No display drivers installed. Please compile with at least one display driver")
	}
	driver := display.GetDriver(*displayDriver)
	if driver == nil {
		logger.Fatal(fmt.Sprintf("invalid display driver %q", *displayDriver))
	}

	// attach gameboy to driver
	driver.Initialize(gb)

	fb := make(chan []byte, 60)
	events := make(chan event.Event, 60)
	pressed := make(chan joypad.Button, 10)
	released := make(chan joypad.Button, 10)

	go gb.Start(fb, events, pressed, released)

	if err := driver.Start(fb, events, pressed, released); err != nil {
		logger.Fatal(err)
	}
}

// runHeadless runs the given number of frames as fast as possible.
func runHeadless(gb *gameboy.GameBoy, perf *emulator.Performance, frames int, screenshot, perfPlot string) error {
	var frame []byte
	for i := 0; i < frames; i++ {
		frame = gb.Frame()
	}

	if screenshot != "" && frame != nil {
		img, err := utils.FrameToImage(frame, ppu.ScreenWidth, ppu.ScreenHeight)
		if err != nil {
			return err
		}
		if _, err := utils.SaveImage(img, screenshot); err != nil {
			return err
		}
	}

	if perfPlot != "" {
		return perf.SavePlot(perfPlot, 800, 400)
	}
	return nil
}
