package gameboy

import (
	"io"

	"github.com/pcasaretto/gameboy/internal/opcodes"
	"github.com/pcasaretto/gameboy/pkg/emulator"
	"github.com/pcasaretto/gameboy/pkg/log"
)

// Opt is a function that modifies a GameBoy
// instance before it is powered on.
type Opt func(gb *GameBoy)

// Debug enables tracing of every executed instruction, logged
// at debug level through the CPU's logger.
func Debug() Opt {
	return func(gb *GameBoy) {
		gb.config.trace = true
	}
}

// WithOpcodeInfo attaches opcode metadata, used to describe the
// instructions in trace lines.
func WithOpcodeInfo(table *opcodes.Table) Opt {
	return func(gb *GameBoy) {
		gb.config.opcodes = table
	}
}

func WithLogger(log log.Logger) Opt {
	return func(gb *GameBoy) {
		gb.Logger = log
	}
}

// WithBootROM sets the boot ROM for the emulator. Without a boot
// ROM the emulator starts at 0x100 with the registers set to the
// values upon completion of the boot ROM.
func WithBootROM(rom []byte) Opt {
	return func(gb *GameBoy) {
		gb.config.bootROM = rom
	}
}

// WithSerialWriter sends every byte transferred through the serial
// port to w. Test ROMs use this to report their results.
func WithSerialWriter(w io.Writer) Opt {
	return func(gb *GameBoy) {
		gb.config.serial = w
	}
}

// WithPalette selects the palette used to colour frames, see
// palette.Palettes.
func WithPalette(index int) Opt {
	return func(gb *GameBoy) {
		gb.config.palette = index
	}
}

// WithPerformance records the time taken by every frame.
func WithPerformance(p *emulator.Performance) Opt {
	return func(gb *GameBoy) {
		gb.Performance = p
	}
}

func Speed(speed float64) Opt {
	return func(gb *GameBoy) {
		gb.config.speed = speed
	}
}
