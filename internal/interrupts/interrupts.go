// Package interrupts provides the interrupt controller of the Game Boy.
package interrupts

import (
	"fmt"
	"math/bits"

	"github.com/pcasaretto/gameboy/internal/types"
)

const (
	// VBlankFlag is the VBlank interrupt flag (bit 0),
	// which is requested every time the PPU enters
	// VBlank (types.LY == 144).
	VBlankFlag = types.Bit0
	// LCDFlag is the LCD interrupt flag (bit 1), which
	// is requested by the LCD STAT register (types.STAT),
	// when certain conditions are met.
	LCDFlag = types.Bit1
	// TimerFlag is the Timer interrupt flag (bit 2),
	// which is requested when the timer overflows,
	// (types.TIMA > 0xFF).
	TimerFlag = types.Bit2
	// SerialFlag is the Serial interrupt flag (bit 3),
	// which is requested when a serial transfer is
	// completed.
	SerialFlag = types.Bit3
	// JoypadFlag is the Joypad interrupt Flag (bit 4),
	// which is requested when a button is pressed.
	JoypadFlag = types.Bit4

	// sources masks the five interrupt sources in IE and IF.
	sources = 0x1F
)

// Processor is the part of the CPU that the interrupt service
// drives when an interrupt is pending.
type Processor interface {
	// Wake leaves the halted state.
	Wake()
	// Call pushes the program counter and jumps to vector.
	Call(vector uint16)
}

// Requester requests interrupts.
type Requester interface {
	Request(flag uint8)
}

// Service is the interrupt service, used to request
// interrupts and to dispatch them to the CPU.
//
// When an interrupt is requested, the corresponding bit
// in the IF register is set. When an interrupt is
// enabled, the corresponding bit in the IE register
// is set. When an interrupt is requested and enabled,
// and the IME is set, the CPU will jump to the interrupt
// vector, and the corresponding bit in the IF register
// will be cleared.
//
// The IME is set by the EI and RETI instructions, and
// cleared by DI and by servicing an interrupt.
type Service struct {
	// IME is the interrupt master enable.
	IME bool

	mem types.Memory
}

// NewService returns a new Service backed by the IE and IF
// registers in mem.
func NewService(mem types.Memory) *Service {
	return &Service{mem: mem}
}

// Request requests the specified interrupt, by setting
// the corresponding bit in the IF register.
func (s *Service) Request(flag uint8) {
	s.mem.Set(types.IF, s.mem.Get(types.IF)|flag)
}

// Pending returns the interrupts that are both requested
// and enabled.
func (s *Service) Pending() uint8 {
	return s.mem.Get(types.IE) & s.mem.Get(types.IF) & sources
}

// Step checks for pending interrupts after the CPU has executed
// a step. Any pending interrupt wakes a halted CPU, even with the
// IME cleared. With the IME set, the highest priority interrupt
// (lowest bit) is serviced: the IME is cleared, its IF bit is reset
// and the CPU calls its vector. Only one interrupt is serviced per
// step, the others remain pending.
func (s *Service) Step(p Processor, _ uint8) {
	pending := s.Pending()
	if pending == 0 {
		return
	}
	p.Wake()

	if !s.IME {
		return
	}

	flag := uint8(1) << bits.TrailingZeros8(pending)
	s.IME = false
	s.mem.Set(types.IF, s.mem.Get(types.IF)&^flag)
	p.Call(Vector(flag))
}

// Vector returns the address of the handler for the given
// interrupt flag.
func Vector(flag uint8) uint16 {
	switch flag {
	case VBlankFlag:
		return 0x0040
	case LCDFlag:
		return 0x0048
	case TimerFlag:
		return 0x0050
	case SerialFlag:
		return 0x0058
	case JoypadFlag:
		return 0x0060
	}
	panic(fmt.Sprintf("interrupts: no vector for flag %08b", flag))
}
