// Package timer provides an implementation of the Game Boy
// timer. It is used to generate interrupts at a specific
// frequency. The frequency can be configured using the
// TimerControlRegister.
package timer

import (
	"fmt"

	"github.com/pcasaretto/gameboy/internal/interrupts"
	"github.com/pcasaretto/gameboy/internal/types"
)

// ClockSpeed is the frequency of the system clock in Hz.
const ClockSpeed = 4194304

// Controller is a timer controller. It is used to generate
// interrupts at a specific frequency. The frequency can be
// configured using the types.TAC register.
//
// The controller keeps its accumulators privately and reads
// and writes DIV, TIMA, TMA and TAC through the raw memory
// interface, so that its own updates bypass the side effects
// of the bus (such as DIV resetting on write).
type Controller struct {
	mem types.Memory
	irq interrupts.Requester

	// divider accumulates ticks, DIV is incremented every
	// time it wraps (every 256 ticks).
	divider uint8
	// counter accumulates ticks while the timer is enabled,
	// TIMA is incremented every time it reaches the
	// threshold of the selected frequency.
	counter uint32
}

// NewController returns a new timer controller.
func NewController(mem types.Memory, irq interrupts.Requester) *Controller {
	return &Controller{
		mem: mem,
		irq: irq,
	}
}

// Step advances the timer by the given number of ticks.
func (c *Controller) Step(ticks uint8) {
	c.stepDivider(ticks)

	tac := c.mem.Get(types.TAC)
	if tac&types.Bit2 == 0 {
		return
	}

	c.counter += uint32(ticks)
	threshold := uint32(ClockSpeed / frequency(tac))
	if c.counter < threshold {
		return
	}
	c.counter = 0

	tima := c.mem.Get(types.TIMA)
	if tima == 0xFF {
		c.mem.Set(types.TIMA, c.mem.Get(types.TMA))
		c.irq.Request(interrupts.TimerFlag)
		return
	}
	c.mem.Set(types.TIMA, tima+1)
}

func (c *Controller) stepDivider(ticks uint8) {
	before := c.divider
	c.divider += ticks
	if c.divider < before {
		c.mem.Set(types.DIV, c.mem.Get(types.DIV)+1)
	}
}

// frequency returns the frequency in Hz selected by bits 0-1
// of the TAC register.
//
//	00 - 4096 Hz
//	01 - 262144 Hz
//	10 - 65536 Hz
//	11 - 16384 Hz
func frequency(tac uint8) uint32 {
	switch tac & 0x3 {
	case 0:
		return 4096
	case 1:
		return 262144
	case 2:
		return 65536
	case 3:
		return 16384
	}
	panic(fmt.Sprintf("timer: invalid frequency selection %02b", tac&0x3))
}
