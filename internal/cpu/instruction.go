package cpu

import (
	"fmt"
)

// Instruction is a decoded operation. fn performs the effect of the
// instruction against the CPU and returns the number of T-states
// (clock ticks) that it took.
type Instruction struct {
	name   string
	length uint8
	fn     func(*CPU) uint8
}

// Name returns the mnemonic of the instruction, e.g. "LD A, (HL)".
func (i Instruction) Name() string {
	return i.name
}

// Length returns the encoded length of the instruction in bytes,
// including the 0xCB prefix for the extended instructions.
func (i Instruction) Length() uint8 {
	return i.length
}

// Execute runs the instruction against c and returns the elapsed
// T-states.
func (i Instruction) Execute(c *CPU) uint8 {
	return i.fn(c)
}

var (
	// InstructionSet holds the unprefixed instructions, indexed by opcode.
	InstructionSet [256]Instruction
	// InstructionSetCB holds the instructions prefixed by 0xCB, indexed
	// by the byte following the prefix.
	InstructionSetCB [256]Instruction
)

// advance wraps fn so that PC is moved past the instruction once fn
// has run. Every instruction that does not transfer control is
// defined through it, so operations only ever read their operands
// relative to PC.
func advance(length uint8, fn func(*CPU) uint8) func(*CPU) uint8 {
	return func(c *CPU) uint8 {
		ticks := fn(c)
		c.PC += uint16(length)
		return ticks
	}
}

// defineInstruction defines an instruction in the InstructionSet with
// a fixed tick cost. PC is advanced by length after fn executes.
func defineInstruction(opcode uint8, name string, length, ticks uint8, fn func(*CPU)) {
	InstructionSet[opcode] = Instruction{
		name:   name,
		length: length,
		fn: advance(length, func(c *CPU) uint8 {
			fn(c)
			return ticks
		}),
	}
}

// defineControl defines a control transfer instruction (jumps, calls,
// returns, restarts). fn is responsible for setting PC on both the
// taken and not taken paths, and for returning the matching tick cost.
func defineControl(opcode uint8, name string, length uint8, fn func(*CPU) uint8) {
	InstructionSet[opcode] = Instruction{
		name:   name,
		length: length,
		fn:     fn,
	}
}

// defineInstructionCB defines an instruction in the InstructionSetCB.
// All extended instructions are two bytes long, prefix included.
func defineInstructionCB(opcode uint8, name string, ticks uint8, fn func(*CPU)) {
	InstructionSetCB[opcode] = Instruction{
		name:   name,
		length: 2,
		fn: advance(2, func(c *CPU) uint8 {
			fn(c)
			return ticks
		}),
	}
}

// illegalOpcodes are not implemented by the SM83. Executing one
// locks up the real hardware.
var illegalOpcodes = []uint8{
	0xD3, 0xDB, 0xDD, 0xE3, 0xE4, 0xEB, 0xEC, 0xED, 0xF4, 0xFC, 0xFD,
}

// undefined returns an instruction body that panics. Reaching one
// means the decode table is incomplete or the CPU ran into data.
func undefined(opcode uint8, prefixed bool) func(*CPU) uint8 {
	return func(c *CPU) uint8 {
		if prefixed {
			panic(fmt.Sprintf("cpu: undefined opcode 0xCB%02X at 0x%04X", opcode, c.PC))
		}
		panic(fmt.Sprintf("cpu: undefined opcode 0x%02X at 0x%04X", opcode, c.PC))
	}
}

func init() {
	for i := range InstructionSet {
		InstructionSet[i] = Instruction{name: fmt.Sprintf("ILLEGAL_%02X", i), length: 1, fn: undefined(uint8(i), false)}
		InstructionSetCB[i] = Instruction{name: fmt.Sprintf("ILLEGAL_CB_%02X", i), length: 2, fn: undefined(uint8(i), true)}
	}

	decodeUnprefixed()
	decodeCB()
}
