package cpu

import "fmt"

// Register represents a GB Register which is used to hold an 8-bit value.
// The CPU has 8 registers: A, B, C, D, E, H, L, and F. The F register is
// special in that it is used to hold the flags.
type Register = uint8

// RegisterPair represents a pair of GB Registers which is used to hold a 16-bit
// value. The CPU has 4 register pairs: AF, BC, DE, and HL.
type RegisterPair struct {
	High *Register
	Low  *Register
}

// Uint16 returns the value of the RegisterPair as an uint16.
func (r *RegisterPair) Uint16() uint16 {
	return uint16(*r.High)<<8 | uint16(*r.Low)
}

// SetUint16 sets the value of the RegisterPair to the given value.
func (r *RegisterPair) SetUint16(value uint16) {
	*r.High = uint8(value >> 8)
	*r.Low = uint8(value)
}

// Register8 identifies one of the 8-bit registers.
type Register8 uint8

// The order matches the 3-bit register field of the opcodes,
// with index 6 ((HL)) left out as it is not a register.
const (
	RegB Register8 = iota
	RegC
	RegD
	RegE
	RegH
	RegL
	RegF
	RegA
)

var register8Names = [8]string{"B", "C", "D", "E", "H", "L", "F", "A"}

func (r Register8) String() string {
	return register8Names[r&7]
}

// Register16 identifies one of the 16-bit registers, either a
// register pair or one of SP and PC.
type Register16 uint8

const (
	RegAF Register16 = iota
	RegBC
	RegDE
	RegHL
	RegSP
	RegPC
)

var register16Names = [6]string{"AF", "BC", "DE", "HL", "SP", "PC"}

func (r Register16) String() string {
	if int(r) < len(register16Names) {
		return register16Names[r]
	}
	return fmt.Sprintf("Register16(%d)", uint8(r))
}

// Registers represents the GB CPU registers. The zero value is
// usable through Get8/Set8 and Get16/Set16; the RegisterPair
// pointers are wired up by NewCPU.
type Registers struct {
	A Register
	B Register
	C Register
	D Register
	E Register
	F Register
	H Register
	L Register

	// SP is the stack pointer, it points to the top of the stack.
	SP uint16
	// PC is the program counter, it points to the next instruction to be executed.
	PC uint16

	BC *RegisterPair
	DE *RegisterPair
	HL *RegisterPair
	AF *RegisterPair
}

// Get8 returns the value of the given 8-bit register.
func (r *Registers) Get8(reg Register8) uint8 {
	switch reg {
	case RegA:
		return r.A
	case RegB:
		return r.B
	case RegC:
		return r.C
	case RegD:
		return r.D
	case RegE:
		return r.E
	case RegF:
		return r.F
	case RegH:
		return r.H
	case RegL:
		return r.L
	}
	panic(fmt.Sprintf("cpu: invalid 8-bit register %d", reg))
}

// Set8 sets the value of the given 8-bit register. Writes to F
// drop the low nibble, which always reads back as zero.
func (r *Registers) Set8(reg Register8, value uint8) {
	switch reg {
	case RegA:
		r.A = value
	case RegB:
		r.B = value
	case RegC:
		r.C = value
	case RegD:
		r.D = value
	case RegE:
		r.E = value
	case RegF:
		r.F = value & 0xF0
	case RegH:
		r.H = value
	case RegL:
		r.L = value
	default:
		panic(fmt.Sprintf("cpu: invalid 8-bit register %d", reg))
	}
}

// Get16 returns the big-endian composition of the given register
// pair, or the value of SP/PC.
func (r *Registers) Get16(reg Register16) uint16 {
	switch reg {
	case RegAF:
		return uint16(r.A)<<8 | uint16(r.F)
	case RegBC:
		return uint16(r.B)<<8 | uint16(r.C)
	case RegDE:
		return uint16(r.D)<<8 | uint16(r.E)
	case RegHL:
		return uint16(r.H)<<8 | uint16(r.L)
	case RegSP:
		return r.SP
	case RegPC:
		return r.PC
	}
	panic(fmt.Sprintf("cpu: invalid 16-bit register %d", reg))
}

// Set16 decomposes value into the given register pair, high byte
// first, or sets SP/PC.
func (r *Registers) Set16(reg Register16, value uint16) {
	hi, lo := uint8(value>>8), uint8(value)
	switch reg {
	case RegAF:
		r.A, r.F = hi, lo&0xF0
	case RegBC:
		r.B, r.C = hi, lo
	case RegDE:
		r.D, r.E = hi, lo
	case RegHL:
		r.H, r.L = hi, lo
	case RegSP:
		r.SP = value
	case RegPC:
		r.PC = value
	default:
		panic(fmt.Sprintf("cpu: invalid 16-bit register %d", reg))
	}
}

// Flags returns the decoded F register.
func (r *Registers) Flags() Flags {
	return FlagsFromByte(r.F)
}

// LoadFlags encodes f into the F register.
func (r *Registers) LoadFlags(f Flags) {
	r.F = f.Byte()
}

func (r *Registers) String() string {
	return fmt.Sprintf("A: %02X F: %02X B: %02X C: %02X D: %02X E: %02X H: %02X L: %02X SP: %04X PC: %04X",
		r.A, r.F, r.B, r.C, r.D, r.E, r.H, r.L, r.SP, r.PC)
}
