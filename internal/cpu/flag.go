package cpu

import "github.com/pcasaretto/gameboy/internal/types"

// Flag is the mask of a flag in the F register. Only the upper
// nibble of F is used, the lower nibble is always 0.
type Flag = uint8

const (
	FlagZero      Flag = types.Bit7
	FlagSubtract  Flag = types.Bit6
	FlagHalfCarry Flag = types.Bit5
	FlagCarry     Flag = types.Bit4
)

// Flags is the decoded form of the F register.
type Flags struct {
	Zero      bool
	Subtract  bool
	HalfCarry bool
	Carry     bool
}

// Byte encodes the flags, leaving bits 0-3 clear.
func (f Flags) Byte() uint8 {
	var b uint8
	if f.Zero {
		b |= FlagZero
	}
	if f.Subtract {
		b |= FlagSubtract
	}
	if f.HalfCarry {
		b |= FlagHalfCarry
	}
	if f.Carry {
		b |= FlagCarry
	}
	return b
}

// FlagsFromByte decodes the upper nibble of b. The lower nibble
// is ignored.
func FlagsFromByte(b uint8) Flags {
	return Flags{
		Zero:      b&FlagZero != 0,
		Subtract:  b&FlagSubtract != 0,
		HalfCarry: b&FlagHalfCarry != 0,
		Carry:     b&FlagCarry != 0,
	}
}

// clearFlag clears a flag from the F register.
func (c *CPU) clearFlag(flag Flag) {
	c.F &^= flag
}

// setFlag sets a flag in the F register.
func (c *CPU) setFlag(flag Flag) {
	c.F |= flag
}

// isFlagSet returns true if the given flag is set.
func (c *CPU) isFlagSet(flag Flag) bool {
	return c.F&flag != 0
}

// setFlags sets all four flags at once.
func (c *CPU) setFlags(zero, subtract, halfCarry, carry bool) {
	c.F = Flags{zero, subtract, halfCarry, carry}.Byte()
}

// carry returns 1 if the carry flag is set, used by the
// instructions that shift or add the carry in.
func (c *CPU) carry() uint8 {
	return (c.F & FlagCarry) >> 4
}

// condition reports whether the condition encoded in bits 3-4 of a
// conditional jump/call/return opcode holds.
//
//	00 - NZ
//	01 - Z
//	10 - NC
//	11 - C
func (c *CPU) condition(opcode uint8) bool {
	switch opcode >> 3 & 0x3 {
	case 0:
		return !c.isFlagSet(FlagZero)
	case 1:
		return c.isFlagSet(FlagZero)
	case 2:
		return !c.isFlagSet(FlagCarry)
	default:
		return c.isFlagSet(FlagCarry)
	}
}

var conditionNames = [4]string{"NZ", "Z", "NC", "C"}
