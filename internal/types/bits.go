package types

// Single bit masks, used to test and set the bits of the hardware
// registers, e.g. LCDC&Bit7 for the LCD enable bit.
const (
	Bit0 = 0x01
	Bit1 = 0x02
	Bit2 = 0x04
	Bit3 = 0x08
	Bit4 = 0x10
	Bit5 = 0x20
	Bit6 = 0x40
	Bit7 = 0x80
)
