// Package palette provides the colours used to present the four
// shades of the DMG.
package palette

import "fmt"

const (
	// Greyscale is the default greyscale palette.
	Greyscale = iota
	// Green is the green palette which attempts to emulate
	// the original colour palette as it would have appeared
	// on the original Game Boy.
	Green
	// Red is a red palette.
	Red
	// Yellow is a yellow palette.
	Yellow
)

// Palette represents a palette. A palette is an array of 4 RGB values,
// from the lightest shade (0) to the darkest (3).
type Palette struct {
	Name   string
	Colors [4][3]uint8
}

// Palettes is a list of all available palettes.
var Palettes = []Palette{
	{
		Name: "greyscale",
		Colors: [4][3]uint8{
			{0xFF, 0xFF, 0xFF},
			{0xCC, 0xCC, 0xCC},
			{0x77, 0x77, 0x77},
			{0x00, 0x00, 0x00},
		},
	},
	{
		Name: "green",
		Colors: [4][3]uint8{
			{0x9B, 0xBC, 0x0F},
			{0x8B, 0xAC, 0x0F},
			{0x30, 0x62, 0x30},
			{0x0F, 0x38, 0x0F},
		},
	},
	{
		Name: "red",
		Colors: [4][3]uint8{
			{0xFF, 0x00, 0x00},
			{0xCC, 0x00, 0x00},
			{0x77, 0x00, 0x00},
			{0x00, 0x00, 0x00},
		},
	},
	{
		Name: "yellow",
		Colors: [4][3]uint8{
			{0xFF, 0xFF, 0x00},
			{0xCC, 0xCC, 0x00},
			{0x77, 0x77, 0x00},
			{0x00, 0x00, 0x00},
		},
	},
}

// ByName returns the index of the palette with the given name.
func ByName(name string) (int, error) {
	for i, p := range Palettes {
		if p.Name == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("palette: unknown palette %q", name)
}

// RGBA returns the given shade packed as 0xRRGGBBAA, fully opaque.
func (p Palette) RGBA(shade uint8) uint32 {
	c := p.Colors[shade&0x3]
	return uint32(c[0])<<24 | uint32(c[1])<<16 | uint32(c[2])<<8 | 0xFF
}

// Shade resolves a 2 bit colour index through a palette register
// such as BGP, OBP0 or OBP1.
//
//	Bit 7-6 - Shade for Color Number 3
//	Bit 5-4 - Shade for Color Number 2
//	Bit 3-2 - Shade for Color Number 1
//	Bit 1-0 - Shade for Color Number 0
func Shade(register, index uint8) uint8 {
	return register >> (index * 2) & 0x3
}
