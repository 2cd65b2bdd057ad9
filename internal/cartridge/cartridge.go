// Package cartridge provides the cartridge of the DMG. Only the
// flat 32kB ROM window is emulated, without banking.
package cartridge

import "fmt"

// Cartridge holds the game ROM and its parsed header.
type Cartridge struct {
	rom    []byte
	header Header
}

// New parses the header of rom and returns a Cartridge. An error is
// returned if rom is too short to hold a header.
func New(rom []byte) (*Cartridge, error) {
	if len(rom) < 0x150 {
		return nil, fmt.Errorf("cartridge: rom too short: %d bytes", len(rom))
	}

	// parse the cartridge header (0x0100 - 0x014F)
	header, err := parseHeader(rom[0x100:0x150])
	if err != nil {
		return nil, err
	}

	return &Cartridge{
		rom:    rom,
		header: header,
	}, nil
}

// NewEmptyCartridge returns a cartridge with no ROM, which reads
// 0xFF across the whole window, as an empty slot would.
func NewEmptyCartridge() *Cartridge {
	return &Cartridge{}
}

// Header returns the parsed header.
func (c *Cartridge) Header() Header {
	return c.header
}

// Title returns the cartridge title.
func (c *Cartridge) Title() string {
	return c.header.Title
}

// Read returns the byte of the ROM at address, or 0xFF past the
// end of the image.
func (c *Cartridge) Read(address uint16) uint8 {
	if int(address) >= len(c.rom) {
		return 0xFF
	}
	return c.rom[address]
}
