// Package lcd decodes the LCD control register.
package lcd

import "github.com/pcasaretto/gameboy/internal/types"

// Controller is the LCD controller. It is responsible for controlling various
// aspects of the LCD, such as enabling the background and window display.
//
// Its value is stored in the LCD Control Register (0xFF40) as follows:
//
//	Bit 7 - LCD Enable             (0=Off, 1=On)
//	Bit 6 - Window Tile Map Display Select (0=9800-9BFF, 1=9C00-9FFF)
//	Bit 5 - Window Display Enable          (0=Off, 1=On)
//	Bit 4 - BG & Window Tile Data Select   (0=8800-97FF, 1=8000-8FFF)
//	Bit 3 - BG Tile Map Display Select     (0=9800-9BFF, 1=9C00-9FFF)
//	Bit 2 - OBJ (Sprite) Size              (0=8x8, 1=8x16)
//	Bit 1 - OBJ (Sprite) Display Enable    (0=Off, 1=On)
//	Bit 0 - BG/Window Display/Priority     (0=Off, 1=On)
type Controller struct {
	// Enabled is the LCD Enable bit. When set, the LCD is enabled.
	Enabled bool
	// WindowTileMapAddress represents the Window Tile Map Display Select bit.
	// For convenience, this is stored as an uint16 depicting the start
	// address of the tile map.
	WindowTileMapAddress uint16
	// WindowEnabled is the Window Display Enable bit. When set, the window is
	// enabled.
	WindowEnabled bool
	// TileDataAddress represents the BG & Window Tile Data Select bit. When
	// set, the tile data is located at 0x8000-0x8FFF. Otherwise, it is located
	// at 0x8800-0x97FF (signed).
	TileDataAddress uint16
	// BackgroundTileMapAddress represents the BG Tile Map Display Select bit.
	BackgroundTileMapAddress uint16
	// SpriteSize is the height of the sprites, 8 when the OBJ Size bit is
	// reset and 16 when it is set.
	SpriteSize uint8
	// SpriteEnabled is the OBJ (Sprite) Display Enable bit. When set, sprites
	// are enabled.
	SpriteEnabled bool
	// BackgroundEnabled is the BG/Window Display/Priority bit. When set, the
	// background and window are enabled.
	BackgroundEnabled bool
}

// Decode decodes the value of the LCD control register.
func Decode(value uint8) Controller {
	c := Controller{
		Enabled:                  value&types.Bit7 != 0,
		WindowTileMapAddress:     0x9800,
		WindowEnabled:            value&types.Bit5 != 0,
		TileDataAddress:          0x8800,
		BackgroundTileMapAddress: 0x9800,
		SpriteSize:               8,
		SpriteEnabled:            value&types.Bit1 != 0,
		BackgroundEnabled:        value&types.Bit0 != 0,
	}
	if value&types.Bit6 != 0 {
		c.WindowTileMapAddress = 0x9C00
	}
	if value&types.Bit4 != 0 {
		c.TileDataAddress = 0x8000
	}
	if value&types.Bit3 != 0 {
		c.BackgroundTileMapAddress = 0x9C00
	}
	if value&types.Bit2 != 0 {
		c.SpriteSize = 16
	}
	return c
}

// Byte encodes the controller back into the register value.
func (c Controller) Byte() uint8 {
	var value uint8
	if c.Enabled {
		value |= types.Bit7
	}
	if c.WindowTileMapAddress == 0x9C00 {
		value |= types.Bit6
	}
	if c.WindowEnabled {
		value |= types.Bit5
	}
	if c.TileDataAddress == 0x8000 {
		value |= types.Bit4
	}
	if c.BackgroundTileMapAddress == 0x9C00 {
		value |= types.Bit3
	}
	if c.SpriteSize == 16 {
		value |= types.Bit2
	}
	if c.SpriteEnabled {
		value |= types.Bit1
	}
	if c.BackgroundEnabled {
		value |= types.Bit0
	}
	return value
}

// UsingSignedTileData returns true if the LCD controller is using signed tile
// data.
func (c Controller) UsingSignedTileData() bool {
	return c.TileDataAddress == 0x8800
}

// TileAddress returns the address of the tile data of the given tile
// index. In signed mode the index is offset by 128 from 0x8800, so
// that index 0 lands at 0x9000.
func (c Controller) TileAddress(index uint8) uint16 {
	if c.UsingSignedTileData() {
		return c.TileDataAddress + uint16(int16(int8(index))+128)*16
	}
	return c.TileDataAddress + uint16(index)*16
}
