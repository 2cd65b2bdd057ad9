package ppu

import (
	"github.com/pcasaretto/gameboy/internal/ppu/lcd"
	"github.com/pcasaretto/gameboy/internal/ppu/palette"
	"github.com/pcasaretto/gameboy/internal/types"
)

// maxSprites is the number of entries in the sprite attribute table.
const maxSprites = 40

// Sprite is an entry of the sprite attribute table (OAM). Positions
// are stored offset, so that a sprite can be partially off screen.
type Sprite struct {
	// Y is the vertical position of the sprite, plus 16.
	Y uint8
	// X is the horizontal position of the sprite, plus 8.
	X uint8
	// TileID is the index of the sprite's tile, always from 0x8000.
	TileID uint8
	spriteAttributes
}

// spriteAttributes represents the attributes of a sprite. The
// OBJ-to-BG priority bit (7) is not honoured, sprites are always
// drawn above the background.
type spriteAttributes struct {
	// Bit 6 - Y flip          (0=Normal, 1=Vertically mirrored)
	flipY bool
	// Bit 5 - X flip          (0=Normal, 1=Horizontally mirrored)
	flipX bool
	// Bit 4 - Palette number  (0=OBP0, 1=OBP1)
	useSecondPalette bool
}

// readSprite decodes OAM entry i.
func (p *PPU) readSprite(i int) Sprite {
	address := types.OAMStart + uint16(i)*4
	attributes := p.mem.Get(address + 3)
	return Sprite{
		Y:      p.mem.Get(address),
		X:      p.mem.Get(address + 1),
		TileID: p.mem.Get(address + 2),
		spriteAttributes: spriteAttributes{
			flipY:            attributes&types.Bit6 != 0,
			flipX:            attributes&types.Bit5 != 0,
			useSecondPalette: attributes&types.Bit4 != 0,
		},
	}
}

// renderSprites draws every sprite overlapping scanline ly over the
// background. Colour 0 is transparent. Sprites are drawn in OAM
// order, so later entries overwrite earlier ones.
func (p *PPU) renderSprites(control lcd.Controller, ly uint8) {
	height := int(control.SpriteSize)

	for i := 0; i < maxSprites; i++ {
		s := p.readSprite(i)

		top := int(s.Y) - 16
		line := int(ly) - top
		if line < 0 || line >= height {
			continue
		}
		if s.flipY {
			line = height - 1 - line
		}

		tile := s.TileID
		if height == 16 {
			// the hardware ignores bit 0 for 8x16 sprites
			tile &^= 0x01
		}

		obp := p.mem.Get(types.OBP0)
		if s.useSecondPalette {
			obp = p.mem.Get(types.OBP1)
		}

		row := p.tileRow(types.VRAMStart+uint16(tile)*16, uint8(line))
		left := int(s.X) - 8
		for px := 0; px < 8; px++ {
			x := left + px
			if x < 0 || x >= ScreenWidth {
				continue
			}

			bit := uint8(px)
			if s.flipX {
				bit = 7 - bit
			}
			colour := row.colour(bit)
			if colour == 0 {
				continue
			}
			p.setPixel(x, ly, palette.Shade(obp, colour))
		}
	}
}
