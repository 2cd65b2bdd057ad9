package ppu

import (
	"github.com/pcasaretto/gameboy/internal/ppu/lcd"
	"github.com/pcasaretto/gameboy/internal/ppu/palette"
	"github.com/pcasaretto/gameboy/internal/types"
)

// renderBackground renders the background and window for scanline
// ly. The window is decided per pixel: it covers every pixel at or
// past WX-7 once ly has reached WY.
func (p *PPU) renderBackground(control lcd.Controller, ly uint8) {
	scy, scx := p.mem.Get(types.SCY), p.mem.Get(types.SCX)
	wy, wx := p.mem.Get(types.WY), int(p.mem.Get(types.WX))-7
	bgp := p.mem.Get(types.BGP)

	windowLine := control.WindowEnabled && wy <= ly

	for pixel := 0; pixel < ScreenWidth; pixel++ {
		tileMap := control.BackgroundTileMapAddress
		x, y := uint8(pixel)+scx, scy+ly
		if windowLine && pixel >= wx {
			tileMap = control.WindowTileMapAddress
			x, y = uint8(pixel-wx), ly-wy
		}

		index := p.mem.Get(tileMap + uint16(y/8)*32 + uint16(x/8))
		colour := p.tileRow(control.TileAddress(index), y%8).colour(x % 8)
		p.setPixel(pixel, ly, palette.Shade(bgp, colour))
	}
}
