// Package ppu provides the scanline renderer of the Game Boy.
package ppu

import (
	"encoding/binary"

	"github.com/cespare/xxhash"
	"github.com/pcasaretto/gameboy/internal/interrupts"
	"github.com/pcasaretto/gameboy/internal/ppu/lcd"
	"github.com/pcasaretto/gameboy/internal/ppu/palette"
	"github.com/pcasaretto/gameboy/internal/types"
)

const (
	// ScreenWidth is the width of the screen in pixels.
	ScreenWidth = 160
	// ScreenHeight is the height of the screen in pixels.
	ScreenHeight = 144

	// ScanlineTicks is the number of ticks taken to draw a
	// single scanline (456 dots, 4 ticks each).
	ScanlineTicks = 456 * 4
	// lastScanline is the last scanline of the VBlank period,
	// after which LY wraps back to 0.
	lastScanline = 153
)

// PPU implements the Game Boy's (P)ixel (P)rocessing (U)nit. Rather
// than emulating the pixel FIFO, a whole scanline is rendered at once
// every time the scanline period elapses.
//
// References:
//   - [Pan Docs](https://gbdev.io/pandocs/Graphics.html)
type PPU struct {
	mem types.Memory
	irq interrupts.Requester

	// ticks accumulated toward the next scanline
	ticks uint32

	// framebuffer holds one 0xRRGGBBAA colour per pixel
	framebuffer [ScreenWidth * ScreenHeight]uint32
	frameReady  bool

	palette palette.Palette
}

// New returns a new PPU drawing the registers and VRAM found in mem.
func New(mem types.Memory, irq interrupts.Requester) *PPU {
	return &PPU{
		mem:     mem,
		irq:     irq,
		palette: palette.Palettes[palette.Greyscale],
	}
}

// SetPalette selects the colours used for the four shades. The
// index wraps around palette.Palettes in both directions.
func (p *PPU) SetPalette(index int) {
	n := len(palette.Palettes)
	p.palette = palette.Palettes[(index%n+n)%n]
}

// Step advances the PPU by the given number of ticks. Once a
// scanline period has elapsed, LY is advanced and the new
// scanline is rendered. Entering line 144 requests the VBlank
// interrupt and marks the frame as ready.
func (p *PPU) Step(ticks uint8) {
	p.ticks += uint32(ticks)
	if p.ticks < ScanlineTicks {
		return
	}
	p.ticks = 0

	ly := p.mem.Get(types.LY)
	if ly >= lastScanline {
		ly = 0
	} else {
		ly++
	}
	p.mem.Set(types.LY, ly)

	if ly == ScreenHeight {
		p.irq.Request(interrupts.VBlankFlag)
		p.frameReady = true
	}

	control := lcd.Decode(p.mem.Get(types.LCDC))
	if ly >= ScreenHeight {
		return
	}
	if control.BackgroundEnabled {
		p.renderBackground(control, ly)
	}
	if control.SpriteEnabled {
		p.renderSprites(control, ly)
	}
}

// HasFrame reports whether a frame has been completed since the
// last call to Frame.
func (p *PPU) HasFrame() bool {
	return p.frameReady
}

// Frame returns the current frame as RGBA bytes, 4 bytes per pixel,
// and clears the ready flag.
func (p *PPU) Frame() []byte {
	p.frameReady = false
	frame := make([]byte, len(p.framebuffer)*4)
	for i, c := range p.framebuffer {
		binary.BigEndian.PutUint32(frame[i*4:], c)
	}
	return frame
}

// Pixel returns the colour at x, y as 0xRRGGBBAA.
func (p *PPU) Pixel(x, y int) uint32 {
	return p.framebuffer[y*ScreenWidth+x]
}

// FrameHash returns the xxhash digest of the framebuffer, which
// is used to tell frames apart without comparing them.
func (p *PPU) FrameHash() uint64 {
	var b [4]byte
	d := xxhash.New()
	for _, c := range p.framebuffer {
		binary.BigEndian.PutUint32(b[:], c)
		_, _ = d.Write(b[:])
	}
	return d.Sum64()
}

func (p *PPU) setPixel(x int, y uint8, shade uint8) {
	p.framebuffer[int(y)*ScreenWidth+x] = p.palette.RGBA(shade)
}
