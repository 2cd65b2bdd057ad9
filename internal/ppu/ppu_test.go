package ppu

import (
	"testing"

	"github.com/pcasaretto/gameboy/internal/interrupts"
	"github.com/pcasaretto/gameboy/internal/ppu/palette"
	"github.com/pcasaretto/gameboy/internal/types"
)

type memory [0x10000]uint8

func (m *memory) Get(address uint16) uint8        { return m[address] }
func (m *memory) Set(address uint16, value uint8) { m[address] = value }

const (
	white     = 0xFFFFFFFF
	lightGrey = 0xCCCCCCFF
	darkGrey  = 0x777777FF
	black     = 0x000000FF
)

func newTestPPU() (*PPU, *memory) {
	mem := &memory{}
	return New(mem, interrupts.NewService(mem)), mem
}

// stepScanline advances the PPU by exactly one scanline.
func stepScanline(p *PPU) {
	for i := 0; i < ScanlineTicks/4; i++ {
		p.Step(4)
	}
}

func TestPPU_VBlank(t *testing.T) {
	p, mem := newTestPPU()
	mem.Set(types.LY, 142)

	stepScanline(p)
	if mem.Get(types.LY) != 143 || p.HasFrame() {
		t.Fatalf("expected LY 143 without a frame, got LY %d", mem.Get(types.LY))
	}
	if mem.Get(types.IF) != 0 {
		t.Errorf("expected no interrupt before line 144, got IF=%08b", mem.Get(types.IF))
	}

	stepScanline(p)
	if mem.Get(types.LY) != 144 {
		t.Fatalf("expected LY 144, got %d", mem.Get(types.LY))
	}
	if mem.Get(types.IF)&interrupts.VBlankFlag == 0 {
		t.Errorf("expected the VBlank interrupt to be requested")
	}
	if !p.HasFrame() {
		t.Errorf("expected a frame to be ready")
	}
	if len(p.Frame()) != ScreenWidth*ScreenHeight*4 || p.HasFrame() {
		t.Errorf("expected a full RGBA frame and the ready flag to be cleared")
	}
}

func TestPPU_StepAccumulates(t *testing.T) {
	p, mem := newTestPPU()
	for i := 0; i < ScanlineTicks/4-1; i++ {
		p.Step(4)
	}
	if mem.Get(types.LY) != 0 {
		t.Errorf("expected LY to stay at 0 before a full scanline, got %d", mem.Get(types.LY))
	}
	p.Step(4)
	if mem.Get(types.LY) != 1 {
		t.Errorf("expected LY 1 after a full scanline, got %d", mem.Get(types.LY))
	}
}

func TestPPU_Wrap(t *testing.T) {
	p, mem := newTestPPU()
	mem.Set(types.LY, 153)
	stepScanline(p)
	if mem.Get(types.LY) != 0 {
		t.Errorf("expected LY to wrap to 0, got %d", mem.Get(types.LY))
	}
}

// writeTile writes a tile with every row set to the given planes.
func writeTile(mem *memory, address uint16, low, high uint8) {
	for row := uint16(0); row < 8; row++ {
		mem.Set(address+row*2, low)
		mem.Set(address+row*2+1, high)
	}
}

func TestPPU_Background(t *testing.T) {
	p, mem := newTestPPU()
	mem.Set(types.LCDC, 0x91) // LCD on, unsigned tile data, background on
	mem.Set(types.BGP, 0xE4)  // identity

	// tile 1: colours 3 2 1 0 3 2 1 0
	writeTile(mem, 0x8010, 0b1010_1010, 0b1100_1100)
	mem.Set(0x9800, 0x01)

	stepScanline(p) // renders line 1

	want := []uint32{black, darkGrey, lightGrey, white, black, darkGrey, lightGrey, white}
	for x, w := range want {
		if got := p.Pixel(x, 1); got != w {
			t.Errorf("pixel %d: expected %08X, got %08X", x, w, got)
		}
	}
	// tile 0 is blank
	if got := p.Pixel(8, 1); got != white {
		t.Errorf("expected tile 0 to be white, got %08X", got)
	}
}

func TestPPU_SignedTileData(t *testing.T) {
	p, mem := newTestPPU()
	mem.Set(types.LCDC, 0x81) // signed tile data
	mem.Set(types.BGP, 0xE4)

	writeTile(mem, 0x9000, 0xFF, 0xFF) // index 0
	writeTile(mem, 0x8800, 0xFF, 0x00) // index 0x80
	mem.Set(0x9800, 0x00)
	mem.Set(0x9801, 0x80)

	stepScanline(p)

	if got := p.Pixel(0, 1); got != black {
		t.Errorf("expected index 0 to resolve to 0x9000, got %08X", got)
	}
	if got := p.Pixel(8, 1); got != lightGrey {
		t.Errorf("expected index 0x80 to resolve to 0x8800, got %08X", got)
	}
}

func TestPPU_Window(t *testing.T) {
	p, mem := newTestPPU()
	mem.Set(types.LCDC, 0xF1) // window on, window map 0x9C00
	mem.Set(types.BGP, 0xE4)
	mem.Set(types.WY, 0)
	mem.Set(types.WX, 7+80)

	writeTile(mem, 0x8010, 0xFF, 0xFF)
	mem.Set(0x9C00, 0x01)

	stepScanline(p)

	if got := p.Pixel(79, 1); got != white {
		t.Errorf("expected the background left of WX, got %08X", got)
	}
	if got := p.Pixel(80, 1); got != black {
		t.Errorf("expected the window at WX-7, got %08X", got)
	}
	if got := p.Pixel(88, 1); got != white {
		t.Errorf("expected the second window tile to be blank, got %08X", got)
	}
}

func TestPPU_Sprites(t *testing.T) {
	p, mem := newTestPPU()
	mem.Set(types.LCDC, 0x93) // background and sprites
	mem.Set(types.BGP, 0xE4)
	mem.Set(types.OBP0, 0xE4)
	mem.Set(types.OBP1, 0x40) // colour 3 is light grey

	// tile 2: leftmost pixel colour 3, rest transparent
	writeTile(mem, 0x8020, 0x80, 0x80)

	// sprite 0 at (0, 0)
	mem.Set(types.OAMStart+0, 16)
	mem.Set(types.OAMStart+1, 8)
	mem.Set(types.OAMStart+2, 2)
	// sprite 1 at (20, 0), X flipped using OBP1
	mem.Set(types.OAMStart+4, 16)
	mem.Set(types.OAMStart+5, 28)
	mem.Set(types.OAMStart+6, 2)
	mem.Set(types.OAMStart+7, types.Bit5|types.Bit4)
	// sprite 2 hanging off the left edge
	mem.Set(types.OAMStart+8, 16)
	mem.Set(types.OAMStart+9, 4)
	mem.Set(types.OAMStart+10, 2)

	stepScanline(p)

	if got := p.Pixel(0, 1); got != black {
		t.Errorf("expected sprite pixel at 0, got %08X", got)
	}
	if got := p.Pixel(1, 1); got != white {
		t.Errorf("expected colour 0 to be transparent, got %08X", got)
	}
	if got := p.Pixel(27, 1); got != lightGrey {
		t.Errorf("expected X flipped sprite pixel at 27 through OBP1, got %08X", got)
	}
	if got := p.Pixel(20, 1); got != white {
		t.Errorf("expected X flipped sprite to leave 20 transparent, got %08X", got)
	}
}

func TestPPU_TallSprites(t *testing.T) {
	p, mem := newTestPPU()
	mem.Set(types.LCDC, 0x86) // sprites on, 8x16, background off
	mem.Set(types.OBP0, 0xE4)

	writeTile(mem, 0x8020, 0x00, 0x00) // tile 2
	writeTile(mem, 0x8030, 0xFF, 0x00) // tile 3

	mem.Set(types.OAMStart+0, 16)
	mem.Set(types.OAMStart+1, 8)
	mem.Set(types.OAMStart+2, 3) // bit 0 is ignored, top half is tile 2

	mem.Set(types.LY, 8)
	stepScanline(p) // line 9, bottom half

	if got := p.Pixel(0, 9); got != lightGrey {
		t.Errorf("expected the bottom half from tile 3, got %08X", got)
	}
}

func TestPPU_Palette(t *testing.T) {
	p, mem := newTestPPU()
	p.SetPalette(palette.Green)
	mem.Set(types.LCDC, 0x91)
	mem.Set(types.BGP, 0xE4)

	stepScanline(p)
	if got := p.Pixel(0, 1); got != palette.Palettes[palette.Green].RGBA(0) {
		t.Errorf("expected the green palette, got %08X", got)
	}
}

func TestPPU_SetPaletteWraps(t *testing.T) {
	p, _ := newTestPPU()
	last := len(palette.Palettes) - 1

	p.SetPalette(-1)
	if p.palette.Name != palette.Palettes[last].Name {
		t.Errorf("expected -1 to select %s, got %s", palette.Palettes[last].Name, p.palette.Name)
	}
	p.SetPalette(last + 1)
	if p.palette.Name != palette.Palettes[0].Name {
		t.Errorf("expected %d to wrap to %s, got %s", last+1, palette.Palettes[0].Name, p.palette.Name)
	}
}

func TestPPU_FrameHash(t *testing.T) {
	p, mem := newTestPPU()
	before := p.FrameHash()

	mem.Set(types.LCDC, 0x91)
	mem.Set(types.BGP, 0xE4)
	stepScanline(p)
	if p.FrameHash() == before {
		t.Errorf("expected the hash to change once a line is drawn")
	}
	if p.FrameHash() != p.FrameHash() {
		t.Errorf("expected the hash to be stable")
	}
}
