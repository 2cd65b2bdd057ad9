package cartridge

import "testing"

// testROM returns a 32kB ROM image with a valid header.
func testROM(title string, t Type) []byte {
	rom := make([]byte, 0x8000)
	copy(rom[0x134:], title)
	rom[0x147] = byte(t)
	rom[0x148] = 0x00

	var sum uint8
	for _, b := range rom[0x134:0x14D] {
		sum = sum - b - 1
	}
	rom[0x14D] = sum
	return rom
}

func TestNew(t *testing.T) {
	rom := testROM("TETRIS", ROM)
	rom[0x0150] = 0xC3

	c, err := New(rom)
	if err != nil {
		t.Fatal(err)
	}
	h := c.Header()
	if c.Title() != "TETRIS" {
		t.Errorf("expected title TETRIS, got %q", c.Title())
	}
	if !h.Valid() {
		t.Errorf("expected the header checksum to be valid")
	}
	if h.ROMSize != 32*1024 || h.Hardware() != "DMG" {
		t.Errorf("unexpected header %s", h.String())
	}
	if h.CartridgeType.RequiresMBC() {
		t.Errorf("expected a plain ROM not to require an MBC")
	}
	if c.Read(0x0150) != 0xC3 {
		t.Errorf("expected 0xC3 at 0x0150, got 0x%02X", c.Read(0x0150))
	}
}

func TestNew_InvalidChecksum(t *testing.T) {
	rom := testROM("BAD", MBC1)
	rom[0x14D]++

	c, err := New(rom)
	if err != nil {
		t.Fatal(err)
	}
	h := c.Header()
	if h.Valid() {
		t.Errorf("expected the header checksum to be invalid")
	}
	if !h.CartridgeType.RequiresMBC() || h.CartridgeType.String() != "MBC1" {
		t.Errorf("expected an MBC1 cartridge, got %s", h.CartridgeType)
	}
}

func TestNew_TooShort(t *testing.T) {
	if _, err := New(make([]byte, 0x14F)); err == nil {
		t.Errorf("expected an error for a rom without a header")
	}
}

func TestCartridge_ReadPastEnd(t *testing.T) {
	c, err := New(testROM("SMALL", ROM)[:0x200])
	if err != nil {
		t.Fatal(err)
	}
	if c.Read(0x7FFF) != 0xFF {
		t.Errorf("expected 0xFF past the end of the image, got 0x%02X", c.Read(0x7FFF))
	}
	if NewEmptyCartridge().Read(0x0100) != 0xFF {
		t.Errorf("expected an empty cartridge to read 0xFF")
	}
}
