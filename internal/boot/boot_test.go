package boot

import "testing"

func TestLoadBootROM(t *testing.T) {
	raw := make([]byte, Size)
	raw[0x00] = 0x31
	raw[0xFF] = 0x50

	rom, err := LoadBootROM(raw)
	if err != nil {
		t.Fatal(err)
	}
	if rom.Read(0x00) != 0x31 || rom.Read(0xFF) != 0x50 {
		t.Errorf("expected the boot rom to be readable")
	}
	if rom.Len() != Size {
		t.Errorf("expected length %d, got %d", Size, rom.Len())
	}
	if len(rom.Checksum()) != 32 {
		t.Errorf("expected a hex md5 checksum, got %q", rom.Checksum())
	}
	if rom.Model() != "unknown" {
		t.Errorf("expected an unknown model, got %q", rom.Model())
	}
}

func TestLoadBootROM_InvalidLength(t *testing.T) {
	for _, n := range []int{0, 255, 2304} {
		if _, err := LoadBootROM(make([]byte, n)); err == nil {
			t.Errorf("expected an error for a %d byte boot rom", n)
		}
	}
}

func TestROM_Nil(t *testing.T) {
	var rom *ROM
	if rom.Model() != "none" || rom.Checksum() != "" || rom.Len() != 0 {
		t.Errorf("expected a nil boot rom to report no model")
	}
}
