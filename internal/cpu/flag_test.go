package cpu

import "testing"

func TestFlag(t *testing.T) {
	cpu, _ := newTestCPU()
	flags := []Flag{FlagZero, FlagSubtract, FlagHalfCarry, FlagCarry}

	t.Run("clear", func(t *testing.T) {
		cpu.F = 0xF0
		for _, f := range flags {
			cpu.clearFlag(f)
			if cpu.isFlagSet(f) {
				t.Errorf("expected flag %08b to be unset, got set", f)
			}
		}
		if cpu.F != 0 {
			t.Errorf("expected F to be 0, got %08b", cpu.F)
		}
	})
	t.Run("set", func(t *testing.T) {
		cpu.F = 0
		for _, f := range flags {
			cpu.setFlag(f)
			if !cpu.isFlagSet(f) {
				t.Errorf("expected flag %08b to be set, got unset", f)
			}
		}
		if cpu.F != 0xF0 {
			t.Errorf("expected F to be 0xF0, got %08b", cpu.F)
		}
	})
}

func TestFlags_RoundTrip(t *testing.T) {
	for i := 0; i < 16; i++ {
		f := Flags{
			Zero:      i&8 != 0,
			Subtract:  i&4 != 0,
			HalfCarry: i&2 != 0,
			Carry:     i&1 != 0,
		}
		b := f.Byte()
		if b&0x0F != 0 {
			t.Errorf("expected low nibble to be clear, got %08b", b)
		}
		if b != uint8(i)<<4 {
			t.Errorf("expected %+v to encode as %08b, got %08b", f, uint8(i)<<4, b)
		}
		if got := FlagsFromByte(b); got != f {
			t.Errorf("expected %+v to round trip, got %+v", f, got)
		}
		// the low nibble is ignored
		if got := FlagsFromByte(b | 0x0F); got != f {
			t.Errorf("expected low nibble to be ignored, got %+v", got)
		}
	}
}

func TestCondition(t *testing.T) {
	cpu, _ := newTestCPU()
	tests := []struct {
		opcode uint8
		f      uint8
		want   bool
	}{
		{0x20, 0, true},             // JR NZ
		{0x20, FlagZero, false},     // JR NZ
		{0x28, FlagZero, true},      // JR Z
		{0x30, FlagCarry, false},    // JR NC
		{0xD8, FlagCarry, true},     // RET C
		{0xDA, FlagZero, false},     // JP C
		{0xC4, FlagCarry, true},     // CALL NZ
		{0xCC, FlagSubtract, false}, // CALL Z
	}
	for _, tt := range tests {
		cpu.F = tt.f
		if got := cpu.condition(tt.opcode); got != tt.want {
			t.Errorf("opcode 0x%02X with F=%08b: expected %v, got %v", tt.opcode, tt.f, tt.want, got)
		}
	}
}
