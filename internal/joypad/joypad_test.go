package joypad

import (
	"testing"

	"github.com/pcasaretto/gameboy/internal/interrupts"
)

type requester struct {
	flags []uint8
}

func (r *requester) Request(flag uint8) { r.flags = append(r.flags, flag) }

func TestState_Set(t *testing.T) {
	irq := &requester{}
	s := New(irq)

	if !s.Press(ButtonStart) {
		t.Errorf("expected pressing Start to change the state")
	}
	if s.Press(ButtonStart) {
		t.Errorf("expected pressing Start twice to leave the state unchanged")
	}
	if len(irq.flags) != 1 || irq.flags[0] != interrupts.JoypadFlag {
		t.Errorf("expected a single joypad interrupt, got %v", irq.flags)
	}

	if !s.Release(ButtonStart) {
		t.Errorf("expected releasing Start to change the state")
	}
	if len(irq.flags) != 1 {
		t.Errorf("expected releasing not to request an interrupt, got %v", irq.flags)
	}
}

func TestState_Read(t *testing.T) {
	s := New(&requester{})
	s.Press(ButtonA)
	s.Press(ButtonDown)

	tests := []struct {
		name string
		sel  uint8
		want uint8
	}{
		{"standard", 0x10, 0xC0 | 0x10 | 0x0E},
		{"directional", 0x20, 0xC0 | 0x20 | 0x07},
		{"none selected", 0x30, 0xC0 | 0x30 | 0x0E},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Read(tt.sel); got != tt.want {
				t.Errorf("expected P1 %08b, got %08b", tt.want, got)
			}
		})
	}
}

func TestButton_String(t *testing.T) {
	if ButtonSelect.String() != "Select" || Button(9).String() != "Button(9)" {
		t.Errorf("unexpected button names %q %q", ButtonSelect, Button(9))
	}
}
