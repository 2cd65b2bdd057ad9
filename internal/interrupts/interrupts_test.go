package interrupts

import (
	"testing"

	"github.com/pcasaretto/gameboy/internal/types"
)

type memory [0x10000]uint8

func (m *memory) Get(address uint16) uint8        { return m[address] }
func (m *memory) Set(address uint16, value uint8) { m[address] = value }

type processor struct {
	woken bool
	calls []uint16
}

func (p *processor) Wake()              { p.woken = true }
func (p *processor) Call(vector uint16) { p.calls = append(p.calls, vector) }

func TestService_Priority(t *testing.T) {
	mem := &memory{}
	s := NewService(mem)
	s.IME = true
	mem.Set(types.IE, 0x1F)
	mem.Set(types.IF, VBlankFlag|TimerFlag)

	p := &processor{}
	s.Step(p, 4)

	if len(p.calls) != 1 || p.calls[0] != 0x0040 {
		t.Fatalf("expected a single call to 0x0040, got %v", p.calls)
	}
	if mem.Get(types.IF) != TimerFlag {
		t.Errorf("expected only the VBlank flag to be cleared, got IF=%08b", mem.Get(types.IF))
	}
	if s.IME {
		t.Errorf("expected IME to be cleared after servicing an interrupt")
	}

	// the handler re-enables interrupts, the timer is next
	s.IME = true
	s.Step(p, 4)
	if len(p.calls) != 2 || p.calls[1] != 0x0050 {
		t.Fatalf("expected the second call to be 0x0050, got %v", p.calls)
	}
	if mem.Get(types.IF) != 0 {
		t.Errorf("expected IF to be clear, got %08b", mem.Get(types.IF))
	}
}

func TestService_WakeWithoutIME(t *testing.T) {
	mem := &memory{}
	s := NewService(mem)
	mem.Set(types.IE, JoypadFlag)
	mem.Set(types.IF, JoypadFlag)

	p := &processor{}
	s.Step(p, 4)

	if !p.woken {
		t.Errorf("expected a pending interrupt to wake the processor")
	}
	if len(p.calls) != 0 {
		t.Errorf("expected no interrupt to be serviced with IME cleared, got %v", p.calls)
	}
	if mem.Get(types.IF) != JoypadFlag {
		t.Errorf("expected the joypad flag to remain pending, got IF=%08b", mem.Get(types.IF))
	}
}

func TestService_NotEnabled(t *testing.T) {
	mem := &memory{}
	s := NewService(mem)
	s.IME = true
	mem.Set(types.IF, 0xE1) // post boot value, upper bits read as set
	mem.Set(types.IE, TimerFlag)

	p := &processor{}
	s.Step(p, 4)

	if p.woken || len(p.calls) != 0 {
		t.Errorf("expected nothing to happen without an enabled request")
	}
}

func TestService_Request(t *testing.T) {
	mem := &memory{}
	s := NewService(mem)
	s.Request(SerialFlag)
	s.Request(LCDFlag)
	if got := mem.Get(types.IF); got != SerialFlag|LCDFlag {
		t.Errorf("expected IF to be %08b, got %08b", SerialFlag|LCDFlag, got)
	}
}

func TestVector(t *testing.T) {
	for i, want := range []uint16{0x40, 0x48, 0x50, 0x58, 0x60} {
		if got := Vector(1 << i); got != want {
			t.Errorf("expected vector for bit %d to be 0x%04X, got 0x%04X", i, want, got)
		}
	}

	defer func() {
		if recover() == nil {
			t.Errorf("expected an unknown flag to panic")
		}
	}()
	Vector(types.Bit5)
}
