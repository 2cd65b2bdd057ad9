package gameboy

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/pcasaretto/gameboy/internal/interrupts"
	"github.com/pcasaretto/gameboy/internal/joypad"
	"github.com/pcasaretto/gameboy/internal/ppu"
	"github.com/pcasaretto/gameboy/internal/ppu/palette"
	"github.com/pcasaretto/gameboy/internal/types"
	"github.com/pcasaretto/gameboy/pkg/display/event"
	"github.com/pcasaretto/gameboy/pkg/emulator"
	"github.com/pcasaretto/gameboy/pkg/log"
)

// testROM returns a 32kB ROM with a valid header, with program
// placed at the entry point.
func testROM(program ...uint8) []byte {
	rom := make([]byte, 0x8000)
	copy(rom[0x100:], program)
	copy(rom[0x134:], "TEST")

	var sum uint8
	for _, b := range rom[0x134:0x14D] {
		sum = sum - b - 1
	}
	rom[0x14D] = sum
	return rom
}

// loop is a program that jumps to itself forever.
var loop = []uint8{0x18, 0xFE} // JR -2

func newTestGameBoy(t *testing.T, rom []byte, opts ...Opt) *GameBoy {
	t.Helper()
	gb, err := NewGameBoy(rom, opts...)
	if err != nil {
		t.Fatal(err)
	}
	return gb
}

func TestNewGameBoy_PostBoot(t *testing.T) {
	gb := newTestGameBoy(t, testROM(loop...))

	if gb.CPU.PC != 0x0100 {
		t.Errorf("expected PC to be 0x0100, got 0x%04X", gb.CPU.PC)
	}
	if gb.CPU.SP != 0xFFFE {
		t.Errorf("expected SP to be 0xFFFE, got 0x%04X", gb.CPU.SP)
	}
	for name, reg := range map[string]struct{ got, want uint8 }{
		"A": {gb.CPU.A, 0x01}, "F": {gb.CPU.F, 0x80},
		"B": {gb.CPU.B, 0x00}, "C": {gb.CPU.C, 0x13},
		"D": {gb.CPU.D, 0x00}, "E": {gb.CPU.E, 0xD8},
		"H": {gb.CPU.H, 0x01}, "L": {gb.CPU.L, 0x4D},
	} {
		if reg.got != reg.want {
			t.Errorf("expected %s to be 0x%02X, got 0x%02X", name, reg.want, reg.got)
		}
	}
	for _, r := range postBootRegisters {
		if got := gb.MMU.Get(r.address); got != r.value {
			t.Errorf("expected 0x%04X to be 0x%02X, got 0x%02X", r.address, r.value, got)
		}
	}
	if gb.Title() != "TEST" {
		t.Errorf("expected title TEST, got %q", gb.Title())
	}
}

func TestNewGameBoy_BootROM(t *testing.T) {
	bootROM := make([]byte, 256)
	bootROM[0] = 0x31 // LD SP, d16

	gb := newTestGameBoy(t, testROM(loop...), WithBootROM(bootROM))

	if gb.CPU.PC != 0 || gb.CPU.SP != 0 || gb.CPU.A != 0 {
		t.Errorf("expected the registers to start zeroed, got %s", gb.CPU.Registers.String())
	}
	if gb.MMU.Get(types.LCDC) != 0 {
		t.Errorf("expected the hardware registers to start zeroed")
	}
	if got := gb.MMU.Read(0x0000); got != 0x31 {
		t.Errorf("expected the boot rom to be mapped, read 0x%02X", got)
	}
}

func TestNewGameBoy_Errors(t *testing.T) {
	if _, err := NewGameBoy(make([]byte, 0x20)); err == nil {
		t.Errorf("expected a truncated rom to be rejected")
	}
	if _, err := NewGameBoy(testROM(), WithBootROM(make([]byte, 10))); err == nil {
		t.Errorf("expected a truncated boot rom to be rejected")
	}
	if _, err := NewGameBoy(testROM(), Speed(0)); err == nil {
		t.Errorf("expected a speed of 0 to be rejected")
	}
	for _, idx := range []int{-1, len(palette.Palettes)} {
		if _, err := NewGameBoy(testROM(), WithPalette(idx)); err == nil {
			t.Errorf("expected palette %d to be rejected", idx)
		}
	}
	gb, err := NewGameBoy(nil)
	if err != nil {
		t.Fatalf("expected an empty slot to be accepted: %v", err)
	}
	if got := gb.MMU.Read(0x0100); got != 0xFF {
		t.Errorf("expected an empty slot to read 0xFF, got 0x%02X", got)
	}
}

func TestGameBoy_Frame(t *testing.T) {
	gb := newTestGameBoy(t, testROM(loop...))

	frame := gb.Frame()
	if len(frame) != ppu.ScreenWidth*ppu.ScreenHeight*4 {
		t.Fatalf("expected a frame of %d bytes, got %d", ppu.ScreenWidth*ppu.ScreenHeight*4, len(frame))
	}
	if gb.MMU.Get(types.LY) != ppu.ScreenHeight {
		t.Errorf("expected the frame to complete on line 144, LY=%d", gb.MMU.Get(types.LY))
	}
	if gb.MMU.Get(types.IF)&interrupts.VBlankFlag == 0 {
		t.Errorf("expected the VBlank interrupt to be requested")
	}
	if gb.PPU.HasFrame() {
		t.Errorf("expected the frame to be consumed")
	}
	if !bytes.Equal(gb.LastFrame(), frame) {
		t.Errorf("expected the last frame to be kept")
	}

	// the next frame takes a full 154 scanlines
	gb.Frame()
	if gb.MMU.Get(types.LY) != ppu.ScreenHeight {
		t.Errorf("expected the second frame to complete on line 144, LY=%d", gb.MMU.Get(types.LY))
	}
}

func TestGameBoy_TimerInterrupt(t *testing.T) {
	rom := testROM(
		0xFB, // EI
		0x76, // HALT
		0x00, // NOP
	)
	gb := newTestGameBoy(t, rom)
	gb.MMU.Set(types.IF, 0)
	gb.MMU.Set(types.IE, interrupts.TimerFlag)
	gb.MMU.Set(types.TIMA, 0xFE)
	gb.MMU.Set(types.TMA, 0x42)
	gb.MMU.Set(types.TAC, 0x05) // enabled, 262144 Hz

	for i := 0; i < 100 && gb.CPU.PC != 0x0050; i++ {
		gb.Step()
	}

	if gb.CPU.PC != 0x0050 {
		t.Fatalf("expected the timer interrupt to be serviced, PC=0x%04X", gb.CPU.PC)
	}
	if gb.Interrupts.IME {
		t.Errorf("expected IME to be cleared")
	}
	if gb.MMU.Get(types.TIMA) != 0x42 {
		t.Errorf("expected TIMA to be reloaded from TMA, got 0x%02X", gb.MMU.Get(types.TIMA))
	}
	if gb.MMU.Get(types.IF)&interrupts.TimerFlag != 0 {
		t.Errorf("expected the timer request to be cleared")
	}
	if gb.CPU.SP != 0xFFFC {
		t.Fatalf("expected SP to be 0xFFFC, got 0x%04X", gb.CPU.SP)
	}
	if ret := uint16(gb.MMU.Read(0xFFFD))<<8 | uint16(gb.MMU.Read(0xFFFC)); ret != 0x0102 {
		t.Errorf("expected to return to 0x0102, got 0x%04X", ret)
	}
}

func TestGameBoy_Joypad(t *testing.T) {
	gb := newTestGameBoy(t, testROM(loop...))
	gb.MMU.Set(types.IF, 0)

	gb.Press(joypad.ButtonStart)
	if gb.MMU.Get(types.IF)&interrupts.JoypadFlag == 0 {
		t.Fatalf("expected a press to request the joypad interrupt")
	}

	gb.MMU.Write(types.P1, 0x10)
	if got := gb.MMU.Read(types.P1); got != 0xD7 {
		t.Errorf("expected P1 to read 0xD7, got 0x%02X", got)
	}

	gb.MMU.Set(types.IF, 0)
	gb.Press(joypad.ButtonStart)
	if gb.MMU.Get(types.IF) != 0 {
		t.Errorf("expected a held button not to request the interrupt again")
	}

	gb.Release(joypad.ButtonStart)
	if got := gb.MMU.Read(types.P1); got != 0xDF {
		t.Errorf("expected P1 to read 0xDF after release, got 0x%02X", got)
	}
	if gb.MMU.Get(types.IF) != 0 {
		t.Errorf("expected a release not to request the interrupt")
	}
}

func TestGameBoy_Serial(t *testing.T) {
	var out bytes.Buffer
	rom := testROM(
		0x3E, 'O', // LD A, 'O'
		0xE0, 0x01, // LDH (SB), A
		0x3E, 0x81, // LD A, 0x81
		0xE0, 0x02, // LDH (SC), A
		0x3E, 'K', // LD A, 'K'
		0xE0, 0x01, // LDH (SB), A
		0x3E, 0x81, // LD A, 0x81
		0xE0, 0x02, // LDH (SC), A
		0x18, 0xFE, // JR -2
	)
	gb := newTestGameBoy(t, rom, WithSerialWriter(&out))

	for i := 0; i < 8; i++ {
		gb.Step()
	}

	if out.String() != "OK" {
		t.Errorf("expected serial output OK, got %q", out.String())
	}
	if gb.MMU.Get(types.IF)&interrupts.SerialFlag == 0 {
		t.Errorf("expected the serial interrupt to be requested")
	}
}

func TestGameBoy_Trace(t *testing.T) {
	var out bytes.Buffer
	logger, err := log.NewWithOutput(&out, "debug")
	if err != nil {
		t.Fatal(err)
	}

	gb := newTestGameBoy(t, testROM(0x3E, 0x12, 0x18, 0xFE), WithLogger(logger), Debug())
	gb.Step()

	line := out.String()
	if !strings.Contains(line, "component=cpu") {
		t.Errorf("expected the trace to be scoped to the cpu, got %q", line)
	}
	if !strings.Contains(line, "0100") || !strings.Contains(line, "LD A, d8") {
		t.Errorf("expected the trace to describe LD A, d8 at 0x0100, got %q", line)
	}
}

func TestGameBoy_SendCommand(t *testing.T) {
	gb := newTestGameBoy(t, testROM(loop...))

	t.Run("pause and resume", func(t *testing.T) {
		gb.SendCommand(emulator.CommandPacket{Command: emulator.CommandPause})
		if !gb.Status().IsPaused() {
			t.Errorf("expected the emulator to be paused, got %s", gb.Status())
		}
		gb.SendCommand(emulator.CommandPacket{Command: emulator.CommandResume})
		if !gb.Status().IsRunning() {
			t.Errorf("expected the emulator to be running, got %s", gb.Status())
		}
	})

	t.Run("speed", func(t *testing.T) {
		if resp := gb.SendCommand(emulator.SpeedPacket(2)); resp.Error != nil {
			t.Fatal(resp.Error)
		}
		if gb.Speed() != 2 {
			t.Errorf("expected a speed of 2, got %v", gb.Speed())
		}
		if resp := gb.SendCommand(emulator.SpeedPacket(-1)); resp.Error == nil {
			t.Errorf("expected a negative speed to be rejected")
		}
	})

	t.Run("palette", func(t *testing.T) {
		resp := gb.SendCommand(emulator.CommandPacket{Command: emulator.CommandCyclePalette})
		if string(resp.Data) != "green" {
			t.Errorf("expected the green palette, got %q", resp.Data)
		}
	})

	t.Run("reset", func(t *testing.T) {
		gb.CPU.PC = 0x1234
		gb.CPU.A = 0x99
		if resp := gb.SendCommand(emulator.CommandPacket{Command: emulator.CommandReset}); resp.Error != nil {
			t.Fatal(resp.Error)
		}
		if gb.CPU.PC != 0x0100 || gb.CPU.A != 0x01 {
			t.Errorf("expected the registers to be reset, got %s", gb.CPU.Registers.String())
		}
	})

	t.Run("load rom", func(t *testing.T) {
		resp := gb.SendCommand(emulator.CommandPacket{Command: emulator.CommandLoadROM, Data: []byte{1, 2, 3}})
		if resp.Error == nil {
			t.Errorf("expected a truncated rom to be rejected")
		}
	})

	t.Run("screenshot", func(t *testing.T) {
		gb.Frame()
		resp := gb.SendCommand(emulator.CommandPacket{Command: emulator.CommandScreenshot})
		if len(resp.Data) != ppu.ScreenWidth*ppu.ScreenHeight*4 {
			t.Errorf("expected the last frame, got %d bytes", len(resp.Data))
		}
	})

	t.Run("unknown", func(t *testing.T) {
		resp := gb.SendCommand(emulator.CommandPacket{Command: emulator.Command(99)})
		if resp.Error != emulator.ErrUnknownCommand {
			t.Errorf("expected ErrUnknownCommand, got %v", resp.Error)
		}
	})
}

func TestGameBoy_Start(t *testing.T) {
	perf := emulator.NewPerformance(10)
	gb := newTestGameBoy(t, testROM(loop...), Speed(4), WithPerformance(perf))

	fb := make(chan []byte, 60)
	events := make(chan event.Event, 60)
	pressed := make(chan joypad.Button, 10)
	released := make(chan joypad.Button, 10)

	done := make(chan struct{})
	go func() {
		gb.Start(fb, events, pressed, released)
		close(done)
	}()

	select {
	case frame := <-fb:
		if len(frame) != ppu.ScreenWidth*ppu.ScreenHeight*4 {
			t.Errorf("expected a full frame, got %d bytes", len(frame))
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a frame")
	}

	gb.SendCommand(emulator.CommandPacket{Command: emulator.CommandClose})

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for the emulator to close")
	}

	for {
		select {
		case e := <-events:
			if e.Type == event.Quit {
				if len(perf.Samples()) == 0 {
					t.Errorf("expected frame times to be recorded")
				}
				return
			}
		default:
			t.Fatal("expected a quit event")
		}
	}
}

func TestGameBoy_StartDecodeDefect(t *testing.T) {
	// 0xD3 is not a valid opcode
	gb := newTestGameBoy(t, testROM(0xD3), Speed(4))

	fb := make(chan []byte, 1)
	events := make(chan event.Event, 10)

	panicked := make(chan interface{}, 1)
	go func() {
		defer func() {
			panicked <- recover()
		}()
		gb.Start(fb, events, nil, nil)
	}()

	select {
	case r := <-panicked:
		if r == nil {
			t.Fatal("expected the decode defect to propagate out of Start")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for the emulator to stop")
	}

	if !gb.Status().IsErrored() {
		t.Errorf("expected status %v, got %v", emulator.Errored, gb.Status())
	}
	select {
	case e := <-events:
		if e.Type != event.Quit {
			t.Errorf("expected a quit event, got %v", e.Type)
		}
	default:
		t.Error("expected a quit event")
	}
}
