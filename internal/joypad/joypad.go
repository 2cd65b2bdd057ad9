// Package joypad provides an implementation of the Game Boy
// joypad. The joypad is used to read the state of the buttons
// and the direction keys.
package joypad

import (
	"fmt"

	"github.com/pcasaretto/gameboy/internal/interrupts"
	"github.com/pcasaretto/gameboy/internal/types"
)

// Button represents a physical button on the Game Boy.
type Button uint8

const (
	// ButtonA is the A button.
	ButtonA Button = iota
	// ButtonB is the B button.
	ButtonB
	// ButtonSelect is the Select button.
	ButtonSelect
	// ButtonStart is the Start button.
	ButtonStart
	// ButtonRight is the Right button.
	ButtonRight
	// ButtonLeft is the Left button.
	ButtonLeft
	// ButtonUp is the Up button.
	ButtonUp
	// ButtonDown is the Down button.
	ButtonDown
)

var buttonNames = [8]string{"A", "B", "Select", "Start", "Right", "Left", "Up", "Down"}

func (b Button) String() string {
	if int(b) < len(buttonNames) {
		return buttonNames[b]
	}
	return fmt.Sprintf("Button(%d)", uint8(b))
}

// State represents the state of the joypad. Select either
// action or direction buttons by writing to the register,
// and then read out bits 0-3 to get the state of the buttons.
//
//	Bit 7 - Not used
//	Bit 6 - Not used
//	Bit 5 - P15 Select Button Keys      (0=Select)
//	Bit 4 - P14 Select Direction Keys   (0=Select)
//	Bit 3 - P13 Input Down  or Start    (0=Pressed) (Read Only)
//	Bit 2 - P12 Input Up    or Select   (0=Pressed) (Read Only)
//	Bit 1 - P11 Input Left  or Button B (0=Pressed) (Read Only)
//	Bit 0 - P10 Input Right or Button A (0=Pressed) (Read Only)
type State struct {
	// standard holds A, B, Select and Start in bits 0-3,
	// directional holds Right, Left, Up and Down. A 0 in
	// a bit indicates that the button is pressed.
	standard    uint8
	directional uint8

	irq interrupts.Requester
}

// New returns a new joypad state with every button released.
func New(irq interrupts.Requester) *State {
	return &State{
		standard:    0x0F,
		directional: 0x0F,
		irq:         irq,
	}
}

// Set updates the state of a button, and reports whether
// the state changed. A change to pressed requests the joypad
// interrupt.
func (s *State) Set(button Button, pressed bool) bool {
	nibble := &s.standard
	if button >= ButtonRight {
		nibble = &s.directional
	}
	mask := uint8(1) << (button & 0x3)

	before := *nibble
	if pressed {
		*nibble &^= mask
	} else {
		*nibble |= mask
	}
	changed := before != *nibble

	if changed && pressed && s.irq != nil {
		s.irq.Request(interrupts.JoypadFlag)
	}
	return changed
}

// Press presses a button.
func (s *State) Press(button Button) bool {
	return s.Set(button, true)
}

// Release releases a button.
func (s *State) Release(button Button) bool {
	return s.Set(button, false)
}

// Read composes the value of the P1 register from the select
// bits last written to it. With bit 4 set the standard buttons
// are returned, otherwise the directional buttons.
func (s *State) Read(sel uint8) uint8 {
	nibble := s.directional
	if sel&types.Bit4 != 0 {
		nibble = s.standard
	}
	return 0xC0 | sel&0x30 | nibble&0x0F
}
