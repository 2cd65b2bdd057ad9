package emulator

import (
	"encoding/binary"
	"errors"
	"math"
)

// CommandPacket is a command packet that is sent to the
// emulator to control it.
type CommandPacket struct {
	Command Command
	Data    []byte
}

// Command is a command that is sent to the emulator to
// control it.
type Command int

// ResponsePacket is a response packet that is sent
// from the emulator to the client.
type ResponsePacket struct {
	Command Command
	Data    []byte
	Error   error
}

const (
	// CommandPause pauses the emulator.
	CommandPause Command = iota
	// CommandResume resumes the emulator.
	CommandResume
	// CommandClose closes the emulator.
	CommandClose
	// CommandReset resets the emulator.
	CommandReset
	// CommandLoadROM loads a ROM into the emulator.
	CommandLoadROM
	// CommandSetSpeed sets the speed of the emulator.
	CommandSetSpeed
	// CommandCyclePalette switches to the next palette.
	CommandCyclePalette
	// CommandScreenshot returns the last completed frame.
	CommandScreenshot
)

var commandNames = map[Command]string{
	CommandPause:        "pause",
	CommandResume:       "resume",
	CommandClose:        "close",
	CommandReset:        "reset",
	CommandLoadROM:      "load rom",
	CommandSetSpeed:     "set speed",
	CommandCyclePalette: "cycle palette",
	CommandScreenshot:   "screenshot",
}

func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return "unknown"
}

// ErrUnknownCommand is returned in a ResponsePacket when the
// emulator does not understand the command.
var ErrUnknownCommand = errors.New("emulator: unknown command")

// SpeedPacket builds a CommandSetSpeed packet for the given
// speed multiplier.
func SpeedPacket(speed float64) CommandPacket {
	data := make([]byte, 8)
	binary.BigEndian.PutUint64(data, math.Float64bits(speed))
	return CommandPacket{Command: CommandSetSpeed, Data: data}
}

// Speed decodes the speed multiplier carried by a
// CommandSetSpeed packet.
func (p CommandPacket) Speed() (float64, error) {
	if len(p.Data) != 8 {
		return 0, errors.New("emulator: speed packet must carry 8 bytes")
	}
	speed := math.Float64frombits(binary.BigEndian.Uint64(p.Data))
	if speed <= 0 || math.IsNaN(speed) || math.IsInf(speed, 0) {
		return 0, errors.New("emulator: speed must be a positive number")
	}
	return speed, nil
}
