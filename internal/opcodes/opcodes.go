// Package opcodes loads instruction metadata in the format of the
// gbdev Opcodes.json table, which is used to describe instructions
// in trace output.
package opcodes

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// Operand describes a single operand of an instruction.
type Operand struct {
	Name      string `json:"name"`
	Bytes     uint8  `json:"bytes,omitempty"`
	Immediate bool   `json:"immediate"`
	Increment bool   `json:"increment,omitempty"`
	Decrement bool   `json:"decrement,omitempty"`
}

// String formats the operand the way it appears in assembly,
// with memory operands in parentheses.
func (o Operand) String() string {
	name := o.Name
	switch {
	case o.Increment:
		name += "+"
	case o.Decrement:
		name += "-"
	}
	if !o.Immediate {
		return "(" + name + ")"
	}
	return name
}

// Flags describes how an instruction affects each flag. Each field
// is one of "-", "0", "1" or the flag name itself.
type Flags struct {
	Z string `json:"Z"`
	N string `json:"N"`
	H string `json:"H"`
	C string `json:"C"`
}

// Opcode is the metadata of a single instruction.
type Opcode struct {
	Mnemonic  string    `json:"mnemonic"`
	Bytes     uint8     `json:"bytes"`
	Cycles    []uint8   `json:"cycles"`
	Operands  []Operand `json:"operands"`
	Immediate bool      `json:"immediate"`
	Flags     Flags     `json:"flags"`
}

// String returns the instruction in assembly form, e.g. "LD A, (HL+)".
func (o Opcode) String() string {
	if len(o.Operands) == 0 {
		return o.Mnemonic
	}
	operands := make([]string, len(o.Operands))
	for i, op := range o.Operands {
		operands[i] = op.String()
	}
	return o.Mnemonic + " " + strings.Join(operands, ", ")
}

// Table holds the unprefixed and 0xCB prefixed opcodes.
type Table struct {
	Unprefixed map[string]Opcode `json:"unprefixed"`
	CBPrefixed map[string]Opcode `json:"cbprefixed"`
}

// Load decodes a Table from r.
func Load(r io.Reader) (*Table, error) {
	t := &Table{}
	if err := json.NewDecoder(r).Decode(t); err != nil {
		return nil, fmt.Errorf("opcodes: decoding table: %w", err)
	}
	if len(t.Unprefixed) == 0 {
		return nil, fmt.Errorf("opcodes: table has no unprefixed opcodes")
	}
	return t, nil
}

// LoadFile decodes a Table from the file at path.
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opcodes: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Lookup returns the metadata for opcode. Keys in the table are
// formatted as "0xNN".
func (t *Table) Lookup(prefixed bool, opcode uint8) (Opcode, bool) {
	m := t.Unprefixed
	if prefixed {
		m = t.CBPrefixed
	}
	op, ok := m[fmt.Sprintf("0x%02X", opcode)]
	return op, ok
}
