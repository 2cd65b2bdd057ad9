package cpu

import (
	"github.com/pcasaretto/gameboy/internal/interrupts"
	"github.com/pcasaretto/gameboy/internal/opcodes"
	"github.com/pcasaretto/gameboy/pkg/log"
)

const (
	// ClockSpeed is the clock speed of the CPU.
	ClockSpeed = 4194304
)

// Mode is the execution state of the CPU.
type Mode uint8

const (
	// ModeRunning is the normal CPU mode, an instruction is fetched
	// and executed every step.
	ModeRunning Mode = iota
	// ModeHalted is entered by the HALT instruction. No instructions
	// are fetched until a pending interrupt wakes the CPU.
	ModeHalted
)

func (m Mode) String() string {
	switch m {
	case ModeRunning:
		return "running"
	case ModeHalted:
		return "halted"
	}
	return "unknown"
}

// haltedTicks is the cost of a step while halted.
const haltedTicks = 4

// Bus is the CPU's view of the address space.
type Bus interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
}

// CPU represents the Gameboy CPU. It is responsible for executing instructions.
type CPU struct {
	// Registers contains the 8-bit registers, the 16-bit register
	// pairs as well as SP and PC.
	Registers

	bus  Bus
	irq  *interrupts.Service
	mode Mode

	// Trace logs every executed instruction at debug level.
	Trace   bool
	log     log.Logger
	opcodes *opcodes.Table
}

// NewCPU creates a new CPU instance with the given Bus. The interrupt
// service holds the IME, which is toggled by DI, EI and RETI.
func NewCPU(bus Bus, irq *interrupts.Service) *CPU {
	c := &CPU{
		bus: bus,
		irq: irq,
		log: log.NewNullLogger(),
	}
	// create register pairs
	c.BC = &RegisterPair{&c.B, &c.C}
	c.DE = &RegisterPair{&c.D, &c.E}
	c.HL = &RegisterPair{&c.H, &c.L}
	c.AF = &RegisterPair{&c.A, &c.F}

	return c
}

// SetLogger sets the logger used for tracing.
func (c *CPU) SetLogger(l log.Logger) {
	c.log = l
}

// AttachOpcodes attaches the opcode metadata used to describe
// instructions when tracing. Execution does not depend on it.
func (c *CPU) AttachOpcodes(t *opcodes.Table) {
	c.opcodes = t
}

// Mode returns the current execution mode.
func (c *CPU) Mode() Mode {
	return c.mode
}

// Step executes a single instruction and returns the number of
// T-states that it took. A halted CPU does not fetch, and costs
// a fixed 4 T-states.
func (c *CPU) Step() uint8 {
	if c.mode == ModeHalted {
		return haltedTicks
	}

	pc := c.PC
	opcode := c.bus.Read(pc)
	instruction := InstructionSet[opcode]
	prefixed := opcode == 0xCB
	if prefixed {
		opcode = c.bus.Read(pc + 1)
		instruction = InstructionSetCB[opcode]
	}

	if c.Trace {
		c.trace(pc, prefixed, opcode, instruction)
	}

	return instruction.fn(c)
}

// Wake resumes execution after a HALT. It is called whenever an
// enabled interrupt is pending, whether or not it is serviced.
func (c *CPU) Wake() {
	c.mode = ModeRunning
}

// Call pushes PC to the stack and jumps to vector. Used by the
// interrupt service to enter a handler.
func (c *CPU) Call(vector uint16) {
	c.push(c.PC)
	c.PC = vector
}

var _ interrupts.Processor = (*CPU)(nil)

func (c *CPU) trace(pc uint16, prefixed bool, opcode uint8, instruction Instruction) {
	name := instruction.name
	if c.opcodes != nil {
		if op, ok := c.opcodes.Lookup(prefixed, opcode); ok {
			name = op.String()
		}
	}
	c.log.Debugf("%04X %-18s %s", pc, name, c.Registers.String())
}

// read reads a byte from memory.
func (c *CPU) read(address uint16) uint8 {
	return c.bus.Read(address)
}

// write writes the given value to the given address.
func (c *CPU) write(address uint16, value uint8) {
	c.bus.Write(address, value)
}

// operand8 returns the immediate byte following the opcode.
func (c *CPU) operand8() uint8 {
	return c.bus.Read(c.PC + 1)
}

// operand16 returns the little-endian immediate word following
// the opcode.
func (c *CPU) operand16() uint16 {
	return uint16(c.bus.Read(c.PC+1)) | uint16(c.bus.Read(c.PC+2))<<8
}

// push writes value to the stack, high byte first.
func (c *CPU) push(value uint16) {
	c.SP--
	c.write(c.SP, uint8(value>>8))
	c.SP--
	c.write(c.SP, uint8(value))
}

// pop reads a value from the stack, low byte first.
func (c *CPU) pop() uint16 {
	low := c.read(c.SP)
	c.SP++
	high := c.read(c.SP)
	c.SP++
	return uint16(high)<<8 | uint16(low)
}

// call pushes the address of the next instruction and jumps to
// target.
func (c *CPU) call(target uint16, length uint16) {
	c.push(c.PC + length)
	c.PC = target
}

// jumpRelative adds the signed operand to the address of the
// next instruction.
func (c *CPU) jumpRelative() {
	offset := int8(c.operand8())
	c.PC = uint16(int32(c.PC) + 2 + int32(offset))
}

// readRegister returns the value of the register at index r of the
// 3-bit register field, reading memory at HL for index 6.
func (c *CPU) readRegister(r uint8) uint8 {
	if r == 6 {
		return c.read(c.HL.Uint16())
	}
	return c.Get8(Register8(r))
}

// writeRegister is the counterpart of readRegister.
func (c *CPU) writeRegister(r uint8, value uint8) {
	if r == 6 {
		c.write(c.HL.Uint16(), value)
		return
	}
	c.Set8(Register8(r), value)
}

var pairs = [4]Register16{RegBC, RegDE, RegHL, RegSP}

var stackPairs = [4]Register16{RegBC, RegDE, RegHL, RegAF}

func (c *CPU) pair(rp uint8) uint16 {
	return c.Get16(pairs[rp])
}

func (c *CPU) setPair(rp uint8, value uint16) {
	c.Set16(pairs[rp], value)
}

func (c *CPU) stackPair(rp uint8) uint16 {
	return c.Get16(stackPairs[rp])
}

func (c *CPU) setStackPair(rp uint8, value uint16) {
	c.Set16(stackPairs[rp], value)
}

// indirectAddress returns the address used by LD (rr), A and
// LD A, (rr). The HL forms increment or decrement HL afterwards.
func (c *CPU) indirectAddress(rp uint8) uint16 {
	switch rp {
	case 0:
		return c.BC.Uint16()
	case 1:
		return c.DE.Uint16()
	case 2:
		hl := c.HL.Uint16()
		c.HL.SetUint16(hl + 1)
		return hl
	default:
		hl := c.HL.Uint16()
		c.HL.SetUint16(hl - 1)
		return hl
	}
}
