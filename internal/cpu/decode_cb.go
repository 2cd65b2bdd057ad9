package cpu

import "fmt"

// decodeCB fills the InstructionSetCB. The extended opcodes are fully
// regular: bits 6-7 select the group, bits 3-5 the operation (or the
// bit under test) and bits 0-2 the register.
//
//	00 - rotates, shifts and SWAP
//	01 - BIT b, r
//	10 - RES b, r
//	11 - SET b, r
func decodeCB() {
	shifts := [8]struct {
		name string
		fn   func(*CPU, uint8) uint8
	}{
		{"RLC", (*CPU).rotateLeft},
		{"RRC", (*CPU).rotateRight},
		{"RL", (*CPU).rotateLeftThroughCarry},
		{"RR", (*CPU).rotateRightThroughCarry},
		{"SLA", (*CPU).shiftLeftArithmetic},
		{"SRA", (*CPU).shiftRightArithmetic},
		{"SWAP", (*CPU).swap},
		{"SRL", (*CPU).shiftRightLogical},
	}

	for y := uint8(0); y < 8; y++ {
		for r := uint8(0); r < 8; r++ {
			y, r := y, r
			shift := shifts[y].fn

			defineInstructionCB(y<<3|r, fmt.Sprintf("%s %s", shifts[y].name, registerNames[r]), registerTicks(r, 8, 16), func(c *CPU) {
				c.writeRegister(r, shift(c, c.readRegister(r)))
			})
			defineInstructionCB(0x40|y<<3|r, fmt.Sprintf("BIT %d, %s", y, registerNames[r]), registerTicks(r, 8, 12), func(c *CPU) {
				c.testBit(c.readRegister(r), y)
			})
			defineInstructionCB(0x80|y<<3|r, fmt.Sprintf("RES %d, %s", y, registerNames[r]), registerTicks(r, 8, 16), func(c *CPU) {
				c.writeRegister(r, c.readRegister(r)&^(1<<y))
			})
			defineInstructionCB(0xC0|y<<3|r, fmt.Sprintf("SET %d, %s", y, registerNames[r]), registerTicks(r, 8, 16), func(c *CPU) {
				c.writeRegister(r, c.readRegister(r)|1<<y)
			})
		}
	}
}
