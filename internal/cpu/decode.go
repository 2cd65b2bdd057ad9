package cpu

import "fmt"

// registerNames is the order of the 3-bit register field used across
// the instruction set. Index 6 is the byte addressed by HL.
var registerNames = [8]string{"B", "C", "D", "E", "H", "L", "(HL)", "A"}

// pairNames is the order of the 2-bit register pair field for the
// 16-bit loads and arithmetic. PUSH/POP replace SP with AF.
var pairNames = [4]string{"BC", "DE", "HL", "SP"}

var stackPairNames = [4]string{"BC", "DE", "HL", "AF"}

var indirectNames = [4]string{"(BC)", "(DE)", "(HL+)", "(HL-)"}

// registerTicks returns the cost of an instruction operating on the
// register at index r, which costs more when it goes through memory.
func registerTicks(r uint8, register, memory uint8) uint8 {
	if r == 6 {
		return memory
	}
	return register
}

// decodeUnprefixed fills the InstructionSet by walking the opcode
// space block by block. Opcodes are grouped by their top two bits:
//
//	00 - loads, 16-bit arithmetic, INC/DEC, relative jumps, misc
//	01 - LD r, r' (and HALT in place of LD (HL), (HL))
//	10 - 8-bit arithmetic/logic against A
//	11 - control flow, stack, high RAM loads, immediate arithmetic
func decodeUnprefixed() {
	// 0x00 - 0x3F
	defineInstruction(0x00, "NOP", 1, 4, func(c *CPU) {})
	defineInstruction(0x08, "LD (a16), SP", 3, 20, func(c *CPU) {
		address := c.operand16()
		c.write(address, uint8(c.SP))
		c.write(address+1, uint8(c.SP>>8))
	})
	defineInstruction(0x10, "STOP", 2, 4, func(c *CPU) {})
	defineControl(0x18, "JR r8", 2, func(c *CPU) uint8 {
		c.jumpRelative()
		return 12
	})
	for cc := uint8(0); cc < 4; cc++ {
		opcode := 0x20 | cc<<3
		defineControl(opcode, fmt.Sprintf("JR %s, r8", conditionNames[cc]), 2, func(c *CPU) uint8 {
			if c.condition(opcode) {
				c.jumpRelative()
				return 12
			}
			c.PC += 2
			return 8
		})
	}

	for rp := uint8(0); rp < 4; rp++ {
		rp := rp
		opcode := rp << 4
		defineInstruction(opcode|0x01, fmt.Sprintf("LD %s, d16", pairNames[rp]), 3, 12, func(c *CPU) {
			c.setPair(rp, c.operand16())
		})
		defineInstruction(opcode|0x02, fmt.Sprintf("LD %s, A", indirectNames[rp]), 1, 8, func(c *CPU) {
			c.write(c.indirectAddress(rp), c.A)
		})
		defineInstruction(opcode|0x03, fmt.Sprintf("INC %s", pairNames[rp]), 1, 8, func(c *CPU) {
			c.setPair(rp, c.pair(rp)+1)
		})
		defineInstruction(opcode|0x09, fmt.Sprintf("ADD HL, %s", pairNames[rp]), 1, 8, func(c *CPU) {
			c.addHL(c.pair(rp))
		})
		defineInstruction(opcode|0x0A, fmt.Sprintf("LD A, %s", indirectNames[rp]), 1, 8, func(c *CPU) {
			c.A = c.read(c.indirectAddress(rp))
		})
		defineInstruction(opcode|0x0B, fmt.Sprintf("DEC %s", pairNames[rp]), 1, 8, func(c *CPU) {
			c.setPair(rp, c.pair(rp)-1)
		})
	}

	for r := uint8(0); r < 8; r++ {
		r := r
		opcode := r << 3
		defineInstruction(opcode|0x04, fmt.Sprintf("INC %s", registerNames[r]), 1, registerTicks(r, 4, 12), func(c *CPU) {
			c.writeRegister(r, c.increment(c.readRegister(r)))
		})
		defineInstruction(opcode|0x05, fmt.Sprintf("DEC %s", registerNames[r]), 1, registerTicks(r, 4, 12), func(c *CPU) {
			c.writeRegister(r, c.decrement(c.readRegister(r)))
		})
		defineInstruction(opcode|0x06, fmt.Sprintf("LD %s, d8", registerNames[r]), 2, registerTicks(r, 8, 12), func(c *CPU) {
			c.writeRegister(r, c.operand8())
		})
	}

	// the accumulator rotates always reset the zero flag, unlike
	// their extended counterparts
	defineInstruction(0x07, "RLCA", 1, 4, func(c *CPU) {
		c.A = c.rotateLeft(c.A)
		c.clearFlag(FlagZero)
	})
	defineInstruction(0x0F, "RRCA", 1, 4, func(c *CPU) {
		c.A = c.rotateRight(c.A)
		c.clearFlag(FlagZero)
	})
	defineInstruction(0x17, "RLA", 1, 4, func(c *CPU) {
		c.A = c.rotateLeftThroughCarry(c.A)
		c.clearFlag(FlagZero)
	})
	defineInstruction(0x1F, "RRA", 1, 4, func(c *CPU) {
		c.A = c.rotateRightThroughCarry(c.A)
		c.clearFlag(FlagZero)
	})
	defineInstruction(0x27, "DAA", 1, 4, func(c *CPU) {
		c.daa()
	})
	defineInstruction(0x2F, "CPL", 1, 4, func(c *CPU) {
		c.A = ^c.A
		c.setFlag(FlagSubtract)
		c.setFlag(FlagHalfCarry)
	})
	defineInstruction(0x37, "SCF", 1, 4, func(c *CPU) {
		c.setFlags(c.isFlagSet(FlagZero), false, false, true)
	})
	defineInstruction(0x3F, "CCF", 1, 4, func(c *CPU) {
		c.setFlags(c.isFlagSet(FlagZero), false, false, !c.isFlagSet(FlagCarry))
	})

	// 0x40 - 0x7F
	for dst := uint8(0); dst < 8; dst++ {
		for src := uint8(0); src < 8; src++ {
			dst, src := dst, src
			opcode := 0x40 | dst<<3 | src
			if opcode == 0x76 {
				continue
			}
			ticks := uint8(4)
			if dst == 6 || src == 6 {
				ticks = 8
			}
			defineInstruction(opcode, fmt.Sprintf("LD %s, %s", registerNames[dst], registerNames[src]), 1, ticks, func(c *CPU) {
				c.writeRegister(dst, c.readRegister(src))
			})
		}
	}
	defineInstruction(0x76, "HALT", 1, 4, func(c *CPU) {
		c.mode = ModeHalted
	})

	// 0x80 - 0xBF
	for op := uint8(0); op < 8; op++ {
		for src := uint8(0); src < 8; src++ {
			op, src := op, src
			defineInstruction(0x80|op<<3|src, fmt.Sprintf("%s %s", aluNames[op], registerNames[src]), 1, registerTicks(src, 4, 8), func(c *CPU) {
				c.alu(op, c.readRegister(src))
			})
		}
		defineInstruction(0xC6|op<<3, fmt.Sprintf("%s d8", aluNames[op]), 2, 8, func(c *CPU) {
			c.alu(op, c.operand8())
		})
	}

	// 0xC0 - 0xFF
	for cc := uint8(0); cc < 4; cc++ {
		opcode := cc << 3
		defineControl(0xC0|opcode, fmt.Sprintf("RET %s", conditionNames[cc]), 1, func(c *CPU) uint8 {
			if c.condition(opcode) {
				c.PC = c.pop()
				return 20
			}
			c.PC++
			return 8
		})
		defineControl(0xC2|opcode, fmt.Sprintf("JP %s, a16", conditionNames[cc]), 3, func(c *CPU) uint8 {
			if c.condition(opcode) {
				c.PC = c.operand16()
				return 16
			}
			c.PC += 3
			return 12
		})
		defineControl(0xC4|opcode, fmt.Sprintf("CALL %s, a16", conditionNames[cc]), 3, func(c *CPU) uint8 {
			if c.condition(opcode) {
				c.call(c.operand16(), 3)
				return 24
			}
			c.PC += 3
			return 12
		})
	}
	for rp := uint8(0); rp < 4; rp++ {
		rp := rp
		defineInstruction(0xC1|rp<<4, fmt.Sprintf("POP %s", stackPairNames[rp]), 1, 12, func(c *CPU) {
			c.setStackPair(rp, c.pop())
		})
		defineInstruction(0xC5|rp<<4, fmt.Sprintf("PUSH %s", stackPairNames[rp]), 1, 16, func(c *CPU) {
			c.push(c.stackPair(rp))
		})
	}
	for n := uint8(0); n < 8; n++ {
		vector := uint16(n) * 8
		defineControl(0xC7|n<<3, fmt.Sprintf("RST %02XH", vector), 1, func(c *CPU) uint8 {
			c.call(vector, 1)
			return 16
		})
	}
	defineControl(0xC3, "JP a16", 3, func(c *CPU) uint8 {
		c.PC = c.operand16()
		return 16
	})
	defineControl(0xC9, "RET", 1, func(c *CPU) uint8 {
		c.PC = c.pop()
		return 16
	})
	defineControl(0xCB, "PREFIX CB", 2, func(c *CPU) uint8 {
		return InstructionSetCB[c.operand8()].fn(c)
	})
	defineControl(0xCD, "CALL a16", 3, func(c *CPU) uint8 {
		c.call(c.operand16(), 3)
		return 24
	})
	defineControl(0xD9, "RETI", 1, func(c *CPU) uint8 {
		c.PC = c.pop()
		c.irq.IME = true
		return 16
	})
	defineControl(0xE9, "JP HL", 1, func(c *CPU) uint8 {
		c.PC = c.HL.Uint16()
		return 4
	})

	defineInstruction(0xE0, "LDH (a8), A", 2, 12, func(c *CPU) {
		c.write(0xFF00+uint16(c.operand8()), c.A)
	})
	defineInstruction(0xF0, "LDH A, (a8)", 2, 12, func(c *CPU) {
		c.A = c.read(0xFF00 + uint16(c.operand8()))
	})
	defineInstruction(0xE2, "LD (C), A", 1, 8, func(c *CPU) {
		c.write(0xFF00+uint16(c.C), c.A)
	})
	defineInstruction(0xF2, "LD A, (C)", 1, 8, func(c *CPU) {
		c.A = c.read(0xFF00 + uint16(c.C))
	})
	defineInstruction(0xE8, "ADD SP, r8", 2, 16, func(c *CPU) {
		c.SP = c.addSPSigned()
	})
	defineInstruction(0xF8, "LD HL, SP+r8", 2, 12, func(c *CPU) {
		c.HL.SetUint16(c.addSPSigned())
	})
	defineInstruction(0xEA, "LD (a16), A", 3, 16, func(c *CPU) {
		c.write(c.operand16(), c.A)
	})
	defineInstruction(0xFA, "LD A, (a16)", 3, 16, func(c *CPU) {
		c.A = c.read(c.operand16())
	})
	defineInstruction(0xF9, "LD SP, HL", 1, 8, func(c *CPU) {
		c.SP = c.HL.Uint16()
	})
	defineInstruction(0xF3, "DI", 1, 4, func(c *CPU) {
		c.irq.IME = false
	})
	defineInstruction(0xFB, "EI", 1, 4, func(c *CPU) {
		c.irq.IME = true
	})
}
