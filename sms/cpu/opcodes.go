package cpu

// runBase decodes and executes one un-prefixed opcode using the standard
// x/y/z/p/q bitfield decomposition of the Z80's regular instruction
// encoding (op = xxyyyzzz, p = y>>1, q = y&1). This generalizes
// jeebie/cpu/mapping.go's per-opcode dispatch-table idea to the much
// larger and more regular Z80 base table: rather than 256 hand-written
// functions, the regular families (loads, ALU, INC/DEC, conditional
// jumps/calls/returns, PUSH/POP, RST) are each one switch arm keyed by
// their bitfield, with the handful of genuinely irregular opcodes (HALT,
// EX (SP),HL, DI/EI, ...) called out explicitly.
func runBase(c *CPU, op uint8) int {
	x := op >> 6
	y := (op >> 3) & 7
	z := op & 7
	p := y >> 1
	q := y & 1

	switch x {
	case 0:
		return runBaseX0(c, y, z, p, q)
	case 1:
		if z == 6 && y == 6 {
			c.Regs.Halted = true
			return 4
		}
		v := c.getR8(z)
		c.setR8(y, v)
		if y == 6 || z == 6 {
			return 7
		}
		return 4
	case 2:
		v := c.getR8(z)
		c.aluOp(y, v)
		if z == 6 {
			return 7
		}
		return 4
	default:
		return runBaseX3(c, y, z, p, q)
	}
}

func runBaseX0(c *CPU, y, z, p, q uint8) int {
	switch z {
	case 0:
		switch {
		case y == 0:
			return 4 // NOP
		case y == 1:
			c.Regs.ExxAF()
			return 4
		case y == 2: // DJNZ d
			d := int8(c.fetch())
			c.Regs.B--
			if c.Regs.B != 0 {
				c.Regs.PC = uint16(int32(c.Regs.PC) + int32(d))
				return 13
			}
			return 8
		case y == 3: // JR d
			d := int8(c.fetch())
			c.Regs.PC = uint16(int32(c.Regs.PC) + int32(d))
			return 12
		default: // JR cc,d (y=4..7 -> cc 0..3)
			d := int8(c.fetch())
			if c.condTrue(y - 4) {
				c.Regs.PC = uint16(int32(c.Regs.PC) + int32(d))
				return 12
			}
			return 7
		}
	case 1:
		if q == 0 {
			c.setRP(p, c.fetch16())
			return 10
		}
		c.setRP(2, c.addHL16(c.Regs.HL(), c.getRP(p)))
		return 11
	case 2:
		return runIndirectLoad(c, p, q)
	case 3:
		if q == 0 {
			c.setRP(p, c.getRP(p)+1)
		} else {
			c.setRP(p, c.getRP(p)-1)
		}
		return 6
	case 4:
		v := c.inc8(c.getR8(y))
		c.setR8(y, v)
		if y == 6 {
			return 11
		}
		return 4
	case 5:
		v := c.dec8(c.getR8(y))
		c.setR8(y, v)
		if y == 6 {
			return 11
		}
		return 4
	case 6:
		n := c.fetch()
		c.setR8(y, n)
		if y == 6 {
			return 10
		}
		return 7
	default: // z==7
		return runAccumFlagOp(c, y)
	}
}

func runIndirectLoad(c *CPU, p, q uint8) int {
	if q == 0 {
		switch p {
		case 0:
			c.write(c.Regs.BC(), c.Regs.A)
			return 7
		case 1:
			c.write(c.Regs.DE(), c.Regs.A)
			return 7
		case 2:
			addr := c.fetch16()
			c.write(addr, c.Regs.L)
			c.write(addr+1, c.Regs.H)
			return 16
		default:
			addr := c.fetch16()
			c.write(addr, c.Regs.A)
			return 13
		}
	}
	switch p {
	case 0:
		c.Regs.A = c.read(c.Regs.BC())
		return 7
	case 1:
		c.Regs.A = c.read(c.Regs.DE())
		return 7
	case 2:
		addr := c.fetch16()
		lo := c.read(addr)
		hi := c.read(addr + 1)
		c.Regs.SetHL(uint16(hi)<<8 | uint16(lo))
		return 16
	default:
		addr := c.fetch16()
		c.Regs.A = c.read(addr)
		return 13
	}
}

// accumRotate applies the RLCA/RRCA/RLA/RRA flag pattern: unlike their CB
// siblings, these leave S,Z,PV untouched and only set H=0,N=0,C,F3,F5.
func (c *CPU) accumRotate(result uint8, carryOut bool) uint8 {
	c.Regs.SetFlag(FlagH, false)
	c.Regs.SetFlag(FlagN, false)
	c.Regs.SetFlag(FlagC, carryOut)
	c.Regs.SetFlag(FlagF3, result&0x08 != 0)
	c.Regs.SetFlag(FlagF5, result&0x20 != 0)
	return result
}

func runAccumFlagOp(c *CPU, y uint8) int {
	switch y {
	case 0:
		carry := c.Regs.A&0x80 != 0
		r := c.Regs.A << 1
		if carry {
			r |= 1
		}
		c.Regs.A = c.accumRotate(r, carry)
		return 4
	case 1:
		carry := c.Regs.A&0x01 != 0
		r := c.Regs.A >> 1
		if carry {
			r |= 0x80
		}
		c.Regs.A = c.accumRotate(r, carry)
		return 4
	case 2:
		carryIn := uint8(0)
		if c.Regs.GetFlag(FlagC) {
			carryIn = 1
		}
		carryOut := c.Regs.A&0x80 != 0
		c.Regs.A = c.accumRotate((c.Regs.A<<1)|carryIn, carryOut)
		return 4
	case 3:
		carryIn := uint8(0)
		if c.Regs.GetFlag(FlagC) {
			carryIn = 0x80
		}
		carryOut := c.Regs.A&0x01 != 0
		c.Regs.A = c.accumRotate((c.Regs.A>>1)|carryIn, carryOut)
		return 4
	case 4:
		c.daa()
		return 4
	case 5:
		c.Regs.A = ^c.Regs.A
		c.Regs.SetFlag(FlagH, true)
		c.Regs.SetFlag(FlagN, true)
		c.Regs.SetFlag(FlagF3, c.Regs.A&0x08 != 0)
		c.Regs.SetFlag(FlagF5, c.Regs.A&0x20 != 0)
		return 4
	case 6:
		c.Regs.SetFlag(FlagC, true)
		c.Regs.SetFlag(FlagH, false)
		c.Regs.SetFlag(FlagN, false)
		c.Regs.SetFlag(FlagF3, c.Regs.A&0x08 != 0)
		c.Regs.SetFlag(FlagF5, c.Regs.A&0x20 != 0)
		return 4
	default: // CCF
		h := c.Regs.GetFlag(FlagC)
		c.Regs.SetFlag(FlagH, h)
		c.Regs.SetFlag(FlagC, !h)
		c.Regs.SetFlag(FlagN, false)
		c.Regs.SetFlag(FlagF3, c.Regs.A&0x08 != 0)
		c.Regs.SetFlag(FlagF5, c.Regs.A&0x20 != 0)
		return 4
	}
}

func runBaseX3(c *CPU, y, z, p, q uint8) int {
	switch z {
	case 0: // RET cc
		if c.condTrue(y) {
			c.Regs.PC = c.pop()
			return 11
		}
		return 5
	case 1:
		if q == 0 {
			c.setRP2(p, c.pop())
			return 10
		}
		switch p {
		case 0:
			c.Regs.PC = c.pop()
			return 10
		case 1:
			c.Regs.Exx()
			return 4
		case 2:
			c.Regs.PC = c.Regs.HL()
			return 4
		default:
			c.Regs.SP = c.Regs.HL()
			return 6
		}
	case 2: // JP cc,nn
		addr := c.fetch16()
		if c.condTrue(y) {
			c.Regs.PC = addr
		}
		return 10
	case 3:
		return runMiscX3(c, y)
	case 4: // CALL cc,nn
		addr := c.fetch16()
		if c.condTrue(y) {
			c.push(c.Regs.PC)
			c.Regs.PC = addr
			return 17
		}
		return 10
	case 5:
		if q == 0 {
			c.push(c.getRP2(p))
			return 11
		}
		if p == 0 {
			addr := c.fetch16()
			c.push(c.Regs.PC)
			c.Regs.PC = addr
			return 17
		}
		// p==1 (DD), p==2 (ED), p==3 (FD) are intercepted in CPU.execOne;
		// they only get here as the byte after a DD/FD prefix (execIndexed's
		// fallback), where they execute as a 4-cycle no-op.
		return 4
	case 6:
		n := c.fetch()
		c.aluOp(y, n)
		return 7
	default: // RST y*8
		c.push(c.Regs.PC)
		c.Regs.PC = uint16(y) * 8
		return 11
	}
}

func runMiscX3(c *CPU, y uint8) int {
	switch y {
	case 0:
		c.Regs.PC = c.fetch16()
		return 10
	case 1:
		return 0 // CB: intercepted before runBase.
	case 2:
		port := uint16(c.fetch())
		c.out(port, c.Regs.A)
		return 11
	case 3:
		port := uint16(c.fetch())
		c.Regs.A = c.in(port)
		return 11
	case 4:
		lo := c.read(c.Regs.SP)
		hi := c.read(c.Regs.SP + 1)
		v := uint16(hi)<<8 | uint16(lo)
		c.write(c.Regs.SP, c.Regs.L)
		c.write(c.Regs.SP+1, c.Regs.H)
		c.Regs.SetHL(v)
		return 19
	case 5:
		c.Regs.H, c.Regs.L, c.Regs.D, c.Regs.E = c.Regs.D, c.Regs.E, c.Regs.H, c.Regs.L
		return 4
	case 6:
		c.Regs.IFF1 = false
		c.Regs.IFF2 = false
		return 4
	default:
		c.Regs.IFF1 = true
		c.Regs.IFF2 = true
		c.Regs.EIPending = true
		return 4
	}
}
