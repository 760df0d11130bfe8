package cpu

// imTable maps the ED `IM` opcode's y field to the interrupt mode it
// selects; the repeated entries are the documented duplicate encodings.
var imTable = [8]uint8{0, 0, 1, 2, 0, 0, 1, 2}

// execED decodes and executes an ED-prefixed opcode (§4.2 "ED prefix").
// Undocumented subcodes outside the documented table execute as 8-cycle
// no-ops, per spec.
func execED(c *CPU, sub uint8) int {
	x := sub >> 6
	y := (sub >> 3) & 7
	z := sub & 7
	q := y & 1
	p := y >> 1

	if x == 1 {
		switch z {
		case 0:
			v := c.in(c.Regs.BC())
			if y != 6 {
				c.setR8(y, v)
			}
			c.setSZ53(v)
			c.Regs.SetFlag(FlagH, false)
			c.Regs.SetFlag(FlagN, false)
			c.Regs.SetFlag(FlagPV, parity(v))
			return 12
		case 1:
			v := uint8(0)
			if y != 6 {
				v = c.getR8(y)
			}
			c.out(c.Regs.BC(), v)
			return 12
		case 2:
			if q == 0 {
				c.Regs.SetHL(c.sbcHL16(c.Regs.HL(), c.getRP(p)))
			} else {
				c.Regs.SetHL(c.adcHL16(c.Regs.HL(), c.getRP(p)))
			}
			return 15
		case 3:
			addr := c.fetch16()
			if q == 0 {
				v := c.getRP(p)
				c.write(addr, uint8(v))
				c.write(addr+1, uint8(v>>8))
			} else {
				lo := c.read(addr)
				hi := c.read(addr + 1)
				c.setRP(p, uint16(hi)<<8|uint16(lo))
			}
			return 20
		case 4:
			a := c.Regs.A
			c.Regs.A = c.sub8(0, a, 0)
			return 8
		case 5:
			c.Regs.IFF1 = c.Regs.IFF2
			c.Regs.PC = c.pop()
			return 14
		case 6:
			c.Regs.IM = imTable[y]
			return 8
		default: // z==7
			return execEDMisc(c, y)
		}
	}

	if x == 2 && z <= 3 && y >= 4 {
		return execEDBlock(c, y, z)
	}

	return 8
}

func execEDMisc(c *CPU, y uint8) int {
	switch y {
	case 0:
		c.Regs.I = c.Regs.A
		return 9
	case 1:
		c.Regs.R = c.Regs.A
		return 9
	case 2:
		c.Regs.A = c.Regs.I
		c.setSZ53(c.Regs.A)
		c.Regs.SetFlag(FlagH, false)
		c.Regs.SetFlag(FlagN, false)
		c.Regs.SetFlag(FlagPV, c.Regs.IFF2)
		return 9
	case 3:
		c.Regs.A = c.Regs.R
		c.setSZ53(c.Regs.A)
		c.Regs.SetFlag(FlagH, false)
		c.Regs.SetFlag(FlagN, false)
		c.Regs.SetFlag(FlagPV, c.Regs.IFF2)
		return 9
	case 4:
		m := c.read(c.Regs.HL())
		newM := (c.Regs.A<<4)&0xF0 | (m >> 4)
		newA := (c.Regs.A & 0xF0) | (m & 0x0F)
		c.write(c.Regs.HL(), newM)
		c.Regs.A = newA
		c.setSZ53(newA)
		c.Regs.SetFlag(FlagH, false)
		c.Regs.SetFlag(FlagN, false)
		c.Regs.SetFlag(FlagPV, parity(newA))
		return 18
	case 5:
		m := c.read(c.Regs.HL())
		newM := (m << 4) | (c.Regs.A & 0x0F)
		newA := (c.Regs.A & 0xF0) | (m >> 4)
		c.write(c.Regs.HL(), newM)
		c.Regs.A = newA
		c.setSZ53(newA)
		c.Regs.SetFlag(FlagH, false)
		c.Regs.SetFlag(FlagN, false)
		c.Regs.SetFlag(FlagPV, parity(newA))
		return 18
	default:
		return 8
	}
}

// blockIOFlags implements §4.2's shared block-I/O flag rule: "N reflects
// bit 7 of the byte; C,H from (IO_value + (C±1)) > 0xFF; PV is parity of
// ((IO_value + (C±1)) & 7) XOR B; Z set when B decrements to 0".
func (c *CPU) blockIOFlags(ioValue uint8, increment bool, newB uint8) {
	adj := uint16(c.Regs.C) + 1
	if !increment {
		adj = uint16(c.Regs.C) - 1
	}
	k := uint16(ioValue) + (adj & 0xFF)
	c.setSZ53(newB)
	c.Regs.SetFlag(FlagN, ioValue&0x80 != 0)
	c.Regs.SetFlag(FlagH, k > 0xFF)
	c.Regs.SetFlag(FlagC, k > 0xFF)
	c.Regs.SetFlag(FlagPV, parity(uint8(k&7)^newB))
}

func execEDBlock(c *CPU, y, z uint8) int {
	increment := y == 4 || y == 6
	repeat := y == 6 || y == 7

	dir := int16(1)
	if !increment {
		dir = -1
	}

	switch z {
	case 0: // LDI/LDD/LDIR/LDDR
		val := c.read(c.Regs.HL())
		c.write(c.Regs.DE(), val)
		c.Regs.SetHL(uint16(int32(c.Regs.HL()) + int32(dir)))
		c.Regs.SetDE(uint16(int32(c.Regs.DE()) + int32(dir)))
		bc := c.Regs.BC() - 1
		c.Regs.SetBC(bc)

		n := c.Regs.A + val
		c.Regs.SetFlag(FlagH, false)
		c.Regs.SetFlag(FlagN, false)
		c.Regs.SetFlag(FlagPV, bc != 0)
		c.Regs.SetFlag(FlagF3, n&0x08 != 0)
		c.Regs.SetFlag(FlagF5, n&0x02 != 0)

		if repeat && bc != 0 {
			c.Regs.PC -= 2
			return 21
		}
		return 16

	case 1: // CPI/CPD/CPIR/CPDR
		val := c.read(c.Regs.HL())
		result := c.Regs.A - val
		halfBorrow := (c.Regs.A & 0x0F) < (val & 0x0F)
		c.Regs.SetHL(uint16(int32(c.Regs.HL()) + int32(dir)))
		bc := c.Regs.BC() - 1
		c.Regs.SetBC(bc)

		c.setSZ53(result)
		n := result
		if halfBorrow {
			n--
		}
		c.Regs.SetFlag(FlagH, halfBorrow)
		c.Regs.SetFlag(FlagN, true)
		c.Regs.SetFlag(FlagPV, bc != 0)
		c.Regs.SetFlag(FlagF3, n&0x08 != 0)
		c.Regs.SetFlag(FlagF5, n&0x02 != 0)

		if repeat && bc != 0 && result != 0 {
			c.Regs.PC -= 2
			return 21
		}
		return 16

	case 2: // INI/IND/INIR/INDR
		val := c.in(c.Regs.BC())
		c.write(c.Regs.HL(), val)
		c.Regs.SetHL(uint16(int32(c.Regs.HL()) + int32(dir)))
		c.Regs.B--
		c.blockIOFlags(val, increment, c.Regs.B)

		if repeat && c.Regs.B != 0 {
			c.Regs.PC -= 2
			return 21
		}
		return 16

	default: // z==3: OUTI/OUTD/OTIR/OTDR
		val := c.read(c.Regs.HL())
		c.Regs.SetHL(uint16(int32(c.Regs.HL()) + int32(dir)))
		c.Regs.B--
		c.out(c.Regs.BC(), val)
		c.blockIOFlags(val, increment, c.Regs.B)

		if repeat && c.Regs.B != 0 {
			c.Regs.PC -= 2
			return 21
		}
		return 16
	}
}
