package cpu

// execIndexed decodes and executes one DD- or FD-prefixed instruction,
// substituting the addressed index register (IX for DD, IY for FD) for HL
// (§4.2 "DD/FD prefix"). Opcodes that never reference HL behave exactly as
// their un-prefixed form, with the prefix costing a wasted fetch — the
// same "prefix is its own NOP-like M1 cycle" behavior real Z80 silicon
// exhibits for the handful of undocumented IX/IY half-register opcodes this
// interpreter does not special-case.
func execIndexed(c *CPU, idx *uint16) int {
	sub := c.fetch()
	if sub == 0xCB {
		c.Regs.BumpR(1)
		d := int8(c.fetch())
		sub2 := c.fetch()
		return execIndexedCB(c, idx, d, sub2)
	}
	c.Regs.BumpR(1)

	switch sub {
	case 0x21:
		*idx = c.fetch16()
		return 14
	case 0x22:
		addr := c.fetch16()
		c.write(addr, uint8(*idx))
		c.write(addr+1, uint8(*idx>>8))
		return 20
	case 0x2A:
		addr := c.fetch16()
		lo := c.read(addr)
		hi := c.read(addr + 1)
		*idx = uint16(hi)<<8 | uint16(lo)
		return 20
	case 0x23:
		*idx++
		return 10
	case 0x2B:
		*idx--
		return 10
	case 0x24:
		h := uint8(*idx >> 8)
		nh := c.inc8(h)
		*idx = uint16(nh)<<8 | (*idx & 0xFF)
		return 8
	case 0x2C:
		l := uint8(*idx)
		nl := c.inc8(l)
		*idx = (*idx &^ 0xFF) | uint16(nl)
		return 8
	case 0x25:
		h := uint8(*idx >> 8)
		nh := c.dec8(h)
		*idx = uint16(nh)<<8 | (*idx & 0xFF)
		return 8
	case 0x2D:
		l := uint8(*idx)
		nl := c.dec8(l)
		*idx = (*idx &^ 0xFF) | uint16(nl)
		return 8
	case 0x26:
		n := c.fetch()
		*idx = uint16(n)<<8 | (*idx & 0xFF)
		return 11
	case 0x2E:
		n := c.fetch()
		*idx = (*idx &^ 0xFF) | uint16(n)
		return 11
	case 0x09, 0x19, 0x29, 0x39:
		var pp uint16
		switch sub {
		case 0x09:
			pp = c.Regs.BC()
		case 0x19:
			pp = c.Regs.DE()
		case 0x29:
			pp = *idx
		default:
			pp = c.Regs.SP
		}
		*idx = c.addHL16(*idx, pp)
		return 15
	case 0x34:
		d := int8(c.fetch())
		addr := uint16(int32(*idx) + int32(d))
		c.write(addr, c.inc8(c.read(addr)))
		return 23
	case 0x35:
		d := int8(c.fetch())
		addr := uint16(int32(*idx) + int32(d))
		c.write(addr, c.dec8(c.read(addr)))
		return 23
	case 0x36:
		d := int8(c.fetch())
		n := c.fetch()
		addr := uint16(int32(*idx) + int32(d))
		c.write(addr, n)
		return 19
	case 0xE1:
		*idx = c.pop()
		return 14
	case 0xE5:
		c.push(*idx)
		return 15
	case 0xE3:
		lo := c.read(c.Regs.SP)
		hi := c.read(c.Regs.SP + 1)
		v := uint16(hi)<<8 | uint16(lo)
		c.write(c.Regs.SP, uint8(*idx))
		c.write(c.Regs.SP+1, uint8(*idx>>8))
		*idx = v
		return 23
	case 0xE9:
		c.Regs.PC = *idx
		return 8
	case 0xF9:
		c.Regs.SP = *idx
		return 10
	}

	x := sub >> 6
	y := (sub >> 3) & 7
	z := sub & 7

	if x == 1 && y == 6 && z == 6 {
		c.Regs.Halted = true
		return 4
	}
	if x == 1 && (y == 6 || z == 6) {
		d := int8(c.fetch())
		addr := uint16(int32(*idx) + int32(d))
		if y == 6 {
			c.write(addr, c.getR8(z))
		} else {
			c.setR8(y, c.read(addr))
		}
		return 19
	}
	if x == 2 && z == 6 {
		d := int8(c.fetch())
		addr := uint16(int32(*idx) + int32(d))
		c.aluOp(y, c.read(addr))
		return 19
	}

	// Opcodes that never reference HL ignore the prefix entirely but still
	// pay for the wasted DD/FD fetch cycle real silicon spends decoding it.
	return runBase(c, sub) + 4
}

// execIndexedCB decodes a DDCB/FDCB instruction: the displacement byte d
// always precedes the opcode, and every operation addresses (idx+d), even
// the BIT/RES/SET forms whose 3-bit register field would otherwise name a
// plain register — the "undocumented copy" in that case also stores the
// result into the named register (§4.2 "DDCB/FDCB indexed bit ops").
func execIndexedCB(c *CPU, idx *uint16, d int8, sub uint8) int {
	addr := uint16(int32(*idx) + int32(d))
	x := sub >> 6
	y := (sub >> 3) & 7
	z := sub & 7

	v := c.read(addr)

	switch x {
	case 0:
		var r uint8
		switch y {
		case 0:
			r = c.rlc(v)
		case 1:
			r = c.rrc(v)
		case 2:
			r = c.rl(v)
		case 3:
			r = c.rr(v)
		case 4:
			r = c.sla(v)
		case 5:
			r = c.sra(v)
		case 6:
			r = c.sll(v)
		default:
			r = c.srl(v)
		}
		c.write(addr, r)
		if z != 6 {
			c.setR8(z, r)
		}
		return 23
	case 1:
		c.bitTest(y, v, uint8(addr>>8))
		return 20
	case 2:
		r := resBit(y, v)
		c.write(addr, r)
		if z != 6 {
			c.setR8(z, r)
		}
		return 23
	default:
		r := setBit(y, v)
		c.write(addr, r)
		if z != 6 {
			c.setR8(z, r)
		}
		return 23
	}
}
