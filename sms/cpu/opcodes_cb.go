package cpu

// execCB decodes and executes a CB-prefixed opcode: rotates/shifts,
// BIT/RES/SET on the standard 3-bit register field (§4.2 "CB prefix").
func execCB(c *CPU, sub uint8) int {
	x := sub >> 6
	y := (sub >> 3) & 7
	z := sub & 7

	switch x {
	case 0:
		v := c.getR8(z)
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
		c.setR8(z, r)
		if z == 6 {
			return 15
		}
		return 8
	case 1:
		v := c.getR8(z)
		f35 := v
		if z == 6 {
			f35 = uint8(c.Regs.HL() >> 8)
		}
		c.bitTest(y, v, f35)
		if z == 6 {
			return 12
		}
		return 8
	case 2:
		v := c.getR8(z)
		c.setR8(z, resBit(y, v))
		if z == 6 {
			return 15
		}
		return 8
	default:
		v := c.getR8(z)
		c.setR8(z, setBit(y, v))
		if z == 6 {
			return 15
		}
		return 8
	}
}
