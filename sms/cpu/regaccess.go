package cpu

// getR8/setR8 implement the standard 3-bit register field {B,C,D,E,H,L,
// (HL),A} shared by the LD r,r', ALU A,r and rotate/BIT/RES/SET opcode
// groups (§4.2).
func (c *CPU) getR8(idx uint8) uint8 {
	switch idx {
	case 0:
		return c.Regs.B
	case 1:
		return c.Regs.C
	case 2:
		return c.Regs.D
	case 3:
		return c.Regs.E
	case 4:
		return c.Regs.H
	case 5:
		return c.Regs.L
	case 6:
		return c.read(c.Regs.HL())
	default:
		return c.Regs.A
	}
}

func (c *CPU) setR8(idx uint8, v uint8) {
	switch idx {
	case 0:
		c.Regs.B = v
	case 1:
		c.Regs.C = v
	case 2:
		c.Regs.D = v
	case 3:
		c.Regs.E = v
	case 4:
		c.Regs.H = v
	case 5:
		c.Regs.L = v
	case 6:
		c.write(c.Regs.HL(), v)
	default:
		c.Regs.A = v
	}
}

// getRP/setRP implement the {BC,DE,HL,SP} pair field used by LD rp,nn,
// INC/DEC rp and ADD HL,rp.
func (c *CPU) getRP(p uint8) uint16 {
	switch p {
	case 0:
		return c.Regs.BC()
	case 1:
		return c.Regs.DE()
	case 2:
		return c.Regs.HL()
	default:
		return c.Regs.SP
	}
}

func (c *CPU) setRP(p uint8, v uint16) {
	switch p {
	case 0:
		c.Regs.SetBC(v)
	case 1:
		c.Regs.SetDE(v)
	case 2:
		c.Regs.SetHL(v)
	default:
		c.Regs.SP = v
	}
}

// getRP2/setRP2 implement the {BC,DE,HL,AF} pair field used by PUSH/POP.
func (c *CPU) getRP2(p uint8) uint16 {
	switch p {
	case 0:
		return c.Regs.BC()
	case 1:
		return c.Regs.DE()
	case 2:
		return c.Regs.HL()
	default:
		return c.Regs.AF()
	}
}

func (c *CPU) setRP2(p uint8, v uint16) {
	switch p {
	case 0:
		c.Regs.SetBC(v)
	case 1:
		c.Regs.SetDE(v)
	case 2:
		c.Regs.SetHL(v)
	default:
		c.Regs.SetAF(v)
	}
}

func (c *CPU) condTrue(y uint8) bool {
	switch y {
	case 0:
		return !c.Regs.GetFlag(FlagZ)
	case 1:
		return c.Regs.GetFlag(FlagZ)
	case 2:
		return !c.Regs.GetFlag(FlagC)
	case 3:
		return c.Regs.GetFlag(FlagC)
	case 4:
		return !c.Regs.GetFlag(FlagPV)
	case 5:
		return c.Regs.GetFlag(FlagPV)
	case 6:
		return !c.Regs.GetFlag(FlagS)
	default:
		return c.Regs.GetFlag(FlagS)
	}
}

// aluOp dispatches the 8 ALU operations shared by the `x=2` opcode block
// and the `ALU A,n` immediate forms.
func (c *CPU) aluOp(y uint8, val uint8) {
	carryIn := uint8(0)
	if c.Regs.GetFlag(FlagC) {
		carryIn = 1
	}
	switch y {
	case 0:
		c.Regs.A = c.add8(c.Regs.A, val, 0)
	case 1:
		c.Regs.A = c.add8(c.Regs.A, val, carryIn)
	case 2:
		c.Regs.A = c.sub8(c.Regs.A, val, 0)
	case 3:
		c.Regs.A = c.sub8(c.Regs.A, val, carryIn)
	case 4:
		c.Regs.A = c.and8(c.Regs.A, val)
	case 5:
		c.Regs.A = c.xor8(c.Regs.A, val)
	case 6:
		c.Regs.A = c.or8(c.Regs.A, val)
	case 7:
		c.sub8(c.Regs.A, val, 0)
	}
}
