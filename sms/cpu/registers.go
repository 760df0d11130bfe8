package cpu

import "github.com/mattias800/ai-sms-gpt5-sub002/sms/bit"

// Flag bit positions within F (§3: S,Z,F5,H,F3,P/V,N,C from bit 7 down to 0).
const (
	FlagC  uint8 = 1 << 0
	FlagN  uint8 = 1 << 1
	FlagPV uint8 = 1 << 2
	FlagF3 uint8 = 1 << 3
	FlagH  uint8 = 1 << 4
	FlagF5 uint8 = 1 << 5
	FlagZ  uint8 = 1 << 6
	FlagS  uint8 = 1 << 7
)

// Registers holds the full Z80 register file: the main and shadow 8-bit
// sets, the two index registers, stack pointer, program counter, the
// refresh/interrupt-vector pair, interrupt enable flip-flops and mode, and
// the halted/EI-pending bookkeeping bits (§3).
type Registers struct {
	A, F, B, C, D, E, H, L         uint8
	A_, F_, B_, C_, D_, E_, H_, L_ uint8

	IX, IY, SP, PC uint16

	I, R uint8

	IFF1, IFF2 bool
	IM         uint8

	Halted    bool
	EIPending bool
}

func (r *Registers) BC() uint16 { return bit.Combine(r.B, r.C) }
func (r *Registers) DE() uint16 { return bit.Combine(r.D, r.E) }
func (r *Registers) HL() uint16 { return bit.Combine(r.H, r.L) }
func (r *Registers) AF() uint16 { return bit.Combine(r.A, r.F) }

func (r *Registers) SetBC(v uint16) { r.B, r.C = bit.High(v), bit.Low(v) }
func (r *Registers) SetDE(v uint16) { r.D, r.E = bit.High(v), bit.Low(v) }
func (r *Registers) SetHL(v uint16) { r.H, r.L = bit.High(v), bit.Low(v) }
func (r *Registers) SetAF(v uint16) { r.A, r.F = bit.High(v), bit.Low(v) }

// ExxAF exchanges AF with the shadow AF' (the `EX AF,AF'` instruction).
func (r *Registers) ExxAF() {
	r.A, r.A_ = r.A_, r.A
	r.F, r.F_ = r.F_, r.F
}

// Exx exchanges BC/DE/HL with their shadow counterparts (the `EXX` instruction).
func (r *Registers) Exx() {
	r.B, r.B_ = r.B_, r.B
	r.C, r.C_ = r.C_, r.C
	r.D, r.D_ = r.D_, r.D
	r.E, r.E_ = r.E_, r.E
	r.H, r.H_ = r.H_, r.H
	r.L, r.L_ = r.L_, r.L
}

func (r *Registers) GetFlag(mask uint8) bool { return r.F&mask != 0 }

func (r *Registers) SetFlag(mask uint8, set bool) {
	if set {
		r.F |= mask
	} else {
		r.F &^= mask
	}
}

// BumpR increments the refresh register by n, preserving bit 7 and wrapping
// only the lower 7 bits (§4.2 "R register").
func (r *Registers) BumpR(n uint8) {
	r.R = (r.R & 0x80) | ((r.R + n) & 0x7F)
}
