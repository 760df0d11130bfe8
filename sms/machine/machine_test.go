package machine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newCart(size int) []byte {
	return make([]byte, size)
}

func TestMapperPagingSwitchesROMBank(t *testing.T) {
	cart := newCart(0x10000) // 4 banks of 16KiB
	cart[0x8000] = 0xAA      // bank 2, offset 0
	cart[0x0000] = 0xBB      // bank 0, offset 0

	m, err := New(Config{Cartridge: cart})
	assert.NoError(t, err)

	m.Bus.Write(0xFFFE, 2)
	assert.Equal(t, uint8(0xAA), m.Bus.Read(0x4000))

	m.Bus.Write(0xFFFE, 0)
	assert.Equal(t, uint8(0xBB), m.Bus.Read(0x4000))
}

func TestBIOSOverlayDisabledByMemoryControlBit3(t *testing.T) {
	cart := newCart(0x4000)
	cart[0x0100] = 0xC1
	bios := make([]byte, 0x2000)
	bios[0x0100] = 0xB2

	m, err := New(Config{Cartridge: cart, BIOS: bios})
	assert.NoError(t, err)

	assert.Equal(t, uint8(0xB2), m.Bus.Read(0x0100))

	m.Bus.Out(0x3E, 0x08)
	assert.Equal(t, uint8(0xC1), m.Bus.Read(0x0100))
}

func TestVBlankIRQAcceptedExactlyOnceOverAFrame(t *testing.T) {
	cart := newCart(0x4000)
	cart[0] = 0xFB // EI
	// remaining bytes are 0x00 (NOP), so the CPU free-runs after EI.

	m, err := New(Config{Cartridge: cart})
	assert.NoError(t, err)
	m.CPU.Regs.IM = 1
	m.VDP.SetRegister(1, 0x20) // enable VBlank IRQ

	const cyclesPerFrame = 262 * 228
	total := 0
	accepted := 0
	for total < cyclesPerFrame {
		c, acc := m.CPU.Step()
		total += c
		if acc {
			accepted++
		}
	}

	assert.Equal(t, 1, accepted)
}

func TestLDIRAcrossTheBusThroughWorkRAM(t *testing.T) {
	cart := newCart(0x4000)
	cart[0] = 0xED
	cart[1] = 0xB0 // LDIR
	cart[2] = 0x76 // HALT

	m, err := New(Config{Cartridge: cart})
	assert.NoError(t, err)

	m.Bus.Write(0xC000, 0x11)
	m.Bus.Write(0xC001, 0x22)
	m.Bus.Write(0xC002, 0x33)
	m.CPU.Regs.SetHL(0xC000)
	m.CPU.Regs.SetDE(0xC100)
	m.CPU.Regs.SetBC(3)

	for !m.CPU.Regs.Halted {
		m.CPU.Step()
	}

	assert.Equal(t, m.Bus.Read(0xC000), m.Bus.Read(0xC100))
	assert.Equal(t, m.Bus.Read(0xC001), m.Bus.Read(0xC101))
	assert.Equal(t, m.Bus.Read(0xC002), m.Bus.Read(0xC102))
}

func TestManualInitEnablesInterruptsWithoutBIOS(t *testing.T) {
	cart := newCart(0x4000)
	m, err := New(Config{Cartridge: cart, UseManualInit: true})
	assert.NoError(t, err)
	assert.True(t, m.CPU.Regs.IFF1)
	assert.Equal(t, uint8(1), m.CPU.Regs.IM)
}

func TestPSGToneWriteThroughIOPort(t *testing.T) {
	cart := newCart(0x4000)
	m, err := New(Config{Cartridge: cart})
	assert.NoError(t, err)

	m.Bus.Out(0x7F, 0x9F) // latch tone0 volume, d=0xF (silent)
	m.Bus.Out(0x7F, 0x80) // latch tone0 low nibble 0
	m.Bus.Out(0x7F, 0x00) // data byte: high bits 0 -> period 0

	// All four channels power on silent (volume index 15); only tone 0's
	// period was touched here, so the mix stays at zero.
	assert.Equal(t, int16(0), m.PSG.GetSample())
}
