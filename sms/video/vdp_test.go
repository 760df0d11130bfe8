package video

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func writeControl16(v *VDP, addr uint16, code uint8) {
	v.WriteControl(uint8(addr))
	v.WriteControl(uint8(addr>>8) | code<<6)
}

func TestControlPortLatchesAddress(t *testing.T) {
	v := New()
	writeControl16(v, 0x1234, 1) // code 1: VRAM write setup
	v.WriteData(0x42)
	assert.Equal(t, uint8(0x42), v.vram[0x1234])
	assert.Equal(t, uint16(0x1235), v.addr)
}

func TestRegisterWriteLatchesLowByteOfFirstWrite(t *testing.T) {
	v := New()
	v.WriteControl(0x0F) // first write: value to store
	v.WriteControl(2<<6 | 0x01)
	assert.Equal(t, uint8(0x0F), v.regs[1])
}

func TestVRAMReadBufferPriming(t *testing.T) {
	v := New()
	v.vram[0x10] = 0xAB
	v.vram[0x11] = 0xCD
	writeControl16(v, 0x10, 0) // code 0: VRAM read setup primes buffer
	assert.Equal(t, uint8(0xAB), v.ReadData())
	assert.Equal(t, uint8(0xCD), v.ReadData())
}

func TestStatusReadClearsFlagsAndLatch(t *testing.T) {
	v := New()
	v.status = 0xE0
	v.latched = true
	got := v.ReadControl()
	assert.Equal(t, uint8(0xE0), got)
	assert.Equal(t, uint8(0), v.status)
	assert.False(t, v.latched)
}

func TestVBlankIRQAssertsAtLine192(t *testing.T) {
	v := New()
	v.regs[1] = 0x20 // enable VBlank IRQ
	v.Tick(cyclesPerLine * vblankStartLine)
	assert.True(t, v.IRQPending())
	assert.Equal(t, uint8(0x80), v.status&0x80)
	v.ReadControl()
	assert.False(t, v.IRQPending())
}

func TestVCounterNTSCJump(t *testing.T) {
	v := New()
	v.line = 218
	assert.Equal(t, uint8(218), v.ReadVCounter())
	v.line = 219
	assert.Equal(t, uint8(219-6), v.ReadVCounter())
}

func TestM3ForcedOffWhenM4AndM3BothSet(t *testing.T) {
	v := New()
	v.regs[0] = 0x04 // M4 already set
	v.regs[1] = 0x08 // M3 already set
	// any register-2 write re-evaluates the conflict.
	v.WriteControl(0x00)
	v.WriteControl(2<<6 | 0x02)
	assert.Equal(t, uint8(0), v.regs[1]&0x08)
}

func TestRenderFrameBlanksToOverscanWhenDisplayOff(t *testing.T) {
	v := New()
	v.regs[1] = 0 // display disabled (bit 6 clear)
	v.cram[0x10] = 0x3F
	frame := v.RenderFrame()
	assert.Equal(t, uint8(255), frame[0])
	assert.Equal(t, uint8(255), frame[1])
	assert.Equal(t, uint8(255), frame[2])
}

func TestRenderFrameDecodesSolidBackgroundTile(t *testing.T) {
	v := New()
	v.regs[1] = 0x40 // display enabled
	v.regs[2] = 0x08 // name table at 0x2000, away from the tile data at 0x0000

	// tile 0, all bitplanes set -> color index 0xF everywhere.
	for row := 0; row < 8; row++ {
		base := row * 4
		v.vram[base] = 0xFF
		v.vram[base+1] = 0xFF
		v.vram[base+2] = 0xFF
		v.vram[base+3] = 0xFF
	}
	v.cram[0x0F] = 0x3F // white

	frame := v.RenderFrame()
	assert.Equal(t, uint8(255), frame[0])
	assert.Equal(t, uint8(255), frame[1])
	assert.Equal(t, uint8(255), frame[2])
}
