package controller

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReleasedPadReadsAllOnes(t *testing.T) {
	c := New()
	assert.Equal(t, uint8(0xFF), c.ReadPort1(0))
}

func TestPressedButtonClearsItsBit(t *testing.T) {
	c := New()
	c.Pad1.Up = true
	c.Pad1.Button2 = true
	got := c.ReadPort1(0)
	assert.Equal(t, uint8(0), got&0x01)
	assert.Equal(t, uint8(0), got&0x20)
	assert.NotEqual(t, uint8(0), got&0x02)
}

func TestResetClearsBit4OfPort2(t *testing.T) {
	c := New()
	assert.NotEqual(t, uint8(0), c.ReadPort2(0)&0x10)
	c.Reset = true
	assert.Equal(t, uint8(0), c.ReadPort2(0)&0x10)
}

func TestTHLatchReflectedInPort2(t *testing.T) {
	c := New()
	got := c.ReadPort2(0xA0) // bits 5 and 7 set
	assert.NotEqual(t, uint8(0), got&0x40)
	assert.NotEqual(t, uint8(0), got&0x80)
}
