package audio

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResetState(t *testing.T) {
	p := New()
	assert.Equal(t, uint16(0x8000), p.lfsr)
	for _, v := range p.toneVol {
		assert.Equal(t, uint8(15), v)
	}
}

func TestToneLatchWritesLowNibble(t *testing.T) {
	p := New()
	p.Write(0x8A) // latch tone 0: cc=0,v=0,d=0xA
	assert.Equal(t, uint16(0x0A), p.tonePeriod[0])
	assert.Equal(t, 0, p.lastLatchedTone)
}

func TestDataByteWritesHighSixBitsOfLastLatchedTone(t *testing.T) {
	p := New()
	p.Write(0x8A)       // latch tone0 low nibble = 0xA
	p.Write(0x3F)       // bare data byte: high 6 bits = 0x3F
	assert.Equal(t, uint16(0x3FA), p.tonePeriod[0])
}

func TestVolumeLatchDoesNotChangeLastLatchedToneChannel(t *testing.T) {
	p := New()
	p.Write(0xC0) // latch tone 2 (cc=2, v=0): low nibble 0
	p.Write(0x90) // latch volume for tone 0 (cc=0,v=1,d=0): interleaved
	p.Write(0x1F) // bare data byte should still target tone 2
	assert.Equal(t, uint16(0x1F0), p.tonePeriod[2])
	assert.Equal(t, uint8(0), p.toneVol[0])
}

func TestNoiseWriteSetsModeAndShift(t *testing.T) {
	p := New()
	p.Write(0xE6) // cc=3,v=0,d=0110 -> mode=1 (white), shift=2
	assert.Equal(t, uint8(1), p.noiseMode)
	assert.Equal(t, uint8(2), p.noiseShift)
	assert.Equal(t, uint16(0x8000), p.lfsr)
}

func TestToneChannelTogglesAtPeriod(t *testing.T) {
	p := New()
	p.tonePeriod[0] = 2
	before := p.toneOut[0]
	p.Tick(16 * 2) // two PSG ticks
	assert.NotEqual(t, before, p.toneOut[0])
}

func TestPeriodZeroTreatedAsOne(t *testing.T) {
	p := New()
	p.tonePeriod[0] = 0
	before := p.toneOut[0]
	p.Tick(16)
	assert.NotEqual(t, before, p.toneOut[0])
}

func TestSampleClampedToRange(t *testing.T) {
	p := New()
	for i := range p.toneVol {
		p.toneVol[i] = 0 // loudest
	}
	p.toneOut[0], p.toneOut[1], p.toneOut[2], p.noiseOut = true, true, true, true
	s := p.GetSample()
	assert.LessOrEqual(t, s, int16(8191))
	assert.GreaterOrEqual(t, s, int16(-8192))
}

func TestStrictRoutingRejectsBareDataWithoutToneLowLatch(t *testing.T) {
	p := New()
	p.StrictRouting = true
	p.Write(0x90) // latch volume register (odd index), not a tone-low register
	before := p.tonePeriod[0]
	p.Write(0x3F)
	assert.Equal(t, before, p.tonePeriod[0])
}
