package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubVDP struct{}

func (stubVDP) ReadData() uint8     { return 0 }
func (stubVDP) WriteData(uint8)     {}
func (stubVDP) ReadControl() uint8  { return 0 }
func (stubVDP) WriteControl(uint8)  {}
func (stubVDP) ReadHCounter() uint8 { return 0 }
func (stubVDP) ReadVCounter() uint8 { return 0 }
func (stubVDP) IRQPending() bool    { return false }

type stubPSG struct{ lastWrite uint8 }

func (s *stubPSG) Write(v uint8) { s.lastWrite = v }

type stubControllers struct{}

func (stubControllers) ReadPort1(uint8) uint8 { return 0xFF }
func (stubControllers) ReadPort2(uint8) uint8 { return 0xFF }

func newTestBus(cartSize int) *Bus {
	b, err := New(Config{Cartridge: make([]byte, cartSize)})
	if err != nil {
		panic(err)
	}
	b.VDP = stubVDP{}
	b.PSG = &stubPSG{}
	b.Controllers = stubControllers{}
	return b
}

func TestCartridgeSizeValidation(t *testing.T) {
	_, err := New(Config{Cartridge: make([]byte, 100)})
	assert.Error(t, err)

	_, err = New(Config{})
	assert.Error(t, err)
}

func TestMapperBankMaskingWithNonPowerOfTwoBankCount(t *testing.T) {
	// 3 banks (0xC000 bytes): not a power of two, so resolveBank falls back
	// to modulo instead of a bitmask.
	b := newTestBus(0xC000)
	b.cart[0x8000] = 0x01 // bank 2, offset 0

	b.Write(0xFFFF, 5) // mapper slot 2, masked to 0x3F then modulo 3 -> bank 2
	assert.Equal(t, uint8(0x01), b.Read(0x8000))
}

func TestBIOSOverlayCoversFixedAndSlot0Regions(t *testing.T) {
	bios := make([]byte, 0x0400)
	bios[0x0000] = 0x11
	bios[0x0300] = 0x22
	cart := make([]byte, 0x4000)
	cart[0x0000] = 0x99
	cart[0x0300] = 0x98
	cart[0x0400] = 0x97

	b, err := New(Config{Cartridge: cart, BIOS: bios})
	assert.NoError(t, err)

	assert.Equal(t, uint8(0x11), b.Read(0x0000))
	assert.Equal(t, uint8(0x22), b.Read(0x0300))
	assert.Equal(t, uint8(0x11), b.Read(0x0400)) // paged slot-0 region, BIOS repeats modulo its size

	b.Out(0x3E, 0x08) // disable BIOS overlay
	assert.Equal(t, uint8(0x99), b.Read(0x0000))
	assert.Equal(t, uint8(0x98), b.Read(0x0300))
	assert.Equal(t, uint8(0x97), b.Read(0x0400))
}

func TestCartRAMGatedByLatchAndAllowFlag(t *testing.T) {
	b, err := New(Config{Cartridge: make([]byte, 0x4000), AllowCartRAM: true})
	assert.NoError(t, err)

	b.Write(0xFFFC, 0x08) // enable cart RAM via the latch
	b.Write(0x8000, 0x77)
	assert.Equal(t, uint8(0x77), b.Read(0x8000))

	b.Write(0xFFFC, 0x00) // disable: 0x8000 now reads through the mapper again
	assert.NotEqual(t, uint8(0x77), b.Read(0x8000))
}

func TestCartRAMDisallowedFallsThroughToROM(t *testing.T) {
	cart := make([]byte, 0x4000)
	cart[0] = 0x55
	b, err := New(Config{Cartridge: cart, AllowCartRAM: false})
	assert.NoError(t, err)

	b.Write(0xFFFC, 0x08)
	b.Write(0x8000, 0x77)
	assert.Equal(t, uint8(0x55), b.Read(0x8000)) // write ignored, ROM unchanged
}

func TestWorkRAMMirrorsIntoUpperAddressSpace(t *testing.T) {
	b := newTestBus(0x4000)
	b.Write(0xC010, 0x42)
	assert.Equal(t, uint8(0x42), b.Read(0xE010))

	b.Write(0xFFF0, 0x99)
	assert.Equal(t, uint8(0x99), b.Read(0xDFF0))
}

func TestROMWritesOutsideCartRAMAreNoOps(t *testing.T) {
	cart := make([]byte, 0x4000)
	cart[0x0000] = 0x12
	b, err := New(Config{Cartridge: cart})
	assert.NoError(t, err)

	b.Write(0x0000, 0xFF)
	assert.Equal(t, uint8(0x12), b.Read(0x0000))
}

func TestResetMapperRestoresPowerOnLatches(t *testing.T) {
	b := newTestBus(0x10000)
	b.Write(0xFFFD, 3)
	b.Write(0xFFFE, 3)
	b.Write(0xFFFF, 3)
	b.Out(0x3E, 0x08)

	b.ResetMapper()

	assert.Equal(t, [3]uint8{0, 1, 2}, b.MapperBanks())
	assert.Equal(t, uint8(0), b.MemoryControl())
}

func TestIOPortDecoderRoutesPSGAndControllerPorts(t *testing.T) {
	b := newTestBus(0x4000)
	psg := b.PSG.(*stubPSG)

	b.Out(0x40, 0xAB) // PSG data, low 6 bits irrelevant within the 0x40-0x7F bucket
	assert.Equal(t, uint8(0xAB), psg.lastWrite)

	assert.Equal(t, uint8(0xFF), b.In(0xDC))
	assert.Equal(t, uint8(0xFF), b.In(0xDD))
	assert.Equal(t, uint8(0xFF), b.In(0xC1)) // unmatched low-6 bits in the controller bucket
}
