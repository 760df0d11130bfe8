// Package memory implements the SMS Bus: the 64 KiB address view, the Sega
// mapper, the BIOS overlay, and the I/O port decoder routing to the VDP,
// PSG and controllers (§4.1). It follows the region-lookup-table dispatch
// style of jeebie/memory/mem.go, generalized from the Game Boy's MBC
// cartridge types to the single Sega-mapper scheme the SMS uses.
package memory

import (
	"fmt"
	"log/slog"

	"github.com/mattias800/ai-sms-gpt5-sub002/sms/addr"
)

// VDPPort is the Bus's view of the VDP, injected so this package never
// imports the video package (§9 "no cyclic ownership").
type VDPPort interface {
	ReadData() uint8
	WriteData(v uint8)
	ReadControl() uint8
	WriteControl(v uint8)
	ReadHCounter() uint8
	ReadVCounter() uint8
	IRQPending() bool
}

// PSGPort is the Bus's view of the PSG.
type PSGPort interface {
	Write(v uint8)
}

// ControllerPort is the Bus's view of the two joypad ports.
type ControllerPort interface {
	ReadPort1(thLatch uint8) uint8
	ReadPort2(thLatch uint8) uint8
}

// ConfigError reports a Bus construction failure (§7 "Configuration errors").
type ConfigError struct {
	Kind string
}

func (e *ConfigError) Error() string { return fmt.Sprintf("sms/memory: %s", e.Kind) }

// Config carries everything the Bus needs to back cartridge reads.
type Config struct {
	Cartridge    []byte
	BIOS         []byte
	AllowCartRAM bool
}

// Bus is the memory-mapped bus (§3 "Bus state", §4.1).
type Bus struct {
	cart []byte
	bios []byte
	ram  [addr.WorkRAMSize]uint8

	cartRAM      [0x4000]uint8
	cartRAMLatch uint8
	allowCartRAM bool

	mapper [3]uint8

	bankCount int
	bankMask  uint16 // valid when bankCount is a power of two

	memCtrl   uint8
	ioControl uint8

	VDP         VDPPort
	PSG         PSGPort
	Controllers ControllerPort
}

// New validates and constructs a Bus. Cartridge size must be a non-zero
// multiple of 16 KiB up to 1 MiB (§6 "Cartridge input").
func New(cfg Config) (*Bus, error) {
	if len(cfg.Cartridge) == 0 || len(cfg.Cartridge)%0x4000 != 0 || len(cfg.Cartridge) > 0x100000 {
		return nil, &ConfigError{Kind: "cartridge size must be a non-zero multiple of 0x4000 up to 0x100000"}
	}
	if len(cfg.BIOS) != 0 && len(cfg.BIOS)%0x0400 != 0 {
		return nil, &ConfigError{Kind: "BIOS size must be a multiple of 0x400"}
	}

	bankCount := len(cfg.Cartridge) / 0x4000
	b := &Bus{
		cart:         cfg.Cartridge,
		bios:         cfg.BIOS,
		allowCartRAM: cfg.AllowCartRAM,
		bankCount:    bankCount,
		mapper:       [3]uint8{0, 1, 2},
	}
	if bankCount&(bankCount-1) == 0 {
		b.bankMask = uint16(bankCount - 1)
	}

	slog.Debug("bus constructed", "cart_bytes", len(cfg.Cartridge), "banks", bankCount, "has_bios", len(cfg.BIOS) != 0)

	return b, nil
}

func (b *Bus) biosOverlayActive() bool {
	return len(b.bios) > 0 && b.memCtrl&addr.MemCtrlBIOSDisable == 0
}

func (b *Bus) resolveBank(n uint8) int {
	if b.bankMask != 0 {
		return int(uint16(n) & b.bankMask)
	}
	if b.bankCount == 0 {
		return 0
	}
	return int(n) % b.bankCount
}

// Read implements the memory-map table in §4.1.
func (b *Bus) Read(address uint16) uint8 {
	switch {
	case address < addr.ROMFixedEnd:
		if b.biosOverlayActive() {
			return b.bios[int(address)%len(b.bios)]
		}
		return b.cart[address]
	case address <= addr.Slot0End:
		if b.biosOverlayActive() {
			return b.bios[int(address)%len(b.bios)]
		}
		bank := b.resolveBank(b.mapper[0])
		return b.cart[bank*0x4000+int(address-addr.ROMFixedEnd)+int(addr.ROMFixedEnd)%0x4000]
	case address <= addr.Slot1End:
		bank := b.resolveBank(b.mapper[1])
		return b.cart[bank*0x4000+int(address-addr.Slot1Start)]
	case address <= addr.Slot2End:
		if b.allowCartRAM && b.cartRAMLatch&0x08 != 0 {
			return b.cartRAM[address-addr.Slot2Start]
		}
		bank := b.resolveBank(b.mapper[2])
		return b.cart[bank*0x4000+int(address-addr.Slot2Start)]
	case address <= addr.WorkRAMEnd:
		return b.ram[address-addr.WorkRAMStart]
	default:
		return b.ram[(address-addr.WorkRAMMirror)%uint16(addr.WorkRAMSize)]
	}
}

// Write implements §4.1's write rules. The four mapper-control latches at
// 0xFFFC-0xFFFF sit inside the work-RAM mirror window, so a write to them
// both updates the latch and mirrors through into RAM at 0xDFFC-0xDFFF
// (§3 "Bus state": "writes also mirror into the RAM region 0xDFFC..0xDFFF").
func (b *Bus) Write(address uint16, value uint8) {
	switch {
	case address == addr.CartRAMLatch:
		b.cartRAMLatch = value
		b.ram[(address-addr.WorkRAMMirror)%uint16(addr.WorkRAMSize)] = value
	case address == addr.MapperSlot0:
		b.mapper[0] = value & 0x3F
		b.ram[(address-addr.WorkRAMMirror)%uint16(addr.WorkRAMSize)] = value
	case address == addr.MapperSlot1:
		b.mapper[1] = value & 0x3F
		b.ram[(address-addr.WorkRAMMirror)%uint16(addr.WorkRAMSize)] = value
	case address == addr.MapperSlot2:
		b.mapper[2] = value & 0x3F
		b.ram[(address-addr.WorkRAMMirror)%uint16(addr.WorkRAMSize)] = value
	case address >= addr.WorkRAMStart && address <= addr.WorkRAMEnd:
		b.ram[address-addr.WorkRAMStart] = value
	case address >= addr.WorkRAMMirror:
		b.ram[(address-addr.WorkRAMMirror)%uint16(addr.WorkRAMSize)] = value
	case address >= addr.Slot2Start && address <= addr.Slot2End:
		if b.allowCartRAM && b.cartRAMLatch&0x08 != 0 {
			b.cartRAM[address-addr.Slot2Start] = value
		}
		// else: write to ROM is silently ignored (§4.1 "Failure conditions").
	default:
		// Writes to 0x0000-0xBFFF outside cartridge RAM are no-ops.
	}
}

// In implements the I/O port decoder (§4.1 "I/O ports"). The decoder looks
// only at bits 7:6 of the port number, refined for the low-6-bit match on
// the controller ports.
func (b *Bus) In(port uint16) uint8 {
	p := uint8(port)
	switch p >> 6 {
	case 1: // 0x40-0x7F: VDP H/V counter, selected by the low bit.
		if p&1 == 0 {
			return b.VDP.ReadHCounter()
		}
		return b.VDP.ReadVCounter()
	case 2: // 0x80-0xBF: VDP data/control, selected by the low bit.
		if p&1 == 0 {
			return b.VDP.ReadData()
		}
		return b.VDP.ReadControl()
	case 3: // 0xC0-0xFF: controller ports.
		switch p & 0x3F {
		case uint8(addr.PortController1) & 0x3F:
			return b.Controllers.ReadPort1(b.ioControl)
		case uint8(addr.PortController2) & 0x3F:
			return b.Controllers.ReadPort2(b.ioControl)
		}
		return 0xFF
	default:
		return 0xFF
	}
}

// Out implements the I/O port decoder's write side.
func (b *Bus) Out(port uint16, value uint8) {
	p := uint8(port)
	switch p >> 6 {
	case 0: // 0x00-0x3F: memory-control / IO-control latches.
		switch p & 0x3F {
		case uint8(addr.PortMemoryControl) & 0x3F:
			b.memCtrl = value
		case uint8(addr.PortIOControl) & 0x3F:
			b.ioControl = value
		}
	case 1: // 0x40-0x7F: PSG data.
		b.PSG.Write(value)
	case 2: // 0x80-0xBF: VDP data/control, selected by the low bit.
		if p&1 == 0 {
			b.VDP.WriteData(value)
		} else {
			b.VDP.WriteControl(value)
		}
	default:
		// 0xC0-0xFF writes have no defined effect on the core (§4.1).
	}
}

// IRQPending reports whether the VDP is asserting the maskable interrupt
// line, the only source of IRQ on this bus (§4.5 Machine wiring).
func (b *Bus) IRQPending() bool {
	return b.VDP != nil && b.VDP.IRQPending()
}

// MemoryControl returns the raw port-0x3E latch, for tests (§4.1 "other
// bits are recorded for tests").
func (b *Bus) MemoryControl() uint8 { return b.memCtrl }

// MapperBanks returns the three currently latched mapper bank numbers.
func (b *Bus) MapperBanks() [3]uint8 { return b.mapper }

// ResetMapper restores the mapper latches to their power-on values
// (§3 "Lifecycles": "mapper latches to {0,1,2}").
func (b *Bus) ResetMapper() {
	b.mapper = [3]uint8{0, 1, 2}
	b.memCtrl = 0
	b.cartRAMLatch = 0
}
