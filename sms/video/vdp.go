// Package video implements the TMS9918-derived Mode 4 VDP: VRAM/CRAM,
// the 16 control registers, the two-byte control-port latch protocol, the
// H/V counters, VBlank and line-interrupt generation, and on-demand
// rendering of a 256x192 RGB frame (§4.3). The port protocol and register
// layout follow other_examples/eMkIII's emu/vdp.go; the scanline/cycle
// bookkeeping generalizes jeebie/video/gpu.go's Tick-driven accumulator
// to SMS timing instead of the Game Boy's.
package video

const (
	ScreenWidth  = 256
	ScreenHeight = 192

	cyclesPerLine   = 228
	linesPerFrame   = 262
	vblankStartLine = 192
)

// VDP is the Sega Master System's TMS9918-derived video chip in Mode 4.
type VDP struct {
	vram [0x4000]uint8
	cram [0x20]uint8
	regs [16]uint8

	addr       uint16
	addrLatch  uint8
	latched    bool
	code       uint8
	readBuffer uint8

	status uint8

	cycleInLine int
	line        int

	lineIRQCounter uint8
	lineIRQPending bool

	// HCounterStep quantizes the H-counter's linear region; the spec
	// leaves the exact window sizes implementation-defined and only
	// pins the step's default.
	HCounterStep int
}

// New returns a VDP in its power-on state (§3 "Lifecycles").
func New() *VDP {
	return &VDP{
		lineIRQCounter: 0xFF,
		HCounterStep:   1,
	}
}

// Reset restores power-on state.
func (v *VDP) Reset() {
	*v = VDP{lineIRQCounter: 0xFF, HCounterStep: 1}
}

// WriteControl implements the control port's two-byte latch protocol
// (§4.3 "Control protocol").
func (v *VDP) WriteControl(value uint8) {
	if !v.latched {
		v.addrLatch = value
		v.latched = true
		return
	}
	v.latched = false
	v.addr = uint16(v.addrLatch) | uint16(value&0x3F)<<8
	v.code = (value >> 6) & 0x03

	switch v.code {
	case 0: // address setup for VRAM read; primes the read buffer.
		v.readBuffer = v.vram[v.addr&0x3FFF]
		v.addr = (v.addr + 1) & 0x3FFF
	case 2: // register write: low byte of the first write -> register (high&0x0F).
		reg := value & 0x0F
		v.regs[reg] = v.addrLatch
		if v.regs[0]&0x04 != 0 && v.regs[1]&0x08 != 0 {
			// Documented conflict, re-checked after every register write
			// (not just writes to R0/R1 themselves): M4 (R0 bit 2) and M3
			// (R1 bit 3) both set forces M3 off.
			v.regs[1] &^= 0x08
		}
	}
}

// ReadControl returns the status byte and clears VBlank/overflow/collision
// plus the write-toggle (§4.3).
func (v *VDP) ReadControl() uint8 {
	s := v.status
	v.status &^= 0xE0
	v.lineIRQPending = false
	v.latched = false
	return s
}

// WriteData writes the latched-code target (VRAM or CRAM) and advances
// the address, 14-bit wrapping.
func (v *VDP) WriteData(value uint8) {
	v.latched = false
	v.readBuffer = value
	if v.code == 3 {
		v.cram[v.addr&0x1F] = value
	} else {
		v.vram[v.addr&0x3FFF] = value
	}
	v.addr = (v.addr + 1) & 0x3FFF
}

// ReadData returns the read buffer, then refills it and advances the
// address.
func (v *VDP) ReadData() uint8 {
	v.latched = false
	data := v.readBuffer
	v.readBuffer = v.vram[v.addr&0x3FFF]
	v.addr = (v.addr + 1) & 0x3FFF
	return data
}

// ReadHCounter returns the quantized horizontal position (port 0x7E).
func (v *VDP) ReadHCounter() uint8 {
	const frontPorch = 2
	const plateauStart = cyclesPerLine - 8

	c := v.cycleInLine
	switch {
	case c < frontPorch:
		return 0x00
	case c >= plateauStart:
		return 0xB0
	default:
		val := (c * 256) / cyclesPerLine
		if v.HCounterStep > 1 {
			val = (val / v.HCounterStep) * v.HCounterStep
		}
		return uint8(val)
	}
}

// ReadVCounter returns the current scanline with the NTSC counter jump:
// lines 0..218 return their raw value, 219..261 return line-6 (213..255),
// per §8's pinned traversal ("0..218 then 213..255 once").
func (v *VDP) ReadVCounter() uint8 {
	if v.line <= 218 {
		return uint8(v.line)
	}
	return uint8(v.line - 6)
}

// SetRegister writes one of the 16 VDP registers directly, bypassing the
// control-port protocol. Used by manual-init bring-up and by tests.
func (v *VDP) SetRegister(n uint8, value uint8) { v.regs[n&0x0F] = value }

// Register returns one of the 16 VDP registers.
func (v *VDP) Register(n uint8) uint8 { return v.regs[n&0x0F] }

// IRQPending reports whether the VDP is asserting the maskable interrupt
// line: VBlank (status bit 7, gated by R1 bit 5) or line interrupt
// (gated by R0 bit 4).
func (v *VDP) IRQPending() bool {
	vblank := v.status&0x80 != 0 && v.regs[1]&0x20 != 0
	line := v.lineIRQPending && v.regs[0]&0x10 != 0
	return vblank || line
}

// Tick advances the VDP's internal counters by the given number of CPU
// cycles, generating VBlank and line interrupts as scanlines complete
// (§4.3 "Counters and IRQs").
func (v *VDP) Tick(cycles int) {
	for i := 0; i < cycles; i++ {
		v.cycleInLine++
		if v.cycleInLine < cyclesPerLine {
			continue
		}
		v.cycleInLine = 0
		v.line++
		if v.line >= linesPerFrame {
			v.line = 0
		}

		if v.line == vblankStartLine {
			v.status |= 0x80
		}

		if v.line <= vblankStartLine {
			if v.lineIRQCounter == 0 {
				v.lineIRQCounter = v.regs[10]
				v.lineIRQPending = true
			} else {
				v.lineIRQCounter--
			}
		} else {
			v.lineIRQCounter = v.regs[10]
		}
	}
}

func expand2(c uint8) uint8 { return c * 85 }

func (v *VDP) cramRGB(index uint8) (r, g, b uint8) {
	c := v.cram[index&0x1F]
	r = expand2(c & 0x03)
	g = expand2((c >> 2) & 0x03)
	b = expand2((c >> 4) & 0x03)
	return
}

func (v *VDP) nameTableBase() uint16   { return uint16(v.regs[2]&0x0E) << 10 }
func (v *VDP) spriteAttrBase() uint16  { return uint16(v.regs[5]&0x7E) << 7 }
func (v *VDP) spritePatternBase() uint16 {
	if v.regs[6]&0x04 != 0 {
		return 0x2000
	}
	return 0
}
func (v *VDP) overscanColorIndex() uint8 { return 0x10 | (v.regs[7] & 0x0F) }

// displayEnabled reports R1 bit 6, the "blank everything to overscan"
// switch (§4.3 step 6).
func (v *VDP) displayEnabled() bool { return v.regs[1]&0x40 != 0 }

type spriteHit struct {
	x      int
	colIdx uint8
}

// RenderFrame renders the full 256x192 frame as packed RGB bytes,
// top-to-bottom, left-to-right (§4.3 "Rendering (Mode 4)").
func (v *VDP) RenderFrame() []uint8 {
	frame := make([]uint8, ScreenWidth*ScreenHeight*3)

	if !v.displayEnabled() {
		or, og, ob := v.cramRGB(v.overscanColorIndex())
		for i := 0; i < ScreenWidth*ScreenHeight; i++ {
			frame[i*3] = or
			frame[i*3+1] = og
			frame[i*3+2] = ob
		}
		return frame
	}

	for y := 0; y < ScreenHeight; y++ {
		bgColorIdx, bgPalSel, bgPriority := v.renderBackgroundLine(y)
		spritePixels, overflow, collision := v.renderSpriteLine(y, bgColorIdx)
		if overflow {
			v.status |= 0x40
		}
		if collision {
			v.status |= 0x20
		}

		for x := 0; x < ScreenWidth; x++ {
			var idx uint8
			maskedBySprite := bgPriority[x] && bgColorIdx[x] != 0
			if sp, ok := spritePixels[x]; ok && !maskedBySprite {
				idx = 16 + sp
			} else {
				idx = bgColorIdx[x]
				if bgPalSel[x] == 1 {
					idx += 16
				}
			}
			r, g, b := v.cramRGB(idx)
			off := (y*ScreenWidth + x) * 3
			frame[off] = r
			frame[off+1] = g
			frame[off+2] = b
		}
	}
	return frame
}

// renderBackgroundLine returns, per pixel, the raw 4-bit tile color index,
// the palette selector (0=background palette, 1=sprite palette) and the
// priority-over-sprites bit, for one scanline (§4.3 steps 1-3).
func (v *VDP) renderBackgroundLine(y int) (colorIdx [ScreenWidth]uint8, palSel [ScreenWidth]uint8, priority [ScreenWidth]bool) {
	vscroll := v.regs[9]
	hscroll := v.regs[8]
	nameBase := v.nameTableBase()
	row := (int(vscroll) + y) % 224 / 8

	coarseShift := 0
	if y >= 16 {
		coarseShift = int(hscroll) / 8
	}

	leftColumnBlank := v.regs[0]&0x20 != 0 && y < 16

	for tileCol := 0; tileCol < 32; tileCol++ {
		col := (tileCol - coarseShift) % 32
		if col < 0 {
			col += 32
		}
		nameAddr := nameBase + uint16(row*64+col*2)
		lo := v.vram[nameAddr&0x3FFF]
		hi := v.vram[(nameAddr+1)&0x3FFF]
		name := uint16(lo) | uint16(hi)<<8
		tileIndex := name & 0x1FF
		hFlip := name&0x0200 != 0
		vFlip := name&0x0400 != 0
		tilePriority := name&0x1000 != 0
		tilePalSel := uint8(0)
		if name&0x0800 != 0 {
			tilePalSel = 1
		}

		rowInTile := (int(vscroll) + y) % 8
		if vFlip {
			rowInTile = 7 - rowInTile
		}
		tileAddr := tileIndex*32 + uint16(rowInTile*4)
		p0 := v.vram[tileAddr&0x3FFF]
		p1 := v.vram[(tileAddr+1)&0x3FFF]
		p2 := v.vram[(tileAddr+2)&0x3FFF]
		p3 := v.vram[(tileAddr+3)&0x3FFF]

		for px := 0; px < 8; px++ {
			bitPos := 7 - px
			if hFlip {
				bitPos = px
			}
			c := uint8(0)
			if p0&(1<<bitPos) != 0 {
				c |= 1
			}
			if p1&(1<<bitPos) != 0 {
				c |= 2
			}
			if p2&(1<<bitPos) != 0 {
				c |= 4
			}
			if p3&(1<<bitPos) != 0 {
				c |= 8
			}
			if leftColumnBlank && tileCol == 0 {
				c = 0
			}

			x := tileCol*8 + px
			colorIdx[x] = c
			palSel[x] = tilePalSel
			priority[x] = tilePriority
		}
	}

	// Step 3: apply the fine (sub-tile) horizontal scroll by rotating the
	// assembled row, unless locked for the top two rows (R0 bit 6).
	fine := int(hscroll) & 0x07
	if fine != 0 && !(v.regs[0]&0x40 != 0 && y < 16) {
		colorIdx = rotateRow(colorIdx, fine)
		palSel = rotateRow(palSel, fine)
		priority = rotateRowBool(priority, fine)
	}
	return
}

func rotateRow(row [ScreenWidth]uint8, shift int) [ScreenWidth]uint8 {
	var out [ScreenWidth]uint8
	for i := range row {
		src := (i - shift + ScreenWidth) % ScreenWidth
		out[i] = row[src]
	}
	return out
}

func rotateRowBool(row [ScreenWidth]bool, shift int) [ScreenWidth]bool {
	var out [ScreenWidth]bool
	for i := range row {
		src := (i - shift + ScreenWidth) % ScreenWidth
		out[i] = row[src]
	}
	return out
}

// renderSpriteLine returns, per pixel with a sprite present, the 4-bit
// sprite-palette color index, plus overflow/collision flags for this
// scanline (§4.3 step 4).
func (v *VDP) renderSpriteLine(y int, bgColorIdx [ScreenWidth]uint8) (pixels map[int]uint8, overflow bool, collision bool) {
	pixels = make(map[int]uint8)
	attrBase := v.spriteAttrBase()
	patternBase := v.spritePatternBase()

	tall := v.regs[1]&0x02 != 0
	doubled := v.regs[1]&0x01 != 0
	shiftLeft := v.regs[0]&0x08 != 0

	height := 8
	if tall {
		height = 16
	}
	if doubled {
		height *= 2
	}

	matched := 0
	covered := make([]bool, ScreenWidth)

	for slot := 0; slot < 64; slot++ {
		yByte := v.vram[(attrBase+uint16(slot))&0x3FFF]
		if yByte == 0xD0 {
			break
		}
		spriteY := int(yByte) + 1
		if y < spriteY || y >= spriteY+height {
			continue
		}
		if matched >= 8 {
			overflow = true
			break
		}
		matched++

		xByte := v.vram[(attrBase+0x80+uint16(slot*2))&0x3FFF]
		patIdx := v.vram[(attrBase+0x80+uint16(slot*2)+1)&0x3FFF]
		x0 := int(xByte)
		if shiftLeft {
			x0 -= 8
		}

		rowInSprite := (y - spriteY)
		if doubled {
			rowInSprite /= 2
		}
		tileIdx := uint16(patIdx)
		if tall {
			tileIdx &^= 1
			tileIdx += uint16(rowInSprite / 8)
			rowInSprite %= 8
		}
		tileAddr := patternBase + tileIdx*32 + uint16(rowInSprite*4)
		p0 := v.vram[tileAddr&0x3FFF]
		p1 := v.vram[(tileAddr+1)&0x3FFF]
		p2 := v.vram[(tileAddr+2)&0x3FFF]
		p3 := v.vram[(tileAddr+3)&0x3FFF]

		width := 8
		if doubled {
			width = 16
		}
		for dx := 0; dx < width; dx++ {
			px := x0 + dx
			if px < 0 || px >= ScreenWidth {
				continue
			}
			col := dx
			if doubled {
				col = dx / 2
			}
			bitPos := 7 - col
			c := uint8(0)
			if p0&(1<<bitPos) != 0 {
				c |= 1
			}
			if p1&(1<<bitPos) != 0 {
				c |= 2
			}
			if p2&(1<<bitPos) != 0 {
				c |= 4
			}
			if p3&(1<<bitPos) != 0 {
				c |= 8
			}
			if c == 0 {
				continue
			}
			if _, already := pixels[px]; already || covered[px] {
				collision = true
				continue
			}
			covered[px] = true
			pixels[px] = c
		}
	}
	return
}
