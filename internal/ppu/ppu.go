// Package ppu implements the DMG pixel processing unit: the four-state
// scanline pipeline (OAM scan, pixel generation, H-blank, V-blank) described
// in spec.md 4.4, driving a 160x144 indexed framebuffer.
package ppu

import (
	"github.com/thelolagemann/gbcore/internal/interrupts"
	"github.com/thelolagemann/gbcore/internal/types"
)

const (
	ScreenWidth  = 160
	ScreenHeight = 144

	dotsPerLine   = 456
	linesPerFrame = 154
	mode2Dots     = 80
	vblankLine    = 144
)

// Mode is the PPU's current scanline phase.
type Mode uint8

const (
	ModeHBlank   Mode = 0
	ModeVBlank   Mode = 1
	ModeOAMScan  Mode = 2
	ModePixelGen Mode = 3
)

// Controller owns VRAM, OAM, the LCD/PPU register file and the scanline
// state machine. It renders a full scanline's worth of pixels as soon as
// mode 3 begins, matching the variable mode-3 duration to an estimate of
// the real fetcher stalls so invariant 2 (mode durations sum to 456) and
// the 172-289 dot range both hold by construction.
type Controller struct {
	vram [0x2000]byte
	oam  [0xA0]byte

	lcdc, stat             uint8
	scy, scx               uint8
	ly, lyc                uint8
	bgp, obp0, obp1        uint8
	wy, wx                 uint8
	windowLineCounter      uint8
	windowDrawnThisLine    bool

	mode      Mode
	dot       int
	mode3Dots int

	statLine bool

	sprites []sprite

	frame      [ScreenHeight][ScreenWidth]uint8
	frameReady bool

	timeline []LineTiming

	irq       *interrupts.Controller
	dmaActive func() bool
}

// New returns a Controller with the documented DMG post-boot register
// values (spec.md 6): LCDC=0x91, STAT=0x85, LY=0.
func New(irq *interrupts.Controller, dmaActive func() bool) *Controller {
	return &Controller{
		lcdc:      0x91,
		stat:      0x85,
		irq:       irq,
		dmaActive: dmaActive,
		mode:      ModeOAMScan,
	}
}

func (c *Controller) enabled() bool { return c.lcdc&0x80 != 0 }

// Tick advances the PPU by n T-states (dots).
func (c *Controller) Tick(n int) {
	if !c.enabled() {
		return
	}
	for i := 0; i < n; i++ {
		c.tickOne()
	}
}

func (c *Controller) tickOne() {
	c.dot++

	switch c.mode {
	case ModeOAMScan:
		if c.dot == mode2Dots {
			c.sprites = scanOAM(c.oam[:], int(c.ly), c.spriteHeight(), c.dmaActive())
			c.mode3Dots = c.estimateMode3Dots()
			c.setMode(ModePixelGen)
			c.renderScanline()
		}
	case ModePixelGen:
		if c.dot == mode2Dots+c.mode3Dots {
			c.timeline = append(c.timeline, LineTiming{
				Line:  int(c.ly),
				Mode2: mode2Dots,
				Mode3: c.mode3Dots,
				Mode0: dotsPerLine - mode2Dots - c.mode3Dots,
			})
			c.setMode(ModeHBlank)
		}
	case ModeHBlank:
		if c.dot == dotsPerLine {
			c.dot = 0
			if c.windowDrawnThisLine {
				c.windowLineCounter++
			}
			c.windowDrawnThisLine = false
			c.advanceLine()
		}
	case ModeVBlank:
		if c.dot == dotsPerLine {
			c.dot = 0
			c.advanceLine()
		}
	}
}

// advanceLine increments LY (wrapping at 154) and switches to the correct
// mode for the new line.
func (c *Controller) advanceLine() {
	c.ly++
	if c.ly == vblankLine {
		c.irq.Request(interrupts.VBlank)
		c.setMode(ModeVBlank)
		c.frameReady = true
	} else if c.ly == linesPerFrame {
		c.ly = 0
		c.windowLineCounter = 0
		c.timeline = c.timeline[:0]
		c.setMode(ModeOAMScan)
	} else if c.mode == ModeVBlank {
		// still within the 10 vblank lines
	} else {
		c.setMode(ModeOAMScan)
	}
	c.checkLYC()
}

func (c *Controller) setMode(m Mode) {
	c.mode = m
	c.stat = c.stat&0xFC | uint8(m)
	c.updateStatLine()
}

func (c *Controller) checkLYC() {
	before := c.stat & 0x04
	if c.ly == c.lyc {
		c.stat |= 0x04
	} else {
		c.stat &^= 0x04
	}
	if before != c.stat&0x04 {
		c.updateStatLine()
	}
}

// updateStatLine recomputes the internal "stat line" (spec.md 4.4) and
// requests the LCD-STAT interrupt on a 0->1 transition.
func (c *Controller) updateStatLine() {
	line := (c.stat&0x08 != 0 && c.mode == ModeHBlank) ||
		(c.stat&0x10 != 0 && c.mode == ModeVBlank) ||
		(c.stat&0x20 != 0 && c.mode == ModeOAMScan) ||
		(c.stat&0x40 != 0 && c.stat&0x04 != 0)

	if line && !c.statLine {
		c.irq.Request(interrupts.LCDStat)
	}
	c.statLine = line
}

func (c *Controller) spriteHeight() int {
	if c.lcdc&0x04 != 0 {
		return 16
	}
	return 8
}

// estimateMode3Dots approximates the real fetcher's variable duration: a
// base of 172 dots, plus the SCX fine-scroll discard, plus a flat penalty
// per sprite visible on the line and for a window boundary crossing. The
// exact figure is an implementation detail (spec.md 4.4); only the 172-289
// range and the "sums to 456 dots" invariant are load-bearing.
func (c *Controller) estimateMode3Dots() int {
	dots := 172 + int(c.scx%8)
	if c.windowVisible() {
		dots += 6
	}
	dots += len(c.sprites) * 6
	if dots > 289 {
		dots = 289
	}
	return dots
}

func (c *Controller) windowVisible() bool {
	return c.lcdc&0x20 != 0 && c.lcdc&0x01 != 0 && c.wy <= c.ly
}

// FrameReady reports whether a new framebuffer is available, clearing the
// flag so it fires exactly once per frame.
func (c *Controller) FrameReady() bool {
	r := c.frameReady
	c.frameReady = false
	return r
}

// Frame returns the most recently completed frame as 2-bit color indices,
// one per pixel. Callers apply their own palette to produce ARGB.
func (c *Controller) Frame() *[ScreenHeight][ScreenWidth]uint8 {
	return &c.frame
}

// LineTiming is one scanline's mode-2/mode-3/mode-0 dot widths, recorded
// as the line completes. Used by internal/diag to chart the "sums to 456"
// invariant (spec.md 8, invariant 2).
type LineTiming struct {
	Line                int
	Mode2, Mode3, Mode0 int
}

// Timeline returns the recorded per-line mode widths for the frame
// currently in progress (or just completed, if called right after
// FrameReady reports true).
func (c *Controller) Timeline() []LineTiming {
	out := make([]LineTiming, len(c.timeline))
	copy(out, c.timeline)
	return out
}

var _ types.Stater = (*Controller)(nil)

func (c *Controller) Save(s *types.State) {
	s.WriteBytes(c.vram[:])
	s.WriteBytes(c.oam[:])
	s.Write8(c.lcdc)
	s.Write8(c.stat)
	s.Write8(c.scy)
	s.Write8(c.scx)
	s.Write8(c.ly)
	s.Write8(c.lyc)
	s.Write8(c.bgp)
	s.Write8(c.obp0)
	s.Write8(c.obp1)
	s.Write8(c.wy)
	s.Write8(c.wx)
	s.Write8(c.windowLineCounter)
	s.WriteBool(c.windowDrawnThisLine)
	s.Write8(uint8(c.mode))
	s.Write32(uint32(c.dot))
	s.Write32(uint32(c.mode3Dots))
	s.WriteBool(c.statLine)
}

func (c *Controller) Load(s *types.State) {
	copy(c.vram[:], s.ReadBytes(len(c.vram)))
	copy(c.oam[:], s.ReadBytes(len(c.oam)))
	c.lcdc = s.Read8()
	c.stat = s.Read8()
	c.scy = s.Read8()
	c.scx = s.Read8()
	c.ly = s.Read8()
	c.lyc = s.Read8()
	c.bgp = s.Read8()
	c.obp0 = s.Read8()
	c.obp1 = s.Read8()
	c.wy = s.Read8()
	c.wx = s.Read8()
	c.windowLineCounter = s.Read8()
	c.windowDrawnThisLine = s.ReadBool()
	c.mode = Mode(s.Read8())
	c.dot = int(s.Read32())
	c.mode3Dots = int(s.Read32())
	c.statLine = s.ReadBool()
}
