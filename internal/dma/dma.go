// Package dma implements the OAM DMA engine: a 160-byte bulk transfer from
// an arbitrary source region into OAM, clocked one byte per M-cycle with a
// startup delay, per spec.md 4.2's DMA contract.
package dma

import "github.com/thelolagemann/gbcore/internal/types"

// tStatesPerMCycle is the conversion between the T-states Tick is fed
// (the same unit CPU.Step returns and Bus.Advance distributes to every
// clocked subsystem) and the M-cycles the DMA engine itself is specified
// in (spec.md 4.2, scenario S5).
const tStatesPerMCycle = 4

// startupDelay is the number of M-cycles between the DMA register write
// and the first byte transfer. spec.md's Open Questions note real
// hardware sources disagree between 1 and 2 M-cycles; 2 is the documented
// choice here (SPEC_FULL.md Open Questions).
const startupDelay = 2

// OAMWriter is the narrow surface DMA needs from the PPU: a raw OAM write
// that bypasses the PPU's own mode/DMA access restrictions (those
// restrictions exist to model a conflict against this very writer).
type OAMWriter interface {
	WriteOAMByte(i int, v uint8)
}

// SourceReader is the narrow surface DMA needs from the bus: an
// unrestricted byte read used to source the transfer, bypassing the
// normal access-restriction path (which would otherwise see DMA's own
// transfer as blocking itself).
type SourceReader interface {
	ReadRaw(addr uint16) uint8
}

const transferBytes = 160

// Controller is the OAM DMA engine.
type Controller struct {
	register uint8 // last value written to 0xFF46

	active    bool
	delay     int
	progress  int
	sourceHi  uint16
	lastFetch uint8

	tstates int // T-states accumulated since the last whole M-cycle was consumed

	oam OAMWriter
	bus SourceReader
}

// New returns a Controller wired to the PPU's raw OAM writer and the
// bus's raw source reader.
func New(oam OAMWriter, bus SourceReader) *Controller {
	return &Controller{oam: oam, bus: bus}
}

// Active reports whether a transfer is currently in its active (post
// startup-delay) phase, which is what the PPU's OAM-scan and the bus's
// read restrictions key off.
func (c *Controller) Active() bool {
	return c.active
}

// Read returns the DMA register's last written value.
func (c *Controller) Read() uint8 { return c.register }

// Write starts (or restarts) a transfer. A write during an already-active
// transfer restarts the counter from scratch, per spec.md 4.2.
func (c *Controller) Write(v uint8) {
	c.register = v
	if v >= 0xFE {
		v &= 0x3F
	}
	c.sourceHi = uint16(v) << 8
	c.delay = startupDelay
	c.progress = 0
	c.active = false
	c.tstates = 0
}

// Tick advances the DMA engine by n T-states - the same unit every other
// clocked subsystem is fed - converting to whole M-cycles internally and
// transferring at most one byte per M-cycle once the startup delay has
// elapsed.
func (c *Controller) Tick(n int) {
	c.tstates += n
	for c.tstates >= tStatesPerMCycle {
		c.tstates -= tStatesPerMCycle
		c.tickOne()
	}
}

func (c *Controller) tickOne() {
	if c.delay > 0 {
		c.delay--
		if c.delay == 0 {
			c.active = true
		}
		return
	}
	if !c.active {
		return
	}

	v := c.bus.ReadRaw(c.sourceHi + uint16(c.progress))
	c.lastFetch = v
	c.oam.WriteOAMByte(c.progress, v)
	c.progress++
	if c.progress >= transferBytes {
		c.active = false
	}
}

// LastFetch returns the last byte DMA fetched from its source, used by
// the bus to answer reads against the source region while a transfer is
// active (spec.md 4.2: such reads "return the byte DMA last fetched").
func (c *Controller) LastFetch() uint8 { return c.lastFetch }

var _ types.Stater = (*Controller)(nil)

func (c *Controller) Save(s *types.State) {
	s.Write8(c.register)
	s.WriteBool(c.active)
	s.Write32(uint32(c.delay))
	s.Write32(uint32(c.progress))
	s.Write16(c.sourceHi)
	s.Write8(c.lastFetch)
	s.Write8(uint8(c.tstates))
}

func (c *Controller) Load(s *types.State) {
	c.register = s.Read8()
	c.active = s.ReadBool()
	c.delay = int(s.Read32())
	c.progress = int(s.Read32())
	c.sourceHi = s.Read16()
	c.lastFetch = s.Read8()
	c.tstates = int(s.Read8())
}
