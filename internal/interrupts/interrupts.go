// Package interrupts holds the IE/IF conduit shared by every component that
// can request an interrupt. Nothing outside this package writes IF directly;
// components call Request so the Flag register stays the single source of
// truth spec.md's "Global/ambient state" note calls for.
package interrupts

import "github.com/thelolagemann/gbcore/internal/types"

// Kind identifies one of the five Game Boy interrupt sources, ordered by
// priority (lowest value serviced first on simultaneous requests).
type Kind = uint8

const (
	VBlank Kind = iota
	LCDStat
	Timer
	Serial
	Joypad
)

// vectors maps each Kind to its service routine address (0x40 + 8*n).
var vectors = [5]uint16{0x0040, 0x0048, 0x0050, 0x0058, 0x0060}

// Vector returns the service address for an interrupt kind.
func Vector(k Kind) uint16 {
	return vectors[k]
}

// Controller owns the IE and IF registers plus the IME flag and its
// one-instruction-delayed enable latch (set by EI).
type Controller struct {
	Enable uint8 // IE, 0xFFFF
	Flag   uint8 // IF, 0xFF0F
	IME    bool

	// enableDelay counts the Step calls remaining before a pending EI
	// takes effect: 2 when just armed (the EI step itself doesn't count),
	// 1 through the instruction following EI, 0 when IME goes live at the
	// start of the step after that. This is what makes "ei ; di" back to
	// back never actually enable interrupts.
	enableDelay uint8
}

// NewController returns a Controller with IME disabled and no pending
// requests, matching post-boot hardware state.
func NewController() *Controller {
	return &Controller{Flag: 0xE0}
}

// Request sets the IF bit for the given interrupt kind.
func (c *Controller) Request(k Kind) {
	c.Flag |= 1 << k
}

// Clear clears the IF bit for the given interrupt kind.
func (c *Controller) Clear(k Kind) {
	c.Flag &^= 1 << k
}

// Pending reports whether any enabled interrupt is currently requested,
// independent of IME - used to wake a halted CPU and to resolve the HALT
// bug, both of which ignore IME per spec.md 4.1.
func (c *Controller) Pending() bool {
	return c.Enable&c.Flag&0x1F != 0
}

// Ready reports whether the CPU should service an interrupt this step:
// IME must be set and at least one enabled source must be pending.
func (c *Controller) Ready() bool {
	return c.IME && c.Pending()
}

// Next returns the lowest-numbered pending, enabled interrupt kind and
// true, or (0, false) if none is pending.
func (c *Controller) Next() (Kind, bool) {
	active := c.Enable & c.Flag & 0x1F
	if active == 0 {
		return 0, false
	}
	for k := Kind(0); k < 5; k++ {
		if active&(1<<k) != 0 {
			return k, true
		}
	}
	return 0, false
}

// EnableDelayed arms the IME-enable latch, the effect of EI: IME becomes
// true only after the instruction following EI has retired.
func (c *Controller) EnableDelayed() {
	c.enableDelay = 2
}

// EnableImmediate sets IME immediately, the effect of RETI.
func (c *Controller) EnableImmediate() {
	c.IME = true
	c.enableDelay = 0
}

// Disable clears IME immediately and cancels any pending EI, the effect of
// DI. A DI that immediately follows EI therefore never lets IME go true.
func (c *Controller) Disable() {
	c.IME = false
	c.enableDelay = 0
}

// Step advances the EI delay countdown. Call once per CPU step, before
// checking for a serviceable interrupt and before fetching: that ordering
// is what keeps the instruction immediately following EI from being
// interrupted, with IME only going live for the instruction after that.
func (c *Controller) Step() {
	if c.enableDelay > 0 {
		c.enableDelay--
		if c.enableDelay == 0 {
			c.IME = true
		}
	}
}

// Read implements the bus-facing register read for IF (0xFF0F reads back
// with the unused top 3 bits forced high) and IE.
func (c *Controller) Read(addr uint16) uint8 {
	switch addr {
	case types.IF:
		return c.Flag | 0xE0
	case types.IE:
		return c.Enable
	}
	return 0xFF
}

// Write implements the bus-facing register write for IF and IE.
func (c *Controller) Write(addr uint16, v uint8) {
	switch addr {
	case types.IF:
		c.Flag = v & 0x1F
	case types.IE:
		c.Enable = v
	}
}

var _ types.Stater = (*Controller)(nil)

func (c *Controller) Save(s *types.State) {
	s.Write8(c.Enable)
	s.Write8(c.Flag)
	s.WriteBool(c.IME)
	s.Write8(c.enableDelay)
}

func (c *Controller) Load(s *types.State) {
	c.Enable = s.Read8()
	c.Flag = s.Read8()
	c.IME = s.ReadBool()
	c.enableDelay = s.Read8()
}
