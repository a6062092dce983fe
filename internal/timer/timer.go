// Package timer emulates DIV/TIMA/TMA/TAC: a free-running 16-bit counter
// clocked every T-state, with TIMA incremented on a falling edge of one of
// its bits selected by TAC, per spec.md 4.5.
package timer

import (
	"github.com/thelolagemann/gbcore/internal/interrupts"
	"github.com/thelolagemann/gbcore/internal/types"
)

// selectedBit maps a TAC frequency-select value (bits 1:0) to the bit
// index of the internal counter that feeds the falling-edge detector.
var selectedBit = [4]uint{9, 3, 5, 7}

// Controller owns the internal 16-bit divider and the TIMA/TMA/TAC
// registers built on top of it.
type Controller struct {
	counter uint16 // internal 16-bit counter; DIV is its upper 8 bits
	tima    uint8
	tma     uint8
	tac     uint8

	lastANDResult uint8 // previous (selected-bit & enable) sample, for edge detection

	reloadDelay int // >0 while a TIMA overflow reload is in flight (4 T-states)
	reloadedTMA uint8

	irq *interrupts.Controller
}

// New returns a Controller with DIV seeded to the documented DMG post-boot
// value (AF/BC/etc. are seeded elsewhere; DIV itself varies per boot ROM
// timing, 0xABCC is the commonly observed DMG value immediately after the
// boot ROM hands off at PC=0x0100).
func New(irq *interrupts.Controller) *Controller {
	return &Controller{counter: 0xABCC, tac: 0xF8, irq: irq}
}

// enabled reports whether TAC bit 2 (the timer enable) is set.
func (c *Controller) enabled() bool {
	return c.tac&0x04 != 0
}

// sample returns the current (selected-bit & enable) value used for
// falling-edge detection.
func (c *Controller) sample() uint8 {
	if !c.enabled() {
		return 0
	}
	bit := selectedBit[c.tac&0x03]
	return uint8((c.counter >> bit) & 1)
}

// Tick advances the internal counter by n T-states, one at a time so the
// falling-edge detector never misses a transition that occurs mid-step.
func (c *Controller) Tick(n int) {
	for i := 0; i < n; i++ {
		c.tickOne()
	}
}

func (c *Controller) tickOne() {
	if c.reloadDelay > 0 {
		c.reloadDelay--
		if c.reloadDelay == 0 {
			c.tima = c.tma
			c.irq.Request(interrupts.Timer)
		}
	}

	c.counter++

	current := c.sample()
	if c.lastANDResult == 1 && current == 0 {
		c.incrementTIMA()
	}
	c.lastANDResult = current
}

// incrementTIMA increments TIMA, arming the four-T-state delayed reload if
// it overflows. During the delay window TIMA reads 0 (handled by Read,
// since tima itself is the overflowed 0x00 value already).
func (c *Controller) incrementTIMA() {
	c.tima++
	if c.tima == 0 {
		c.reloadDelay = 4
	}
}

// Read implements the bus-facing register read for DIV/TIMA/TMA/TAC.
func (c *Controller) Read(addr uint16) uint8 {
	switch addr {
	case types.DIV:
		return uint8(c.counter >> 8)
	case types.TIMA:
		return c.tima
	case types.TMA:
		return c.tma
	case types.TAC:
		return c.tac | 0xF8
	}
	return 0xFF
}

// Write implements the bus-facing register write for DIV/TIMA/TMA/TAC.
// Writing any value to DIV resets the whole internal counter; since that
// can by itself cross a selected-bit falling edge, it is evaluated as one
// synthetic tick against a zeroed counter.
func (c *Controller) Write(addr uint16, v uint8) {
	switch addr {
	case types.DIV:
		before := c.sample()
		c.counter = 0
		after := c.sample()
		if before == 1 && after == 0 {
			c.incrementTIMA()
		}
		c.lastANDResult = after
	case types.TIMA:
		if c.reloadDelay > 0 {
			// a write during the reload window overrides the incoming
			// reload value rather than the reload overriding the write.
			c.reloadDelay = 0
		}
		c.tima = v
	case types.TMA:
		c.tma = v
	case types.TAC:
		before := c.sample()
		c.tac = v & 0x07
		after := c.sample()
		// changing the effective frequency can itself produce a falling
		// edge on the internal AND output, which must still tick TIMA.
		if before == 1 && after == 0 {
			c.incrementTIMA()
		}
		c.lastANDResult = after
	}
}

var _ types.Stater = (*Controller)(nil)

func (c *Controller) Save(s *types.State) {
	s.Write16(c.counter)
	s.Write8(c.tima)
	s.Write8(c.tma)
	s.Write8(c.tac)
	s.Write8(c.lastANDResult)
	s.Write32(uint32(c.reloadDelay))
}

func (c *Controller) Load(s *types.State) {
	c.counter = s.Read16()
	c.tima = s.Read8()
	c.tma = s.Read8()
	c.tac = s.Read8()
	c.lastANDResult = s.Read8()
	c.reloadDelay = int(s.Read32())
}
