// Package serial stubs the link-cable port: enough of SB/SC is modeled to
// satisfy test ROMs that shift a byte out expecting "no link partner"
// behaviour, per spec.md 4.7. No actual link-cable networking is attempted.
package serial

import (
	"github.com/thelolagemann/gbcore/internal/interrupts"
	"github.com/thelolagemann/gbcore/internal/types"
)

// transferCycles is the T-state duration of one 8-bit internal-clock
// transfer (4096 T-states per spec.md 4.7).
const transferCycles = 4096

// Device is an accessory that can be attached to the link cable. Receive
// delivers the bit shifted out by the other side and returns the bit this
// device shifts back. With no Device attached, Controller behaves as if
// nothing is plugged into the port: it always shifts in 1 bits.
type Device interface {
	Receive(bit bool) bool
}

// Controller models SB (0xFF01) and SC (0xFF02).
type Controller struct {
	data    uint8
	control uint8 // only bits 7 (start) and 0 (clock select) are meaningful on DMG

	transferring bool
	cyclesLeft   int

	attached Device
	irq      *interrupts.Controller
}

// NewController returns a Controller with the post-boot SC value (0x7E,
// i.e. all reserved bits high, transfer not active, external clock).
func NewController(irq *interrupts.Controller) *Controller {
	return &Controller{control: 0x7E, irq: irq}
}

// Attach plugs a Device into the link port.
func (c *Controller) Attach(d Device) {
	c.attached = d
}

// Read implements the bus-facing register read for SB and SC.
func (c *Controller) Read(addr uint16) uint8 {
	switch addr {
	case types.SB:
		return c.data
	case types.SC:
		return c.control | 0x7E
	}
	return 0xFF
}

// Write implements the bus-facing register write for SB and SC. Writing
// 0x81 to SC (start=1, internal clock) begins a transfer.
func (c *Controller) Write(addr uint16, v uint8) {
	switch addr {
	case types.SB:
		c.data = v
	case types.SC:
		c.control = v
		if v&0x81 == 0x81 {
			c.transferring = true
			c.cyclesLeft = transferCycles
		}
	}
}

// Tick advances the serial transfer clock by n T-states. Only an
// internal-clock transfer (the only kind this core drives, since there is
// no real link partner supplying an external clock) progresses.
func (c *Controller) Tick(n int) {
	if !c.transferring {
		return
	}
	c.cyclesLeft -= n
	if c.cyclesLeft > 0 {
		return
	}
	c.completeTransfer()
}

func (c *Controller) completeTransfer() {
	c.transferring = false
	if c.attached != nil {
		result := uint8(0)
		for i := 0; i < 8; i++ {
			bitOut := c.data&0x80 != 0
			bitIn := c.attached.Receive(bitOut)
			result <<= 1
			if bitIn {
				result |= 1
			}
			c.data <<= 1
		}
		c.data = result
	} else {
		// no link partner: hardware shifts in all 1 bits.
		c.data = 0xFF
	}
	c.control &^= 0x80
	c.irq.Request(interrupts.Serial)
}

var _ types.Stater = (*Controller)(nil)

func (c *Controller) Save(s *types.State) {
	s.Write8(c.data)
	s.Write8(c.control)
	s.WriteBool(c.transferring)
	s.Write32(uint32(c.cyclesLeft))
}

func (c *Controller) Load(s *types.State) {
	c.data = s.Read8()
	c.control = s.Read8()
	c.transferring = s.ReadBool()
	c.cyclesLeft = int(s.Read32())
}
