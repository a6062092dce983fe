// Package joypad emulates the P1 register (0xFF00): the host reports which
// of the eight physical buttons are held, and the game selects one of the
// two four-button groups to read back through P1's lower nibble.
package joypad

import (
	"github.com/thelolagemann/gbcore/internal/interrupts"
	"github.com/thelolagemann/gbcore/internal/types"
)

// Button identifies one of the eight Game Boy buttons.
type Button uint8

const (
	ButtonA Button = 1 << iota
	ButtonB
	ButtonSelect
	ButtonStart
	ButtonRight
	ButtonLeft
	ButtonUp
	ButtonDown
)

const actionMask = ButtonA | ButtonB | ButtonSelect | ButtonStart

// State holds the P1 register and the live button state. pressed is
// active-high (1 = held); Read inverts it into P1's active-low nibble.
type State struct {
	register uint8 // bits 5:4, select lines
	pressed  uint8 // bits 7:0, 1 = currently held, active-high internally

	irq *interrupts.Controller
}

// New returns a State with both select lines deselected, so P1 reads 0xFF
// (both select bits high, both nibble reads high).
func New(irq *interrupts.Controller) *State {
	return &State{register: 0x30, irq: irq}
}

// Read returns the value of P1 as observed by the CPU: bits 7:6 always 1,
// the select bits echoed back, and the lower nibble reporting the inverted
// state of whichever button group is selected (0 = pressed). If both
// groups are selected the nibble reports buttons pressed in either group.
func (s *State) Read() uint8 {
	result := uint8(0x0F)
	if s.register&0x10 == 0 { // directions selected
		result &= ^((s.pressed >> 4) & 0x0F)
	}
	if s.register&0x20 == 0 { // actions selected
		result &= ^(s.pressed & 0x0F)
	}
	return s.register | 0xC0 | result
}

// Write updates the two select bits; the lower nibble of P1 is read-only
// from the CPU's perspective.
func (s *State) Write(v uint8) {
	s.register = (s.register & 0xCF) | (v & 0x30)
}

// lineBit maps a button to its bit within pressed: actions occupy bits
// 0-3, directions bits 4-7, mirroring the two four-button groups P1
// multiplexes onto one nibble.
func lineBit(b Button) uint8 {
	if b&actionMask != 0 {
		switch b {
		case ButtonA:
			return 0
		case ButtonB:
			return 1
		case ButtonSelect:
			return 2
		case ButtonStart:
			return 3
		}
	}
	switch b {
	case ButtonRight:
		return 4
	case ButtonLeft:
		return 5
	case ButtonUp:
		return 6
	case ButtonDown:
		return 7
	}
	return 0
}

// selected reports whether the group containing b is currently selected by
// the game (select line driven low).
func (s *State) selected(b Button) bool {
	if b&actionMask != 0 {
		return s.register&0x20 == 0
	}
	return s.register&0x10 == 0
}

// Press marks a button held. If the button's group is selected and the
// line transitions high-to-low (not-pressed to pressed, since the nibble
// read is active-low), a Joypad interrupt is requested - the falling-edge
// behaviour spec.md 4.6 describes.
func (s *State) Press(b Button) {
	bit := lineBit(b)
	wasPressed := s.pressed&(1<<bit) != 0
	s.pressed |= 1 << bit
	if !wasPressed && s.selected(b) {
		s.irq.Request(interrupts.Joypad)
	}
}

// Release marks a button no longer held.
func (s *State) Release(b Button) {
	bit := lineBit(b)
	s.pressed &^= 1 << bit
}

var _ types.Stater = (*State)(nil)

func (s *State) Save(st *types.State) {
	st.Write8(s.register)
	st.Write8(s.pressed)
}

func (s *State) Load(st *types.State) {
	s.register = st.Read8()
	s.pressed = st.Read8()
}
