// Package cpu implements the Sharp LR35902 instruction set: registers,
// ALU, the 256 base and 256 CB-prefixed opcodes, and the fetch-decode-
// execute-interrupt loop, per spec.md 4.1.
package cpu

import (
	"github.com/thelolagemann/gbcore/internal/interrupts"
	"github.com/thelolagemann/gbcore/internal/types"
)

// Bus is the narrow memory surface the CPU needs. The real implementation
// is internal/mmu.Bus; tests may supply a flat byte-array fake.
type Bus interface {
	Read(addr uint16) uint8
	Write(addr uint16, v uint8)
}

// CPU is the Sharp LR35902 core: registers, program counter, stack
// pointer, and the halt/interrupt bookkeeping the fetch loop needs.
type CPU struct {
	reg registers
	PC  uint16
	SP  uint16

	halted   bool
	haltBug  bool // next fetch reads PC without incrementing it

	bus Bus
	irq *interrupts.Controller
}

// New returns a CPU wired to bus and irq. Callers apply ResetDMG
// separately once the cartridge header checksum is known.
func New(bus Bus, irq *interrupts.Controller) *CPU {
	return &CPU{bus: bus, irq: irq}
}

// ResetDMG seeds every CPU register to the documented DMG post-boot state
// (spec.md 6). headerChecksumZero selects between the two documented AF
// seeds.
func (c *CPU) ResetDMG(headerChecksumZero bool) {
	if headerChecksumZero {
		c.reg.SetAF(0x0180)
	} else {
		c.reg.SetAF(0x01B0)
	}
	c.reg.SetBC(0x0013)
	c.reg.SetDE(0x00D8)
	c.reg.SetHL(0x014D)
	c.SP = 0xFFFE
	c.PC = 0x0100
	c.halted = false
	c.haltBug = false
}

func (c *CPU) fetch8() uint8 {
	v := c.bus.Read(c.PC)
	if !c.haltBug {
		c.PC++
	}
	c.haltBug = false
	return v
}

func (c *CPU) fetch16() uint16 {
	lo := c.fetch8()
	hi := c.fetch8()
	return uint16(hi)<<8 | uint16(lo)
}

func (c *CPU) push16(v uint16) {
	c.SP--
	c.bus.Write(c.SP, uint8(v>>8))
	c.SP--
	c.bus.Write(c.SP, uint8(v))
}

func (c *CPU) pop16() uint16 {
	lo := c.bus.Read(c.SP)
	c.SP++
	hi := c.bus.Read(c.SP)
	c.SP++
	return uint16(hi)<<8 | uint16(lo)
}

// Step either services one pending interrupt, idles one M-cycle while
// halted, or executes exactly one instruction, and returns the number of
// T-states consumed, ready to be handed to Bus.Advance by the top loop.
func (c *CPU) Step() int {
	c.irq.Step()

	if cycles, serviced := c.serviceInterrupt(); serviced {
		return cycles
	}

	if c.halted {
		if c.irq.Pending() {
			c.halted = false
		} else {
			return 4
		}
	}

	opcode := c.fetch8()
	instr := baseTable[opcode]
	cycles := instr.exec(c)

	return cycles
}

// serviceInterrupt dispatches the highest-priority pending, enabled
// interrupt if IME is set, pushing PC and jumping to its vector. Takes 5
// M-cycles (20 T-states) on real hardware.
func (c *CPU) serviceInterrupt() (int, bool) {
	if !c.irq.Ready() {
		return 0, false
	}
	kind, ok := c.irq.Next()
	if !ok {
		return 0, false
	}

	c.halted = false
	c.irq.IME = false
	c.irq.Clear(kind)

	c.push16(c.PC)
	c.PC = interrupts.Vector(kind)

	return 20, true
}

// halt implements the HALT instruction, including the documented HALT
// bug: if IME is clear but an interrupt is already pending at the moment
// HALT executes, the CPU does not actually halt and instead fails to
// increment PC on the very next fetch, causing the following opcode byte
// to be read (and executed) twice.
func (c *CPU) halt() {
	if !c.irq.IME && c.irq.Pending() {
		c.haltBug = true
		return
	}
	c.halted = true
}

var _ types.Stater = (*CPU)(nil)

func (c *CPU) Save(s *types.State) {
	s.Write8(c.reg.A)
	s.Write8(c.reg.F)
	s.Write8(c.reg.B)
	s.Write8(c.reg.C)
	s.Write8(c.reg.D)
	s.Write8(c.reg.E)
	s.Write8(c.reg.H)
	s.Write8(c.reg.L)
	s.Write16(c.PC)
	s.Write16(c.SP)
	s.WriteBool(c.halted)
	s.WriteBool(c.haltBug)
}

func (c *CPU) Load(s *types.State) {
	c.reg.A = s.Read8()
	c.reg.F = s.Read8()
	c.reg.B = s.Read8()
	c.reg.C = s.Read8()
	c.reg.D = s.Read8()
	c.reg.E = s.Read8()
	c.reg.H = s.Read8()
	c.reg.L = s.Read8()
	c.PC = s.Read16()
	c.SP = s.Read16()
	c.halted = s.ReadBool()
	c.haltBug = s.ReadBool()
}
