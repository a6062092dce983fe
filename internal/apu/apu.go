// Package apu is a register-mirror stub for the audio processing unit.
// Sound synthesis is out of scope (spec.md's Non-goals); NR10-NR52 and
// wave RAM are still backed by real storage so games that probe or save
// audio register state see the values they wrote.
package apu

import "github.com/thelolagemann/gbcore/internal/types"

// Controller mirrors the NR10-NR52 register file and wave RAM without
// producing any audio.
type Controller struct {
	regs     [0x17]uint8 // NR10 (0xFF10) .. NR52 (0xFF26)
	waveRAM  [0x10]byte
}

// New returns a Controller with NR52 seeded to the documented DMG
// post-boot value 0xF1 (bit 7 set, channel 1's status bit set).
func New() *Controller {
	c := &Controller{}
	c.regs[0x16] = 0xF1 // NR52
	return c
}

func (c *Controller) Read(addr uint16) uint8 {
	if addr >= types.WaveRAMStart && addr <= types.WaveRAMEnd {
		return c.waveRAM[addr-types.WaveRAMStart]
	}
	if addr >= types.NR10 && addr <= types.NR52 {
		return c.regs[addr-types.NR10]
	}
	return 0xFF
}

func (c *Controller) Write(addr uint16, v uint8) {
	if addr >= types.WaveRAMStart && addr <= types.WaveRAMEnd {
		c.waveRAM[addr-types.WaveRAMStart] = v
		return
	}
	if addr >= types.NR10 && addr <= types.NR52 {
		c.regs[addr-types.NR10] = v
	}
}

var _ types.Stater = (*Controller)(nil)

func (c *Controller) Save(s *types.State) {
	s.WriteBytes(c.regs[:])
	s.WriteBytes(c.waveRAM[:])
}

func (c *Controller) Load(s *types.State) {
	copy(c.regs[:], s.ReadBytes(len(c.regs)))
	copy(c.waveRAM[:], s.ReadBytes(len(c.waveRAM)))
}
