// Package mmu implements the Bus: the single address decoder that routes
// every CPU memory access to the right subsystem and enforces the access
// restrictions (PPU mode, DMA conflict) described in spec.md 3 and 4.2.
// The Bus is the sole mutator of VRAM, OAM, WRAM, HRAM, IO and cartridge
// RAM; nothing else ever touches those bytes directly.
package mmu

import (
	"github.com/thelolagemann/gbcore/internal/apu"
	"github.com/thelolagemann/gbcore/internal/cartridge"
	"github.com/thelolagemann/gbcore/internal/dma"
	"github.com/thelolagemann/gbcore/internal/interrupts"
	"github.com/thelolagemann/gbcore/internal/joypad"
	"github.com/thelolagemann/gbcore/internal/ppu"
	"github.com/thelolagemann/gbcore/internal/serial"
	"github.com/thelolagemann/gbcore/internal/timer"
	"github.com/thelolagemann/gbcore/internal/types"
	"github.com/thelolagemann/gbcore/pkg/log"
)

// Bus is the 64 KiB Game Boy address space, wired to the components that
// back each region.
type Bus struct {
	Cart *cartridge.Cartridge
	PPU  *ppu.Controller
	APU  *apu.Controller

	Timer   *timer.Controller
	IRQ     *interrupts.Controller
	Joypad  *joypad.State
	Serial  *serial.Controller
	DMA     *dma.Controller

	wram [0x2000]byte // 0xC000-0xDFFF, fixed two banks on DMG
	hram [0x7F]byte   // 0xFF80-0xFFFE

	log log.Logger
}

// New returns a Bus wiring together the given components. The DMA engine
// is constructed separately since it needs a SourceReader/OAMWriter back
// into this same Bus and PPU, so callers build it with dma.New(ppu, bus)
// and attach it via SetDMA.
func New(cart *cartridge.Cartridge, p *ppu.Controller, a *apu.Controller, t *timer.Controller, irq *interrupts.Controller, jp *joypad.State, sc *serial.Controller, l log.Logger) *Bus {
	return &Bus{
		Cart:   cart,
		PPU:    p,
		APU:    a,
		Timer:  t,
		IRQ:    irq,
		Joypad: jp,
		Serial: sc,
		log:    l,
	}
}

// SetDMA attaches the DMA engine once it has been constructed with a
// reference back to this Bus.
func (b *Bus) SetDMA(d *dma.Controller) { b.DMA = d }

// ReadRaw reads as if no DMA transfer were in progress, bypassing the
// source-conflict substitution Read applies. Used by the DMA engine
// itself to fetch its source bytes, and anywhere a true memory value
// (not the bus's DMA-degraded view of it) is required.
func (b *Bus) ReadRaw(addr uint16) uint8 {
	switch {
	case addr <= 0x7FFF:
		return b.Cart.ReadROM(addr)
	case addr >= 0x8000 && addr <= 0x9FFF:
		return b.PPU.ReadVRAM(addr)
	case addr >= 0xA000 && addr <= 0xBFFF:
		return b.Cart.ReadRAM(addr)
	case addr >= 0xC000 && addr <= 0xDFFF:
		return b.wram[addr-0xC000]
	case addr >= 0xE000 && addr <= 0xFDFF:
		return b.wram[addr-0xE000]
	default:
		return 0xFF
	}
}

// sourceConflict reports whether addr falls in the region an active DMA
// transfer is reading from, per spec.md 4.2: either the "external/cart"
// range or the "video" range, whichever the transfer's source currently
// occupies.
func (b *Bus) sourceConflict(addr uint16) bool {
	if b.DMA == nil || !b.DMA.Active() {
		return false
	}
	src := b.DMA.Read()
	if src >= 0xFE {
		src &= 0x3F
	}
	if src >= 0x80 && src <= 0x9F {
		return addr >= 0x8000 && addr <= 0x9FFF
	}
	return addr <= 0x7FFF || (addr >= 0xA000 && addr <= 0xFDFF)
}

// Read implements the full bus address decode for CPU reads.
func (b *Bus) Read(addr uint16) uint8 {
	if b.sourceConflict(addr) && addr < 0xFE00 {
		return b.DMA.LastFetch()
	}

	switch {
	case addr <= 0x7FFF:
		return b.Cart.ReadROM(addr)
	case addr >= 0x8000 && addr <= 0x9FFF:
		return b.PPU.ReadVRAM(addr)
	case addr >= 0xA000 && addr <= 0xBFFF:
		return b.Cart.ReadRAM(addr)
	case addr >= 0xC000 && addr <= 0xDFFF:
		return b.wram[addr-0xC000]
	case addr >= 0xE000 && addr <= 0xFDFF:
		return b.wram[addr-0xE000]
	case addr >= 0xFE00 && addr <= 0xFE9F:
		return b.PPU.ReadOAM(addr)
	case addr >= 0xFEA0 && addr <= 0xFEFF:
		if b.DMA != nil && b.DMA.Active() {
			return 0xFF
		}
		return 0x00
	case addr == types.P1:
		return b.Joypad.Read()
	case addr == types.SB || addr == types.SC:
		return b.Serial.Read(addr)
	case addr == types.DIV || addr == types.TIMA || addr == types.TMA || addr == types.TAC:
		return b.Timer.Read(addr)
	case addr == types.IF:
		return b.IRQ.Read(addr)
	case addr >= types.NR10 && addr <= types.WaveRAMEnd:
		return b.APU.Read(addr)
	case addr == types.DMA:
		return b.DMA.Read()
	case addr >= types.LCDC && addr <= types.WX:
		return b.PPU.Read(addr)
	case addr >= 0xFF80 && addr <= 0xFFFE:
		return b.hram[addr-0xFF80]
	case addr == types.IE:
		return b.IRQ.Read(addr)
	default:
		return 0xFF
	}
}

// Write implements the full bus address decode for CPU writes.
func (b *Bus) Write(addr uint16, v uint8) {
	switch {
	case addr <= 0x7FFF:
		b.Cart.WriteROM(addr, v)
	case addr >= 0x8000 && addr <= 0x9FFF:
		b.PPU.WriteVRAM(addr, v)
	case addr >= 0xA000 && addr <= 0xBFFF:
		b.Cart.WriteRAM(addr, v)
	case addr >= 0xC000 && addr <= 0xDFFF:
		b.wram[addr-0xC000] = v
	case addr >= 0xE000 && addr <= 0xFDFF:
		b.wram[addr-0xE000] = v
	case addr >= 0xFE00 && addr <= 0xFE9F:
		b.PPU.WriteOAM(addr, v)
	case addr >= 0xFEA0 && addr <= 0xFEFF:
		// prohibited region; writes ignored
	case addr == types.P1:
		b.Joypad.Write(v)
	case addr == types.SB || addr == types.SC:
		b.Serial.Write(addr, v)
	case addr == types.DIV || addr == types.TIMA || addr == types.TMA || addr == types.TAC:
		b.Timer.Write(addr, v)
	case addr == types.IF:
		b.IRQ.Write(addr, v)
	case addr >= types.NR10 && addr <= types.WaveRAMEnd:
		b.APU.Write(addr, v)
	case addr == types.DMA:
		b.DMA.Write(v)
	case addr >= types.LCDC && addr <= types.WX:
		b.PPU.Write(addr, v)
	case addr >= 0xFF80 && addr <= 0xFFFE:
		b.hram[addr-0xFF80] = v
	case addr == types.IE:
		b.IRQ.Write(addr, v)
	default:
		b.log.Debugf("mmu: unhandled write 0x%02X -> 0x%04X", v, addr)
	}
}

// Advance steps every clocked subsystem by n T-states, in the order
// spec.md 4.2 and 5 require: Timer, then PPU, then the active DMA.
func (b *Bus) Advance(n int) {
	b.Timer.Tick(n)
	b.PPU.Tick(n)
	b.DMA.Tick(n)
	b.Cart.Tick(n)
	b.Serial.Tick(n)
}

var _ types.Stater = (*Bus)(nil)

func (b *Bus) Save(s *types.State) {
	s.WriteBytes(b.wram[:])
	s.WriteBytes(b.hram[:])
	b.Cart.Save(s)
	b.PPU.Save(s)
	b.APU.Save(s)
	b.Timer.Save(s)
	b.IRQ.Save(s)
	b.Joypad.Save(s)
	b.Serial.Save(s)
	b.DMA.Save(s)
}

func (b *Bus) Load(s *types.State) {
	copy(b.wram[:], s.ReadBytes(len(b.wram)))
	copy(b.hram[:], s.ReadBytes(len(b.hram)))
	b.Cart.Load(s)
	b.PPU.Load(s)
	b.APU.Load(s)
	b.Timer.Load(s)
	b.IRQ.Load(s)
	b.Joypad.Load(s)
	b.Serial.Load(s)
	b.DMA.Load(s)
}
