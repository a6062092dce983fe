// Package cartridge loads a ROM image, parses its header and wraps it in
// the appropriate memory bank controller. spec.md 4.3 and 9 specify the
// MBC capability surface and ask for a tagged-variant (not trait-object)
// implementation so the bus's hot path stays inlineable; Go has no sum
// types, so the nearest idiomatic equivalent is one concrete struct per
// variant behind a small shared interface, selected once at load time.
package cartridge

import "github.com/thelolagemann/gbcore/internal/types"

// MBC is the capability surface every memory bank controller variant
// implements: ROM bank 0 and the switchable ROM bank are both routed
// through ReadROM/WriteROM (writes are MBC control, not stores to ROM
// itself); external RAM and any RTC registers are routed through
// ReadRAM/WriteRAM. Tick lets MBC3's real-time clock advance; every other
// variant implements it as a no-op.
type MBC interface {
	ReadROM(addr uint16) uint8
	WriteROM(addr uint16, v uint8)
	ReadRAM(addr uint16) uint8
	WriteRAM(addr uint16, v uint8)
	Tick(cycles int)

	// RAM returns the external RAM contents for battery-save persistence,
	// and LoadRAM restores them (e.g. from a .sav file at startup).
	RAM() []byte
	LoadRAM([]byte)

	types.Stater
}

// maskBank reduces a bank index modulo count, which must be a power of
// two - spec.md's invariant 4 ("effective bank indices are < bank count").
func maskBank(bank, count int) int {
	if count == 0 {
		return 0
	}
	return bank & (count - 1)
}
