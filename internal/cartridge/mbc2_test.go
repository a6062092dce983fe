package cartridge

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestMBC2BankSwitching checks the address-bit-8 dispatch between the
// RAM-enable and ROM-bank registers, both aliased across 0x0000-0x3FFF, and
// the 0-remaps-to-1 rule on the 4-bit selector.
func TestMBC2BankSwitching(t *testing.T) {
	m := NewMBC2(markedROM(4), 4)

	require.Equal(t, uint8(1), m.ReadROM(0x4000), "romBank defaults to 1")

	m.WriteROM(0x2100, 3) // bit 8 set -> bank select
	require.Equal(t, uint8(3), m.ReadROM(0x4000))

	m.WriteROM(0x2100, 0) // writing 0 remaps to 1
	require.Equal(t, uint8(1), m.ReadROM(0x4000))
}

// TestMBC2RAMEnableGate checks that the RAM-enable register is the one
// aliased with bit 8 of the address clear, distinct from the bank-select
// register at the same 0x0000-0x3FFF range.
func TestMBC2RAMEnableGate(t *testing.T) {
	m := NewMBC2(markedROM(2), 2)

	require.Equal(t, uint8(0xFF), m.ReadRAM(0xA000), "RAM starts disabled")

	m.WriteRAM(0xA000, 0x07) // ignored while disabled
	require.Equal(t, uint8(0xFF), m.ReadRAM(0xA000))

	m.WriteROM(0x0000, 0x0A) // bit 8 clear -> RAM enable register
	m.WriteRAM(0xA000, 0x07)
	require.Equal(t, uint8(0xF7), m.ReadRAM(0xA000), "only the low nibble is stored, high nibble reads back as 1s")
}

// TestMBC2RAMOnlyLowNibbleStored checks that writes mask to 4 bits and reads
// always return the high nibble set to 1, and that the 512-entry RAM mirrors
// across the whole 0xA000-0xBFFF window.
func TestMBC2RAMOnlyLowNibbleStored(t *testing.T) {
	m := NewMBC2(markedROM(2), 2)
	m.WriteROM(0x0000, 0x0A)

	m.WriteRAM(0xA000, 0xFF)
	require.Equal(t, uint8(0xFF), m.ReadRAM(0xA000))

	m.WriteRAM(0xA005, 0x05) // offset 5 into the 512-entry array
	require.Equal(t, uint8(0xF5), m.ReadRAM(0xA005))

	require.Equal(t, uint8(0xF5), m.ReadRAM(0xA205), "mirrors every 512 bytes across the window")
}
