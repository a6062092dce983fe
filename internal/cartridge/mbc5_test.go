package cartridge

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestMBC5BankZeroIsSelectable checks the MBC5-specific quirk spec.md 4.3
// calls out: unlike MBC1/MBC3, writing 0 to the low ROM bank register
// really does select bank 0, not bank 1.
func TestMBC5BankZeroIsSelectable(t *testing.T) {
	m := NewMBC5(markedROM(4), 4, 0)

	m.WriteROM(0x2000, 2)
	require.Equal(t, uint8(2), m.ReadROM(0x4000))

	m.WriteROM(0x2000, 0)
	require.Equal(t, uint8(0), m.ReadROM(0x4000), "bank 0 stays selected, no remap")
}

// TestMBC5NineBitBankSelector checks that the high bank bit combines with
// the low byte to address banks beyond 256, a span MBC1/MBC3's selectors
// can't reach.
func TestMBC5NineBitBankSelector(t *testing.T) {
	const romBanks = 512 // the largest MBC5 ROM size, exercising the full 9-bit range
	rom := make([]byte, romBanks*0x4000)
	rom[256*0x4000] = 0xAB
	m := NewMBC5(rom, romBanks, 0)

	m.WriteROM(0x2000, 0x00) // low byte
	m.WriteROM(0x3000, 0x01) // high bit -> bank 256
	require.Equal(t, uint8(0xAB), m.ReadROM(0x4000))
}

// TestMBC5RAMBanking checks the 4-bit RAM bank selector addresses distinct
// 8 KiB windows of external RAM.
func TestMBC5RAMBanking(t *testing.T) {
	m := NewMBC5(markedROM(2), 2, 4*0x2000)
	m.WriteROM(0x0000, 0x0A)

	m.WriteROM(0x4000, 1)
	m.WriteRAM(0xA000, 0x11)

	m.WriteROM(0x4000, 2)
	m.WriteRAM(0xA000, 0x22)

	m.WriteROM(0x4000, 1)
	require.Equal(t, uint8(0x11), m.ReadRAM(0xA000))

	m.WriteROM(0x4000, 2)
	require.Equal(t, uint8(0x22), m.ReadRAM(0xA000))
}
