package cartridge

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// markedROM returns a ROM of the given bank count where each 16 KiB bank's
// first byte is the bank's own index, so reads can identify which bank
// actually got selected.
func markedROM(banks int) []byte {
	rom := make([]byte, banks*0x4000)
	for b := 0; b < banks; b++ {
		rom[b*0x4000] = uint8(b)
	}
	return rom
}

// TestMBC1BankSwitching checks spec.md 4.3's MBC1 ROM banking: bank 0 is
// always mapped at 0x0000-0x3FFF, the switchable bank responds to the
// 0x2000-0x3FFF register with 0 remapped to 1, and invariant 4 holds
// (effective bank index stays below the ROM's bank count).
func TestMBC1BankSwitching(t *testing.T) {
	m := NewMBC1(markedROM(4), 4, 0)

	require.Equal(t, uint8(0), m.ReadROM(0x0000), "bank 0 is fixed at the low half")
	require.Equal(t, uint8(1), m.ReadROM(0x4000), "romBank defaults to 1, never 0")

	m.WriteROM(0x2000, 3)
	require.Equal(t, uint8(3), m.ReadROM(0x4000))

	m.WriteROM(0x2000, 0) // writing 0 remaps to 1
	require.Equal(t, uint8(1), m.ReadROM(0x4000))

	m.WriteROM(0x2000, 0x1F) // 5-bit selector (31) wider than the 4-bank ROM
	require.Equal(t, uint8(31&(4-1)), m.ReadROM(0x4000), "effective bank index is masked modulo the ROM's bank count")
}

// TestMBC1RAMEnableGate checks that external RAM reads/writes are ignored
// (reads return 0xFF) until the 0x0A enable pattern is written to
// 0x0000-0x1FFF.
func TestMBC1RAMEnableGate(t *testing.T) {
	m := NewMBC1(markedROM(2), 2, 0x2000)

	require.Equal(t, uint8(0xFF), m.ReadRAM(0xA000), "RAM starts disabled")

	m.WriteRAM(0xA000, 0x55) // ignored while disabled
	require.Equal(t, uint8(0xFF), m.ReadRAM(0xA000))

	m.WriteROM(0x0000, 0x0A) // enable
	m.WriteRAM(0xA000, 0x55)
	require.Equal(t, uint8(0x55), m.ReadRAM(0xA000))

	m.WriteROM(0x0000, 0x00) // any other low nibble disables again
	require.Equal(t, uint8(0xFF), m.ReadRAM(0xA000))
}

// TestMBC1RAMBankingMode checks that in mode 1, the secondary 2-bit
// selector also picks the external RAM bank (it supplies the switchable
// ROM bank's high bits in either mode).
func TestMBC1RAMBankingMode(t *testing.T) {
	m := NewMBC1(markedROM(2), 2, 4*0x2000) // 4 RAM banks
	m.WriteROM(0x0000, 0x0A)                // enable RAM
	m.WriteROM(0x6000, 0x01)                // mode 1: RAM banking mode

	m.WriteROM(0x4000, 0x02) // secondary = 2 -> RAM bank 2
	m.WriteRAM(0xA000, 0x42)

	m.WriteROM(0x4000, 0x00) // back to RAM bank 0
	require.NotEqual(t, uint8(0x42), m.ReadRAM(0xA000), "bank 0 must not see bank 2's byte")

	m.WriteROM(0x4000, 0x02) // select bank 2 again
	require.Equal(t, uint8(0x42), m.ReadRAM(0xA000))
}
