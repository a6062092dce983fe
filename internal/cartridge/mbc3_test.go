package cartridge

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestMBC3BankSwitching checks the 7-bit ROM bank selector, including the
// 0-remaps-to-1 rule and modulo masking against the ROM's bank count.
func TestMBC3BankSwitching(t *testing.T) {
	m := NewMBC3(markedROM(8), 8, 0, false)

	require.Equal(t, uint8(1), m.ReadROM(0x4000))

	m.WriteROM(0x2000, 5)
	require.Equal(t, uint8(5), m.ReadROM(0x4000))

	m.WriteROM(0x2000, 0x0B) // bank 11 on an 8-bank ROM
	require.Equal(t, uint8(3), m.ReadROM(0x4000), "effective bank index is masked modulo the ROM's bank count")

	m.WriteROM(0x2000, 0)
	require.Equal(t, uint8(1), m.ReadROM(0x4000), "0 remaps to 1, unlike MBC5")
}

// TestMBC3RTCTicksAndLatches checks that the real-time clock advances off
// the T-state count independent of ReadRAM/WriteRAM, and that its live
// state is only visible through ReadRAM after the documented 0x00-then-0x01
// latch sequence.
func TestMBC3RTCTicksAndLatches(t *testing.T) {
	m := NewMBC3(markedROM(2), 2, 0x2000, true)
	m.WriteROM(0x0000, 0x0A) // enable RAM/RTC access
	m.WriteROM(0x4000, 0x08) // select the seconds register alias

	m.Tick(rtcCyclesPerSecond * 2)

	require.Equal(t, uint8(0), m.ReadRAM(0xA000), "live seconds aren't visible before a latch")

	m.WriteROM(0x6000, 0x00)
	m.WriteROM(0x6000, 0x01)
	require.Equal(t, uint8(2), m.ReadRAM(0xA000), "latched seconds now readable")
}

// TestMBC3LatchRequiresExactSequence checks that any byte other than 0x01
// between the 0x00 and 0x01 writes cancels the latch.
func TestMBC3LatchRequiresExactSequence(t *testing.T) {
	m := NewMBC3(markedROM(2), 2, 0x2000, true)
	m.WriteROM(0x0000, 0x0A)
	m.WriteROM(0x4000, 0x08)
	m.Tick(rtcCyclesPerSecond * 3)

	m.WriteROM(0x6000, 0x00)
	m.WriteROM(0x6000, 0x02) // cancels the armed latch
	m.WriteROM(0x6000, 0x01)
	require.Equal(t, uint8(0), m.ReadRAM(0xA000), "latch never armed by the interrupted sequence")
}

// TestMBC3RTCSecondsRollover checks the carry from seconds into minutes.
func TestMBC3RTCSecondsRollover(t *testing.T) {
	m := NewMBC3(markedROM(2), 2, 0x2000, true)
	m.WriteROM(0x0000, 0x0A)
	m.WriteROM(0x4000, 0x09) // minutes register alias

	m.Tick(rtcCyclesPerSecond * 60) // exactly one minute

	m.WriteROM(0x6000, 0x00)
	m.WriteROM(0x6000, 0x01)
	require.Equal(t, uint8(1), m.ReadRAM(0xA000))
}
