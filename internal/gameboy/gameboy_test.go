package gameboy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/thelolagemann/gbcore/internal/joypad"
)

// buildROM returns a minimal 2-bank (32 KiB) ROM-only cartridge image with a
// valid header checksum and the given bytes placed starting at 0x0100, the
// DMG entry point.
func buildROM(t *testing.T, code []byte) string {
	t.Helper()

	rom := make([]byte, 2*0x4000)
	copy(rom[0x100:], code)
	copy(rom[0x134:0x144], "TESTROM")
	rom[0x147] = 0x00 // ROM only, no MBC
	rom[0x148] = 0x00 // 2 banks
	rom[0x149] = 0x00 // no external RAM

	var x uint8
	for i := 0x134; i <= 0x14C; i++ {
		x = x - rom[i] - 1
	}
	rom[0x14D] = x

	path := filepath.Join(t.TempDir(), "test.gb")
	require.NoError(t, os.WriteFile(path, rom, 0o644))
	return path
}

// TestNewWiresAndResetsToDMGPostBootState checks that New parses the
// cartridge, wires every subsystem and leaves the CPU at spec.md 6's
// documented post-boot register state.
func TestNewWiresAndResetsToDMGPostBootState(t *testing.T) {
	path := buildROM(t, []byte{0x00, 0x00, 0x00}) // nop; nop; nop

	gb, err := New(path)
	require.NoError(t, err)

	require.Equal(t, uint16(0x0100), gb.CPU.PC)
	require.Equal(t, uint16(0xFFFE), gb.CPU.SP)
	require.NotNil(t, gb.Bus)
	require.NotNil(t, gb.PPU)
	require.NotNil(t, gb.DMA)
}

// TestStepAdvancesPCPastEachNOP checks the top loop's one-instruction-then-
// advance-every-subsystem contract for the simplest possible program.
func TestStepAdvancesPCPastEachNOP(t *testing.T) {
	path := buildROM(t, []byte{0x00, 0x00, 0x00})

	gb, err := New(path)
	require.NoError(t, err)

	cycles := gb.Step()
	require.Equal(t, 4, cycles, "NOP takes 1 M-cycle / 4 T-states")
	require.Equal(t, uint16(0x0101), gb.CPU.PC)

	gb.Step()
	require.Equal(t, uint16(0x0102), gb.CPU.PC)
}

// TestSaveStateLoadStateRoundTrip checks that a machine's full state can be
// serialized mid-execution and restored into an independently constructed
// machine running the same ROM.
func TestSaveStateLoadStateRoundTrip(t *testing.T) {
	path := buildROM(t, []byte{
		0x3E, 0x42, // ld a, 0x42
		0x06, 0x07, // ld b, 0x07
		0x00, // nop
	})

	gb, err := New(path)
	require.NoError(t, err)

	gb.Step() // ld a, 0x42
	gb.Step() // ld b, 0x07
	snapshot := gb.SaveState()

	gb2, err := New(path)
	require.NoError(t, err)
	gb2.LoadState(snapshot)

	require.Equal(t, gb.CPU.PC, gb2.CPU.PC)
	require.Equal(t, gb.CPU.SP, gb2.CPU.SP)
}

// TestPressReleaseForwardToJoypad checks that the GameBoy-level input
// helpers reach the wired joypad controller rather than being no-ops.
func TestPressReleaseForwardToJoypad(t *testing.T) {
	path := buildROM(t, []byte{0x00})

	gb, err := New(path)
	require.NoError(t, err)

	require.NotPanics(t, func() {
		gb.Press(joypad.ButtonA)
		gb.Release(joypad.ButtonA)
	})

	gb.Joypad.Write(0x10) // select the action-button group (bit 5 low)
	gb.Press(joypad.ButtonA)
	require.Zero(t, gb.Joypad.Read()&0x01, "A reads back as pressed (active-low)")
	gb.Release(joypad.ButtonA)
	require.Equal(t, uint8(0x01), gb.Joypad.Read()&0x01, "A reads back as released")
}
