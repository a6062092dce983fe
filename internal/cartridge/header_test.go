package cartridge

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// validHeader builds a minimal well-formed header inside an otherwise-zeroed
// ROM image, filling in the checksum so ChecksumValid comes back true.
func validHeader(title string, cartType Type, romSizeCode, ramSizeCode uint8) []byte {
	rom := make([]byte, 0x150)
	copy(rom[0x134:0x144], title)
	rom[0x147] = uint8(cartType)
	rom[0x148] = romSizeCode
	rom[0x149] = ramSizeCode

	var x uint8
	for i := 0x134; i <= 0x14C; i++ {
		x = x - rom[i] - 1
	}
	rom[0x14D] = x
	return rom
}

// TestParseHeaderValidCartridge checks that a well-formed header round-trips
// into the expected field values and reports a valid checksum.
func TestParseHeaderValidCartridge(t *testing.T) {
	rom := validHeader("POKEMON", TypeMBC3TimerRAMBatt, 0x02, 0x03)

	h, err := ParseHeader(rom)
	require.NoError(t, err)
	require.Equal(t, "POKEMON", h.Title)
	require.Equal(t, TypeMBC3TimerRAMBatt, h.Type)
	require.Equal(t, 8, h.ROMBankCount)
	require.Equal(t, 32*1024, h.RAMSize)
	require.True(t, h.ChecksumValid)
	require.True(t, h.Type.HasBattery())
	require.True(t, h.Type.HasRTC())
}

// TestParseHeaderTitleStopsAtNUL checks that the title field trims at the
// first NUL byte rather than including trailing padding.
func TestParseHeaderTitleStopsAtNUL(t *testing.T) {
	rom := validHeader("ZELDA", TypeMBC1, 0x00, 0x00)

	h, err := ParseHeader(rom)
	require.NoError(t, err)
	require.Equal(t, "ZELDA", h.Title)
}

// TestParseHeaderCorruptChecksum checks that a header whose stored checksum
// byte disagrees with the computed one still parses, but reports invalid.
func TestParseHeaderCorruptChecksum(t *testing.T) {
	rom := validHeader("BROKEN", TypeROM, 0x00, 0x00)
	rom[0x14D] ^= 0xFF

	h, err := ParseHeader(rom)
	require.NoError(t, err)
	require.False(t, h.ChecksumValid)
}

// TestParseHeaderRejectsShortImage checks the minimum-length guard.
func TestParseHeaderRejectsShortImage(t *testing.T) {
	_, err := ParseHeader(make([]byte, 0x10))
	require.Error(t, err)

	var unsupported *ErrUnsupportedCartridge
	require.ErrorAs(t, err, &unsupported)
}

// TestParseHeaderRejectsUnknownType checks that an unrecognized cartridge
// type byte surfaces as ErrUnsupportedCartridge rather than silently
// defaulting to ROM-only.
func TestParseHeaderRejectsUnknownType(t *testing.T) {
	rom := validHeader("???", Type(0xFE), 0x00, 0x00)

	_, err := ParseHeader(rom)
	require.Error(t, err)

	var unsupported *ErrUnsupportedCartridge
	require.ErrorAs(t, err, &unsupported)
}

// TestParseHeaderRejectsUnknownROMSize checks the ROM size code 0x148 guard.
func TestParseHeaderRejectsUnknownROMSize(t *testing.T) {
	rom := validHeader("???", TypeROM, 0xFF, 0x00)

	_, err := ParseHeader(rom)
	require.Error(t, err)
}

// TestParseHeaderRejectsUnknownRAMSize checks the RAM size code 0x149 guard.
func TestParseHeaderRejectsUnknownRAMSize(t *testing.T) {
	rom := validHeader("???", TypeROM, 0x00, 0xFF)

	_, err := ParseHeader(rom)
	require.Error(t, err)
}
