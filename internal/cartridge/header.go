package cartridge

import "fmt"

// Type is the cartridge hardware type byte at 0x0147.
type Type uint8

const (
	TypeROM               Type = 0x00
	TypeMBC1              Type = 0x01
	TypeMBC1RAM           Type = 0x02
	TypeMBC1RAMBattery    Type = 0x03
	TypeMBC2              Type = 0x05
	TypeMBC2Battery       Type = 0x06
	TypeMBC3TimerBattery  Type = 0x0F
	TypeMBC3TimerRAMBatt  Type = 0x10
	TypeMBC3              Type = 0x11
	TypeMBC3RAM           Type = 0x12
	TypeMBC3RAMBattery    Type = 0x13
	TypeMBC5              Type = 0x19
	TypeMBC5RAM           Type = 0x1A
	TypeMBC5RAMBattery    Type = 0x1B
	TypeMBC5Rumble        Type = 0x1C
	TypeMBC5RumbleRAM     Type = 0x1D
	TypeMBC5RumbleRAMBatt Type = 0x1E
)

// HasBattery reports whether the cartridge type preserves RAM across
// power-off (governs whether a .sav sidecar should be written on
// shutdown).
func (t Type) HasBattery() bool {
	switch t {
	case TypeMBC1RAMBattery, TypeMBC2Battery, TypeMBC3TimerBattery,
		TypeMBC3TimerRAMBatt, TypeMBC3RAMBattery, TypeMBC5RAMBattery,
		TypeMBC5RumbleRAMBatt:
		return true
	}
	return false
}

// HasRTC reports whether the cartridge type carries an MBC3 real-time
// clock.
func (t Type) HasRTC() bool {
	return t == TypeMBC3TimerBattery || t == TypeMBC3TimerRAMBatt
}

// romBankCounts maps the ROM size byte at 0x0148 to a bank count (each
// bank is 16 KiB).
var romBankCounts = map[uint8]int{
	0x00: 2, 0x01: 4, 0x02: 8, 0x03: 16,
	0x04: 32, 0x05: 64, 0x06: 128, 0x07: 256, 0x08: 512,
}

// ramSizes maps the RAM size byte at 0x0149 to a byte count.
var ramSizes = map[uint8]int{
	0x00: 0,
	0x02: 8 * 1024,
	0x03: 32 * 1024,
	0x04: 128 * 1024,
	0x05: 64 * 1024,
}

// Header is the parsed cartridge header, 0x0100-0x014F.
type Header struct {
	Title         string
	Type          Type
	ROMBankCount  int
	RAMSize       int
	ChecksumValid bool
	ChecksumByte  uint8 // raw byte at 0x014D, used to pick the DMG post-boot AF seed
}

// ErrUnsupportedCartridge is returned by ParseHeader when the cartridge
// type, ROM size or RAM size byte has no known mapping - spec.md 7's
// "Unsupported cartridge" error kind.
type ErrUnsupportedCartridge struct {
	Reason string
}

func (e *ErrUnsupportedCartridge) Error() string {
	return fmt.Sprintf("unsupported cartridge: %s", e.Reason)
}

// ParseHeader reads the header fields out of a full ROM image. The image
// must be at least 0x150 bytes (the minimum any real cartridge image
// satisfies).
func ParseHeader(rom []byte) (Header, error) {
	if len(rom) < 0x150 {
		return Header{}, &ErrUnsupportedCartridge{Reason: "image shorter than header"}
	}

	h := Header{
		Title: parseTitle(rom[0x134:0x144]),
		Type:  Type(rom[0x147]),
	}

	banks, ok := romBankCounts[rom[0x148]]
	if !ok {
		return Header{}, &ErrUnsupportedCartridge{Reason: fmt.Sprintf("unknown ROM size code 0x%02X", rom[0x148])}
	}
	h.ROMBankCount = banks

	ramSize, ok := ramSizes[rom[0x149]]
	if !ok {
		return Header{}, &ErrUnsupportedCartridge{Reason: fmt.Sprintf("unknown RAM size code 0x%02X", rom[0x149])}
	}
	h.RAMSize = ramSize

	switch h.Type {
	case TypeROM, TypeMBC1, TypeMBC1RAM, TypeMBC1RAMBattery,
		TypeMBC2, TypeMBC2Battery,
		TypeMBC3, TypeMBC3RAM, TypeMBC3RAMBattery, TypeMBC3TimerBattery, TypeMBC3TimerRAMBatt,
		TypeMBC5, TypeMBC5RAM, TypeMBC5RAMBattery, TypeMBC5Rumble, TypeMBC5RumbleRAM, TypeMBC5RumbleRAMBatt:
		// recognized
	default:
		return Header{}, &ErrUnsupportedCartridge{Reason: fmt.Sprintf("unknown MBC type code 0x%02X", rom[0x147])}
	}

	h.ChecksumByte = rom[0x14D]
	h.ChecksumValid = headerChecksum(rom) == rom[0x14D]

	return h, nil
}

func parseTitle(raw []byte) string {
	end := len(raw)
	for i, b := range raw {
		if b == 0 {
			end = i
			break
		}
	}
	return string(raw[:end])
}

// headerChecksum reproduces the documented DMG boot ROM algorithm:
// x := 0; for each byte in 0x0134..=0x014C: x = x - byte - 1.
func headerChecksum(rom []byte) uint8 {
	var x uint8
	for i := 0x134; i <= 0x14C; i++ {
		x = x - rom[i] - 1
	}
	return x
}
