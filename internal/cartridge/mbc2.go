package cartridge

import "github.com/thelolagemann/gbcore/internal/types"

// MBC2 implements the SPEC_FULL.md MBC2 supplement: a single 4-bit ROM
// bank selector (0 remapped to 1), written in the 0x0000-0x3FFF region when
// bit 8 of the address is set, and 512x4-bit built-in RAM where
// only the low nibble of each byte is meaningful.
type MBC2 struct {
	rom      []byte
	ram      [512]byte // only the low nibble of each entry is used
	romBanks int

	ramEnabled bool
	romBank    uint8 // 4 bits, 0 remapped to 1
}

// NewMBC2 returns an MBC2 wrapping rom, sized for romBanks 16 KiB banks.
// MBC2 RAM size is fixed at 512x4 bits regardless of the header's RAM
// size byte, which is conventionally 0x00 for this cartridge type.
func NewMBC2(rom []byte, romBanks int) *MBC2 {
	m := &MBC2{
		rom:      make([]byte, romBanks*0x4000),
		romBanks: romBanks,
		romBank:  1,
	}
	copy(m.rom, rom)
	return m
}

func (m *MBC2) ReadROM(addr uint16) uint8 {
	if addr < 0x4000 {
		return m.rom[addr]
	}
	bank := maskBank(int(m.romBank), m.romBanks)
	return m.rom[bank*0x4000+int(addr-0x4000)]
}

// WriteROM dispatches on bit 8 of the address: when clear, the write
// targets RAM-enable; when set, it selects the ROM bank. Both registers
// alias the whole 0x0000-0x3FFF region.
func (m *MBC2) WriteROM(addr uint16, v uint8) {
	if addr >= 0x4000 {
		return
	}
	if addr&0x0100 == 0 {
		m.ramEnabled = v&0x0F == 0x0A
		return
	}
	bank := v & 0x0F
	if bank == 0 {
		bank = 1
	}
	m.romBank = bank
}

func (m *MBC2) ReadRAM(addr uint16) uint8 {
	if !m.ramEnabled {
		return 0xFF
	}
	idx := int(addr-0xA000) % len(m.ram)
	return m.ram[idx] | 0xF0
}

func (m *MBC2) WriteRAM(addr uint16, v uint8) {
	if !m.ramEnabled {
		return
	}
	idx := int(addr-0xA000) % len(m.ram)
	m.ram[idx] = v & 0x0F
}

func (m *MBC2) Tick(int) {}

func (m *MBC2) RAM() []byte { return m.ram[:] }

func (m *MBC2) LoadRAM(data []byte) { copy(m.ram[:], data) }

var _ types.Stater = (*MBC2)(nil)

func (m *MBC2) Save(s *types.State) {
	s.WriteBool(m.ramEnabled)
	s.Write8(m.romBank)
}

func (m *MBC2) Load(s *types.State) {
	m.ramEnabled = s.ReadBool()
	m.romBank = s.Read8()
}
