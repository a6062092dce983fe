package cartridge

import "github.com/thelolagemann/gbcore/internal/types"

// MBC5 implements spec.md 4.3's MBC5 variant: a 9-bit ROM bank selector
// split across an 8-bit low byte and a 1-bit high byte, and a 4-bit RAM
// bank selector. Unlike MBC1/MBC3, bank 0 is not remapped to bank 1 - a
// write of 0 to the low ROM bank register genuinely selects bank 0.
type MBC5 struct {
	rom      []byte
	ram      []byte
	romBanks int
	ramBanks int

	ramEnabled bool
	romBankLo  uint8
	romBankHi  uint8 // bit 0 only
	ramBank    uint8 // 4 bits
}

// NewMBC5 returns an MBC5 wrapping rom, sized for romBanks 16 KiB banks
// and ramSize bytes of external RAM.
func NewMBC5(rom []byte, romBanks, ramSize int) *MBC5 {
	m := &MBC5{
		rom:      make([]byte, romBanks*0x4000),
		romBanks: romBanks,
		ram:      make([]byte, ramSize),
	}
	copy(m.rom, rom)
	if ramSize > 0 {
		m.ramBanks = ramSize / 0x2000
		if m.ramBanks == 0 {
			m.ramBanks = 1
		}
	}
	return m
}

func (m *MBC5) romBank() int {
	return int(m.romBankHi)<<8 | int(m.romBankLo)
}

func (m *MBC5) ReadROM(addr uint16) uint8 {
	if addr < 0x4000 {
		return m.rom[addr]
	}
	bank := maskBank(m.romBank(), m.romBanks)
	return m.rom[bank*0x4000+int(addr-0x4000)]
}

func (m *MBC5) WriteROM(addr uint16, v uint8) {
	switch {
	case addr < 0x2000:
		m.ramEnabled = v&0x0F == 0x0A
	case addr < 0x3000:
		m.romBankLo = v
	case addr < 0x4000:
		m.romBankHi = v & 0x01
	case addr < 0x6000:
		m.ramBank = v & 0x0F
	}
}

func (m *MBC5) ReadRAM(addr uint16) uint8 {
	if !m.ramEnabled || len(m.ram) == 0 {
		return 0xFF
	}
	off := maskBank(int(m.ramBank), m.ramBanks)*0x2000 + int(addr-0xA000)
	if off >= len(m.ram) {
		return 0xFF
	}
	return m.ram[off]
}

func (m *MBC5) WriteRAM(addr uint16, v uint8) {
	if !m.ramEnabled || len(m.ram) == 0 {
		return
	}
	off := maskBank(int(m.ramBank), m.ramBanks)*0x2000 + int(addr-0xA000)
	if off >= len(m.ram) {
		return
	}
	m.ram[off] = v
}

func (m *MBC5) Tick(int) {}

func (m *MBC5) RAM() []byte { return m.ram }

func (m *MBC5) LoadRAM(data []byte) { copy(m.ram, data) }

var _ types.Stater = (*MBC5)(nil)

func (m *MBC5) Save(s *types.State) {
	s.WriteBool(m.ramEnabled)
	s.Write8(m.romBankLo)
	s.Write8(m.romBankHi)
	s.Write8(m.ramBank)
}

func (m *MBC5) Load(s *types.State) {
	m.ramEnabled = s.ReadBool()
	m.romBankLo = s.Read8()
	m.romBankHi = s.Read8()
	m.ramBank = s.Read8()
}
