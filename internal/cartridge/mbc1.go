package cartridge

import "github.com/thelolagemann/gbcore/internal/types"

// MBC1 implements spec.md 4.3's MBC1 variant: a 5-bit ROM bank selector (0
// remapped to 1), a 2-bit secondary selector shared between the ROM bank's
// high bits and the RAM bank, and a mode flag that decides which role the
// secondary selector plays.
type MBC1 struct {
	rom       []byte
	ram       []byte
	romBanks  int
	ramBanks  int

	ramEnabled bool
	romBank    uint8 // 5 bits, 0 remapped to 1
	secondary  uint8 // 2 bits
	mode       uint8 // 0 = ROM banking mode, 1 = RAM banking mode
}

// NewMBC1 returns an MBC1 wrapping rom, sized for romBanks 16 KiB banks
// and ramSize bytes of external RAM.
func NewMBC1(rom []byte, romBanks, ramSize int) *MBC1 {
	m := &MBC1{
		rom:      make([]byte, romBanks*0x4000),
		romBanks: romBanks,
		ram:      make([]byte, ramSize),
		romBank:  1,
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

func (m *MBC1) ReadROM(addr uint16) uint8 {
	if addr < 0x4000 {
		bank := 0
		if m.mode == 1 {
			bank = int(m.secondary) << 5
		}
		bank = maskBank(bank, m.romBanks)
		return m.rom[bank*0x4000+int(addr)]
	}
	bank := int(m.secondary)<<5 | int(m.romBank)
	bank = maskBank(bank, m.romBanks)
	return m.rom[bank*0x4000+int(addr-0x4000)]
}

func (m *MBC1) WriteROM(addr uint16, v uint8) {
	switch {
	case addr < 0x2000:
		m.ramEnabled = v&0x0F == 0x0A
	case addr < 0x4000:
		bank := v & 0x1F
		if bank == 0 {
			bank = 1
		}
		m.romBank = bank
	case addr < 0x6000:
		m.secondary = v & 0x03
	case addr < 0x8000:
		m.mode = v & 0x01
	}
}

func (m *MBC1) ramBankIndex() int {
	if m.mode == 1 {
		return maskBank(int(m.secondary), m.ramBanks)
	}
	return 0
}

func (m *MBC1) ReadRAM(addr uint16) uint8 {
	if !m.ramEnabled || len(m.ram) == 0 {
		return 0xFF
	}
	off := m.ramBankIndex()*0x2000 + int(addr-0xA000)
	if off >= len(m.ram) {
		return 0xFF
	}
	return m.ram[off]
}

func (m *MBC1) WriteRAM(addr uint16, v uint8) {
	if !m.ramEnabled || len(m.ram) == 0 {
		return
	}
	off := m.ramBankIndex()*0x2000 + int(addr-0xA000)
	if off >= len(m.ram) {
		return
	}
	m.ram[off] = v
}

func (m *MBC1) Tick(int) {}

func (m *MBC1) RAM() []byte { return m.ram }

func (m *MBC1) LoadRAM(data []byte) { copy(m.ram, data) }

var _ types.Stater = (*MBC1)(nil)

func (m *MBC1) Save(s *types.State) {
	s.WriteBool(m.ramEnabled)
	s.Write8(m.romBank)
	s.Write8(m.secondary)
	s.Write8(m.mode)
}

func (m *MBC1) Load(s *types.State) {
	m.ramEnabled = s.ReadBool()
	m.romBank = s.Read8()
	m.secondary = s.Read8()
	m.mode = s.Read8()
}
