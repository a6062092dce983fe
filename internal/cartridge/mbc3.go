package cartridge

import "github.com/thelolagemann/gbcore/internal/types"

// rtcCyclesPerSecond is the DMG clock rate used to derive how many T-states
// the MBC3 real-time clock must see before advancing by one second.
const rtcCyclesPerSecond = 1 << 22

// mbc3RTC holds the live clock registers and the latched copy that reads
// through the five RTC register aliases 0x08-0x0C return.
type mbc3RTC struct {
	seconds, minutes, hours uint8
	daysLow                 uint8
	daysHigh                uint8 // bit0 = day counter bit 8, bit6 = halt, bit7 = carry

	latchedSeconds, latchedMinutes, latchedHours uint8
	latchedDaysLow, latchedDaysHigh              uint8

	latchArmed bool // saw a write of 0x00 to the latch register, awaiting 0x01
	subCycle   int  // accumulates cycles toward the next real second
}

func (r *mbc3RTC) tick(cycles int) {
	if r.daysHigh&0x40 != 0 { // halted
		return
	}
	r.subCycle += cycles
	for r.subCycle >= rtcCyclesPerSecond {
		r.subCycle -= rtcCyclesPerSecond
		r.advanceSecond()
	}
}

func (r *mbc3RTC) advanceSecond() {
	r.seconds++
	if r.seconds < 60 {
		return
	}
	r.seconds = 0
	r.minutes++
	if r.minutes < 60 {
		return
	}
	r.minutes = 0
	r.hours++
	if r.hours < 24 {
		return
	}
	r.hours = 0
	days := uint16(r.daysLow) | uint16(r.daysHigh&0x01)<<8
	days++
	if days > 0x1FF {
		days = 0
		r.daysHigh |= 0x80 // carry
	}
	r.daysLow = uint8(days)
	r.daysHigh = r.daysHigh&0xFE | uint8(days>>8)&0x01
}

func (r *mbc3RTC) latch() {
	r.latchedSeconds = r.seconds
	r.latchedMinutes = r.minutes
	r.latchedHours = r.hours
	r.latchedDaysLow = r.daysLow
	r.latchedDaysHigh = r.daysHigh
}

func (r *mbc3RTC) read(reg uint8) uint8 {
	switch reg {
	case 0x08:
		return r.latchedSeconds
	case 0x09:
		return r.latchedMinutes
	case 0x0A:
		return r.latchedHours
	case 0x0B:
		return r.latchedDaysLow
	case 0x0C:
		return r.latchedDaysHigh
	}
	return 0xFF
}

func (r *mbc3RTC) write(reg, v uint8) {
	switch reg {
	case 0x08:
		r.seconds = v
	case 0x09:
		r.minutes = v
	case 0x0A:
		r.hours = v
	case 0x0B:
		r.daysLow = v
	case 0x0C:
		r.daysHigh = v
	}
}

// MBC3 implements spec.md 4.3's MBC3 variant: a 7-bit ROM bank selector (0
// remapped to 1), a RAM-bank-or-RTC-register select in 0x4000-0x5FFF, and
// the latch-clock-data mechanism that snapshots the live RTC into a
// readable shadow copy on a 0x00-then-0x01 write sequence to 0x6000-0x7FFF.
type MBC3 struct {
	rom      []byte
	ram      []byte
	romBanks int
	hasRTC   bool

	ramEnabled bool
	romBank    uint8 // 7 bits, 0 remapped to 1
	bankOrRTC  uint8 // 0x00-0x03 selects a RAM bank, 0x08-0x0C selects an RTC register

	rtc mbc3RTC
}

// NewMBC3 returns an MBC3 wrapping rom, sized for romBanks 16 KiB banks and
// ramSize bytes of external RAM. hasRTC enables the latch-clock-data
// mechanism and RTC register aliasing for the two MBC3 cartridge subtypes
// that carry a real-time clock.
func NewMBC3(rom []byte, romBanks, ramSize int, hasRTC bool) *MBC3 {
	m := &MBC3{
		rom:      make([]byte, romBanks*0x4000),
		romBanks: romBanks,
		ram:      make([]byte, ramSize),
		romBank:  1,
		hasRTC:   hasRTC,
	}
	copy(m.rom, rom)
	return m
}

func (m *MBC3) ReadROM(addr uint16) uint8 {
	if addr < 0x4000 {
		return m.rom[addr]
	}
	bank := maskBank(int(m.romBank), m.romBanks)
	return m.rom[bank*0x4000+int(addr-0x4000)]
}

func (m *MBC3) WriteROM(addr uint16, v uint8) {
	switch {
	case addr < 0x2000:
		m.ramEnabled = v&0x0F == 0x0A
	case addr < 0x4000:
		bank := v & 0x7F
		if bank == 0 {
			bank = 1
		}
		m.romBank = bank
	case addr < 0x6000:
		m.bankOrRTC = v
	case addr < 0x8000:
		if m.hasRTC {
			if v == 0x00 {
				m.rtc.latchArmed = true
			} else if v == 0x01 && m.rtc.latchArmed {
				m.rtc.latch()
				m.rtc.latchArmed = false
			} else {
				m.rtc.latchArmed = false
			}
		}
	}
}

func (m *MBC3) ReadRAM(addr uint16) uint8 {
	if !m.ramEnabled {
		return 0xFF
	}
	if m.hasRTC && m.bankOrRTC >= 0x08 && m.bankOrRTC <= 0x0C {
		return m.rtc.read(m.bankOrRTC)
	}
	if len(m.ram) == 0 {
		return 0xFF
	}
	off := int(m.bankOrRTC&0x03)*0x2000 + int(addr-0xA000)
	if off >= len(m.ram) {
		return 0xFF
	}
	return m.ram[off]
}

func (m *MBC3) WriteRAM(addr uint16, v uint8) {
	if !m.ramEnabled {
		return
	}
	if m.hasRTC && m.bankOrRTC >= 0x08 && m.bankOrRTC <= 0x0C {
		m.rtc.write(m.bankOrRTC, v)
		return
	}
	if len(m.ram) == 0 {
		return
	}
	off := int(m.bankOrRTC&0x03)*0x2000 + int(addr-0xA000)
	if off >= len(m.ram) {
		return
	}
	m.ram[off] = v
}

// Tick advances the RTC by cycles T-states, the clock every subsystem is
// fed, rather than
// the frozen bus cycles any given ReadRAM/WriteRAM call sees.
func (m *MBC3) Tick(cycles int) {
	if m.hasRTC {
		m.rtc.tick(cycles)
	}
}

func (m *MBC3) RAM() []byte { return m.ram }

func (m *MBC3) LoadRAM(data []byte) { copy(m.ram, data) }

var _ types.Stater = (*MBC3)(nil)

func (m *MBC3) Save(s *types.State) {
	s.WriteBool(m.ramEnabled)
	s.Write8(m.romBank)
	s.Write8(m.bankOrRTC)
	s.Write8(m.rtc.seconds)
	s.Write8(m.rtc.minutes)
	s.Write8(m.rtc.hours)
	s.Write8(m.rtc.daysLow)
	s.Write8(m.rtc.daysHigh)
	s.Write8(m.rtc.latchedSeconds)
	s.Write8(m.rtc.latchedMinutes)
	s.Write8(m.rtc.latchedHours)
	s.Write8(m.rtc.latchedDaysLow)
	s.Write8(m.rtc.latchedDaysHigh)
	s.WriteBool(m.rtc.latchArmed)
	s.Write32(uint32(m.rtc.subCycle))
}

func (m *MBC3) Load(s *types.State) {
	m.ramEnabled = s.ReadBool()
	m.romBank = s.Read8()
	m.bankOrRTC = s.Read8()
	m.rtc.seconds = s.Read8()
	m.rtc.minutes = s.Read8()
	m.rtc.hours = s.Read8()
	m.rtc.daysLow = s.Read8()
	m.rtc.daysHigh = s.Read8()
	m.rtc.latchedSeconds = s.Read8()
	m.rtc.latchedMinutes = s.Read8()
	m.rtc.latchedHours = s.Read8()
	m.rtc.latchedDaysLow = s.Read8()
	m.rtc.latchedDaysHigh = s.Read8()
	m.rtc.latchArmed = s.ReadBool()
	m.rtc.subCycle = int(s.Read32())
}
