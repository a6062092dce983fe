package types

// Addr is a hardware register address in the 0xFF00-0xFF7F I/O block, or
// 0xFFFF for IE. Naming mirrors Pandocs so the bus and component code read
// the same as the reference documentation the spec is written against.
type Addr = uint16

const (
	P1   Addr = 0xFF00 // joypad
	SB   Addr = 0xFF01 // serial transfer data
	SC   Addr = 0xFF02 // serial transfer control
	DIV  Addr = 0xFF04 // divider register
	TIMA Addr = 0xFF05 // timer counter
	TMA  Addr = 0xFF06 // timer modulo
	TAC  Addr = 0xFF07 // timer control
	IF   Addr = 0xFF0F // interrupt flag

	NR10 Addr = 0xFF10
	NR11 Addr = 0xFF11
	NR12 Addr = 0xFF12
	NR13 Addr = 0xFF13
	NR14 Addr = 0xFF14
	NR21 Addr = 0xFF16
	NR22 Addr = 0xFF17
	NR23 Addr = 0xFF18
	NR24 Addr = 0xFF19
	NR30 Addr = 0xFF1A
	NR31 Addr = 0xFF1B
	NR32 Addr = 0xFF1C
	NR33 Addr = 0xFF1D
	NR34 Addr = 0xFF1E
	NR41 Addr = 0xFF20
	NR42 Addr = 0xFF21
	NR43 Addr = 0xFF22
	NR44 Addr = 0xFF23
	NR50 Addr = 0xFF24
	NR51 Addr = 0xFF25
	NR52 Addr = 0xFF26

	WaveRAMStart Addr = 0xFF30
	WaveRAMEnd   Addr = 0xFF3F

	LCDC Addr = 0xFF40
	STAT Addr = 0xFF41
	SCY  Addr = 0xFF42
	SCX  Addr = 0xFF43
	LY   Addr = 0xFF44
	LYC  Addr = 0xFF45
	DMA  Addr = 0xFF46
	BGP  Addr = 0xFF47
	OBP0 Addr = 0xFF48
	OBP1 Addr = 0xFF49
	WY   Addr = 0xFF4A
	WX   Addr = 0xFF4B

	IE Addr = 0xFFFF
)

// LCDC bit positions.
const (
	LCDCEnable        = 7
	LCDCWinMapSelect  = 6
	LCDCWinEnable     = 5
	LCDCAddrMode      = 4
	LCDCBGMapSelect   = 3
	LCDCObjSize       = 2
	LCDCObjEnable     = 1
	LCDCBGWinEnable   = 0
)

// STAT bit positions.
const (
	StatLYCInterrupt   = 6
	StatMode2Interrupt = 5
	StatMode1Interrupt = 4
	StatMode0Interrupt = 3
	StatLYCFlag        = 2
)
