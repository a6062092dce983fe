package cartridge

import "github.com/thelolagemann/gbcore/internal/types"

// NoMBC is a flat 32 KiB ROM with an optional flat external RAM, and no
// bank switching at all - spec.md 4.3's NoMBC variant.
type NoMBC struct {
	rom [32 * 1024]byte
	ram []byte
}

// NewNoMBC returns a NoMBC loaded with rom (truncated/zero-padded to 32
// KiB) and ramSize bytes of external RAM.
func NewNoMBC(rom []byte, ramSize int) *NoMBC {
	m := &NoMBC{ram: make([]byte, ramSize)}
	copy(m.rom[:], rom)
	return m
}

func (m *NoMBC) ReadROM(addr uint16) uint8 {
	return m.rom[addr]
}

// WriteROM is ignored: a flat ROM cartridge has no control registers.
func (m *NoMBC) WriteROM(uint16, uint8) {}

func (m *NoMBC) ReadRAM(addr uint16) uint8 {
	off := addr - 0xA000
	if len(m.ram) == 0 || int(off) >= len(m.ram) {
		return 0xFF
	}
	return m.ram[off]
}

func (m *NoMBC) WriteRAM(addr uint16, v uint8) {
	off := addr - 0xA000
	if len(m.ram) == 0 || int(off) >= len(m.ram) {
		return
	}
	m.ram[off] = v
}

func (m *NoMBC) Tick(int) {}

func (m *NoMBC) RAM() []byte { return m.ram }

func (m *NoMBC) LoadRAM(data []byte) {
	copy(m.ram, data)
}

var _ types.Stater = (*NoMBC)(nil)

func (m *NoMBC) Save(s *types.State) {}
func (m *NoMBC) Load(s *types.State) {}
