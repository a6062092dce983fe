package cartridge

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"
	"github.com/cespare/xxhash"
	"github.com/thelolagemann/gbcore/internal/types"
)

// Cartridge owns the parsed header and the selected MBC variant, and
// derives the battery-save and RTC sidecar file paths from the ROM's
// content hash rather than its path, so a renamed ROM still finds its
// save data.
type Cartridge struct {
	Header Header
	mbc    MBC

	savePath    string
	rtcSavePath string
}

// Load reads a ROM image from path (optionally wrapped in a .zip or .7z
// archive, unwrapped transparently), parses its header and constructs the
// matching MBC variant. If a battery-backed save file exists alongside
// the ROM it is loaded into the cartridge's external RAM.
func Load(path string) (*Cartridge, error) {
	rom, err := readROM(path)
	if err != nil {
		return nil, err
	}

	header, err := ParseHeader(rom)
	if err != nil {
		return nil, err
	}

	mbc, err := newMBC(header, rom)
	if err != nil {
		return nil, err
	}

	c := &Cartridge{Header: header, mbc: mbc}
	c.derivePaths(path, rom)
	c.loadSave()

	return c, nil
}

// readROM loads the raw ROM bytes from path, transparently unpacking a
// single-entry .zip or .7z archive if that's what path points at.
func readROM(path string) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".7z":
		return read7z(path)
	case ".zip":
		return readZip(path)
	default:
		return os.ReadFile(path)
	}
}

func read7z(path string) ([]byte, error) {
	r, err := sevenzip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("cartridge: open 7z archive: %w", err)
	}
	defer r.Close()

	for _, f := range r.File {
		if !isROMName(f.Name) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("cartridge: read 7z entry %s: %w", f.Name, err)
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("cartridge: no ROM entry found in %s", path)
}

func readZip(path string) ([]byte, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("cartridge: open zip archive: %w", err)
	}
	defer r.Close()

	for _, f := range r.File {
		if !isROMName(f.Name) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("cartridge: read zip entry %s: %w", f.Name, err)
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("cartridge: no ROM entry found in %s", path)
}

func isROMName(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".gb" || ext == ".gbc"
}

// newMBC dispatches on the header's cartridge type to construct the
// matching tagged variant. This is the one place the variant family is
// chosen; every other consumer only ever sees the shared MBC interface.
func newMBC(h Header, rom []byte) (MBC, error) {
	switch h.Type {
	case TypeROM:
		return NewNoMBC(rom, h.RAMSize), nil
	case TypeMBC1, TypeMBC1RAM, TypeMBC1RAMBattery:
		return NewMBC1(rom, h.ROMBankCount, h.RAMSize), nil
	case TypeMBC2, TypeMBC2Battery:
		return NewMBC2(rom, h.ROMBankCount), nil
	case TypeMBC3, TypeMBC3RAM, TypeMBC3RAMBattery, TypeMBC3TimerBattery, TypeMBC3TimerRAMBatt:
		return NewMBC3(rom, h.ROMBankCount, h.RAMSize, h.Type.HasRTC()), nil
	case TypeMBC5, TypeMBC5RAM, TypeMBC5RAMBattery, TypeMBC5Rumble, TypeMBC5RumbleRAM, TypeMBC5RumbleRAMBatt:
		return NewMBC5(rom, h.ROMBankCount, h.RAMSize), nil
	default:
		return nil, &ErrUnsupportedCartridge{Reason: fmt.Sprintf("no MBC implementation for type 0x%02X", uint8(h.Type))}
	}
}

// derivePaths computes the sidecar save file paths from the ROM content
// hash, stored alongside the original ROM path under a .sav / .sav.rtc
// extension so renaming the ROM file doesn't orphan its save.
func (c *Cartridge) derivePaths(path string, rom []byte) {
	sum := xxhash.Sum64(rom)
	dir := filepath.Dir(path)
	base := fmt.Sprintf("%016x", sum)
	c.savePath = filepath.Join(dir, base+".sav")
	c.rtcSavePath = filepath.Join(dir, base+".sav.rtc")
}

func (c *Cartridge) loadSave() {
	if !c.Header.Type.HasBattery() {
		return
	}
	data, err := os.ReadFile(c.savePath)
	if err == nil {
		c.mbc.LoadRAM(data)
	}
	if c.Header.Type.HasRTC() {
		if rtcData, err := os.ReadFile(c.rtcSavePath); err == nil {
			st := types.StateFromBytes(rtcData)
			if m3, ok := c.mbc.(*MBC3); ok {
				m3.Load(st)
			}
		}
	}
}

// PersistSave writes the cartridge's external RAM (and RTC registers, for
// MBC3 cartridges that carry one) to their sidecar files. A no-op for
// cartridge types without a battery.
func (c *Cartridge) PersistSave() error {
	if !c.Header.Type.HasBattery() {
		return nil
	}
	if err := os.WriteFile(c.savePath, c.mbc.RAM(), 0o644); err != nil {
		return fmt.Errorf("cartridge: write save file: %w", err)
	}
	if c.Header.Type.HasRTC() {
		if m3, ok := c.mbc.(*MBC3); ok {
			st := types.NewState()
			m3.Save(st)
			if err := os.WriteFile(c.rtcSavePath, st.Bytes(), 0o644); err != nil {
				return fmt.Errorf("cartridge: write rtc sidecar: %w", err)
			}
		}
	}
	return nil
}

func (c *Cartridge) ReadROM(addr uint16) uint8    { return c.mbc.ReadROM(addr) }
func (c *Cartridge) WriteROM(addr uint16, v uint8) { c.mbc.WriteROM(addr, v) }
func (c *Cartridge) ReadRAM(addr uint16) uint8    { return c.mbc.ReadRAM(addr) }
func (c *Cartridge) WriteRAM(addr uint16, v uint8) { c.mbc.WriteRAM(addr, v) }
func (c *Cartridge) Tick(cycles int)              { c.mbc.Tick(cycles) }

// RAMSnapshot returns the cartridge's external RAM contents, the same
// bytes PersistSave would write to the .sav sidecar.
func (c *Cartridge) RAMSnapshot() []byte { return c.mbc.RAM() }

var _ types.Stater = (*Cartridge)(nil)

func (c *Cartridge) Save(s *types.State) { c.mbc.Save(s) }
func (c *Cartridge) Load(s *types.State) { c.mbc.Load(s) }
