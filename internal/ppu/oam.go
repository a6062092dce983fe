package ppu

// sprite is one decoded OAM entry as used by the mode-2 scanline scan and
// the mode-3 sprite fetcher.
type sprite struct {
	y, x  int
	tile  uint8
	attrs uint8
	index int // original OAM index, for the X-tie insertion rule
}

func (s sprite) priority() bool  { return s.attrs&0x80 != 0 }
func (s sprite) yFlip() bool     { return s.attrs&0x40 != 0 }
func (s sprite) xFlip() bool     { return s.attrs&0x20 != 0 }
func (s sprite) paletteIdx() int {
	if s.attrs&0x10 != 0 {
		return 1
	}
	return 0
}

const maxScanlineSprites = 10

// scanOAM walks the 40 four-byte OAM entries and returns up to 10 visible
// on scanline ly, sorted by ascending X with ties broken by OAM index -
// spec.md 4.4's OAM scan rule. dmaActive models the "DMA blocks all OAM
// reads" invariant: an active DMA yields no sprites at all for the line.
func scanOAM(oam []byte, ly int, spriteHeight int, dmaActive bool) []sprite {
	if dmaActive {
		return nil
	}

	found := make([]sprite, 0, maxScanlineSprites)
	for i := 0; i < 40; i++ {
		base := i * 4
		y := int(oam[base]) - 16
		x := int(oam[base+1]) - 8
		if oam[base+1] == 0 {
			continue
		}
		if ly < y || ly >= y+spriteHeight {
			continue
		}
		if len(found) >= maxScanlineSprites {
			continue
		}
		found = append(found, sprite{
			y:     y,
			x:     x,
			tile:  oam[base+2],
			attrs: oam[base+3],
			index: i,
		})
	}

	// stable insertion sort by ascending X; ties keep OAM-index order,
	// which stable sort preserves since found is already index-ordered.
	for i := 1; i < len(found); i++ {
		for j := i; j > 0 && found[j].x < found[j-1].x; j-- {
			found[j], found[j-1] = found[j-1], found[j]
		}
	}

	return found
}
