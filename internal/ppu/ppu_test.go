package ppu

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/thelolagemann/gbcore/internal/interrupts"
	"github.com/thelolagemann/gbcore/internal/types"
)

// TestDecodeRowPandocsExample reproduces the canonical Pan Docs tile-row
// decode example: 0x3C/0x7E weaves into the shade sequence
// 0,2,3,3,3,3,2,0.
func TestDecodeRowPandocsExample(t *testing.T) {
	require.Equal(t, [8]uint8{0, 2, 3, 3, 3, 3, 2, 0}, decodeRow(0x3C, 0x7E))
}

// TestScanOAMCapsAtTenInOAMOrder checks spec.md 4.4's OAM scan rule: at
// most 10 sprites per line, chosen in ascending OAM-index order (not by X),
// then presented sorted by ascending X with ties keeping index order.
func TestScanOAMCapsAtTenInOAMOrder(t *testing.T) {
	oam := make([]byte, 160)
	for i := 0; i < 12; i++ {
		base := i * 4
		oam[base] = 16               // sprite Y raw 16 -> screen Y 0, visible on line 0
		oam[base+1] = uint8(100 - i) // descending raw X so sort order differs from OAM order
		oam[base+2] = uint8(i)       // tile index, just to distinguish entries
		oam[base+3] = 0
	}

	found := scanOAM(oam, 0, 8, false)
	require.Len(t, found, maxScanlineSprites, "only the first 10 OAM entries on the line are kept")

	for i, sp := range found {
		require.Equal(t, int(9-i), sp.index, "entries keep OAM index 0..9, sorted ascending by X")
		if i > 0 {
			require.GreaterOrEqual(t, sp.x, found[i-1].x)
		}
	}
}

// TestScanOAMBlockedDuringDMA checks that an active OAM DMA transfer hides
// every sprite from the scan, per spec.md 4.2/4.4's conflict model.
func TestScanOAMBlockedDuringDMA(t *testing.T) {
	oam := make([]byte, 160)
	oam[0], oam[1] = 16, 50
	require.Nil(t, scanOAM(oam, 0, 8, true))
}

// TestScenarioS6STATRisingEdgeOncePerFrame reproduces spec.md 8 scenario
// S6: with STAT's LYC=LY source enabled and LYC=0x50, running a full frame
// raises the LCD-STAT interrupt on exactly one rising edge.
func TestScenarioS6STATRisingEdgeOncePerFrame(t *testing.T) {
	irq := interrupts.NewController()
	c := New(irq, func() bool { return false })

	c.Write(types.LYC, 0x50)
	c.Write(types.STAT, 0x40)
	irq.Clear(interrupts.LCDStat)

	edges := 0
	for dot := 0; dot < dotsPerLine*linesPerFrame; dot++ {
		c.Tick(1)
		if irq.Flag&(1<<interrupts.LCDStat) != 0 {
			edges++
			irq.Clear(interrupts.LCDStat)
		}
	}

	require.Equal(t, 1, edges, "LY==LYC must produce exactly one rising edge per frame")
}
