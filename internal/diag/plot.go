// Package diag renders debugging charts of core timing, grounded in the
// teacher's pkg/display/fyne/views/performance.go use of gonum.org/v1/plot
// (there, a live frame-time line; here, a static PPU mode-width chart
// exercising the same plotter/vg stack against PPU.Timeline's scanline
// samples instead of frame times).
package diag

import (
	"fmt"
	"image/color"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/thelolagemann/gbcore/internal/ppu"
)

// ScanlineSample is one scanline's dot counts for OAM scan (mode 2), pixel
// generation (mode 3) and HBlank (mode 0) - together they must sum to 456,
// the per-line dot budget spec.md 8's invariant 2 names.
type ScanlineSample struct {
	Line           int
	Mode2, Mode3, Mode0 int
}

// FromPPU converts a PPU's recorded per-line timing into the sample form
// PlotModeTimeline consumes.
func FromPPU(timeline []ppu.LineTiming) []ScanlineSample {
	out := make([]ScanlineSample, len(timeline))
	for i, t := range timeline {
		out[i] = ScanlineSample{Line: t.Line, Mode2: t.Mode2, Mode3: t.Mode3, Mode0: t.Mode0}
	}
	return out
}

// PlotModeTimeline renders a stacked-bar PNG at path showing mode2/mode3/
// mode0 dot widths across a frame's 144 visible scanlines, a visual check
// that every line sums to 456 dots.
func PlotModeTimeline(samples []ScanlineSample, path string) error {
	p := plot.New()
	p.Title.Text = "PPU mode width per scanline"
	p.X.Label.Text = "scanline (LY)"
	p.Y.Label.Text = "dots"

	mode2 := make(plotter.Values, len(samples))
	mode3 := make(plotter.Values, len(samples))
	mode0 := make(plotter.Values, len(samples))
	for i, s := range samples {
		mode2[i] = float64(s.Mode2)
		mode3[i] = float64(s.Mode3)
		mode0[i] = float64(s.Mode0)
	}

	barWidth := vg.Points(2)

	bars2, err := plotter.NewBarChart(mode2, barWidth)
	if err != nil {
		return fmt.Errorf("diag: mode2 bars: %w", err)
	}
	bars2.Color = color.RGBA{R: 0x34, G: 0x68, B: 0x56, A: 0xFF}

	bars3, err := plotter.NewBarChart(mode3, barWidth)
	if err != nil {
		return fmt.Errorf("diag: mode3 bars: %w", err)
	}
	bars3.Color = color.RGBA{R: 0x88, G: 0xC0, B: 0x70, A: 0xFF}
	bars3.StackOn(bars2)

	bars0, err := plotter.NewBarChart(mode0, barWidth)
	if err != nil {
		return fmt.Errorf("diag: mode0 bars: %w", err)
	}
	bars0.Color = color.RGBA{R: 0xE0, G: 0xF8, B: 0xD0, A: 0xFF}
	bars0.StackOn(bars3)

	p.Add(bars2, bars3, bars0)
	p.Legend.Add("mode 2 (OAM scan)", bars2)
	p.Legend.Add("mode 3 (pixel gen)", bars3)
	p.Legend.Add("mode 0 (HBlank)", bars0)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("diag: %w", err)
	}
	defer f.Close()

	wt, err := p.WriterTo(8*vg.Inch, 4*vg.Inch, "png")
	if err != nil {
		return fmt.Errorf("diag: %w", err)
	}
	_, err = wt.WriteTo(f)
	return err
}
