// Package display defines the thin presentation contract the core is
// driven through: something that can accept finished framebuffers, and
// something that can report button state changes back. Concrete sinks
// live in the ebiten and web subpackages.
package display

import (
	"image"

	"golang.org/x/image/draw"

	"github.com/thelolagemann/gbcore/internal/joypad"
)

// FrameSink receives a fully rendered frame, already expanded to RGBA by
// the caller from the core's 2-bit-per-pixel indexed buffer.
type FrameSink interface {
	Present(frame *image.RGBA) error
}

// Inputs is a batch of button transitions observed since the previous
// poll.
type Inputs struct {
	Pressed  []joypad.Button
	Released []joypad.Button
}

// InputSource reports button transitions and whether the host asked to
// exit.
type InputSource interface {
	Poll() (Inputs, bool)
}

// DefaultPalette maps the four DMG shade indices (0 = lightest) to RGB. The
// classic four-tone green palette is the default; callers may substitute
// any four-entry table.
var DefaultPalette = [4][3]uint8{
	{0xE0, 0xF8, 0xD0},
	{0x88, 0xC0, 0x70},
	{0x34, 0x68, 0x56},
	{0x08, 0x18, 0x20},
}

// Expand converts the core's indexed 160x144 framebuffer into an RGBA
// image using palette, ready to hand to a FrameSink.
func Expand(frame *[144][160]uint8, palette [4][3]uint8) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 160, 144))
	for y := 0; y < 144; y++ {
		for x := 0; x < 160; x++ {
			c := palette[frame[y][x]&0x03]
			o := img.PixOffset(x, y)
			img.Pix[o+0] = c[0]
			img.Pix[o+1] = c[1]
			img.Pix[o+2] = c[2]
			img.Pix[o+3] = 0xFF
		}
	}
	return img
}

// Scale integer- (or fractionally-) scales src up into a freshly allocated
// RGBA image of width*scale x height*scale, using a Catmull-Rom resampler
// rather than nearest-neighbour, the same scaling path the teacher's own
// pkg/display package uses for its non-pixel-perfect preview canvas.
func Scale(src *image.RGBA, scale int) *image.RGBA {
	if scale <= 0 {
		scale = 1
	}
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}
