// Package ebiten is a window/input driver backed by
// github.com/hajimehoshi/ebiten/v2, grounded in the teacher's pixelgl-based
// display package (pkg/display/display.go in the teacher) but rebuilt
// against ebiten's Game interface instead of faiface/pixel's window loop.
package ebiten

import (
	"fmt"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/thelolagemann/gbcore/internal/joypad"
	"github.com/thelolagemann/gbcore/pkg/display"
)

// Window is an ebiten.Game implementing both display.FrameSink and
// display.InputSource.
type Window struct {
	Title string
	Scale int

	frame   *ebiten.Image
	pending *image.RGBA
	closed  bool

	pressed, released []joypad.Button
}

var keyMap = map[ebiten.Key]joypad.Button{
	ebiten.KeyZ:         joypad.ButtonA,
	ebiten.KeyX:         joypad.ButtonB,
	ebiten.KeyEnter:     joypad.ButtonStart,
	ebiten.KeyBackspace: joypad.ButtonSelect,
	ebiten.KeyRight:     joypad.ButtonRight,
	ebiten.KeyLeft:      joypad.ButtonLeft,
	ebiten.KeyUp:        joypad.ButtonUp,
	ebiten.KeyDown:      joypad.ButtonDown,
}

// New constructs a Window and opens it. Run must be called (on the main
// goroutine, ebiten's requirement) to actually pump the event loop.
func New(title string, scale int) *Window {
	if scale <= 0 {
		scale = 3
	}
	w := &Window{Title: title, Scale: scale, frame: ebiten.NewImage(160, 144)}
	ebiten.SetWindowSize(160*scale, 144*scale)
	ebiten.SetWindowTitle(fmt.Sprintf("gbcore | %s", title))
	return w
}

// Run hands control to ebiten's run loop until the window closes.
func (w *Window) Run() error {
	return ebiten.RunGame(w)
}

// Present satisfies display.FrameSink; it is safe to call from outside
// ebiten's own goroutine since it only stores the pending frame.
func (w *Window) Present(frame *image.RGBA) error {
	w.pending = frame
	return nil
}

func (w *Window) Update() error {
	w.pressed = w.pressed[:0]
	w.released = w.released[:0]
	for key, button := range keyMap {
		if inpututil.IsKeyJustPressed(key) {
			w.pressed = append(w.pressed, button)
		}
		if inpututil.IsKeyJustReleased(key) {
			w.released = append(w.released, button)
		}
	}
	if ebiten.IsWindowBeingClosed() {
		w.closed = true
	}
	return nil
}

func (w *Window) Draw(screen *ebiten.Image) {
	if w.pending != nil {
		w.frame.WritePixels(w.pending.Pix)
	}
	op := &ebiten.DrawImageOptions{}
	sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()
	op.GeoM.Scale(float64(sw)/160, float64(sh)/144)
	screen.DrawImage(w.frame, op)
	if w.pending == nil {
		ebitenutil.DebugPrint(screen, "waiting for frame...")
	}
}

func (w *Window) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

// Poll satisfies display.InputSource.
func (w *Window) Poll() (display.Inputs, bool) {
	return display.Inputs{Pressed: w.pressed, Released: w.released}, w.closed
}
