// Package debug provides a frame timer and an on-screen info box.
package debug

import (
	"fmt"
	"image"
	"time"

	"github.com/db47h/glint"
	"github.com/db47h/glint/batch"
	"github.com/db47h/glint/gl"
	"github.com/db47h/glint/text"
)

const samples = 32

// Timer keeps a moving average of the last 32 frame times.
//
type Timer struct {
	times [samples]time.Duration
	index int
	n     int
}

func (t *Timer) Add(dt time.Duration) {
	t.times[t.index] = dt
	t.index = (t.index + 1) & (samples - 1)
	if t.n < samples {
		t.n++
	}
}

// Average returns the average of the recorded samples, or 0 if there are
// none.
//
func (t *Timer) Average() time.Duration {
	if t.n == 0 {
		return 0
	}
	var avg time.Duration
	for _, dt := range t.times[:t.n] {
		avg += dt
	}
	return avg / time.Duration(t.n)
}

func (t *Timer) AveragePerSecond() float64 {
	avg := t.Average()
	if avg == 0 {
		return 0
	}
	return float64(time.Second) / float64(avg)
}

// Corner selects where an info box is anchored in its view.
//
type Corner int

const (
	TopLeft Corner = iota
	TopRight
	BottomLeft
	BottomRight
)

var whitePixel = &image.NRGBA{Pix: []uint8{0xff, 0xff, 0xff, 0xff}, Stride: 4, Rect: image.Rect(0, 0, 1, 1)}

// Overlay draws text boxes on top of a view.
//
type Overlay struct {
	Background gl.Color
	Foreground gl.Color

	td    *text.Drawer
	white *glint.Texture
}

func NewOverlay(ctx *glint.Context, td *text.Drawer) *Overlay {
	return &Overlay{
		Background: gl.Color{A: .75},
		Foreground: gl.White,
		td:         td,
		white:      glint.NewTextureFromImage(ctx, whitePixel),
	}
}

// InfoBox draws s in a box anchored at corner c of v, in view pixel units.
// b must be active. InfoBox changes the projection of b; callers drawing in
// world space afterwards must set it back.
//
func (o *Overlay) InfoBox(b *batch.Sprite, v *glint.View, c Corner, s string) {
	bounds, _ := o.td.BoundString(s)
	minX, minY := bounds.Min.X.Floor(), bounds.Min.Y.Floor()
	w := bounds.Max.X.Ceil() - minX + 2
	h := bounds.Max.Y.Ceil() - minY + 2
	vs := v.Size()

	var x, y int
	switch c {
	case TopRight:
		x = vs.X - w
	case BottomLeft:
		y = vs.Y - h
	case BottomRight:
		x, y = vs.X-w, vs.Y-h
	}

	b.SetProjection(glint.Ortho(float32(vs.X), float32(vs.Y)))
	b.Draw(o.white, float32(x), float32(y), float32(w), float32(h), 0, o.Background)
	o.td.DrawString(b, float32(x+1-minX), float32(y+1-minY), s, o.Foreground)
}

func (o *Overlay) Dispose() {
	o.white.Dispose()
}

// StatsLine formats a one line summary of the frame rate and batch
// statistics.
//
func StatsLine(t *Timer, st batch.Stats) string {
	return fmt.Sprintf("%.1f fps, %d draw calls, %d vertices, %d flushes", t.AveragePerSecond(), st.DrawCalls, st.Vertices, st.Flushes)
}
