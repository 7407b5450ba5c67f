package debug_test

import (
	"bytes"
	"encoding/binary"
	"image"
	"testing"
	"time"

	"github.com/db47h/glint"
	"github.com/db47h/glint/batch"
	"github.com/db47h/glint/debug"
	"github.com/db47h/glint/gl/gltest"
	"github.com/db47h/glint/text"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/basicfont"
)

func TestTimer(t *testing.T) {
	var tm debug.Timer
	assert.Zero(t, tm.Average())
	assert.Zero(t, tm.AveragePerSecond())

	tm.Add(10 * time.Millisecond)
	tm.Add(30 * time.Millisecond)
	assert.Equal(t, 20*time.Millisecond, tm.Average())
	assert.InDelta(t, 50, tm.AveragePerSecond(), 1e-9)

	for i := 0; i < 64; i++ {
		tm.Add(time.Second / 100)
	}
	assert.Equal(t, time.Second/100, tm.Average())
}

func quad(t *testing.T, d gltest.Draw) []batch.Vertex {
	t.Helper()
	vs := make([]batch.Vertex, 4)
	require.NoError(t, binary.Read(bytes.NewReader(d.Vertices[:4*32]), binary.LittleEndian, vs))
	return vs
}

func TestInfoBox(t *testing.T) {
	f := gltest.New()
	ctx, err := glint.NewDevice(nil).NewContext(f)
	require.NoError(t, err)
	t.Cleanup(ctx.Release)

	b, err := batch.NewSprite(ctx)
	require.NoError(t, err)
	defer b.Dispose()
	td := text.NewDrawer(ctx, basicfont.Face7x13, glint.Nearest)
	defer td.Close()
	o := debug.NewOverlay(ctx, td)
	defer o.Dispose()

	v := &glint.View{Rect: image.Rect(0, 0, 200, 100), Scale: 1}
	for _, tc := range []struct {
		c    debug.Corner
		x, y float32 // expected position of the corner vertex
		vtx  int
	}{
		{debug.TopLeft, 0, 0, 0},
		{debug.TopRight, 200, 0, 1},
		{debug.BottomLeft, 0, 100, 2},
		{debug.BottomRight, 200, 100, 3},
	} {
		f.Reset()
		b.Begin()
		o.InfoBox(b, v, tc.c, "hi")
		b.End()

		// background then glyphs
		require.Len(t, f.Draws, 2)
		vs := quad(t, f.Draws[0])
		assert.Equal(t, tc.x, vs[tc.vtx].X, "corner %d", tc.c)
		assert.Equal(t, tc.y, vs[tc.vtx].Y, "corner %d", tc.c)
		assert.Equal(t, 12, f.Draws[1].Count)
	}
}

func TestStatsLine(t *testing.T) {
	var tm debug.Timer
	tm.Add(time.Second / 50)
	s := debug.StatsLine(&tm, batch.Stats{DrawCalls: 3, Vertices: 120, Flushes: 3})
	assert.Equal(t, "50.0 fps, 3 draw calls, 120 vertices, 3 flushes", s)
}
