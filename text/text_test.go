package text_test

import (
	"testing"

	"github.com/db47h/glint"
	"github.com/db47h/glint/gl"
	"github.com/db47h/glint/gl/gltest"
	"github.com/db47h/glint/text"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/basicfont"
)

type draw struct {
	d    glint.Drawable
	x, y float32
}

type recorder []draw

func (r *recorder) Draw(d glint.Drawable, x, y, scaleX, scaleY, rot float32, c gl.Color) {
	*r = append(*r, draw{d, x, y})
}

func newDrawer(t *testing.T) (*text.Drawer, *gltest.Functions) {
	t.Helper()
	f := gltest.New()
	ctx, err := glint.NewDevice(nil).NewContext(f)
	require.NoError(t, err)
	t.Cleanup(ctx.Release)
	return text.NewDrawer(ctx, basicfont.Face7x13, glint.Linear), f
}

func TestDrawString(t *testing.T) {
	d, f := newDrawer(t)
	var r recorder
	adv := d.DrawString(&r, 10, 20, "abca", gl.White)

	assert.Equal(t, float32(28), adv)
	require.Len(t, r, 4)
	for i, dr := range r {
		assert.Equal(t, float32(10+7*i), dr.x)
		assert.Equal(t, float32(20), dr.y)
	}
	// same rune at the same sub-pixel offset reuses the cached glyph
	assert.Same(t, r[0].d, r[3].d)
	assert.NotSame(t, r[0].d, r[1].d)
	require.Len(t, d.Textures(), 1)
	assert.Equal(t, 3, f.Count("TexSubImage2D"))

	reg := r[1].d.(*glint.Region)
	assert.Equal(t, d.Textures()[0], reg.Texture())
	assert.Equal(t, 6, reg.Size().X) // glyph width, not advance
	assert.Equal(t, 13, reg.Size().Y)
	assert.False(t, reg.Bounds().Overlaps(r[0].d.(*glint.Region).Bounds()))
}

func TestDrawBytesMatchesString(t *testing.T) {
	d, _ := newDrawer(t)
	var rs, rb recorder
	as := d.DrawString(&rs, 0, 13, "héllo", gl.White)
	ab := d.DrawBytes(&rb, 0, 13, []byte("héllo"), gl.White)
	assert.Equal(t, as, ab)
	assert.Equal(t, rs, rb)
	assert.Equal(t, d.MeasureString("héllo"), d.MeasureBytes([]byte("héllo")))
}

func TestClose(t *testing.T) {
	d, f := newDrawer(t)
	var r recorder
	d.DrawString(&r, 0, 0, "x", gl.White)
	tex := d.Textures()[0]
	require.NoError(t, d.Close())
	assert.True(t, tex.Disposed())
	assert.Equal(t, 1, f.Count("DeleteTexture"))
}
