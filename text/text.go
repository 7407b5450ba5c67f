// Package text draws text with a sprite batch, rasterizing glyphs into
// texture atlases on demand.
package text

import (
	"image"
	"unicode/utf8"

	"github.com/db47h/glint"
	"github.com/db47h/glint/gl"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

const (
	// see subPixels() in github.com/golang/freetype/truetype/face.go
	SubPixelsX    = 8
	subPixelBiasX = 4
	subPixelMaskX = -8
	SubPixelsY    = 8
	subPixelBiasY = 4
	subPixelMaskY = -8
)

// DefaultTextureSize is the default size of glyph atlas textures. It is
// capped by the context's maximum texture size.
//
const DefaultTextureSize = 1024

// Batch is implemented by batch.Sprite.
//
type Batch interface {
	Draw(d glint.Drawable, x, y, scaleX, scaleY, rot float32, c gl.Color)
}

// A Drawer draws text in a given font face. Glyphs are cached per rune and
// sub-pixel offset.
//
type Drawer struct {
	ctx    *glint.Context
	face   font.Face
	glyphs []*glint.Region
	cache  map[cacheKey]cacheValue
	ts     []*glint.Texture // atlases, the last one is current
	p      image.Point      // current point
	lh     int              // line height in current texture
	mf     glint.FilterMode
	tsize  int
}

type cacheKey struct {
	r  rune
	fx uint8
	fy uint8
}

type cacheValue struct {
	index int // glyph index
	adv   fixed.Int26_6
}

// Hinting selects how to quantize a vector font's glyph nodes.
//
// Not all fonts support hinting.
//
// This is a convenience duplicate of golang.org/x/image/font#Hinting
//
type Hinting int

const (
	HintingNone     Hinting = Hinting(font.HintingNone)
	HintingVertical         = Hinting(font.HintingVertical)
	HintingFull             = Hinting(font.HintingFull)
)

// NewDrawer returns a Drawer for face f. Atlas textures are created on ctx
// with the given magnification filter.
//
func NewDrawer(ctx *glint.Context, f font.Face, magFilter glint.FilterMode) *Drawer {
	ts := DefaultTextureSize
	if m := ctx.Caps().MaxTextureSize; m > 0 && m < ts {
		ts = m
	}
	return &Drawer{
		ctx:   ctx,
		face:  f,
		cache: make(map[cacheKey]cacheValue),
		mf:    magFilter,
		tsize: ts,
	}
}

func (d *Drawer) Face() font.Face {
	return d.face
}

// Textures returns the atlas textures created so far.
//
func (d *Drawer) Textures() []*glint.Texture {
	return d.ts
}

// DrawBytes draws s with its baseline starting at (x, y) and returns the
// advance.
//
func (d *Drawer) DrawBytes(b Batch, x, y float32, s []byte, c gl.Color) (advance float32) {
	dot := fixed.Point26_6{X: fixed.Int26_6(x * 64), Y: fixed.Int26_6(y * 64)}
	sp := dot.X
	prev := rune(-1)
	for len(s) > 0 {
		r, sz := utf8.DecodeRune(s)
		s = s[sz:]
		if prev >= 0 {
			dot.X += d.face.Kern(prev, r)
		}
		dp, glyph, advance := d.Glyph(dot, r)
		if glyph != nil {
			b.Draw(glyph, float32(dp.X), float32(dp.Y), 1, 1, 0, c)
		}
		dot.X += advance
		prev = r
	}
	return float32(dot.X-sp) / 64
}

// DrawString draws s with its baseline starting at (x, y) and returns the
// advance.
//
func (d *Drawer) DrawString(b Batch, x, y float32, s string, c gl.Color) (advance float32) {
	dot := fixed.Point26_6{X: fixed.Int26_6(x * 64), Y: fixed.Int26_6(y * 64)}
	sp := dot.X
	prev := rune(-1)
	for _, r := range s {
		if prev >= 0 {
			dot.X += d.face.Kern(prev, r)
		}
		dp, glyph, advance := d.Glyph(dot, r)
		if glyph != nil {
			b.Draw(glyph, float32(dp.X), float32(dp.Y), 1, 1, 0, c)
		}
		dot.X += advance
		prev = r
	}
	return float32(dot.X-sp) / 64
}

func (d *Drawer) currentTexture() *glint.Texture {
	l := len(d.ts)
	if l == 0 {
		return nil
	}
	return d.ts[l-1]
}

// Glyph returns the region for rune r drawn at dot, the point where to draw it
// and the advance. The region is nil for empty or missing glyphs.
//
func (d *Drawer) Glyph(dot fixed.Point26_6, r rune) (dp image.Point, gr *glint.Region, advance fixed.Int26_6) {
	dx, dy := (dot.X+subPixelBiasX)&subPixelMaskX, (dot.Y+subPixelBiasY)&subPixelMaskY
	ix, iy := int(dx>>6), int(dy>>6)

	key := cacheKey{r, uint8(dx & 0x3f), uint8(dy & 0x3f)}
	if v, ok := d.cache[key]; ok {
		if idx := v.index; idx >= 0 {
			return image.Point{X: ix, Y: iy}, d.glyphs[idx], v.adv
		}
		return image.Point{}, nil, v.adv
	}

	dr, mask, maskp, advance, ok := d.face.Glyph(fixed.Point26_6{X: dot.X & 0x3f, Y: dot.Y & 0x3f}, r)
	if !ok {
		return image.Point{}, nil, 0
	}
	sz := dr.Size()
	if sz.X == 0 || sz.Y == 0 {
		// empty glyph
		d.cache[key] = cacheValue{-1, advance}
		return image.Point{}, nil, advance
	}
	// adjust point of origin to account for rounding when quantizing subPixels
	org := image.Pt(-dr.Min.X+(ix-dot.X.Floor()), -dr.Min.Y+(iy-dot.Y.Floor()))
	tr := dr.Add(image.Pt(-dr.Min.X+d.p.X, -dr.Min.Y+d.p.Y))
	t := d.currentTexture()
	if t != nil {
		if tr.Max.X > d.tsize {
			d.p = image.Pt(0, d.p.Y+d.lh)
			tr = tr.Add(image.Pt(-tr.Min.X, d.lh))
		}
		if tr.Max.Y > d.tsize {
			t = nil
		}
	}
	if t == nil {
		t = glint.NewTexture(d.ctx, d.tsize, d.tsize,
			glint.Wrap(glint.ClampToBorder, glint.ClampToBorder),
			glint.Filter(glint.LinearMipmapLinear, d.mf))
		d.ts = append(d.ts, t)
		d.p = image.Point{}
		tr = dr.Add(image.Pt(-dr.Min.X, -dr.Min.Y))
		d.lh = 0
	}
	t.SetSubImage(tr, mask, maskp)
	d.p.X += tr.Dx() + 1
	if h := tr.Dy() + 1; h > d.lh {
		d.lh = h
	}
	index := len(d.glyphs)
	d.glyphs = append(d.glyphs, t.Region(tr, org))
	d.cache[key] = cacheValue{index, advance}
	return image.Point{X: ix, Y: iy}, d.glyphs[index], advance
}

// Close disposes of the atlas textures and closes the font face.
//
func (d *Drawer) Close() error {
	for _, t := range d.ts {
		t.Dispose()
	}
	d.ts = nil
	return d.face.Close()
}

// BoundBytes returns the bounding box of s with f, drawn at a dot equal to the origin, as well as the advance.
//
// It is equivalent to BoundString(string(s)) but may be more efficient.
//
func (d *Drawer) BoundBytes(s []byte) (bounds fixed.Rectangle26_6, advance fixed.Int26_6) {
	return font.BoundBytes(d.face, s)
}

// BoundString returns the bounding box of s with f, drawn at a dot equal to the origin, as well as the advance.
//
func (d *Drawer) BoundString(s string) (bounds fixed.Rectangle26_6, advance fixed.Int26_6) {
	return font.BoundString(d.face, s)
}

// MeasureBytes returns how far dot would advance by drawing s.
//
func (d *Drawer) MeasureBytes(s []byte) (advance fixed.Int26_6) {
	return font.MeasureBytes(d.face, s)
}

// MeasureString returns how far dot would advance by drawing s.
//
func (d *Drawer) MeasureString(s string) (advance fixed.Int26_6) {
	return font.MeasureString(d.face, s)
}
