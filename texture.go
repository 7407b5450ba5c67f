package glint

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/db47h/glint/gl"
)

// FilterMode selects how to filter textures.
//
type FilterMode int32

// FilterMode values map directly to their OpenGL equivalents.
//
const (
	Nearest              FilterMode = gl.NEAREST
	Linear               FilterMode = gl.LINEAR
	NearestMipmapNearest FilterMode = gl.NEAREST_MIPMAP_NEAREST
	NearestMipmapLinear  FilterMode = gl.NEAREST_MIPMAP_LINEAR
	LinearMipmapNearest  FilterMode = gl.LINEAR_MIPMAP_NEAREST
	LinearMipmapLinear   FilterMode = gl.LINEAR_MIPMAP_LINEAR
)

// WrapMode selects how textures wrap when texture coordinates get outside of
// the range [0, 1].
//
// When used in conjunction with github.com/db47h/glint/batch, the only settings
// that make sense are ClampToEdge (the default) and ClampToBorder.
//
type WrapMode int32

// WrapMode values map directly to their OpenGL equivalents.
//
const (
	Repeat         WrapMode = gl.REPEAT
	MirroredRepeat WrapMode = gl.MIRRORED_REPEAT
	ClampToEdge    WrapMode = gl.CLAMP_TO_EDGE
	ClampToBorder  WrapMode = gl.CLAMP_TO_BORDER
)

// A Texture is a Drawable that represents a 2D RGBA texture.
//
// Pixel rows are stored bottom-up, the GL convention, while every image
// coordinate taken or returned by Texture methods has its origin at the top
// left.
//
type Texture struct {
	resource
	width  int
	height int
	mipmap bool
	dirty  bool
}

type tp struct {
	wrapS, wrapT         WrapMode
	minFilter, magFilter FilterMode
	border               color.Color
}

// TextureParameter is implemented by functions setting texture parameters.
// See NewTexture.
//
type TextureParameter interface {
	set(*tp)
}

type optionFunc func(*tp)

func (f optionFunc) set(p *tp) {
	f(p)
}

// Wrap sets the GL_TEXTURE_WRAP_S and GL_TEXTURE_WRAP_T texture parameters.
//
func Wrap(wrapS, wrapT WrapMode) TextureParameter {
	return optionFunc(func(p *tp) {
		p.wrapS = wrapS
		p.wrapT = wrapT
	})
}

// Filter sets the GL_TEXTURE_MIN_FILTER and GL_TEXTURE_MAG_FILTER texture parameters.
//
func Filter(min, mag FilterMode) TextureParameter {
	return optionFunc(func(p *tp) {
		p.minFilter = min
		p.magFilter = mag
	})
}

// BorderColor sets the GL_TEXTURE_BORDER_COLOR texture parameter.
//
func BorderColor(c color.Color) TextureParameter {
	return optionFunc(func(p *tp) {
		p.border = c
	})
}

// NewTexture returns a new uninitialized texture of the given width and height.
//
func NewTexture(ctx *Context, width, height int, params ...TextureParameter) *Texture {
	return newTexture(ctx, width, height, nil, params...)
}

// NewTextureFromImage creates a new texture of the same dimensions as the
// source image. Regardless of the source image type, the resulting texture is
// always in RGBA format.
//
func NewTextureFromImage(ctx *Context, src image.Image, params ...TextureParameter) *Texture {
	sz := src.Bounds().Size()
	return newTexture(ctx, sz.X, sz.Y, flippedPixels(src, src.Bounds()), params...)
}

// flippedPixels returns the RGBA pixels of src within sr, bottom row first.
//
func flippedPixels(src image.Image, sr image.Rectangle) []byte {
	var (
		sz     = sr.Size()
		stride = sz.X * 4
		pix    = make([]byte, stride*sz.Y)
		rgba   *image.RGBA
	)
	if i, ok := src.(*image.RGBA); ok {
		rgba = i
	} else {
		rgba = image.NewRGBA(image.Rectangle{Max: sz})
		draw.Draw(rgba, rgba.Rect, src, sr.Min, draw.Src)
		sr = rgba.Rect
	}
	for y := 0; y < sz.Y; y++ {
		i := rgba.PixOffset(sr.Min.X, sr.Min.Y+y)
		copy(pix[(sz.Y-1-y)*stride:], rgba.Pix[i:i+stride])
	}
	return pix
}

func newTexture(ctx *Context, width, height int, pix []byte, params ...TextureParameter) *Texture {
	ctx.checkLive("NewTexture")
	t := &Texture{
		resource: resource{ctx: ctx, h: ctx.fns.CreateTexture()},
		width:    width,
		height:   height,
	}
	ctx.BindPixelBuffer(nil)
	ctx.bindTextureForUpdate(t)
	t.setParams(params...)
	ctx.fns.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, width, height, gl.RGBA, gl.UNSIGNED_BYTE, pix)
	if t.dirty && pix != nil {
		ctx.fns.GenerateMipmap(gl.TEXTURE_2D)
		t.dirty = false
	}
	return t
}

// Parameters sets the given texture parameters.
//
func (t *Texture) Parameters(params ...TextureParameter) {
	if len(params) == 0 {
		return
	}
	t.ctx.bindTextureForUpdate(t)
	t.setParams(params...)
}

func (t *Texture) setParams(params ...TextureParameter) {
	var tp tp
	for _, p := range params {
		p.set(&tp)
	}
	f := t.ctx.fns
	if tp.wrapS != 0 {
		f.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, int(tp.wrapS))
	}
	if tp.wrapT != 0 {
		f.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, int(tp.wrapT))
	}
	if tp.minFilter != 0 {
		f.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, int(tp.minFilter))
	}
	if tp.magFilter != 0 {
		f.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, int(tp.magFilter))
	}
	if tp.border != nil {
		c := gl.ColorModel.Convert(tp.border).(gl.Color)
		f.TexParameterfv(gl.TEXTURE_2D, gl.TEXTURE_BORDER_COLOR, []float32{c.R, c.G, c.B, c.A})
	}
	switch tp.minFilter {
	case NearestMipmapNearest, LinearMipmapLinear, LinearMipmapNearest, NearestMipmapLinear:
		t.mipmap = true
		t.dirty = true
	case Nearest, Linear:
		t.mipmap = false
		t.dirty = false
	}
}

// Bind binds the texture to the given unit and regenerates mipmaps if needed.
//
func (t *Texture) Bind(unit int) {
	t.ctx.BindTexture(unit, t)
	if t.dirty {
		t.ctx.activeTexture(unit)
		t.ctx.fns.GenerateMipmap(gl.TEXTURE_2D)
		t.dirty = false
	}
}

// Unbind unbinds the texture from unit if it is bound there.
//
func (t *Texture) Unbind(unit int) {
	t.ctx.UnbindTexture(unit, t)
}

// SetSubImage draws src to the texture. It works identically to draw.Draw with op set to draw.Src.
//
func (t *Texture) SetSubImage(dr image.Rectangle, src image.Image, sp image.Point) {
	t.checkDisposed("SetSubImage")
	sz := dr.Size()
	if sz.X == 0 || sz.Y == 0 {
		return
	}
	pix := flippedPixels(src, image.Rectangle{Min: sp, Max: sp.Add(sz)})
	t.ctx.BindPixelBuffer(nil)
	t.ctx.bindTextureForUpdate(t)
	t.ctx.fns.TexSubImage2D(gl.TEXTURE_2D, 0, dr.Min.X, t.height-dr.Max.Y, sz.X, sz.Y, gl.RGBA, gl.UNSIGNED_BYTE, pix)
	if t.mipmap {
		t.dirty = true
	}
}

// UploadFrom copies RGBA pixels from the pixel buffer pb into the area dr of
// the texture. Rows in pb must be stored bottom-up.
//
func (t *Texture) UploadFrom(pb *Buffer, dr image.Rectangle) {
	t.checkDisposed("UploadFrom")
	sz := dr.Size()
	if sz.X*sz.Y*4 > pb.Size() {
		panicf(ErrOutOfBounds, "upload %v from %d bytes", sz, pb.Size())
	}
	t.ctx.BindPixelBuffer(pb)
	t.ctx.bindTextureForUpdate(t)
	t.ctx.fns.TexSubImage2D(gl.TEXTURE_2D, 0, dr.Min.X, t.height-dr.Max.Y, sz.X, sz.Y, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	t.ctx.BindPixelBuffer(nil)
	if t.mipmap {
		t.dirty = true
	}
}

func (t *Texture) checkDisposed(op string) {
	if t.disposed {
		panicf(ErrDisposed, "%s on texture %d", op, t.h)
	}
}

// GLCoords return the coordinates of the point pt mapped to the range [0, 1].
// The vertical axis is flipped.
//
func (t *Texture) GLCoords(pt image.Point) (glX float32, glY float32) {
	return float32(pt.X) / float32(t.width),
		float32(t.height-pt.Y) / float32(t.height)
}

// Texture returns t.
//
func (t *Texture) Texture() *Texture { return t }

// Origin retruns the point of origin of the texture.
//
func (t *Texture) Origin() image.Point {
	return image.Point{}
}

// Size returns the size of the texture.
//
func (t *Texture) Size() image.Point {
	return image.Point{t.width, t.height}
}

// UV returns the texture coordinates of the bottom left and top right corners.
//
func (t *Texture) UV() [4]float32 {
	return [4]float32{0, 0, 1, 1}
}

// Dispose deletes the texture. It is safe to call Dispose more than once.
//
func (t *Texture) Dispose() {
	if t.disposed {
		return
	}
	release(t)
	t.ctx.fns.DeleteTexture(t.h)
}

// Region returns a region within the texture. bounds are in image
// coordinates, with (0,0) at the top left.
//
func (t *Texture) Region(bounds image.Rectangle, origin image.Point) *Region {
	return &Region{
		tex:    t,
		origin: origin,
		bounds: bounds,
	}
}

// Region is a Drawable that represents a sub-region in a Texture or
// another Region.
//
type Region struct {
	tex    *Texture
	origin image.Point
	bounds image.Rectangle
}

// Texture returns the region's parent texture.
//
func (r *Region) Texture() *Texture {
	return r.tex
}

// Bounds returns the region bounds within the parent texture.
//
func (r *Region) Bounds() image.Rectangle {
	return r.bounds
}

// Origin retruns the point of origin of the region.
//
func (r *Region) Origin() image.Point {
	return r.origin
}

// Size retruns the size of the region.
//
func (r *Region) Size() image.Point {
	return r.bounds.Size()
}

// UV returns the region's texture coordinates of the bottom left and top right
// corners. The source rectangle is flipped into bottom-up texture space:
// a region at y with height h starts at texHeight - (y+h).
//
func (r *Region) UV() [4]float32 {
	w, h := float32(r.tex.width), float32(r.tex.height)
	b := r.bounds
	return [4]float32{
		float32(b.Min.X) / w,
		float32(r.tex.height-(b.Min.Y+b.Dy())) / h,
		float32(b.Max.X) / w,
		float32(r.tex.height-b.Min.Y) / h,
	}
}

// Region returns a sub-region within the Region.
//
func (r *Region) Region(bounds image.Rectangle, origin image.Point) *Region {
	return &Region{
		tex:    r.tex,
		origin: origin,
		bounds: bounds.Add(r.bounds.Min),
	}
}
