package glint_test

import (
	"image"
	"image/color"
	"testing"

	"github.com/db47h/glint"
	"github.com/db47h/glint/gl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegionUV(t *testing.T) {
	ctx, _ := newContext(t)
	tex := glint.NewTexture(ctx, 64, 32)
	assert.Equal(t, [4]float32{0, 0, 1, 1}, tex.UV())

	r := tex.Region(image.Rect(16, 0, 32, 8), image.Pt(8, 4))
	// y=0, h=8 in a 32 pixel high texture starts at 32-(0+8) = 24 bottom-up
	assert.Equal(t, [4]float32{0.25, 0.75, 0.5, 1}, r.UV())
	assert.Equal(t, image.Pt(16, 8), r.Size())
	assert.Equal(t, image.Pt(8, 4), r.Origin())
	assert.Same(t, tex, r.Texture())

	sub := r.Region(image.Rect(0, 4, 8, 8), image.Point{})
	assert.Equal(t, image.Rect(16, 4, 24, 8), sub.Bounds())
	assert.Equal(t, [4]float32{0.25, 0.75, 0.375, 0.875}, sub.UV())
}

func TestTextureFromImageFlipsRows(t *testing.T) {
	ctx, f := newContext(t)
	img := image.NewNRGBA(image.Rect(0, 0, 1, 2))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	img.Set(0, 1, color.NRGBA{B: 255, A: 255})

	tex := glint.NewTextureFromImage(ctx, img)
	ft := f.Textures[tex.Handle()]
	require.NotNil(t, ft)
	assert.Equal(t, 1, ft.Width)
	assert.Equal(t, 2, ft.Height)
	assert.Equal(t, []byte{0, 0, 255, 255, 255, 0, 0, 255}, ft.Pixels, "bottom row first")
}

func TestTextureSetSubImage(t *testing.T) {
	ctx, f := newContext(t)
	tex := glint.NewTexture(ctx, 4, 4)
	src := image.NewRGBA(image.Rect(0, 0, 2, 1))
	src.Set(0, 0, color.RGBA{R: 1, A: 255})
	src.Set(1, 0, color.RGBA{R: 2, A: 255})
	f.Reset()

	tex.SetSubImage(image.Rect(1, 0, 3, 1), src, image.Point{})
	c := f.Named("TexSubImage2D")
	require.Len(t, c, 1)
	// top row of the image is the last row of the texture
	assert.Equal(t, []any{gl.Enum(gl.TEXTURE_2D), 0, 1, 3, 2, 1}, c[0].Args)
	px := f.Textures[tex.Handle()].Pixels
	assert.Equal(t, []byte{1, 0, 0, 255, 2, 0, 0, 255}, px[(3*4+1)*4:(3*4+3)*4])
}

func TestTextureParameters(t *testing.T) {
	ctx, f := newContext(t)
	tex := glint.NewTexture(ctx, 4, 4,
		glint.Wrap(glint.ClampToBorder, glint.Repeat),
		glint.Filter(glint.LinearMipmapLinear, glint.Nearest),
		glint.BorderColor(color.White))
	p := f.Textures[tex.Handle()].Params
	assert.Equal(t, gl.CLAMP_TO_BORDER, p[gl.TEXTURE_WRAP_S])
	assert.Equal(t, gl.REPEAT, p[gl.TEXTURE_WRAP_T])
	assert.Equal(t, gl.LINEAR_MIPMAP_LINEAR, p[gl.TEXTURE_MIN_FILTER])
	assert.Equal(t, gl.NEAREST, p[gl.TEXTURE_MAG_FILTER])
	assert.Equal(t, []float32{1, 1, 1, 1}, f.Named("TexParameterfv")[0].Args[2])

	// no pixels uploaded yet, mipmaps are generated on first bind
	assert.Zero(t, f.Count("GenerateMipmap"))
	tex.Bind(2)
	tex.Bind(2)
	assert.Equal(t, 1, f.Count("GenerateMipmap"))
}

func TestTextureUploadFromPixelBuffer(t *testing.T) {
	ctx, f := newContext(t)
	tex := glint.NewTexture(ctx, 4, 4)
	pb := glint.NewBuffer(ctx, glint.PixelBuffer, make([]byte, 2*2*4), glint.Immutable())
	f.Reset()

	tex.UploadFrom(pb, image.Rect(0, 0, 2, 2))
	assert.Equal(t, []any{gl.Enum(gl.TEXTURE_2D), 0, 0, 2, 2, 2}, f.Named("TexSubImage2D")[0].Args)
	assert.Zero(t, ctx.Bound().PixelBuffer, "pixel buffer is unbound after upload")
	requirePanicCause(t, glint.ErrOutOfBounds, func() { tex.UploadFrom(pb, image.Rect(0, 0, 4, 4)) })
}

func TestClientUploadUnbindsPixelBuffer(t *testing.T) {
	ctx, f := newContext(t)
	pb := glint.NewBuffer(ctx, glint.PixelBuffer, make([]byte, 16))
	require.Equal(t, pb.Handle(), ctx.Bound().PixelBuffer)

	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 7, A: 255})
	tex := glint.NewTextureFromImage(ctx, img)
	assert.Zero(t, ctx.Bound().PixelBuffer)
	assert.Equal(t, []byte{7, 0, 0, 255}, f.Textures[tex.Handle()].Pixels[8:12])

	glint.SubData(pb, []byte{1, 2, 3, 4}, 0, 4)
	require.Equal(t, pb.Handle(), ctx.Bound().PixelBuffer)
	tex.SetSubImage(image.Rect(1, 1, 2, 2), img, image.Point{})
	assert.Zero(t, ctx.Bound().PixelBuffer)
	assert.Equal(t, []byte{7, 0, 0, 255}, f.Textures[tex.Handle()].Pixels[4:8])
}
