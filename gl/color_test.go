package gl_test

import (
	"image/color"
	"testing"

	"github.com/db47h/glint/gl"
	"github.com/stretchr/testify/assert"
)

func TestColorModel(t *testing.T) {
	c := gl.ColorModel.Convert(color.NRGBA{R: 255, A: 255}).(gl.Color)
	assert.Equal(t, gl.Color{R: 1, A: 1}, c)

	// premultiplied
	c = gl.ColorModel.Convert(color.NRGBA{R: 255, A: 0}).(gl.Color)
	assert.Equal(t, gl.Transparent, c)

	assert.Equal(t, gl.White, gl.ColorModel.Convert(gl.White))
}

func TestColorRGBA8(t *testing.T) {
	assert.Equal(t, uint32(0xff0000ff), gl.Color{R: 1, A: 1}.RGBA8())
	assert.Equal(t, uint32(0xffffffff), gl.White.RGBA8())
	assert.Equal(t, uint32(0), gl.Transparent.RGBA8())
}
