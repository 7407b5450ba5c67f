package gl

import "image/color"

// Color implements color.Color. It stores alpha premultiplied color components in
// the range [0, 1],
//
type Color struct {
	R, G, B, A float32
}

// RGBA implements color.Color.
//
func (c Color) RGBA() (r, g, b, a uint32) {
	return uint32(c.R*0xffff) & 0xffff, uint32(c.G*0xffff) & 0xffff, uint32(c.B*0xffff) & 0xffff, uint32(c.A*0xffff) & 0xffff
}

// RGBA8 returns c packed as little endian 8 bit RGBA.
//
func (c Color) RGBA8() uint32 {
	r, g, b, a := c.RGBA()
	return r>>8 | (g>>8)<<8 | (b>>8)<<16 | (a>>8)<<24
}

// ColorModel converts any color.Color to a Color; i.e. the result can safely be
// casted to a Color.
//
var ColorModel = color.ModelFunc(colorModel)

func colorModel(c color.Color) color.Color {
	if _, ok := c.(Color); ok {
		return c
	}
	r, g, b, a := c.RGBA()
	return Color{R: float32(r) / 0xffff, G: float32(g) / 0xffff, B: float32(b) / 0xffff, A: float32(a) / 0xffff}
}

// Some common colors.
//
var (
	Transparent = Color{}
	Black       = Color{0, 0, 0, 1}
	White       = Color{1, 1, 1, 1}
)
