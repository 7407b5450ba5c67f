package glint

import (
	"image"

	"github.com/db47h/glint/gl"
	"github.com/pkg/errors"
)

// RenderTarget is either the Screen or a Framebuffer.
//
type RenderTarget interface {
	Size() image.Point
	View() *View
	// Bind makes the target the current draw framebuffer and sets the
	// viewport to its view.
	Bind()
}

// FbToGL converts framebuffer pixel coordinates to GL coordinates in range [-1, 1].
//
func FbToGL(fb RenderTarget, p Point) Point {
	sz := fb.Size()
	return Point{
		X: 2.0*float32(p.X)/float32(sz.X) - 1.0,
		Y: -2.0*float32(p.Y)/float32(sz.Y) + 1.0,
	}
}

// GLToFb converts GL coordinates in range [-1, 1] to framebuffer pixel coordinates.
//
func GLToFb(fb RenderTarget, p Point) Point {
	sz := fb.Size()
	return Point{(p.X + 1) * float32(sz.X) / 2.0,
		(1 - p.Y) * float32(sz.Y) / 2.0}
}

// viewport converts a view rectangle, origin at the top left, to a GL
// viewport for a target of height h.
//
func viewport(r image.Rectangle, h int) Rect {
	return Rect{X: r.Min.X, Y: h - r.Max.Y, W: r.Dx(), H: r.Dy()}
}

// A Screen is a RenderTarget implementation for a physical display screen.
//
type Screen struct {
	ctx  *Context
	size image.Point
	v    View
}

// NewScreen returns a new screen of the requested size. The size should be
// updated whenever the size of the associated frame buffer changes.
//
func NewScreen(ctx *Context, sz image.Point) *Screen {
	return &Screen{ctx: ctx, size: sz, v: View{Rect: image.Rectangle{Max: sz}, Scale: 1}}
}

// SetSize sets the Screen size to sz. The view is resized accordingly.
//
func (s *Screen) SetSize(sz image.Point) {
	s.size = sz
	s.v.Rect.Max = s.v.Rect.Min.Add(sz)
}

// Size returns the screen size.
//
func (s *Screen) Size() image.Point {
	return s.size
}

// View returns the fullscreen view for that screen. Client code is
// free to adjust the view Origin and Scale.
//
func (s *Screen) View() *View {
	return &s.v
}

// Bind binds the default framebuffer.
//
func (s *Screen) Bind() {
	s.ctx.BindFramebuffer(nil)
	s.ctx.SetViewport(viewport(s.v.Rect, s.size.Y))
}

// A Framebuffer is an offscreen RenderTarget backed by a texture.
//
type Framebuffer struct {
	resource
	tex *Texture
	v   View
}

// NewFramebuffer creates a framebuffer with a color texture of the given
// size. It returns a *FramebufferError if the device reports the framebuffer
// as incomplete.
//
func NewFramebuffer(ctx *Context, width, height int, params ...TextureParameter) (*Framebuffer, error) {
	tex := NewTexture(ctx, width, height, params...)
	fb := &Framebuffer{
		resource: resource{ctx: ctx, h: ctx.fns.CreateFramebuffer()},
		tex:      tex,
		v:        View{Rect: image.Rect(0, 0, width, height), Scale: 1},
	}
	ctx.BindFramebuffer(fb)
	ctx.fns.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, tex.h, 0)
	if st := ctx.fns.CheckFramebufferStatus(gl.FRAMEBUFFER); st != gl.FRAMEBUFFER_COMPLETE {
		err := &FramebufferError{Status: st}
		ctx.log.Error("framebuffer incomplete", "error", err)
		ctx.BindFramebuffer(nil)
		fb.Dispose()
		return nil, errors.WithStack(err)
	}
	return fb, nil
}

// Texture returns the framebuffer color texture. It is disposed along with
// the framebuffer.
//
func (fb *Framebuffer) Texture() *Texture { return fb.tex }

// Size returns the framebuffer size.
//
func (fb *Framebuffer) Size() image.Point { return fb.tex.Size() }

// View returns the framebuffer view.
//
func (fb *Framebuffer) View() *View { return &fb.v }

// Bind binds the framebuffer and sets the viewport to its view.
//
func (fb *Framebuffer) Bind() {
	fb.ctx.BindFramebuffer(fb)
	fb.ctx.SetViewport(viewport(fb.v.Rect, fb.tex.height))
}

// Unbind binds the default framebuffer if fb is bound.
//
func (fb *Framebuffer) Unbind() {
	fb.ctx.UnbindFramebuffer(fb)
}

// Dispose deletes the framebuffer and its texture.
//
func (fb *Framebuffer) Dispose() {
	if fb.disposed {
		return
	}
	release(fb)
	fb.ctx.fns.DeleteFramebuffer(fb.h)
	fb.tex.Dispose()
}
