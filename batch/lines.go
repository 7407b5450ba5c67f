package batch

import (
	"image"

	"github.com/db47h/glint"
	"github.com/db47h/glint/gl"
)

const verticesPerLine = 2

var whitePixel = &image.NRGBA{Pix: []uint8{0xff, 0xff, 0xff, 0xff}, Stride: 4, Rect: image.Rect(0, 0, 1, 1)}

// Lines draws colored line segments as non-indexed GL_LINES. It samples a
// 1x1 white texture so that it can share the sprite shaders.
//
type Lines struct {
	shared
	st    *Stage[Vertex, uint16]
	white *glint.Texture
}

// NewLines returns a new line batch.
//
func NewLines(ctx *glint.Context, opts ...Option) (*Lines, error) {
	cfg := newConfig(opts)
	l := new(Lines)
	if err := l.init(ctx, cfg.program); err != nil {
		return nil, err
	}
	l.st = NewStage[Vertex, uint16](ctx, &vertexLayout, gl.LINES,
		cfg.initial*verticesPerLine, cfg.max*verticesPerLine, 0)
	l.white = glint.NewTextureFromImage(ctx, whitePixel)
	return l, nil
}

// Begin starts a batch. It panics if the batch is already active.
//
func (l *Lines) Begin() { l.begin() }

// Active returns true between Begin and End.
//
func (l *Lines) Active() bool { return l.active }

// End flushes the batch and deactivates it. It panics if the batch is not
// active.
//
func (l *Lines) End() {
	l.checkActive()
	l.Flush()
	l.active = false
}

// SetProjection sets the projection matrix. Staged lines are flushed first.
//
func (l *Lines) SetProjection(m glint.Mat4) {
	l.Flush()
	l.proj = m
	l.projFor = nil
}

// SetProgram sets the shader program. A nil program restores the default one.
//
func (l *Lines) SetProgram(p *glint.Program) {
	if p == nil {
		p = l.def
	}
	if p == l.program {
		return
	}
	l.Flush()
	l.program = p
}

// Line stages a line segment from (x0, y0) to (x1, y1).
//
func (l *Lines) Line(x0, y0, x1, y1 float32, c gl.Color) {
	l.checkActive()
	if !l.st.Fits(verticesPerLine, 0) {
		l.Flush()
	}
	l.st.Push([]Vertex{
		{x0, y0, .5, .5, c.R, c.G, c.B, c.A},
		{x1, y1, .5, .5, c.R, c.G, c.B, c.A},
	}, nil)
}

// Rect stages the outline of the rectangle with top left corner (x, y).
//
func (l *Lines) Rect(x, y, w, h float32, c gl.Color) {
	l.Line(x, y, x+w, y, c)
	l.Line(x+w, y, x+w, y+h, c)
	l.Line(x+w, y+h, x, y+h, c)
	l.Line(x, y+h, x, y, c)
}

// Flush draws the staged lines.
//
func (l *Lines) Flush() {
	if l.st.Len() == 0 {
		return
	}
	if l.program == nil {
		panic(ErrNoProgram)
	}
	l.setUniforms()
	l.st.Flush(l.program, l.white)
}

// Stats returns the batch counters.
//
func (l *Lines) Stats() Stats { return l.st.Stats }

// Dispose releases the batch GPU resources.
//
func (l *Lines) Dispose() {
	l.st.Dispose()
	l.white.Dispose()
	l.dispose()
}
