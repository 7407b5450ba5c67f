package batch

import (
	"image"
	"math"

	"github.com/db47h/glint"
	"github.com/db47h/glint/gl"
)

const (
	verticesPerQuad = 4
	indicesPerQuad  = 6

	// DefaultMaxQuads is the default maximum number of quads per draw call.
	DefaultMaxQuads = 10000
	// DefaultInitialQuads is the default initial capacity in quads.
	DefaultInitialQuads = 128
)

// Vertex is the vertex format used by the sprite and line batches.
//
type Vertex struct {
	X, Y       float32
	U, V       float32
	R, G, B, A float32
}

var vertexLayout = glint.VertexLayout{
	Stride: 32,
	Attribs: []glint.VertexAttrib{
		{Location: PositionLocation, Size: 2, Type: gl.FLOAT, Offset: 0},
		{Location: UVLocation, Size: 2, Type: gl.FLOAT, Offset: 8},
		{Location: ColorLocation, Size: 4, Type: gl.FLOAT, Offset: 16},
	},
}

var quadIndices = [indicesPerQuad]uint16{0, 1, 2, 2, 1, 3}

type config struct {
	max     int
	initial int
	program *glint.Program
}

// Option configures a batch.
//
type Option interface {
	set(*config)
}

type optionFunc func(*config)

func (f optionFunc) set(c *config) { f(c) }

// MaxPrimitives sets the maximum number of primitives (quads or lines) per
// draw call. The effective maximum is further limited by the width of the
// index type.
//
func MaxPrimitives(n int) Option {
	return optionFunc(func(c *config) {
		c.max = n
	})
}

// InitialCapacity sets the initial staging capacity in primitives.
//
func InitialCapacity(n int) Option {
	return optionFunc(func(c *config) {
		c.initial = n
	})
}

// Program sets the initial shader program instead of the default one.
//
func Program(p *glint.Program) Option {
	return optionFunc(func(c *config) {
		c.program = p
	})
}

func newConfig(opts []Option) config {
	cfg := config{max: DefaultMaxQuads, initial: DefaultInitialQuads}
	for _, o := range opts {
		o.set(&cfg)
	}
	if cfg.max < 1 {
		cfg.max = 1
	}
	if cfg.initial < 1 {
		cfg.initial = 1
	}
	return cfg
}

// shared holds what the sprite and line batches have in common: the active
// flag, the program and the projection.
//
type shared struct {
	ctx     *glint.Context
	active  bool
	def     *glint.Program // default program, owned
	program *glint.Program
	proj    glint.Mat4
	projFor *glint.Program // program that last received proj
}

func (s *shared) init(ctx *glint.Context, p *glint.Program) error {
	s.ctx = ctx
	if p == nil {
		var err error
		s.def, err = glint.CompileProgram(ctx, VertexShader, FragmentShader)
		if err != nil {
			return err
		}
		p = s.def
	}
	s.program = p
	s.proj = glint.Ortho(1, 1)
	return nil
}

func (s *shared) begin() {
	if s.active {
		panic(ErrActive)
	}
	s.active = true
}

func (s *shared) checkActive() {
	if !s.active {
		panic(ErrInactive)
	}
}

// setUniforms uploads the projection and texture unit to the current program
// if it has not seen them yet. Custom programs may lack either uniform.
//
func (s *shared) setUniforms() {
	if s.projFor == s.program {
		return
	}
	glint.TrySetUniform(s.program, "uProjection", s.proj)
	glint.TrySetUniform(s.program, "uTexture", int32(0))
	s.projFor = s.program
}

func (s *shared) dispose() {
	if s.def != nil {
		s.def.Dispose()
	}
}

// A Sprite batch draws textured quads. Quads sharing the same texture are
// drawn with a single draw call.
//
// Usage:
//
//	b.Begin()
//	b.SetProjection(view.ProjectionMatrix())
//	b.Draw(region, x, y, 1, 1, 0, gl.White)
//	b.End()
//
type Sprite struct {
	shared
	st  *Stage[Vertex, uint16]
	tex *glint.Texture
}

// NewSprite returns a new sprite batch. The default program is compiled
// unless one is set with the Program option.
//
func NewSprite(ctx *glint.Context, opts ...Option) (*Sprite, error) {
	cfg := newConfig(opts)
	b := new(Sprite)
	if err := b.init(ctx, cfg.program); err != nil {
		return nil, err
	}
	b.st = NewStage[Vertex, uint16](ctx, &vertexLayout, gl.TRIANGLES,
		cfg.initial*verticesPerQuad, cfg.max*verticesPerQuad, indicesPerQuad/float64(verticesPerQuad))
	return b, nil
}

// Begin starts a batch. It panics if the batch is already active.
//
func (b *Sprite) Begin() { b.begin() }

// Active returns true between Begin and End.
//
func (b *Sprite) Active() bool { return b.active }

// End flushes the batch and deactivates it. It panics if the batch is not
// active.
//
func (b *Sprite) End() {
	b.checkActive()
	b.Flush()
	b.active = false
}

// SetProjection sets the projection matrix. Staged quads are flushed first.
//
func (b *Sprite) SetProjection(m glint.Mat4) {
	b.Flush()
	b.proj = m
	b.projFor = nil
}

// SetView sets the projection matrix from v.
//
func (b *Sprite) SetView(v *glint.View) {
	b.SetProjection(v.ProjectionMatrix())
}

// SetProgram sets the shader program used by subsequent draws. A nil program
// restores the default one. Staged quads are flushed first if the program
// changes.
//
func (b *Sprite) SetProgram(p *glint.Program) {
	if p == nil {
		p = b.def
	}
	if p == b.program {
		return
	}
	b.Flush()
	b.program = p
}

// Draw stages a quad for drawable d at (x, y), scaled and rotated by rot
// radians around d's origin. Colors are premultiplied.
//
// Draw panics if the batch is not active or if d is nil or has no texture.
//
func (b *Sprite) Draw(d glint.Drawable, x, y, scaleX, scaleY, rot float32, c gl.Color) {
	b.checkActive()
	var tex *glint.Texture
	if d != nil {
		tex = d.Texture()
	}
	if tex == nil {
		panic(ErrNilTexture)
	}
	if tex.Disposed() {
		panic(glint.ErrDisposed)
	}
	b.quad(tex, d.Origin(), d.Size(), d.UV(), x, y, scaleX, scaleY, rot, c)
}

// DrawRegion stages a quad for the src rectangle of t, in top-left origin
// pixel coordinates, without creating a Region. The quad origin is the top
// left corner of src.
//
// DrawRegion panics if the batch is not active or if t is nil.
//
func (b *Sprite) DrawRegion(t *glint.Texture, src image.Rectangle, x, y, scaleX, scaleY, rot float32, c gl.Color) {
	b.checkActive()
	if t == nil {
		panic(ErrNilTexture)
	}
	if t.Disposed() {
		panic(glint.ErrDisposed)
	}
	ts := t.Size()
	w, h := float32(ts.X), float32(ts.Y)
	uv := [4]float32{
		float32(src.Min.X) / w,
		float32(ts.Y-src.Max.Y) / h,
		float32(src.Max.X) / w,
		float32(ts.Y-src.Min.Y) / h,
	}
	b.quad(t, image.Point{}, src.Size(), uv, x, y, scaleX, scaleY, rot, c)
}

func (b *Sprite) quad(tex *glint.Texture, o, sz image.Point, uv [4]float32, x, y, scaleX, scaleY, rot float32, c gl.Color) {
	if b.st.Len() > 0 && tex != b.tex {
		b.Flush()
	}
	if !b.st.Fits(verticesPerQuad, indicesPerQuad) {
		b.Flush()
	}
	b.tex = tex

	var m0, m1, m3, m4, m6, m7 float32 = 1, 0, 0, 1, x, y
	if rot != 0 {
		sin, cos := math.Sincos(float64(rot))
		m0, m1, m3, m4 = float32(cos), float32(sin), -float32(sin), float32(cos)
	}

	tx, ty := -float32(o.X)*scaleX, -float32(o.Y)*scaleY
	m6, m7 = m0*tx+m3*ty+m6, m1*tx+m4*ty+m7

	sX, sY := scaleX*float32(sz.X), scaleY*float32(sz.Y)
	m0 *= sX
	m1 *= sX
	m3 *= sY
	m4 *= sY

	r, g, bl, a := float32(c.R), float32(c.G), float32(c.B), float32(c.A)
	b.st.Push([]Vertex{
		// top left
		{m6, m7, uv[0], uv[3], r, g, bl, a},
		// top right
		{m0 + m6, m1 + m7, uv[2], uv[3], r, g, bl, a},
		// bottom left
		{m3 + m6, m4 + m7, uv[0], uv[1], r, g, bl, a},
		// bottom right
		{m0 + m3 + m6, m1 + m4 + m7, uv[2], uv[1], r, g, bl, a},
	}, quadIndices[:])
}

// Flush draws the staged quads. It does nothing if there are none.
//
func (b *Sprite) Flush() {
	if b.st.Len() == 0 {
		return
	}
	if b.program == nil {
		panic(ErrNoProgram)
	}
	b.setUniforms()
	b.st.Flush(b.program, b.tex)
}

// Capacity returns the current staging capacity in quads.
//
func (b *Sprite) Capacity() int { return b.st.Cap() / verticesPerQuad }

// Stats returns the batch counters.
//
func (b *Sprite) Stats() Stats { return b.st.Stats }

// ResetStats zeroes the batch counters.
//
func (b *Sprite) ResetStats() { b.st.Stats = Stats{} }

// Dispose releases the batch GPU resources, including the default program.
//
func (b *Sprite) Dispose() {
	b.st.Dispose()
	b.dispose()
}
