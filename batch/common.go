package batch

import (
	"log/slog"
	"math"
	"unsafe"

	"github.com/db47h/glint"
	"github.com/db47h/glint/gl"
	"github.com/pkg/errors"
)

// Contract violations. Batch methods panic with these.
//
var (
	ErrActive     = errors.New("batch already active: call End() before Begin()")
	ErrInactive   = errors.New("batch not active: call Begin() first")
	ErrNoProgram  = errors.New("flush without a shader program")
	ErrNilTexture = errors.New("draw with a nil texture")
)

const growthNum, growthDen = 3, 2

// Index is the set of index types a Stage can use.
//
type Index interface {
	~uint16 | ~uint32
}

func indexInfo[I Index]() (ty gl.Enum, ceiling int) {
	var zero I
	if unsafe.Sizeof(zero) == 2 {
		return gl.UNSIGNED_SHORT, math.MaxUint16 + 1
	}
	return gl.UNSIGNED_INT, math.MaxInt32
}

// Stats holds counters about a batch since its creation or the last call to
// ResetStats.
//
type Stats struct {
	Flushes   int // flushes that issued draw calls
	DrawCalls int
	Vertices  int
	Indices   int
	Grows     int // staging capacity increases
}

func (s Stats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("flushes", s.Flushes),
		slog.Int("draw_calls", s.DrawCalls),
		slog.Int("vertices", s.Vertices),
		slog.Int("indices", s.Indices),
		slog.Int("grows", s.Grows))
}

// Stage is the CPU side staging area shared by the batch renderers. It
// accumulates vertices of type V and, when indexed, indices of type I, then
// uploads them to GPU buffers that grow along with the staging slices.
//
// Capacity grows by a factor of 1.5 up to a maximum vertex count, which is
// itself capped by the largest vertex index I can represent.
//
type Stage[V any, I Index] struct {
	ctx       *glint.Context
	layout    *glint.VertexLayout
	mode      gl.Enum
	indexType gl.Enum
	vertices  []V
	indices   []I
	vbo, ibo  *glint.Buffer
	maxVerts  int
	maxIdx    int
	vsize     int
	isize     int
	Stats     Stats
}

// NewStage returns a Stage drawing primitives of the given mode. Capacities
// are in vertices; the index capacity is derived from them using
// indicesPerVertex, 0 for non-indexed stages.
//
func NewStage[V any, I Index](ctx *glint.Context, layout *glint.VertexLayout, mode gl.Enum, initial, max int, indicesPerVertex float64) *Stage[V, I] {
	var (
		zv V
		zi I
	)
	ty, ceiling := indexInfo[I]()
	if max > ceiling {
		max = ceiling
	}
	if initial > max {
		initial = max
	}
	s := &Stage[V, I]{
		ctx:       ctx,
		layout:    layout,
		mode:      mode,
		indexType: ty,
		vertices:  make([]V, 0, initial),
		maxVerts:  max,
		vsize:     int(unsafe.Sizeof(zv)),
		isize:     int(unsafe.Sizeof(zi)),
	}
	s.vbo = glint.ReserveBuffer(ctx, glint.VertexBuffer, initial*s.vsize, s.vsize, glint.Usage(gl.STREAM_DRAW))
	if indicesPerVertex > 0 {
		s.maxIdx = int(math.Ceil(float64(max) * indicesPerVertex))
		ni := int(math.Ceil(float64(initial) * indicesPerVertex))
		s.indices = make([]I, 0, ni)
		s.ibo = glint.ReserveBuffer(ctx, glint.IndexBuffer, ni*s.isize, s.isize, glint.Usage(gl.STREAM_DRAW))
	}
	return s
}

// Len returns the number of staged vertices.
//
func (s *Stage[V, I]) Len() int { return len(s.vertices) }

// Vertices returns the staged vertices.
//
func (s *Stage[V, I]) Vertices() []V { return s.vertices }

// Indices returns the staged indices.
//
func (s *Stage[V, I]) Indices() []I { return s.indices }

// Cap returns the current vertex capacity.
//
func (s *Stage[V, I]) Cap() int { return cap(s.vertices) }

// MaxVertices returns the maximum number of vertices that can be staged.
//
func (s *Stage[V, I]) MaxVertices() int { return s.maxVerts }

// Fits returns true if nv more vertices and ni more indices can be staged
// without exceeding the maximum capacity.
//
func (s *Stage[V, I]) Fits(nv, ni int) bool {
	return len(s.vertices)+nv <= s.maxVerts && (s.ibo == nil || len(s.indices)+ni <= s.maxIdx)
}

func grow[T any](x []T, need, max int) []T {
	if need <= cap(x) {
		return x
	}
	n := cap(x) * growthNum / growthDen
	if n < need {
		n = need
	}
	if n > max {
		n = max
	}
	nx := make([]T, len(x), n)
	copy(nx, x)
	return nx
}

// Push stages vertices vs and indices is. Indices are relative to the first
// vertex in vs. The caller must have checked Fits.
//
func (s *Stage[V, I]) Push(vs []V, is []I) {
	if !s.Fits(len(vs), len(is)) {
		panic(errors.Errorf("batch: %d vertices, %d indices do not fit", len(vs), len(is)))
	}
	base := I(len(s.vertices))
	if need := len(s.vertices) + len(vs); need > cap(s.vertices) {
		s.vertices = grow(s.vertices, need, s.maxVerts)
		s.Stats.Grows++
	}
	s.vertices = append(s.vertices, vs...)
	if s.ibo == nil {
		return
	}
	if need := len(s.indices) + len(is); need > cap(s.indices) {
		s.indices = grow(s.indices, need, s.maxIdx)
	}
	for _, i := range is {
		s.indices = append(s.indices, base+i)
	}
}

// Upload copies the staged data to the GPU buffers, growing them if needed,
// and leaves the vertex buffer bound with the stage's vertex layout.
//
func (s *Stage[V, I]) Upload() {
	if s.vbo.Size() < len(s.vertices)*s.vsize {
		s.vbo.Realloc(cap(s.vertices) * s.vsize)
	}
	glint.SubData(s.vbo, s.vertices, 0, len(s.vertices))
	if s.ibo != nil {
		if s.ibo.Size() < len(s.indices)*s.isize {
			s.ibo.Realloc(cap(s.indices) * s.isize)
		}
		glint.SubData(s.ibo, s.indices, 0, len(s.indices))
		s.ibo.Bind()
	}
	s.vbo.Bind()
	s.ctx.SetVertexLayout(s.layout)
}

// DrawRange issues a draw call for count vertices, or indices when the stage
// is indexed, starting at first. Upload must have been called.
//
func (s *Stage[V, I]) DrawRange(first, count int) {
	if count == 0 {
		return
	}
	f := s.ctx.Functions()
	if s.ibo != nil {
		f.DrawElements(s.mode, count, s.indexType, first*s.isize)
		s.Stats.Indices += count
	} else {
		f.DrawArrays(s.mode, first, count)
	}
	s.Stats.DrawCalls++
}

// Flush uploads the staged data and draws all of it in a single call with
// program p and texture t bound on unit 0, then resets the stage. It does
// nothing if nothing is staged and panics if p is nil.
//
func (s *Stage[V, I]) Flush(p *glint.Program, t *glint.Texture) {
	if len(s.vertices) == 0 {
		return
	}
	if p == nil {
		panic(errors.WithStack(ErrNoProgram))
	}
	s.Upload()
	p.Bind()
	if t != nil {
		t.Bind(0)
	}
	n := len(s.vertices)
	if s.ibo != nil {
		n = len(s.indices)
	}
	s.DrawRange(0, n)
	s.Stats.Flushes++
	s.Stats.Vertices += len(s.vertices)
	s.Reset()
}

// Reset discards the staged data without drawing it.
//
func (s *Stage[V, I]) Reset() {
	s.vertices = s.vertices[:0]
	s.indices = s.indices[:0]
}

// Dispose releases the GPU buffers.
//
func (s *Stage[V, I]) Dispose() {
	s.vbo.Dispose()
	if s.ibo != nil {
		s.ibo.Dispose()
	}
}
