package glint_test

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/db47h/glint"
	"github.com/db47h/glint/gl"
	"github.com/db47h/glint/gl/gltest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floats(p []byte) []float32 {
	fs := make([]float32, len(p)/4)
	for i := range fs {
		fs[i] = math.Float32frombits(binary.LittleEndian.Uint32(p[i*4:]))
	}
	return fs
}

func TestNewBuffer(t *testing.T) {
	ctx, f := newContext(t)
	b := glint.NewBuffer(ctx, glint.VertexBuffer, []float32{1, 2, 3}, glint.Usage(gl.DYNAMIC_DRAW))
	assert.Equal(t, 12, b.Size())
	assert.Equal(t, 4, b.ElemSize())
	assert.Equal(t, 3, b.Len())
	assert.False(t, b.Immutable())
	assert.Equal(t, []float32{1, 2, 3}, floats(f.Buffers[b.Handle()].Data))
	assert.Equal(t, gl.Enum(gl.DYNAMIC_DRAW), f.Buffers[b.Handle()].Usage)

	glint.SetData(b, []uint16{1, 2, 3, 4, 5}, gl.STATIC_DRAW)
	assert.Equal(t, 10, b.Size())
	assert.Equal(t, 2, b.ElemSize())
	assert.Equal(t, 5, b.Len())

	b.Realloc(64)
	assert.Equal(t, 64, b.Size())
	assert.Len(t, f.Buffers[b.Handle()].Data, 64)
}

func TestSubDataBounds(t *testing.T) {
	const size = 32
	src := []float32{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	ctx, f := newContext(t)
	b := glint.ReserveBuffer(ctx, glint.VertexBuffer, size, 4)

	for off := 0; off <= 9; off++ {
		for n := 0; n <= 9; n++ {
			if (off+n)*4 > size {
				requirePanicCause(t, glint.ErrOutOfBounds, func() { glint.SubData(b, src, off, n) })
				continue
			}
			glint.SubData(b, src, off, n)
			got := floats(f.Buffers[b.Handle()].Data[off*4 : (off+n)*4])
			assert.Equal(t, src[:n], got, "offset %d, length %d", off, n)
		}
	}

	// exactly at the boundary
	glint.SubData(b, src, 0, 8)
	assert.Equal(t, src[:8], floats(f.Buffers[b.Handle()].Data))

	requirePanicCause(t, glint.ErrOutOfBounds, func() { glint.SubData(b, src[:2], 0, 3) })
	requirePanicCause(t, glint.ErrOutOfBounds, func() { glint.SubData(b, src, -1, 1) })
	requirePanicCause(t, glint.ErrElemSize, func() { glint.SubData(b, []uint16{1, 2}, 0, 2) })
}

func TestImmutableBuffer(t *testing.T) {
	ctx, f := newContext(t)
	b := glint.NewBuffer(ctx, glint.VertexBuffer, make([]float32, 4), glint.Immutable())
	assert.True(t, b.Immutable())
	assert.True(t, f.Buffers[b.Handle()].Immutable, "4.5 context uses buffer storage")

	requirePanicCause(t, glint.ErrImmutable, func() { glint.SetData(b, []float32{1}, gl.STATIC_DRAW) })
	requirePanicCause(t, glint.ErrImmutable, func() { b.Realloc(32) })
	requirePanicCause(t, glint.ErrImmutable, func() { glint.SubData(b, []float32{1}, 0, 1) })

	d := glint.NewBuffer(ctx, glint.VertexBuffer, make([]float32, 4), glint.Immutable(), glint.Storage(glint.DynamicStorage))
	glint.SubData(d, []float32{7, 8}, 2, 2)
	assert.Equal(t, []float32{0, 0, 7, 8}, floats(f.Buffers[d.Handle()].Data))
	assert.Equal(t, gl.Enum(gl.DYNAMIC_STORAGE_BIT), f.Buffers[d.Handle()].Flags)
}

func TestImmutableFallback(t *testing.T) {
	for _, tc := range []struct {
		name    string
		minor   int
		ext     []string
		storage bool
	}{
		{"gl33", 3, nil, false},
		{"gl33+ext", 3, []string{"GL_ARB_debug_output", "GL_ARB_buffer_storage"}, true},
		{"gl44", 4, nil, true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			f := gltest.New()
			f.Major, f.Minor, f.Extensions = 3, tc.minor, tc.ext
			if tc.minor == 4 {
				f.Major = 4
			}
			ctx := newContextWith(t, f)
			assert.Equal(t, tc.storage, ctx.Caps().BufferStorage)

			b := glint.NewBuffer(ctx, glint.VertexBuffer, make([]float32, 4), glint.Immutable())
			if tc.storage {
				assert.Equal(t, 1, f.Count("BufferStorage"))
			} else {
				assert.Equal(t, 1, f.Count("BufferData"))
			}
			// same behavior on both paths
			requirePanicCause(t, glint.ErrImmutable, func() { glint.SetData(b, []float32{1}, gl.STATIC_DRAW) })
			requirePanicCause(t, glint.ErrImmutable, func() { glint.SubData(b, []float32{1}, 0, 1) })
			requirePanicCause(t, glint.ErrOutOfBounds, func() { glint.SubData(b, make([]float32, 5), 0, 5) })
		})
	}
}

func TestBufferKinds(t *testing.T) {
	ctx, f := newContext(t)
	for _, tc := range []struct {
		kind   glint.BufferKind
		target gl.Enum
	}{
		{glint.VertexBuffer, gl.ARRAY_BUFFER},
		{glint.IndexBuffer, gl.ELEMENT_ARRAY_BUFFER},
		{glint.PixelBuffer, gl.PIXEL_UNPACK_BUFFER},
	} {
		b := glint.ReserveBuffer(ctx, tc.kind, 8, 1)
		assert.Equal(t, b.Handle(), f.Bound(tc.target), tc.kind.String())
	}
	require.Equal(t, "index", glint.IndexBuffer.String())
}
