package glint_test

import (
	"testing"

	"github.com/db47h/glint"
	"github.com/db47h/glint/gl/gltest"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrimaryContextIsUnique(t *testing.T) {
	dev := glint.NewDevice(nil)
	assert.Nil(t, dev.Primary())

	main, err := dev.NewContext(gltest.New(), glint.Primary())
	require.NoError(t, err)
	assert.True(t, main.IsPrimary())
	assert.Same(t, main, dev.Primary())

	_, err = dev.NewContext(gltest.New(), glint.Primary())
	assert.Equal(t, glint.ErrPrimaryExists, errors.Cause(err))

	aux, err := dev.NewContext(gltest.New())
	require.NoError(t, err)
	assert.False(t, aux.IsPrimary())
	assert.NotEqual(t, main.ID(), aux.ID())
	assert.Same(t, aux, dev.Context(aux.ID()))

	main.Release()
	main.Release()
	assert.Nil(t, dev.Primary())
	assert.Nil(t, dev.Context(main.ID()))
	assert.True(t, main.Dispatcher().Closed())

	again, err := dev.NewContext(gltest.New(), glint.Primary())
	require.NoError(t, err)
	assert.Same(t, again, dev.Primary())
	again.Release()
	aux.Release()
}

func TestContextInit(t *testing.T) {
	f := gltest.New()
	f.TextureUnits = 8
	ctx, err := glint.NewDevice(nil).NewContext(f, glint.InitialViewport(800, 600))
	require.NoError(t, err)
	defer ctx.Release()

	assert.Equal(t, 1, f.Count("CreateVertexArray"))
	assert.Equal(t, 1, f.Count("BindVertexArray"))
	assert.Equal(t, glint.Rect{W: 800, H: 600}, ctx.Viewport())
	assert.Len(t, ctx.Bound().Textures, 8)
	assert.Equal(t, 4, ctx.Caps().Major)
}

func TestDisposeAcrossContexts(t *testing.T) {
	dev := glint.NewDevice(nil)
	f := gltest.New()
	a, err := dev.NewContext(f)
	require.NoError(t, err)
	b, err := dev.NewContext(f)
	require.NoError(t, err)

	// objects are shared between contexts created from the same device
	tex := glint.NewTexture(a, 2, 2)
	b.BindTexture(1, tex)
	assert.Equal(t, b.ID(), tex.BoundContext())
	tex.Dispose()
	assert.Zero(t, b.Bound().Textures[1])
	assert.Zero(t, a.Bound().Textures[0])
}

func TestVertexLayoutCache(t *testing.T) {
	ctx, f := newContext(t)
	l := &glint.VertexLayout{Stride: 16, Attribs: []glint.VertexAttrib{
		{Location: 0, Size: 2, Type: 0x1406},
		{Location: 1, Size: 2, Type: 0x1406, Offset: 8},
	}}
	vb := glint.ReserveBuffer(ctx, glint.VertexBuffer, 64, 16)
	ctx.SetVertexLayout(l)
	ctx.SetVertexLayout(l)
	assert.Equal(t, 2, f.Count("EnableVertexAttribArray"))
	assert.Equal(t, 2, f.Count("VertexAttribPointer"))

	vb2 := glint.ReserveBuffer(ctx, glint.VertexBuffer, 64, 16)
	ctx.SetVertexLayout(l)
	assert.Equal(t, 2, f.Count("EnableVertexAttribArray"))
	assert.Equal(t, 4, f.Count("VertexAttribPointer"), "new buffer, new pointers")

	vb2.Dispose()
	vb.Bind()
	ctx.SetVertexLayout(l)
	assert.Equal(t, 6, f.Count("VertexAttribPointer"))
}

func TestReleasedContextPanics(t *testing.T) {
	ctx, err := glint.NewDevice(nil).NewContext(gltest.New())
	require.NoError(t, err)
	b := glint.ReserveBuffer(ctx, glint.VertexBuffer, 16, 4)
	tex := glint.NewTexture(ctx, 2, 2)
	b.Dispose()
	ctx.Release()
	assert.True(t, ctx.Released())

	requirePanicCause(t, glint.ErrContextClosed, func() { ctx.SetCapability(glint.Blend, true) })
	requirePanicCause(t, glint.ErrContextClosed, func() { ctx.SetViewport(glint.Rect{W: 1, H: 1}) })
	requirePanicCause(t, glint.ErrContextClosed, func() { ctx.BindTexture(0, tex) })
	requirePanicCause(t, glint.ErrContextClosed, func() { glint.NewTexture(ctx, 1, 1) })
	requirePanicCause(t, glint.ErrContextClosed, func() { glint.NewProgram(ctx) })
	requirePanicCause(t, glint.ErrContextClosed, func() { ctx.BindVertexBuffer(nil) })

	// disposing leftovers is still allowed
	assert.NotPanics(t, tex.Dispose)
}
