package ui_test

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"testing"

	"github.com/db47h/glint"
	"github.com/db47h/glint/batch"
	"github.com/db47h/glint/gl"
	"github.com/db47h/glint/gl/gltest"
	"github.com/db47h/glint/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*glint.Context, *gltest.Functions, *ui.Renderer) {
	t.Helper()
	f := gltest.New()
	ctx, err := glint.NewDevice(nil).NewContext(f)
	require.NoError(t, err)
	t.Cleanup(ctx.Release)
	r, err := ui.NewRenderer(ctx)
	require.NoError(t, err)
	t.Cleanup(r.Dispose)
	return ctx, f, r
}

func quad(x, y float32, c uint32) []ui.Vertex {
	return []ui.Vertex{
		{X: x, Y: y, Color: c},
		{X: x + 10, Y: y, Color: c},
		{X: x, Y: y + 10, Color: c},
		{X: x + 10, Y: y + 10, Color: c},
	}
}

func TestRenderCommands(t *testing.T) {
	ctx, f, r := setup(t)
	t1 := glint.NewTexture(ctx, 8, 8)
	t2 := glint.NewTexture(ctx, 8, 8)
	id1, id2 := r.RegisterTexture(t1), r.RegisterTexture(t2)
	assert.NotZero(t, id1)
	assert.NotEqual(t, id1, id2)

	list := ui.DrawList{
		Vertices: append(quad(0, 0, gl.White.RGBA8()), quad(20, 20, gl.Black.RGBA8())...),
		Indices:  []uint32{0, 1, 2, 2, 1, 3, 4, 5, 6, 6, 5, 7},
		Commands: []ui.Command{
			{ClipRect: [4]float32{10, 20, 50, 60}, TexID: id1, IdxOffset: 0, ElemCount: 6},
			{ClipRect: [4]float32{-5, 0, 30, 100}, TexID: id2, IdxOffset: 6, ElemCount: 6},
			{ClipRect: [4]float32{0, 0, 10, 10}, TexID: id1, ElemCount: 0},
		},
	}
	f.Reset()
	r.Render(&ui.DrawData{FbWidth: 200, FbHeight: 100, Lists: []ui.DrawList{list}})

	require.Len(t, f.Draws, 2)
	d0, d1 := f.Draws[0], f.Draws[1]
	assert.Equal(t, gl.Enum(gl.UNSIGNED_INT), d0.Type)
	assert.Equal(t, 6, d0.Count)
	assert.Equal(t, 0, d0.First)
	assert.Equal(t, 6*4, d1.First)
	assert.Equal(t, t1.Handle(), d0.Texture)
	assert.Equal(t, t2.Handle(), d1.Texture)

	is := make([]uint32, 12)
	require.NoError(t, binary.Read(bytes.NewReader(d0.Indices[:48]), binary.LittleEndian, is))
	assert.Equal(t, list.Indices, is)
	vs := make([]ui.Vertex, 8)
	require.NoError(t, binary.Read(bytes.NewReader(d0.Vertices[:8*20]), binary.LittleEndian, vs))
	assert.Equal(t, list.Vertices, vs)

	// scissor rectangles have a bottom left origin
	sc := f.Named("Scissor")
	require.GreaterOrEqual(t, len(sc), 2)
	assert.Equal(t, []any{10, 40, 40, 40}, sc[0].Args)
	assert.Equal(t, []any{0, 0, 30, 100}, sc[1].Args)

	st := r.Stats()
	assert.Equal(t, 2, st.DrawCalls)
	assert.Equal(t, 8, st.Vertices)
}

func TestRenderRestoresState(t *testing.T) {
	ctx, _, r := setup(t)
	ctx.SetCapability(glint.DepthTest, true)
	ctx.SetViewport(glint.Rect{X: 5, Y: 5, W: 50, H: 50})
	before := ctx.State()

	r.Begin(320, 240)
	assert.True(t, ctx.Capability(glint.Blend))
	assert.True(t, ctx.Capability(glint.ScissorTest))
	assert.False(t, ctx.Capability(glint.DepthTest))
	assert.False(t, ctx.Capability(glint.CullFace))
	assert.Equal(t, glint.Rect{W: 320, H: 240}, ctx.Viewport())
	r.End()

	assert.Equal(t, before, ctx.State())
}

func TestRenderUnknownTexture(t *testing.T) {
	_, f, r := setup(t)
	f.Reset()
	r.Render(&ui.DrawData{FbWidth: 10, FbHeight: 10, Lists: []ui.DrawList{{
		Vertices: quad(0, 0, 0),
		Indices:  []uint32{0, 1, 2},
		Commands: []ui.Command{{ClipRect: [4]float32{0, 0, 10, 10}, TexID: 42, ElemCount: 3}},
	}}})
	assert.Empty(t, f.Draws)
}

func TestRenderEmptyFramebuffer(t *testing.T) {
	_, f, r := setup(t)
	f.Reset()
	r.Render(&ui.DrawData{FbWidth: 0, FbHeight: 10})
	r.Render(nil)
	assert.Empty(t, f.Calls)
}

func TestRendererStateMachine(t *testing.T) {
	_, _, r := setup(t)
	assert.PanicsWithValue(t, batch.ErrInactive, r.End)
	assert.PanicsWithValue(t, batch.ErrInactive, func() { r.DrawList(&ui.DrawList{}) })
	r.Begin(10, 10)
	assert.PanicsWithValue(t, batch.ErrActive, func() { r.Begin(10, 10) })
	r.End()
}

func TestUnregisterTexture(t *testing.T) {
	ctx, _, r := setup(t)
	tex := glint.NewTexture(ctx, 1, 1)
	id := r.RegisterTexture(tex)
	assert.Same(t, tex, r.Texture(id))
	r.UnregisterTexture(id)
	assert.Nil(t, r.Texture(id))
	assert.False(t, tex.Disposed())
}

func TestRenderSkipsOutOfRangeCommand(t *testing.T) {
	ctx, f, r := setup(t)
	id := r.RegisterTexture(glint.NewTexture(ctx, 1, 1))
	f.Reset()
	r.Render(&ui.DrawData{FbWidth: 10, FbHeight: 10, Lists: []ui.DrawList{{
		Vertices: quad(0, 0, 0),
		Indices:  []uint32{0, 1, 2, 2, 1, 3},
		Commands: []ui.Command{
			{ClipRect: [4]float32{0, 0, 10, 10}, TexID: id, IdxOffset: 3, ElemCount: 6},
			{ClipRect: [4]float32{0, 0, 10, 10}, TexID: id, IdxOffset: 0, ElemCount: 6},
		},
	}}})
	require.Len(t, f.Draws, 1)
	assert.Equal(t, 0, f.Draws[0].First)
	assert.Equal(t, 6, f.Draws[0].Count)
}

func TestProcessTexture(t *testing.T) {
	_, f, r := setup(t)
	atlas := image.NewAlpha(image.Rect(0, 0, 4, 2))
	atlas.SetAlpha(0, 0, color.Alpha{A: 0x80})

	id := r.ProcessTexture(&ui.TextureRequest{Op: ui.TextureCreate, Image: atlas})
	require.NotZero(t, id)
	tex := r.Texture(id)
	require.NotNil(t, tex)
	assert.Equal(t, image.Pt(4, 2), tex.Size())
	px := f.Textures[tex.Handle()].Pixels
	// top left texel lives in the last row, premultiplied white
	assert.Equal(t, []byte{0x80, 0x80, 0x80, 0x80}, px[4*4:4*4+4])

	atlas.SetAlpha(3, 1, color.Alpha{A: 0xff})
	got := r.ProcessTexture(&ui.TextureRequest{Op: ui.TextureUpdate, ID: id, Image: atlas, Rect: image.Rect(3, 1, 4, 2)})
	assert.Equal(t, id, got)
	assert.Equal(t, []any{gl.Enum(gl.TEXTURE_2D), 0, 3, 0, 1, 1}, f.Named("TexSubImage2D")[0].Args)
	assert.Equal(t, []byte{0xff, 0xff, 0xff, 0xff}, px[3*4:3*4+4])

	assert.Zero(t, r.ProcessTexture(&ui.TextureRequest{Op: ui.TextureUpdate, ID: 99, Image: atlas}))

	assert.Zero(t, r.ProcessTexture(&ui.TextureRequest{Op: ui.TextureDestroy, ID: id}))
	assert.True(t, tex.Disposed())
	assert.Nil(t, r.Texture(id))
}

func TestDisposeReleasesCreatedTextures(t *testing.T) {
	ctx, _, r := setup(t)
	user := glint.NewTexture(ctx, 1, 1)
	r.RegisterTexture(user)
	id := r.ProcessTexture(&ui.TextureRequest{Op: ui.TextureCreate, Image: image.NewRGBA(image.Rect(0, 0, 1, 1))})
	created := r.Texture(id)

	r.Dispose()
	assert.True(t, created.Disposed())
	assert.False(t, user.Disposed())
}
