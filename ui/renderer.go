// Package ui renders immediate-mode UI draw lists, like the ones produced by
// Dear ImGui, on top of a glint context.
package ui

import (
	"image"

	"github.com/db47h/glint"
	"github.com/db47h/glint/batch"
	"github.com/db47h/glint/gl"
)

// Vertex is a UI vertex. Its layout matches ImDrawVert. Texture coordinates
// have their origin at the top left of the texture image.
//
type Vertex struct {
	X, Y  float32
	U, V  float32
	Color uint32 // packed RGBA8, see gl.Color.RGBA8
}

// Command draws ElemCount indices of its list, starting at IdxOffset, with
// texture TexID and clipped to ClipRect.
//
type Command struct {
	ClipRect  [4]float32 // x0, y0, x1, y1 in framebuffer pixels, top left origin
	TexID     uint32
	IdxOffset int
	ElemCount int
}

// DrawList is a list of vertices and indices shared by a sequence of
// commands. Indices are relative to the start of Vertices.
//
type DrawList struct {
	Vertices []Vertex
	Indices  []uint32
	Commands []Command
}

// DrawData is a full UI frame.
//
type DrawData struct {
	// Size of the UI coordinate space. Zero means the framebuffer size.
	DisplayWidth, DisplayHeight float32
	FbWidth, FbHeight           int
	Lists                       []DrawList
}

const maxVertices = 1 << 24

var vertexLayout = glint.VertexLayout{
	Stride: 20,
	Attribs: []glint.VertexAttrib{
		{Location: batch.PositionLocation, Size: 2, Type: gl.FLOAT, Offset: 0},
		{Location: batch.UVLocation, Size: 2, Type: gl.FLOAT, Offset: 8},
		{Location: batch.ColorLocation, Size: 4, Type: gl.UNSIGNED_BYTE, Normalized: true, Offset: 16},
	},
}

var vertexShader = `#version 330 core
layout(location = 0) in vec2 aPos;
layout(location = 1) in vec2 aUV;
layout(location = 2) in vec4 aColor;

out vec4 vColor;
out vec2 vUV;

uniform mat4 uProjection;

void main()
{
	vColor = aColor;
	vUV = vec2(aUV.x, 1.0 - aUV.y);
	gl_Position = uProjection * vec4(aPos, 0.0, 1.0);
}
`

var fragmentShader = `#version 330 core
in vec4 vColor;
in vec2 vUV;

out vec4 fragColor;

uniform sampler2D uTexture;

void main()
{
	fragColor = vColor * texture(uTexture, vUV);
}
`

// Renderer draws UI draw lists. Each command is issued as a separate draw
// call with its own scissor rectangle and texture. The context state is saved
// by Begin and restored by End.
//
type Renderer struct {
	ctx      *glint.Context
	st       *batch.Stage[Vertex, uint32]
	prog     *glint.Program
	textures map[uint32]*glint.Texture
	owned    map[uint32]bool
	nextID   uint32
	saved    glint.State
	active   bool
	fbHeight int
	proj     glint.Mat4
}

// NewRenderer returns a new UI renderer.
//
func NewRenderer(ctx *glint.Context) (*Renderer, error) {
	p, err := glint.CompileProgram(ctx, vertexShader, fragmentShader)
	if err != nil {
		return nil, err
	}
	glint.SetUniform(p, "uTexture", int32(0))
	return &Renderer{
		ctx:      ctx,
		st:       batch.NewStage[Vertex, uint32](ctx, &vertexLayout, gl.TRIANGLES, 1024, maxVertices, 1.5),
		prog:     p,
		textures: make(map[uint32]*glint.Texture),
		owned:    make(map[uint32]bool),
		nextID:   1,
	}, nil
}

// RegisterTexture makes t available to draw commands and returns its
// texture ID. IDs are never zero.
//
func (r *Renderer) RegisterTexture(t *glint.Texture) uint32 {
	id := r.nextID
	r.nextID++
	r.textures[id] = t
	return id
}

// UnregisterTexture removes the texture registered with ID id. The texture
// is not disposed.
//
func (r *Renderer) UnregisterTexture(id uint32) {
	delete(r.textures, id)
}

// Texture returns the texture registered with ID id, or nil.
//
func (r *Renderer) Texture(id uint32) *glint.Texture {
	return r.textures[id]
}

// TextureOp is the operation of a TextureRequest.
//
type TextureOp int

const (
	TextureCreate TextureOp = iota + 1
	TextureUpdate
	TextureDestroy
)

// TextureRequest asks the renderer to manage a texture on behalf of the UI
// library, like the font atlas of Dear ImGui.
//
type TextureRequest struct {
	Op    TextureOp
	ID    uint32          // texture to update or destroy
	Image image.Image     // source pixels for TextureCreate and TextureUpdate
	Rect  image.Rectangle // area to update; empty means the whole image
}

// ProcessTexture carries out req and returns the ID of the created or
// updated texture, or 0 once a texture is destroyed. Textures created here
// are owned by the renderer and disposed by TextureDestroy or Dispose.
//
func (r *Renderer) ProcessTexture(req *TextureRequest) uint32 {
	switch req.Op {
	case TextureCreate:
		t := glint.NewTextureFromImage(r.ctx, req.Image, glint.Filter(glint.Linear, glint.Linear))
		id := r.RegisterTexture(t)
		r.owned[id] = true
		sz := t.Size()
		r.ctx.Logger().Debugf("ui: texture %d created (%dx%d)", id, sz.X, sz.Y)
		return id
	case TextureUpdate:
		t := r.textures[req.ID]
		if t == nil {
			r.ctx.Logger().Warnf("ui: update of unknown texture ID %d", req.ID)
			return 0
		}
		dr := req.Rect
		if dr.Empty() {
			dr = req.Image.Bounds()
		}
		t.SetSubImage(dr, req.Image, dr.Min)
		return req.ID
	case TextureDestroy:
		if t := r.textures[req.ID]; t != nil && r.owned[req.ID] {
			t.Dispose()
		}
		delete(r.owned, req.ID)
		r.UnregisterTexture(req.ID)
		return 0
	}
	return req.ID
}

// Begin starts a UI pass on a framebuffer of the given size. It saves the
// context state, enables blending and scissor testing, and disables depth
// testing and face culling. The projection maps (0, 0) to the top left corner
// of the framebuffer; use SetProjection to change it.
//
func (r *Renderer) Begin(fbWidth, fbHeight int) {
	if r.active {
		panic(batch.ErrActive)
	}
	r.active = true
	r.saved = r.ctx.State()
	r.fbHeight = fbHeight
	r.ctx.SetCapability(glint.Blend, true)
	r.ctx.SetCapability(glint.DepthTest, false)
	r.ctx.SetCapability(glint.CullFace, false)
	r.ctx.SetCapability(glint.ScissorTest, true)
	r.ctx.SetViewport(glint.Rect{W: fbWidth, H: fbHeight})
	r.SetProjection(glint.Ortho(float32(fbWidth), float32(fbHeight)))
}

// SetProjection sets the projection matrix for the current pass.
//
func (r *Renderer) SetProjection(m glint.Mat4) {
	r.proj = m
	glint.SetUniform(r.prog, "uProjection", m)
}

func (r *Renderer) checkActive() {
	if !r.active {
		panic(batch.ErrInactive)
	}
}

// DrawList draws all commands of l.
//
func (r *Renderer) DrawList(l *DrawList) {
	r.checkActive()
	if len(l.Vertices) == 0 || len(l.Indices) == 0 {
		return
	}
	r.st.Reset()
	r.st.Push(l.Vertices, l.Indices)
	r.st.Upload()
	r.prog.Bind()
	for i := range l.Commands {
		cmd := &l.Commands[i]
		if cmd.ElemCount == 0 {
			continue
		}
		x0, y0 := max(int(cmd.ClipRect[0]), 0), max(int(cmd.ClipRect[1]), 0)
		x1, y1 := int(cmd.ClipRect[2]), int(cmd.ClipRect[3])
		if x1 <= x0 || y1 <= y0 {
			continue
		}
		if cmd.IdxOffset < 0 || cmd.IdxOffset+cmd.ElemCount > len(l.Indices) {
			r.ctx.Logger().Warnf("ui: command indices [%d, %d) out of range [0, %d)", cmd.IdxOffset, cmd.IdxOffset+cmd.ElemCount, len(l.Indices))
			continue
		}
		t := r.textures[cmd.TexID]
		if t == nil {
			r.ctx.Logger().Warnf("ui: unknown texture ID %d", cmd.TexID)
			continue
		}
		r.ctx.SetScissor(glint.Rect{X: x0, Y: r.fbHeight - y1, W: x1 - x0, H: y1 - y0})
		t.Bind(0)
		r.st.DrawRange(cmd.IdxOffset, cmd.ElemCount)
	}
	r.st.Stats.Flushes++
	r.st.Stats.Vertices += len(l.Vertices)
	r.st.Reset()
}

// End terminates the UI pass and restores the context state saved by Begin.
//
func (r *Renderer) End() {
	r.checkActive()
	r.ctx.RestoreState(r.saved)
	r.active = false
}

// Render draws a full frame. Nothing is drawn if the framebuffer is empty.
//
func (r *Renderer) Render(d *DrawData) {
	if d == nil || d.FbWidth <= 0 || d.FbHeight <= 0 {
		return
	}
	r.Begin(d.FbWidth, d.FbHeight)
	if d.DisplayWidth > 0 && d.DisplayHeight > 0 {
		r.SetProjection(glint.Ortho(d.DisplayWidth, d.DisplayHeight))
	}
	for i := range d.Lists {
		r.DrawList(&d.Lists[i])
	}
	r.End()
}

// Stats returns the renderer counters.
//
func (r *Renderer) Stats() batch.Stats { return r.st.Stats }

// Dispose releases the renderer's GPU resources. Registered textures are not
// disposed, except the ones created by ProcessTexture.
//
func (r *Renderer) Dispose() {
	for id := range r.owned {
		r.textures[id].Dispose()
	}
	clear(r.owned)
	r.st.Dispose()
	r.prog.Dispose()
}
