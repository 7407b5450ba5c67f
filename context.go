package glint

import (
	"log/slog"
	"strings"

	"github.com/db47h/glint/dispatch"
	"github.com/db47h/glint/gl"
	"github.com/db47h/glint/internal/log"
)

// Caps lists the device capabilities detected when a context is created.
//
type Caps struct {
	Version        string
	Renderer       string
	Major, Minor   int
	BufferStorage  bool // immutable buffer storage (GL 4.4 or ARB_buffer_storage)
	TextureUnits   int
	MaxTextureSize int
}

// A Context is one thread's connection to the device. It caches scalar GPU
// state and the objects bound at each bind point so that redundant driver
// calls can be skipped.
//
// A Context and every object bound to it must only be used from the OS thread
// the underlying GL context is current on. Other goroutines marshal work onto
// that thread through the context's Dispatcher.
//
type Context struct {
	id      ContextID
	dev     *Device
	fns     gl.Functions
	log     *log.Logger
	disp    *dispatch.Dispatcher
	primary bool

	caps  Caps
	state State
	b     bindings
	vao   gl.Handle

	// vertex layout cache
	layoutVBO gl.Handle
	layout    *VertexLayout
	enabled   uint32

	released bool
}

func (c *Context) init(vp Rect) {
	f := c.fns
	c.caps = Caps{
		Version:        f.GetString(gl.VERSION),
		Renderer:       f.GetString(gl.RENDERER),
		Major:          f.GetInteger(gl.MAJOR_VERSION),
		Minor:          f.GetInteger(gl.MINOR_VERSION),
		TextureUnits:   f.GetInteger(gl.MAX_COMBINED_TEXTURE_IMAGE_UNITS),
		MaxTextureSize: f.GetInteger(gl.MAX_TEXTURE_SIZE),
	}
	c.caps.BufferStorage = c.caps.Major > 4 || c.caps.Major == 4 && c.caps.Minor >= 4
	if !c.caps.BufferStorage {
		for i, n := 0, f.GetInteger(gl.NUM_EXTENSIONS); i < n; i++ {
			if strings.TrimSpace(f.GetStringi(gl.EXTENSIONS, i)) == "GL_ARB_buffer_storage" {
				c.caps.BufferStorage = true
				break
			}
		}
	}
	if c.caps.TextureUnits <= 0 {
		c.caps.TextureUnits = 16
	}
	c.b.units = make([]bindPoint, c.caps.TextureUnits)

	// core profiles need a bound VAO for any vertex attribute call.
	c.vao = f.CreateVertexArray()
	f.BindVertexArray(c.vao)

	if vp != (Rect{}) {
		c.SetViewport(vp)
	}

	c.log.Info("context created",
		slog.Bool("primary", c.primary),
		slog.String("version", c.caps.Version),
		slog.String("renderer", c.caps.Renderer),
		slog.Bool("buffer_storage", c.caps.BufferStorage),
		slog.Int("texture_units", c.caps.TextureUnits))
}

// ID returns the context identifier.
//
func (c *Context) ID() ContextID { return c.id }

// Device returns the device that created c.
//
func (c *Context) Device() *Device { return c.dev }

// Functions returns the device command interface.
//
func (c *Context) Functions() gl.Functions { return c.fns }

// Caps returns the detected device capabilities.
//
func (c *Context) Caps() Caps { return c.caps }

// Logger returns the context logger.
//
func (c *Context) Logger() *log.Logger { return c.log }

// Dispatcher returns the action queue drained by the thread owning c.
//
func (c *Context) Dispatcher() *dispatch.Dispatcher { return c.disp }

// IsPrimary returns true if c is the device's primary context.
//
func (c *Context) IsPrimary() bool { return c.primary }

// Clear clears the buffers selected by mask of the bound framebuffer.
//
func (c *Context) Clear(mask gl.Enum) {
	c.checkLive("Clear")
	c.fns.Clear(mask)
}

// Released returns true once Release has been called.
//
func (c *Context) Released() bool { return c.released }

func (c *Context) checkLive(op string) {
	if c.released {
		panicf(ErrContextClosed, "%s on context %d", op, c.id)
	}
}

// Release discards any pending dispatched actions and unregisters the
// context from its device. Objects created against c must have been disposed
// beforehand. Binding, state changes and object creation on a released
// context panic with ErrContextClosed.
//
func (c *Context) Release() {
	if c.released {
		return
	}
	c.released = true
	c.disp.Close()
	c.fns.DeleteVertexArray(c.vao)
	c.dev.remove(c)
	c.log.Info("context released")
}

// VertexAttrib describes a vertex attribute sourced from the bound vertex
// buffer.
//
type VertexAttrib struct {
	Location   uint32
	Size       int
	Type       gl.Enum
	Normalized bool
	Offset     int
}

// VertexLayout describes the layout of interleaved vertex data.
//
type VertexLayout struct {
	Stride  int
	Attribs []VertexAttrib
}

// SetVertexLayout points the vertex attributes in l at the currently bound
// vertex buffer. The call is skipped if the same layout was already set up
// for the same buffer. Layouts are compared by pointer and must not be
// modified once in use.
//
func (c *Context) SetVertexLayout(l *VertexLayout) {
	c.checkLive("SetVertexLayout")
	vbo := c.b.points[bindVertexBuffer].h
	if c.layout == l && c.layoutVBO == vbo {
		return
	}
	for _, a := range l.Attribs {
		if c.enabled&(1<<a.Location) == 0 {
			c.fns.EnableVertexAttribArray(a.Location)
			c.enabled |= 1 << a.Location
		}
		c.fns.VertexAttribPointer(a.Location, a.Size, a.Type, a.Normalized, l.Stride, a.Offset)
	}
	c.layout, c.layoutVBO = l, vbo
}

func (c *Context) forgetLayout(vbo gl.Handle) {
	if c.layoutVBO == vbo {
		c.layout, c.layoutVBO = nil, 0
	}
}
