package glint

import (
	"github.com/db47h/glint/gl"
)

type bindTarget int

const (
	bindVertexBuffer bindTarget = iota
	bindIndexBuffer
	bindPixelBuffer
	bindFramebuffer
	bindProgram
	numBindTargets
)

var bindTargetNames = [...]string{
	bindVertexBuffer: "vertex buffer",
	bindIndexBuffer:  "index buffer",
	bindPixelBuffer:  "pixel buffer",
	bindFramebuffer:  "framebuffer",
	bindProgram:      "program",
}

func (t bindTarget) String() string { return bindTargetNames[t] }

// resource is the part common to all objects that can be bound to a context.
//
type resource struct {
	ctx      *Context
	h        gl.Handle
	bound    ContextID
	disposed bool
}

// Handle returns the object's GPU handle.
//
func (r *resource) Handle() gl.Handle { return r.h }

// Disposed returns true if the object has been disposed.
//
func (r *resource) Disposed() bool { return r.disposed }

// BoundContext returns the id of the context the object was last bound to,
// or 0 if it is not bound anywhere.
//
func (r *resource) BoundContext() ContextID { return r.bound }

func (r *resource) res() *resource { return r }

type bindable interface {
	res() *resource
}

type bindPoint struct {
	h   gl.Handle
	obj bindable
}

type bindings struct {
	points [numBindTargets]bindPoint
	units  []bindPoint
	unit   int
}

// track is the only place where bind points and back-references are updated.
// The previous object's back-reference is cleared unless it is still bound
// elsewhere in c (textures may sit on several units).
//
func (c *Context) track(p *bindPoint, obj bindable) {
	old := p.obj
	p.h, p.obj = 0, obj
	if obj != nil {
		r := obj.res()
		p.h = r.h
		r.bound = c.id
	}
	if old != nil && old != obj && !c.tracks(old) {
		old.res().bound = 0
	}
}

func (c *Context) tracks(obj bindable) bool {
	for i := range c.b.points {
		if c.b.points[i].obj == obj {
			return true
		}
	}
	for i := range c.b.units {
		if c.b.units[i].obj == obj {
			return true
		}
	}
	return false
}

// untrack clears every bind point holding obj without issuing any device
// call; deleting a GL object implicitly unbinds it.
//
func (c *Context) untrack(obj bindable) {
	for i := range c.b.points {
		if c.b.points[i].obj == obj {
			c.b.points[i] = bindPoint{}
		}
	}
	for i := range c.b.units {
		if c.b.units[i].obj == obj {
			c.b.units[i] = bindPoint{}
		}
	}
	obj.res().bound = 0
}

// release marks obj disposed and clears it from the trackers of the context
// that created it and of the context it was last bound to.
//
func release(obj bindable) {
	r := obj.res()
	if r.bound != 0 && r.bound != r.ctx.id {
		if c := r.ctx.dev.Context(r.bound); c != nil {
			c.untrack(obj)
		}
	}
	r.ctx.untrack(obj)
	r.disposed = true
}

func (c *Context) issue(t bindTarget, h gl.Handle) {
	switch t {
	case bindVertexBuffer:
		c.fns.BindBuffer(gl.ARRAY_BUFFER, h)
	case bindIndexBuffer:
		c.fns.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, h)
	case bindPixelBuffer:
		c.fns.BindBuffer(gl.PIXEL_UNPACK_BUFFER, h)
	case bindFramebuffer:
		c.fns.BindFramebuffer(gl.FRAMEBUFFER, h)
	case bindProgram:
		c.fns.UseProgram(h)
	}
}

func (c *Context) bind(t bindTarget, obj bindable) {
	c.checkLive("bind " + t.String())
	p := &c.b.points[t]
	if obj == nil {
		if p.h != 0 {
			c.issue(t, 0)
			c.track(p, nil)
		}
		return
	}
	r := obj.res()
	if r.disposed {
		panicf(ErrDisposed, "bind %s %d", t, r.h)
	}
	if p.h == r.h {
		return
	}
	c.issue(t, r.h)
	c.track(p, obj)
}

func (c *Context) unbind(t bindTarget, obj bindable) {
	p := &c.b.points[t]
	if p.h == 0 || p.obj != obj {
		return
	}
	c.issue(t, 0)
	c.track(p, nil)
}

func mustNotBeNil(isNil bool, t string) {
	if isNil {
		panic("glint: unbind nil " + t)
	}
}

// BindVertexBuffer binds b to the vertex buffer bind point. A nil b unbinds
// whatever buffer is bound there. Binding an already bound buffer is a no-op.
//
func (c *Context) BindVertexBuffer(b *Buffer) {
	if b == nil {
		c.bind(bindVertexBuffer, nil)
		return
	}
	c.bind(bindVertexBuffer, b)
}

// UnbindVertexBuffer unbinds b if it is the bound vertex buffer.
//
func (c *Context) UnbindVertexBuffer(b *Buffer) {
	mustNotBeNil(b == nil, "vertex buffer")
	c.unbind(bindVertexBuffer, b)
}

// BindIndexBuffer binds b to the index buffer bind point. The index buffer
// binding is part of the context VAO state.
//
func (c *Context) BindIndexBuffer(b *Buffer) {
	if b == nil {
		c.bind(bindIndexBuffer, nil)
		return
	}
	c.bind(bindIndexBuffer, b)
}

// UnbindIndexBuffer unbinds b if it is the bound index buffer.
//
func (c *Context) UnbindIndexBuffer(b *Buffer) {
	mustNotBeNil(b == nil, "index buffer")
	c.unbind(bindIndexBuffer, b)
}

// BindPixelBuffer binds b to the pixel unpack buffer bind point.
//
func (c *Context) BindPixelBuffer(b *Buffer) {
	if b == nil {
		c.bind(bindPixelBuffer, nil)
		return
	}
	c.bind(bindPixelBuffer, b)
}

// UnbindPixelBuffer unbinds b if it is the bound pixel unpack buffer.
//
func (c *Context) UnbindPixelBuffer(b *Buffer) {
	mustNotBeNil(b == nil, "pixel buffer")
	c.unbind(bindPixelBuffer, b)
}

// BindFramebuffer binds fb as the draw and read framebuffer. A nil fb binds
// the default framebuffer.
//
func (c *Context) BindFramebuffer(fb *Framebuffer) {
	if fb == nil {
		c.bind(bindFramebuffer, nil)
		return
	}
	c.bind(bindFramebuffer, fb)
}

// UnbindFramebuffer binds the default framebuffer if fb is bound.
//
func (c *Context) UnbindFramebuffer(fb *Framebuffer) {
	mustNotBeNil(fb == nil, "framebuffer")
	c.unbind(bindFramebuffer, fb)
}

// BindProgram makes p the current program. A nil p uninstalls the current
// program.
//
func (c *Context) BindProgram(p *Program) {
	if p == nil {
		c.bind(bindProgram, nil)
		return
	}
	c.bind(bindProgram, p)
}

// UnbindProgram uninstalls p if it is the current program.
//
func (c *Context) UnbindProgram(p *Program) {
	mustNotBeNil(p == nil, "program")
	c.unbind(bindProgram, p)
}

// activeTexture selects the active texture unit.
//
func (c *Context) activeTexture(unit int) {
	if c.b.unit == unit {
		return
	}
	c.fns.ActiveTexture(gl.TEXTURE0 + gl.Enum(unit))
	c.b.unit = unit
}

// BindTexture binds t to the given texture unit. A nil t unbinds whatever
// texture is bound to that unit. The active texture unit is only changed when
// an actual bind call is needed.
//
func (c *Context) BindTexture(unit int, t *Texture) {
	c.checkLive("BindTexture")
	u := &c.b.units[unit]
	if t == nil {
		if u.h != 0 {
			c.activeTexture(unit)
			c.fns.BindTexture(gl.TEXTURE_2D, 0)
			c.track(u, nil)
		}
		return
	}
	if t.disposed {
		panicf(ErrDisposed, "bind texture %d", t.h)
	}
	if u.h == t.h {
		return
	}
	c.activeTexture(unit)
	c.fns.BindTexture(gl.TEXTURE_2D, t.h)
	c.track(u, t)
}

// UnbindTexture unbinds t from the given unit if it is bound there.
//
func (c *Context) UnbindTexture(unit int, t *Texture) {
	mustNotBeNil(t == nil, "texture")
	u := &c.b.units[unit]
	if u.h == 0 || u.obj != bindable(t) {
		return
	}
	c.activeTexture(unit)
	c.fns.BindTexture(gl.TEXTURE_2D, 0)
	c.track(u, nil)
}

// bindTextureForUpdate makes t the bound texture on the active unit so it can
// be modified.
//
func (c *Context) bindTextureForUpdate(t *Texture) {
	c.BindTexture(c.b.unit, t)
}

// Bound returns the handle tracked at each bind point, mostly useful for
// debugging and tests.
//
type Bound struct {
	VertexBuffer, IndexBuffer, PixelBuffer gl.Handle
	Framebuffer, Program                   gl.Handle
	ActiveUnit                             int
	Textures                               []gl.Handle
}

// Bound returns a snapshot of the binding tracker.
//
func (c *Context) Bound() Bound {
	b := Bound{
		VertexBuffer: c.b.points[bindVertexBuffer].h,
		IndexBuffer:  c.b.points[bindIndexBuffer].h,
		PixelBuffer:  c.b.points[bindPixelBuffer].h,
		Framebuffer:  c.b.points[bindFramebuffer].h,
		Program:      c.b.points[bindProgram].h,
		ActiveUnit:   c.b.unit,
		Textures:     make([]gl.Handle, len(c.b.units)),
	}
	for i := range c.b.units {
		b.Textures[i] = c.b.units[i].h
	}
	return b
}
