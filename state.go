package glint

import (
	"github.com/db47h/glint/gl"
)

// Capability is a server side GL capability toggled with Enable/Disable.
//
type Capability int

const (
	DepthTest Capability = iota
	Blend
	ScissorTest
	CullFace
	numCapabilities
)

var capEnums = [...]gl.Enum{
	DepthTest:   gl.DEPTH_TEST,
	Blend:       gl.BLEND,
	ScissorTest: gl.SCISSOR_TEST,
	CullFace:    gl.CULL_FACE,
}

var capNames = [...]string{
	DepthTest:   "DepthTest",
	Blend:       "Blend",
	ScissorTest: "ScissorTest",
	CullFace:    "CullFace",
}

func (c Capability) String() string { return capNames[c] }

// Rect is a rectangle in framebuffer pixels, with (0,0) at the bottom left.
//
type Rect struct {
	X, Y, W, H int
}

// State is a snapshot of the scalar state cached by a Context.
//
type State struct {
	Caps       [numCapabilities]bool
	Viewport   Rect
	Scissor    Rect
	ClearColor gl.Color
}

// SetCapability enables or disables a capability. Nothing is sent to the
// device if the capability is already in the requested state.
//
// Enabling blending also installs the blend function
// (SRC_ALPHA, ONE_MINUS_SRC_ALPHA), every time it goes from off to on.
//
func (c *Context) SetCapability(cap Capability, enable bool) {
	c.checkLive("SetCapability")
	if c.state.Caps[cap] == enable {
		return
	}
	if enable {
		c.fns.Enable(capEnums[cap])
		if cap == Blend {
			c.fns.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
		}
	} else {
		c.fns.Disable(capEnums[cap])
	}
	c.state.Caps[cap] = enable
}

// Capability returns the cached state of cap.
//
func (c *Context) Capability(cap Capability) bool {
	return c.state.Caps[cap]
}

// SetViewport sets the viewport.
//
func (c *Context) SetViewport(r Rect) {
	c.checkLive("SetViewport")
	if c.state.Viewport == r {
		return
	}
	c.fns.Viewport(r.X, r.Y, r.W, r.H)
	c.state.Viewport = r
}

// Viewport returns the current viewport.
//
func (c *Context) Viewport() Rect { return c.state.Viewport }

// SetScissor sets the scissor box. It does not enable ScissorTest.
//
func (c *Context) SetScissor(r Rect) {
	c.checkLive("SetScissor")
	if c.state.Scissor == r {
		return
	}
	c.fns.Scissor(r.X, r.Y, r.W, r.H)
	c.state.Scissor = r
}

// Scissor returns the current scissor box.
//
func (c *Context) Scissor() Rect { return c.state.Scissor }

// SetClearColor sets the color used by Clear.
//
func (c *Context) SetClearColor(col gl.Color) {
	c.checkLive("SetClearColor")
	if c.state.ClearColor == col {
		return
	}
	c.fns.ClearColor(col.R, col.G, col.B, col.A)
	c.state.ClearColor = col
}

// ClearColor returns the current clear color.
//
func (c *Context) ClearColor() gl.Color { return c.state.ClearColor }

// State returns a snapshot of the cached scalar state.
//
func (c *Context) State() State { return c.state }

// RestoreState brings the context back to a state previously returned by
// State. Only fields that differ issue device calls.
//
func (c *Context) RestoreState(s State) {
	for i, on := range s.Caps {
		c.SetCapability(Capability(i), on)
	}
	c.SetViewport(s.Viewport)
	c.SetScissor(s.Scissor)
	c.SetClearColor(s.ClearColor)
}
