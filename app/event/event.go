// Package event defines the window events delivered to app.EventHandler.
package event

// Interface is implemented by all events.
type Interface interface{}

// WindowClose is sent when the user requests the window to close.
type WindowClose struct{}

// FrameBufferSize is sent after the framebuffer has been resized. The screen
// and the primary context viewport are already updated.
type FrameBufferSize struct {
	Width, Height int
}

// KeyDown and KeyUp carry a driver specific key code, comparable to the
// app.Key constants.
type KeyDown struct {
	Key    int
	Repeat bool
}

type KeyUp struct {
	Key int
}

type MouseMove struct {
	X, Y float64
}

type MouseDown struct {
	Button int
}

type MouseUp struct {
	Button int
}

type Scroll struct {
	DX, DY float64
}
