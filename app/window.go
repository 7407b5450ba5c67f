package app

import (
	"image"

	"github.com/db47h/glint"
	"github.com/db47h/glint/app/event"
)

// Window is an application window with its primary rendering context. It
// implements InputSource.
//
type Window struct {
	native  nativeWindow
	dev     *glint.Device
	ctx     *glint.Context
	screen  *glint.Screen
	cursor  cursor
	keys    keyState
	handler EventHandler
}

var _ InputSource = (*Window)(nil)

func newWindow(dev *glint.Device, ctx *glint.Context, fbw, fbh int) *Window {
	return &Window{
		dev:    dev,
		ctx:    ctx,
		screen: glint.NewScreen(ctx, image.Pt(fbw, fbh)),
	}
}

// Device returns the device the window context belongs to.
//
func (w *Window) Device() *glint.Device { return w.dev }

// Context returns the primary context. It must only be used on the main
// thread.
//
func (w *Window) Context() *glint.Context { return w.ctx }

// Screen returns the render target of the default framebuffer.
//
func (w *Window) Screen() *glint.Screen { return w.screen }

func (w *Window) MousePosition() (x, y float64)  { return w.cursor.get() }
func (w *Window) MouseButton(b MouseButton) bool { return w.keys.button(b) }
func (w *Window) Key(k Key) bool                 { return w.keys.key(k) }

// emit updates the window state from e, then forwards e to the application.
func (w *Window) emit(e event.Interface) {
	switch e := e.(type) {
	case event.FrameBufferSize:
		w.screen.SetSize(image.Pt(e.Width, e.Height))
		w.screen.Bind()
	case event.MouseMove:
		w.cursor.set(e.X, e.Y)
	case event.MouseDown:
		w.keys.setButton(MouseButton(e.Button), true)
	case event.MouseUp:
		w.keys.setButton(MouseButton(e.Button), false)
	case event.KeyDown:
		w.keys.setKey(Key(e.Key), true)
	case event.KeyUp:
		w.keys.setKey(Key(e.Key), false)
	}
	if w.handler != nil {
		w.handler.OnEvent(w, e)
	}
}
