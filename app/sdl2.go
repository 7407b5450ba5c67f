//go:build sdl2

package app

import (
	"context"
	"fmt"
	"runtime"

	"github.com/db47h/glint"
	"github.com/db47h/glint/app/event"
	"github.com/db47h/glint/gl/glcore"
	"github.com/pkg/errors"
	"github.com/veandco/go-sdl2/sdl"
)

// Named keys.
const (
	KeyEscape = Key(sdl.SCANCODE_ESCAPE)
	KeySpace  = Key(sdl.SCANCODE_SPACE)
	KeyEnter  = Key(sdl.SCANCODE_RETURN)
	KeyLeft   = Key(sdl.SCANCODE_LEFT)
	KeyRight  = Key(sdl.SCANCODE_RIGHT)
	KeyUp     = Key(sdl.SCANCODE_UP)
	KeyDown   = Key(sdl.SCANCODE_DOWN)
	KeyF1     = Key(sdl.SCANCODE_F1)
)

// DriverVersion returns the windowing library version.
//
func DriverVersion() string {
	var v sdl.Version
	sdl.GetVersion(&v)
	return fmt.Sprintf("SDL %d.%d.%d", v.Major, v.Minor, v.Patch)
}

type nativeWindow struct {
	win         *sdl.Window
	gl          sdl.GLContext
	id          uint32
	shouldClose bool
}

func openWindow(cfg *winCfg) (*Window, error) {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, errors.Wrap(err, "sdl init")
	}
	attrs := []struct {
		attr  sdl.GLattr
		value int
	}{
		{sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE},
		{sdl.GL_CONTEXT_MAJOR_VERSION, cfg.major},
		{sdl.GL_CONTEXT_MINOR_VERSION, cfg.minor},
		{sdl.GL_DOUBLEBUFFER, 1},
		{sdl.GL_MULTISAMPLEBUFFERS, 1},
		{sdl.GL_MULTISAMPLESAMPLES, cfg.samples},
	}
	for _, a := range attrs {
		if a.attr == sdl.GL_MULTISAMPLEBUFFERS && cfg.samples == 0 {
			continue
		}
		if err := sdl.GLSetAttribute(a.attr, a.value); err != nil {
			sdl.Quit()
			return nil, errors.Wrapf(err, "set GL attribute %d", a.attr)
		}
	}

	x, y := int32(sdl.WINDOWPOS_CENTERED), int32(sdl.WINDOWPOS_CENTERED)
	if cfg.x >= 0 && cfg.y >= 0 {
		x, y = int32(cfg.x), int32(cfg.y)
	}
	var flags uint32 = sdl.WINDOW_OPENGL | sdl.WINDOW_RESIZABLE | sdl.WINDOW_ALLOW_HIGHDPI
	if cfg.fullScreen {
		flags |= sdl.WINDOW_FULLSCREEN_DESKTOP
	}
	if cfg.hidden {
		flags |= sdl.WINDOW_HIDDEN
	}
	win, err := sdl.CreateWindow(cfg.title, x, y, int32(cfg.w), int32(cfg.h), flags)
	if err != nil {
		sdl.Quit()
		return nil, errors.Wrap(err, "create window")
	}
	glc, err := win.GLCreateContext()
	if err != nil {
		_ = win.Destroy()
		sdl.Quit()
		return nil, errors.Wrap(err, "create GL context")
	}
	fail := func(err error) (*Window, error) {
		sdl.GLDeleteContext(glc)
		_ = win.Destroy()
		sdl.Quit()
		return nil, err
	}
	fns, err := glcore.New()
	if err != nil {
		return fail(err)
	}
	if cfg.vsync {
		_ = sdl.GLSetSwapInterval(1)
	} else {
		_ = sdl.GLSetSwapInterval(0)
	}

	fw, fh := win.GLGetDrawableSize()
	dev := glint.NewDevice(cfg.log)
	ctx, err := dev.NewContext(fns, glint.Primary(), glint.InitialViewport(int(fw), int(fh)))
	if err != nil {
		return fail(err)
	}
	w := newWindow(dev, ctx, int(fw), int(fh))
	w.native.win = win
	w.native.gl = glc
	w.native.id, _ = win.GetID()

	ctx.Logger().Info("window created", "driver", DriverVersion(), "width", fw, "height", fh)
	return w, nil
}

// NativeHandle returns the underlying *sdl.Window.
//
func (w *Window) NativeHandle() any { return w.native.win }

// Size returns the window size in screen coordinates.
//
func (w *Window) Size() (width, height int) {
	ww, wh := w.native.win.GetSize()
	return int(ww), int(wh)
}

// SetShouldClose flags the window for closing. The loop run by Main exits
// after the current frame.
//
func (w *Window) SetShouldClose(b bool) { w.native.shouldClose = b }

// ProcessEvents presents the frame, then polls pending events. It returns
// true when the window should close.
//
func (w *Window) ProcessEvents() bool {
	w.native.win.GLSwap()
	for e := sdl.PollEvent(); e != nil; e = sdl.PollEvent() {
		w.dispatch(e)
	}
	return w.native.shouldClose
}

func sdlButton(b uint8) int {
	switch b {
	case sdl.BUTTON_LEFT:
		return int(MouseLeft)
	case sdl.BUTTON_RIGHT:
		return int(MouseRight)
	case sdl.BUTTON_MIDDLE:
		return int(MouseMiddle)
	}
	return int(b) + 1
}

func (w *Window) dispatch(e sdl.Event) {
	switch e := e.(type) {
	case *sdl.QuitEvent:
		w.native.shouldClose = true
		w.emit(event.WindowClose{})
	case *sdl.WindowEvent:
		if e.WindowID != w.native.id {
			return
		}
		switch e.Event {
		case sdl.WINDOWEVENT_CLOSE:
			w.native.shouldClose = true
			w.emit(event.WindowClose{})
		case sdl.WINDOWEVENT_SIZE_CHANGED:
			fw, fh := w.native.win.GLGetDrawableSize()
			w.emit(event.FrameBufferSize{Width: int(fw), Height: int(fh)})
		}
	case *sdl.MouseMotionEvent:
		w.emit(event.MouseMove{X: float64(e.X), Y: float64(e.Y)})
	case *sdl.MouseButtonEvent:
		if e.State == sdl.PRESSED {
			w.emit(event.MouseDown{Button: sdlButton(e.Button)})
		} else {
			w.emit(event.MouseUp{Button: sdlButton(e.Button)})
		}
	case *sdl.MouseWheelEvent:
		w.emit(event.Scroll{DX: float64(e.X), DY: float64(e.Y)})
	case *sdl.KeyboardEvent:
		k := int(e.Keysym.Scancode)
		if e.State == sdl.PRESSED {
			w.emit(event.KeyDown{Key: k, Repeat: e.Repeat != 0})
		} else {
			w.emit(event.KeyUp{Key: k})
		}
	}
}

func (w *Window) destroy() {
	w.ctx.Release()
	sdl.GLDeleteContext(w.native.gl)
	_ = w.native.win.Destroy()
	sdl.Quit()
}

// Secondary is a rendering context sharing objects with a window's primary
// context. It runs on its own locked OS thread and executes the actions
// submitted to its dispatcher.
//
type Secondary struct {
	win    *sdl.Window
	gl     sdl.GLContext
	ctx    *glint.Context
	cancel context.CancelFunc
	done   chan error
}

// SecondaryContext creates a secondary context backed by a hidden window.
// It must be called from the main thread.
//
func (w *Window) SecondaryContext() (*Secondary, error) {
	if err := sdl.GLSetAttribute(sdl.GL_SHARE_WITH_CURRENT_CONTEXT, 1); err != nil {
		return nil, errors.Wrap(err, "share context")
	}
	sw, err := sdl.CreateWindow("", 0, 0, 1, 1, sdl.WINDOW_OPENGL|sdl.WINDOW_HIDDEN)
	if err != nil {
		return nil, errors.Wrap(err, "create shared context")
	}
	glc, err := sw.GLCreateContext()
	if err != nil {
		_ = sw.Destroy()
		return nil, errors.Wrap(err, "create shared context")
	}
	// GLCreateContext made the new context current on the main thread.
	if err := w.native.win.GLMakeCurrent(w.native.gl); err != nil {
		sdl.GLDeleteContext(glc)
		_ = sw.Destroy()
		return nil, errors.Wrap(err, "restore primary context")
	}

	rctx, cancel := context.WithCancel(context.Background())
	s := &Secondary{win: sw, gl: glc, cancel: cancel, done: make(chan error, 1)}
	ready := make(chan error, 1)
	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		err := sw.GLMakeCurrent(glc)
		if err == nil {
			var fns *glcore.Functions
			if fns, err = glcore.New(); err == nil {
				s.ctx, err = w.dev.NewContext(fns)
			}
		}
		ready <- err
		if err != nil {
			return
		}
		err = s.ctx.Dispatcher().Run(rctx)
		s.ctx.Release()
		_ = sw.GLMakeCurrent(nil)
		s.done <- err
	}()
	if err := <-ready; err != nil {
		cancel()
		sdl.GLDeleteContext(glc)
		_ = sw.Destroy()
		return nil, err
	}
	return s, nil
}

// Context returns the secondary context. It must only be used from actions
// run by its dispatcher.
//
func (s *Secondary) Context() *glint.Context { return s.ctx }

// Close stops the context thread, discarding pending actions, and destroys
// the hidden window. It must be called from the main thread.
//
func (s *Secondary) Close() error {
	s.cancel()
	err := <-s.done
	sdl.GLDeleteContext(s.gl)
	_ = s.win.Destroy()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
