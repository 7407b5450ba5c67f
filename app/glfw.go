//go:build !sdl2

package app

import (
	"context"
	"runtime"

	"github.com/db47h/glint"
	"github.com/db47h/glint/app/event"
	"github.com/db47h/glint/gl/glcore"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/pkg/errors"
)

// Named keys.
const (
	KeyEscape = Key(glfw.KeyEscape)
	KeySpace  = Key(glfw.KeySpace)
	KeyEnter  = Key(glfw.KeyEnter)
	KeyLeft   = Key(glfw.KeyLeft)
	KeyRight  = Key(glfw.KeyRight)
	KeyUp     = Key(glfw.KeyUp)
	KeyDown   = Key(glfw.KeyDown)
	KeyF1     = Key(glfw.KeyF1)
)

// DriverVersion returns the windowing library version.
//
func DriverVersion() string {
	return "GLFW " + glfw.GetVersionString()
}

type nativeWindow struct {
	win *glfw.Window
}

func openWindow(cfg *winCfg) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, errors.Wrap(err, "glfw init")
	}
	glfw.WindowHint(glfw.ClientAPI, glfw.OpenGLAPI)
	glfw.WindowHint(glfw.ContextVersionMajor, cfg.major)
	glfw.WindowHint(glfw.ContextVersionMinor, cfg.minor)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Samples, cfg.samples)

	var (
		monitor *glfw.Monitor
		width   = cfg.w
		height  = cfg.h
	)
	if cfg.fullScreen {
		monitor = glfw.GetPrimaryMonitor()
		mode := monitor.GetVideoMode()
		glfw.WindowHint(glfw.RedBits, mode.RedBits)
		glfw.WindowHint(glfw.GreenBits, mode.GreenBits)
		glfw.WindowHint(glfw.BlueBits, mode.BlueBits)
		glfw.WindowHint(glfw.RefreshRate, mode.RefreshRate)
		width = mode.Width
		height = mode.Height
	}
	positioned := !cfg.fullScreen && cfg.x >= 0 && cfg.y >= 0
	if cfg.hidden || positioned {
		glfw.WindowHint(glfw.Visible, glfw.False)
	} else {
		glfw.WindowHint(glfw.Visible, glfw.True)
	}
	win, err := glfw.CreateWindow(width, height, cfg.title, monitor, nil)
	if err != nil {
		glfw.Terminate()
		return nil, errors.Wrap(err, "create window")
	}
	if positioned {
		win.SetPos(cfg.x, cfg.y)
		if !cfg.hidden {
			win.Show()
		}
	}

	win.MakeContextCurrent()
	fns, err := glcore.New()
	if err != nil {
		win.Destroy()
		glfw.Terminate()
		return nil, err
	}
	if cfg.vsync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	fw, fh := win.GetFramebufferSize()
	dev := glint.NewDevice(cfg.log)
	ctx, err := dev.NewContext(fns, glint.Primary(), glint.InitialViewport(fw, fh))
	if err != nil {
		win.Destroy()
		glfw.Terminate()
		return nil, err
	}
	w := newWindow(dev, ctx, fw, fh)
	w.native.win = win

	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.emit(event.FrameBufferSize{Width: width, Height: height})
	})
	win.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		w.emit(event.MouseMove{X: x, Y: y})
	})
	win.SetMouseButtonCallback(func(_ *glfw.Window, b glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		if action == glfw.Press {
			w.emit(event.MouseDown{Button: int(b)})
		} else {
			w.emit(event.MouseUp{Button: int(b)})
		}
	})
	win.SetScrollCallback(func(_ *glfw.Window, dx, dy float64) {
		w.emit(event.Scroll{DX: dx, DY: dy})
	})
	win.SetKeyCallback(func(_ *glfw.Window, k glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		switch action {
		case glfw.Press, glfw.Repeat:
			w.emit(event.KeyDown{Key: int(k), Repeat: action == glfw.Repeat})
		case glfw.Release:
			w.emit(event.KeyUp{Key: int(k)})
		}
	})
	win.SetCloseCallback(func(*glfw.Window) {
		w.emit(event.WindowClose{})
	})

	ctx.Logger().Info("window created", "driver", DriverVersion(), "width", fw, "height", fh)
	return w, nil
}

// NativeHandle returns the underlying *glfw.Window.
//
func (w *Window) NativeHandle() any { return w.native.win }

// Size returns the window size in screen coordinates.
//
func (w *Window) Size() (width, height int) { return w.native.win.GetSize() }

// SetShouldClose flags the window for closing. The loop run by Main exits
// after the current frame.
//
func (w *Window) SetShouldClose(b bool) { w.native.win.SetShouldClose(b) }

// ProcessEvents presents the frame, then polls pending events. It returns
// true when the window should close.
//
func (w *Window) ProcessEvents() bool {
	w.native.win.SwapBuffers()
	glfw.PollEvents()
	return w.native.win.ShouldClose()
}

func (w *Window) destroy() {
	w.ctx.Release()
	w.native.win.Destroy()
	glfw.Terminate()
}

// Secondary is a rendering context sharing objects with a window's primary
// context. It runs on its own locked OS thread and executes the actions
// submitted to its dispatcher.
//
type Secondary struct {
	win    *glfw.Window
	ctx    *glint.Context
	cancel context.CancelFunc
	done   chan error
}

// SecondaryContext creates a secondary context backed by a hidden window.
// It must be called from the main thread.
//
func (w *Window) SecondaryContext() (*Secondary, error) {
	glfw.WindowHint(glfw.Visible, glfw.False)
	sw, err := glfw.CreateWindow(1, 1, "", nil, w.native.win)
	if err != nil {
		return nil, errors.Wrap(err, "create shared context")
	}
	rctx, cancel := context.WithCancel(context.Background())
	s := &Secondary{win: sw, cancel: cancel, done: make(chan error, 1)}
	ready := make(chan error, 1)
	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		sw.MakeContextCurrent()
		defer glfw.DetachCurrentContext()
		fns, err := glcore.New()
		if err == nil {
			s.ctx, err = w.dev.NewContext(fns)
		}
		ready <- err
		if err != nil {
			return
		}
		err = s.ctx.Dispatcher().Run(rctx)
		s.ctx.Release()
		s.done <- err
	}()
	if err := <-ready; err != nil {
		cancel()
		sw.Destroy()
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
	s.win.Destroy()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
