// Package app opens a window with a primary rendering context and runs the
// frame loop. The default driver uses GLFW. Build with the sdl2 tag to use
// SDL2 instead.
package app

import (
	"runtime"
	"time"

	"github.com/db47h/glint/app/event"
	"github.com/db47h/glint/internal/log"
	"github.com/db47h/glint/loop"
)

func init() {
	runtime.LockOSThread()
}

// Interface is implemented by applications run with Main.
//
type Interface interface {
	Init(w *Window) error
	Update(dt time.Duration)
	Draw(frameTime, partial time.Duration)
	Terminate() error
}

// EventHandler can be implemented by applications that need window events.
// OnEvent is called from ProcessEvents on the main thread.
//
type EventHandler interface {
	OnEvent(w *Window, e event.Interface)
}

// Main opens a window, then runs a fixed step loop on a until the window is
// closed. The primary context's dispatcher is drained once per frame.
//
func Main(a Interface, opts ...WindowOption) error {
	cfg := newWinCfg(opts)
	w, err := openWindow(cfg)
	if err != nil {
		return err
	}
	defer w.destroy()
	if h, ok := a.(EventHandler); ok {
		w.handler = h
	}
	if err := a.Init(w); err != nil {
		return err
	}
	l := loop.FixedStep{DT: cfg.dt}
	l.Queue = w.ctx.Dispatcher()
	l.Run(runner{a, w})
	return a.Terminate()
}

type runner struct {
	a Interface
	w *Window
}

func (r runner) ProcessEvents() bool {
	return r.w.ProcessEvents()
}

func (r runner) Update(dt time.Duration)               { r.a.Update(dt) }
func (r runner) Draw(frameTime, partial time.Duration) { r.a.Draw(frameTime, partial) }

// WindowOption configures the window created by Main.
//
type WindowOption interface {
	set(*winCfg)
}

type winCfg struct {
	fullScreen   bool
	hidden       bool
	vsync        bool
	x, y, w, h   int
	title        string
	major, minor int
	samples      int
	dt           time.Duration
	log          *log.Logger
}

func newWinCfg(opts []WindowOption) *winCfg {
	cfg := &winCfg{
		title:   "glint",
		x:       -1,
		y:       -1,
		w:       800,
		h:       600,
		vsync:   true,
		major:   4,
		minor:   5,
		samples: 4,
		dt:      time.Second / 60,
	}
	for _, o := range opts {
		o.set(cfg)
	}
	return cfg
}

type winOption func(*winCfg)

func (f winOption) set(cfg *winCfg) {
	f(cfg)
}

// Title sets the window title.
//
func Title(title string) WindowOption {
	return winOption(func(cfg *winCfg) {
		cfg.title = title
	})
}

// Pos sets the window position. Negative values let the driver decide.
//
func Pos(x, y int) WindowOption {
	return winOption(func(cfg *winCfg) {
		cfg.x, cfg.y = x, y
	})
}

// Size sets the window size in screen coordinates.
//
func Size(w, h int) WindowOption {
	return winOption(func(cfg *winCfg) {
		cfg.w, cfg.h = w, h
	})
}

// FullScreen opens the window full screen on the primary monitor.
//
func FullScreen() WindowOption {
	return winOption(func(cfg *winCfg) {
		cfg.fullScreen = true
	})
}

func Visible(b bool) WindowOption {
	return winOption(func(cfg *winCfg) {
		cfg.hidden = !b
	})
}

// VSync enables or disables vertical synchronization. It is on by default.
//
func VSync(b bool) WindowOption {
	return winOption(func(cfg *winCfg) {
		cfg.vsync = b
	})
}

// GLVersion requests a core profile context of the given version. The
// default is 4.5.
//
func GLVersion(major, minor int) WindowOption {
	return winOption(func(cfg *winCfg) {
		cfg.major, cfg.minor = major, minor
	})
}

// Samples sets the number of multisampling samples. Defaults to 4.
//
func Samples(n int) WindowOption {
	return winOption(func(cfg *winCfg) {
		cfg.samples = n
	})
}

// Timestep sets the fixed update step of the loop run by Main.
//
func Timestep(dt time.Duration) WindowOption {
	return winOption(func(cfg *winCfg) {
		cfg.dt = dt
	})
}

// Logger sets the logger used by the device and its contexts.
//
func Logger(lg *log.Logger) WindowOption {
	return winOption(func(cfg *winCfg) {
		cfg.log = lg
	})
}
