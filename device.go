package glint

import (
	"sync"

	"github.com/db47h/glint/dispatch"
	"github.com/db47h/glint/gl"
	"github.com/db47h/glint/internal/log"
	"github.com/pkg/errors"
)

// ContextID identifies a Context within its Device. The zero ContextID means
// no context.
//
type ContextID uint32

// A Device hands out rendering contexts. There is typically one Device per
// process, created by the application and passed to whatever needs to create
// contexts.
//
type Device struct {
	mu       sync.Mutex
	next     ContextID
	contexts map[ContextID]*Context
	primary  ContextID
	log      *log.Logger
}

// NewDevice returns a new Device. lg may be nil.
//
func NewDevice(lg *log.Logger) *Device {
	return &Device{
		contexts: make(map[ContextID]*Context),
		log:      lg,
	}
}

type contextConfig struct {
	primary   bool
	queueSize int
	viewport  Rect
	log       *log.Logger
}

// ContextOption configures a new Context.
//
type ContextOption interface {
	set(*contextConfig)
}

type contextOptionFunc func(*contextConfig)

func (f contextOptionFunc) set(c *contextConfig) {
	f(c)
}

// Primary marks the context as the primary context of the device, the one
// owned by the main window. A device has at most one primary context at a
// time.
//
func Primary() ContextOption {
	return contextOptionFunc(func(c *contextConfig) {
		c.primary = true
	})
}

// QueueSize sets the capacity of the context's dispatch queue.
//
func QueueSize(n int) ContextOption {
	return contextOptionFunc(func(c *contextConfig) {
		c.queueSize = n
	})
}

// InitialViewport sets the viewport the context starts with, usually the
// size of the drawable surface.
//
func InitialViewport(width, height int) ContextOption {
	return contextOptionFunc(func(c *contextConfig) {
		c.viewport = Rect{W: width, H: height}
	})
}

// WithLogger overrides the device logger for this context.
//
func WithLogger(lg *log.Logger) ContextOption {
	return contextOptionFunc(func(c *contextConfig) {
		c.log = lg
	})
}

// NewContext creates a Context issuing commands through fns. The GL context
// behind fns must be current on the calling thread.
//
func (d *Device) NewContext(fns gl.Functions, opts ...ContextOption) (*Context, error) {
	cfg := contextConfig{queueSize: 256, log: d.log}
	for _, o := range opts {
		o.set(&cfg)
	}

	d.mu.Lock()
	if cfg.primary && d.primary != 0 {
		d.mu.Unlock()
		return nil, errors.WithStack(ErrPrimaryExists)
	}
	d.next++
	id := d.next
	c := &Context{
		id:      id,
		dev:     d,
		fns:     fns,
		primary: cfg.primary,
		disp:    dispatch.New(cfg.queueSize),
	}
	d.contexts[id] = c
	if cfg.primary {
		d.primary = id
	}
	d.mu.Unlock()

	c.log = cfg.log.With("context", int(id))
	c.init(cfg.viewport)
	return c, nil
}

// Context returns the live context with the given id, or nil.
//
func (d *Device) Context(id ContextID) *Context {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.contexts[id]
}

// Primary returns the primary context or nil if there is none.
//
func (d *Device) Primary() *Context {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.contexts[d.primary]
}

func (d *Device) remove(c *Context) {
	d.mu.Lock()
	delete(d.contexts, c.id)
	if d.primary == c.id {
		d.primary = 0
	}
	d.mu.Unlock()
}
