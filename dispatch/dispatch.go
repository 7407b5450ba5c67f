// Package dispatch implements the action queue used to marshal work onto the
// thread that owns a rendering context.
//
// Actions run in FIFO order on whichever goroutine drains the queue, usually
// the OS-locked thread the GL context is current on. There is no ordering
// across dispatchers.
package dispatch

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

// ErrClosed is returned when enqueuing to, or waiting on, a closed
// dispatcher.
var ErrClosed = errors.New("dispatcher closed")

// A Dispatcher is a queue of actions drained by a single owner goroutine.
type Dispatcher struct {
	q    chan func()
	done chan struct{}
	once sync.Once
}

// New returns a Dispatcher whose queue holds up to size pending actions.
func New(size int) *Dispatcher {
	return &Dispatcher{
		q:    make(chan func(), size),
		done: make(chan struct{}),
	}
}

// Closed returns true once Close has been called.
func (d *Dispatcher) Closed() bool {
	select {
	case <-d.done:
		return true
	default:
		return false
	}
}

// Invoke enqueues fn and returns immediately. It only blocks while the queue
// is full.
func (d *Dispatcher) Invoke(fn func()) error {
	return d.enqueue(context.Background(), fn)
}

func (d *Dispatcher) enqueue(ctx context.Context, fn func()) error {
	if d.Closed() {
		return ErrClosed
	}
	select {
	case d.q <- fn:
		return nil
	case <-d.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// InvokeAndWait enqueues fn and blocks until it has run on the owner
// goroutine, ctx is done, or the dispatcher is closed. It returns the error
// returned by fn; a panic in fn is recovered and returned as an error.
//
// Calling InvokeAndWait from the owner goroutine deadlocks.
func (d *Dispatcher) InvokeAndWait(ctx context.Context, fn func() error) error {
	res := make(chan error, 1)
	if err := d.enqueue(ctx, func() { res <- run(fn) }); err != nil {
		return err
	}
	select {
	case err := <-res:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-d.done:
		select {
		case err := <-res:
			return err
		default:
			return ErrClosed
		}
	}
}

func run(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = errors.Wrap(e, "dispatch: action panicked")
			} else {
				err = errors.Errorf("dispatch: action panicked: %v", r)
			}
		}
	}()
	return fn()
}

// Drain runs the actions pending at the time of the call, in FIFO order, and
// returns how many ran. Actions enqueued by those actions are left for the
// next call. Must only be called from the owner goroutine.
func (d *Dispatcher) Drain() int {
	n := len(d.q)
	for i := 0; i < n; i++ {
		if d.Closed() {
			return i
		}
		(<-d.q)()
	}
	return n
}

// Run drains the queue until ctx is done or the dispatcher is closed.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-d.done:
			return ErrClosed
		case fn := <-d.q:
			if d.Closed() {
				return ErrClosed
			}
			fn()
		}
	}
}

// Close closes the dispatcher and discards pending actions. Waiters blocked in
// InvokeAndWait get ErrClosed. Close is idempotent.
func (d *Dispatcher) Close() {
	d.once.Do(func() {
		close(d.done)
		for {
			select {
			case <-d.q:
			default:
				return
			}
		}
	})
}
