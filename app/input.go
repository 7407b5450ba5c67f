package app

import "sync"

// InputSource gives read access to the input devices of a window. It is safe
// for concurrent use.
//
type InputSource interface {
	MousePosition() (x, y float64)
	MouseButton(b MouseButton) bool
	Key(k Key) bool
}

// MouseButton identifies a mouse button independently of the driver.
//
type MouseButton int

const (
	MouseLeft MouseButton = iota
	MouseRight
	MouseMiddle
)

// Key is a driver specific key code. The named keys below map to the codes
// of the driver selected at build time.
//
type Key int

// cursor holds the last known mouse position. It is written from the event
// callbacks on the main thread and read from any goroutine.
type cursor struct {
	mu   sync.Mutex
	x, y float64
}

func (c *cursor) set(x, y float64) {
	c.mu.Lock()
	c.x, c.y = x, y
	c.mu.Unlock()
}

func (c *cursor) get() (x, y float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.x, c.y
}

// keyState tracks pressed keys and mouse buttons from driver events.
type keyState struct {
	mu      sync.Mutex
	keys    map[Key]bool
	buttons [3]bool
}

func (s *keyState) setKey(k Key, down bool) {
	s.mu.Lock()
	if s.keys == nil {
		s.keys = make(map[Key]bool)
	}
	if down {
		s.keys[k] = true
	} else {
		delete(s.keys, k)
	}
	s.mu.Unlock()
}

func (s *keyState) key(k Key) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.keys[k]
}

func (s *keyState) setButton(b MouseButton, down bool) {
	if b < 0 || int(b) >= len(s.buttons) {
		return
	}
	s.mu.Lock()
	s.buttons[b] = down
	s.mu.Unlock()
}

func (s *keyState) button(b MouseButton) bool {
	if b < 0 || int(b) >= len(s.buttons) {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buttons[b]
}
