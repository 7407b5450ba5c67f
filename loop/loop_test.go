package loop_test

import (
	"testing"
	"time"

	"github.com/db47h/glint/dispatch"
	"github.com/db47h/glint/loop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t    time.Time
	step []time.Duration
}

func (c *fakeClock) now() time.Time {
	if len(c.step) > 0 {
		c.t = c.t.Add(c.step[0])
		c.step = c.step[1:]
	}
	return c.t
}

type app struct {
	frames  int
	updates []time.Duration
	draws   [][2]time.Duration
	starts  int
}

func (a *app) ProcessEvents() bool {
	a.frames--
	return a.frames < 0
}

func (a *app) Update(dt time.Duration)   { a.updates = append(a.updates, dt) }
func (a *app) Draw(ft, pt time.Duration) { a.draws = append(a.draws, [2]time.Duration{ft, pt}) }
func (a *app) FrameStart(time.Time)      { a.starts++ }

func TestFixedStep(t *testing.T) {
	c := &fakeClock{step: []time.Duration{0, 25 * time.Millisecond, 5 * time.Millisecond, 3 * time.Second}}
	l := loop.FixedStep{DT: 10 * time.Millisecond, MaxFT: 100 * time.Millisecond}
	l.Clock = c.now
	a := &app{frames: 3}
	l.Run(a)

	require.Len(t, a.draws, 3)
	assert.Equal(t, 3, a.starts)
	// 25ms: 2 updates, 5ms left; +5ms: 1 update, 0 left; 3s clamped to 100ms: 10 updates
	assert.Len(t, a.updates, 13)
	for _, dt := range a.updates {
		assert.Equal(t, 10*time.Millisecond, dt)
	}
	assert.Equal(t, [2]time.Duration{25 * time.Millisecond, 5 * time.Millisecond}, a.draws[0])
	assert.Equal(t, [2]time.Duration{5 * time.Millisecond, 0}, a.draws[1])
	assert.Equal(t, [2]time.Duration{100 * time.Millisecond, 0}, a.draws[2])
}

type simpleApp struct {
	frames int
	log    []string
	q      *dispatch.Dispatcher
}

func (a *simpleApp) ProcessEvents() bool {
	a.frames--
	if a.frames >= 0 {
		a.q.Invoke(func() { a.log = append(a.log, "queued") })
	}
	return a.frames < 0
}
func (a *simpleApp) Update() { a.log = append(a.log, "update") }
func (a *simpleApp) Draw()   { a.log = append(a.log, "draw") }

func TestSimpleDrainsQueue(t *testing.T) {
	q := dispatch.New(4)
	a := &simpleApp{frames: 2, q: q}
	l := loop.Simple{Queue: q}
	l.Run(a)
	assert.Equal(t, []string{"queued", "update", "draw", "queued", "update", "draw"}, a.log)
}
