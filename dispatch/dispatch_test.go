package dispatch

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFIFO(t *testing.T) {
	d := New(16)
	var got []int
	for i := 0; i < 10; i++ {
		i := i
		require.NoError(t, d.Invoke(func() { got = append(got, i) }))
	}
	assert.Equal(t, 10, d.Drain())
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, got)
	assert.Equal(t, 0, d.Drain())
}

func TestDrainLeavesNestedActions(t *testing.T) {
	d := New(4)
	ran := 0
	require.NoError(t, d.Invoke(func() {
		ran++
		_ = d.Invoke(func() { ran++ })
	}))
	assert.Equal(t, 1, d.Drain())
	assert.Equal(t, 1, ran)
	assert.Equal(t, 1, d.Drain())
	assert.Equal(t, 2, ran)
}

func TestInvokeAndWait(t *testing.T) {
	d := New(4)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)

	owner := 0
	err := d.InvokeAndWait(context.Background(), func() error {
		owner = 42
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, owner)

	want := errors.New("boom")
	err = d.InvokeAndWait(context.Background(), func() error { return want })
	assert.Equal(t, want, err)
}

func TestInvokeAndWaitPanic(t *testing.T) {
	d := New(4)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)

	err := d.InvokeAndWait(context.Background(), func() error { panic("oops") })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "oops")
}

func TestCloseDiscardsPending(t *testing.T) {
	d := New(8)
	ran := 0
	for i := 0; i < 3; i++ {
		require.NoError(t, d.Invoke(func() { ran++ }))
	}
	d.Close()
	d.Close()
	assert.True(t, d.Closed())
	assert.Equal(t, 0, d.Drain())
	assert.Equal(t, 0, ran)
	assert.Equal(t, ErrClosed, d.Invoke(func() { ran++ }))
	assert.Equal(t, 0, ran)
}

func TestCloseReleasesWaiters(t *testing.T) {
	d := New(8)
	var wg sync.WaitGroup
	wg.Add(1)
	var err error
	go func() {
		defer wg.Done()
		err = d.InvokeAndWait(context.Background(), func() error { return nil })
	}()
	// wait for the action to be queued
	require.Eventually(t, func() bool { return len(d.q) == 1 }, time.Second, time.Millisecond)
	d.Close()
	wg.Wait()
	assert.Equal(t, ErrClosed, err)
}

func TestInvokeAndWaitContext(t *testing.T) {
	d := New(1)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := d.InvokeAndWait(ctx, func() error { return nil })
	assert.Equal(t, context.DeadlineExceeded, err)
}
