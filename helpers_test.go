package glint_test

import (
	"testing"

	"github.com/db47h/glint"
	"github.com/db47h/glint/gl/gltest"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func newContext(t *testing.T, opts ...glint.ContextOption) (*glint.Context, *gltest.Functions) {
	t.Helper()
	f := gltest.New()
	return newContextWith(t, f, opts...), f
}

func newContextWith(t *testing.T, f *gltest.Functions, opts ...glint.ContextOption) *glint.Context {
	t.Helper()
	ctx, err := glint.NewDevice(nil).NewContext(f, opts...)
	require.NoError(t, err)
	t.Cleanup(ctx.Release)
	f.Reset()
	return ctx
}

// requirePanicCause checks that fn panics with an error whose cause is want.
func requirePanicCause(t *testing.T, want error, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		require.NotNil(t, r, "expected panic")
		err, ok := r.(error)
		require.True(t, ok, "panic value %v is not an error", r)
		require.Equal(t, want, errors.Cause(err), "panic: %v", err)
	}()
	fn()
}
