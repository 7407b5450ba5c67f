package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	for s, want := range map[string]slog.Level{
		"":      slog.LevelInfo,
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	} {
		l, err := ParseLevel(s)
		require.NoError(t, err, s)
		assert.Equal(t, want, l, s)
	}
	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: "warn", Writer: &buf})
	buf.Reset()

	l.Debug("dropped")
	l.Infof("dropped %d", 1)
	l.Warnf("kept %d", 2)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "kept 2", rec["msg"])
	assert.Equal(t, "WARN", rec["level"])
	assert.Contains(t, rec, "callstack")
}

func TestLoggerWith(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Writer: &buf}).With(slog.Int("context", 1))
	buf.Reset()

	l.Info("hello")
	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, float64(1), rec["context"])
}

func TestNilLogger(t *testing.T) {
	var l *Logger
	assert.NotPanics(t, func() {
		l.Debug("x")
		l.Infof("x")
		assert.Nil(t, l.With("a", 1))
	})
}

func TestCallstack(t *testing.T) {
	fr := Callstack(nil)
	require.NotEmpty(t, fr)
	assert.NotEmpty(t, fr[0].String())
}
