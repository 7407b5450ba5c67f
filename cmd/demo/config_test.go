package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", configFile)
	conf, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(), conf)
	_, err = os.Stat(path)
	require.NoError(t, err, "defaults are written on first run")

	conf.Sprites = 42
	conf.Window.VSync = false
	conf.Log.File = "demo.log"
	require.NoError(t, writeConfig(path, &conf))
	got, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, conf, got)
}

func TestConfigPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), configFile)
	require.NoError(t, os.WriteFile(path, []byte("Sprites = 7\n[Window]\nWidth = 640\n"), 0644))
	conf, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 7, conf.Sprites)
	assert.Equal(t, 640, conf.Window.Width)
	assert.Equal(t, 720, conf.Window.Height)
	assert.True(t, conf.Window.VSync)
}

func TestConfigInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), configFile)
	require.NoError(t, os.WriteFile(path, []byte("Sprites = \"many\"\n"), 0644))
	_, err := loadConfig(path)
	assert.Error(t, err)
}
