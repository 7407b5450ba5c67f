package main

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

const configFile = "glint-demo.toml"

type windowConfig struct {
	Width      int
	Height     int
	FullScreen bool
	VSync      bool
}

type logConfig struct {
	File  string
	Level string
}

type config struct {
	Window   windowConfig
	Log      logConfig
	MaxQuads int
	Sprites  int
	Assets   string
}

func defaultConfig() config {
	return config{
		Window:   windowConfig{Width: 1280, Height: 720, VSync: true},
		Log:      logConfig{Level: "info"},
		MaxQuads: 10000,
		Sprites:  10000,
		Assets:   "cmd/demo/assets",
	}
}

// loadConfig reads the configuration file at path. The file is created with
// default values if it does not exist.
func loadConfig(path string) (config, error) {
	conf := defaultConfig()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return conf, writeConfig(path, &conf)
	}
	if _, err := toml.DecodeFile(path, &conf); err != nil {
		return conf, errors.Wrapf(err, "read config %s", path)
	}
	return conf, nil
}

func writeConfig(path string, conf *config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(conf); err != nil {
		return errors.Wrap(err, "encode config")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return errors.Wrap(err, "create config directory")
		}
	}
	return errors.Wrapf(os.WriteFile(path, buf.Bytes(), 0644), "write config %s", path)
}
