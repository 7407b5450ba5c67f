// Package asset loads and caches textures, fonts, shader sources and raw
// files from an ofs.FileSystem. Assets can be preloaded asynchronously;
// textures are decoded on worker goroutines and uploaded on the thread that
// owns the rendering context.
package asset

import (
	"path"
	"runtime"
	"strings"

	"github.com/pkg/errors"
)

// ErrMissingAsset is returned by Discard for assets that are not loaded.
//
var ErrMissingAsset = errors.New("asset not found")

// Type designates the type of an asset.
//
type Type int

const (
	TypeFont Type = iota
	TypeTexture
	TypeFile
	TypeShader
	typeLast
)

// Asset uniquely describes an asset.
//
type Asset struct {
	Type
	Name string
}

func (a Asset) String() string {
	switch a.Type {
	case TypeFont:
		return "font asset " + a.Name
	case TypeTexture:
		return "texture asset " + a.Name
	case TypeFile:
		return "file asset " + a.Name
	case TypeShader:
		return "shader asset " + a.Name
	}
	return "unknown asset " + a.Name
}

func Font(name string) Asset    { return Asset{TypeFont, name} }
func Texture(name string) Asset { return Asset{TypeTexture, name} }
func File(name string) Asset    { return Asset{TypeFile, name} }
func Shader(name string) Asset  { return Asset{TypeShader, name} }

// Result wraps the result from preloading an asset.
//
type Result struct {
	Asset
	Err error
}

type config struct {
	texturePath string
	fontPath    string
	filePath    string
	shaderPath  string
	workers     int
}

func (cfg *config) assetPath(a Asset) string {
	switch a.Type {
	case TypeFont:
		return path.Join(cfg.fontPath, a.Name)
	case TypeTexture:
		return path.Join(cfg.texturePath, a.Name)
	case TypeFile:
		return path.Join(cfg.filePath, a.Name)
	case TypeShader:
		return path.Join(cfg.shaderPath, a.Name)
	}
	return a.Name
}

// Option is implemented by option functions passed as arguments to NewManager.
//
type Option interface {
	set(*config)
}

type cfn func(*config)

func (f cfn) set(cfg *config) {
	f(cfg)
}

// TexturePath returns an Option that sets the default texture path.
//
func TexturePath(name string) Option {
	return cfn(func(cfg *config) {
		cfg.texturePath = name
	})
}

// FontPath returns an Option that sets the default font path.
//
func FontPath(name string) Option {
	return cfn(func(cfg *config) {
		cfg.fontPath = name
	})
}

// FilePath returns an Option that sets the default path for raw files.
//
func FilePath(name string) Option {
	return cfn(func(cfg *config) {
		cfg.filePath = name
	})
}

// ShaderPath returns an Option that sets the default path for shader sources.
//
func ShaderPath(name string) Option {
	return cfn(func(cfg *config) {
		cfg.shaderPath = name
	})
}

// Workers sets the maximum number of assets loaded concurrently by Preload.
// The default is 2*runtime.NumCPU(), which prevents excessive simultaneous
// disk access on mechanical hard drives.
//
func Workers(n int) Option {
	return cfn(func(cfg *config) {
		cfg.workers = n
	})
}

func newConfig(options []Option) config {
	cfg := config{workers: 2 * runtime.NumCPU()}
	for _, o := range options {
		o.set(&cfg)
	}
	if cfg.workers < 1 {
		cfg.workers = 1
	}
	return cfg
}

type closer interface {
	Close() error
}

type errorList []error

func (e errorList) Error() string {
	var sb strings.Builder
	for i, err := range e {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(err.Error())
	}
	return sb.String()
}
