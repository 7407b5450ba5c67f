package asset_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/db47h/glint"
	"github.com/db47h/glint/asset"
	"github.com/db47h/glint/gl/gltest"
	"github.com/db47h/glint/internal/log"
	"github.com/db47h/glint/text"
	"github.com/db47h/ofs"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
)

func writeFile(t *testing.T, name string, data []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(name), 0o755))
	require.NoError(t, os.WriteFile(name, data, 0o644))
}

func writePNG(t *testing.T, name string, w, h int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	require.NoError(t, os.MkdirAll(filepath.Dir(name), 0o755))
	f, err := os.Create(name)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

const vertexSrc = `#version 330 core
layout(location = 0) in vec2 aPos;
uniform mat4 uProjection;
void main() { gl_Position = uProjection * vec4(aPos, 0.0, 1.0); }
`

const fragmentSrc = `#version 330 core
out vec4 fragColor;
void main() { fragColor = vec4(1.0); }
`

func setup(t *testing.T, opts ...asset.Option) (*asset.Manager, *glint.Context, *gltest.Functions) {
	t.Helper()
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "textures", "box.png"), 16, 8)
	writePNG(t, filepath.Join(dir, "textures", "ball.png"), 4, 4)
	writeFile(t, filepath.Join(dir, "textures", "broken.png"), []byte("not a png"))
	writeFile(t, filepath.Join(dir, "fonts", "Go-Regular.ttf"), goregular.TTF)
	writeFile(t, filepath.Join(dir, "data", "level.txt"), []byte("level 1"))
	writeFile(t, filepath.Join(dir, "shaders", "flat.vert"), []byte(vertexSrc))
	writeFile(t, filepath.Join(dir, "shaders", "flat.frag"), []byte(fragmentSrc))

	// user directory first, then the bundled defaults
	var ovl ofs.Overlay
	require.NoError(t, ovl.Add(false, filepath.Join(dir, "user"), dir))

	f := gltest.New()
	ctx, err := glint.NewDevice(nil).NewContext(f)
	require.NoError(t, err)
	t.Cleanup(ctx.Release)

	opts = append([]asset.Option{
		asset.TexturePath("textures"),
		asset.FontPath("fonts"),
		asset.FilePath("data"),
		asset.ShaderPath("shaders"),
	}, opts...)
	m := asset.NewManager(&ovl, ctx, opts...)
	t.Cleanup(func() { m.Close() })
	return m, ctx, f
}

func TestFiles(t *testing.T) {
	m, _, _ := setup(t)

	data, err := m.File("level.txt")
	require.NoError(t, err)
	assert.Equal(t, "level 1", string(data))
	assert.True(t, m.Loaded(asset.File("level.txt")))

	src, err := m.ShaderSource("flat.vert")
	require.NoError(t, err)
	assert.Equal(t, vertexSrc, src)

	_, err = m.File("missing.txt")
	assert.Error(t, err)
	assert.False(t, m.Loaded(asset.File("missing.txt")))
}

func TestProgram(t *testing.T) {
	m, _, _ := setup(t)
	p, err := m.Program("flat.vert", "flat.frag")
	require.NoError(t, err)
	assert.True(t, p.Linked())
	_, ok := p.Uniform("uProjection")
	assert.True(t, ok)
}

func TestTexture(t *testing.T) {
	m, _, f := setup(t)
	tx, err := m.Texture("box.png", glint.Filter(glint.Nearest, glint.Nearest))
	require.NoError(t, err)
	assert.Equal(t, image.Pt(16, 8), tx.Size())

	again, err := m.Texture("box.png")
	require.NoError(t, err)
	assert.Same(t, tx, again)
	assert.Equal(t, 1, f.Count("TexImage2D"))

	_, err = m.Texture("broken.png")
	assert.Error(t, err)

	_, err = m.Texture("level.txt")
	assert.Error(t, err)
}

func TestPreload(t *testing.T) {
	m, ctx, f := setup(t, asset.Workers(2))
	rc, n := m.Preload([]asset.Asset{
		asset.Texture("box.png"),
		asset.Texture("ball.png"),
		asset.File("level.txt"),
		asset.Font("Go-Regular.ttf"),
	}, false)
	assert.Equal(t, 4, n)
	require.NoError(t, asset.Wait(rc))

	// textures are uploaded on the context thread
	assert.Zero(t, f.Count("TexImage2D"))
	assert.Equal(t, 2, ctx.Dispatcher().Drain())
	assert.Equal(t, 2, f.Count("TexImage2D"))

	_, err := m.Texture("ball.png")
	require.NoError(t, err)
	assert.Equal(t, 2, f.Count("TexImage2D"))

	// already loaded assets are skipped
	rc, n = m.Preload([]asset.Asset{asset.File("level.txt")}, false)
	assert.Zero(t, n)
	require.NoError(t, asset.Wait(rc))
}

func TestPreloadErrors(t *testing.T) {
	m, _, _ := setup(t)
	rc, n := m.Preload([]asset.Asset{asset.Texture("broken.png"), asset.File("nope")}, false)
	assert.Equal(t, 2, n)
	err := asset.Wait(rc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.png")
	assert.Contains(t, err.Error(), "nope")
}

func TestPreloadFlush(t *testing.T) {
	m, _, _ := setup(t)
	_, err := m.File("level.txt")
	require.NoError(t, err)
	rc, _ := m.Preload([]asset.Asset{asset.Shader("flat.vert")}, true)
	require.NoError(t, asset.Wait(rc))
	assert.False(t, m.Loaded(asset.File("level.txt")))
	assert.True(t, m.Loaded(asset.Shader("flat.vert")))
}

func TestPreloadFlushReleasesEvicted(t *testing.T) {
	m, ctx, f := setup(t)
	box, err := m.Texture("box.png")
	require.NoError(t, err)
	f.Reset()

	rc, _ := m.Preload([]asset.Asset{asset.Texture("ball.png")}, true)
	require.NoError(t, asset.Wait(rc))
	assert.False(t, m.Loaded(asset.Texture("box.png")))
	assert.True(t, box.Disposed())
	assert.Equal(t, 1, f.Count("DeleteTexture"))

	assert.Equal(t, 1, ctx.Dispatcher().Drain())
	ball, err := m.Texture("ball.png")
	require.NoError(t, err)
	assert.False(t, ball.Disposed())
}

func TestPreloadLogsUnscheduledUpload(t *testing.T) {
	var buf bytes.Buffer
	lg := log.New(log.Options{Level: "warn", Writer: &buf})
	ctx, err := glint.NewDevice(nil).NewContext(gltest.New(), glint.WithLogger(lg))
	require.NoError(t, err)
	t.Cleanup(ctx.Release)

	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "box.png"), 2, 2)
	var ovl ofs.Overlay
	require.NoError(t, ovl.Add(false, dir))
	m := asset.NewManager(&ovl, ctx)
	t.Cleanup(func() { m.Close() })

	ctx.Dispatcher().Close()
	rc, _ := m.Preload([]asset.Asset{asset.Texture("box.png")}, false)
	require.NoError(t, asset.Wait(rc))
	assert.Contains(t, buf.String(), "texture upload not scheduled")
	assert.Contains(t, buf.String(), "box.png")
}

func TestLoadTextureFromGoroutine(t *testing.T) {
	m, ctx, _ := setup(t)
	type result struct {
		t   *glint.Texture
		err error
	}
	done := make(chan result, 1)
	go func() {
		tx, err := m.LoadTexture(context.Background(), "box.png")
		done <- result{tx, err}
	}()

	timeout := time.After(5 * time.Second)
	for {
		select {
		case r := <-done:
			require.NoError(t, r.err)
			assert.Equal(t, image.Pt(16, 8), r.t.Size())
			return
		case <-timeout:
			t.Fatal("LoadTexture did not complete")
		default:
			ctx.Dispatcher().Drain()
			time.Sleep(time.Millisecond)
		}
	}
}

func TestTextDrawer(t *testing.T) {
	m, _, _ := setup(t)
	d, err := m.TextDrawer("Go-Regular.ttf", 12, text.HintingFull, glint.Linear)
	require.NoError(t, err)
	again, err := m.TextDrawer("Go-Regular.ttf", 12, text.HintingFull, glint.Linear)
	require.NoError(t, err)
	assert.Same(t, d, again)
	other, err := m.TextDrawer("Go-Regular.ttf", 16, text.HintingFull, glint.Linear)
	require.NoError(t, err)
	assert.NotSame(t, d, other)
	assert.Positive(t, d.MeasureString("hello").Round())

	ttf, err := m.Font("Go-Regular.ttf")
	require.NoError(t, err)
	assert.NotNil(t, ttf)
}

func TestDiscard(t *testing.T) {
	m, _, _ := setup(t)
	tx, err := m.Texture("box.png")
	require.NoError(t, err)
	require.NoError(t, m.Discard(asset.Texture("box.png")))
	assert.True(t, tx.Disposed())
	assert.False(t, m.Loaded(asset.Texture("box.png")))

	err = m.Discard(asset.Texture("box.png"))
	assert.Equal(t, asset.ErrMissingAsset, errors.Cause(err))
}
