package asset

import (
	"context"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/db47h/glint"
	"github.com/pkg/errors"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// texImage is a decoded texture not yet uploaded.
//
type texImage struct {
	img image.Image
}

func (*texImage) Close() error { return nil }

type tex glint.Texture

func (t *tex) Close() error {
	(*glint.Texture)(t).Dispose()
	return nil
}

func loadTexture(r io.Reader, name string) (interface{}, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	return &texImage{src}, nil
}

// upload replaces a decoded texture image with a texture. It must run on the
// context thread.
//
func (m *Manager) upload(a Asset, params ...glint.TextureParameter) (*glint.Texture, error) {
	m.m.Lock()
	defer m.m.Unlock()
	data, err := m.get(a)
	if err != nil {
		return nil, err
	}
	switch t := data.(type) {
	case *tex:
		tx := (*glint.Texture)(t)
		tx.Parameters(params...)
		return tx, nil
	case *texImage:
		tx := glint.NewTextureFromImage(m.ctx, t.img, params...)
		m.assets[a] = (*tex)(tx)
		m.ctx.Logger().Debugf("uploaded %s (%v)", a, tx.Size())
		return tx, nil
	}
	return nil, errors.Errorf("%s is not a texture", a)
}

// Texture returns the named texture, loading and uploading it if needed. The
// given parameters are applied to the texture. It must be called from the
// context thread.
//
func (m *Manager) Texture(name string, params ...glint.TextureParameter) (*glint.Texture, error) {
	return m.upload(Texture(name), params...)
}

// LoadTexture is like Texture but can be called from any goroutine. The image
// is decoded on the calling goroutine and uploaded on the context thread. It
// returns when the texture is ready, ctx is done, or the context's dispatcher
// is closed.
//
func (m *Manager) LoadTexture(ctx context.Context, name string, params ...glint.TextureParameter) (*glint.Texture, error) {
	a := Texture(name)
	m.m.Lock()
	_, err := m.get(a)
	m.m.Unlock()
	if err != nil {
		return nil, err
	}
	var t *glint.Texture
	err = m.ctx.Dispatcher().InvokeAndWait(ctx, func() (err error) {
		t, err = m.upload(a, params...)
		return err
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}
