package asset

import (
	"io"

	"github.com/db47h/glint"
	"github.com/pkg/errors"
)

type file []byte

func loadFile(r io.Reader, name string) (interface{}, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return file(data), nil
}

func (m *Manager) file(a Asset) ([]byte, error) {
	m.m.Lock()
	defer m.m.Unlock()
	data, err := m.get(a)
	if err != nil {
		return nil, err
	}
	if f, ok := data.(file); ok {
		return f, nil
	}
	return nil, errors.Errorf("%s is not a raw file", a)
}

// File returns the contents of the named file asset. The returned slice is
// shared and must not be modified.
//
func (m *Manager) File(name string) ([]byte, error) {
	return m.file(File(name))
}

// ShaderSource returns the source text of the named shader asset.
//
func (m *Manager) ShaderSource(name string) (string, error) {
	data, err := m.file(Shader(name))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Program compiles and links a program from the named vertex and fragment
// shader assets.
//
func (m *Manager) Program(vertex, fragment string) (*glint.Program, error) {
	vs, err := m.ShaderSource(vertex)
	if err != nil {
		return nil, err
	}
	fs, err := m.ShaderSource(fragment)
	if err != nil {
		return nil, err
	}
	p, err := glint.CompileProgram(m.ctx, vs, fs)
	if err != nil {
		return nil, errors.Wrapf(err, "program %s+%s", vertex, fragment)
	}
	return p, nil
}
