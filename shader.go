package glint

import (
	"github.com/db47h/glint/gl"
	"github.com/pkg/errors"
)

// ShaderStage is the pipeline stage a shader runs at.
//
type ShaderStage int

const (
	VertexShader ShaderStage = iota
	FragmentShader
	GeometryShader
	ComputeShader
)

var shaderStages = [...]struct {
	name string
	ty   gl.Enum
}{
	VertexShader:   {"vertex", gl.VERTEX_SHADER},
	FragmentShader: {"fragment", gl.FRAGMENT_SHADER},
	GeometryShader: {"geometry", gl.GEOMETRY_SHADER},
	ComputeShader:  {"compute", gl.COMPUTE_SHADER},
}

func (s ShaderStage) String() string { return shaderStages[s].name }

// A Shader is a compiled shader object, ready to be attached to a Program.
//
type Shader struct {
	ctx      *Context
	h        gl.Handle
	stage    ShaderStage
	disposed bool
}

// NewShader compiles src for the given stage. It returns a *CompileError
// carrying the driver's log if compilation fails.
//
func NewShader(ctx *Context, stage ShaderStage, src string) (*Shader, error) {
	ctx.checkLive("NewShader")
	f := ctx.fns
	h := f.CreateShader(shaderStages[stage].ty)
	f.ShaderSource(h, src)
	f.CompileShader(h)
	if f.GetShaderi(h, gl.COMPILE_STATUS) == gl.FALSE {
		err := &CompileError{Stage: stage, Log: f.GetShaderInfoLog(h)}
		f.DeleteShader(h)
		ctx.log.Error("shader compilation failed", "stage", stage.String(), "log", err.Log)
		return nil, errors.WithStack(err)
	}
	return &Shader{ctx: ctx, h: h, stage: stage}, nil
}

// Stage returns the shader stage.
//
func (s *Shader) Stage() ShaderStage { return s.stage }

// Handle returns the shader's GPU handle.
//
func (s *Shader) Handle() gl.Handle { return s.h }

// Dispose flags the shader for deletion. Programs it is attached to keep
// working.
//
func (s *Shader) Dispose() {
	if s.disposed {
		return
	}
	s.disposed = true
	s.ctx.fns.DeleteShader(s.h)
}
