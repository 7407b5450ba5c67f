package glint

import (
	"fmt"

	"github.com/db47h/glint/gl"
	"github.com/pkg/errors"
)

// Contract violations. Functions detecting them panic with an error wrapping
// one of these; use errors.Cause to identify it.
//
var (
	ErrDisposed      = errors.New("object disposed")
	ErrImmutable     = errors.New("buffer storage is immutable")
	ErrOutOfBounds   = errors.New("write out of buffer bounds")
	ErrElemSize      = errors.New("element size mismatch")
	ErrLinked        = errors.New("program already linked")
	ErrNotLinked     = errors.New("program not linked")
	ErrContextClosed = errors.New("context released")
)

// ErrPrimaryExists is returned by Device.NewContext when asked to create a
// second primary context.
//
var ErrPrimaryExists = errors.New("a primary context already exists")

// CompileError is returned when a shader fails to compile. Log is the
// driver's info log, verbatim.
//
type CompileError struct {
	Stage ShaderStage
	Log   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s shader compilation failed: %s", e.Stage, e.Log)
}

// LinkError is returned when a program fails to link.
//
type LinkError struct {
	Log string
}

func (e *LinkError) Error() string {
	return "program link failed: " + e.Log
}

// FramebufferError is returned when a framebuffer is not complete.
//
type FramebufferError struct {
	Status gl.Enum
}

func (e *FramebufferError) Error() string {
	return fmt.Sprintf("framebuffer incomplete: status %#x", e.Status)
}

// UniformError reports an access to a uniform that the program does not
// have, either because it was never declared or because the shader compiler
// optimized it away.
//
type UniformError struct {
	Name     string
	Location int32
}

func (e *UniformError) Error() string {
	if e.Name != "" {
		return "unknown uniform " + e.Name
	}
	return fmt.Sprintf("invalid uniform location %d", e.Location)
}

func panicf(err error, format string, args ...any) {
	panic(errors.Wrapf(err, format, args...))
}
