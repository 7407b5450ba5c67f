// Package glcore implements gl.Functions on top of an OpenGL 4.5 core
// profile context.
//
// Every call must be issued from the OS thread the context is current on.
package glcore

import (
	"unsafe"

	"github.com/db47h/glint/gl"
	gogl "github.com/go-gl/gl/v4.5-core/gl"
	"github.com/pkg/errors"
)

// Functions implements gl.Functions.
type Functions struct{}

var _ gl.Functions = (*Functions)(nil)

// New loads the GL entry points for the current context.
//
func New() (*Functions, error) {
	if err := gogl.Init(); err != nil {
		return nil, errors.Wrap(err, "gl init")
	}
	return new(Functions), nil
}

func ptr(data []byte) unsafe.Pointer {
	if len(data) == 0 {
		return nil
	}
	return unsafe.Pointer(&data[0])
}

func cstr(s string) *uint8 {
	return gogl.Str(s + "\x00")
}

func (*Functions) GetError() gl.Enum { return gl.Enum(gogl.GetError()) }

func (*Functions) GetInteger(pname gl.Enum) int {
	var v int32
	gogl.GetIntegerv(uint32(pname), &v)
	return int(v)
}

func (*Functions) GetString(pname gl.Enum) string {
	return gogl.GoStr(gogl.GetString(uint32(pname)))
}

func (*Functions) GetStringi(pname gl.Enum, index int) string {
	return gogl.GoStr(gogl.GetStringi(uint32(pname), uint32(index)))
}

func (*Functions) Enable(cap gl.Enum)  { gogl.Enable(uint32(cap)) }
func (*Functions) Disable(cap gl.Enum) { gogl.Disable(uint32(cap)) }

func (*Functions) BlendFunc(sfactor, dfactor gl.Enum) {
	gogl.BlendFunc(uint32(sfactor), uint32(dfactor))
}

func (*Functions) Viewport(x, y, width, height int) {
	gogl.Viewport(int32(x), int32(y), int32(width), int32(height))
}

func (*Functions) Scissor(x, y, width, height int) {
	gogl.Scissor(int32(x), int32(y), int32(width), int32(height))
}

func (*Functions) ClearColor(r, g, b, a float32) { gogl.ClearColor(r, g, b, a) }
func (*Functions) Clear(mask gl.Enum)            { gogl.Clear(uint32(mask)) }

func (*Functions) CreateBuffer() gl.Handle {
	var b uint32
	gogl.GenBuffers(1, &b)
	return gl.Handle(b)
}

func (*Functions) DeleteBuffer(b gl.Handle) {
	h := uint32(b)
	gogl.DeleteBuffers(1, &h)
}

func (*Functions) BindBuffer(target gl.Enum, b gl.Handle) {
	gogl.BindBuffer(uint32(target), uint32(b))
}

func (*Functions) BufferData(target gl.Enum, size int, usage gl.Enum, data []byte) {
	gogl.BufferData(uint32(target), size, ptr(data), uint32(usage))
}

func (*Functions) BufferStorage(target gl.Enum, size int, data []byte, flags gl.Enum) {
	gogl.BufferStorage(uint32(target), size, ptr(data), uint32(flags))
}

func (*Functions) BufferSubData(target gl.Enum, offset int, src []byte) {
	gogl.BufferSubData(uint32(target), offset, len(src), ptr(src))
}

func (*Functions) CreateTexture() gl.Handle {
	var t uint32
	gogl.GenTextures(1, &t)
	return gl.Handle(t)
}

func (*Functions) DeleteTexture(t gl.Handle) {
	h := uint32(t)
	gogl.DeleteTextures(1, &h)
}

func (*Functions) ActiveTexture(unit gl.Enum) { gogl.ActiveTexture(uint32(unit)) }

func (*Functions) BindTexture(target gl.Enum, t gl.Handle) {
	gogl.BindTexture(uint32(target), uint32(t))
}

func (*Functions) TexImage2D(target gl.Enum, level int, internalFormat gl.Enum, width, height int, format, ty gl.Enum, data []byte) {
	gogl.TexImage2D(uint32(target), int32(level), int32(internalFormat), int32(width), int32(height), 0, uint32(format), uint32(ty), ptr(data))
}

func (*Functions) TexSubImage2D(target gl.Enum, level, x, y, width, height int, format, ty gl.Enum, data []byte) {
	gogl.TexSubImage2D(uint32(target), int32(level), int32(x), int32(y), int32(width), int32(height), uint32(format), uint32(ty), ptr(data))
}

func (*Functions) TexParameteri(target, pname gl.Enum, param int) {
	gogl.TexParameteri(uint32(target), uint32(pname), int32(param))
}

func (*Functions) TexParameterfv(target, pname gl.Enum, params []float32) {
	gogl.TexParameterfv(uint32(target), uint32(pname), &params[0])
}

func (*Functions) GenerateMipmap(target gl.Enum) { gogl.GenerateMipmap(uint32(target)) }

func (*Functions) CreateFramebuffer() gl.Handle {
	var fb uint32
	gogl.GenFramebuffers(1, &fb)
	return gl.Handle(fb)
}

func (*Functions) DeleteFramebuffer(fb gl.Handle) {
	h := uint32(fb)
	gogl.DeleteFramebuffers(1, &h)
}

func (*Functions) BindFramebuffer(target gl.Enum, fb gl.Handle) {
	gogl.BindFramebuffer(uint32(target), uint32(fb))
}

func (*Functions) FramebufferTexture2D(target, attachment, texTarget gl.Enum, t gl.Handle, level int) {
	gogl.FramebufferTexture2D(uint32(target), uint32(attachment), uint32(texTarget), uint32(t), int32(level))
}

func (*Functions) CheckFramebufferStatus(target gl.Enum) gl.Enum {
	return gl.Enum(gogl.CheckFramebufferStatus(uint32(target)))
}

func (*Functions) CreateShader(ty gl.Enum) gl.Handle {
	return gl.Handle(gogl.CreateShader(uint32(ty)))
}

func (*Functions) ShaderSource(s gl.Handle, src string) {
	csrc, free := gogl.Strs(src + "\x00")
	defer free()
	gogl.ShaderSource(uint32(s), 1, csrc, nil)
}

func (*Functions) CompileShader(s gl.Handle) { gogl.CompileShader(uint32(s)) }

func (*Functions) GetShaderi(s gl.Handle, pname gl.Enum) int {
	var v int32
	gogl.GetShaderiv(uint32(s), uint32(pname), &v)
	return int(v)
}

func (*Functions) GetShaderInfoLog(s gl.Handle) string {
	var n int32
	gogl.GetShaderiv(uint32(s), gogl.INFO_LOG_LENGTH, &n)
	if n == 0 {
		return ""
	}
	buf := make([]uint8, n+1)
	gogl.GetShaderInfoLog(uint32(s), n, nil, &buf[0])
	return gogl.GoStr(&buf[0])
}

func (*Functions) DeleteShader(s gl.Handle) { gogl.DeleteShader(uint32(s)) }

func (*Functions) CreateProgram() gl.Handle { return gl.Handle(gogl.CreateProgram()) }

func (*Functions) AttachShader(p, s gl.Handle) { gogl.AttachShader(uint32(p), uint32(s)) }
func (*Functions) DetachShader(p, s gl.Handle) { gogl.DetachShader(uint32(p), uint32(s)) }
func (*Functions) LinkProgram(p gl.Handle)     { gogl.LinkProgram(uint32(p)) }

func (*Functions) GetProgrami(p gl.Handle, pname gl.Enum) int {
	var v int32
	gogl.GetProgramiv(uint32(p), uint32(pname), &v)
	return int(v)
}

func (*Functions) GetProgramInfoLog(p gl.Handle) string {
	var n int32
	gogl.GetProgramiv(uint32(p), gogl.INFO_LOG_LENGTH, &n)
	if n == 0 {
		return ""
	}
	buf := make([]uint8, n+1)
	gogl.GetProgramInfoLog(uint32(p), n, nil, &buf[0])
	return gogl.GoStr(&buf[0])
}

func (*Functions) DeleteProgram(p gl.Handle) { gogl.DeleteProgram(uint32(p)) }
func (*Functions) UseProgram(p gl.Handle)    { gogl.UseProgram(uint32(p)) }

const maxNameLen = 256

func (*Functions) GetActiveAttrib(p gl.Handle, index int) (string, int, gl.Enum) {
	var (
		n, size int32
		ty      uint32
		buf     [maxNameLen]uint8
	)
	gogl.GetActiveAttrib(uint32(p), uint32(index), maxNameLen, &n, &size, &ty, &buf[0])
	return string(buf[:n]), int(size), gl.Enum(ty)
}

func (*Functions) GetActiveUniform(p gl.Handle, index int) (string, int, gl.Enum) {
	var (
		n, size int32
		ty      uint32
		buf     [maxNameLen]uint8
	)
	gogl.GetActiveUniform(uint32(p), uint32(index), maxNameLen, &n, &size, &ty, &buf[0])
	return string(buf[:n]), int(size), gl.Enum(ty)
}

func (*Functions) GetAttribLocation(p gl.Handle, name string) int32 {
	return gogl.GetAttribLocation(uint32(p), cstr(name))
}

func (*Functions) GetUniformLocation(p gl.Handle, name string) int32 {
	return gogl.GetUniformLocation(uint32(p), cstr(name))
}

func (*Functions) Uniform1i(loc int32, v int32)                { gogl.Uniform1i(loc, v) }
func (*Functions) Uniform1f(loc int32, v float32)              { gogl.Uniform1f(loc, v) }
func (*Functions) Uniform1d(loc int32, v float64)              { gogl.Uniform1d(loc, v) }
func (*Functions) Uniform2f(loc int32, v0, v1 float32)         { gogl.Uniform2f(loc, v0, v1) }
func (*Functions) Uniform3f(loc int32, v0, v1, v2 float32)     { gogl.Uniform3f(loc, v0, v1, v2) }
func (*Functions) Uniform4f(loc int32, v0, v1, v2, v3 float32) { gogl.Uniform4f(loc, v0, v1, v2, v3) }

func (*Functions) UniformMatrix3x2fv(loc int32, v []float32) {
	gogl.UniformMatrix3x2fv(loc, int32(len(v)/6), false, &v[0])
}

func (*Functions) UniformMatrix4fv(loc int32, v []float32) {
	gogl.UniformMatrix4fv(loc, int32(len(v)/16), false, &v[0])
}

func (*Functions) CreateVertexArray() gl.Handle {
	var a uint32
	gogl.GenVertexArrays(1, &a)
	return gl.Handle(a)
}

func (*Functions) DeleteVertexArray(a gl.Handle) {
	h := uint32(a)
	gogl.DeleteVertexArrays(1, &h)
}

func (*Functions) BindVertexArray(a gl.Handle)      { gogl.BindVertexArray(uint32(a)) }
func (*Functions) EnableVertexAttribArray(a uint32) { gogl.EnableVertexAttribArray(a) }

func (*Functions) VertexAttribPointer(a uint32, size int, ty gl.Enum, normalized bool, stride, offset int) {
	gogl.VertexAttribPointer(a, int32(size), uint32(ty), normalized, int32(stride), gogl.PtrOffset(offset))
}

func (*Functions) DrawArrays(mode gl.Enum, first, count int) {
	gogl.DrawArrays(uint32(mode), int32(first), int32(count))
}

func (*Functions) DrawElements(mode gl.Enum, count int, ty gl.Enum, offset int) {
	gogl.DrawElements(uint32(mode), int32(count), uint32(ty), gogl.PtrOffset(offset))
}
