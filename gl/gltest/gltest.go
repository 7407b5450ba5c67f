// Package gltest provides a fake gl.Functions that records every call and
// keeps enough object state to test code built on top of it without a GPU.
//
// Shader sources are scanned for uniform and attribute declarations; a
// source containing "#error" fails to compile with the rest of that line as
// its log.
package gltest

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/db47h/glint/gl"
)

// Call is a recorded device call.
type Call struct {
	Name string
	Args []any
}

func (c Call) String() string {
	return fmt.Sprintf("%s%v", c.Name, c.Args)
}

// Buffer is the device side of a buffer object.
type Buffer struct {
	Data      []byte
	Immutable bool
	Flags     gl.Enum
	Usage     gl.Enum
}

// Texture is the device side of a texture object.
type Texture struct {
	Width, Height int
	Pixels        []byte
	Params        map[gl.Enum]int
}

type shader struct {
	ty       gl.Enum
	src      string
	compiled bool
	log      string
}

type active struct {
	name string
	size int
	ty   gl.Enum
	loc  int32
}

type program struct {
	attached []gl.Handle
	linked   bool
	log      string
	attribs  []active
	uniforms []active
}

// Functions is a fake gl.Functions. The zero value is not usable; use New.
type Functions struct {
	// Calls lists every call in issue order.
	Calls []Call

	// Major and Minor are reported as the context version.
	Major, Minor int
	// Extensions lists the reported extensions.
	Extensions []string
	// TextureUnits is reported as MAX_COMBINED_TEXTURE_IMAGE_UNITS.
	TextureUnits int
	// FailLink, when set, makes every LinkProgram fail with that log.
	FailLink string
	// FramebufferStatus is returned by CheckFramebufferStatus.
	FramebufferStatus gl.Enum

	Buffers  map[gl.Handle]*Buffer
	Textures map[gl.Handle]*Texture
	// Draws lists every draw call in issue order.
	Draws []Draw

	next     gl.Handle
	bound    map[gl.Enum]gl.Handle
	unit     gl.Enum
	shaders  map[gl.Handle]*shader
	programs map[gl.Handle]*program
	program  gl.Handle
}

var _ gl.Functions = (*Functions)(nil)

// New returns a fake device reporting a GL 4.5 context.
func New() *Functions {
	return &Functions{
		Major:             4,
		Minor:             5,
		TextureUnits:      16,
		FramebufferStatus: gl.FRAMEBUFFER_COMPLETE,
		Buffers:           make(map[gl.Handle]*Buffer),
		Textures:          make(map[gl.Handle]*Texture),
		bound:             make(map[gl.Enum]gl.Handle),
		unit:              gl.TEXTURE0,
		shaders:           make(map[gl.Handle]*shader),
		programs:          make(map[gl.Handle]*program),
	}
}

// Reset clears the call and draw logs.
func (f *Functions) Reset() {
	f.Calls = f.Calls[:0]
	f.Draws = f.Draws[:0]
}

// Count returns the number of recorded calls named name.
func (f *Functions) Count(name string) int {
	n := 0
	for _, c := range f.Calls {
		if c.Name == name {
			n++
		}
	}
	return n
}

// Named returns the recorded calls named name.
func (f *Functions) Named(name string) []Call {
	var cs []Call
	for _, c := range f.Calls {
		if c.Name == name {
			cs = append(cs, c)
		}
	}
	return cs
}

// Bound returns the buffer currently bound to target.
func (f *Functions) Bound(target gl.Enum) gl.Handle { return f.bound[target] }

func (f *Functions) record(name string, args ...any) {
	f.Calls = append(f.Calls, Call{Name: name, Args: args})
}

func (f *Functions) newHandle() gl.Handle {
	f.next++
	return f.next
}

func (f *Functions) GetError() gl.Enum { return gl.NO_ERROR }

func (f *Functions) GetInteger(pname gl.Enum) int {
	switch pname {
	case gl.MAJOR_VERSION:
		return f.Major
	case gl.MINOR_VERSION:
		return f.Minor
	case gl.NUM_EXTENSIONS:
		return len(f.Extensions)
	case gl.MAX_COMBINED_TEXTURE_IMAGE_UNITS:
		return f.TextureUnits
	case gl.MAX_TEXTURE_SIZE:
		return 16384
	}
	return 0
}

func (f *Functions) GetString(pname gl.Enum) string {
	switch pname {
	case gl.VERSION:
		return fmt.Sprintf("%d.%d gltest", f.Major, f.Minor)
	case gl.RENDERER:
		return "gltest"
	}
	return ""
}

func (f *Functions) GetStringi(pname gl.Enum, index int) string {
	if pname == gl.EXTENSIONS && index < len(f.Extensions) {
		return f.Extensions[index]
	}
	return ""
}

func (f *Functions) Enable(cap gl.Enum)  { f.record("Enable", cap) }
func (f *Functions) Disable(cap gl.Enum) { f.record("Disable", cap) }

func (f *Functions) BlendFunc(sfactor, dfactor gl.Enum) { f.record("BlendFunc", sfactor, dfactor) }

func (f *Functions) Viewport(x, y, width, height int) { f.record("Viewport", x, y, width, height) }
func (f *Functions) Scissor(x, y, width, height int)  { f.record("Scissor", x, y, width, height) }

func (f *Functions) ClearColor(r, g, b, a float32) { f.record("ClearColor", r, g, b, a) }
func (f *Functions) Clear(mask gl.Enum)            { f.record("Clear", mask) }

func (f *Functions) CreateBuffer() gl.Handle {
	h := f.newHandle()
	f.Buffers[h] = new(Buffer)
	f.record("CreateBuffer", h)
	return h
}

func (f *Functions) DeleteBuffer(b gl.Handle) {
	f.record("DeleteBuffer", b)
	delete(f.Buffers, b)
	for t, h := range f.bound {
		if h == b {
			delete(f.bound, t)
		}
	}
}

func (f *Functions) BindBuffer(target gl.Enum, b gl.Handle) {
	f.record("BindBuffer", target, b)
	f.bound[target] = b
}

func (f *Functions) target(target gl.Enum) *Buffer {
	b := f.Buffers[f.bound[target]]
	if b == nil {
		panic(fmt.Sprintf("gltest: no buffer bound to %#x", target))
	}
	return b
}

func (f *Functions) BufferData(target gl.Enum, size int, usage gl.Enum, data []byte) {
	f.record("BufferData", target, size, usage)
	b := f.target(target)
	if b.Immutable {
		panic("gltest: BufferData on immutable storage")
	}
	b.Data = make([]byte, size)
	copy(b.Data, data)
	b.Usage = usage
}

func (f *Functions) BufferStorage(target gl.Enum, size int, data []byte, flags gl.Enum) {
	f.record("BufferStorage", target, size, flags)
	b := f.target(target)
	if b.Immutable {
		panic("gltest: BufferStorage on immutable storage")
	}
	b.Data = make([]byte, size)
	copy(b.Data, data)
	b.Immutable = true
	b.Flags = flags
}

func (f *Functions) BufferSubData(target gl.Enum, offset int, src []byte) {
	f.record("BufferSubData", target, offset, len(src))
	b := f.target(target)
	if b.Immutable && b.Flags&gl.DYNAMIC_STORAGE_BIT == 0 {
		panic("gltest: BufferSubData on non dynamic immutable storage")
	}
	if offset+len(src) > len(b.Data) {
		panic("gltest: BufferSubData out of range")
	}
	copy(b.Data[offset:], src)
}

func (f *Functions) CreateTexture() gl.Handle {
	h := f.newHandle()
	f.Textures[h] = &Texture{Params: make(map[gl.Enum]int)}
	f.record("CreateTexture", h)
	return h
}

func (f *Functions) DeleteTexture(t gl.Handle) {
	f.record("DeleteTexture", t)
	delete(f.Textures, t)
}

func (f *Functions) ActiveTexture(unit gl.Enum) {
	f.record("ActiveTexture", unit)
	f.unit = unit
}

func (f *Functions) BindTexture(target gl.Enum, t gl.Handle) {
	f.record("BindTexture", target, t)
	f.bound[f.unit] = t
}

func (f *Functions) boundTexture() *Texture {
	t := f.Textures[f.bound[f.unit]]
	if t == nil {
		panic("gltest: no texture bound")
	}
	return t
}

// unpackBuffer returns the buffer bound to PIXEL_UNPACK_BUFFER, or nil. While
// one is bound, pixel transfers read from it and client data is invalid.
func (f *Functions) unpackBuffer() *Buffer {
	return f.Buffers[f.bound[gl.PIXEL_UNPACK_BUFFER]]
}

func (f *Functions) TexImage2D(target gl.Enum, level int, internalFormat gl.Enum, width, height int, format, ty gl.Enum, data []byte) {
	f.record("TexImage2D", target, level, internalFormat, width, height)
	if f.unpackBuffer() != nil {
		panic("gltest: TexImage2D with a pixel unpack buffer bound")
	}
	t := f.boundTexture()
	if level == 0 {
		t.Width, t.Height = width, height
		t.Pixels = make([]byte, width*height*4)
		copy(t.Pixels, data)
	}
}

func (f *Functions) TexSubImage2D(target gl.Enum, level, x, y, width, height int, format, ty gl.Enum, data []byte) {
	f.record("TexSubImage2D", target, level, x, y, width, height)
	t := f.boundTexture()
	if pb := f.unpackBuffer(); pb != nil {
		if data != nil {
			panic("gltest: TexSubImage2D with client pixels and a pixel unpack buffer bound")
		}
		data = pb.Data
	}
	if level != 0 || data == nil {
		return
	}
	for j := 0; j < height; j++ {
		copy(t.Pixels[((y+j)*t.Width+x)*4:], data[j*width*4:(j+1)*width*4])
	}
}

func (f *Functions) TexParameteri(target, pname gl.Enum, param int) {
	f.record("TexParameteri", target, pname, param)
	f.boundTexture().Params[pname] = param
}

func (f *Functions) TexParameterfv(target, pname gl.Enum, params []float32) {
	f.record("TexParameterfv", target, pname, append([]float32(nil), params...))
}

func (f *Functions) GenerateMipmap(target gl.Enum) { f.record("GenerateMipmap", target) }

func (f *Functions) CreateFramebuffer() gl.Handle {
	h := f.newHandle()
	f.record("CreateFramebuffer", h)
	return h
}

func (f *Functions) DeleteFramebuffer(fb gl.Handle) { f.record("DeleteFramebuffer", fb) }

func (f *Functions) BindFramebuffer(target gl.Enum, fb gl.Handle) {
	f.record("BindFramebuffer", target, fb)
}

func (f *Functions) FramebufferTexture2D(target, attachment, texTarget gl.Enum, t gl.Handle, level int) {
	f.record("FramebufferTexture2D", target, attachment, texTarget, t, level)
}

func (f *Functions) CheckFramebufferStatus(target gl.Enum) gl.Enum {
	f.record("CheckFramebufferStatus", target)
	return f.FramebufferStatus
}

func (f *Functions) CreateShader(ty gl.Enum) gl.Handle {
	h := f.newHandle()
	f.shaders[h] = &shader{ty: ty}
	f.record("CreateShader", ty, h)
	return h
}

func (f *Functions) ShaderSource(s gl.Handle, src string) {
	f.record("ShaderSource", s)
	f.shaders[s].src = src
}

func (f *Functions) CompileShader(s gl.Handle) {
	f.record("CompileShader", s)
	sh := f.shaders[s]
	if i := strings.Index(sh.src, "#error"); i >= 0 {
		msg := sh.src[i+len("#error"):]
		if j := strings.IndexByte(msg, '\n'); j >= 0 {
			msg = msg[:j]
		}
		sh.log = "ERROR: 0:1: " + strings.TrimSpace(msg)
		return
	}
	sh.compiled = true
}

func (f *Functions) GetShaderi(s gl.Handle, pname gl.Enum) int {
	if pname == gl.COMPILE_STATUS && f.shaders[s].compiled {
		return gl.TRUE
	}
	return gl.FALSE
}

func (f *Functions) GetShaderInfoLog(s gl.Handle) string { return f.shaders[s].log }

func (f *Functions) DeleteShader(s gl.Handle) {
	f.record("DeleteShader", s)
	delete(f.shaders, s)
}

func (f *Functions) CreateProgram() gl.Handle {
	h := f.newHandle()
	f.programs[h] = new(program)
	f.record("CreateProgram", h)
	return h
}

func (f *Functions) AttachShader(p, s gl.Handle) {
	f.record("AttachShader", p, s)
	pr := f.programs[p]
	pr.attached = append(pr.attached, s)
}

func (f *Functions) DetachShader(p, s gl.Handle) {
	f.record("DetachShader", p, s)
	pr := f.programs[p]
	for i, h := range pr.attached {
		if h == s {
			pr.attached = append(pr.attached[:i], pr.attached[i+1:]...)
			return
		}
	}
}

var (
	reUniform = regexp.MustCompile(`(?m)^\s*(?:layout\s*\([^)]*\)\s*)?uniform\s+(\w+)\s+(\w+)\s*(?:\[(\d+)\])?\s*;`)
	reAttrib  = regexp.MustCompile(`(?m)^\s*(?:layout\s*\([^)]*\)\s*)?(?:in|attribute)\s+(\w+)\s+(\w+)\s*;`)
)

var glslTypes = map[string]gl.Enum{
	"bool":      gl.BOOL,
	"int":       gl.INT,
	"float":     gl.FLOAT,
	"double":    gl.DOUBLE,
	"vec2":      gl.FLOAT_VEC2,
	"vec3":      gl.FLOAT_VEC3,
	"vec4":      gl.FLOAT_VEC4,
	"mat3x2":    gl.FLOAT_MAT3x2,
	"mat4":      gl.FLOAT_MAT4,
	"sampler2D": gl.SAMPLER_2D,
}

func (f *Functions) LinkProgram(p gl.Handle) {
	f.record("LinkProgram", p)
	pr := f.programs[p]
	if f.FailLink != "" {
		pr.log = f.FailLink
		return
	}
	var loc, aloc int32
	seen := make(map[string]bool)
	for _, s := range pr.attached {
		sh := f.shaders[s]
		if !sh.compiled {
			pr.log = "ERROR: attached shader not compiled"
			return
		}
		for _, m := range reUniform.FindAllStringSubmatch(sh.src, -1) {
			name, size := m[2], 1
			if seen[name] {
				continue
			}
			seen[name] = true
			if m[3] != "" {
				size, _ = strconv.Atoi(m[3])
				name += "[0]"
			}
			pr.uniforms = append(pr.uniforms, active{name: name, size: size, ty: glslTypes[m[1]], loc: loc})
			loc += int32(size)
		}
		if sh.ty != gl.VERTEX_SHADER {
			continue
		}
		for _, m := range reAttrib.FindAllStringSubmatch(sh.src, -1) {
			pr.attribs = append(pr.attribs, active{name: m[2], size: 1, ty: glslTypes[m[1]], loc: aloc})
			aloc++
		}
	}
	pr.linked = true
}

func (f *Functions) GetProgrami(p gl.Handle, pname gl.Enum) int {
	pr := f.programs[p]
	switch pname {
	case gl.LINK_STATUS:
		if pr.linked {
			return gl.TRUE
		}
		return gl.FALSE
	case gl.ACTIVE_UNIFORMS:
		return len(pr.uniforms)
	case gl.ACTIVE_ATTRIBUTES:
		return len(pr.attribs)
	}
	return 0
}

func (f *Functions) GetProgramInfoLog(p gl.Handle) string { return f.programs[p].log }

func (f *Functions) DeleteProgram(p gl.Handle) {
	f.record("DeleteProgram", p)
	delete(f.programs, p)
}

func (f *Functions) UseProgram(p gl.Handle) {
	f.record("UseProgram", p)
	f.program = p
}

func (f *Functions) GetActiveAttrib(p gl.Handle, index int) (string, int, gl.Enum) {
	a := f.programs[p].attribs[index]
	return a.name, a.size, a.ty
}

func (f *Functions) GetActiveUniform(p gl.Handle, index int) (string, int, gl.Enum) {
	u := f.programs[p].uniforms[index]
	return u.name, u.size, u.ty
}

func (f *Functions) GetAttribLocation(p gl.Handle, name string) int32 {
	for _, a := range f.programs[p].attribs {
		if a.name == name {
			return a.loc
		}
	}
	return -1
}

func (f *Functions) GetUniformLocation(p gl.Handle, name string) int32 {
	base, idx := name, 0
	if i := strings.IndexByte(name, '['); i >= 0 && strings.HasSuffix(name, "]") {
		base = name[:i]
		idx, _ = strconv.Atoi(name[i+1 : len(name)-1])
	}
	for _, u := range f.programs[p].uniforms {
		if strings.TrimSuffix(u.name, "[0]") == base && idx < u.size {
			return u.loc + int32(idx)
		}
	}
	return -1
}

func (f *Functions) Uniform1i(loc int32, v int32)                { f.record("Uniform1i", loc, v) }
func (f *Functions) Uniform1f(loc int32, v float32)              { f.record("Uniform1f", loc, v) }
func (f *Functions) Uniform1d(loc int32, v float64)              { f.record("Uniform1d", loc, v) }
func (f *Functions) Uniform2f(loc int32, v0, v1 float32)         { f.record("Uniform2f", loc, v0, v1) }
func (f *Functions) Uniform3f(loc int32, v0, v1, v2 float32)     { f.record("Uniform3f", loc, v0, v1, v2) }
func (f *Functions) Uniform4f(loc int32, v0, v1, v2, v3 float32) { f.record("Uniform4f", loc, v0, v1, v2, v3) }

func (f *Functions) UniformMatrix3x2fv(loc int32, v []float32) {
	f.record("UniformMatrix3x2fv", loc, append([]float32(nil), v...))
}

func (f *Functions) UniformMatrix4fv(loc int32, v []float32) {
	f.record("UniformMatrix4fv", loc, append([]float32(nil), v...))
}

func (f *Functions) CreateVertexArray() gl.Handle {
	h := f.newHandle()
	f.record("CreateVertexArray", h)
	return h
}

func (f *Functions) DeleteVertexArray(a gl.Handle) { f.record("DeleteVertexArray", a) }
func (f *Functions) BindVertexArray(a gl.Handle)   { f.record("BindVertexArray", a) }

func (f *Functions) EnableVertexAttribArray(a uint32) { f.record("EnableVertexAttribArray", a) }

func (f *Functions) VertexAttribPointer(a uint32, size int, ty gl.Enum, normalized bool, stride, offset int) {
	f.record("VertexAttribPointer", a, size, ty, normalized, stride, offset)
}

func (f *Functions) DrawArrays(mode gl.Enum, first, count int) {
	f.record("DrawArrays", mode, first, count)
	f.draw(mode, first, count, 0)
}

func (f *Functions) DrawElements(mode gl.Enum, count int, ty gl.Enum, offset int) {
	f.record("DrawElements", mode, count, ty, offset)
	f.draw(mode, offset, count, ty)
}

// Draw is a snapshot of the state a draw call was issued with.
type Draw struct {
	Mode    gl.Enum
	First   int // first vertex for DrawArrays, byte offset for DrawElements
	Count   int
	Type    gl.Enum // index type, 0 for DrawArrays
	Program gl.Handle
	Texture gl.Handle // texture bound to unit 0
	// Copies of the array and element buffer contents at draw time.
	Vertices []byte
	Indices  []byte
}

func (f *Functions) draw(mode gl.Enum, first, count int, ty gl.Enum) {
	d := Draw{
		Mode:    mode,
		First:   first,
		Count:   count,
		Type:    ty,
		Program: f.program,
		Texture: f.bound[gl.TEXTURE0],
	}
	if b := f.Buffers[f.bound[gl.ARRAY_BUFFER]]; b != nil {
		d.Vertices = append([]byte(nil), b.Data...)
	}
	if b := f.Buffers[f.bound[gl.ELEMENT_ARRAY_BUFFER]]; b != nil && ty != 0 {
		d.Indices = append([]byte(nil), b.Data...)
	}
	f.Draws = append(f.Draws, d)
}
