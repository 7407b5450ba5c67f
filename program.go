package glint

import (
	"strconv"
	"strings"

	"github.com/db47h/glint/gl"
	"github.com/pkg/errors"
)

// Attrib describes an active vertex attribute of a linked program.
//
type Attrib struct {
	Name     string
	Location int32
	Size     int
	Type     gl.Enum
}

// Uniform describes an active uniform of a linked program. Array uniforms
// are named without their [0] suffix and occupy Size consecutive locations.
//
type Uniform struct {
	Name     string
	Location int32
	Size     int
	Type     gl.Enum
}

type linkState int

const (
	unlinked linkState = iota
	linked
	linkFailed
)

// A Program is a shader program. Shaders are attached to an unlinked
// program, which is then linked exactly once. Attribute and uniform lookups
// are only available on linked programs.
//
type Program struct {
	resource
	shaders  []*Shader
	state    linkState
	attribs  map[string]Attrib
	uniforms map[string]Uniform
	valid    map[int32]struct{}
}

// NewProgram creates an empty, unlinked program.
//
func NewProgram(ctx *Context) *Program {
	ctx.checkLive("NewProgram")
	return &Program{resource: resource{ctx: ctx, h: ctx.fns.CreateProgram()}}
}

// LinkProgram creates a program with the given shaders attached and links it.
//
func LinkProgram(ctx *Context, shaders ...*Shader) (*Program, error) {
	p := NewProgram(ctx)
	for _, s := range shaders {
		p.Attach(s)
	}
	if err := p.Link(); err != nil {
		p.Dispose()
		return nil, err
	}
	return p, nil
}

// CompileProgram compiles a vertex and a fragment shader and links them in a
// new program. The shaders are disposed once linked.
//
func CompileProgram(ctx *Context, vertex, fragment string) (*Program, error) {
	vs, err := NewShader(ctx, VertexShader, vertex)
	if err != nil {
		return nil, err
	}
	defer vs.Dispose()
	fs, err := NewShader(ctx, FragmentShader, fragment)
	if err != nil {
		return nil, err
	}
	defer fs.Dispose()
	return LinkProgram(ctx, vs, fs)
}

func (p *Program) checkUnlinked(op string) {
	if p.disposed {
		panicf(ErrDisposed, "%s on program %d", op, p.h)
	}
	if p.state != unlinked {
		panicf(ErrLinked, "%s on program %d", op, p.h)
	}
}

func (p *Program) checkLinked(op string) {
	if p.disposed {
		panicf(ErrDisposed, "%s on program %d", op, p.h)
	}
	if p.state != linked {
		panicf(ErrNotLinked, "%s on program %d", op, p.h)
	}
}

func (p *Program) attached(s *Shader) int {
	for i, a := range p.shaders {
		if a == s {
			return i
		}
	}
	return -1
}

// Attach attaches a shader. It panics if the program is already linked or if
// s is already attached.
//
func (p *Program) Attach(s *Shader) {
	p.checkUnlinked("Attach")
	if p.attached(s) >= 0 {
		panic(errors.Errorf("glint: %s shader %d already attached to program %d", s.stage, s.h, p.h))
	}
	p.ctx.fns.AttachShader(p.h, s.h)
	p.shaders = append(p.shaders, s)
}

// Detach detaches a shader. It panics if the program is already linked or if
// s is not attached.
//
func (p *Program) Detach(s *Shader) {
	p.checkUnlinked("Detach")
	i := p.attached(s)
	if i < 0 {
		panic(errors.Errorf("glint: %s shader %d not attached to program %d", s.stage, s.h, p.h))
	}
	p.ctx.fns.DetachShader(p.h, s.h)
	p.shaders = append(p.shaders[:i], p.shaders[i+1:]...)
}

// Link links the program. It returns a *LinkError carrying the driver's log
// if linking fails. A program can only be linked once, successfully or not;
// calling Link again panics.
//
func (p *Program) Link() error {
	p.checkUnlinked("Link")
	f := p.ctx.fns
	f.LinkProgram(p.h)
	if f.GetProgrami(p.h, gl.LINK_STATUS) == gl.FALSE {
		p.state = linkFailed
		err := &LinkError{Log: f.GetProgramInfoLog(p.h)}
		p.ctx.log.Error("program link failed", "program", int(p.h), "log", err.Log)
		return errors.WithStack(err)
	}
	p.state = linked
	for _, s := range p.shaders {
		f.DetachShader(p.h, s.h)
	}
	p.shaders = nil

	n := f.GetProgrami(p.h, gl.ACTIVE_ATTRIBUTES)
	p.attribs = make(map[string]Attrib, n)
	for i := 0; i < n; i++ {
		name, size, ty := f.GetActiveAttrib(p.h, i)
		p.attribs[name] = Attrib{Name: name, Location: f.GetAttribLocation(p.h, name), Size: size, Type: ty}
	}

	n = f.GetProgrami(p.h, gl.ACTIVE_UNIFORMS)
	p.uniforms = make(map[string]Uniform, n)
	p.valid = make(map[int32]struct{}, n)
	for i := 0; i < n; i++ {
		name, size, ty := f.GetActiveUniform(p.h, i)
		loc := f.GetUniformLocation(p.h, name)
		if loc < 0 {
			// uniform block members
			continue
		}
		name = strings.TrimSuffix(name, "[0]")
		p.uniforms[name] = Uniform{Name: name, Location: loc, Size: size, Type: ty}
		for j := 0; j < size; j++ {
			p.valid[loc+int32(j)] = struct{}{}
		}
	}
	p.ctx.log.Debug("program linked", "program", int(p.h), "attribs", len(p.attribs), "uniforms", len(p.uniforms))
	return nil
}

// Linked returns true if the program has been successfully linked.
//
func (p *Program) Linked() bool { return p.state == linked }

// Attrib returns the active attribute with the given name.
//
func (p *Program) Attrib(name string) (Attrib, bool) {
	p.checkLinked("Attrib")
	a, ok := p.attribs[name]
	return a, ok
}

// AttribLocation returns the location of the named attribute. It panics if
// the program has no such active attribute.
//
func (p *Program) AttribLocation(name string) uint32 {
	a, ok := p.Attrib(name)
	if !ok {
		panic(errors.Errorf("glint: unknown attribute %s", name))
	}
	return uint32(a.Location)
}

// Uniform returns the active uniform with the given name. Elements of array
// uniforms can be looked up as name[i].
//
func (p *Program) Uniform(name string) (Uniform, bool) {
	p.checkLinked("Uniform")
	if u, ok := p.uniforms[name]; ok {
		return u, true
	}
	i := strings.IndexByte(name, '[')
	if i < 0 || !strings.HasSuffix(name, "]") {
		return Uniform{}, false
	}
	idx, err := strconv.Atoi(name[i+1 : len(name)-1])
	u, ok := p.uniforms[name[:i]]
	if err != nil || !ok || idx < 0 || idx >= u.Size {
		return Uniform{}, false
	}
	return Uniform{Name: name, Location: u.Location + int32(idx), Size: 1, Type: u.Type}, true
}

// Uniforms returns the number of active uniforms.
//
func (p *Program) Uniforms() int { return len(p.uniforms) }

// ValidLocation returns true if loc is the location of an active uniform.
//
func (p *Program) ValidLocation(loc int32) bool {
	_, ok := p.valid[loc]
	return ok
}

// Bind makes the program current.
//
func (p *Program) Bind() {
	p.ctx.BindProgram(p)
}

// Unbind uninstalls the program if it is current.
//
func (p *Program) Unbind() {
	p.ctx.UnbindProgram(p)
}

// Dispose deletes the program. It is safe to call Dispose more than once.
//
func (p *Program) Dispose() {
	if p.disposed {
		return
	}
	release(p)
	p.ctx.fns.DeleteProgram(p.h)
}
