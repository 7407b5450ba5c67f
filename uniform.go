package glint

type (
	Vec2   [2]float32
	Vec3   [3]float32
	Vec4   [4]float32
	Mat3x2 [6]float32 // column major, 3 columns of 2 rows
)

// UniformValue lists the types accepted by the uniform setters.
//
type UniformValue interface {
	bool | int32 | float32 | float64 | Vec2 | Vec3 | Vec4 | Mat3x2 | Mat4
}

func (p *Program) mustUniform(name string) int32 {
	u, ok := p.Uniform(name)
	if !ok {
		panic(&UniformError{Name: name})
	}
	return u.Location
}

// SetUniform sets the value of the named uniform. The program is made current
// if it is not. It panics if the program has no such active uniform.
//
func SetUniform[T UniformValue](p *Program, name string, v T) {
	upload(p, p.mustUniform(name), &v)
}

// SetUniformPtr is like SetUniform but takes the value by reference.
//
func SetUniformPtr[T UniformValue](p *Program, name string, v *T) {
	upload(p, p.mustUniform(name), v)
}

// TrySetUniform sets the value of the named uniform if the program has it and
// reports whether it did. Nothing is sent to the device when it returns false.
//
func TrySetUniform[T UniformValue](p *Program, name string, v T) bool {
	u, ok := p.Uniform(name)
	if !ok {
		return false
	}
	upload(p, u.Location, &v)
	return true
}

// SetUniformAt sets the value of the uniform at location loc. It panics if loc
// is not the location of an active uniform.
//
func SetUniformAt[T UniformValue](p *Program, loc int32, v T) {
	p.checkLinked("SetUniformAt")
	if !p.ValidLocation(loc) {
		panic(&UniformError{Location: loc})
	}
	upload(p, loc, &v)
}

// TrySetUniformAt is like SetUniformAt but reports a missing location instead
// of panicking.
//
func TrySetUniformAt[T UniformValue](p *Program, loc int32, v T) bool {
	p.checkLinked("TrySetUniformAt")
	if !p.ValidLocation(loc) {
		return false
	}
	upload(p, loc, &v)
	return true
}

func upload[T UniformValue](p *Program, loc int32, v *T) {
	p.ctx.BindProgram(p)
	f := p.ctx.fns
	switch v := any(v).(type) {
	case *bool:
		var i int32
		if *v {
			i = 1
		}
		f.Uniform1i(loc, i)
	case *int32:
		f.Uniform1i(loc, *v)
	case *float32:
		f.Uniform1f(loc, *v)
	case *float64:
		f.Uniform1d(loc, *v)
	case *Vec2:
		f.Uniform2f(loc, v[0], v[1])
	case *Vec3:
		f.Uniform3f(loc, v[0], v[1], v[2])
	case *Vec4:
		f.Uniform4f(loc, v[0], v[1], v[2], v[3])
	case *Mat3x2:
		f.UniformMatrix3x2fv(loc, v[:])
	case *Mat4:
		f.UniformMatrix4fv(loc, v[:])
	}
}
