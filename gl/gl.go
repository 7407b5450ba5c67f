// Package gl defines the OpenGL device interface used by glint together with
// the handful of enums and types shared by its implementations.
//
// Functions is intentionally thin: each method maps to a single GL entry
// point. The real implementation lives in gl/glcore, a recording fake for
// tests in gl/gltest.
package gl

type (
	// Handle is the name of a GPU object. The zero Handle means no object.
	Handle uint32
	// Enum is a GL enumeration value.
	Enum uint32
)

// Valid returns true if h is not the zero handle.
func (h Handle) Valid() bool { return h != 0 }

const (
	ACTIVE_ATTRIBUTES                = 0x8b89
	ACTIVE_UNIFORMS                  = 0x8b86
	ARRAY_BUFFER                     = 0x8892
	BLEND                            = 0xbe2
	BOOL                             = 0x8b56
	CLAMP_TO_BORDER                  = 0x812d
	CLAMP_TO_EDGE                    = 0x812f
	CLIENT_STORAGE_BIT               = 0x0200
	COLOR_ATTACHMENT0                = 0x8ce0
	COLOR_BUFFER_BIT                 = 0x4000
	COMPILE_STATUS                   = 0x8b81
	COMPUTE_SHADER                   = 0x91b9
	CULL_FACE                        = 0xb44
	DEPTH_BUFFER_BIT                 = 0x100
	DEPTH_TEST                       = 0xb71
	DOUBLE                           = 0x140a
	DYNAMIC_DRAW                     = 0x88e8
	DYNAMIC_STORAGE_BIT              = 0x0100
	ELEMENT_ARRAY_BUFFER             = 0x8893
	EXTENSIONS                       = 0x1f03
	FALSE                            = 0
	FLOAT                            = 0x1406
	FLOAT_MAT3x2                     = 0x8b67
	FLOAT_MAT4                       = 0x8b5c
	FLOAT_VEC2                       = 0x8b50
	FLOAT_VEC3                       = 0x8b51
	FLOAT_VEC4                       = 0x8b52
	FRAGMENT_SHADER                  = 0x8b30
	FRAMEBUFFER                      = 0x8d40
	FRAMEBUFFER_COMPLETE             = 0x8cd5
	GEOMETRY_SHADER                  = 0x8dd9
	INT                              = 0x1404
	LINEAR                           = 0x2601
	LINEAR_MIPMAP_LINEAR             = 0x2703
	LINEAR_MIPMAP_NEAREST            = 0x2701
	LINES                            = 0x1
	LINK_STATUS                      = 0x8b82
	MAJOR_VERSION                    = 0x821b
	MAP_COHERENT_BIT                 = 0x0080
	MAP_PERSISTENT_BIT               = 0x0040
	MAP_READ_BIT                     = 0x0001
	MAP_WRITE_BIT                    = 0x0002
	MAX_COMBINED_TEXTURE_IMAGE_UNITS = 0x8b4d
	MAX_TEXTURE_SIZE                 = 0xd33
	MINOR_VERSION                    = 0x821c
	MIRRORED_REPEAT                  = 0x8370
	NEAREST                          = 0x2600
	NEAREST_MIPMAP_LINEAR            = 0x2702
	NEAREST_MIPMAP_NEAREST           = 0x2700
	NO_ERROR                         = 0
	NUM_EXTENSIONS                   = 0x821d
	ONE                              = 0x1
	ONE_MINUS_SRC_ALPHA              = 0x303
	PIXEL_UNPACK_BUFFER              = 0x88ec
	POINTS                           = 0x0
	RENDERER                         = 0x1f01
	REPEAT                           = 0x2901
	RGBA                             = 0x1908
	RGBA8                            = 0x8058
	SAMPLER_2D                       = 0x8b5e
	SCISSOR_TEST                     = 0xc11
	SRC_ALPHA                        = 0x302
	STATIC_DRAW                      = 0x88e4
	STREAM_DRAW                      = 0x88e0
	TEXTURE0                         = 0x84c0
	TEXTURE_2D                       = 0xde1
	TEXTURE_BORDER_COLOR             = 0x1004
	TEXTURE_MAG_FILTER               = 0x2800
	TEXTURE_MIN_FILTER               = 0x2801
	TEXTURE_WRAP_S                   = 0x2802
	TEXTURE_WRAP_T                   = 0x2803
	TRIANGLES                        = 0x4
	TRUE                             = 1
	UNPACK_ALIGNMENT                 = 0xcf5
	UNSIGNED_BYTE                    = 0x1401
	UNSIGNED_INT                     = 0x1405
	UNSIGNED_SHORT                   = 0x1403
	VERSION                          = 0x1f02
	VERTEX_SHADER                    = 0x8b31
)

// Functions is the immediate-mode device command interface.
//
// Data arguments are raw bytes; a nil data slice in TexImage2D or
// TexSubImage2D sources pixels from the bound pixel unpack buffer at offset 0.
type Functions interface {
	GetError() Enum
	GetInteger(pname Enum) int
	GetString(pname Enum) string
	GetStringi(pname Enum, index int) string

	Enable(cap Enum)
	Disable(cap Enum)
	BlendFunc(sfactor, dfactor Enum)
	Viewport(x, y, width, height int)
	Scissor(x, y, width, height int)
	ClearColor(r, g, b, a float32)
	Clear(mask Enum)

	CreateBuffer() Handle
	DeleteBuffer(b Handle)
	BindBuffer(target Enum, b Handle)
	BufferData(target Enum, size int, usage Enum, data []byte)
	BufferStorage(target Enum, size int, data []byte, flags Enum)
	BufferSubData(target Enum, offset int, src []byte)

	CreateTexture() Handle
	DeleteTexture(t Handle)
	ActiveTexture(unit Enum)
	BindTexture(target Enum, t Handle)
	TexImage2D(target Enum, level int, internalFormat Enum, width, height int, format, ty Enum, data []byte)
	TexSubImage2D(target Enum, level, x, y, width, height int, format, ty Enum, data []byte)
	TexParameteri(target, pname Enum, param int)
	TexParameterfv(target, pname Enum, params []float32)
	GenerateMipmap(target Enum)

	CreateFramebuffer() Handle
	DeleteFramebuffer(fb Handle)
	BindFramebuffer(target Enum, fb Handle)
	FramebufferTexture2D(target, attachment, texTarget Enum, t Handle, level int)
	CheckFramebufferStatus(target Enum) Enum

	CreateShader(ty Enum) Handle
	ShaderSource(s Handle, src string)
	CompileShader(s Handle)
	GetShaderi(s Handle, pname Enum) int
	GetShaderInfoLog(s Handle) string
	DeleteShader(s Handle)

	CreateProgram() Handle
	AttachShader(p, s Handle)
	DetachShader(p, s Handle)
	LinkProgram(p Handle)
	GetProgrami(p Handle, pname Enum) int
	GetProgramInfoLog(p Handle) string
	DeleteProgram(p Handle)
	UseProgram(p Handle)
	GetActiveAttrib(p Handle, index int) (name string, size int, ty Enum)
	GetActiveUniform(p Handle, index int) (name string, size int, ty Enum)
	GetAttribLocation(p Handle, name string) int32
	GetUniformLocation(p Handle, name string) int32

	Uniform1i(loc int32, v int32)
	Uniform1f(loc int32, v float32)
	Uniform1d(loc int32, v float64)
	Uniform2f(loc int32, v0, v1 float32)
	Uniform3f(loc int32, v0, v1, v2 float32)
	Uniform4f(loc int32, v0, v1, v2, v3 float32)
	UniformMatrix3x2fv(loc int32, v []float32)
	UniformMatrix4fv(loc int32, v []float32)

	CreateVertexArray() Handle
	DeleteVertexArray(a Handle)
	BindVertexArray(a Handle)
	EnableVertexAttribArray(a uint32)
	VertexAttribPointer(a uint32, size int, ty Enum, normalized bool, stride, offset int)

	DrawArrays(mode Enum, first, count int)
	DrawElements(mode Enum, count int, ty Enum, offset int)
}
