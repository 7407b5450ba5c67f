package glint

import (
	"unsafe"

	"github.com/db47h/glint/gl"
)

// BufferKind selects the bind point of a Buffer.
//
type BufferKind int

const (
	VertexBuffer BufferKind = iota
	IndexBuffer
	PixelBuffer
)

var bufferKinds = [...]struct {
	name   string
	target gl.Enum
	bind   bindTarget
}{
	VertexBuffer: {"vertex", gl.ARRAY_BUFFER, bindVertexBuffer},
	IndexBuffer:  {"index", gl.ELEMENT_ARRAY_BUFFER, bindIndexBuffer},
	PixelBuffer:  {"pixel", gl.PIXEL_UNPACK_BUFFER, bindPixelBuffer},
}

func (k BufferKind) String() string { return bufferKinds[k].name }

// StorageFlags are the flags used for immutable buffer storage.
//
type StorageFlags gl.Enum

const (
	DynamicStorage StorageFlags = gl.DYNAMIC_STORAGE_BIT
	MapRead        StorageFlags = gl.MAP_READ_BIT
	MapWrite       StorageFlags = gl.MAP_WRITE_BIT
	MapPersistent  StorageFlags = gl.MAP_PERSISTENT_BIT
	MapCoherent    StorageFlags = gl.MAP_COHERENT_BIT
	ClientStorage  StorageFlags = gl.CLIENT_STORAGE_BIT
)

type bufferConfig struct {
	usage     gl.Enum
	immutable bool
	flags     StorageFlags
}

// BufferOption configures a new buffer.
//
type BufferOption interface {
	set(*bufferConfig)
}

type bufferOptionFunc func(*bufferConfig)

func (f bufferOptionFunc) set(c *bufferConfig) {
	f(c)
}

// Usage sets the usage hint of mutable buffers. The default is
// gl.STATIC_DRAW.
//
func Usage(usage gl.Enum) BufferOption {
	return bufferOptionFunc(func(c *bufferConfig) {
		c.usage = usage
	})
}

// Immutable requests a buffer whose size is fixed for its whole lifetime.
// Immutable buffers refuse SetData and only accept SubData when created with
// the DynamicStorage flag.
//
func Immutable() BufferOption {
	return bufferOptionFunc(func(c *bufferConfig) {
		c.immutable = true
	})
}

// Storage sets the storage flags of immutable buffers.
//
func Storage(flags StorageFlags) BufferOption {
	return bufferOptionFunc(func(c *bufferConfig) {
		c.flags = flags
	})
}

// A Buffer is a linear block of GPU memory holding vertex, index or pixel
// data.
//
// When immutable storage is requested but not supported by the device, the
// buffer falls back to mutable storage while keeping the same behavior.
//
type Buffer struct {
	resource
	kind      BufferKind
	size      int
	elemSize  int
	usage     gl.Enum
	immutable bool
	flags     StorageFlags
	storage   bool // device side immutable storage
}

func sizeOf[T any]() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}

func bytesOf[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(data))), len(data)*sizeOf[T]())
}

// NewBuffer creates a buffer of the given kind filled with data.
//
func NewBuffer[T any](ctx *Context, kind BufferKind, data []T, opts ...BufferOption) *Buffer {
	p := bytesOf(data)
	return newBuffer(ctx, kind, p, len(p), sizeOf[T](), opts)
}

// ReserveBuffer creates a buffer of size bytes with undefined contents.
// elemSize is the size of the buffer elements, used by Len.
//
func ReserveBuffer(ctx *Context, kind BufferKind, size, elemSize int, opts ...BufferOption) *Buffer {
	return newBuffer(ctx, kind, nil, size, elemSize, opts)
}

func newBuffer(ctx *Context, kind BufferKind, data []byte, size, elemSize int, opts []BufferOption) *Buffer {
	cfg := bufferConfig{usage: gl.STATIC_DRAW}
	for _, o := range opts {
		o.set(&cfg)
	}
	ctx.checkLive("NewBuffer")
	b := &Buffer{
		resource:  resource{ctx: ctx, h: ctx.fns.CreateBuffer()},
		kind:      kind,
		size:      size,
		elemSize:  elemSize,
		usage:     cfg.usage,
		immutable: cfg.immutable,
		flags:     cfg.flags,
		storage:   cfg.immutable && ctx.caps.BufferStorage,
	}
	b.Bind()
	if b.storage {
		ctx.fns.BufferStorage(b.target(), size, data, gl.Enum(cfg.flags))
	} else {
		ctx.fns.BufferData(b.target(), size, cfg.usage, data)
	}
	return b
}

func (b *Buffer) target() gl.Enum { return bufferKinds[b.kind].target }

func (b *Buffer) checkDisposed(op string) {
	if b.disposed {
		panicf(ErrDisposed, "%s on %s buffer %d", op, b.kind, b.h)
	}
}

// Kind returns the buffer kind.
//
func (b *Buffer) Kind() BufferKind { return b.kind }

// Size returns the buffer size in bytes.
//
func (b *Buffer) Size() int { return b.size }

// ElemSize returns the size of one buffer element in bytes.
//
func (b *Buffer) ElemSize() int { return b.elemSize }

// Len returns the number of elements the buffer can hold.
//
func (b *Buffer) Len() int {
	if b.elemSize == 0 {
		return 0
	}
	return b.size / b.elemSize
}

// Immutable returns true if the buffer was created with immutable storage.
//
func (b *Buffer) Immutable() bool { return b.immutable }

// Bind binds the buffer to the bind point matching its kind.
//
func (b *Buffer) Bind() {
	b.ctx.bind(bufferKinds[b.kind].bind, b)
}

// Unbind unbinds the buffer if it is bound.
//
func (b *Buffer) Unbind() {
	b.ctx.unbind(bufferKinds[b.kind].bind, b)
}

// SetData replaces the buffer storage with a copy of data. It panics if the
// buffer is immutable.
//
func SetData[T any](b *Buffer, data []T, usage gl.Enum) {
	b.checkDisposed("SetData")
	if b.immutable {
		panicf(ErrImmutable, "SetData on %s buffer %d", b.kind, b.h)
	}
	p := bytesOf(data)
	b.Bind()
	b.ctx.fns.BufferData(b.target(), len(p), usage, p)
	b.size, b.elemSize, b.usage = len(p), sizeOf[T](), usage
}

// Realloc discards the buffer contents and reallocates size bytes of storage
// with the buffer's usage hint. It panics if the buffer is immutable.
//
func (b *Buffer) Realloc(size int) {
	b.checkDisposed("Realloc")
	if b.immutable {
		panicf(ErrImmutable, "Realloc on %s buffer %d", b.kind, b.h)
	}
	b.Bind()
	b.ctx.fns.BufferData(b.target(), size, b.usage, nil)
	b.size = size
}

// SubData writes data[:length] at element offset offset. It panics if
// (offset+length) elements do not fit in the buffer, if data has less than
// length elements, or if the buffer is immutable and was not created with
// DynamicStorage. It panics with ErrElemSize if T does not match the buffer's
// element size.
//
func SubData[T any](b *Buffer, data []T, offset, length int) {
	es := sizeOf[T]()
	b.checkDisposed("SubData")
	if es != b.elemSize {
		panicf(ErrElemSize, "SubData of %d byte elements in %s buffer %d of %d byte elements", es, b.kind, b.h, b.elemSize)
	}
	if offset < 0 || length < 0 || length > len(data) {
		panicf(ErrOutOfBounds, "SubData offset %d, length %d, from %d elements", offset, length, len(data))
	}
	if (offset+length)*es > b.size {
		panicf(ErrOutOfBounds, "SubData [%d:%d] of %d byte elements in %d bytes", offset, offset+length, es, b.size)
	}
	b.SubDataBytes(bytesOf(data[:length]), offset*es)
}

// SubDataBytes writes p at byte offset off.
//
func (b *Buffer) SubDataBytes(p []byte, off int) {
	b.checkDisposed("SubData")
	if off < 0 || off+len(p) > b.size {
		panicf(ErrOutOfBounds, "SubData [%d:%d] in %d bytes", off, off+len(p), b.size)
	}
	if b.immutable && b.flags&DynamicStorage == 0 {
		panicf(ErrImmutable, "SubData on non dynamic %s buffer %d", b.kind, b.h)
	}
	if len(p) == 0 {
		return
	}
	b.Bind()
	b.ctx.fns.BufferSubData(b.target(), off, p)
}

// Dispose releases the buffer. It is safe to call Dispose more than once.
//
func (b *Buffer) Dispose() {
	if b.disposed {
		return
	}
	release(b)
	b.ctx.forgetLayout(b.h)
	b.ctx.fns.DeleteBuffer(b.h)
}
