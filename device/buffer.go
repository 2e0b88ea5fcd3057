package device

// Buffer is an owned, contiguous region of bytes with a fixed length and a
// residency tag. Buffers are created by Runtime.AllocHost/AllocDevice and
// destroyed by exactly one Runtime.Free; they are never implicitly copied.
// The declared length always equals the backing allocation size.
type Buffer struct {
	rt        *Runtime
	data      []byte
	residency Residency
	released  bool
}

// Len returns the allocation size in bytes.
func (b *Buffer) Len() int {
	return len(b.data)
}

// Residency reports where the buffer's memory lives.
func (b *Buffer) Residency() Residency {
	return b.residency
}

// Bytes exposes the backing memory.
//
// For host buffers this is how the pipeline reads and writes data. For device
// buffers it may only be touched by code executing on the buffer's stream
// (the codec engine's work items); host-side code must go through Memcpy.
func (b *Buffer) Bytes() []byte {
	return b.data
}

// Released reports whether the buffer has already been freed.
func (b *Buffer) Released() bool {
	return b.released
}
