package device

import (
	"fmt"
	"sync"
)

// Runtime owns all host and device allocations and enforces the alloc/free
// pairing. A zero limit means device memory is unbounded; tests use a small
// limit to exercise the allocation-failure path.
type Runtime struct {
	mu          sync.Mutex
	deviceLimit int64

	liveHost   int64
	liveDevice int64
	peakDevice int64
	allocs     uint64
	frees      uint64
}

// Stats is a point-in-time snapshot of the runtime's memory accounting.
type Stats struct {
	LiveHostBytes   int64
	LiveDeviceBytes int64
	PeakDeviceBytes int64
	Allocs          uint64
	Frees           uint64
}

// Balanced reports whether every allocation has been paired with a free.
func (s Stats) Balanced() bool {
	return s.Allocs == s.Frees && s.LiveHostBytes == 0 && s.LiveDeviceBytes == 0
}

// New creates a runtime with unbounded device memory.
func New() *Runtime {
	return &Runtime{}
}

// NewWithLimit creates a runtime that fails device allocations once live
// device memory would exceed limit bytes.
func NewWithLimit(limit int64) *Runtime {
	return &Runtime{deviceLimit: limit}
}

// AllocDevice allocates n bytes of device memory.
func (r *Runtime) AllocDevice(n int) (*Buffer, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative size %d", ErrAllocationFailed, n)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.deviceLimit > 0 && r.liveDevice+int64(n) > r.deviceLimit {
		return nil, fmt.Errorf("%w: %d bytes requested, %d of %d in use",
			ErrAllocationFailed, n, r.liveDevice, r.deviceLimit)
	}

	r.liveDevice += int64(n)
	if r.liveDevice > r.peakDevice {
		r.peakDevice = r.liveDevice
	}
	r.allocs++

	return &Buffer{rt: r, data: make([]byte, n), residency: Device}, nil
}

// AllocHost allocates n bytes of host memory.
func (r *Runtime) AllocHost(n int) (*Buffer, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative size %d", ErrAllocationFailed, n)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.liveHost += int64(n)
	r.allocs++

	return &Buffer{rt: r, data: make([]byte, n), residency: Host}, nil
}

// Free releases a buffer. Freeing a buffer twice or freeing a buffer that
// belongs to another runtime is a defect and returns an error.
func (r *Runtime) Free(b *Buffer) error {
	if b.rt != r {
		return ErrForeignBuffer
	}
	if b.released {
		return ErrBufferReleased
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	switch b.residency {
	case Host:
		r.liveHost -= int64(len(b.data))
	case Device:
		r.liveDevice -= int64(len(b.data))
	}
	r.frees++
	b.released = true
	b.data = nil

	return nil
}

// Stats returns a snapshot of the runtime's accounting counters.
func (r *Runtime) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()

	return Stats{
		LiveHostBytes:   r.liveHost,
		LiveDeviceBytes: r.liveDevice,
		PeakDeviceBytes: r.peakDevice,
		Allocs:          r.allocs,
		Frees:           r.frees,
	}
}

// Memcpy synchronously copies n bytes from src to dst in the given direction.
// Both buffers must be live, large enough, and resident on the side the
// direction names.
func (r *Runtime) Memcpy(dst, src *Buffer, n int, dir Direction) error {
	if err := r.checkCopy(dst, src, n, dir); err != nil {
		return err
	}

	copy(dst.data[:n], src.data[:n])

	return nil
}

// MemcpyAsync submits the same copy onto a stream. The copy happens when the
// stream reaches it; the buffers must stay live until the stream synchronizes
// past the submission.
func (r *Runtime) MemcpyAsync(dst, src *Buffer, n int, dir Direction, s *Stream) error {
	if err := r.checkCopy(dst, src, n, dir); err != nil {
		return err
	}

	return s.Submit(func() error {
		if dst.released || src.released {
			return fmt.Errorf("%w: buffer freed before async copy executed", ErrBufferReleased)
		}
		copy(dst.data[:n], src.data[:n])

		return nil
	})
}

func (r *Runtime) checkCopy(dst, src *Buffer, n int, dir Direction) error {
	if dst.rt != r || src.rt != r {
		return ErrForeignBuffer
	}
	if dst.released || src.released {
		return ErrBufferReleased
	}
	if n > len(src.data) || n > len(dst.data) {
		return fmt.Errorf("%w: copy %d bytes, src %d, dst %d", ErrSizeExceeded, n, len(src.data), len(dst.data))
	}

	wantSrc, wantDst := dir.endpoints()
	if wantSrc == 0 {
		return fmt.Errorf("%w: unknown direction", ErrResidency)
	}
	if src.residency != wantSrc || dst.residency != wantDst {
		return fmt.Errorf("%w: %s copy with src %s, dst %s", ErrResidency, dir, src.residency, dst.residency)
	}

	return nil
}
