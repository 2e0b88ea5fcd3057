// Package engine exposes the codec engine the devcomp pipeline drives. The
// engine is deliberately opaque: callers configure a plan, submit compress or
// decompress work against device buffers on a stream, and query the resulting
// size after synchronizing. The layout of a compressed artifact belongs to
// the engine alone.
package engine

import (
	"fmt"
	"sync"

	"github.com/boyuanzhang62/devcomp/compress"
	"github.com/boyuanzhang62/devcomp/device"
	"github.com/boyuanzhang62/devcomp/format"
)

// Artifact framing, internal to the engine. One leading byte records whether
// the payload is codec output or the original bytes stored raw; raw storage
// is the fallback when a codec cannot shrink its input, and the whole frame
// for a zero-length input.
const (
	frameRaw        = 0x00
	frameCompressed = 0x01
	frameOverhead   = 1
)

// Engine executes plan-based compression on device-resident buffers.
// One engine serves any number of plans; plans are not shared across
// operations.
type Engine struct {
	rt *device.Runtime

	mu sync.Mutex
	// Compressed sizes recorded by compress work items when they execute on
	// their stream. Keyed by output buffer; entries drop when queried so a
	// short-lived batch process cannot accumulate stale ones.
	sizes map[*device.Buffer]int
}

// New creates an engine bound to a device runtime.
func New(rt *device.Runtime) *Engine {
	return &Engine{rt: rt, sizes: make(map[*device.Buffer]int)}
}

// MaxCompressedBound returns the worst-case artifact size for n uncompressed
// bytes under the given variant. Pure and cheap; callers use it to size the
// output allocation before submitting any work.
func (e *Engine) MaxCompressedBound(n int, variant format.CompressionType) (int, error) {
	codec, err := compress.GetCodec(variant)
	if err != nil {
		return 0, statusErr("max-compressed-bound", StatusNotSupported, err)
	}

	// Raw storage needs n bytes; codec output never exceeds its own bound.
	bound := codec.MaxCompressedBound(n)
	if n > bound {
		bound = n
	}

	return frameOverhead + bound, nil
}

// CompressAsync submits compression of src into dst onto the stream. It
// returns after submission; the artifact exists only once the stream has
// synchronized past it. dst must be at least MaxCompressedBound(src.Len())
// bytes and both buffers must be device-resident and outlive the stream's
// progress past this work.
func (e *Engine) CompressAsync(p *Plan, src, dst *device.Buffer, s *device.Stream) error {
	if err := e.checkSubmit("compress", p, src, dst); err != nil {
		return err
	}
	if src.Len() > p.maxUncompressed {
		return statusErr("compress", StatusInvalidValue,
			fmt.Errorf("input %d bytes exceeds plan bound %d", src.Len(), p.maxUncompressed))
	}
	bound, err := e.MaxCompressedBound(src.Len(), p.variant)
	if err != nil {
		return err
	}
	if dst.Len() < bound {
		return statusErr("compress", StatusInvalidValue,
			fmt.Errorf("output %d bytes, need worst-case %d", dst.Len(), bound))
	}

	return s.Submit(func() error {
		if src.Released() || dst.Released() {
			return statusErr("compress", StatusInvalidValue, device.ErrBufferReleased)
		}
		payload, cerr := p.codec.Compress(src.Bytes())
		if cerr != nil {
			return statusErr("compress", StatusInternal, cerr)
		}

		out := dst.Bytes()
		if payload == nil || len(payload) >= src.Len() {
			// Store raw: incompressible input, or empty input whose whole
			// artifact is the frame byte.
			out[0] = frameRaw
			n := copy(out[frameOverhead:], src.Bytes())
			e.recordSize(dst, frameOverhead+n)

			return nil
		}

		if frameOverhead+len(payload) > len(out) {
			return statusErr("compress", StatusOutputOverflow,
				fmt.Errorf("artifact %d bytes exceeds output %d", frameOverhead+len(payload), len(out)))
		}
		out[0] = frameCompressed
		copy(out[frameOverhead:], payload)
		e.recordSize(dst, frameOverhead+len(payload))

		return nil
	})
}

// DecompressAsync submits decompression of the artifact in src into dst. dst
// must be exactly the original uncompressed size; the engine cannot recover
// that size from the artifact and never writes past dst.
func (e *Engine) DecompressAsync(p *Plan, src, dst *device.Buffer, s *device.Stream) error {
	if err := e.checkSubmit("decompress", p, src, dst); err != nil {
		return err
	}
	if dst.Len() > p.maxUncompressed {
		return statusErr("decompress", StatusInvalidValue,
			fmt.Errorf("output %d bytes exceeds plan bound %d", dst.Len(), p.maxUncompressed))
	}

	return s.Submit(func() error {
		if src.Released() || dst.Released() {
			return statusErr("decompress", StatusInvalidValue, device.ErrBufferReleased)
		}
		artifact := src.Bytes()
		if len(artifact) < frameOverhead {
			return statusErr("decompress", StatusCannotDecompress,
				fmt.Errorf("artifact %d bytes, below minimum frame", len(artifact)))
		}
		payload := artifact[frameOverhead:]

		switch artifact[0] {
		case frameRaw:
			if len(payload) != dst.Len() {
				return statusErr("decompress", StatusCannotDecompress,
					fmt.Errorf("raw payload %d bytes, declared original size %d", len(payload), dst.Len()))
			}
			copy(dst.Bytes(), payload)

			return nil

		case frameCompressed:
			decoded, derr := p.codec.Decompress(payload, dst.Len())
			if derr != nil {
				return statusErr("decompress", StatusCannotDecompress, derr)
			}
			copy(dst.Bytes(), decoded)

			return nil

		default:
			return statusErr("decompress", StatusCannotDecompress,
				fmt.Errorf("unknown frame marker 0x%02x", artifact[0]))
		}
	})
}

// CompressedSize returns the artifact size recorded by a compress submission
// into dst. Valid only after the stream has synchronized past that
// submission; the size of a buffer no compress work has completed into is
// StatusInvalidValue, never a stale number.
func (e *Engine) CompressedSize(dst *device.Buffer) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	n, ok := e.sizes[dst]
	if !ok {
		return 0, statusErr("compressed-size", StatusInvalidValue,
			fmt.Errorf("no completed compression recorded for buffer"))
	}
	delete(e.sizes, dst)

	return n, nil
}

func (e *Engine) recordSize(dst *device.Buffer, n int) {
	e.mu.Lock()
	e.sizes[dst] = n
	e.mu.Unlock()
}

func (e *Engine) checkSubmit(op string, p *Plan, src, dst *device.Buffer) error {
	if p == nil || p.destroyed {
		return statusErr(op, StatusInvalidValue, fmt.Errorf("plan destroyed or nil"))
	}
	if p.engine != e {
		return statusErr(op, StatusInvalidValue, fmt.Errorf("plan belongs to a different engine"))
	}
	if src.Residency() != device.Device || dst.Residency() != device.Device {
		return statusErr(op, StatusInvalidValue,
			fmt.Errorf("buffers must be device-resident, got src %s, dst %s", src.Residency(), dst.Residency()))
	}
	if src.Released() || dst.Released() {
		return statusErr(op, StatusInvalidValue, device.ErrBufferReleased)
	}

	return nil
}
