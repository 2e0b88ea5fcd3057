// Package device provides the accelerator-side memory and execution model for
// devcomp: linear byte buffers with explicit host/device residency, an
// accounted allocator, and ordered asynchronous execution streams with
// stream-resident timing events.
//
// The package models the accelerator as an in-process runtime. Device memory
// is distinct from host memory only by residency tag, but every transfer
// between the two sides goes through Memcpy/MemcpyAsync so the boundary
// crossings of a real accelerator stay visible, and every allocation must be
// paired with exactly one Free. Stats exposes live and peak byte counts so a
// leaked buffer shows up as a defect in tests rather than as silent growth.
package device

import "errors"

var (
	ErrAllocationFailed = errors.New("device memory allocation failed")
	ErrBufferReleased   = errors.New("buffer already released")
	ErrResidency        = errors.New("buffer residency does not match copy direction")
	ErrSizeExceeded     = errors.New("copy size exceeds buffer length")
	ErrForeignBuffer    = errors.New("buffer does not belong to this runtime")
	ErrStreamClosed     = errors.New("stream closed")
	ErrEventNotReady    = errors.New("event not reached by its stream yet")
)

// Residency tags where a buffer's backing memory lives.
type Residency uint8

const (
	Host   Residency = iota + 1 // Host memory, directly addressable by the pipeline.
	Device                      // Device memory, reachable only through copies and engine calls.
)

func (r Residency) String() string {
	switch r {
	case Host:
		return "host"
	case Device:
		return "device"
	default:
		return "unknown"
	}
}

// Direction of a memory copy across (or within) the host/device boundary.
type Direction uint8

const (
	HostToDevice Direction = iota + 1
	DeviceToHost
	DeviceToDevice
	HostToHost
)

func (d Direction) String() string {
	switch d {
	case HostToDevice:
		return "host-to-device"
	case DeviceToHost:
		return "device-to-host"
	case DeviceToDevice:
		return "device-to-device"
	case HostToHost:
		return "host-to-host"
	default:
		return "unknown"
	}
}

// src and dst residencies required by each direction.
func (d Direction) endpoints() (src, dst Residency) {
	switch d {
	case HostToDevice:
		return Host, Device
	case DeviceToHost:
		return Device, Host
	case DeviceToDevice:
		return Device, Device
	case HostToHost:
		return Host, Host
	default:
		return 0, 0
	}
}
