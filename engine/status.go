package engine

import "fmt"

// Status is the engine's fixed set of result codes. Any code other than
// StatusSuccess is unrecoverable for a pipeline run: there is no retry
// policy, the caller cleans up and aborts.
type Status uint8

const (
	StatusSuccess Status = iota
	StatusInvalidValue
	StatusNotSupported
	StatusCannotDecompress
	StatusOutputOverflow
	StatusInternal
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "Success"
	case StatusInvalidValue:
		return "InvalidValue"
	case StatusNotSupported:
		return "NotSupported"
	case StatusCannotDecompress:
		return "CannotDecompress"
	case StatusOutputOverflow:
		return "OutputOverflow"
	case StatusInternal:
		return "Internal"
	default:
		return "Unknown"
	}
}

// StatusError carries a non-success engine status up to the top-level
// handler. It wraps the underlying cause, if any, so errors.Is/As keep
// working through it.
type StatusError struct {
	Op     string
	Status Status
	Err    error
}

func (e *StatusError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("engine %s: status %s: %v", e.Op, e.Status, e.Err)
	}

	return fmt.Sprintf("engine %s: status %s", e.Op, e.Status)
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

func statusErr(op string, status Status, cause error) *StatusError {
	return &StatusError{Op: op, Status: status, Err: cause}
}
