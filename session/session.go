// Package session wraps one codec engine plan bound to one execution stream
// and enforces the linear lifecycle a plan must follow:
//
//	Unopened → Opened → StreamBound → Submitted → Synchronized → Closed
//
// Transitions never loop back. A session carries exactly one compress or
// decompress submission; querying the compressed size before the stream has
// synchronized past it is rejected as a state error instead of racing the
// stream, and Close is accepted from any live state so cleanup paths can
// always run.
package session

import (
	"errors"
	"fmt"

	"github.com/boyuanzhang62/devcomp/device"
	"github.com/boyuanzhang62/devcomp/engine"
	"github.com/boyuanzhang62/devcomp/format"
	"github.com/boyuanzhang62/devcomp/internal/options"
)

// ErrState reports an out-of-order lifecycle call.
var ErrState = errors.New("invalid session state")

// State tracks a session's position in its lifecycle.
type State uint8

const (
	Unopened State = iota
	Opened
	StreamBound
	Submitted
	Synchronized
	Closed
)

func (s State) String() string {
	switch s {
	case Unopened:
		return "Unopened"
	case Opened:
		return "Opened"
	case StreamBound:
		return "StreamBound"
	case Submitted:
		return "Submitted"
	case Synchronized:
		return "Synchronized"
	case Closed:
		return "Closed"
	default:
		return "Unknown"
	}
}

type config struct {
	elemType format.ElementType
	mode     format.Mode
	variant  format.CompressionType
}

// Option configures a session at Open time.
type Option = options.Option[*config]

// WithElementType sets the element granularity the plan is typed to. The
// same value drives the verifier's scan width; there is no separate flag.
func WithElementType(t format.ElementType) Option {
	return options.New(func(c *config) error {
		if !t.Valid() {
			return fmt.Errorf("invalid element type %d", t)
		}
		c.elemType = t

		return nil
	})
}

// WithMode sets the fidelity mode.
func WithMode(m format.Mode) Option {
	return options.NoError(func(c *config) {
		c.mode = m
	})
}

// WithVariant sets the algorithm variant.
func WithVariant(v format.CompressionType) Option {
	return options.New(func(c *config) error {
		if !v.Valid() {
			return fmt.Errorf("invalid compression type %d", v)
		}
		c.variant = v

		return nil
	})
}

// Session is one configured engine plan plus the stream its work runs on.
type Session struct {
	eng    *engine.Engine
	plan   *engine.Plan
	stream *device.Stream
	state  State
}

// Open creates a session sized to maxUncompressedBytes. Defaults: LZ4,
// Uint8 elements, lossless. The session starts in Opened; the caller must
// BindStream before submitting work and Close exactly once when done.
func Open(eng *engine.Engine, maxUncompressedBytes int, opts ...Option) (*Session, error) {
	cfg := &config{
		elemType: format.TypeUint8,
		mode:     format.ModeLossless,
		variant:  format.CompressionLZ4,
	}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, fmt.Errorf("session open: %w", err)
	}

	plan, err := eng.CreatePlan(maxUncompressedBytes, cfg.elemType, cfg.mode, cfg.variant)
	if err != nil {
		return nil, err
	}

	return &Session{eng: eng, plan: plan, state: Opened}, nil
}

// State returns the session's lifecycle position.
func (s *Session) State() State {
	return s.state
}

// Variant returns the algorithm variant the session was opened with.
func (s *Session) Variant() format.CompressionType {
	return s.plan.Variant()
}

// ElementType returns the element granularity the session was opened with.
func (s *Session) ElementType() format.ElementType {
	return s.plan.ElementType()
}

// BindStream associates the session with its execution stream. Required
// before any submission; a session keeps one stream for its whole lifetime,
// so binding twice is a state error.
func (s *Session) BindStream(st *device.Stream) error {
	if s.state != Opened {
		return fmt.Errorf("%w: bind stream in %s", ErrState, s.state)
	}
	s.stream = st
	s.state = StreamBound

	return nil
}

// MaxCompressedBound returns the worst-case artifact size for n uncompressed
// bytes under the session's variant. Pure; callable in any live state.
func (s *Session) MaxCompressedBound(n int) (int, error) {
	if s.state == Closed {
		return 0, fmt.Errorf("%w: bound query on closed session", ErrState)
	}

	return s.eng.MaxCompressedBound(n, s.plan.Variant())
}

// Compress submits compression of src into dst on the bound stream and
// returns immediately. Completion is observable only through Synchronize.
func (s *Session) Compress(src, dst *device.Buffer) error {
	if s.state != StreamBound {
		return fmt.Errorf("%w: compress in %s", ErrState, s.state)
	}
	if err := s.eng.CompressAsync(s.plan, src, dst, s.stream); err != nil {
		return err
	}
	s.state = Submitted

	return nil
}

// Decompress submits decompression of the artifact in src into dst, which
// must be exactly the original uncompressed size. Same asynchronous contract
// as Compress.
func (s *Session) Decompress(src, dst *device.Buffer) error {
	if s.state != StreamBound {
		return fmt.Errorf("%w: decompress in %s", ErrState, s.state)
	}
	if err := s.eng.DecompressAsync(s.plan, src, dst, s.stream); err != nil {
		return err
	}
	s.state = Submitted

	return nil
}

// Synchronize blocks until the bound stream has drained past the session's
// submission, then surfaces any engine failure that happened on the stream.
func (s *Session) Synchronize() error {
	if s.state != Submitted {
		return fmt.Errorf("%w: synchronize in %s", ErrState, s.state)
	}
	if err := s.stream.Synchronize(); err != nil {
		return err
	}
	s.state = Synchronized

	return nil
}

// CompressedSize returns the artifact size produced by the session's
// compress submission into dst. Only valid once Synchronized; calling
// earlier is the race the state machine exists to prevent.
func (s *Session) CompressedSize(dst *device.Buffer) (int, error) {
	if s.state != Synchronized {
		return 0, fmt.Errorf("%w: size query in %s", ErrState, s.state)
	}

	return s.eng.CompressedSize(dst)
}

// Close destroys the plan. Callable from any live state so both the success
// path and cleanup paths can release the session; closing twice is a state
// error.
func (s *Session) Close() error {
	if s.state == Closed {
		return fmt.Errorf("%w: session already closed", ErrState)
	}
	s.state = Closed

	return s.plan.Destroy()
}
