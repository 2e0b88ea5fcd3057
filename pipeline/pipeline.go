// Package pipeline composes the device runtime, codec engine, and codec
// sessions into the three user-visible operations: compress a file,
// decompress an artifact, and verify a round trip byte-for-byte.
//
// One host goroutine drives everything. Each operation opens its own session
// on its own freshly created stream, stages data host → device, submits the
// codec work, synchronizes, and moves the result back; the only blocking
// points are the explicit synchronizations. Timing brackets the submitted
// codec work with stream-resident events, so reported throughput reflects
// engine time, not file I/O.
package pipeline

import (
	"log/slog"
	"time"

	"github.com/boyuanzhang62/devcomp/device"
	"github.com/boyuanzhang62/devcomp/engine"
	"github.com/boyuanzhang62/devcomp/format"
	"github.com/boyuanzhang62/devcomp/session"
)

const (
	// CompressedSuffix is appended to the input path for compress output.
	CompressedSuffix = ".cmp"
	// DecompressedSuffix is appended to the artifact path for decompress output.
	DecompressedSuffix = ".dec"
)

// Config configures a Driver. Zero values select LZ4, Uint8 elements, and
// slog.Default().
type Config struct {
	Variant     format.CompressionType
	ElementType format.ElementType
	Logger      *slog.Logger
}

// Driver owns the device runtime and engine for a batch invocation.
type Driver struct {
	rt       *device.Runtime
	eng      *engine.Engine
	variant  format.CompressionType
	elemType format.ElementType
	logger   *slog.Logger
}

// New creates a driver with its own device runtime and engine.
func New(cfg Config) *Driver {
	if cfg.Variant == 0 {
		cfg.Variant = format.CompressionLZ4
	}
	if cfg.ElementType == 0 {
		cfg.ElementType = format.TypeUint8
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	rt := device.New()

	return &Driver{
		rt:       rt,
		eng:      engine.New(rt),
		variant:  cfg.Variant,
		elemType: cfg.ElementType,
		logger:   cfg.Logger,
	}
}

// Runtime exposes the driver's device runtime, so callers (and tests) can
// check the allocation accounting after operations complete.
func (d *Driver) Runtime() *device.Runtime {
	return d.rt
}

// CompressResult reports one file compression.
type CompressResult struct {
	InputPath    string
	ArtifactPath string

	OriginalSize   int64
	CompressedSize int64
	Ratio          float64 // original / compressed
	Elapsed        time.Duration
	Throughput     float64 // uncompressed bytes per second of engine time

	// Digest is the xxHash64 of the original file contents.
	Digest uint64

	// Original holds the input file's bytes for round-trip verification.
	Original []byte
}

// DecompressResult reports one artifact decompression.
type DecompressResult struct {
	InputPath  string
	OutputPath string

	CompressedSize int64
	OriginalSize   int64
	Elapsed        time.Duration
	Throughput     float64 // uncompressed bytes per second of engine time

	// Digest is the xxHash64 of the reconstructed contents.
	Digest uint64

	// Output holds the reconstructed bytes for round-trip verification.
	Output []byte
}

// free releases a buffer and logs the defect if the pairing was already
// broken. Used in defers so every exit path releases what it allocated.
func (d *Driver) free(b *device.Buffer) {
	if b == nil {
		return
	}
	if err := d.rt.Free(b); err != nil {
		d.logger.Error("buffer release failed", "error", err)
	}
}

func (d *Driver) closeSession(s *session.Session) {
	if err := s.Close(); err != nil {
		d.logger.Error("session close failed", "error", err)
	}
}

func (d *Driver) closeStream(s *device.Stream) {
	// The stream's sticky error was already surfaced by Synchronize; at close
	// time it is not news.
	_ = s.Close()
}

func throughput(uncompressedBytes int64, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}

	return float64(uncompressedBytes) / elapsed.Seconds()
}
