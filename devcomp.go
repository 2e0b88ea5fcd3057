// Package devcomp orchestrates lossless compression and decompression of
// flat binary files through an accelerator-resident codec engine, and
// verifies round trips byte for byte.
//
// The core is the orchestration pipeline: host/device buffer lifecycle,
// asynchronous submission against per-operation execution streams, timing
// instrumentation, and fail-fast verification. The codecs themselves (LZ4,
// S2, Zstd) are collaborators behind the engine's plan interface; devcomp
// implements no encoding algorithm of its own.
//
// # Basic Usage
//
// Compressing a file and verifying the round trip:
//
//	import "github.com/boyuanzhang62/devcomp"
//
//	res, err := devcomp.Compress("data.bin")
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("ratio=%.2f\n", res.Ratio)
//
//	vres, err := devcomp.Verify("data.bin")
//	if err != nil {
//	    return err
//	}
//	if !vres.OK() {
//	    fmt.Println(vres.Mismatch)
//	}
//
// Decompression needs the true original size; the artifact does not record
// it:
//
//	res, err := devcomp.Decompress("data.bin.cmp", originalSize)
//
// # Package Structure
//
// This package provides convenient top-level wrappers with default settings
// (LZ4, byte-granularity verification). For algorithm and element-type
// control, construct a pipeline.Driver directly.
package devcomp

import (
	"github.com/boyuanzhang62/devcomp/pipeline"
)

// Compress compresses the file at path with default settings and writes the
// artifact next to it.
func Compress(path string) (*pipeline.CompressResult, error) {
	return pipeline.New(pipeline.Config{}).CompressFile(path)
}

// Decompress reconstructs the artifact at path into originalSize bytes and
// writes the output next to it.
func Decompress(path string, originalSize int64) (*pipeline.DecompressResult, error) {
	return pipeline.New(pipeline.Config{}).DecompressFile(path, originalSize)
}

// Verify round-trips the file at path and compares the reconstruction
// against the original byte for byte.
func Verify(path string) (*pipeline.VerifyResult, error) {
	return pipeline.New(pipeline.Config{}).VerifyRoundTrip(path)
}
