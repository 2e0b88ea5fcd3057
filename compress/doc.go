// Package compress provides the lossless block codecs backing the devcomp
// codec engine.
//
// Each codec compresses a whole flat buffer in one call and decompresses it
// back given the original size; none of them records the original size in its
// output, which is why the engine requires the caller to supply it. Every
// codec also exposes a cheap, deterministic worst-case output bound so the
// engine can size device allocations before any work is submitted.
//
// Supported algorithms:
//   - LZ4 block format (pierrec/lz4): fastest, moderate ratio
//   - S2 (klauspost/compress/s2): fast, Snappy-compatible superset
//   - Zstd (klauspost/compress/zstd, or valyala/gozstd under cgo): best ratio
//   - None: pass-through, used for baselines and tests
package compress
