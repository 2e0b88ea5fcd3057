package compress

import "fmt"

// NoOpCodec passes data through without compression.
//
// Useful for measuring pipeline overhead without codec cost, and as a
// baseline in tests and benchmarks.
type NoOpCodec struct{}

var _ Codec = (*NoOpCodec)(nil)

// NewNoOpCodec creates a new pass-through codec.
func NewNoOpCodec() NoOpCodec {
	return NoOpCodec{}
}

// Compress returns a copy of the input data.
//
// Unlike the real codecs the output equals the input, but it is still a fresh
// allocation so ownership matches the Codec contract.
func (c NoOpCodec) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	out := make([]byte, len(data))
	copy(out, data)

	return out, nil
}

// Decompress returns a copy of the input data, checked against originalSize.
func (c NoOpCodec) Decompress(data []byte, originalSize int) ([]byte, error) {
	if originalSize == 0 {
		return nil, nil
	}
	if len(data) != originalSize {
		return nil, fmt.Errorf("noop: %d stored bytes, declared original size %d", len(data), originalSize)
	}

	out := make([]byte, len(data))
	copy(out, data)

	return out, nil
}

// MaxCompressedBound returns n: pass-through never expands.
func (c NoOpCodec) MaxCompressedBound(n int) int {
	return n
}
