package compress

import (
	"fmt"

	"github.com/klauspost/compress/s2"
)

type S2Codec struct{}

var _ Codec = (*S2Codec)(nil)

// NewS2Codec creates a new S2 codec.
func NewS2Codec() S2Codec {
	return S2Codec{}
}

// Compress compresses the input data using S2 compression.
func (c S2Codec) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.Encode(nil, data), nil
}

// Decompress decompresses S2 data into exactly originalSize bytes.
//
// S2 frames do record their decoded length; it is still checked against the
// caller-supplied size so a wrong declaration surfaces as an error instead of
// a silently mis-sized buffer.
func (c S2Codec) Decompress(data []byte, originalSize int) ([]byte, error) {
	if originalSize == 0 {
		return nil, nil
	}

	decoded, err := s2.Decode(make([]byte, originalSize), data)
	if err != nil {
		return nil, err
	}
	if len(decoded) != originalSize {
		return nil, fmt.Errorf("s2: decoded %d bytes, declared original size %d", len(decoded), originalSize)
	}

	return decoded, nil
}

// MaxCompressedBound returns S2's worst-case encoded size for n input bytes.
func (c S2Codec) MaxCompressedBound(n int) int {
	return s2.MaxEncodedLen(n)
}
