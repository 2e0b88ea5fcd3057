package compress

import (
	"fmt"

	"github.com/boyuanzhang62/devcomp/format"
)

// Codec is the block-codec contract the engine builds plans on.
//
// Memory management for both operations:
//   - Returned slices are newly allocated and owned by the caller
//   - Input slices are not modified
//   - Internal buffers may be reused for efficiency
type Codec interface {
	// Compress compresses the whole input buffer and returns the result.
	// A nil, nil return means the codec could not shrink the input and the
	// caller should store it raw (the LZ4 block format works this way).
	Compress(data []byte) ([]byte, error)

	// Decompress decompresses data into a buffer of exactly originalSize
	// bytes. The compressed stream does not carry the original size; the
	// caller must supply the true value. Decompression never writes past
	// originalSize.
	Decompress(data []byte, originalSize int) ([]byte, error)

	// MaxCompressedBound returns a worst-case output size for an input of n
	// bytes. It is pure and cheap: no allocation, no accelerator work.
	MaxCompressedBound(n int) int
}

// CompressionStats reports the outcome of one compression operation.
type CompressionStats struct {
	// Algorithm identifies the compression algorithm used.
	Algorithm format.CompressionType

	// OriginalSize is the size of input data before compression.
	OriginalSize int64

	// CompressedSize is the size of data after compression.
	CompressedSize int64
}

// Ratio returns the compression ratio (original size / compressed size).
// Values greater than 1.0 indicate the data shrank. Returns 0 when the
// compressed size is zero.
func (s CompressionStats) Ratio() float64 {
	if s.CompressedSize == 0 {
		return 0.0
	}

	return float64(s.OriginalSize) / float64(s.CompressedSize)
}

// SpaceSavings returns the space savings as a percentage (0-100%).
func (s CompressionStats) SpaceSavings() float64 {
	if s.OriginalSize == 0 {
		return 0.0
	}

	return (1.0 - float64(s.CompressedSize)/float64(s.OriginalSize)) * 100.0
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCodec(),
	format.CompressionZstd: NewZstdCodec(),
	format.CompressionS2:   NewS2Codec(),
	format.CompressionLZ4:  NewLZ4Codec(),
}

// GetCodec retrieves the built-in Codec for the specified compression type.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("unsupported compression type: %s", compressionType)
}
