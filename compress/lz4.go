package compress

import (
	"fmt"
	"sync"

	"github.com/pierrec/lz4/v4"
)

// lz4CompressorPool pools lz4.Compressor instances for reuse.
// The lz4.Compressor maintains internal state that benefits from reuse.
var lz4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.Compressor{}
	},
}

type LZ4Codec struct{}

var _ Codec = (*LZ4Codec)(nil)

// NewLZ4Codec creates a new LZ4 block codec.
func NewLZ4Codec() LZ4Codec {
	return LZ4Codec{}
}

// Compress compresses the input data using the LZ4 block format.
//
// Uses a pooled lz4.Compressor for better performance. Returns nil, nil when
// the block format cannot shrink the input (incompressible data); the engine
// stores such buffers raw.
func (c LZ4Codec) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	dst := make([]byte, lz4.CompressBlockBound(len(data)))

	lc, _ := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(lc)

	n, err := lc.CompressBlock(data, dst)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		// Incompressible by the block format's convention.
		return nil, nil
	}

	return dst[:n], nil
}

// Decompress decompresses an LZ4 block into exactly originalSize bytes.
//
// The block format does not record the decompressed size, so the destination
// is sized from the caller-supplied value. A originalSize smaller than the
// true decoded size fails with lz4.ErrInvalidSourceShortBuffer rather than
// writing past the buffer.
func (c LZ4Codec) Decompress(data []byte, originalSize int) ([]byte, error) {
	if originalSize == 0 {
		return nil, nil
	}

	buf := make([]byte, originalSize)
	n, err := lz4.UncompressBlock(data, buf)
	if err != nil {
		return nil, err
	}
	if n != originalSize {
		return nil, fmt.Errorf("lz4: decoded %d bytes, declared original size %d", n, originalSize)
	}

	return buf, nil
}

// MaxCompressedBound returns the LZ4 block format's worst-case output size.
func (c LZ4Codec) MaxCompressedBound(n int) int {
	return lz4.CompressBlockBound(n)
}
