//go:build cgo

package compress

import (
	"fmt"

	"github.com/valyala/gozstd"
)

// Compress compresses the input data using Zstandard compression.
func (c ZstdCodec) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return gozstd.CompressLevel(nil, data, 3), nil
}

// Decompress decompresses a Zstd frame into exactly originalSize bytes.
func (c ZstdCodec) Decompress(data []byte, originalSize int) ([]byte, error) {
	if originalSize == 0 {
		return nil, nil
	}

	decompressed, err := gozstd.Decompress(nil, data)
	if err != nil {
		return nil, fmt.Errorf("zstd decompression failed: %w", err)
	}
	if len(decompressed) != originalSize {
		return nil, fmt.Errorf("zstd: decoded %d bytes, declared original size %d", len(decompressed), originalSize)
	}

	return decompressed, nil
}
