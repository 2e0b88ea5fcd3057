// Package fsio is the pipeline's file collaborator: whole-file synchronous
// reads and writes of flat binary data. No streaming, no partial I/O.
package fsio

import (
	"fmt"
	"io"
	"os"
)

// FileSize returns the size of the file at path in bytes.
func FileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("stat %s: %w", path, err)
	}

	return info.Size(), nil
}

// ReadBinary reads the whole file into a newly allocated buffer.
func ReadBinary(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return data, nil
}

// ReadBinaryInto fills buf with exactly len(buf) bytes from the start of the
// file. The caller sizes buf from FileSize.
func ReadBinaryInto(path string, buf []byte) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	if _, err := io.ReadFull(f, buf); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	return nil
}

// WriteBinary writes data to path, replacing any existing file.
func WriteBinary(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	return nil
}
