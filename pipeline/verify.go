package pipeline

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/boyuanzhang62/devcomp/format"
)

// Mismatch is the diagnostic for a failed round trip: the first element
// index where the reconstruction differs, with both values. The scan stops
// there; it is a fail-fast probe, not a full diff.
type Mismatch struct {
	Index int64
	Type  format.ElementType
	// Want and Got hold the raw little-endian bits of the original and
	// reconstructed element, widened to uint64.
	Want uint64
	Got  uint64
}

func (m *Mismatch) String() string {
	return fmt.Sprintf("mismatch at element %d: expected %s, got %s",
		m.Index, formatElement(m.Want, m.Type), formatElement(m.Got, m.Type))
}

// VerifyResult reports a round-trip verification. Mismatch is nil when the
// reconstruction matched the original byte for byte.
type VerifyResult struct {
	Compress   *CompressResult
	Decompress *DecompressResult

	// Elements is the number of elements compared before the scan ended.
	Elements int64
	Mismatch *Mismatch
}

// OK reports whether the round trip reproduced the input exactly.
func (r *VerifyResult) OK() bool {
	return r.Mismatch == nil
}

// VerifyRoundTrip compresses the file at path, decompresses the resulting
// artifact using the original size as ground truth, and scans the two
// buffers element by element at the driver's configured granularity.
//
// The lossless contract makes this deterministic: identical input bytes must
// reconstruct exactly. A mismatch is reported in the result, not as an
// error; errors are reserved for engine and I/O faults.
func (d *Driver) VerifyRoundTrip(path string) (*VerifyResult, error) {
	cres, err := d.CompressFile(path)
	if err != nil {
		return nil, err
	}
	dres, err := d.DecompressFile(cres.ArtifactPath, cres.OriginalSize)
	if err != nil {
		return nil, err
	}

	res := &VerifyResult{Compress: cres, Decompress: dres}
	res.Elements, res.Mismatch = scan(cres.Original, dres.Output, d.elemType)

	if res.Mismatch != nil {
		d.logger.Error("round trip mismatch",
			"path", path,
			"index", res.Mismatch.Index,
			"expected", formatElement(res.Mismatch.Want, d.elemType),
			"got", formatElement(res.Mismatch.Got, d.elemType),
		)
	} else {
		d.logger.Info("round trip verified",
			"path", path,
			"elements", res.Elements,
			"ratio", cres.Ratio,
		)
	}

	return res, nil
}

// scan compares want and got element by element and stops at the first
// difference. It returns the number of elements compared and the mismatch,
// if any; elements past the first difference are never examined.
func scan(want, got []byte, t format.ElementType) (int64, *Mismatch) {
	width := t.Size()
	n := len(want) / width
	if m := len(got) / width; m < n {
		n = m
	}

	for i := 0; i < n; i++ {
		w := elementAt(want, i, width)
		g := elementAt(got, i, width)
		if w != g {
			return int64(i), &Mismatch{Index: int64(i), Type: t, Want: w, Got: g}
		}
	}

	return int64(n), nil
}

// elementAt reads the i-th element of buf as raw little-endian bits.
func elementAt(buf []byte, i, width int) uint64 {
	off := i * width
	switch width {
	case 1:
		return uint64(buf[off])
	case 2:
		return uint64(binary.LittleEndian.Uint16(buf[off:]))
	case 4:
		return uint64(binary.LittleEndian.Uint32(buf[off:]))
	default:
		return binary.LittleEndian.Uint64(buf[off:])
	}
}

// formatElement renders raw element bits as the typed value a user expects
// in a diagnostic.
func formatElement(bits uint64, t format.ElementType) string {
	switch t {
	case format.TypeUint8:
		return fmt.Sprintf("%d", uint8(bits))
	case format.TypeInt16:
		return fmt.Sprintf("%d", int16(bits))
	case format.TypeUint32:
		return fmt.Sprintf("%d", uint32(bits))
	case format.TypeFloat32:
		return fmt.Sprintf("%g", math.Float32frombits(uint32(bits)))
	case format.TypeFloat64:
		return fmt.Sprintf("%g", math.Float64frombits(bits))
	default:
		return fmt.Sprintf("%#x", bits)
	}
}
