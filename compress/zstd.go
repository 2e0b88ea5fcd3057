package compress

// ZstdCodec provides Zstandard compression for scenarios where ratio matters
// more than speed. Two implementations exist: a pure Go one backed by
// klauspost/compress/zstd and a cgo one backed by valyala/gozstd, selected by
// build tags the same way across both files. Their frames are interchangeable.
type ZstdCodec struct{}

var _ Codec = (*ZstdCodec)(nil)

// NewZstdCodec creates a new Zstd codec with default settings.
func NewZstdCodec() ZstdCodec {
	return ZstdCodec{}
}

// MaxCompressedBound returns a worst-case Zstd frame size for n input bytes.
//
// Mirrors ZSTD_compressBound: content plus 1/256 expansion plus fixed frame
// overhead. Deliberately conservative; the engine only uses it to size the
// output allocation.
func (c ZstdCodec) MaxCompressedBound(n int) int {
	return n + n>>8 + 128
}
