package format

type (
	// CompressionType selects the codec engine's algorithm variant.
	CompressionType uint8
	// ElementType describes the element granularity of a flat binary buffer.
	ElementType uint8
	// Mode selects the codec engine's fidelity contract.
	Mode uint8
)

const (
	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression (pass-through).
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 block compression.

	TypeUint8   ElementType = 0x1 // TypeUint8 treats the buffer as raw bytes.
	TypeInt16   ElementType = 0x2 // TypeInt16 represents 2-byte signed elements.
	TypeUint32  ElementType = 0x3 // TypeUint32 represents 4-byte unsigned elements.
	TypeFloat32 ElementType = 0x4 // TypeFloat32 represents 4-byte IEEE 754 elements.
	TypeFloat64 ElementType = 0x5 // TypeFloat64 represents 8-byte IEEE 754 elements.

	// ModeLossless guarantees byte-exact round trips. It is the only mode the
	// pipeline supports; the constant exists so a plan records its contract
	// explicitly instead of implying it.
	ModeLossless Mode = 0x1
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// Valid reports whether the compression type is one of the supported variants.
func (c CompressionType) Valid() bool {
	switch c {
	case CompressionNone, CompressionZstd, CompressionS2, CompressionLZ4:
		return true
	default:
		return false
	}
}

// Size returns the width of one element in bytes.
func (e ElementType) Size() int {
	switch e {
	case TypeUint8:
		return 1
	case TypeInt16:
		return 2
	case TypeUint32, TypeFloat32:
		return 4
	case TypeFloat64:
		return 8
	default:
		return 0
	}
}

func (e ElementType) String() string {
	switch e {
	case TypeUint8:
		return "Uint8"
	case TypeInt16:
		return "Int16"
	case TypeUint32:
		return "Uint32"
	case TypeFloat32:
		return "Float32"
	case TypeFloat64:
		return "Float64"
	default:
		return "Unknown"
	}
}

// Valid reports whether the element type has a defined width.
func (e ElementType) Valid() bool {
	return e.Size() != 0
}

func (m Mode) String() string {
	switch m {
	case ModeLossless:
		return "Lossless"
	default:
		return "Unknown"
	}
}

// ParseCompressionType maps a user-facing algorithm name to its type.
// It returns false for names no engine variant answers to.
func ParseCompressionType(name string) (CompressionType, bool) {
	switch name {
	case "none":
		return CompressionNone, true
	case "zstd":
		return CompressionZstd, true
	case "s2":
		return CompressionS2, true
	case "lz4":
		return CompressionLZ4, true
	default:
		return 0, false
	}
}

// ParseElementType maps a user-facing dtype name to its element type.
func ParseElementType(name string) (ElementType, bool) {
	switch name {
	case "u8":
		return TypeUint8, true
	case "i16":
		return TypeInt16, true
	case "u32":
		return TypeUint32, true
	case "f32":
		return TypeFloat32, true
	case "f64":
		return TypeFloat64, true
	default:
		return 0, false
	}
}
