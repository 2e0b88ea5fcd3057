package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompressionType_String(t *testing.T) {
	tests := []struct {
		name     string
		cType    CompressionType
		expected string
	}{
		{name: "none compression", cType: CompressionNone, expected: "None"},
		{name: "zstd compression", cType: CompressionZstd, expected: "Zstd"},
		{name: "s2 compression", cType: CompressionS2, expected: "S2"},
		{name: "lz4 compression", cType: CompressionLZ4, expected: "LZ4"},
		{name: "unknown compression", cType: CompressionType(0xFF), expected: "Unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.cType.String())
		})
	}
}

func TestElementType_Size(t *testing.T) {
	tests := []struct {
		name  string
		eType ElementType
		size  int
	}{
		{name: "uint8", eType: TypeUint8, size: 1},
		{name: "int16", eType: TypeInt16, size: 2},
		{name: "uint32", eType: TypeUint32, size: 4},
		{name: "float32", eType: TypeFloat32, size: 4},
		{name: "float64", eType: TypeFloat64, size: 8},
		{name: "unknown", eType: ElementType(0xFF), size: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.size, tt.eType.Size())
			assert.Equal(t, tt.size != 0, tt.eType.Valid())
		})
	}
}

func TestParseCompressionType(t *testing.T) {
	tests := []struct {
		name  string
		input string
		cType CompressionType
		ok    bool
	}{
		{name: "lz4", input: "lz4", cType: CompressionLZ4, ok: true},
		{name: "s2", input: "s2", cType: CompressionS2, ok: true},
		{name: "zstd", input: "zstd", cType: CompressionZstd, ok: true},
		{name: "none", input: "none", cType: CompressionNone, ok: true},
		{name: "unknown name", input: "brotli", ok: false},
		{name: "empty name", input: "", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cType, ok := ParseCompressionType(tt.input)
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.cType, cType)
			}
		})
	}
}

func TestParseElementType(t *testing.T) {
	tests := []struct {
		name  string
		input string
		eType ElementType
		ok    bool
	}{
		{name: "u8", input: "u8", eType: TypeUint8, ok: true},
		{name: "i16", input: "i16", eType: TypeInt16, ok: true},
		{name: "u32", input: "u32", eType: TypeUint32, ok: true},
		{name: "f32", input: "f32", eType: TypeFloat32, ok: true},
		{name: "f64", input: "f64", eType: TypeFloat64, ok: true},
		{name: "unknown name", input: "i64", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eType, ok := ParseElementType(tt.input)
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.eType, eType)
			}
		})
	}
}

func TestMode_String(t *testing.T) {
	assert.Equal(t, "Lossless", ModeLossless.String())
	assert.Equal(t, "Unknown", Mode(0xFF).String())
}
