package engine

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/boyuanzhang62/devcomp/device"
	"github.com/boyuanzhang62/devcomp/format"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stage moves host bytes into a fresh device buffer.
func stage(t *testing.T, rt *device.Runtime, data []byte) *device.Buffer {
	t.Helper()

	host, err := rt.AllocHost(len(data))
	require.NoError(t, err)
	copy(host.Bytes(), data)

	dev, err := rt.AllocDevice(len(data))
	require.NoError(t, err)
	require.NoError(t, rt.Memcpy(dev, host, len(data), device.HostToDevice))
	require.NoError(t, rt.Free(host))

	return dev
}

// unstage copies n bytes of a device buffer back to a host slice.
func unstage(t *testing.T, rt *device.Runtime, dev *device.Buffer, n int) []byte {
	t.Helper()

	host, err := rt.AllocHost(n)
	require.NoError(t, err)
	require.NoError(t, rt.Memcpy(host, dev, n, device.DeviceToHost))
	out := make([]byte, n)
	copy(out, host.Bytes())
	require.NoError(t, rt.Free(host))

	return out
}

func variants() []format.CompressionType {
	return []format.CompressionType{
		format.CompressionNone,
		format.CompressionLZ4,
		format.CompressionS2,
		format.CompressionZstd,
	}
}

func enginePayloads() map[string][]byte {
	random := make([]byte, 16*1024)
	rand.New(rand.NewSource(7)).Read(random)

	return map[string][]byte{
		"constant": bytes.Repeat([]byte{0x42}, 32*1024),
		"random":   random,
		"tiny":     {0xFE},
		"empty":    {},
	}
}

func TestEngine_RoundTrip(t *testing.T) {
	for _, variant := range variants() {
		for payloadName, payload := range enginePayloads() {
			t.Run(variant.String()+"/"+payloadName, func(t *testing.T) {
				rt := device.New()
				eng := New(rt)
				stream := rt.NewStream()
				defer stream.Close()

				plan, err := eng.CreatePlan(len(payload), format.TypeUint8, format.ModeLossless, variant)
				require.NoError(t, err)
				defer plan.Destroy()

				bound, err := eng.MaxCompressedBound(len(payload), variant)
				require.NoError(t, err)
				require.GreaterOrEqual(t, bound, 1, "even an empty artifact has frame overhead")

				src := stage(t, rt, payload)
				dst, err := rt.AllocDevice(bound)
				require.NoError(t, err)

				require.NoError(t, eng.CompressAsync(plan, src, dst, stream))
				require.NoError(t, stream.Synchronize())

				csize, err := eng.CompressedSize(dst)
				require.NoError(t, err)
				require.Greater(t, csize, 0)
				require.LessOrEqual(t, csize, bound)

				artifact := unstage(t, rt, dst, csize)

				// Decompress through a fresh plan, stream, and buffer pair,
				// the way the pipeline's decompress operation does.
				dplan, err := eng.CreatePlan(len(payload), format.TypeUint8, format.ModeLossless, variant)
				require.NoError(t, err)
				defer dplan.Destroy()

				dsrc := stage(t, rt, artifact)
				dout, err := rt.AllocDevice(len(payload))
				require.NoError(t, err)

				require.NoError(t, eng.DecompressAsync(dplan, dsrc, dout, stream))
				require.NoError(t, stream.Synchronize())

				reconstructed := unstage(t, rt, dout, len(payload))
				assert.Equal(t, payload, reconstructed)

				require.NoError(t, rt.Free(src))
				require.NoError(t, rt.Free(dst))
				require.NoError(t, rt.Free(dsrc))
				require.NoError(t, rt.Free(dout))
				assert.True(t, rt.Stats().Balanced())
			})
		}
	}
}

func TestEngine_EmptyInputArtifactIsMinimal(t *testing.T) {
	rt := device.New()
	eng := New(rt)
	stream := rt.NewStream()
	defer stream.Close()

	plan, err := eng.CreatePlan(0, format.TypeUint8, format.ModeLossless, format.CompressionLZ4)
	require.NoError(t, err)
	defer plan.Destroy()

	bound, err := eng.MaxCompressedBound(0, format.CompressionLZ4)
	require.NoError(t, err)

	src, err := rt.AllocDevice(0)
	require.NoError(t, err)
	dst, err := rt.AllocDevice(bound)
	require.NoError(t, err)

	require.NoError(t, eng.CompressAsync(plan, src, dst, stream))
	require.NoError(t, stream.Synchronize())

	csize, err := eng.CompressedSize(dst)
	require.NoError(t, err)
	assert.Equal(t, frameOverhead, csize, "empty input compresses to the frame alone")

	require.NoError(t, rt.Free(src))
	require.NoError(t, rt.Free(dst))
}

func TestEngine_CompressedSizeWithoutCompletedWork(t *testing.T) {
	rt := device.New()
	eng := New(rt)

	dst, err := rt.AllocDevice(64)
	require.NoError(t, err)
	defer rt.Free(dst)

	_, err = eng.CompressedSize(dst)
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, StatusInvalidValue, statusErr.Status)
}

func TestEngine_CompressValidation(t *testing.T) {
	rt := device.New()
	eng := New(rt)
	stream := rt.NewStream()
	defer stream.Close()

	plan, err := eng.CreatePlan(16, format.TypeUint8, format.ModeLossless, format.CompressionLZ4)
	require.NoError(t, err)
	defer plan.Destroy()

	host, err := rt.AllocHost(16)
	require.NoError(t, err)
	defer rt.Free(host)

	small, err := rt.AllocDevice(4)
	require.NoError(t, err)
	defer rt.Free(small)

	dev, err := rt.AllocDevice(16)
	require.NoError(t, err)
	defer rt.Free(dev)

	var statusErr *StatusError

	// Host buffer where a device buffer is required.
	err = eng.CompressAsync(plan, host, dev, stream)
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, StatusInvalidValue, statusErr.Status)

	// Output smaller than the worst-case bound.
	err = eng.CompressAsync(plan, dev, small, stream)
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, StatusInvalidValue, statusErr.Status)

	// Input beyond the plan's uncompressed bound.
	big, err := rt.AllocDevice(32)
	require.NoError(t, err)
	defer rt.Free(big)

	bound, err := eng.MaxCompressedBound(32, format.CompressionLZ4)
	require.NoError(t, err)
	out, err := rt.AllocDevice(bound)
	require.NoError(t, err)
	defer rt.Free(out)

	err = eng.CompressAsync(plan, big, out, stream)
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, StatusInvalidValue, statusErr.Status)
}

func TestEngine_DecompressWrongDeclaredSize(t *testing.T) {
	payload := bytes.Repeat([]byte{0x33}, 8192)

	rt := device.New()
	eng := New(rt)
	stream := rt.NewStream()
	defer stream.Close()

	plan, err := eng.CreatePlan(len(payload), format.TypeUint8, format.ModeLossless, format.CompressionLZ4)
	require.NoError(t, err)
	defer plan.Destroy()

	bound, err := eng.MaxCompressedBound(len(payload), format.CompressionLZ4)
	require.NoError(t, err)

	src := stage(t, rt, payload)
	dst, err := rt.AllocDevice(bound)
	require.NoError(t, err)

	require.NoError(t, eng.CompressAsync(plan, src, dst, stream))
	require.NoError(t, stream.Synchronize())
	csize, err := eng.CompressedSize(dst)
	require.NoError(t, err)
	artifact := unstage(t, rt, dst, csize)

	// Declare half the true size; the output buffer is exactly that size and
	// the engine must fail rather than write anywhere else.
	wrongSize := len(payload) / 2
	dplan, err := eng.CreatePlan(wrongSize, format.TypeUint8, format.ModeLossless, format.CompressionLZ4)
	require.NoError(t, err)
	defer dplan.Destroy()

	dsrc := stage(t, rt, artifact)
	dout, err := rt.AllocDevice(wrongSize)
	require.NoError(t, err)

	require.NoError(t, eng.DecompressAsync(dplan, dsrc, dout, stream))

	err = stream.Synchronize()
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, StatusCannotDecompress, statusErr.Status)

	require.NoError(t, rt.Free(src))
	require.NoError(t, rt.Free(dst))
	require.NoError(t, rt.Free(dsrc))
	require.NoError(t, rt.Free(dout))
}

func TestEngine_PlanValidation(t *testing.T) {
	rt := device.New()
	eng := New(rt)

	tests := []struct {
		name    string
		size    int
		eType   format.ElementType
		mode    format.Mode
		variant format.CompressionType
		status  Status
	}{
		{name: "negative bound", size: -1, eType: format.TypeUint8, mode: format.ModeLossless, variant: format.CompressionLZ4, status: StatusInvalidValue},
		{name: "invalid element type", size: 16, eType: format.ElementType(0xFF), mode: format.ModeLossless, variant: format.CompressionLZ4, status: StatusInvalidValue},
		{name: "unsupported mode", size: 16, eType: format.TypeUint8, mode: format.Mode(0x7), variant: format.CompressionLZ4, status: StatusNotSupported},
		{name: "unknown variant", size: 16, eType: format.TypeUint8, mode: format.ModeLossless, variant: format.CompressionType(0xEE), status: StatusNotSupported},
		{name: "bound not element aligned", size: 17, eType: format.TypeFloat64, mode: format.ModeLossless, variant: format.CompressionLZ4, status: StatusInvalidValue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := eng.CreatePlan(tt.size, tt.eType, tt.mode, tt.variant)
			var statusErr *StatusError
			require.ErrorAs(t, err, &statusErr)
			assert.Equal(t, tt.status, statusErr.Status)
		})
	}
}

func TestPlan_DoubleDestroy(t *testing.T) {
	rt := device.New()
	eng := New(rt)

	plan, err := eng.CreatePlan(16, format.TypeUint8, format.ModeLossless, format.CompressionLZ4)
	require.NoError(t, err)
	require.NoError(t, plan.Destroy())

	err = plan.Destroy()
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, StatusInvalidValue, statusErr.Status)
}
