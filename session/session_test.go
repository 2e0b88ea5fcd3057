package session

import (
	"bytes"
	"testing"

	"github.com/boyuanzhang62/devcomp/device"
	"github.com/boyuanzhang62/devcomp/engine"
	"github.com/boyuanzhang62/devcomp/format"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFixture(t *testing.T) (*device.Runtime, *engine.Engine) {
	t.Helper()

	rt := device.New()

	return rt, engine.New(rt)
}

func stageDevice(t *testing.T, rt *device.Runtime, data []byte) *device.Buffer {
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

func TestSession_LinearLifecycle(t *testing.T) {
	rt, eng := newFixture(t)
	payload := bytes.Repeat([]byte{0x11, 0x22}, 4096)

	sess, err := Open(eng, len(payload),
		WithVariant(format.CompressionS2),
		WithElementType(format.TypeInt16),
	)
	require.NoError(t, err)
	assert.Equal(t, Opened, sess.State())
	assert.Equal(t, format.CompressionS2, sess.Variant())
	assert.Equal(t, format.TypeInt16, sess.ElementType())

	stream := rt.NewStream()
	defer stream.Close()

	require.NoError(t, sess.BindStream(stream))
	assert.Equal(t, StreamBound, sess.State())

	bound, err := sess.MaxCompressedBound(len(payload))
	require.NoError(t, err)

	src := stageDevice(t, rt, payload)
	dst, err := rt.AllocDevice(bound)
	require.NoError(t, err)

	require.NoError(t, sess.Compress(src, dst))
	assert.Equal(t, Submitted, sess.State())

	require.NoError(t, sess.Synchronize())
	assert.Equal(t, Synchronized, sess.State())

	csize, err := sess.CompressedSize(dst)
	require.NoError(t, err)
	assert.Greater(t, csize, 0)
	assert.LessOrEqual(t, csize, bound)

	require.NoError(t, sess.Close())
	assert.Equal(t, Closed, sess.State())

	require.NoError(t, rt.Free(src))
	require.NoError(t, rt.Free(dst))
}

func TestSession_SubmitRequiresBoundStream(t *testing.T) {
	rt, eng := newFixture(t)

	sess, err := Open(eng, 16)
	require.NoError(t, err)
	defer sess.Close()

	src, err := rt.AllocDevice(16)
	require.NoError(t, err)
	defer rt.Free(src)
	dst, err := rt.AllocDevice(64)
	require.NoError(t, err)
	defer rt.Free(dst)

	// There is no implicit default stream; submission before BindStream is
	// a lifecycle error.
	require.ErrorIs(t, sess.Compress(src, dst), ErrState)
	require.ErrorIs(t, sess.Decompress(src, dst), ErrState)
}

func TestSession_SizeQueryBeforeSynchronizeIsRejected(t *testing.T) {
	rt, eng := newFixture(t)
	payload := bytes.Repeat([]byte{0x7F}, 1024)

	sess, err := Open(eng, len(payload))
	require.NoError(t, err)
	defer sess.Close()

	stream := rt.NewStream()
	defer stream.Close()
	require.NoError(t, sess.BindStream(stream))

	bound, err := sess.MaxCompressedBound(len(payload))
	require.NoError(t, err)

	src := stageDevice(t, rt, payload)
	defer rt.Free(src)
	dst, err := rt.AllocDevice(bound)
	require.NoError(t, err)
	defer rt.Free(dst)

	// Before submission.
	_, err = sess.CompressedSize(dst)
	require.ErrorIs(t, err, ErrState)

	require.NoError(t, sess.Compress(src, dst))

	// After submission but before the stream drained: still rejected.
	_, err = sess.CompressedSize(dst)
	require.ErrorIs(t, err, ErrState)

	require.NoError(t, sess.Synchronize())

	_, err = sess.CompressedSize(dst)
	require.NoError(t, err)
}

func TestSession_BindStreamTwice(t *testing.T) {
	rt, eng := newFixture(t)

	sess, err := Open(eng, 16)
	require.NoError(t, err)
	defer sess.Close()

	s1 := rt.NewStream()
	defer s1.Close()
	s2 := rt.NewStream()
	defer s2.Close()

	require.NoError(t, sess.BindStream(s1))
	require.ErrorIs(t, sess.BindStream(s2), ErrState)
}

func TestSession_NoLoopBack(t *testing.T) {
	rt, eng := newFixture(t)
	payload := []byte{1, 2, 3, 4}

	sess, err := Open(eng, len(payload))
	require.NoError(t, err)
	defer sess.Close()

	stream := rt.NewStream()
	defer stream.Close()
	require.NoError(t, sess.BindStream(stream))

	bound, err := sess.MaxCompressedBound(len(payload))
	require.NoError(t, err)

	src := stageDevice(t, rt, payload)
	defer rt.Free(src)
	dst, err := rt.AllocDevice(bound)
	require.NoError(t, err)
	defer rt.Free(dst)

	require.NoError(t, sess.Compress(src, dst))
	require.NoError(t, sess.Synchronize())

	// One submission per session; a second compress cannot rewind the state
	// machine.
	require.ErrorIs(t, sess.Compress(src, dst), ErrState)
	require.ErrorIs(t, sess.Synchronize(), ErrState)
}

func TestSession_CloseSemantics(t *testing.T) {
	_, eng := newFixture(t)

	// Close straight from Opened: cleanup paths close sessions that never
	// bound a stream.
	sess, err := Open(eng, 16)
	require.NoError(t, err)
	require.NoError(t, sess.Close())
	require.ErrorIs(t, sess.Close(), ErrState)

	// Closed sessions reject everything else too.
	_, err = sess.MaxCompressedBound(16)
	require.ErrorIs(t, err, ErrState)
}

func TestSession_OpenValidation(t *testing.T) {
	_, eng := newFixture(t)

	_, err := Open(eng, 16, WithVariant(format.CompressionType(0xEE)))
	require.Error(t, err)

	_, err = Open(eng, 16, WithElementType(format.ElementType(0xEE)))
	require.Error(t, err)

	_, err = Open(eng, -1)
	require.Error(t, err)
}

func TestSession_DefaultsApply(t *testing.T) {
	_, eng := newFixture(t)

	sess, err := Open(eng, 16)
	require.NoError(t, err)
	defer sess.Close()

	assert.Equal(t, format.CompressionLZ4, sess.Variant())
	assert.Equal(t, format.TypeUint8, sess.ElementType())
}
