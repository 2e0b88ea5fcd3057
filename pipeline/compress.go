package pipeline

import (
	"fmt"

	"github.com/boyuanzhang62/devcomp/device"
	"github.com/boyuanzhang62/devcomp/internal/digest"
	"github.com/boyuanzhang62/devcomp/internal/fsio"
	"github.com/boyuanzhang62/devcomp/session"
)

// CompressFile reads the whole file at path, compresses it on the device,
// and writes the artifact to path + CompressedSuffix. The result carries the
// achieved ratio, the engine-time throughput, and the original bytes for use
// by the verifier.
func (d *Driver) CompressFile(path string) (*CompressResult, error) {
	size, err := fsio.FileSize(path)
	if err != nil {
		return nil, err
	}
	n := int(size)

	hostIn, err := d.rt.AllocHost(n)
	if err != nil {
		return nil, err
	}
	defer d.free(hostIn)

	if err := fsio.ReadBinaryInto(path, hostIn.Bytes()); err != nil {
		return nil, err
	}
	original := append([]byte(nil), hostIn.Bytes()...)
	dig := digest.Sum(original)

	stream := d.rt.NewStream()
	defer d.closeStream(stream)

	sess, err := session.Open(d.eng, n,
		session.WithVariant(d.variant),
		session.WithElementType(d.elemType),
	)
	if err != nil {
		return nil, err
	}
	defer d.closeSession(sess)

	if err := sess.BindStream(stream); err != nil {
		return nil, err
	}

	bound, err := sess.MaxCompressedBound(n)
	if err != nil {
		return nil, err
	}

	devIn, err := d.rt.AllocDevice(n)
	if err != nil {
		return nil, err
	}
	defer d.free(devIn)

	devOut, err := d.rt.AllocDevice(bound)
	if err != nil {
		return nil, err
	}
	defer d.free(devOut)

	if err := d.rt.Memcpy(devIn, hostIn, n, device.HostToDevice); err != nil {
		return nil, err
	}

	start, stop := device.NewEvent(), device.NewEvent()
	if err := start.Record(stream); err != nil {
		return nil, err
	}
	if err := sess.Compress(devIn, devOut); err != nil {
		return nil, err
	}
	if err := stop.Record(stream); err != nil {
		return nil, err
	}
	if err := sess.Synchronize(); err != nil {
		return nil, err
	}

	elapsed, err := stop.Since(start)
	if err != nil {
		return nil, err
	}
	csize, err := sess.CompressedSize(devOut)
	if err != nil {
		return nil, err
	}

	hostOut, err := d.rt.AllocHost(csize)
	if err != nil {
		return nil, err
	}
	defer d.free(hostOut)

	if err := d.rt.Memcpy(hostOut, devOut, csize, device.DeviceToHost); err != nil {
		return nil, err
	}

	artifactPath := path + CompressedSuffix
	if err := fsio.WriteBinary(artifactPath, hostOut.Bytes()); err != nil {
		return nil, err
	}

	res := &CompressResult{
		InputPath:      path,
		ArtifactPath:   artifactPath,
		OriginalSize:   size,
		CompressedSize: int64(csize),
		Elapsed:        elapsed,
		Throughput:     throughput(size, elapsed),
		Digest:         dig,
		Original:       original,
	}
	if csize > 0 {
		res.Ratio = float64(size) / float64(csize)
	}

	d.logger.Info("compressed",
		"path", path,
		"artifact", artifactPath,
		"algo", d.variant.String(),
		"original_bytes", size,
		"compressed_bytes", csize,
		"ratio", res.Ratio,
		"elapsed", elapsed,
		"throughput_bps", res.Throughput,
		"digest", fmt.Sprintf("%016x", dig),
	)

	return res, nil
}
