package pipeline

import (
	"fmt"

	"github.com/boyuanzhang62/devcomp/device"
	"github.com/boyuanzhang62/devcomp/internal/digest"
	"github.com/boyuanzhang62/devcomp/internal/fsio"
	"github.com/boyuanzhang62/devcomp/session"
)

// DecompressFile reads the artifact at path, decompresses it on the device
// into a buffer of exactly originalSize bytes, and writes the result to
// path + DecompressedSuffix.
//
// The artifact does not record the original size; the caller must supply the
// true value. A wrong declaration fails the engine's decode rather than
// producing a silently mis-sized output.
func (d *Driver) DecompressFile(path string, originalSize int64) (*DecompressResult, error) {
	if originalSize < 0 {
		return nil, fmt.Errorf("negative original size %d", originalSize)
	}

	csize, err := fsio.FileSize(path)
	if err != nil {
		return nil, err
	}

	hostIn, err := d.rt.AllocHost(int(csize))
	if err != nil {
		return nil, err
	}
	defer d.free(hostIn)

	if err := fsio.ReadBinaryInto(path, hostIn.Bytes()); err != nil {
		return nil, err
	}

	stream := d.rt.NewStream()
	defer d.closeStream(stream)

	sess, err := session.Open(d.eng, int(originalSize),
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

	devIn, err := d.rt.AllocDevice(int(csize))
	if err != nil {
		return nil, err
	}
	defer d.free(devIn)

	devOut, err := d.rt.AllocDevice(int(originalSize))
	if err != nil {
		return nil, err
	}
	defer d.free(devOut)

	if err := d.rt.Memcpy(devIn, hostIn, int(csize), device.HostToDevice); err != nil {
		return nil, err
	}

	start, stop := device.NewEvent(), device.NewEvent()
	if err := start.Record(stream); err != nil {
		return nil, err
	}
	if err := sess.Decompress(devIn, devOut); err != nil {
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

	hostOut, err := d.rt.AllocHost(int(originalSize))
	if err != nil {
		return nil, err
	}
	defer d.free(hostOut)

	if err := d.rt.Memcpy(hostOut, devOut, int(originalSize), device.DeviceToHost); err != nil {
		return nil, err
	}
	output := append([]byte(nil), hostOut.Bytes()...)
	dig := digest.Sum(output)

	outputPath := path + DecompressedSuffix
	if err := fsio.WriteBinary(outputPath, output); err != nil {
		return nil, err
	}

	res := &DecompressResult{
		InputPath:      path,
		OutputPath:     outputPath,
		CompressedSize: csize,
		OriginalSize:   originalSize,
		Elapsed:        elapsed,
		Throughput:     throughput(originalSize, elapsed),
		Digest:         dig,
		Output:         output,
	}

	d.logger.Info("decompressed",
		"path", path,
		"output", outputPath,
		"algo", d.variant.String(),
		"compressed_bytes", csize,
		"original_bytes", originalSize,
		"elapsed", elapsed,
		"throughput_bps", res.Throughput,
		"digest", fmt.Sprintf("%016x", dig),
	)

	return res, nil
}
