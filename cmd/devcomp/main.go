// Command devcomp compresses, decompresses, and round-trip verifies flat
// binary files on the accelerator-resident codec engine.
//
// Usage:
//
//	# Compress file.bin into file.bin.cmp
//	devcomp -c file.bin
//
//	# Decompress file.bin.cmp into file.bin.cmp.dec; the original size is
//	# required because the artifact does not record it
//	devcomp -d file.bin.cmp 1048576
//
//	# Compress then decompress file.bin and compare byte for byte
//	devcomp -r file.bin
//
// The algorithm and element granularity default to LZ4 over raw bytes and
// can be selected with --algo and --dtype.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/pflag"

	"github.com/boyuanzhang62/devcomp/format"
	"github.com/boyuanzhang62/devcomp/pipeline"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		os.Exit(1)
	}
}

// usageError distinguishes malformed invocations from engine faults; they
// carry their own exit code.
type usageError struct {
	msg string
}

func (e *usageError) Error() string {
	return e.msg
}

func (e *usageError) ExitCode() int {
	return 2
}

func usagef(formatStr string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(formatStr, args...)}
}

func run(args []string) error {
	flags := pflag.NewFlagSet("devcomp", pflag.ContinueOnError)
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: devcomp [-c <file> | -d <file> <originalSizeBytes> | -r <file>] [--algo lz4|s2|zstd|none] [--dtype u8|i16|u32|f32|f64] [-v]\n")
		flags.PrintDefaults()
	}

	compressMode := flags.BoolP("compress", "c", false, "compress a file")
	decompressMode := flags.BoolP("decompress", "d", false, "decompress an artifact (requires the original size)")
	verifyMode := flags.BoolP("roundtrip", "r", false, "compress then decompress and verify byte equality")
	algo := flags.String("algo", "lz4", "compression algorithm variant")
	dtype := flags.String("dtype", "u8", "element granularity for verification")
	verbose := flags.BoolP("verbose", "v", false, "enable debug logging")

	if err := flags.Parse(args); err != nil {
		return usagef("%v", err)
	}

	modes := 0
	for _, set := range []bool{*compressMode, *decompressMode, *verifyMode} {
		if set {
			modes++
		}
	}
	if modes != 1 {
		flags.Usage()

		return usagef("exactly one of -c, -d, -r is required")
	}

	variant, ok := format.ParseCompressionType(*algo)
	if !ok {
		return usagef("unknown algorithm %q", *algo)
	}
	elemType, ok := format.ParseElementType(*dtype)
	if !ok {
		return usagef("unknown dtype %q", *dtype)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	driver := pipeline.New(pipeline.Config{
		Variant:     variant,
		ElementType: elemType,
		Logger:      logger,
	})

	positional := flags.Args()
	switch {
	case *compressMode:
		if len(positional) != 1 {
			return usagef("-c takes exactly one file argument, got %d", len(positional))
		}

		return runCompress(driver, positional[0])

	case *decompressMode:
		if len(positional) != 2 {
			return usagef("-d takes a file and the original size in bytes, got %d arguments", len(positional))
		}
		originalSize, err := strconv.ParseInt(positional[1], 10, 64)
		if err != nil || originalSize < 0 {
			return usagef("invalid original size %q", positional[1])
		}

		return runDecompress(driver, positional[0], originalSize)

	default:
		if len(positional) != 1 {
			return usagef("-r takes exactly one file argument, got %d", len(positional))
		}

		return runVerify(driver, positional[0])
	}
}

func runCompress(driver *pipeline.Driver, path string) error {
	res, err := driver.CompressFile(path)
	if err != nil {
		return err
	}
	fmt.Printf("%s -> %s\n", res.InputPath, res.ArtifactPath)
	fmt.Printf("compression ratio: %.4f (%d -> %d bytes)\n", res.Ratio, res.OriginalSize, res.CompressedSize)
	fmt.Printf("throughput: %s\n", formatThroughput(res.Throughput))

	return nil
}

func runDecompress(driver *pipeline.Driver, path string, originalSize int64) error {
	res, err := driver.DecompressFile(path, originalSize)
	if err != nil {
		return err
	}
	fmt.Printf("%s -> %s\n", res.InputPath, res.OutputPath)
	fmt.Printf("elapsed: %s\n", res.Elapsed)
	fmt.Printf("throughput: %s\n", formatThroughput(res.Throughput))

	return nil
}

func runVerify(driver *pipeline.Driver, path string) error {
	res, err := driver.VerifyRoundTrip(path)
	if err != nil {
		return err
	}
	if !res.OK() {
		// A mismatch is a diagnostic, not a process failure.
		fmt.Printf("%s\n", res.Mismatch)

		return nil
	}
	fmt.Printf("round trip verified: %d elements, ratio %.4f\n", res.Elements, res.Compress.Ratio)

	return nil
}

func formatThroughput(bytesPerSec float64) string {
	const mb = 1024 * 1024
	if bytesPerSec >= mb {
		return fmt.Sprintf("%.2f MiB/s", bytesPerSec/mb)
	}

	return fmt.Sprintf("%.0f B/s", bytesPerSec)
}
