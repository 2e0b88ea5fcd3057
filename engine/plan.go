package engine

import (
	"fmt"

	"github.com/boyuanzhang62/devcomp/compress"
	"github.com/boyuanzhang62/devcomp/format"
)

// Plan is a configured, stateful handle into the engine: an uncompressed-size
// bound, an element type, a fidelity mode, and an algorithm variant, fixed
// for the plan's lifetime. A plan is created before the compress or
// decompress call that uses it and destroyed exactly once afterwards.
// Reusing a plan across unrelated buffer sizes is not supported.
type Plan struct {
	engine          *Engine
	codec           compress.Codec
	variant         format.CompressionType
	elemType        format.ElementType
	mode            format.Mode
	maxUncompressed int
	destroyed       bool
}

// CreatePlan configures a plan. Every argument is validated here so that a
// misconfigured plan can never reach a stream: unknown variants, element
// types, or modes and a negative size bound all fail with StatusInvalidValue
// or StatusNotSupported.
func (e *Engine) CreatePlan(maxUncompressedBytes int, elemType format.ElementType, mode format.Mode, variant format.CompressionType) (*Plan, error) {
	if maxUncompressedBytes < 0 {
		return nil, statusErr("create-plan", StatusInvalidValue,
			fmt.Errorf("negative uncompressed bound %d", maxUncompressedBytes))
	}
	if !elemType.Valid() {
		return nil, statusErr("create-plan", StatusInvalidValue,
			fmt.Errorf("unknown element type %d", elemType))
	}
	if mode != format.ModeLossless {
		return nil, statusErr("create-plan", StatusNotSupported,
			fmt.Errorf("mode %s", mode))
	}
	if maxUncompressedBytes%elemType.Size() != 0 {
		return nil, statusErr("create-plan", StatusInvalidValue,
			fmt.Errorf("bound %d not a multiple of %s element size %d",
				maxUncompressedBytes, elemType, elemType.Size()))
	}

	codec, err := compress.GetCodec(variant)
	if err != nil {
		return nil, statusErr("create-plan", StatusNotSupported, err)
	}

	return &Plan{
		engine:          e,
		codec:           codec,
		variant:         variant,
		elemType:        elemType,
		mode:            mode,
		maxUncompressed: maxUncompressedBytes,
	}, nil
}

// Variant returns the plan's algorithm variant.
func (p *Plan) Variant() format.CompressionType {
	return p.variant
}

// ElementType returns the plan's element type.
func (p *Plan) ElementType() format.ElementType {
	return p.elemType
}

// MaxUncompressed returns the plan's uncompressed-size bound in bytes.
func (p *Plan) MaxUncompressed() int {
	return p.maxUncompressed
}

// Destroy releases the plan. Must be called exactly once, after the stream
// carrying the plan's work has synchronized; a second call reports
// StatusInvalidValue.
func (p *Plan) Destroy() error {
	if p.destroyed {
		return statusErr("destroy-plan", StatusInvalidValue, fmt.Errorf("plan already destroyed"))
	}
	p.destroyed = true

	return nil
}
