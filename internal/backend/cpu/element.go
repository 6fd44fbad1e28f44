package cpu

import (
	"github.com/born-ml/fill/internal/tensor"
)

// elemOps bundles the conversions and arithmetic of one element type. Each generator
// resolves its elemOps once, at the dispatch switch, and never inspects the dtype again.
type elemOps[T tensor.DType] struct {
	fromInt64   func(int64) T
	fromFloat64 func(float64) T
	mulAdd      func(start, step T, i int) T // start + step*i
	zero, one   T
}

// scalar converts s with a numeric cast: integer scalars through fromInt64, floating
// scalars through fromFloat64.
func (o elemOps[T]) scalar(s tensor.Scalar) T {
	if s.IsFloat() {
		return o.fromFloat64(s.Float64())
	}
	return o.fromInt64(s.Int64())
}

func nativeOps[T tensor.Native]() elemOps[T] {
	return elemOps[T]{
		fromInt64:   func(v int64) T { return T(v) },
		fromFloat64: func(v float64) T { return T(v) },
		mulAdd:      func(start, step T, i int) T { return start + step*T(i) },
		zero:        0,
		one:         1,
	}
}

var (
	int8Ops    = nativeOps[int8]()
	int16Ops   = nativeOps[int16]()
	int32Ops   = nativeOps[int32]()
	int64Ops   = nativeOps[int64]()
	uint8Ops   = nativeOps[uint8]()
	float32Ops = nativeOps[float32]()
	float64Ops = nativeOps[float64]()
)

// Half-precision values are widened to float32, combined there and rounded back once.
// Conversions from float64 and int64 round directly to the half format.

var float16Ops = elemOps[tensor.Float16]{
	fromInt64:   func(v int64) tensor.Float16 { return tensor.Float16FromFloat64(float64(v)) },
	fromFloat64: func(v float64) tensor.Float16 { return tensor.Float16FromFloat64(v) },
	mulAdd: func(start, step tensor.Float16, i int) tensor.Float16 {
		return tensor.Float16FromFloat32(start.Float32() + step.Float32()*float32(i))
	},
	zero: tensor.Float16FromFloat32(0),
	one:  tensor.Float16FromFloat32(1),
}

var bfloat16Ops = elemOps[tensor.BFloat16]{
	fromInt64:   func(v int64) tensor.BFloat16 { return tensor.BFloat16FromFloat64(float64(v)) },
	fromFloat64: func(v float64) tensor.BFloat16 { return tensor.BFloat16FromFloat64(v) },
	mulAdd: func(start, step tensor.BFloat16, i int) tensor.BFloat16 {
		return tensor.BFloat16FromFloat32(start.Float32() + step.Float32()*float32(i))
	},
	zero: tensor.BFloat16FromFloat32(0),
	one:  tensor.BFloat16FromFloat32(1),
}
