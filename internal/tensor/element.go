package tensor

import (
	"fmt"
	"strconv"
)

// Float64At reads the element at the given indices, widened to float64.
// Panics if indices are out of bounds.
func (r *RawTensor) Float64At(indices ...int) float64 {
	off := r.Indexer().Offset(indices...)
	switch r.dtype {
	case Int8:
		return float64(Storage[int8](r)[off])
	case Int16:
		return float64(Storage[int16](r)[off])
	case Int32:
		return float64(Storage[int32](r)[off])
	case Int64:
		return float64(Storage[int64](r)[off])
	case Uint8:
		return float64(Storage[uint8](r)[off])
	case Float16Type:
		return float64(Storage[Float16](r)[off].Float32())
	case BFloat16Type:
		return float64(Storage[BFloat16](r)[off].Float32())
	case Float32:
		return float64(Storage[float32](r)[off])
	case Float64:
		return Storage[float64](r)[off]
	default:
		panic(fmt.Sprintf("Float64At: unsupported dtype %v", r.dtype))
	}
}

// SetFloat64At stores v, converted to the tensor's dtype, at the given indices.
// Panics if indices are out of bounds.
func (r *RawTensor) SetFloat64At(v float64, indices ...int) {
	off := r.Indexer().Offset(indices...)
	switch r.dtype {
	case Int8:
		Storage[int8](r)[off] = int8(v)
	case Int16:
		Storage[int16](r)[off] = int16(v)
	case Int32:
		Storage[int32](r)[off] = int32(v)
	case Int64:
		Storage[int64](r)[off] = int64(v)
	case Uint8:
		Storage[uint8](r)[off] = uint8(v)
	case Float16Type:
		Storage[Float16](r)[off] = Float16FromFloat64(v)
	case BFloat16Type:
		Storage[BFloat16](r)[off] = BFloat16FromFloat64(v)
	case Float32:
		Storage[float32](r)[off] = float32(v)
	case Float64:
		Storage[float64](r)[off] = v
	default:
		panic(fmt.Sprintf("SetFloat64At: unsupported dtype %v", r.dtype))
	}
}

// SetScalarAt stores s at the given indices with a numeric cast. Integer scalars are
// converted from int64 directly, so they stay exact in integer dtypes.
// Panics if indices are out of bounds.
func (r *RawTensor) SetScalarAt(s Scalar, indices ...int) {
	if s.IsFloat() {
		r.SetFloat64At(s.Float64(), indices...)
		return
	}
	v := s.Int64()
	off := r.Indexer().Offset(indices...)
	switch r.dtype {
	case Int8:
		Storage[int8](r)[off] = int8(v)
	case Int16:
		Storage[int16](r)[off] = int16(v)
	case Int32:
		Storage[int32](r)[off] = int32(v)
	case Int64:
		Storage[int64](r)[off] = v
	case Uint8:
		Storage[uint8](r)[off] = uint8(v)
	case Float16Type:
		Storage[Float16](r)[off] = Float16FromFloat64(float64(v))
	case BFloat16Type:
		Storage[BFloat16](r)[off] = BFloat16FromFloat64(float64(v))
	case Float32:
		Storage[float32](r)[off] = float32(v)
	case Float64:
		Storage[float64](r)[off] = float64(v)
	default:
		panic(fmt.Sprintf("SetScalarAt: unsupported dtype %v", r.dtype))
	}
}

// FormatAt formats the element at the given indices. Integers are printed exactly.
func (r *RawTensor) FormatAt(indices ...int) string {
	if !r.dtype.IsFloat() {
		off := r.Indexer().Offset(indices...)
		switch r.dtype {
		case Int8:
			return strconv.FormatInt(int64(Storage[int8](r)[off]), 10)
		case Int16:
			return strconv.FormatInt(int64(Storage[int16](r)[off]), 10)
		case Int32:
			return strconv.FormatInt(int64(Storage[int32](r)[off]), 10)
		case Int64:
			return strconv.FormatInt(Storage[int64](r)[off], 10)
		case Uint8:
			return strconv.FormatUint(uint64(Storage[uint8](r)[off]), 10)
		}
	}
	bitSize := 64
	if r.dtype != Float64 {
		bitSize = 32
	}
	return strconv.FormatFloat(r.Float64At(indices...), 'g', -1, bitSize)
}
