// Package tensor provides the core array types for the Born fill engine: runtime
// element-type tags, scalars, shapes, strided raw storage and the typed Tensor wrapper.
package tensor

import (
	"fmt"
	"strings"
)

// Native is the set of Go element types whose arithmetic is carried out directly
// by the language.
type Native interface {
	int8 | int16 | int32 | int64 | uint8 | float32 | float64
}

// DType is a constraint for supported tensor element types.
// Half-precision types are stored as 16-bit patterns and converted through float32.
type DType interface {
	Native | Float16 | BFloat16
}

// DataType represents runtime type information for tensors.
type DataType int

// Supported data types for tensors.
const (
	Int8 DataType = iota
	Int16
	Int32
	Int64
	Uint8
	Float16Type
	BFloat16Type
	Float32
	Float64
)

// DataTypes lists every supported tag in declaration order.
var DataTypes = []DataType{Int8, Int16, Int32, Int64, Uint8, Float16Type, BFloat16Type, Float32, Float64}

// Size returns the byte size of the data type.
func (dt DataType) Size() int {
	switch dt {
	case Int8, Uint8:
		return 1
	case Int16, Float16Type, BFloat16Type:
		return 2
	case Int32, Float32:
		return 4
	case Int64, Float64:
		return 8
	default:
		panic(fmt.Sprintf("unknown data type %d", int(dt)))
	}
}

// IsFloat reports whether the data type holds floating-point values.
func (dt DataType) IsFloat() bool {
	switch dt {
	case Float16Type, BFloat16Type, Float32, Float64:
		return true
	default:
		return false
	}
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Int8:
		return "int8"
	case Int16:
		return "int16"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Uint8:
		return "uint8"
	case Float16Type:
		return "float16"
	case BFloat16Type:
		return "bfloat16"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	default:
		return "unknown"
	}
}

// ParseDataType resolves a data type from its name, as printed by String.
// The short aliases "f16", "bf16", "f32", "f64", "half" and "double" are accepted too.
func ParseDataType(name string) (DataType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "int8", "i8":
		return Int8, nil
	case "int16", "i16":
		return Int16, nil
	case "int32", "i32":
		return Int32, nil
	case "int64", "i64":
		return Int64, nil
	case "uint8", "u8":
		return Uint8, nil
	case "float16", "f16", "half":
		return Float16Type, nil
	case "bfloat16", "bf16":
		return BFloat16Type, nil
	case "float32", "f32", "float":
		return Float32, nil
	case "float64", "f64", "double":
		return Float64, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedDType, name)
	}
}

// DataTypeOf returns the runtime tag matching the element type T.
func DataTypeOf[T DType]() DataType {
	var dummy T
	return inferDataType(dummy)
}

// inferDataType infers DataType from a generic type T.
func inferDataType[T DType](dummy T) DataType {
	switch any(dummy).(type) {
	case int8:
		return Int8
	case int16:
		return Int16
	case int32:
		return Int32
	case int64:
		return Int64
	case uint8:
		return Uint8
	case Float16:
		return Float16Type
	case BFloat16:
		return BFloat16Type
	case float32:
		return Float32
	case float64:
		return Float64
	default:
		panic("unsupported type")
	}
}
