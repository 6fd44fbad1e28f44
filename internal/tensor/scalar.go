package tensor

import (
	"fmt"
	"strconv"
)

// Scalar is a tagged numeric literal supplied to a generator.
// It is converted to an array's element type by a numeric cast at the point of use.
type Scalar struct {
	isFloat bool
	i       int64
	f       float64
}

// Int returns an integer scalar.
func Int(v int64) Scalar {
	return Scalar{i: v}
}

// Float returns a floating-point scalar.
func Float(v float64) Scalar {
	return Scalar{isFloat: true, f: v}
}

// ScalarOf wraps a typed element value, keeping integer values integral.
func ScalarOf[T DType](v T) Scalar {
	switch x := any(v).(type) {
	case int8:
		return Int(int64(x))
	case int16:
		return Int(int64(x))
	case int32:
		return Int(int64(x))
	case int64:
		return Int(x)
	case uint8:
		return Int(int64(x))
	case Float16:
		return Float(float64(x.Float32()))
	case BFloat16:
		return Float(float64(x.Float32()))
	case float32:
		return Float(float64(x))
	case float64:
		return Float(x)
	default:
		panic("unsupported type")
	}
}

// ParseScalar parses s as an integer when it has no fraction or exponent, and as a
// float otherwise.
func ParseScalar(s string) (Scalar, error) {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Int(i), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Scalar{}, fmt.Errorf("parse scalar %q: %w", s, err)
	}
	return Float(f), nil
}

// IsFloat reports whether the scalar carries a floating-point value.
func (s Scalar) IsFloat() bool {
	return s.isFloat
}

// Int64 returns the value as int64, truncating a float toward zero.
func (s Scalar) Int64() int64 {
	if s.isFloat {
		return int64(s.f)
	}
	return s.i
}

// Float64 returns the value as float64.
func (s Scalar) Float64() float64 {
	if s.isFloat {
		return s.f
	}
	return float64(s.i)
}

// String formats the scalar.
func (s Scalar) String() string {
	if s.isFloat {
		return strconv.FormatFloat(s.f, 'g', -1, 64)
	}
	return strconv.FormatInt(s.i, 10)
}
