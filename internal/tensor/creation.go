package tensor

import (
	"fmt"
	"math"
)

// Zeros creates a tensor filled with zeros.
//
// Example:
//
//	backend := cpu.New()
//	t := tensor.Zeros[float32](Shape{3, 4}, backend)
func Zeros[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	raw, err := NewRaw(shape, DataTypeOf[T](), b.Device())
	if err != nil {
		panic(err) // Shape validation should prevent this
	}

	// Data is already zero-initialized by make()
	return New[T, B](raw, b)
}

// Full creates a tensor filled with a specific value.
//
// Example:
//
//	t := tensor.Full[float32](Shape{3, 3}, 3.14, backend)
func Full[T DType, B Backend](shape Shape, value T, b B) *Tensor[T, B] {
	return Zeros[T, B](shape, b).Fill(value)
}

// Ones creates a tensor filled with ones.
func Ones[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	t := Zeros[T, B](shape, b)
	b.Fill(t.raw, Int(1))
	return t
}

// Arange creates a 1D tensor with values from start to stop (exclusive) spaced by step.
// The length is max(0, ceil((stop-start)/step)).
//
// Example:
//
//	t, _ := tensor.Arange[int32](tensor.Int(0), tensor.Int(10), tensor.Int(2), backend) // [0, 2, 4, 6, 8]
func Arange[T DType, B Backend](start, stop, step Scalar, b B) (*Tensor[T, B], error) {
	raw, err := ArangeRaw(DataTypeOf[T](), start, stop, step, b)
	if err != nil {
		return nil, err
	}
	return New[T, B](raw, b), nil
}

// Identity creates an n×n identity matrix.
//
// Example:
//
//	t := tensor.Identity[float32](3, backend)
func Identity[T DType, B Backend](n int, b B) *Tensor[T, B] {
	t := Zeros[T, B](Shape{n, n}, b)
	b.Identity(t.raw)
	return t
}

// Eye creates a rows×cols matrix with ones on the k-th diagonal.
// Positive k selects a diagonal above the main one, negative k one below.
//
// Example:
//
//	t := tensor.Eye[float64](3, 4, 1, backend)
func Eye[T DType, B Backend](rows, cols, k int, b B) *Tensor[T, B] {
	t := Zeros[T, B](Shape{rows, cols}, b)
	b.Eye(k, t.raw)
	return t
}

// Diagflat creates the smallest square matrix holding v on its k-th diagonal.
func Diagflat[T DType, B Backend](v *Tensor[T, B], k int) (*Tensor[T, B], error) {
	raw, err := DiagflatRaw(v.raw, k, v.backend)
	if err != nil {
		return nil, err
	}
	return New[T, B](raw, v.backend), nil
}

// Linspace creates num evenly spaced samples over [start, stop].
// With endpoint false the interval is [start, stop) and stop itself is excluded.
//
// Example:
//
//	t, _ := tensor.Linspace[float32](0, 10, 5, true, backend) // [0, 2.5, 5, 7.5, 10]
func Linspace[T DType, B Backend](start, stop float64, num int, endpoint bool, b B) (*Tensor[T, B], error) {
	raw, err := LinspaceRaw(DataTypeOf[T](), start, stop, num, endpoint, b)
	if err != nil {
		return nil, err
	}
	return New[T, B](raw, b), nil
}

// Untyped constructors. These serve callers that only learn the element type at
// run time, such as plan files and the command line.

// FullRaw allocates a dtype tensor of the given shape and fills it with value.
func FullRaw(dtype DataType, shape Shape, value Scalar, b Backend) (*RawTensor, error) {
	raw, err := NewRaw(shape, dtype, b.Device())
	if err != nil {
		return nil, fmt.Errorf("full: %w", err)
	}
	b.Fill(raw, value)
	return raw, nil
}

// ArangeRaw allocates a 1-D dtype tensor holding start, start+step, ... below stop.
// The scalars reach the backend unchanged, so integer arguments stay exact.
func ArangeRaw(dtype DataType, start, stop, step Scalar, b Backend) (*RawTensor, error) {
	n, err := ArangeLen(start, stop, step)
	if err != nil {
		return nil, err
	}
	raw, err := NewRaw(Shape{n}, dtype, b.Device())
	if err != nil {
		return nil, fmt.Errorf("arange: %w", err)
	}
	b.Arange(start, step, raw)
	return raw, nil
}

// ArangeLen returns max(0, ceil((stop-start)/step)). When all three scalars are
// integers the length is computed exactly in integer arithmetic.
func ArangeLen(start, stop, step Scalar) (int, error) {
	if start.IsFloat() || stop.IsFloat() || step.IsFloat() {
		return arangeLenFloat(start.Float64(), stop.Float64(), step.Float64())
	}

	lo, hi, inc := start.Int64(), stop.Int64(), step.Int64()
	var span, stride uint64
	switch {
	case inc == 0:
		return 0, fmt.Errorf("arange: %w", ErrZeroStep)
	case inc > 0 && hi > lo:
		span, stride = uint64(hi)-uint64(lo), uint64(inc)
	case inc < 0 && hi < lo:
		span, stride = uint64(lo)-uint64(hi), -uint64(inc)
	default:
		return 0, nil
	}
	n := span / stride
	if span%stride != 0 {
		n++
	}
	if n > math.MaxInt {
		return 0, fmt.Errorf("arange: %w: [%d, %d) step %d", ErrInvalidShape, lo, hi, inc)
	}
	return int(n), nil
}

func arangeLenFloat(start, stop, step float64) (int, error) {
	if step == 0 {
		return 0, fmt.Errorf("arange: %w", ErrZeroStep)
	}
	size := math.Ceil((stop - start) / step)
	if math.IsNaN(size) || size > 1<<53 {
		return 0, fmt.Errorf("arange: %w: [%g, %g) step %g", ErrInvalidShape, start, stop, step)
	}
	return max(int(size), 0), nil
}

// IdentityRaw allocates an n×n dtype identity matrix.
func IdentityRaw(dtype DataType, n int, b Backend) (*RawTensor, error) {
	raw, err := NewRaw(Shape{n, n}, dtype, b.Device())
	if err != nil {
		return nil, fmt.Errorf("identity: %w", err)
	}
	b.Identity(raw)
	return raw, nil
}

// EyeRaw allocates a rows×cols dtype matrix with ones on the k-th diagonal.
func EyeRaw(dtype DataType, rows, cols, k int, b Backend) (*RawTensor, error) {
	raw, err := NewRaw(Shape{rows, cols}, dtype, b.Device())
	if err != nil {
		return nil, fmt.Errorf("eye: %w", err)
	}
	b.Eye(k, raw)
	return raw, nil
}

// DiagflatRaw allocates the (m+|k|)×(m+|k|) matrix holding the m elements of v on its
// k-th diagonal, in v's dtype.
func DiagflatRaw(v *RawTensor, k int, b Backend) (*RawTensor, error) {
	if v.Rank() != 1 {
		return nil, fmt.Errorf("diagflat: %w: source shape %v, want rank 1", ErrRank, v.Shape())
	}
	if k == math.MinInt {
		return nil, fmt.Errorf("diagflat: %w: offset %d", ErrOverflow, k)
	}
	n, err := addInt(v.Shape()[0], max(k, -k))
	if err != nil {
		return nil, fmt.Errorf("diagflat: %w", err)
	}
	raw, err := NewRaw(Shape{n, n}, v.DType(), b.Device())
	if err != nil {
		return nil, fmt.Errorf("diagflat: %w", err)
	}
	b.Diagflat(v, k, raw)
	return raw, nil
}

// LinspaceRaw allocates num dtype samples evenly spaced over [start, stop], or over
// [start, stop) when endpoint is false. num == 0 gives an empty tensor.
func LinspaceRaw(dtype DataType, start, stop float64, num int, endpoint bool, b Backend) (*RawTensor, error) {
	if num < 0 {
		return nil, fmt.Errorf("linspace: %w: num %d", ErrInvalidShape, num)
	}
	raw, err := NewRaw(Shape{num}, dtype, b.Device())
	if err != nil {
		return nil, fmt.Errorf("linspace: %w", err)
	}
	if num == 0 {
		return raw, nil
	}
	if !endpoint {
		stop = start + (stop-start)*float64(num-1)/float64(num)
	}
	b.Linspace(start, stop, raw)
	return raw, nil
}
