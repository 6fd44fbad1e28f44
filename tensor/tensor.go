// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/fill/internal/tensor"
)

// Type aliases for public API

// DType is a constraint for tensor element types.
// Supported types: int8, int16, int32, int64, uint8, Float16, BFloat16, float32, float64.
type DType = tensor.DType

// Native is the subset of DType with a built-in Go representation.
type Native = tensor.Native

// DataType is the run-time tag of an element type.
type DataType = tensor.DataType

// Data type constants.
const (
	Int8         DataType = tensor.Int8
	Int16        DataType = tensor.Int16
	Int32        DataType = tensor.Int32
	Int64        DataType = tensor.Int64
	Uint8        DataType = tensor.Uint8
	Float16Type  DataType = tensor.Float16Type
	BFloat16Type DataType = tensor.BFloat16Type
	Float32      DataType = tensor.Float32
	Float64      DataType = tensor.Float64
)

// ParseDataType resolves a data type from its name or a short alias such as "bf16".
func ParseDataType(name string) (DataType, error) {
	return tensor.ParseDataType(name)
}

// DataTypeOf returns the run-time tag of T.
func DataTypeOf[T DType]() DataType {
	return tensor.DataTypeOf[T]()
}

// Float16 is an IEEE 754 half-precision value.
type Float16 = tensor.Float16

// BFloat16 is a brain floating-point value: the upper 16 bits of a float32.
type BFloat16 = tensor.BFloat16

// Float16FromFloat32 rounds f to the nearest Float16.
func Float16FromFloat32(f float32) Float16 {
	return tensor.Float16FromFloat32(f)
}

// BFloat16FromFloat32 rounds f to the nearest BFloat16, ties to even.
func BFloat16FromFloat32(f float32) BFloat16 {
	return tensor.BFloat16FromFloat32(f)
}

// Scalar is a dtype-independent value handed to the generators.
type Scalar = tensor.Scalar

// Int returns an integer Scalar.
func Int(v int64) Scalar { return tensor.Int(v) }

// Float returns a floating-point Scalar.
func Float(v float64) Scalar { return tensor.Float(v) }

// ScalarOf wraps a value of any element type.
func ScalarOf[T DType](v T) Scalar { return tensor.ScalarOf(v) }

// ParseScalar parses an integer or floating-point literal.
func ParseScalar(s string) (Scalar, error) { return tensor.ParseScalar(s) }

// Device represents the device where tensor data resides.
type Device = tensor.Device

// CPU is the host device.
const CPU Device = tensor.CPU

// Shape represents the dimensions of a tensor.
// Example: Shape{2, 3, 4} represents a 3D tensor with dimensions 2×3×4.
type Shape = tensor.Shape

// Tensor is a generic type-safe tensor.
//
// T is the element type; B is the backend that populates it.
//
// Example:
//
//	backend := cpu.New()
//	x := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
//	x.Fill(1.5)
type Tensor[T DType, B Backend] = tensor.Tensor[T, B]

// Creation functions

// Zeros creates a tensor filled with zeros.
//
// Example:
//
//	backend := cpu.New()
//	x := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
func Zeros[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	return tensor.Zeros[T, B](shape, b)
}

// Ones creates a tensor filled with ones.
func Ones[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	return tensor.Ones[T, B](shape, b)
}

// Full creates a tensor filled with a specific value.
//
// Example:
//
//	backend := cpu.New()
//	x := tensor.Full[float32](tensor.Shape{2, 3}, 3.14, backend)
func Full[T DType, B Backend](shape Shape, value T, b B) *Tensor[T, B] {
	return tensor.Full[T, B](shape, value, b)
}

// Arange creates a 1D tensor with values from start to stop (exclusive) spaced by step.
//
// Example:
//
//	backend := cpu.New()
//	x, _ := tensor.Arange[int32](tensor.Int(5), tensor.Int(12), tensor.Int(2), backend) // [5, 7, 9, 11]
func Arange[T DType, B Backend](start, stop, step Scalar, b B) (*Tensor[T, B], error) {
	return tensor.Arange[T, B](start, stop, step, b)
}

// Identity creates an n×n identity matrix.
func Identity[T DType, B Backend](n int, b B) *Tensor[T, B] {
	return tensor.Identity[T, B](n, b)
}

// Eye creates a rows×cols matrix with ones on the k-th diagonal.
//
// Example:
//
//	backend := cpu.New()
//	upper := tensor.Eye[float32](4, 4, 1, backend)
func Eye[T DType, B Backend](rows, cols, k int, b B) *Tensor[T, B] {
	return tensor.Eye[T, B](rows, cols, k, b)
}

// Diagflat creates the smallest square matrix holding v on its k-th diagonal.
func Diagflat[T DType, B Backend](v *Tensor[T, B], k int) (*Tensor[T, B], error) {
	return tensor.Diagflat(v, k)
}

// Linspace creates num evenly spaced samples over [start, stop], or [start, stop)
// when endpoint is false.
//
// Example:
//
//	backend := cpu.New()
//	x, _ := tensor.Linspace[float64](0, 10, 5, true, backend) // [0, 2.5, 5, 7.5, 10]
func Linspace[T DType, B Backend](start, stop float64, num int, endpoint bool, b B) (*Tensor[T, B], error) {
	return tensor.Linspace[T, B](start, stop, num, endpoint, b)
}

// FromSlice creates a tensor from a Go slice.
//
// Example:
//
//	backend := cpu.New()
//	data := []float32{1, 2, 3, 4, 5, 6}
//	x, err := tensor.FromSlice(data, tensor.Shape{2, 3}, backend)
func FromSlice[T DType, B Backend](data []T, shape Shape, b B) (*Tensor[T, B], error) {
	return tensor.FromSlice[T, B](data, shape, b)
}

// New creates a tensor from a raw tensor.
//
// This is a low-level function. Most users should use creation functions like
// Zeros, Arange, or FromSlice instead.
func New[T DType, B Backend](raw *RawTensor, b B) *Tensor[T, B] {
	return tensor.New[T, B](raw, b)
}
