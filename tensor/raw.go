// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/fill/internal/tensor"
)

// RawTensor is the low-level, untyped array: a byte buffer with shape, element
// strides and an element offset.
//
// RawTensor provides:
//   - Shape and type information via Shape(), DType(), Device()
//   - Views sharing storage via Transpose(), Narrow(), AsStrided()
//   - Dtype-independent element access via Float64At(), SetFloat64At(), FormatAt()
//
// Most users should use the high-level Tensor[T, B] type instead.
//
// Example:
//
//	raw, _ := tensor.NewRaw(tensor.Shape{2, 3}, tensor.Float32, tensor.CPU)
//	view, _ := raw.Transpose()
//	cpu.New().Arange(tensor.Int(0), tensor.Int(1), view)
type RawTensor = tensor.RawTensor

// Indexer maps multi-indices of a view to offsets in its storage.
type Indexer = tensor.Indexer

// NewRaw creates a new zeroed raw tensor with the given shape, dtype, and device.
func NewRaw(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	return tensor.NewRaw(shape, dtype, device)
}

// Storage returns the whole backing buffer of r as a []T. T must match r's dtype.
func Storage[T DType](r *RawTensor) []T {
	return tensor.Storage[T](r)
}

// Elements returns the elements of the contiguous r as a []T without copying.
func Elements[T DType](r *RawTensor) []T {
	return tensor.Elements[T](r)
}

// Untyped constructors, for element types known only at run time.

// FullRaw allocates a dtype tensor of the given shape filled with value.
func FullRaw(dtype DataType, shape Shape, value Scalar, b Backend) (*RawTensor, error) {
	return tensor.FullRaw(dtype, shape, value, b)
}

// ArangeRaw allocates a 1-D dtype tensor holding start, start+step, ... below stop.
func ArangeRaw(dtype DataType, start, stop, step Scalar, b Backend) (*RawTensor, error) {
	return tensor.ArangeRaw(dtype, start, stop, step, b)
}

// IdentityRaw allocates an n×n dtype identity matrix.
func IdentityRaw(dtype DataType, n int, b Backend) (*RawTensor, error) {
	return tensor.IdentityRaw(dtype, n, b)
}

// EyeRaw allocates a rows×cols dtype matrix with ones on the k-th diagonal.
func EyeRaw(dtype DataType, rows, cols, k int, b Backend) (*RawTensor, error) {
	return tensor.EyeRaw(dtype, rows, cols, k, b)
}

// DiagflatRaw allocates the square matrix holding v on its k-th diagonal.
func DiagflatRaw(v *RawTensor, k int, b Backend) (*RawTensor, error) {
	return tensor.DiagflatRaw(v, k, b)
}

// LinspaceRaw allocates num dtype samples evenly spaced over [start, stop], or over
// [start, stop) when endpoint is false.
func LinspaceRaw(dtype DataType, start, stop float64, num int, endpoint bool, b Backend) (*RawTensor, error) {
	return tensor.LinspaceRaw(dtype, start, stop, num, endpoint, b)
}
