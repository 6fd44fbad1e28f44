// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides typed arrays and the generators that populate them.
//
// # Overview
//
// Every array is a strided view over a byte buffer. The generators write into an
// existing array, whatever its layout:
//   - Fill: every element set to one value
//   - Arange: start + step*i at flat position i
//   - Identity, Eye: ones on a diagonal, zeros elsewhere
//   - Diagflat: a vector laid along a diagonal of a zeroed matrix
//   - Linspace: evenly spaced samples with exact endpoints
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/fill/backend/cpu"
//	    "github.com/born-ml/fill/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//
//	    ramp, _ := tensor.Arange[int32](tensor.Int(5), tensor.Int(12), tensor.Int(2), backend) // [5 7 9 11]
//	    eye := tensor.Eye[float32](4, 4, 1, backend)
//	    grid, _ := tensor.Linspace[float64](0, 10, 5, true, backend)
//	}
//
// # Supported Data Types
//
// The DType constraint admits int8, int16, int32, int64, uint8, float32, float64 and
// the half-precision Float16 and BFloat16. Values are converted to the destination
// type with Go's numeric conversions: floats are truncated toward zero when written
// to integer arrays, and integer arithmetic wraps.
//
// # Views
//
// RawTensor.Transpose, Narrow and AsStrided return views that share storage.
// Generators visit a view's elements in row-major order of its own shape, so a
// transposed destination receives the same logical values as a contiguous one.
//
// # Errors
//
// Constructors return errors wrapping the sentinels below. Backend methods panic with
// such an error when a destination violates a precondition, before writing anything.
package tensor
