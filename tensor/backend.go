// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import "github.com/born-ml/fill/internal/tensor"

// Backend defines the generators a compute backend implements.
// Each method writes into an existing destination and panics, before any write, when
// the destination violates the method's preconditions.
//
// Implementations:
//   - backend/cpu: Pure Go, specialized once per call for the element type
//
// Example:
//
//	backend := cpu.New()
//	out, _ := tensor.NewRaw(tensor.Shape{4, 4}, tensor.Float32, tensor.CPU)
//	backend.Eye(1, out)
type Backend = tensor.Backend

// Precondition checks shared by backends.
var (
	CheckIdentity = tensor.CheckIdentity
	CheckEye      = tensor.CheckEye
	CheckDiagflat = tensor.CheckDiagflat
	CheckLinspace = tensor.CheckLinspace
)

// Sentinel errors.
var (
	ErrInvalidShape     = tensor.ErrInvalidShape
	ErrOverflow         = tensor.ErrOverflow
	ErrUnsupportedDType = tensor.ErrUnsupportedDType
	ErrDTypeMismatch    = tensor.ErrDTypeMismatch
	ErrRank             = tensor.ErrRank
	ErrNotSquare        = tensor.ErrNotSquare
	ErrEmpty            = tensor.ErrEmpty
	ErrDiagonalBounds   = tensor.ErrDiagonalBounds
	ErrZeroStep         = tensor.ErrZeroStep
	ErrOutOfBounds      = tensor.ErrOutOfBounds
)
