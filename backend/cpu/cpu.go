// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cpu

import (
	internalcpu "github.com/born-ml/fill/internal/backend/cpu"
	"github.com/born-ml/fill/tensor"
)

// Backend represents the CPU backend implementation.
type Backend = internalcpu.CPUBackend

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// New creates a new CPU backend.
//
// Example:
//
//	import (
//	    "github.com/born-ml/fill/backend/cpu"
//	    "github.com/born-ml/fill/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    x := tensor.Identity[float32](3, backend)
//	}
func New() *Backend {
	return internalcpu.New()
}
