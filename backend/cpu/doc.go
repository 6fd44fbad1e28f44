// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides a pure Go CPU backend for the array generators.
//
// # Overview
//
// Each generator dispatches once on the destination's element type and then runs a
// kernel specialized for it. Contiguous destinations are written in a single pass
// over their buffer; strided views are walked with incremental offsets.
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
//	    out, _ := tensor.NewRaw(tensor.Shape{4, 4}, tensor.BFloat16Type, tensor.CPU)
//	    backend.Eye(1, out)
//	}
//
// # Thread Safety
//
// The CPU backend holds no mutable state. Concurrent calls are safe as long as their
// destinations do not overlap.
package cpu
