package tensor

import (
	"fmt"
	"iter"
	"math"
	"math/bits"
)

// Shape represents the dimensions of a tensor.
type Shape []int

// Rank returns the number of axes.
func (s Shape) Rank() int {
	return len(s)
}

// NumElements returns the total number of elements in the tensor.
func (s Shape) NumElements() int {
	if len(s) == 0 {
		return 1 // Scalar has 1 element
	}
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// checkedNumElements is NumElements with overflow detection.
func (s Shape) checkedNumElements() (int, error) {
	n := 1
	for _, dim := range s {
		var err error
		if n, err = mulInt(n, dim); err != nil {
			return 0, fmt.Errorf("%w: shape %v", err, s)
		}
	}
	return n, nil
}

// Validate checks if the shape is valid (all dimensions >= 0).
func (s Shape) Validate() error {
	for i, dim := range s {
		if dim < 0 {
			return fmt.Errorf("%w: dimension at index %d is %d (must be >= 0)", ErrInvalidShape, i, dim)
		}
	}
	return nil
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// ComputeStrides calculates row-major strides for the shape.
// Strides define memory layout: stride[i] = product of all dimensions after i.
func (s Shape) ComputeStrides() []int {
	strides := make([]int, len(s))
	if len(s) == 0 {
		return strides
	}

	strides[len(s)-1] = 1
	for i := len(s) - 2; i >= 0; i-- {
		strides[i] = strides[i+1] * s[i+1]
	}
	return strides
}

// Iter iterates sequentially, in row-major order, over all indices of the shape.
//
// It yields the flat position and the multi-dimensional index. The index slice is
// owned by the iterator and reused between steps: don't change or retain it.
func (s Shape) Iter() iter.Seq2[int, []int] {
	return func(yield func(int, []int) bool) {
		n := s.NumElements()
		if n == 0 {
			return
		}
		index := make([]int, len(s))
		for flat := 0; flat < n; flat++ {
			if !yield(flat, index) {
				return
			}
			for axis := len(s) - 1; axis >= 0; axis-- {
				index[axis]++
				if index[axis] < s[axis] {
					break
				}
				index[axis] = 0
			}
		}
	}
}

// mulInt multiplies two non-negative ints, reporting overflow.
func mulInt(a, b int) (int, error) {
	hi, lo := bits.Mul64(uint64(a), uint64(b)) //nolint:gosec // G115: callers pass non-negative values.
	if hi != 0 || lo > math.MaxInt {
		return 0, ErrOverflow
	}
	return int(lo), nil //nolint:gosec // G115: bounded by math.MaxInt above.
}

// addInt adds two non-negative ints, reporting overflow.
func addInt(a, b int) (int, error) {
	if a > math.MaxInt-b {
		return 0, ErrOverflow
	}
	return a + b, nil
}
