package tensor

import (
	"fmt"
	"iter"
)

// Indexer maps logical multi-dimensional indices of a strided tensor to physical
// element offsets in its backing storage.
type Indexer struct {
	shape   Shape
	strides []int
	offset  int
}

// Shape returns the logical shape covered by the indexer.
func (ix Indexer) Shape() Shape {
	return ix.shape
}

// Offset returns the physical element offset of index.
// Each component of index addresses one axis; the number of components must equal the
// rank. Panics if the index is out of bounds.
func (ix Indexer) Offset(index ...int) int {
	if len(index) != len(ix.shape) {
		panic(fmt.Errorf("%w: expected %d indices, got %d", ErrRank, len(ix.shape), len(index)))
	}
	off := ix.offset
	for axis, i := range index {
		if i < 0 || i >= ix.shape[axis] {
			panic(fmt.Errorf("%w: index %d for dimension %d (size %d)", ErrOutOfBounds, i, axis, ix.shape[axis]))
		}
		off += i * ix.strides[axis]
	}
	return off
}

// Iter iterates in row-major order over every element, yielding the flat position
// and the physical element offset. Offsets are updated incrementally, one carry per
// axis, so no per-element division is performed.
func (ix Indexer) Iter() iter.Seq2[int, int] {
	return func(yield func(int, int) bool) {
		n := ix.shape.NumElements()
		if n == 0 {
			return
		}
		rank := len(ix.shape)
		index := make([]int, rank)
		off := ix.offset
		for flat := 0; flat < n; flat++ {
			if !yield(flat, off) {
				return
			}
			for axis := rank - 1; axis >= 0; axis-- {
				index[axis]++
				off += ix.strides[axis]
				if index[axis] < ix.shape[axis] {
					break
				}
				off -= index[axis] * ix.strides[axis]
				index[axis] = 0
			}
		}
	}
}
