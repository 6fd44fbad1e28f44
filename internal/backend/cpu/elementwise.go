package cpu

import (
	"github.com/born-ml/fill/internal/tensor"
)

// elementFunc computes the element at flat position i and stores it through out.
// Implementations are small value structs carrying the parameters of one call.
type elementFunc[T tensor.DType] interface {
	apply(i int, out *T)
}

// elementwise visits every element of out once, in row-major order, passing its flat
// position. Contiguous tensors are walked directly; strided views go through the
// indexer's incremental offsets.
func elementwise[T tensor.DType, F elementFunc[T]](out *tensor.RawTensor, f F) {
	data := tensor.Storage[T](out)
	n := out.NumElements()
	if out.IsContiguous() {
		if n == 0 {
			return
		}
		data = data[out.Offset() : out.Offset()+n]
		for i := range data {
			f.apply(i, &data[i])
		}
		return
	}
	for i, off := range out.Indexer().Iter() {
		f.apply(i, &data[off])
	}
}
