package cpu

import (
	"fmt"
	"iter"

	"github.com/born-ml/fill/internal/tensor"
)

// Generators. Each exported method validates the structural preconditions of its
// destination, then dispatches once on out's dtype to a generic kernel.

// Fill writes value, converted to out's dtype, to every element of out.
func (cpu *CPUBackend) Fill(out *tensor.RawTensor, value tensor.Scalar) {
	switch out.DType() {
	case tensor.Int8:
		fill(out, int8Ops, value)
	case tensor.Int16:
		fill(out, int16Ops, value)
	case tensor.Int32:
		fill(out, int32Ops, value)
	case tensor.Int64:
		fill(out, int64Ops, value)
	case tensor.Uint8:
		fill(out, uint8Ops, value)
	case tensor.Float16Type:
		fill(out, float16Ops, value)
	case tensor.BFloat16Type:
		fill(out, bfloat16Ops, value)
	case tensor.Float32:
		fill(out, float32Ops, value)
	case tensor.Float64:
		fill(out, float64Ops, value)
	default:
		panic(unsupported("fill", out.DType()))
	}
}

// Arange writes start + step*i at every flat position i of out, in out's arithmetic.
func (cpu *CPUBackend) Arange(start, step tensor.Scalar, out *tensor.RawTensor) {
	switch out.DType() {
	case tensor.Int8:
		arange(out, int8Ops, start, step)
	case tensor.Int16:
		arange(out, int16Ops, start, step)
	case tensor.Int32:
		arange(out, int32Ops, start, step)
	case tensor.Int64:
		arange(out, int64Ops, start, step)
	case tensor.Uint8:
		arange(out, uint8Ops, start, step)
	case tensor.Float16Type:
		arange(out, float16Ops, start, step)
	case tensor.BFloat16Type:
		arange(out, bfloat16Ops, start, step)
	case tensor.Float32:
		arange(out, float32Ops, start, step)
	case tensor.Float64:
		arange(out, float64Ops, start, step)
	default:
		panic(unsupported("arange", out.DType()))
	}
}

// Identity writes the identity matrix to the square rank-2 out.
func (cpu *CPUBackend) Identity(out *tensor.RawTensor) {
	if err := tensor.CheckIdentity(out); err != nil {
		panic(err)
	}
	n := out.Shape()[0]
	switch out.DType() {
	case tensor.Int8:
		identity(out, int8Ops, n)
	case tensor.Int16:
		identity(out, int16Ops, n)
	case tensor.Int32:
		identity(out, int32Ops, n)
	case tensor.Int64:
		identity(out, int64Ops, n)
	case tensor.Uint8:
		identity(out, uint8Ops, n)
	case tensor.Float16Type:
		identity(out, float16Ops, n)
	case tensor.BFloat16Type:
		identity(out, bfloat16Ops, n)
	case tensor.Float32:
		identity(out, float32Ops, n)
	case tensor.Float64:
		identity(out, float64Ops, n)
	default:
		panic(unsupported("identity", out.DType()))
	}
}

// Eye writes ones on the k-th diagonal of the rank-2 out and zeros elsewhere.
// Only the part of the diagonal inside out is written; a diagonal entirely outside
// out leaves it all zero.
func (cpu *CPUBackend) Eye(k int, out *tensor.RawTensor) {
	if err := tensor.CheckEye(out); err != nil {
		panic(err)
	}
	d := newDiagonalRun(out.Shape()[0], out.Shape()[1], k)
	switch out.DType() {
	case tensor.Int8:
		eye(out, int8Ops, d)
	case tensor.Int16:
		eye(out, int16Ops, d)
	case tensor.Int32:
		eye(out, int32Ops, d)
	case tensor.Int64:
		eye(out, int64Ops, d)
	case tensor.Uint8:
		eye(out, uint8Ops, d)
	case tensor.Float16Type:
		eye(out, float16Ops, d)
	case tensor.BFloat16Type:
		eye(out, bfloat16Ops, d)
	case tensor.Float32:
		eye(out, float32Ops, d)
	case tensor.Float64:
		eye(out, float64Ops, d)
	default:
		panic(unsupported("eye", out.DType()))
	}
}

// Diagflat zero-fills out and then writes v[j] to (rowStart+j, colStart+j), where the
// start is given by tensor.DiagonalStart(k). The whole diagonal must fit in out; if it
// does not, Diagflat panics before writing anything.
func (cpu *CPUBackend) Diagflat(v *tensor.RawTensor, k int, out *tensor.RawTensor) {
	if err := tensor.CheckDiagflat(v, k, out); err != nil {
		panic(err)
	}
	if sharesStorage(v, out) {
		v = v.Clone()
	}
	switch out.DType() {
	case tensor.Int8:
		diagflat(v, k, out, int8Ops)
	case tensor.Int16:
		diagflat(v, k, out, int16Ops)
	case tensor.Int32:
		diagflat(v, k, out, int32Ops)
	case tensor.Int64:
		diagflat(v, k, out, int64Ops)
	case tensor.Uint8:
		diagflat(v, k, out, uint8Ops)
	case tensor.Float16Type:
		diagflat(v, k, out, float16Ops)
	case tensor.BFloat16Type:
		diagflat(v, k, out, bfloat16Ops)
	case tensor.Float32:
		diagflat(v, k, out, float32Ops)
	case tensor.Float64:
		diagflat(v, k, out, float64Ops)
	default:
		panic(unsupported("diagflat", out.DType()))
	}
}

// Linspace writes n evenly spaced samples of [start, stop] to the non-empty 1-D out.
// Both endpoints are reproduced exactly before conversion to out's dtype.
func (cpu *CPUBackend) Linspace(start, stop float64, out *tensor.RawTensor) {
	if err := tensor.CheckLinspace(out); err != nil {
		panic(err)
	}
	switch out.DType() {
	case tensor.Int8:
		linspace(out, int8Ops, start, stop)
	case tensor.Int16:
		linspace(out, int16Ops, start, stop)
	case tensor.Int32:
		linspace(out, int32Ops, start, stop)
	case tensor.Int64:
		linspace(out, int64Ops, start, stop)
	case tensor.Uint8:
		linspace(out, uint8Ops, start, stop)
	case tensor.Float16Type:
		linspace(out, float16Ops, start, stop)
	case tensor.BFloat16Type:
		linspace(out, bfloat16Ops, start, stop)
	case tensor.Float32:
		linspace(out, float32Ops, start, stop)
	case tensor.Float64:
		linspace(out, float64Ops, start, stop)
	default:
		panic(unsupported("linspace", out.DType()))
	}
}

func unsupported(op string, dt tensor.DataType) error {
	return fmt.Errorf("%s: %w %v", op, tensor.ErrUnsupportedDType, dt)
}

// ============================================================================
// Kernels
// ============================================================================

type fillFunc[T tensor.DType] struct {
	value T
}

func (f fillFunc[T]) apply(_ int, out *T) { *out = f.value }

func fill[T tensor.DType](out *tensor.RawTensor, ops elemOps[T], value tensor.Scalar) {
	elementwise[T](out, fillFunc[T]{value: ops.scalar(value)})
}

type arangeFunc[T tensor.DType] struct {
	start, step T
	mulAdd      func(start, step T, i int) T
}

func (f arangeFunc[T]) apply(i int, out *T) { *out = f.mulAdd(f.start, f.step, i) }

func arange[T tensor.DType](out *tensor.RawTensor, ops elemOps[T], start, step tensor.Scalar) {
	elementwise[T](out, arangeFunc[T]{start: ops.scalar(start), step: ops.scalar(step), mulAdd: ops.mulAdd})
}

// identityFunc relies on consecutive diagonal elements of a row-major n×n matrix being
// n+1 flat positions apart, starting at 0.
type identityFunc[T tensor.DType] struct {
	nPlusOne  int
	zero, one T
}

func (f identityFunc[T]) apply(i int, out *T) {
	if i%f.nPlusOne == 0 {
		*out = f.one
	} else {
		*out = f.zero
	}
}

func identity[T tensor.DType](out *tensor.RawTensor, ops elemOps[T], n int) {
	elementwise[T](out, identityFunc[T]{nPlusOne: n + 1, zero: ops.zero, one: ops.one})
}

// diagonalRun is the run of flat positions covered by an offset diagonal:
// start, start+step, ... while below stop.
type diagonalRun struct {
	start, stop, step int
}

// newDiagonalRun locates the k-th diagonal of a rows×cols matrix. Offsets beyond the
// matrix are clamped to the first offset that misses it, which keeps the products
// below rows*cols.
func newDiagonalRun(rows, cols, k int) diagonalRun {
	m := cols
	k = min(max(k, -rows), m)
	start := k
	if k < 0 {
		start = -k * m
	}
	stop := rows * m
	if width := m - k; width == 0 || m <= stop/width {
		stop = min(stop, m*width)
	}
	return diagonalRun{start: start, stop: stop, step: m + 1}
}

func (d diagonalRun) contains(i int) bool {
	return d.start <= i && i < d.stop && (i-d.start)%d.step == 0
}

type eyeFunc[T tensor.DType] struct {
	diagonal  diagonalRun
	zero, one T
}

func (f eyeFunc[T]) apply(i int, out *T) {
	if f.diagonal.contains(i) {
		*out = f.one
	} else {
		*out = f.zero
	}
}

func eye[T tensor.DType](out *tensor.RawTensor, ops elemOps[T], d diagonalRun) {
	elementwise[T](out, eyeFunc[T]{diagonal: d, zero: ops.zero, one: ops.one})
}

func diagflat[T tensor.DType](v *tensor.RawTensor, k int, out *tensor.RawTensor, ops elemOps[T]) {
	// Initialize all elements to 0 first instead of conditionally filling in the diagonal.
	elementwise[T](out, fillFunc[T]{value: ops.zero})

	src := tensor.Storage[T](v)
	dst := tensor.Storage[T](out)
	outIndexer := out.Indexer()
	for pos, srcOff := range scatterDiagonal(v.Indexer(), k) {
		dst[outIndexer.Offset(pos[0], pos[1])] = src[srcOff]
	}
}

// scatterDiagonal yields, for every element of the 1-D source, its (row, column) on
// the k-th diagonal of the destination together with its physical source offset.
func scatterDiagonal(src tensor.Indexer, k int) iter.Seq2[[2]int, int] {
	rowStart, colStart := tensor.DiagonalStart(k)
	return func(yield func([2]int, int) bool) {
		for j, off := range src.Iter() {
			if !yield([2]int{rowStart + j, colStart + j}, off) {
				return
			}
		}
	}
}

// sharesStorage reports whether a and b are views of the same buffer.
func sharesStorage(a, b *tensor.RawTensor) bool {
	da, db := a.Data(), b.Data()
	return len(da) > 0 && len(db) > 0 && &da[0] == &db[0]
}

type linspaceFunc[T tensor.DType] struct {
	n           int
	start, stop float64
	convert     func(float64) T
}

func (f linspaceFunc[T]) apply(i int, out *T) {
	switch i {
	case 0:
		*out = f.convert(f.start)
	case f.n - 1:
		*out = f.convert(f.stop)
	default:
		// Weighted form stays within [start, stop] without accumulating error.
		value := (f.start*float64(f.n-1-i) + f.stop*float64(i)) / float64(f.n-1)
		*out = f.convert(value)
	}
}

func linspace[T tensor.DType](out *tensor.RawTensor, ops elemOps[T], start, stop float64) {
	elementwise[T](out, linspaceFunc[T]{n: out.Shape()[0], start: start, stop: stop, convert: ops.fromFloat64})
}
