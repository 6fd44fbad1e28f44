package cpu

import (
	"bytes"
	"fmt"
	"math"
	"testing"

	"github.com/born-ml/fill/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Helpers

func newRaw(t *testing.T, shape tensor.Shape, dtype tensor.DataType) *tensor.RawTensor {
	t.Helper()
	raw, err := tensor.NewRaw(shape, dtype, tensor.CPU)
	require.NoError(t, err)
	return raw
}

// values reads the logical elements of raw in row-major order.
func values(raw *tensor.RawTensor) []float64 {
	out := make([]float64, 0, raw.NumElements())
	for _, index := range raw.Shape().Iter() {
		out = append(out, raw.Float64At(index...))
	}
	return out
}

// scribble fills raw with a recognisable non-zero pattern.
func scribble(raw *tensor.RawTensor) {
	for i, index := range raw.Shape().Iter() {
		raw.SetFloat64At(float64(i%7+3), index...)
	}
}

// recoverError runs f and returns the error it panicked with, or nil.
func recoverError(f func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
				return
			}
			err = fmt.Errorf("%v", r)
		}
	}()
	f()
	return nil
}

func identityValues(n int) []float64 {
	out := make([]float64, n*n)
	for i := range n {
		out[i*n+i] = 1
	}
	return out
}

// Fill

func TestFillAllDTypes(t *testing.T) {
	backend := New()
	for _, dt := range tensor.DataTypes {
		t.Run(dt.String(), func(t *testing.T) {
			out := newRaw(t, tensor.Shape{2, 3, 2}, dt)
			scribble(out)

			backend.Fill(out, tensor.Int(3))
			for _, v := range values(out) {
				require.Equal(t, 3.0, v)
			}

			backend.Fill(out, tensor.Float(2.5))
			want := 2.5
			if !dt.IsFloat() {
				want = 2
			}
			for _, v := range values(out) {
				require.Equal(t, want, v)
			}
		})
	}
}

func TestFillScalarAndEmpty(t *testing.T) {
	backend := New()

	s := newRaw(t, tensor.Shape{}, tensor.Float64)
	backend.Fill(s, tensor.Float(-1.5))
	assert.Equal(t, []float64{-1.5}, values(s))

	e := newRaw(t, tensor.Shape{3, 0}, tensor.Float64)
	assert.NotPanics(t, func() { backend.Fill(e, tensor.Int(1)) })
}

func TestFillHalfPrecisionRoundsOnce(t *testing.T) {
	backend := New()
	value := 1 + math.Ldexp(1, -11) + math.Ldexp(1, -40)

	f16 := newRaw(t, tensor.Shape{2}, tensor.Float16Type)
	backend.Fill(f16, tensor.Float(value))
	assert.Equal(t, []float64{1 + math.Ldexp(1, -10), 1 + math.Ldexp(1, -10)}, values(f16))

	bf16 := newRaw(t, tensor.Shape{1}, tensor.BFloat16Type)
	backend.Fill(bf16, tensor.Float(1+math.Ldexp(1, -8)+math.Ldexp(1, -40)))
	assert.Equal(t, []float64{1 + math.Ldexp(1, -7)}, values(bf16))
}

func TestFillStridedViewOnly(t *testing.T) {
	backend := New()
	base := newRaw(t, tensor.Shape{4, 4}, tensor.Int32)

	view, err := base.Narrow(1, 1, 2)
	require.NoError(t, err)
	view, err = view.Narrow(0, 1, 2)
	require.NoError(t, err)
	require.False(t, view.IsContiguous())

	backend.Fill(view, tensor.Int(8))
	assert.Equal(t, []float64{
		0, 0, 0, 0,
		0, 8, 8, 0,
		0, 8, 8, 0,
		0, 0, 0, 0,
	}, values(base))
}

// Arange

func TestArangeAllDTypes(t *testing.T) {
	backend := New()
	for _, dt := range tensor.DataTypes {
		t.Run(dt.String(), func(t *testing.T) {
			out := newRaw(t, tensor.Shape{4}, dt)
			backend.Arange(tensor.Int(5), tensor.Int(2), out)
			assert.Equal(t, []float64{5, 7, 9, 11}, values(out))
		})
	}
}

func TestArangeFloatStep(t *testing.T) {
	backend := New()
	out := newRaw(t, tensor.Shape{5}, tensor.Float32)
	backend.Arange(tensor.Float(-1), tensor.Float(0.5), out)
	assert.Equal(t, []float32{-1, -0.5, 0, 0.5, 1}, tensor.Elements[float32](out))
}

func TestArangeMultiplyAddNotAccumulate(t *testing.T) {
	backend := New()
	const n = 1000
	out := newRaw(t, tensor.Shape{n}, tensor.Float32)
	backend.Arange(tensor.Float(0), tensor.Float(0.1), out)

	data := tensor.Elements[float32](out)
	step := float32(0.1)
	for i, v := range data {
		require.Equal(t, step*float32(i), v, "element %d", i)
	}
}

func TestArangeIntegerWraparound(t *testing.T) {
	backend := New()
	out := newRaw(t, tensor.Shape{3}, tensor.Int8)
	backend.Arange(tensor.Int(126), tensor.Int(1), out)
	assert.Equal(t, []int8{126, 127, -128}, tensor.Elements[int8](out))
}

func TestArangeInt64BeyondFloatPrecision(t *testing.T) {
	start := int64(1)<<53 + 1
	out, err := tensor.ArangeRaw(tensor.Int64, tensor.Int(start), tensor.Int(start+3), tensor.Int(1), New())
	require.NoError(t, err)
	assert.Equal(t, []int64{start, start + 1, start + 2}, tensor.Elements[int64](out))

	down, err := tensor.ArangeRaw(tensor.Int64, tensor.Int(math.MaxInt64), tensor.Int(math.MaxInt64-7), tensor.Int(-3), New())
	require.NoError(t, err)
	assert.Equal(t, []int64{math.MaxInt64, math.MaxInt64 - 3, math.MaxInt64 - 6}, tensor.Elements[int64](down))
}

func TestArangeMultiDimensionalFlatOrder(t *testing.T) {
	backend := New()
	out := newRaw(t, tensor.Shape{2, 3}, tensor.Int64)
	backend.Arange(tensor.Int(0), tensor.Int(10), out)
	assert.Equal(t, []int64{0, 10, 20, 30, 40, 50}, tensor.Elements[int64](out))

	// A transposed destination is filled in its own logical order.
	base := newRaw(t, tensor.Shape{2, 3}, tensor.Int64)
	tr, err := base.Transpose()
	require.NoError(t, err)
	backend.Arange(tensor.Int(0), tensor.Int(1), tr)
	assert.Equal(t, []float64{0, 1, 2, 3, 4, 5}, values(tr))
	assert.Equal(t, []int64{0, 2, 4, 1, 3, 5}, tensor.Elements[int64](base))
}

// Identity

func TestIdentity3x3(t *testing.T) {
	backend := New()
	for _, dt := range tensor.DataTypes {
		t.Run(dt.String(), func(t *testing.T) {
			out := newRaw(t, tensor.Shape{3, 3}, dt)
			scribble(out)
			backend.Identity(out)
			assert.Equal(t, []float64{
				1, 0, 0,
				0, 1, 0,
				0, 0, 1,
			}, values(out))
		})
	}
}

func TestIdentityMatchesGonum(t *testing.T) {
	backend := New()
	for _, n := range []int{1, 2, 5, 16} {
		out := newRaw(t, tensor.Shape{n, n}, tensor.Float64)
		backend.Identity(out)

		ones := make([]float64, n)
		floats.AddConst(1, ones)
		got := mat.NewDense(n, n, tensor.Elements[float64](out))
		assert.True(t, mat.Equal(mat.NewDiagDense(n, ones), got), "n=%d", n)
	}
}

func TestIdentityPreconditions(t *testing.T) {
	backend := New()

	err := recoverError(func() { backend.Identity(newRaw(t, tensor.Shape{2, 3}, tensor.Float32)) })
	require.ErrorIs(t, err, tensor.ErrNotSquare)

	err = recoverError(func() { backend.Identity(newRaw(t, tensor.Shape{4}, tensor.Float32)) })
	require.ErrorIs(t, err, tensor.ErrRank)
}

// Eye

func TestEye4x4Offsets(t *testing.T) {
	backend := New()
	tests := []struct {
		k    int
		want []float64
	}{
		{1, []float64{
			0, 1, 0, 0,
			0, 0, 1, 0,
			0, 0, 0, 1,
			0, 0, 0, 0,
		}},
		{-2, []float64{
			0, 0, 0, 0,
			0, 0, 0, 0,
			1, 0, 0, 0,
			0, 1, 0, 0,
		}},
		{0, identityValues(4)},
		{4, make([]float64, 16)},
		{-4, make([]float64, 16)},
		{100, make([]float64, 16)},
		{math.MaxInt, make([]float64, 16)},
		{math.MinInt, make([]float64, 16)},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("k=%d", tt.k), func(t *testing.T) {
			out := newRaw(t, tensor.Shape{4, 4}, tensor.Float32)
			scribble(out)
			backend.Eye(tt.k, out)
			assert.Equal(t, tt.want, values(out))
		})
	}
}

func TestEyeNonSquare(t *testing.T) {
	backend := New()

	wide := newRaw(t, tensor.Shape{2, 4}, tensor.Int32)
	backend.Eye(1, wide)
	assert.Equal(t, []int32{0, 1, 0, 0, 0, 0, 1, 0}, tensor.Elements[int32](wide))

	// Diagonal k=1 of a tall matrix must not wrap into the next row.
	tall := newRaw(t, tensor.Shape{4, 2}, tensor.Int32)
	backend.Eye(1, tall)
	assert.Equal(t, []int32{0, 1, 0, 0, 0, 0, 0, 0}, tensor.Elements[int32](tall))
}

func TestEyePartiallyOutOfBounds(t *testing.T) {
	backend := New()

	// Only the in-bounds part of the diagonal is written.
	out := newRaw(t, tensor.Shape{3, 5}, tensor.Float64)
	backend.Eye(3, out)
	assert.Equal(t, []float64{
		0, 0, 0, 1, 0,
		0, 0, 0, 0, 1,
		0, 0, 0, 0, 0,
	}, values(out))

	out = newRaw(t, tensor.Shape{5, 3}, tensor.Float64)
	backend.Eye(-3, out)
	assert.Equal(t, []float64{
		0, 0, 0,
		0, 0, 0,
		0, 0, 0,
		1, 0, 0,
		0, 1, 0,
	}, values(out))
}

func TestEyeMatchesReference(t *testing.T) {
	backend := New()
	reference := tensor.NewMockBackend()
	for rows := 0; rows <= 5; rows++ {
		for cols := 0; cols <= 5; cols++ {
			for k := -6; k <= 6; k++ {
				got := newRaw(t, tensor.Shape{rows, cols}, tensor.Float32)
				want := newRaw(t, tensor.Shape{rows, cols}, tensor.Float32)
				backend.Eye(k, got)
				reference.Eye(k, want)
				require.Equal(t, values(want), values(got), "%dx%d k=%d", rows, cols, k)
			}
		}
	}
}

func TestEyeRank(t *testing.T) {
	err := recoverError(func() { New().Eye(0, newRaw(t, tensor.Shape{2, 2, 2}, tensor.Float32)) })
	require.ErrorIs(t, err, tensor.ErrRank)
}

// Diagflat

func TestDiagflat(t *testing.T) {
	backend := New()

	v := newRaw(t, tensor.Shape{3}, tensor.Float64)
	copy(tensor.Elements[float64](v), []float64{1, 2, 3})

	out := newRaw(t, tensor.Shape{3, 3}, tensor.Float64)
	backend.Diagflat(v, 0, out)
	assert.True(t, mat.Equal(mat.NewDiagDense(3, []float64{1, 2, 3}), mat.NewDense(3, 3, values(out))))

	out = newRaw(t, tensor.Shape{4, 4}, tensor.Float64)
	backend.Diagflat(v, 1, out)
	assert.Equal(t, []float64{
		0, 1, 0, 0,
		0, 0, 2, 0,
		0, 0, 0, 3,
		0, 0, 0, 0,
	}, values(out))

	out = newRaw(t, tensor.Shape{5, 3}, tensor.Float64)
	backend.Diagflat(v, -2, out)
	assert.Equal(t, []float64{
		0, 0, 0,
		0, 0, 0,
		1, 0, 0,
		0, 2, 0,
		0, 0, 3,
	}, values(out))
}

func TestDiagflatZeroesFirst(t *testing.T) {
	backend := New()
	for _, dt := range tensor.DataTypes {
		t.Run(dt.String(), func(t *testing.T) {
			v := newRaw(t, tensor.Shape{2}, dt)
			out := newRaw(t, tensor.Shape{4, 5}, dt)
			scribble(out)

			// An all-zero source still clears every destination cell.
			backend.Diagflat(v, 1, out)
			assert.Equal(t, make([]float64, 20), values(out))
		})
	}
}

func TestDiagflatRejectsOutOfBounds(t *testing.T) {
	backend := New()
	v := newRaw(t, tensor.Shape{3}, tensor.Int16)
	backend.Arange(tensor.Int(1), tensor.Int(1), v)

	out := newRaw(t, tensor.Shape{3, 3}, tensor.Int16)
	scribble(out)
	before := bytes.Clone(out.Data())

	err := recoverError(func() { backend.Diagflat(v, 1, out) })
	require.ErrorIs(t, err, tensor.ErrDiagonalBounds)
	assert.Equal(t, before, out.Data(), "destination must be untouched")

	err = recoverError(func() { backend.Diagflat(v, -1, out) })
	require.ErrorIs(t, err, tensor.ErrDiagonalBounds)

	err = recoverError(func() { backend.Diagflat(v, math.MinInt, out) })
	require.ErrorIs(t, err, tensor.ErrDiagonalBounds)
}

func TestDiagflatPreconditions(t *testing.T) {
	backend := New()

	err := recoverError(func() {
		backend.Diagflat(newRaw(t, tensor.Shape{2, 2}, tensor.Float32), 0, newRaw(t, tensor.Shape{2, 2}, tensor.Float32))
	})
	require.ErrorIs(t, err, tensor.ErrRank)

	err = recoverError(func() {
		backend.Diagflat(newRaw(t, tensor.Shape{2}, tensor.Float32), 0, newRaw(t, tensor.Shape{2, 2}, tensor.Int32))
	})
	require.ErrorIs(t, err, tensor.ErrDTypeMismatch)
}

func TestDiagflatStridedOperands(t *testing.T) {
	backend := New()

	// Source: every other element of [10, 11, 12, 13, 14, 15].
	src := newRaw(t, tensor.Shape{6}, tensor.Float32)
	backend.Arange(tensor.Int(10), tensor.Int(1), src)
	v, err := src.AsStrided(tensor.Shape{3}, []int{2}, 0)
	require.NoError(t, err)

	// Destination: transposed 4x4 view.
	base := newRaw(t, tensor.Shape{4, 4}, tensor.Float32)
	out, err := base.Transpose()
	require.NoError(t, err)

	backend.Diagflat(v, 1, out)
	assert.Equal(t, []float64{
		0, 10, 0, 0,
		0, 0, 12, 0,
		0, 0, 0, 14,
		0, 0, 0, 0,
	}, values(out))
	assert.Equal(t, []float32{
		0, 0, 0, 0,
		10, 0, 0, 0,
		0, 12, 0, 0,
		0, 0, 14, 0,
	}, tensor.Elements[float32](base))
}

func TestDiagflatEmptySource(t *testing.T) {
	backend := New()
	v := newRaw(t, tensor.Shape{0}, tensor.Float64)
	out := newRaw(t, tensor.Shape{2, 2}, tensor.Float64)
	scribble(out)

	backend.Diagflat(v, 5, out)
	assert.Equal(t, []float64{0, 0, 0, 0}, values(out))
}

func TestDiagflatAliasedSource(t *testing.T) {
	backend := New()
	base := newRaw(t, tensor.Shape{3, 3}, tensor.Float64)
	backend.Arange(tensor.Int(1), tensor.Int(1), base)

	// Source is the first row of the destination itself.
	row, err := base.Narrow(0, 0, 1)
	require.NoError(t, err)
	v, err := row.AsStrided(tensor.Shape{3}, []int{1}, 0)
	require.NoError(t, err)

	backend.Diagflat(v, 0, base)
	assert.Equal(t, []float64{
		1, 0, 0,
		0, 2, 0,
		0, 0, 3,
	}, values(base))
}

func TestDiagflatMatchesReference(t *testing.T) {
	backend := New()
	reference := tensor.NewMockBackend()
	for m := 0; m <= 3; m++ {
		v := newRaw(t, tensor.Shape{m}, tensor.Int32)
		backend.Arange(tensor.Int(1), tensor.Int(1), v)
		for k := -3; k <= 3; k++ {
			n := m + max(k, -k)
			got := newRaw(t, tensor.Shape{n, n + 1}, tensor.Int32)
			want := newRaw(t, tensor.Shape{n, n + 1}, tensor.Int32)
			backend.Diagflat(v, k, got)
			reference.Diagflat(v, k, want)
			require.Equal(t, values(want), values(got), "m=%d k=%d", m, k)
		}
	}
}

// Linspace

func TestLinspace(t *testing.T) {
	backend := New()
	out := newRaw(t, tensor.Shape{5}, tensor.Float64)
	backend.Linspace(0, 10, out)
	assert.Equal(t, []float64{0, 2.5, 5, 7.5, 10}, tensor.Elements[float64](out))
}

func TestLinspaceAllDTypes(t *testing.T) {
	backend := New()
	for _, dt := range tensor.DataTypes {
		t.Run(dt.String(), func(t *testing.T) {
			out := newRaw(t, tensor.Shape{5}, dt)
			backend.Linspace(0, 10, out)
			want := []float64{0, 2.5, 5, 7.5, 10}
			if !dt.IsFloat() {
				want = []float64{0, 2, 5, 7, 10}
			}
			assert.Equal(t, want, values(out))
		})
	}
}

func TestLinspaceSingleSample(t *testing.T) {
	backend := New()
	out := newRaw(t, tensor.Shape{1}, tensor.Float64)
	backend.Linspace(0.1, math.Inf(1), out)
	assert.Equal(t, []float64{0.1}, tensor.Elements[float64](out))
}

func TestLinspaceExactEndpoints(t *testing.T) {
	backend := New()
	for _, tt := range []struct{ start, stop float64 }{
		{0.1, 0.7},
		{-3.3, 1e-9},
		{1e10, -2.2e-3},
		{math.Pi, math.E},
	} {
		for n := 2; n <= 50; n++ {
			out := newRaw(t, tensor.Shape{n}, tensor.Float64)
			backend.Linspace(tt.start, tt.stop, out)
			data := tensor.Elements[float64](out)
			require.Equal(t, tt.start, data[0], "n=%d", n)
			require.Equal(t, tt.stop, data[n-1], "n=%d", n)
		}
	}
}

func TestLinspaceMatchesGonumSpan(t *testing.T) {
	backend := New()
	out := newRaw(t, tensor.Shape{33}, tensor.Float64)
	backend.Linspace(-1.5, 4.25, out)

	want := floats.Span(make([]float64, 33), -1.5, 4.25)
	assert.True(t, floats.EqualApprox(want, tensor.Elements[float64](out), 1e-12))
}

func TestLinspacePreconditions(t *testing.T) {
	backend := New()

	err := recoverError(func() { backend.Linspace(0, 1, newRaw(t, tensor.Shape{0}, tensor.Float32)) })
	require.ErrorIs(t, err, tensor.ErrEmpty)

	err = recoverError(func() { backend.Linspace(0, 1, newRaw(t, tensor.Shape{2, 2}, tensor.Float32)) })
	require.ErrorIs(t, err, tensor.ErrRank)
}

// Cross-cutting properties

func TestIdempotence(t *testing.T) {
	backend := New()
	v := newRaw(t, tensor.Shape{3}, tensor.Float32)
	backend.Arange(tensor.Float(0.5), tensor.Float(1.25), v)

	ops := map[string]func(out *tensor.RawTensor){
		"fill":     func(out *tensor.RawTensor) { backend.Fill(out, tensor.Float(1.1)) },
		"arange":   func(out *tensor.RawTensor) { backend.Arange(tensor.Float(0.3), tensor.Float(0.7), out) },
		"identity": func(out *tensor.RawTensor) { backend.Identity(out) },
		"eye":      func(out *tensor.RawTensor) { backend.Eye(-1, out) },
		"diagflat": func(out *tensor.RawTensor) { backend.Diagflat(v, 1, out) },
	}
	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			out := newRaw(t, tensor.Shape{4, 4}, tensor.Float32)
			op(out)
			first := bytes.Clone(out.Data())
			op(out)
			assert.Equal(t, first, out.Data())
		})
	}

	t.Run("linspace", func(t *testing.T) {
		out := newRaw(t, tensor.Shape{9}, tensor.Float32)
		backend.Linspace(0.1, 0.9, out)
		first := bytes.Clone(out.Data())
		scribble(out)
		backend.Linspace(0.1, 0.9, out)
		assert.Equal(t, first, out.Data())
	})
}
