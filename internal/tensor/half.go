package tensor

import (
	"math"
	"strconv"

	bfloat16 "github.com/d4l3k/go-bfloat16"
	"github.com/x448/float16"
)

// Float16 is an IEEE 754 half-precision value.
type Float16 = float16.Float16

// Float16FromFloat32 rounds f to the nearest half-precision value.
func Float16FromFloat32(f float32) Float16 {
	return float16.Fromfloat32(f)
}

// Float16FromFloat64 rounds f to the nearest half-precision value with a single
// rounding.
func Float16FromFloat64(f float64) Float16 {
	return float16.Fromfloat32(narrowToOdd(f))
}

// BFloat16 is a brain floating-point value: the upper 16 bits of an IEEE 754 float32.
type BFloat16 uint16

// BFloat16FromFloat32 rounds f to the nearest bfloat16, ties to even. Values past the
// largest finite bfloat16 become infinities and NaNs stay NaN.
func BFloat16FromFloat32(f float32) BFloat16 {
	if math.IsNaN(float64(f)) {
		// Truncation may drop every set mantissa bit; keep the quiet bit.
		return BFloat16(bfloat16.FromFloat32(f) | 0x0040)
	}
	u := math.Float32bits(f)
	u += 0x7fff + (u>>16)&1
	return BFloat16(bfloat16.FromFloat32(math.Float32frombits(u)))
}

// BFloat16FromFloat64 rounds f to the nearest bfloat16, ties to even, with a single
// rounding.
func BFloat16FromFloat64(f float64) BFloat16 {
	return BFloat16FromFloat32(narrowToOdd(f))
}

// narrowToOdd converts f to float32 rounding to odd: inexact results are truncated
// toward zero and get their lowest mantissa bit set. A float32 rounded this way
// rounds to any format with at most 22 significand bits exactly as f would.
func narrowToOdd(f float64) float32 {
	n := float32(f)
	if math.IsNaN(f) || float64(n) == f {
		return n
	}
	if math.Abs(float64(n)) > math.Abs(f) {
		n = math.Nextafter32(n, 0)
	}
	return math.Float32frombits(math.Float32bits(n) | 1)
}

// Float32 widens b to float32. The conversion is exact.
func (b BFloat16) Float32() float32 {
	return bfloat16.ToFloat32(bfloat16.BF16(b))
}

// Bits returns the raw 16-bit pattern.
func (b BFloat16) Bits() uint16 {
	return uint16(b)
}

// IsNaN reports whether b is a NaN.
func (b BFloat16) IsNaN() bool {
	return math.IsNaN(float64(b.Float32()))
}

// String formats b as its float32 value.
func (b BFloat16) String() string {
	return strconv.FormatFloat(float64(b.Float32()), 'g', -1, 32)
}
