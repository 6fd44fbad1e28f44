package tensor

import "fmt"

// Backend defines the interface that all compute backends must implement.
// Backends populate preallocated destination tensors in place; none of the
// generators read prior contents of out.
//
// Implementations:
//   - CPU: the fill engine (internal/backend/cpu)
//   - Mock: naive per-index reference used to cross-check other backends
type Backend interface {
	// Fill writes value, converted to out's dtype, to every element.
	Fill(out *RawTensor, value Scalar)

	// Arange writes start + step*i at flat position i.
	Arange(start, step Scalar, out *RawTensor)

	// Identity writes the n×n identity matrix. out must be square and rank 2.
	Identity(out *RawTensor)

	// Eye writes ones on the k-th diagonal of a rank-2 out and zeros elsewhere.
	Eye(k int, out *RawTensor)

	// Diagflat zero-fills out and scatters the 1-D v along its k-th diagonal.
	Diagflat(v *RawTensor, k int, out *RawTensor)

	// Linspace writes len(out) evenly spaced samples of [start, stop] to a 1-D out.
	Linspace(start, stop float64, out *RawTensor)

	// Metadata
	Name() string
	Device() Device
}

// CheckIdentity reports whether out can hold an identity matrix.
func CheckIdentity(out *RawTensor) error {
	if out.Rank() != 2 {
		return fmt.Errorf("identity: %w: got shape %v, want rank 2", ErrRank, out.Shape())
	}
	if out.Shape()[0] != out.Shape()[1] {
		return fmt.Errorf("identity: %w: got shape %v", ErrNotSquare, out.Shape())
	}
	return nil
}

// CheckEye reports whether out can hold an offset diagonal matrix.
func CheckEye(out *RawTensor) error {
	if out.Rank() != 2 {
		return fmt.Errorf("eye: %w: got shape %v, want rank 2", ErrRank, out.Shape())
	}
	return nil
}

// CheckDiagflat reports whether the whole k-th diagonal built from v fits in out.
func CheckDiagflat(v *RawTensor, k int, out *RawTensor) error {
	if v.Rank() != 1 {
		return fmt.Errorf("diagflat: %w: source shape %v, want rank 1", ErrRank, v.Shape())
	}
	if out.Rank() != 2 {
		return fmt.Errorf("diagflat: %w: destination shape %v, want rank 2", ErrRank, out.Shape())
	}
	if v.DType() != out.DType() {
		return fmt.Errorf("diagflat: %w: source %s, destination %s", ErrDTypeMismatch, v.DType(), out.DType())
	}

	m := v.Shape()[0]
	rows, cols := out.Shape()[0], out.Shape()[1]
	fits := m <= rows && k >= 0 && k <= cols-m
	if k < 0 {
		fits = m <= cols && k >= m-rows
	}
	if m > 0 && !fits {
		return fmt.Errorf("diagflat: %w: %d values at offset %d in %dx%d",
			ErrDiagonalBounds, m, k, rows, cols)
	}
	return nil
}

// CheckLinspace reports whether out can hold a linear interpolation.
func CheckLinspace(out *RawTensor) error {
	if out.Rank() != 1 {
		return fmt.Errorf("linspace: %w: got shape %v, want rank 1", ErrRank, out.Shape())
	}
	if out.Shape()[0] == 0 {
		return fmt.Errorf("linspace: %w", ErrEmpty)
	}
	return nil
}

// DiagonalStart returns the (row, column) where the k-th diagonal begins.
func DiagonalStart(k int) (row, col int) {
	if k >= 0 {
		return 0, k
	}
	return -k, 0
}
