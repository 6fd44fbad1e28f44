package tensor

import "errors"

// Sentinel errors reported by constructors and, wrapped in a panic, by backend
// operations whose structural preconditions are violated.
var (
	ErrInvalidShape     = errors.New("invalid shape")
	ErrOverflow         = errors.New("size overflows int")
	ErrUnsupportedDType = errors.New("unsupported dtype")
	ErrDTypeMismatch    = errors.New("dtype mismatch")
	ErrRank             = errors.New("unexpected rank")
	ErrNotSquare        = errors.New("matrix is not square")
	ErrEmpty            = errors.New("array is empty")
	ErrDiagonalBounds   = errors.New("diagonal does not fit destination")
	ErrZeroStep         = errors.New("step must be non-zero")
	ErrOutOfBounds      = errors.New("index out of bounds")
)
