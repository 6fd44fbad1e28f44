package tensor

import (
	"fmt"
	"slices"
	"unsafe"
)

// Device represents the compute device for tensor operations.
type Device int

// Supported compute devices.
const (
	CPU Device = iota
)

// String returns a human-readable device name.
func (d Device) String() string {
	switch d {
	case CPU:
		return "CPU"
	default:
		return "Unknown"
	}
}

// RawTensor is the low-level strided array: a byte buffer interpreted through a shape,
// per-axis element strides and an element offset. Views created by Transpose, Narrow
// and AsStrided share the buffer of the tensor they were created from.
type RawTensor struct {
	data   []byte   // Backing storage, shared between views
	shape  Shape    // Tensor dimensions
	stride []int    // Strides in elements, one per axis
	dtype  DataType // Runtime type information
	device Device   // Compute device
	offset int      // Element offset of index (0, ..., 0)
}

// NewRaw creates a new contiguous RawTensor with the given shape and type.
// Memory is zero-initialized.
func NewRaw(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	if !slices.Contains(DataTypes, dtype) {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedDType, int(dtype))
	}

	numElements, err := shape.checkedNumElements()
	if err != nil {
		return nil, err
	}
	byteSize, err := mulInt(numElements, dtype.Size())
	if err != nil {
		return nil, fmt.Errorf("%w: %d elements of %s", err, numElements, dtype)
	}

	return &RawTensor{
		data:   make([]byte, byteSize),
		shape:  shape.Clone(),
		stride: shape.ComputeStrides(),
		dtype:  dtype,
		device: device,
	}, nil
}

// Shape returns the tensor's shape.
func (r *RawTensor) Shape() Shape {
	return r.shape
}

// Rank returns the number of axes.
func (r *RawTensor) Rank() int {
	return len(r.shape)
}

// Strides returns the tensor's strides, in elements.
func (r *RawTensor) Strides() []int {
	return r.stride
}

// Offset returns the element offset of the first logical element.
func (r *RawTensor) Offset() int {
	return r.offset
}

// DType returns the tensor's data type.
func (r *RawTensor) DType() DataType {
	return r.dtype
}

// Device returns the tensor's compute device.
func (r *RawTensor) Device() Device {
	return r.device
}

// NumElements returns the total number of logical elements.
func (r *RawTensor) NumElements() int {
	return r.shape.NumElements()
}

// ByteSize returns the logical size in bytes.
func (r *RawTensor) ByteSize() int {
	return r.NumElements() * r.dtype.Size()
}

// Data returns the raw backing byte slice, including bytes outside this view.
// WARNING: Direct access to underlying memory. Use with caution.
func (r *RawTensor) Data() []byte {
	return r.data
}

// Indexer returns the logical-to-physical index mapping of the tensor.
func (r *RawTensor) Indexer() Indexer {
	return Indexer{shape: r.shape, strides: r.stride, offset: r.offset}
}

// IsContiguous reports whether the logical elements occupy consecutive storage
// positions in row-major order.
func (r *RawTensor) IsContiguous() bool {
	if r.NumElements() == 0 {
		return true
	}
	expected := 1
	for i := len(r.shape) - 1; i >= 0; i-- {
		if r.shape[i] != 1 && r.stride[i] != expected {
			return false
		}
		expected *= r.shape[i]
	}
	return true
}

// Storage returns the whole backing buffer as a typed slice.
// Panics if T does not match the tensor's dtype.
func Storage[T DType](r *RawTensor) []T {
	if dt := DataTypeOf[T](); dt != r.dtype {
		panic(fmt.Sprintf("tensor dtype is %s, not %s", r.dtype, dt))
	}
	n := len(r.data) / r.dtype.Size()
	if n == 0 {
		return nil
	}
	//nolint:gosec // unsafe.Slice for zero-copy access, length derived from the buffer size.
	return unsafe.Slice((*T)(unsafe.Pointer(&r.data[0])), n)
}

// Elements returns the logical elements of a contiguous tensor as a typed slice.
// Panics if T does not match the tensor's dtype or the tensor is not contiguous.
func Elements[T DType](r *RawTensor) []T {
	if !r.IsContiguous() {
		panic(fmt.Sprintf("tensor with shape %v and strides %v is not contiguous", r.shape, r.stride))
	}
	data := Storage[T](r)
	n := r.NumElements()
	if n == 0 {
		return nil
	}
	return data[r.offset : r.offset+n]
}

// Clone creates a contiguous deep copy of the tensor's logical elements.
func (r *RawTensor) Clone() *RawTensor {
	out, err := NewRaw(r.shape, r.dtype, r.device)
	if err != nil {
		panic(fmt.Sprintf("clone: %v", err))
	}
	size := r.dtype.Size()
	for i, off := range r.Indexer().Iter() {
		copy(out.data[i*size:(i+1)*size], r.data[off*size:(off+1)*size])
	}
	return out
}

// Transpose returns a view with the axes permuted. With no axes the order is reversed.
func (r *RawTensor) Transpose(axes ...int) (*RawTensor, error) {
	rank := len(r.shape)
	if len(axes) == 0 {
		axes = make([]int, rank)
		for i := range axes {
			axes[i] = rank - 1 - i
		}
	}
	if len(axes) != rank {
		return nil, fmt.Errorf("transpose: %w: %d axes for rank %d", ErrRank, len(axes), rank)
	}

	seen := make([]bool, rank)
	shape := make(Shape, rank)
	strides := make([]int, rank)
	for i, axis := range axes {
		if axis < 0 || axis >= rank || seen[axis] {
			return nil, fmt.Errorf("transpose: %w: invalid permutation %v", ErrInvalidShape, axes)
		}
		seen[axis] = true
		shape[i] = r.shape[axis]
		strides[i] = r.stride[axis]
	}
	return r.view(shape, strides, r.offset), nil
}

// Narrow returns a view restricted to [start, start+length) along dim.
func (r *RawTensor) Narrow(dim, start, length int) (*RawTensor, error) {
	if dim < 0 || dim >= len(r.shape) {
		return nil, fmt.Errorf("narrow: %w: dim %d for rank %d", ErrRank, dim, len(r.shape))
	}
	if start < 0 || length < 0 || start > r.shape[dim]-length {
		return nil, fmt.Errorf("narrow: %w: [%d, %d+%d) on axis of size %d",
			ErrOutOfBounds, start, start, length, r.shape[dim])
	}

	shape := r.shape.Clone()
	shape[dim] = length
	offset := r.offset
	if length > 0 {
		offset += start * r.stride[dim]
	}
	return r.view(shape, slices.Clone(r.stride), offset), nil
}

// AsStrided returns a view over the same storage with an arbitrary shape, strides
// and element offset. Strides must be non-negative and every reachable element must
// lie inside the backing buffer.
func (r *RawTensor) AsStrided(shape Shape, strides []int, offset int) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("as_strided: %w", err)
	}
	if len(strides) != len(shape) {
		return nil, fmt.Errorf("as_strided: %w: %d strides for rank %d", ErrRank, len(strides), len(shape))
	}
	if offset < 0 {
		return nil, fmt.Errorf("as_strided: %w: negative offset %d", ErrOutOfBounds, offset)
	}

	n, err := shape.checkedNumElements()
	if err != nil {
		return nil, fmt.Errorf("as_strided: %w", err)
	}
	if n > 0 {
		last := offset
		for i, dim := range shape {
			if strides[i] < 0 {
				return nil, fmt.Errorf("as_strided: %w: negative stride %d", ErrInvalidShape, strides[i])
			}
			span, err := mulInt(dim-1, strides[i])
			if err != nil {
				return nil, fmt.Errorf("as_strided: %w", err)
			}
			if last, err = addInt(last, span); err != nil {
				return nil, fmt.Errorf("as_strided: %w", err)
			}
		}
		if capacity := len(r.data) / r.dtype.Size(); last >= capacity {
			return nil, fmt.Errorf("as_strided: %w: element %d of storage with %d elements",
				ErrOutOfBounds, last, capacity)
		}
	}

	return r.view(shape.Clone(), slices.Clone(strides), offset), nil
}

func (r *RawTensor) view(shape Shape, strides []int, offset int) *RawTensor {
	return &RawTensor{
		data:   r.data,
		shape:  shape,
		stride: strides,
		dtype:  r.dtype,
		device: r.device,
		offset: offset,
	}
}

// String returns a short description of the tensor.
func (r *RawTensor) String() string {
	return fmt.Sprintf("RawTensor[%s]%v on %s", r.dtype, r.shape, r.device)
}
