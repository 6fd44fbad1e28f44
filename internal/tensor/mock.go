package tensor

// Verify that MockBackend implements Backend.
var _ Backend = (*MockBackend)(nil)

// MockBackend is a simple backend for testing.
// It evaluates every generator naively per multi-dimensional index, in float64, so its
// results can be used to verify the flat-position arithmetic of real backends.
type MockBackend struct{}

// NewMockBackend creates a new MockBackend.
func NewMockBackend() *MockBackend {
	return &MockBackend{}
}

// Name returns the backend name.
func (m *MockBackend) Name() string {
	return "mock"
}

// Device returns the device type.
func (m *MockBackend) Device() Device {
	return CPU
}

// Fill writes value to every element.
func (m *MockBackend) Fill(out *RawTensor, value Scalar) {
	m.each(out, func(int, []int) float64 { return value.Float64() })
}

// Arange writes start + step*i at flat position i.
func (m *MockBackend) Arange(start, step Scalar, out *RawTensor) {
	m.each(out, func(i int, _ []int) float64 { return start.Float64() + step.Float64()*float64(i) })
}

// Identity writes ones where the row equals the column.
func (m *MockBackend) Identity(out *RawTensor) {
	if err := CheckIdentity(out); err != nil {
		panic(err)
	}
	m.Eye(0, out)
}

// Eye writes ones where column - row == k.
func (m *MockBackend) Eye(k int, out *RawTensor) {
	if err := CheckEye(out); err != nil {
		panic(err)
	}
	m.each(out, func(_ int, index []int) float64 {
		if index[1]-index[0] == k {
			return 1
		}
		return 0
	})
}

// Diagflat writes v[j] where (row, column) == DiagonalStart(k) + (j, j).
func (m *MockBackend) Diagflat(v *RawTensor, k int, out *RawTensor) {
	if err := CheckDiagflat(v, k, out); err != nil {
		panic(err)
	}
	rowStart, colStart := DiagonalStart(k)
	m.each(out, func(_ int, index []int) float64 {
		j := index[0] - rowStart
		if j >= 0 && j < v.Shape()[0] && index[1]-colStart == j {
			return v.Float64At(j)
		}
		return 0
	})
}

// Linspace writes start + i*(stop-start)/(n-1), forcing the last sample to stop.
func (m *MockBackend) Linspace(start, stop float64, out *RawTensor) {
	if err := CheckLinspace(out); err != nil {
		panic(err)
	}
	n := out.Shape()[0]
	m.each(out, func(i int, _ []int) float64 {
		switch i {
		case 0:
			return start
		case n - 1:
			return stop
		default:
			return start + float64(i)*(stop-start)/float64(n-1)
		}
	})
}

func (m *MockBackend) each(out *RawTensor, value func(flat int, index []int) float64) {
	for i, index := range out.Shape().Iter() {
		out.SetFloat64At(value(i, index), index...)
	}
}
