package serialization

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/bits"
	"os"
	"slices"
	"sort"

	"github.com/born-ml/fill/internal/tensor"
)

const metadataKey = "__metadata__"

// SafeTensorHeader represents a tensor in the SafeTensors header.
type SafeTensorHeader struct {
	DType       string   `json:"dtype"`
	Shape       []int64  `json:"shape"`
	DataOffsets [2]int64 `json:"data_offsets"`
}

// Write encodes tensors to w in SafeTensors format.
//
// Tensors are written in alphabetical order by name. Views are written in row-major
// order of their shape, so a transposed view round-trips as its transposed values.
func Write(w io.Writer, tensors map[string]*tensor.RawTensor, metadata map[string]string) error {
	// Sort tensor names alphabetically (SafeTensors requirement)
	names := make([]string, 0, len(tensors))
	for name := range tensors {
		if err := ValidateTensorName(name); err != nil {
			return err
		}
		names = append(names, name)
	}
	sort.Strings(names)

	header := make(map[string]any, len(names)+1)
	if len(metadata) > 0 {
		header[metadataKey] = metadata
	}

	payloads := make([][]byte, len(names))
	var currentOffset int64
	for i, name := range names {
		raw := tensors[name]
		dtype, err := dtypeToSafeTensors(raw.DType())
		if err != nil {
			return fmt.Errorf("tensor %s: %w", name, err)
		}

		payloads[i] = contiguousBytes(raw)
		size := int64(len(payloads[i]))

		shape := make([]int64, raw.Rank())
		for d, dim := range raw.Shape() {
			shape[d] = int64(dim)
		}

		header[name] = SafeTensorHeader{
			DType:       dtype,
			Shape:       shape,
			DataOffsets: [2]int64{currentOffset, currentOffset + size},
		}
		currentOffset += size
	}

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("failed to marshal header: %w", err)
	}

	if err := binary.Write(w, binary.LittleEndian, uint64(len(headerJSON))); err != nil {
		return fmt.Errorf("failed to write header size: %w", err)
	}
	if _, err := w.Write(headerJSON); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, name := range names {
		if _, err := w.Write(payloads[i]); err != nil {
			return fmt.Errorf("failed to write tensor %s: %w", name, err)
		}
	}

	return nil
}

// WriteFile writes tensors to a new SafeTensors file at path.
func WriteFile(path string, tensors map[string]*tensor.RawTensor, metadata map[string]string) (err error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for saving
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		err = errors.Join(err, file.Close())
	}()

	return Write(file, tensors, metadata)
}

// Read decodes a SafeTensors stream into freshly allocated CPU tensors.
func Read(r io.Reader) (map[string]*tensor.RawTensor, map[string]string, error) {
	var headerSize uint64
	if err := binary.Read(r, binary.LittleEndian, &headerSize); err != nil {
		return nil, nil, fmt.Errorf("failed to read header size: %w", err)
	}
	if headerSize > MaxHeaderSize {
		return nil, nil, &ValidationError{
			Err:     ErrHeaderTooLarge,
			Details: fmt.Sprintf("%d bytes, max %d", headerSize, MaxHeaderSize),
		}
	}

	headerJSON := make([]byte, headerSize)
	if _, err := io.ReadFull(r, headerJSON); err != nil {
		return nil, nil, fmt.Errorf("failed to read header: %w", err)
	}

	var entries map[string]json.RawMessage
	if err := json.Unmarshal(headerJSON, &entries); err != nil {
		return nil, nil, fmt.Errorf("failed to parse header: %w", err)
	}

	var metadata map[string]string
	if m, ok := entries[metadataKey]; ok {
		if err := json.Unmarshal(m, &metadata); err != nil {
			return nil, nil, fmt.Errorf("failed to parse metadata: %w", err)
		}
		delete(entries, metadataKey)
	}

	headers := make(map[string]SafeTensorHeader, len(entries))
	spans := make([]tensorSpan, 0, len(entries))
	for name, msg := range entries {
		if err := ValidateTensorName(name); err != nil {
			return nil, nil, err
		}
		var h SafeTensorHeader
		if err := json.Unmarshal(msg, &h); err != nil {
			return nil, nil, fmt.Errorf("tensor %s: failed to parse header: %w", name, err)
		}
		headers[name] = h
		spans = append(spans, tensorSpan{Name: name, Start: h.DataOffsets[0], End: h.DataOffsets[1]})
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read tensor data: %w", err)
	}
	if err := ValidateTensorOffsets(spans, int64(len(data))); err != nil {
		return nil, nil, err
	}

	tensors := make(map[string]*tensor.RawTensor, len(headers))
	for name, h := range headers {
		raw, err := newTensor(name, h)
		if err != nil {
			return nil, nil, err
		}
		copy(raw.Data(), data[h.DataOffsets[0]:h.DataOffsets[1]])
		tensors[name] = raw
	}

	return tensors, metadata, nil
}

// ReadFile reads a SafeTensors file written by WriteFile or any other producer.
func ReadFile(path string) (map[string]*tensor.RawTensor, map[string]string, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for loading
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	return Read(file)
}

// SortedNames returns the keys of tensors in alphabetical order.
func SortedNames(tensors map[string]*tensor.RawTensor) []string {
	names := make([]string, 0, len(tensors))
	for name := range tensors {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// newTensor allocates the tensor described by h. The header's shape must account for
// exactly the bytes of its data span; this is checked before anything is allocated.
func newTensor(name string, h SafeTensorHeader) (*tensor.RawTensor, error) {
	dtype, err := dtypeFromSafeTensors(h.DType)
	if err != nil {
		return nil, fmt.Errorf("tensor %s: %w", name, err)
	}
	shape := make(tensor.Shape, len(h.Shape))
	for i, dim := range h.Shape {
		if dim < 0 || dim > int64(^uint(0)>>1) {
			return nil, fmt.Errorf("tensor %s: %w: shape %v", name, tensor.ErrInvalidShape, h.Shape)
		}
		shape[i] = int(dim)
	}

	have := h.DataOffsets[1] - h.DataOffsets[0]
	if want, ok := payloadSize(dtype, h.Shape); !ok || want != uint64(have) {
		details := fmt.Sprintf("%d bytes for %s %v, want %d", have, dtype, h.Shape, want)
		if !ok {
			details = fmt.Sprintf("%d bytes for %s %v, want more than 2^64", have, dtype, h.Shape)
		}
		return nil, &ValidationError{Err: ErrSizeMismatch, Tensor: name, Details: details}
	}

	raw, err := tensor.NewRaw(shape, dtype, tensor.CPU)
	if err != nil {
		return nil, fmt.Errorf("tensor %s: %w", name, err)
	}
	return raw, nil
}

// payloadSize returns the byte size of a dtype tensor with non-negative dims. ok is
// false when the size does not fit in a uint64.
func payloadSize(dtype tensor.DataType, dims []int64) (size uint64, ok bool) {
	if slices.Contains(dims, 0) {
		return 0, true
	}
	size = uint64(dtype.Size())
	for _, dim := range dims {
		hi, lo := bits.Mul64(size, uint64(dim))
		if hi != 0 {
			return 0, false
		}
		size = lo
	}
	return size, true
}

// contiguousBytes returns the logical elements of raw as bytes, copying only when raw
// is a strided view.
func contiguousBytes(raw *tensor.RawTensor) []byte {
	if raw.NumElements() == 0 {
		return nil
	}
	if !raw.IsContiguous() {
		raw = raw.Clone()
	}
	size := raw.DType().Size()
	start := raw.Offset() * size
	return raw.Data()[start : start+raw.NumElements()*size]
}

var safeTensorsDTypes = map[tensor.DataType]string{
	tensor.Int8:         "I8",
	tensor.Int16:        "I16",
	tensor.Int32:        "I32",
	tensor.Int64:        "I64",
	tensor.Uint8:        "U8",
	tensor.Float16Type:  "F16",
	tensor.BFloat16Type: "BF16",
	tensor.Float32:      "F32",
	tensor.Float64:      "F64",
}

// dtypeToSafeTensors converts tensor.DataType to SafeTensors dtype string.
func dtypeToSafeTensors(dt tensor.DataType) (string, error) {
	if s, ok := safeTensorsDTypes[dt]; ok {
		return s, nil
	}
	return "", fmt.Errorf("%w: %v", tensor.ErrUnsupportedDType, dt)
}

func dtypeFromSafeTensors(s string) (tensor.DataType, error) {
	for dt, name := range safeTensorsDTypes {
		if name == s {
			return dt, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownDType, s)
}
