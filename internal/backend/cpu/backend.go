// Package cpu implements the CPU fill engine: the array-populating generators of
// tensor.Backend, specialized once per call for the destination's element type.
package cpu

import (
	"github.com/born-ml/fill/internal/tensor"
)

// Verify that CPUBackend implements tensor.Backend.
var _ tensor.Backend = (*CPUBackend)(nil)

// CPUBackend implements the generators on CPU.
// It holds no mutable state, so one backend may serve concurrent calls on disjoint
// destinations.
type CPUBackend struct {
	device tensor.Device
}

// New creates a new CPU backend.
func New() *CPUBackend {
	return &CPUBackend{
		device: tensor.CPU,
	}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (cpu *CPUBackend) Device() tensor.Device {
	return cpu.device
}
