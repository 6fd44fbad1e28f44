// Package plan loads and runs generator plans: YAML documents listing array-populating
// jobs (fill, arange, identity, eye, diagflat, linspace) to run against a backend.
//
// Example plan:
//
//	jobs:
//	  - name: ramp
//	    op: arange
//	    dtype: int32
//	    start: 5
//	    stop: 12
//	    step: 2
//	  - op: eye
//	    dtype: bf16
//	    shape: [4, 4]
//	    k: 1
package plan

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/born-ml/fill/internal/tensor"
)

// ErrInvalidJob is returned for jobs missing a required field or carrying one their
// op does not accept.
var ErrInvalidJob = errors.New("invalid job")

// Op names a generator.
type Op string

// Generators a job can run.
const (
	OpFill     Op = "fill"
	OpArange   Op = "arange"
	OpIdentity Op = "identity"
	OpEye      Op = "eye"
	OpDiagflat Op = "diagflat"
	OpLinspace Op = "linspace"
)

// Ops lists every supported generator.
var Ops = []Op{OpFill, OpArange, OpIdentity, OpEye, OpDiagflat, OpLinspace}

// Number is a YAML scalar that keeps the integer/float distinction of its source text.
type Number struct {
	tensor.Scalar
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (n *Number) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a number", node.Line)
	}
	s, err := tensor.ParseScalar(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	n.Scalar = s
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (n Number) MarshalYAML() (any, error) {
	if n.IsFloat() {
		return n.Float64(), nil
	}
	return n.Int64(), nil
}

// Num wraps s for use in a Job.
func Num(s tensor.Scalar) *Number {
	return &Number{Scalar: s}
}

// Job describes one generator call and the array it writes to.
type Job struct {
	Name     string    `yaml:"name,omitempty"`
	Op       Op        `yaml:"op"`
	DType    string    `yaml:"dtype,omitempty"`
	Shape    []int     `yaml:"shape,omitempty"`
	Value    *Number   `yaml:"value,omitempty"`
	Start    *Number   `yaml:"start,omitempty"`
	Stop     *Number   `yaml:"stop,omitempty"`
	Step     *Number   `yaml:"step,omitempty"`
	K        int       `yaml:"k,omitempty"`
	Values   []Number  `yaml:"values,omitempty"`
	Num      *int      `yaml:"num,omitempty"`
	Endpoint *bool     `yaml:"endpoint,omitempty"`
}

// Plan is a list of jobs.
type Plan struct {
	Jobs []Job `yaml:"jobs"`
}

// Load decodes a plan, names unnamed jobs and validates every job.
func Load(r io.Reader) (*Plan, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var p Plan
	if err := dec.Decode(&p); err != nil {
		if errors.Is(err, io.EOF) {
			return &p, nil
		}
		return nil, fmt.Errorf("plan: %w", err)
	}

	for i := range p.Jobs {
		job := &p.Jobs[i]
		if job.Name == "" {
			job.Name = string(job.Op) + "-" + uuid.NewString()[:8]
		}
		if err := job.Validate(); err != nil {
			return nil, fmt.Errorf("plan: job %d (%s): %w", i, job.Name, err)
		}
	}
	return &p, nil
}

// Encode writes p as YAML.
func (p *Plan) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(p); err != nil {
		return err
	}
	return enc.Close()
}

// DataType resolves the job's element type. An empty dtype means float32.
func (j *Job) DataType() (tensor.DataType, error) {
	if j.DType == "" {
		return tensor.Float32, nil
	}
	return tensor.ParseDataType(j.DType)
}

// Validate checks that the job names a known op and dtype and carries exactly the
// fields its op needs.
func (j *Job) Validate() error {
	if _, err := j.DataType(); err != nil {
		return err
	}

	var problems []string
	require := func(ok bool, msg string) {
		if !ok {
			problems = append(problems, msg)
		}
	}
	reject := func(present bool, field string) {
		if present {
			problems = append(problems, field+" is not used by "+string(j.Op))
		}
	}

	switch j.Op {
	case OpFill:
		require(j.Shape != nil, "shape is required")
		require(j.Value != nil, "value is required")
	case OpArange:
		require(j.Stop != nil, "stop is required")
		require(j.Step == nil || j.Step.Float64() != 0, "step must not be zero")
	case OpIdentity:
		require(j.Num != nil && *j.Num >= 0, "num must be a non-negative size")
	case OpEye:
		require(len(j.Shape) == 2, "shape must have two dimensions")
	case OpDiagflat:
		require(j.Values != nil, "values is required")
	case OpLinspace:
		require(j.Start != nil, "start is required")
		require(j.Stop != nil, "stop is required")
		require(j.Num != nil && *j.Num >= 0, "num must be a non-negative count")
	default:
		return fmt.Errorf("%w: unknown op %q", ErrInvalidJob, j.Op)
	}

	uses := func(ops ...Op) bool { return slices.Contains(ops, j.Op) }
	reject(j.Shape != nil && !uses(OpFill, OpEye), "shape")
	reject(j.Value != nil && !uses(OpFill), "value")
	reject(j.Start != nil && !uses(OpArange, OpLinspace), "start")
	reject(j.Stop != nil && !uses(OpArange, OpLinspace), "stop")
	reject(j.Step != nil && !uses(OpArange), "step")
	reject(j.K != 0 && !uses(OpEye, OpDiagflat), "k")
	reject(j.Values != nil && !uses(OpDiagflat), "values")
	reject(j.Num != nil && !uses(OpIdentity, OpLinspace), "num")
	reject(j.Endpoint != nil && !uses(OpLinspace), "endpoint")
	require(!slices.ContainsFunc(j.Shape, func(d int) bool { return d < 0 }), "shape dimensions must be non-negative")

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidJob, strings.Join(problems, "; "))
	}
	return nil
}
