package plan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/born-ml/fill/internal/parallel"
	"github.com/born-ml/fill/internal/tensor"
)

// Result is the outcome of one job.
type Result struct {
	Job     Job
	Tensor  *tensor.RawTensor // nil when Err is set
	Err     error
	Elapsed time.Duration
}

// Execute allocates the job's destination and runs its generator on b.
// Backend precondition panics are returned as errors.
func (j *Job) Execute(b tensor.Backend) (out *tensor.RawTensor, err error) {
	if err := j.Validate(); err != nil {
		return nil, err
	}
	dtype, _ := j.DataType()

	defer func() {
		if r := recover(); r != nil {
			out = nil
			if e, ok := r.(error); ok {
				err = fmt.Errorf("%s: %w", j.Op, e)
			} else {
				err = fmt.Errorf("%s: %v", j.Op, r)
			}
		}
	}()

	switch j.Op {
	case OpFill:
		return tensor.FullRaw(dtype, tensor.Shape(j.Shape), j.Value.Scalar, b)
	case OpArange:
		start, step := tensor.Int(0), tensor.Int(1)
		if j.Start != nil {
			start = j.Start.Scalar
		}
		if j.Step != nil {
			step = j.Step.Scalar
		}
		return tensor.ArangeRaw(dtype, start, j.Stop.Scalar, step, b)
	case OpIdentity:
		return tensor.IdentityRaw(dtype, *j.Num, b)
	case OpEye:
		return tensor.EyeRaw(dtype, j.Shape[0], j.Shape[1], j.K, b)
	case OpDiagflat:
		v, err := tensor.NewRaw(tensor.Shape{len(j.Values)}, dtype, b.Device())
		if err != nil {
			return nil, err
		}
		for i, x := range j.Values {
			v.SetScalarAt(x.Scalar, i)
		}
		return tensor.DiagflatRaw(v, j.K, b)
	case OpLinspace:
		endpoint := j.Endpoint == nil || *j.Endpoint
		return tensor.LinspaceRaw(dtype, j.Start.Float64(), j.Stop.Float64(), *j.Num, endpoint, b)
	default:
		return nil, fmt.Errorf("%w: unknown op %q", ErrInvalidJob, j.Op)
	}
}

// Run executes jobs on b, up to cfg.NumWorkers at a time. Every job writes to its own
// destination. Results are returned in job order; a failed job does not stop the
// others, and the returned error joins every job failure. Run stops starting new jobs
// once ctx is done.
func Run(ctx context.Context, b tensor.Backend, jobs []Job, cfg parallel.Config) ([]Result, error) {
	results := make([]Result, len(jobs))
	err := parallel.Each(ctx, len(jobs), cfg, func(_ context.Context, i int) error {
		job := jobs[i]
		slog.Debug("job started", "name", job.Name, "op", job.Op, "dtype", job.DType)

		begin := time.Now()
		out, err := job.Execute(b)
		results[i] = Result{Job: job, Tensor: out, Err: err, Elapsed: time.Since(begin)}

		if err != nil {
			slog.Error("job failed", "name", job.Name, "op", job.Op, "error", err)
			return nil
		}
		slog.Debug("job finished", "name", job.Name, "shape", out.Shape(), "elapsed", results[i].Elapsed)
		return nil
	})
	if err != nil {
		return results, err
	}

	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, fmt.Errorf("job %s: %w", r.Job.Name, r.Err))
		}
	}
	return results, errors.Join(errs...)
}
