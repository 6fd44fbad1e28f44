package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/born-ml/fill/internal/backend/cpu"
	"github.com/born-ml/fill/internal/envconfig"
	"github.com/born-ml/fill/internal/parallel"
	"github.com/born-ml/fill/internal/plan"
	"github.com/born-ml/fill/internal/serialization"
	"github.com/born-ml/fill/internal/tensor"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run PLAN",
		Short: "Run the generator jobs of a YAML plan",
		Long:  "Run the generator jobs of a YAML plan. Use - to read the plan from stdin.",
		Args:  cobra.ExactArgs(1),
		RunE:  RunHandler,
	}
	cmd.Flags().IntP("workers", "w", int(envconfig.Workers()), "Maximum jobs run in parallel (0: one per CPU)")
	cmd.Flags().Bool("summary", false, "Print only the per-job summary")
	cmd.Flags().StringP("output", "o", "", "Save successful results to a SafeTensors file")
	return cmd
}

// RunHandler loads the plan named by args[0], runs it on the CPU backend and prints
// each result followed by a summary table.
func RunHandler(cmd *cobra.Command, args []string) error {
	var r io.Reader = cmd.InOrStdin()
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}

	p, err := plan.Load(r)
	if err != nil {
		return err
	}

	// Jobs without a dtype use the --dtype default.
	if dtype, _ := cmd.Flags().GetString("dtype"); dtype != "" {
		for i := range p.Jobs {
			if p.Jobs[i].DType == "" {
				p.Jobs[i].DType = dtype
			}
		}
	}

	workers, _ := cmd.Flags().GetInt("workers")
	cfg := parallel.DefaultConfig().WithWorkers(workers)

	results, runErr := plan.Run(cmd.Context(), cpu.New(), p.Jobs, cfg)

	w := cmd.OutOrStdout()
	summaryOnly, _ := cmd.Flags().GetBool("summary")
	var rows [][]string
	for _, res := range results {
		status, shape := "ok", "-"
		if res.Err != nil {
			status = "failed"
		} else if res.Tensor != nil {
			shape = fmt.Sprint(res.Tensor.Shape())
			if !summaryOnly {
				fmt.Fprintf(w, "%s (%s, %s)\n", res.Job.Name, res.Job.Op, res.Tensor.DType())
				if err := Render(w, res.Tensor); err != nil {
					return err
				}
				fmt.Fprintln(w)
			}
		}
		rows = append(rows, []string{res.Job.Name, string(res.Job.Op), res.Job.DType, shape, res.Elapsed.Round(time.Microsecond).String(), status})
	}
	renderSummary(w, []string{"NAME", "OP", "DTYPE", "SHAPE", "TIME", "STATUS"}, rows)

	if output, _ := cmd.Flags().GetString("output"); output != "" {
		if err := saveResults(output, results); err != nil {
			return errors.Join(runErr, err)
		}
	}

	return runErr
}

// saveResults writes every successful result to path, keyed by job name.
func saveResults(path string, results []plan.Result) error {
	tensors := make(map[string]*tensor.RawTensor, len(results))
	for _, res := range results {
		if res.Err != nil {
			continue
		}
		if _, dup := tensors[res.Job.Name]; dup {
			return fmt.Errorf("duplicate job name %q", res.Job.Name)
		}
		tensors[res.Job.Name] = res.Tensor
	}

	metadata := map[string]string{"producer": "bornfill " + Version}
	if err := serialization.WriteFile(path, tensors, metadata); err != nil {
		return err
	}
	slog.Info("saved results", "path", path, "tensors", len(tensors))
	return nil
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show FILE",
		Short: "Print the arrays stored in a SafeTensors file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tensors, _, err := serialization.ReadFile(args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, name := range serialization.SortedNames(tensors) {
				raw := tensors[name]
				fmt.Fprintf(w, "%s (%s, %v)\n", name, raw.DType(), raw.Shape())
				if err := Render(w, raw); err != nil {
					return err
				}
				fmt.Fprintln(w)
			}
			return nil
		},
	}
}
