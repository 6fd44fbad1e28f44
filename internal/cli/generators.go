package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/born-ml/fill/internal/plan"
)

func newFillCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fill VALUE",
		Short: "Fill an array with one value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := parseNumber(args[0])
			if err != nil {
				return err
			}
			shape, _ := cmd.Flags().GetIntSlice("shape")
			return runJob(cmd, plan.Job{Op: plan.OpFill, Shape: shape, Value: value})
		},
	}
	cmd.Flags().IntSliceP("shape", "s", []int{}, "Array shape, e.g. 2,3")
	return cmd
}

func newArangeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "arange [START] STOP [STEP]",
		Short: "Evenly stepped values in [START, STOP)",
		Long:  "Evenly stepped values in [START, STOP). START defaults to 0 and STEP to 1.",
		Args:  cobra.RangeArgs(1, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			nums := make([]*plan.Number, len(args))
			for i, arg := range args {
				n, err := parseNumber(arg)
				if err != nil {
					return err
				}
				nums[i] = n
			}

			job := plan.Job{Op: plan.OpArange}
			switch len(nums) {
			case 1:
				job.Stop = nums[0]
			case 2:
				job.Start, job.Stop = nums[0], nums[1]
			default:
				job.Start, job.Stop, job.Step = nums[0], nums[1], nums[2]
			}
			return runJob(cmd, job)
		},
	}
}

func newIdentityCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "identity N",
		Short: "N×N identity matrix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parseInt("size", args[0])
			if err != nil {
				return err
			}
			return runJob(cmd, plan.Job{Op: plan.OpIdentity, Num: &n})
		},
	}
}

func newEyeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eye ROWS [COLS]",
		Short: "Matrix with ones on the k-th diagonal",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := parseInt("rows", args[0])
			if err != nil {
				return err
			}
			cols := rows
			if len(args) == 2 {
				if cols, err = parseInt("cols", args[1]); err != nil {
					return err
				}
			}
			k, _ := cmd.Flags().GetInt("k")
			return runJob(cmd, plan.Job{Op: plan.OpEye, Shape: []int{rows, cols}, K: k})
		},
	}
	cmd.Flags().IntP("k", "k", 0, "Diagonal offset: positive above the main diagonal, negative below")
	return cmd
}

func newDiagflatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diagflat VALUE...",
		Short: "Square matrix with the values on the k-th diagonal",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values := make([]plan.Number, len(args))
			for i, arg := range args {
				v, err := parseNumber(arg)
				if err != nil {
					return err
				}
				values[i] = *v
			}
			k, _ := cmd.Flags().GetInt("k")
			return runJob(cmd, plan.Job{Op: plan.OpDiagflat, Values: values, K: k})
		},
	}
	cmd.Flags().IntP("k", "k", 0, "Diagonal offset: positive above the main diagonal, negative below")
	return cmd
}

func newLinspaceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "linspace START STOP",
		Short: "Evenly spaced samples over [START, STOP]",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parseNumber(args[0])
			if err != nil {
				return err
			}
			stop, err := parseNumber(args[1])
			if err != nil {
				return err
			}
			num, _ := cmd.Flags().GetInt("num")
			endpoint, _ := cmd.Flags().GetBool("endpoint")
			return runJob(cmd, plan.Job{Op: plan.OpLinspace, Start: start, Stop: stop, Num: &num, Endpoint: &endpoint})
		},
	}
	cmd.Flags().IntP("num", "n", 50, "Number of samples")
	cmd.Flags().Bool("endpoint", true, "Include STOP as the last sample")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "bornfill %s\n", Version)
		},
	}
}
