// Package cli implements the bornfill command line: one command per generator, plus
// run for YAML plans.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/born-ml/fill/internal/backend/cpu"
	"github.com/born-ml/fill/internal/envconfig"
	"github.com/born-ml/fill/internal/plan"
	"github.com/born-ml/fill/internal/tensor"
)

// Version is the bornfill release.
const Version = "v0.1.0"

// appendEnvDocs adds the given environment variables to cmd's usage text.
func appendEnvDocs(cmd *cobra.Command, envs []envconfig.EnvVar) {
	if len(envs) == 0 {
		return
	}

	envUsage := `
Environment Variables:
`
	for _, e := range envs {
		envUsage += fmt.Sprintf("      %-24s   %s\n", e.Name, e.Description)
	}

	cmd.SetUsageTemplate(cmd.UsageTemplate() + envUsage)
}

// setupLogging installs a text slog handler on stderr at the BORN_DEBUG level,
// or at debug when verbose is set.
func setupLogging(cmd *cobra.Command, verbose bool) {
	level := envconfig.LogLevel()
	if verbose {
		level = min(level, slog.LevelDebug)
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level:     level,
		AddSource: level < slog.LevelDebug,
		ReplaceAttr: func(_ []string, attr slog.Attr) slog.Attr {
			if attr.Key == slog.SourceKey {
				source := attr.Value.Any().(*slog.Source)
				source.File = filepath.Base(source.File)
			}
			return attr
		},
	})
	slog.SetDefault(slog.New(handler))
}

// NewCLI creates the root command with every subcommand attached.
func NewCLI() *cobra.Command {
	cobra.EnableCommandSorting = false

	rootCmd := &cobra.Command{
		Use:           "bornfill",
		Short:         "Generate filled, ranged and diagonal arrays",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			verbose, _ := cmd.Flags().GetBool("verbose")
			setupLogging(cmd, verbose)
		},
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Print(cmd.UsageString())
		},
	}

	rootCmd.PersistentFlags().StringP("dtype", "t", envconfig.DefaultDType().String(), "Element type (int8, int16, int32, int64, uint8, float16, bfloat16, float32, float64)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log debug information")

	envVars := envconfig.AsMap()
	appendEnvDocs(rootCmd, []envconfig.EnvVar{envVars["BORN_DEBUG"], envVars["BORN_DTYPE"]})

	runCmd := newRunCmd()
	appendEnvDocs(runCmd, []envconfig.EnvVar{envVars["BORN_DEBUG"], envVars["BORN_DTYPE"], envVars["BORN_WORKERS"]})

	rootCmd.AddCommand(
		newFillCmd(),
		newArangeCmd(),
		newIdentityCmd(),
		newEyeCmd(),
		newDiagflatCmd(),
		newLinspaceCmd(),
		runCmd,
		newShowCmd(),
		newVersionCmd(),
	)

	return rootCmd
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	if err := NewCLI().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}

// runJob executes one generator job on the CPU backend and prints the result.
func runJob(cmd *cobra.Command, job plan.Job) error {
	dtype, _ := cmd.Flags().GetString("dtype")
	job.DType = dtype
	job.Name = string(job.Op)

	slog.Debug("running generator", "op", job.Op, "dtype", job.DType)
	out, err := job.Execute(cpu.New())
	if err != nil {
		return err
	}
	return Render(cmd.OutOrStdout(), out)
}

func parseNumber(arg string) (*plan.Number, error) {
	s, err := tensor.ParseScalar(arg)
	if err != nil {
		return nil, err
	}
	return plan.Num(s), nil
}

func parseInt(name, arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, arg)
	}
	return n, nil
}
