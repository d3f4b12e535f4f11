package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wildstyl3r/rootfind/internal/batch"
	"github.com/wildstyl3r/rootfind/internal/bisection"
	"github.com/wildstyl3r/rootfind/internal/config"
	"github.com/wildstyl3r/rootfind/internal/constants"
	"github.com/wildstyl3r/rootfind/internal/function"
	"github.com/wildstyl3r/rootfind/internal/report"
	"github.com/wildstyl3r/rootfind/internal/utils"
)

var version = "dev"

// ErrProblemsFailed is returned when at least one problem ended with an error
// other than a missing sign change.
var ErrProblemsFailed = errors.New("some problems failed")

type app struct {
	out    io.Writer
	logger *zap.Logger

	verbose  bool
	debug    bool
	noLogger bool
}

func newRootCommand(out io.Writer) *cobra.Command {
	a := &app{out: out}
	rootCmd := &cobra.Command{
		Use:   "rootfind",
		Short: "Find roots of scalar functions by bisection",
		Long: `rootfind halves a bracket [a, b] with f(a)*f(b) < 0 until its half-width
is within the tolerance, printing every iteration.

Brackets without a sign change are reported with "Root does not exist".`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.noLogger {
				a.logger = zap.NewNop()
				return nil
			}
			logConfig := zap.NewProductionConfig()
			logConfig.Encoding = "console"
			logConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
			if a.debug {
				logConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			var err error
			a.logger, err = logConfig.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	rootCmd.SetOut(out)
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "print the whole bracket for every iteration")
	rootCmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "debug logging on stderr")
	rootCmd.PersistentFlags().BoolVar(&a.noLogger, "quiet", false, "disable logging")

	rootCmd.AddCommand(a.solveCommand())
	rootCmd.AddCommand(a.runCommand())
	rootCmd.AddCommand(a.functionsCommand())
	return rootCmd
}

type solveFlags struct {
	parameters config.ProblemParameters
	outputDir  string
}

func (a *app) solveCommand() *cobra.Command {
	var flags solveFlags
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Solve a single bracket",
		Example: `  rootfind solve --left 1 --right 2 --function cubic
  rootfind solve -v --function polynomial --coefficients 1,-7,14,-6 --left 0 --right 4 --scan`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defined := []string{"Left", "Right"}
			for flag, field := range map[string]string{
				"function":       "Function",
				"coefficients":   "Coefficients",
				"tolerance":      "Tolerance",
				"max-iterations": "MaxIterations",
				"precision":      "Precision",
				"scan":           "Scan",
				"scan-steps":     "ScanSteps",
				"csv":            "SaveCSV",
			} {
				if cmd.Flags().Changed(flag) {
					defined = append(defined, field)
				}
			}
			flags.parameters.Verbose = a.verbose
			defined = append(defined, "Verbose")

			problems := config.Single(flags.parameters.Function, flags.parameters, defined...)
			tasks, err := problems.Tasks()
			if err != nil {
				return err
			}
			return a.solve(cmd.Context(), tasks, &batch.Runner{OutputDir: flags.outputDir, Threads: 1}, "")
		},
	}
	cmd.Flags().StringVarP(&flags.parameters.Function, "function", "f", function.DefaultName, "function to solve, see 'rootfind functions'")
	cmd.Flags().Float64SliceVar(&flags.parameters.Coefficients, "coefficients", nil, "polynomial coefficients, highest degree first")
	cmd.Flags().Float64VarP(&flags.parameters.Left, "left", "a", 0, "left endpoint")
	cmd.Flags().Float64VarP(&flags.parameters.Right, "right", "b", 0, "right endpoint")
	cmd.Flags().Float64VarP(&flags.parameters.Tolerance, "tolerance", "t", constants.DefaultTolerance, "stop when the half-width is within this value")
	cmd.Flags().IntVar(&flags.parameters.MaxIterations, "max-iterations", constants.DefaultMaxIterations, "give up after this many iterations")
	cmd.Flags().UintVar(&flags.parameters.Precision, "precision", 0, "mantissa bits for arbitrary precision, 0 uses float64")
	cmd.Flags().BoolVar(&flags.parameters.Scan, "scan", false, "look for every sign change between left and right")
	cmd.Flags().IntVar(&flags.parameters.ScanSteps, "scan-steps", constants.DefaultScanSteps, "grid cells used by --scan")
	cmd.Flags().BoolVar(&flags.parameters.SaveCSV, "csv", false, "save iterations as csv")
	cmd.Flags().StringVarP(&flags.outputDir, "output-dir", "o", ".", "directory for csv files")
	_ = cmd.MarkFlagRequired("left")
	_ = cmd.MarkFlagRequired("right")
	return cmd
}

func (a *app) runCommand() *cobra.Command {
	var (
		input     string
		threads   int
		outputDir string
		summary   bool
	)
	cmd := &cobra.Command{
		Use:   "run [config]",
		Short: "Solve every problem listed in a toml, yaml or jsonc file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				input = args[0]
			}
			problems, err := config.Load(input)
			if err != nil {
				return err
			}
			tasks, err := problems.Tasks()
			if err != nil {
				a.logger.Warn("skipping invalid problems", zap.Error(err))
			}
			if len(tasks) == 0 {
				return errors.New("no valid problems")
			}
			if a.verbose {
				for i := range tasks {
					tasks[i].Parameters.Verbose = true
				}
			}

			runner := &batch.Runner{
				OutputDir: problems.OutputDir,
				MakeDir:   problems.MakeDir,
				Threads:   problems.Threads,
				Headers:   true,
			}
			if cmd.Flags().Changed("output-dir") {
				runner.OutputDir = outputDir
			}
			if cmd.Flags().Changed("threads") {
				runner.Threads = threads
			}
			summaryFile := ""
			if summary {
				summaryFile = filepath.Join(runner.OutputDir, utils.GetFilename(input)+"_summary.csv")
			}
			return errors.Join(err, a.solve(cmd.Context(), tasks, runner, summaryFile))
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "problems", "problem configuration, a name without extension is read as toml")
	cmd.Flags().IntVarP(&threads, "threads", "j", 0, "problems solved in parallel, 0 uses every CPU")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "overrides OutputDir of the configuration")
	cmd.Flags().BoolVar(&summary, "summary", false, "save a csv row per problem")
	return cmd
}

func (a *app) functionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "functions",
		Short: "List the functions that can be solved",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(a.out, "%-12s %-32s %s\n", "NAME", "EXPRESSION", "DOMAIN")
			for _, name := range function.Names() {
				d, some := function.Describe(name)
				if !some {
					fmt.Fprintf(a.out, "%-12s %-32s %s\n", name, "coefficients given with --coefficients", "")
					continue
				}
				fmt.Fprintf(a.out, "%-12s %-32s %s\n", name, d.Expression, d.Domain)
			}
			return nil
		},
	}
}

func (a *app) solve(ctx context.Context, tasks []config.Task, runner *batch.Runner, summaryFile string) error {
	startTime := time.Now()
	runner.Out = a.out
	runner.Logger = a.logger
	outcomes, err := runner.Run(ctx, tasks)
	if err != nil {
		return err
	}

	if len(outcomes) > 1 {
		s, err := report.Summarize(outcomes)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out)
		if err := s.Write(a.out); err != nil {
			return err
		}
	}
	if summaryFile != "" {
		if err := writeSummary(summaryFile, outcomes); err != nil {
			return err
		}
		a.logger.Info("summary saved", zap.String("file", summaryFile))
	}
	a.logger.Debug("done", zap.Int("problems", len(outcomes)), zap.Duration("elapsed", time.Since(startTime)))

	if batch.Failed(outcomes) {
		for _, o := range outcomes {
			if o.Err != nil && !errors.Is(o.Err, bisection.ErrNoBracket) {
				a.logger.Error("problem failed", zap.String("problem", o.Problem), zap.Error(o.Err))
			}
		}
		return ErrProblemsFailed
	}
	return nil
}

func writeSummary(path string, outcomes []report.Outcome) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return report.WriteSummaryCSV(file, outcomes)
}
