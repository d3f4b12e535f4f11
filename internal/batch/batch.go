// Package batch solves a list of independent problems concurrently.
//
// Every task gets its own output buffer, buffers are flushed in task order once all
// workers are done, so the printed report does not depend on scheduling. A failing
// problem only ends that problem: its error is kept in its outcome and the rest of
// the batch carries on. Only output errors stop the whole batch.
package batch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math/big"
	"runtime"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/wildstyl3r/rootfind/internal/bisection"
	"github.com/wildstyl3r/rootfind/internal/config"
	"github.com/wildstyl3r/rootfind/internal/report"
	"github.com/wildstyl3r/rootfind/internal/utils"
)

type Runner struct {
	Out       io.Writer
	Logger    *zap.Logger
	Threads   int
	OutputDir string
	MakeDir   bool
	Headers   bool // print the problem name before its iterations
}

func (r *Runner) logger() *zap.Logger {
	if r.Logger == nil {
		return zap.NewNop()
	}
	return r.Logger
}

func (r *Runner) threads() int {
	if r.Threads > 0 {
		return r.Threads
	}
	return runtime.GOMAXPROCS(0)
}

type taskOutput struct {
	buf      bytes.Buffer
	outcomes []report.Outcome
}

// Run solves every task and returns one outcome per solved bracket, in task order.
func (r *Runner) Run(ctx context.Context, tasks []config.Task) ([]report.Outcome, error) {
	outputs := make([]taskOutput, len(tasks))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.threads())
	for i := range tasks {
		i := i
		g.Go(func() error {
			return r.solve(ctx, tasks[i], &outputs[i])
		})
	}
	err := g.Wait()

	var outcomes []report.Outcome
	for i := range outputs {
		if _, werr := r.Out.Write(outputs[i].buf.Bytes()); werr != nil && err == nil {
			err = fmt.Errorf("writing report: %w", werr)
		}
		outcomes = append(outcomes, outputs[i].outcomes...)
	}
	return outcomes, err
}

func (r *Runner) solve(ctx context.Context, task config.Task, out *taskOutput) error {
	log := r.logger().With(zap.String("problem", task.Name))
	parameters := task.Parameters
	if r.Headers {
		fmt.Fprintln(&out.buf, "\n"+task.Name)
	}
	printer := report.NewPrinter(&out.buf, report.ModeFor(parameters.Verbose))

	if !parameters.Scan {
		outcome := r.solveBracket(ctx, log, task.Name, parameters, printer)
		out.outcomes = append(out.outcomes, outcome)
		return r.save(outcome, parameters)
	}

	var brackets []bisection.Bracket
	var roots []float64
	f, err := parameters.Func()
	if err == nil {
		brackets, roots, err = bisection.Scan(f, parameters.Left, parameters.Right, parameters.ScanSteps)
	}
	if err != nil {
		log.Warn("scan failed", zap.Error(err))
		out.outcomes = append(out.outcomes, report.Outcome{Problem: task.Name, Result: bisection.Result{State: bisection.Failed}, Err: err})
		return nil
	}
	log.Debug("scan finished", zap.Int("brackets", len(brackets)), zap.Int("grid roots", len(roots)))
	if len(brackets) == 0 && len(roots) == 0 {
		printer.NoRoot()
		out.outcomes = append(out.outcomes, report.Outcome{
			Problem: task.Name,
			Result:  bisection.Result{State: bisection.Rejected, A: parameters.Left, B: parameters.Right},
			Err:     bisection.ErrNoBracket,
		})
		return nil
	}
	for k, root := range roots {
		fmt.Fprintf(&out.buf, "grid root: %.7f\n", root)
		out.outcomes = append(out.outcomes, report.Outcome{
			Problem: task.Name + "_r" + strconv.Itoa(k+1),
			Result:  bisection.Result{State: bisection.Exact, Root: root, A: root, B: root},
		})
	}
	for k, bracket := range brackets {
		name := task.Name + "_b" + strconv.Itoa(k+1)
		if r.Headers {
			fmt.Fprintf(&out.buf, "[%v, %v]\n", bracket.A, bracket.B)
		}
		sub := parameters
		sub.Left, sub.Right = bracket.A, bracket.B
		outcome := r.solveBracket(ctx, log.With(zap.Int("bracket", k+1)), name, sub, printer)
		out.outcomes = append(out.outcomes, outcome)
		if err := r.save(outcome, sub); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) solveBracket(ctx context.Context, log *zap.Logger, name string, parameters config.ProblemParameters, printer *report.Printer) report.Outcome {
	outcome := report.Outcome{Problem: name}
	log.Debug("solving",
		zap.String("function", parameters.Function),
		zap.Float64("left", parameters.Left),
		zap.Float64("right", parameters.Right),
		zap.Float64("tolerance", parameters.Tolerance))

	var iterations []bisection.Iteration
	opts := []bisection.Option{
		bisection.WithTolerance(parameters.Tolerance),
		bisection.WithMaxIterations(parameters.MaxIterations),
		bisection.WithContext(ctx),
		bisection.WithReporter(func(it bisection.Iteration) {
			iterations = append(iterations, it)
			printer.Print(it)
		}),
	}

	if parameters.Precision > 0 {
		outcome.Result, outcome.Err = solveBig(parameters, opts)
	} else {
		f, err := parameters.Func()
		if err != nil {
			outcome.Result.State, outcome.Err = bisection.Failed, err
			return outcome
		}
		outcome.Result, outcome.Err = bisection.Find(f, parameters.Left, parameters.Right, opts...)
	}
	outcome.Result.Iterations = iterations

	switch {
	case errors.Is(outcome.Err, bisection.ErrNoBracket):
		printer.NoRoot()
		log.Debug("no sign change")
	case outcome.Err != nil:
		log.Warn("problem failed", zap.Error(outcome.Err), zap.Int("iterations", len(iterations)))
	default:
		log.Debug("solved",
			zap.Stringer("state", outcome.Result.State),
			zap.Float64("root", outcome.Result.Root),
			zap.Int("iterations", len(iterations)))
	}
	return outcome
}

func solveBig(parameters config.ProblemParameters, opts []bisection.Option) (bisection.Result, error) {
	if !utils.IsFinite(parameters.Left) || !utils.IsFinite(parameters.Right) {
		return bisection.Result{State: bisection.Failed, A: parameters.Left, B: parameters.Right},
			fmt.Errorf("[%v, %v]: %w", parameters.Left, parameters.Right, bisection.ErrNotFinite)
	}
	f, err := parameters.BigFunc()
	if err != nil {
		return bisection.Result{State: bisection.Failed}, err
	}
	opts = append(opts, bisection.WithPrecision(parameters.Precision))
	res, err := bisection.FindBig(f, big.NewFloat(parameters.Left), big.NewFloat(parameters.Right), opts...)
	result := bisection.Result{State: res.State}
	if res.Root != nil {
		result.Root, _ = res.Root.Float64()
	}
	if res.A != nil && res.B != nil {
		result.A, _ = res.A.Float64()
		result.B, _ = res.B.Float64()
	}
	return result, err
}

func (r *Runner) save(outcome report.Outcome, parameters config.ProblemParameters) error {
	if !parameters.SaveCSV || len(outcome.Result.Iterations) == 0 {
		return nil
	}
	file, err := utils.OpenFile(r.MakeDir, r.OutputDir, outcome.Problem, "iterations")
	if err != nil {
		return fmt.Errorf("unable to save %s: %w", outcome.Problem, err)
	}
	defer file.Close()
	if err := report.WriteIterationsCSV(file, outcome.Result.Iterations); err != nil {
		return fmt.Errorf("unable to save %s: %w", outcome.Problem, err)
	}
	r.logger().Debug("iterations saved", zap.String("file", file.Name()))
	return nil
}

// Failed reports whether any outcome ended with an error other than a missing bracket.
func Failed(outcomes []report.Outcome) bool {
	for _, o := range outcomes {
		if o.Err != nil && !errors.Is(o.Err, bisection.ErrNoBracket) {
			return true
		}
	}
	return false
}
