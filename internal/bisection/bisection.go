// Package bisection finds a root of a continuous function inside a bracket by
// repeatedly halving it.
//
// A call walks through a small state machine:
//
//	Checking -> Rejected                    f(a)*f(b) >= 0, no iteration is done
//	Checking -> Iterating -> Converged      half-width fell to the tolerance
//	                      -> Exact          f(c) evaluated to exactly zero
//	                      -> Failed         iteration cap, evaluation error or cancellation
//
// Each iteration evaluates f at the midpoint c and at the left endpoint a, keeps
// [a, c] when f(c)*f(a) < 0 and [c, b] otherwise. All state lives in the call, so
// concurrent calls with pure functions are independent.
package bisection

import (
	"context"
	"errors"
	"fmt"

	"github.com/wildstyl3r/rootfind/internal/constants"
	"github.com/wildstyl3r/rootfind/internal/function"
	"github.com/wildstyl3r/rootfind/internal/utils"
)

var (
	ErrNoBracket     = errors.New("no sign change between endpoints")
	ErrNoConvergence = errors.New("bisection did not converge")
	ErrNotFinite     = errors.New("not a finite number")
)

type State int

const (
	Checking State = iota
	Iterating
	Converged
	Exact
	Rejected
	Failed
)

var stateNames = map[State]string{
	Checking:  "checking",
	Iterating: "iterating",
	Converged: "converged",
	Exact:     "exact",
	Rejected:  "rejected",
	Failed:    "failed",
}

func (s State) String() string {
	if name, some := stateNames[s]; some {
		return name
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Iteration is what a single halving step reports: the bracket after the
// reassignment, the midpoint it was split at, f at that midpoint and the new half-width.
type Iteration struct {
	Index     int
	A         float64
	B         float64
	C         float64
	FC        float64
	Tolerance float64
}

type Result struct {
	State      State
	Root       float64
	A          float64
	B          float64
	Iterations []Iteration
}

// Reporter receives every iteration as soon as it is computed.
type Reporter func(Iteration)

type settings struct {
	tolerance     float64
	maxIterations int
	precision     uint
	reporter      Reporter
	ctx           context.Context
}

type Option func(*settings)

// WithTolerance sets the half-width at which iteration stops, constants.DefaultTolerance by default.
func WithTolerance(tolerance float64) Option {
	return func(s *settings) { s.tolerance = tolerance }
}

func WithMaxIterations(n int) Option {
	return func(s *settings) { s.maxIterations = n }
}

func WithReporter(r Reporter) Option {
	return func(s *settings) { s.reporter = r }
}

// WithContext lets a caller abandon a search; the context is checked once per iteration.
func WithContext(ctx context.Context) Option {
	return func(s *settings) { s.ctx = ctx }
}

// WithPrecision sets the mantissa size in bits used by FindBig.
func WithPrecision(bits uint) Option {
	return func(s *settings) { s.precision = bits }
}

func newSettings(opts []Option) (settings, error) {
	s := settings{
		tolerance:     constants.DefaultTolerance,
		maxIterations: constants.DefaultMaxIterations,
		precision:     constants.DefaultPrecision,
		reporter:      func(Iteration) {},
		ctx:           context.Background(),
	}
	for _, opt := range opts {
		opt(&s)
	}
	switch {
	case !(s.tolerance >= 0) || !utils.IsFinite(s.tolerance):
		return s, fmt.Errorf("invalid tolerance %v", s.tolerance)
	case s.maxIterations <= 0:
		return s, fmt.Errorf("invalid iteration cap %d", s.maxIterations)
	case s.precision == 0:
		return s, errors.New("precision must be positive")
	}
	if s.reporter == nil {
		s.reporter = func(Iteration) {}
	}
	if s.ctx == nil {
		s.ctx = context.Background()
	}
	return s, nil
}

// HasBracket reports whether f changes sign strictly between a and b.
// An endpoint that is an exact root does not make a bracket.
func HasBracket(f function.Func, a, b float64) (bool, error) {
	if !utils.IsFinite(a) || !utils.IsFinite(b) {
		return false, fmt.Errorf("[%v, %v]: %w", a, b, ErrNotFinite)
	}
	fa, err := f(a)
	if err != nil {
		return false, fmt.Errorf("f(%v): %w", a, err)
	}
	fb, err := f(b)
	if err != nil {
		return false, fmt.Errorf("f(%v): %w", b, err)
	}
	return utils.OppositeSigns(fa, fb), nil
}

// Find bisects [a, b] until its half-width is within the tolerance.
//
// ErrNoBracket is returned when f does not change sign over [a, b], ErrNoConvergence when the
// iteration cap is reached first and ErrNotFinite for infinite or NaN endpoints and midpoints.
// Evaluation errors abort the search and are returned wrapped.
// Iterations done before a failure are kept in the result.
func Find(f function.Func, a, b float64, opts ...Option) (Result, error) {
	s, err := newSettings(opts)
	if err != nil {
		return Result{State: Failed, A: a, B: b}, err
	}

	result := Result{State: Checking, A: a, B: b}
	bracketed, err := HasBracket(f, a, b)
	if err != nil {
		result.State = Failed
		return result, err
	}
	if !bracketed {
		result.State = Rejected
		return result, fmt.Errorf("[%v, %v]: %w", a, b, ErrNoBracket)
	}

	result.State = Iterating
	c := (a + b) / 2
	for i := 0; (b-a)/2 > s.tolerance; i++ {
		if i >= s.maxIterations {
			result.State = Failed
			result.A, result.B, result.Root = a, b, c
			return result, fmt.Errorf("%w after %d iterations, half-width %g", ErrNoConvergence, i, (b-a)/2)
		}
		if err := s.ctx.Err(); err != nil {
			result.State = Failed
			result.A, result.B = a, b
			return result, err
		}

		c = (a + b) / 2
		if !utils.IsFinite(c) {
			result.State = Failed
			result.A, result.B = a, b
			return result, fmt.Errorf("iteration %d, midpoint of [%v, %v] overflows: %w", i+1, a, b, ErrNotFinite)
		}
		fc, err := f(c)
		if err != nil {
			result.State = Failed
			return result, fmt.Errorf("iteration %d, f(%v): %w", i+1, c, err)
		}
		if fc == 0 {
			result.State = Exact
			result.A, result.B, result.Root = a, b, c
			return result, nil
		}

		fa, err := f(a)
		if err != nil {
			result.State = Failed
			return result, fmt.Errorf("iteration %d, f(%v): %w", i+1, a, err)
		}
		if fc*fa < 0 {
			b = c
		} else {
			a = c
		}

		iteration := Iteration{
			Index:     i + 1,
			A:         a,
			B:         b,
			C:         c,
			FC:        fc,
			Tolerance: (b - a) / 2,
		}
		result.Iterations = append(result.Iterations, iteration)
		s.reporter(iteration)
	}

	result.State = Converged
	result.A, result.B, result.Root = a, b, c
	return result, nil
}
