package bisection

import (
	"fmt"
	"math/big"

	"github.com/wildstyl3r/rootfind/internal/function"
)

type BigResult struct {
	State      State
	Root       *big.Float
	A          *big.Float
	B          *big.Float
	Iterations int
}

// FindBig is Find carried out in big.Float arithmetic with WithPrecision bits, so
// tolerances below float64 resolution still converge. Reported iterations are rounded
// to float64.
func FindBig(f function.BigFunc, a, b *big.Float, opts ...Option) (BigResult, error) {
	s, err := newSettings(opts)
	if err != nil {
		return BigResult{State: Failed}, err
	}
	if a.IsInf() || b.IsInf() {
		return BigResult{State: Failed, A: a, B: b}, fmt.Errorf("[%s, %s]: %w", a.Text('g', 10), b.Text('g', 10), ErrNotFinite)
	}
	prec := s.precision
	a = new(big.Float).SetPrec(prec).Set(a)
	b = new(big.Float).SetPrec(prec).Set(b)
	result := BigResult{State: Checking, A: a, B: b}

	fa, err := f(a)
	if err != nil {
		result.State = Failed
		return result, fmt.Errorf("f(%s): %w", a.Text('g', 10), err)
	}
	fb, err := f(b)
	if err != nil {
		result.State = Failed
		return result, fmt.Errorf("f(%s): %w", b.Text('g', 10), err)
	}
	if fa.Sign()*fb.Sign() >= 0 {
		result.State = Rejected
		return result, fmt.Errorf("[%s, %s]: %w", a.Text('g', 10), b.Text('g', 10), ErrNoBracket)
	}

	tolerance := new(big.Float).SetPrec(prec).SetFloat64(s.tolerance)
	half := new(big.Float).SetPrec(prec)
	halfWidth := func() *big.Float {
		half.Sub(b, a)
		return half.Quo(half, big.NewFloat(2))
	}

	result.State = Iterating
	c := new(big.Float).SetPrec(prec).Add(a, b)
	c.Quo(c, big.NewFloat(2))
	for i := 0; halfWidth().Cmp(tolerance) > 0; i++ {
		if i >= s.maxIterations {
			result.State = Failed
			result.A, result.B, result.Root = a, b, c
			return result, fmt.Errorf("%w after %d iterations, half-width %s", ErrNoConvergence, i, half.Text('g', 6))
		}
		if err := s.ctx.Err(); err != nil {
			result.State = Failed
			return result, err
		}

		c = new(big.Float).SetPrec(prec).Add(a, b)
		c.Quo(c, big.NewFloat(2))
		fc, err := f(c)
		if err != nil {
			result.State = Failed
			return result, fmt.Errorf("iteration %d, f(%s): %w", i+1, c.Text('g', 10), err)
		}
		if fc.Sign() == 0 {
			result.State = Exact
			result.A, result.B, result.Root = a, b, c
			return result, nil
		}
		fa, err := f(a)
		if err != nil {
			result.State = Failed
			return result, fmt.Errorf("iteration %d, f(%s): %w", i+1, a.Text('g', 10), err)
		}
		if fc.Sign()*fa.Sign() < 0 {
			b = c
		} else {
			a = c
		}

		result.Iterations = i + 1
		iteration := Iteration{Index: i + 1}
		iteration.A, _ = a.Float64()
		iteration.B, _ = b.Float64()
		iteration.C, _ = c.Float64()
		iteration.FC, _ = fc.Float64()
		iteration.Tolerance, _ = halfWidth().Float64()
		s.reporter(iteration)
	}

	result.State = Converged
	result.A, result.B, result.Root = a, b, c
	return result, nil
}
