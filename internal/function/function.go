// Package function holds the target functions whose roots are searched for.
//
// A Func is pure: the same x always gives the same value. Evaluating outside the
// domain of the expression is reported as an error wrapping ErrDomain and is never
// coerced into a number.
package function

import (
	"errors"
	"fmt"
	"math"

	"github.com/wildstyl3r/rootfind/internal/horner"
	"github.com/wildstyl3r/rootfind/internal/utils"
)

var ErrDomain = errors.New("argument outside of function domain")

type Func func(x float64) (float64, error)

// Checked adapts a plain expression, NaN or infinite values become domain errors.
func Checked(f func(float64) float64) Func {
	return func(x float64) (float64, error) {
		v := f(x)
		if !utils.IsFinite(v) {
			return v, fmt.Errorf("%w: f(%v) = %v", ErrDomain, x, v)
		}
		return v, nil
	}
}

// Log is the natural logarithm restricted to x > 0.
func Log(x float64) (float64, error) {
	if x <= 0 || math.IsNaN(x) {
		return math.NaN(), fmt.Errorf("%w: log(%v)", ErrDomain, x)
	}
	return math.Log(x), nil
}

// trimmedCoefficients copies the coefficients without leading zeros.
func trimmedCoefficients(coefficients []float64) ([]float64, error) {
	if len(coefficients) == 0 {
		return nil, errors.New("polynomial needs at least one coefficient")
	}
	degree := horner.Degree(coefficients)
	if degree < 0 {
		return nil, errors.New("polynomial is identically zero")
	}
	return append([]float64(nil), coefficients[len(coefficients)-1-degree:]...), nil
}

func Polynomial(coefficients []float64) (Func, error) {
	c, err := trimmedCoefficients(coefficients)
	if err != nil {
		return nil, err
	}
	return Checked(func(x float64) float64 {
		return horner.Evaluate(x, c)
	}), nil
}

func Cubic(x float64) (float64, error) {
	return -10 + x*(0+x*(4+x)), nil
}

func Homework1(x float64) (float64, error) {
	return -6 + x*(14+x*(-7+x)), nil
}

func Homework2(x float64) (float64, error) {
	return Checked(func(x float64) float64 {
		return -2 + x*(3+x*(-1+math.Exp(x)))
	})(x)
}

func Homework3(x float64) (float64, error) {
	l, err := Log(x)
	if err != nil {
		return l, err
	}
	return l + 4 + x*(-4+x), nil
}
