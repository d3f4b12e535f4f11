// Package horner evaluates polynomials by nested multiplication.
//
// Coefficients are given highest degree first, so {1, 4, 0, -10} is x^3 + 4x^2 - 10.
package horner

import (
	"math/big"

	"github.com/wildstyl3r/rootfind/internal/utils"
)

// Evaluate returns p(x). An empty coefficient list is the zero polynomial.
func Evaluate[T utils.Number](x T, coefficients []T) (result T) {
	if len(coefficients) == 0 {
		return
	}
	result = coefficients[0]
	for _, c := range coefficients[1:] {
		result = result*x + c
	}
	return
}

// Degree of the polynomial after dropping leading zero coefficients, -1 for the zero polynomial.
func Degree[T utils.Number](coefficients []T) int {
	for i := range coefficients {
		if coefficients[i] != 0 {
			return len(coefficients) - 1 - i
		}
	}
	return -1
}

// EvaluateBig is Evaluate carried out with the precision of x.
func EvaluateBig(x *big.Float, coefficients []float64) *big.Float {
	result := new(big.Float).SetPrec(x.Prec())
	if len(coefficients) == 0 {
		return result
	}
	result.SetFloat64(coefficients[0])
	c := new(big.Float).SetPrec(x.Prec())
	for i := 1; i < len(coefficients); i++ {
		result.Mul(result, x)
		result.Add(result, c.SetFloat64(coefficients[i]))
	}
	return result
}
