package utils

import (
	"math"

	"golang.org/x/exp/constraints"
)

type Number interface {
	constraints.Float | constraints.Integer
}

func SumSlice[T Number](arr []T) (r T) {
	for i := range arr {
		r += arr[i]
	}
	return
}

func ToFloats[T Number](s []T) []float64 {
	r := make([]float64, len(s))
	for i := range s {
		r[i] = float64(s[i])
	}
	return r
}

// strict sign change between two values, an exact zero does not count
func OppositeSigns(fa, fb float64) bool {
	return fa*fb < 0
}

func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
