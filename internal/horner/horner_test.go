package horner

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name         string
		x            float64
		coefficients []float64
		want         float64
	}{
		{"cubic at 3", 3, []float64{1, 4, 0, -10}, 53},
		{"cubic at 1", 1, []float64{1, 4, 0, -10}, -5},
		{"cubic at 2", 2, []float64{1, 4, 0, -10}, 14},
		{"constant", 7, []float64{5}, 5},
		{"empty", 7, nil, 0},
		{"linear", -2, []float64{3, 1}, -5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Evaluate(tt.x, tt.coefficients))
		})
	}
}

func TestEvaluateIntegers(t *testing.T) {
	assert.Equal(t, 53, Evaluate(3, []int{1, 4, 0, -10}))
	assert.Equal(t, int64(-6), Evaluate(int64(0), []int64{1, -7, 14, -6}))
}

func TestDegree(t *testing.T) {
	assert.Equal(t, 3, Degree([]float64{1, 4, 0, -10}))
	assert.Equal(t, 1, Degree([]float64{0, 0, 2, 1}))
	assert.Equal(t, -1, Degree([]float64{0, 0}))
	assert.Equal(t, -1, Degree[float64](nil))
}

func TestEvaluateBig(t *testing.T) {
	x := new(big.Float).SetPrec(128).SetFloat64(1.5)
	got, _ := EvaluateBig(x, []float64{1, 4, 0, -10}).Float64()
	assert.Equal(t, 2.375, got)
	assert.Equal(t, uint(128), EvaluateBig(x, nil).Prec())
}
