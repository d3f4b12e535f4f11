package function

import (
	"fmt"
	"math/big"

	"github.com/ALTree/bigfloat"

	"github.com/wildstyl3r/rootfind/internal/horner"
)

// BigFunc evaluates with the precision of its argument.
type BigFunc func(x *big.Float) (*big.Float, error)

func BigPolynomial(coefficients []float64) BigFunc {
	c := append([]float64(nil), coefficients...)
	return func(x *big.Float) (*big.Float, error) {
		return horner.EvaluateBig(x, c), nil
	}
}

func BigLog(x *big.Float) (*big.Float, error) {
	if x.Sign() <= 0 {
		return nil, fmt.Errorf("%w: log(%s)", ErrDomain, x.Text('g', 10))
	}
	return bigfloat.Log(x), nil
}

func BigHomework2(x *big.Float) (*big.Float, error) {
	prec := x.Prec()
	r := bigfloat.Exp(x)
	r.Sub(r, big.NewFloat(1).SetPrec(prec))
	r.Mul(r, x)
	r.Add(r, big.NewFloat(3).SetPrec(prec))
	r.Mul(r, x)
	r.Sub(r, big.NewFloat(2).SetPrec(prec))
	return r, nil
}

func BigHomework3(x *big.Float) (*big.Float, error) {
	l, err := BigLog(x)
	if err != nil {
		return nil, err
	}
	prec := x.Prec()
	q := new(big.Float).SetPrec(prec).Sub(x, big.NewFloat(4).SetPrec(prec))
	q.Mul(q, x)
	q.Add(q, big.NewFloat(4).SetPrec(prec))
	return l.Add(l, q), nil
}
