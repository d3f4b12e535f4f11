package bisection

import (
	"fmt"

	"github.com/wildstyl3r/rootfind/internal/function"
	"github.com/wildstyl3r/rootfind/internal/utils"
)

type Bracket struct {
	A float64
	B float64
}

// Scan splits [a, b] into steps equal cells and returns every cell with a strict sign
// change, left to right. Grid points where f is exactly zero are returned separately,
// the cells around them are not brackets.
func Scan(f function.Func, a, b float64, steps int) (brackets []Bracket, roots []float64, err error) {
	if steps <= 0 {
		return nil, nil, fmt.Errorf("invalid number of scan steps %d", steps)
	}
	if !utils.IsFinite(a) || !utils.IsFinite(b) {
		return nil, nil, fmt.Errorf("scan interval [%v, %v]: %w", a, b, ErrNotFinite)
	}
	if !(a < b) {
		return nil, nil, fmt.Errorf("empty scan interval [%v, %v]", a, b)
	}
	step := (b - a) / float64(steps)
	left := a
	fLeft, err := f(left)
	if err != nil {
		return nil, nil, fmt.Errorf("f(%v): %w", left, err)
	}
	if fLeft == 0 {
		roots = append(roots, left)
	}
	for i := 1; i <= steps; i++ {
		right := a + step*float64(i)
		if i == steps {
			right = b
		}
		fRight, err := f(right)
		if err != nil {
			return nil, nil, fmt.Errorf("f(%v): %w", right, err)
		}
		if fRight == 0 {
			roots = append(roots, right)
		}
		if utils.OppositeSigns(fLeft, fRight) {
			brackets = append(brackets, Bracket{A: left, B: right})
		}
		left, fLeft = right, fRight
	}
	return brackets, roots, nil
}
