package function

import (
	"fmt"
	"strings"

	"github.com/facette/natsort"
)

const PolynomialName = "polynomial"
const DefaultName = "homework3"

type Definition struct {
	Expression string
	Domain     string
	Eval       Func
	Big        BigFunc
}

var registry = map[string]Definition{
	"cubic": {
		Expression: "x^3 + 4x^2 - 10",
		Domain:     "all reals",
		Eval:       Cubic,
		Big:        BigPolynomial([]float64{1, 4, 0, -10}),
	},
	"homework1": {
		Expression: "x^3 - 7x^2 + 14x - 6",
		Domain:     "all reals",
		Eval:       Homework1,
		Big:        BigPolynomial([]float64{1, -7, 14, -6}),
	},
	"homework2": {
		Expression: "-2 + x(3 + x(-1 + e^x))",
		Domain:     "all reals",
		Eval:       Homework2,
		Big:        BigHomework2,
	},
	"homework3": {
		Expression: "ln(x) + 4 + x(x - 4)",
		Domain:     "x > 0",
		Eval:       Homework3,
		Big:        BigHomework3,
	},
}

// Names lists registered functions in natural order, polynomial included.
func Names() []string {
	names := make([]string, 0, len(registry)+1)
	for name := range registry {
		names = append(names, name)
	}
	names = append(names, PolynomialName)
	natsort.Sort(names)
	return names
}

func Describe(name string) (Definition, bool) {
	d, ok := registry[strings.ToLower(name)]
	return d, ok
}

// Lookup resolves a function by name, coefficients are only used by "polynomial".
func Lookup(name string, coefficients []float64) (Func, error) {
	name = strings.ToLower(name)
	if name == PolynomialName {
		return Polynomial(coefficients)
	}
	if d, ok := registry[name]; ok {
		return d.Eval, nil
	}
	return nil, fmt.Errorf("unknown function %q, available: %s", name, strings.Join(Names(), ", "))
}

func LookupBig(name string, coefficients []float64) (BigFunc, error) {
	name = strings.ToLower(name)
	if name == PolynomialName {
		c, err := trimmedCoefficients(coefficients)
		if err != nil {
			return nil, err
		}
		return BigPolynomial(c), nil
	}
	if d, ok := registry[name]; ok {
		return d.Big, nil
	}
	return nil, fmt.Errorf("unknown function %q, available: %s", name, strings.Join(Names(), ", "))
}
