package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"slices"
	"strconv"

	"github.com/facette/natsort"

	"github.com/wildstyl3r/rootfind/internal/constants"
	"github.com/wildstyl3r/rootfind/internal/function"
	"github.com/wildstyl3r/rootfind/internal/utils"
)

type Config struct {
	OutputDir         string                       `yaml:"OutputDir" json:"OutputDir"`
	MakeDir           bool                         `yaml:"MakeDir" json:"MakeDir"`
	Threads           int                          `yaml:"Threads" json:"Threads"`
	Problems          map[string]ProblemParameters `yaml:"Problems" json:"Problems"`
	ProblemParameters `yaml:",inline"`

	isDefinedMap map[string]struct{}
	meta         definer
	baseDir      string
}

type ProblemParameters struct {
	Function      string    `yaml:"Function" json:"Function"`
	Coefficients  []float64 `yaml:"Coefficients" json:"Coefficients"` // highest degree first
	Left          float64   `yaml:"Left" json:"Left"`
	Right         float64   `yaml:"Right" json:"Right"`
	Brackets      string    `yaml:"Brackets" json:"Brackets"` // file with one "a b" pair per line
	Scan          bool      `yaml:"Scan" json:"Scan"`
	ScanSteps     int       `yaml:"ScanSteps" json:"ScanSteps"`
	Tolerance     float64   `yaml:"Tolerance" json:"Tolerance"`
	MaxIterations int       `yaml:"MaxIterations" json:"MaxIterations"`
	Precision     uint      `yaml:"Precision" json:"Precision"` // [bits], 0 stays in float64
	Verbose       bool      `yaml:"Verbose" json:"Verbose"`
	SaveCSV       bool      `yaml:"SaveCSV" json:"SaveCSV"`
}

// Task is a single bracket to solve, problems with a Brackets file yield one task per line.
type Task struct {
	Name       string
	Parameters ProblemParameters
}

func (p ProblemParameters) Func() (function.Func, error) {
	return function.Lookup(p.Function, p.Coefficients)
}

func (p ProblemParameters) BigFunc() (function.BigFunc, error) {
	return function.LookupBig(p.Function, p.Coefficients)
}

var defaultValues = map[string]any{
	"Function":      function.DefaultName,
	"Tolerance":     constants.DefaultTolerance,
	"MaxIterations": constants.DefaultMaxIterations,
	"ScanSteps":     constants.DefaultScanSteps,
	"Precision":     uint(0),
	"Scan":          false,
	"Verbose":       false,
	"SaveCSV":       false,
}

var fieldsXor = map[string][]string{
	"Brackets": {"Left", "Right", "Scan"},
	"Left":     {"Brackets"},
	"Right":    {"Brackets"},
	"Scan":     {"Brackets"},
}

var fieldsAnd = map[string][]string{
	"Left":  {"Right"},
	"Right": {"Left"},
	"Scan":  {"Left", "Right"},
}

func (c *Config) isDefined(path ...string) bool {
	if _, sureDefined := c.isDefinedMap[pathKey(path)]; sureDefined {
		return true
	}
	return c.meta != nil && c.meta.IsDefined(path...)
}

func (c *Config) SetDefined(path ...string) {
	if c.isDefinedMap == nil {
		c.isDefinedMap = map[string]struct{}{}
	}
	c.isDefinedMap[pathKey(path)] = struct{}{}
}

// enabled treats a bool set to false as absent
func enabled(field reflect.Value) bool {
	return field.Kind() != reflect.Bool || field.Bool()
}

func checkFieldProblems(defined []string, values reflect.Value) (ambiguities [][]string, missingDeps []string) {
	var set []string
	for _, field := range defined {
		if enabled(values.FieldByName(field)) {
			set = append(set, field)
		}
	}
	for _, field := range set {
		var foundAlternatives []string
		for _, alternative := range fieldsXor[field] {
			if slices.Contains(set, alternative) {
				foundAlternatives = append(foundAlternatives, alternative)
			}
		}
		if len(foundAlternatives) > 0 && field == "Brackets" {
			ambiguities = append(ambiguities, append([]string{field}, foundAlternatives...))
		}
		for _, requirement := range fieldsAnd[field] {
			if !slices.Contains(set, requirement) && !slices.Contains(missingDeps, requirement) {
				missingDeps = append(missingDeps, requirement)
			}
		}
	}
	return
}

/*
field value priority:
1. problem
2. global
3. default

a field set for the problem also hides the global values of its alternatives,
so a problem with its own Brackets file ignores global Left/Right.
*/

// Unify resolves the parameters of one problem.
func (c *Config) Unify(problemName string) (ProblemParameters, error) {
	problem, some := c.Problems[problemName]
	if !some {
		return ProblemParameters{}, fmt.Errorf("problem %q not found", problemName)
	}
	problemReflect := reflect.ValueOf(&problem).Elem()
	problemType := problemReflect.Type()
	globalReflect := reflect.ValueOf(c.ProblemParameters)

	var local []string
	exclude := map[string]struct{}{}
	for i := 0; i < problemType.NumField(); i++ {
		fieldName := problemType.Field(i).Name
		if c.isDefined("Problems", problemName, fieldName) {
			local = append(local, fieldName)
			if enabled(problemReflect.Field(i)) {
				for _, alternative := range fieldsXor[fieldName] {
					exclude[alternative] = struct{}{}
				}
			}
		}
	}
	if ambiguities, _ := checkFieldProblems(local, problemReflect); len(ambiguities) > 0 {
		return problem, fmt.Errorf("problem %s: ambiguous fields %v", problemName, ambiguities)
	}

	discovered := slices.Clone(local)
	for i := 0; i < problemType.NumField(); i++ {
		fieldName := problemType.Field(i).Name
		if slices.Contains(local, fieldName) || !c.isDefined(fieldName) {
			continue
		}
		if _, excluded := exclude[fieldName]; excluded {
			continue
		}
		problemReflect.Field(i).Set(globalReflect.Field(i))
		discovered = append(discovered, fieldName)
		if enabled(globalReflect.Field(i)) {
			for _, alternative := range fieldsXor[fieldName] {
				exclude[alternative] = struct{}{}
			}
		}
	}

	for fieldName, value := range defaultValues {
		if !slices.Contains(discovered, fieldName) {
			problemReflect.FieldByName(fieldName).Set(reflect.ValueOf(value))
		}
	}

	ambiguities, missing := checkFieldProblems(discovered, problemReflect)
	var errs []error
	if len(ambiguities) > 0 {
		errs = append(errs, fmt.Errorf("ambiguous fields %v", ambiguities))
	}
	if len(missing) > 0 {
		errs = append(errs, fmt.Errorf("required dependent fields not found %v", missing))
	}
	if !slices.Contains(discovered, "Brackets") && !slices.Contains(discovered, "Left") {
		errs = append(errs, errors.New("no bracket: set Left and Right or Brackets"))
	}
	if _, err := problem.Func(); err != nil {
		errs = append(errs, err)
	}
	if !utils.IsFinite(problem.Left) || !utils.IsFinite(problem.Right) {
		errs = append(errs, fmt.Errorf("bracket [%v, %v] is not finite", problem.Left, problem.Right))
	}
	if !(problem.Tolerance >= 0) || !utils.IsFinite(problem.Tolerance) {
		errs = append(errs, fmt.Errorf("invalid tolerance %v", problem.Tolerance))
	}
	if problem.MaxIterations <= 0 {
		errs = append(errs, fmt.Errorf("invalid MaxIterations %d", problem.MaxIterations))
	}
	if problem.Scan && problem.ScanSteps <= 0 {
		errs = append(errs, fmt.Errorf("invalid ScanSteps %d", problem.ScanSteps))
	}
	if len(errs) > 0 {
		return problem, fmt.Errorf("problem %s: %w", problemName, errors.Join(errs...))
	}
	return problem, nil
}

// ProblemNames in natural order.
func (c *Config) ProblemNames() []string {
	names := make([]string, 0, len(c.Problems))
	for name := range c.Problems {
		names = append(names, name)
	}
	natsort.Sort(names)
	return names
}

// Tasks resolves every problem. Invalid problems are left out and reported together
// in the returned error, the valid ones are still returned.
func (c *Config) Tasks() ([]Task, error) {
	var tasks []Task
	var errs []error
	for _, name := range c.ProblemNames() {
		parameters, err := c.Unify(name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if parameters.Brackets == "" {
			tasks = append(tasks, Task{Name: name, Parameters: parameters})
			continue
		}
		path := parameters.Brackets
		if !filepath.IsAbs(path) && c.baseDir != "" {
			path = filepath.Join(c.baseDir, path)
		}
		pairs, err := utils.ReadFloatPairs(path)
		if err != nil {
			errs = append(errs, fmt.Errorf("problem %s: brackets file reading error: %w", name, err))
			continue
		}
		for line := range pairs {
			if !utils.IsFinite(pairs[line][0]) || !utils.IsFinite(pairs[line][1]) {
				errs = append(errs, fmt.Errorf("problem %s: line %d: bracket %v is not finite", name, line+1, pairs[line]))
				continue
			}
			bracket := parameters
			bracket.Left, bracket.Right = pairs[line][0], pairs[line][1]
			bracket.Brackets = ""
			tasks = append(tasks, Task{
				Name:       name + "_l" + strconv.Itoa(line+1),
				Parameters: bracket,
			})
		}
	}
	return tasks, errors.Join(errs...)
}
