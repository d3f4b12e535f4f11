package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/facette/natsort"

	"github.com/wildstyl3r/rootfind/internal/bisection"
)

var IterationColumns = []string{"i", "a", "b", "c", "f(c)", "tolerance"}
var SummaryColumns = []string{"problem", "state", "root", "iterations", "half-width"}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func WriteIterationsCSV(w io.Writer, iterations []bisection.Iteration) error {
	rows := [][]string{IterationColumns}
	for _, it := range iterations {
		rows = append(rows, []string{
			strconv.Itoa(it.Index),
			formatFloat(it.A),
			formatFloat(it.B),
			formatFloat(it.C),
			formatFloat(it.FC),
			formatFloat(it.Tolerance),
		})
	}
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("error writing csv: %w", err)
	}
	return nil
}

// CSV rows ordered naturally by their first column, so "p2" precedes "p10".
type CSV [][]string

func (data CSV) Less(i, j int) bool {
	return natsort.Compare(data[i][0], data[j][0])
}

func (data CSV) Len() int {
	return len(data)
}

func (data CSV) Swap(i, j int) {
	data[i], data[j] = data[j], data[i]
}

type Outcome struct {
	Problem string
	Result  bisection.Result
	Err     error
}

func SummaryRow(o Outcome) []string {
	row := []string{o.Problem, o.Result.State.String(), "", strconv.Itoa(len(o.Result.Iterations)), ""}
	switch o.Result.State {
	case bisection.Converged, bisection.Exact:
		row[2] = formatFloat(o.Result.Root)
		row[4] = formatFloat((o.Result.B - o.Result.A) / 2)
	}
	return row
}

func WriteSummaryCSV(w io.Writer, outcomes []Outcome) error {
	data := make(CSV, 0, len(outcomes))
	for _, o := range outcomes {
		data = append(data, SummaryRow(o))
	}
	sort.Sort(data)
	cw := csv.NewWriter(w)
	if err := cw.Write(SummaryColumns); err != nil {
		return fmt.Errorf("error writing csv: %w", err)
	}
	if err := cw.WriteAll(data); err != nil {
		return fmt.Errorf("error writing csv: %w", err)
	}
	return nil
}
