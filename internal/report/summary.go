package report

import (
	"fmt"
	"io"

	"github.com/montanaflynn/stats"

	"github.com/wildstyl3r/rootfind/internal/bisection"
	"github.com/wildstyl3r/rootfind/internal/utils"
)

type Summary struct {
	Problems   int
	Solved     int
	Rejected   int
	Failed     int
	MeanIter   float64
	MedianIter float64
	MaxIter    float64
	TotalIter  int
}

// Summarize counts outcomes by state; iteration statistics cover solved problems only.
func Summarize(outcomes []Outcome) (Summary, error) {
	s := Summary{Problems: len(outcomes)}
	var iterations []int
	for _, o := range outcomes {
		switch o.Result.State {
		case bisection.Converged, bisection.Exact:
			s.Solved++
			iterations = append(iterations, len(o.Result.Iterations))
		case bisection.Rejected:
			s.Rejected++
		default:
			s.Failed++
		}
	}
	if len(iterations) == 0 {
		return s, nil
	}
	s.TotalIter = utils.SumSlice(iterations)
	data := stats.Float64Data(utils.ToFloats(iterations))
	var err error
	if s.MeanIter, err = data.Mean(); err != nil {
		return s, fmt.Errorf("mean iterations: %w", err)
	}
	if s.MedianIter, err = data.Median(); err != nil {
		return s, fmt.Errorf("median iterations: %w", err)
	}
	if s.MaxIter, err = data.Max(); err != nil {
		return s, fmt.Errorf("max iterations: %w", err)
	}
	return s, nil
}

func (s Summary) Write(w io.Writer) error {
	_, err := fmt.Fprintf(w, "Solved: %d/%d, no root: %d, failed: %d\n", s.Solved, s.Problems, s.Rejected, s.Failed)
	if err != nil || s.Solved == 0 {
		return err
	}
	_, err = fmt.Fprintf(w, "Iterations: mean %.1f, median %.1f, max %.0f\n", s.MeanIter, s.MedianIter, s.MaxIter)
	return err
}
