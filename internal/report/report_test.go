package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wildstyl3r/rootfind/internal/bisection"
	"github.com/wildstyl3r/rootfind/internal/function"
)

var first = bisection.Iteration{Index: 1, A: 1, B: 1.5, C: 1.5, FC: 2.375, Tolerance: 0.25}

func TestLine(t *testing.T) {
	assert.Equal(t, "1:\t root = 1.5000000,\ttolerance = 0.2500000", Line(first, Terse))
	assert.Equal(t, "1:\ta=1.000000,\tb=1.500000,\tc=1.500000,\troot=2.375000\ttolerance=0.250000", Line(first, Verbose))
}

func TestPrinterWithFind(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, Terse)
	_, err := bisection.Find(function.Cubic, 1, 2, bisection.WithReporter(p.Print))
	require.NoError(t, err)
	require.NoError(t, p.Err())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 19)
	assert.Equal(t, "1:\t root = 1.5000000,\ttolerance = 0.2500000", lines[0])
	assert.Equal(t, "2:\t root = 1.2500000,\ttolerance = 0.1250000", lines[1])
	assert.True(t, strings.HasPrefix(lines[18], "19:\t root = 1.3652287,"), lines[18])
}

func TestPrinterNoRoot(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, Verbose)
	_, err := bisection.Find(function.Homework3, 2, 4, bisection.WithReporter(p.Print))
	require.ErrorIs(t, err, bisection.ErrNoBracket)
	p.NoRoot()
	assert.Equal(t, "Root does not exist\n", buf.String())
}

type failingWriter struct{ writes int }

func (w *failingWriter) Write(b []byte) (int, error) {
	w.writes++
	return 0, errors.New("disk full")
}

func TestPrinterStopsAfterError(t *testing.T) {
	w := &failingWriter{}
	p := NewPrinter(w, Terse)
	p.Print(first)
	p.Print(first)
	p.NoRoot()
	assert.EqualError(t, p.Err(), "disk full")
	assert.Equal(t, 1, w.writes)
}

func TestModeFor(t *testing.T) {
	assert.Equal(t, Verbose, ModeFor(true))
	assert.Equal(t, Terse, ModeFor(false))
	assert.Equal(t, "verbose", Verbose.String())
}

func TestWriteIterationsCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteIterationsCSV(&buf, []bisection.Iteration{first}))
	assert.Equal(t, "i,a,b,c,f(c),tolerance\n1,1,1.5,1.5,2.375,0.25\n", buf.String())
}

func TestWriteSummaryCSV(t *testing.T) {
	outcomes := []Outcome{
		{Problem: "p10", Result: bisection.Result{State: bisection.Rejected}},
		{Problem: "p2", Result: bisection.Result{State: bisection.Converged, Root: 1.5, A: 1.25, B: 1.75, Iterations: []bisection.Iteration{first}}},
		{Problem: "p1", Result: bisection.Result{State: bisection.Exact, Root: 0.5, A: 0, B: 1}},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteSummaryCSV(&buf, outcomes))
	assert.Equal(t, strings.Join([]string{
		"problem,state,root,iterations,half-width",
		"p1,exact,0.5,0,0.5",
		"p2,converged,1.5,1,0.25",
		"p10,rejected,,0,",
		"",
	}, "\n"), buf.String())
}

func TestSummarize(t *testing.T) {
	iterations := func(n int) []bisection.Iteration { return make([]bisection.Iteration, n) }
	outcomes := []Outcome{
		{Result: bisection.Result{State: bisection.Converged, Iterations: iterations(19)}},
		{Result: bisection.Result{State: bisection.Converged, Iterations: iterations(21)}},
		{Result: bisection.Result{State: bisection.Exact, Iterations: iterations(2)}},
		{Result: bisection.Result{State: bisection.Rejected}},
		{Result: bisection.Result{State: bisection.Failed}, Err: function.ErrDomain},
	}
	s, err := Summarize(outcomes)
	require.NoError(t, err)
	assert.Equal(t, 5, s.Problems)
	assert.Equal(t, 3, s.Solved)
	assert.Equal(t, 1, s.Rejected)
	assert.Equal(t, 1, s.Failed)
	assert.InDelta(t, 14., s.MeanIter, 1e-12)
	assert.Equal(t, 19., s.MedianIter)
	assert.Equal(t, 21., s.MaxIter)
	assert.Equal(t, 42, s.TotalIter)

	var buf bytes.Buffer
	require.NoError(t, s.Write(&buf))
	assert.Equal(t, "Solved: 3/5, no root: 1, failed: 1\nIterations: mean 14.0, median 19.0, max 21\n", buf.String())
}

func TestSummarizeNothingSolved(t *testing.T) {
	s, err := Summarize([]Outcome{{Result: bisection.Result{State: bisection.Rejected}}})
	require.NoError(t, err)
	assert.Zero(t, s.MeanIter)
	var buf bytes.Buffer
	require.NoError(t, s.Write(&buf))
	assert.Equal(t, "Solved: 0/1, no root: 1, failed: 0\n", buf.String())
}
