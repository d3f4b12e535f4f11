// Package report formats bisection progress and results.
package report

import (
	"fmt"
	"io"

	"github.com/wildstyl3r/rootfind/internal/bisection"
	"github.com/wildstyl3r/rootfind/internal/constants"
)

type Mode int

const (
	Terse Mode = iota
	Verbose
)

func (m Mode) String() string {
	if m == Verbose {
		return "verbose"
	}
	return "terse"
}

func ModeFor(verbose bool) Mode {
	if verbose {
		return Verbose
	}
	return Terse
}

// Printer writes one line per iteration in the chosen mode.
type Printer struct {
	w    io.Writer
	mode Mode
	err  error
}

func NewPrinter(w io.Writer, mode Mode) *Printer {
	return &Printer{w: w, mode: mode}
}

// Line renders an iteration without writing it.
func Line(it bisection.Iteration, mode Mode) string {
	if mode == Verbose {
		return fmt.Sprintf("%d:\ta=%.6f,\tb=%.6f,\tc=%.6f,\troot=%.6f\ttolerance=%.6f",
			it.Index, it.A, it.B, it.C, it.FC, it.Tolerance)
	}
	return fmt.Sprintf("%d:\t root = %.7f,\ttolerance = %.7f", it.Index, it.C, it.Tolerance)
}

// Print has the bisection.Reporter signature. The first write error is kept and
// later lines are dropped.
func (p *Printer) Print(it bisection.Iteration) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintln(p.w, Line(it, p.mode))
}

func (p *Printer) NoRoot() {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintln(p.w, constants.NoRootMessage)
}

func (p *Printer) Err() error {
	return p.err
}
