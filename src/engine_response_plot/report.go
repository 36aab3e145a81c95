package main

import (
	"fmt"
	"io"

	"github.com/guptarohit/asciigraph"
	"gonum.org/v1/gonum/floats"
)

// ------------------------------------------------------------
// Solution statistics
// ------------------------------------------------------------

// Stats summarizes a sample table.
type Stats struct {
	Count int

	TMin, TMax float64

	XMin, XMax, XLast float64

	FFirst, FLast float64
}

// Summarize computes Stats for a non-empty table.
func Summarize(tb *Table) Stats {
	n := tb.Len()
	s := Stats{Count: n}
	s.TMin, s.TMax = minMax(tb.T)
	s.XMin, s.XMax = minMax(tb.X)
	s.XLast = tb.X[n-1]
	s.FFirst = tb.F[0]
	s.FLast = tb.F[n-1]
	return s
}

func minMax(vs []float64) (float64, float64) {
	return floats.Min(vs), floats.Max(vs)
}

// WriteReport prints the statistics block.
func WriteReport(w io.Writer, s Stats) {
	_, _ = fmt.Fprintln(w, "=== SOLUTION STATISTICS ===")
	_, _ = fmt.Fprintf(w, "Number of points: %d\n", s.Count)
	_, _ = fmt.Fprintf(w, "Time interval: [%.2f, %.2f]\n", s.TMin, s.TMax)

	_, _ = fmt.Fprintln(w, "\nValues of x(t):")
	_, _ = fmt.Fprintf(w, "  Minimum: %.6f\n", s.XMin)
	_, _ = fmt.Fprintf(w, "  Maximum: %.6f\n", s.XMax)
	_, _ = fmt.Fprintf(w, "  Final value: %.6f\n", s.XLast)

	_, _ = fmt.Fprintln(w, "\nValues of F(t):")
	_, _ = fmt.Fprintf(w, "  Initial: %.6f\n", s.FFirst)
	_, _ = fmt.Fprintf(w, "  Final: %.6f\n", s.FLast)
}

// writeTrace prints a terminal sketch of x(t). Tables with fewer than two
// rows have nothing to trace.
func writeTrace(w io.Writer, tb *Table) {
	if tb.Len() < 2 {
		return
	}
	graph := asciigraph.Plot(tb.X,
		asciigraph.Height(10),
		asciigraph.Width(70),
		asciigraph.Caption("x(t) - speed"),
	)
	_, _ = fmt.Fprintf(w, "\n%s\n", graph)
}
