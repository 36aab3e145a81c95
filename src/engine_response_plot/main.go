// ------------------------------------------------------------
// Engine speed control system: solution plots and statistics
// ------------------------------------------------------------
// Input:
//   simulation_results.csv   (';'-separated, header t;x;x_d;x_dd;x_ddd;F,
//                             written by the RK4 solver; extra columns ignored)
//
// Output:
//   simulation_results.png   (3x2 grid of panels, 150 DPI, cropped to content)
//                            falls back to /tmp/simulation_results.png when
//                            the working directory is not writable
//   stdout                   column list, first rows, solution statistics
//
// Panels:
//   x(t), x'(t), x''(t), x'''(t), F(t), and x(t) with F(t) on a twin axis.
// ------------------------------------------------------------

package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"gonum.org/v1/plot/vg"
)

const (
	inputFile  = "simulation_results.csv"
	outputFile = "simulation_results.png"

	figureDPI    = 150
	figureWidth  = 14 * vg.Inch
	figureHeight = 10 * vg.Inch

	previewRows = 5
)

// run loads the samples in dir, writes the figure and prints the report to
// stdout. It returns the path the figure was written to.
func run(stdout io.Writer, dir string, writable func(string) bool) (string, error) {
	tb, err := LoadTable(filepath.Join(dir, inputFile))
	if err != nil {
		return "", fmt.Errorf("cannot load samples: %w", err)
	}
	writePreview(stdout, tb, previewRows)

	fig, err := NewFigure(tb)
	if err != nil {
		return "", fmt.Errorf("cannot build figure: %w", err)
	}

	outPath := OutputPath(dir, outputFile, writable)
	log.Printf("Rendering %d samples...", tb.Len())
	if err := SaveFigurePNG(fig, outPath); err != nil {
		return "", fmt.Errorf("figure saving failed: %w", err)
	}
	_, _ = fmt.Fprintf(stdout, "\nFigure saved to: %s\n\n", outPath)

	WriteReport(stdout, Summarize(tb))
	writeTrace(stdout, tb)
	return outPath, nil
}

func main() {
	if _, err := run(os.Stdout, ".", dirWritable); err != nil {
		log.Fatalf("%v", err)
	}
	log.Printf("Done.")
}
