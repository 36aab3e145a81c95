package main

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ------------------------------------------------------------
// Sample table loader
// ------------------------------------------------------------

var (
	// ErrMissingColumn is returned when a required column is absent after
	// the header names have been trimmed.
	ErrMissingColumn = errors.New("missing column")

	// ErrNoRows is returned for a file that has a header but no samples.
	ErrNoRows = errors.New("no data rows")
)

// Column names written by the solver.
const (
	colT    = "t"
	colX    = "x"
	colXD   = "x_d"
	colXDD  = "x_dd"
	colXDDD = "x_ddd"
	colF    = "F"
)

var requiredColumns = [...]string{colT, colX, colXD, colXDD, colXDDD, colF}

// Table holds the simulation samples, one slice per column, in file order.
type Table struct {
	// Columns is the trimmed header, including columns that are not plotted.
	Columns []string

	T    []float64 // time (s)
	X    []float64 // engine speed
	XD   []float64 // x'
	XDD  []float64 // x''
	XDDD []float64 // x'''
	F    []float64 // disturbance

	// rows keeps the trimmed raw fields so the preview can show extra columns.
	rows [][]string
}

// Len returns the number of samples.
func (tb *Table) Len() int { return len(tb.T) }

// Row returns the trimmed fields of row i in header order. Fields missing
// from a short row are empty.
func (tb *Table) Row(i int) []string { return tb.rows[i] }

// LoadTable reads a semicolon-separated sample file.
func LoadTable(filename string) (*Table, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("read table: %w", err)
	}
	defer f.Close()

	tb, err := ReadTable(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("read table %s: %w", filename, err)
	}
	return tb, nil
}

// ReadTable parses a semicolon-separated sample table with a header row.
// Header names are trimmed before the required columns are looked up.
func ReadTable(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty input: %w", ErrNoRows)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read header: %w", err)
	}

	cols := trimHeader(header)
	index := make(map[string]int, len(cols))
	for i, name := range cols {
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}
	for _, name := range requiredColumns {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("%w %q (have %v)", ErrMissingColumn, name, cols)
		}
	}

	tb := &Table{Columns: cols}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("cannot read row: %w", err)
		}
		if blankRecord(rec) {
			continue
		}
		line, _ := cr.FieldPos(0)

		row := make([]string, len(cols))
		for c := range row {
			if c < len(rec) {
				row[c] = strings.TrimSpace(rec[c])
			}
		}

		var vals [len(requiredColumns)]float64
		for k, name := range requiredColumns {
			c := index[name]
			if c >= len(rec) {
				return nil, fmt.Errorf("line %d: expected %d fields, got %d", line, len(cols), len(rec))
			}
			v, err := strconv.ParseFloat(row[c], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d, column %q: %w", line, name, err)
			}
			vals[k] = v
		}
		tb.rows = append(tb.rows, row)

		tb.T = append(tb.T, vals[0])
		tb.X = append(tb.X, vals[1])
		tb.XD = append(tb.XD, vals[2])
		tb.XDD = append(tb.XDD, vals[3])
		tb.XDDD = append(tb.XDDD, vals[4])
		tb.F = append(tb.F, vals[5])
	}

	if tb.Len() == 0 {
		return nil, ErrNoRows
	}
	return tb, nil
}

// trimHeader strips whitespace (and a UTF-8 BOM) from the header names and
// drops empty trailing cells left by a trailing separator.
func trimHeader(header []string) []string {
	cols := make([]string, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		cols[i] = strings.TrimSpace(h)
	}
	for len(cols) > 0 && cols[len(cols)-1] == "" {
		cols = cols[:len(cols)-1]
	}
	return cols
}

func blankRecord(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
