package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// writePreview prints the resolved column names followed by the first n rows.
func writePreview(w io.Writer, tb *Table, n int) {
	_, _ = fmt.Fprintf(w, "Available columns: %q\n", tb.Columns)
	_, _ = fmt.Fprintln(w, "First rows:")

	if n > tb.Len() {
		n = tb.Len()
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.Style().Format.Header = text.FormatDefault

	header := make(table.Row, 0, len(tb.Columns)+1)
	header = append(header, "")
	for _, c := range tb.Columns {
		header = append(header, c)
	}
	t.AppendHeader(header)

	for i := 0; i < n; i++ {
		fields := tb.Row(i)
		row := make(table.Row, 0, len(fields)+1)
		row = append(row, i)
		for _, v := range fields {
			row = append(row, previewCell(v))
		}
		t.AppendRow(row)
	}
	t.Render()
}

// previewCell shortens numeric fields to six significant digits and leaves
// any other text as it was read.
func previewCell(s string) string {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return s
	}
	return strconv.FormatFloat(v, 'g', 6, 64)
}
