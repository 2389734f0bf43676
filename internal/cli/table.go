package cli

import (
	"io"

	"github.com/Sternrassler/swapi-export/internal/pipeline"
	"github.com/jedib0t/go-pretty/v6/table"
)

// renderResult prints the exported rows as a table.
func renderResult(out io.Writer, result *pipeline.Result) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)

	header := table.Row{"#"}
	for _, h := range result.Headers {
		header = append(header, h)
	}
	t.AppendHeader(header)

	for i, r := range result.Rows {
		row := table.Row{i + 1}
		for _, cell := range r {
			row = append(row, cell)
		}
		t.AppendRow(row)
	}

	t.AppendFooter(table.Row{"", "file", result.Path})
	t.Render()
}
