// Package export writes record tables to CSV files.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// ErrMissingFields is returned when Write is called without columns.
var ErrMissingFields = errors.New("no fields to export")

// Table is a source of stringified rows. *queryset.QuerySet[T] implements it.
type Table interface {
	Values(fields ...string) ([][]string, error)
}

// Column maps a CSV header to a table field.
type Column struct {
	Header string
	Field  string
}

// Exporter writes CSV files below Dir on FS.
type Exporter struct {
	// FS defaults to the OS filesystem
	FS afero.Fs

	// Dir is created when missing
	Dir string

	// Comma is the field delimiter, ',' when zero
	Comma rune

	// IncludeHeaders writes the column headers as first row
	IncludeHeaders bool
}

// New returns an Exporter writing into dir on the OS filesystem with headers.
func New(dir string) *Exporter {
	return &Exporter{
		FS:             afero.NewOsFs(),
		Dir:            dir,
		Comma:          ',',
		IncludeHeaders: true,
	}
}

// Write exports the columns of table to path (relative to Dir) and returns
// the full path of the written file. Rows keep the table's order.
func (e *Exporter) Write(path string, table Table, columns []Column) (string, error) {
	if len(columns) == 0 {
		return "", ErrMissingFields
	}

	fs := e.FS
	if fs == nil {
		fs = afero.NewOsFs()
	}

	fields := make([]string, len(columns))
	headers := make([]string, len(columns))
	for i, c := range columns {
		fields[i] = c.Field
		headers[i] = c.Header
	}

	rows, err := table.Values(fields...)
	if err != nil {
		return "", fmt.Errorf("collect rows: %w", err)
	}

	fullPath := filepath.Join(e.Dir, path)
	if err := fs.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	f, err := fs.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", fullPath, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.UseCRLF = true
	if e.Comma != 0 {
		w.Comma = e.Comma
	}

	if e.IncludeHeaders {
		if err := w.Write(headers); err != nil {
			return "", fmt.Errorf("write headers: %w", err)
		}
	}
	if err := w.WriteAll(rows); err != nil {
		return "", fmt.Errorf("write rows: %w", err)
	}

	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", fullPath, err)
	}

	logger := log.With().Str("component", "csv-exporter").Logger()
	logger.Info().
		Str("path", fullPath).
		Int("rows", len(rows)).
		Int("columns", len(columns)).
		Msg("CSV exported")

	return fullPath, nil
}
