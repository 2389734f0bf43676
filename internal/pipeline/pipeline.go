// Package pipeline runs the export: fetch people, keep the ones appearing
// in the most films, order them by height, resolve their species, write
// the CSV and upload it.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Sternrassler/swapi-export/pkg/export"
	"github.com/Sternrassler/swapi-export/pkg/queryset"
	"github.com/Sternrassler/swapi-export/pkg/swapi"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultTopN is the number of people kept when Options.TopN is not set.
const DefaultTopN = 10

// Columns are the exported CSV columns, in order.
var Columns = []export.Column{
	{Header: "name", Field: swapi.FieldName},
	{Header: "species", Field: swapi.FieldSpecies},
	{Header: "height", Field: swapi.FieldHeight},
	{Header: "appearances", Field: swapi.FieldFilmsCount},
}

// Exporter writes a table to a file.
type Exporter interface {
	Write(path string, table export.Table, columns []export.Column) (string, error)
}

// Uploader sends a written file.
type Uploader interface {
	SendFile(ctx context.Context, path string) error
}

// Deps are the collaborators of a run.
type Deps struct {
	Fetcher  queryset.Fetcher
	Exporter Exporter

	// Uploader may be nil when Options.SkipUpload is set
	Uploader Uploader

	Logger *zerolog.Logger
}

// Options tune a run.
type Options struct {
	PeopleEndpoint  string
	SpeciesEndpoint string
	TopN            int
	Workers         int
	OutputFile      string
	SkipUpload      bool
}

// Result describes a finished run.
type Result struct {
	// Fetched is the number of people read from the API
	Fetched int

	// Headers and Rows are what was written to the CSV
	Headers []string
	Rows    [][]string

	// Path is the full path of the CSV file
	Path string

	Uploaded bool
	Duration time.Duration
}

// Run executes the export. The first error aborts the run.
func Run(ctx context.Context, deps Deps, opts Options) (*Result, error) {
	if deps.Fetcher == nil {
		return nil, errors.New("pipeline: fetcher is required")
	}
	if deps.Exporter == nil {
		return nil, errors.New("pipeline: exporter is required")
	}
	if !opts.SkipUpload && deps.Uploader == nil {
		return nil, errors.New("pipeline: uploader is required unless upload is skipped")
	}

	logger := log.With().Str("component", "pipeline").Logger()
	if deps.Logger != nil {
		logger = *deps.Logger
	}

	peopleEndpoint := opts.PeopleEndpoint
	if peopleEndpoint == "" {
		peopleEndpoint = swapi.EndpointPeople
	}
	speciesEndpoint := opts.SpeciesEndpoint
	if speciesEndpoint == "" {
		speciesEndpoint = swapi.EndpointSpecies
	}
	topN := opts.TopN
	if topN <= 0 {
		topN = DefaultTopN
	}
	outputFile := opts.OutputFile
	if outputFile == "" {
		outputFile = "output.csv"
	}

	start := time.Now()
	logger.Info().
		Str("endpoint", peopleEndpoint).
		Int("top", topN).
		Int("workers", opts.Workers).
		Msg("Export started")

	species := queryset.New(swapi.SpeciesKindAt(speciesEndpoint), deps.Fetcher)
	people, err := queryset.New(swapi.PeopleKind(peopleEndpoint), deps.Fetcher,
		queryset.WithForeignKey(swapi.FieldSpecies, species),
		queryset.WithWorkers(opts.Workers),
	).FetchAll(ctx)
	if err != nil {
		return nil, err
	}

	byFilms, err := people.OrderBy(swapi.FieldFilmsCount)
	if err != nil {
		return nil, err
	}
	top, err := byFilms.Slice(queryset.Span(0, topN))
	if err != nil {
		return nil, err
	}
	ordered, err := top.OrderBy(swapi.FieldHeight)
	if err != nil {
		return nil, err
	}

	if err := ordered.ResolveForeignKeys(ctx); err != nil {
		return nil, err
	}

	path, err := deps.Exporter.Write(outputFile, ordered, Columns)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}

	fields := make([]string, len(Columns))
	headers := make([]string, len(Columns))
	for i, c := range Columns {
		fields[i] = c.Field
		headers[i] = c.Header
	}
	rows, err := ordered.Values(fields...)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Fetched: people.Len(),
		Headers: headers,
		Rows:    rows,
		Path:    path,
	}

	if opts.SkipUpload {
		logger.Info().Str("path", path).Msg("Upload skipped")
	} else {
		if err := deps.Uploader.SendFile(ctx, path); err != nil {
			return nil, fmt.Errorf("upload: %w", err)
		}
		result.Uploaded = true
	}

	result.Duration = time.Since(start)
	logger.Info().
		Int("fetched", result.Fetched).
		Int("exported", len(rows)).
		Bool("uploaded", result.Uploaded).
		Dur("duration", result.Duration).
		Msg("Export finished")

	return result, nil
}
