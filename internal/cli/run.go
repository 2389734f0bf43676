package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/Sternrassler/swapi-export/internal/config"
	"github.com/Sternrassler/swapi-export/internal/pipeline"
	"github.com/Sternrassler/swapi-export/pkg/client"
	"github.com/Sternrassler/swapi-export/pkg/export"
	"github.com/Sternrassler/swapi-export/pkg/logging"
	"github.com/Sternrassler/swapi-export/pkg/metrics"
	"github.com/Sternrassler/swapi-export/pkg/upload"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func newRunCmd(out, logOut io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Fetch, export and upload",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, out, logOut)
		},
	}

	cmd.Flags().String("base-url", "", "SWAPI base URL")
	cmd.Flags().Duration("timeout", 0, "HTTP timeout per request")
	cmd.Flags().IntP("top", "n", 0, "Number of people to keep, by film appearances")
	cmd.Flags().IntP("workers", "w", 0, "Concurrent species lookups")
	cmd.Flags().String("cache", "", "Cache backend: memory, redis or bolt")
	cmd.Flags().String("redis-addr", "", "Redis address for the redis cache")
	cmd.Flags().String("bolt-path", "", "Database file for the bolt cache")
	cmd.Flags().StringP("output-dir", "o", "", "Directory the CSV is written to")
	cmd.Flags().String("output-file", "", "CSV file name")
	cmd.Flags().Bool("skip-upload", false, "Do not upload the CSV")
	cmd.Flags().String("upload-url", "", "Base URL of the echo endpoint")
	cmd.Flags().String("metrics-file", "", "Write Prometheus metrics to this file after the run")

	return cmd
}

// applyFlags copies explicitly set flags over the loaded configuration.
func applyFlags(flags *pflag.FlagSet, cfg *config.Config) {
	str := func(name string, dst *string) {
		if flags.Changed(name) {
			*dst, _ = flags.GetString(name)
		}
	}
	num := func(name string, dst *int) {
		if flags.Changed(name) {
			*dst, _ = flags.GetInt(name)
		}
	}
	flag := func(name string, dst *bool) {
		if flags.Changed(name) {
			*dst, _ = flags.GetBool(name)
		}
	}

	str("base-url", &cfg.BaseURL)
	if flags.Changed("timeout") {
		cfg.Timeout, _ = flags.GetDuration("timeout")
	}
	num("top", &cfg.Top)
	num("workers", &cfg.Workers)
	str("cache", &cfg.CacheBackend)
	str("redis-addr", &cfg.RedisAddr)
	str("bolt-path", &cfg.BoltPath)
	str("output-dir", &cfg.OutputDir)
	str("output-file", &cfg.OutputFile)
	flag("skip-upload", &cfg.SkipUpload)
	str("upload-url", &cfg.UploadBaseURL)
	str("metrics-file", &cfg.MetricsFile)
	str("log-level", &cfg.LogLevel)
	flag("log-pretty", &cfg.LogPretty)
}

func runExport(cmd *cobra.Command, out, logOut io.Writer) error {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	applyFlags(cmd.Flags(), cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, _ := logging.ParseLevel(cfg.LogLevel)
	logging.Setup(logging.Config{
		Level:  level,
		Pretty: cfg.LogPretty,
		Output: logOut,
	})

	runID := newRunID()
	logger := logging.WithRun(logging.NewLogger("cli"), runID)
	logger.Info().
		Str("base_url", cfg.BaseURL).
		Str("cache_backend", cfg.CacheBackend).
		Msg("Starting export")

	ctx := cmd.Context()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Warn().Err(err).Msg("Failed to close cache")
		}
	}()

	swapiClient, err := client.New(client.Config{
		BaseURL:   cfg.BaseURL,
		UserAgent: cfg.UserAgent,
		Timeout:   cfg.Timeout,
		Store:     store,
	})
	if err != nil {
		return fmt.Errorf("failed to create SWAPI client: %w", err)
	}

	uploader := upload.New(cfg.UploadBaseURL, cfg.UploadEndpoint)
	uploader.HTTPClient.Timeout = cfg.Timeout

	pipelineLogger := logging.WithRun(logging.NewLogger("pipeline"), runID)
	result, err := pipeline.Run(ctx, pipeline.Deps{
		Fetcher:  swapiClient,
		Exporter: export.New(cfg.OutputDir),
		Uploader: uploader,
		Logger:   &pipelineLogger,
	}, pipeline.Options{
		PeopleEndpoint:  cfg.PeopleEndpoint,
		SpeciesEndpoint: cfg.SpeciesEndpoint,
		TopN:            cfg.Top,
		Workers:         cfg.Workers,
		OutputFile:      cfg.OutputFile,
		SkipUpload:      cfg.SkipUpload,
	})
	if err != nil {
		logger.Error().Err(err).Msg("Export failed")
		return err
	}

	renderResult(out, result)
	logSummary(logger, result.Duration)

	if cfg.MetricsFile != "" {
		if err := metrics.WriteTextfile(metrics.Gatherer, cfg.MetricsFile); err != nil {
			return err
		}
	}

	return nil
}

// logSummary logs the process-wide request and cache counters.
func logSummary(logger zerolog.Logger, d time.Duration) {
	values, err := metrics.Snapshot(metrics.Gatherer,
		metrics.Requests, metrics.PagesFetched, metrics.CacheHits, metrics.CacheMisses, metrics.RequestErrors)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to read metrics")
		return
	}

	logger.Info().
		Float64("requests", values[metrics.Requests]).
		Float64("pages", values[metrics.PagesFetched]).
		Float64("cache_hits", values[metrics.CacheHits]).
		Float64("cache_misses", values[metrics.CacheMisses]).
		Float64("errors", values[metrics.RequestErrors]).
		Dur("duration", d).
		Msg("Export complete")
}
