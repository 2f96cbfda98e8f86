package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/Haven-hvn/HAVEN2LLaVA/internal/config"
	"github.com/Haven-hvn/HAVEN2LLaVA/internal/pipeline"
	"github.com/Haven-hvn/HAVEN2LLaVA/internal/sink"
	"github.com/Haven-hvn/HAVEN2LLaVA/internal/source"
)

func runParquet(args []string) int {
	fs := flag.NewFlagSet("parquet", flag.ExitOnError)

	configPath := fs.String("config", "", "Path to YAML config file")
	databaseURL := fs.String("database-url", "", "Postgres connection string (required)")
	gatewayURL := fs.String("gateway", "", "IPFS gateway base URL")
	output := fs.String("output", "", "Output parquet file path (required)")
	workers := fs.Int("workers", 0, "Number of parallel fetch workers")
	batchSize := fs.Int("batch-size", 0, "Rows per parquet row group")
	showProgress := fs.Bool("progress", false, "Show progress output")
	timeout := fs.Duration("timeout", 0, "Per-request gateway timeout")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, `Usage: haven2llava parquet [options]

Join clips with their actions, fetch each thumbnail from the IPFS
gateway, and write a columnar dataset in fixed-size batches. Records
whose content is absent or whose retries are exhausted are skipped.

Options:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return ExitInvalidArgs
	}

	cfg, err := loadConfig(*configPath, config.Config{
		DatabaseURL: *databaseURL,
		Gateway:     *gatewayURL,
		Output:      *output,
		Workers:     *workers,
		BatchSize:   *batchSize,
		Progress:    *showProgress,
		Fetch:       config.FetchConfig{Timeout: *timeout},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fs.Usage()
		return ExitInvalidArgs
	}

	logger := newLogger()
	defer logger.Sync()

	ctx, cancel := signalContext()
	defer cancel()

	src, err := source.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitDatabaseError
	}
	defer src.Close()

	records, err := src.Rows(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitDatabaseError
	}
	logger.Info("loaded clip actions", zap.Int("records", len(records)))

	out, err := sink.NewParquet(cfg.Output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitOutputError
	}

	reporter := newReporter(cfg, len(records))
	if reporter != nil {
		reporter.Start()
	}

	start := time.Now()
	total, runErr := pipeline.RunParquet(ctx, newClient(cfg), records, out, pipeline.Options{
		Workers:   cfg.Workers,
		BatchSize: cfg.BatchSize,
		Progress:  reporter,
		Logger:    logger,
	})

	if reporter != nil {
		reporter.Stop()
	}

	if err := out.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitOutputError
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		return ExitGeneralError
	}

	logger.Info("dataset complete",
		zap.String("output", cfg.Output),
		zap.Int("rows", total),
		zap.Int("skipped", len(records)-total),
		zap.Duration("elapsed", time.Since(start)),
	)
	return ExitSuccess
}
