package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"gocloud.dev/blob/fileblob"

	"github.com/Haven-hvn/HAVEN2LLaVA/internal/config"
	"github.com/Haven-hvn/HAVEN2LLaVA/internal/dataset"
	"github.com/Haven-hvn/HAVEN2LLaVA/internal/pipeline"
	"github.com/Haven-hvn/HAVEN2LLaVA/internal/snapshot"
	"github.com/Haven-hvn/HAVEN2LLaVA/internal/source"
)

func runLLaVA(args []string) int {
	fs := flag.NewFlagSet("llava", flag.ExitOnError)

	configPath := fs.String("config", "", "Path to YAML config file")
	databaseURL := fs.String("database-url", "", "Postgres connection string (required)")
	gatewayURL := fs.String("gateway", "", "IPFS gateway base URL")
	output := fs.String("output", "", "Output dataset JSON path (required)")
	imageDir := fs.String("image-dir", "", "Directory for saved images (default: alongside output)")
	workers := fs.Int("workers", 0, "Number of parallel fetch workers")
	minConfidence := fs.Float64("min-confidence", 0, "Minimum action confidence to include")
	showProgress := fs.Bool("progress", false, "Show progress output")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, `Usage: haven2llava llava [options]

Build a LLaVA conversational dataset: fetch each clip thumbnail, save
it to the image directory, and append a conversation built from the
confidence-ranked actions. The output JSON is rewritten atomically
after every record, so an interrupted run resumes where it left off.

Options:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return ExitInvalidArgs
	}

	cfg, err := loadConfig(*configPath, config.Config{
		DatabaseURL:   *databaseURL,
		Gateway:       *gatewayURL,
		Output:        *output,
		ImageDir:      *imageDir,
		Workers:       *workers,
		MinConfidence: *minConfidence,
		Progress:      *showProgress,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fs.Usage()
		return ExitInvalidArgs
	}
	if cfg.ImageDir == "" {
		cfg.ImageDir = filepath.Join(filepath.Dir(cfg.Output), "images")
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

	records, err := src.Grouped(ctx, cfg.MinConfidence)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitDatabaseError
	}
	logger.Info("loaded clips", zap.Int("records", len(records)))

	store, err := snapshot.Open(cfg.Output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitOutputError
	}

	if err := os.MkdirAll(cfg.ImageDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitOutputError
	}
	bucket, err := fileblob.OpenBucket(cfg.ImageDir, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitOutputError
	}
	defer bucket.Close()

	reporter := newReporter(cfg, len(records))
	if reporter != nil {
		reporter.Start()
	}

	start := time.Now()
	added, runErr := pipeline.RunLLaVA(ctx, newClient(cfg), records, dataset.NewImageStore(bucket), store, pipeline.Options{
		Workers:  cfg.Workers,
		Progress: reporter,
		Logger:   logger,
	})

	if reporter != nil {
		reporter.Stop()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		fmt.Fprintln(os.Stderr, "[haven2llava] Run again to resume")
		return ExitGeneralError
	}

	logger.Info("dataset complete",
		zap.String("output", cfg.Output),
		zap.String("image_dir", cfg.ImageDir),
		zap.Int("added", added),
		zap.Int("total", store.Len()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return ExitSuccess
}
