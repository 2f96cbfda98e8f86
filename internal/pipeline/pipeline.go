package pipeline

import (
	"go.uber.org/zap"

	"github.com/Haven-hvn/HAVEN2LLaVA/internal/progress"
)

// Options configures a pipeline run.
type Options struct {
	// Workers is the number of parallel fetch workers.
	// Default: 10
	Workers int

	// BatchSize is the number of source rows fetched per parquet batch.
	// Default: 200
	BatchSize int

	// Progress is an optional progress reporter.
	Progress *progress.Reporter

	// Logger receives run and per-record events. Required.
	Logger *zap.Logger
}

func (o *Options) applyDefaults() {
	if o.Workers <= 0 {
		o.Workers = 10
	}
	if o.BatchSize <= 0 {
		o.BatchSize = 200
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
}
