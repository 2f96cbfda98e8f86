package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Haven-hvn/HAVEN2LLaVA/internal/dataset"
	"github.com/Haven-hvn/HAVEN2LLaVA/internal/gateway"
	"github.com/Haven-hvn/HAVEN2LLaVA/internal/harvester"
	"github.com/Haven-hvn/HAVEN2LLaVA/internal/sink"
	"github.com/Haven-hvn/HAVEN2LLaVA/internal/source"
)

// RunParquet consumes the records in fixed-size batches, fetches each
// batch concurrently, and writes one row group per batch with at least
// one successful fetch. Per-record fetch failures are logged and skipped;
// a row-group write failure aborts the run. Returns the number of rows
// persisted.
func RunParquet(ctx context.Context, client *gateway.Client, records []source.ClipRecord, out *sink.Parquet, opts Options) (int, error) {
	opts.applyDefaults()

	for start := 0; start < len(records); start += opts.BatchSize {
		if err := ctx.Err(); err != nil {
			return out.Rows(), err
		}

		end := start + opts.BatchSize
		if end > len(records) {
			end = len(records)
		}
		batch := records[start:end]

		rows := make([]dataset.ParquetRow, 0, len(batch))
		for res := range harvester.Run(ctx, client, batch, harvester.Options{Workers: opts.Workers, Progress: opts.Progress}) {
			if res.Err != nil {
				opts.Logger.Warn("skipping record",
					zap.String("cid", res.Record.CID),
					zap.Error(res.Err),
				)
				continue
			}
			rows = append(rows, dataset.NewParquetRow(res.Record, res.Image))
		}

		if len(rows) == 0 {
			opts.Logger.Warn("batch produced no rows, skipping fragment",
				zap.Int("batch_start", start),
				zap.Int("batch_size", len(batch)),
			)
			continue
		}

		if err := out.WriteBatch(rows); err != nil {
			return out.Rows(), fmt.Errorf("write batch starting at row %d: %w", start, err)
		}
		opts.Logger.Info("wrote batch",
			zap.Int("rows", len(rows)),
			zap.Int("skipped", len(batch)-len(rows)),
			zap.Int("total_rows", out.Rows()),
		)
	}

	return out.Rows(), nil
}
