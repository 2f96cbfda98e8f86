package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Haven-hvn/HAVEN2LLaVA/internal/dataset"
	"github.com/Haven-hvn/HAVEN2LLaVA/internal/gateway"
	"github.com/Haven-hvn/HAVEN2LLaVA/internal/harvester"
	"github.com/Haven-hvn/HAVEN2LLaVA/internal/snapshot"
	"github.com/Haven-hvn/HAVEN2LLaVA/internal/source"
)

// RunLLaVA fetches every record not already present in the store,
// saves each image, and appends the assembled conversation, persisting
// a full snapshot after each append. Rerunning after an interruption
// skips completed identifiers and never duplicates entries. Returns the
// number of records added this run.
func RunLLaVA(ctx context.Context, client *gateway.Client, records []source.ClipRecord, images *dataset.ImageStore, store *snapshot.Store, opts Options) (int, error) {
	opts.applyDefaults()

	pending := records[:0:0]
	for _, rec := range records {
		if store.Contains(rec.CID) {
			continue
		}
		pending = append(pending, rec)
	}
	if skipped := len(records) - len(pending); skipped > 0 {
		opts.Logger.Info("resuming dataset",
			zap.Int("already_present", skipped),
			zap.Int("pending", len(pending)),
		)
	}

	added := 0
	for res := range harvester.Run(ctx, client, pending, harvester.Options{Workers: opts.Workers, Progress: opts.Progress}) {
		if res.Err != nil {
			opts.Logger.Warn("skipping record",
				zap.String("cid", res.Record.CID),
				zap.Error(res.Err),
			)
			continue
		}

		name, err := images.Save(ctx, res.Record.CID, res.Image)
		if err != nil {
			opts.Logger.Error("failed to save image, skipping record",
				zap.String("cid", res.Record.CID),
				zap.Error(err),
			)
			continue
		}

		if err := store.Append(dataset.NewConversation(res.Record, name)); err != nil {
			// The record stays in memory; the next snapshot carries it.
			opts.Logger.Error("snapshot write failed",
				zap.String("cid", res.Record.CID),
				zap.Error(err),
			)
			continue
		}
		added++
	}

	if err := store.Flush(); err != nil {
		return added, fmt.Errorf("final dataset write: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return added, err
	}
	return added, nil
}
