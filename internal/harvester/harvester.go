package harvester

import (
	"context"
	"sync"

	"github.com/Haven-hvn/HAVEN2LLaVA/internal/gateway"
	"github.com/Haven-hvn/HAVEN2LLaVA/internal/progress"
	"github.com/Haven-hvn/HAVEN2LLaVA/internal/source"
)

// Result pairs a fetch outcome with the record that produced it. Exactly
// one Result is emitted per submitted record. Err is non-nil when the
// fetch failed (gateway.ErrAbsent, gateway.ErrExhausted, or cancellation);
// Image is nil in that case.
type Result struct {
	Record source.ClipRecord
	Image  []byte
	Err    error
}

// Options configures a harvest run.
type Options struct {
	// Workers is the number of parallel fetch workers.
	// Default: 10
	Workers int

	// Progress is an optional progress reporter.
	Progress *progress.Reporter
}

// Run fans the records out across a bounded worker pool and returns a
// channel of results in completion order. Whichever fetch finishes first
// is yielded first; the originating record travels with its result, so
// attribution never depends on ordering.
//
// Every record is submitted exactly once. One record's failure never
// aborts the pool: errors are carried in the Result and the pool keeps
// draining. The channel is closed once all submitted records have been
// resolved. Cancelling ctx stops submission and unblocks workers; results
// of fetches still in flight at that point may be dropped.
func Run(ctx context.Context, client *gateway.Client, records []source.ClipRecord, opts Options) <-chan Result {
	workers := opts.Workers
	if workers <= 0 {
		workers = 10
	}

	jobs := make(chan source.ClipRecord)
	results := make(chan Result, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for rec := range jobs {
				if opts.Progress != nil {
					opts.Progress.RecordStarted()
				}

				img, err := client.Fetch(ctx, rec.CID)

				if opts.Progress != nil {
					if err != nil {
						opts.Progress.RecordFailed()
					} else {
						opts.Progress.RecordCompleted(int64(len(img)))
					}
				}

				select {
				case results <- Result{Record: rec, Image: img, Err: err}:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	// Feed jobs to workers.
	go func() {
		defer close(jobs)
		for _, rec := range records {
			select {
			case jobs <- rec:
			case <-ctx.Done():
				return
			}
		}
	}()

	// Close results once all workers have drained.
	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}
