// Package progress provides progress reporting for dataset runs.
//
// This package outputs human-readable progress information to stderr,
// including records fetched and skipped, transfer volume, and speed.
//
// # Usage
//
//	reporter := progress.NewReporter(progress.Options{
//	    TotalRecords: len(records),
//	    Workers:      10,
//	    Gateway:      gatewayURL,
//	})
//
//	reporter.Start()
//	defer reporter.Stop()
//
//	// Update as record fetches complete
//	reporter.RecordCompleted(int64(len(image)))
//
// # Output Format
//
//	[haven2llava] Fetching via: https://premium.w3ipfs.storage
//	[haven2llava] Records: 4820 | Workers: 10
//	[haven2llava] Progress: 45.2% | 2104 fetched | 76 skipped | 312.40 MB | 1.20 MB/s
//	[haven2llava] Records: 10 in-flight | 2630 pending
package progress
