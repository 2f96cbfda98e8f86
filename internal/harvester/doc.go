// Package harvester fans image fetches out across a bounded worker pool.
//
// This package coordinates between the gateway client and the dataset
// pipelines. Workers receive clip records from a channel, fetch the
// thumbnail to completion (a fetch may sleep through several backoff
// rounds; that blocks only its worker), and emit results on a single
// channel in completion order.
//
// The pool bounds concurrent network load, not total work: all records
// for a batch are submitted up front. The consumer of the results channel
// is the only goroutine that touches the in-memory dataset, so no locking
// of the collection is needed.
package harvester
