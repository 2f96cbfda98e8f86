// Package sink writes assembled dataset rows to columnar output.
//
// The parquet sink maps the batch model onto row groups: each non-empty
// batch of fetched records becomes one row group in a single output
// file, streamed as the run progresses. Durability for this mode comes
// from the batch granularity; resumable runs use the snapshot package
// instead.
package sink
