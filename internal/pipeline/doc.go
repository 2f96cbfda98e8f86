// Package pipeline wires the record source, gateway client, assembler
// and sinks into the two dataset runs.
//
// RunParquet implements the batched columnar strategy: fetch a batch
// concurrently, write one row group, move on. RunLLaVA implements the
// append-resumable JSON strategy: skip identifiers already on disk,
// then snapshot the full document after every successful record.
//
// Per-record failures (absent content, exhausted retries, image save
// errors) are logged and skipped; only one-time setup failures and
// columnar fragment writes abort a run.
package pipeline
