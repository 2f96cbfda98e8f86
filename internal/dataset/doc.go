// Package dataset assembles fetched images and action labels into output
// records.
//
// Two shapes are produced, one per output mode:
//
//   - ParquetRow: image bytes inlined with a fixed question, the label
//     list, and a machine-provenance tag.
//   - Conversation: a LLaVA-style multi-turn record referencing an image
//     saved through ImageStore.
//
// Assembly only ever sees successful fetches; the pipelines filter out
// absent and exhausted records first.
//
// ImageStore is storage-agnostic via gocloud.dev/blob: a local directory
// in production (fileblob), an in-memory bucket in tests (memblob).
package dataset
