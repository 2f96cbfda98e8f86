// Package snapshot persists the conversational dataset resumably.
//
// The dataset is a single JSON array. After every appended record the
// full array is rewritten to a temp file and atomically renamed over the
// output path, so the file at rest is always complete and valid, however
// the process dies. On the next run, Open reloads the document and the
// pipeline skips identifiers that are already present.
//
// The O(n) rewrite per record is deliberate: target datasets are tens of
// thousands of small records, and a rewrite is cheap next to the network
// fetch it follows.
package snapshot
