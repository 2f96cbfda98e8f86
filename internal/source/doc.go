// Package source reads the clip/action join from Postgres.
//
// Two read shapes are exposed:
//
//   - Rows: one record per (thumbnail_cid, action_name) pair, as consumed
//     by the parquet pipeline.
//   - Grouped: one record per thumbnail with all actions aggregated in
//     descending confidence order, as consumed by the LLaVA pipeline.
//
// The query joins "VideoClip", "VideoClipAction" and "Action" and drops
// rows with NULL or empty thumbnails. The source is read once, up front;
// a failure here aborts the run before any fetching starts.
package source
