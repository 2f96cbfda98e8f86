package source

import (
	"context"
)

// ClipRecord is one unit of fetch work: a thumbnail content identifier and
// the action labels attached to it. Actions are ordered by descending
// confidence when the source provides a ranking.
type ClipRecord struct {
	CID     string
	Actions []string
}

// Label returns the primary (highest-confidence) action.
func (r ClipRecord) Label() string {
	if len(r.Actions) == 0 {
		return ""
	}
	return r.Actions[0]
}

// Source yields the clip records for one run. A read failure is fatal to
// the run; it happens before any fetching begins.
type Source interface {
	// Rows returns one record per (thumbnail, action) pair.
	Rows(ctx context.Context) ([]ClipRecord, error)

	// Grouped returns one record per thumbnail with all its actions,
	// ordered by descending confidence, excluding actions below
	// minConfidence.
	Grouped(ctx context.Context, minConfidence float64) ([]ClipRecord, error)
}

// Static is an in-memory Source over pre-grouped records, used in tests.
// Records are assumed to already carry confidence-ordered actions, so
// Grouped ignores the threshold.
type Static []ClipRecord

// Rows expands each record into one single-action record per label.
func (s Static) Rows(ctx context.Context) ([]ClipRecord, error) {
	var records []ClipRecord
	for _, rec := range s {
		for _, action := range rec.Actions {
			records = append(records, ClipRecord{CID: rec.CID, Actions: []string{action}})
		}
	}
	return records, nil
}

// Grouped returns the records as stored.
func (s Static) Grouped(ctx context.Context, minConfidence float64) ([]ClipRecord, error) {
	return s, nil
}

var (
	_ Source = (*Postgres)(nil)
	_ Source = Static(nil)
)
