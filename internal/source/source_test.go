package source

import (
	"context"
	"testing"
)

func TestLabel(t *testing.T) {
	rec := ClipRecord{CID: "QmA", Actions: []string{"running", "jumping"}}
	if rec.Label() != "running" {
		t.Errorf("expected primary action running, got %q", rec.Label())
	}

	empty := ClipRecord{CID: "QmB"}
	if empty.Label() != "" {
		t.Errorf("expected empty label for record without actions, got %q", empty.Label())
	}
}

func TestStaticRowsExpansion(t *testing.T) {
	src := Static{
		{CID: "QmA", Actions: []string{"running", "jumping"}},
		{CID: "QmB", Actions: []string{"waving"}},
	}

	records, err := src.Rows(context.Background())
	if err != nil {
		t.Fatalf("Rows: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("expected 3 row records, got %d", len(records))
	}
	for _, rec := range records {
		if len(rec.Actions) != 1 {
			t.Errorf("row record %s carries %d actions, want 1", rec.CID, len(rec.Actions))
		}
	}
	if records[0].CID != "QmA" || records[0].Actions[0] != "running" {
		t.Errorf("unexpected first row %+v", records[0])
	}
	if records[2].CID != "QmB" || records[2].Actions[0] != "waving" {
		t.Errorf("unexpected last row %+v", records[2])
	}
}

func TestStaticGrouped(t *testing.T) {
	src := Static{
		{CID: "QmA", Actions: []string{"running", "jumping"}},
	}

	records, err := src.Grouped(context.Background(), 0.5)
	if err != nil {
		t.Fatalf("Grouped: %v", err)
	}
	if len(records) != 1 || len(records[0].Actions) != 2 {
		t.Errorf("unexpected grouped records %+v", records)
	}
}
