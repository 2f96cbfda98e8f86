package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Haven-hvn/HAVEN2LLaVA/internal/dataset"
)

// Store holds the conversational dataset for one output path and keeps
// the on-disk document in sync with memory. The document on disk is
// always a complete, valid JSON array: every persist writes the full
// dataset to a temp file and atomically renames it over the target.
type Store struct {
	path    string
	records []dataset.Conversation
	present map[string]struct{}
}

// Open loads the dataset at path, or starts an empty one when the file
// does not exist yet. A document that exists but cannot be parsed is an
// error: silently starting over would duplicate completed work.
func Open(path string) (*Store, error) {
	s := &Store{
		path: path,
		// Non-nil so an empty store persists as "[]", not "null".
		records: make([]dataset.Conversation, 0),
		present: make(map[string]struct{}),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}

	if err := json.Unmarshal(data, &s.records); err != nil {
		return nil, fmt.Errorf("parse dataset %s: %w", path, err)
	}
	if s.records == nil {
		s.records = make([]dataset.Conversation, 0)
	}
	for _, rec := range s.records {
		s.present[rec.ID] = struct{}{}
	}
	return s, nil
}

// Contains reports whether a record with the given identifier is already
// in the dataset. Used to exclude completed work when resuming.
func (s *Store) Contains(id string) bool {
	_, ok := s.present[id]
	return ok
}

// Len returns the number of records currently in the dataset.
func (s *Store) Len() int {
	return len(s.records)
}

// Append adds a record and persists a full snapshot. On a persist error
// the record stays in memory; the next successful Append or Flush writes
// it out.
func (s *Store) Append(rec dataset.Conversation) error {
	s.records = append(s.records, rec)
	s.present[rec.ID] = struct{}{}
	return s.persist()
}

// Flush persists the current dataset. Called once after the run drains
// as a terminal consistency step.
func (s *Store) Flush() error {
	return s.persist()
}

// persist serializes the full dataset to a temp file next to the target
// and renames it into place. Readers never observe a partial document.
func (s *Store) persist() error {
	data, err := json.MarshalIndent(s.records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".haven2llava-*.json")
	if err != nil {
		return fmt.Errorf("create temp dataset: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write temp dataset: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("sync temp dataset: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp dataset: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace dataset: %w", err)
	}
	return nil
}
