package sink

import (
	"fmt"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/Haven-hvn/HAVEN2LLaVA/internal/dataset"
)

// Parquet writes assembled rows to a single parquet file, one row group
// per batch. The file is opened once for the run and closed at the end;
// a failed fragment write is fatal to the run rather than retried.
type Parquet struct {
	f      *os.File
	w      *parquet.GenericWriter[dataset.ParquetRow]
	rows   int
	groups int
}

// NewParquet creates the output file, truncating any previous run.
func NewParquet(path string) (*Parquet, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create parquet output: %w", err)
	}
	return &Parquet{
		f: f,
		w: parquet.NewGenericWriter[dataset.ParquetRow](f),
	}, nil
}

// WriteBatch appends one row group with the given rows. An empty batch
// is a no-op: batches where every fetch failed produce no fragment.
func (s *Parquet) WriteBatch(rows []dataset.ParquetRow) error {
	if len(rows) == 0 {
		return nil
	}
	if _, err := s.w.Write(rows); err != nil {
		return fmt.Errorf("write parquet batch: %w", err)
	}
	if err := s.w.Flush(); err != nil {
		return fmt.Errorf("flush parquet row group: %w", err)
	}
	s.rows += len(rows)
	s.groups++
	return nil
}

// Rows returns the number of rows written so far.
func (s *Parquet) Rows() int {
	return s.rows
}

// RowGroups returns the number of row groups (fragments) written so far.
func (s *Parquet) RowGroups() int {
	return s.groups
}

// Close finalizes the parquet footer and closes the file.
func (s *Parquet) Close() error {
	if err := s.w.Close(); err != nil {
		s.f.Close()
		return fmt.Errorf("finalize parquet output: %w", err)
	}
	if err := s.f.Close(); err != nil {
		return fmt.Errorf("close parquet output: %w", err)
	}
	return nil
}
