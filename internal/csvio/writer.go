package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/JonMunkholm/MasterList/internal/table"
)

// flushInterval is how many rows are buffered between flushes.
const flushInterval = 1000

// Write writes t as CSV with a header row. Null cells are written empty.
func Write(w io.Writer, t *table.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, rec := range t.Records() {
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
		if (i+1)%flushInterval == 0 {
			cw.Flush()
			if err := cw.Error(); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile writes t to path. The file is written to a temporary sibling and
// renamed into place, so a failed write never leaves partial output behind.
func WriteFile(path string, t *table.Table) error {
	st, err := Stage(path, t)
	if err != nil {
		return err
	}
	return st.Commit()
}

// Staged is a complete output file that has not yet replaced its target.
type Staged struct {
	tmp  string
	path string
}

// Stage writes t to a temporary sibling of path. The existing file at path is
// untouched until Commit; Discard removes the temporary file.
func Stage(path string, t *table.Table) (st *Staged, err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("create temp output: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = tmp.Chmod(0o644); err != nil {
		return nil, fmt.Errorf("chmod temp output: %w", err)
	}
	if err = Write(tmp, t); err != nil {
		return nil, err
	}
	if err = tmp.Close(); err != nil {
		return nil, fmt.Errorf("close temp output: %w", err)
	}
	return &Staged{tmp: tmp.Name(), path: path}, nil
}

// Commit moves the staged file into place.
func (s *Staged) Commit() error {
	if err := os.Rename(s.tmp, s.path); err != nil {
		os.Remove(s.tmp)
		return fmt.Errorf("move output into place: %w", err)
	}
	return nil
}

// Discard removes the staged file. It is safe to call after Commit.
func (s *Staged) Discard() {
	os.Remove(s.tmp)
}
