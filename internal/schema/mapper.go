// Package schema maps working column names to publication names and checks
// strict header layouts.
package schema

import (
	"fmt"

	"github.com/JonMunkholm/MasterList/internal/csvio"
	"github.com/JonMunkholm/MasterList/internal/table"
)

// Mapping-file columns.
const (
	FromColumn = "from"
	ToColumn   = "to"
)

// Pair renames one column.
type Pair struct {
	From string
	To   string
}

// Mapping is an ordered from->to rename table. Every From name is required
// to exist in the table it is applied to.
type Mapping struct {
	pairs []Pair
}

// NewMapping builds a mapping. A From name listed twice with different
// targets is rejected.
func NewMapping(pairs ...Pair) (Mapping, error) {
	seen := make(map[string]string, len(pairs))
	out := make([]Pair, 0, len(pairs))
	for _, p := range pairs {
		if p.From == "" {
			continue
		}
		if prev, ok := seen[p.From]; ok {
			if prev != p.To {
				return Mapping{}, fmt.Errorf("header map: %q mapped to both %q and %q", p.From, prev, p.To)
			}
			continue
		}
		seen[p.From] = p.To
		out = append(out, p)
	}
	return Mapping{pairs: out}, nil
}

// LoadMapping reads a mapping CSV with "from" and "to" columns.
func LoadMapping(path string) (Mapping, error) {
	t, err := csvio.ReadFile(path, "header_map")
	if err != nil {
		return Mapping{}, err
	}
	return MappingFromTable(t)
}

// MappingFromTable builds a mapping from a table with "from" and "to" columns.
func MappingFromTable(t *table.Table) (Mapping, error) {
	if missing := t.Missing(FromColumn, ToColumn); len(missing) > 0 {
		return Mapping{}, &table.MismatchError{Table: t.Name(), Missing: missing}
	}
	pairs := make([]Pair, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		r := t.Row(i)
		pairs = append(pairs, Pair{From: r.String(FromColumn), To: r.String(ToColumn)})
	}
	return NewMapping(pairs...)
}

// Len returns the number of renames.
func (m Mapping) Len() int { return len(m.pairs) }

// Apply renames t's columns. If any From name is absent, it fails with a
// *table.MismatchError listing every missing name; otherwise rows, row order
// and unmapped columns are preserved.
func (m Mapping) Apply(t *table.Table) (*table.Table, error) {
	rename := make(map[string]string, len(m.pairs))
	for _, p := range m.pairs {
		rename[p.From] = p.To
	}
	return t.Rename(rename)
}
