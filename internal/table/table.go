// Package table provides the in-memory tabular value handed from one
// pipeline stage to the next.
//
// A Table is an immutable snapshot: every operation returns a new Table and
// never mutates its receiver, so a stage may keep reading its input after it
// has produced an output. Cells are nullable text. A cell with Valid=false is
// a genuine absence (a blank CSV cell, an unmatched join, an unparseable
// value) and is distinct from a present empty string, which the pipeline
// uses for explicitly withheld values.
package table

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
)

// Cell is a single nullable value.
type Cell = pgtype.Text

// Null returns an absent cell.
func Null() Cell {
	return Cell{}
}

// Text returns a present cell holding s, including the empty string.
func Text(s string) Cell {
	return Cell{String: s, Valid: true}
}

// Table is an ordered set of uniquely named columns over rows of cells.
type Table struct {
	name    string
	columns []string
	index   map[string]int
	rows    [][]Cell
}

// New builds a table from columns and rows. Column names must be unique and
// every row must have exactly one cell per column. Rows are not copied; the
// caller hands ownership to the table.
func New(name string, columns []string, rows [][]Cell) (*Table, error) {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		if _, dup := index[c]; dup {
			return nil, fmt.Errorf("table %s: duplicate column %q", name, c)
		}
		index[c] = i
	}
	for i, r := range rows {
		if len(r) != len(columns) {
			return nil, fmt.Errorf("table %s: row %d has %d cells, expected %d", name, i, len(r), len(columns))
		}
	}
	return &Table{
		name:    name,
		columns: append([]string(nil), columns...),
		index:   index,
		rows:    rows,
	}, nil
}

// FromRecords builds a table from raw string records as read from CSV.
// Empty cells become null. Short records are padded with nulls; records
// longer than the header are rejected.
func FromRecords(name string, columns []string, records [][]string) (*Table, error) {
	rows := make([][]Cell, len(records))
	for i, rec := range records {
		if len(rec) > len(columns) {
			return nil, fmt.Errorf("table %s: record %d has %d fields, header has %d", name, i+1, len(rec), len(columns))
		}
		row := make([]Cell, len(columns))
		for j, v := range rec {
			if v != "" {
				row[j] = Text(v)
			}
		}
		rows[i] = row
	}
	return New(name, columns, rows)
}

// derive returns a table sharing t's name with new columns and rows.
// Callers guarantee uniqueness and row widths.
func (t *Table) derive(columns []string, rows [][]Cell) *Table {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		index[c] = i
	}
	return &Table{name: t.name, columns: columns, index: index, rows: rows}
}

// Name returns the table's label used in errors and logs.
func (t *Table) Name() string { return t.name }

// Columns returns a copy of the column names in order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Has reports whether the table has a column named col.
func (t *Table) Has(col string) bool {
	_, ok := t.index[col]
	return ok
}

// Missing returns the names in cols that are not columns of t, in the order given.
func (t *Table) Missing(cols ...string) []string {
	var missing []string
	for _, c := range cols {
		if !t.Has(c) {
			missing = append(missing, c)
		}
	}
	return missing
}

// Row returns a read-only view of row i.
func (t *Table) Row(i int) Row {
	return Row{t: t, cells: t.rows[i]}
}

// Value returns the cell at row i, column col. Absent columns read as null.
func (t *Table) Value(i int, col string) Cell {
	return t.Row(i).Get(col)
}

// Row is a read-only view over one row of a table.
type Row struct {
	t     *Table
	cells []Cell
}

// Get returns the cell in column col, or null if the column does not exist.
func (r Row) Get(col string) Cell {
	j, ok := r.t.index[col]
	if !ok {
		return Null()
	}
	return r.cells[j]
}

// String returns the value of col, or "" when it is null.
func (r Row) String(col string) string {
	return r.Get(col).String
}

// Select projects the table onto cols, in that order. Any missing column is
// a schema mismatch.
func (t *Table) Select(cols ...string) (*Table, error) {
	if missing := t.Missing(cols...); len(missing) > 0 {
		return nil, &MismatchError{Table: t.name, Missing: missing}
	}
	seen := make(map[string]bool, len(cols))
	for _, c := range cols {
		if seen[c] {
			return nil, fmt.Errorf("table %s: column %q selected twice", t.name, c)
		}
		seen[c] = true
	}
	pos := make([]int, len(cols))
	for i, c := range cols {
		pos[i] = t.index[c]
	}
	rows := make([][]Cell, len(t.rows))
	for i, r := range t.rows {
		out := make([]Cell, len(cols))
		for k, j := range pos {
			out[k] = r[j]
		}
		rows[i] = out
	}
	return t.derive(append([]string(nil), cols...), rows), nil
}

// Drop removes cols. Every name must exist.
func (t *Table) Drop(cols ...string) (*Table, error) {
	if missing := t.Missing(cols...); len(missing) > 0 {
		return nil, &MismatchError{Table: t.name, Missing: missing}
	}
	drop := make(map[string]bool, len(cols))
	for _, c := range cols {
		drop[c] = true
	}
	keep := make([]string, 0, len(t.columns))
	for _, c := range t.columns {
		if !drop[c] {
			keep = append(keep, c)
		}
	}
	return t.Select(keep...)
}

// Rename renames columns according to from->to. Every source name must
// exist; rows and the position of every column are preserved.
func (t *Table) Rename(mapping map[string]string) (*Table, error) {
	var missing []string
	for from := range mapping {
		if !t.Has(from) {
			missing = append(missing, from)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, &MismatchError{Table: t.name, Missing: missing}
	}

	cols := make([]string, len(t.columns))
	seen := make(map[string]bool, len(t.columns))
	for i, c := range t.columns {
		if to, ok := mapping[c]; ok {
			c = to
		}
		if seen[c] {
			return nil, fmt.Errorf("table %s: rename produces duplicate column %q", t.name, c)
		}
		seen[c] = true
		cols[i] = c
	}
	return t.derive(cols, t.rows), nil
}

// WithColumn returns a table where col holds f(row) for every row. An
// existing column is replaced in place; a new column is appended.
func (t *Table) WithColumn(col string, f func(Row) Cell) *Table {
	j, exists := t.index[col]
	cols := t.columns
	if !exists {
		cols = append(append([]string(nil), t.columns...), col)
		j = len(t.columns)
	}
	rows := make([][]Cell, len(t.rows))
	for i, r := range t.rows {
		v := f(Row{t: t, cells: r})
		out := make([]Cell, len(cols))
		copy(out, r)
		out[j] = v
		rows[i] = out
	}
	return t.derive(cols, rows)
}

// MapColumn applies f to every cell of col. A table without col is returned
// unchanged.
func (t *Table) MapColumn(col string, f func(Cell) Cell) *Table {
	if !t.Has(col) {
		return t
	}
	j := t.index[col]
	return t.WithColumn(col, func(r Row) Cell { return f(r.cells[j]) })
}

// Filter keeps the rows for which keep returns true, in order.
func (t *Table) Filter(keep func(Row) bool) *Table {
	rows := make([][]Cell, 0, len(t.rows))
	for _, r := range t.rows {
		if keep(Row{t: t, cells: r}) {
			rows = append(rows, r)
		}
	}
	return t.derive(t.columns, rows)
}

// SortBy stably orders rows by the text of col, nulls last.
func (t *Table) SortBy(col string) (*Table, error) {
	j, ok := t.index[col]
	if !ok {
		return nil, &MismatchError{Table: t.name, Missing: []string{col}}
	}
	rows := append([][]Cell(nil), t.rows...)
	sort.SliceStable(rows, func(a, b int) bool {
		x, y := rows[a][j], rows[b][j]
		if x.Valid != y.Valid {
			return x.Valid
		}
		return x.String < y.String
	})
	return t.derive(t.columns, rows), nil
}

// Distinct removes rows identical to an earlier row across every column,
// keeping the first occurrence. Two nulls are equal; null and "" are not.
func (t *Table) Distinct() *Table {
	seen := make(map[string]struct{}, len(t.rows))
	rows := make([][]Cell, 0, len(t.rows))
	for _, r := range t.rows {
		k := encodeCells(r)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		rows = append(rows, r)
	}
	return t.derive(t.columns, rows)
}

// WithName returns the same data under a different label.
func (t *Table) WithName(name string) *Table {
	out := t.derive(t.columns, t.rows)
	out.name = name
	return out
}

// Records returns the rows as strings for writing. Nulls render as "".
func (t *Table) Records() [][]string {
	out := make([][]string, len(t.rows))
	for i, r := range t.rows {
		rec := make([]string, len(r))
		for j, c := range r {
			rec[j] = c.String
		}
		out[i] = rec
	}
	return out
}

// encodeCells produces an unambiguous key for a sequence of cells.
func encodeCells(cells []Cell) string {
	var b strings.Builder
	for _, c := range cells {
		if !c.Valid {
			b.WriteString("-;")
			continue
		}
		b.WriteString(strconv.Itoa(len(c.String)))
		b.WriteByte(':')
		b.WriteString(c.String)
	}
	return b.String()
}
