package table

import "fmt"

// JoinKey pairs a left column with the right column it must equal.
type JoinKey struct {
	Left  string
	Right string
}

// On builds join keys for columns that share a name on both sides.
func On(cols ...string) []JoinKey {
	keys := make([]JoinKey, len(cols))
	for i, c := range cols {
		keys[i] = JoinKey{Left: c, Right: c}
	}
	return keys
}

// JoinOptions configures LeftJoin.
type JoinOptions struct {
	Keys []JoinKey

	// Override lists right-hand columns that share a name with a left-hand
	// column. When a right row matches, its value replaces the left value;
	// unmatched rows keep the left value.
	Override []string
}

// LeftJoin joins right onto t. Every row of t survives: it appears once per
// matching right row, or once with null right-hand columns when nothing
// matches. A row whose key contains a null never matches.
//
// Output columns are t's columns followed by right's non-key, non-override
// columns in their original order. Any other column shared by both sides is
// an error.
func (t *Table) LeftJoin(right *Table, opts JoinOptions) (*Table, error) {
	if len(opts.Keys) == 0 {
		return nil, fmt.Errorf("join %s with %s: no join keys", t.name, right.name)
	}

	leftKeys := make([]string, len(opts.Keys))
	rightKeys := make([]string, len(opts.Keys))
	for i, k := range opts.Keys {
		leftKeys[i] = k.Left
		rightKeys[i] = k.Right
	}
	if missing := t.Missing(leftKeys...); len(missing) > 0 {
		return nil, &MismatchError{Table: t.name, Missing: missing}
	}
	if missing := right.Missing(rightKeys...); len(missing) > 0 {
		return nil, &MismatchError{Table: right.name, Missing: missing}
	}
	if missing := right.Missing(opts.Override...); len(missing) > 0 {
		return nil, &MismatchError{Table: right.name, Missing: missing}
	}

	isKey := make(map[string]bool, len(rightKeys))
	for _, k := range rightKeys {
		isKey[k] = true
	}
	override := make(map[string]int, len(opts.Override))
	for _, c := range opts.Override {
		j, ok := t.index[c]
		if !ok {
			return nil, fmt.Errorf("join %s with %s: override column %q not on left side", t.name, right.name, c)
		}
		override[c] = j
	}

	// Right-hand columns carried into the output.
	var carried []int
	cols := append([]string(nil), t.columns...)
	for j, c := range right.columns {
		if isKey[c] {
			continue
		}
		if _, ok := override[c]; ok {
			continue
		}
		if t.Has(c) {
			return nil, fmt.Errorf("join %s with %s: column %q present on both sides", t.name, right.name, c)
		}
		carried = append(carried, j)
		cols = append(cols, c)
	}

	lookup := right.keyIndex(rightKeys)
	leftPos := t.positions(leftKeys)
	width := len(cols)

	rows := make([][]Cell, 0, len(t.rows))
	for _, lr := range t.rows {
		matches := lookup[keyOf(lr, leftPos)]
		if len(matches) == 0 || hasNull(lr, leftPos) {
			out := make([]Cell, width)
			copy(out, lr)
			rows = append(rows, out)
			continue
		}
		for _, ri := range matches {
			rr := right.rows[ri]
			out := make([]Cell, width)
			copy(out, lr)
			for c, lj := range override {
				out[lj] = rr[right.index[c]]
			}
			for k, j := range carried {
				out[len(t.columns)+k] = rr[j]
			}
			rows = append(rows, out)
		}
	}
	return t.derive(cols, rows), nil
}

// keyIndex groups row indexes by their key. Rows with a null key component
// are left out so they can never be matched.
func (t *Table) keyIndex(keys []string) map[string][]int {
	pos := t.positions(keys)
	idx := make(map[string][]int, len(t.rows))
	for i, r := range t.rows {
		if hasNull(r, pos) {
			continue
		}
		k := keyOf(r, pos)
		idx[k] = append(idx[k], i)
	}
	return idx
}

func (t *Table) positions(cols []string) []int {
	pos := make([]int, len(cols))
	for i, c := range cols {
		pos[i] = t.index[c]
	}
	return pos
}

func keyOf(r []Cell, pos []int) string {
	cells := make([]Cell, len(pos))
	for i, j := range pos {
		cells[i] = r[j]
	}
	return encodeCells(cells)
}

func hasNull(r []Cell, pos []int) bool {
	for _, j := range pos {
		if !r[j].Valid {
			return true
		}
	}
	return false
}
