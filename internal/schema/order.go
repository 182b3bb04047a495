package schema

import "github.com/JonMunkholm/MasterList/internal/table"

// ValidateOrder requires t's columns to equal expected exactly, position by
// position. Sources with repeated header names can only be read safely when
// their layout is known, so any drift is fatal.
func ValidateOrder(t *table.Table, expected []string) error {
	got := t.Columns()
	if len(got) == len(expected) {
		same := true
		for i := range got {
			if got[i] != expected[i] {
				same = false
				break
			}
		}
		if same {
			return nil
		}
	}
	return &table.MismatchError{
		Table:    t.Name(),
		Expected: append([]string(nil), expected...),
		Got:      got,
	}
}
