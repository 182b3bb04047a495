package table

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSchemaMismatch is matched by every MismatchError.
var ErrSchemaMismatch = errors.New("schema mismatch")

// MismatchError reports a table whose columns do not satisfy a required
// schema: either expected names are absent (Missing), or the header does not
// match a fixed positional layout (Expected vs Got).
type MismatchError struct {
	Table    string
	Missing  []string
	Expected []string
	Got      []string
}

func (e *MismatchError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("schema mismatch in %s: missing expected columns: %s",
			e.Table, strings.Join(e.Missing, ", "))
	}

	pos, want, got := e.firstDifference()
	return fmt.Sprintf("schema mismatch in %s: unexpected column order at position %d: expected %q, got %q (expected %d columns, got %d)",
		e.Table, pos+1, want, got, len(e.Expected), len(e.Got))
}

// Is implements errors.Is support.
func (e *MismatchError) Is(target error) bool {
	return target == ErrSchemaMismatch
}

// firstDifference locates the first position where Expected and Got diverge.
func (e *MismatchError) firstDifference() (int, string, string) {
	n := len(e.Expected)
	if len(e.Got) > n {
		n = len(e.Got)
	}
	for i := 0; i < n; i++ {
		var want, got string
		if i < len(e.Expected) {
			want = e.Expected[i]
		}
		if i < len(e.Got) {
			got = e.Got[i]
		}
		if want != got {
			return i, want, got
		}
	}
	return 0, "", ""
}
