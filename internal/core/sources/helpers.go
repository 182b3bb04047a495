package sources

import (
	"strings"

	"github.com/JonMunkholm/MasterList/internal/table"
)

// require fails with a schema mismatch naming every column of cols missing
// from raw.
func require(raw *table.Table, cols []string) error {
	if missing := raw.Missing(cols...); len(missing) > 0 {
		return &table.MismatchError{Table: raw.Name(), Missing: missing}
	}
	return nil
}

// answers reports whether c holds want, ignoring case and surrounding
// whitespace. Null never matches.
func answers(c table.Cell, want string) bool {
	return c.Valid && strings.EqualFold(strings.TrimSpace(c.String), want)
}

// blank returns "" in place of c when withheld is true.
func blank(withheld bool, c table.Cell) table.Cell {
	if withheld {
		return table.Text("")
	}
	return c
}
