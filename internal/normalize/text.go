package normalize

import (
	"unicode"
	"unicode/utf8"

	"github.com/JonMunkholm/MasterList/internal/table"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Name lower-cases a name and upper-cases its first letter ("mCDONALD" ->
// "Mcdonald"). Null becomes "".
func Name(c table.Cell) table.Cell {
	if !c.Valid {
		return table.Text("")
	}
	s := cases.Lower(language.Und).String(c.String)
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return table.Text("")
	}
	return table.Text(string(unicode.ToTitle(r)) + s[size:])
}

// Email lower-cases an address. Null becomes "".
func Email(c table.Cell) table.Cell {
	if !c.Valid {
		return table.Text("")
	}
	return table.Text(cases.Lower(language.Und).String(c.String))
}

// Default returns a normalizer that replaces null with def.
func Default(def string) func(table.Cell) table.Cell {
	return func(c table.Cell) table.Cell {
		if !c.Valid {
			return table.Text(def)
		}
		return c
	}
}

// Columns applies f to each named column that exists in t.
func Columns(t *table.Table, f func(table.Cell) table.Cell, cols ...string) *table.Table {
	for _, col := range cols {
		t = t.MapColumn(col, f)
	}
	return t
}
