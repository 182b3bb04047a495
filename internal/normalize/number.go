package normalize

import (
	"math"
	"strconv"
	"strings"

	"github.com/JonMunkholm/MasterList/internal/table"
	"github.com/jackc/pgx/v5/pgtype"
)

// ToInt8 parses an integer-like identifier. Leading zeros are insignificant
// ("007" and "7" are equal) and integral floats ("7.0") are accepted.
// Anything else is invalid rather than an error.
func ToInt8(s string) pgtype.Int8 {
	s = strings.TrimSpace(s)
	if s == "" {
		return pgtype.Int8{Valid: false}
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return pgtype.Int8{Int64: i, Valid: true}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) > math.MaxInt64/2 {
		return pgtype.Int8{Valid: false}
	}
	return pgtype.Int8{Int64: int64(f), Valid: true}
}

// Integer rewrites a cell into the canonical decimal form of its integer
// value, so integer identifiers compare equal as text. Unparseable values
// become null.
func Integer(c table.Cell) table.Cell {
	if !c.Valid {
		return table.Null()
	}
	n := ToInt8(c.String)
	if !n.Valid {
		return table.Null()
	}
	return table.Text(strconv.FormatInt(n.Int64, 10))
}
