// Package normalize holds the per-column transforms applied to the master
// list. Every normalizer is pure: it maps one cell to one cell and degrades
// malformed input to null instead of failing.
package normalize

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/JonMunkholm/MasterList/internal/table"
)

var (
	// extensionRegex matches "ext 12", "ext.12", "x12" anywhere in the value.
	extensionRegex = regexp.MustCompile(`(?i)(ext\.?|x)\s*\d+`)

	nonDigitRegex = regexp.MustCompile(`\D`)

	// floatRegex matches values a spreadsheet rewrote as a number,
	// e.g. "5551234567.0" or "5.551234567E+09".
	floatRegex = regexp.MustCompile(`^[+-]?\d+(\.\d*)?([eE][+-]?\d+)?$`)
)

// Phone normalizes a phone number to 11 digits with a leading country code.
//
//  1. extensions (ext, ext., x followed by digits) are removed
//  2. every non-digit is removed
//  3. 10 digits gain a leading "1", 11 digits are kept, anything else is null
//
// A null input stays null.
func Phone(c table.Cell) table.Cell {
	if !c.Valid {
		return table.Null()
	}
	s := unfloat(strings.TrimSpace(c.String))
	s = extensionRegex.ReplaceAllString(s, "")
	s = nonDigitRegex.ReplaceAllString(s, "")

	switch len(s) {
	case 10:
		return table.Text("1" + s)
	case 11:
		return table.Text(s)
	default:
		return table.Null()
	}
}

// PhoneColumns applies Phone to each named column. Columns absent from t are
// skipped.
func PhoneColumns(t *table.Table, cols ...string) *table.Table {
	return Columns(t, Phone, cols...)
}

// unfloat turns a number that lost its formatting to float coercion back
// into its integer digits. Anything else is returned unchanged.
func unfloat(s string) string {
	if !floatRegex.MatchString(s) || !strings.ContainsAny(s, ".eE") {
		return s
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) >= 1e15 {
		return s
	}
	return strconv.FormatFloat(f, 'f', 0, 64)
}
