// Package csvio reads and writes the CSV files at the pipeline boundary.
//
// Source extracts come out of spreadsheet tools and the member database, so
// reading tolerates the usual artifacts:
//
//   - a UTF-8 byte order mark at the start of the file
//   - invalid UTF-8 sequences (replaced with U+FFFD)
//   - header names padded with whitespace
//   - repeated header names, which are disambiguated by position
//   - Excel text formulas such as ="007"
//   - fully blank lines
package csvio

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/JonMunkholm/MasterList/internal/table"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadFile reads the CSV at path into a table labeled name.
func ReadFile(path, name string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	t, err := Read(f, name)
	if err != nil {
		return nil, fmt.Errorf("read %s (%s): %w", name, path, err)
	}
	return t, nil
}

// Read parses CSV from r. The first record is the header.
func Read(r io.Reader, name string) (*table.Table, error) {
	header, records, err := ReadRaw(r)
	if err != nil {
		return nil, err
	}
	return table.FromRecords(name, Disambiguate(header), records)
}

// ReadRaw parses CSV from r and returns the cleaned header (trimmed, but with
// duplicates intact) and the non-blank data records.
func ReadRaw(r io.Reader) ([]string, [][]string, error) {
	cr := csv.NewReader(NewBOMSkippingReader(r))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("invalid csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("empty file: no header row")
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = CleanHeader(h)
	}

	data := make([][]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		if isBlank(rec) {
			continue
		}
		for i, v := range rec {
			rec[i] = CleanCell(v)
		}
		data = append(data, rec)
	}
	return header, data, nil
}

// CleanHeader trims whitespace and repairs invalid UTF-8 in a header name.
func CleanHeader(s string) string {
	return strings.TrimSpace(strings.ToValidUTF8(s, "�"))
}

// CleanCell repairs invalid UTF-8 and unwraps Excel text formulas (="007").
// Surrounding whitespace is significant and left alone.
func CleanCell(s string) string {
	s = strings.ToValidUTF8(s, "�")
	if len(s) >= 3 && strings.HasPrefix(s, `="`) && strings.HasSuffix(s, `"`) {
		s = s[2 : len(s)-1]
	}
	return s
}

// Disambiguate gives repeated header names a positional suffix: the second
// "City" becomes "City.1", the third "City.2". Suffixes skip any name that
// is already taken.
func Disambiguate(header []string) []string {
	out := make([]string, len(header))
	taken := make(map[string]bool, len(header))
	for _, h := range header {
		taken[h] = true
	}
	seen := make(map[string]int, len(header))
	for i, h := range header {
		n := seen[h]
		if n == 0 {
			seen[h] = 1
			out[i] = h
			continue
		}
		name := h + "." + strconv.Itoa(n)
		for taken[name] {
			n++
			name = h + "." + strconv.Itoa(n)
		}
		seen[h] = n + 1
		taken[name] = true
		out[i] = name
	}
	return out
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// BOMSkippingReader drops a leading UTF-8 byte order mark, which Windows
// tools commonly prepend to exported CSV.
type BOMSkippingReader struct {
	br      *bufio.Reader
	checked bool
}

// NewBOMSkippingReader wraps r.
func NewBOMSkippingReader(r io.Reader) *BOMSkippingReader {
	return &BOMSkippingReader{br: bufio.NewReader(r)}
}

// Read implements io.Reader.
func (r *BOMSkippingReader) Read(p []byte) (int, error) {
	if !r.checked {
		r.checked = true
		if head, err := r.br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
			if _, err := r.br.Discard(len(utf8BOM)); err != nil {
				return 0, err
			}
		}
	}
	return r.br.Read(p)
}
