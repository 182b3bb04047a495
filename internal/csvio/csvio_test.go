package csvio

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JonMunkholm/MasterList/internal/table"
	"github.com/google/go-cmp/cmp"
)

func TestBOMSkippingReader(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected string
	}{
		{
			name:     "file with BOM",
			input:    append([]byte{0xEF, 0xBB, 0xBF}, []byte("a,b")...),
			expected: "a,b",
		},
		{
			name:     "file without BOM",
			input:    []byte("a,b"),
			expected: "a,b",
		},
		{
			name:     "empty file",
			input:    []byte{},
			expected: "",
		},
		{
			name:     "partial BOM",
			input:    []byte{0xEF, 0xBB, 'x'},
			expected: string([]byte{0xEF, 0xBB, 'x'}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := io.ReadAll(NewBOMSkippingReader(bytes.NewReader(tt.input)))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(got) != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestDisambiguate(t *testing.T) {
	tests := []struct {
		name   string
		header []string
		want   []string
	}{
		{
			name:   "unique",
			header: []string{"a", "b"},
			want:   []string{"a", "b"},
		},
		{
			name:   "repeats",
			header: []string{"City", "Address Line 1", "City", "Address Line 1", "City"},
			want:   []string{"City", "Address Line 1", "City.1", "Address Line 1.1", "City.2"},
		},
		{
			name:   "suffix already taken",
			header: []string{"City", "City.1", "City"},
			want:   []string{"City", "City.1", "City.2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, Disambiguate(tt.header)); diff != "" {
				t.Errorf("Disambiguate mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCleanCell(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`="007"`, "007"},
		{" padded ", " padded "},
		{"plain", "plain"},
		{`="`, `="`},
		{"bad\xffbyte", "bad�byte"},
	}
	for _, tt := range tests {
		if got := CleanCell(tt.in); got != tt.want {
			t.Errorf("CleanCell(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRead(t *testing.T) {
	input := "\xEF\xBB\xBF Short # ,Name,Name\nA1,ann,\n,,\nB2,=\"007\",x\n"

	tbl, err := Read(strings.NewReader(input), "people")
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if diff := cmp.Diff([]string{"Short #", "Name", "Name.1"}, tbl.Columns()); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}
	if tbl.Len() != 2 {
		t.Fatalf("Len() = %d, want 2 (blank line skipped)", tbl.Len())
	}
	if v := tbl.Value(0, "Name.1"); v.Valid {
		t.Errorf("empty cell = %+v, want null", v)
	}
	if v := tbl.Value(1, "Name"); v.String != "007" {
		t.Errorf("formula cell = %q, want 007", v.String)
	}
}

func TestReadRaw_Empty(t *testing.T) {
	if _, _, err := ReadRaw(strings.NewReader("")); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestWriteFile(t *testing.T) {
	tbl, err := table.New("out", []string{"a", "b"}, [][]table.Cell{
		{table.Text("1"), table.Null()},
		{table.Text("x,y"), table.Text("")},
	})
	if err != nil {
		t.Fatalf("table.New() error = %v", err)
	}

	path := filepath.Join(t.TempDir(), "out.csv")
	if err := WriteFile(path, tbl); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	want := "a,b\n1,\n\"x,y\",\n"
	if string(data) != want {
		t.Errorf("output = %q, want %q", data, want)
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("expected only the output file, found %d entries", len(entries))
	}
}

func TestStage_DiscardKeepsPreviousOutput(t *testing.T) {
	tbl, err := table.New("out", []string{"a"}, [][]table.Cell{{table.Text("new")}})
	if err != nil {
		t.Fatalf("table.New() error = %v", err)
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")
	if err := os.WriteFile(path, []byte("previous\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	st, err := Stage(path, tbl)
	if err != nil {
		t.Fatalf("Stage() error = %v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "previous\n" {
		t.Errorf("staging replaced the output: %q", data)
	}

	st.Discard()
	data, _ = os.ReadFile(path)
	if string(data) != "previous\n" {
		t.Errorf("output after Discard = %q, want previous", data)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("temp file left behind: %d entries", len(entries))
	}
}

func TestStage_Commit(t *testing.T) {
	tbl, err := table.New("out", []string{"a"}, [][]table.Cell{{table.Text("new")}})
	if err != nil {
		t.Fatalf("table.New() error = %v", err)
	}

	path := filepath.Join(t.TempDir(), "out.csv")
	st, err := Stage(path, tbl)
	if err != nil {
		t.Fatalf("Stage() error = %v", err)
	}
	if err := st.Commit(); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
	st.Discard()

	data, _ := os.ReadFile(path)
	if string(data) != "a\nnew\n" {
		t.Errorf("output = %q", data)
	}
}
