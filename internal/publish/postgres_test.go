package publish

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/JonMunkholm/MasterList/internal/table"
)

func TestColumnName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"already snake_case", "short_code", "short_code"},
		{"with spaces", "Local Code", "local_code"},
		{"punctuation kept", "Short #", "short_#"},
		{"surrounding space", " Work Email ", "work_email"},
		{"empty string", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ColumnName(tt.input); got != tt.want {
				t.Errorf("ColumnName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCreateTableSQL(t *testing.T) {
	got := CreateTableSQL("master_list", []string{"local_code", `odd"name`})
	want := `CREATE TABLE IF NOT EXISTS "master_list" ("local_code" text, "odd""name" text)`
	if got != want {
		t.Errorf("CreateTableSQL() =\n%s\nwant\n%s", got, want)
	}
}

func TestRows(t *testing.T) {
	tbl, err := table.New("m", []string{"a", "b"}, [][]table.Cell{
		{table.Text("x"), table.Null()},
		{table.Text(""), table.Text("y")},
	})
	if err != nil {
		t.Fatal(err)
	}

	want := [][]any{
		{"x", nil},
		{"", "y"},
	}
	if diff := cmp.Diff(want, Rows(tbl)); diff != "" {
		t.Errorf("Rows() mismatch (-want +got):\n%s", diff)
	}
}

func TestCheckColumns(t *testing.T) {
	want := []string{"c28_short", "first_name", "work_email"}

	tests := []struct {
		name     string
		existing []string
		wantErr  string
	}{
		{"same columns", []string{"c28_short", "first_name", "work_email"}, ""},
		{"renamed column", []string{"c28_short", "firstname", "work_email"}, `column 2 is "firstname", master list has "first_name"`},
		{"missing trailing column", []string{"c28_short", "first_name"}, `column 3 is "", master list has "work_email"`},
		{"extra column", []string{"c28_short", "first_name", "work_email", "notes"}, `column 4 is "notes", master list has ""`},
		{"reordered", []string{"first_name", "c28_short", "work_email"}, `column 1 is "first_name"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckColumns("master_list", tt.existing, want)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("CheckColumns() error = %v", err)
				}
				return
			}
			if !errors.Is(err, ErrColumnsDiffer) {
				t.Fatalf("CheckColumns() error = %v, want ErrColumnsDiffer", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err, tt.wantErr)
			}
		})
	}
}
