package core

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/JonMunkholm/MasterList/internal/core/coretest"
	"github.com/JonMunkholm/MasterList/internal/core/sources"
	"github.com/JonMunkholm/MasterList/internal/csvio"
	"github.com/JonMunkholm/MasterList/internal/schema"
	"github.com/JonMunkholm/MasterList/internal/table"
)

type fields = coretest.Fields

var (
	csvRecord    = coretest.Record
	writeFixture = coretest.WriteFixture
	jobsHeader   = coretest.JobsHeader
)

func loadFixture(t *testing.T) Inputs {
	t.Helper()
	dir := t.TempDir()
	writeFixture(t, dir)
	in, err := LoadInputs(Files{Dir: dir})
	if err != nil {
		t.Fatalf("LoadInputs() error = %v", err)
	}
	return in
}

func reconcileFixture(t *testing.T) *table.Table {
	t.Helper()
	res, err := Reconcile(context.Background(), loadFixture(t))
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}
	return res.Table
}

// member returns the single output row for a short code.
func member(t *testing.T, out *table.Table, short string) table.Row {
	t.Helper()
	found := -1
	for i := 0; i < out.Len(); i++ {
		if out.Value(i, "short_code").String == short {
			if found >= 0 {
				t.Fatalf("member %s appears more than once", short)
			}
			found = i
		}
	}
	if found < 0 {
		t.Fatalf("member %s missing from output", short)
	}
	return out.Row(found)
}

func TestReconcile_EveryJobsMemberExactlyOnce(t *testing.T) {
	out := reconcileFixture(t)

	if out.Len() != 3 {
		t.Fatalf("rows = %d, want 3:\n%v", out.Len(), out.Records())
	}
	for _, short := range []string{"A1", "B2", "C3"} {
		member(t, out, short)
	}
}

func TestReconcile_RoleFlags(t *testing.T) {
	out := reconcileFixture(t)

	tests := []struct {
		short string
		want  []string
	}{
		{"A1", []string{"Y", "N", "N", "Y", "Y"}},
		{"B2", []string{"N", "N", "N", "N", "N"}},
		{"C3", []string{"N", "N", "N", "N", "N"}},
	}
	cols := []string{"c28_local_president", "c28_executive_board_member", "c28_policy_committee_delegate", "c28_steward", "people_active"}
	for _, tt := range tests {
		r := member(t, out, tt.short)
		var got []string
		for _, c := range cols {
			v := r.Get(c)
			if !v.Valid {
				t.Errorf("%s %s is null", tt.short, c)
			}
			got = append(got, v.String)
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("%s flags mismatch (-want +got):\n%s", tt.short, diff)
		}
	}
}

func TestReconcile_EmailPrivacy(t *testing.T) {
	out := reconcileFixture(t)
	a1 := member(t, out, "A1")

	for _, col := range []string{sources.HomeEmail, sources.WorkEmail, sources.ExternalEmail} {
		if v := a1.Get(col); v != table.Text("") {
			t.Errorf("A1 %s = %+v, want empty string", col, v)
		}
	}

	b2 := member(t, out, "B2")
	if v := b2.Get(sources.HomeEmail); v != table.Text("bo.home@x.org") {
		t.Errorf("B2 home email = %+v, want lower-cased address", v)
	}
	if v := b2.String(sources.CellPhone); v != "" {
		t.Errorf("B2 cell phone = %q, want suppressed", v)
	}
}

func TestReconcile_Normalization(t *testing.T) {
	out := reconcileFixture(t)
	a1 := member(t, out, "A1")

	checks := map[string]string{
		sources.FirstName:    "Ann",
		sources.LastName:     "Lee",
		sources.CellPhone:    "15551234567",
		sources.WorkAddress:  "100 Main ",
		sources.ContractCode: "C28",
		sources.AddressLine1: "1 Oak",
	}
	for col, want := range checks {
		if got := a1.String(col); got != want {
			t.Errorf("A1 %s = %q, want %q", col, got, want)
		}
	}

	b2 := member(t, out, "B2")
	if got := b2.String(sources.WorkAddress); got != "1 State Ste 2" {
		t.Errorf("B2 work address = %q", got)
	}
	if v := b2.Get(sources.AddressLine1); v != table.Text("") {
		t.Errorf("B2 address = %+v, want blanked", v)
	}
	if v := b2.Get(sources.ContractCode); v.Valid {
		t.Errorf("B2 contract = %+v, want null for unmapped unit", v)
	}
}

func TestReconcile_DropsHelperColumns(t *testing.T) {
	out := reconcileFixture(t)
	for _, col := range []string{sources.EmployeeNumber, sources.JobID, sources.WorkEmailKey} {
		if out.Has(col) {
			t.Errorf("output still has helper column %q", col)
		}
	}
}

func TestReconcile_Idempotent(t *testing.T) {
	in := loadFixture(t)

	render := func() []byte {
		res, err := Reconcile(context.Background(), in)
		if err != nil {
			t.Fatalf("Reconcile() error = %v", err)
		}
		var buf bytes.Buffer
		if err := csvio.Write(&buf, res.Table); err != nil {
			t.Fatal(err)
		}
		return buf.Bytes()
	}

	first, second := render(), render()
	if !bytes.Equal(first, second) {
		t.Errorf("outputs differ:\n%s\n---\n%s", first, second)
	}
}

func TestReconcile_HeaderMapMissingColumn(t *testing.T) {
	in := loadFixture(t)
	mapping, err := schema.NewMapping(schema.Pair{From: "Union Dues", To: "dues"})
	if err != nil {
		t.Fatal(err)
	}
	in.HeaderMap = mapping

	_, err = Reconcile(context.Background(), in)
	if !errors.Is(err, table.ErrSchemaMismatch) {
		t.Fatalf("err = %v, want schema mismatch", err)
	}
}

func TestLoadInputs_HeaderMap(t *testing.T) {
	in := loadFixture(t)
	if in.HeaderMap.Len() == 0 {
		t.Fatal("header map not loaded")
	}

	dir := t.TempDir()
	writeFixture(t, dir)
	hm, _ := sources.Get(sources.KeyHeaderMap)
	coretest.WriteCSV(t, filepath.Join(dir, hm.DefaultFile), []string{schema.FromColumn, schema.ToColumn},
		[]string{"Steward", "c28_steward"},
		[]string{"Steward", "steward"},
	)

	_, err := LoadInputs(Files{Dir: dir})
	if err == nil {
		t.Fatal("expected conflicting header map to fail")
	}
	if !strings.Contains(err.Error(), "load header_map") {
		t.Errorf("err = %v, want header_map context", err)
	}
	if got := MapError(err).Code; got != "SCH003" {
		t.Errorf("code = %s, want SCH003", got)
	}
}

func TestReconcile_Cancelled(t *testing.T) {
	in := loadFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Reconcile(ctx, in); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestJoin_NumericEmployeeNumber(t *testing.T) {
	jobsRaw, err := table.FromRecords("jobs", jobsHeader, [][]string{
		csvRecord(jobsHeader, fields{sources.ShortCode: "A1", sources.EmployeeNumber: "007"}),
	})
	if err != nil {
		t.Fatal(err)
	}
	jobs, err := sources.PrepareJobs(jobsRaw, sources.ContractCodes{})
	if err != nil {
		t.Fatal(err)
	}

	waRaw, err := table.FromRecords("work_addresses", sources.WorkAddressColumns, [][]string{
		csvRecord(sources.WorkAddressColumns, fields{
			sources.ShortCode: "A1", sources.EmployeeNumber: "7", sources.WorkAddressL1: "100 Main",
		}),
	})
	if err != nil {
		t.Fatal(err)
	}
	wa, err := sources.PrepareWorkAddresses(waRaw)
	if err != nil {
		t.Fatal(err)
	}

	empty := func(name string, cols ...string) *table.Table {
		tbl, err := table.New(name, cols, nil)
		if err != nil {
			t.Fatal(err)
		}
		return tbl
	}
	positions := empty("positions", append([]string{sources.ShortCode}, sources.RoleFlags...)...)
	contacts := empty("phones_emails", sources.PhonesEmailsKeep...)
	people := empty("people", sources.ShortCode, sources.PeopleActive)
	addresses := empty("addresses", sources.AddressesKeep...)

	got, err := Join(jobs, positions, wa, contacts, people, addresses)
	if err != nil {
		t.Fatalf("Join() error = %v", err)
	}
	if got.Len() != 1 {
		t.Fatalf("rows = %d, want 1", got.Len())
	}
	if v := got.Value(0, sources.WorkAddress); v != table.Text("100 Main ") {
		t.Errorf("work address = %+v, want %q", v, "100 Main ")
	}
}
