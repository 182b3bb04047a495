package sources

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/JonMunkholm/MasterList/internal/table"
)

func mustTable(t *testing.T, name string, cols []string, recs ...[]string) *table.Table {
	t.Helper()
	tbl, err := table.FromRecords(name, cols, recs)
	if err != nil {
		t.Fatalf("FromRecords(%s) error = %v", name, err)
	}
	return tbl
}

func TestRegistry_AllInputsRegistered(t *testing.T) {
	want := []string{
		KeyAddresses, KeyContractCodes, KeyHeaderMap, KeyJobs,
		KeyPeople, KeyPhonesEmails, KeyPositions, KeyWorkAddresses,
	}
	var got []string
	for _, in := range All() {
		got = append(got, in.Key)
		if in.DefaultFile == "" {
			t.Errorf("%s has no default file", in.Key)
		}
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}

	wa, ok := Get(KeyWorkAddresses)
	if !ok || !wa.Strict {
		t.Errorf("work addresses input = %+v, want strict", wa)
	}
}

func TestRegister_DuplicatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate key")
		}
	}()
	Register(Input{Key: KeyJobs})
}

func TestContractCodes(t *testing.T) {
	lookup := mustTable(t, "contracts", []string{LookupBargainingUnit, LookupContract},
		[]string{" 100 ", "C1"},
		[]string{"100", "C9"},
		[]string{"200", ""},
		[]string{"", "C3"},
	)
	cc, err := NewContractCodes(lookup)
	if err != nil {
		t.Fatalf("NewContractCodes() error = %v", err)
	}

	tests := []struct {
		unit table.Cell
		want table.Cell
	}{
		{table.Text("100"), table.Text("C1")},
		{table.Text(" 100"), table.Text("C1")},
		{table.Text("200"), table.Null()},
		{table.Text("300"), table.Null()},
		{table.Null(), table.Null()},
	}
	for _, tt := range tests {
		if got := cc.Lookup(tt.unit); got != tt.want {
			t.Errorf("Lookup(%+v) = %+v, want %+v", tt.unit, got, tt.want)
		}
	}
	if diff := cmp.Diff([]string{"100"}, cc.Duplicates); diff != "" {
		t.Errorf("duplicates mismatch (-want +got):\n%s", diff)
	}
	if cc.Len() != 2 {
		t.Errorf("Len() = %d, want 2", cc.Len())
	}
}

func jobsRaw(t *testing.T, recs ...[]string) *table.Table {
	t.Helper()
	cols := append(jobsInputColumns(), "Extra")
	return mustTable(t, "jobs", cols, recs...)
}

func TestPrepareJobs(t *testing.T) {
	contracts, err := NewContractCodes(mustTable(t, "contracts",
		[]string{LookupBargainingUnit, LookupContract},
		[]string{"BU1", "C28"},
	))
	if err != nil {
		t.Fatal(err)
	}

	// Local Code, Employee No., First, Last, Short #, Work Email, Member Type,
	// Type Date, Agency Code, Job Class Code, MoD Card, Agency Name, BU, Building, Extra
	raw := jobsRaw(t,
		[]string{"L1", "007", "ann", "lee", "A1", "a@x.org", "M", "", "AG", "JC", "", "Agency", "BU1", "Bldg", "x"},
		[]string{"L1", "n/a", "bo", "kim", "B2", "", "M", "", "AG", "JC", "", "Agency", "BU9", "Bldg", "y"},
	)

	got, err := PrepareJobs(raw, contracts)
	if err != nil {
		t.Fatalf("PrepareJobs() error = %v", err)
	}
	if diff := cmp.Diff(JobsColumns, got.Columns()); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}
	if v := got.Value(0, EmployeeNumber); v != table.Text("7") {
		t.Errorf("employee number = %+v, want 7", v)
	}
	if v := got.Value(1, EmployeeNumber); v.Valid {
		t.Errorf("non-numeric employee number = %+v, want null", v)
	}
	if v := got.Value(0, ContractCode); v != table.Text("C28") {
		t.Errorf("contract = %+v, want C28", v)
	}
	if v := got.Value(1, ContractCode); v.Valid {
		t.Errorf("unmapped contract = %+v, want null", v)
	}
}

func TestPrepareJobs_MissingColumn(t *testing.T) {
	raw := mustTable(t, "jobs", []string{ShortCode, EmployeeNumber})
	_, err := PrepareJobs(raw, ContractCodes{})
	if !errors.Is(err, table.ErrSchemaMismatch) {
		t.Fatalf("err = %v, want schema mismatch", err)
	}
}

func TestPreparePositionsAndAggregate(t *testing.T) {
	raw := mustTable(t, "positions", []string{ShortCode, PositionName, PositionActive},
		[]string{"A1", Steward, " YES "},
		[]string{"A1", LocalPresident, "yes"},
		[]string{"A1", Steward, "Yes"},
		[]string{"B2", Steward, "no"},
		[]string{"C3", "Treasurer", "yes"},
		[]string{"D4", PolicyCommitteeDelegate, "yes"},
		[]string{"", Steward, "yes"},
	)

	prepared, err := PreparePositions(raw)
	if err != nil {
		t.Fatalf("PreparePositions() error = %v", err)
	}
	if prepared.Len() != 5 {
		t.Errorf("prepared rows = %d, want 5", prepared.Len())
	}

	got, err := AggregatePositions(prepared)
	if err != nil {
		t.Fatalf("AggregatePositions() error = %v", err)
	}

	want := [][]string{
		{"A1", "Y", "", "", "Y"},
		{"D4", "", "", "Y", ""},
	}
	if diff := cmp.Diff(want, got.Records()); diff != "" {
		t.Errorf("aggregate mismatch (-want +got):\n%s", diff)
	}
	if v := got.Value(0, ExecutiveBoardMember); v.Valid {
		t.Errorf("unset flag = %+v, want null", v)
	}
}

func workAddressRecord(values map[string]string) []string {
	rec := make([]string, len(WorkAddressColumns))
	for i, col := range WorkAddressColumns {
		rec[i] = values[col]
	}
	return rec
}

func TestPrepareWorkAddresses(t *testing.T) {
	raw := mustTable(t, "work_addresses", WorkAddressColumns,
		workAddressRecord(map[string]string{
			ShortCode:      "A1",
			EmployeeNumber: "7",
			AddressLine1:   "home street",
			WorkAddressL1:  "100 Main",
			JobID:          "J1",
		}),
		workAddressRecord(map[string]string{
			ShortCode:      "B2",
			EmployeeNumber: "8.0",
			WorkAddressL1:  "1 State St",
			WorkAddressL2:  "Suite 4",
		}),
	)

	got, err := PrepareWorkAddresses(raw)
	if err != nil {
		t.Fatalf("PrepareWorkAddresses() error = %v", err)
	}
	if diff := cmp.Diff(WorkAddressKeep, got.Columns()); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}
	if v := got.Value(0, WorkAddress); v != table.Text("100 Main ") {
		t.Errorf("work address = %q, want %q", v.String, "100 Main ")
	}
	if v := got.Value(1, WorkAddress); v != table.Text("1 State St Suite 4") {
		t.Errorf("work address = %q", v.String)
	}
	if v := got.Value(1, EmployeeNumber); v != table.Text("8") {
		t.Errorf("employee number = %+v, want 8", v)
	}
}

func TestPrepareWorkAddresses_OrderDrift(t *testing.T) {
	cols := append([]string(nil), WorkAddressColumns...)
	cols[11], cols[12] = cols[12], cols[11]
	raw := mustTable(t, "work_addresses", cols)

	_, err := PrepareWorkAddresses(raw)
	if !errors.Is(err, table.ErrSchemaMismatch) {
		t.Fatalf("err = %v, want schema mismatch", err)
	}
}

func TestWorkAddressColumns_Disambiguated(t *testing.T) {
	if len(WorkAddressColumns) != 48 {
		t.Fatalf("len = %d, want 48", len(WorkAddressColumns))
	}
	for _, i := range []struct {
		pos  int
		name string
	}{
		{34, WorkAddressL1},
		{35, WorkAddressL2},
		{37, "City.1"},
	} {
		if WorkAddressColumns[i.pos] != i.name {
			t.Errorf("column %d = %q, want %q", i.pos, WorkAddressColumns[i.pos], i.name)
		}
	}
}

func TestPreparePhonesEmails_Privacy(t *testing.T) {
	raw := mustTable(t, "phones_emails", phonesEmailsInputColumns,
		[]string{"A1", "h@x.org", "w@x.org", "e@x.org", "555-123-4567", "J1", " No ", "yes"},
		[]string{"B2", "h2@x.org", "w2@x.org", "", "5551234567", "J2", "yes", "NO"},
	)

	got, err := PreparePhonesEmails(raw)
	if err != nil {
		t.Fatalf("PreparePhonesEmails() error = %v", err)
	}
	if diff := cmp.Diff(PhonesEmailsKeep, got.Columns()); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}

	for _, col := range []string{HomeEmail, WorkEmail, ExternalEmail} {
		if v := got.Value(0, col); v != table.Text("") {
			t.Errorf("suppressed %s = %+v, want empty string", col, v)
		}
	}
	if v := got.Value(0, WorkEmailKey); v != table.Text("w@x.org") {
		t.Errorf("join key = %+v, want original work email", v)
	}
	if v := got.Value(0, CellPhone); v != table.Text("555-123-4567") {
		t.Errorf("allowed cell phone = %+v", v)
	}

	if v := got.Value(1, CellPhone); v != table.Text("") {
		t.Errorf("suppressed cell phone = %+v, want empty string", v)
	}
	if v := got.Value(1, ExternalEmail); v.Valid {
		t.Errorf("absent external email = %+v, want null", v)
	}
}

func TestPreparePeople(t *testing.T) {
	raw := mustTable(t, "people", []string{ShortCode, PeopleActive, "Amount"},
		[]string{"A1", "Active Contributor", "5"},
		[]string{"B2", "", "10"},
	)
	got, err := PreparePeople(raw)
	if err != nil {
		t.Fatalf("PreparePeople() error = %v", err)
	}
	want := [][]string{{"A1", "Y"}, {"B2", "Y"}}
	if diff := cmp.Diff(want, got.Records()); diff != "" {
		t.Errorf("people mismatch (-want +got):\n%s", diff)
	}
}

func TestPrepareAddresses(t *testing.T) {
	raw := mustTable(t, "addresses", addressesInputColumns,
		[]string{"C3", "cy", "doe", "3 Elm", "Town", "NY", "10001", "yes", "no"},
		[]string{"A1", "ann", "lee", "1 Oak", "City", "NY", "10002", " NO ", "no"},
		[]string{"B2", "bo", "kim", "2 Pine", "Ville", "NY", "10003", "yes", "Yes"},
	)

	got, err := PrepareAddresses(raw)
	if err != nil {
		t.Fatalf("PrepareAddresses() error = %v", err)
	}
	want := [][]string{
		{"A1", "ann", "lee", "", "", "", ""},
		{"B2", "bo", "kim", "", "", "", ""},
		{"C3", "cy", "doe", "3 Elm", "Town", "NY", "10001"},
	}
	if diff := cmp.Diff(want, got.Records()); diff != "" {
		t.Errorf("addresses mismatch (-want +got):\n%s", diff)
	}
	if v := got.Value(0, StateAbbr); v != table.Text("") {
		t.Errorf("blanked state = %+v, want empty string", v)
	}
}
