// Package coretest writes input fixtures for pipeline tests.
package coretest

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/JonMunkholm/MasterList/internal/core/sources"
	"github.com/JonMunkholm/MasterList/internal/schema"
)

// Fields holds the cells of one record by column name.
type Fields map[string]string

// Record lays f out in cols order; absent columns are empty.
func Record(cols []string, f Fields) []string {
	rec := make([]string, len(cols))
	for i, c := range cols {
		rec[i] = f[c]
	}
	return rec
}

// WriteCSV writes header and rows to path.
func WriteCSV(t testing.TB, path string, header []string, rows ...[]string) {
	t.Helper()
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteAll(rows); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
}

// Raw headers of the non-strict extracts.
var (
	JobsHeader         = []string{"Local Code", sources.EmployeeNumber, sources.FirstName, sources.LastName, sources.ShortCode, sources.WorkEmail, "Member Type", "Type Date", "Agency Code", "Job Class Code", "MoD Card", "Agency Name", sources.BargainingUnitCode, "Building Code Name"}
	PositionsHeader    = []string{sources.ShortCode, sources.PositionName, sources.PositionActive}
	PhonesEmailsHeader = []string{sources.ShortCode, sources.HomeEmail, sources.WorkEmail, sources.ExternalEmail, sources.CellPhone, sources.JobID, sources.EmailAllowed, sources.PhoneAllowed}
	PeopleHeader       = []string{sources.ShortCode, sources.PeopleActive}
	AddressesHeader    = []string{sources.ShortCode, sources.FirstName, sources.LastName, sources.AddressLine1, sources.City, sources.StateAbbr, sources.ZipCode, sources.MailAllowed, sources.BadAddress}
)

// WriteFixture writes a small, complete set of inputs to dir:
//
//   - A1 holds two tracked positions, opted out of email, and has a work
//     address with an empty second line. Its jobs row appears twice.
//   - B2 has an inactive steward position, opted out of phone, has a
//     duplicated contact row, and a suppressed mailing address.
//   - C3 has no employee number and no work email, so it matches nothing
//     beyond the positions side, where it holds no tracked role.
func WriteFixture(t testing.TB, dir string) {
	t.Helper()
	path := func(key string) string {
		in, _ := sources.Get(key)
		return filepath.Join(dir, in.DefaultFile)
	}

	a1 := Record(JobsHeader, Fields{
		"Local Code": "28", sources.EmployeeNumber: "007", sources.FirstName: "ANN", sources.LastName: "lee",
		sources.ShortCode: "A1", sources.WorkEmail: "Ann@X.org", sources.BargainingUnitCode: "BU1",
	})
	WriteCSV(t, path(sources.KeyJobs), JobsHeader,
		a1,
		Record(JobsHeader, Fields{
			"Local Code": "28", sources.EmployeeNumber: "8", sources.FirstName: "bo", sources.LastName: "KIM",
			sources.ShortCode: "B2", sources.WorkEmail: "bo@x.org", sources.BargainingUnitCode: "BU2",
		}),
		Record(JobsHeader, Fields{
			"Local Code": "28", sources.FirstName: "cy", sources.LastName: "doe", sources.ShortCode: "C3",
		}),
		a1,
	)

	WriteCSV(t, path(sources.KeyPositions), PositionsHeader,
		[]string{"A1", sources.Steward, " yes "},
		[]string{"A1", sources.LocalPresident, "YES"},
		[]string{"B2", sources.Steward, "no"},
		[]string{"C3", "Treasurer", "yes"},
	)

	WriteCSV(t, path(sources.KeyWorkAddresses), sources.WorkAddressHeader,
		Record(sources.WorkAddressColumns, Fields{
			sources.ShortCode: "A1", sources.EmployeeNumber: "7", sources.AddressLine1: "home",
			sources.WorkAddressL1: "100 Main", sources.JobID: "J1",
		}),
		Record(sources.WorkAddressColumns, Fields{
			sources.ShortCode: "B2", sources.EmployeeNumber: "8",
			sources.WorkAddressL1: "1 State", sources.WorkAddressL2: "Ste 2", sources.JobID: "J2",
		}),
	)

	b2Contact := []string{"B2", "Bo.Home@x.org", "bo@x.org", "", "555.123.4567", "J2", "yes", "No"}
	WriteCSV(t, path(sources.KeyPhonesEmails), PhonesEmailsHeader,
		[]string{"A1", "H@X.org", "Ann@X.org", "ext@x.org", "(555) 123-4567 ext 12", "J1", " no", "yes"},
		[]string{"A1", "other@x.org", "Ann@X.org", "", "5550000000", "J9", "yes", "yes"},
		b2Contact,
		b2Contact,
	)

	WriteCSV(t, path(sources.KeyPeople), PeopleHeader,
		[]string{"A1", "Contributor"},
	)

	WriteCSV(t, path(sources.KeyAddresses), AddressesHeader,
		[]string{"A1", "ANN", "lee", "1 Oak", "Albany", "NY", "12201", "yes", "no"},
		[]string{"B2", "bo", "KIM", "2 Pine", "Troy", "NY", "12180", "No", "no"},
	)

	WriteCSV(t, path(sources.KeyContractCodes),
		[]string{sources.LookupBargainingUnit, sources.LookupContract},
		[]string{"BU1", "C28"},
	)

	WriteCSV(t, path(sources.KeyHeaderMap), []string{schema.FromColumn, schema.ToColumn},
		[]string{sources.ShortCode, "short_code"},
		[]string{sources.LocalPresident, "c28_local_president"},
		[]string{sources.ExecutiveBoardMember, "c28_executive_board_member"},
		[]string{sources.PolicyCommitteeDelegate, "c28_policy_committee_delegate"},
		[]string{sources.Steward, "c28_steward"},
		[]string{sources.PeopleActive, "people_active"},
	)
}
