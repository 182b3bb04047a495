package sources

import (
	"github.com/JonMunkholm/MasterList/internal/csvio"
	"github.com/JonMunkholm/MasterList/internal/normalize"
	"github.com/JonMunkholm/MasterList/internal/schema"
	"github.com/JonMunkholm/MasterList/internal/table"
)

// WorkAddressHeader is the exact header of the work address extract. The
// home and work address blocks share names, so columns are identified by
// position only.
var WorkAddressHeader = []string{
	"Local Code", "Short #", "Employee No.", "First Name", "Middle Name", "Last Name",
	"Member Active", "Member Status", "Status Date", "Birth Date", "Gender", "Address Line 1",
	"Address Line 2", "City", "State Abbr.", "Zip Code", "Home Phone", "Cell Phone",
	"Work Phone", "Home Email", "Work Email", "AFSCME ID", "Member Type", "Type Date",
	"Card Signature Date", "Agency Code", "Agency Name", "Work Site Work Site Code",
	"Work Site Name", "Building Code Code", "Building Code Name", "Job Class Code",
	"Job Class Name", "Address Type", "Address Line 1", "Address Line 2", "Address Line 3",
	"City", "County", "Job Work City Name", "Work County Name", "Seniority Date",
	"Policy Group Code", "Policy Group Name", "Bargaining Unit Code", "Bargaining Unit Name",
	"Field Office Name", "Job ID",
}

// WorkAddressColumns is WorkAddressHeader after positional disambiguation:
// the second "Address Line 1" is "Address Line 1.1" and so on.
var WorkAddressColumns = csvio.Disambiguate(WorkAddressHeader)

// WorkAddressKeep is the projection kept from the work address extract.
var WorkAddressKeep = []string{
	ShortCode,
	EmployeeNumber,
	"Birth Date",
	"Policy Group Code",
	WorkAddress,
	"Job Work City Name",
	"Work County Name",
	"Work Site Work Site Code",
	"Field Office Name",
	JobID,
}

func init() {
	Register(Input{
		Key:         KeyWorkAddresses,
		Label:       "Members and Work Addresses",
		DefaultFile: "members_and_work_addresses.csv",
		Columns:     WorkAddressHeader,
		Strict:      true,
	})
}

// PrepareWorkAddresses validates the positional layout, joins the two work
// address lines with a single space, and coerces the employee number.
//
// A missing line reads as "", so an address with no second line keeps a
// trailing space ("100 Main ").
func PrepareWorkAddresses(raw *table.Table) (*table.Table, error) {
	if err := schema.ValidateOrder(raw, WorkAddressColumns); err != nil {
		return nil, err
	}

	t := raw.WithColumn(WorkAddress, func(r table.Row) table.Cell {
		return table.Text(r.String(WorkAddressL1) + " " + r.String(WorkAddressL2))
	})
	t = t.MapColumn(EmployeeNumber, normalize.Integer)

	return t.Select(WorkAddressKeep...)
}
