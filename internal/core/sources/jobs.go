package sources

import (
	"github.com/JonMunkholm/MasterList/internal/normalize"
	"github.com/JonMunkholm/MasterList/internal/table"
)

// JobsColumns is the projection kept from the jobs extract.
var JobsColumns = []string{
	"Local Code",
	EmployeeNumber,
	FirstName,
	LastName,
	ShortCode,
	WorkEmail,
	"Member Type",
	"Type Date",
	"Agency Code",
	"Job Class Code",
	"MoD Card",
	"Agency Name",
	BargainingUnitCode,
	ContractCode,
	"Building Code Name",
}

// jobsInputColumns is JobsColumns minus the derived contract code.
func jobsInputColumns() []string {
	cols := make([]string, 0, len(JobsColumns)-1)
	for _, c := range JobsColumns {
		if c != ContractCode {
			cols = append(cols, c)
		}
	}
	return cols
}

func init() {
	Register(Input{
		Key:         KeyJobs,
		Label:       "Members and Jobs",
		DefaultFile: "members_and_jobs.csv",
		Columns:     jobsInputColumns(),
	})
}

// PrepareJobs builds the spine of the master list. Each row's bargaining
// unit code is mapped to a contract code (null when unmapped), the fixed
// projection is applied, and the employee number is coerced to a canonical
// integer (null when not numeric).
func PrepareJobs(raw *table.Table, contracts ContractCodes) (*table.Table, error) {
	if err := require(raw, jobsInputColumns()); err != nil {
		return nil, err
	}

	t := raw.WithColumn(ContractCode, func(r table.Row) table.Cell {
		return contracts.Lookup(r.Get(BargainingUnitCode))
	})

	t, err := t.Select(JobsColumns...)
	if err != nil {
		return nil, err
	}
	return t.MapColumn(EmployeeNumber, normalize.Integer), nil
}
