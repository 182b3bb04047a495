package sources

import "github.com/JonMunkholm/MasterList/internal/table"

var addressesInputColumns = []string{
	ShortCode, FirstName, LastName, AddressLine1, City, StateAbbr, ZipCode, MailAllowed, BadAddress,
}

// AddressesKeep is the projection kept from the mailing address extract.
var AddressesKeep = []string{ShortCode, FirstName, LastName, AddressLine1, City, StateAbbr, ZipCode}

// addressFields are blanked when mail may not be sent to the address.
var addressFields = []string{AddressLine1, City, StateAbbr, ZipCode}

func init() {
	Register(Input{
		Key:         KeyAddresses,
		Label:       "Members and Addresses",
		DefaultFile: "members_and_addresses.csv",
		Columns:     addressesInputColumns,
	})
}

// PrepareAddresses blanks the address fields of members who opted out of
// mail or whose address is flagged bad, projects the mailing columns, and
// orders rows by short code.
func PrepareAddresses(raw *table.Table) (*table.Table, error) {
	if err := require(raw, addressesInputColumns); err != nil {
		return nil, err
	}

	withheld := func(r table.Row) bool {
		return answers(r.Get(MailAllowed), "no") || answers(r.Get(BadAddress), "yes")
	}

	t := raw
	for _, col := range addressFields {
		col := col
		t = t.WithColumn(col, func(r table.Row) table.Cell {
			return blank(withheld(r), r.Get(col))
		})
	}

	t, err := t.Select(AddressesKeep...)
	if err != nil {
		return nil, err
	}
	return t.SortBy(ShortCode)
}
