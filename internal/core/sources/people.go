package sources

import "github.com/JonMunkholm/MasterList/internal/table"

var peopleColumns = []string{ShortCode, PeopleActive}

func init() {
	Register(Input{
		Key:         KeyPeople,
		Label:       "Members and PEOPLE",
		DefaultFile: "members_and_people.csv",
		Columns:     peopleColumns,
	})
}

// PreparePeople projects the PEOPLE participation flag. The extract only
// lists active participants, so every row's flag is set to "Y" rather than
// re-read from the free-text column.
func PreparePeople(raw *table.Table) (*table.Table, error) {
	t, err := raw.Select(peopleColumns...)
	if err != nil {
		return nil, err
	}
	return t.WithColumn(PeopleActive, func(table.Row) table.Cell {
		return table.Text(Yes)
	}), nil
}
