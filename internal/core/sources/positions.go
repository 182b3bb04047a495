package sources

import (
	"sort"

	"github.com/JonMunkholm/MasterList/internal/table"
)

var positionsInputColumns = []string{ShortCode, PositionName, PositionActive}

func init() {
	Register(Input{
		Key:         KeyPositions,
		Label:       "Members and Positions",
		DefaultFile: "members_and_positions.csv",
		Columns:     positionsInputColumns,
	})
}

// PreparePositions keeps active positions held under one of the tracked role
// names and tags each row with the matching flag. Rows for any other
// position are dropped, so members without a tracked role are absent.
func PreparePositions(raw *table.Table) (*table.Table, error) {
	if err := require(raw, positionsInputColumns); err != nil {
		return nil, err
	}

	t := raw.Filter(func(r table.Row) bool {
		return answers(r.Get(PositionActive), "yes")
	})

	for _, flag := range RoleFlags {
		flag := flag
		t = t.WithColumn(flag, func(r table.Row) table.Cell {
			if name := r.Get(PositionName); name.Valid && name.String == flag {
				return table.Text(Yes)
			}
			return table.Null()
		})
	}

	t, err := t.Select(append([]string{ShortCode}, RoleFlags...)...)
	if err != nil {
		return nil, err
	}
	return t.Filter(anyFlag), nil
}

// AggregatePositions collapses position rows to one row per member, OR-ing
// each role flag across that member's rows. A set flag is "Y" and an unset
// flag is null; members with no flag set are dropped, as are rows without a
// short code. Output is ordered by short code.
func AggregatePositions(positions *table.Table) (*table.Table, error) {
	if err := require(positions, append([]string{ShortCode}, RoleFlags...)); err != nil {
		return nil, err
	}

	held := make(map[string][]bool)
	for i := 0; i < positions.Len(); i++ {
		r := positions.Row(i)
		short := r.Get(ShortCode)
		if !short.Valid {
			continue
		}
		flags, ok := held[short.String]
		if !ok {
			flags = make([]bool, len(RoleFlags))
			held[short.String] = flags
		}
		for j, flag := range RoleFlags {
			if answers(r.Get(flag), Yes) {
				flags[j] = true
			}
		}
	}

	members := make([]string, 0, len(held))
	for short := range held {
		members = append(members, short)
	}
	sort.Strings(members)

	cols := append([]string{ShortCode}, RoleFlags...)
	rows := make([][]table.Cell, 0, len(members))
	for _, short := range members {
		flags := held[short]
		row := make([]table.Cell, len(cols))
		row[0] = table.Text(short)
		set := false
		for j, on := range flags {
			if on {
				row[j+1] = table.Text(Yes)
				set = true
			}
		}
		if set {
			rows = append(rows, row)
		}
	}
	return table.New(positions.Name(), cols, rows)
}

func anyFlag(r table.Row) bool {
	for _, flag := range RoleFlags {
		if answers(r.Get(flag), Yes) {
			return true
		}
	}
	return false
}
