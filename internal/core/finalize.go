package core

import (
	"fmt"

	"github.com/JonMunkholm/MasterList/internal/core/sources"
	"github.com/JonMunkholm/MasterList/internal/normalize"
	"github.com/JonMunkholm/MasterList/internal/schema"
	"github.com/JonMunkholm/MasterList/internal/table"
)

// FlagColumns are the yes/no columns of the master record. A null flag
// means the member had no qualifying row in the source behind it.
var FlagColumns = append(append([]string(nil), sources.RoleFlags...), sources.PeopleActive)

// Finalize converts every flag column from present/absent to Y/N and then
// renames working columns to their publication names. It fails when the
// mapping names a column the table does not have.
func Finalize(t *table.Table, mapping schema.Mapping) (*table.Table, error) {
	t = ResolveFlags(t)

	out, err := mapping.Apply(t)
	if err != nil {
		return nil, fmt.Errorf("apply header map: %w", err)
	}
	return out.WithName("master_list"), nil
}

// ResolveFlags fills every null flag with "N". It is the only place where
// absence becomes an explicit no.
func ResolveFlags(t *table.Table) *table.Table {
	return normalize.Columns(t, normalize.Default(sources.No), FlagColumns...)
}
