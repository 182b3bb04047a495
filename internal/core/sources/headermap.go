package sources

import "github.com/JonMunkholm/MasterList/internal/schema"

func init() {
	Register(Input{
		Key:         KeyHeaderMap,
		Label:       "Final Header Map",
		DefaultFile: "final_header_map.csv",
		Columns:     []string{schema.FromColumn, schema.ToColumn},
	})
}
