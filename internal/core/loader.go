package core

import (
	"fmt"
	"path/filepath"

	"github.com/JonMunkholm/MasterList/internal/core/sources"
	"github.com/JonMunkholm/MasterList/internal/csvio"
	"github.com/JonMunkholm/MasterList/internal/schema"
	"github.com/JonMunkholm/MasterList/internal/table"
)

// Files locates the CSV behind each registered input.
type Files struct {
	// Dir is joined to every relative file name.
	Dir string

	// Names overrides the registered default file name per input key.
	Names map[string]string
}

// Path returns the file path for an input key.
func (f Files) Path(key string) string {
	name := f.Names[key]
	if name == "" {
		if in, ok := sources.Get(key); ok {
			name = in.DefaultFile
		}
	}
	if filepath.IsAbs(name) || f.Dir == "" {
		return name
	}
	return filepath.Join(f.Dir, name)
}

// LoadInputs reads every input from disk and checks its header against the
// registered columns before any preparation starts.
func LoadInputs(files Files) (Inputs, error) {
	var in Inputs

	targets := map[string]**table.Table{
		sources.KeyJobs:          &in.Jobs,
		sources.KeyPositions:     &in.Positions,
		sources.KeyWorkAddresses: &in.WorkAddresses,
		sources.KeyPhonesEmails:  &in.PhonesEmails,
		sources.KeyPeople:        &in.People,
		sources.KeyAddresses:     &in.Addresses,
		sources.KeyContractCodes: &in.ContractCodes,
	}

	for _, desc := range sources.All() {
		if desc.Key == sources.KeyHeaderMap {
			m, err := schema.LoadMapping(files.Path(desc.Key))
			if err != nil {
				return Inputs{}, fmt.Errorf("load %s: %w", desc.Key, err)
			}
			in.HeaderMap = m
			continue
		}

		t, err := LoadInput(desc, files.Path(desc.Key))
		if err != nil {
			return Inputs{}, err
		}
		if dst, ok := targets[desc.Key]; ok {
			*dst = t
		}
	}
	return in, nil
}

// LoadInput reads one input and validates its header. Strict inputs must
// match their registered layout position by position; others need every
// registered column present.
func LoadInput(desc sources.Input, path string) (*table.Table, error) {
	t, err := csvio.ReadFile(path, desc.Key)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", desc.Key, err)
	}

	if desc.Strict {
		err = schema.ValidateOrder(t, csvio.Disambiguate(desc.Columns))
	} else if missing := t.Missing(desc.Columns...); len(missing) > 0 {
		err = &table.MismatchError{Table: desc.Key, Missing: missing}
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", desc.Key, err)
	}
	return t, nil
}
