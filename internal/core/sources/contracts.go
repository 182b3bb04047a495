package sources

import (
	"strings"

	"github.com/JonMunkholm/MasterList/internal/table"
)

// Contract lookup columns.
const (
	LookupBargainingUnit = "c28_bargaining_unit"
	LookupContract       = "contract"
)

func init() {
	Register(Input{
		Key:         KeyContractCodes,
		Label:       "Contract Codes by Bargaining Unit",
		DefaultFile: "contract_codes_from_bu.csv",
		Columns:     []string{LookupBargainingUnit, LookupContract},
	})
}

// ContractCodes maps bargaining unit codes to contract codes.
type ContractCodes struct {
	codes map[string]string

	// Duplicates lists bargaining unit codes that appeared more than once.
	// The first occurrence wins.
	Duplicates []string
}

// NewContractCodes builds a lookup from the contract-code table.
func NewContractCodes(t *table.Table) (ContractCodes, error) {
	if err := require(t, []string{LookupBargainingUnit, LookupContract}); err != nil {
		return ContractCodes{}, err
	}

	cc := ContractCodes{codes: make(map[string]string, t.Len())}
	for i := 0; i < t.Len(); i++ {
		r := t.Row(i)
		unit := r.Get(LookupBargainingUnit)
		if !unit.Valid {
			continue
		}
		key := strings.TrimSpace(unit.String)
		if _, dup := cc.codes[key]; dup {
			cc.Duplicates = append(cc.Duplicates, key)
			continue
		}
		cc.codes[key] = r.String(LookupContract)
	}
	return cc, nil
}

// Lookup returns the contract code for a bargaining unit, or null when the
// unit is null, unknown, or mapped to a blank contract.
func (cc ContractCodes) Lookup(unit table.Cell) table.Cell {
	if !unit.Valid {
		return table.Null()
	}
	contract, ok := cc.codes[strings.TrimSpace(unit.String)]
	if !ok || contract == "" {
		return table.Null()
	}
	return table.Text(contract)
}

// Len returns the number of mapped units.
func (cc ContractCodes) Len() int { return len(cc.codes) }
