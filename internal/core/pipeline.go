package core

import (
	"context"
	"fmt"

	"github.com/JonMunkholm/MasterList/internal/core/sources"
	"github.com/JonMunkholm/MasterList/internal/logging"
	"github.com/JonMunkholm/MasterList/internal/normalize"
	"github.com/JonMunkholm/MasterList/internal/schema"
	"github.com/JonMunkholm/MasterList/internal/table"
)

// Inputs holds the raw tables of one pipeline run.
type Inputs struct {
	Jobs          *table.Table
	Positions     *table.Table
	WorkAddresses *table.Table
	PhonesEmails  *table.Table
	People        *table.Table
	Addresses     *table.Table
	ContractCodes *table.Table
	HeaderMap     schema.Mapping
}

// Stage records the row count left after one pipeline step.
type Stage struct {
	Name string `json:"name"`
	Rows int    `json:"rows"`
}

// Result is the outcome of a successful pipeline run.
type Result struct {
	Table  *table.Table
	Stages []Stage

	// DuplicateUnits lists bargaining unit codes that appeared more than
	// once in the contract-code lookup.
	DuplicateUnits []string
}

// Name-cased and email-cased output columns.
var (
	nameColumns  = []string{sources.FirstName, sources.LastName}
	emailColumns = []string{sources.HomeEmail, sources.WorkEmail, sources.ExternalEmail}
)

// helperColumns exist only to join sources and are dropped once joining is done.
var helperColumns = []string{sources.EmployeeNumber, sources.JobID}

type prepared struct {
	jobs, positions, workAddresses, phonesEmails, people, addresses *table.Table
}

// Reconcile executes the reconciliation recipe over in and returns the final
// table. Any failure aborts the run; no partial result is returned.
func Reconcile(ctx context.Context, in Inputs) (*Result, error) {
	log := logging.FromContext(ctx)
	res := &Result{}
	record := func(name string, t *table.Table) {
		res.Stages = append(res.Stages, Stage{Name: name, Rows: t.Len()})
		log.Debug("pipeline stage", "stage", name, "rows", t.Len())
	}

	contracts, err := sources.NewContractCodes(in.ContractCodes)
	if err != nil {
		return nil, fmt.Errorf("load contract codes: %w", err)
	}
	res.DuplicateUnits = contracts.Duplicates
	if len(contracts.Duplicates) > 0 {
		log.Warn("duplicate bargaining units in contract codes, first entry kept",
			"units", contracts.Duplicates)
	}

	p, err := prepare(in, contracts, record)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	joined, err := Join(p.jobs, p.positions, p.workAddresses, p.phonesEmails, p.people, p.addresses)
	if err != nil {
		return nil, err
	}
	record("join", joined)

	normalized := Normalize(joined)
	record("normalize", normalized)

	deduped := normalized.Distinct()
	record("dedupe", deduped)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	final, err := Finalize(deduped, in.HeaderMap)
	if err != nil {
		return nil, err
	}
	record("finalize", final)

	res.Table = final
	return res, nil
}

func prepare(in Inputs, contracts sources.ContractCodes, record func(string, *table.Table)) (prepared, error) {
	var (
		p   prepared
		err error
	)

	steps := []struct {
		name string
		raw  *table.Table
		dst  **table.Table
		fn   func(*table.Table) (*table.Table, error)
	}{
		{sources.KeyJobs, in.Jobs, &p.jobs, func(t *table.Table) (*table.Table, error) {
			return sources.PrepareJobs(t, contracts)
		}},
		{sources.KeyPositions, in.Positions, &p.positions, func(t *table.Table) (*table.Table, error) {
			rows, err := sources.PreparePositions(t)
			if err != nil {
				return nil, err
			}
			return sources.AggregatePositions(rows)
		}},
		{sources.KeyWorkAddresses, in.WorkAddresses, &p.workAddresses, sources.PrepareWorkAddresses},
		{sources.KeyPhonesEmails, in.PhonesEmails, &p.phonesEmails, sources.PreparePhonesEmails},
		{sources.KeyPeople, in.People, &p.people, sources.PreparePeople},
		{sources.KeyAddresses, in.Addresses, &p.addresses, sources.PrepareAddresses},
	}

	for _, s := range steps {
		if s.raw == nil {
			return p, fmt.Errorf("prepare %s: no input table", s.name)
		}
		*s.dst, err = s.fn(s.raw)
		if err != nil {
			return p, fmt.Errorf("prepare %s: %w", s.name, err)
		}
		record("prepare "+s.name, *s.dst)
	}
	return p, nil
}

// Join left-joins every prepared source onto the jobs spine in a fixed
// order, then drops the helper-only key columns. Every jobs row survives.
//
// The phones/emails join matches on the work email as it was before privacy
// suppression; a matched row then carries its suppressed work email into the
// output in place of the jobs value.
func Join(jobs, positions, workAddresses, phonesEmails, people, addresses *table.Table) (*table.Table, error) {
	steps := []struct {
		name  string
		right *table.Table
		opts  table.JoinOptions
	}{
		{sources.KeyPositions, positions, table.JoinOptions{
			Keys: table.On(sources.ShortCode),
		}},
		{sources.KeyWorkAddresses, workAddresses, table.JoinOptions{
			Keys: table.On(sources.EmployeeNumber, sources.ShortCode),
		}},
		{sources.KeyPhonesEmails, phonesEmails, table.JoinOptions{
			Keys: []table.JoinKey{
				{Left: sources.ShortCode, Right: sources.ShortCode},
				{Left: sources.WorkEmail, Right: sources.WorkEmailKey},
				{Left: sources.JobID, Right: sources.JobID},
			},
			Override: []string{sources.WorkEmail},
		}},
		{sources.KeyPeople, people, table.JoinOptions{
			Keys: table.On(sources.ShortCode),
		}},
		{sources.KeyAddresses, addresses, table.JoinOptions{
			Keys: table.On(sources.ShortCode, sources.FirstName, sources.LastName),
		}},
	}

	master := jobs.WithName("master")
	for _, s := range steps {
		var err error
		master, err = master.LeftJoin(s.right, s.opts)
		if err != nil {
			return nil, fmt.Errorf("join %s: %w", s.name, err)
		}
	}

	master, err := master.Drop(helperColumns...)
	if err != nil {
		return nil, fmt.Errorf("drop join keys: %w", err)
	}
	return master, nil
}

// Normalize applies the output field formats: names are capitalized, emails
// lower-cased (both with null read as ""), and the cell phone normalized.
func Normalize(t *table.Table) *table.Table {
	t = normalize.Columns(t, normalize.Name, nameColumns...)
	t = normalize.Columns(t, normalize.Email, emailColumns...)
	return normalize.PhoneColumns(t, sources.CellPhone)
}
