// Package sources describes the member extracts that feed the master list
// and prepares each one for joining.
//
// Every extract is registered at init time with the columns its preparer
// reads. Preparers are pure: they take the raw table and return a narrowed,
// filtered table keyed for the join engine.
package sources

import (
	"fmt"
	"sort"
	"sync"
)

// Input keys.
const (
	KeyJobs          = "jobs"
	KeyPositions     = "positions"
	KeyWorkAddresses = "work_addresses"
	KeyPhonesEmails  = "phones_emails"
	KeyPeople        = "people"
	KeyAddresses     = "addresses"
	KeyContractCodes = "contract_codes"
	KeyHeaderMap     = "header_map"
)

// Input describes one CSV the pipeline reads.
type Input struct {
	Key         string   // Unique identifier: "jobs"
	Label       string   // Display name: "Members and Jobs"
	DefaultFile string   // File name used when none is configured
	Columns     []string // Header columns the preparer reads

	// Strict inputs must match Columns exactly, position by position.
	// Columns then holds the raw header, repeated names included.
	Strict bool
}

var (
	registry   = make(map[string]Input)
	registryMu sync.RWMutex
)

// Register adds an input description.
// Panics if an input with the same key is already registered.
func Register(in Input) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[in.Key]; exists {
		panic(fmt.Sprintf("input already registered: %s", in.Key))
	}
	registry[in.Key] = in
}

// Get returns an input by key.
func Get(key string) (Input, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	in, ok := registry[key]
	return in, ok
}

// All returns every registered input, sorted by key.
func All() []Input {
	registryMu.RLock()
	defer registryMu.RUnlock()

	out := make([]Input, 0, len(registry))
	for _, in := range registry {
		out = append(out, in)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Key < out[j].Key
	})
	return out
}
