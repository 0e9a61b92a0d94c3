// Package testutil provides shared fixtures for tests.
package testutil

import (
	"github.com/rayansc80-source/cbminer/internal/pool"
	"github.com/rayansc80-source/cbminer/pkg/keyutil"
)

// SampleAssignment returns a minimal assignment for testing.
func SampleAssignment() *pool.Assignment {
	return &pool.Assignment{
		ID:     "blk-421",
		Status: "assigned",
		Range:  SampleRange(),
		CheckworkAddresses: []string{
			"1BY8GQbnueYofwSuFAT3USAhGjPrkxDdW9",
			"1MVDYgVaSN6iKKEsbzRUAYFrYJadLYZvvZ",
		},
	}
}

// SampleRange returns a small key-space interval for testing.
func SampleRange() *pool.Range {
	return &pool.Range{
		Start: "0x20000000000000000",
		End:   "0x3ffffffffffffffff",
	}
}

// SampleKeys returns n distinct well-formed key strings.
func SampleKeys(n int) []string {
	keys := make([]string, n)
	for i := range keys {
		keys[i] = keyutil.Placeholder(1000 + i)
	}
	return keys
}
