package testutil

import (
	"testing"

	"github.com/rayansc80-source/cbminer/pkg/keyutil"
)

// MustWellFormed fails the test if any key is not a canonical hex key.
func MustWellFormed(t *testing.T, keys []string) {
	t.Helper()
	for i, key := range keys {
		if !keyutil.IsWellFormed(key) {
			t.Fatalf("keys[%d] = %q is not a well-formed key", i, key)
		}
	}
}
