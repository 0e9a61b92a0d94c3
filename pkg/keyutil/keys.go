package keyutil

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
)

const (
	// HexDigits is the number of hex characters in a key after the 0x prefix.
	HexDigits = 64

	// KeyLength is the total length of a well-formed key string.
	KeyLength = 2 + HexDigits
)

// Placeholder returns the deterministic placeholder key for a 1-based index:
// the index rendered as a zero-padded 256-bit hex value. Syntactically valid,
// never the product of any search.
func Placeholder(index int) string {
	return fmt.Sprintf("0x%0*x", HexDigits, index)
}

// RandomFiller returns a random key used only to pad short submissions:
// 16 random bytes zero-extended to the full key width. The long zero prefix
// marks it as filler rather than a found key.
func RandomFiller() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		// crypto/rand does not fail on supported platforms; keep the key
		// well-formed regardless.
		return Placeholder(0)
	}
	return "0x" + strings.Repeat("0", HexDigits/2) + hex.EncodeToString(b[:])
}

// IsWellFormed reports whether s is "0x" followed by exactly HexDigits hex
// characters.
func IsWellFormed(s string) bool {
	if len(s) != KeyLength || !strings.HasPrefix(s, "0x") {
		return false
	}
	_, err := hex.DecodeString(s[2:])
	return err == nil
}
