package cache

import "fmt"

// FNV-1a 32-bit parameters.
const (
	fnvOffsetBasis uint32 = 0x811c9dc5
	fnvPrime       uint32 = 16777619
)

// partSeparator joins key parts before hashing. The unit separator
// cannot appear in normalized output, so joined parts are unambiguous.
const partSeparator = "\x1f"

// Keyer derives deterministic cache keys from a scope and its inputs.
//
// Contract:
// - Determinism: same scope and logically equal inputs must produce the
//   same key on every platform and run.
// - Concurrency: implementations must be safe for concurrent use.
type Keyer interface {
	// Key derives the cache key for (scope, inputs). Inputs are
	// normalized before hashing.
	Key(scope string, inputs []string) string
}

// FNVKeyer derives fixed-width keys with a 32-bit FNV-1a hash.
// Not cryptographic: collisions are accepted as a negligible cache
// risk at hundreds of distinct keys per user.
type FNVKeyer struct{}

// Key implements Keyer. The result is always 8 lowercase hex digits.
func (FNVKeyer) Key(scope string, inputs []string) string {
	h := fnvOffsetBasis

	hashString := func(s string) {
		for i := 0; i < len(s); i++ {
			h ^= uint32(s[i])
			h *= fnvPrime
		}
	}

	hashString(Normalize(scope))
	for _, part := range NormalizeSet(inputs) {
		hashString(partSeparator)
		hashString(part)
	}

	return fmt.Sprintf("%08x", h)
}

// Ensure FNVKeyer implements Keyer
var _ Keyer = FNVKeyer{}
