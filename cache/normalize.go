package cache

import (
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Normalize canonicalizes one free-text input: NFKC compatibility
// folding, lower-casing, and whitespace collapse. Malformed or blank
// input normalizes to the empty string.
func Normalize(s string) string {
	folded := norm.NFKC.String(s)
	folded = strings.ToLower(folded)
	return strings.Join(strings.Fields(folded), " ")
}

// NormalizeSet normalizes each input, drops empty results, removes
// duplicates, and sorts lexicographically. Any permutation or
// duplication of the same logical inputs returns the identical slice.
func NormalizeSet(inputs []string) []string {
	seen := make(map[string]struct{}, len(inputs))
	out := make([]string, 0, len(inputs))

	for _, s := range inputs {
		n := Normalize(s)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}

	sort.Strings(out)
	return out
}
