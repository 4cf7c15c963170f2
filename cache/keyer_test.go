package cache

import (
	"regexp"
	"testing"
)

var hexKey = regexp.MustCompile(`^[0-9a-f]{8}$`)

// TestFNVKeyer_Format tests the fixed-width hex output.
func TestFNVKeyer_Format(t *testing.T) {
	keyer := FNVKeyer{}

	tests := []struct {
		name   string
		scope  string
		inputs []string
	}{
		{"empty everything", "", nil},
		{"scope only", "checklist", nil},
		{"scope and inputs", "checklist", []string{"용접", "지게차 운반"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := keyer.Key(tt.scope, tt.inputs)
			if !hexKey.MatchString(key) {
				t.Errorf("Key(%q, %v) = %q, want 8 hex digits", tt.scope, tt.inputs, key)
			}
		})
	}
}

// TestFNVKeyer_Determinism verifies permutations, duplicates, and
// casing variants of the same logical request share one key.
func TestFNVKeyer_Determinism(t *testing.T) {
	keyer := FNVKeyer{}
	want := keyer.Key("checklist", []string{"A", "b", "a"})

	variants := [][]string{
		{"a", "A", "B"},
		{"b", "a"},
		{" B ", "a", "b", "A"},
	}
	for _, v := range variants {
		if got := keyer.Key("checklist", v); got != want {
			t.Errorf("Key(checklist, %v) = %q, want %q", v, got, want)
		}
	}
}

// TestFNVKeyer_Distinguishes verifies distinct requests get distinct keys.
func TestFNVKeyer_Distinguishes(t *testing.T) {
	keyer := FNVKeyer{}

	a := keyer.Key("checklist", []string{"welding"})
	b := keyer.Key("checklist", []string{"forklift"})
	if a == b {
		t.Errorf("different inputs produced the same key %q", a)
	}

	c := keyer.Key("chat", []string{"welding"})
	if a == c {
		t.Errorf("different scopes produced the same key %q", a)
	}

	// Separator ambiguity: ["ab"] vs ["a","b"] must differ.
	joined := keyer.Key("s", []string{"ab"})
	split := keyer.Key("s", []string{"a", "b"})
	if joined == split {
		t.Errorf("part boundaries are ambiguous: %q", joined)
	}
}
