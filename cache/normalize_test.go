package cache

import (
	"reflect"
	"testing"
)

// TestNormalize tests single-input canonicalization.
func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"trim", "  welding  ", "welding"},
		{"lowercase", "WELDING", "welding"},
		{"collapse inner whitespace", "forklift \t  transport", "forklift transport"},
		{"blank", "   \t\n ", ""},
		{"empty", "", ""},
		{"korean unchanged", "지게차 운반", "지게차 운반"},
		{"fullwidth folds to ascii", "ＡＢＣ", "abc"},
		{"compatibility ligature", "ﬁre", "fire"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// TestNormalizeSet tests de-duplication, empty dropping, and ordering.
func TestNormalizeSet(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"sorted dedupe", []string{"b", "a", "B", "A "}, []string{"a", "b"}},
		{"drops empties", []string{"", "  ", "x"}, []string{"x"}},
		{"nil input", nil, []string{}},
		{"korean tasks", []string{"지게차 운반", "용접", "용접"}, []string{"용접", "지게차 운반"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeSet(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeSet(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

// TestNormalizeSet_PermutationInvariant verifies the determinism
// requirement: any permutation or duplication of the same inputs
// returns the identical ordered slice.
func TestNormalizeSet_PermutationInvariant(t *testing.T) {
	base := []string{"A", "b", "a"}
	variants := [][]string{
		{"a", "A", "B"},
		{"b", "a"},
		{"B", "B", "A", "a", "b"},
	}

	want := NormalizeSet(base)
	for _, v := range variants {
		if got := NormalizeSet(v); !reflect.DeepEqual(got, want) {
			t.Errorf("NormalizeSet(%v) = %v, want %v", v, got, want)
		}
	}
}
