package domain

import (
	"strings"
	"testing"
)

func TestValidatePlaceQuery(t *testing.T) {
	if _, err := ValidatePlaceQuery("  x "); !IsValidation(err) {
		t.Fatalf("expected validation error for one character, got %v", err)
	}
	if _, err := ValidatePlaceQuery(strings.Repeat("a", 201)); !IsValidation(err) {
		t.Fatalf("expected validation error over 200 characters, got %v", err)
	}

	q, err := ValidatePlaceQuery("  Eiffel Tower  ")
	if err != nil || q != "Eiffel Tower" {
		t.Fatalf("expected trimmed query, got %q / %v", q, err)
	}

	// Bounds are per character, not per byte: 150 three-byte runes pass.
	long := strings.Repeat("東", 150)
	if _, err := ValidatePlaceQuery(long); err != nil {
		t.Fatalf("multibyte query within bounds rejected: %v", err)
	}
	if _, err := ValidatePlaceQuery("東"); !IsValidation(err) {
		t.Fatalf("single multibyte rune must still be too short, got %v", err)
	}
}
