package product

import (
	"strings"
	"testing"
)

func TestIsValidId(t *testing.T) {
	if !IsValidId("507f1f77bcf86cd799439011") {
		t.Fatalf("expected valid id")
	}
	for _, id := range []string{"", "not-a-valid-id", "507f1f77bcf86cd79943901", "507f1f77bcf86cd79943901z"} {
		if IsValidId(id) {
			t.Fatalf("expected %q to be invalid", id)
		}
	}
}

func strPtr(s string) *string { return &s }

func TestValidateTitle(t *testing.T) {
	if got, ferr := ValidateTitle(strPtr("  Lamp  "), true); ferr != nil || got != "Lamp" {
		t.Fatalf("expected trimmed title, got %q (%v)", got, ferr)
	}
	if _, ferr := ValidateTitle(nil, true); ferr == nil || ferr.Message != "Title is required" {
		t.Fatalf("expected required error, got %v", ferr)
	}
	if _, ferr := ValidateTitle(nil, false); ferr != nil {
		t.Fatalf("expected nil title to be accepted on update, got %v", ferr)
	}
	if _, ferr := ValidateTitle(strPtr("No"), false); ferr == nil || ferr.Field != "title" {
		t.Fatalf("expected length error, got %v", ferr)
	}
	if _, ferr := ValidateTitle(strPtr(strings.Repeat("a", 201)), true); ferr == nil {
		t.Fatalf("expected length error for long title")
	}
}

func TestValidateDescription(t *testing.T) {
	if _, ferr := ValidateDescription(strPtr(strings.Repeat("a", 2001))); ferr == nil {
		t.Fatalf("expected description length error")
	}
	if got, ferr := ValidateDescription(strPtr(" ok ")); ferr != nil || got != "ok" {
		t.Fatalf("expected trimmed description, got %q (%v)", got, ferr)
	}
}

func TestManageableBy(t *testing.T) {
	p := &Product{Seller: "s1"}
	testCases := []struct {
		caller   string
		admin    bool
		expected bool
	}{
		{"", false, true},
		{"s1", false, true},
		{"s2", false, false},
		{"s2", true, true},
	}
	for _, tc := range testCases {
		if got := p.ManageableBy(tc.caller, tc.admin); got != tc.expected {
			t.Fatalf("ManageableBy(%q, %v): expected %v, got %v", tc.caller, tc.admin, tc.expected, got)
		}
	}
}
