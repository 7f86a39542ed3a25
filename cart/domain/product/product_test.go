package product

import (
	"math"
	"testing"
)

func ptr[T any](v T) *T { return &v }

func TestUnitPrice(t *testing.T) {
	testCases := []struct {
		name     string
		price    *float64
		expected float64
		ok       bool
	}{
		{"missing", nil, 0, false},
		{"nan", ptr(math.NaN()), 0, false},
		{"inf", ptr(math.Inf(1)), 0, false},
		{"finite", ptr(19.5), 19.5, true},
		{"zero", ptr(0.0), 0, true},
	}
	for _, tc := range testCases {
		p := &Product{Price: tc.price}
		got, ok := p.UnitPrice()
		if ok != tc.ok || got != tc.expected {
			t.Fatalf("%s: expected (%v, %v), got (%v, %v)", tc.name, tc.expected, tc.ok, got, ok)
		}
	}
}

func TestCanSupply(t *testing.T) {
	unlimited := &Product{}
	if !unlimited.CanSupply(1_000_000) {
		t.Fatalf("expected unlimited stock to supply any quantity")
	}
	limited := &Product{AvailableStock: ptr(3)}
	if !limited.CanSupply(3) {
		t.Fatalf("expected stock of 3 to supply 3")
	}
	if limited.CanSupply(4) {
		t.Fatalf("expected stock of 3 not to supply 4")
	}
}
