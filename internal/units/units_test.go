package units

import (
	"errors"
	"math"
	"testing"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want Unit
		ok   bool
	}{
		{"oz", Ounce, true},
		{"IMPERIAL_POUND", Pound, true},
		{" metric_gram ", Gram, true},
		{"EACH", Each, true},
		{"furlong", "", false},
	}

	for _, tc := range cases {
		got, ok := Normalize(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("Normalize(%q): expected (%q,%v), got (%q,%v)", tc.in, tc.want, tc.ok, got, ok)
		}
	}
}

func TestConvertWeight(t *testing.T) {
	got, err := Convert(1, Pound, Ounce)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(got-16) > 1e-9 {
		t.Fatalf("expected 16 oz per lb, got %v", got)
	}

	got, err = Convert(500, Gram, Kilogram)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 0.5 {
		t.Fatalf("expected 0.5 kg, got %v", got)
	}
}

func TestConvertVolume(t *testing.T) {
	got, err := Convert(2, Liter, Milliliter)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 2000 {
		t.Fatalf("expected 2000 ml, got %v", got)
	}
}

func TestConvertIncompatible(t *testing.T) {
	if _, err := Convert(1, Pound, Liter); !errors.Is(err, ErrIncompatibleUnits) {
		t.Fatalf("expected ErrIncompatibleUnits, got %v", err)
	}
	if _, err := Convert(1, Each, Gram); !errors.Is(err, ErrIncompatibleUnits) {
		t.Fatalf("expected ErrIncompatibleUnits for count unit, got %v", err)
	}
}

func TestFormatting(t *testing.T) {
	if got := FormatPrice(5); got != "$5.00" {
		t.Fatalf("unexpected price format %q", got)
	}
	if got := FormatPrice(4.999999); got != "$5.00" {
		t.Fatalf("expected rounding to cents, got %q", got)
	}
	if got := FormatQuantity(8, Ounce); got != "8 oz" {
		t.Fatalf("unexpected quantity format %q", got)
	}
	if got := FormatQuantity(1.5, Pound); got != "1.5 lb" {
		t.Fatalf("unexpected quantity format %q", got)
	}
	if got := FormatPerUnit(20, 8, Ounce); got != "$2.50/oz" {
		t.Fatalf("unexpected per-unit format %q", got)
	}
}

func TestPerUnitZeroQuantity(t *testing.T) {
	if got := PerUnit(10, 0); got != 0 {
		t.Fatalf("expected 0 for zero quantity, got %v", got)
	}
}
