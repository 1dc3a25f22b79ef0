package validate

import "testing"

func TestRequired(t *testing.T) {
	cases := []struct {
		name  string
		value any
		valid bool
	}{
		{"present string", "tok_abc", true},
		{"blank string", "   ", false},
		{"nil", nil, false},
		{"empty list", []any{}, false},
		{"non-empty list", []any{1}, true},
		{"zero number", float64(0), true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := New()
			v.Field("token", tc.value).Required()
			if v.Valid() != tc.valid {
				t.Fatalf("expected valid=%v, errors %v", tc.valid, v.Errors())
			}
		})
	}
}

func TestNumber(t *testing.T) {
	v := New()
	v.Field("amount", float64(12.5)).Required().Number()
	v.Field("count", "42").Number()
	if !v.Valid() {
		t.Fatalf("expected valid, got %v", v.Errors())
	}

	v = New()
	v.Field("amount", "twelve").Required().Number()
	if v.Valid() {
		t.Fatal("expected failure for non-numeric string")
	}
	messages := v.Errors()["amount"]
	if len(messages) != 1 || messages[0] != "amount must be a number" {
		t.Fatalf("unexpected messages %v", messages)
	}
}

func TestChainAccumulatesMessages(t *testing.T) {
	v := New()
	v.Field("token", "").Required().MinLen(8)
	v.Field("amount", "abc").Number().Positive()
	if v.Valid() {
		t.Fatal("expected failures")
	}

	names := v.FieldNames()
	if len(names) != 2 || names[0] != "token" || names[1] != "amount" {
		t.Fatalf("unexpected field order %v", names)
	}
	if len(v.Errors()["token"]) != 2 {
		t.Fatalf("expected two token messages, got %v", v.Errors()["token"])
	}
}

func TestOptionalFieldSkipsWhenAbsent(t *testing.T) {
	v := New()
	v.Field("orderId", nil).String()
	if !v.Valid() {
		t.Fatalf("optional nil value must pass, got %v", v.Errors())
	}

	v = New()
	v.Field("orderId", float64(7)).String()
	if v.Valid() {
		t.Fatal("expected failure for non-string orderId")
	}
}

func TestPositive(t *testing.T) {
	v := New()
	v.Field("amount", float64(-3)).Number().Positive()
	if v.Valid() {
		t.Fatal("expected failure for negative amount")
	}

	v = New()
	v.Field("amount", float64(10)).Number().Positive()
	if !v.Valid() {
		t.Fatalf("expected valid, got %v", v.Errors())
	}
}

func TestEmail(t *testing.T) {
	v := New()
	v.Field("email", "guest@example.com").Email()
	if !v.Valid() {
		t.Fatalf("expected valid email, got %v", v.Errors())
	}

	v = New()
	v.Field("email", "not-an-email").Email()
	if v.Valid() {
		t.Fatal("expected failure for malformed email")
	}

	// Empty optional email passes.
	v = New()
	v.Field("email", "").Email()
	if !v.Valid() {
		t.Fatalf("expected empty email to pass, got %v", v.Errors())
	}
}
