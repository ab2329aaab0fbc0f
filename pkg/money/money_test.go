package money

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParse(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{raw: "30,00", want: "30"},
		{raw: "30.5", want: "30.5"},
		{raw: " R$ 12,75 ", want: "12.75"},
		{raw: "0", want: "0"},
	}
	for _, tt := range tests {
		got, err := Parse(tt.raw)
		if err != nil {
			t.Fatalf("Parse(%q) unexpected error: %v", tt.raw, err)
		}
		if !got.Equal(decimal.RequireFromString(tt.want)) {
			t.Fatalf("Parse(%q) = %s, want %s", tt.raw, got, tt.want)
		}
	}
}

func TestParseRejectsNonNumeric(t *testing.T) {
	for _, raw := range []string{"", "abc", "1.234,50", "12,5,0", "R$"} {
		if _, err := Parse(raw); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("Parse(%q) expected ErrInvalidAmount, got %v", raw, err)
		}
	}
}

func TestFormat(t *testing.T) {
	tests := map[string]string{
		"0":       "0,00",
		"4":       "4,00",
		"56":      "56,00",
		"1234.5":  "1.234,50",
		"-20":     "-20,00",
		"1000000": "1.000.000,00",
	}
	for in, want := range tests {
		if got := Format(decimal.RequireFromString(in)); got != want {
			t.Fatalf("Format(%s) = %q, want %q", in, got, want)
		}
	}
}

func TestHelpers(t *testing.T) {
	a := decimal.NewFromInt(30)
	b := decimal.NewFromInt(1000)
	if !Min(a, b).Equal(a) || !Min(b, a).Equal(a) {
		t.Fatal("Min returned the wrong operand")
	}
	if !NonNegative(decimal.NewFromInt(-5)).IsZero() {
		t.Fatal("NonNegative should clamp to zero")
	}
	if !Round(decimal.RequireFromString("33.333")).Equal(decimal.RequireFromString("33.33")) {
		t.Fatal("Round should keep two places")
	}
}
