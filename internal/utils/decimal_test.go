package utils

import (
	"math/big"
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

func TestNumericToDecimal(t *testing.T) {
	cases := []struct {
		name     string
		value    pgtype.Numeric
		expected string
	}{
		{
			name:     "two decimal places",
			value:    pgtype.Numeric{Int: big.NewInt(4995), Exp: -2, Valid: true},
			expected: "49.95",
		},
		{
			name:     "whole amount",
			value:    pgtype.Numeric{Int: big.NewInt(120), Exp: 0, Valid: true},
			expected: "120",
		},
		{
			name:     "null is zero",
			value:    pgtype.Numeric{},
			expected: "0",
		},
		{
			name:     "nan is zero",
			value:    pgtype.Numeric{NaN: true, Valid: true},
			expected: "0",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NumericToDecimal(tc.value)
			if expected := decimal.RequireFromString(tc.expected); !got.Equal(expected) {
				t.Fatalf("expected %s, got %s", expected, got)
			}
		})
	}
}

func TestDecimalNumericRoundTrip(t *testing.T) {
	for _, raw := range []string{"0", "49.95", "120", "0.10", "99999.99", "-12.50"} {
		t.Run(raw, func(t *testing.T) {
			original := decimal.RequireFromString(raw)
			back := NumericToDecimal(DecimalToNumeric(original))
			if !back.Equal(original) {
				t.Fatalf("round trip changed %s to %s", original, back)
			}
		})
	}
}

func TestIsValidDate(t *testing.T) {
	valid := []string{"2026-03-01", "1970-01-01"}
	invalid := []string{"", "2026-3-1", "01-03-2026", "2026-13-01", "not-a-date"}

	for _, value := range valid {
		if !IsValidDate(value) {
			t.Fatalf("expected %q to be valid", value)
		}
	}
	for _, value := range invalid {
		if IsValidDate(value) {
			t.Fatalf("expected %q to be invalid", value)
		}
	}
}

func TestCurrentDateInTimezone(t *testing.T) {
	date := CurrentDateInTimezone("Asia/Kolkata")
	if !IsValidDate(date) {
		t.Fatalf("expected a YYYY-MM-DD date, got %q", date)
	}

	// Unknown zones fall back to UTC instead of failing.
	fallback := CurrentDateInTimezone("Not/AZone")
	if !IsValidDate(fallback) {
		t.Fatalf("expected fallback date, got %q", fallback)
	}
}
