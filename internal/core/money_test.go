package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"1", "1", true},
		{"1.23", "1.23", true},
		{"1,23", "1.23", true},
		{" 2.50 ", "2.5", true},
		{"0", "0", true},
		{"0.00", "0", true},
		{"-1", "", false},
		{"+1", "", false},
		{"abc", "", false},
		{"1.2.3", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil {
				t.Fatalf("%q unexpected error: %v", tc.in, err)
			}
			if !got.Equal(decimal.RequireFromString(tc.out)) {
				t.Fatalf("%q expected %s, got %s", tc.in, tc.out, got)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestParseStoredAmount(t *testing.T) {
	cases := []struct {
		in, out string
	}{
		{"3000", "3000"},
		{"50000.00", "50000"},
		{"-200.5", "-200.5"},
		{" 12.34 ", "12.34"},
		{"garbage", "0"},
		{"", "0"},
	}
	for _, tc := range cases {
		if got := ParseStoredAmount(tc.in); !got.Equal(decimal.RequireFromString(tc.out)) {
			t.Fatalf("ParseStoredAmount(%q) = %s, want %s", tc.in, got, tc.out)
		}
	}
}

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		in, out string
	}{
		{"3000", "3000.00"},
		{"12.345", "12.35"},
		{"0", "0.00"},
		{"-5", "-5.00"},
	}
	for _, tc := range cases {
		if got := FormatAmount(decimal.RequireFromString(tc.in)); got != tc.out {
			t.Fatalf("FormatAmount(%s) = %q, want %q", tc.in, got, tc.out)
		}
	}
}
