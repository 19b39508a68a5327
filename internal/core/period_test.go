package core

import (
	"testing"
	"time"
)

func TestNormalizePeriod(t *testing.T) {
	cases := []struct {
		in  string
		out Period
		ok  bool
	}{
		{"2024-05", "2024-05", true},
		{"2024-12", "2024-12", true},
		{"2024-05-15", "2024-05", true},
		{"2024-13", "", false},
		{"2024-00", "", false},
		{"not a month", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := NormalizePeriod(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("NormalizePeriod(%q) = %q, %v; want %q", tc.in, got, err, tc.out)
			}
		} else if err == nil {
			t.Fatalf("NormalizePeriod(%q) expected error", tc.in)
		}
	}
}

func TestPeriodOf(t *testing.T) {
	if got := PeriodOf(2024, 5); got != "2024-05" {
		t.Fatalf("got %q", got)
	}
	if got := PeriodOf(2023, 12); got != "2023-12" {
		t.Fatalf("got %q", got)
	}
	if got := Period("2024-05").FirstDay(); got != "2024-05-01" {
		t.Fatalf("got %q", got)
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-05-31")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Year() != 2024 || d.Month() != time.May || d.Day() != 31 {
		t.Fatalf("got %v", d)
	}
	if _, err := ParseDate("31/05/2024"); err == nil {
		t.Fatalf("expected error")
	}
	if _, err := ParseDate(""); err == nil {
		t.Fatalf("expected error")
	}
}

func TestEndOfDayBoundary(t *testing.T) {
	to, _ := ParseDate("2024-05-31")
	onBoundary, _ := ParseDate("2024-05-31")
	after, _ := ParseDate("2024-06-01")

	end := EndOfDay(to)
	if onBoundary.After(end) {
		t.Fatalf("date equal to the range end must be inside the range")
	}
	if !after.After(end) {
		t.Fatalf("date one day past the range end must be outside the range")
	}
}

func TestMonthsIn(t *testing.T) {
	from, _ := ParseDate("2024-11-15")
	to, _ := ParseDate("2025-02-03")
	got := MonthsIn(from, to)
	want := []Period{"2024-11", "2024-12", "2025-01", "2025-02"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}

	// single-day range covers exactly its month
	single := MonthsIn(from, from)
	if len(single) != 1 || single[0] != "2024-11" {
		t.Fatalf("got %v", single)
	}

	// inverted range yields nothing
	if out := MonthsIn(to, from); out != nil {
		t.Fatalf("got %v", out)
	}
}
