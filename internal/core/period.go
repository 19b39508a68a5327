package core

import (
	"fmt"
	"regexp"
	"time"
)

// Period identifies a calendar month as "YYYY-MM". It is the key under
// which salary records are stored.
type Period string

const dateLayout = "2006-01-02"

var isoPeriod = regexp.MustCompile(`^(\d{4})-(0[1-9]|1[0-2])$`)

// PeriodOf builds the period key for a year and 1-based month.
func PeriodOf(year, month int) Period {
	return Period(fmt.Sprintf("%04d-%02d", year, month))
}

// PeriodOfDate returns the period containing t.
func PeriodOfDate(t time.Time) Period {
	return PeriodOf(t.Year(), int(t.Month()))
}

// NormalizePeriod turns user input into a period key. Exact "YYYY-MM"
// input passes through; anything else must parse as a date, whose month
// is taken. Invalid input reports ErrInvalidPeriod.
func NormalizePeriod(input string) (Period, error) {
	if isoPeriod.MatchString(input) {
		return Period(input), nil
	}
	t, err := ParseDate(input)
	if err != nil {
		return "", ErrInvalidPeriod
	}
	return PeriodOfDate(t), nil
}

// Valid reports whether p has the canonical "YYYY-MM" shape.
func (p Period) Valid() bool {
	return isoPeriod.MatchString(string(p))
}

// Time returns midnight on the first day of the period's month.
func (p Period) Time() time.Time {
	t, _ := time.Parse("2006-01", string(p))
	return t
}

// FirstDay returns the period's first calendar day as a stored date
// string, the date synthetic salary entries carry.
func (p Period) FirstDay() string {
	return string(p) + "-01"
}

// ParseDate parses a stored calendar date. Dates are date-only strings;
// full timestamps are tolerated for data written by other tools.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// EndOfDay pushes a date-only boundary to the last instant of its day,
// so a range ending on "2024-05-31" includes that whole day.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// MonthsIn lists every period fully or partially overlapped by
// [from, to], in ascending order. An empty range yields nil.
func MonthsIn(from, to time.Time) []Period {
	if to.Before(from) {
		return nil
	}
	end := EndOfDay(to)
	var out []Period
	cur := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, from.Location())
	for !cur.After(end) {
		out = append(out, PeriodOfDate(cur))
		cur = cur.AddDate(0, 1, 0)
	}
	return out
}
