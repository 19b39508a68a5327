// Package core provides the domain records shared by the ledgers and
// the reconciliation engine: users, transactions, periods, amounts and
// report shapes.
//
// This file contains amount parsing. Persisted amounts are two-decimal
// fixed strings ("50000.00"); arithmetic happens on decimal values so
// stored text round-trips without float drift.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount parses a user-supplied monetary magnitude. It accepts
// both dot (12.34) and comma (12,34) decimal separators and rejects
// blanks, signs and anything non-numeric. Zero is allowed; callers that
// need strictly positive input check the sign themselves.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// ParseStoredAmount parses an amount read back from the store. Stored
// data predating this module may carry signs or garbage; garbage reads
// as zero, mirroring how every read site of the original data treated
// unparseable amounts.
func ParseStoredAmount(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// FormatAmount renders an amount in its persisted form: fixed two
// decimals, half-up rounded.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
