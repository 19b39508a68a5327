package core

import "github.com/shopspring/decimal"

// Entry is one reconciled ledger line: either a stored transaction
// normalized to the canonical enum, or a synthetic salary line derived
// from the salary ledger. Entries are computed per query and never
// persisted.
type Entry struct {
	ID            string
	Type          EntryType // kept canonical via NormalizeType
	Category      string
	Amount        decimal.Decimal // magnitude, never negative
	Date          string
	Title         string
	Description   string
	PaymentMethod string
	IsSalary      bool
}

// Breakdown splits an aggregation into its income and expense halves.
type Breakdown struct {
	Income  map[string]decimal.Decimal
	Expense map[string]decimal.Decimal
}

func NewBreakdown() Breakdown {
	return Breakdown{
		Income:  make(map[string]decimal.Decimal),
		Expense: make(map[string]decimal.Decimal),
	}
}

// Totals are the running sums across a report's entries. TotalIncome is
// always TotalSalary + TotalOtherIncome, and NetSavings is always
// TotalIncome - TotalExpenses. Count covers entries with a nonzero
// amount; zero-amount entries are listed but not counted.
type Totals struct {
	TotalIncome      decimal.Decimal
	TotalExpenses    decimal.Decimal
	TotalSalary      decimal.Decimal
	TotalOtherIncome decimal.Decimal
	NetSavings       decimal.Decimal
	Count            int
}

// Report is the reconciliation engine's output for one owner and time
// window: the merged entry sequence (date descending) plus aggregates.
type Report struct {
	Entries         []Entry
	Totals          Totals
	ByCategory      Breakdown
	ByPaymentMethod Breakdown
}

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount decimal.Decimal
}

// MonthOverview is the compact dashboard summary for a year and month.
// Month 0 means the whole year. Count counts expense transactions only.
type MonthOverview struct {
	Year          int
	Month         int // 1-12, 0 = all months
	Salary        decimal.Decimal
	TotalExpenses decimal.Decimal
	Balance       decimal.Decimal
	Count         int
	TopCategory   CategoryAmount
	ByCategory    []CategoryAmount // expenses, largest first
}
