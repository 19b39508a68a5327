// Package report implements the reconciliation engine: it merges the
// salary ledger and the transaction ledger into one time-ordered,
// categorized view per owner and window.
package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Karpemurli/Pocket-Planner-Management-System/internal/core"
	"github.com/Karpemurli/Pocket-Planner-Management-System/internal/ledger"
)

// Ports for the two ledgers. The engine never mutates either; the only
// side effect behind these reads is the salary ledger's idempotent
// legacy-key absorption.
type (
	SalarySource interface {
		Get(ctx context.Context, ownerEmail string, year, month int) (decimal.Decimal, error)
	}

	TransactionSource interface {
		Query(ctx context.Context, ownerEmail string, q ledger.Query) ([]core.Transaction, error)
	}
)

type Engine struct {
	salaries     SalarySource
	transactions TransactionSource
}

func New(salaries SalarySource, transactions TransactionSource) *Engine {
	return &Engine{salaries: salaries, transactions: transactions}
}

// BuildReport reconciles both ledgers for the owner over [from, to].
//
// Synthetic salary entries are emitted for every month the window
// touches whose stored salary is positive; the category filter applies
// to transactions only. Entries sort by date descending; when a salary
// entry and a transaction share a date, the salary entry sorts first.
func (e *Engine) BuildReport(ctx context.Context, ownerEmail string, from, to time.Time, category string) (core.Report, error) {
	owner := core.CanonicalEmail(ownerEmail)
	if owner == "" {
		return core.Report{}, core.ErrEmptyOwner
	}

	entries, err := e.salaryEntries(ctx, owner, from, to)
	if err != nil {
		return core.Report{}, err
	}

	txns, err := e.transactions.Query(ctx, owner, ledger.Query{From: from, To: to, Category: category})
	if err != nil {
		return core.Report{}, fmt.Errorf("query transactions: %w", err)
	}
	for _, t := range txns {
		entries = append(entries, normalize(t))
	}

	sortEntries(entries)
	return aggregate(entries), nil
}

func (e *Engine) salaryEntries(ctx context.Context, owner string, from, to time.Time) ([]core.Entry, error) {
	var entries []core.Entry
	for _, period := range core.MonthsIn(from, to) {
		month := period.Time()
		amount, err := e.salaries.Get(ctx, owner, month.Year(), int(month.Month()))
		if err != nil {
			return nil, fmt.Errorf("salary for %s: %w", period, err)
		}
		if !amount.IsPositive() {
			// zero or negative months emit nothing
			continue
		}
		entries = append(entries, core.Entry{
			ID:            "salary-" + string(period),
			Type:          core.Income,
			Category:      core.SalaryCategory,
			Amount:        amount,
			Date:          period.FirstDay(),
			Title:         fmt.Sprintf("Monthly Salary (%s)", period),
			Description:   fmt.Sprintf("Salary for %s", period),
			PaymentMethod: core.SalaryPaymentMethod,
			IsSalary:      true,
		})
	}
	return entries, nil
}

// normalize folds a stored transaction into a reconciled entry: the
// canonical type enum, an absolute-value magnitude, and defaulted
// display fields. Total by construction; no stored record is rejected.
func normalize(t core.Transaction) core.Entry {
	entry := core.Entry{
		ID:            t.ID,
		Type:          core.NormalizeType(t.Type, t.Amount),
		Category:      t.Category,
		Amount:        t.Amount.Abs(),
		Date:          t.Date,
		Title:         t.Title,
		Description:   t.Description,
		PaymentMethod: t.PaymentMethod,
		IsSalary:      false,
	}
	if entry.Description == "" {
		entry.Description = "No description provided"
	}
	if entry.PaymentMethod == "" {
		entry.PaymentMethod = "N/A"
	}
	return entry
}

// sortEntries orders by date descending. The input sequence carries
// salary entries first, and the sort is stable, which fixes the
// same-date rule: salary before transactions.
func sortEntries(entries []core.Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		di, erri := core.ParseDate(entries[i].Date)
		dj, errj := core.ParseDate(entries[j].Date)
		if erri != nil || errj != nil {
			// only transactions that passed range filtering get here,
			// so both dates parse; guard anyway
			return erri == nil
		}
		return di.After(dj)
	})
}

func aggregate(entries []core.Entry) core.Report {
	r := core.Report{
		Entries:         entries,
		ByCategory:      core.NewBreakdown(),
		ByPaymentMethod: core.NewBreakdown(),
	}

	for _, e := range entries {
		isIncome := e.Type == core.Income || e.IsSalary
		// zero-amount entries stay in the list but are not counted
		if !e.Amount.IsZero() {
			r.Totals.Count++
		}
		if isIncome {
			r.Totals.TotalIncome = r.Totals.TotalIncome.Add(e.Amount)
			if e.IsSalary {
				r.Totals.TotalSalary = r.Totals.TotalSalary.Add(e.Amount)
			} else {
				r.Totals.TotalOtherIncome = r.Totals.TotalOtherIncome.Add(e.Amount)
			}
		} else {
			r.Totals.TotalExpenses = r.Totals.TotalExpenses.Add(e.Amount)
		}

		category := e.Category
		if category == "" {
			category = "Uncategorized"
		}
		catMap := r.ByCategory.Expense
		if isIncome {
			catMap = r.ByCategory.Income
		}
		catMap[category] = catMap[category].Add(e.Amount)

		// payment methods are tallied for transactions only; synthetic
		// salary lines have no real payment trail
		if !e.IsSalary {
			method := e.PaymentMethod
			if method == "" || method == "N/A" {
				method = "Unknown"
			}
			payMap := r.ByPaymentMethod.Expense
			if isIncome {
				payMap = r.ByPaymentMethod.Income
			}
			payMap[method] = payMap[method].Add(e.Amount)
		}
	}

	r.Totals.NetSavings = r.Totals.TotalIncome.Sub(r.Totals.TotalExpenses)
	return r
}

// MonthOverview computes the dashboard summary for one month, or for
// the whole year when month is 0. Count and the category breakdown
// cover expenses only; income transactions do not appear here.
func (e *Engine) MonthOverview(ctx context.Context, ownerEmail string, year, month int) (core.MonthOverview, error) {
	owner := core.CanonicalEmail(ownerEmail)
	if owner == "" {
		return core.MonthOverview{}, core.ErrEmptyOwner
	}
	if month < 0 || month > 12 {
		return core.MonthOverview{}, fmt.Errorf("%w: month %d", core.ErrInvalidPeriod, month)
	}

	overview := core.MonthOverview{Year: year, Month: month}

	var (
		months   []int
		from, to time.Time
	)
	if month == 0 {
		months = []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
		from = time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		to = time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	} else {
		months = []int{month}
		from = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		to = from.AddDate(0, 1, -1)
	}
	for _, m := range months {
		amount, err := e.salaries.Get(ctx, owner, year, m)
		if err != nil {
			return core.MonthOverview{}, fmt.Errorf("salary for %s: %w", core.PeriodOf(year, m), err)
		}
		overview.Salary = overview.Salary.Add(amount)
	}

	txns, err := e.transactions.Query(ctx, owner, ledger.Query{From: from, To: to})
	if err != nil {
		return core.MonthOverview{}, fmt.Errorf("query transactions: %w", err)
	}

	byCat := make(map[string]decimal.Decimal)
	for _, t := range txns {
		if core.NormalizeType(t.Type, t.Amount) != core.Expense {
			continue
		}
		amount := t.Amount.Abs()
		overview.TotalExpenses = overview.TotalExpenses.Add(amount)
		overview.Count++
		category := t.Category
		if category == "" {
			category = "Uncategorized"
		}
		byCat[category] = byCat[category].Add(amount)
	}

	overview.Balance = overview.Salary.Sub(overview.TotalExpenses)
	overview.ByCategory = sortedCategories(byCat)
	overview.TopCategory = core.CategoryAmount{Name: "No expenses"}
	if len(overview.ByCategory) > 0 && overview.ByCategory[0].Amount.IsPositive() {
		overview.TopCategory = overview.ByCategory[0]
	}
	return overview, nil
}

// YearSummary is the whole-calendar-year report used by the profile
// statistics view.
func (e *Engine) YearSummary(ctx context.Context, ownerEmail string, year int) (core.Report, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	return e.BuildReport(ctx, ownerEmail, from, to, "")
}

func sortedCategories(byCat map[string]decimal.Decimal) []core.CategoryAmount {
	out := make([]core.CategoryAmount, 0, len(byCat))
	for name, amount := range byCat {
		out = append(out, core.CategoryAmount{Name: name, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Amount.Equal(out[j].Amount) {
			return out[i].Amount.GreaterThan(out[j].Amount)
		}
		return out[i].Name < out[j].Name
	})
	return out
}
