package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Karpemurli/Pocket-Planner-Management-System/internal/cache"
	"github.com/Karpemurli/Pocket-Planner-Management-System/internal/core"
	"github.com/Karpemurli/Pocket-Planner-Management-System/internal/ledger"
	"github.com/Karpemurli/Pocket-Planner-Management-System/internal/report"
	"github.com/Karpemurli/Pocket-Planner-Management-System/internal/salary"
)

// ErrPartialSync reports that one ledger was written but the coupled
// write to the other ledger failed. There is no rollback; the caller
// learns which state the system is in from the wrapped message.
var ErrPartialSync = errors.New("ledgers partially synced")

// FinanceService orchestrates the salary ledger and the transaction
// ledger. The cross-ledger coupling for Salary-category income lives
// here, not inside either ledger: adding such a transaction first
// replaces the month's salary, and removing one resets it to zero.
type FinanceService struct {
	salaries     *salary.Ledger
	transactions *ledger.Ledger
	engine       *report.Engine

	reports   *cache.LRUCache[core.Report]
	overviews *cache.LRUCache[core.MonthOverview]
}

func NewFinanceService(salaries *salary.Ledger, transactions *ledger.Ledger, engine *report.Engine, cacheSize int, cacheTTL time.Duration) *FinanceService {
	return &FinanceService{
		salaries:     salaries,
		transactions: transactions,
		engine:       engine,
		reports:      cache.NewLRUCache[core.Report](cacheSize, cacheTTL),
		overviews:    cache.NewLRUCache[core.MonthOverview](cacheSize, cacheTTL),
	}
}

// AddTransaction validates and appends a transaction. For a
// Salary-category income the month's salary is replaced first; if the
// append then fails the salary write is not rolled back and the error
// wraps ErrPartialSync.
func (s *FinanceService) AddTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	synced := false
	if isSalaryIncome(t) {
		// Validate already checked the date parses
		period, err := core.NormalizePeriod(t.Date)
		if err != nil {
			return core.Transaction{}, err
		}
		month := period.Time()
		if err := s.salaries.Set(ctx, t.Owner(), month.Year(), int(month.Month()), t.Amount.Abs(), salary.Replace); err != nil {
			return core.Transaction{}, fmt.Errorf("sync salary for %s: %w", period, err)
		}
		synced = true
	}

	saved, err := s.transactions.Append(ctx, t)
	if err != nil {
		if synced {
			slog.ErrorContext(ctx, "salary updated but transaction append failed",
				"owner", core.CanonicalEmail(t.Owner()), "date", t.Date, "error", err)
			return core.Transaction{}, fmt.Errorf("%w: salary written, append failed: %v", ErrPartialSync, err)
		}
		return core.Transaction{}, err
	}

	s.invalidate()
	return saved, nil
}

// RemoveTransaction deletes the record when both id and owner match.
// If it was a Salary-category income, the month's salary is reset to
// zero afterwards; a failed reset wraps ErrPartialSync.
func (s *FinanceService) RemoveTransaction(ctx context.Context, id, ownerEmail string) (core.Transaction, error) {
	removed, err := s.transactions.Remove(ctx, id, ownerEmail)
	if err != nil {
		return core.Transaction{}, err
	}
	s.invalidate()

	if isSalaryIncome(removed) {
		period, err := core.NormalizePeriod(removed.Date)
		if err != nil {
			return removed, err
		}
		month := period.Time()
		if err := s.salaries.Set(ctx, removed.Owner(), month.Year(), int(month.Month()), decimal.Zero, salary.Replace); err != nil {
			slog.ErrorContext(ctx, "transaction removed but salary reset failed",
				"owner", core.CanonicalEmail(removed.Owner()), "period", period, "error", err)
			return removed, fmt.Errorf("%w: transaction removed, salary reset failed: %v", ErrPartialSync, err)
		}
	}
	return removed, nil
}

// EditTransaction is remove-and-recreate: it deletes the stored record
// and hands it back so the caller can repopulate a form and submit the
// edited version through AddTransaction. Salary zero-reset applies as
// in RemoveTransaction.
func (s *FinanceService) EditTransaction(ctx context.Context, id, ownerEmail string) (core.Transaction, error) {
	return s.RemoveTransaction(ctx, id, ownerEmail)
}

// SetSalary records a user-entered salary amount for a period given in
// either "YYYY-MM" or date form. User input must be strictly positive;
// add and subtract modes may still drive the stored balance negative.
func (s *FinanceService) SetSalary(ctx context.Context, ownerEmail, rawPeriod, rawAmount string, mode salary.Mode) error {
	amount, err := core.ParseAmount(rawAmount)
	if err != nil {
		return err
	}
	if !amount.IsPositive() {
		return fmt.Errorf("%w: salary must be positive, got %s", core.ErrInvalidAmount, rawAmount)
	}
	period, err := core.NormalizePeriod(rawPeriod)
	if err != nil {
		return fmt.Errorf("%w: %s", core.ErrInvalidPeriod, rawPeriod)
	}

	month := period.Time()
	if err := s.salaries.Set(ctx, ownerEmail, month.Year(), int(month.Month()), amount, mode); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

// DeleteSalary removes the period's entry, reporting core.ErrNotFound
// when absent.
func (s *FinanceService) DeleteSalary(ctx context.Context, ownerEmail, rawPeriod string) error {
	period, err := core.NormalizePeriod(rawPeriod)
	if err != nil {
		return fmt.Errorf("%w: %s", core.ErrInvalidPeriod, rawPeriod)
	}
	if err := s.salaries.Delete(ctx, ownerEmail, period); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

func (s *FinanceService) Salary(ctx context.Context, ownerEmail string, year, month int) (decimal.Decimal, error) {
	return s.salaries.Get(ctx, ownerEmail, year, month)
}

func (s *FinanceService) SalaryHistory(ctx context.Context, ownerEmail string) ([]salary.Record, error) {
	return s.salaries.History(ctx, ownerEmail)
}

func (s *FinanceService) ListTransactions(ctx context.Context, ownerEmail string) ([]core.Transaction, error) {
	return s.transactions.List(ctx, ownerEmail)
}

func (s *FinanceService) SearchTransactions(ctx context.Context, ownerEmail, text string) ([]core.Transaction, error) {
	return s.transactions.Search(ctx, ownerEmail, text)
}

// Report builds the reconciled view for the window, memoized until the
// next write through this service.
func (s *FinanceService) Report(ctx context.Context, ownerEmail string, from, to time.Time, category string) (core.Report, error) {
	key := reportKey(ownerEmail, from, to, category)
	if cached, ok := s.reports.Get(key); ok {
		return cached, nil
	}

	r, err := s.engine.BuildReport(ctx, ownerEmail, from, to, category)
	if err != nil {
		return core.Report{}, err
	}
	s.reports.Set(key, r)
	return r, nil
}

// MonthOverview returns the dashboard summary; month 0 covers the
// whole year.
func (s *FinanceService) MonthOverview(ctx context.Context, ownerEmail string, year, month int) (core.MonthOverview, error) {
	key := fmt.Sprintf("%s|%d|%d", core.CanonicalEmail(ownerEmail), year, month)
	if cached, ok := s.overviews.Get(key); ok {
		return cached, nil
	}

	o, err := s.engine.MonthOverview(ctx, ownerEmail, year, month)
	if err != nil {
		return core.MonthOverview{}, err
	}
	s.overviews.Set(key, o)
	return o, nil
}

func (s *FinanceService) YearSummary(ctx context.Context, ownerEmail string, year int) (core.Report, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	return s.Report(ctx, ownerEmail, from, to, "")
}

// invalidate drops memoized reports. Every mutation path calls it,
// including partial failures, since either ledger may have changed.
func (s *FinanceService) invalidate() {
	s.reports.Purge()
	s.overviews.Purge()
}

func isSalaryIncome(t core.Transaction) bool {
	return t.Category == core.SalaryCategory && core.NormalizeType(t.Type, t.Amount) == core.Income
}

func reportKey(ownerEmail string, from, to time.Time, category string) string {
	return fmt.Sprintf("%s|%s|%s|%s",
		core.CanonicalEmail(ownerEmail),
		from.Format("2006-01-02"),
		to.Format("2006-01-02"),
		category)
}
