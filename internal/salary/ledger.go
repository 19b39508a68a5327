// Package salary maintains the per-user monthly salary ledger: a sparse
// (owner, period) -> amount mapping stored under one canonical slot,
// absorbing the two legacy single-key formats that preceded it.
package salary

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Karpemurli/Pocket-Planner-Management-System/internal/core"
	"github.com/Karpemurli/Pocket-Planner-Management-System/internal/store"
)

const (
	Replace  Mode = "replace"
	Add      Mode = "add"
	Subtract Mode = "subtract"
)

const (
	// slotKey holds the canonical two-level mapping
	// email -> period -> "amount.xx".
	slotKey = "salaries_by_user"

	// legacyPrefix starts both legacy formats: "salary_<email>_<period>"
	// per user, and "salary_<period>" with no owner.
	legacyPrefix = "salary_"
)

type (
	// Mode selects how Set combines the new amount with the stored one.
	Mode string

	// Record is one salary entry in an owner's history listing.
	Record struct {
		Period core.Period
		Amount decimal.Decimal
	}

	Ledger struct {
		kv store.KV
	}
)

func New(kv store.KV) *Ledger {
	return &Ledger{kv: kv}
}

func (l *Ledger) load(ctx context.Context) (map[string]map[string]string, error) {
	all := make(map[string]map[string]string)
	if _, err := store.GetJSON(ctx, l.kv, slotKey, &all); err != nil {
		return nil, err
	}
	if all == nil {
		all = make(map[string]map[string]string)
	}
	return all, nil
}

func (l *Ledger) save(ctx context.Context, all map[string]map[string]string) error {
	return store.SetJSON(ctx, l.kv, slotKey, all)
}

// Get returns the salary stored for the owner's month, or zero. The
// canonical mapping is checked first; on a miss the two legacy key
// formats are consulted and, on a hit, absorbed into the canonical
// mapping so later canonical reads are authoritative. The ownerless
// legacy key is deleted after absorption; the per-user one may remain
// but can never again override a canonical value.
func (l *Ledger) Get(ctx context.Context, ownerEmail string, year, month int) (decimal.Decimal, error) {
	owner := core.CanonicalEmail(ownerEmail)
	if owner == "" {
		return decimal.Zero, core.ErrEmptyOwner
	}
	period := core.PeriodOf(year, month)
	if !period.Valid() {
		return decimal.Zero, fmt.Errorf("%w: %s", core.ErrInvalidPeriod, period)
	}

	all, err := l.load(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	if raw, ok := all[owner][string(period)]; ok {
		return core.ParseStoredAmount(raw), nil
	}

	// legacy per-user key
	userKey := legacyPrefix + owner + "_" + string(period)
	if raw, found, err := l.kv.Get(ctx, userKey); err != nil {
		return decimal.Zero, fmt.Errorf("get %s: %w", userKey, err)
	} else if found {
		amount := core.ParseStoredAmount(raw)
		if amount.IsPositive() {
			if err := l.absorb(ctx, all, owner, period, amount); err != nil {
				return decimal.Zero, err
			}
			return amount, nil
		}
	}

	// legacy ownerless key
	globalKey := legacyPrefix + string(period)
	if raw, found, err := l.kv.Get(ctx, globalKey); err != nil {
		return decimal.Zero, fmt.Errorf("get %s: %w", globalKey, err)
	} else if found {
		amount := core.ParseStoredAmount(raw)
		if amount.IsPositive() {
			if err := l.absorb(ctx, all, owner, period, amount); err != nil {
				return decimal.Zero, err
			}
			if err := l.kv.Delete(ctx, globalKey); err != nil {
				return decimal.Zero, fmt.Errorf("delete %s: %w", globalKey, err)
			}
			return amount, nil
		}
	}

	return decimal.Zero, nil
}

func (l *Ledger) absorb(ctx context.Context, all map[string]map[string]string, owner string, period core.Period, amount decimal.Decimal) error {
	if all[owner] == nil {
		all[owner] = make(map[string]string)
	}
	all[owner][string(period)] = core.FormatAmount(amount)
	if err := l.save(ctx, all); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Absorbed legacy salary record",
		"owner", owner, "period", period, "amount", core.FormatAmount(amount))
	return nil
}

// Set writes the owner's salary for the month. Replace overwrites
// unconditionally; Add and Subtract combine with the stored value
// (default zero) and may leave a negative balance, which this layer
// does not clamp. The input amount itself must be non-negative.
func (l *Ledger) Set(ctx context.Context, ownerEmail string, year, month int, amount decimal.Decimal, mode Mode) error {
	owner := core.CanonicalEmail(ownerEmail)
	if owner == "" {
		return core.ErrEmptyOwner
	}
	period := core.PeriodOf(year, month)
	if !period.Valid() {
		return fmt.Errorf("%w: %s", core.ErrInvalidPeriod, period)
	}
	if amount.IsNegative() {
		return core.ErrInvalidAmount
	}

	all, err := l.load(ctx)
	if err != nil {
		return err
	}
	if all[owner] == nil {
		all[owner] = make(map[string]string)
	}

	next := amount
	switch mode {
	case Replace:
	case Add:
		next = core.ParseStoredAmount(all[owner][string(period)]).Add(amount)
	case Subtract:
		next = core.ParseStoredAmount(all[owner][string(period)]).Sub(amount)
	default:
		return fmt.Errorf("unknown salary set mode: %q", mode)
	}

	all[owner][string(period)] = core.FormatAmount(next)
	return l.save(ctx, all)
}

// Delete removes the owner's salary record for the period. Reports
// core.ErrNotFound when no record exists.
func (l *Ledger) Delete(ctx context.Context, ownerEmail string, period core.Period) error {
	owner := core.CanonicalEmail(ownerEmail)
	if owner == "" {
		return core.ErrEmptyOwner
	}
	all, err := l.load(ctx)
	if err != nil {
		return err
	}
	if _, ok := all[owner][string(period)]; !ok {
		return fmt.Errorf("salary for %s: %w", period, core.ErrNotFound)
	}
	delete(all[owner], string(period))
	return l.save(ctx, all)
}

// History lists the owner's salary records, most recent period first.
func (l *Ledger) History(ctx context.Context, ownerEmail string) ([]Record, error) {
	owner := core.CanonicalEmail(ownerEmail)
	if owner == "" {
		return nil, core.ErrEmptyOwner
	}
	all, err := l.load(ctx)
	if err != nil {
		return nil, err
	}
	records := make([]Record, 0, len(all[owner]))
	for period, raw := range all[owner] {
		records = append(records, Record{
			Period: core.Period(period),
			Amount: core.ParseStoredAmount(raw),
		})
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Period > records[j].Period
	})
	return records, nil
}

// MigrateLegacyKeys sweeps the store for per-user legacy keys
// ("salary_<email>_<period>") and absorbs each into the canonical
// mapping without overwriting values already there. Safe to run on
// every startup; a second run changes nothing.
func (l *Ledger) MigrateLegacyKeys(ctx context.Context) error {
	keys, err := l.kv.Keys(ctx)
	if err != nil {
		return fmt.Errorf("enumerate keys: %w", err)
	}

	all, err := l.load(ctx)
	if err != nil {
		return err
	}

	migrated := 0
	for _, key := range keys {
		if !strings.HasPrefix(key, legacyPrefix) {
			continue
		}
		parts := strings.Split(key, "_")
		if len(parts) < 3 {
			continue // ownerless form, absorbed lazily by Get
		}
		owner := core.CanonicalEmail(parts[1])
		if !strings.Contains(owner, "@") {
			continue
		}
		period := strings.Join(parts[2:], "_")
		if !core.Period(period).Valid() {
			continue
		}

		raw, found, err := l.kv.Get(ctx, key)
		if err != nil {
			return fmt.Errorf("get %s: %w", key, err)
		}
		if !found || raw == "" {
			continue
		}
		if all[owner] == nil {
			all[owner] = make(map[string]string)
		}
		if _, exists := all[owner][period]; exists {
			continue
		}
		all[owner][period] = core.FormatAmount(core.ParseStoredAmount(raw))
		migrated++
	}

	if err := l.save(ctx, all); err != nil {
		return err
	}
	if migrated > 0 {
		slog.InfoContext(ctx, "Migrated legacy salary keys", "count", migrated)
	}
	return nil
}
