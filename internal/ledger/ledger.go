// Package ledger maintains the global transaction list: one stored
// slice shared by all users, most recent first, partitioned logically
// by owner email at query time.
package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Karpemurli/Pocket-Planner-Management-System/internal/core"
	"github.com/Karpemurli/Pocket-Planner-Management-System/internal/store"
)

const slotKey = "transactions"

type (
	// Query is a date window with an optional exact-match category
	// filter. To is a date-only boundary treated as end of day.
	Query struct {
		From     time.Time
		To       time.Time
		Category string
	}

	Ledger struct {
		kv store.KV
	}
)

func New(kv store.KV) *Ledger {
	return &Ledger{kv: kv}
}

func (l *Ledger) load(ctx context.Context) ([]core.Transaction, error) {
	var all []core.Transaction
	if _, err := store.GetJSON(ctx, l.kv, slotKey, &all); err != nil {
		return nil, err
	}
	return all, nil
}

func (l *Ledger) save(ctx context.Context, all []core.Transaction) error {
	return store.SetJSON(ctx, l.kv, slotKey, all)
}

// Append validates t, assigns it a fresh id and canonical owner, and
// inserts it at the head of the stored list. The stored record is
// returned. Salary bookkeeping for Salary-category incomes lives in
// the service layer, not here.
func (l *Ledger) Append(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, fmt.Errorf("append transaction: %w", err)
	}
	t.ID = uuid.NewString()
	t.OwnerEmail = core.CanonicalEmail(t.Owner())
	t.LegacyOwner = ""

	all, err := l.load(ctx)
	if err != nil {
		return core.Transaction{}, err
	}
	all = append([]core.Transaction{t}, all...)
	if err := l.save(ctx, all); err != nil {
		return core.Transaction{}, err
	}
	return t, nil
}

// Remove deletes the record matching both id and owner and returns it.
// An id belonging to another owner reports core.ErrNotFound; existence
// of other owners' records never leaks.
func (l *Ledger) Remove(ctx context.Context, id, ownerEmail string) (core.Transaction, error) {
	owner := core.CanonicalEmail(ownerEmail)
	if owner == "" {
		return core.Transaction{}, core.ErrEmptyOwner
	}

	all, err := l.load(ctx)
	if err != nil {
		return core.Transaction{}, err
	}
	for i, t := range all {
		if t.ID != id || core.CanonicalEmail(t.Owner()) != owner {
			continue
		}
		removed := t
		all = append(all[:i], all[i+1:]...)
		if err := l.save(ctx, all); err != nil {
			return core.Transaction{}, err
		}
		return removed, nil
	}
	return core.Transaction{}, fmt.Errorf("transaction %s: %w", id, core.ErrNotFound)
}

// List returns every transaction belonging to the owner, in stored
// order (most recent first).
func (l *Ledger) List(ctx context.Context, ownerEmail string) ([]core.Transaction, error) {
	owner := core.CanonicalEmail(ownerEmail)
	if owner == "" {
		return nil, core.ErrEmptyOwner
	}
	all, err := l.load(ctx)
	if err != nil {
		return nil, err
	}
	var out []core.Transaction
	for _, t := range all {
		if core.CanonicalEmail(t.Owner()) == owner {
			out = append(out, t)
		}
	}
	return out, nil
}

// Query returns the owner's transactions dated within [From, To]
// inclusive, optionally restricted to one category. Records whose
// dates fail to parse never match any range.
func (l *Ledger) Query(ctx context.Context, ownerEmail string, q Query) ([]core.Transaction, error) {
	owner := core.CanonicalEmail(ownerEmail)
	if owner == "" {
		return nil, core.ErrEmptyOwner
	}
	all, err := l.load(ctx)
	if err != nil {
		return nil, err
	}

	end := core.EndOfDay(q.To)
	var out []core.Transaction
	for _, t := range all {
		if core.CanonicalEmail(t.Owner()) != owner {
			continue
		}
		d, err := core.ParseDate(t.Date)
		if err != nil {
			continue
		}
		if d.Before(q.From) || d.After(end) {
			continue
		}
		if q.Category != "" && t.Category != q.Category {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

// Search returns the owner's transactions whose text fields, amount or
// date contain the query, case-insensitively.
func (l *Ledger) Search(ctx context.Context, ownerEmail, text string) ([]core.Transaction, error) {
	mine, err := l.List(ctx, ownerEmail)
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(strings.TrimSpace(text))
	if needle == "" {
		return mine, nil
	}
	var out []core.Transaction
	for _, t := range mine {
		if matches(t, needle) {
			out = append(out, t)
		}
	}
	return out, nil
}

func matches(t core.Transaction, needle string) bool {
	for _, field := range []string{
		t.Title, t.Category, t.Description, t.PaymentMethod, t.Amount.String(), t.Date,
	} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}
