// Package store defines the key-value capability every ledger persists
// through, plus the JSON slot helpers shared by its consumers.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

// KV is a synchronous string-keyed persistent mapping. Writes are
// atomic per key; there are no cross-key transactions. Ledgers receive
// a KV by reference and never reach for a hidden global.
type KV interface {
	// Get returns the value stored under key and whether it exists.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting an absent key is a no-op.
	Delete(ctx context.Context, key string) error

	// Keys enumerates every stored key.
	Keys(ctx context.Context) ([]string, error)
}

// GetJSON decodes the slot under key into v. A missing slot reports
// found=false. A slot that fails to decode is treated as absent and
// cleared, so one corrupt value cannot wedge every later read.
func GetJSON(ctx context.Context, kv KV, key string, v any) (bool, error) {
	raw, found, err := kv.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("get %s: %w", key, err)
	}
	if !found {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		slog.WarnContext(ctx, "Clearing malformed store slot", "key", key, "error", err)
		if derr := kv.Delete(ctx, key); derr != nil {
			return false, fmt.Errorf("clear malformed %s: %w", key, derr)
		}
		return false, nil
	}
	return true, nil
}

// SetJSON encodes v and stores it under key.
func SetJSON(ctx context.Context, kv KV, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := kv.Set(ctx, key, string(raw)); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}
