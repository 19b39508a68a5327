package sqlite

import (
	"context"
	"path/filepath"
	"testing"
)

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := New(filepath.Join(t.TempDir(), "planner.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer s.Close()

	if _, found, err := s.Get(ctx, "missing"); err != nil || found {
		t.Fatalf("got found=%v err=%v", found, err)
	}

	if err := s.Set(ctx, "users", `[]`); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Set(ctx, "users", `[{"email":"a@x.com"}]`); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	v, found, err := s.Get(ctx, "users")
	if err != nil || !found {
		t.Fatalf("get: found=%v err=%v", found, err)
	}
	if v != `[{"email":"a@x.com"}]` {
		t.Fatalf("got %q", v)
	}

	if err := s.Set(ctx, "currentUserEmail", "a@x.com"); err != nil {
		t.Fatalf("set: %v", err)
	}
	keys, err := s.Keys(ctx)
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	want := []string{"currentUserEmail", "users"}
	if len(keys) != len(want) || keys[0] != want[0] || keys[1] != want[1] {
		t.Fatalf("got %v, want %v", keys, want)
	}

	if err := s.Delete(ctx, "users"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, found, _ := s.Get(ctx, "users"); found {
		t.Fatalf("expected key gone")
	}
}

func TestReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "planner.db")

	s, err := New(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := s.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// Reopen runs migrations again; they must be idempotent.
	s2, err := New(path)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer s2.Close()
	v, found, err := s2.Get(ctx, "k")
	if err != nil || !found || v != "v" {
		t.Fatalf("got %q found=%v err=%v", v, found, err)
	}
}
