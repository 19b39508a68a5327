// Package identity resolves the current user from session slots and
// owns the registered-users collection.
package identity

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Karpemurli/Pocket-Planner-Management-System/internal/core"
	"github.com/Karpemurli/Pocket-Planner-Management-System/internal/store"
)

const (
	keyUsers        = "users"
	keyCurrentUser  = "currentUser"
	keyCurrentEmail = "currentUserEmail"
)

type Resolver struct {
	kv store.KV
}

func New(kv store.KV) *Resolver {
	return &Resolver{kv: kv}
}

// Current resolves the signed-in user. The cached currentUser slot is
// trusted only when it agrees with the currentUserEmail pointer;
// otherwise the registered-users list is consulted and the cache is
// corrected. An email pointer with no registered user yields a
// synthesized minimal user. With no pointer at all, reports
// core.ErrNoCurrentUser.
func (r *Resolver) Current(ctx context.Context) (core.User, error) {
	var cached core.User
	if _, err := store.GetJSON(ctx, r.kv, keyCurrentUser, &cached); err != nil {
		return core.User{}, err
	}

	email, _, err := r.kv.Get(ctx, keyCurrentEmail)
	if err != nil {
		return core.User{}, fmt.Errorf("get %s: %w", keyCurrentEmail, err)
	}
	email = strings.TrimSpace(email)
	if email == "" {
		email = cached.Email
	}
	if email == "" {
		return core.User{}, core.ErrNoCurrentUser
	}

	if cached.Email != "" && core.CanonicalEmail(cached.Email) == core.CanonicalEmail(email) {
		return cached, nil
	}

	users, err := r.users(ctx)
	if err != nil {
		return core.User{}, err
	}
	for _, u := range users {
		if core.CanonicalEmail(u.Email) == core.CanonicalEmail(email) {
			if err := store.SetJSON(ctx, r.kv, keyCurrentUser, u); err != nil {
				return core.User{}, err
			}
			return u, nil
		}
	}

	// pointer exists but nobody registered under it: synthesize
	minimal := core.User{
		Email:    email,
		Username: core.LocalPart(email),
	}
	if err := store.SetJSON(ctx, r.kv, keyCurrentUser, minimal); err != nil {
		return core.User{}, err
	}
	slog.InfoContext(ctx, "Synthesized minimal user for session email", "email", core.CanonicalEmail(email))
	return minimal, nil
}

// Register adds a user to the registered-users collection and signs
// them in. A duplicate canonical email reports core.ErrDuplicateUser.
func (r *Resolver) Register(ctx context.Context, username, email string) (core.User, error) {
	u := core.User{
		Email:    core.CanonicalEmail(email),
		Username: strings.TrimSpace(username),
	}
	if err := u.Validate(); err != nil {
		return core.User{}, fmt.Errorf("register: %w", err)
	}
	if u.Username == "" {
		u.Username = core.LocalPart(u.Email)
	}

	users, err := r.users(ctx)
	if err != nil {
		return core.User{}, err
	}
	for _, existing := range users {
		if core.CanonicalEmail(existing.Email) == u.Email {
			return core.User{}, fmt.Errorf("register %s: %w", u.Email, core.ErrDuplicateUser)
		}
	}

	users = append(users, u)
	if err := store.SetJSON(ctx, r.kv, keyUsers, users); err != nil {
		return core.User{}, err
	}
	if err := r.signIn(ctx, u); err != nil {
		return core.User{}, err
	}
	return u, nil
}

// UpdateProfile rewrites the current user's registered entry with a new
// username and/or email, then re-points the session at it. Emails pass
// through canonicalization like every other write path.
func (r *Resolver) UpdateProfile(ctx context.Context, username, newEmail string) (core.User, error) {
	current, err := r.Current(ctx)
	if err != nil {
		return core.User{}, err
	}

	updated := core.User{
		Email:    core.CanonicalEmail(newEmail),
		Username: strings.TrimSpace(username),
	}
	if updated.Email == "" {
		updated.Email = core.CanonicalEmail(current.Email)
	}
	if updated.Username == "" {
		updated.Username = current.Username
	}
	if err := updated.Validate(); err != nil {
		return core.User{}, fmt.Errorf("update profile: %w", err)
	}

	users, err := r.users(ctx)
	if err != nil {
		return core.User{}, err
	}
	found := false
	for i, u := range users {
		if core.CanonicalEmail(u.Email) == core.CanonicalEmail(current.Email) {
			users[i] = updated
			found = true
			break
		}
	}
	if !found {
		// session synthesized from a bare pointer; register on the fly
		users = append(users, updated)
	}
	if err := store.SetJSON(ctx, r.kv, keyUsers, users); err != nil {
		return core.User{}, err
	}
	if err := r.signIn(ctx, updated); err != nil {
		return core.User{}, err
	}
	return updated, nil
}

// SignOut clears the session slots. Registered users and ledgers are
// untouched.
func (r *Resolver) SignOut(ctx context.Context) error {
	if err := r.kv.Delete(ctx, keyCurrentUser); err != nil {
		return fmt.Errorf("clear %s: %w", keyCurrentUser, err)
	}
	if err := r.kv.Delete(ctx, keyCurrentEmail); err != nil {
		return fmt.Errorf("clear %s: %w", keyCurrentEmail, err)
	}
	return nil
}

func (r *Resolver) users(ctx context.Context) ([]core.User, error) {
	var users []core.User
	if _, err := store.GetJSON(ctx, r.kv, keyUsers, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *Resolver) signIn(ctx context.Context, u core.User) error {
	if err := store.SetJSON(ctx, r.kv, keyCurrentUser, u); err != nil {
		return err
	}
	if err := r.kv.Set(ctx, keyCurrentEmail, u.Email); err != nil {
		return fmt.Errorf("set %s: %w", keyCurrentEmail, err)
	}
	return nil
}
