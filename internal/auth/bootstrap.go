// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SaaSLand Contributors

package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/samber/oops"

	"github.com/saasland/saasland/internal/profile"
	"github.com/saasland/saasland/internal/provider"
)

// Bootstrapper guarantees a profile exists for a newly signed-in user.
//
// The check-then-insert is not atomic: two concurrent sign-ins for the same
// user (two tabs) can both observe "no profile" and race on the insert. The
// losing insert fails with a unique violation, which the repository maps to
// profile.ErrDuplicate and this service swallows as already-exists.
type Bootstrapper struct {
	profiles profile.Repository
	logger   *slog.Logger
}

// NewBootstrapper creates a Bootstrapper.
func NewBootstrapper(profiles profile.Repository, logger *slog.Logger) (*Bootstrapper, error) {
	if profiles == nil {
		return nil, oops.Code("AUTH_INVALID_DEPENDENCY").Errorf("profile repository is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Bootstrapper{profiles: profiles, logger: logger}, nil
}

// EnsureProfile creates a profile for user if none exists, using the
// metadata display name (empty string when absent). An existing profile, or
// a duplicate insert losing a race, both leave exactly one row and return
// nil.
func (b *Bootstrapper) EnsureProfile(ctx context.Context, user *provider.User) error {
	if user == nil || user.ID == "" {
		return oops.Code("AUTH_BOOTSTRAP_INVALID_USER").Errorf("user is required")
	}

	_, err := b.profiles.GetByUserID(ctx, user.ID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, profile.ErrNotFound) {
		return oops.Code("AUTH_BOOTSTRAP_FAILED").
			With("operation", "get profile").
			With("user_id", user.ID).
			Wrap(err)
	}

	p, err := profile.New(user.ID, user.FullName())
	if err != nil {
		return oops.Code("AUTH_BOOTSTRAP_FAILED").
			With("operation", "new profile").
			With("user_id", user.ID).
			Wrap(err)
	}

	if err := b.profiles.Create(ctx, p); err != nil {
		if errors.Is(err, profile.ErrDuplicate) {
			// Lost the race to another sign-in; the row exists.
			b.logger.Debug("profile already created concurrently", "user_id", user.ID)
			return nil
		}
		return oops.Code("AUTH_BOOTSTRAP_FAILED").
			With("operation", "create profile").
			With("user_id", user.ID).
			Wrap(err)
	}

	b.logger.Info("profile created", "user_id", user.ID)
	return nil
}
