// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SaaSLand Contributors

// Package profile defines the application-owned record extending a provider
// user with product-specific attributes.
package profile

import (
	"context"
	"errors"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// ErrNotFound is returned when a requested profile does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert collides with an existing profile
// for the same user. Callers treat it as the canonical "already exists"
// signal for the check-then-insert bootstrap.
var ErrDuplicate = errors.New("already exists")

// Profile extends a provider user with SaaSLand attributes. The provider
// owns the user; this row is keyed by the provider's opaque user ID. At
// most one profile exists per user ID (unique constraint).
type Profile struct {
	ID        ulid.ULID
	UserID    string
	FullName  string
	PlanID    *ulid.ULID // nil until the payment flow assigns a plan
	CreatedAt time.Time
	UpdatedAt time.Time
}

// New creates a validated Profile instance. FullName may be empty; the
// bootstrap falls back to "" when the provider metadata has no name.
func New(userID, fullName string) (*Profile, error) {
	if userID == "" {
		return nil, oops.Code("PROFILE_INVALID_USER").Errorf("user ID cannot be empty")
	}

	now := time.Now()
	return &Profile{
		ID:        ulid.Make(),
		UserID:    userID,
		FullName:  fullName,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Repository manages profile persistence.
type Repository interface {
	// Create stores a new profile. Returns an error wrapping ErrDuplicate
	// when a profile already exists for the user ID.
	Create(ctx context.Context, p *Profile) error

	// GetByUserID retrieves a profile by provider user ID. Returns an error
	// wrapping ErrNotFound when absent.
	GetByUserID(ctx context.Context, userID string) (*Profile, error)

	// UpdatePlan assigns a plan to the user's profile.
	UpdatePlan(ctx context.Context, userID string, planID ulid.ULID) error
}
