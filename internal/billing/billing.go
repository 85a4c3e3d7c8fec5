// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SaaSLand Contributors

// Package billing manages plan subscriptions and the checkout flow.
package billing

import (
	"context"
	"errors"
	"time"

	"github.com/oklog/ulid/v2"
)

// ErrNotFound is returned when no subscription matches the query.
var ErrNotFound = errors.New("subscription not found")

// SubscriptionDuration is how long a newly purchased subscription lasts.
const SubscriptionDuration = 30 * 24 * time.Hour

// SubscriptionStatus describes a subscription's lifecycle state.
type SubscriptionStatus string

// Subscription statuses.
const (
	StatusActive    SubscriptionStatus = "active"
	StatusExpired   SubscriptionStatus = "expired"
	StatusCancelled SubscriptionStatus = "cancelled"
)

// Subscription records a user's paid access to a pricing plan.
type Subscription struct {
	ID        ulid.ULID          `json:"id"`
	UserID    string             `json:"user_id"`
	PlanID    ulid.ULID          `json:"plan_id"`
	Status    SubscriptionStatus `json:"status"`
	ExpiresAt time.Time          `json:"expires_at"`
	CreatedAt time.Time          `json:"created_at"`
}

// Active reports whether the subscription grants access at time now.
func (s *Subscription) Active(now time.Time) bool {
	return s.Status == StatusActive && now.Before(s.ExpiresAt)
}

// Repository persists subscriptions.
type Repository interface {
	// Create stores a new subscription.
	Create(ctx context.Context, sub *Subscription) error

	// GetActiveByUserID returns the user's most recent active
	// subscription, or ErrNotFound.
	GetActiveByUserID(ctx context.Context, userID string) (*Subscription, error)
}
