// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SaaSLand Contributors

package billing

import (
	"context"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/saasland/saasland/internal/catalog"
	"github.com/saasland/saasland/internal/profile"
)

// DefaultProcessingDelay is how long the simulated payment gateway
// takes to confirm a charge.
const DefaultProcessingDelay = 2 * time.Second

// PlanLookup resolves pricing plans for checkout.
type PlanLookup interface {
	GetPlan(ctx context.Context, id ulid.ULID) (*catalog.PricingPlan, error)
}

// Service runs the checkout flow. Payment collection is simulated: the
// service waits out a fixed processing delay in place of a real gateway
// round trip, then records the subscription.
type Service struct {
	subscriptions Repository
	profiles      profile.Repository
	plans         PlanLookup
	logger        *slog.Logger

	delay time.Duration
	now   func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithProcessingDelay overrides the simulated payment delay.
func WithProcessingDelay(d time.Duration) Option {
	return func(s *Service) { s.delay = d }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a checkout service.
func NewService(subscriptions Repository, profiles profile.Repository, plans PlanLookup, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		subscriptions: subscriptions,
		profiles:      profiles,
		plans:         plans,
		logger:        logger,
		delay:         DefaultProcessingDelay,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Checkout purchases the given plan for the user. On success the user
// holds an active subscription expiring after SubscriptionDuration and
// their profile points at the new plan.
func (s *Service) Checkout(ctx context.Context, userID string, planID ulid.ULID) (*Subscription, error) {
	if userID == "" {
		return nil, oops.Code("BILLING_INVALID_INPUT").Errorf("user ID is required")
	}

	plan, err := s.plans.GetPlan(ctx, planID)
	if err != nil {
		return nil, oops.Code("BILLING_PLAN_LOOKUP_FAILED").
			With("plan_id", planID.String()).
			Wrap(err)
	}

	if err := s.processPayment(ctx); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	sub := &Subscription{
		ID:        ulid.Make(),
		UserID:    userID,
		PlanID:    plan.ID,
		Status:    StatusActive,
		ExpiresAt: now.Add(SubscriptionDuration),
		CreatedAt: now,
	}
	if err := s.subscriptions.Create(ctx, sub); err != nil {
		return nil, oops.Code("BILLING_SUBSCRIBE_FAILED").
			With("user_id", userID).
			With("plan_id", plan.ID.String()).
			Wrap(err)
	}

	// The profile update is secondary to the subscription record. A
	// failure here leaves a valid subscription in place, so log and
	// carry on rather than failing the whole checkout.
	if err := s.profiles.UpdatePlan(ctx, userID, plan.ID); err != nil {
		s.logger.Warn("profile plan update failed after checkout",
			"user_id", userID,
			"plan_id", plan.ID.String(),
			"error", err)
	}

	s.logger.Info("checkout completed",
		"user_id", userID,
		"plan_id", plan.ID.String(),
		"plan_name", plan.Name,
		"expires_at", sub.ExpiresAt)
	return sub, nil
}

// ActiveSubscription returns the user's current active subscription.
func (s *Service) ActiveSubscription(ctx context.Context, userID string) (*Subscription, error) {
	return s.subscriptions.GetActiveByUserID(ctx, userID)
}

// processPayment stands in for a payment gateway call. It honors
// context cancellation so an abandoned checkout does not complete.
func (s *Service) processPayment(ctx context.Context) error {
	timer := time.NewTimer(s.delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return oops.Code("BILLING_PAYMENT_CANCELLED").Wrap(ctx.Err())
	}
}
