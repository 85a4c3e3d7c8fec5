// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SaaSLand Contributors

// Package postgres implements subscription persistence using PostgreSQL.
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/saasland/saasland/internal/billing"
	"github.com/saasland/saasland/internal/store"
)

// SubscriptionRepository implements billing.Repository using PostgreSQL.
type SubscriptionRepository struct {
	pool store.Querier
}

// NewSubscriptionRepository creates a new SubscriptionRepository.
func NewSubscriptionRepository(pool store.Querier) *SubscriptionRepository {
	return &SubscriptionRepository{pool: pool}
}

// Create stores a new subscription.
func (r *SubscriptionRepository) Create(ctx context.Context, sub *billing.Subscription) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO subscriptions (id, user_id, plan_id, status, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`,
		sub.ID.String(), sub.UserID, sub.PlanID.String(), string(sub.Status), sub.ExpiresAt, sub.CreatedAt,
	)
	if err != nil {
		return oops.Code("SUBSCRIPTION_CREATE_FAILED").
			With("user_id", sub.UserID).
			With("plan_id", sub.PlanID.String()).
			Wrap(err)
	}
	return nil
}

// GetActiveByUserID returns the user's most recent active subscription.
func (r *SubscriptionRepository) GetActiveByUserID(ctx context.Context, userID string) (*billing.Subscription, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, user_id, plan_id, status, expires_at, created_at
		FROM subscriptions
		WHERE user_id = $1 AND status = 'active' AND expires_at > now()
		ORDER BY created_at DESC
		LIMIT 1
	`, userID)

	var (
		sub       billing.Subscription
		idStr     string
		planIDStr string
		status    string
	)
	err := row.Scan(&idStr, &sub.UserID, &planIDStr, &status, &sub.ExpiresAt, &sub.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("SUBSCRIPTION_NOT_FOUND").
			With("user_id", userID).
			Wrap(billing.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("SUBSCRIPTION_GET_FAILED").
			With("user_id", userID).
			Wrap(err)
	}

	id, err := ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("SUBSCRIPTION_SCAN_FAILED").With("id", idStr).Wrap(err)
	}
	planID, err := ulid.Parse(planIDStr)
	if err != nil {
		return nil, oops.Code("SUBSCRIPTION_SCAN_FAILED").With("plan_id", planIDStr).Wrap(err)
	}
	sub.ID = id
	sub.PlanID = planID
	sub.Status = billing.SubscriptionStatus(status)
	return &sub, nil
}
