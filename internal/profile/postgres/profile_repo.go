// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SaaSLand Contributors

// Package postgres implements profile persistence using PostgreSQL.
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/saasland/saasland/internal/profile"
	"github.com/saasland/saasland/internal/store"
)

// ProfileRepository implements profile.Repository using PostgreSQL.
type ProfileRepository struct {
	pool store.Querier
}

// NewProfileRepository creates a new ProfileRepository.
func NewProfileRepository(pool store.Querier) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

// Create stores a new profile. A unique constraint violation on user_id is
// reported as profile.ErrDuplicate so the bootstrap can treat a concurrent
// insert as benign.
func (r *ProfileRepository) Create(ctx context.Context, p *profile.Profile) error {
	var planID *string
	if p.PlanID != nil {
		s := p.PlanID.String()
		planID = &s
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO profiles (id, user_id, full_name, plan_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`,
		p.ID.String(),
		p.UserID,
		p.FullName,
		planID,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return oops.Code("PROFILE_ALREADY_EXISTS").
				With("user_id", p.UserID).
				Wrap(profile.ErrDuplicate)
		}
		return oops.Code("PROFILE_CREATE_FAILED").
			With("operation", "insert profile").
			With("user_id", p.UserID).
			Wrap(err)
	}
	return nil
}

// GetByUserID retrieves a profile by provider user ID.
func (r *ProfileRepository) GetByUserID(ctx context.Context, userID string) (*profile.Profile, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, user_id, full_name, plan_id, created_at, updated_at
		FROM profiles
		WHERE user_id = $1
	`, userID)

	p, err := scanProfile(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("PROFILE_NOT_FOUND").
			With("user_id", userID).
			Wrap(profile.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("PROFILE_GET_FAILED").
			With("operation", "get profile by user id").
			With("user_id", userID).
			Wrap(err)
	}
	return p, nil
}

// UpdatePlan assigns a plan to the user's profile.
func (r *ProfileRepository) UpdatePlan(ctx context.Context, userID string, planID ulid.ULID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE profiles
		SET plan_id = $1, updated_at = NOW()
		WHERE user_id = $2
	`, planID.String(), userID)
	if err != nil {
		return oops.Code("PROFILE_UPDATE_PLAN_FAILED").
			With("operation", "update plan").
			With("user_id", userID).
			With("plan_id", planID.String()).
			Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return oops.Code("PROFILE_NOT_FOUND").
			With("user_id", userID).
			Wrap(profile.ErrNotFound)
	}
	return nil
}

// scanProfile scans a profile row.
func scanProfile(row pgx.Row) (*profile.Profile, error) {
	var (
		p         profile.Profile
		idStr     string
		planIDStr *string
	)
	if err := row.Scan(&idStr, &p.UserID, &p.FullName, &planIDStr, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}

	id, err := ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("PROFILE_SCAN_FAILED").With("id", idStr).Wrap(err)
	}
	p.ID = id

	if planIDStr != nil {
		planID, err := ulid.Parse(*planIDStr)
		if err != nil {
			return nil, oops.Code("PROFILE_SCAN_FAILED").With("plan_id", *planIDStr).Wrap(err)
		}
		p.PlanID = &planID
	}
	return &p, nil
}
