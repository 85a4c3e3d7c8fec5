// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SaaSLand Contributors

// Package postgres implements newsletter persistence using PostgreSQL.
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"

	"github.com/saasland/saasland/internal/newsletter"
	"github.com/saasland/saasland/internal/store"
)

// SignupRepository implements newsletter.Repository using PostgreSQL.
type SignupRepository struct {
	pool store.Querier
}

// NewSignupRepository creates a new SignupRepository.
func NewSignupRepository(pool store.Querier) *SignupRepository {
	return &SignupRepository{pool: pool}
}

// Create stores a signup. A unique violation on the email column maps
// to newsletter.ErrAlreadySubscribed.
func (r *SignupRepository) Create(ctx context.Context, signup *newsletter.Signup) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO newsletter_signups (id, email, created_at)
		VALUES ($1, $2, $3)
	`,
		signup.ID.String(), signup.Email, signup.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return oops.Code("NEWSLETTER_ALREADY_SUBSCRIBED").
				With("email", signup.Email).
				Wrap(newsletter.ErrAlreadySubscribed)
		}
		return oops.Code("NEWSLETTER_CREATE_FAILED").
			With("email", signup.Email).
			Wrap(err)
	}
	return nil
}
