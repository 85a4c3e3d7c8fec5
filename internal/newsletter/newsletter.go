// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SaaSLand Contributors

// Package newsletter records mailing list signups.
package newsletter

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// ErrAlreadySubscribed is returned when the email is already on the list.
var ErrAlreadySubscribed = errors.New("email already subscribed")

// Signup is one mailing list entry.
type Signup struct {
	ID        ulid.ULID `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// NewSignup creates a signup for the given address. The address is
// lowercased and trimmed so the unique constraint catches case
// variants of the same mailbox.
func NewSignup(email string) (*Signup, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, oops.Code("NEWSLETTER_INVALID_EMAIL").Errorf("email is required")
	}
	if !strings.Contains(email, "@") {
		return nil, oops.Code("NEWSLETTER_INVALID_EMAIL").
			With("email", email).
			Errorf("email address is malformed")
	}
	return &Signup{
		ID:        ulid.Make(),
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Repository persists signups.
type Repository interface {
	// Create stores a signup. Returns an error wrapping
	// ErrAlreadySubscribed when the email is already present.
	Create(ctx context.Context, signup *Signup) error
}
