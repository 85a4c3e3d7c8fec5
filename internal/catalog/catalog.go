// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SaaSLand Contributors

// Package catalog holds the read-only landing page content: features,
// pricing plans, and testimonials. Content rows are seeded, filtered by an
// active flag, and ordered by an explicit index; nothing in the request
// path mutates them.
package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/oklog/ulid/v2"
)

// ErrNotFound is returned when a requested catalog entity does not exist
// or is inactive.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when a seed insert collides with an existing
// row.
var ErrDuplicate = errors.New("already exists")

// Feature is one landing page feature card.
type Feature struct {
	ID          ulid.ULID
	Title       string
	Description string
	Icon        Icon
	IsActive    bool
	OrderIndex  int
	CreatedAt   time.Time
}

// PricingPlan is one purchasable plan. Price is stored in cents to avoid
// floating point money.
type PricingPlan struct {
	ID          ulid.ULID
	Name        string
	Description string
	PriceCents  int
	Period      string
	Features    []string
	IsPopular   bool
	IsActive    bool
	OrderIndex  int
	CreatedAt   time.Time
}

// Testimonial is one customer quote.
type Testimonial struct {
	ID         ulid.ULID
	Name       string
	Role       string
	Company    string
	Content    string
	AvatarURL  string
	Rating     int
	IsActive   bool
	OrderIndex int
	CreatedAt  time.Time
}

// Repository manages catalog persistence. List operations return only
// active rows, ordered by OrderIndex.
type Repository interface {
	// ListFeatures returns active features in display order.
	ListFeatures(ctx context.Context) ([]Feature, error)

	// ListPlans returns active pricing plans in display order.
	ListPlans(ctx context.Context) ([]PricingPlan, error)

	// GetPlan retrieves an active plan by ID. Returns an error wrapping
	// ErrNotFound when absent or inactive.
	GetPlan(ctx context.Context, id ulid.ULID) (*PricingPlan, error)

	// ListTestimonials returns active testimonials in display order.
	ListTestimonials(ctx context.Context) ([]Testimonial, error)

	// InsertFeature stores a seed feature. Returns an error wrapping
	// ErrDuplicate when the ID already exists.
	InsertFeature(ctx context.Context, f *Feature) error

	// InsertPlan stores a seed plan. Returns an error wrapping
	// ErrDuplicate when the ID already exists.
	InsertPlan(ctx context.Context, p *PricingPlan) error

	// InsertTestimonial stores a seed testimonial. Returns an error
	// wrapping ErrDuplicate when the ID already exists.
	InsertTestimonial(ctx context.Context, t *Testimonial) error
}
