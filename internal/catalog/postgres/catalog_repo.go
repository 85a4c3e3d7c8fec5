// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SaaSLand Contributors

// Package postgres implements catalog persistence using PostgreSQL.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/saasland/saasland/internal/catalog"
	"github.com/saasland/saasland/internal/store"
)

// CatalogRepository implements catalog.Repository using PostgreSQL.
type CatalogRepository struct {
	pool   store.Querier
	logger *slog.Logger
}

// NewCatalogRepository creates a new CatalogRepository.
func NewCatalogRepository(pool store.Querier, logger *slog.Logger) *CatalogRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogRepository{pool: pool, logger: logger}
}

// ListFeatures returns active features in display order.
func (r *CatalogRepository) ListFeatures(ctx context.Context) ([]catalog.Feature, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, title, description, icon, is_active, order_index, created_at
		FROM features
		WHERE is_active
		ORDER BY order_index
	`)
	if err != nil {
		return nil, oops.Code("CATALOG_LIST_FAILED").
			With("operation", "list features").
			Wrap(err)
	}
	defer rows.Close()

	var features []catalog.Feature
	for rows.Next() {
		var (
			f       catalog.Feature
			idStr   string
			iconStr string
		)
		if err := rows.Scan(&idStr, &f.Title, &f.Description, &iconStr, &f.IsActive, &f.OrderIndex, &f.CreatedAt); err != nil {
			return nil, oops.Code("CATALOG_SCAN_FAILED").With("operation", "scan feature").Wrap(err)
		}
		id, err := ulid.Parse(idStr)
		if err != nil {
			return nil, oops.Code("CATALOG_SCAN_FAILED").With("id", idStr).Wrap(err)
		}
		f.ID = id
		// Stored identifiers outside the enumeration degrade to the
		// default icon rather than failing the listing.
		f.Icon = catalog.ResolveIcon(iconStr, r.logger)
		features = append(features, f)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("CATALOG_LIST_FAILED").With("operation", "iterate features").Wrap(err)
	}
	return features, nil
}

// ListPlans returns active pricing plans in display order.
func (r *CatalogRepository) ListPlans(ctx context.Context) ([]catalog.PricingPlan, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, description, price_cents, period, features, is_popular, is_active, order_index, created_at
		FROM pricing_plans
		WHERE is_active
		ORDER BY order_index
	`)
	if err != nil {
		return nil, oops.Code("CATALOG_LIST_FAILED").
			With("operation", "list plans").
			Wrap(err)
	}
	defer rows.Close()

	var plans []catalog.PricingPlan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("CATALOG_LIST_FAILED").With("operation", "iterate plans").Wrap(err)
	}
	return plans, nil
}

// GetPlan retrieves an active plan by ID.
func (r *CatalogRepository) GetPlan(ctx context.Context, id ulid.ULID) (*catalog.PricingPlan, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, description, price_cents, period, features, is_popular, is_active, order_index, created_at
		FROM pricing_plans
		WHERE id = $1 AND is_active
	`, id.String())

	p, err := scanPlan(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("CATALOG_PLAN_NOT_FOUND").
			With("id", id.String()).
			Wrap(catalog.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("CATALOG_GET_FAILED").
			With("operation", "get plan").
			With("id", id.String()).
			Wrap(err)
	}
	return p, nil
}

// ListTestimonials returns active testimonials in display order.
func (r *CatalogRepository) ListTestimonials(ctx context.Context) ([]catalog.Testimonial, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, role, company, content, avatar_url, rating, is_active, order_index, created_at
		FROM testimonials
		WHERE is_active
		ORDER BY order_index
	`)
	if err != nil {
		return nil, oops.Code("CATALOG_LIST_FAILED").
			With("operation", "list testimonials").
			Wrap(err)
	}
	defer rows.Close()

	var testimonials []catalog.Testimonial
	for rows.Next() {
		var (
			t     catalog.Testimonial
			idStr string
		)
		if err := rows.Scan(&idStr, &t.Name, &t.Role, &t.Company, &t.Content, &t.AvatarURL, &t.Rating, &t.IsActive, &t.OrderIndex, &t.CreatedAt); err != nil {
			return nil, oops.Code("CATALOG_SCAN_FAILED").With("operation", "scan testimonial").Wrap(err)
		}
		id, err := ulid.Parse(idStr)
		if err != nil {
			return nil, oops.Code("CATALOG_SCAN_FAILED").With("id", idStr).Wrap(err)
		}
		t.ID = id
		testimonials = append(testimonials, t)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("CATALOG_LIST_FAILED").With("operation", "iterate testimonials").Wrap(err)
	}
	return testimonials, nil
}

// InsertFeature stores a seed feature.
func (r *CatalogRepository) InsertFeature(ctx context.Context, f *catalog.Feature) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO features (id, title, description, icon, is_active, order_index, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		f.ID.String(), f.Title, f.Description, string(f.Icon), f.IsActive, f.OrderIndex, f.CreatedAt,
	)
	return r.insertErr(err, "insert feature", f.ID.String())
}

// InsertPlan stores a seed plan.
func (r *CatalogRepository) InsertPlan(ctx context.Context, p *catalog.PricingPlan) error {
	featuresJSON, err := json.Marshal(p.Features)
	if err != nil {
		return oops.Code("CATALOG_INSERT_FAILED").
			With("operation", "marshal plan features").
			With("id", p.ID.String()).
			Wrap(err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO pricing_plans (id, name, description, price_cents, period, features, is_popular, is_active, order_index, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
		p.ID.String(), p.Name, p.Description, p.PriceCents, p.Period, featuresJSON, p.IsPopular, p.IsActive, p.OrderIndex, p.CreatedAt,
	)
	return r.insertErr(err, "insert plan", p.ID.String())
}

// InsertTestimonial stores a seed testimonial.
func (r *CatalogRepository) InsertTestimonial(ctx context.Context, t *catalog.Testimonial) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO testimonials (id, name, role, company, content, avatar_url, rating, is_active, order_index, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
		t.ID.String(), t.Name, t.Role, t.Company, t.Content, t.AvatarURL, t.Rating, t.IsActive, t.OrderIndex, t.CreatedAt,
	)
	return r.insertErr(err, "insert testimonial", t.ID.String())
}

// insertErr maps unique violations to catalog.ErrDuplicate.
func (r *CatalogRepository) insertErr(err error, operation, id string) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return oops.Code("CATALOG_ALREADY_EXISTS").
			With("id", id).
			Wrap(catalog.ErrDuplicate)
	}
	return oops.Code("CATALOG_INSERT_FAILED").
		With("operation", operation).
		With("id", id).
		Wrap(err)
}

// scanPlan scans a pricing plan row.
func scanPlan(row pgx.Row) (*catalog.PricingPlan, error) {
	var (
		p            catalog.PricingPlan
		idStr        string
		featuresJSON []byte
	)
	if err := row.Scan(&idStr, &p.Name, &p.Description, &p.PriceCents, &p.Period, &featuresJSON, &p.IsPopular, &p.IsActive, &p.OrderIndex, &p.CreatedAt); err != nil {
		return nil, err
	}

	id, err := ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("CATALOG_SCAN_FAILED").With("id", idStr).Wrap(err)
	}
	p.ID = id

	if len(featuresJSON) > 0 {
		if err := json.Unmarshal(featuresJSON, &p.Features); err != nil {
			return nil, oops.Code("CATALOG_SCAN_FAILED").
				With("operation", "unmarshal plan features").
				With("id", idStr).
				Wrap(err)
		}
	}
	return &p, nil
}
