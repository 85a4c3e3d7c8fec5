// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SaaSLand Contributors

package catalog

import (
	"context"
	_ "embed"
	"errors"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

//go:embed seeds/catalog.yaml
var defaultSeedYAML []byte

// Manifest is the catalog seed file format. IDs are fixed ULIDs so seeding
// is idempotent: a re-run collides on the primary key and skips the row.
type Manifest struct {
	Features     []SeedFeature     `yaml:"features" json:"features"`
	PricingPlans []SeedPricingPlan `yaml:"pricing_plans" json:"pricing_plans"`
	Testimonials []SeedTestimonial `yaml:"testimonials" json:"testimonials"`
}

// SeedFeature is one feature entry in a seed manifest.
type SeedFeature struct {
	ID          string `yaml:"id" json:"id" jsonschema:"required,minLength=26,maxLength=26"`
	Title       string `yaml:"title" json:"title" jsonschema:"required"`
	Description string `yaml:"description" json:"description"`
	Icon        string `yaml:"icon" json:"icon"`
	OrderIndex  int    `yaml:"order_index" json:"order_index"`
}

// SeedPricingPlan is one pricing plan entry in a seed manifest.
type SeedPricingPlan struct {
	ID          string   `yaml:"id" json:"id" jsonschema:"required,minLength=26,maxLength=26"`
	Name        string   `yaml:"name" json:"name" jsonschema:"required"`
	Description string   `yaml:"description" json:"description"`
	PriceCents  int      `yaml:"price_cents" json:"price_cents" jsonschema:"required,minimum=0"`
	Period      string   `yaml:"period" json:"period"`
	Features    []string `yaml:"features" json:"features"`
	IsPopular   bool     `yaml:"is_popular" json:"is_popular"`
	OrderIndex  int      `yaml:"order_index" json:"order_index"`
}

// SeedTestimonial is one testimonial entry in a seed manifest.
type SeedTestimonial struct {
	ID         string `yaml:"id" json:"id" jsonschema:"required,minLength=26,maxLength=26"`
	Name       string `yaml:"name" json:"name" jsonschema:"required"`
	Role       string `yaml:"role" json:"role"`
	Company    string `yaml:"company" json:"company"`
	Content    string `yaml:"content" json:"content" jsonschema:"required"`
	AvatarURL  string `yaml:"avatar_url" json:"avatar_url"`
	Rating     int    `yaml:"rating" json:"rating" jsonschema:"minimum=1,maximum=5"`
	OrderIndex int    `yaml:"order_index" json:"order_index"`
}

// DefaultSeedYAML returns the embedded seed manifest bytes.
func DefaultSeedYAML() []byte {
	return defaultSeedYAML
}

// LoadManifest parses and schema-validates seed manifest bytes.
func LoadManifest(data []byte) (*Manifest, error) {
	if err := ValidateSchema(data); err != nil {
		return nil, oops.Code("SEED_INVALID").With("operation", "validate manifest").Wrap(err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, oops.Code("SEED_INVALID").With("operation", "parse manifest").Wrap(err)
	}
	return &m, nil
}

// SeedResult reports what a seed run did.
type SeedResult struct {
	Inserted int
	Skipped  int
}

// Seeder applies a seed manifest to the catalog repository.
type Seeder struct {
	repo   Repository
	logger *slog.Logger
}

// NewSeeder creates a Seeder.
func NewSeeder(repo Repository, logger *slog.Logger) (*Seeder, error) {
	if repo == nil {
		return nil, oops.Code("SEED_INVALID_DEPENDENCY").Errorf("catalog repository is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{repo: repo, logger: logger}, nil
}

// Apply inserts every manifest row, skipping rows whose fixed ID already
// exists. Unknown icon identifiers are tolerated (they resolve to the
// default at read time) but logged here so the manifest can be fixed.
func (s *Seeder) Apply(ctx context.Context, m *Manifest) (*SeedResult, error) {
	result := &SeedResult{}

	for _, sf := range m.Features {
		f, err := sf.toFeature(s.logger)
		if err != nil {
			return nil, err
		}
		if err := s.insert(ctx, result, "feature", sf.ID, func() error {
			return s.repo.InsertFeature(ctx, f)
		}); err != nil {
			return nil, err
		}
	}

	for _, sp := range m.PricingPlans {
		p, err := sp.toPlan()
		if err != nil {
			return nil, err
		}
		if err := s.insert(ctx, result, "pricing plan", sp.ID, func() error {
			return s.repo.InsertPlan(ctx, p)
		}); err != nil {
			return nil, err
		}
	}

	for _, st := range m.Testimonials {
		t, err := st.toTestimonial()
		if err != nil {
			return nil, err
		}
		if err := s.insert(ctx, result, "testimonial", st.ID, func() error {
			return s.repo.InsertTestimonial(ctx, t)
		}); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// insert runs one seed insert, counting duplicates as skips.
func (s *Seeder) insert(_ context.Context, result *SeedResult, kind, id string, fn func() error) error {
	if err := fn(); err != nil {
		if errors.Is(err, ErrDuplicate) {
			s.logger.Debug("seed row already exists, skipping", "kind", kind, "id", id)
			result.Skipped++
			return nil
		}
		return oops.Code("SEED_FAILED").
			With("kind", kind).
			With("id", id).
			Wrap(err)
	}
	result.Inserted++
	return nil
}

func (f *SeedFeature) toFeature(logger *slog.Logger) (*Feature, error) {
	id, err := ulid.Parse(f.ID)
	if err != nil {
		return nil, oops.Code("SEED_INVALID").With("id", f.ID).Wrap(err)
	}
	return &Feature{
		ID:          id,
		Title:       f.Title,
		Description: f.Description,
		Icon:        ResolveIcon(f.Icon, logger),
		IsActive:    true,
		OrderIndex:  f.OrderIndex,
		CreatedAt:   time.Now(),
	}, nil
}

func (p *SeedPricingPlan) toPlan() (*PricingPlan, error) {
	id, err := ulid.Parse(p.ID)
	if err != nil {
		return nil, oops.Code("SEED_INVALID").With("id", p.ID).Wrap(err)
	}
	period := p.Period
	if period == "" {
		period = "month"
	}
	return &PricingPlan{
		ID:          id,
		Name:        p.Name,
		Description: p.Description,
		PriceCents:  p.PriceCents,
		Period:      period,
		Features:    p.Features,
		IsPopular:   p.IsPopular,
		IsActive:    true,
		OrderIndex:  p.OrderIndex,
		CreatedAt:   time.Now(),
	}, nil
}

func (t *SeedTestimonial) toTestimonial() (*Testimonial, error) {
	id, err := ulid.Parse(t.ID)
	if err != nil {
		return nil, oops.Code("SEED_INVALID").With("id", t.ID).Wrap(err)
	}
	rating := t.Rating
	if rating == 0 {
		rating = 5
	}
	return &Testimonial{
		ID:         id,
		Name:       t.Name,
		Role:       t.Role,
		Company:    t.Company,
		Content:    t.Content,
		AvatarURL:  t.AvatarURL,
		Rating:     rating,
		IsActive:   true,
		OrderIndex: t.OrderIndex,
		CreatedAt:  time.Now(),
	}, nil
}
