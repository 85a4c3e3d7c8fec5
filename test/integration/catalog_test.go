// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SaaSLand Contributors

//go:build integration

package integration

import (
	"context"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/saasland/saasland/internal/catalog"
)

var _ = Describe("Catalog seeding", Ordered, func() {
	var ctx context.Context
	var seeder *catalog.Seeder
	var manifest *catalog.Manifest

	BeforeAll(func() {
		ctx = context.Background()

		var err error
		seeder, err = catalog.NewSeeder(env.Catalog, nil)
		Expect(err).NotTo(HaveOccurred())

		manifest, err = catalog.LoadManifest(catalog.DefaultSeedYAML())
		Expect(err).NotTo(HaveOccurred())
	})

	It("applies the embedded manifest", func() {
		result, err := seeder.Apply(ctx, manifest)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Inserted).To(Equal(
			len(manifest.Features) + len(manifest.PricingPlans) + len(manifest.Testimonials),
		))
		Expect(result.Skipped).To(BeZero())
	})

	It("skips every row on a re-run", func() {
		result, err := seeder.Apply(ctx, manifest)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Inserted).To(BeZero())
		Expect(result.Skipped).To(Equal(
			len(manifest.Features) + len(manifest.PricingPlans) + len(manifest.Testimonials),
		))
	})

	It("lists features in display order", func() {
		features, err := env.Catalog.ListFeatures(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(features).To(HaveLen(len(manifest.Features)))
		for i := 1; i < len(features); i++ {
			Expect(features[i].OrderIndex).To(BeNumerically(">=", features[i-1].OrderIndex))
		}
	})

	It("round-trips plan feature lists through JSONB", func() {
		plans, err := env.Catalog.ListPlans(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(plans).NotTo(BeEmpty())

		got, err := env.Catalog.GetPlan(ctx, plans[0].ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Features).To(Equal(plans[0].Features))
		Expect(got.PriceCents).To(Equal(plans[0].PriceCents))
	})

	It("lists testimonials with ratings intact", func() {
		testimonials, err := env.Catalog.ListTestimonials(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(testimonials).To(HaveLen(len(manifest.Testimonials)))
		for _, t := range testimonials {
			Expect(t.Rating).To(BeNumerically(">=", 1))
			Expect(t.Rating).To(BeNumerically("<=", 5))
		}
	})
})
