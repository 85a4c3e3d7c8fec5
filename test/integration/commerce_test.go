// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SaaSLand Contributors

//go:build integration

package integration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/saasland/saasland/internal/billing"
	"github.com/saasland/saasland/internal/catalog"
	"github.com/saasland/saasland/internal/newsletter"
	"github.com/saasland/saasland/internal/profile"
)

var _ = Describe("Checkout", func() {
	var ctx context.Context
	var svc *billing.Service
	var planID ulid.ULID
	var userID string

	BeforeEach(func() {
		ctx = context.Background()

		// The seed suite runs first; fall back to seeding here so this
		// spec stands alone.
		plans, err := env.Catalog.ListPlans(ctx)
		Expect(err).NotTo(HaveOccurred())
		if len(plans) == 0 {
			seeder, seedErr := catalog.NewSeeder(env.Catalog, nil)
			Expect(seedErr).NotTo(HaveOccurred())
			manifest, loadErr := catalog.LoadManifest(catalog.DefaultSeedYAML())
			Expect(loadErr).NotTo(HaveOccurred())
			_, seedErr = seeder.Apply(ctx, manifest)
			Expect(seedErr).NotTo(HaveOccurred())
			plans, err = env.Catalog.ListPlans(ctx)
			Expect(err).NotTo(HaveOccurred())
		}
		planID = plans[0].ID

		userID = ulid.Make().String()
		p, err := profile.New(userID, "Checkout Tester")
		Expect(err).NotTo(HaveOccurred())
		Expect(env.Profiles.Create(ctx, p)).To(Succeed())

		svc = billing.NewService(env.Subscriptions, env.Profiles, env.Catalog, nil,
			billing.WithProcessingDelay(10*time.Millisecond))
	})

	It("records an active subscription expiring in 30 days", func() {
		sub, err := svc.Checkout(ctx, userID, planID)
		Expect(err).NotTo(HaveOccurred())
		Expect(sub.Status).To(Equal(billing.StatusActive))
		Expect(sub.ExpiresAt).To(BeTemporally("~", time.Now().Add(billing.SubscriptionDuration), time.Minute))

		stored, err := env.Subscriptions.GetActiveByUserID(ctx, userID)
		Expect(err).NotTo(HaveOccurred())
		Expect(stored.PlanID).To(Equal(planID))
	})

	It("points the profile at the purchased plan", func() {
		_, err := svc.Checkout(ctx, userID, planID)
		Expect(err).NotTo(HaveOccurred())

		p, err := env.Profiles.GetByUserID(ctx, userID)
		Expect(err).NotTo(HaveOccurred())
		Expect(p.PlanID).NotTo(BeNil())
		Expect(*p.PlanID).To(Equal(planID))
	})

	It("rejects an unknown plan before charging", func() {
		_, err := svc.Checkout(ctx, userID, ulid.Make())
		Expect(errors.Is(err, catalog.ErrNotFound)).To(BeTrue())

		_, err = env.Subscriptions.GetActiveByUserID(ctx, userID)
		Expect(errors.Is(err, billing.ErrNotFound)).To(BeTrue())
	})
})

var _ = Describe("Newsletter signups", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	It("enforces one signup per address", func() {
		email := fmt.Sprintf("reader-%s@example.com", ulid.Make())

		first, err := newsletter.NewSignup(email)
		Expect(err).NotTo(HaveOccurred())
		Expect(env.Signups.Create(ctx, first)).To(Succeed())

		second, err := newsletter.NewSignup(email)
		Expect(err).NotTo(HaveOccurred())
		createErr := env.Signups.Create(ctx, second)
		Expect(errors.Is(createErr, newsletter.ErrAlreadySubscribed)).To(BeTrue())
	})

	It("normalizes address case before the unique check", func() {
		base := fmt.Sprintf("Mixed-%s@Example.com", ulid.Make())

		first, err := newsletter.NewSignup(base)
		Expect(err).NotTo(HaveOccurred())
		Expect(env.Signups.Create(ctx, first)).To(Succeed())

		second, err := newsletter.NewSignup(base)
		Expect(err).NotTo(HaveOccurred())
		createErr := env.Signups.Create(ctx, second)
		Expect(errors.Is(createErr, newsletter.ErrAlreadySubscribed)).To(BeTrue())
	})
})
