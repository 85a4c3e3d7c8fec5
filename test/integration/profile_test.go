// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SaaSLand Contributors

//go:build integration

package integration

import (
	"context"
	"errors"
	"fmt"

	"github.com/oklog/ulid/v2"
	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/saasland/saasland/internal/auth"
	"github.com/saasland/saasland/internal/profile"
	"github.com/saasland/saasland/internal/provider"
)

var _ = Describe("Profile bootstrap", func() {
	var ctx context.Context
	var bootstrapper *auth.Bootstrapper

	BeforeEach(func() {
		ctx = context.Background()
		var err error
		bootstrapper, err = auth.NewBootstrapper(env.Profiles, nil)
		Expect(err).NotTo(HaveOccurred())
	})

	newUser := func(fullName string) *provider.User {
		id := ulid.Make().String()
		return &provider.User{
			ID:    id,
			Email: fmt.Sprintf("user-%s@example.com", id),
			Metadata: map[string]any{
				provider.MetadataFullNameKey: fullName,
			},
		}
	}

	It("creates a profile for a first sign-in", func() {
		user := newUser("Ada Lovelace")

		Expect(bootstrapper.EnsureProfile(ctx, user)).To(Succeed())

		p, err := env.Profiles.GetByUserID(ctx, user.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(p.FullName).To(Equal("Ada Lovelace"))
		Expect(p.PlanID).To(BeNil())
	})

	It("is idempotent for repeat sign-ins", func() {
		user := newUser("Grace Hopper")

		Expect(bootstrapper.EnsureProfile(ctx, user)).To(Succeed())
		Expect(bootstrapper.EnsureProfile(ctx, user)).To(Succeed())

		p, err := env.Profiles.GetByUserID(ctx, user.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(p.FullName).To(Equal("Grace Hopper"))
	})

	It("treats a lost insert race as benign", func() {
		user := newUser("Racer")

		// Simulate the race: another writer inserts between the lookup
		// and our insert.
		existing, err := profile.New(user.ID, "Racer")
		Expect(err).NotTo(HaveOccurred())
		Expect(env.Profiles.Create(ctx, existing)).To(Succeed())

		dupe, err := profile.New(user.ID, "Racer")
		Expect(err).NotTo(HaveOccurred())
		createErr := env.Profiles.Create(ctx, dupe)
		Expect(errors.Is(createErr, profile.ErrDuplicate)).To(BeTrue())

		Expect(bootstrapper.EnsureProfile(ctx, user)).To(Succeed())
	})

	It("stores an empty name when metadata has none", func() {
		user := newUser("")
		user.Metadata = nil

		Expect(bootstrapper.EnsureProfile(ctx, user)).To(Succeed())

		p, err := env.Profiles.GetByUserID(ctx, user.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(p.FullName).To(Equal(""))
	})
})
