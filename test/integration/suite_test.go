// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SaaSLand Contributors

//go:build integration

// Package integration provides end-to-end integration tests for the
// SaaSLand backend against a containerized PostgreSQL.
package integration

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	billingpg "github.com/saasland/saasland/internal/billing/postgres"
	catalogpg "github.com/saasland/saasland/internal/catalog/postgres"
	newsletterpg "github.com/saasland/saasland/internal/newsletter/postgres"
	profilepg "github.com/saasland/saasland/internal/profile/postgres"
	"github.com/saasland/saasland/internal/store"
)

func TestIntegration(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "SaaSLand Integration Suite")
}

// testEnv holds all resources needed for integration tests.
type testEnv struct {
	ctx       context.Context
	pool      *pgxpool.Pool
	container testcontainers.Container

	Profiles      *profilepg.ProfileRepository
	Catalog       *catalogpg.CatalogRepository
	Subscriptions *billingpg.SubscriptionRepository
	Signups       *newsletterpg.SignupRepository
}

var env *testEnv

var _ = BeforeSuite(func() {
	var err error
	env, err = setupTestEnv()
	Expect(err).NotTo(HaveOccurred())
})

var _ = AfterSuite(func() {
	if env != nil {
		env.cleanup()
	}
})

func setupTestEnv() (*testEnv, error) {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:18-alpine",
		postgres.WithDatabase("saasland_test"),
		postgres.WithUsername("saasland"),
		postgres.WithPassword("saasland"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, err
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}

	migrator, err := store.NewMigrator(connStr)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}
	if err := migrator.Up(); err != nil {
		_ = migrator.Close()
		_ = container.Terminate(ctx)
		return nil, err
	}
	if err := migrator.Close(); err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}

	pool, err := store.Connect(ctx, connStr)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}

	return &testEnv{
		ctx:           ctx,
		pool:          pool,
		container:     container,
		Profiles:      profilepg.NewProfileRepository(pool),
		Catalog:       catalogpg.NewCatalogRepository(pool, nil),
		Subscriptions: billingpg.NewSubscriptionRepository(pool),
		Signups:       newsletterpg.NewSignupRepository(pool),
	}, nil
}

func (e *testEnv) cleanup() {
	if e.pool != nil {
		e.pool.Close()
	}
	if e.container != nil {
		_ = e.container.Terminate(e.ctx)
	}
}
