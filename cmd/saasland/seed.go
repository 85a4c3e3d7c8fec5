// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SaaSLand Contributors

package main

import (
	"context"
	"os"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/saasland/saasland/internal/catalog"
	catalogpg "github.com/saasland/saasland/internal/catalog/postgres"
	"github.com/saasland/saasland/internal/config"
	"github.com/saasland/saasland/internal/store"
)

// Default timeout for the seed command.
const defaultSeedTimeout = 30 * time.Second

// seedConfig holds configuration for the seed subcommand.
type seedConfig struct {
	timeout  time.Duration
	manifest string
}

// NewSeedCmd creates the seed subcommand.
func NewSeedCmd() *cobra.Command {
	cfg := &seedConfig{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed the catalog with demo content",
		Long: `Loads the catalog seed manifest (features, pricing plans, testimonials)
into the database. This command is idempotent - rows whose fixed IDs
already exist are skipped.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSeed(cmd, cfg)
		},
	}

	cmd.Flags().DurationVar(&cfg.timeout, "timeout", defaultSeedTimeout, "timeout for database operations (e.g., 30s, 1m)")
	cmd.Flags().StringVar(&cfg.manifest, "manifest", "", "seed manifest path (default: embedded manifest)")
	config.BindFlags(cmd.Flags())

	return cmd
}

func runSeed(cmd *cobra.Command, scfg *seedConfig) error {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return oops.Code("CONFIG_INVALID").Wrap(err)
	}
	if cfg.Database.URL == "" {
		return oops.Code("CONFIG_INVALID").Errorf("database.url is required")
	}

	data := catalog.DefaultSeedYAML()
	if scfg.manifest != "" {
		data, err = os.ReadFile(scfg.manifest)
		if err != nil {
			return oops.Code("SEED_FAILED").
				With("operation", "read manifest").
				With("path", scfg.manifest).
				Wrap(err)
		}
	}

	manifest, err := catalog.LoadManifest(data)
	if err != nil {
		return oops.Code("SEED_FAILED").With("operation", "load manifest").Wrap(err)
	}

	// Use cmd.Context() to respect SIGINT/SIGTERM signals
	ctx, cancel := context.WithTimeout(cmd.Context(), scfg.timeout)
	defer cancel()

	cmd.Println("Connecting to database...")
	pool, err := store.Connect(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	cmd.Println("Running migrations...")
	migrator, err := store.NewMigrator(cfg.Database.URL)
	if err != nil {
		return err
	}
	if err := migrator.Up(); err != nil {
		_ = migrator.Close() //nolint:errcheck // migration error takes precedence
		return err
	}
	if err := migrator.Close(); err != nil {
		cmd.PrintErrln("warning: error closing migrator:", err)
	}

	repo := catalogpg.NewCatalogRepository(pool, nil)
	seeder, err := catalog.NewSeeder(repo, nil)
	if err != nil {
		return err
	}

	result, err := seeder.Apply(ctx, manifest)
	if err != nil {
		return oops.Code("SEED_FAILED").With("operation", "apply manifest").Wrap(err)
	}

	cmd.Printf("Catalog seeding complete: %d inserted, %d skipped\n", result.Inserted, result.Skipped)
	return nil
}
