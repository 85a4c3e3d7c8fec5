// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SaaSLand Contributors

package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/saasland/saasland/internal/catalog"
)

// validateSeedsConfig holds configuration for the validate-seeds subcommand.
type validateSeedsConfig struct {
	manifest string
}

// NewValidateSeedsCmd creates the validate-seeds subcommand.
func NewValidateSeedsCmd() *cobra.Command {
	cfg := &validateSeedsConfig{}

	cmd := &cobra.Command{
		Use:   "validate-seeds",
		Short: "Validate the catalog seed manifest without a database",
		Long: `Validates the catalog seed manifest against its JSON Schema and entity
constraints. Does NOT require a database connection.
Exits with code 0 on success, non-zero on failure.

Useful in CI pipelines to catch seed manifest errors early:
  saasland validate-seeds`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runValidateSeeds(cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.manifest, "manifest", "", "seed manifest path (default: embedded manifest)")

	return cmd
}

func runValidateSeeds(cfg *validateSeedsConfig) error {
	data := catalog.DefaultSeedYAML()
	if cfg.manifest != "" {
		var err error
		data, err = os.ReadFile(cfg.manifest)
		if err != nil {
			return err
		}
	}

	manifest, err := catalog.LoadManifest(data)
	if err != nil {
		slog.Error("seed manifest validation failed", "detail", catalog.FormatSchemaError(err))
		return err
	}

	slog.Info("seed manifest valid",
		"features", len(manifest.Features),
		"plans", len(manifest.PricingPlans),
		"testimonials", len(manifest.Testimonials),
	)
	return nil
}
