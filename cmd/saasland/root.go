// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SaaSLand Contributors

package main

import (
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the SaaSLand CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "saasland",
		Short: "SaaSLand - backend for the SaaSLand landing experience",
		Long: `SaaSLand is the backend service for the SaaSLand landing experience:
delegated authentication, profile bootstrap, catalog content, a demo
checkout and newsletter/contact email dispatch over an HTTP JSON API.`,
	}

	// Global flag for config file path
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	// Add subcommands
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewSeedCmd())
	cmd.AddCommand(NewValidateSeedsCmd())
	cmd.AddCommand(NewStatusCmd())

	return cmd
}
