// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SaaSLand Contributors

// Package main is the entry point for the SaaSLand backend.
package main

import (
	"fmt"
	"os"
)

// Set via -ldflags at release build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	root := NewRootCmd()
	root.Version = fmt.Sprintf("%s (commit %s, built %s)", version, commit, date)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
