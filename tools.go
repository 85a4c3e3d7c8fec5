// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SaaSLand Contributors

//go:build tools
// +build tools

// Package main keeps test-only dependencies visible to go.mod. The
// integration suite lives behind the integration build tag, so without
// these imports go mod tidy would drop its frameworks.
package main

import (
	_ "github.com/onsi/ginkgo/v2"
	_ "github.com/onsi/gomega"
)
