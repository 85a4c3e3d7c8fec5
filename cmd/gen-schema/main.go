// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SaaSLand Contributors

// Command gen-schema regenerates the catalog seed manifest JSON Schema.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/saasland/saasland/internal/catalog"
)

func main() {
	out := flag.String("out", filepath.Join("schemas", "catalog-seed.schema.json"),
		"output path, or - for stdout")
	flag.Parse()

	schema, err := catalog.GenerateSchema()
	if err != nil {
		fatal(err)
	}

	if *out == "-" {
		if _, err := os.Stdout.Write(schema); err != nil {
			fatal(err)
		}
		return
	}

	if err := os.MkdirAll(filepath.Dir(*out), 0o750); err != nil {
		fatal(err)
	}
	if err := os.WriteFile(*out, schema, 0o600); err != nil {
		fatal(err)
	}
	fmt.Println("wrote", *out)
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "gen-schema:", err)
	os.Exit(1)
}
