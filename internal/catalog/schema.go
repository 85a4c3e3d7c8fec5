// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SaaSLand Contributors

package catalog

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/invopop/jsonschema"
	jschema "github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

// SchemaID is the $id stamped on generated seed manifest schemas.
const SchemaID = "https://saasland.dev/schemas/catalog-seed.schema.json"

var (
	schemaOnce     sync.Once
	compiledSchema *jschema.Schema
	schemaErr      error
)

// GenerateSchema reflects the Manifest struct into a JSON Schema document.
func GenerateSchema() ([]byte, error) {
	reflector := jsonschema.Reflector{DoNotReference: true}

	schema := reflector.Reflect(&Manifest{})
	schema.ID = jsonschema.ID(SchemaID)
	schema.Title = "SaaSLand Catalog Seed Manifest"
	schema.Description = "Schema for catalog seed YAML files (features, pricing plans, testimonials)"

	out, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	return out, nil
}

// ValidateSchema checks YAML seed manifest bytes against the generated
// JSON Schema without touching a database.
func ValidateSchema(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("seed manifest is empty")
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("invalid YAML: %w", err)
	}

	sch, err := seedSchema()
	if err != nil {
		return err
	}
	if err := sch.Validate(jsonify(doc)); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

// seedSchema compiles the manifest schema once per process. The schema
// is derived from the Manifest type, so the result never changes.
func seedSchema() (*jschema.Schema, error) {
	schemaOnce.Do(func() {
		raw, err := GenerateSchema()
		if err != nil {
			schemaErr = err
			return
		}

		var doc any
		if err := json.Unmarshal(raw, &doc); err != nil {
			schemaErr = fmt.Errorf("failed to parse schema JSON: %w", err)
			return
		}

		compiler := jschema.NewCompiler()
		if err := compiler.AddResource("seed.schema.json", doc); err != nil {
			schemaErr = fmt.Errorf("failed to add schema resource: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile("seed.schema.json")
	})
	if schemaErr != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", schemaErr)
	}
	return compiledSchema, nil
}

// jsonify rewrites YAML-decoded values into the shapes the schema
// validator expects. yaml.v3 already produces map[string]any, so this
// only has to recurse; oddball scalar types take a JSON round-trip.
func jsonify(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = jsonify(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = jsonify(item)
		}
		return out
	case string, int, int64, float64, bool, nil:
		return val
	default:
		if b, err := json.Marshal(val); err == nil {
			var out any
			if err := json.Unmarshal(b, &out); err == nil {
				return out
			}
		}
		return val
	}
}

// FormatSchemaError strips the wrapping prefix from a validation error
// so the CLI can print the validator's own report.
func FormatSchemaError(err error) string {
	if err == nil {
		return ""
	}
	return strings.TrimPrefix(err.Error(), "schema validation failed: ")
}
