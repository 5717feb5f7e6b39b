// SPDX-FileCopyrightText: Copyright 2025 Drydock Labs, Inc.
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	_ "embed"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed data/schema.json
var registrySchema []byte

// ValidationIssue describes a single schema violation in a registry
// document.
type ValidationIssue struct {
	// Field is the JSON path of the offending value
	Field string

	// Description explains the violation
	Description string
}

func (i ValidationIssue) String() string {
	return fmt.Sprintf("%s: %s", i.Field, i.Description)
}

// ValidateRegistrySchema checks a registry document against the strict
// registry schema. It returns the list of violations, which is empty for
// a valid document.
//
// This is a lint operation for registry authors. The serving path stays
// permissive: the cache and providers only require a servers array and
// pass entries through as authored.
func ValidateRegistrySchema(data []byte) ([]ValidationIssue, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(registrySchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to run schema validation: %w", err)
	}

	if result.Valid() {
		return nil, nil
	}

	issues := make([]ValidationIssue, 0, len(result.Errors()))
	for _, resultErr := range result.Errors() {
		issues = append(issues, ValidationIssue{
			Field:       resultErr.Field(),
			Description: resultErr.Description(),
		})
	}
	return issues, nil
}

// ValidateEmbeddedRegistry checks the embedded registry snapshot against
// the registry schema. It guards against shipping a malformed default
// catalog.
func ValidateEmbeddedRegistry() error {
	data, err := embeddedRegistryFS.ReadFile("data/registry.json")
	if err != nil {
		return fmt.Errorf("failed to read embedded registry data: %w", err)
	}

	issues, err := ValidateRegistrySchema(data)
	if err != nil {
		return err
	}
	if len(issues) > 0 {
		return fmt.Errorf("embedded registry is invalid: %s", issues[0])
	}
	return nil
}
