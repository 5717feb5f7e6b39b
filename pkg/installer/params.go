// SPDX-FileCopyrightText: Copyright 2025 Drydock Labs, Inc.
// SPDX-License-Identifier: Apache-2.0

package installer

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/drydocklabs/mcpdock/pkg/catalog"
	"github.com/drydocklabs/mcpdock/pkg/client"
)

// secretMask is what secret values are replaced with in summaries. A fixed
// width leaks nothing about the value's length.
const secretMask = "********"

// ResolveParameters validates the supplied values against the server's
// parameter specs and fills in defaults for absent optional parameters.
// Path-typed values come back with ~ expanded. Missing required parameters
// and unknown parameter names are errors.
func ResolveParameters(server *catalog.MCPServer, supplied map[string]string) (map[string]string, error) {
	for name := range supplied {
		if _, ok := server.Parameters[name]; !ok {
			return nil, fmt.Errorf("unknown parameter %q for server %s", name, server.ID)
		}
	}

	resolved := make(map[string]string, len(server.Parameters))
	var missing []string

	for name, spec := range server.Parameters {
		value, ok := supplied[name]
		if !ok || value == "" {
			if spec.Default != "" {
				resolved[name] = spec.Default
				continue
			}
			if spec.Required {
				missing = append(missing, name)
			}
			continue
		}

		normalized, err := ValidateParameterValue(name, spec, value)
		if err != nil {
			return nil, err
		}
		resolved[name] = normalized
	}

	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("missing required parameters: %s", strings.Join(missing, ", "))
	}

	return resolved, nil
}

// ValidateParameterValue checks one value against its spec and returns the
// normalized value to substitute. The parameter wizard uses it to reject
// bad values at entry time instead of after the whole form is filled in.
func ValidateParameterValue(name string, spec catalog.MCPServerParameter, value string) (string, error) {
	switch spec.Type {
	case catalog.ParamTypeNumber:
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return "", fmt.Errorf("parameter %s must be a number, got %q", name, value)
		}
	case catalog.ParamTypeBoolean:
		if _, err := strconv.ParseBool(value); err != nil {
			return "", fmt.Errorf("parameter %s must be a boolean, got %q", name, value)
		}
	case catalog.ParamTypeURL:
		parsed, err := url.Parse(value)
		if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
			return "", fmt.Errorf("parameter %s must be an http(s) URL, got %q", name, value)
		}
	case catalog.ParamTypePath, catalog.ParamTypeFilePath, catalog.ParamTypeDirectoryPath:
		expanded, err := expandHome(value)
		if err != nil {
			return "", fmt.Errorf("parameter %s: %w", name, err)
		}
		if !filepath.IsAbs(expanded) {
			return "", fmt.Errorf("parameter %s must be an absolute path, got %q", name, value)
		}
		value = expanded
	}

	if err := checkValidationRules(name, spec.Validation, value); err != nil {
		return "", err
	}

	return value, nil
}

// checkValidationRules applies the optional pattern and length bounds.
func checkValidationRules(name string, rules *catalog.ParameterValidation, value string) error {
	if rules == nil {
		return nil
	}

	if rules.Pattern != "" {
		re, err := regexp.Compile(rules.Pattern)
		if err != nil {
			return fmt.Errorf("parameter %s has an invalid validation pattern: %w", name, err)
		}
		if !re.MatchString(value) {
			return fmt.Errorf("parameter %s does not match required pattern %s", name, rules.Pattern)
		}
	}

	if rules.MinLength != nil && len(value) < *rules.MinLength {
		return fmt.Errorf("parameter %s must be at least %d characters", name, *rules.MinLength)
	}
	if rules.MaxLength != nil && len(value) > *rules.MaxLength {
		return fmt.Errorf("parameter %s must be at most %d characters", name, *rules.MaxLength)
	}

	return nil
}

// expandHome expands a leading ~ to the user's home directory.
func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to expand ~: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, path[2:]), nil
}

// BuildServerEntry substitutes the resolved parameter values into the
// server's install descriptor. Every ${NAME} placeholder naming a declared
// parameter is replaced; args and env values that come out empty are
// dropped, which is how absent optional parameters disappear from the
// written entry.
func BuildServerEntry(server *catalog.MCPServer, params map[string]string) (client.MCPServerEntry, error) {
	if server.Installation == nil {
		return client.MCPServerEntry{}, fmt.Errorf("server %s has no installation descriptor", server.ID)
	}

	entry := client.MCPServerEntry{
		Command: server.Installation.Command,
	}

	for _, arg := range server.Installation.Args {
		expanded := substitutePlaceholders(arg, server, params)
		if expanded == "" {
			continue
		}
		entry.Args = append(entry.Args, expanded)
	}

	if len(server.Installation.Env) > 0 {
		env := make(map[string]string, len(server.Installation.Env))
		for key, value := range server.Installation.Env {
			expanded := substitutePlaceholders(value, server, params)
			if expanded == "" {
				continue
			}
			env[key] = expanded
		}
		if len(env) > 0 {
			entry.Env = env
		}
	}

	return entry, nil
}

// substitutePlaceholders replaces ${NAME} for every declared parameter.
// Placeholders that do not name a parameter are left untouched.
func substitutePlaceholders(s string, server *catalog.MCPServer, params map[string]string) string {
	for name := range server.Parameters {
		s = strings.ReplaceAll(s, "${"+name+"}", params[name])
	}
	return s
}

// ParameterSummary is one resolved parameter prepared for display.
type ParameterSummary struct {
	Name   string
	Value  string
	Secret bool
}

// SummarizeParameters returns the resolved parameters sorted by name, with
// secret values masked. This is the only form in which parameter values
// should be printed.
func SummarizeParameters(server *catalog.MCPServer, resolved map[string]string) []ParameterSummary {
	summaries := make([]ParameterSummary, 0, len(resolved))
	for name, value := range resolved {
		spec, ok := server.Parameters[name]
		secret := ok && spec.IsSecret()
		if secret {
			value = secretMask
		}
		summaries = append(summaries, ParameterSummary{Name: name, Value: value, Secret: secret})
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Name < summaries[j].Name
	})
	return summaries
}
