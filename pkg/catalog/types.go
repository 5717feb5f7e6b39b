// SPDX-FileCopyrightText: Copyright 2025 Drydock Labs, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package catalog provides access to the MCP server catalog: the data
// model, a TTL cache over the remote registry document, and providers
// that resolve servers from remote, local, or embedded sources.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// Parameter types accepted in server definitions. Anything outside this
// set fails schema validation but still passes through the cache.
const (
	ParamTypePath          = "path"
	ParamTypeFilePath      = "file_path"
	ParamTypeDirectoryPath = "directory_path"
	ParamTypeAPIKey        = "api_key"
	ParamTypeString        = "string"
	ParamTypeNumber        = "number"
	ParamTypeBoolean       = "boolean"
	ParamTypeURL           = "url"
)

// ErrMissingServers marks a registry document whose servers field is
// absent or null.
var ErrMissingServers = errors.New("registry document has no servers array")

// RegistryData is the top-level registry document.
type RegistryData struct {
	// Version is the schema version of the registry document
	Version string `json:"version"`

	// LastUpdated is the timestamp when the registry was last updated,
	// as authored upstream (RFC3339 in practice, not enforced here)
	LastUpdated string `json:"lastUpdated"`

	// Servers holds the catalog entries in authoring order
	Servers []MCPServer `json:"servers"`
}

// GetServer returns the entry with the given id, or false when absent.
func (r *RegistryData) GetServer(id string) (*MCPServer, bool) {
	for i := range r.Servers {
		if r.Servers[i].ID == id {
			return &r.Servers[i], true
		}
	}
	return nil, false
}

// ServerIDs returns the ids of all entries, sorted alphabetically.
func (r *RegistryData) ServerIDs() []string {
	ids := make([]string, 0, len(r.Servers))
	for i := range r.Servers {
		ids = append(ids, r.Servers[i].ID)
	}
	sort.Strings(ids)
	return ids
}

// MCPServer is a single catalog entry. Descriptive fields are passed
// through as authored; only installation and parameters are interpreted
// by the installer.
type MCPServer struct {
	// ID is the stable key used to install and address the server
	ID string `json:"id"`

	// Name is the human-readable display name
	Name string `json:"name"`

	// Description explains what the server does
	Description string `json:"description"`

	// Category groups servers in listings (e.g. "search", "storage")
	Category string `json:"category,omitempty"`

	// Type distinguishes entry flavors upstream; informational here
	Type string `json:"type,omitempty"`

	// Difficulty rates setup effort (e.g. "simple", "advanced")
	Difficulty string `json:"difficulty,omitempty"`

	// Tags provide additional categorization for search
	Tags []string `json:"tags,omitempty"`

	// Author identifies who publishes the server
	Author string `json:"author,omitempty"`

	// Version is the upstream package version
	Version string `json:"version,omitempty"`

	// Documentation is a URL to the server's documentation
	Documentation string `json:"documentation,omitempty"`

	// Repository is a URL to the server's source repository
	Repository string `json:"repository,omitempty"`

	// RequiresAuth indicates the server needs credentials to be useful
	RequiresAuth bool `json:"requiresAuth,omitempty"`

	// Parameters declares the user-supplied values the server needs,
	// keyed by parameter name
	Parameters map[string]MCPServerParameter `json:"parameters,omitempty"`

	// Installation describes how to launch the server
	Installation *Installation `json:"installation,omitempty"`
}

// RequiredParameters returns the names of required parameters, sorted
// alphabetically so prompts and errors are deterministic.
func (s *MCPServer) RequiredParameters() []string {
	var names []string
	for name, param := range s.Parameters {
		if param.Required {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// ParameterNames returns all declared parameter names, sorted
// alphabetically.
func (s *MCPServer) ParameterNames() []string {
	names := make([]string, 0, len(s.Parameters))
	for name := range s.Parameters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Installation describes the command used to launch a server.
type Installation struct {
	// Command is the executable to run (e.g. "npx", "uvx", "docker")
	Command string `json:"command"`

	// Args are the arguments passed to the command. Values may contain
	// ${NAME} placeholders resolved from parameters at install time.
	Args []string `json:"args"`

	// Env holds environment variables set for the server process.
	// Values may contain ${NAME} placeholders.
	Env map[string]string `json:"env,omitempty"`
}

// MCPServerParameter declares one user-supplied value.
type MCPServerParameter struct {
	// Type is one of the ParamType constants
	Type string `json:"type"`

	// Required marks parameters that must be supplied at install time
	Required bool `json:"required"`

	// Description explains the parameter to the user
	Description string `json:"description,omitempty"`

	// Placeholder is an example value shown in prompts
	Placeholder string `json:"placeholder,omitempty"`

	// Default fills the value when the user supplies none
	Default string `json:"default,omitempty"`

	// Validation constrains accepted values
	Validation *ParameterValidation `json:"validation,omitempty"`
}

// IsSecret reports whether the parameter value must be masked in
// prompts, logs, and listings.
func (p *MCPServerParameter) IsSecret() bool {
	return p.Type == ParamTypeAPIKey
}

// ParameterValidation constrains a parameter value beyond its type.
type ParameterValidation struct {
	// Pattern is a regular expression the value must match
	Pattern string `json:"pattern,omitempty"`

	// MinLength is the minimum value length in bytes
	MinLength *int `json:"minLength,omitempty"`

	// MaxLength is the maximum value length in bytes
	MaxLength *int `json:"maxLength,omitempty"`
}

// ParseRegistryData unmarshals a registry document and verifies it
// carries a servers array. A document whose servers field is missing,
// null, or not an array is rejected; individual entries are passed
// through as authored, with per-entry checks left to schema validation.
func ParseRegistryData(data []byte) (*RegistryData, error) {
	var probe struct {
		Version     string          `json:"version"`
		LastUpdated string          `json:"lastUpdated"`
		Servers     json.RawMessage `json:"servers"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse registry data: %w", err)
	}
	if len(probe.Servers) == 0 || string(probe.Servers) == "null" {
		return nil, ErrMissingServers
	}

	var servers []MCPServer
	if err := json.Unmarshal(probe.Servers, &servers); err != nil {
		return nil, fmt.Errorf("registry servers field is not an array: %w", err)
	}

	return &RegistryData{
		Version:     probe.Version,
		LastUpdated: probe.LastUpdated,
		Servers:     servers,
	}, nil
}
