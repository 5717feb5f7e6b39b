// SPDX-FileCopyrightText: Copyright 2025 Drydock Labs, Inc.
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"fmt"
	"strings"
)

// BaseProvider provides common implementation for registry providers
type BaseProvider struct {
	// GetRegistryFunc is a function that fetches the registry data
	// This allows different providers to implement their own data fetching logic
	GetRegistryFunc func() (*RegistryData, error)
}

// NewBaseProvider creates a new base provider with the given registry function
func NewBaseProvider(getRegistry func() (*RegistryData, error)) *BaseProvider {
	return &BaseProvider{
		GetRegistryFunc: getRegistry,
	}
}

// GetRegistry returns the complete registry data
func (p *BaseProvider) GetRegistry() (*RegistryData, error) {
	return p.GetRegistryFunc()
}

// GetServer returns a specific server by id
func (p *BaseProvider) GetServer(id string) (*MCPServer, error) {
	reg, err := p.GetRegistryFunc()
	if err != nil {
		return nil, err
	}

	server, found := reg.GetServer(id)
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrServerNotFound, id)
	}

	return server, nil
}

// SearchServers returns the servers matching the query. Matching is a
// case-insensitive substring check across id, name, description, and tags.
func (p *BaseProvider) SearchServers(query string) ([]MCPServer, error) {
	reg, err := p.GetRegistryFunc()
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(strings.TrimSpace(query))
	var results []MCPServer
	for i := range reg.Servers {
		if matchesQuery(&reg.Servers[i], query) {
			results = append(results, reg.Servers[i])
		}
	}

	return results, nil
}

// ListServers returns all servers in the registry. The returned slice is
// a copy, so callers may reorder it without disturbing cached snapshots.
func (p *BaseProvider) ListServers() ([]MCPServer, error) {
	reg, err := p.GetRegistryFunc()
	if err != nil {
		return nil, err
	}

	servers := make([]MCPServer, len(reg.Servers))
	copy(servers, reg.Servers)
	return servers, nil
}

// matchesQuery checks if a server matches the search query
func matchesQuery(s *MCPServer, query string) bool {
	// Search in id and name
	if strings.Contains(strings.ToLower(s.ID), query) {
		return true
	}
	if strings.Contains(strings.ToLower(s.Name), query) {
		return true
	}

	// Search in description
	if strings.Contains(strings.ToLower(s.Description), query) {
		return true
	}

	// Search in tags
	for _, tag := range s.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}

	return false
}
