// SPDX-FileCopyrightText: Copyright 2025 Drydock Labs, Inc.
// SPDX-License-Identifier: Apache-2.0

package catalog

import "errors"

//go:generate mockgen -destination=mocks/mock_provider.go -package=mocks -source=provider.go Provider

// ErrServerNotFound marks lookups for ids absent from the registry.
var ErrServerNotFound = errors.New("server not found")

// Provider defines the interface for registry storage implementations
type Provider interface {
	// GetRegistry returns the complete registry data
	GetRegistry() (*RegistryData, error)

	// GetServer returns a specific server by id
	GetServer(id string) (*MCPServer, error)

	// SearchServers returns the servers matching the query
	SearchServers(query string) ([]MCPServer, error)

	// ListServers returns all available servers
	ListServers() ([]MCPServer, error)
}
