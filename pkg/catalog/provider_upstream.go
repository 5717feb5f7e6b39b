// SPDX-FileCopyrightText: Copyright 2025 Drydock Labs, Inc.
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"context"
	"fmt"
	"net/http"
	"time"

	v0 "github.com/modelcontextprotocol/registry/pkg/api/v0"

	"github.com/drydocklabs/mcpdock/pkg/catalog/upstream"
	"github.com/drydocklabs/mcpdock/pkg/logger"
	"github.com/drydocklabs/mcpdock/pkg/networking"
)

const (
	// upstreamLookupTimeout bounds single-server lookups and searches.
	upstreamLookupTimeout = 10 * time.Second

	// upstreamListTimeout bounds the full paginated listing, which can
	// span many requests on large registries.
	upstreamListTimeout = 60 * time.Second
)

// UpstreamRegistryProvider provides registry data from an MCP Registry
// API endpoint. It queries the API on demand; entries that cannot run as
// local stdio servers are skipped.
type UpstreamRegistryProvider struct {
	*BaseProvider
	apiURL string
	client upstream.Client
}

// NewUpstreamRegistryProvider creates a provider over the registry API at
// apiURL and validates the endpoint before returning. caCertPath may name
// an extra CA bundle for the TLS connection; empty means system roots.
func NewUpstreamRegistryProvider(apiURL, caCertPath string, allowPrivateIP bool) (*UpstreamRegistryProvider, error) {
	client, err := upstream.NewClient(apiURL, caCertPath, allowPrivateIP)
	if err != nil {
		return nil, fmt.Errorf("failed to create registry API client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), upstreamLookupTimeout)
	defer cancel()
	if err := client.ValidateEndpoint(ctx); err != nil {
		return nil, fmt.Errorf("invalid MCP Registry API endpoint: %w", err)
	}

	return newUpstreamProvider(apiURL, client), nil
}

// NewUpstreamRegistryProviderWithClient creates a provider over an
// existing API client, skipping endpoint validation. Intended for tests.
func NewUpstreamRegistryProviderWithClient(apiURL string, client upstream.Client) *UpstreamRegistryProvider {
	return newUpstreamProvider(apiURL, client)
}

func newUpstreamProvider(apiURL string, client upstream.Client) *UpstreamRegistryProvider {
	p := &UpstreamRegistryProvider{
		apiURL: apiURL,
		client: client,
	}
	p.BaseProvider = NewBaseProvider(p.GetRegistry)
	return p
}

// GetRegistry fetches every server from the API and assembles a registry
// document. This can be slow on large registries; the cached provider is
// the right wrapper for hot paths.
func (p *UpstreamRegistryProvider) GetRegistry() (*RegistryData, error) {
	ctx, cancel := context.WithTimeout(context.Background(), upstreamListTimeout)
	defer cancel()

	upstreamServers, err := p.client.ListServers(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list servers from API: %w", err)
	}

	return &RegistryData{
		Version:     "1.0.0",
		LastUpdated: time.Now().UTC().Format(time.RFC3339),
		Servers:     p.convertAll(upstreamServers),
	}, nil
}

// GetServer queries the API directly instead of listing everything.
func (p *UpstreamRegistryProvider) GetServer(id string) (*MCPServer, error) {
	ctx, cancel := context.WithTimeout(context.Background(), upstreamLookupTimeout)
	defer cancel()

	upstreamServer, err := p.client.GetServer(ctx, id)
	if err != nil {
		if networking.IsHTTPError(err, http.StatusNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrServerNotFound, id)
		}
		return nil, fmt.Errorf("failed to fetch server %s from API: %w", id, err)
	}

	return ServerJSONToMCPServer(upstreamServer)
}

// SearchServers queries the API directly.
func (p *UpstreamRegistryProvider) SearchServers(query string) ([]MCPServer, error) {
	ctx, cancel := context.WithTimeout(context.Background(), upstreamLookupTimeout)
	defer cancel()

	upstreamServers, err := p.client.SearchServers(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to search servers from API: %w", err)
	}

	return p.convertAll(upstreamServers), nil
}

func (p *UpstreamRegistryProvider) convertAll(upstreamServers []*v0.ServerJSON) []MCPServer {
	servers := make([]MCPServer, 0, len(upstreamServers))
	for _, upstreamServer := range upstreamServers {
		server, err := ServerJSONToMCPServer(upstreamServer)
		if err != nil {
			logger.Debugf("Skipping upstream server %s: %v", upstreamServer.Name, err)
			continue
		}
		servers = append(servers, *server)
	}
	return servers
}
