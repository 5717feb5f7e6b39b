// SPDX-FileCopyrightText: Copyright 2025 Drydock Labs, Inc.
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"net/http"

	"github.com/drydocklabs/mcpdock/pkg/logger"
	"github.com/drydocklabs/mcpdock/pkg/networking"
)

// CachedRegistryProvider serves registry data from a remote URL through
// the in-memory Cache. Lookups never fail: when the remote is unreachable
// they are answered from the previous snapshot, or from an empty registry.
type CachedRegistryProvider struct {
	*BaseProvider
	cache *Cache
}

// NewCachedRegistryProvider creates a provider over the registry document
// at registryURL. Fetches go through a hardened HTTP client that refuses
// private upstream addresses unless allowPrivateIP is set; caCertPath may
// name an extra CA bundle for TLS-intercepting proxies and self-hosted
// registries (empty means system roots only). Extra cache options are
// applied last so tests can override the client and clock.
func NewCachedRegistryProvider(registryURL, caCertPath string, allowPrivateIP bool, opts ...CacheOption) *CachedRegistryProvider {
	client, err := networking.NewHttpClientBuilder().
		WithCABundle(caCertPath).
		WithPrivateIPs(allowPrivateIP).
		Build()
	if err != nil {
		// Only a bad CA bundle gets here. The default client keeps the
		// provider usable; fetches surface any TLS failures that follow.
		logger.Warnf("Failed to build registry HTTP client, using default: %v", err)
		client = &http.Client{Timeout: networking.HttpTimeout}
	}

	cacheOpts := append([]CacheOption{WithHTTPClient(client)}, opts...)
	p := &CachedRegistryProvider{cache: NewCache(registryURL, cacheOpts...)}
	p.BaseProvider = NewBaseProvider(p.GetRegistry)
	return p
}

// GetRegistry returns the current snapshot. The error is always nil; the
// cache absorbs refresh failures and falls back to stale or empty data.
func (p *CachedRegistryProvider) GetRegistry() (*RegistryData, error) {
	return p.cache.ServersData(), nil
}

// Cache exposes the underlying cache for refresh and diagnostics.
func (p *CachedRegistryProvider) Cache() *Cache {
	return p.cache
}
