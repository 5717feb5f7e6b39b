// SPDX-FileCopyrightText: Copyright 2025 Drydock Labs, Inc.
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"sync"

	"github.com/drydocklabs/mcpdock/pkg/config"
	"github.com/drydocklabs/mcpdock/pkg/logger"
)

var (
	defaultProvider     Provider
	defaultProviderOnce sync.Once
	defaultProviderErr  error
	// defaultProviderMu protects ResetDefaultProvider, which replaces the
	// sync.Once itself.
	defaultProviderMu sync.Mutex
)

// NewRegistryProvider creates a registry provider based on the configuration.
//
// Priority order:
//  1. Registry API URL - live MCP Registry API queries
//  2. Registry URL - static JSON document over HTTP
//  3. Registry file - local JSON document
//  4. Default - embedded registry data
func NewRegistryProvider(cfg *config.Config) Provider {
	if cfg != nil && cfg.RegistryAPIURL != "" {
		provider, err := NewUpstreamRegistryProvider(cfg.RegistryAPIURL, cfg.CACertificatePath, cfg.AllowPrivateRegistryIP)
		if err != nil {
			// Fall back to embedded data so the CLI keeps working while
			// the API is unreachable.
			logger.Warnf("Failed to use registry API %s, falling back to embedded registry: %v", cfg.RegistryAPIURL, err)
			return NewLocalRegistryProvider()
		}
		return provider
	}
	if cfg != nil && cfg.RegistryURL != "" {
		return NewCachedRegistryProvider(cfg.RegistryURL, cfg.CACertificatePath, cfg.AllowPrivateRegistryIP)
	}
	if cfg != nil && cfg.RegistryFile != "" {
		return NewLocalRegistryProvider(cfg.RegistryFile)
	}
	return NewLocalRegistryProvider()
}

// GetDefaultProvider returns the process-wide provider instance, built
// from the default configuration on first use.
func GetDefaultProvider() (Provider, error) {
	return GetDefaultProviderWithConfig(config.NewDefaultProvider())
}

// GetDefaultProviderWithConfig returns the process-wide provider built
// from the given config provider. Tests use this to inject configuration.
func GetDefaultProviderWithConfig(configProvider config.Provider) (Provider, error) {
	defaultProviderOnce.Do(func() {
		cfg, err := configProvider.LoadOrCreateConfig()
		if err != nil {
			defaultProviderErr = err
			return
		}
		defaultProvider = NewRegistryProvider(cfg)
	})

	return defaultProvider, defaultProviderErr
}

// ResetDefaultProvider clears the cached default provider instance so the
// next GetDefaultProvider call rebuilds it with current configuration.
// The mutex is required because replacing a sync.Once is not itself
// thread-safe.
func ResetDefaultProvider() {
	defaultProviderMu.Lock()
	defer defaultProviderMu.Unlock()

	defaultProviderOnce = sync.Once{}
	defaultProvider = nil
	defaultProviderErr = nil
}
