// SPDX-FileCopyrightText: Copyright 2025 Drydock Labs, Inc.
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/drydocklabs/mcpdock/pkg/logger"
	"github.com/drydocklabs/mcpdock/pkg/networking"
)

const (
	// DefaultCacheTTL is how long a fetched registry snapshot stays fresh.
	DefaultCacheTTL = 5 * time.Minute

	// maxRegistrySize caps the registry response body (10MB).
	maxRegistrySize = 10 * 1024 * 1024

	// emptyRegistryVersion is the version stamped on synthesized empty
	// registries returned when no data was ever fetched.
	emptyRegistryVersion = "1.0.0"
)

// Outcome classifies how a ServersData call was served.
type Outcome string

// Outcome values reported to the outcome hook.
const (
	// OutcomeFresh means the snapshot was served from a cache within TTL.
	OutcomeFresh Outcome = "fresh"
	// OutcomeRefreshed means a fetch succeeded and replaced the cache.
	OutcomeRefreshed Outcome = "refreshed"
	// OutcomeStale means a fetch failed and an expired snapshot was served.
	OutcomeStale Outcome = "stale"
	// OutcomeEmpty means a fetch failed with nothing cached, so a
	// synthesized empty registry was served.
	OutcomeEmpty Outcome = "empty"
)

// Cache serves registry snapshots from memory, refreshing over HTTP when
// the TTL lapses. ServersData never fails: a failed refresh falls back to
// the previous snapshot, or to an empty registry when nothing was ever
// fetched. Cache state lives for the process lifetime only.
type Cache struct {
	registryURL string
	ttl         time.Duration
	client      networking.HTTPClient
	now         func() time.Time
	onOutcome   func(Outcome)

	// mu guards the three fields below. cachedData and cacheTimestamp
	// are only ever written together.
	mu             sync.RWMutex
	cachedData     *RegistryData
	cacheTimestamp time.Time
	lastErr        error
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithTTL overrides the freshness window.
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *Cache) {
		c.ttl = ttl
	}
}

// WithHTTPClient substitutes the HTTP client used for fetches.
func WithHTTPClient(client networking.HTTPClient) CacheOption {
	return func(c *Cache) {
		c.client = client
	}
}

// WithClock substitutes the time source. Tests use this to expire the
// cache without sleeping.
func WithClock(now func() time.Time) CacheOption {
	return func(c *Cache) {
		c.now = now
	}
}

// WithOutcomeFunc registers a hook invoked with the outcome of every
// ServersData call. Used to feed metrics.
func WithOutcomeFunc(fn func(Outcome)) CacheOption {
	return func(c *Cache) {
		c.onOutcome = fn
	}
}

// NewCache creates a cache over the registry document at registryURL.
// The URL is fixed at construction; callers decide between production
// and development locations, not the cache.
func NewCache(registryURL string, opts ...CacheOption) *Cache {
	c := &Cache{
		registryURL: registryURL,
		ttl:         DefaultCacheTTL,
		client:      &http.Client{Timeout: networking.HttpTimeout},
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ServersData returns a usable registry snapshot, never an error.
//
// A cached snapshot younger than the TTL is returned without network I/O.
// Otherwise the registry is fetched; on success the cache is replaced and
// the new snapshot returned. On any failure (transport error, non-2xx
// status, malformed JSON, missing servers array) the previous snapshot is
// returned if one exists, else an empty registry. Failed refreshes never
// invalidate cached data; the cause is available from LastError.
//
// The fetch happens outside the lock, so concurrent callers that observe
// an expired cache may fetch the same document twice. That duplication is
// accepted; the lock exists to keep cachedData and cacheTimestamp
// consistent, not to serialize refreshes.
func (c *Cache) ServersData() *RegistryData {
	c.mu.RLock()
	cached := c.cachedData
	age := c.now().Sub(c.cacheTimestamp)
	c.mu.RUnlock()

	if cached != nil && age < c.ttl {
		c.report(OutcomeFresh)
		return cached
	}

	fetched, err := c.Refresh()
	if err == nil {
		c.report(OutcomeRefreshed)
		return fetched
	}

	logger.Warnf("Failed to refresh registry from %s: %v", c.registryURL, err)

	c.mu.RLock()
	stale := c.cachedData
	c.mu.RUnlock()
	if stale != nil {
		c.report(OutcomeStale)
		return stale
	}

	c.report(OutcomeEmpty)
	return &RegistryData{
		Version:     emptyRegistryVersion,
		LastUpdated: c.now().UTC().Format(time.RFC3339),
		Servers:     []MCPServer{},
	}
}

// Refresh fetches the registry immediately, bypassing the TTL. On success
// the cached snapshot and its timestamp are replaced together under a
// single lock acquisition. On failure the cache is left untouched.
func (c *Cache) Refresh() (*RegistryData, error) {
	fetched, err := c.fetch()
	if err != nil {
		c.mu.Lock()
		c.lastErr = err
		c.mu.Unlock()
		return nil, err
	}

	c.mu.Lock()
	c.cachedData = fetched
	c.cacheTimestamp = c.now()
	c.lastErr = nil
	c.mu.Unlock()
	return fetched, nil
}

// LastError returns the error from the most recent failed fetch, or nil
// if the last fetch succeeded. It lets callers inspect why ServersData
// fell back without changing its never-fails contract.
func (c *Cache) LastError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastErr
}

func (c *Cache) fetch() (*RegistryData, error) {
	req, err := http.NewRequest(http.MethodGet, c.registryURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create registry request: %w", err)
	}
	req.Header.Set("Accept", networking.ContentTypeJSON)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch registry from %s: %w", c.registryURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRegistrySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read registry response: %w", err)
	}

	// Any 2xx counts as success. Registries are frequently served from
	// raw file hosts, so the Content-Type header is deliberately ignored.
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		preview := string(body)
		if len(preview) > networking.DefaultErrorPreviewSize {
			preview = preview[:networking.DefaultErrorPreviewSize]
		}
		return nil, &networking.HTTPError{
			StatusCode: resp.StatusCode,
			Body:       preview,
			URL:        c.registryURL,
		}
	}

	return ParseRegistryData(body)
}

func (c *Cache) report(outcome Outcome) {
	if c.onOutcome != nil {
		c.onOutcome(outcome)
	}
}
