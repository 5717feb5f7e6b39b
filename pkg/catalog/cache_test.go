// SPDX-FileCopyrightText: Copyright 2025 Drydock Labs, Inc.
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drydocklabs/mcpdock/pkg/networking"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

// stubRegistry is an httptest server with a swappable response and a
// request counter.
type stubRegistry struct {
	srv *httptest.Server

	mu     sync.Mutex
	status int
	body   string
	hits   int
}

func newStubRegistry(t *testing.T, body string) *stubRegistry {
	t.Helper()
	s := &stubRegistry{status: http.StatusOK, body: body}
	s.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		s.mu.Lock()
		s.hits++
		status, body := s.status, s.body
		s.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(s.srv.Close)
	return s
}

func (s *stubRegistry) URL() string {
	return s.srv.URL
}

func (s *stubRegistry) Hits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits
}

func (s *stubRegistry) Respond(status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
	s.body = body
}

func registryBody(version string, ids ...string) string {
	servers := ""
	for i, id := range ids {
		if i > 0 {
			servers += ","
		}
		servers += fmt.Sprintf(`{"id":%q,"name":%q,"description":"test server"}`, id, id)
	}
	return fmt.Sprintf(`{"version":%q,"lastUpdated":"2025-06-01T00:00:00Z","servers":[%s]}`, version, servers)
}

func serverIDs(data *RegistryData) []string {
	ids := make([]string, 0, len(data.Servers))
	for i := range data.Servers {
		ids = append(ids, data.Servers[i].ID)
	}
	return ids
}

func TestNewCacheDefaults(t *testing.T) {
	t.Parallel()

	c := NewCache("https://registry.example.com/api/registry")
	assert.Equal(t, DefaultCacheTTL, c.ttl)
	assert.NotNil(t, c.client)
	assert.NotNil(t, c.now)
	assert.NoError(t, c.LastError())
}

func TestServersDataFreshCacheShortCircuits(t *testing.T) {
	t.Parallel()

	stub := newStubRegistry(t, registryBody("2.0.0", "server-a", "server-b"))
	clock := newFakeClock()
	c := NewCache(stub.URL(),
		WithHTTPClient(stub.srv.Client()),
		WithClock(clock.Now),
		WithTTL(5*time.Minute),
	)

	first := c.ServersData()
	require.Equal(t, []string{"server-a", "server-b"}, serverIDs(first))
	require.Equal(t, 1, stub.Hits())

	// Within TTL every call is served from memory, even if the remote
	// document has changed.
	stub.Respond(http.StatusOK, registryBody("3.0.0", "server-c"))
	clock.Advance(5*time.Minute - time.Second)

	second := c.ServersData()
	assert.Equal(t, "2.0.0", second.Version)
	assert.Equal(t, []string{"server-a", "server-b"}, serverIDs(second))
	assert.Equal(t, 1, stub.Hits())
}

func TestServersDataExpiryTriggersSingleRefetch(t *testing.T) {
	t.Parallel()

	stub := newStubRegistry(t, registryBody("2.0.0", "server-a", "server-b"))
	clock := newFakeClock()
	c := NewCache(stub.URL(),
		WithHTTPClient(stub.srv.Client()),
		WithClock(clock.Now),
		WithTTL(5*time.Minute),
	)

	c.ServersData()
	require.Equal(t, 1, stub.Hits())

	stub.Respond(http.StatusOK, registryBody("2.1.0", "server-a", "server-b", "server-c"))
	clock.Advance(5*time.Minute + time.Second)

	refreshed := c.ServersData()
	assert.Equal(t, "2.1.0", refreshed.Version)
	assert.Equal(t, []string{"server-a", "server-b", "server-c"}, serverIDs(refreshed))
	assert.Equal(t, 2, stub.Hits())

	// The refetch reset the TTL window.
	c.ServersData()
	assert.Equal(t, 2, stub.Hits())
}

func TestServersDataStaleFallbackPreservesSnapshot(t *testing.T) {
	t.Parallel()

	stub := newStubRegistry(t, registryBody("2.0.0", "server-a", "server-b"))
	clock := newFakeClock()
	c := NewCache(stub.URL(),
		WithHTTPClient(stub.srv.Client()),
		WithClock(clock.Now),
		WithTTL(5*time.Minute),
	)

	c.ServersData()
	require.Equal(t, 1, stub.Hits())

	stub.Respond(http.StatusInternalServerError, "upstream exploded")
	clock.Advance(10 * time.Minute)

	stale := c.ServersData()
	assert.Equal(t, []string{"server-a", "server-b"}, serverIDs(stale))
	assert.Equal(t, "2.0.0", stale.Version)
	assert.Equal(t, 2, stub.Hits())
	assert.True(t, networking.IsHTTPError(c.LastError(), http.StatusInternalServerError))

	// A failed refresh does not reset the TTL window, so the next call
	// tries the network again and falls back again.
	again := c.ServersData()
	assert.Equal(t, []string{"server-a", "server-b"}, serverIDs(again))
	assert.Equal(t, 3, stub.Hits())
}

func TestServersDataEmptyFallbackOnFirstFailure(t *testing.T) {
	t.Parallel()

	stub := newStubRegistry(t, "upstream exploded")
	stub.Respond(http.StatusBadGateway, "upstream exploded")
	clock := newFakeClock()
	c := NewCache(stub.URL(),
		WithHTTPClient(stub.srv.Client()),
		WithClock(clock.Now),
	)

	data := c.ServersData()
	require.NotNil(t, data)
	assert.Equal(t, "1.0.0", data.Version)
	assert.Equal(t, clock.Now().UTC().Format(time.RFC3339), data.LastUpdated)
	assert.NotNil(t, data.Servers)
	assert.Empty(t, data.Servers)
	assert.True(t, networking.IsHTTPError(c.LastError(), http.StatusBadGateway))
}

func TestServersDataEmptyFallbackOnTransportError(t *testing.T) {
	t.Parallel()

	stub := newStubRegistry(t, registryBody("1.0.0"))
	url := stub.URL()
	stub.srv.Close()

	c := NewCache(url)

	data := c.ServersData()
	require.NotNil(t, data)
	assert.Empty(t, data.Servers)
	assert.Error(t, c.LastError())
}

func TestServersDataShapeValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{name: "missing servers field", body: `{"version":"2.0.0","lastUpdated":"2025-06-01T00:00:00Z"}`},
		{name: "null servers", body: `{"version":"2.0.0","servers":null}`},
		{name: "object servers", body: `{"version":"2.0.0","servers":{"server-a":{}}}`},
		{name: "string servers", body: `{"version":"2.0.0","servers":"server-a"}`},
		{name: "malformed json", body: `{"version":"2.0.0","servers":[`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			stub := newStubRegistry(t, registryBody("2.0.0", "server-a"))
			clock := newFakeClock()
			c := NewCache(stub.URL(),
				WithHTTPClient(stub.srv.Client()),
				WithClock(clock.Now),
			)

			// Prime the cache, then serve the malformed document with a
			// 200 status. It must be treated exactly like a fetch failure.
			c.ServersData()
			stub.Respond(http.StatusOK, tt.body)
			clock.Advance(DefaultCacheTTL + time.Second)

			data := c.ServersData()
			assert.Equal(t, []string{"server-a"}, serverIDs(data))
			assert.Equal(t, 2, stub.Hits())
			assert.Error(t, c.LastError())
		})
	}
}

func TestServersDataShapeFailureWithoutCache(t *testing.T) {
	t.Parallel()

	stub := newStubRegistry(t, `{"version":"2.0.0","lastUpdated":"2025-06-01T00:00:00Z"}`)
	c := NewCache(stub.URL(), WithHTTPClient(stub.srv.Client()))

	data := c.ServersData()
	assert.Equal(t, "1.0.0", data.Version)
	assert.Empty(t, data.Servers)
	assert.ErrorIs(t, c.LastError(), ErrMissingServers)
}

func TestServersDataAtomicReplace(t *testing.T) {
	t.Parallel()

	// Every response pairs a version with a matching server id, so a
	// torn snapshot (new version, old servers) is detectable.
	var (
		mu  sync.Mutex
		gen int
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		mu.Lock()
		gen++
		n := gen
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"version":"gen-%d","lastUpdated":"2025-06-01T00:00:00Z","servers":[{"id":"server-%d"}]}`, n, n)
	}))
	t.Cleanup(srv.Close)

	// TTL zero keeps every call on the refresh path.
	c := NewCache(srv.URL, WithHTTPClient(srv.Client()), WithTTL(0))

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 25 {
				data := c.ServersData()
				if !assert.Len(t, data.Servers, 1) {
					return
				}
				want := fmt.Sprintf("server-%s", data.Version[len("gen-"):])
				assert.Equal(t, want, data.Servers[0].ID)
			}
		}()
	}
	wg.Wait()
}

func TestCacheOutcomes(t *testing.T) {
	t.Parallel()

	var (
		mu       sync.Mutex
		outcomes []Outcome
	)
	record := func(o Outcome) {
		mu.Lock()
		defer mu.Unlock()
		outcomes = append(outcomes, o)
	}

	stub := newStubRegistry(t, "nope")
	stub.Respond(http.StatusNotFound, "nope")
	clock := newFakeClock()
	c := NewCache(stub.URL(),
		WithHTTPClient(stub.srv.Client()),
		WithClock(clock.Now),
		WithOutcomeFunc(record),
	)

	c.ServersData() // nothing cached, fetch fails
	stub.Respond(http.StatusOK, registryBody("2.0.0", "server-a"))
	c.ServersData() // fetch succeeds
	c.ServersData() // served from memory
	clock.Advance(DefaultCacheTTL + time.Second)
	stub.Respond(http.StatusInternalServerError, "boom")
	c.ServersData() // fetch fails, snapshot preserved

	assert.Equal(t, []Outcome{OutcomeEmpty, OutcomeRefreshed, OutcomeFresh, OutcomeStale}, outcomes)
}

func TestRefresh(t *testing.T) {
	t.Parallel()

	stub := newStubRegistry(t, registryBody("2.0.0", "server-a"))
	clock := newFakeClock()
	c := NewCache(stub.URL(),
		WithHTTPClient(stub.srv.Client()),
		WithClock(clock.Now),
	)

	data, err := c.Refresh()
	require.NoError(t, err)
	assert.Equal(t, []string{"server-a"}, serverIDs(data))

	// Refresh bypasses the TTL.
	stub.Respond(http.StatusOK, registryBody("2.1.0", "server-a", "server-b"))
	data, err = c.Refresh()
	require.NoError(t, err)
	assert.Equal(t, "2.1.0", data.Version)
	assert.Equal(t, 2, stub.Hits())
	assert.NoError(t, c.LastError())

	// A failed refresh reports the error and leaves the snapshot alone.
	stub.Respond(http.StatusServiceUnavailable, "down")
	_, err = c.Refresh()
	require.Error(t, err)
	assert.Error(t, c.LastError())
	assert.Equal(t, "2.1.0", c.ServersData().Version)

	// The next successful refresh clears the recorded error.
	stub.Respond(http.StatusOK, registryBody("2.2.0", "server-a"))
	_, err = c.Refresh()
	require.NoError(t, err)
	assert.NoError(t, c.LastError())
}

func TestParseRegistryData(t *testing.T) {
	t.Parallel()

	t.Run("valid document", func(t *testing.T) {
		t.Parallel()

		data, err := ParseRegistryData([]byte(registryBody("2.0.0", "server-a", "server-b")))
		require.NoError(t, err)
		assert.Equal(t, "2.0.0", data.Version)
		assert.Equal(t, "2025-06-01T00:00:00Z", data.LastUpdated)
		assert.Len(t, data.Servers, 2)
	})

	t.Run("empty servers array is valid", func(t *testing.T) {
		t.Parallel()

		data, err := ParseRegistryData([]byte(`{"version":"2.0.0","servers":[]}`))
		require.NoError(t, err)
		assert.NotNil(t, data.Servers)
		assert.Empty(t, data.Servers)
	})

	t.Run("unknown entry fields pass through", func(t *testing.T) {
		t.Parallel()

		doc := `{"version":"2.0.0","servers":[{"id":"server-a","futureField":{"nested":true},"parameters":{"api_key":{"type":"made_up_type"}}}]}`
		data, err := ParseRegistryData([]byte(doc))
		require.NoError(t, err)
		require.Len(t, data.Servers, 1)
		assert.Equal(t, "server-a", data.Servers[0].ID)
		assert.Equal(t, "made_up_type", data.Servers[0].Parameters["api_key"].Type)
	})

	t.Run("missing servers", func(t *testing.T) {
		t.Parallel()

		_, err := ParseRegistryData([]byte(`{"version":"2.0.0"}`))
		assert.ErrorIs(t, err, ErrMissingServers)
	})

	t.Run("non-array servers", func(t *testing.T) {
		t.Parallel()

		_, err := ParseRegistryData([]byte(`{"version":"2.0.0","servers":{}}`))
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrMissingServers)
	})

	t.Run("invalid json", func(t *testing.T) {
		t.Parallel()

		_, err := ParseRegistryData([]byte(`registry? what registry`))
		assert.Error(t, err)
	})
}
