package catalog

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drydocklabs/mcpdock/pkg/catalog/upstream"
)

func newUpstreamTestProvider(t *testing.T, handler http.HandlerFunc) *UpstreamRegistryProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := upstream.NewClientWithHTTP(srv.URL, srv.Client())
	return NewUpstreamRegistryProviderWithClient(srv.URL, client)
}

func TestUpstreamProviderGetRegistrySkipsRemoteOnlyServers(t *testing.T) {
	t.Parallel()

	provider := newUpstreamTestProvider(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{
			"servers": [
				{
					"server": {
						"name": "io.github.example/fs",
						"description": "Filesystem access",
						"version": "1.0.0",
						"packages": [
							{"registryType": "npm", "identifier": "@example/server-fs", "version": "1.0.0"}
						]
					}
				},
				{
					"server": {
						"name": "io.github.example/hosted",
						"description": "Hosted only",
						"version": "2.0.0",
						"remotes": [
							{"type": "streamable-http", "url": "https://mcp.example.com"}
						]
					}
				}
			],
			"metadata": {"count": 2}
		}`)
	})

	reg, err := provider.GetRegistry()
	require.NoError(t, err)

	require.Len(t, reg.Servers, 1)
	assert.Equal(t, "io.github.example/fs", reg.Servers[0].ID)
	assert.Equal(t, "npx", reg.Servers[0].Installation.Command)
	assert.NotEmpty(t, reg.LastUpdated)
}

func TestUpstreamProviderGetServer(t *testing.T) {
	t.Parallel()

	provider := newUpstreamTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.EscapedPath() != "/v0/servers/io.github.example%2Ffs" {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"error": "not found"}`)
			return
		}
		fmt.Fprint(w, `{
			"server": {
				"name": "io.github.example/fs",
				"title": "Filesystem",
				"description": "Filesystem access",
				"version": "1.0.0",
				"packages": [
					{"registryType": "npm", "identifier": "@example/server-fs"}
				]
			}
		}`)
	})

	server, err := provider.GetServer("io.github.example/fs")
	require.NoError(t, err)
	assert.Equal(t, "Filesystem", server.Name)
	assert.Equal(t, "upstream", server.Type)

	_, err = provider.GetServer("io.github.example/missing")
	assert.ErrorIs(t, err, ErrServerNotFound)
}

func TestUpstreamProviderSearchServers(t *testing.T) {
	t.Parallel()

	provider := newUpstreamTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "fs", r.URL.Query().Get("search"))
		fmt.Fprint(w, `{
			"servers": [
				{
					"server": {
						"name": "io.github.example/fs",
						"description": "Filesystem access",
						"packages": [
							{"registryType": "pypi", "identifier": "mcp-server-fs"}
						]
					}
				}
			],
			"metadata": {"count": 1}
		}`)
	})

	results, err := provider.SearchServers("fs")
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, "uvx", results[0].Installation.Command)
}
