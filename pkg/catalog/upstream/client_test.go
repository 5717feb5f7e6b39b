package upstream

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drydocklabs/mcpdock/pkg/networking"
)

// recordingServer wraps httptest.Server and records every request URI it
// serves so tests can assert on paths and query parameters.
type recordingServer struct {
	srv *httptest.Server

	mu   sync.Mutex
	uris []string
}

func newRecordingServer(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) *recordingServer {
	t.Helper()
	rec := &recordingServer{}
	rec.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.mu.Lock()
		rec.uris = append(rec.uris, r.URL.RequestURI())
		rec.mu.Unlock()
		handler(w, r)
	}))
	t.Cleanup(rec.srv.Close)
	return rec
}

func (rec *recordingServer) client() Client {
	return NewClientWithHTTP(rec.srv.URL, rec.srv.Client())
}

func (rec *recordingServer) requests() []string {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return append([]string(nil), rec.uris...)
}

func TestGetServer(t *testing.T) {
	t.Parallel()

	rec := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.EscapedPath() != "/v0/servers/io.github.example%2Ffs" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `{
			"server": {
				"name": "io.github.example/fs",
				"description": "Filesystem access",
				"version": "1.2.0"
			}
		}`)
	})

	server, err := rec.client().GetServer(context.Background(), "io.github.example/fs")
	require.NoError(t, err)

	assert.Equal(t, "io.github.example/fs", server.Name)
	assert.Equal(t, "Filesystem access", server.Description)
	assert.Equal(t, "1.2.0", server.Version)
}

func TestGetServerNotFound(t *testing.T) {
	t.Parallel()

	rec := newRecordingServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"error": "server not found"}`)
	})

	_, err := rec.client().GetServer(context.Background(), "io.github.example/missing")
	require.Error(t, err)
	assert.True(t, networking.IsHTTPError(err, http.StatusNotFound), "expected a 404 HTTP error, got %v", err)
}

func TestListServersFollowsPagination(t *testing.T) {
	t.Parallel()

	rec := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("cursor") {
		case "":
			fmt.Fprint(w, `{
				"servers": [
					{"server": {"name": "io.github.example/one", "description": "First"}},
					{"server": {"name": "io.github.example/two", "description": "Second"}}
				],
				"metadata": {"nextCursor": "page-2", "count": 2}
			}`)
		case "page-2":
			fmt.Fprint(w, `{
				"servers": [
					{"server": {"name": "io.github.example/three", "description": "Third"}}
				],
				"metadata": {"count": 1}
			}`)
		default:
			http.Error(w, "unexpected cursor", http.StatusBadRequest)
		}
	})

	servers, err := rec.client().ListServers(context.Background(), nil)
	require.NoError(t, err)

	require.Len(t, servers, 3)
	assert.Equal(t, "io.github.example/one", servers[0].Name)
	assert.Equal(t, "io.github.example/three", servers[2].Name)

	requests := rec.requests()
	require.Len(t, requests, 2)
	assert.Contains(t, requests[0], "limit=100")
	assert.Contains(t, requests[1], "cursor=page-2")
}

func TestListServersOptions(t *testing.T) {
	t.Parallel()

	rec := newRecordingServer(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"servers": [], "metadata": {"count": 0}}`)
	})

	opts := &ListOptions{
		Limit:        25,
		UpdatedSince: "2025-01-01T00:00:00Z",
		Version:      "latest",
	}
	servers, err := rec.client().ListServers(context.Background(), opts)
	require.NoError(t, err)
	assert.Empty(t, servers)

	requests := rec.requests()
	require.Len(t, requests, 1)
	assert.Contains(t, requests[0], "limit=25")
	assert.Contains(t, requests[0], "updated_since=2025-01-01T00%3A00%3A00Z")
	assert.Contains(t, requests[0], "version=latest")
}

func TestListServersServerError(t *testing.T) {
	t.Parallel()

	rec := newRecordingServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := rec.client().ListServers(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, networking.IsHTTPError(err, http.StatusInternalServerError))
}

func TestSearchServers(t *testing.T) {
	t.Parallel()

	rec := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("search") != "filesystem" {
			fmt.Fprint(w, `{"servers": [], "metadata": {"count": 0}}`)
			return
		}
		fmt.Fprint(w, `{
			"servers": [
				{"server": {"name": "io.github.example/fs", "description": "Filesystem access"}}
			],
			"metadata": {"count": 1}
		}`)
	})

	servers, err := rec.client().SearchServers(context.Background(), "filesystem")
	require.NoError(t, err)

	require.Len(t, servers, 1)
	assert.Equal(t, "io.github.example/fs", servers[0].Name)
}

func TestValidateEndpoint(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		handler     func(w http.ResponseWriter, r *http.Request)
		expectError bool
	}{
		{
			name: "valid registry endpoint",
			handler: func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/openapi.yaml" {
					http.NotFound(w, r)
					return
				}
				fmt.Fprint(w, "openapi: 3.1.0\ninfo:\n  title: MCP Registry\n  version: 1.0.0\n")
			},
			expectError: false,
		},
		{
			name: "openapi document without info version",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				fmt.Fprint(w, "openapi: 3.1.0\ninfo:\n  title: Something Else\n")
			},
			expectError: true,
		},
		{
			name: "endpoint without openapi document",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.NotFound(w, r)
			},
			expectError: true,
		},
		{
			name: "openapi document is not yaml",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				fmt.Fprint(w, "{{{ not yaml")
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := newRecordingServer(t, tt.handler)
			err := rec.client().ValidateEndpoint(context.Background())

			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
