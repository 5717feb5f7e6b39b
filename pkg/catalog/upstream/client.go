// SPDX-FileCopyrightText: Copyright 2025 Drydock Labs, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package upstream provides a client for the official MCP Registry API
// (registry.modelcontextprotocol.io and compatible deployments).
package upstream

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	v0 "github.com/modelcontextprotocol/registry/pkg/api/v0"
	"gopkg.in/yaml.v3"

	"github.com/drydocklabs/mcpdock/pkg/networking"
)

const (
	// defaultPageLimit is the page size requested when listing servers.
	defaultPageLimit = 100

	// maxServers bounds pagination so a misbehaving endpoint that keeps
	// returning cursors cannot loop forever.
	maxServers = 10000
)

// Client is an MCP Registry API client.
type Client interface {
	// GetServer retrieves a single server by its reverse-DNS name
	GetServer(ctx context.Context, name string) (*v0.ServerJSON, error)

	// ListServers retrieves all servers, following pagination cursors
	ListServers(ctx context.Context, opts *ListOptions) ([]*v0.ServerJSON, error)

	// SearchServers retrieves the servers matching the query string
	SearchServers(ctx context.Context, query string) ([]*v0.ServerJSON, error)

	// ValidateEndpoint checks that the endpoint speaks the MCP Registry API
	ValidateEndpoint(ctx context.Context) error
}

// ListOptions filters a ListServers call.
type ListOptions struct {
	// Limit is the page size (default 100)
	Limit int

	// UpdatedSince filters servers updated after this RFC3339 timestamp
	UpdatedSince string

	// Version filters servers by version (e.g. "latest")
	Version string
}

type registryClient struct {
	baseURL    string
	httpClient networking.HTTPClient
}

// NewClient creates a client for the registry API at baseURL. Requests go
// through a hardened HTTP client that refuses private upstream addresses
// unless allowPrivateIP is set. caCertPath may name an extra CA bundle;
// empty means system roots only.
func NewClient(baseURL, caCertPath string, allowPrivateIP bool) (Client, error) {
	httpClient, err := networking.NewHttpClientBuilder().
		WithCABundle(caCertPath).
		WithPrivateIPs(allowPrivateIP).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build HTTP client: %w", err)
	}

	return &registryClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
	}, nil
}

// NewClientWithHTTP creates a client that issues requests through the
// given HTTP client. Intended for tests and embedded use.
func NewClientWithHTTP(baseURL string, httpClient networking.HTTPClient) Client {
	return &registryClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (c *registryClient) GetServer(ctx context.Context, name string) (*v0.ServerJSON, error) {
	endpoint := fmt.Sprintf("%s/v0/servers/%s", c.baseURL, url.PathEscape(name))

	// Content-Type is not validated; self-hosted registries are not
	// uniformly careful about the header.
	result, err := networking.FetchJSON[v0.ServerResponse](ctx, c.httpClient, endpoint,
		networking.WithoutContentTypeValidation())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch server %s: %w", name, err)
	}

	return &result.Data.Server, nil
}

func (c *registryClient) ListServers(ctx context.Context, opts *ListOptions) ([]*v0.ServerJSON, error) {
	if opts == nil {
		opts = &ListOptions{}
	}
	limit := opts.Limit
	if limit == 0 {
		limit = defaultPageLimit
	}

	var all []*v0.ServerJSON
	cursor := ""

	for {
		params := url.Values{}
		params.Set("limit", strconv.Itoa(limit))
		if cursor != "" {
			params.Set("cursor", cursor)
		}
		if opts.UpdatedSince != "" {
			params.Set("updated_since", opts.UpdatedSince)
		}
		if opts.Version != "" {
			params.Set("version", opts.Version)
		}

		servers, nextCursor, err := c.fetchPage(ctx, fmt.Sprintf("%s/v0/servers?%s", c.baseURL, params.Encode()))
		if err != nil {
			return nil, err
		}
		all = append(all, servers...)

		if nextCursor == "" {
			return all, nil
		}
		if len(all) > maxServers {
			return nil, fmt.Errorf("exceeded maximum server limit (%d)", maxServers)
		}
		cursor = nextCursor
	}
}

func (c *registryClient) SearchServers(ctx context.Context, query string) ([]*v0.ServerJSON, error) {
	endpoint := fmt.Sprintf("%s/v0/servers?search=%s", c.baseURL, url.QueryEscape(query))
	servers, _, err := c.fetchPage(ctx, endpoint)
	return servers, err
}

// ValidateEndpoint fetches /openapi.yaml and checks it declares an info
// section with a version. The exact version is not pinned; compatible
// deployments may run ahead of the reference registry.
func (c *registryClient) ValidateEndpoint(ctx context.Context) error {
	body, err := c.get(ctx, fmt.Sprintf("%s/openapi.yaml", c.baseURL))
	if err != nil {
		return fmt.Errorf("not a valid MCP Registry API: %w", err)
	}

	var spec struct {
		Info struct {
			Version string `yaml:"version"`
		} `yaml:"info"`
	}
	if err := yaml.Unmarshal(body, &spec); err != nil {
		return fmt.Errorf("failed to parse /openapi.yaml: %w", err)
	}
	if spec.Info.Version == "" {
		return fmt.Errorf("/openapi.yaml missing info version, not a valid MCP Registry API")
	}

	return nil
}

// fetchPage retrieves one page of servers and the cursor for the next.
func (c *registryClient) fetchPage(ctx context.Context, endpoint string) ([]*v0.ServerJSON, string, error) {
	result, err := networking.FetchJSON[v0.ServerListResponse](ctx, c.httpClient, endpoint,
		networking.WithoutContentTypeValidation())
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch servers: %w", err)
	}

	servers := make([]*v0.ServerJSON, len(result.Data.Servers))
	for i := range result.Data.Servers {
		servers[i] = &result.Data.Servers[i].Server
	}

	return servers, result.Data.Metadata.NextCursor, nil
}

func (c *registryClient) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, networking.DefaultMaxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		preview := string(body)
		if len(preview) > networking.DefaultErrorPreviewSize {
			preview = preview[:networking.DefaultErrorPreviewSize]
		}
		return nil, &networking.HTTPError{StatusCode: resp.StatusCode, Body: preview, URL: endpoint}
	}

	return body, nil
}
