package installer

import (
	"context"
	"fmt"
	"sort"

	mcpclient "github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/drydocklabs/mcpdock/pkg/catalog"
	"github.com/drydocklabs/mcpdock/pkg/logger"
	"github.com/drydocklabs/mcpdock/pkg/versions"
)

// VerifyResult describes what a server reported during the probe handshake.
type VerifyResult struct {
	ServerName    string   `json:"server_name"`
	ServerVersion string   `json:"server_version"`
	Tools         []string `json:"tools,omitempty"`
}

// Verify launches the server's resolved command as a stdio subprocess, runs
// the MCP initialize handshake, and lists its tools. The subprocess is shut
// down when the probe returns. Callers should bound ctx; a server that
// never answers the handshake would otherwise hold the probe open.
func (i *Installer) Verify(ctx context.Context, server *catalog.MCPServer, params map[string]string) (*VerifyResult, error) {
	entry, err := BuildServerEntry(server, params)
	if err != nil {
		return nil, err
	}

	probe, err := mcpclient.NewStdioMCPClient(entry.Command, envSlice(entry.Env), entry.Args...)
	if err != nil {
		return nil, fmt.Errorf("failed to launch %s: %w", entry.Command, err)
	}
	defer func() {
		if err := probe.Close(); err != nil {
			logger.Debugf("failed to close verification probe: %v", err)
		}
	}()

	initRequest := mcp.InitializeRequest{}
	initRequest.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initRequest.Params.Capabilities = mcp.ClientCapabilities{}
	initRequest.Params.ClientInfo = mcp.Implementation{
		Name:    "mcpdock",
		Version: versions.Version,
	}

	initResult, err := probe.Initialize(ctx, initRequest)
	if err != nil {
		return nil, fmt.Errorf("initialize handshake with %s failed: %w", server.ID, err)
	}

	result := &VerifyResult{
		ServerName:    initResult.ServerInfo.Name,
		ServerVersion: initResult.ServerInfo.Version,
	}

	toolsResult, err := probe.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		// Not every server implements tools/list; a completed handshake
		// already proves the command starts and speaks MCP.
		logger.Debugf("tools listing failed while verifying %s: %v", server.ID, err)
		return result, nil
	}

	for _, tool := range toolsResult.Tools {
		result.Tools = append(result.Tools, tool.Name)
	}
	sort.Strings(result.Tools)

	return result, nil
}

// envSlice converts an env map into the KEY=VALUE form handed to the
// subprocess, sorted for stable ordering.
func envSlice(env map[string]string) []string {
	out := make([]string, 0, len(env))
	for key, value := range env {
		out = append(out, key+"="+value)
	}
	sort.Strings(out)
	return out
}
