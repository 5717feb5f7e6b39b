// Package deeplink renders one-click install links for MCP clients that
// register a URL scheme for adding servers.
package deeplink

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/pkg/browser"

	"github.com/drydocklabs/mcpdock/pkg/client"
)

// cursorDeeplinkBase is the URL prefix handled by Cursor's deeplink
// extension.
const cursorDeeplinkBase = "cursor://anysphere.cursor-deeplink/mcp/install"

// CursorInstallLink returns a cursor:// link that installs the given server
// entry. Cursor expects the entry JSON base64-encoded in the config query
// parameter.
func CursorInstallLink(serverID string, entry client.MCPServerEntry) (string, error) {
	cfg, err := json.Marshal(entry)
	if err != nil {
		return "", fmt.Errorf("failed to serialize server entry: %w", err)
	}

	query := url.Values{}
	query.Set("name", serverID)
	query.Set("config", base64.StdEncoding.EncodeToString(cfg))

	return cursorDeeplinkBase + "?" + query.Encode(), nil
}

// vscodePayload is the install payload VS Code parses out of the link.
type vscodePayload struct {
	Name string `json:"name"`
	client.MCPServerEntry
}

// VSCodeInstallLink returns a vscode: link that installs the given server
// entry. VS Code expects the URL-encoded entry JSON directly after the
// question mark.
func VSCodeInstallLink(serverID string, entry client.MCPServerEntry) (string, error) {
	return vscodeLink("vscode", serverID, entry)
}

// VSCodeInsidersInstallLink returns the Insiders variant of the VS Code
// install link.
func VSCodeInsidersInstallLink(serverID string, entry client.MCPServerEntry) (string, error) {
	return vscodeLink("vscode-insiders", serverID, entry)
}

func vscodeLink(scheme string, serverID string, entry client.MCPServerEntry) (string, error) {
	data, err := json.Marshal(vscodePayload{Name: serverID, MCPServerEntry: entry})
	if err != nil {
		return "", fmt.Errorf("failed to serialize server entry: %w", err)
	}
	return scheme + ":mcp/install?" + url.QueryEscape(string(data)), nil
}

// Open launches the link with the operating system's URL handler.
func Open(link string) error {
	return browser.OpenURL(link)
}
