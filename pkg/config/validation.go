package config

import (
	"encoding/json"
	"fmt"
	neturl "net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/drydocklabs/mcpdock/pkg/networking"
)

// validateLocalRegistryFile checks that path names a readable JSON document
// and returns it as a cleaned absolute path. The stored path must keep
// working when commands later run from other directories.
func validateLocalRegistryFile(path string) (string, error) {
	cleanPath := filepath.Clean(path)

	if _, err := os.Stat(cleanPath); err != nil {
		return "", fmt.Errorf("file not found or not accessible: %w", err)
	}

	if !strings.EqualFold(filepath.Ext(cleanPath), ".json") {
		return "", fmt.Errorf("file must be a JSON file (*.json)")
	}

	// #nosec G304: path cleaned above
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	// Top-level must be an object; the full document shape is checked at
	// load time by the registry parser.
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return "", fmt.Errorf("invalid JSON format: %w", err)
	}

	absPath, err := filepath.Abs(cleanPath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path: %w", err)
	}
	return absPath, nil
}

// validateURLScheme parses rawURL and enforces HTTPS. allowInsecure admits
// plain HTTP as well, for registries on private or development hosts.
func validateURLScheme(rawURL string, allowInsecure bool) (*neturl.URL, error) {
	parsedURL, err := neturl.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL format: %w", err)
	}

	switch {
	case parsedURL.Scheme == networking.HttpsScheme:
	case parsedURL.Scheme == networking.HttpScheme && allowInsecure:
	default:
		if allowInsecure {
			return nil, fmt.Errorf("URL must start with http:// or https://")
		}
		return nil, fmt.Errorf("URL must start with %s://", networking.HttpsScheme)
	}

	return parsedURL, nil
}
