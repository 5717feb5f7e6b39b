package client

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/drydocklabs/mcpdock/pkg/config"
)

// MCPClientStatus represents the status of a supported MCP client
type MCPClientStatus struct {
	// ClientType is the type of MCP client
	ClientType MCPClient `json:"client_type"`

	// Description is a human-readable name of the client
	Description string `json:"description"`

	// Installed indicates whether the client is installed on the system
	Installed bool `json:"installed"`

	// Registered indicates whether the client is registered in the
	// application configuration
	Registered bool `json:"registered"`
}

// GetClientStatus returns the installation status of all supported MCP
// clients, using the default configuration.
func GetClientStatus() ([]MCPClientStatus, error) {
	return GetClientStatusWithConfig(config.NewDefaultProvider())
}

// GetClientStatusWithConfig returns the installation status of all
// supported MCP clients, reading registrations from the given provider.
func GetClientStatusWithConfig(configProvider config.Provider) ([]MCPClientStatus, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	appConfig, err := configProvider.LoadOrCreateConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	registeredClients := make(map[string]bool, len(appConfig.Clients.RegisteredClients))
	for _, name := range appConfig.Clients.RegisteredClients {
		registeredClients[name] = true
	}

	var statuses []MCPClientStatus
	for _, cfg := range supportedClientIntegrations {
		status := MCPClientStatus{
			ClientType:  cfg.ClientType,
			Description: cfg.Description,
			Registered:  registeredClients[string(cfg.ClientType)],
		}

		// A client counts as installed when its settings directory
		// exists. Clients whose settings file sits directly in the home
		// directory are checked by file instead.
		var pathToCheck string
		if len(cfg.RelPath) == 0 {
			pathToCheck = filepath.Join(home, cfg.SettingsFile)
		} else {
			pathToCheck = buildConfigDirectoryPath(cfg.RelPath, cfg.PlatformPrefix, []string{home})
		}

		if _, err := os.Stat(pathToCheck); err == nil {
			status.Installed = true
		}

		statuses = append(statuses, status)
	}

	sort.Slice(statuses, func(i, j int) bool {
		return statuses[i].ClientType < statuses[j].ClientType
	})

	return statuses, nil
}

func buildConfigDirectoryPath(relPath []string, platformPrefix map[string][]string, path []string) string {
	if prefix, ok := platformPrefix[runtime.GOOS]; ok {
		path = append(path, prefix...)
	}
	path = append(path, relPath...)
	return filepath.Clean(filepath.Join(path...))
}
