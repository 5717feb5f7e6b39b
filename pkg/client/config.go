// Package client provides utilities for managing AI client configurations
// and wiring installed MCP servers into them.
package client

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/tailscale/hujson"
	"gopkg.in/yaml.v3"

	"github.com/drydocklabs/mcpdock/pkg/config"
	"github.com/drydocklabs/mcpdock/pkg/logger"
)

// lockTimeout is the maximum time to wait for a file lock
const lockTimeout = 1 * time.Second

// MCPClient is an enum of supported MCP clients.
type MCPClient string

const (
	// ClaudeDesktop represents the Claude desktop app.
	ClaudeDesktop MCPClient = "claude-desktop"
	// ClaudeCode represents the Claude Code CLI.
	ClaudeCode MCPClient = "claude-code"
	// Cursor represents the Cursor editor.
	Cursor MCPClient = "cursor"
	// VSCode represents the standard VS Code editor.
	VSCode MCPClient = "vscode"
	// VSCodeInsider represents the VS Code Insiders editor.
	VSCodeInsider MCPClient = "vscode-insider"
	// Cline represents the Cline extension for VS Code.
	Cline MCPClient = "cline"
	// RooCode represents the Roo Code extension for VS Code.
	RooCode MCPClient = "roo-code"
	// Windsurf represents the Windsurf editor.
	Windsurf MCPClient = "windsurf"
	// Goose represents the Goose CLI agent.
	Goose MCPClient = "goose"
	// Codex represents the Codex CLI.
	Codex MCPClient = "codex"
)

// Extension is the format of the client config file.
type Extension string

const (
	// JSON represents a JSON config file.
	JSON Extension = "json"
	// YAML represents a YAML config file.
	YAML Extension = "yaml"
	// TOML represents a TOML config file.
	TOML Extension = "toml"
)

// transportTypeStdio is the transport type written for clients whose
// config format carries an explicit type field.
const transportTypeStdio = "stdio"

// mcpClientConfig represents a configuration path for a supported MCP client.
type mcpClientConfig struct {
	ClientType           MCPClient
	Description          string
	RelPath              []string
	SettingsFile         string
	PlatformPrefix       map[string][]string
	MCPServersPathPrefix string
	Extension            Extension
	// SupportsTypeField marks clients whose server entries carry an
	// explicit transport type field.
	SupportsTypeField bool
}

var supportedClientIntegrations = []mcpClientConfig{
	{
		ClientType:   ClaudeDesktop,
		Description:  "Claude desktop app",
		SettingsFile: "claude_desktop_config.json",
		RelPath:      []string{"Claude"},
		PlatformPrefix: map[string][]string{
			"linux":   {".config"},
			"darwin":  {"Library", "Application Support"},
			"windows": {"AppData", "Roaming"},
		},
		MCPServersPathPrefix: "/mcpServers",
		Extension:            JSON,
	},
	{
		ClientType:           ClaudeCode,
		Description:          "Claude Code CLI",
		SettingsFile:         ".claude.json",
		RelPath:              []string{},
		MCPServersPathPrefix: "/mcpServers",
		Extension:            JSON,
		SupportsTypeField:    true,
	},
	{
		ClientType:           Cursor,
		Description:          "Cursor editor",
		SettingsFile:         "mcp.json",
		RelPath:              []string{".cursor"},
		MCPServersPathPrefix: "/mcpServers",
		Extension:            JSON,
	},
	{
		ClientType:   VSCode,
		Description:  "Visual Studio Code",
		SettingsFile: "settings.json",
		RelPath: []string{
			"Code", "User",
		},
		PlatformPrefix: map[string][]string{
			"linux":   {".config"},
			"darwin":  {"Library", "Application Support"},
			"windows": {"AppData", "Roaming"},
		},
		MCPServersPathPrefix: "/mcp/servers",
		Extension:            JSON,
		SupportsTypeField:    true,
	},
	{
		ClientType:   VSCodeInsider,
		Description:  "Visual Studio Code Insiders",
		SettingsFile: "settings.json",
		RelPath: []string{
			"Code - Insiders", "User",
		},
		PlatformPrefix: map[string][]string{
			"linux":   {".config"},
			"darwin":  {"Library", "Application Support"},
			"windows": {"AppData", "Roaming"},
		},
		MCPServersPathPrefix: "/mcp/servers",
		Extension:            JSON,
		SupportsTypeField:    true,
	},
	{
		ClientType:   Cline,
		Description:  "VS Code Cline extension",
		SettingsFile: "cline_mcp_settings.json",
		RelPath: []string{
			"Code", "User", "globalStorage", "saoudrizwan.claude-dev", "settings",
		},
		PlatformPrefix: map[string][]string{
			"linux":   {".config"},
			"darwin":  {"Library", "Application Support"},
			"windows": {"AppData", "Roaming"},
		},
		MCPServersPathPrefix: "/mcpServers",
		Extension:            JSON,
	},
	{
		ClientType:   RooCode,
		Description:  "VS Code Roo Code extension",
		SettingsFile: "mcp_settings.json",
		RelPath: []string{
			"Code", "User", "globalStorage", "rooveterinaryinc.roo-cline", "settings",
		},
		PlatformPrefix: map[string][]string{
			"linux":   {".config"},
			"darwin":  {"Library", "Application Support"},
			"windows": {"AppData", "Roaming"},
		},
		MCPServersPathPrefix: "/mcpServers",
		Extension:            JSON,
	},
	{
		ClientType:           Windsurf,
		Description:          "Windsurf editor",
		SettingsFile:         "mcp_config.json",
		RelPath:              []string{".codeium", "windsurf"},
		MCPServersPathPrefix: "/mcpServers",
		Extension:            JSON,
	},
	{
		ClientType:   Goose,
		Description:  "Goose CLI agent",
		SettingsFile: "config.yaml",
		// Goose keeps its config under ~/.config on every platform.
		RelPath:              []string{".config", "goose"},
		MCPServersPathPrefix: "/extensions",
		Extension:            YAML,
	},
	{
		ClientType:           Codex,
		Description:          "Codex CLI",
		SettingsFile:         "config.toml",
		RelPath:              []string{".codex"},
		MCPServersPathPrefix: "/mcp_servers",
		Extension:            TOML,
	},
}

// ConfigFile represents a client configuration file
type ConfigFile struct {
	Path          string
	ClientType    MCPClient
	ConfigUpdater ConfigUpdater
	Extension     Extension
}

// SupportedClients returns the list of supported client types.
func SupportedClients() []MCPClient {
	clients := make([]MCPClient, 0, len(supportedClientIntegrations))
	for _, cfg := range supportedClientIntegrations {
		clients = append(clients, cfg.ClientType)
	}
	return clients
}

// ParseClient converts a client name into a supported MCPClient.
func ParseClient(name string) (MCPClient, error) {
	for _, cfg := range supportedClientIntegrations {
		if string(cfg.ClientType) == name {
			return cfg.ClientType, nil
		}
	}
	return "", fmt.Errorf("unsupported client %q (supported: %v)", name, SupportedClients())
}

// FindClientConfig returns the client configuration file for a given client type.
// It only returns configs whose file already exists on disk.
func FindClientConfig(clientType MCPClient) (*ConfigFile, error) {
	configFiles, err := FindClientConfigs()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch client configurations: %w", err)
	}

	for _, cf := range configFiles {
		if cf.ClientType == clientType {
			return &cf, nil
		}
	}

	return nil, fmt.Errorf("client configuration for %s not found", clientType)
}

// FindClientConfigs searches for client configuration files in standard locations
func FindClientConfigs() ([]ConfigFile, error) {
	configFiles, err := retrieveConfigFilesMetadata(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve client config metadata: %w", err)
	}

	return filterValidConfigFiles(configFiles), nil
}

// FindRegisteredClientConfigs returns the config files of the clients
// registered in the application configuration.
func FindRegisteredClientConfigs(configProvider config.Provider) ([]ConfigFile, error) {
	appConfig, err := configProvider.LoadOrCreateConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	registered := make(map[string]bool, len(appConfig.Clients.RegisteredClients))
	for _, name := range appConfig.Clients.RegisteredClients {
		registered[name] = true
	}

	skip := make(map[string]bool)
	for _, cfg := range supportedClientIntegrations {
		if !registered[string(cfg.ClientType)] {
			skip[string(cfg.ClientType)] = true
		}
	}

	configFiles, err := retrieveConfigFilesMetadata(skip)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve client config metadata: %w", err)
	}

	return filterValidConfigFiles(configFiles), nil
}

// ResolveClientConfig builds the config file metadata for a client without
// requiring the settings file to exist yet. The updaters create missing
// files on first write, so this is the entry point for installs into a
// freshly installed client.
func ResolveClientConfig(clientType MCPClient) (*ConfigFile, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	for _, cfg := range supportedClientIntegrations {
		if cfg.ClientType != clientType {
			continue
		}
		path := buildConfigFilePath(cfg.SettingsFile, cfg.RelPath, cfg.PlatformPrefix, []string{home})
		return &ConfigFile{
			Path:          path,
			ClientType:    cfg.ClientType,
			ConfigUpdater: newConfigUpdater(&cfg, path),
			Extension:     cfg.Extension,
		}, nil
	}

	return nil, fmt.Errorf("unsupported client %q (supported: %v)", clientType, SupportedClients())
}

// Upsert updates/inserts an MCP server in a client configuration file.
// It is a wrapper around the ConfigUpdater.Upsert method that fills in the
// transport type field for clients whose format carries one.
func Upsert(cf ConfigFile, name string, entry MCPServerEntry) error {
	for i := range supportedClientIntegrations {
		if cf.ClientType != supportedClientIntegrations[i].ClientType {
			continue
		}
		if supportedClientIntegrations[i].SupportsTypeField {
			entry.Type = transportTypeStdio
		}
		return cf.ConfigUpdater.Upsert(name, entry)
	}
	return fmt.Errorf("unsupported client %q", cf.ClientType)
}

// retrieveConfigFilesMetadata retrieves the metadata for client configuration files.
// Clients named in the skip set and clients whose settings file does not
// exist are left out.
func retrieveConfigFilesMetadata(skip map[string]bool) ([]ConfigFile, error) {
	var configFiles []ConfigFile

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	for _, cfg := range supportedClientIntegrations {
		if skip[string(cfg.ClientType)] {
			continue
		}

		path := buildConfigFilePath(cfg.SettingsFile, cfg.RelPath, cfg.PlatformPrefix, []string{home})

		if err := validateConfigFileExists(path); err != nil {
			logger.Debugf("skipping client %s: %v", cfg.ClientType, err)
			continue
		}

		configFiles = append(configFiles, ConfigFile{
			Path:          path,
			ConfigUpdater: newConfigUpdater(&cfg, path),
			ClientType:    cfg.ClientType,
			Extension:     cfg.Extension,
		})
	}

	return configFiles, nil
}

// newConfigUpdater builds the updater matching the client's config format.
func newConfigUpdater(cfg *mcpClientConfig, path string) ConfigUpdater {
	switch cfg.Extension {
	case YAML:
		return &YAMLConfigUpdater{Path: path, Converter: &GooseConverter{}}
	case TOML:
		return &TOMLConfigUpdater{Path: path, ServersKey: serversKeyFromPrefix(cfg.MCPServersPathPrefix)}
	default:
		return &JSONConfigUpdater{Path: path, MCPServersPathPrefix: cfg.MCPServersPathPrefix}
	}
}

// serversKeyFromPrefix converts a single-segment JSON pointer such as
// "/mcp_servers" into the bare key used by map-based formats.
func serversKeyFromPrefix(prefix string) string {
	if len(prefix) > 0 && prefix[0] == '/' {
		return prefix[1:]
	}
	return prefix
}

func buildConfigFilePath(settingsFile string, relPath []string, platformPrefix map[string][]string, path []string) string {
	if prefix, ok := platformPrefix[runtime.GOOS]; ok {
		path = append(path, prefix...)
	}
	path = append(path, relPath...)
	path = append(path, settingsFile)
	return filepath.Clean(filepath.Join(path...))
}

// validateConfigFileExists validates that a client configuration file exists.
func validateConfigFileExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("file does not exist: %s", path)
	}
	return nil
}

// filterValidConfigFiles drops config files whose contents do not parse in
// the client's format, logging each skip. A corrupt settings file in one
// client does not block operations on the others.
func filterValidConfigFiles(configFiles []ConfigFile) []ConfigFile {
	valid := make([]ConfigFile, 0, len(configFiles))
	for _, cf := range configFiles {
		if err := validateConfigFileFormat(cf); err != nil {
			logger.Warnf("Unable to process client config for %s: failed to validate config file format: %v", cf.ClientType, err)
			continue
		}
		valid = append(valid, cf)
	}
	return valid
}

// validateConfigFileFormat validates a config file with the parser for its
// format. Contents are not interpreted, only parsed.
func validateConfigFileFormat(cf ConfigFile) error {
	data, err := os.ReadFile(cf.Path)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", cf.Path, err)
	}

	switch cf.Extension {
	case YAML:
		var doc map[string]any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("failed to parse YAML for file %s: %w", cf.Path, err)
		}
	case TOML:
		var doc map[string]any
		if err := toml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("failed to parse TOML for file %s: %w", cf.Path, err)
		}
	default:
		if _, err := hujson.Parse(data); err != nil {
			return fmt.Errorf("failed to parse JSON for file %s: %w", cf.Path, err)
		}
	}

	return nil
}
