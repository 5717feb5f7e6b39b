package client

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/drydocklabs/mcpdock/pkg/config"
	"github.com/drydocklabs/mcpdock/pkg/logger"
)

const testValidJSON = `{"mcpServers": {}, "mcp": {"servers": {}}}`
const testValidYAML = `extensions: {}`
const testValidTOML = ``

func TestParseClient(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		want    MCPClient
		wantErr bool
	}{
		{name: "claude-desktop", want: ClaudeDesktop},
		{name: "claude-code", want: ClaudeCode},
		{name: "cursor", want: Cursor},
		{name: "vscode", want: VSCode},
		{name: "goose", want: Goose},
		{name: "codex", want: Codex},
		{name: "emacs", wantErr: true},
		{name: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseClient(tt.name)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "unsupported client")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSupportedClients(t *testing.T) {
	t.Parallel()

	clients := SupportedClients()
	assert.Len(t, clients, len(supportedClientIntegrations))
	assert.Contains(t, clients, ClaudeDesktop)
	assert.Contains(t, clients, Goose)
	assert.Contains(t, clients, Codex)
}

func TestServersKeyFromPrefix(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "mcp_servers", serversKeyFromPrefix("/mcp_servers"))
	assert.Equal(t, "extensions", serversKeyFromPrefix("extensions"))
	assert.Equal(t, "", serversKeyFromPrefix(""))
}

//nolint:paralleltest // This test overrides $HOME
func TestResolveClientConfig(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	t.Run("CursorResolvesWithoutExistingFile", func(t *testing.T) {
		cf, err := ResolveClientConfig(Cursor)
		require.NoError(t, err)

		assert.Equal(t, filepath.Join(tempHome, ".cursor", "mcp.json"), cf.Path)
		assert.Equal(t, Cursor, cf.ClientType)
		assert.Equal(t, JSON, cf.Extension)
		assert.IsType(t, &JSONConfigUpdater{}, cf.ConfigUpdater)
	})

	t.Run("GooseUsesYAMLUpdater", func(t *testing.T) {
		cf, err := ResolveClientConfig(Goose)
		require.NoError(t, err)

		assert.Equal(t, filepath.Join(tempHome, ".config", "goose", "config.yaml"), cf.Path)
		assert.Equal(t, YAML, cf.Extension)
		assert.IsType(t, &YAMLConfigUpdater{}, cf.ConfigUpdater)
	})

	t.Run("CodexUsesTOMLUpdater", func(t *testing.T) {
		cf, err := ResolveClientConfig(Codex)
		require.NoError(t, err)

		assert.Equal(t, filepath.Join(tempHome, ".codex", "config.toml"), cf.Path)
		assert.Equal(t, TOML, cf.Extension)

		tcu, ok := cf.ConfigUpdater.(*TOMLConfigUpdater)
		require.True(t, ok, "Codex should use the TOML updater")
		assert.Equal(t, "mcp_servers", tcu.ServersKey)
	})

	t.Run("UnsupportedClient", func(t *testing.T) {
		_, err := ResolveClientConfig(MCPClient("emacs"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported client")
	})
}

//nolint:paralleltest // This test overrides $HOME and the global logger
func TestFindClientConfigs(t *testing.T) {
	t.Run("FindsExistingClientConfigs", func(t *testing.T) {
		tempHome := t.TempDir()
		t.Setenv("HOME", tempHome)

		writeClientConfigFile(t, filepath.Join(tempHome, ".cursor", "mcp.json"), testValidJSON)
		writeClientConfigFile(t, filepath.Join(tempHome, ".claude.json"), testValidJSON)
		writeClientConfigFile(t, filepath.Join(tempHome, ".config", "goose", "config.yaml"), testValidYAML)
		writeClientConfigFile(t, filepath.Join(tempHome, ".codex", "config.toml"), testValidTOML)

		configFiles, err := FindClientConfigs()
		require.NoError(t, err)

		found := make(map[MCPClient]bool, len(configFiles))
		for _, cf := range configFiles {
			found[cf.ClientType] = true
		}

		assert.Len(t, configFiles, 4)
		assert.True(t, found[Cursor], "Cursor config should be found")
		assert.True(t, found[ClaudeCode], "Claude Code config should be found")
		assert.True(t, found[Goose], "Goose config should be found")
		assert.True(t, found[Codex], "Codex config should be found")
	})

	t.Run("SkipsInvalidConfigFileFormat", func(t *testing.T) {
		tempHome := t.TempDir()
		t.Setenv("HOME", tempHome)

		// Initialize in-memory test logger that captures output to a buffer
		logBuf := initializeTest(t)

		writeClientConfigFile(t, filepath.Join(tempHome, ".cursor", "mcp.json"), "{invalid json}")
		writeClientConfigFile(t, filepath.Join(tempHome, ".claude.json"), testValidJSON)

		// The corrupt cursor config should be skipped, not fail the search
		configFiles, err := FindClientConfigs()
		require.NoError(t, err, "FindClientConfigs should not return an error for invalid config files")

		require.Len(t, configFiles, 1, "Should find configs for valid clients only, skipping invalid ones")
		assert.Equal(t, ClaudeCode, configFiles[0].ClientType)

		logOutput := logBuf.String()
		assert.Contains(t, logOutput, "Unable to process client config", "Should log warning about client config")
		assert.Contains(t, logOutput, "cursor", "Should name the skipped client")
		assert.Contains(t, logOutput, "failed to validate config file format", "Should log the specific validation error")
	})
}

//nolint:paralleltest // This test overrides $HOME
func TestFindClientConfig(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	writeClientConfigFile(t, filepath.Join(tempHome, ".cursor", "mcp.json"), testValidJSON)

	cf, err := FindClientConfig(Cursor)
	require.NoError(t, err)
	assert.Equal(t, Cursor, cf.ClientType)

	_, err = FindClientConfig(Windsurf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

//nolint:paralleltest // This test overrides $HOME
func TestFindRegisteredClientConfigs(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	writeClientConfigFile(t, filepath.Join(tempHome, ".cursor", "mcp.json"), testValidJSON)
	writeClientConfigFile(t, filepath.Join(tempHome, ".claude.json"), testValidJSON)

	// Register only cursor; the claude-code config on disk must not be
	// returned.
	configProvider := config.NewPathProvider(filepath.Join(tempHome, "mcpdock", "config.yaml"))
	err := configProvider.UpdateConfig(func(c *config.Config) {
		c.Clients.RegisterClient(string(Cursor))
	})
	require.NoError(t, err)

	configFiles, err := FindRegisteredClientConfigs(configProvider)
	require.NoError(t, err)

	require.Len(t, configFiles, 1)
	assert.Equal(t, Cursor, configFiles[0].ClientType)
}

func TestUpsertSetsTypeField(t *testing.T) {
	t.Parallel()

	logger.Initialize()

	tests := []struct {
		name       string
		clientType MCPClient
		prefix     string
		keyPath    string
		wantType   string
	}{
		{
			name:       "ClaudeCodeCarriesTypeField",
			clientType: ClaudeCode,
			prefix:     "/mcpServers",
			keyPath:    "mcpServers",
			wantType:   "stdio",
		},
		{
			name:       "CursorOmitsTypeField",
			clientType: Cursor,
			prefix:     "/mcpServers",
			keyPath:    "mcpServers",
			wantType:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tempDir := t.TempDir()
			configPath := filepath.Join(tempDir, "config.json")
			require.NoError(t, os.WriteFile(configPath, []byte("{}"), 0600))

			cf := ConfigFile{
				Path:          configPath,
				ClientType:    tt.clientType,
				ConfigUpdater: &JSONConfigUpdater{Path: configPath, MCPServersPathPrefix: tt.prefix},
				Extension:     JSON,
			}

			err := Upsert(cf, "testServer", MCPServerEntry{Command: "npx"})
			require.NoError(t, err)

			content, err := os.ReadFile(configPath)
			require.NoError(t, err)

			gotType := gjson.GetBytes(content, tt.keyPath+".testServer.type").String()
			assert.Equal(t, tt.wantType, gotType)
		})
	}

	t.Run("UnsupportedClient", func(t *testing.T) {
		t.Parallel()

		cf := ConfigFile{ClientType: MCPClient("emacs")}
		err := Upsert(cf, "testServer", MCPServerEntry{Command: "npx"})
		require.Error(t, err)
	})
}

// writeClientConfigFile writes a client settings file, creating parent
// directories as needed.
func writeClientConfigFile(t *testing.T, path string, content string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

// initializeTest sets up a buffer-backed slog logger as the global singleton
// so that test assertions can inspect log output. It returns the buffer.
func initializeTest(t *testing.T) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer

	testLogger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	prev := logger.Get()
	logger.Set(testLogger)

	t.Cleanup(func() {
		logger.Set(prev)
	})

	return &buf
}
