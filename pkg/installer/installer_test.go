package installer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/drydocklabs/mcpdock/pkg/catalog"
	"github.com/drydocklabs/mcpdock/pkg/client"
	"github.com/drydocklabs/mcpdock/pkg/logger"
)

func installTestRegistry() *catalog.RegistryData {
	return &catalog.RegistryData{
		Version:     "1.0.0",
		LastUpdated: "2025-01-01T00:00:00Z",
		Servers: []catalog.MCPServer{
			{
				ID:          "filesystem",
				Name:        "Filesystem",
				Description: "Read and write files under a root directory",
				Parameters: map[string]catalog.MCPServerParameter{
					"root_path": {Type: catalog.ParamTypePath, Required: true},
					"api_key":   {Type: catalog.ParamTypeAPIKey},
				},
				Installation: &catalog.Installation{
					Command: "npx",
					Args:    []string{"-y", "@modelcontextprotocol/server-filesystem", "${root_path}"},
					Env:     map[string]string{"FS_API_KEY": "${api_key}"},
				},
			},
			{
				ID:          "docs-only",
				Name:        "Docs Only",
				Description: "An entry without installation instructions",
			},
		},
	}
}

func newTestInstaller() *Installer {
	provider := catalog.NewBaseProvider(func() (*catalog.RegistryData, error) {
		return installTestRegistry(), nil
	})
	return NewInstaller(provider)
}

//nolint:paralleltest // This test overrides $HOME
func TestInstallerInstall(t *testing.T) {
	logger.Initialize()
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	result, err := newTestInstaller().Install(InstallOptions{
		ServerID: "filesystem",
		Client:   client.Cursor,
		Parameters: map[string]string{
			"root_path": "/srv/shared",
			"api_key":   "sk-test-123",
		},
	})
	require.NoError(t, err)

	wantPath := filepath.Join(tempHome, ".cursor", "mcp.json")
	assert.Equal(t, wantPath, result.ConfigPath)
	assert.Equal(t, "filesystem", result.Server.ID)
	assert.Equal(t, client.Cursor, result.Client)
	assert.Equal(t, "npx", result.Entry.Command)

	content, err := os.ReadFile(wantPath)
	require.NoError(t, err, "Failed to read the written client config")

	entry := gjson.GetBytes(content, "mcpServers.filesystem")
	require.True(t, entry.Exists(), "Expected the filesystem entry in the config file")
	assert.Equal(t, "npx", entry.Get("command").String())
	assert.Equal(t, "/srv/shared", entry.Get("args.2").String())
	assert.Equal(t, "sk-test-123", entry.Get("env.FS_API_KEY").String())
}

//nolint:paralleltest // This test overrides $HOME
func TestInstallerInstallSetsTypeField(t *testing.T) {
	logger.Initialize()
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	_, err := newTestInstaller().Install(InstallOptions{
		ServerID:   "filesystem",
		Client:     client.ClaudeCode,
		Parameters: map[string]string{"root_path": "/srv/shared"},
	})
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(tempHome, ".claude.json"))
	require.NoError(t, err)

	assert.Equal(t, "stdio", gjson.GetBytes(content, "mcpServers.filesystem.type").String())
}

//nolint:paralleltest // This test overrides $HOME
func TestInstallerInstallErrors(t *testing.T) {
	logger.Initialize()
	t.Setenv("HOME", t.TempDir())

	installer := newTestInstaller()

	t.Run("UnknownServer", func(t *testing.T) {
		_, err := installer.Install(InstallOptions{
			ServerID: "no-such-server",
			Client:   client.Cursor,
		})
		assert.ErrorIs(t, err, catalog.ErrServerNotFound)
	})

	t.Run("MissingRequiredParameters", func(t *testing.T) {
		_, err := installer.Install(InstallOptions{
			ServerID: "filesystem",
			Client:   client.Cursor,
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing required parameters: root_path")
	})

	t.Run("NoInstallationDescriptor", func(t *testing.T) {
		_, err := installer.Install(InstallOptions{
			ServerID: "docs-only",
			Client:   client.Cursor,
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no installation descriptor")
	})

	t.Run("UnsupportedClient", func(t *testing.T) {
		_, err := installer.Install(InstallOptions{
			ServerID:   "filesystem",
			Client:     client.MCPClient("emacs"),
			Parameters: map[string]string{"root_path": "/srv/shared"},
		})
		require.Error(t, err)
	})
}

//nolint:paralleltest // This test overrides $HOME
func TestInstallerUninstall(t *testing.T) {
	logger.Initialize()
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	installer := newTestInstaller()

	_, err := installer.Install(InstallOptions{
		ServerID:   "filesystem",
		Client:     client.Cursor,
		Parameters: map[string]string{"root_path": "/srv/shared"},
	})
	require.NoError(t, err)

	err = installer.Uninstall("filesystem", client.Cursor)
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(tempHome, ".cursor", "mcp.json"))
	require.NoError(t, err)
	assert.False(t, gjson.GetBytes(content, "mcpServers.filesystem").Exists(),
		"Expected the filesystem entry to be removed")

	// Removing an entry that is already gone is not an error.
	err = installer.Uninstall("filesystem", client.Cursor)
	assert.NoError(t, err)
}

//nolint:paralleltest // This test overrides $HOME
func TestInstallerUninstallMissingConfig(t *testing.T) {
	logger.Initialize()
	t.Setenv("HOME", t.TempDir())

	err := newTestInstaller().Uninstall("filesystem", client.Windsurf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "client configuration for windsurf not found")
}
