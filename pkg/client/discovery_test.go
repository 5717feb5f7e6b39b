package client

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drydocklabs/mcpdock/pkg/config"
)

//nolint:paralleltest // This test overrides $HOME
func TestGetClientStatus(t *testing.T) {
	// Setup a temporary home directory for testing
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	configProvider := config.NewPathProvider(filepath.Join(tempHome, "mcpdock", "config.yaml"))
	err := configProvider.UpdateConfig(func(c *config.Config) {
		c.Clients.RegisterClient(string(ClaudeCode))
	})
	require.NoError(t, err)

	// Create a mock Cursor config directory
	require.NoError(t, os.MkdirAll(filepath.Join(tempHome, ".cursor"), 0755))

	// Create a mock ClaudeCode config file
	_, err = os.Create(filepath.Join(tempHome, ".claude.json"))
	require.NoError(t, err)

	statuses, err := GetClientStatusWithConfig(configProvider)
	require.NoError(t, err)
	require.NotNil(t, statuses)

	// Create a map for easier testing
	statusMap := make(map[MCPClient]MCPClientStatus)
	for _, status := range statuses {
		statusMap[status.ClientType] = status
	}

	claudeStatus, exists := statusMap[ClaudeCode]
	assert.True(t, exists)
	assert.True(t, claudeStatus.Installed)
	assert.True(t, claudeStatus.Registered)

	cursorStatus, exists := statusMap[Cursor]
	assert.True(t, exists)
	assert.True(t, cursorStatus.Installed)
	assert.False(t, cursorStatus.Registered)

	windsurfStatus, exists := statusMap[Windsurf]
	assert.True(t, exists)
	assert.False(t, windsurfStatus.Installed)
	assert.False(t, windsurfStatus.Registered)
}

//nolint:paralleltest // This test overrides $HOME
func TestGetClientStatusSorting(t *testing.T) {
	// Setup a temporary home directory for testing
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	configProvider := config.NewPathProvider(filepath.Join(tempHome, "mcpdock", "config.yaml"))

	statuses, err := GetClientStatusWithConfig(configProvider)
	require.NoError(t, err)
	require.NotNil(t, statuses)
	require.Greater(t, len(statuses), 1, "Need at least 2 clients to test sorting")

	// Verify that the statuses are sorted alphabetically by ClientType
	for i := 1; i < len(statuses); i++ {
		prevClient := string(statuses[i-1].ClientType)
		currClient := string(statuses[i].ClientType)
		assert.True(t, prevClient < currClient,
			"Client statuses should be sorted alphabetically: %s should come before %s",
			prevClient, currClient)
	}
}
