package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withTempConfigPath points the default path generator at a throwaway
// file for the duration of the test. Tests using it must not be parallel.
func withTempConfigPath(t *testing.T) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	original := getConfigPath
	getConfigPath = func() (string, error) { return configPath, nil }
	t.Cleanup(func() {
		getConfigPath = original
		ResetSingleton()
	})
	return configPath
}

func TestLoadOrCreateConfigCreatesDefaults(t *testing.T) {
	configPath := withTempConfigPath(t)

	cfg, err := LoadOrCreateConfig()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Empty(t, cfg.RegistryURL)
	assert.Empty(t, cfg.RegistryFile)
	assert.Empty(t, cfg.RegistryAPIURL)
	assert.False(t, cfg.AllowPrivateRegistryIP)
	assert.Empty(t, cfg.Clients.RegisteredClients)

	// The default config was persisted to disk.
	_, err = os.Stat(configPath)
	assert.NoError(t, err)
}

func TestSaveAndReloadRoundTrip(t *testing.T) {
	t.Parallel()

	configPath := filepath.Join(t.TempDir(), "config.yaml")

	original := &Config{
		RegistryURL:            "https://registry.example.com/registry.json",
		AllowPrivateRegistryIP: true,
		BackupsDir:             "/var/backups/mcpdock",
		Clients: Clients{
			RegisteredClients: []string{"claude-desktop", "cursor"},
		},
		Updates: Updates{Skip: true},
	}
	require.NoError(t, original.saveToPath(configPath))

	loaded, err := LoadOrCreateConfigWithPath(configPath)
	require.NoError(t, err)
	assert.Equal(t, original, loaded)

	// Config files must not be world-readable.
	info, err := os.Stat(configPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestUpdateConfigAtPath(t *testing.T) {
	t.Parallel()

	configPath := filepath.Join(t.TempDir(), "config.yaml")

	err := UpdateConfigAtPath(configPath, func(c *Config) {
		c.RegistryFile = "/tmp/registry.json"
	})
	require.NoError(t, err)

	err = UpdateConfigAtPath(configPath, func(c *Config) {
		c.Clients.RegisterClient("cursor")
	})
	require.NoError(t, err)

	// Both updates survived; the second did not clobber the first.
	cfg, err := LoadOrCreateConfigWithPath(configPath)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/registry.json", cfg.RegistryFile)
	assert.Equal(t, []string{"cursor"}, cfg.Clients.RegisteredClients)
}

func TestStoreExists(t *testing.T) {
	t.Parallel()

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	store := NewLocalStore(configPath)
	ctx := context.Background()

	exists, err := store.Exists(ctx)
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = store.Load(ctx)
	require.NoError(t, err)

	exists, err = store.Exists(ctx)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestClientsRegistration(t *testing.T) {
	t.Parallel()

	var c Clients
	c.RegisterClient("cursor")
	c.RegisterClient("claude-desktop")
	c.RegisterClient("cursor") // duplicate is a no-op
	assert.Equal(t, []string{"cursor", "claude-desktop"}, c.RegisteredClients)

	c.UnregisterClient("cursor")
	assert.Equal(t, []string{"claude-desktop"}, c.RegisteredClients)

	c.UnregisterClient("never-registered")
	assert.Equal(t, []string{"claude-desktop"}, c.RegisteredClients)
}
