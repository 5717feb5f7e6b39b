// Package config contains the definition of the application config structure
// and logic required to load and update it.
package config

import (
	"context"
	"fmt"
	"os"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// Config represents the configuration of the application.
type Config struct {
	Clients                Clients `yaml:"clients"`
	RegistryURL            string  `yaml:"registry_url"`
	RegistryFile           string  `yaml:"registry_file"`
	RegistryAPIURL         string  `yaml:"registry_api_url"`
	AllowPrivateRegistryIP bool    `yaml:"allow_private_registry_ip"`
	CACertificatePath      string  `yaml:"ca_certificate_path,omitempty"`
	BackupsDir             string  `yaml:"backups_dir,omitempty"`
	Updates                Updates `yaml:"updates,omitempty"`
}

// Clients contains settings for client configuration.
type Clients struct {
	// RegisteredClients are the client ids that receive server entries
	// on install without being asked each time.
	RegisteredClients []string `yaml:"registered_clients"`
}

// RegisterClient adds a client id to the registered list if not present.
func (c *Clients) RegisterClient(name string) {
	for _, registered := range c.RegisteredClients {
		if registered == name {
			return
		}
	}
	c.RegisteredClients = append(c.RegisteredClients, name)
}

// UnregisterClient removes a client id from the registered list.
func (c *Clients) UnregisterClient(name string) {
	for i, registered := range c.RegisteredClients {
		if registered == name {
			c.RegisteredClients = append(c.RegisteredClients[:i], c.RegisteredClients[i+1:]...)
			return
		}
	}
}

// Updates contains settings for the release update checker.
type Updates struct {
	// Skip disables the periodic update check entirely.
	Skip bool `yaml:"skip,omitempty"`
}

// defaultPathGenerator generates the default config path using xdg
var defaultPathGenerator = func() (string, error) {
	return xdg.ConfigFile("mcpdock/config.yaml")
}

// getConfigPath is the current path generator, can be replaced in tests
var getConfigPath = defaultPathGenerator

// createNewConfigWithDefaults creates a new config with default values
func createNewConfigWithDefaults() Config {
	return Config{}
}

// LoadOrCreateConfig fetches the application configuration.
// If it does not already exist - it will create a new config file with default values.
func LoadOrCreateConfig() (*Config, error) {
	store, err := NewConfigStore()
	if err != nil {
		return nil, fmt.Errorf("failed to create config store: %w", err)
	}

	return store.Load(context.Background())
}

// LoadOrCreateConfigWithPath fetches the application configuration from a specific path.
// If configPath is empty, it uses the default path.
func LoadOrCreateConfigWithPath(configPath string) (*Config, error) {
	store, err := NewConfigStoreWithPath(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create config store: %w", err)
	}

	return store.Load(context.Background())
}

// Save serializes the config struct and writes it to disk.
func (c *Config) save() error {
	return c.saveToPath("")
}

// saveToPath serializes the config struct and writes it to a specific path.
// If configPath is empty, it uses the default path.
func (c *Config) saveToPath(configPath string) error {
	if configPath == "" {
		var err error
		configPath, err = getConfigPath()
		if err != nil {
			return fmt.Errorf("unable to fetch config path: %w", err)
		}
	}

	configBytes, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("error serializing config file: %w", err)
	}

	err = os.WriteFile(configPath, configBytes, 0600)
	if err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}
	return nil
}

// UpdateConfig loads config from the default store, applies changes, and saves back
func UpdateConfig(updateFn func(*Config)) error {
	return UpdateConfigWithStore(nil, updateFn)
}

// UpdateConfigWithStore uses the provided store or creates a new one to update config
func UpdateConfigWithStore(store Store, updateFn func(*Config)) error {
	var err error
	if store == nil {
		store, err = NewConfigStore()
		if err != nil {
			return fmt.Errorf("failed to create config store: %w", err)
		}
	}

	if err := store.Update(context.Background(), updateFn); err != nil {
		return err
	}

	// Refresh the singleton cache if it is populated
	configMu.Lock()
	if appConfig != nil {
		if updated, err := store.Load(context.Background()); err == nil {
			appConfig = updated
		}
	}
	configMu.Unlock()

	return nil
}

// UpdateConfigAtPath loads config at the given path, applies changes, and saves back
// If configPath is empty, it uses the default path.
func UpdateConfigAtPath(configPath string, updateFn func(*Config)) error {
	store, err := NewConfigStoreWithPath(configPath)
	if err != nil {
		return fmt.Errorf("failed to create config store: %w", err)
	}

	return store.Update(context.Background(), updateFn)
}
