package client

import (
	"fmt"

	"github.com/drydocklabs/mcpdock/pkg/config"
	"github.com/drydocklabs/mcpdock/pkg/logger"
)

// Client represents a registered client.
type Client struct {
	Name MCPClient `json:"name"`
}

// Manager manages which clients are registered in the application
// configuration and applies server changes across them.
type Manager interface {
	// ListClients returns all registered clients.
	ListClients() ([]Client, error)
	// RegisterClients registers the given clients.
	RegisterClients(clients []Client) error
	// UnregisterClients removes the given clients from the registry.
	UnregisterClients(clients []Client) error
	// RemoveServerFromClients removes a server entry from every
	// registered client config. Per-client failures are logged and do
	// not stop the sweep; the names of failed clients are returned.
	RemoveServerFromClients(serverName string) ([]MCPClient, error)
}

type defaultManager struct {
	configProvider config.Provider
}

// NewManager creates a client manager over the default configuration.
func NewManager() Manager {
	return &defaultManager{configProvider: config.NewDefaultProvider()}
}

// NewManagerWithConfig creates a client manager over the given
// configuration provider. Tests use this to stay inside a temp dir.
func NewManagerWithConfig(configProvider config.Provider) Manager {
	return &defaultManager{configProvider: configProvider}
}

func (m *defaultManager) ListClients() ([]Client, error) {
	appConfig, err := m.configProvider.LoadOrCreateConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	clients := make([]Client, 0, len(appConfig.Clients.RegisteredClients))
	for _, clientName := range appConfig.Clients.RegisteredClients {
		clients = append(clients, Client{Name: MCPClient(clientName)})
	}

	return clients, nil
}

func (m *defaultManager) RegisterClients(clients []Client) error {
	for _, cl := range clients {
		if _, err := ParseClient(string(cl.Name)); err != nil {
			return err
		}
	}

	err := m.configProvider.UpdateConfig(func(c *config.Config) {
		for _, cl := range clients {
			c.Clients.RegisterClient(string(cl.Name))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to update configuration: %w", err)
	}

	for _, cl := range clients {
		logger.Infof("Registered client %s", cl.Name)
	}
	return nil
}

func (m *defaultManager) UnregisterClients(clients []Client) error {
	err := m.configProvider.UpdateConfig(func(c *config.Config) {
		for _, cl := range clients {
			c.Clients.UnregisterClient(string(cl.Name))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to update configuration: %w", err)
	}

	for _, cl := range clients {
		logger.Infof("Unregistered client %s", cl.Name)
	}
	return nil
}

func (m *defaultManager) RemoveServerFromClients(serverName string) ([]MCPClient, error) {
	configFiles, err := FindRegisteredClientConfigs(m.configProvider)
	if err != nil {
		return nil, fmt.Errorf("failed to find registered client configs: %w", err)
	}

	var failed []MCPClient
	for _, cf := range configFiles {
		if err := cf.ConfigUpdater.Remove(serverName); err != nil {
			logger.Warnf("failed to remove server %s from client %s: %v", serverName, cf.ClientType, err)
			failed = append(failed, cf.ClientType)
		}
	}

	return failed, nil
}
