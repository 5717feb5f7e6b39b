// SPDX-FileCopyrightText: Copyright 2025 Drydock Labs, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package installer wires catalog servers into MCP client configurations.
// It validates user-supplied parameter values against the server's
// parameter specs, substitutes them into the install descriptor, and writes
// the resulting entry through the client config updaters.
package installer

import (
	"fmt"

	"github.com/drydocklabs/mcpdock/pkg/catalog"
	"github.com/drydocklabs/mcpdock/pkg/client"
	"github.com/drydocklabs/mcpdock/pkg/logger"
)

// InstallOptions carries everything needed to install one server.
type InstallOptions struct {
	// ServerID is the catalog id of the server to install.
	ServerID string

	// Client is the MCP client whose config receives the entry.
	Client client.MCPClient

	// Parameters are the user-supplied parameter values, keyed by
	// parameter name.
	Parameters map[string]string
}

// InstallResult reports what an install wrote and where.
type InstallResult struct {
	Server     *catalog.MCPServer
	Client     client.MCPClient
	ConfigPath string
	Entry      client.MCPServerEntry

	// Parameters are the resolved values after defaults and validation.
	// Secret values are present unmasked; callers printing them must go
	// through SummarizeParameters.
	Parameters map[string]string
}

// Installer installs and uninstalls catalog servers.
type Installer struct {
	provider catalog.Provider
}

// NewInstaller creates an installer over the given catalog provider.
func NewInstaller(provider catalog.Provider) *Installer {
	return &Installer{provider: provider}
}

// Install resolves the server, validates and substitutes its parameters,
// and upserts the entry into the client's configuration file. The settings
// file is created when the client does not have one yet.
func (i *Installer) Install(opts InstallOptions) (*InstallResult, error) {
	server, err := i.provider.GetServer(opts.ServerID)
	if err != nil {
		return nil, err
	}

	resolved, err := ResolveParameters(server, opts.Parameters)
	if err != nil {
		return nil, err
	}

	entry, err := BuildServerEntry(server, resolved)
	if err != nil {
		return nil, err
	}

	cf, err := client.ResolveClientConfig(opts.Client)
	if err != nil {
		return nil, err
	}

	if err := client.Upsert(*cf, server.ID, entry); err != nil {
		return nil, fmt.Errorf("failed to update %s configuration: %w", opts.Client, err)
	}

	logger.Infof("Installed server %s into %s configuration", server.ID, opts.Client)

	return &InstallResult{
		Server:     server,
		Client:     opts.Client,
		ConfigPath: cf.Path,
		Entry:      entry,
		Parameters: resolved,
	}, nil
}

// Uninstall removes the server's entry from the client's configuration
// file. Removing an entry that is not present is not an error, but a client
// without a config file is.
func (i *Installer) Uninstall(serverID string, clientType client.MCPClient) error {
	cf, err := client.FindClientConfig(clientType)
	if err != nil {
		return err
	}

	if err := cf.ConfigUpdater.Remove(serverID); err != nil {
		return fmt.Errorf("failed to update %s configuration: %w", clientType, err)
	}

	logger.Infof("Removed server %s from %s configuration", serverID, clientType)
	return nil
}
