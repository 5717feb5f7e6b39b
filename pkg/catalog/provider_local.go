// SPDX-FileCopyrightText: Copyright 2025 Drydock Labs, Inc.
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"embed"
	"fmt"
	"os"
)

//go:embed data/registry.json
var embeddedRegistryFS embed.FS

// LocalRegistryProvider provides registry data from a local file, or from
// the embedded snapshot when no path is given.
type LocalRegistryProvider struct {
	*BaseProvider
	filePath string
}

// NewLocalRegistryProvider creates a new local registry provider.
// If filePath is provided, it will read from that file; otherwise uses embedded data
func NewLocalRegistryProvider(filePath ...string) *LocalRegistryProvider {
	var path string
	if len(filePath) > 0 {
		path = filePath[0]
	}
	p := &LocalRegistryProvider{filePath: path}
	p.BaseProvider = NewBaseProvider(p.GetRegistry)
	return p
}

// GetRegistry returns the registry data from file path or embedded data
func (p *LocalRegistryProvider) GetRegistry() (*RegistryData, error) {
	var data []byte
	var err error

	if p.filePath != "" {
		data, err = os.ReadFile(p.filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read local registry file %s: %w", p.filePath, err)
		}
	} else {
		data, err = embeddedRegistryFS.ReadFile("data/registry.json")
		if err != nil {
			return nil, fmt.Errorf("failed to read embedded registry data: %w", err)
		}
	}

	return ParseRegistryData(data)
}
