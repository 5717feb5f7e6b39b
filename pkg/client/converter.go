// SPDX-FileCopyrightText: Copyright 2025 Drydock Labs, Inc.
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"fmt"
)

// gooseDefaultTimeout is the request timeout in seconds Goose expects on
// every extension entry.
const gooseDefaultTimeout = 300

// YAMLConverter converts server entries into a client's YAML layout.
type YAMLConverter interface {
	ConvertFromServerEntry(serverName string, entry MCPServerEntry) (any, error)
	UpsertEntry(config map[string]any, serverName string, entry any) error
	RemoveEntry(config map[string]any, serverName string) error
}

// GooseConverter writes entries in Goose's extensions format:
//
//	extensions:
//	  <name>:
//	    name: <name>
//	    cmd: <command>
//	    args: [...]
//	    envs: {...}
//	    type: stdio
//	    enabled: true
//	    timeout: 300
type GooseConverter struct{}

// ConvertFromServerEntry converts a server entry to a Goose extension map.
func (*GooseConverter) ConvertFromServerEntry(serverName string, entry MCPServerEntry) (any, error) {
	result := map[string]any{
		"name":    serverName,
		"cmd":     entry.Command,
		"type":    transportTypeStdio,
		"enabled": true,
		"timeout": gooseDefaultTimeout,
	}
	if len(entry.Args) > 0 {
		result["args"] = entry.Args
	}
	if len(entry.Env) > 0 {
		result["envs"] = entry.Env
	}
	return result, nil
}

// UpsertEntry adds or replaces the extension entry for serverName.
func (*GooseConverter) UpsertEntry(config map[string]any, serverName string, entry any) error {
	extensions, err := gooseExtensions(config, true)
	if err != nil {
		return err
	}

	extensions[serverName] = entry
	config["extensions"] = extensions
	return nil
}

// RemoveEntry removes the extension entry for serverName, if present.
func (*GooseConverter) RemoveEntry(config map[string]any, serverName string) error {
	extensions, err := gooseExtensions(config, false)
	if err != nil || extensions == nil {
		return err
	}

	delete(extensions, serverName)
	config["extensions"] = extensions
	return nil
}

// gooseExtensions returns the extensions map from config. When create is
// set a missing section is initialized; otherwise nil is returned for it.
func gooseExtensions(config map[string]any, create bool) (map[string]any, error) {
	existing, ok := config["extensions"]
	if !ok || existing == nil {
		if !create {
			return nil, nil
		}
		return make(map[string]any), nil
	}

	extensions, ok := existing.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("extensions section has unexpected format")
	}
	return extensions, nil
}
