// SPDX-FileCopyrightText: Copyright 2025 Drydock Labs, Inc.
// SPDX-License-Identifier: Apache-2.0

// config_editor.go provides ConfigUpdater implementations for editing MCP
// client configuration files in JSON, YAML, and TOML formats.
//
// All operations take a file lock (a ".lock" sibling of the config file)
// before the read-modify-write cycle, and write the result through an
// atomic replace. Errors are returned to the caller rather than handled
// here: explicit CLI commands surface them, while bulk operations such as
// removing a server from every registered client log them and continue.

package client

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/pelletier/go-toml/v2"
	"github.com/tailscale/hujson"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/drydocklabs/mcpdock/pkg/fileutils"
	"github.com/drydocklabs/mcpdock/pkg/logger"
)

// ConfigUpdater defines the interface for types which can edit MCP client
// config files.
type ConfigUpdater interface {
	// Upsert inserts or updates an MCP server configuration.
	Upsert(serverName string, entry MCPServerEntry) error

	// Remove removes an MCP server configuration. Removing a server
	// that is not present is not an error.
	Remove(serverName string) error
}

// MCPServerEntry is the value written under the client's MCP servers
// block: the local process the client launches over stdio.
type MCPServerEntry struct {
	Command string            `json:"command,omitempty"`
	Args    []string          `json:"args,omitempty"`
	Env     map[string]string `json:"env,omitempty"`
	Type    string            `json:"type,omitempty"`
}

// withFileLock executes fn while holding a file lock for the given path.
// Shared by all config updaters to keep concurrent edits safe.
func withFileLock(path string, fn func() error) error {
	fileLock := flock.New(path + ".lock")

	ctx, cancel := context.WithTimeout(context.Background(), lockTimeout)
	defer cancel()

	locked, err := fileLock.TryLockContext(ctx, 100*time.Millisecond)
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("failed to acquire lock: timeout after %v", lockTimeout)
	}
	defer func() {
		if err := fileLock.Unlock(); err != nil {
			logger.Warnf("failed to release lock for %s: %v", path, err)
		}
	}()

	return fn()
}

// JSONConfigUpdater updates JSON config files. It parses with hujson so
// comments and trailing commas in files like VS Code's settings.json
// survive the edit.
type JSONConfigUpdater struct {
	Path                 string
	MCPServersPathPrefix string
}

// Upsert inserts or updates an MCP server in the client config file
func (jcu *JSONConfigUpdater) Upsert(serverName string, entry MCPServerEntry) error {
	return withFileLock(jcu.Path, func() error {
		content, err := os.ReadFile(jcu.Path)
		if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to read file: %w", err)
		}

		if len(content) == 0 {
			content = []byte("{}")
		}

		content = ensurePathExists(content, jcu.MCPServersPathPrefix)

		v, err := hujson.Parse(content)
		if err != nil {
			return fmt.Errorf("failed to parse JSON: %w", err)
		}

		entryJSON, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("failed to marshal server entry to JSON: %w", err)
		}

		patch := fmt.Sprintf(`[{ "op": "add", "path": "%s/%s", "value": %s } ]`, jcu.MCPServersPathPrefix, serverName, entryJSON)
		if err := v.Patch([]byte(patch)); err != nil {
			return fmt.Errorf("failed to patch JSON: %w", err)
		}

		formatted, err := hujson.Format(v.Pack())
		if err != nil {
			return fmt.Errorf("failed to format JSON: %w", err)
		}

		if err := fileutils.AtomicWriteFile(jcu.Path, formatted, 0600); err != nil {
			logger.Warnf("failed to write JSON config file: %v", err)
			return fmt.Errorf("failed to write file: %w", err)
		}

		logger.Debugf("updated client config file %s for server %s", jcu.Path, serverName)
		return nil
	})
}

// Remove removes an MCP server from the client config file
func (jcu *JSONConfigUpdater) Remove(serverName string) error {
	return withFileLock(jcu.Path, func() error {
		content, err := os.ReadFile(jcu.Path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return fmt.Errorf("failed to read file: %w", err)
		}

		if len(content) == 0 {
			return nil
		}

		v, err := hujson.Parse(content)
		if err != nil {
			return fmt.Errorf("failed to parse JSON: %w", err)
		}

		patch := fmt.Sprintf(`[{ "op": "remove", "path": "%s/%s" } ]`, jcu.MCPServersPathPrefix, serverName)
		if err := v.Patch([]byte(patch)); err != nil {
			// A failed remove on a missing path means there is nothing
			// to do; other patch failures are real errors.
			if strings.Contains(err.Error(), "value not found") || strings.Contains(err.Error(), "path not found") {
				logger.Debugf("server %s not present in %s, nothing to remove", serverName, jcu.Path)
				return nil
			}
			return fmt.Errorf("failed to patch JSON: %w", err)
		}

		formatted, err := hujson.Format(v.Pack())
		if err != nil {
			return fmt.Errorf("failed to format JSON: %w", err)
		}

		if err := fileutils.AtomicWriteFile(jcu.Path, formatted, 0600); err != nil {
			logger.Warnf("failed to write JSON config file: %v", err)
			return fmt.Errorf("failed to write file: %w", err)
		}

		logger.Debugf("removed server %s from client config file %s", serverName, jcu.Path)
		return nil
	})
}

// YAMLConfigUpdater updates YAML config files through a converter that
// knows the client's entry layout.
type YAMLConfigUpdater struct {
	Path      string
	Converter YAMLConverter
}

// Upsert inserts or updates an MCP server in the YAML config file
func (ycu *YAMLConfigUpdater) Upsert(serverName string, entry MCPServerEntry) error {
	return withFileLock(ycu.Path, func() error {
		content, err := os.ReadFile(ycu.Path)
		if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to read file: %w", err)
		}

		// A generic map preserves every existing field, not just the
		// servers block.
		config := make(map[string]any)
		if len(content) > 0 {
			if err := yaml.Unmarshal(content, &config); err != nil {
				return fmt.Errorf("failed to parse existing YAML config: %w", err)
			}
		}

		converted, err := ycu.Converter.ConvertFromServerEntry(serverName, entry)
		if err != nil {
			return fmt.Errorf("failed to convert server entry: %w", err)
		}

		if err := ycu.Converter.UpsertEntry(config, serverName, converted); err != nil {
			return fmt.Errorf("failed to upsert entry: %w", err)
		}

		updatedContent, err := yaml.Marshal(config)
		if err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}

		if err := fileutils.AtomicWriteFile(ycu.Path, updatedContent, 0600); err != nil {
			logger.Warnf("failed to write YAML config file: %v", err)
			return fmt.Errorf("failed to write file: %w", err)
		}

		logger.Debugf("updated YAML client config file %s for server %s", ycu.Path, serverName)
		return nil
	})
}

// Remove removes an MCP server entry from the YAML config file
func (ycu *YAMLConfigUpdater) Remove(serverName string) error {
	return withFileLock(ycu.Path, func() error {
		content, err := os.ReadFile(ycu.Path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return fmt.Errorf("failed to read file: %w", err)
		}

		if len(content) == 0 {
			return nil
		}

		var config map[string]any
		if err := yaml.Unmarshal(content, &config); err != nil {
			return fmt.Errorf("failed to parse YAML: %w", err)
		}

		if err := ycu.Converter.RemoveEntry(config, serverName); err != nil {
			return fmt.Errorf("failed to remove entry: %w", err)
		}

		updatedContent, err := yaml.Marshal(config)
		if err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}

		if err := fileutils.AtomicWriteFile(ycu.Path, updatedContent, 0600); err != nil {
			logger.Warnf("failed to write YAML config file: %v", err)
			return fmt.Errorf("failed to write file: %w", err)
		}

		logger.Debugf("removed server %s from YAML config file %s", serverName, ycu.Path)
		return nil
	})
}

// TOMLConfigUpdater updates TOML config files that keep servers as nested
// tables, [<servers-key>.<server-name>].
type TOMLConfigUpdater struct {
	Path       string
	ServersKey string
}

// Upsert inserts or updates an MCP server in the TOML config file
func (tcu *TOMLConfigUpdater) Upsert(serverName string, entry MCPServerEntry) error {
	return withFileLock(tcu.Path, func() error {
		config, err := readTOMLConfig(tcu.Path)
		if err != nil {
			return err
		}

		serversMap := tcu.getServersMap(config)
		serversMap[serverName] = buildTOMLServerEntry(entry)
		config[tcu.ServersKey] = serversMap

		if err := writeTOMLConfig(tcu.Path, config); err != nil {
			return err
		}

		logger.Debugf("updated TOML client config file %s for server %s", tcu.Path, serverName)
		return nil
	})
}

// Remove removes an MCP server from the TOML config file
func (tcu *TOMLConfigUpdater) Remove(serverName string) error {
	return withFileLock(tcu.Path, func() error {
		config, err := readTOMLConfig(tcu.Path)
		if err != nil {
			return err
		}

		if len(config) == 0 {
			return nil
		}

		serversSection, ok := config[tcu.ServersKey]
		if !ok {
			return nil
		}

		serversMap, ok := serversSection.(map[string]any)
		if !ok {
			return nil
		}

		delete(serversMap, serverName)
		config[tcu.ServersKey] = serversMap

		if err := writeTOMLConfig(tcu.Path, config); err != nil {
			return err
		}

		logger.Debugf("removed server %s from TOML config file %s", serverName, tcu.Path)
		return nil
	})
}

// getServersMap extracts or initializes the servers map from config
func (tcu *TOMLConfigUpdater) getServersMap(config map[string]any) map[string]any {
	existing, ok := config[tcu.ServersKey]
	if !ok {
		return make(map[string]any)
	}
	serversMap, ok := existing.(map[string]any)
	if !ok {
		return make(map[string]any)
	}
	return serversMap
}

// buildTOMLServerEntry creates a server entry map from the entry data
func buildTOMLServerEntry(entry MCPServerEntry) map[string]any {
	result := map[string]any{
		"command": entry.Command,
	}
	if len(entry.Args) > 0 {
		result["args"] = entry.Args
	}
	if len(entry.Env) > 0 {
		result["env"] = entry.Env
	}
	return result
}

// readTOMLConfig reads and parses a TOML config file from the given path.
func readTOMLConfig(path string) (map[string]any, error) {
	content, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	if len(content) == 0 {
		return make(map[string]any), nil
	}

	var config map[string]any
	if err := toml.Unmarshal(content, &config); err != nil {
		return nil, fmt.Errorf("failed to parse existing TOML config: %w", err)
	}
	return config, nil
}

// writeTOMLConfig marshals and writes the config to the TOML file atomically.
func writeTOMLConfig(path string, config map[string]any) error {
	updatedContent, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal TOML: %w", err)
	}
	if err := fileutils.AtomicWriteFile(path, updatedContent, 0600); err != nil {
		logger.Warnf("failed to write TOML config file: %v", err)
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// ensurePathExists ensures that the JSON pointer path exists in the JSON
// content, creating empty objects along the way, and returns the updated
// content. VS Code's "/mcp/servers" needs the intermediate "mcp" object
// before a server can be patched in.
func ensurePathExists(content []byte, path string) []byte {
	if path == "/" {
		v, _ := hujson.Parse(content)
		formatted, _ := hujson.Format(v.Pack())
		return formatted
	}

	segments := strings.Split(path, "/")

	// Two spellings of the walked path are tracked: a JSON pointer for
	// the hujson patch, and a dotted path for the gjson lookup. gjson
	// treats "." as a traversal character, so literal dots in keys are
	// escaped for retrieval only.
	var pathSoFarForPatch string
	var pathSoFarForRetrieval string
	for i, segment := range segments {
		if path[0] == '/' && i == 0 {
			continue
		}

		if len(pathSoFarForPatch) == 0 {
			pathSoFarForPatch = "/" + segment
			pathSoFarForRetrieval = strings.ReplaceAll(segment, ".", `\.`)
		} else {
			pathSoFarForPatch = pathSoFarForPatch + "/" + segment
			pathSoFarForRetrieval = pathSoFarForRetrieval + "." + strings.ReplaceAll(segment, ".", `\.`)
		}

		if gjson.GetBytes(content, pathSoFarForRetrieval).Raw != "" {
			continue
		}

		patch := fmt.Sprintf(`[{ "op": "add", "path": "%s", "value": {} }]`, pathSoFarForPatch)

		v, _ := hujson.Parse(content)
		if err := v.Patch([]byte(patch)); err != nil {
			logger.Errorf("failed to patch client config file: %v", err)
		}

		content = v.Pack()
	}

	v, _ := hujson.Parse(content)
	formatted, _ := hujson.Format(v.Pack())
	return formatted
}
