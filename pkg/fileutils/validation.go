// SPDX-FileCopyrightText: Copyright 2025 Drydock Labs, Inc.
// SPDX-License-Identifier: Apache-2.0

package fileutils

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// maxNameLength bounds names used in file path construction.
const maxNameLength = 100

var nameCharset = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

// ValidateNameForPath validates a user-supplied name (server ID, client
// name, backup label) before it is used to build a file path. It rejects
// path traversal patterns, separators, null bytes, and anything outside
// [a-zA-Z0-9._-].
func ValidateNameForPath(name string) error {
	if name == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if len(name) > maxNameLength {
		return fmt.Errorf("name exceeds maximum length of %d characters", maxNameLength)
	}
	if strings.ContainsRune(name, 0) {
		return fmt.Errorf("name contains null byte")
	}
	if !nameCharset.MatchString(name) {
		return fmt.Errorf("name contains invalid characters (allowed: letters, digits, '.', '_', '-')")
	}

	// Normalized form must stay inside the enclosing directory.
	cleaned := filepath.Clean(name)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "..") {
		return fmt.Errorf("name resolves to a path traversal")
	}
	if filepath.IsAbs(cleaned) {
		return fmt.Errorf("name must not be an absolute path")
	}

	return nil
}
