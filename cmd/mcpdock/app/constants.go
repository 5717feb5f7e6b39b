// SPDX-FileCopyrightText: Copyright 2025 Drydock Labs, Inc.
// SPDX-License-Identifier: Apache-2.0

package app

// Output format constants
const (
	// FormatJSON is the JSON output format
	FormatJSON = "json"
	// FormatText is the text output format
	FormatText = "text"
)
