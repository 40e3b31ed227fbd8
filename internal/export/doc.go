// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes the persisted command history to shareable files.
//
// # Supported Formats
//
//   - Markdown: one fenced shell block per session, readable on any forge
//   - JSON: every entry with its session, directory and timestamp
//
// # Usage
//
//	exp, err := export.New("md", nil)
//	path, err := export.ExportToFile(entries, exp, opts)
package export
