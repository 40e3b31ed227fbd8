// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across terminalAI.
//
// # Key Functions
//
// Text:
//   - TruncateWidth: cut a string to a terminal column width
//   - StringWidth: display width of a string (East Asian aware)
//   - IntToStr: allocation-light integer formatting
//   - ExpandHome: expand a leading "~" in a path
//
// Files:
//   - AtomicWriteFile: crash-safe write via temp file, fsync and rename
//
// # Usage
//
//	line := util.TruncateWidth(output, width)
//	err := util.AtomicWriteFile(path, data, 0600)
package util
