// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Ellipsis is appended by TruncateWidth when it cuts a string.
const Ellipsis = "..."

// =============================================================================
// WIDTH
// =============================================================================

// StringWidth returns the number of terminal columns s occupies.
func StringWidth(s string) int {
	return runewidth.StringWidth(s)
}

// TruncateWidth cuts s so it fits in width columns, ending with Ellipsis
// when anything was removed. Wide runes are never split.
func TruncateWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if width <= len(Ellipsis) {
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.Truncate(s, width, Ellipsis)
}

// PadRight pads s with spaces to width columns.
func PadRight(s string, width int) string {
	return runewidth.FillRight(s, width)
}

// =============================================================================
// CONVERSION
// =============================================================================

// IntToStr formats n in base 10.
func IntToStr(n int) string {
	if n >= 0 && n < 10 {
		return string(rune('0' + n))
	}
	return strconv.Itoa(n)
}

// =============================================================================
// PATHS
// =============================================================================

// ExpandHome replaces a leading "~" or "~/" in path with the user's home
// directory. Paths without a tilde, and paths when home cannot be found,
// are returned unchanged.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if path == "~" {
		return home
	}
	return filepath.Join(home, path[2:])
}
