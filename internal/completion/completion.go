// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package completion provides path completion for the shell input line.
//
// Only the last word of the input is completed, against the entries of a
// directory derived from the session's working directory. A single match
// replaces the word (directories gain a trailing slash). Several matches
// extend the word to their longest common prefix and are returned as
// candidates for the renderer to list.
package completion

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// MaxCandidates caps the number of candidates returned for display.
const MaxCandidates = 50

// =============================================================================
// RESULT
// =============================================================================

// Result is the outcome of one completion attempt.
type Result struct {
	// Input is the new input line. Equal to the original when nothing matched.
	Input string
	// Candidates lists the matching names when more than one matched.
	// Directories carry a trailing slash.
	Candidates []string
}

// Changed reports whether the completion modified the input.
func (r Result) Changed(original string) bool {
	return r.Input != original
}

// =============================================================================
// COMPLETER
// =============================================================================

// Completer completes file and directory names.
type Completer struct {
	// Home is used for "~" expansion. Empty disables expansion.
	Home string

	// ReadDir lists a directory. Defaults to os.ReadDir.
	ReadDir func(dir string) ([]os.DirEntry, error)
}

// New creates a completer that expands "~" to the user's home directory.
func New() *Completer {
	home, _ := os.UserHomeDir()
	return &Completer{Home: home}
}

// Complete completes the last word of input relative to cwd.
func (c *Completer) Complete(input, cwd string) Result {
	res := Result{Input: input}

	head, word := splitLastWord(input)
	dirPart, prefix := splitPath(word)

	dir := c.lookupDir(dirPart, cwd)
	if dir == "" {
		return res
	}

	readDir := c.ReadDir
	if readDir == nil {
		readDir = os.ReadDir
	}
	entries, err := readDir(dir)
	if err != nil {
		return res
	}

	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		// Hidden entries only when asked for.
		if strings.HasPrefix(name, ".") && !strings.HasPrefix(prefix, ".") {
			continue
		}
		if isDir(entry, dir) {
			name += "/"
		}
		names = append(names, name)
	}
	sort.Strings(names)

	switch len(names) {
	case 0:
		return res
	case 1:
		res.Input = head + dirPart + names[0]
		return res
	}

	common := longestCommonPrefix(names)
	if len(common) > len(prefix) {
		res.Input = head + dirPart + common
	}
	if len(names) > MaxCandidates {
		names = names[:MaxCandidates]
	}
	res.Candidates = names
	return res
}

// Lines returns every completed input line, for line editors that cycle
// through the candidates themselves.
func (c *Completer) Lines(input, cwd string) []string {
	res := c.Complete(input, cwd)
	if len(res.Candidates) == 0 {
		if res.Changed(input) {
			return []string{res.Input}
		}
		return nil
	}

	head, word := splitLastWord(input)
	dirPart, _ := splitPath(word)
	lines := make([]string, len(res.Candidates))
	for i, name := range res.Candidates {
		lines[i] = head + dirPart + name
	}
	return lines
}

// lookupDir maps the directory part of a word to a directory on disk.
func (c *Completer) lookupDir(dirPart, cwd string) string {
	dir := dirPart
	switch {
	case dir == "":
		return cwd
	case dir == "~/" || strings.HasPrefix(dir, "~/"):
		if c.Home == "" {
			return ""
		}
		dir = filepath.Join(c.Home, dir[2:])
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(cwd, dir)
	}
	return dir
}

// =============================================================================
// HELPERS
// =============================================================================

// splitLastWord splits input into everything up to the last word and the
// word itself. A trailing space yields an empty word.
func splitLastWord(input string) (head, word string) {
	i := strings.LastIndexAny(input, " \t")
	if i < 0 {
		return "", input
	}
	return input[:i+1], input[i+1:]
}

// splitPath splits a word at its last slash. A bare "~" is treated as "~/".
func splitPath(word string) (dirPart, prefix string) {
	if word == "~" {
		return "~/", ""
	}
	i := strings.LastIndex(word, "/")
	if i < 0 {
		return "", word
	}
	return word[:i+1], word[i+1:]
}

// isDir reports whether entry is a directory, following symlinks.
func isDir(entry os.DirEntry, parent string) bool {
	if entry.IsDir() {
		return true
	}
	if entry.Type()&os.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(parent, entry.Name()))
	return err == nil && info.IsDir()
}

func longestCommonPrefix(names []string) string {
	if len(names) == 0 {
		return ""
	}
	prefix := names[0]
	for _, n := range names[1:] {
		for !strings.HasPrefix(n, prefix) {
			prefix = prefix[:len(prefix)-1]
		}
		if prefix == "" {
			break
		}
	}
	return prefix
}
