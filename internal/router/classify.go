// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package router

import (
	"strings"
)

// DefaultKnownCommands is the allow-list of utilities whose first word marks
// a line as a literal shell command.
var DefaultKnownCommands = []string{
	"ls", "pwd", "clear", "cd", "cat", "echo", "grep", "find", "rm", "mkdir", "touch",
	"mv", "cp", "chmod", "chown", "whoami", "df", "du", "top", "htop", "ps", "kill",
}

// shellMarkers are characters that make a line look like shell syntax.
const shellMarkers = "=|>"

// ============================================================================
// CLASSIFICATION FUNCTIONS
// ============================================================================

// firstWord returns the first whitespace-delimited token of s.
func firstWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// Classify classifies a line using DefaultKnownCommands.
func Classify(line string) Command {
	return classify(line, defaultKnown)
}

// classify applies the classification rules in order:
//  1. Clear: the line is exactly "clear"
//  2. ChangeDirectory: "cd" or "cd <path>"
//  3. Exit: "exit" or "quit"
//  4. Shell: first word is a known utility, or the line contains = | >
//  5. Delegate: everything else
func classify(line string, known map[string]bool) Command {
	line = strings.TrimSpace(line)

	if line == "clear" {
		return Command{Kind: KindClear}
	}

	if dir, ok := changeDirectory(line); ok {
		return Command{Kind: KindChangeDirectory, Text: dir}
	}

	if line == "exit" || line == "quit" {
		return Command{Kind: KindExit}
	}

	if known[firstWord(line)] || strings.ContainsAny(line, shellMarkers) {
		return Command{Kind: KindShell, Text: line}
	}

	return Command{Kind: KindDelegate, Text: line}
}

// literal reads a command returned by a delegate. Built-ins that only the
// session can perform are recognized; everything else runs in the shell,
// whether or not it passes the allow-list.
func literal(command string) Command {
	command = strings.TrimSpace(command)
	if command == "clear" {
		return Command{Kind: KindClear}
	}
	if dir, ok := changeDirectory(command); ok {
		return Command{Kind: KindChangeDirectory, Text: dir}
	}
	return Command{Kind: KindShell, Text: command}
}

// changeDirectory reports whether line is a directory change and returns
// the trimmed target ("" for a bare cd).
func changeDirectory(line string) (string, bool) {
	if line == "cd" {
		return "", true
	}
	if strings.HasPrefix(line, "cd ") {
		return strings.TrimSpace(strings.TrimPrefix(line, "cd ")), true
	}
	return "", false
}

// knownSet builds a lookup set from a list of utility names.
func knownSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n != "" {
			set[n] = true
		}
	}
	return set
}

var defaultKnown = knownSet(DefaultKnownCommands)
