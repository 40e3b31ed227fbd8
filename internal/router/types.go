// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package router

import (
	"context"
	"fmt"
)

// ============================================================================
// KIND TYPE
// ============================================================================

// Kind is the classification of an input line.
type Kind int

const (
	// KindClear empties the output log.
	KindClear Kind = iota
	// KindChangeDirectory changes the working directory; Text holds the path.
	KindChangeDirectory
	// KindExit terminates the shell.
	KindExit
	// KindShell runs Text through the shell.
	KindShell
	// KindDelegate is natural language; Text must be translated first.
	KindDelegate
)

// String returns the human-readable name of the kind.
func (k Kind) String() string {
	switch k {
	case KindClear:
		return "Clear"
	case KindChangeDirectory:
		return "ChangeDirectory"
	case KindExit:
		return "Exit"
	case KindShell:
		return "Shell"
	case KindDelegate:
		return "Delegate"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// IsBuiltin returns true if the kind is handled without a shell.
func (k Kind) IsBuiltin() bool {
	return k == KindClear || k == KindChangeDirectory || k == KindExit
}

// ============================================================================
// COMMAND
// ============================================================================

// Command is a classified input line. It is never mutated after creation.
type Command struct {
	Kind Kind
	// Text is the directory for KindChangeDirectory, the shell text for
	// KindShell and the original line for KindDelegate.
	Text string
}

// String formats the command for logs.
func (c Command) String() string {
	if c.Text == "" {
		return c.Kind.String()
	}
	return fmt.Sprintf("%s(%q)", c.Kind, c.Text)
}

// Delegate translates natural language into a shell command.
type Delegate interface {
	Invoke(ctx context.Context, text string) (string, error)
}

// DelegateFunc adapts a function to the Delegate interface.
type DelegateFunc func(ctx context.Context, text string) (string, error)

// Invoke calls f.
func (f DelegateFunc) Invoke(ctx context.Context, text string) (string, error) {
	return f(ctx, text)
}
