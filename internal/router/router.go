// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package router

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// ErrNoDelegate is returned when a line needs translation but no delegate
// is configured.
var ErrNoDelegate = errors.New("no delegate configured for natural language input")

// Classifier classifies lines against a configurable allow-list.
// Safe for concurrent use.
type Classifier struct {
	mu    sync.RWMutex
	known map[string]bool
}

// New creates a classifier. A nil or empty list selects DefaultKnownCommands.
func New(known []string) *Classifier {
	c := &Classifier{}
	c.SetKnownCommands(known)
	return c
}

// SetKnownCommands replaces the allow-list.
func (c *Classifier) SetKnownCommands(known []string) {
	set := knownSet(known)
	if len(set) == 0 {
		set = defaultKnown
	}
	c.mu.Lock()
	c.known = set
	c.mu.Unlock()
}

// KnownCommands returns the allow-list, sorted.
func (c *Classifier) KnownCommands() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.known))
	for n := range c.known {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Classify classifies a line. See classify for the rules.
func (c *Classifier) Classify(line string) Command {
	c.mu.RLock()
	known := c.known
	c.mu.RUnlock()
	return classify(line, known)
}

// Resolve turns a KindDelegate command into an executable one by invoking d
// exactly once. Other kinds are returned unchanged. The translated text is
// read literally: "cd ..." and "clear" become built-ins, anything else a
// shell command.
func (c *Classifier) Resolve(ctx context.Context, cmd Command, d Delegate) (Command, error) {
	if cmd.Kind != KindDelegate {
		return cmd, nil
	}
	if d == nil {
		return Command{}, ErrNoDelegate
	}

	text, err := d.Invoke(ctx, cmd.Text)
	if err != nil {
		return Command{}, err
	}
	return literal(text), nil
}
