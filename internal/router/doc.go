// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package router decides how a submitted input line is handled.
//
// A line is either a built-in (clear, cd, exit), a literal shell command, or
// natural language that has to be translated by a delegate first:
// Built-in -> Shell -> Delegate
//
// # Key Types
//
//   - Kind: what the line turned out to be
//   - Command: classified line (kind plus payload)
//   - Classifier: classification with a configurable allow-list
//   - Delegate: the translator used to resolve natural language
//
// # Usage
//
// Classify a line and resolve it if it needs translation:
//
//	c := router.New(cfg.Shell.KnownCommands)
//	cmd := c.Classify(line)
//	switch cmd.Kind {
//	case router.KindClear:
//	    // clear the log
//	case router.KindDelegate:
//	    cmd, err = c.Resolve(ctx, cmd, delegate)
//	}
//
// # Heuristic
//
// The shell check is intentionally loose: the first word must be a known
// utility, or the line must contain '=', '|' or '>'. A sentence containing
// '>' goes to the shell and fails there, which surfaces as error output.
package router
