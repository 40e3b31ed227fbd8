// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package shell provides the full-screen Bubble Tea front-end for a session.
//
// The model owns the session and is the only code that touches it. Finished
// commands are collected on a poll tick, so the event loop never waits on a
// running command. Layout, from top to bottom:
//
//   - scrollback (viewport over the session's output log)
//   - completion candidates, when the last Tab was ambiguous
//   - the input line
//   - a status bar with the working directory and in-flight count
//
// F1 opens a markdown help overlay rendered with glamour.
package shell
