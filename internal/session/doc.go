// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session is the orchestrator of the shell.
//
// A Session owns the input buffer, the output log, the command history and
// the working directory. It classifies each submitted line, runs built-ins
// in place and hands everything else to the execution engine. Results are
// drained with Poll on the caller's tick.
//
// # Key Types
//
//   - Session: the interactive state, owned by a single goroutine
//   - History: submitted lines with a navigation cursor
//   - Recorder: optional persistence of submitted lines, written in order
//     by a background goroutine; Close flushes it
//
// # Usage
//
//	s := session.New(session.Options{Delegate: d, Logger: logger})
//	defer s.Close()
//	if s.Submit("ls -la") == session.OutcomeExit {
//	    return
//	}
//	// later, on every tick
//	if s.Poll() > 0 {
//	    render(s.Lines())
//	}
//
// A Session is not safe for concurrent use. The only values that cross a
// goroutine boundary are the engine's immutable results and the lines
// queued for the Recorder.
package session
