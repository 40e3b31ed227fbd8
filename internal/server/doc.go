// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package server provides the local translation endpoint behind
// `terminalai serve`.
//
// The endpoint speaks the protocol the http delegate backend expects: a GET
// with the prompt in the "text" query parameter, answered with plain text
// that contains a fenced bash block. Replies come from a local Ollama model.
//
// # Routes
//
//   - GET /        complete the prompt in ?text=
//   - GET /health  report backend reachability and request counters
//
// # Middleware
//
// Every request passes through recovery, security headers, zap request
// logging and a per-client token bucket. Unless remote clients are allowed,
// requests from non-loopback addresses are refused.
package server
