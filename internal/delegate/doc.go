// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package delegate translates natural-language instructions into shell
// commands.
//
// Every backend answers with the same structured response:
//
//	{"input": "...", "command": "...", "error": "..."}
//
// and every failure is reported as a *Error with one of four kinds:
// ProcessFailure, MalformedResponse, ServiceError and EmptyCommand. None of
// them is retried.
//
// # Backends
//
//   - Process: runs an external translator with the text as its only
//     argument and parses its stdout (the default; terminalai's own
//     "agent" subcommand speaks this protocol)
//   - Agent: queries an HTTP completion endpoint directly
//   - Ollama: asks a local Ollama model
//
// Limited and Cached wrap any backend with a rate limit and a persistent
// translation cache.
package delegate
