// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the terminalai command line.
//
// Running terminalai with no subcommand starts a shell session: a readline
// style prompt by default, or the full-screen interface with -i. The
// subcommands cover one-shot use and maintenance:
//
//	terminalai                      line mode
//	terminalai -i                   full-screen mode
//	terminalai run <line>           run one line and wait for its output
//	terminalai agent <text>         translate text, print a JSON reply
//	terminalai history [--clear]    show or clear persisted history
//	terminalai history export       write history to Markdown or JSON
//	terminalai config show|path|init|get|set|keys
//	terminalai serve                HTTP endpoint for the http backend
//	terminalai version
//
// The agent subcommand is the default translator of the process backend:
// the shell invokes its own executable as "terminalai agent <text>".
package cli
