// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package vt interprets the raw byte output of a command.
//
// The interpreter walks the byte stream and keeps printable text. Escape
// sequences are handed to an x/ansi parser, which keeps the stream
// synchronized across CSI, OSC, DCS and the other string types. Only Select
// Graphic Rendition has an effect, and only on a single foreground colour.
// CAN and SUB abort a sequence in progress; outside one they are text.
//
// # Key Types
//
//   - Interpreter: byte-stream state machine (one instance per command)
//   - Color: foreground colour reached by SGR parameters
//   - Line: a styled line of the session output log
//
// # Usage
//
//	line := vt.Interpret(output)
//	// or incrementally
//	p := vt.New()
//	p.Write(chunk)
//	line := p.Line()
//
// Anything beyond colour (cursor movement, alternate screens, OSC titles)
// is parsed and dropped.
package vt
