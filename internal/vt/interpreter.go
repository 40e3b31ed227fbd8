// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package vt

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/x/ansi"
	ansiparser "github.com/charmbracelet/x/ansi/parser"
)

// Placeholder is the line emitted for a command that printed nothing.
const Placeholder = "Command executed successfully."

const (
	// maxParams is the number of CSI parameters kept per sequence.
	maxParams = 32
	// maxParamValue is where a numeric parameter saturates.
	maxParamValue = 65535
)

// C0 bytes with a meaning to the interpreter itself.
const (
	can = 0x18
	sub = 0x1a
	esc = 0x1b
)

// =============================================================================
// INTERPRETER
// =============================================================================

// Interpreter turns a command's output bytes into text and a colour.
// Plain text and UTF-8 are decoded here; escape sequences are scanned by
// an ansi.Parser and only SGR reaches back into the interpreter.
// It is not safe for concurrent use; create one per command.
type Interpreter struct {
	seq   *ansi.Parser
	text  strings.Builder
	color Color

	// pending UTF-8 sequence in the ground state
	utf8buf  [utf8.UTFMax]byte
	utf8len  int
	utf8need int
}

// New returns an interpreter in the ground state with the default colour.
func New() *Interpreter {
	p := &Interpreter{color: ColorDefault}
	p.seq = ansi.NewParser()
	p.seq.SetParamsSize(maxParams)
	p.seq.SetHandler(ansi.Handler{
		Execute:   p.execute,
		HandleCsi: p.csiDispatch,
	})
	return p
}

// Interpret runs a fresh interpreter over output and returns the resulting line.
func Interpret(output string) Line {
	p := New()
	p.WriteString(output)
	return p.Line()
}

// Write feeds bytes to the interpreter. It never fails.
func (p *Interpreter) Write(b []byte) (int, error) {
	for _, c := range b {
		p.Advance(c)
	}
	return len(b), nil
}

// WriteString feeds a string to the interpreter.
func (p *Interpreter) WriteString(s string) (int, error) {
	for i := 0; i < len(s); i++ {
		p.Advance(s[i])
	}
	return len(s), nil
}

// Text returns the plain text accumulated so far.
func (p *Interpreter) Text() string {
	return p.text.String()
}

// Color returns the current foreground colour.
func (p *Interpreter) Color() Color {
	return p.color
}

// Line returns the output line for everything written so far. Incomplete
// sequences still being collected are discarded.
func (p *Interpreter) Line() Line {
	if p.text.Len() == 0 {
		return Line{Text: Placeholder, Color: ColorDefault}
	}
	return Line{Text: p.text.String(), Color: p.color}
}

// Advance processes a single byte.
func (p *Interpreter) Advance(b byte) {
	if p.seq.State() != ansiparser.GroundState {
		if b == can || b == sub {
			// Abort the sequence being collected; nothing is printed.
			p.seq.Reset()
			return
		}
		p.seq.Advance(b)
		return
	}
	p.ground(b)
}

// =============================================================================
// GROUND
// =============================================================================

func (p *Interpreter) ground(b byte) {
	if p.utf8need > 0 {
		if b >= 0x80 && b <= 0xbf {
			p.utf8buf[p.utf8len] = b
			p.utf8len++
			if p.utf8len == p.utf8need {
				p.flushUTF8()
			}
			return
		}
		// Truncated sequence: emit a replacement and reprocess b.
		p.dropUTF8()
		p.text.WriteRune(utf8.RuneError)
	}

	switch {
	case b == esc:
		p.seq.Advance(b)
	case b < 0x80:
		p.execute(b)
	default:
		p.startUTF8(b)
	}
}

// execute handles plain ASCII and C0 bytes, including the C0 controls the
// parser executes from inside a sequence.
func (p *Interpreter) execute(b byte) {
	if b == '\r' {
		return
	}
	p.text.WriteByte(b)
}

// =============================================================================
// DISPATCH
// =============================================================================

func (p *Interpreter) csiDispatch(cmd ansi.Cmd, params ansi.Params) {
	if cmd.Final() != 'm' || cmd.Prefix() != 0 || cmd.Intermediate() != 0 {
		return
	}
	p.selectGraphicRendition(params)
}

// selectGraphicRendition applies SGR parameters in order, so the last
// recognized colour wins. Each ';'-separated parameter is looked up on its
// own; ':' sub-parameters belong to the parameter before them and are
// skipped. An empty parameter list means reset.
func (p *Interpreter) selectGraphicRendition(params ansi.Params) {
	if len(params) == 0 {
		p.color = ColorDefault
		return
	}
	inSub := false
	for _, ps := range params {
		isSub := inSub
		inSub = ps.HasMore()
		if isSub {
			continue
		}
		if c, ok := sgrColors[saturate(ps.Param(0))]; ok {
			p.color = c
		}
	}
}

func saturate(v int) int {
	if v > maxParamValue || v < 0 {
		return maxParamValue
	}
	return v
}

// =============================================================================
// UTF-8
// =============================================================================

func (p *Interpreter) startUTF8(b byte) {
	var need int
	switch {
	case b >= 0xc2 && b <= 0xdf:
		need = 2
	case b >= 0xe0 && b <= 0xef:
		need = 3
	case b >= 0xf0 && b <= 0xf4:
		need = 4
	default:
		p.text.WriteRune(utf8.RuneError)
		return
	}
	p.utf8buf[0] = b
	p.utf8len = 1
	p.utf8need = need
}

func (p *Interpreter) flushUTF8() {
	r, size := utf8.DecodeRune(p.utf8buf[:p.utf8len])
	if r == utf8.RuneError && size <= 1 {
		p.text.WriteRune(utf8.RuneError)
	} else {
		p.text.WriteRune(r)
	}
	p.dropUTF8()
}

func (p *Interpreter) dropUTF8() {
	p.utf8len = 0
	p.utf8need = 0
}
