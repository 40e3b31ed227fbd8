// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package vt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterpret_PlainTextPassesThrough(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "hello", "hello"},
		{"newlines", "a\nb\nc\n", "a\nb\nc\n"},
		{"carriage return dropped", "one\r\ntwo\r\n", "one\ntwo\n"},
		{"lone carriage return", "abc\rdef", "abcdef"},
		{"tab and bell kept", "a\tb\x07", "a\tb\x07"},
		{"backspace kept", "x\by", "x\by"},
		{"multibyte utf8", "héllo wörld ✓ 日本", "héllo wörld ✓ 日本"},
		{"emoji", "📍 here", "📍 here"},
		{"delete kept", "a\x7fb", "a\x7fb"},
		{"can and sub kept", "a\x18b\x1ac", "a\x18b\x1ac"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New()
			p.WriteString(tt.input)
			assert.Equal(t, tt.want, p.Text())
			assert.Equal(t, ColorDefault, p.Color())
		})
	}
}

func TestInterpret_PlainTextProperty(t *testing.T) {
	// Every byte sequence without ESC that is valid UTF-8 comes back with
	// only the carriage returns removed. CAN and SUB outside a sequence are
	// ordinary control characters.
	var b strings.Builder
	for c := 0; c < 0x80; c++ {
		if c == esc {
			continue
		}
		b.WriteByte(byte(c))
	}
	b.WriteString("ünïcödé")
	input := b.String()

	got := Interpret(input)
	assert.Equal(t, strings.ReplaceAll(input, "\r", ""), got.Text)
	assert.False(t, got.IsError)
}

func TestInterpret_SGRColors(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantText  string
		wantColor Color
	}{
		{"red", "\x1b[31mT", "T", ColorRed},
		{"green", "\x1b[32mok", "ok", ColorGreen},
		{"cyan", "\x1b[36minfo", "info", ColorCyan},
		{"reset", "\x1b[31mred\x1b[0mplain", "redplain", ColorDefault},
		{"empty params reset", "\x1b[36mx\x1b[m", "x", ColorDefault},
		{"last applicant wins", "\x1b[31;32;36mT", "T", ColorCyan},
		{"last applicant wins reversed", "\x1b[36;31mT", "T", ColorRed},
		{"unknown ignored", "\x1b[32;1;4mT", "T", ColorGreen},
		{"only unknown", "\x1b[1;4;7mT", "T", ColorDefault},
		{"trailing empty resets", "\x1b[31;mT", "T", ColorDefault},
		{"256 colour arguments looked up", "\x1b[32;38;5;31mT", "T", ColorRed},
		{"truecolor arguments looked up", "\x1b[36;38;2;31;32;0mT", "T", ColorDefault},
		{"truecolor ending on cyan", "\x1b[38;2;0;0;36mT", "T", ColorCyan},
		{"colon truecolor skipped", "\x1b[32;38:2:31:32:0mT", "T", ColorGreen},
		{"background ignored", "\x1b[41mT", "T", ColorDefault},
		{"sub parameters skipped", "\x1b[4:31mT", "T", ColorDefault},
		{"private marker not sgr", "\x1b[?31mT", "T", ColorDefault},
		{"intermediate not sgr", "\x1b[31 mT", "T", ColorDefault},
		{"leading zeros", "\x1b[0031mT", "T", ColorRed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := Interpret(tt.input)
			assert.Equal(t, tt.wantText, line.Text)
			assert.Equal(t, tt.wantColor, line.Color)
			assert.False(t, line.IsError)
		})
	}
}

func TestInterpret_IgnoredSequences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"cursor movement", "a\x1b[2Jb\x1b[1;1Hc", "abc"},
		{"erase line", "progress\x1b[Kdone", "progressdone"},
		{"private mode", "\x1b[?25lhidden\x1b[?25h", "hidden"},
		{"osc title bel", "\x1b]0;my title\x07text", "text"},
		{"osc title st", "\x1b]2;title\x1b\\text", "text"},
		{"osc hyperlink", "\x1b]8;;http://x.y\x1b\\link\x1b]8;;\x1b\\", "link"},
		{"dcs", "\x1bPq#0;2;0;0;0\x1b\\after", "after"},
		{"apc", "\x1b_payload\x1b\\after", "after"},
		{"charset designation", "\x1b(Bascii", "ascii"},
		{"keypad mode", "\x1b=x\x1b>y", "xy"},
		{"save cursor", "\x1b7a\x1b8", "a"},
		{"can aborts csi", "\x1b[31\x18T", "T"},
		{"sub aborts osc", "\x1b]0;t\x1aT", "T"},
		{"esc restarts", "\x1b\x1b[32mT", "T"},
		{"csi ignore recovers", "\x1b[1?2mT", "T"},
		{"c0 inside csi executed", "\x1b[3\n1mT", "\nT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Interpret(tt.input).Text)
		})
	}
}

func TestInterpret_CancelOnlyInsideSequence(t *testing.T) {
	line := Interpret("\x18\x1b[31\x18\x1a\x1b[32mT\x1a")
	assert.Equal(t, "\x18\x1aT\x1a", line.Text)
	assert.Equal(t, ColorGreen, line.Color)
}

func TestInterpret_IgnoredCSIKeepsColor(t *testing.T) {
	line := Interpret("\x1b[32mgreen\x1b[2K\x1b[1Gstill")
	assert.Equal(t, "greenstill", line.Text)
	assert.Equal(t, ColorGreen, line.Color)
}

func TestInterpret_PartialSequenceAtEnd(t *testing.T) {
	inputs := []string{
		"text\x1b",
		"text\x1b[",
		"text\x1b[31",
		"text\x1b]0;unterminated title",
		"text\x1bP",
		"text\xe2\x9c",
	}
	for _, in := range inputs {
		line := Interpret(in)
		assert.Equal(t, "text", line.Text, "input %q", in)
		assert.Equal(t, ColorDefault, line.Color, "input %q", in)
	}
}

func TestInterpret_InvalidUTF8(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"stray continuation", "a\x80b", "a�b"},
		{"invalid lead", "a\xffb", "a�b"},
		{"truncated then ascii", "a\xe2\x9cb", "a�b"},
		{"truncated then escape", "\xc3\x1b[31mT", "�T"},
		{"overlong", "\xe0\x80\x80", "�"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Interpret(tt.input).Text)
		})
	}
}

func TestInterpret_Placeholder(t *testing.T) {
	for _, in := range []string{"", "\r", "\x1b[0m", "\x1b]0;t\x07"} {
		line := Interpret(in)
		assert.Equal(t, Placeholder, line.Text, "input %q", in)
		assert.Equal(t, ColorDefault, line.Color)
		assert.False(t, line.IsError)
	}
}

func TestInterpreter_IncrementalWrites(t *testing.T) {
	// A sequence split across writes is still recognized.
	p := New()
	chunks := []string{"\x1b", "[3", "1", "mre", "d\xe2", "\x9c\x93"}
	for _, c := range chunks {
		n, err := p.Write([]byte(c))
		require.NoError(t, err)
		require.Equal(t, len(c), n)
	}
	assert.Equal(t, "red✓", p.Text())
	assert.Equal(t, ColorRed, p.Color())
}

func TestInterpreter_FreshInstanceDoesNotLeak(t *testing.T) {
	first := Interpret("\x1b[31merror")
	require.Equal(t, ColorRed, first.Color)

	second := Interpret("plain")
	assert.Equal(t, ColorDefault, second.Color)
}

func TestInterpret_ParameterLimits(t *testing.T) {
	// Oversized values saturate, excess parameters are dropped.
	line := Interpret("\x1b[99999999999mT")
	assert.Equal(t, "T", line.Text)
	assert.Equal(t, ColorDefault, line.Color)

	params := strings.Repeat("1;", 40) + "31"
	line = Interpret("\x1b[" + params + "mT")
	assert.Equal(t, "T", line.Text)
	assert.Equal(t, ColorDefault, line.Color)
}

func TestColor_Hex(t *testing.T) {
	assert.Equal(t, "#c8c8c8", ColorDefault.Hex())
	assert.Equal(t, "#ff6464", ColorRed.Hex())
	assert.Equal(t, "#96ff96", ColorGreen.Hex())
	assert.Equal(t, "#64c8ff", ColorCyan.Hex())
	assert.Equal(t, "Color(9)", Color(9).String())
}
