// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"io"
	"strings"

	"github.com/muesli/termenv"

	"github.com/nitindahiya-dev/terminalAI/internal/session"
	"github.com/nitindahiya-dev/terminalAI/internal/vt"
)

// linePrinter writes a session's log to a stream incrementally. Each Flush
// prints the lines added since the previous one.
type linePrinter struct {
	w   io.Writer
	out *termenv.Output
	tty bool
	// echo prints prompt echo lines. Line mode leaves them out because the
	// editor already shows what was typed.
	echo bool

	printed int
	epoch   uint64
}

func newLinePrinter(w io.Writer, profile termenv.Profile, echo bool) *linePrinter {
	return &linePrinter{
		w:    w,
		out:  termenv.NewOutput(w, termenv.WithProfile(profile)),
		tty:  isTerminalWriter(w),
		echo: echo,
	}
}

// Skip marks everything currently in the log as printed.
func (p *linePrinter) Skip(s *session.Session) {
	p.printed = len(s.Lines())
	p.epoch = s.Epoch()
}

// Flush prints new lines and returns how many of them were errors. A
// cleared log clears the screen on a terminal.
func (p *linePrinter) Flush(s *session.Session) int {
	if s.Epoch() != p.epoch {
		p.epoch = s.Epoch()
		p.printed = 0
		if p.tty {
			p.out.ClearScreen()
		}
	}

	lines := s.Lines()
	if p.printed > len(lines) {
		p.printed = 0
	}

	errs := 0
	for _, l := range lines[p.printed:] {
		if l.Kind == vt.LineEcho && !p.echo {
			continue
		}
		if l.IsError {
			errs++
		}
		p.write(l)
	}
	p.printed = len(lines)
	return errs
}

func (p *linePrinter) write(l vt.Line) {
	text := p.render(l)
	if p.tty {
		// The editor may hold the terminal in raw mode with a prompt drawn.
		p.out.ClearLine()
		text = "\r" + strings.ReplaceAll(text, "\n", "\r\n") + "\r\n"
	} else {
		text += "\n"
	}
	_, _ = io.WriteString(p.w, text)
}

// render colours a line the way the full-screen view does.
func (p *linePrinter) render(l vt.Line) string {
	text := strings.TrimRight(l.Text, "\n")
	s := p.out.String(text)

	switch {
	case l.IsError:
		s = s.Foreground(p.out.Color(vt.ColorRed.Hex())).Bold()
	case l.Kind == vt.LineInfo:
		s = s.Italic().Faint()
	case l.Kind == vt.LineEcho:
		s = s.Bold()
	case l.Color != vt.ColorDefault:
		s = s.Foreground(p.out.Color(l.Color.Hex()))
	}
	return s.String()
}
