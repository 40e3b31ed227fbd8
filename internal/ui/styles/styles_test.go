// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/nitindahiya-dev/terminalAI/internal/vt"
)

func TestOutputColor(t *testing.T) {
	tests := []struct {
		in   vt.Color
		want lipgloss.Color
	}{
		{vt.ColorDefault, "#c8c8c8"},
		{vt.ColorRed, "#ff6464"},
		{vt.ColorGreen, "#96ff96"},
		{vt.ColorCyan, "#64c8ff"},
	}
	for _, tt := range tests {
		if got := OutputColor(tt.in); got != tt.want {
			t.Errorf("OutputColor(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewTheme_Modes(t *testing.T) {
	if !NewTheme("dark").IsDark {
		t.Error("dark theme should report IsDark")
	}
	if NewTheme("LIGHT").IsDark {
		t.Error("light theme should not report IsDark")
	}
}

func TestRenderLine_KeepsText(t *testing.T) {
	theme := NewTheme("dark")
	lines := []vt.Line{
		{Text: "plain output", Color: vt.ColorGreen},
		vt.ErrorLine("Error changing directory: nope"),
		vt.InfoLine("Changed directory to /tmp"),
		{Text: "me@host $ ls", Kind: vt.LineEcho},
	}
	for _, l := range lines {
		if got := theme.RenderLine(l); !strings.Contains(got, l.Text) {
			t.Errorf("RenderLine(%q) lost its text: %q", l.Text, got)
		}
	}
}
