// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package shell

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nitindahiya-dev/terminalAI/internal/util"
)

// render lays out the full screen.
func (m Model) render() string {
	body := m.viewport.View()
	if m.showHelp {
		body = m.renderHelpOverlay()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		body,
		m.renderCandidates(),
		m.renderInput(),
		m.renderStatusBar(),
	)
}

// renderCandidates shows the matches of an ambiguous completion. The row is
// always present so the layout does not jump.
func (m Model) renderCandidates() string {
	cands := m.sess.Completions()
	if len(cands) == 0 {
		return ""
	}
	return m.theme.Candidates.Render(util.TruncateWidth(strings.Join(cands, "  "), m.width))
}

func (m Model) renderInput() string {
	return m.theme.InputContainer.Width(m.width).Render(m.input.View())
}

func (m Model) renderStatusBar() string {
	var state string
	if n := m.sess.Pending(); n > 0 {
		state = m.theme.StatusBusy.Render(fmt.Sprintf("%s %d running", m.spinner.View(), n))
	} else {
		state = m.theme.StatusIdle.Render("ready")
	}

	shortcuts := m.help.ShortHelpView(m.keys.ShortHelp())

	// Whatever width remains goes to the directory.
	room := m.width - lipgloss.Width(state) - lipgloss.Width(shortcuts) - 6
	if room < 8 {
		room = 8
	}
	cwd := m.theme.StatusCwd.Render(util.TruncateWidth(m.sess.Cwd(), room))

	left := cwd + "  " + state
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(shortcuts) - 2
	if gap < 1 {
		return m.theme.StatusBar.Width(m.width).Render(left)
	}
	return m.theme.StatusBar.Width(m.width).Render(left + strings.Repeat(" ", gap) + shortcuts)
}

// renderHelpOverlay replaces the scrollback with the help text, clipped to
// the scrollback height.
func (m Model) renderHelpOverlay() string {
	box := m.theme.HelpBox.Width(m.width - 2).Render(m.helpView)
	lines := strings.Split(box, "\n")
	if h := m.viewport.Height; len(lines) > h {
		lines = lines[:h]
	}
	for len(lines) < m.viewport.Height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}
