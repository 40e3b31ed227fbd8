// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package shell

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nitindahiya-dev/terminalAI/internal/config"
)

// PollTickMsg asks the model to collect finished commands.
type PollTickMsg struct {
	Time time.Time
}

// ConfigReloadMsg carries a configuration re-read after the file changed.
// It is sent from the watcher goroutine with Program.Send.
type ConfigReloadMsg struct {
	Config *config.Config
	Err    error
}

// pollTick schedules the next PollTickMsg.
func pollTick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return PollTickMsg{Time: t}
	})
}
