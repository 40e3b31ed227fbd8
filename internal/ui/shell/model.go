// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package shell

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/nitindahiya-dev/terminalAI/internal/session"
	"github.com/nitindahiya-dev/terminalAI/internal/ui/styles"
	"github.com/nitindahiya-dev/terminalAI/internal/vt"
)

// DefaultTick is the poll interval used when Options.Tick is zero.
const DefaultTick = 50 * time.Millisecond

// Layout rows below the scrollback: candidates, input border, input, status.
const chromeHeight = 4

// =============================================================================
// MODEL
// =============================================================================

// Options configures a Model.
type Options struct {
	Session   *session.Session
	Theme     *styles.Theme
	Tick      time.Duration
	Highlight bool
	Logger    *zap.Logger
}

// Model is the Bubble Tea model for the shell view.
type Model struct {
	sess  *session.Session
	theme *styles.Theme

	keys     KeyMap
	help     help.Model
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model

	tick        time.Duration
	highlight   bool
	highlighter *highlighter
	logger      *zap.Logger

	width    int
	height   int
	ready    bool
	showHelp bool
	helpView string
	quitting bool
}

// New creates a model for opts.Session.
func New(opts Options) Model {
	theme := opts.Theme
	if theme == nil {
		theme = styles.NewTheme("auto")
	}
	tick := opts.Tick
	if tick <= 0 {
		tick = DefaultTick
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	ti := textinput.New()
	ti.Prompt = "$ "
	ti.Placeholder = "Type a command or describe what you want..."
	ti.CharLimit = 4096
	ti.PromptStyle = theme.InputPrompt
	ti.TextStyle = theme.InputText
	ti.PlaceholderStyle = theme.InputPlaceholder
	ti.Focus()

	vp := viewport.New(80, 20)

	sp := spinner.New()
	sp.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 10,
	}
	sp.Style = theme.Spinner

	h := help.New()
	h.Styles.ShortKey = theme.ShortcutKey
	h.Styles.ShortDesc = theme.ShortcutDesc

	m := Model{
		sess:        opts.Session,
		theme:       theme,
		keys:        DefaultKeyMap(),
		help:        h,
		input:       ti,
		viewport:    vp,
		spinner:     sp,
		tick:        tick,
		highlight:   opts.Highlight,
		highlighter: newHighlighter(theme.HasTrueColor),
		logger:      logger,
	}
	m.refresh()
	return m
}

// Session returns the session the model drives.
func (m Model) Session() *session.Session { return m.sess }

// Quitting reports whether the model has asked the program to exit.
func (m Model) Quitting() bool { return m.quitting }

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init starts the cursor blink, the spinner and the poll tick.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, pollTick(m.tick))
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case PollTickMsg:
		if m.sess.Poll() > 0 {
			m.refresh()
		}
		return m, pollTick(m.tick)

	case ConfigReloadMsg:
		return m.handleConfigReload(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the shell view.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Initializing..."
	}
	return m.render()
}

// =============================================================================
// MESSAGE HANDLERS
// =============================================================================

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	vpHeight := msg.Height - chromeHeight
	if vpHeight < 1 {
		vpHeight = 1
	}
	m.viewport.Width = msg.Width
	m.viewport.Height = vpHeight
	m.input.Width = msg.Width - lipgloss.Width(m.input.Prompt) - 1
	m.help.Width = msg.Width
	m.ready = true

	if m.showHelp {
		m.helpView = renderHelp(msg.Width-8, m.theme.IsDark)
	}
	m.refresh()
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		if m.showHelp {
			m.helpView = renderHelp(m.width-8, m.theme.IsDark)
		}
		return m, nil

	case m.showHelp && key.Matches(msg, m.keys.Close):
		m.showHelp = false
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		m.sess.SetInput(m.input.Value())
		outcome := m.sess.SubmitInput()
		m.input.SetValue("")
		m.refresh()
		if outcome == session.OutcomeExit {
			m.logger.Info("exit requested")
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case key.Matches(msg, m.keys.Complete):
		m.sess.SetInput(m.input.Value())
		m.sess.Complete()
		m.syncInput()
		return m, nil

	case key.Matches(msg, m.keys.HistoryPrev):
		m.sess.HistoryUp()
		m.syncInput()
		return m, nil

	case key.Matches(msg, m.keys.HistoryNext):
		m.sess.HistoryDown()
		m.syncInput()
		return m, nil

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.ViewUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.ViewDown()
		return m, nil

	case key.Matches(msg, m.keys.Top):
		m.viewport.GotoTop()
		return m, nil

	case key.Matches(msg, m.keys.Bottom):
		m.viewport.GotoBottom()
		return m, nil

	case key.Matches(msg, m.keys.ClearInput):
		m.input.SetValue("")
		m.sess.SetInput("")
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.sess.SetInput(m.input.Value())
	}
	return m, cmd
}

func (m Model) handleConfigReload(msg ConfigReloadMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.logger.Warn("config reload rejected", zap.Error(msg.Err))
		return m, nil
	}
	if msg.Config == nil {
		return m, nil
	}
	m.sess.SetKnownCommands(msg.Config.Shell.KnownCommands)
	m.highlight = msg.Config.UI.Highlight
	if t := msg.Config.TickInterval(); t > 0 {
		m.tick = t
	}
	m.refresh()
	m.logger.Info("config reloaded",
		zap.Int("known_commands", len(msg.Config.Shell.KnownCommands)))
	return m, nil
}

// syncInput copies the session's input buffer into the text field.
func (m *Model) syncInput() {
	m.input.SetValue(m.sess.Input())
	m.input.CursorEnd()
}

// =============================================================================
// SCROLLBACK
// =============================================================================

// refresh re-renders the log into the viewport and scrolls to the newest
// line.
func (m *Model) refresh() {
	lines := m.sess.Lines()
	parts := make([]string, 0, len(lines))
	for _, l := range lines {
		parts = append(parts, m.renderLine(l))
	}
	m.viewport.SetContent(strings.Join(parts, "\n"))
	m.viewport.GotoBottom()
}

func (m *Model) renderLine(l vt.Line) string {
	if m.highlight && l.Kind == vt.LineEcho && !l.IsError {
		prompt := m.sess.Prompt()
		if cmd, ok := strings.CutPrefix(l.Text, prompt); ok {
			return m.theme.Echo.Render(prompt) + m.highlighter.Bash(cmd)
		}
	}
	return m.theme.RenderLine(l)
}
