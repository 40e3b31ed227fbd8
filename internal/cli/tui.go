// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/nitindahiya-dev/terminalAI/internal/config"
	"github.com/nitindahiya-dev/terminalAI/internal/logging"
	shellui "github.com/nitindahiya-dev/terminalAI/internal/ui/shell"
	"github.com/nitindahiya-dev/terminalAI/internal/ui/styles"
)

// ErrNoTerminal is returned by -i when stdin or stdout is not a terminal.
var ErrNoTerminal = errors.New("the interactive interface needs a terminal; run without -i for line mode")

// runTUI runs a session in the full-screen interface. Edits to the config
// file are applied while it runs.
func runTUI(ctx context.Context, o *rootOptions) error {
	if !IsTTY() || !IsStdoutTTY() {
		return ErrNoTerminal
	}

	a := newApp(o.cfg, o.logger)
	defer a.Close()

	sess, err := a.newSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	model := shellui.New(shellui.Options{
		Session:   sess,
		Theme:     styles.NewTheme(o.cfg.UI.Theme),
		Tick:      o.cfg.TickInterval(),
		Highlight: o.cfg.UI.Highlight,
		Logger:    o.logger.Named("ui"),
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	w, err := config.Watch(o.configPath, config.DefaultWatchDebounce, o.logger.Named("config"),
		func(cfg *config.Config, err error) {
			if err == nil {
				o.applyLogLevel(cfg.Logging.Level)
			}
			p.Send(shellui.ConfigReloadMsg{Config: cfg, Err: err})
		})
	if err != nil {
		o.logger.Warn("config reload disabled", zap.Error(err))
	} else {
		defer w.Close()
	}

	_, err = p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// applyLogLevel changes the running logger's level unless --log-level
// pinned it.
func (o *rootOptions) applyLogLevel(name string) {
	if o.logLevel != "" {
		return
	}
	lvl, err := logging.ParseLevel(name)
	if err != nil {
		o.logger.Warn("ignoring log level", zap.String("level", name), zap.Error(err))
		return
	}
	o.level.SetLevel(lvl)
}
