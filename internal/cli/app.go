// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/nitindahiya-dev/terminalAI/internal/config"
	"github.com/nitindahiya-dev/terminalAI/internal/router"
	"github.com/nitindahiya-dev/terminalAI/internal/session"
	"github.com/nitindahiya-dev/terminalAI/internal/shell"
	"github.com/nitindahiya-dev/terminalAI/internal/storage"
)

// seedTimeout bounds the history read at startup.
const seedTimeout = 2 * time.Second

// app holds what every session-running command needs.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	// store is nil when history persistence is off or the database could
	// not be opened.
	store *storage.Store
}

// newApp opens the history database if persistence is enabled. A database
// that cannot be opened is logged and skipped; the shell still works.
func newApp(cfg *config.Config, logger *zap.Logger) *app {
	a := &app{cfg: cfg, logger: logger}
	if !cfg.History.Persist {
		return a
	}

	store, err := storage.Open(storage.Config{
		Path:           cfg.History.Path,
		MaxHistory:     cfg.History.MaxEntries,
		TranslationTTL: cfg.CacheTTL(),
		Logger:         logger.Named("storage"),
	})
	if err != nil {
		logger.Warn("history disabled: cannot open database", zap.Error(err))
		return a
	}
	a.store = store
	return a
}

// Close closes the history database.
func (a *app) Close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}

// newSession builds a session from the configuration, seeded with the
// persisted history.
func (a *app) newSession(ctx context.Context) (*session.Session, error) {
	d, err := buildDelegate(a.cfg, a.store, a.logger)
	if err != nil {
		return nil, err
	}

	runner := shell.NewExecutor()
	runner.Shell = a.cfg.Shell.Interpreter
	runner.Term = a.cfg.Shell.Term
	runner.MaxOutputSize = a.cfg.Shell.MaxOutputBytes

	opts := session.Options{
		Classifier: router.New(a.cfg.Shell.KnownCommands),
		Delegate:   d,
		Runner:     runner,
		Logger:     a.logger.Named("session"),
		User:       a.cfg.UI.User,
		Host:       a.cfg.UI.Host,
	}

	if a.store != nil {
		opts.Recorder = a.store

		seedCtx, cancel := context.WithTimeout(ctx, seedTimeout)
		defer cancel()
		lines, err := a.store.HistoryLines(seedCtx, session.DefaultMaxHistory)
		if err != nil {
			a.logger.Warn("failed to load history", zap.Error(err))
		}
		opts.History = lines
	}

	return session.New(opts), nil
}

// requireStore returns the database or explains why there is none.
func (a *app) requireStore() (*storage.Store, error) {
	if a.store == nil {
		return nil, fmt.Errorf("history is disabled (history.persist = false or --no-history)")
	}
	return a.store, nil
}
