// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/nitindahiya-dev/terminalAI/internal/config"
	"github.com/nitindahiya-dev/terminalAI/internal/delegate"
	"github.com/nitindahiya-dev/terminalAI/internal/offline"
	"github.com/nitindahiya-dev/terminalAI/internal/ollama"
	"github.com/nitindahiya-dev/terminalAI/internal/router"
	"github.com/nitindahiya-dev/terminalAI/internal/storage"
)

// agentSubcommand is what the process backend runs when no translator
// command is configured.
const agentSubcommand = "agent"

// executable is replaced in tests.
var executable = os.Executable

// buildDelegate assembles the configured backend behind the rate limiter
// and, when a database is available, the translation cache.
func buildDelegate(cfg *config.Config, store *storage.Store, logger *zap.Logger) (router.Delegate, error) {
	backend, err := newBackend(cfg)
	if err != nil {
		return nil, err
	}

	inv := delegate.NewLimited(backend, cfg.Delegate.RatePerMinute)
	if cfg.Delegate.Cache && store != nil {
		inv = delegate.NewCached(inv, store, cfg.Delegate.Backend, logger.Named("delegate"))
	}
	return inv, nil
}

func newBackend(cfg *config.Config) (delegate.Invoker, error) {
	dc := cfg.Delegate
	switch strings.ToLower(dc.Backend) {
	case config.BackendProcess:
		if dc.Command != "" {
			return delegate.NewProcess(dc.Command, dc.Args...), nil
		}
		exe, err := executable()
		if err != nil {
			return nil, fmt.Errorf("cannot locate the built-in translator: %w", err)
		}
		return delegate.NewProcess(exe, agentSubcommand), nil

	case config.BackendHTTP, config.BackendOllama:
		return newTranslator(cfg, strings.ToLower(dc.Backend))

	default:
		return nil, fmt.Errorf("unknown delegate backend %q", dc.Backend)
	}
}

// translator is a backend that can report its outcome as a Response, which
// is what the agent subcommand prints.
type translator interface {
	delegate.Invoker
	Translate(ctx context.Context, input string) delegate.Response
}

// newTranslator returns an in-process translator: the HTTP completion
// service or a local Ollama model.
func newTranslator(cfg *config.Config, backend string) (translator, error) {
	dc := cfg.Delegate
	switch strings.ToLower(backend) {
	case config.BackendHTTP:
		if err := offline.ValidateURL(dc.URL, dc.Offline); err != nil {
			return nil, fmt.Errorf("delegate.url: %w", err)
		}
		return delegate.NewAgent(dc.URL, cfg.DelegateTimeout()), nil
	case config.BackendOllama:
		if err := offline.ValidateURL(dc.OllamaURL, dc.Offline); err != nil {
			return nil, fmt.Errorf("delegate.ollama_url: %w", err)
		}
		client := ollama.NewClientWithConfig(&ollama.ClientConfig{
			BaseURL:      dc.OllamaURL,
			Timeout:      cfg.DelegateTimeout(),
			DefaultModel: dc.OllamaModel,
		})
		return delegate.NewOllama(client, dc.OllamaModel), nil
	default:
		return nil, fmt.Errorf("backend %q cannot translate in-process", backend)
	}
}
