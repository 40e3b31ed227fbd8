// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for terminalAI.
//
// Configuration is TOML with sensible defaults, environment variable
// overrides and validation. A Watcher reloads the file when it changes.
//
// # Key Types
//
//   - Config: the complete configuration
//   - ShellConfig: command execution and classification
//   - DelegateConfig: the natural-language translator backend
//   - HistoryConfig: persistent history and translation cache
//   - Watcher: fsnotify-based live reload
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Command-line flags (applied by the caller)
//   - Environment variables (TERMINALAI_*)
//   - ~/.terminalai/config.toml, or the file given with --config
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	classifier := router.New(cfg.Shell.KnownCommands)
package config
