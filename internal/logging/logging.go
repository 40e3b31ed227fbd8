// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging builds the application's zap logger.
//
// The interactive shell owns the terminal, so logs go to a file as JSON
// lines. Components receive named children of the root logger.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options configures the logger.
type Options struct {
	// Level is debug, info, warn or error.
	Level string
	// File receives the log. Empty selects DefaultFile; "-" means stderr.
	File string
	// Development switches to the human-readable console encoder.
	Development bool
}

// DefaultFile returns ~/.terminalai/terminalai.log.
func DefaultFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".terminalai", "terminalai.log")
	}
	return filepath.Join(home, ".terminalai", "terminalai.log")
}

// ParseLevel parses a level name. Empty means info.
func ParseLevel(name string) (zapcore.Level, error) {
	if name == "" {
		return zapcore.InfoLevel, nil
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(name))); err != nil {
		return zapcore.InfoLevel, fmt.Errorf("invalid log level %q: %w", name, err)
	}
	return lvl, nil
}

// New builds a logger and returns it with its level, which may be changed
// while the program runs.
func New(opts Options) (*zap.Logger, zap.AtomicLevel, error) {
	lvl, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, zap.AtomicLevel{}, err
	}

	var config zap.Config
	if opts.Development {
		config = zap.NewDevelopmentConfig()
	} else {
		config = zap.NewProductionConfig()
	}
	config.Level = zap.NewAtomicLevelAt(lvl)
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	file := opts.File
	if file == "" {
		file = DefaultFile()
	}
	if file == "-" {
		file = "stderr"
	} else if err := os.MkdirAll(filepath.Dir(file), 0700); err != nil {
		return nil, zap.AtomicLevel{}, fmt.Errorf("failed to create log directory: %w", err)
	}
	config.OutputPaths = []string{file}
	config.ErrorOutputPaths = []string{"stderr"}

	logger, err := config.Build()
	if err != nil {
		return nil, zap.AtomicLevel{}, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger.Named("terminalai"), config.Level, nil
}

// Nop returns a logger that discards everything.
func Nop() *zap.Logger {
	return zap.NewNop()
}
