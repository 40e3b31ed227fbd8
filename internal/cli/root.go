// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nitindahiya-dev/terminalAI/internal/config"
	"github.com/nitindahiya-dev/terminalAI/internal/logging"
)

// Version is set by main from build flags.
var Version = "dev"

// rootOptions carries the persistent flags and what PersistentPreRunE
// builds from them.
type rootOptions struct {
	configPath  string
	logLevel    string
	backend     string
	noHistory   bool
	interactive bool

	cfg    *config.Config
	logger *zap.Logger
	level  zap.AtomicLevel
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	o := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "terminalai",
		Short: "A shell that also understands plain English",
		Long: `terminalai is an interactive shell front-end.

Lines that start with a known command run in the shell. Anything else is
sent to a translator that turns it into a shell command, which then runs.
Commands run in the background and their output appears as they finish.

Run without arguments for a line-mode prompt, or with -i for the
full-screen interface.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return o.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if o.logger != nil {
				_ = o.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if o.interactive {
				return runTUI(cmd.Context(), o)
			}
			return runLineMode(cmd.Context(), o, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&o.configPath, "config", "", "config file (default ~/.terminalai/config.toml)")
	flags.StringVar(&o.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&o.backend, "delegate", "", "translator backend: process, http, ollama")
	flags.BoolVar(&o.noHistory, "no-history", false, "do not read or write persisted history")
	rootCmd.Flags().BoolVarP(&o.interactive, "interactive", "i", false, "start the full-screen interface")

	rootCmd.AddCommand(
		newAgentCmd(o),
		newRunCmd(o),
		newHistoryCmd(o),
		newConfigCmd(o),
		newServeCmd(o),
		newVersionCmd(),
	)
	return rootCmd
}

// Execute runs the command line.
func Execute() error {
	return NewRootCmd().Execute()
}

// setup loads the configuration, applies flag overrides and builds the
// logger.
func (o *rootOptions) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	if o.backend != "" {
		cfg.Delegate.Backend = o.backend
	}
	if o.noHistory {
		cfg.History.Persist = false
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	config.SetGlobal(cfg)
	o.cfg = cfg

	logger, level, err := logging.New(logging.Options{
		Level: cfg.Logging.Level,
		File:  cfg.Logging.File,
	})
	if err != nil {
		return err
	}
	o.logger = logger
	o.level = level

	o.logger.Debug("starting",
		zap.String("command", cmd.CommandPath()),
		zap.String("version", Version),
		zap.String("backend", cfg.Delegate.Backend))
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of terminalai",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "terminalai version %s\n", Version)
		},
	}
}
