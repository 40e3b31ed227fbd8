// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nitindahiya-dev/terminalAI/internal/config"
)

// newAgentCmd builds the translator protocol endpoint: one instruction in,
// one JSON reply out. Failures are reported inside the reply and the exit
// status stays zero.
func newAgentCmd(o *rootOptions) *cobra.Command {
	var backend string

	cmd := &cobra.Command{
		Use:   "agent <instruction>",
		Short: "Translate an instruction into a shell command and print it as JSON",
		Long: `Translate an instruction into a shell command.

The reply is one JSON object on stdout:

  {"input": "...", "command": "..."}    on success
  {"input": "...", "error": "..."}      on failure

This is the protocol of the process backend, which runs
"terminalai agent <instruction>" by default.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := backend
			if name == "" {
				name = o.cfg.Delegate.Backend
			}
			// The process backend would call this command again.
			if name == config.BackendProcess {
				name = config.BackendHTTP
			}

			t, err := newTranslator(o.cfg, name)
			if err != nil {
				return err
			}

			input := strings.Join(args, " ")
			resp := t.Translate(cmd.Context(), input)
			if resp.Error != nil {
				o.logger.Warn("translation failed",
					zap.String("backend", name),
					zap.String("input", input),
					zap.String("error", *resp.Error))
			} else if resp.Command != nil {
				o.logger.Info("translated",
					zap.String("backend", name),
					zap.String("input", input),
					zap.String("command", *resp.Command))
			}

			return json.NewEncoder(cmd.OutOrStdout()).Encode(resp)
		},
	}
	cmd.Flags().StringVar(&backend, "backend", "", "http or ollama (default: the configured backend, http for process)")
	return cmd
}
