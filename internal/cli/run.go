// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nitindahiya-dev/terminalAI/internal/session"
)

// ErrLineFailed is returned by run when the line produced an error line.
var ErrLineFailed = errors.New("line failed")

func newRunCmd(o *rootOptions) *cobra.Command {
	var (
		timeout time.Duration
		echo    bool
	)

	cmd := &cobra.Command{
		Use:   "run <line>",
		Short: "Run one line, shell or plain English, and print its output",
		Example: `  terminalai run ls -la
  terminalai run "find all go files changed today"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			a := newApp(o.cfg, o.logger)
			defer a.Close()

			sess, err := a.newSession(ctx)
			if err != nil {
				return err
			}
			defer sess.Close()

			printer := newLinePrinter(cmd.OutOrStdout(), GetColorProfile(), echo)
			printer.Skip(sess)

			if sess.Submit(strings.Join(args, " ")) == session.OutcomeExit {
				return nil
			}
			errs := printer.Flush(sess)
			errs += drain(ctx, sess, printer, o.cfg.TickInterval())

			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errs > 0 {
				return ErrLineFailed
			}
			return nil
		},
	}
	// Everything after the line's first word belongs to the line.
	cmd.Flags().SetInterspersed(false)
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "stop waiting after this long (0 waits until done)")
	cmd.Flags().BoolVar(&echo, "echo", false, "print the prompt echo line before the output")
	return cmd
}
