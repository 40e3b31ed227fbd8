// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nitindahiya-dev/terminalAI/internal/export"
	"github.com/nitindahiya-dev/terminalAI/internal/util"
)

func newHistoryCmd(o *rootOptions) *cobra.Command {
	var (
		limit    int
		clearAll bool
		purge    bool
		detail   bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show or clear the persisted command history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := newApp(o.cfg, o.logger)
			defer a.Close()

			store, err := a.requireStore()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if clearAll {
				n, err := store.ClearHistory(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, SuccessStyle.Render("Cleared "+util.IntToStr(int(n))+" history entries"))
			}
			if purge {
				n, err := store.PurgeTranslations(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, SuccessStyle.Render("Removed "+util.IntToStr(int(n))+" cached translations"))
			}
			if clearAll || purge {
				return nil
			}

			entries, err := store.RecentHistory(ctx, limit)
			if err != nil {
				return err
			}
			for i, e := range entries {
				if detail {
					fmt.Fprintf(out, "%5d  %s  %s  %s\n", i+1,
						DimStyle.Render(e.CreatedAt.Local().Format(time.DateTime)),
						DimStyle.Render(util.TruncateWidth(e.Dir, 30)),
						e.Line)
					continue
				}
				fmt.Fprintf(out, "%5d  %s\n", i+1, e.Line)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of entries to show")
	cmd.Flags().BoolVar(&clearAll, "clear", false, "delete all history entries")
	cmd.Flags().BoolVar(&purge, "purge-translations", false, "delete expired cached translations")
	cmd.Flags().BoolVarP(&detail, "verbose", "v", false, "show time and directory")

	cmd.AddCommand(newHistoryExportCmd(o))
	return cmd
}

func newHistoryExportCmd(o *rootOptions) *cobra.Command {
	var (
		format    string
		outputDir string
		limit     int
		bare      bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the command history to a Markdown or JSON file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := export.DefaultOptions()
			opts.OutputDir = outputDir
			opts.IncludeDirs = !bare
			opts.IncludeTimestamps = !bare

			exp, err := export.New(format, opts)
			if err != nil {
				return err
			}

			a := newApp(o.cfg, o.logger)
			defer a.Close()
			store, err := a.requireStore()
			if err != nil {
				return err
			}

			entries, err := store.RecentHistory(cmd.Context(), limit)
			if err != nil {
				return err
			}
			path, err := export.ExportToFile(entries, exp, opts)
			if err != nil {
				return err
			}
			o.logger.Info("history exported",
				zap.String("path", path),
				zap.Int("entries", len(entries)))
			fmt.Fprintln(cmd.OutOrStdout(), SuccessStyle.Render("Exported "+util.IntToStr(len(entries))+" entries to "+path))
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "md", "output format: md or json")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", ".", "directory to write the export to")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "number of newest entries to export (0 for all)")
	cmd.Flags().BoolVar(&bare, "bare", false, "omit directories and timestamps")
	return cmd
}
