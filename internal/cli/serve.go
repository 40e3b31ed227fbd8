// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nitindahiya-dev/terminalAI/internal/config"
	"github.com/nitindahiya-dev/terminalAI/internal/offline"
	"github.com/nitindahiya-dev/terminalAI/internal/ollama"
	"github.com/nitindahiya-dev/terminalAI/internal/server"
)

// newServeCmd runs the local translation endpoint that the http backend
// queries, answering from the configured Ollama model.
func newServeCmd(o *rootOptions) *cobra.Command {
	var (
		addr        string
		model       string
		rate        int
		allowRemote bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve translations over HTTP for the http delegate backend",
		Long: `Serve translations over HTTP.

GET /?text=<prompt> is answered with the model's reply, which contains a
fenced bash block. This is the endpoint the http backend queries
(delegate.url), so "terminalai serve" plus "delegate.backend = http"
gives a translator backed by a local Ollama model.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = serveAddr(o.cfg)
			}
			if allowRemote && o.cfg.Delegate.Offline {
				return errors.New("--allow-remote cannot be used with delegate.offline")
			}
			if model == "" {
				model = o.cfg.Delegate.OllamaModel
			}
			if err := offline.ValidateURL(o.cfg.Delegate.OllamaURL, o.cfg.Delegate.Offline); err != nil {
				return fmt.Errorf("delegate.ollama_url: %w", err)
			}

			client := ollama.NewClientWithConfig(&ollama.ClientConfig{
				BaseURL:      o.cfg.Delegate.OllamaURL,
				Timeout:      o.cfg.DelegateTimeout(),
				DefaultModel: model,
			})
			srv := server.New(server.Options{
				Addr:          addr,
				Completer:     server.NewOllamaCompleter(client, model),
				Logger:        o.logger.Named("server"),
				RatePerMinute: rate,
				AllowRemote:   allowRemote,
			})

			ln, err := net.Listen("tcp", srv.Addr())
			if err != nil {
				return err
			}
			o.logger.Info("serving translations",
				zap.String("addr", ln.Addr().String()),
				zap.String("model", model))
			fmt.Fprintln(cmd.OutOrStdout(), SuccessStyle.Render("Listening on http://"+ln.Addr().String()+"/"))

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.Serve(ctx, ln)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: the host and port of delegate.url)")
	cmd.Flags().StringVar(&model, "model", "", "Ollama model (default: delegate.ollama_model)")
	cmd.Flags().IntVar(&rate, "rate", server.DefaultRatePerMinute, "requests per minute per client (negative for unlimited)")
	cmd.Flags().BoolVar(&allowRemote, "allow-remote", false, "accept clients that are not on this machine")
	return cmd
}

// serveAddr derives the listen address from delegate.url so the default
// server and the default http backend meet.
func serveAddr(cfg *config.Config) string {
	u, err := url.Parse(cfg.Delegate.URL)
	if err != nil || u.Host == "" {
		return server.DefaultAddr
	}
	if u.Port() == "" {
		if u.Scheme == "https" {
			return net.JoinHostPort(u.Hostname(), "443")
		}
		return net.JoinHostPort(u.Hostname(), "80")
	}
	return u.Host
}
