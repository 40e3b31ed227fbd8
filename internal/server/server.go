// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/nitindahiya-dev/terminalAI/internal/ollama"
)

// ============================================================================
// CONSTANTS
// ============================================================================

const (
	// DefaultAddr matches the http delegate backend's default URL.
	DefaultAddr = "127.0.0.1:5500"

	// MaxQueryLength bounds the prompt accepted in ?text=.
	MaxQueryLength = 16 * 1024

	// DefaultRatePerMinute is the per-client request budget.
	DefaultRatePerMinute = 60

	shutdownTimeout = 5 * time.Second
)

// ============================================================================
// COMPLETERS
// ============================================================================

// Completer answers a prompt with free text.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
	// Check reports whether the backend is reachable.
	Check(ctx context.Context) error
}

// OllamaCompleter completes prompts with a local Ollama model.
type OllamaCompleter struct {
	client *ollama.Client
	model  string
}

// NewOllamaCompleter creates a completer. An empty model uses the client default.
func NewOllamaCompleter(client *ollama.Client, model string) *OllamaCompleter {
	return &OllamaCompleter{client: client, model: model}
}

// Complete sends prompt as a single user message. A one-line reply without
// a fence is wrapped in a bash block so the caller always finds one.
func (c *OllamaCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.ChatWithOptions(ctx, c.model, []ollama.Message{
		ollama.NewUserMessage(prompt),
	}, &ollama.Options{Temperature: 0.1})
	if err != nil {
		return "", err
	}

	reply := strings.TrimSpace(resp.Message.Content)
	if reply != "" && !strings.Contains(reply, "```") && !strings.Contains(reply, "\n") {
		reply = "```bash\n" + strings.Trim(reply, "`") + "\n```"
	}
	return reply, nil
}

// Check pings the Ollama server.
func (c *OllamaCompleter) Check(ctx context.Context) error {
	return c.client.CheckRunning(ctx)
}

// ============================================================================
// SERVER
// ============================================================================

// Options configures a Server.
type Options struct {
	// Addr is the listen address. Defaults to DefaultAddr.
	Addr      string
	Completer Completer
	Logger    *zap.Logger
	// RatePerMinute is the per-client budget (0 = DefaultRatePerMinute,
	// negative = unlimited).
	RatePerMinute int
	// AllowRemote accepts clients that are not on a loopback address.
	AllowRemote bool
}

// Stats are the request counters reported by /health.
type Stats struct {
	Requests int64 `json:"requests"`
	Failures int64 `json:"failures"`
}

// Server is the translation endpoint.
type Server struct {
	opts   Options
	mux    *http.ServeMux
	logger *zap.Logger

	requests atomic.Int64
	failures atomic.Int64
}

// New creates a server; nothing listens until Serve or ListenAndServe.
func New(opts Options) *Server {
	if opts.Addr == "" {
		opts.Addr = DefaultAddr
	}
	if opts.RatePerMinute == 0 {
		opts.RatePerMinute = DefaultRatePerMinute
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	s := &Server{
		opts:   opts,
		mux:    http.NewServeMux(),
		logger: opts.Logger,
	}
	s.mux.HandleFunc("GET /{$}", s.handleComplete)
	s.mux.HandleFunc("GET /health", s.handleHealth)
	return s
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.opts.Addr
}

// Handler returns the routes wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	middlewares := []func(http.Handler) http.Handler{
		RecoveryMiddleware(s.logger),
		SecurityHeadersMiddleware(),
		LoggingMiddleware(s.logger),
	}
	if !s.opts.AllowRemote {
		middlewares = append(middlewares, LocalOnlyMiddleware(s.logger))
	}
	if s.opts.RatePerMinute > 0 {
		middlewares = append(middlewares, RateLimitMiddleware(NewRateLimiter(s.opts.RatePerMinute), s.logger))
	}
	return Chain(middlewares...)(s.mux)
}

// Stats returns a snapshot of the request counters.
func (s *Server) Stats() Stats {
	return Stats{Requests: s.requests.Load(), Failures: s.failures.Load()}
}

// ListenAndServe listens on the configured address and serves until ctx is
// cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server started", zap.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// ============================================================================
// HANDLERS
// ============================================================================

func (s *Server) handleComplete(w http.ResponseWriter, r *http.Request) {
	s.requests.Add(1)

	text := r.URL.Query().Get("text")
	if strings.TrimSpace(text) == "" {
		s.failures.Add(1)
		writeError(w, http.StatusBadRequest, "missing text parameter")
		return
	}
	if len(text) > MaxQueryLength {
		s.failures.Add(1)
		writeError(w, http.StatusRequestEntityTooLarge, "text parameter too long")
		return
	}
	if s.opts.Completer == nil {
		s.failures.Add(1)
		writeError(w, http.StatusServiceUnavailable, "no model configured")
		return
	}

	reply, err := s.opts.Completer.Complete(r.Context(), text)
	if err != nil {
		s.failures.Add(1)
		s.logger.Warn("completion failed", zap.Error(err))
		status := http.StatusBadGateway
		if ollama.IsTimeout(err) || errors.Is(err, context.DeadlineExceeded) {
			status = http.StatusGatewayTimeout
		}
		writeError(w, status, "completion failed")
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(reply))
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Backend string `json:"backend"`
	Stats   Stats  `json:"stats"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := HealthResponse{Status: "ok", Backend: "not_configured", Stats: s.Stats()}

	if s.opts.Completer != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.opts.Completer.Check(ctx); err == nil {
			health.Backend = "ok"
		} else {
			health.Backend = "unavailable"
			health.Status = "degraded"
		}
	}
	writeJSON(w, http.StatusOK, health)
}

// ============================================================================
// HELPERS
// ============================================================================

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": message,
			"code":    status,
		},
	})
}
