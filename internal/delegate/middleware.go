// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package delegate

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// =============================================================================
// RATE LIMITING
// =============================================================================

// Limited waits for a token before each call to the wrapped backend.
type Limited struct {
	next    Invoker
	limiter *rate.Limiter
}

// NewLimited allows perMinute calls per minute with a burst of one.
// perMinute <= 0 returns next unchanged.
func NewLimited(next Invoker, perMinute int) Invoker {
	if perMinute <= 0 {
		return next
	}
	every := time.Minute / time.Duration(perMinute)
	return &Limited{next: next, limiter: rate.NewLimiter(rate.Every(every), 1)}
}

// Invoke waits for the limiter, then calls the wrapped backend.
func (l *Limited) Invoke(ctx context.Context, text string) (string, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return "", &Error{Kind: KindServiceError, Detail: "rate limited: " + err.Error(), Cause: err}
	}
	return l.next.Invoke(ctx, text)
}

// =============================================================================
// TRANSLATION CACHE
// =============================================================================

// Cache stores previous translations.
type Cache interface {
	LookupTranslation(ctx context.Context, input string) (string, bool, error)
	StoreTranslation(ctx context.Context, input, command, backend string) error
}

// Cached answers repeated instructions from a Cache. Only successful
// translations are stored, and cache failures never fail an invocation.
type Cached struct {
	next    Invoker
	cache   Cache
	backend string
	logger  *zap.Logger
}

// NewCached wraps next with cache. backend labels stored entries.
func NewCached(next Invoker, cache Cache, backend string, logger *zap.Logger) *Cached {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cached{next: next, cache: cache, backend: backend, logger: logger}
}

// Invoke returns a cached command or calls the wrapped backend.
func (c *Cached) Invoke(ctx context.Context, text string) (string, error) {
	key := strings.TrimSpace(text)

	command, ok, err := c.cache.LookupTranslation(ctx, key)
	switch {
	case err != nil:
		c.logger.Warn("translation cache lookup failed", zap.Error(err))
	case ok:
		c.logger.Debug("translation cache hit", zap.String("input", key), zap.String("command", command))
		return command, nil
	}

	command, err = c.next.Invoke(ctx, text)
	if err != nil {
		return "", err
	}

	if err := c.cache.StoreTranslation(ctx, key, command, c.backend); err != nil {
		c.logger.Warn("translation cache store failed", zap.Error(err))
	}
	return command, nil
}
