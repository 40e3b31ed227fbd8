// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrDatabaseError = errors.New("database error")
	ErrNotFound      = errors.New("not found")
	ErrClosed        = errors.New("store is closed")
)

// =============================================================================
// CONFIGURATION
// =============================================================================

const (
	// DefaultMaxHistory is the number of history rows kept.
	DefaultMaxHistory = 10000
	// DefaultTranslationTTL is how long a cached translation stays valid.
	DefaultTranslationTTL = 7 * 24 * time.Hour
)

// Config holds store configuration.
type Config struct {
	// Path is the database file. ":memory:" keeps everything in memory.
	Path string
	// MaxHistory bounds the history table (default: 10000).
	MaxHistory int
	// TranslationTTL expires cached translations (default: 7 days).
	TranslationTTL time.Duration
	Logger         *zap.Logger
}

// DefaultPath returns ~/.terminalai/terminalai.db.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".terminalai", "terminalai.db")
	}
	return filepath.Join(home, ".terminalai", "terminalai.db")
}

// =============================================================================
// STORE
// =============================================================================

// Store is the SQLite-backed history and translation cache.
// Safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	db     *sql.DB
	path   string
	max    int
	ttl    time.Duration
	now    func() time.Time
	logger *zap.Logger
}

// Open opens or creates the database at cfg.Path.
func Open(cfg Config) (*Store, error) {
	if cfg.Path == "" {
		cfg.Path = DefaultPath()
	}
	if cfg.MaxHistory <= 0 {
		cfg.MaxHistory = DefaultMaxHistory
	}
	if cfg.TranslationTTL <= 0 {
		cfg.TranslationTTL = DefaultTranslationTTL
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	if cfg.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0700); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open database: %v", ErrDatabaseError, err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA temp_store=MEMORY",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%w: failed to set pragma: %v", ErrDatabaseError, err)
		}
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: failed to initialize schema: %v", ErrDatabaseError, err)
	}
	if _, err := db.Exec(InitMetadata); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: failed to initialize metadata: %v", ErrDatabaseError, err)
	}

	cfg.Logger.Debug("store opened", zap.String("path", cfg.Path))

	return &Store{
		db:     db,
		path:   cfg.Path,
		max:    cfg.MaxHistory,
		ttl:    cfg.TranslationTTL,
		now:    time.Now,
		logger: cfg.Logger,
	}, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close releases the database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// conn returns the open database or ErrClosed. The caller holds s.mu.
func (s *Store) conn() (*sql.DB, error) {
	if s.db == nil {
		return nil, ErrClosed
	}
	return s.db, nil
}

func dbError(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrDatabaseError, op, err)
}
