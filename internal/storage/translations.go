// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Translation is a cached natural-language translation.
type Translation struct {
	Input     string
	Command   string
	Backend   string
	Hits      int
	CreatedAt time.Time
}

// GetTranslation returns the cached translation of input. Missing and
// expired entries return ErrNotFound.
func (s *Store) GetTranslation(ctx context.Context, input string) (Translation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	db, err := s.conn()
	if err != nil {
		return Translation{}, err
	}

	t := Translation{Input: input}
	var created int64
	err = db.QueryRowContext(ctx,
		"SELECT command, backend, hits, created_at FROM translations WHERE input = ? AND created_at >= ?",
		input, s.cutoff()).Scan(&t.Command, &t.Backend, &t.Hits, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return Translation{}, ErrNotFound
	}
	if err != nil {
		return Translation{}, dbError("query translation", err)
	}
	t.CreatedAt = time.UnixMilli(created)
	return t, nil
}

// LookupTranslation returns the cached command for input and counts the hit.
func (s *Store) LookupTranslation(ctx context.Context, input string) (string, bool, error) {
	t, err := s.GetTranslation(ctx, input)
	if errors.Is(err, ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if db, err := s.conn(); err == nil {
		if _, err := db.ExecContext(ctx, "UPDATE translations SET hits = hits + 1 WHERE input = ?", input); err != nil {
			return t.Command, true, dbError("count hit", err)
		}
	}
	return t.Command, true, nil
}

// StoreTranslation caches command as the translation of input, replacing
// any previous entry.
func (s *Store) StoreTranslation(ctx context.Context, input, command, backend string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := s.conn()
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO translations (input, command, backend, hits, created_at) VALUES (?, ?, ?, 0, ?)
		ON CONFLICT(input) DO UPDATE SET
			command = excluded.command,
			backend = excluded.backend,
			hits = 0,
			created_at = excluded.created_at`,
		input, command, backend, s.now().UnixMilli())
	if err != nil {
		return dbError("store translation", err)
	}
	return nil
}

// PurgeTranslations deletes expired translations and returns how many were
// removed.
func (s *Store) PurgeTranslations(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := s.conn()
	if err != nil {
		return 0, err
	}
	res, err := db.ExecContext(ctx, "DELETE FROM translations WHERE created_at < ?", s.cutoff())
	if err != nil {
		return 0, dbError("purge translations", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// cutoff is the oldest creation time still considered fresh.
func (s *Store) cutoff() int64 {
	return s.now().Add(-s.ttl).UnixMilli()
}
