// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// HistoryEntry is one stored line.
type HistoryEntry struct {
	ID        int64
	SessionID string
	Dir       string
	Line      string
	CreatedAt time.Time
}

// RecordCommand appends a line to the history and prunes the oldest rows
// beyond the configured maximum.
func (s *Store) RecordCommand(ctx context.Context, sessionID, dir, line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := s.conn()
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return dbError("begin", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO history (session_id, dir, line, created_at) VALUES (?, ?, ?, ?)",
		sessionID, dir, line, s.now().UnixMilli()); err != nil {
		return dbError("insert history", err)
	}
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM history WHERE id <= (SELECT MAX(id) FROM history) - ?", s.max); err != nil {
		return dbError("prune history", err)
	}

	if err := tx.Commit(); err != nil {
		return dbError("commit", err)
	}
	return nil
}

// RecentHistory returns up to limit of the newest entries, oldest first.
// limit <= 0 returns everything.
func (s *Store) RecentHistory(ctx context.Context, limit int) ([]HistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = -1
	}

	rows, err := db.QueryContext(ctx, `
		SELECT id, session_id, dir, line, created_at FROM (
			SELECT * FROM history ORDER BY id DESC LIMIT ?
		) ORDER BY id ASC`, limit)
	if err != nil {
		return nil, dbError("query history", err)
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		var created int64
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Dir, &e.Line, &created); err != nil {
			return nil, dbError("scan history", err)
		}
		e.CreatedAt = time.UnixMilli(created)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError("iterate history", err)
	}
	return entries, nil
}

// HistoryLines returns the text of the newest limit entries, oldest first.
func (s *Store) HistoryLines(ctx context.Context, limit int) ([]string, error) {
	entries, err := s.RecentHistory(ctx, limit)
	if err != nil {
		return nil, err
	}
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = e.Line
	}
	return lines, nil
}

// ClearHistory deletes every history row and returns how many were removed.
func (s *Store) ClearHistory(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := s.conn()
	if err != nil {
		return 0, err
	}
	res, err := db.ExecContext(ctx, "DELETE FROM history")
	if err != nil {
		return 0, dbError("clear history", err)
	}
	n, _ := res.RowsAffected()
	s.logger.Info("history cleared", zap.Int64("rows", n))
	return n, nil
}
