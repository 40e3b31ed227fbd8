// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

// SchemaVersion tracks the database schema version for migrations.
const SchemaVersion = 1

// Schema creates every table. All statements are idempotent.
const Schema = `
CREATE TABLE IF NOT EXISTS metadata (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
) WITHOUT ROWID;

-- Submitted lines, oldest first by id
CREATE TABLE IF NOT EXISTS history (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    session_id TEXT NOT NULL,
    dir TEXT NOT NULL,
    line TEXT NOT NULL,
    created_at INTEGER NOT NULL  -- Unix milliseconds
);

CREATE INDEX IF NOT EXISTS idx_history_session ON history(session_id);

-- Natural language -> shell command
CREATE TABLE IF NOT EXISTS translations (
    input TEXT PRIMARY KEY,
    command TEXT NOT NULL,
    backend TEXT NOT NULL,
    hits INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL  -- Unix milliseconds
) WITHOUT ROWID;

CREATE INDEX IF NOT EXISTS idx_translations_created ON translations(created_at);
`

// InitMetadata records the schema version on first open.
const InitMetadata = `
INSERT OR IGNORE INTO metadata (key, value) VALUES ('schema_version', '1');
`
