// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists shell state in a local SQLite database.
//
// Two tables are kept: the command history, shared by every session and
// pruned to a maximum size, and a cache of natural-language translations
// with a time-to-live. The pure Go modernc.org/sqlite driver is used, so
// no cgo toolchain is needed.
//
// # Usage
//
//	store, err := storage.Open(storage.Config{Path: storage.DefaultPath()})
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	_ = store.RecordCommand(ctx, sessionID, cwd, "ls -la")
//	lines, _ := store.HistoryLines(ctx, 100)
package storage
