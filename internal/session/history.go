// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

// DefaultMaxHistory is how many persisted lines seed a new session.
const DefaultMaxHistory = 1000

// noCursor marks a history that is not being navigated.
const noCursor = -1

// History holds submitted lines, oldest first, and an optional navigation
// cursor. When set, the cursor is always a valid index.
type History struct {
	entries []string
	cursor  int
	max     int // 0: unbounded
}

// NewHistory creates a history seeded with older lines (oldest first).
// A positive max keeps only the newest max entries; max <= 0 never drops
// anything.
func NewHistory(max int, seed []string) *History {
	if max < 0 {
		max = 0
	}
	h := &History{cursor: noCursor, max: max}
	for _, line := range seed {
		h.Push(line)
	}
	h.cursor = noCursor
	return h
}

// Push appends line and resets the cursor.
func (h *History) Push(line string) {
	h.entries = append(h.entries, line)
	if over := len(h.entries) - h.max; h.max > 0 && over > 0 {
		h.entries = append(h.entries[:0:0], h.entries[over:]...)
	}
	h.cursor = noCursor
}

// Up moves the cursor to the previous entry and returns it. From no cursor
// it starts at the newest entry; at the oldest entry it stays there.
func (h *History) Up() (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	if h.cursor == noCursor {
		h.cursor = len(h.entries) - 1
	} else if h.cursor > 0 {
		h.cursor--
	}
	return h.entries[h.cursor], true
}

// Down moves the cursor to the next entry. Moving past the newest entry
// clears the cursor and returns an empty line. Without a cursor Down does
// nothing and reports ok=false.
func (h *History) Down() (line string, ok bool) {
	if h.cursor == noCursor {
		return "", false
	}
	if h.cursor+1 < len(h.entries) {
		h.cursor++
		return h.entries[h.cursor], true
	}
	h.cursor = noCursor
	return "", true
}

// Cursor returns the cursor and whether it is set.
func (h *History) Cursor() (int, bool) {
	return h.cursor, h.cursor != noCursor
}

// Len returns the number of entries.
func (h *History) Len() int {
	return len(h.entries)
}

// Entries returns a copy of the entries, oldest first.
func (h *History) Entries() []string {
	return append([]string(nil), h.entries...)
}
