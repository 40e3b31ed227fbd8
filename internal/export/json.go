// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"time"

	"github.com/nitindahiya-dev/terminalAI/internal/storage"
)

// =============================================================================
// JSON EXPORTER
// =============================================================================

// JSONExporter renders history as a JSON document.
// NOTE: JSON exports always include every field regardless of options, so the
// file stays a faithful copy of the stored rows.
type JSONExporter struct {
	options *Options
}

type jsonEntry struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"session_id"`
	Dir       string    `json:"dir"`
	Line      string    `json:"line"`
	CreatedAt time.Time `json:"created_at"`
}

type jsonDocument struct {
	Generator string      `json:"generator"`
	Exported  time.Time   `json:"exported"`
	Entries   []jsonEntry `json:"entries"`
}

// NewJSONExporter creates a new JSON exporter.
func NewJSONExporter(opts *Options) *JSONExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &JSONExporter{options: opts}
}

// Export converts entries to indented JSON.
func (e *JSONExporter) Export(entries []storage.HistoryEntry) ([]byte, error) {
	if len(entries) == 0 {
		return nil, ErrNoEntries
	}

	doc := jsonDocument{
		Generator: "terminalai",
		Exported:  e.options.now().UTC(),
		Entries:   make([]jsonEntry, 0, len(entries)),
	}
	for _, h := range entries {
		doc.Entries = append(doc.Entries, jsonEntry{
			ID:        h.ID,
			SessionID: h.SessionID,
			Dir:       h.Dir,
			Line:      h.Line,
			CreatedAt: h.CreatedAt.UTC(),
		})
	}
	return json.MarshalIndent(doc, "", "  ")
}

// FileExtension returns the file extension for JSON.
func (e *JSONExporter) FileExtension() string {
	return ".json"
}

// MimeType returns the MIME type for JSON.
func (e *JSONExporter) MimeType() string {
	return "application/json"
}
