// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/nitindahiya-dev/terminalAI/internal/storage"
	"github.com/nitindahiya-dev/terminalAI/internal/util"
)

// ErrNoEntries is returned when there is nothing to export.
var ErrNoEntries = errors.New("no history entries to export")

// =============================================================================
// EXPORTER INTERFACE
// =============================================================================

// Exporter renders history entries in one file format.
type Exporter interface {
	Export(entries []storage.HistoryEntry) ([]byte, error)
	FileExtension() string
	MimeType() string
}

// Options configures an export.
type Options struct {
	// OutputDir is where ExportToFile writes. Defaults to the current directory.
	OutputDir string
	// IncludeTimestamps adds the time each line was entered.
	IncludeTimestamps bool
	// IncludeDirs adds the directory each line was entered in.
	IncludeDirs bool
	// Now is the clock used for the export stamp and the file name.
	Now func() time.Time
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() *Options {
	return &Options{
		OutputDir:         ".",
		IncludeTimestamps: true,
		IncludeDirs:       true,
		Now:               time.Now,
	}
}

func (o *Options) now() time.Time {
	if o.Now == nil {
		return time.Now()
	}
	return o.Now()
}

// New returns the exporter for format ("md", "markdown" or "json").
func New(format string, opts *Options) (Exporter, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "md", "markdown":
		return NewMarkdownExporter(opts), nil
	case "json":
		return NewJSONExporter(opts), nil
	default:
		return nil, fmt.Errorf("unknown export format %q (want md or json)", format)
	}
}

// =============================================================================
// FILE OUTPUT
// =============================================================================

// ExportToFile renders entries with exporter and writes them under
// opts.OutputDir. It returns the path of the written file.
func ExportToFile(entries []storage.HistoryEntry, exporter Exporter, opts *Options) (string, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	content, err := exporter.Export(entries)
	if err != nil {
		return "", fmt.Errorf("export failed: %w", err)
	}

	dir := opts.OutputDir
	if dir == "" {
		dir = "."
	}
	filename := fmt.Sprintf("terminalai_history_%s%s",
		opts.now().Format("20060102_150405"),
		exporter.FileExtension())
	outputPath := filepath.Join(util.ExpandHome(dir), filename)

	if err := util.AtomicWriteFile(outputPath, content, 0644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return outputPath, nil
}

// =============================================================================
// HELPERS
// =============================================================================

// sessions groups entries by session in order of first appearance.
func sessions(entries []storage.HistoryEntry) [][]storage.HistoryEntry {
	index := make(map[string]int)
	var groups [][]storage.HistoryEntry
	for _, e := range entries {
		i, ok := index[e.SessionID]
		if !ok {
			i = len(groups)
			index[e.SessionID] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], e)
	}
	return groups
}

func shortID(id string) string {
	if id == "" {
		return "unknown"
	}
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatTimestamp(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}
