// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/nitindahiya-dev/terminalAI/internal/storage"
)

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter renders history as Markdown with one shell block per session.
type MarkdownExporter struct {
	options *Options
}

// NewMarkdownExporter creates a new Markdown exporter.
func NewMarkdownExporter(opts *Options) *MarkdownExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &MarkdownExporter{options: opts}
}

// Export converts entries to Markdown.
func (e *MarkdownExporter) Export(entries []storage.HistoryEntry) ([]byte, error) {
	if len(entries) == 0 {
		return nil, ErrNoEntries
	}

	var sb strings.Builder
	sb.WriteString("---\n")
	sb.WriteString(fmt.Sprintf("entries: %d\n", len(entries)))
	sb.WriteString(fmt.Sprintf("exported: %s\n", e.options.now().Format(time.RFC3339)))
	sb.WriteString("generator: terminalai\n")
	sb.WriteString("---\n\n")
	sb.WriteString("# Command history\n")

	for _, group := range sessions(entries) {
		first := group[0]
		sb.WriteString(fmt.Sprintf("\n## Session %s\n\n", shortID(first.SessionID)))
		if e.options.IncludeTimestamps {
			sb.WriteString(fmt.Sprintf("Started %s\n\n", formatTimestamp(first.CreatedAt)))
		}

		fence := fenceFor(group)
		sb.WriteString(fence + "sh\n")
		dir := ""
		for _, entry := range group {
			if e.options.IncludeDirs && entry.Dir != dir {
				dir = entry.Dir
				sb.WriteString("# in " + dir + "\n")
			}
			if e.options.IncludeTimestamps {
				sb.WriteString("# " + entry.CreatedAt.Format("15:04:05") + "\n")
			}
			sb.WriteString(entry.Line + "\n")
		}
		sb.WriteString(fence + "\n")
	}

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for Markdown.
func (e *MarkdownExporter) FileExtension() string {
	return ".md"
}

// MimeType returns the MIME type for Markdown.
func (e *MarkdownExporter) MimeType() string {
	return "text/markdown"
}

// fenceFor returns a backtick fence longer than any run inside the lines.
func fenceFor(group []storage.HistoryEntry) string {
	longest := 0
	for _, e := range group {
		run := 0
		for _, r := range e.Line {
			if r == '`' {
				run++
				if run > longest {
					longest = run
				}
				continue
			}
			run = 0
		}
	}
	n := 3
	if longest >= n {
		n = longest + 1
	}
	return strings.Repeat("`", n)
}
