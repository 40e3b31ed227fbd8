// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package shell

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
)

// maxHighlightCache bounds the number of memoized command lines.
const maxHighlightCache = 512

// highlighter colours shell commands for the prompt echo lines. Echo lines
// never change once logged, so results are memoized by text.
type highlighter struct {
	lexer     chroma.Lexer
	style     *chroma.Style
	formatter chroma.Formatter
	cache     map[string]string
}

func newHighlighter(trueColor bool) *highlighter {
	lexer := lexers.Get("bash")
	if lexer == nil {
		lexer = lexers.Fallback
	}

	style := chromaStyles.Get("monokai")
	if style == nil {
		style = chromaStyles.Fallback
	}

	name := "terminal256"
	if trueColor {
		name = "terminal16m"
	}
	formatter := formatters.Get(name)
	if formatter == nil {
		formatter = formatters.Fallback
	}

	return &highlighter{
		lexer:     chroma.Coalesce(lexer),
		style:     style,
		formatter: formatter,
		cache:     make(map[string]string),
	}
}

// Bash returns code with terminal colour escapes. On any lexer or formatter
// failure the text is returned unchanged.
func (h *highlighter) Bash(code string) string {
	if code == "" {
		return code
	}
	if out, ok := h.cache[code]; ok {
		return out
	}

	it, err := h.lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}

	// The lexer appends a newline the echo line must not get.
	tokens := it.Tokens()
	for len(tokens) > 0 && strings.Trim(tokens[len(tokens)-1].Value, "\n") == "" {
		tokens = tokens[:len(tokens)-1]
	}
	if n := len(tokens); n > 0 {
		tokens[n-1].Value = strings.TrimRight(tokens[n-1].Value, "\n")
	}

	var sb strings.Builder
	if err := h.formatter.Format(&sb, h.style, chroma.Literator(tokens...)); err != nil {
		return code
	}

	if len(h.cache) >= maxHighlightCache {
		h.cache = make(map[string]string)
	}
	h.cache[code] = sb.String()
	return sb.String()
}
