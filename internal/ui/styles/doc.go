// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the terminalAI shell.

# Color System (colors.go)

Chrome (prompt, status bar, borders) uses Lip Gloss AdaptiveColor so it
follows the terminal background. Command output keeps the exact colours the
control-sequence interpreter selected; OutputColor maps them:

	vt.ColorDefault -> gray  (200,200,200)
	vt.ColorRed     -> red   (255,100,100)
	vt.ColorGreen   -> green (150,255,150)
	vt.ColorCyan    -> cyan  (100,200,255)

# Theme System (theme.go)

	theme := styles.NewTheme("auto")
	line := theme.RenderLine(l)
*/
package styles
