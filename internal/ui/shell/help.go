// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package shell

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// helpMarkdown is the text of the F1 overlay.
const helpMarkdown = `# terminalAI

Type a shell command, or describe what you want in plain English.

| Input | What happens |
|---|---|
| ` + "`ls -la`" + ` | runs in the shell |
| ` + "`cd ~/src`" + ` | changes the session directory |
| ` + "`clear`" + ` | empties the output log |
| ` + "`exit`" + ` / ` + "`quit`" + ` | leaves the program |
| ` + "`show me the biggest files`" + ` | translated to a command, then run |

A line is sent for translation when its first word is not a known
command. The known commands are listed under ` + "`shell.known_commands`" + `
in the configuration file; edits are picked up without a restart.

## Keys

- **Enter** runs the line
- **Tab** completes file and directory names
- **Up / Down** walk the history
- **PgUp / PgDn** scroll the output
- **Ctrl+U** clears the line
- **Ctrl+C / Ctrl+D** quit

Commands run in the background, so you can keep typing while one is busy.
Output appears in the order commands finish.
`

// renderHelp renders the help overlay at width. Rendering errors fall back
// to the raw markdown.
func renderHelp(width int, dark bool) string {
	style := "light"
	if dark {
		style = "dark"
	}
	if width < 20 {
		width = 20
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return helpMarkdown
	}
	out, err := r.Render(helpMarkdown)
	if err != nil {
		return helpMarkdown
	}
	return strings.Trim(out, "\n")
}
