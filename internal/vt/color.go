// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package vt

import "fmt"

// ============================================================================
// COLOR TYPE
// ============================================================================

// Color is the foreground colour of a line of output.
type Color int

const (
	// ColorDefault is the gray used for plain output and SGR 0.
	ColorDefault Color = iota
	// ColorRed is selected by SGR 31.
	ColorRed
	// ColorGreen is selected by SGR 32.
	ColorGreen
	// ColorCyan is selected by SGR 36.
	ColorCyan
)

// sgrColors maps the recognized SGR parameters to colours.
// Every other parameter is ignored.
var sgrColors = map[int]Color{
	0:  ColorDefault,
	31: ColorRed,
	32: ColorGreen,
	36: ColorCyan,
}

// String returns the human-readable name of the colour.
func (c Color) String() string {
	switch c {
	case ColorDefault:
		return "default"
	case ColorRed:
		return "red"
	case ColorGreen:
		return "green"
	case ColorCyan:
		return "cyan"
	default:
		return fmt.Sprintf("Color(%d)", int(c))
	}
}

// RGB returns the colour components used when rendering.
func (c Color) RGB() (r, g, b uint8) {
	switch c {
	case ColorRed:
		return 255, 100, 100
	case ColorGreen:
		return 150, 255, 150
	case ColorCyan:
		return 100, 200, 255
	default:
		return 200, 200, 200
	}
}

// Hex returns the colour as a "#rrggbb" string, suitable for lipgloss and termenv.
func (c Color) Hex() string {
	r, g, b := c.RGB()
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// ============================================================================
// OUTPUT LINES
// ============================================================================

// LineKind tells the renderer where a line came from.
type LineKind int

const (
	// LineOutput is text produced by a command or a built-in.
	LineOutput LineKind = iota
	// LineEcho is the prompt echo of a submitted input line.
	LineEcho
	// LineInfo is a message from the shell itself (welcome, cd confirmation).
	LineInfo
)

// Line is one entry of the session output log.
type Line struct {
	Text    string
	IsError bool
	Color   Color
	Kind    LineKind
}

// ErrorLine builds an error line.
func ErrorLine(text string) Line {
	return Line{Text: text, IsError: true, Color: ColorRed}
}

// InfoLine builds an informational line in the default colour.
func InfoLine(text string) Line {
	return Line{Text: text, Color: ColorDefault, Kind: LineInfo}
}
