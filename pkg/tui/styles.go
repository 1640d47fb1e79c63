// Package tui implements the terminal presentation layer for the wizard:
// a Bubble Tea app that walks the step flow, resolves placeholders, and
// confirms the finished command.
package tui

import "github.com/charmbracelet/lipgloss"

// Selection glyphs convey meaning without relying on color alone.
const (
	GlyphSelected   = "●"
	GlyphUnselected = "○"
	GlyphChecked    = "[x]"
	GlyphUnchecked  = "[ ]"
	GlyphCursor     = "▸"
)

// Palette adapts to terminal capabilities via lipgloss.
var (
	colorGreen  = lipgloss.Color("42")
	colorYellow = lipgloss.Color("214")
	colorCyan   = lipgloss.Color("51")
	colorDim    = lipgloss.Color("240")
	colorWhite  = lipgloss.Color("255")
	colorRed    = lipgloss.Color("196")
)

var titleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorCyan).
	Padding(0, 1)

var promptStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorWhite)

var (
	itemNormal = lipgloss.NewStyle().
			Foreground(colorWhite)

	itemSelected = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCyan)

	itemChecked = lipgloss.NewStyle().
			Foreground(colorGreen)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorRed)

	commandStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorGreen)
)

var boxStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorDim).
	Padding(1, 2)

var (
	keyStyle     = lipgloss.NewStyle().Foreground(colorYellow)
	keyDescStyle = lipgloss.NewStyle().Foreground(colorDim)
)
