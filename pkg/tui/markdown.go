package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// renderer is a package-level glamour renderer used for config
// descriptions in the menu phase.
var renderer *glamour.TermRenderer

func init() {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(0), // the panel handles wrapping
	)
	if err == nil {
		renderer = r
	}
}

// renderMarkdown converts a markdown string to styled terminal output.
// Falls back to the raw input if glamour is unavailable or rendering fails.
func renderMarkdown(md string) string {
	if renderer == nil || strings.TrimSpace(md) == "" {
		return md
	}
	out, err := renderer.Render(md)
	if err != nil {
		return md
	}
	// Glamour adds trailing newlines; trim for inline use
	return strings.TrimRight(out, "\n")
}
