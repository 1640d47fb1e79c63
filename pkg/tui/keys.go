package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds all TUI key bindings.
type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Toggle  key.Binding
	Submit  key.Binding
	Back    key.Binding
	Quit    key.Binding
	Execute key.Binding
	Copy    key.Binding
	Print   key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Toggle: key.NewBinding(
		key.WithKeys(" ", "left", "right"),
		key.WithHelp("space", "toggle"),
	),
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "confirm"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("^c", "quit"),
	),
	Execute: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "run"),
	),
	Copy: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "copy"),
	),
	Print: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "print"),
	),
}

// keyBarText renders the context-sensitive key hint line per phase.
func keyBarText(p phase, textEditing bool) string {
	hint := func(k, desc string) string {
		return keyStyle.Render(k) + keyDescStyle.Render(":"+desc)
	}

	switch p {
	case phaseMenu:
		return hint("↑↓", "select") + "  " + hint("enter", "confirm") + "  " + hint("q", "quit")
	case phaseSteps:
		if textEditing {
			return hint("enter", "confirm") + "  " + hint("esc", "back") + "  " + hint("^c", "quit")
		}
		return hint("↑↓", "select") + "  " + hint("space", "toggle") + "  " +
			hint("enter", "confirm") + "  " + hint("esc", "back") + "  " + hint("q", "quit")
	case phasePlaceholder:
		return hint("↑↓", "select") + "  " + hint("enter", "confirm") + "  " + hint("^c", "quit")
	case phaseConfirm:
		return hint("enter", "run") + "  " + hint("c", "copy") + "  " + hint("p", "print") + "  " +
			hint("esc", "start over") + "  " + hint("q", "quit")
	}
	return ""
}
