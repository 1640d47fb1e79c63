package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wandcli/wand/pkg/schema"
)

const panelWidth = 64

func (m Model) View() string {
	var body string
	textEditing := false

	switch m.phase {
	case phaseMenu:
		body = m.viewMenu()
	case phaseSteps:
		body = m.viewStep()
		if step := m.session.Current(); step != nil && step.Type == schema.StepText {
			textEditing = true
		}
	case phasePlaceholder:
		body = m.viewPlaceholder()
		textEditing = m.choices == nil && !m.fetching
	case phaseConfirm:
		body = m.viewConfirm()
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.cfg.Command))
	b.WriteString("\n\n")
	b.WriteString(body)

	if m.errText != "" {
		b.WriteString("\n\n")
		b.WriteString(errorStyle.Render(truncate(m.errText, panelWidth)))
	}

	if crumbs := breadcrumb(m.sessionPath(), panelWidth); crumbs != "" {
		b.WriteString("\n\n")
		b.WriteString(dimStyle.Render(crumbs))
	}

	b.WriteString("\n\n")
	b.WriteString(keyBarText(m.phase, textEditing))

	box := boxStyle.Width(panelWidth).Render(b.String())
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}
	return box
}

func (m Model) viewMenu() string {
	var b strings.Builder

	if m.cfg.Description != "" {
		b.WriteString(renderMarkdown(m.cfg.Description))
		b.WriteString("\n\n")
	}

	b.WriteString(menuItem(m.menuCursor == 0, "Interactive wizard...", ""))

	if len(m.cfg.Presets) > 0 {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("  Quick presets:"))
		b.WriteString("\n")
		for i, preset := range m.cfg.Presets {
			b.WriteString(menuItem(m.menuCursor == i+1, preset.Label, preset.Flags))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func menuItem(selected bool, label, detail string) string {
	marker := GlyphUnselected + " "
	style := itemNormal
	if selected {
		marker = GlyphSelected + " "
		style = itemSelected
	}
	line := style.Render(marker + label)
	if detail != "" {
		line += dimStyle.Render("  (" + detail + ")")
	}
	return line + "\n"
}

func (m Model) viewStep() string {
	step := m.session.Current()
	if step == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(promptStyle.Render(step.Prompt))
	b.WriteString("\n\n")

	switch step.Type {
	case schema.StepChoice:
		for i, opt := range step.Options {
			b.WriteString(menuItem(i == m.cursor, opt.Label, ""))
		}

	case schema.StepToggle:
		b.WriteString(toggleView(m.toggleVal))

	case schema.StepText:
		b.WriteString(m.input.View())

	case schema.StepMulti:
		for i, opt := range step.Options {
			box := GlyphUnchecked
			style := itemNormal
			if m.multiSel[i] {
				box = GlyphChecked
				style = itemChecked
			}
			if i == m.cursor {
				style = itemSelected
			}
			b.WriteString(style.Render(box + " " + opt.Label))
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func toggleView(value bool) string {
	yes := dimStyle
	no := itemSelected
	yesMark, noMark := GlyphUnselected, GlyphSelected
	if value {
		yes, no = itemSelected, dimStyle
		yesMark, noMark = GlyphSelected, GlyphUnselected
	}
	return yes.Render(yesMark+" Yes") + "   " + no.Render(noMark+" No")
}

func (m Model) viewPlaceholder() string {
	var b strings.Builder
	b.WriteString(promptStyle.Render(fmt.Sprintf("Value for %s", m.token)))
	b.WriteString("\n\n")

	switch {
	case m.fetching:
		b.WriteString(m.spin.View())
		b.WriteString(dimStyle.Render(" fetching options..."))

	case m.choices != nil:
		for i, c := range m.choices {
			b.WriteString(menuItem(i == m.choiceCursor, c.Label, ""))
		}

	default:
		b.WriteString(m.pinput.View())
	}

	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render(truncate(m.command, panelWidth)))
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) viewConfirm() string {
	var b strings.Builder
	b.WriteString(dimStyle.Render("Your command:"))
	b.WriteString("\n\n")
	b.WriteString(commandStyle.Render(m.command))
	return b.String()
}
