package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/wandcli/wand/pkg/wizard"
)

// breadcrumb renders the answered-so-far trail for one or more sessions
// (chain parents first), truncated to fit the panel width.
func breadcrumb(sessions []*wizard.Session, width int) string {
	var crumbs []string
	for _, s := range sessions {
		cfg := s.Config()
		answers := s.Answers()
		for _, idx := range wizard.VisibleSteps(cfg, answers) {
			step := &cfg.Steps[idx]
			answer, ok := answers[step.ID]
			if !ok {
				continue
			}
			if label := answer.Label(step); label != "" {
				crumbs = append(crumbs, label)
			}
		}
	}
	if len(crumbs) == 0 {
		return ""
	}
	return truncate(strings.Join(crumbs, " › "), width)
}

// truncate shortens s to the given display width, appending an ellipsis.
// Width is measured in terminal cells, not bytes.
func truncate(s string, width int) string {
	if width <= 1 || runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width-1, "…")
}
