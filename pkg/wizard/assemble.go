package wizard

import (
	"strings"

	"github.com/wandcli/wand/pkg/schema"
)

// BuildFlags assembles the flag fragment (no base command token) from a
// completed answer set. Steps are walked in the order they are visible;
// hidden steps contribute nothing even when an answer was once recorded
// for them. Fragments that contribute nothing (nil flag, false toggle,
// empty text) are omitted, never emitted as empty strings.
//
// Assembly is a pure function of (config, answers): assembling twice from
// the same answer set yields byte-identical strings.
func BuildFlags(cfg *schema.Config, answers AnswerSet) string {
	var parts []string

	for _, idx := range VisibleSteps(cfg, answers) {
		step := &cfg.Steps[idx]
		answer, ok := answers[step.ID]
		if !ok {
			continue
		}

		switch step.Type {
		case schema.StepChoice:
			if answer.Choice >= 0 && answer.Choice < len(step.Options) {
				if flag := step.Options[answer.Choice].Flag; flag != nil && *flag != "" {
					parts = append(parts, *flag)
				}
			}

		case schema.StepToggle:
			if answer.Toggle && step.Flag != "" {
				parts = append(parts, step.Flag)
			}

		case schema.StepText:
			if answer.Text == "" {
				continue
			}
			if step.Flag != "" {
				parts = append(parts, step.Flag+" "+answer.Text)
			} else {
				parts = append(parts, answer.Text)
			}

		case schema.StepMulti:
			// Declared option order, not selection order; each flag at
			// most once.
			selected := make(map[int]bool, len(answer.Multi))
			for _, i := range answer.Multi {
				selected[i] = true
			}
			emitted := make(map[string]bool)
			for i, opt := range step.Options {
				if !selected[i] || opt.Flag == nil || *opt.Flag == "" {
					continue
				}
				if emitted[*opt.Flag] {
					continue
				}
				emitted[*opt.Flag] = true
				parts = append(parts, *opt.Flag)
			}
		}
	}

	return strings.Join(parts, " ")
}

// PresetCommand assembles a preset selection: the base command token plus
// the preset's literal flags. Placeholder tokens pass through untouched
// for the resolver.
func PresetCommand(cfg *schema.Config, preset schema.Preset) string {
	return joinFragments(cfg.Command, preset.Flags)
}

// SubcommandToken derives the literal subcommand token spliced between a
// parent's fragment and a chained child's fragment: the child's config
// name minus the parent's name prefix when it is a prefix, remaining
// hyphens rendered as spaces ("docker-run" under "docker" → "run").
func SubcommandToken(parent, child *schema.Config) string {
	name := child.Name()
	if prefix := parent.Name() + "-"; strings.HasPrefix(name, prefix) {
		name = strings.TrimPrefix(name, prefix)
	}
	return strings.ReplaceAll(name, "-", " ")
}

// joinFragments joins non-empty fragments with single spaces.
func joinFragments(fragments ...string) string {
	parts := fragments[:0:0]
	for _, f := range fragments {
		if f != "" {
			parts = append(parts, f)
		}
	}
	return strings.Join(parts, " ")
}
