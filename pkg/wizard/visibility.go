package wizard

import (
	"github.com/expr-lang/expr"

	"github.com/wandcli/wand/pkg/schema"
)

// VisibleSteps computes the declaration indices of the currently visible
// steps, in order. It is a pure recomputation over (steps, answers);
// there are no mutable per-step skip flags to go stale after
// back-navigation or answer edits.
//
// A step is visible iff it has no condition, or every key in its when
// clause names an earlier step that is itself visible, answered, and
// whose recorded value equals the expectation. Visibility cascades: a
// hidden step hides everything conditioned on it.
func VisibleSteps(cfg *schema.Config, answers AnswerSet) []int {
	visible := make([]int, 0, len(cfg.Steps))
	visibleByID := make(map[string]bool, len(cfg.Steps))

	for i := range cfg.Steps {
		step := &cfg.Steps[i]
		if stepVisible(cfg, step, answers, visibleByID) {
			visible = append(visible, i)
			visibleByID[step.ID] = true
		}
	}
	return visible
}

func stepVisible(cfg *schema.Config, step *schema.Step, answers AnswerSet, visibleByID map[string]bool) bool {
	for target, expected := range step.When {
		if !visibleByID[target] {
			return false
		}
		answer, answered := answers[target]
		if !answered {
			return false
		}
		refIdx := cfg.StepIndex(target)
		if refIdx < 0 || !answer.matches(&cfg.Steps[refIdx], expected) {
			return false
		}
	}

	if step.WhenExpr != "" {
		ok, err := evalWhenExpr(cfg, step.WhenExpr, answers, visibleByID)
		if err != nil || !ok {
			return false
		}
	}
	return true
}

// evalWhenExpr evaluates a when_expr condition against the answers of
// visible steps. Hidden or unanswered steps are absent from the
// environment; comparisons against them come out false.
func evalWhenExpr(cfg *schema.Config, exprStr string, answers AnswerSet, visibleByID map[string]bool) (bool, error) {
	env := make(map[string]interface{}, len(answers))
	for i := range cfg.Steps {
		step := &cfg.Steps[i]
		if !visibleByID[step.ID] {
			continue
		}
		if answer, ok := answers[step.ID]; ok {
			env[step.ID] = answer.value(step)
		}
	}

	program, err := expr.Compile(exprStr, expr.Env(env), expr.AllowUndefinedVariables(), expr.AsBool())
	if err != nil {
		return false, err
	}
	output, err := expr.Run(program, env)
	if err != nil {
		return false, err
	}
	result, ok := output.(bool)
	if !ok {
		return false, nil
	}
	return result, nil
}
