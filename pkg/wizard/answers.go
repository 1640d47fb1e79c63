// Package wizard implements the wizard execution engine: typed answer
// storage, conditional step visibility, the session state machine, and
// assembly of the final flag string.
package wizard

import (
	"strings"

	"github.com/wandcli/wand/pkg/schema"
)

// Answer is the recorded value for one step. Kind matches the step's
// type; only the field for that kind is meaningful. Choice and Multi
// record option indices, which guarantees every recorded selection names
// an option actually present on the step.
type Answer struct {
	Kind   schema.StepType
	Choice int
	Toggle bool
	Text   string
	Multi  []int // selected option indices, ascending
}

// ChoiceAnswer records the option at index i.
func ChoiceAnswer(i int) Answer { return Answer{Kind: schema.StepChoice, Choice: i} }

// ToggleAnswer records a yes/no value.
func ToggleAnswer(v bool) Answer { return Answer{Kind: schema.StepToggle, Toggle: v} }

// TextAnswer records entered text.
func TextAnswer(s string) Answer { return Answer{Kind: schema.StepText, Text: s} }

// MultiAnswer records the selected option indices.
func MultiAnswer(indices []int) Answer {
	return Answer{Kind: schema.StepMulti, Multi: append([]int(nil), indices...)}
}

// Label renders the answer for breadcrumb display against its step.
// Empty means the answer contributes nothing worth showing.
func (a Answer) Label(step *schema.Step) string {
	switch a.Kind {
	case schema.StepChoice:
		if a.Choice >= 0 && a.Choice < len(step.Options) {
			return step.Options[a.Choice].Label
		}
	case schema.StepToggle:
		if a.Toggle {
			return "Yes"
		}
		return "No"
	case schema.StepText:
		return a.Text
	case schema.StepMulti:
		labels := make([]string, 0, len(a.Multi))
		for _, i := range a.Multi {
			if i >= 0 && i < len(step.Options) {
				labels = append(labels, step.Options[i].Label)
			}
		}
		return strings.Join(labels, ", ")
	}
	return ""
}

// matches reports whether this answer satisfies a when-clause expectation.
// Choice compares the selected label, Toggle compares "true"/"false",
// Text compares exactly, Multi matches when the expected label is among
// the selected ones.
func (a Answer) matches(step *schema.Step, expected string) bool {
	switch a.Kind {
	case schema.StepChoice:
		return a.Label(step) == expected
	case schema.StepToggle:
		if a.Toggle {
			return expected == "true"
		}
		return expected == "false"
	case schema.StepText:
		return a.Text == expected
	case schema.StepMulti:
		for _, i := range a.Multi {
			if i >= 0 && i < len(step.Options) && step.Options[i].Label == expected {
				return true
			}
		}
	}
	return false
}

// value returns the answer as an expression-environment value: the label
// for Choice, a bool for Toggle, the text for Text, the label list for Multi.
func (a Answer) value(step *schema.Step) interface{} {
	switch a.Kind {
	case schema.StepChoice:
		return a.Label(step)
	case schema.StepToggle:
		return a.Toggle
	case schema.StepText:
		return a.Text
	case schema.StepMulti:
		labels := make([]string, 0, len(a.Multi))
		for _, i := range a.Multi {
			if i >= 0 && i < len(step.Options) {
				labels = append(labels, step.Options[i].Label)
			}
		}
		return labels
	}
	return nil
}

// AnswerSet maps step id → recorded answer. One value per step id.
type AnswerSet map[string]Answer

// Clone returns an independent copy, used for history snapshots.
func (s AnswerSet) Clone() AnswerSet {
	out := make(AnswerSet, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}
