package wizard

import (
	"fmt"

	"github.com/wandcli/wand/pkg/schema"
)

// LoadFunc resolves a chain target name to its validated config.
type LoadFunc func(name string) (*schema.Config, error)

// Assemble drives a session non-interactively from a prepared answer
// map: step id → label (choice), bool (toggle), string (text), or label
// list (multi). Chains are followed with the same map. Steps hidden by
// their conditions are skipped whether or not the map mentions them.
// The result is the full command string, placeholders unresolved.
func Assemble(cfg *schema.Config, load LoadFunc, answers map[string]interface{}) (string, error) {
	session := NewSession(cfg)
	session.Start()
	if err := drive(session, load, answers); err != nil {
		return "", err
	}
	return session.Command(), nil
}

func drive(session *Session, load LoadFunc, answers map[string]interface{}) error {
	for {
		switch session.State() {
		case StateAwaitingAnswer:
			step := session.Current()
			raw, ok := answers[step.ID]
			if !ok {
				return fmt.Errorf("no answer provided for step %q", step.ID)
			}
			answer, err := coerce(step, raw)
			if err != nil {
				return err
			}
			if err := session.Submit(answer); err != nil {
				return err
			}

		case StateChaining:
			target := session.ChainTarget()
			if load == nil {
				return fmt.Errorf("step chains to %q but no config loader is available", target)
			}
			childCfg, err := load(target)
			if err != nil {
				return fmt.Errorf("load chain target %q: %w", target, err)
			}
			child, err := session.Chain(childCfg)
			if err != nil {
				return err
			}
			child.Start()
			if err := drive(child, load, answers); err != nil {
				return err
			}
			if err := session.CompleteChain(child); err != nil {
				return err
			}

		case StateFinalizing:
			return session.Finalize()

		case StateDone:
			return nil

		default:
			return fmt.Errorf("session in unexpected state %s", session.State())
		}
	}
}

// coerce converts a raw answer value to the step's answer kind.
func coerce(step *schema.Step, raw interface{}) (Answer, error) {
	switch step.Type {
	case schema.StepChoice:
		label, ok := raw.(string)
		if !ok {
			return Answer{}, fmt.Errorf("step %q expects an option label string, got %T", step.ID, raw)
		}
		for i, opt := range step.Options {
			if opt.Label == label {
				return ChoiceAnswer(i), nil
			}
		}
		return Answer{}, fmt.Errorf("step %q has no option labelled %q", step.ID, label)

	case schema.StepToggle:
		v, ok := raw.(bool)
		if !ok {
			return Answer{}, fmt.Errorf("step %q expects a boolean, got %T", step.ID, raw)
		}
		return ToggleAnswer(v), nil

	case schema.StepText:
		s, ok := raw.(string)
		if !ok {
			return Answer{}, fmt.Errorf("step %q expects a string, got %T", step.ID, raw)
		}
		return TextAnswer(s), nil

	case schema.StepMulti:
		items, ok := raw.([]interface{})
		if !ok {
			return Answer{}, fmt.Errorf("step %q expects a list of option labels, got %T", step.ID, raw)
		}
		var indices []int
		for _, item := range items {
			label, ok := item.(string)
			if !ok {
				return Answer{}, fmt.Errorf("step %q expects option label strings, got %T", step.ID, item)
			}
			idx := -1
			for i, opt := range step.Options {
				if opt.Label == label {
					idx = i
					break
				}
			}
			if idx < 0 {
				return Answer{}, fmt.Errorf("step %q has no option labelled %q", step.ID, label)
			}
			indices = append(indices, idx)
		}
		return MultiAnswer(indices), nil
	}
	return Answer{}, fmt.Errorf("step %q has unknown type %q", step.ID, step.Type)
}
