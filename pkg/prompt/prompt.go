// Package prompt drives a wizard session over plain line-based prompts
// (chzyer/readline). It serves --plain runs and terminals where the
// full-screen TUI is unavailable, and it implements the placeholder
// Prompter for both.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"go.uber.org/zap"

	"github.com/wandcli/wand/pkg/loader"
	"github.com/wandcli/wand/pkg/placeholder"
	"github.com/wandcli/wand/pkg/runner"
	"github.com/wandcli/wand/pkg/schema"
	"github.com/wandcli/wand/pkg/wizard"
)

// ErrCancelled reports that the user quit the wizard. No command is
// produced and nothing is executed or copied.
var ErrCancelled = errors.New("wizard cancelled")

// Driver runs wizard sessions through line prompts.
type Driver struct {
	rl       *readline.Instance
	loader   *loader.Loader
	executor runner.Executor
	log      *zap.Logger
}

// NewDriver creates a plain-mode driver. Close releases the readline
// instance.
func NewDriver(ld *loader.Loader, exec runner.Executor, log *zap.Logger) (*Driver, error) {
	if log == nil {
		log = zap.NewNop()
	}
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		InterruptPrompt: "^C",
	})
	if err != nil {
		return nil, fmt.Errorf("init readline: %w", err)
	}
	return &Driver{rl: rl, loader: ld, executor: exec, log: log}, nil
}

// Close releases the underlying readline instance.
func (d *Driver) Close() error { return d.rl.Close() }

// Run walks the config's wizard to a finished, placeholder-resolved
// command string. Returns ErrCancelled when the user quits.
func (d *Driver) Run(ctx context.Context, cfg *schema.Config) (string, error) {
	// Fetch sources merge along the chain path, parent first.
	sources := make(map[string]string, len(cfg.PlaceholderOptions))
	for token, cmd := range cfg.PlaceholderOptions {
		sources[token] = cmd
	}

	raw, err := d.runMenu(ctx, cfg, sources)
	if err != nil {
		return "", err
	}

	resolver := placeholder.NewResolver(sources, d.executor, d, d.log)
	resolved, err := resolver.Resolve(ctx, raw)
	if err != nil {
		return "", err
	}
	return resolved, nil
}

// runMenu offers the step wizard plus any presets, then produces the
// unresolved command string.
func (d *Driver) runMenu(ctx context.Context, cfg *schema.Config, sources map[string]string) (string, error) {
	if len(cfg.Presets) == 0 {
		return d.runSession(ctx, cfg, sources)
	}

	fmt.Fprintf(d.rl.Stdout(), "%s - %s\n", cfg.Command, cfg.Description)
	fmt.Fprintln(d.rl.Stdout(), "  1. Interactive wizard...")
	for i, preset := range cfg.Presets {
		fmt.Fprintf(d.rl.Stdout(), "  %d. %s  (%s)\n", i+2, preset.Label, preset.Flags)
	}

	idx, err := d.readIndex("Select", 1, len(cfg.Presets)+1, 1)
	if err != nil {
		return "", err
	}
	if idx == 1 {
		return d.runSession(ctx, cfg, sources)
	}
	return wizard.PresetCommand(cfg, cfg.Presets[idx-2]), nil
}

// runSession drives one session to Done, following chains into nested
// sessions, and returns the full command string.
func (d *Driver) runSession(ctx context.Context, cfg *schema.Config, sources map[string]string) (string, error) {
	session := wizard.NewSession(cfg)
	session.Start()
	if err := d.drive(ctx, session, sources); err != nil {
		return "", err
	}
	return session.Command(), nil
}

// drive loops a session from its started state to Done or Cancelled.
func (d *Driver) drive(ctx context.Context, session *wizard.Session, sources map[string]string) error {
	for {
		switch session.State() {
		case wizard.StateAwaitingAnswer:
			if err := d.askStep(session); err != nil {
				return err
			}

		case wizard.StateChaining:
			target := session.ChainTarget()
			childCfg, err := d.loader.LoadName(target)
			if err != nil {
				return fmt.Errorf("load chain target %q: %w", target, err)
			}
			child, err := session.Chain(childCfg)
			if err != nil {
				return err
			}
			for token, cmd := range childCfg.PlaceholderOptions {
				if _, ok := sources[token]; !ok {
					sources[token] = cmd
				}
			}
			child.Start()
			if err := d.drive(ctx, child, sources); err != nil {
				return err
			}
			if err := session.CompleteChain(child); err != nil {
				return err
			}

		case wizard.StateFinalizing:
			return session.Finalize()

		case wizard.StateDone:
			return nil

		case wizard.StateCancelled:
			return ErrCancelled
		}
	}
}

// askStep prompts for and submits one answer. "b" navigates back, "q"
// cancels.
func (d *Driver) askStep(session *wizard.Session) error {
	step := session.Current()
	fmt.Fprintf(d.rl.Stdout(), "\n%s\n", step.Prompt)

	switch step.Type {
	case schema.StepChoice:
		for i, opt := range step.Options {
			fmt.Fprintf(d.rl.Stdout(), "  %d. %s\n", i+1, opt.Label)
		}
		idx, err := d.readIndex("Choice (b=back, q=quit)", 1, len(step.Options), step.Default+1)
		if err != nil {
			return d.control(session, err)
		}
		return d.submit(session, wizard.ChoiceAnswer(idx-1))

	case schema.StepToggle:
		line, err := d.readLine("[y/N, b=back, q=quit] ", "")
		if err != nil {
			return d.control(session, err)
		}
		v := strings.EqualFold(line, "y") || strings.EqualFold(line, "yes")
		return d.submit(session, wizard.ToggleAnswer(v))

	case schema.StepText:
		if step.Placeholder != "" {
			fmt.Fprintf(d.rl.Stdout(), "  (e.g. %s)\n", step.Placeholder)
		}
		line, err := d.readLine("> ", "")
		if err != nil {
			return d.control(session, err)
		}
		return d.submit(session, wizard.TextAnswer(line))

	case schema.StepMulti:
		for i, opt := range step.Options {
			fmt.Fprintf(d.rl.Stdout(), "  %d. %s\n", i+1, opt.Label)
		}
		line, err := d.readLine("Numbers, comma-separated (blank=none) > ", "")
		if err != nil {
			return d.control(session, err)
		}
		var indices []int
		for _, fieldValue := range strings.Split(line, ",") {
			fieldValue = strings.TrimSpace(fieldValue)
			if fieldValue == "" {
				continue
			}
			n, err := strconv.Atoi(fieldValue)
			if err != nil || n < 1 || n > len(step.Options) {
				fmt.Fprintf(d.rl.Stdout(), "  ignoring %q\n", fieldValue)
				continue
			}
			indices = append(indices, n-1)
		}
		return d.submit(session, wizard.MultiAnswer(indices))
	}

	return fmt.Errorf("unknown step type %q", step.Type)
}

// submit reports submission errors without aborting the flow: the
// session stays where it is for retry.
func (d *Driver) submit(session *wizard.Session, a wizard.Answer) error {
	if err := session.Submit(a); err != nil {
		fmt.Fprintf(d.rl.Stdout(), "  %v\n", err)
	}
	return nil
}

// errBack/errQuit signal navigation out of a prompt.
var (
	errBack = errors.New("back")
	errQuit = errors.New("quit")
)

// control translates a prompt navigation signal into session movement.
func (d *Driver) control(session *wizard.Session, err error) error {
	switch {
	case errors.Is(err, errBack):
		session.Back()
		return nil
	case errors.Is(err, errQuit):
		session.Cancel()
		return nil
	}
	return err
}

// readLine reads one line, translating interrupts and quit/back commands.
func (d *Driver) readLine(prompt, seed string) (string, error) {
	d.rl.SetPrompt(prompt)
	var line string
	var err error
	if seed != "" {
		line, err = d.rl.ReadlineWithDefault(seed)
	} else {
		line, err = d.rl.Readline()
	}
	if err == readline.ErrInterrupt || err == io.EOF {
		return "", errQuit
	}
	if err != nil {
		return "", err
	}
	line = strings.TrimSpace(line)
	switch line {
	case "q":
		return "", errQuit
	case "b":
		return "", errBack
	}
	return line, nil
}

// readIndex reads a 1-based index between lo and hi, defaulting on blank
// input.
func (d *Driver) readIndex(prompt string, lo, hi, def int) (int, error) {
	for {
		line, err := d.readLine(fmt.Sprintf("%s [%d] ", prompt, def), "")
		if err != nil {
			return 0, err
		}
		if line == "" {
			return def, nil
		}
		n, convErr := strconv.Atoi(line)
		if convErr != nil || n < lo || n > hi {
			fmt.Fprintf(d.rl.Stdout(), "  enter a number between %d and %d\n", lo, hi)
			continue
		}
		return n, nil
	}
}

// SelectValue implements placeholder.Prompter with a numbered list.
func (d *Driver) SelectValue(token string, choices []placeholder.Choice) (string, error) {
	fmt.Fprintf(d.rl.Stdout(), "\nValue for %s:\n", token)
	for i, c := range choices {
		fmt.Fprintf(d.rl.Stdout(), "  %d. %s\n", i+1, c.Label)
	}
	idx, err := d.readIndex("Select", 1, len(choices), 1)
	if err != nil {
		if errors.Is(err, errQuit) || errors.Is(err, errBack) {
			return "", ErrCancelled
		}
		return "", err
	}
	return choices[idx-1].Value, nil
}

// InputText implements placeholder.Prompter with a seeded free-text line.
func (d *Driver) InputText(token string, suggested string) (string, error) {
	fmt.Fprintf(d.rl.Stdout(), "\nValue for %s:\n", token)
	line, err := d.readLine("> ", suggested)
	if err != nil {
		if errors.Is(err, errQuit) || errors.Is(err, errBack) {
			return "", ErrCancelled
		}
		return "", err
	}
	return line, nil
}
