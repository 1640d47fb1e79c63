// Package placeholder resolves <token> markers in an assembled or preset
// flag string: via a command-sourced option list when the config declares
// a fetch command for the token, via a free-text prompt otherwise.
package placeholder

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/wandcli/wand/pkg/runner"
)

// tokenRe matches an exact angle-bracketed token. Matching is
// conservative and verbatim; a token inside a quoted literal is still a
// token.
var tokenRe = regexp.MustCompile(`<[^<>]+>`)

// Tokens returns the distinct tokens in s, in order of first appearance.
func Tokens(s string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, tok := range tokenRe.FindAllString(s, -1) {
		if !seen[tok] {
			seen[tok] = true
			out = append(out, tok)
		}
	}
	return out
}

// Suggestion returns the free-text default seeded for a token: the token
// text without its angle brackets.
func Suggestion(token string) string {
	return strings.TrimSuffix(strings.TrimPrefix(token, "<"), ">")
}

// Choice is one selectable value from a fetch command's output.
type Choice struct {
	Label string // shown to the user: "name (id)"
	Value string // substituted into the command: name only
}

// Prompter supplies user decisions to the resolver. Implementations: the
// TUI overlay and the readline plain-mode prompter; tests use fakes.
type Prompter interface {
	// SelectValue asks the user to pick one of the fetched choices.
	SelectValue(token string, choices []Choice) (string, error)
	// InputText asks for free text, seeded with a suggested default.
	InputText(token string, suggested string) (string, error)
}

// Resolver substitutes every token in a command string, resolving each
// distinct token once in order of first appearance.
type Resolver struct {
	Sources  map[string]string // token → fetch command line
	Executor runner.Executor
	Prompter Prompter
	Log      *zap.Logger
}

// NewResolver creates a resolver over the given fetch sources.
func NewResolver(sources map[string]string, exec runner.Executor, prompter Prompter, log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{Sources: sources, Executor: exec, Prompter: prompter, Log: log}
}

// Resolve substitutes every token in s. A string with no tokens is
// returned unchanged. Fetch failure (run error, non-zero exit, or zero
// parseable lines) downgrades to the free-text path for that token; it
// never aborts resolution.
func (r *Resolver) Resolve(ctx context.Context, s string) (string, error) {
	for _, token := range Tokens(s) {
		value, err := r.resolveToken(ctx, token)
		if err != nil {
			return "", err
		}
		s = strings.ReplaceAll(s, token, value)
	}
	return s, nil
}

func (r *Resolver) resolveToken(ctx context.Context, token string) (string, error) {
	if fetchCmd, ok := r.Sources[token]; ok && r.Executor != nil {
		choices, err := r.Fetch(ctx, fetchCmd)
		if err != nil {
			r.Log.Debug("placeholder fetch failed, falling back to free text",
				zap.String("token", token), zap.Error(err))
		} else if len(choices) > 0 {
			value, err := r.Prompter.SelectValue(token, choices)
			if err != nil {
				return "", fmt.Errorf("select value for %s: %w", token, err)
			}
			return value, nil
		}
	}

	value, err := r.Prompter.InputText(token, Suggestion(token))
	if err != nil {
		return "", fmt.Errorf("input value for %s: %w", token, err)
	}
	return value, nil
}

// Fetch runs a fetch command and parses its stdout into choices. Each
// output line splits on the first tab into (name, id); the id becomes
// part of the label only.
func (r *Resolver) Fetch(ctx context.Context, fetchCmd string) ([]Choice, error) {
	result, err := r.Executor.Run(ctx, fetchCmd)
	if err != nil {
		return nil, err
	}
	if result.ExitCode != 0 {
		return nil, fmt.Errorf("fetch command exited with status %d", result.ExitCode)
	}
	choices := ParseChoices(result.Stdout)
	if len(choices) == 0 {
		return nil, fmt.Errorf("fetch command produced no parseable lines")
	}
	return choices, nil
}

// ParseChoices splits fetch output into lines and each line on its first
// tab into (name, id). Lines without a tab become name-only choices;
// blank lines are skipped.
func ParseChoices(stdout []byte) []Choice {
	var choices []Choice
	for _, line := range strings.Split(string(stdout), "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		name, id, found := strings.Cut(line, "\t")
		label := name
		if found && id != "" {
			label = fmt.Sprintf("%s (%s)", name, id)
		}
		choices = append(choices, Choice{Label: label, Value: name})
	}
	return choices
}
