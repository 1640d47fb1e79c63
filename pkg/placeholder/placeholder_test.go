package placeholder

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/wandcli/wand/pkg/runner"
)

// fakeExecutor returns canned results per command line.
type fakeExecutor struct {
	results map[string]*runner.Result
	errs    map[string]error
	calls   []string
}

func (f *fakeExecutor) Run(_ context.Context, commandLine string) (*runner.Result, error) {
	f.calls = append(f.calls, commandLine)
	if err, ok := f.errs[commandLine]; ok {
		return nil, err
	}
	if r, ok := f.results[commandLine]; ok {
		return r, nil
	}
	return &runner.Result{}, nil
}

// fakePrompter answers selections with the first choice value and text
// prompts from a canned map, recording what it was asked.
type fakePrompter struct {
	texts     map[string]string
	selected  []string
	prompted  []string
	selectErr error
}

func (f *fakePrompter) SelectValue(token string, choices []Choice) (string, error) {
	f.selected = append(f.selected, token)
	if f.selectErr != nil {
		return "", f.selectErr
	}
	return choices[0].Value, nil
}

func (f *fakePrompter) InputText(token, suggested string) (string, error) {
	f.prompted = append(f.prompted, token)
	if v, ok := f.texts[token]; ok {
		return v, nil
	}
	return suggested, nil
}

// TestTokens extracts distinct tokens in order of first appearance.
func TestTokens(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"docker logs <container>", []string{"<container>"}},
		{"scp <src> <host>:<src>", []string{"<src>", "<host>"}},
		{"echo plain", nil},
		{`grep "<pattern>" <file>`, []string{"<pattern>", "<file>"}},
		{"empty <> brackets", nil},
		{"nested <a<b>>", []string{"<b>"}},
	}
	for _, tc := range cases {
		if got := Tokens(tc.in); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("Tokens(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

// TestSuggestion strips the angle brackets.
func TestSuggestion(t *testing.T) {
	if got := Suggestion("<branch>"); got != "branch" {
		t.Errorf("Suggestion = %q, want branch", got)
	}
}

// TestParseChoices splits lines on the first tab into value and label.
func TestParseChoices(t *testing.T) {
	out := []byte("web\tabc123\ndb\tdef456\n\nplain\n")
	got := ParseChoices(out)
	want := []Choice{
		{Label: "web (abc123)", Value: "web"},
		{Label: "db (def456)", Value: "db"},
		{Label: "plain", Value: "plain"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseChoices = %v, want %v", got, want)
	}
}

// TestResolveNoTokens returns the input unchanged without consulting the
// prompter or executor.
func TestResolveNoTokens(t *testing.T) {
	exec := &fakeExecutor{}
	prompter := &fakePrompter{}
	r := NewResolver(nil, exec, prompter, nil)

	got, err := r.Resolve(context.Background(), "ls -la")
	if err != nil {
		t.Fatal(err)
	}
	if got != "ls -la" {
		t.Errorf("Resolve = %q, want unchanged", got)
	}
	if len(exec.calls) != 0 || len(prompter.prompted) != 0 {
		t.Error("resolver touched executor or prompter with no tokens present")
	}
}

// TestResolveFetched substitutes a token from a fetch command's output.
func TestResolveFetched(t *testing.T) {
	exec := &fakeExecutor{results: map[string]*runner.Result{
		"docker ps --format '{{.Names}}\t{{.ID}}'": {Stdout: []byte("web\tabc123\ndb\tdef456\n")},
	}}
	prompter := &fakePrompter{}
	r := NewResolver(map[string]string{
		"<container>": "docker ps --format '{{.Names}}\t{{.ID}}'",
	}, exec, prompter, nil)

	got, err := r.Resolve(context.Background(), "docker logs <container>")
	if err != nil {
		t.Fatal(err)
	}
	if want := "docker logs web"; got != want {
		t.Errorf("Resolve = %q, want %q", got, want)
	}
	if !reflect.DeepEqual(prompter.selected, []string{"<container>"}) {
		t.Errorf("selected = %v", prompter.selected)
	}
}

// TestResolveFreeText falls to the free-text prompt for tokens without a
// fetch source, seeding the bracket-stripped suggestion.
func TestResolveFreeText(t *testing.T) {
	prompter := &fakePrompter{texts: map[string]string{"<file>": "notes.txt"}}
	r := NewResolver(nil, &fakeExecutor{}, prompter, nil)

	got, err := r.Resolve(context.Background(), "cat <file>")
	if err != nil {
		t.Fatal(err)
	}
	if want := "cat notes.txt"; got != want {
		t.Errorf("Resolve = %q, want %q", got, want)
	}
}

// TestResolveFetchFailureFallsBack downgrades every fetch failure mode
// to the free-text path instead of aborting.
func TestResolveFetchFailureFallsBack(t *testing.T) {
	cases := []struct {
		name string
		exec *fakeExecutor
	}{
		{
			name: "run error",
			exec: &fakeExecutor{errs: map[string]error{"list-things": errors.New("no such binary")}},
		},
		{
			name: "non-zero exit",
			exec: &fakeExecutor{results: map[string]*runner.Result{"list-things": {ExitCode: 1}}},
		},
		{
			name: "empty output",
			exec: &fakeExecutor{results: map[string]*runner.Result{"list-things": {Stdout: []byte("\n\n")}}},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			prompter := &fakePrompter{texts: map[string]string{"<thing>": "manual"}}
			r := NewResolver(map[string]string{"<thing>": "list-things"}, tc.exec, prompter, nil)

			got, err := r.Resolve(context.Background(), "use <thing>")
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if want := "use manual"; got != want {
				t.Errorf("Resolve = %q, want %q", got, want)
			}
			if len(prompter.selected) != 0 {
				t.Error("SelectValue called despite failed fetch")
			}
		})
	}
}

// TestResolvePresetOrder resolves a preset string's tokens in order of
// first appearance, all through the free-text path.
func TestResolvePresetOrder(t *testing.T) {
	prompter := &fakePrompter{texts: map[string]string{
		"<data>": `{"x":1}`,
		"<url>":  "https://example.com",
	}}
	r := NewResolver(nil, &fakeExecutor{}, prompter, nil)

	got, err := r.Resolve(context.Background(),
		"curl -X POST -H 'Content-Type: application/json' -d '<data>' '<url>'")
	if err != nil {
		t.Fatal(err)
	}
	want := `curl -X POST -H 'Content-Type: application/json' -d '{"x":1}' 'https://example.com'`
	if got != want {
		t.Errorf("Resolve = %q, want %q", got, want)
	}
	if !reflect.DeepEqual(prompter.prompted, []string{"<data>", "<url>"}) {
		t.Errorf("prompt order = %v, want [<data> <url>]", prompter.prompted)
	}
}

// TestResolveRepeatedToken resolves each distinct token once and
// substitutes every occurrence.
func TestResolveRepeatedToken(t *testing.T) {
	prompter := &fakePrompter{texts: map[string]string{"<name>": "redis"}}
	r := NewResolver(nil, &fakeExecutor{}, prompter, nil)

	got, err := r.Resolve(context.Background(), "docker rename <name> <name>-old")
	if err != nil {
		t.Fatal(err)
	}
	if want := "docker rename redis redis-old"; got != want {
		t.Errorf("Resolve = %q, want %q", got, want)
	}
	if len(prompter.prompted) != 1 {
		t.Errorf("prompted %d times, want 1", len(prompter.prompted))
	}
}

// TestResolvePrompterError propagates a prompter failure (cancellation)
// upward.
func TestResolvePrompterError(t *testing.T) {
	cancel := fmt.Errorf("cancelled")
	exec := &fakeExecutor{results: map[string]*runner.Result{
		"list": {Stdout: []byte("a\tb\n")},
	}}
	prompter := &fakePrompter{selectErr: cancel}
	r := NewResolver(map[string]string{"<x>": "list"}, exec, prompter, nil)

	if _, err := r.Resolve(context.Background(), "run <x>"); !errors.Is(err, cancel) {
		t.Errorf("err = %v, want wrapped prompter error", err)
	}
}
