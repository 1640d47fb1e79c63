package wizard

import (
	"testing"

	"github.com/wandcli/wand/pkg/schema"
)

func lsConfig() *schema.Config {
	return &schema.Config{
		Command: "ls",
		Steps: []schema.Step{
			{ID: "format", Prompt: "Display?", Type: schema.StepChoice, Options: []schema.Option{
				{Label: "Detailed list", Flag: strptr("-l")},
				{Label: "Grid", Flag: nil},
			}},
			{ID: "hidden", Prompt: "Hidden files?", Type: schema.StepToggle, Flag: "-a"},
			{ID: "human", Prompt: "Human sizes?", Type: schema.StepToggle, Flag: "-h",
				When: map[string]string{"format": "Detailed list"}},
			{ID: "path", Prompt: "Path?", Type: schema.StepText},
		},
	}
}

// TestBuildFlags covers the per-type emission rules: choice flag, nil
// choice flag, true and false toggles, flagged and positional text.
func TestBuildFlags(t *testing.T) {
	cfg := lsConfig()

	cases := []struct {
		name    string
		answers AnswerSet
		want    string
	}{
		{
			name: "all contributing",
			answers: AnswerSet{
				"format": ChoiceAnswer(0),
				"hidden": ToggleAnswer(true),
				"human":  ToggleAnswer(true),
				"path":   TextAnswer("/var/log"),
			},
			want: "-l -a -h /var/log",
		},
		{
			name: "nil choice flag emits nothing",
			answers: AnswerSet{
				"format": ChoiceAnswer(1),
				"hidden": ToggleAnswer(true),
				"path":   TextAnswer(""),
			},
			want: "-a",
		},
		{
			name: "false toggles emit nothing",
			answers: AnswerSet{
				"format": ChoiceAnswer(1),
				"hidden": ToggleAnswer(false),
				"path":   TextAnswer(""),
			},
			want: "",
		},
		{
			name: "hidden step answer is ignored",
			answers: AnswerSet{
				"format": ChoiceAnswer(1), // Grid hides "human"
				"hidden": ToggleAnswer(false),
				"human":  ToggleAnswer(true),
				"path":   TextAnswer(""),
			},
			want: "",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := BuildFlags(cfg, tc.answers); got != tc.want {
				t.Errorf("BuildFlags = %q, want %q", got, tc.want)
			}
		})
	}
}

// TestBuildFlagsTextWithFlag joins a flagged text answer with a single
// space between flag and value.
func TestBuildFlagsTextWithFlag(t *testing.T) {
	cfg := &schema.Config{
		Command: "curl",
		Steps: []schema.Step{
			{ID: "body", Prompt: "Body?", Type: schema.StepText, Flag: "-d"},
		},
	}
	got := BuildFlags(cfg, AnswerSet{"body": TextAnswer(`{"a":1}`)})
	if want := `-d {"a":1}`; got != want {
		t.Errorf("BuildFlags = %q, want %q", got, want)
	}
}

// TestBuildFlagsMultiOrder verifies multi-select emission follows the
// declared option order regardless of selection order, with duplicate
// flags collapsed.
func TestBuildFlagsMultiOrder(t *testing.T) {
	cfg := &schema.Config{
		Command: "tar",
		Steps: []schema.Step{
			{ID: "opts", Prompt: "Options?", Type: schema.StepMulti, Options: []schema.Option{
				{Label: "Verbose", Flag: strptr("-v")},
				{Label: "Gzip", Flag: strptr("-z")},
				{Label: "Chatty", Flag: strptr("-v")}, // same flag as Verbose
				{Label: "Noop", Flag: nil},
			}},
		},
	}

	// Selected in reverse declaration order, including the duplicate flag
	// and the nil-flag option.
	answers := AnswerSet{"opts": MultiAnswer([]int{3, 2, 1, 0})}
	if got, want := BuildFlags(cfg, answers), "-v -z"; got != want {
		t.Errorf("BuildFlags = %q, want %q", got, want)
	}
}

// TestBuildFlagsIdempotent assembles twice from the same answer set and
// expects byte-identical output.
func TestBuildFlagsIdempotent(t *testing.T) {
	cfg := lsConfig()
	answers := AnswerSet{
		"format": ChoiceAnswer(0),
		"hidden": ToggleAnswer(true),
		"human":  ToggleAnswer(false),
		"path":   TextAnswer("src"),
	}
	first := BuildFlags(cfg, answers)
	second := BuildFlags(cfg, answers)
	if first != second {
		t.Errorf("assembly not stable: %q then %q", first, second)
	}
}

// TestPresetCommand passes preset flags through verbatim, placeholder
// tokens included.
func TestPresetCommand(t *testing.T) {
	cfg := &schema.Config{Command: "docker"}
	preset := schema.Preset{Label: "Shell into container", Flags: "exec -it <container> /bin/sh"}
	if got, want := PresetCommand(cfg, preset), "docker exec -it <container> /bin/sh"; got != want {
		t.Errorf("PresetCommand = %q, want %q", got, want)
	}
}

// TestSubcommandToken derives the splice token from the child name.
func TestSubcommandToken(t *testing.T) {
	cases := []struct {
		parent, child string
		want          string
	}{
		{"docker", "docker run", "run"},
		{"git", "git commit", "commit"},
		{"docker", "docker container ls", "container ls"},
		{"git", "svn dcommit", "svn dcommit"}, // no shared prefix
	}
	for _, tc := range cases {
		parent := &schema.Config{Command: tc.parent}
		child := &schema.Config{Command: tc.child}
		if got := SubcommandToken(parent, child); got != tc.want {
			t.Errorf("SubcommandToken(%q, %q) = %q, want %q", tc.parent, tc.child, got, tc.want)
		}
	}
}
