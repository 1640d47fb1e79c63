package schema

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func strptr(s string) *string { return &s }

func validConfig() *Config {
	return &Config{
		Command: "docker",
		Steps: []Step{
			{
				ID:     "action",
				Prompt: "What to do?",
				Type:   StepChoice,
				Options: []Option{
					{Label: "List containers", Flag: strptr("ps")},
					{Label: "Run a container", Flag: strptr("run"), Chain: "docker-run"},
				},
			},
			{
				ID:     "all",
				Prompt: "Include stopped?",
				Type:   StepToggle,
				Flag:   "-a",
				When:   map[string]string{"action": "List containers"},
			},
		},
	}
}

// TestValidateAccepts verifies a well-formed config passes all phases.
func TestValidateAccepts(t *testing.T) {
	errs := Validate(validConfig(), func(name string) bool { return name == "docker-run" })
	if errs != nil {
		t.Fatalf("Validate returned errors for valid config: %v", errs)
	}
}

// TestValidateDomain exercises the Phase 3 rules one by one. Each case
// mutates a valid config and names the substring the resulting error
// must carry.
func TestValidateDomain(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantMsg string
	}{
		{
			name:    "empty command",
			mutate:  func(c *Config) { c.Command = "" },
			wantMsg: "command must not be empty",
		},
		{
			name:    "duplicate step id",
			mutate:  func(c *Config) { c.Steps[1].ID = "action" },
			wantMsg: "duplicate step id",
		},
		{
			name:    "choice without options",
			mutate:  func(c *Config) { c.Steps[0].Options = nil },
			wantMsg: "requires at least one option",
		},
		{
			name:    "toggle without flag",
			mutate:  func(c *Config) { c.Steps[1].Flag = "" },
			wantMsg: "requires a flag",
		},
		{
			name:    "unknown step type",
			mutate:  func(c *Config) { c.Steps[1].Type = "slider" },
			wantMsg: "unknown step type",
		},
		{
			name:    "choice default out of range",
			mutate:  func(c *Config) { c.Steps[0].Default = 5 },
			wantMsg: "out of range",
		},
		{
			name:    "when references forward step",
			mutate:  func(c *Config) { c.Steps[0].When = map[string]string{"all": "true"} },
			wantMsg: "declared earlier",
		},
		{
			name:    "when references unknown step",
			mutate:  func(c *Config) { c.Steps[1].When = map[string]string{"nope": "x"} },
			wantMsg: "declared earlier",
		},
		{
			name:    "invalid when_expr",
			mutate:  func(c *Config) { c.Steps[1].WhenExpr = "action ==" },
			wantMsg: "invalid expression",
		},
		{
			name:    "empty option label",
			mutate:  func(c *Config) { c.Steps[0].Options[0].Label = "" },
			wantMsg: "option label must not be empty",
		},
		{
			name:    "chain on non-choice step",
			mutate:  func(c *Config) { c.Steps[1].Options = []Option{{Label: "x", Chain: "docker-run"}} },
			wantMsg: "only allowed on choice options",
		},
		{
			name:    "unresolvable chain target",
			mutate:  func(c *Config) { c.Steps[0].Options[1].Chain = "missing" },
			wantMsg: "does not resolve",
		},
		{
			name:    "preset with empty flags",
			mutate:  func(c *Config) { c.Presets = []Preset{{Label: "Quick", Flags: ""}} },
			wantMsg: "empty flags",
		},
		{
			name:    "malformed placeholder key",
			mutate:  func(c *Config) { c.PlaceholderOptions = map[string]string{"container": "docker ps"} },
			wantMsg: "angle-bracketed token",
		},
	}

	lookup := func(name string) bool { return name == "docker-run" }

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(cfg)
			errs := ValidateDomain(cfg, lookup)
			if len(errs) == 0 {
				t.Fatalf("expected domain errors, got none")
			}
			found := false
			for _, e := range errs {
				if strings.Contains(e.Message, tc.wantMsg) {
					found = true
					if e.Phase != "domain" {
						t.Errorf("Phase = %q, want domain", e.Phase)
					}
				}
			}
			if !found {
				t.Errorf("no error containing %q in %v", tc.wantMsg, errs)
			}
		})
	}
}

// TestValidateDomainNilLookup verifies chain existence checks are skipped
// when no lookup is provided; other chain rules still apply.
func TestValidateDomainNilLookup(t *testing.T) {
	cfg := validConfig()
	cfg.Steps[0].Options[1].Chain = "whatever"
	if errs := ValidateDomain(cfg, nil); len(errs) != 0 {
		t.Errorf("expected no errors with nil lookup, got %v", errs)
	}
}

// TestValidateFileStructural checks that an unparsable file surfaces a
// single structural-phase error instead of a panic or partial config.
func TestValidateFileStructural(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.json")
	if err := os.WriteFile(path, []byte(`{"command": `), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, errs := ValidateFile(path, nil)
	if cfg != nil {
		t.Errorf("expected nil config, got %+v", cfg)
	}
	if len(errs) != 1 || errs[0].Phase != "structural" {
		t.Fatalf("expected one structural error, got %v", errs)
	}
}

// TestValidateFileValid runs the full pipeline against a real file on disk.
func TestValidateFileValid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ls.json")
	if err := os.WriteFile(path, []byte(lsJSON), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, errs := ValidateFile(path, nil)
	if errs != nil {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if cfg == nil || cfg.Command != "ls" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}
