// Package schema defines the Go struct types for wizard config documents
// and provides strict JSON/YAML parsing.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the top-level document describing one command's wizard:
// its presets, its step flow, and its placeholder fetch sources.
// A Config is immutable once loaded.
type Config struct {
	Command            string            `yaml:"command"     json:"command"     jsonschema:"required"`
	Description        string            `yaml:"description,omitempty" json:"description,omitempty"`
	Presets            []Preset          `yaml:"presets,omitempty"     json:"presets,omitempty"`
	Steps              []Step            `yaml:"steps,omitempty"       json:"steps,omitempty"`
	PlaceholderOptions map[string]string `yaml:"placeholder_options,omitempty" json:"placeholder_options,omitempty"`
}

// Preset is a named, ready-made flag combination bypassing the step flow.
// Flags may contain <token> placeholders resolved after selection.
type Preset struct {
	Label string `yaml:"label" json:"label" jsonschema:"required"`
	Flags string `yaml:"flags" json:"flags" jsonschema:"required"`
}

// StepType is the closed set of step variants.
type StepType string

// Step variants. Adding a new one is an exhaustive-match change across
// the wizard, assembler, and TUI.
const (
	StepChoice StepType = "choice"
	StepToggle StepType = "toggle"
	StepText   StepType = "text"
	StepMulti  StepType = "multi"
)

// Step is one question in the wizard, optionally conditional on earlier
// answers via When (exact equality) or WhenExpr (boolean expression over
// the answer environment).
type Step struct {
	ID       string            `yaml:"id"     json:"id"     jsonschema:"required"`
	Prompt   string            `yaml:"prompt" json:"prompt" jsonschema:"required"`
	Type     StepType          `yaml:"type"   json:"type"   jsonschema:"required,enum=choice,enum=toggle,enum=text,enum=multi"`
	Options  []Option          `yaml:"options,omitempty" json:"options,omitempty"`
	Flag     string            `yaml:"flag,omitempty"    json:"flag,omitempty"`
	Default  int               `yaml:"default,omitempty" json:"default,omitempty"`
	When     map[string]string `yaml:"when,omitempty"    json:"when,omitempty"`
	WhenExpr string            `yaml:"when_expr,omitempty" json:"when_expr,omitempty"`
	// Placeholder is the hint text shown in an empty text input.
	Placeholder string `yaml:"placeholder,omitempty" json:"placeholder,omitempty"`
}

// Option is one selectable value within a choice/multi step. A nil Flag
// means the selection contributes nothing to the assembled command.
// Chain names another config that takes over the rest of the flow.
type Option struct {
	Label string  `yaml:"label" json:"label" jsonschema:"required"`
	Flag  *string `yaml:"flag"  json:"flag"  jsonschema:"oneof_type=string;null"`
	Chain string  `yaml:"chain,omitempty" json:"chain,omitempty"`
}

// Name returns the config's lookup name: command tokens joined with hyphens
// ("git commit" → "git-commit").
func (c *Config) Name() string {
	return strings.ReplaceAll(c.Command, " ", "-")
}

// StepIndex returns the declaration index of the step with the given id,
// or -1 if no such step exists.
func (c *Config) StepIndex(id string) int {
	for i := range c.Steps {
		if c.Steps[i].ID == id {
			return i
		}
	}
	return -1
}

// LoadFile reads and parses a config file with strict unknown-field
// rejection. The format is chosen by extension: .json, or .yaml/.yml.
func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".yaml" || ext == ".yml" {
		return LoadYAML(f)
	}
	return Load(f)
}

// Load parses a JSON config from an io.Reader, rejecting unknown fields.
func Load(r io.Reader) (*Config, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// LoadYAML parses a YAML config from an io.Reader with strict
// unknown-field rejection (yaml.v3 KnownFields).
func LoadYAML(r io.Reader) (*Config, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// LoadBytes parses a config held in memory, choosing JSON or YAML by the
// name's extension. Used for embedded bundled configs.
func LoadBytes(name string, data []byte) (*Config, error) {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == ".yaml" || ext == ".yml" {
		return LoadYAML(bytes.NewReader(data))
	}
	return Load(bytes.NewReader(data))
}
