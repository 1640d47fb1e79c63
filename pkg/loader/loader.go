// Package loader resolves command-name tokens to wizard configs.
//
// Lookup order (first match wins, no merging across sources):
//  1. project-local  .wand/<name>.{json,yaml,yml}
//  2. user-global    <user config dir>/wand/<name>.{json,yaml,yml}
//  3. bundled        configs embedded in the binary
//
// Subcommand tokens map to a hyphenated name: "git commit" → "git-commit".
package loader

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/wandcli/wand/pkg/schema"
)

//go:embed builtin/*.json
var builtinFS embed.FS

// extensions tried per directory source, in order.
var extensions = []string{".json", ".yaml", ".yml"}

// NotFoundError reports that no config exists for a command name. It is a
// distinct, non-fatal condition: the caller may offer an alternative mode
// or exit cleanly.
type NotFoundError struct {
	Name     string
	Searched []string
}

func (e *NotFoundError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "no configuration found for %q\n\n", e.Name)
	b.WriteString("Create a config file at one of:\n")
	for _, p := range e.Searched {
		fmt.Fprintf(&b, "  %s\n", p)
	}
	return strings.TrimRight(b.String(), "\n")
}

// InvalidError wraps the validation diagnostics for a config that was
// found but rejected. The config is never partially executed.
type InvalidError struct {
	Name   string
	Errors []*schema.ValidationError
}

func (e *InvalidError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "config %q is invalid:\n", e.Name)
	for _, ve := range e.Errors {
		fmt.Fprintf(&b, "  %s\n", ve)
	}
	return strings.TrimRight(b.String(), "\n")
}

// Loader discovers and loads configs from the three sources.
type Loader struct {
	ProjectDir string // project-local dir, default ".wand"
	UserDir    string // user-global dir, default <user config dir>/wand
	log        *zap.Logger
}

// New creates a Loader with the default source directories.
func New(log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	userDir := ""
	if base, err := os.UserConfigDir(); err == nil {
		userDir = filepath.Join(base, "wand")
	}
	return &Loader{ProjectDir: ".wand", UserDir: userDir, log: log}
}

// Name converts command tokens to the hyphenated config name.
func Name(tokens []string) string {
	return strings.Join(tokens, "-")
}

// Tokens converts a hyphenated config name back to command tokens.
func Tokens(name string) []string {
	return strings.Split(name, "-")
}

// Resolve loads and validates the config for a command-name token sequence.
func (l *Loader) Resolve(tokens []string) (*schema.Config, error) {
	return l.LoadName(Name(tokens))
}

// LoadName loads and validates the config with the given hyphenated name.
// Returns *NotFoundError when no source has it, *InvalidError when
// validation rejects it.
func (l *Loader) LoadName(name string) (*schema.Config, error) {
	cfg, err := l.loadRaw(name)
	if err != nil {
		return nil, err
	}
	if errs := schema.Validate(cfg, l.Exists); errs != nil {
		return nil, &InvalidError{Name: name, Errors: errs}
	}
	l.log.Debug("config loaded", zap.String("name", name), zap.Int("steps", len(cfg.Steps)))
	return cfg, nil
}

// loadRaw finds and decodes the config without validating it.
func (l *Loader) loadRaw(name string) (*schema.Config, error) {
	var searched []string

	for _, dir := range l.dirs() {
		for _, ext := range extensions {
			path := filepath.Join(dir, name+ext)
			searched = append(searched, path)
			if _, err := os.Stat(path); err != nil {
				continue
			}
			cfg, err := schema.LoadFile(path)
			if err != nil {
				return nil, fmt.Errorf("load %s: %w", path, err)
			}
			return cfg, nil
		}
	}

	if data, err := builtinFS.ReadFile("builtin/" + name + ".json"); err == nil {
		cfg, err := schema.LoadBytes(name+".json", data)
		if err != nil {
			return nil, fmt.Errorf("load bundled config %q: %w", name, err)
		}
		return cfg, nil
	}
	searched = append(searched, "builtin:"+name+".json")

	return nil, &NotFoundError{Name: name, Searched: searched}
}

// Exists reports whether any source can resolve the given config name.
// Used for chain-target validation; it does not decode the target.
func (l *Loader) Exists(name string) bool {
	for _, dir := range l.dirs() {
		for _, ext := range extensions {
			if _, err := os.Stat(filepath.Join(dir, name+ext)); err == nil {
				return true
			}
		}
	}
	if _, err := builtinFS.ReadFile("builtin/" + name + ".json"); err == nil {
		return true
	}
	return false
}

func (l *Loader) dirs() []string {
	dirs := []string{l.ProjectDir}
	if l.UserDir != "" {
		dirs = append(dirs, l.UserDir)
	}
	return dirs
}

// Entry describes one discoverable config.
type Entry struct {
	Name   string
	Source string // "project", "user", "bundled"
}

// List enumerates every discoverable config name, first-match-wins across
// sources, sorted by name.
func (l *Loader) List() []Entry {
	found := make(map[string]string)

	add := func(name, source string) {
		if _, ok := found[name]; !ok {
			found[name] = source
		}
	}

	sources := []struct {
		dir    string
		source string
	}{
		{l.ProjectDir, "project"},
		{l.UserDir, "user"},
	}
	for _, src := range sources {
		if src.dir == "" {
			continue
		}
		entries, err := os.ReadDir(src.dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			ext := filepath.Ext(e.Name())
			for _, known := range extensions {
				if ext == known {
					add(strings.TrimSuffix(e.Name(), ext), src.source)
					break
				}
			}
		}
	}

	if entries, err := builtinFS.ReadDir("builtin"); err == nil {
		for _, e := range entries {
			add(strings.TrimSuffix(e.Name(), ".json"), "bundled")
		}
	}

	out := make([]Entry, 0, len(found))
	for name, source := range found {
		out = append(out, Entry{Name: name, Source: source})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
