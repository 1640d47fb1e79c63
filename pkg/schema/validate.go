package schema

import (
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/expr-lang/expr"
	sjsonschema "github.com/santhosh-tekuri/jsonschema/v6"
)

// ValidationError represents a single validation error with location context.
type ValidationError struct {
	Phase    string `json:"phase"` // structural, semantic, domain
	Path     string `json:"path"`  // JSON-path-like location (e.g., "steps[2].when")
	Message  string `json:"message"`
	Severity string `json:"severity"` // error, warning
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Phase, e.Path, e.Message)
}

// ChainLookup reports whether a chain target config name can be resolved.
// Passing nil skips chain-target existence checks.
type ChainLookup func(name string) bool

// tokenRe matches a well-formed placeholder token key: <name>.
var tokenRe = regexp.MustCompile(`^<[^<>]+>$`)

// ValidateFile performs the full 3-phase validation pipeline on a config file.
// Phase 1: Structural (strict decode)
// Phase 2: Semantic (JSON Schema validation)
// Phase 3: Domain (custom Go rules)
func ValidateFile(path string, chains ChainLookup) (*Config, []*ValidationError) {
	cfg, err := LoadFile(path)
	if err != nil {
		return nil, []*ValidationError{{
			Phase:    "structural",
			Path:     "",
			Message:  err.Error(),
			Severity: "error",
		}}
	}
	return cfg, Validate(cfg, chains)
}

// Validate runs the semantic and domain phases on an already-decoded config.
// A nil return means the config is valid.
func Validate(cfg *Config, chains ChainLookup) []*ValidationError {
	var allErrors []*ValidationError
	allErrors = append(allErrors, validateSemantic(cfg)...)
	allErrors = append(allErrors, ValidateDomain(cfg, chains)...)
	if len(allErrors) > 0 {
		return allErrors
	}
	return nil
}

// validateSemantic validates the config against the generated JSON Schema.
func validateSemantic(cfg *Config) []*ValidationError {
	data, err := json.Marshal(cfg)
	if err != nil {
		return []*ValidationError{semErr(fmt.Sprintf("marshal for schema validation: %v", err))}
	}

	schemaJSON, err := GenerateJSONSchema()
	if err != nil {
		return []*ValidationError{semErr(fmt.Sprintf("generate schema: %v", err))}
	}

	var schemaDoc interface{}
	if err := json.Unmarshal(schemaJSON, &schemaDoc); err != nil {
		return []*ValidationError{semErr(fmt.Sprintf("unmarshal schema: %v", err))}
	}

	c := sjsonschema.NewCompiler()
	if err := c.AddResource("wand-config-v0.json", schemaDoc); err != nil {
		return []*ValidationError{semErr(fmt.Sprintf("add schema resource: %v", err))}
	}
	sch, err := c.Compile("wand-config-v0.json")
	if err != nil {
		return []*ValidationError{semErr(fmt.Sprintf("compile schema: %v", err))}
	}

	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return []*ValidationError{semErr(fmt.Sprintf("unmarshal document: %v", err))}
	}

	if err := sch.Validate(doc); err != nil {
		var errs []*ValidationError
		if ve, ok := err.(*sjsonschema.ValidationError); ok {
			for _, cause := range flattenValidationErrors(ve) {
				errs = append(errs, &ValidationError{
					Phase:    "semantic",
					Path:     joinLocation(cause.InstanceLocation),
					Message:  fmt.Sprintf("%v", cause.ErrorKind),
					Severity: "error",
				})
			}
		} else {
			errs = append(errs, semErr(err.Error()))
		}
		return errs
	}
	return nil
}

func semErr(msg string) *ValidationError {
	return &ValidationError{Phase: "semantic", Path: "", Message: msg, Severity: "error"}
}

func joinLocation(loc []string) string {
	out := ""
	for i, seg := range loc {
		if i > 0 {
			out += "/"
		}
		out += seg
	}
	return out
}

// flattenValidationErrors recursively collects all leaf validation errors.
func flattenValidationErrors(ve *sjsonschema.ValidationError) []*sjsonschema.ValidationError {
	if len(ve.Causes) == 0 {
		return []*sjsonschema.ValidationError{ve}
	}
	var flat []*sjsonschema.ValidationError
	for _, cause := range ve.Causes {
		flat = append(flat, flattenValidationErrors(cause)...)
	}
	return flat
}

// ValidateDomain performs Phase 3 domain-level validation: the rules the
// JSON Schema cannot express. A malformed config is rejected entirely;
// it is never partially executed.
func ValidateDomain(cfg *Config, chains ChainLookup) []*ValidationError {
	var errs []*ValidationError

	derr := func(path, msg string) {
		errs = append(errs, &ValidationError{
			Phase:    "domain",
			Path:     path,
			Message:  msg,
			Severity: "error",
		})
	}

	if cfg.Command == "" {
		derr("command", "command must not be empty")
	}

	// Step ids must be unique within the config, and when clauses may only
	// reference steps declared strictly earlier.
	seen := make(map[string]int, len(cfg.Steps))
	for i, step := range cfg.Steps {
		path := fmt.Sprintf("steps[%d]", i)

		if step.ID == "" {
			derr(path+".id", "step id must not be empty")
		} else if prev, dup := seen[step.ID]; dup {
			derr(path+".id", fmt.Sprintf("duplicate step id %q (first declared at steps[%d])", step.ID, prev))
		} else {
			seen[step.ID] = i
		}

		switch step.Type {
		case StepChoice, StepMulti:
			if len(step.Options) == 0 {
				derr(path+".options", fmt.Sprintf("%s step %q requires at least one option", step.Type, step.ID))
			}
		case StepToggle:
			if step.Flag == "" {
				derr(path+".flag", fmt.Sprintf("toggle step %q requires a flag", step.ID))
			}
		case StepText:
			// flag optional, a flagless text step is positional
		default:
			derr(path+".type", fmt.Sprintf("unknown step type %q", step.Type))
		}

		if step.Type == StepChoice && (step.Default < 0 || step.Default >= max(len(step.Options), 1)) {
			derr(path+".default", fmt.Sprintf("default index %d out of range for %d options", step.Default, len(step.Options)))
		}

		for target := range step.When {
			if _, declared := seen[target]; !declared || target == step.ID {
				derr(path+".when", fmt.Sprintf("when references unknown or forward step id %q; the referenced step must be declared earlier", target))
			}
		}

		if step.WhenExpr != "" {
			if _, err := expr.Compile(step.WhenExpr, expr.AllowUndefinedVariables(), expr.AsBool()); err != nil {
				derr(path+".when_expr", fmt.Sprintf("invalid expression: %v", err))
			}
		}

		for j, opt := range step.Options {
			optPath := fmt.Sprintf("%s.options[%d]", path, j)
			if opt.Label == "" {
				derr(optPath+".label", "option label must not be empty")
			}
			if opt.Chain != "" {
				if step.Type != StepChoice {
					derr(optPath+".chain", fmt.Sprintf("chain is only allowed on choice options (step %q is %s)", step.ID, step.Type))
				}
				if chains != nil && !chains(opt.Chain) {
					derr(optPath+".chain", fmt.Sprintf("chain target %q does not resolve to any config", opt.Chain))
				}
			}
		}
	}

	for i, preset := range cfg.Presets {
		path := fmt.Sprintf("presets[%d]", i)
		if preset.Label == "" {
			derr(path+".label", "preset label must not be empty")
		}
		if preset.Flags == "" {
			derr(path+".flags", fmt.Sprintf("preset %q has empty flags", preset.Label))
		}
	}

	for token := range cfg.PlaceholderOptions {
		if !tokenRe.MatchString(token) {
			derr("placeholder_options", fmt.Sprintf("key %q is not an angle-bracketed token like %q", token, "<name>"))
		}
	}

	return errs
}
