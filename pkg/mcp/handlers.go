package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/wandcli/wand/pkg/loader"
	"github.com/wandcli/wand/pkg/placeholder"
	"github.com/wandcli/wand/pkg/schema"
	"github.com/wandcli/wand/pkg/wizard"
)

// HandleList implements the wand/list MCP tool.
func HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ld := loader.New(nil)
	entries := ld.List()
	if len(entries) == 0 {
		return textResult("no configs found"), nil
	}
	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "%s\t(%s)\n", e.Name, e.Source)
	}
	return textResult(strings.TrimRight(b.String(), "\n")), nil
}

// HandleValidate implements the wand/validate MCP tool.
func HandleValidate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	path, _ := args["path"].(string)
	if path == "" {
		return errorResult("path argument is required"), nil
	}

	ld := loader.New(nil)
	cfg, errs := schema.ValidateFile(path, ld.Exists)
	if len(errs) > 0 {
		return errorResult(formatErrors(errs)), nil
	}
	return textResult(fmt.Sprintf("✓ %s is valid (%d steps, %d presets)", cfg.Command, len(cfg.Steps), len(cfg.Presets))), nil
}

// HandleSchema implements the wand/schema MCP tool.
func HandleSchema(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, err := schema.GenerateJSONSchema()
	if err != nil {
		return errorResult(err.Error()), nil
	}
	return textResult(string(data)), nil
}

// HandleAssemble implements the wand/assemble MCP tool. It drives the
// engine non-interactively: every visible step must have an answer in
// the answers map; placeholder tokens are substituted from the values
// map and otherwise left in place.
func HandleAssemble(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	name, _ := args["name"].(string)
	if name == "" {
		return errorResult("name argument is required"), nil
	}
	answers, _ := args["answers"].(map[string]interface{})
	if answers == nil {
		answers = map[string]interface{}{}
	}

	ld := loader.New(nil)
	cfg, err := ld.LoadName(name)
	if err != nil {
		return errorResult(err.Error()), nil
	}

	command, err := wizard.Assemble(cfg, ld.LoadName, answers)
	if err != nil {
		return errorResult(err.Error()), nil
	}

	if values, ok := args["values"].(map[string]interface{}); ok {
		for _, token := range placeholder.Tokens(command) {
			if v, ok := values[token]; ok {
				command = strings.ReplaceAll(command, token, fmt.Sprint(v))
			}
		}
	}

	return textResult(command), nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}

func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(msg),
		},
		IsError: true,
	}
}

func formatErrors(errs []*schema.ValidationError) string {
	var b strings.Builder
	for _, e := range errs {
		fmt.Fprintf(&b, "%s\n", e)
	}
	return strings.TrimRight(b.String(), "\n")
}
