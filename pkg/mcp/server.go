// Package mcp exposes the wizard engine to AI agents over the Model
// Context Protocol: listing and validating configs, exporting the config
// schema, and assembling commands from prepared answer maps.
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewServer creates a new MCP server with wand tools registered.
func NewServer(version string) *server.MCPServer {
	s := server.NewMCPServer(
		"wand",
		version,
		server.WithToolCapabilities(true),
	)

	s.AddTool(
		mcp.NewTool("wand/list",
			mcp.WithDescription("List every wizard config discoverable from the current directory"),
		),
		HandleList,
	)

	s.AddTool(
		mcp.NewTool("wand/validate",
			mcp.WithDescription("Validate a wand wizard config file (JSON or YAML)"),
			mcp.WithString("path", mcp.Required(), mcp.Description("Path to the config file")),
		),
		HandleValidate,
	)

	s.AddTool(
		mcp.NewTool("wand/schema",
			mcp.WithDescription("Export the JSON Schema for wand wizard configs"),
		),
		HandleSchema,
	)

	s.AddTool(
		mcp.NewTool("wand/assemble",
			mcp.WithDescription("Assemble a command line from a config and an answers map, following chains"),
			mcp.WithString("name", mcp.Required(), mcp.Description("Config name, e.g. 'git-commit' for 'git commit'")),
			mcp.WithObject("answers", mcp.Required(), mcp.Description("Step id → answer: option label, boolean, text, or list of labels")),
			mcp.WithObject("values", mcp.Description("Placeholder token (e.g. '<image>') → substitution value")),
		),
		HandleAssemble,
	)

	return s
}
