package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wandcli/wand/pkg/loader"
	"github.com/wandcli/wand/pkg/schema"
)

// --- validate ---

var validateCmd = &cobra.Command{
	Use:   "validate <config-file>",
	Short: "Validate a wizard config file against the schema",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	ld := loader.New(buildLogger(flagDebugLog))
	cfg, errs := schema.ValidateFile(args[0], ld.Exists)
	if len(errs) > 0 {
		fmt.Fprintf(os.Stderr, "✗ %s has %d problem(s):\n", args[0], len(errs))
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "  %s\n", e)
		}
		os.Exit(1)
	}
	fmt.Printf("✓ %s is valid (%d steps, %d presets)\n", cfg.Command, len(cfg.Steps), len(cfg.Presets))
	return nil
}

// --- schema ---

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON Schema for wizard config files",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := schema.GenerateJSONSchema()
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	},
}

// --- list ---

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List every discoverable wizard config",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ld := loader.New(buildLogger(flagDebugLog))
		entries := ld.List()
		if len(entries) == 0 {
			fmt.Println("No configs found.")
			return nil
		}
		for _, e := range entries {
			fmt.Printf("%-24s %s\n", e.Name, e.Source)
		}
		return nil
	},
}
