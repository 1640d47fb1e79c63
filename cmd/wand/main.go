// Package main provides the wand binary: an interactive wizard that
// turns a declarative description of a command-line tool into a concrete
// command line.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/wandcli/wand/pkg/loader"
	"github.com/wandcli/wand/pkg/output"
	"github.com/wandcli/wand/pkg/prompt"
	"github.com/wandcli/wand/pkg/runner"
	"github.com/wandcli/wand/pkg/schema"
	"github.com/wandcli/wand/pkg/tui"
)

// Version is set at build time via ldflags.
var version = "dev"

var (
	flagOutput   string
	flagPlain    bool
	flagTimeout  string
	flagDebugLog string
)

var rootCmd = &cobra.Command{
	Use:   "wand <command> [subcommand...]",
	Short: "Interactive wizard for command-line tools",
	Long: "wand walks a step-by-step wizard for a described command-line tool\n" +
		"and assembles the final command, ready to print, copy, or run.",
	Version: version,
	Args:    cobra.ArbitraryArgs,
	RunE:    runWizard,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "what Enter does on the confirm screen: print, copy, or exec")
	rootCmd.Flags().BoolVar(&flagPlain, "plain", false, "line-based prompts instead of the full-screen TUI")
	rootCmd.Flags().StringVar(&flagTimeout, "fetch-timeout", "", "timeout for placeholder fetch commands (e.g. 5s)")
	rootCmd.PersistentFlags().StringVar(&flagDebugLog, "debug-log", "", "write debug logs to this file")

	rootCmd.AddCommand(validateCmd, schemaCmd, listCmd)

	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = false
}

// settings reads viper configuration: WAND_* environment variables plus
// an optional settings.yaml in the user config dir. Flags win.
func settings() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("WAND")
	v.AutomaticEnv()
	v.SetDefault("output", string(output.ModeExecute))
	v.SetDefault("fetch_timeout", runner.DefaultTimeout.String())
	v.SetDefault("plain", false)

	if base, err := os.UserConfigDir(); err == nil {
		v.SetConfigName("settings")
		v.SetConfigType("yaml")
		v.AddConfigPath(filepath.Join(base, "wand"))
		_ = v.ReadInConfig() // missing settings file is fine
	}
	return v
}

// buildLogger returns a file-backed debug logger, or a no-op one. The
// TUI owns the terminal, so logs never go to stderr.
func buildLogger(path string) *zap.Logger {
	if path == "" {
		return zap.NewNop()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	log, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return log
}

func runWizard(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}

	v := settings()
	log := buildLogger(flagDebugLog)
	defer log.Sync()

	modeName := flagOutput
	if modeName == "" {
		modeName = v.GetString("output")
	}
	mode, err := output.ParseMode(modeName)
	if err != nil {
		return err
	}

	exec := runner.NewShellExecutor(log)
	if flagTimeout != "" {
		v.Set("fetch_timeout", flagTimeout)
	}
	if d := v.GetDuration("fetch_timeout"); d > 0 {
		exec.Timeout = d
	}

	ld := loader.New(log)
	cfg, err := ld.Resolve(args)
	if err != nil {
		var notFound *loader.NotFoundError
		if errors.As(err, &notFound) {
			fmt.Fprintln(os.Stderr, notFound.Error())
			os.Exit(1)
		}
		return err
	}

	if flagPlain || v.GetBool("plain") {
		return runPlain(cfg, ld, exec, mode, log)
	}

	result, err := tui.Run(cfg, ld, exec, mode, log)
	if err != nil {
		return err
	}
	if result.Cancelled {
		return nil
	}
	return output.NewSink().Handle(result.Command, result.Mode)
}

func runPlain(cfg *schema.Config, ld *loader.Loader, exec runner.Executor, mode output.Mode, log *zap.Logger) error {
	driver, err := prompt.NewDriver(ld, exec, log)
	if err != nil {
		return err
	}
	defer driver.Close()

	command, err := driver.Run(context.Background(), cfg)
	if err != nil {
		if errors.Is(err, prompt.ErrCancelled) {
			return nil
		}
		return err
	}
	return output.NewSink().Handle(command, mode)
}
