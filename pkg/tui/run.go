package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/wandcli/wand/pkg/loader"
	"github.com/wandcli/wand/pkg/output"
	"github.com/wandcli/wand/pkg/runner"
	"github.com/wandcli/wand/pkg/schema"
)

// Run launches the full-screen wizard and blocks until it finishes.
func Run(cfg *schema.Config, ld *loader.Loader, exec runner.Executor, defaultMode output.Mode, log *zap.Logger) (Result, error) {
	p := tea.NewProgram(New(cfg, ld, exec, defaultMode, log), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return Result{}, fmt.Errorf("run wizard: %w", err)
	}
	model, ok := final.(Model)
	if !ok {
		return Result{}, fmt.Errorf("unexpected final model type %T", final)
	}
	return model.Result(), nil
}
