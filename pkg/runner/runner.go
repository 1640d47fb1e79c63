// Package runner executes configured placeholder-fetch commands. The
// single narrow Executor interface exists so the wizard can be driven by
// a deterministic fake in tests.
package runner

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"time"

	"go.uber.org/zap"
)

// DefaultTimeout bounds a fetch command. A timed-out fetch is resolver
// failure, never a fatal wizard error.
const DefaultTimeout = 5 * time.Second

// Result holds the output of a single command execution.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
	Duration time.Duration
}

// Executor runs one shell command line and captures its output.
type Executor interface {
	Run(ctx context.Context, commandLine string) (*Result, error)
}

// ShellExecutor runs command lines through the system shell with timeout
// support (sh -c on POSIX, cmd.exe /C on Windows).
type ShellExecutor struct {
	Timeout time.Duration
	Log     *zap.Logger
}

// NewShellExecutor creates a ShellExecutor with the default timeout.
func NewShellExecutor(log *zap.Logger) *ShellExecutor {
	if log == nil {
		log = zap.NewNop()
	}
	return &ShellExecutor{Timeout: DefaultTimeout, Log: log}
}

// Run executes commandLine and returns its captured output. A non-zero
// exit is reported in Result.ExitCode, not as an error; errors mean the
// command could not be run at all.
func (s *ShellExecutor) Run(ctx context.Context, commandLine string) (*Result, error) {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.CommandContext(ctx, "cmd.exe", "/C", commandLine)
	} else {
		cmd = exec.CommandContext(ctx, "sh", "-c", commandLine)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	duration := time.Since(start)

	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			s.Log.Debug("fetch command failed to run",
				zap.String("command", commandLine), zap.Error(err))
			return nil, fmt.Errorf("run command %q: %w", commandLine, err)
		}
	}

	s.Log.Debug("fetch command finished",
		zap.String("command", commandLine),
		zap.Int("exit", exitCode),
		zap.Duration("duration", duration))

	return &Result{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		ExitCode: exitCode,
		Duration: duration,
	}, nil
}
