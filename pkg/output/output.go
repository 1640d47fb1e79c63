// Package output hands one finished command string to its sink: stdout,
// the system clipboard, or a shell that executes it.
package output

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"

	"github.com/atotto/clipboard"
)

// Mode selects what happens to the finished command.
type Mode string

const (
	ModePrint   Mode = "print"
	ModeCopy    Mode = "copy"
	ModeExecute Mode = "exec"
)

// ParseMode converts a mode name to a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModePrint, ModeCopy, ModeExecute:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown output mode %q (expected print, copy, or exec)", s)
}

// Sink delivers finished command strings.
type Sink struct {
	Stdout io.Writer // command text (print mode)
	Stderr io.Writer // status messages
}

// NewSink creates a sink writing to the process stdout/stderr.
func NewSink() *Sink {
	return &Sink{Stdout: os.Stdout, Stderr: os.Stderr}
}

// Handle delivers the command per mode. Execute runs it through the
// system shell with the process's own stdio attached.
func (s *Sink) Handle(command string, mode Mode) error {
	switch mode {
	case ModePrint:
		fmt.Fprintln(s.Stdout, command)
		return nil

	case ModeCopy:
		if err := clipboard.WriteAll(command); err != nil {
			return fmt.Errorf("copy to clipboard: %w", err)
		}
		fmt.Fprintln(s.Stderr, "Command copied to clipboard")
		return nil

	case ModeExecute:
		var cmd *exec.Cmd
		if runtime.GOOS == "windows" {
			cmd = exec.Command("cmd.exe", "/C", command)
		} else {
			cmd = exec.Command("sh", "-c", command)
		}
		cmd.Stdin = os.Stdin
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err != nil {
			return fmt.Errorf("run %q: %w", command, err)
		}
		return nil
	}
	return fmt.Errorf("unknown output mode %q", mode)
}
