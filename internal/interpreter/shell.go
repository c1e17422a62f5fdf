package interpreter

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/rotisserie/eris"
)

// DefaultShell is started when Options.Shell is empty.
const DefaultShell = "/bin/sh"

// ShellInterpreter feeds the generated script to an external shell through
// its standard input, one process per package.
type ShellInterpreter struct {
	opts Options
}

// NewShell returns a ShellInterpreter.
func NewShell(opts Options) *ShellInterpreter {
	if opts.Shell == "" {
		opts.Shell = DefaultShell
	}
	return &ShellInterpreter{opts: opts}
}

// Run starts the shell, writes the script to its stdin, closes the pipe and
// waits for the process to exit.
func (s *ShellInterpreter) Run(ctx context.Context, req *Request) (*Result, error) {
	cmd := exec.CommandContext(ctx, s.opts.Shell)
	cmd.Dir = s.opts.Dir
	cmd.Env = s.opts.environ()
	cmd.Stdout = s.opts.stdout()
	cmd.Stderr = s.opts.stderr()

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, eris.Wrap(err, "failed to open shell input")
	}

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return nil, eris.Wrapf(err, "failed to start %s", s.opts.Shell)
	}

	// A shell that exits early closes its end of the pipe; the exit status
	// from Wait is what counts then.
	_, writeErr := io.WriteString(stdin, Script(req, s.opts.ScriptPath))
	closeErr := stdin.Close()

	err = cmd.Wait()
	result := &Result{Duration: time.Since(start)}

	var exitErr *exec.ExitError
	switch {
	case errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
		if result.ExitCode < 0 {
			// killed by a signal
			result.ExitCode = 128
		}
		return result, nil
	case err != nil:
		return nil, eris.Wrapf(err, "failed to run %s", s.opts.Shell)
	case writeErr != nil:
		return nil, eris.Wrap(writeErr, "failed to write script to shell")
	case closeErr != nil && !errors.Is(closeErr, os.ErrClosed):
		return nil, eris.Wrap(closeErr, "failed to close shell input")
	}
	return result, nil
}
