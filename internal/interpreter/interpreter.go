package interpreter

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// Interpreter runs the generated script for one package.
type Interpreter interface {
	// Run executes the script for req. A non-nil error means the interpreter
	// could not run at all; a script that ran and failed is reported through
	// Result.ExitCode.
	Run(ctx context.Context, req *Request) (*Result, error)
}

// Request describes one package operation.
type Request struct {
	Package    string
	Operation  string
	Directives []string
}

// Result captures the outcome of a script execution.
type Result struct {
	ExitCode int
	Duration time.Duration
}

// Failed reports whether the script exited with a non-zero status.
func (r *Result) Failed() bool {
	return r.ExitCode != 0
}

// Supported interpreter identifiers.
const (
	InterpreterShell   = "shell"
	InterpreterVirtual = "virtual"
)

// Names lists the identifiers accepted by Dispatch.
var Names = []string{InterpreterShell, InterpreterVirtual}

// Options holds the settings shared by every implementation.
type Options struct {
	// Shell is the program started by the shell interpreter.
	Shell string
	// ScriptPath is sourced at the top of every generated script.
	ScriptPath string
	// Env is appended to the inherited process environment.
	Env []string
	// Dir is the working directory; empty means the current one.
	Dir string
	// Stdout and Stderr default to os.Stdout/os.Stderr.
	Stdout io.Writer
	Stderr io.Writer
}

func (o Options) stdout() io.Writer {
	if o.Stdout == nil {
		return os.Stdout
	}
	return o.Stdout
}

func (o Options) stderr() io.Writer {
	if o.Stderr == nil {
		return os.Stderr
	}
	return o.Stderr
}

func (o Options) environ() []string {
	return append(os.Environ(), o.Env...)
}

// Script renders the text fed to the interpreter: the shared script is
// sourced, PACKAGE is bound to the package name, the directives follow in
// order and the last line calls <operation>_package.
func Script(req *Request, scriptPath string) string {
	var b strings.Builder
	b.WriteString(". ")
	b.WriteString(scriptPath)
	b.WriteString("\n")
	b.WriteString(`PACKAGE="`)
	b.WriteString(req.Package)
	b.WriteString("\"\n")
	for _, line := range req.Directives {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString(req.Operation)
	b.WriteString("_package\n")
	return b.String()
}

// Dispatch returns the Interpreter implementation for the given identifier.
// Unknown identifiers yield an interpreter whose Run always fails.
func Dispatch(name string, opts Options) Interpreter {
	switch name {
	case InterpreterShell, "":
		return NewShell(opts)
	case InterpreterVirtual:
		return NewVirtual(opts)
	default:
		return &unknownInterpreter{name: name}
	}
}

// unknownInterpreter is returned when the identifier is not recognized.
type unknownInterpreter struct {
	name string
}

func (u *unknownInterpreter) Run(context.Context, *Request) (*Result, error) {
	return nil, eris.Errorf("unknown interpreter %q: supported interpreters are %q and %q", u.name, InterpreterShell, InterpreterVirtual)
}
