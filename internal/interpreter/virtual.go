package interpreter

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// VirtualInterpreter runs the generated script in-process with mvdan/sh.
// External commands are still executed from PATH; only the shell itself is
// built in.
type VirtualInterpreter struct {
	opts Options
}

// NewVirtual returns a VirtualInterpreter.
func NewVirtual(opts Options) *VirtualInterpreter {
	return &VirtualInterpreter{opts: opts}
}

// Run parses and executes the script for req.
func (v *VirtualInterpreter) Run(ctx context.Context, req *Request) (*Result, error) {
	prog, err := syntax.NewParser().Parse(strings.NewReader(Script(req, v.opts.ScriptPath)), req.Package)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to parse script for %s", req.Package)
	}

	opts := []interp.RunnerOption{
		interp.Env(expand.ListEnviron(v.opts.environ()...)),
		interp.StdIO(nil, v.opts.stdout(), v.opts.stderr()),
	}
	if v.opts.Dir != "" {
		opts = append(opts, interp.Dir(v.opts.Dir))
	}

	runner, err := interp.New(opts...)
	if err != nil {
		return nil, eris.Wrap(err, "failed to initialize runner")
	}

	start := time.Now()
	err = runner.Run(ctx, prog)
	result := &Result{Duration: time.Since(start)}
	if err != nil {
		if exitStatus, ok := interp.IsExitStatus(err); ok {
			result.ExitCode = int(exitStatus)
			return result, nil
		}
		return nil, eris.Wrapf(err, "script for %s failed", req.Package)
	}
	return result, nil
}

// CheckSyntax parses the script that req would produce without running it.
func CheckSyntax(req *Request, scriptPath string) error {
	_, err := syntax.NewParser().Parse(strings.NewReader(Script(req, scriptPath)), req.Package)
	if err != nil {
		return eris.Wrap(err, "syntax error")
	}
	return nil
}
