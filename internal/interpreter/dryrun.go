package interpreter

import (
	"context"
	"io"

	"github.com/rotisserie/eris"
)

// DryRun prints the script each package would receive instead of running it.
type DryRun struct {
	Out        io.Writer
	ScriptPath string
}

// Run writes the script for req to Out.
func (d *DryRun) Run(_ context.Context, req *Request) (*Result, error) {
	if _, err := io.WriteString(d.Out, Script(req, d.ScriptPath)); err != nil {
		return nil, eris.Wrap(err, "failed to print script")
	}
	return &Result{}, nil
}
