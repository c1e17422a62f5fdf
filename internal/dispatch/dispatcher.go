package dispatch

import (
	"context"
	"io"
	"strings"

	"github.com/minipkg/minipkg/internal/interpreter"
	"github.com/minipkg/minipkg/internal/manifest"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// ErrAborted is returned when the abort policy stops a run.
var ErrAborted = eris.New("aborted after a failed package")

// Source yields manifest entries in file order; *manifest.Scanner is the
// usual implementation.
type Source interface {
	Next() (*manifest.Entry, error)
}

// Dispatcher runs packages from a manifest through an interpreter.
type Dispatcher struct {
	Interpreter interpreter.Interpreter
	Logger      zerolog.Logger
	Policy      FailurePolicy
}

// Summary reports what a run did.
type Summary struct {
	Processed []string
	Failed    []string
	// Missing holds requested names that never appeared in the manifest.
	Missing []string
}

// RunAll processes every entry of src in order.
func (d *Dispatcher) RunAll(ctx context.Context, src Source, op Operation) (*Summary, error) {
	summary := &Summary{}
	verb := op.Progressive()

	d.Logger.Info().Msgf("%s all packages...", verb)
	err := d.each(ctx, src, func(entry *manifest.Entry) error {
		return d.process(ctx, entry, op, summary)
	})
	if err != nil {
		return summary, err
	}
	d.Logger.Info().Msgf("Done %s all packages!", strings.ToLower(verb))

	return summary, nil
}

// RunNamed processes only the entries whose name is in names. Every other
// entry is read past without starting an interpreter.
func (d *Dispatcher) RunNamed(ctx context.Context, src Source, op Operation, names []string) (*Summary, error) {
	summary := &Summary{}

	selected := make(map[string]bool, len(names))
	for _, name := range names {
		selected[name] = false
	}

	err := d.each(ctx, src, func(entry *manifest.Entry) error {
		if _, ok := selected[entry.Name]; !ok {
			d.Logger.Debug().Str("package", entry.Name).Int("line", entry.Line).Msg("Skipping unselected package")
			return nil
		}
		selected[entry.Name] = true
		return d.process(ctx, entry, op, summary)
	})
	if err != nil {
		return summary, err
	}

	for _, name := range names {
		if found, pending := selected[name]; pending && !found {
			d.Logger.Warn().Msgf("Package %s not found in manifest", name)
			summary.Missing = append(summary.Missing, name)
			// report each missing name once
			delete(selected, name)
		}
	}

	return summary, nil
}

func (d *Dispatcher) each(ctx context.Context, src Source, fn func(*manifest.Entry) error) error {
	defer d.logIssues(src)

	for {
		if err := ctx.Err(); err != nil {
			return eris.Wrap(err, "interrupted")
		}

		entry, err := src.Next()
		if eris.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return eris.Wrap(err, "failed to read manifest")
		}

		if err := fn(entry); err != nil {
			return err
		}
	}
}

func (d *Dispatcher) process(ctx context.Context, entry *manifest.Entry, op Operation, summary *Summary) error {
	d.Logger.Info().Msgf("Operating on %s...", entry.Name)

	result, err := d.Interpreter.Run(ctx, &interpreter.Request{
		Package:    entry.Name,
		Operation:  string(op),
		Directives: entry.Directives,
	})
	if ctxErr := ctx.Err(); ctxErr != nil {
		return eris.Wrapf(ctxErr, "interrupted while operating on %s", entry.Name)
	}

	summary.Processed = append(summary.Processed, entry.Name)
	if err != nil || result.Failed() {
		summary.Failed = append(summary.Failed, entry.Name)
		if abortErr := d.handleFailure(entry, op, result, err); abortErr != nil {
			return abortErr
		}
	} else {
		d.Logger.Debug().
			Str("package", entry.Name).
			Dur("duration", result.Duration).
			Msg("Package script succeeded")
	}

	d.Logger.Info().Msgf("Done with %s!", entry.Name)
	return nil
}

func (d *Dispatcher) handleFailure(entry *manifest.Entry, op Operation, result *interpreter.Result, runErr error) error {
	var evt *zerolog.Event
	switch d.Policy {
	case FailureIgnore:
		evt = d.Logger.Debug()
	case FailureAbort:
		evt = d.Logger.Error()
	default:
		evt = d.Logger.Warn()
	}

	evt = evt.Str("package", entry.Name).Int("line", entry.Line)
	if runErr != nil {
		evt.Err(runErr).Msgf("Failed to %s %s", op, entry.Name)
	} else {
		evt.Int("exit_code", result.ExitCode).Msgf("Failed to %s %s (exit status %d)", op, entry.Name, result.ExitCode)
	}

	if d.Policy == FailureAbort {
		return eris.Wrapf(ErrAborted, "%s failed", entry.Name)
	}
	return nil
}

type issueReporter interface {
	Issues() []manifest.Issue
}

func (d *Dispatcher) logIssues(src Source) {
	r, ok := src.(issueReporter)
	if !ok {
		return
	}
	for _, issue := range r.Issues() {
		d.Logger.Debug().
			Int("line", issue.Line).
			Str("package", issue.Package).
			Msgf("Manifest: %s", issue.Message)
	}
}
