package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/minipkg/minipkg/internal/config"
	"github.com/minipkg/minipkg/internal/dispatch"
	"github.com/minipkg/minipkg/internal/interpreter"
	"github.com/minipkg/minipkg/internal/manifest"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var operateDryRun bool

// newOperationCommand builds the build/install command for op.
func newOperationCommand(op dispatch.Operation, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   string(op) + " [package...]",
		Short: short,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOperation(cmd, op, args)
		},
	}
	cmd.Flags().BoolVarP(&operateDryRun, "dry-run", "n", false, "Print the scripts instead of running them")
	return cmd
}

func init() {
	rootCmd.AddCommand(newOperationCommand(dispatch.OperationBuild,
		"Build each package listed, or build every package if none listed"))
	rootCmd.AddCommand(newOperationCommand(dispatch.OperationInstall,
		"Install each package listed, or install every package if none listed"))
}

func runOperation(cmd *cobra.Command, op dispatch.Operation, names []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	f, err := manifest.Open(cfg.ManifestPath())
	if err != nil {
		return eris.Wrap(err, "cannot read package manifest")
	}
	defer f.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	d := &dispatch.Dispatcher{
		Interpreter: newInterpreter(cmd, cfg),
		Logger:      newLogger(cmd),
		Policy:      cfg.FailurePolicy(),
	}
	d.Logger.Debug().
		Str("manifest", cfg.ManifestPath()).
		Str("target", cfg.Target).
		Str("interpreter", cfg.Interpreter).
		Msg("Resolved configuration")

	src := manifest.NewScanner(f)
	if len(names) == 0 {
		_, err = d.RunAll(ctx, src, op)
	} else {
		_, err = d.RunNamed(ctx, src, op, names)
	}
	return err
}

func newInterpreter(cmd *cobra.Command, cfg *config.Config) interpreter.Interpreter {
	if operateDryRun {
		return &interpreter.DryRun{Out: cmd.OutOrStdout(), ScriptPath: cfg.Script}
	}

	opts := cfg.InterpreterOptions()
	opts.Stdout = cmd.OutOrStdout()
	opts.Stderr = cmd.ErrOrStderr()
	return interpreter.Dispatch(cfg.Interpreter, opts)
}
