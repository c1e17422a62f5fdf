package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/minipkg/minipkg/internal/branding"
	"github.com/minipkg/minipkg/internal/config"
	"github.com/minipkg/minipkg/internal/logging"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var (
	rootConfigFile string
	rootNoColor    bool
	rootVerbose    bool
)

// UsageError is returned for a missing or unrecognized command.
type UsageError struct {
	Message string
}

func (e *UsageError) Error() string { return e.Message }

var rootCmd = &cobra.Command{
	Use:   branding.CLIName() + " <command> [package...]",
	Short: branding.Description(),
	Long: branding.DisplayName() + ` reads the PACKAGES manifest in $PACKAGE_DIRECTORY and runs each
package's directives through package/package.sh to build or install it.`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return &UsageError{Message: "No command!"}
		}
		return &UsageError{Message: fmt.Sprintf("Unknown command: %s", args[0])}
	},
}

// commandSummary is printed by `help`, one log line per entry.
var commandSummary = []string{
	"Commands:",
	"",
	"help               Show this help.",
	"build package...   Build each package listed, or build every package if none listed.",
	"install package... Install each package listed, or install every package if none listed.",
	"list               List the packages in the manifest.",
	"show package...    Print the script each listed package would receive.",
	"check              Validate the manifest.",
	"config             Print the effective configuration.",
	"version            Print version information.",
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&rootConfigFile, "config", "", "Config file (default $PACKAGE_DIRECTORY/package.yaml)")
	flags.BoolVar(&rootNoColor, "no-color", false, "Disable coloured output")
	flags.BoolVarP(&rootVerbose, "verbose", "v", false, "Log debug details")
	flags.String("directory", "", "Package directory holding PACKAGES (overrides $PACKAGE_DIRECTORY)")
	flags.String("target", "", "Target machine exported to scripts (overrides $TARGET)")
	flags.String("root", "", "Install root exported to scripts (overrides $ROOT)")
	flags.String("interpreter", "", "Script interpreter: shell or virtual")
	flags.String("shell", "", "Shell started by the shell interpreter")
	flags.String("script", "", "Package-logic script sourced before the directives")
	flags.String("on-failure", "", "What to do when a package fails: ignore, warn or abort")

	defaultHelp := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if cmd != rootCmd {
			defaultHelp(cmd, args)
			return
		}
		logger := newLogger(cmd)
		for _, line := range commandSummary {
			logger.Info().Msg(line)
		}
	})
}

// flagKeys maps persistent flags onto config keys.
var flagKeys = map[string]string{
	"directory":   config.KeyDirectory,
	"target":      config.KeyTarget,
	"root":        config.KeyRoot,
	"interpreter": config.KeyInterpreter,
	"shell":       config.KeyShell,
	"script":      config.KeyScript,
	"on-failure":  config.KeyOnFailure,
}

// loadConfig resolves the configuration for one command invocation.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	v := viper.New()
	for name, key := range flagKeys {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
			return nil, fmt.Errorf("binding flag --%s: %w", name, err)
		}
	}
	return config.Load(v, rootConfigFile)
}

func newLogger(cmd *cobra.Command) zerolog.Logger {
	return logging.New(cmd.OutOrStdout(), rootNoColor || logging.NoColorRequested(), rootVerbose)
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	return execute(os.Args[1:], os.Stdout, os.Stderr)
}

func execute(args []string, stdout, stderr io.Writer) error {
	// cobra falls back to os.Args for a nil slice
	if args == nil {
		args = []string{}
	}
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	cmd, err := rootCmd.ExecuteC()
	if err != nil {
		reportError(newLogger(cmd), err)
	}
	return err
}

func reportError(logger zerolog.Logger, err error) {
	var usageErr *UsageError
	if errors.As(err, &usageErr) {
		logger.Error().Msg(usageErr.Message)
		return
	}
	if rootVerbose {
		logger.Error().Msg(eris.ToString(err, true))
		return
	}
	logger.Error().Msg(err.Error())
}
