package cli

import (
	"fmt"

	"github.com/minipkg/minipkg/internal/interpreter"
	"github.com/minipkg/minipkg/internal/manifest"
	"github.com/spf13/cobra"
)

var checkSyntax bool

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the manifest",
	Long: `Check the PACKAGES manifest for framing problems (missing blank separators,
stray or badly indented lines), invalid or duplicate package names, and with
--syntax, shell syntax errors in each package's directives.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&checkSyntax, "syntax", false, "Also parse every package's directives as shell")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	m, err := manifest.ParseFile(cfg.ManifestPath())
	if err != nil {
		return err
	}
	result, err := manifest.Validate(m)
	if err != nil {
		return err
	}

	issues := result.Issues
	if checkSyntax {
		for _, e := range m.Entries {
			req := &interpreter.Request{Package: e.Name, Operation: "build", Directives: e.Directives}
			if err := interpreter.CheckSyntax(req, cfg.Script); err != nil {
				issues = append(issues, manifest.ValidationIssue{
					Line:    e.Line,
					Package: e.Name,
					Message: err.Error(),
					Keyword: "syntax",
				})
			}
		}
	}

	logger := newLogger(cmd)
	if len(issues) == 0 {
		logger.Info().Msgf("%s: %d packages, no issues", m.Path, len(m.Entries))
		return nil
	}
	for _, issue := range issues {
		logger.Warn().Msg(issue.String())
	}
	result.Issues = issues
	return fmt.Errorf("%s: %s", m.Path, result.Summary())
}
