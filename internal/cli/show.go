package cli

import (
	"fmt"

	"github.com/minipkg/minipkg/internal/dispatch"
	"github.com/minipkg/minipkg/internal/interpreter"
	"github.com/minipkg/minipkg/internal/manifest"
	"github.com/spf13/cobra"
)

var showOperation string

var showCmd = &cobra.Command{
	Use:   "show <package>...",
	Short: "Print the script each listed package would receive",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		op, err := dispatch.ParseOperation(showOperation)
		if err != nil {
			return err
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		m, err := manifest.ParseFile(cfg.ManifestPath())
		if err != nil {
			return err
		}

		for _, name := range args {
			e := m.Lookup(name)
			if e == nil {
				return fmt.Errorf("package %s not found in manifest", name)
			}
			req := &interpreter.Request{Package: e.Name, Operation: string(op), Directives: e.Directives}
			fmt.Fprint(cmd.OutOrStdout(), interpreter.Script(req, cfg.Script))
		}
		return nil
	},
}

func init() {
	showCmd.Flags().StringVar(&showOperation, "operation", string(dispatch.OperationBuild), "Operation to render: build or install")
	rootCmd.AddCommand(showCmd)
}
