package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/minipkg/minipkg/internal/manifest"
	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"
)

var listFormat string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the packages in the manifest",
	Long:  `List every package in $PACKAGE_DIRECTORY/PACKAGES in file order.`,
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVarP(&listFormat, "format", "o", "text", "Output format: text, yaml or json")
	rootCmd.AddCommand(listCmd)
}

// listEntry represents a manifest entry for display.
type listEntry struct {
	Name       string `json:"name" yaml:"name"`
	Line       int    `json:"line" yaml:"line"`
	Directives int    `json:"directives" yaml:"directives"`
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	m, err := manifest.ParseFile(cfg.ManifestPath())
	if err != nil {
		return err
	}

	entries := make([]listEntry, 0, len(m.Entries))
	for _, e := range m.Entries {
		entries = append(entries, listEntry{Name: e.Name, Line: e.Line, Directives: len(e.Directives)})
	}

	out := cmd.OutOrStdout()
	switch listFormat {
	case "json":
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintln(out, string(data))
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(entries); err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
		return enc.Close()
	case "text":
		if len(entries) == 0 {
			fmt.Fprintln(out, "No packages in manifest.")
			return nil
		}
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tLINE\tDIRECTIVES")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%d\t%d\n", e.Name, e.Line, e.Directives)
		}
		return w.Flush()
	default:
		return fmt.Errorf("unknown format %q: expected text, yaml or json", listFormat)
	}
	return nil
}
