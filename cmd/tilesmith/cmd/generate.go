package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/f3rmion/tilesmith/internal/config"
)

var generateCmd = &cobra.Command{
	Use:   "generate <tileset.yaml>",
	Short: "Expand template groups into explicit rules",
	Long: `Expand every template-driven part of a tileset into its explicit form:

  - connected groups built from a template get one rule per output
  - rule groups built from a template get per-tile rule lists
  - simple groups with an outputs list get one output per tile
  - sliced pattern groups get explicit pattern rows

The result builds to the same tileset and no longer needs the templates
section.

Examples:
  tilesmith generate tileset.yaml
  tilesmith generate tileset.yaml -o expanded.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

var generateOutput string

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "", "Output file (stdout if not specified)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	doc, err := config.LoadTileset(args[0])
	if err != nil {
		return err
	}
	expanded, err := doc.Expand()
	if err != nil {
		return fmt.Errorf("expanding %s: %w", args[0], err)
	}

	if generateOutput != "" {
		if err := config.SaveTileset(generateOutput, expanded); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Wrote %s\n", generateOutput)
		return nil
	}

	out, err := yaml.Marshal(expanded)
	if err != nil {
		return fmt.Errorf("marshaling tileset: %w", err)
	}
	_, err = os.Stdout.Write(out)
	return err
}
