package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check <tileset.yaml>",
	Short: "Validate a tileset",
	Long: `Load and build a tileset, then print its groups and tiles.

Build problems that do not stop the tileset from working, such as a
randomized pattern mixing pattern sizes, are printed as warnings.

Example:
  tilesmith check tileset.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	_, ts, warnings, err := loadTileset(args[0])
	if err != nil {
		return err
	}

	groups := ts.Groups()
	fmt.Printf("Tileset: %s\n", ts.Name())
	fmt.Printf("  %d groups, %d tiles, %d pattern groups\n\n", len(groups), ts.Len(), len(ts.PatternGroups()))

	for _, g := range groups {
		names := make([]string, len(g.Tiles))
		for i, id := range g.Tiles {
			names[i] = ts.Key(id)[len(g.Name)+1:]
		}
		fmt.Printf("  %-12s %-10s %s\n", g.Name, g.Kind, strings.Join(names, ", "))
	}

	for _, pg := range ts.PatternGroups() {
		w, h := pg.Size()
		names := make([]string, 0, len(pg.Patterns()))
		for _, p := range pg.Patterns() {
			names = append(names, p.Name())
		}
		fmt.Printf("  %-12s %-10s %s\n", pg.Name(), fmt.Sprintf("%dx%d", w, h), strings.Join(names, ", "))
	}

	if len(warnings) > 0 {
		fmt.Println()
		for _, w := range warnings {
			fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
		}
	}

	fmt.Println()
	fmt.Println("OK")
	return nil
}
