package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/f3rmion/tilesmith/internal/config"
	"github.com/f3rmion/tilesmith/internal/errors"
	"github.com/f3rmion/tilesmith/internal/render"
	"github.com/f3rmion/tilesmith/internal/tiles"
)

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Inspect the templates of a tileset",
	Long:  `Commands for looking at the connected and rule templates groups are generated from.`,
}

var templateShowCmd = &cobra.Command{
	Use:   "show <tileset.yaml> <name>",
	Short: "Draw a template",
	Long: `Draw a template of a tileset.

Rule templates are drawn cell by cell in their type colours, with "*" for
any and "." for none. Connected templates are drawn as one 3x3 glyph per
cell showing which neighbours connect.

Example:
  tilesmith template show tileset.yaml cliff`,
	Args: cobra.ExactArgs(2),
	RunE: runTemplateShow,
}

var templateReindexCmd = &cobra.Command{
	Use:   "reindex <tileset.yaml> <name>",
	Short: "Show which output each rule template cell takes",
	Long: `Number the cells of a rule template in the order they take outputs and
list their positions. A group using the template needs at least as many
outputs as there are numbered cells.

Example:
  tilesmith template reindex tileset.yaml cliff`,
	Args: cobra.ExactArgs(2),
	RunE: runTemplateReindex,
}

func init() {
	rootCmd.AddCommand(templateCmd)
	templateCmd.AddCommand(templateShowCmd)
	templateCmd.AddCommand(templateReindexCmd)
}

func runTemplateShow(cmd *cobra.Command, args []string) error {
	doc, err := config.LoadTileset(args[0])
	if err != nil {
		return err
	}
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	if rt, err := doc.RuleTemplate(args[1]); err == nil {
		w, h := rt.Size()
		fmt.Printf("Rule template %s (%dx%d, %d types)\n\n", rt.Name(), w, h, rt.Count())
		fmt.Println(render.RuleTemplate(rt, min(settings.CellWidth, 3)))
		fmt.Println()
		for i := 0; i < rt.Count(); i++ {
			state := "generated"
			if !rt.Generate(i) {
				state = "skipped"
			}
			fmt.Printf("  type %d: %s %s\n", i, render.TypeColor(rt, i).Hex(), state)
		}
		fmt.Printf("\n%d outputs needed\n", rt.RuleSetsCount())
		return nil
	} else if !errors.IsNotFound(err) {
		return err
	}

	ct, err := doc.ConnectedTemplate(args[1])
	if err != nil {
		if errors.IsNotFound(err) {
			return fmt.Errorf("no template named %q in %s", args[1], args[0])
		}
		return err
	}

	w, h := ct.Size()
	fmt.Printf("Connected template %s (%dx%d)\n\n", ct.Name(), w, h)
	fmt.Println(render.ConnectedTemplate(ct))
	fmt.Println()
	for i, mask := range ct.Masks() {
		fmt.Printf("  output %d: %s\n", i, maskLabel(mask))
	}
	return nil
}

func maskLabel(c tiles.Configuration) string {
	if c == 0 {
		return "alone"
	}
	return c.String()
}

func runTemplateReindex(cmd *cobra.Command, args []string) error {
	doc, err := config.LoadTileset(args[0])
	if err != nil {
		return err
	}
	rt, err := doc.RuleTemplate(args[1])
	if err != nil {
		return err
	}

	fmt.Printf("Rule template %s\n\n", rt.Name())
	fmt.Println(render.TemplateIndices(rt, 4))
	fmt.Println()

	for i, p := range rt.Positions() {
		fmt.Printf("  output %-3d cell %d,%d  type %d\n", i, p.X, p.Y, rt.Element(p.X, p.Y))
	}

	cells := rt.RuleCells()
	fmt.Printf("\n%d outputs needed, %d rules generated from interior cells\n", rt.RuleSetsCount(), len(cells))
	return nil
}
