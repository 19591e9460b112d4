package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/f3rmion/tilesmith/internal/scene"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <tileset.yaml> <map.yaml>",
	Short: "Print what every cell of a map shows",
	Long: `Resolve every placed tile of a map against its neighbours and print the
sprite, collider, matched rule and animation of each cell.

Coordinates have y = 0 on the bottom row of the map.

Examples:
  tilesmith resolve tileset.yaml map.yaml
  tilesmith resolve tileset.yaml map.yaml --x 3 --y 0
  tilesmith resolve tileset.yaml map.yaml --salt 7`,
	Args: cobra.ExactArgs(2),
	RunE: runResolve,
}

var (
	resolveX    int
	resolveY    int
	resolveAll  bool
	resolveSalt *saltFlag
)

func init() {
	rootCmd.AddCommand(resolveCmd)
	resolveCmd.Flags().IntVar(&resolveX, "x", -1, "only resolve this column")
	resolveCmd.Flags().IntVar(&resolveY, "y", -1, "only resolve this row")
	resolveCmd.Flags().BoolVarP(&resolveAll, "all", "a", false, "include empty cells")
	resolveSalt = addSaltFlag(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	sc, err := fileScene(args[0], args[1], resolveSalt, settings)(ctx)
	if err != nil {
		return err
	}
	f, err := sc.Resolve(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Map %s (%dx%d, salt %d)\n\n", sc.Name, f.Width, f.Height, sc.Salt)
	fmt.Printf("%-4s %-4s %-20s %-16s %-8s %-5s %s\n", "X", "Y", "TILE", "SPRITE", "COLLIDER", "RULE", "ANIMATION")

	for y := f.Height - 1; y >= 0; y-- {
		if resolveY >= 0 && y != resolveY {
			continue
		}
		for x := 0; x < f.Width; x++ {
			if resolveX >= 0 && x != resolveX {
				continue
			}
			c := f.At(x, y)
			if c.Key == "" && !resolveAll && resolveX < 0 {
				continue
			}
			printCell(c)
		}
	}
	return nil
}

func printCell(c scene.Cell) {
	if c.Key == "" {
		fmt.Printf("%-4d %-4d %-20s\n", c.X, c.Y, "-")
		return
	}

	sprite := string(c.Data.Sprite)
	if sprite == "" {
		sprite = "-"
	}
	rule := "-"
	if c.Rule >= 0 {
		rule = fmt.Sprint(c.Rule)
	}
	anim := "-"
	if c.Animated {
		anim = fmt.Sprintf("%d frames, %.2f fps, phase %+.2fs", len(c.Animation.Frames), c.Animation.Speed, c.Animation.Phase)
	}
	fmt.Printf("%-4d %-4d %-20s %-16s %-8s %-5s %s\n", c.X, c.Y, c.Key, sprite, c.Data.Collider, rule, anim)
}
