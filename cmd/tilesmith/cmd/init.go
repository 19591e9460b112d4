package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/f3rmion/tilesmith/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize tilesmith configuration",
	Long: `Initialize tilesmith configuration files in your config directory.

This creates:
  - tileset.yaml   (an example tileset using every group kind)
  - map.yaml       (a small map drawn with that tileset)
  - settings.yaml  (store, preview and server settings)

Then try:
  tilesmith check ~/.config/tilesmith/tileset.yaml`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().Bool("force", false, "overwrite existing configuration")
}

func runInit(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")
	configDir := getConfigDir()

	if err := config.EnsureConfigDir(configDir); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	fmt.Printf("Initializing tilesmith configuration in %s\n\n", configDir)

	files := []struct {
		name    string
		content string
	}{
		{"tileset.yaml", tilesetTemplate},
		{"map.yaml", mapTemplate},
		{"settings.yaml", settingsTemplate},
	}
	for _, f := range files {
		path := filepath.Join(configDir, f.name)
		if _, err := os.Stat(path); err == nil && !force {
			fmt.Printf("  Skipped %s (exists, use --force to overwrite)\n", f.name)
			continue
		}
		if err := os.WriteFile(path, []byte(f.content), 0644); err != nil {
			return fmt.Errorf("writing %s: %w", f.name, err)
		}
		fmt.Printf("  Created %s\n", f.name)
	}

	tileset := filepath.Join(configDir, "tileset.yaml")
	mapFile := filepath.Join(configDir, "map.yaml")
	fmt.Println()
	fmt.Println("Configuration initialized!")
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Printf("  1. Run 'tilesmith check %s' to validate the tileset\n", tileset)
	fmt.Printf("  2. Run 'tilesmith preview %s %s' to draw the map\n", tileset, mapFile)
	fmt.Printf("  3. Run 'tilesmith view %s %s --watch' and edit the files\n", tileset, mapFile)

	return nil
}

const tilesetTemplate = `# tilesmith example tileset
#
# Tiles are addressed as group/tile. Connected groups expose
# group/visible and group/invisible.

name: meadow

patterns:
  - name: brick
    width: 2
    height: 2
    patterns:
      - name: red
        rows:
          - [brick_tl, brick_tr]
          - [brick_bl, brick_br]

templates:
  connected:
    # One neighbour mask per output, row by row.
    - name: strip
      width: 4
      height: 1
      cells:
        - []
        - [right]
        - [left, right]
        - [left]
  rule:
    # Interior cells become rules; their neighbours become the rule slots.
    - name: ledge
      width: 5
      height: 3
      types: 1
      colors: ["#8d6e63"]
      rows:
        - [none, none, none, none, none]
        - [none, 0, 0, 0, none]
        - [none, none, none, none, none]

groups:
  - name: props
    kind: simple
    tiles:
      - name: bush
        collider: sprite
        output: bush
      - name: flower
        output:
          randomized:
            sprites: [flower_red, flower_blue, flower_white]
            weights: [2, 1, 1]
      - name: wall
        collider: grid
        output:
          pattern: {name: brick/red}

  - name: water
    kind: simple
    tiles:
      - name: still
    outputs:
      - animated: {frames: [water_0, water_1, water_2], min_speed: 2, max_speed: 3, random_offset: 0.5}

  - name: grass
    kind: connected
    rules:
      - output: grass
        mask: [top, right, bottom, left]
      - output: grass_top
        mask: [right, bottom, left]
      - output: grass_lone
        mask: []

  - name: fence
    kind: connected
    collider: grid
    template: strip
    outputs: [post, fence_left, fence_middle, fence_right]

  - name: cliff
    kind: rule
    template: ledge
    tiles:
      - name: rock
        collider: grid
    outputs: [cliff_left, cliff_middle, cliff_right]
`

const mapTemplate = `# tilesmith example map
#
# Rows are listed top first; the bottom row is y = 0.
# Space and '.' are empty cells.

name: meadow
salt: 1
legend:
  g: grass/visible
  w: water/still
  f: props/flower
  b: props/bush
  "#": props/wall
  "=": fence/visible
  r: cliff/rock
rows:
  - "..rrr....."
  - ".........."
  - "gggggg.ww."
  - "gfgbgg.ww."
  - "=====....."
  - "##...f..b."
`

const settingsTemplate = `# tilesmith settings
# Every key can also be set with a TILESMITH_ environment variable,
# e.g. TILESMITH_STORE=redis.

# Map store: sqlite or redis
store: sqlite
# sqlite_path: ~/.config/tilesmith/maps.db
redis_addr: localhost:6379
redis_prefix: "tilemap:"

# Default salt for maps without one
salt: 0

# Terminal preview and viewer
cell_width: 6
fps: 8

# SSH server
ssh_addr: ":2323"
# host_key: ~/.config/tilesmith/host_key
`
