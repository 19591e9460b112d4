package cmd

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/f3rmion/tilesmith/internal/config"
	"github.com/f3rmion/tilesmith/internal/tilemap"
	"github.com/f3rmion/tilesmith/internal/tui"
)

var mapsCmd = &cobra.Command{
	Use:   "maps",
	Short: "Manage stored maps",
	Long: `Commands for the map store. The store is SQLite by default; set
store: redis in settings.yaml (or TILESMITH_STORE=redis) to use Redis.`,
}

var mapsImportCmd = &cobra.Command{
	Use:   "import <map.yaml>",
	Short: "Store a map file",
	Long: `Store a map file under its name, replacing any stored map of that name.

With --tileset every tile key is checked against the tileset first.

Examples:
  tilesmith maps import map.yaml
  tilesmith maps import map.yaml --tileset tileset.yaml --name meadow-2`,
	Args: cobra.ExactArgs(1),
	RunE: runMapsImport,
}

var mapsExportCmd = &cobra.Command{
	Use:   "export <name>",
	Short: "Write a stored map as a map file",
	Args:  cobra.ExactArgs(1),
	RunE:  runMapsExport,
}

var mapsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored maps",
	Args:  cobra.NoArgs,
	RunE:  runMapsList,
}

var mapsDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a stored map",
	Args:  cobra.ExactArgs(1),
	RunE:  runMapsDelete,
}

var mapsViewCmd = &cobra.Command{
	Use:   "view <tileset.yaml> <name>",
	Short: "Open a stored map in the viewer",
	Long: `Open a stored map in the interactive viewer. ctrl+s saves edits back to
the store.`,
	Args: cobra.ExactArgs(2),
	RunE: runMapsView,
}

var (
	mapsImportTileset string
	mapsImportName    string
	mapsExportOutput  string
	mapsViewSalt      *saltFlag
)

func init() {
	rootCmd.AddCommand(mapsCmd)
	mapsCmd.AddCommand(mapsImportCmd, mapsExportCmd, mapsListCmd, mapsDeleteCmd, mapsViewCmd)

	mapsImportCmd.Flags().StringVarP(&mapsImportTileset, "tileset", "t", "", "check tile keys against this tileset")
	mapsImportCmd.Flags().StringVarP(&mapsImportName, "name", "n", "", "store under this name instead of the map's")
	mapsExportCmd.Flags().StringVarP(&mapsExportOutput, "output", "o", "", "Output file (stdout if not specified)")
	mapsViewSalt = addSaltFlag(mapsViewCmd)
}

// withStore opens the configured store for the duration of fn.
func withStore(cmd *cobra.Command, fn func(store tilemap.Store, settings *config.Settings) error) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	store, err := openStore(cmd.Context(), settings)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store, settings)
}

func runMapsImport(cmd *cobra.Command, args []string) error {
	md, err := config.LoadMap(args[0])
	if err != nil {
		return err
	}
	if mapsImportName != "" {
		md.Name = mapsImportName
	}
	snap, err := md.Snapshot()
	if err != nil {
		return fmt.Errorf("map %s: %w", args[0], err)
	}

	if mapsImportTileset != "" {
		_, ts, _, err := loadTileset(mapsImportTileset)
		if err != nil {
			return err
		}
		if _, err := snap.Grid(ts); err != nil {
			return fmt.Errorf("map %s: %w", args[0], err)
		}
	}

	return withStore(cmd, func(store tilemap.Store, _ *config.Settings) error {
		if err := store.Save(cmd.Context(), snap); err != nil {
			return err
		}
		fmt.Printf("Stored %s (%dx%d, %s tiles)\n", snap.Name, snap.Width, snap.Height, humanize.Comma(int64(snap.Count())))
		return nil
	})
}

func runMapsExport(cmd *cobra.Command, args []string) error {
	return withStore(cmd, func(store tilemap.Store, _ *config.Settings) error {
		snap, err := store.Load(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		md, err := config.MapDocFromSnapshot(snap)
		if err != nil {
			return err
		}

		if mapsExportOutput != "" {
			if err := config.SaveMap(mapsExportOutput, md); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Wrote %s\n", mapsExportOutput)
			return nil
		}

		out, err := yaml.Marshal(md)
		if err != nil {
			return fmt.Errorf("marshaling map: %w", err)
		}
		_, err = os.Stdout.Write(out)
		return err
	})
}

func runMapsList(cmd *cobra.Command, args []string) error {
	return withStore(cmd, func(store tilemap.Store, settings *config.Settings) error {
		maps, err := store.List(cmd.Context())
		if err != nil {
			return err
		}
		if len(maps) == 0 {
			fmt.Printf("No maps stored (%s)\n", settings.Store)
			return nil
		}

		fmt.Printf("%-24s %-9s %-8s %s\n", "NAME", "SIZE", "TILES", "UPDATED")
		for _, m := range maps {
			fmt.Printf("%-24s %-9s %-8s %s\n",
				m.Name,
				fmt.Sprintf("%dx%d", m.Width, m.Height),
				humanize.Comma(int64(m.Count)),
				humanize.Time(m.UpdatedAt),
			)
		}
		return nil
	})
}

func runMapsDelete(cmd *cobra.Command, args []string) error {
	return withStore(cmd, func(store tilemap.Store, _ *config.Settings) error {
		if err := store.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted %s\n", args[0])
		return nil
	})
}

func runMapsView(cmd *cobra.Command, args []string) error {
	return withStore(cmd, func(store tilemap.Store, settings *config.Settings) error {
		load := storedScene(args[0], args[1], store, mapsViewSalt, settings)
		sc, err := load(cmd.Context())
		if err != nil {
			return err
		}

		m, err := tui.New(cmd.Context(), sc, tui.Options{
			CellWidth: settings.CellWidth,
			FPS:       settings.FPS,
			Reload:    load,
			Save:      saveStored(store),
		})
		if err != nil {
			return err
		}
		return runViewer(m)
	})
}
