package cmd

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/f3rmion/tilesmith/internal/tui"
)

var viewCmd = &cobra.Command{
	Use:   "view <tileset.yaml> <map.yaml>",
	Short: "Open a map in the interactive viewer",
	Long: `Open a map in the interactive viewer.

Move the cursor to inspect cells, paint and erase tiles with the brush,
watch animations play and save the map back with ctrl+s.

With --watch the viewer reloads whenever the tileset or map file changes.

Examples:
  tilesmith view tileset.yaml map.yaml
  tilesmith view tileset.yaml map.yaml --watch`,
	Args: cobra.ExactArgs(2),
	RunE: runView,
}

var (
	viewWatch bool
	viewSalt  *saltFlag
)

func init() {
	rootCmd.AddCommand(viewCmd)
	viewCmd.Flags().BoolVarP(&viewWatch, "watch", "w", false, "reload when the files change")
	viewSalt = addSaltFlag(viewCmd)
}

func runView(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	load := fileScene(args[0], args[1], viewSalt, settings)
	sc, err := load(cmd.Context())
	if err != nil {
		return err
	}

	opts := tui.Options{
		CellWidth: settings.CellWidth,
		FPS:       settings.FPS,
		Reload:    load,
		Save:      saveMapFile(args[1]),
	}
	if viewWatch {
		w, err := tui.NewWatcher(args[0], args[1])
		if err != nil {
			return err
		}
		defer w.Close()
		opts.Watcher = w
	}

	m, err := tui.New(cmd.Context(), sc, opts)
	if err != nil {
		return err
	}
	return runViewer(m)
}

// runViewer runs the viewer with logging discarded until it exits.
func runViewer(m tui.Model) error {
	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	defer slog.SetDefault(previous)

	return tui.Run(m)
}
