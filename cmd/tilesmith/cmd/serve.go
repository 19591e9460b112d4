package cmd

import (
	"errors"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/gliderlabs/ssh"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/f3rmion/tilesmith/internal/clipboard"
	"github.com/f3rmion/tilesmith/internal/server"
	"github.com/f3rmion/tilesmith/internal/tui"
)

var serveCmd = &cobra.Command{
	Use:   "serve <tileset.yaml> <map.yaml>",
	Short: "Serve the viewer over SSH",
	Long: `Serve the interactive viewer over SSH. Every session gets its own copy
of the map, freshly loaded from the files, so edits stay private to the
session. "copy cell" goes to the client's clipboard.

A host key is generated on first start when none exists.

Example:
  tilesmith serve tileset.yaml map.yaml --addr :2323
  ssh -p 2323 -t localhost`,
	Args: cobra.ExactArgs(2),
	RunE: runServe,
}

var (
	serveAddr    string
	serveHostKey string
	serveSalt    *saltFlag
)

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from settings, :2323)")
	serveCmd.Flags().StringVar(&serveHostKey, "host-key", "", "host key file (default from settings)")
	serveSalt = addSaltFlag(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	addr := serveAddr
	if addr == "" {
		addr = settings.SSHAddr
	}
	hostKey := serveHostKey
	if hostKey == "" {
		hostKey = settings.HostKey
	}

	load := fileScene(args[0], args[1], serveSalt, settings)
	if _, err := load(cmd.Context()); err != nil {
		return err
	}

	// Sessions are rendered for the client terminal, not the local one.
	lipgloss.SetColorProfile(termenv.TrueColor)

	srv := server.NewSSHServer(addr, hostKey, func(sess ssh.Session) (tea.Model, error) {
		sc, err := load(sess.Context())
		if err != nil {
			return nil, err
		}
		m, err := tui.New(sess.Context(), sc, tui.Options{
			CellWidth: settings.CellWidth,
			FPS:       settings.FPS,
			Reload:    load,
			Copy:      clipboard.Terminal(sess),
		})
		if err != nil {
			return nil, err
		}
		return m, nil
	})

	go func() {
		<-cmd.Context().Done()
		slog.Info("shutting down")
		srv.Close()
	}()

	fmt.Printf("Serving %s on %s, connect with: ssh -t -p <port> <host>\n", args[1], addr)
	if err := srv.Start(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
		return err
	}
	return nil
}
