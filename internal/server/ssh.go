// Package server serves the tilemap viewer over SSH, one program per
// session.
package server

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gliderlabs/ssh"
)

// ModelFunc builds the model for a new session. Each session gets its own
// model so edits in one session never leak into another.
type ModelFunc func(sess ssh.Session) (tea.Model, error)

// SSHServer wraps the SSH listener and the per-session viewer.
type SSHServer struct {
	addr     string
	hostKey  string
	newModel ModelFunc
	server   *ssh.Server
}

// NewSSHServer creates a new SSH server bound to the given address.
func NewSSHServer(addr string, hostKey string, newModel ModelFunc) *SSHServer {
	return &SSHServer{
		addr:     addr,
		hostKey:  hostKey,
		newModel: newModel,
	}
}

func (s *SSHServer) setup() error {
	if s.server != nil {
		return nil
	}

	created, err := EnsureHostKey(s.hostKey)
	if err != nil {
		return err
	}
	if created {
		slog.Info("generated host key", "path", s.hostKey)
	}

	server := &ssh.Server{
		Addr: s.addr,
		Handler: func(sess ssh.Session) {
			s.handleSession(sess)
		},
	}

	if err := server.SetOption(ssh.HostKeyFile(s.hostKey)); err != nil {
		return fmt.Errorf("set host key: %w", err)
	}
	s.server = server
	return nil
}

// Start begins listening for SSH connections.
func (s *SSHServer) Start() error {
	if err := s.setup(); err != nil {
		return err
	}
	slog.Info("SSH server listening", "addr", s.addr)
	return s.server.ListenAndServe()
}

// Serve accepts connections on l.
func (s *SSHServer) Serve(l net.Listener) error {
	if err := s.setup(); err != nil {
		return err
	}
	slog.Info("SSH server listening", "addr", l.Addr().String())
	return s.server.Serve(l)
}

// Close stops the server and drops open sessions.
func (s *SSHServer) Close() error {
	if s.server == nil {
		return nil
	}
	return s.server.Close()
}

func (s *SSHServer) handleSession(sess ssh.Session) {
	// Require PTY
	ptyReq, winCh, ok := sess.Pty()
	if !ok {
		fmt.Fprintln(sess, "Error: PTY required. Use: ssh -t ...")
		sess.Exit(1)
		return
	}

	user := sess.User()
	if user == "" {
		user = "anonymous"
	}
	log := slog.With("user", user, "remote", sess.RemoteAddr().String())

	model, err := s.newModel(sess)
	if err != nil {
		log.Error("session setup failed", "error", err)
		fmt.Fprintln(sess, "Error:", err)
		sess.Exit(1)
		return
	}

	log.Info("session started", "term", ptyReq.Term)
	defer log.Info("session ended")

	p := tea.NewProgram(model,
		tea.WithInput(sess),
		tea.WithOutput(sess),
		tea.WithAltScreen(),
		tea.WithContext(sess.Context()),
	)

	// Handle window resizes
	go func() {
		p.Send(tea.WindowSizeMsg{Width: ptyReq.Window.Width, Height: ptyReq.Window.Height})
		for win := range winCh {
			p.Send(tea.WindowSizeMsg{Width: win.Width, Height: win.Height})
		}
	}()

	if _, err := p.Run(); err != nil && sess.Context().Err() == nil {
		log.Error("viewer failed", "error", err)
		sess.Exit(1)
		return
	}
	sess.Exit(0)
}

// EnsureHostKey writes a new ed25519 host key to path unless one already
// exists. It reports whether a key was generated.
func EnsureHostKey(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("checking host key: %w", err)
	}

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return false, err
	}

	keyBytes, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return false, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return false, fmt.Errorf("creating host key dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return false, fmt.Errorf("writing host key: %w", err)
	}
	defer f.Close()

	if err := pem.Encode(f, &pem.Block{Type: "PRIVATE KEY", Bytes: keyBytes}); err != nil {
		return false, fmt.Errorf("writing host key: %w", err)
	}
	return true, nil
}
