package tilemap

import (
	"context"
	"time"
)

//go:generate mockgen -destination=mock/mock_store.go -package=mock -source=store.go

// Store persists tilemap snapshots by name.
type Store interface {
	// Save creates or replaces the snapshot and stamps UpdatedAt.
	Save(ctx context.Context, s *Snapshot) error
	// Load returns the named snapshot or a NotFound error.
	Load(ctx context.Context, name string) (*Snapshot, error)
	// List returns a summary of every stored snapshot, sorted by name.
	List(ctx context.Context) ([]Summary, error)
	// Delete removes the named snapshot or returns a NotFound error.
	Delete(ctx context.Context, name string) error
	Close() error
}

// Summary describes a stored snapshot without its cells.
type Summary struct {
	Name      string
	Width     int
	Height    int
	Count     int
	UpdatedAt time.Time
}

func summarize(s *Snapshot) Summary {
	return Summary{Name: s.Name, Width: s.Width, Height: s.Height, Count: s.Count(), UpdatedAt: s.UpdatedAt}
}
