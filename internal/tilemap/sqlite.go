package tilemap

import (
	"context"
	"database/sql"
	stderrors "errors"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"github.com/f3rmion/tilesmith/internal/errors"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS maps (
	name       TEXT PRIMARY KEY,
	salt       INTEGER NOT NULL,
	width      INTEGER NOT NULL,
	height     INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS cells (
	map  TEXT NOT NULL REFERENCES maps(name) ON DELETE CASCADE,
	x    INTEGER NOT NULL,
	y    INTEGER NOT NULL,
	tile TEXT NOT NULL,
	PRIMARY KEY (map, x, y)
);
`

// SQLiteStore keeps snapshots in a SQLite database. Only occupied cells are
// stored.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens (and if needed creates) the database at path.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening database %s", path)
	}
	// a single connection keeps the foreign key pragma in effect
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "enabling foreign keys")
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "creating schema")
	}

	slog.Debug("sqlite store opened", "path", path)
	return &SQLiteStore{db: db, now: time.Now}, nil
}

// Save implements Store.
func (s *SQLiteStore) Save(ctx context.Context, snap *Snapshot) error {
	if err := snap.Validate(); err != nil {
		return err
	}
	snap.UpdatedAt = s.now().UTC().Truncate(time.Millisecond)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "starting transaction")
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO maps (name, salt, width, height, updated_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			salt = excluded.salt, width = excluded.width,
			height = excluded.height, updated_at = excluded.updated_at`,
		snap.Name, snap.Salt, snap.Width, snap.Height, snap.UpdatedAt.UnixMilli())
	if err != nil {
		return errors.Wrapf(err, "saving map %s", snap.Name)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM cells WHERE map = ?", snap.Name); err != nil {
		return errors.Wrapf(err, "clearing cells of map %s", snap.Name)
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO cells (map, x, y, tile) VALUES (?, ?, ?, ?)")
	if err != nil {
		return errors.Wrap(err, "preparing cell insert")
	}
	defer stmt.Close()

	for i, key := range snap.Cells {
		if key == "" {
			continue
		}
		if _, err := stmt.ExecContext(ctx, snap.Name, i%snap.Width, i/snap.Width, key); err != nil {
			return errors.Wrapf(err, "saving cells of map %s", snap.Name)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrapf(err, "committing map %s", snap.Name)
	}
	slog.Debug("map saved", "store", "sqlite", "name", snap.Name, "cells", snap.Count())
	return nil
}

// Load implements Store.
func (s *SQLiteStore) Load(ctx context.Context, name string) (*Snapshot, error) {
	snap := &Snapshot{Name: name}
	var updated int64
	err := s.db.QueryRowContext(ctx,
		"SELECT salt, width, height, updated_at FROM maps WHERE name = ?", name,
	).Scan(&snap.Salt, &snap.Width, &snap.Height, &updated)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NotFoundf("map %q not found", name)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "loading map %s", name)
	}
	snap.UpdatedAt = time.UnixMilli(updated).UTC()
	snap.Cells = make([]string, snap.Width*snap.Height)

	rows, err := s.db.QueryContext(ctx, "SELECT x, y, tile FROM cells WHERE map = ?", name)
	if err != nil {
		return nil, errors.Wrapf(err, "loading cells of map %s", name)
	}
	defer rows.Close()

	for rows.Next() {
		var x, y int
		var key string
		if err := rows.Scan(&x, &y, &key); err != nil {
			return nil, errors.Wrapf(err, "scanning cell of map %s", name)
		}
		if x < 0 || y < 0 || x >= snap.Width || y >= snap.Height {
			continue
		}
		snap.Cells[y*snap.Width+x] = key
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(err, "loading cells of map %s", name)
	}
	return snap, nil
}

// List implements Store.
func (s *SQLiteStore) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT m.name, m.width, m.height, m.updated_at, COUNT(c.tile)
		FROM maps m LEFT JOIN cells c ON c.map = m.name
		GROUP BY m.name ORDER BY m.name`)
	if err != nil {
		return nil, errors.Wrap(err, "listing maps")
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var sum Summary
		var updated int64
		if err := rows.Scan(&sum.Name, &sum.Width, &sum.Height, &updated, &sum.Count); err != nil {
			return nil, errors.Wrap(err, "scanning map summary")
		}
		sum.UpdatedAt = time.UnixMilli(updated).UTC()
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "listing maps")
	}
	return out, nil
}

// Delete implements Store.
func (s *SQLiteStore) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM maps WHERE name = ?", name)
	if err != nil {
		return errors.Wrapf(err, "deleting map %s", name)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrapf(err, "deleting map %s", name)
	}
	if n == 0 {
		return errors.NotFoundf("map %q not found", name)
	}
	slog.Debug("map deleted", "store", "sqlite", "name", name)
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
