package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/f3rmion/tilesmith/internal/config"
	"github.com/f3rmion/tilesmith/internal/scene"
	"github.com/f3rmion/tilesmith/internal/tilemap"
	"github.com/f3rmion/tilesmith/internal/tiles"
)

// sceneLoader builds a fresh scene. The viewer calls it again on reload and
// the SSH server once per session.
type sceneLoader func(ctx context.Context) (*scene.Scene, error)

// loadTileset loads and builds a tileset file.
func loadTileset(path string) (*config.TilesetDoc, *tiles.Tileset, []string, error) {
	doc, err := config.LoadTileset(path)
	if err != nil {
		return nil, nil, nil, err
	}
	ts, warnings, err := doc.Build()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("building tileset %s: %w", path, err)
	}
	return doc, ts, warnings, nil
}

// saltFlag is the --salt flag shared by the commands that resolve maps.
type saltFlag struct {
	value int
	cmd   *cobra.Command
}

func addSaltFlag(cmd *cobra.Command) *saltFlag {
	f := &saltFlag{cmd: cmd}
	cmd.Flags().IntVar(&f.value, "salt", 0, "salt for random choices (default: the map's salt, then settings)")
	return f
}

// pick chooses the salt: the flag when given, the map's own salt when it has
// one and the configured salt otherwise.
func (f *saltFlag) pick(mapSalt, settingsSalt int) int {
	if f.cmd.Flags().Changed("salt") {
		return f.value
	}
	if mapSalt != 0 {
		return mapSalt
	}
	return settingsSalt
}

// fileScene loads a tileset file and a map file.
func fileScene(tilesetPath, mapPath string, salt *saltFlag, settings *config.Settings) sceneLoader {
	return func(ctx context.Context) (*scene.Scene, error) {
		_, ts, _, err := loadTileset(tilesetPath)
		if err != nil {
			return nil, err
		}
		md, err := config.LoadMap(mapPath)
		if err != nil {
			return nil, err
		}
		snap, err := md.Snapshot()
		if err != nil {
			return nil, fmt.Errorf("map %s: %w", mapPath, err)
		}
		g, err := snap.Grid(ts)
		if err != nil {
			return nil, fmt.Errorf("map %s: %w", mapPath, err)
		}
		return scene.New(snap.Name, ts, g, salt.pick(snap.Salt, settings.Salt)), nil
	}
}

// storedScene loads a tileset file and a map from the store.
func storedScene(tilesetPath, name string, store tilemap.Store, salt *saltFlag, settings *config.Settings) sceneLoader {
	return func(ctx context.Context) (*scene.Scene, error) {
		_, ts, _, err := loadTileset(tilesetPath)
		if err != nil {
			return nil, err
		}
		sc, err := scene.Load(ctx, store, ts, name)
		if err != nil {
			return nil, err
		}
		sc.Salt = salt.pick(sc.Salt, settings.Salt)
		return sc, nil
	}
}

// saveMapFile writes a snapshot back to a map file. The file keeps its own
// salt; a salt picked by flag or settings only applies to this session.
func saveMapFile(path string) func(ctx context.Context, snap *tilemap.Snapshot) error {
	return func(ctx context.Context, snap *tilemap.Snapshot) error {
		md, err := config.MapDocFromSnapshot(snap)
		if err != nil {
			return err
		}
		if prev, err := config.LoadMap(path); err == nil {
			md.Salt = prev.Salt
		}
		return config.SaveMap(path, md)
	}
}

// saveStored writes a snapshot to store, keeping the salt of the map it
// replaces.
func saveStored(store tilemap.Store) func(ctx context.Context, snap *tilemap.Snapshot) error {
	return func(ctx context.Context, snap *tilemap.Snapshot) error {
		if prev, err := store.Load(ctx, snap.Name); err == nil {
			snap.Salt = prev.Salt
		}
		return store.Save(ctx, snap)
	}
}
