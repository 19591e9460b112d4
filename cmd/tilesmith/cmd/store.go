package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/f3rmion/tilesmith/internal/config"
	"github.com/f3rmion/tilesmith/internal/tilemap"
)

// openStore opens the map store selected in settings.
func openStore(ctx context.Context, s *config.Settings) (tilemap.Store, error) {
	switch s.Store {
	case config.StoreRedis:
		client, err := tilemap.NewRedisClient(s.RedisAddr)
		if err != nil {
			return nil, err
		}
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("connecting to redis at %s: %w", s.RedisAddr, err)
		}
		slog.Debug("using redis store", "addr", s.RedisAddr, "prefix", s.RedisPrefix)
		return tilemap.NewRedis(&tilemap.RedisConfig{Client: client, Prefix: s.RedisPrefix})
	default:
		if err := config.EnsureConfigDir(filepath.Dir(s.SQLitePath)); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
		slog.Debug("using sqlite store", "path", s.SQLitePath)
		return tilemap.OpenSQLite(ctx, s.SQLitePath)
	}
}
