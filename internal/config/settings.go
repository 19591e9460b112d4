package config

import (
	stderrors "errors"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/f3rmion/tilesmith/internal/errors"
)

// Store backends.
const (
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
)

// Settings are the user preferences read from settings.yaml, TILESMITH_*
// environment variables and flags.
type Settings struct {
	Store       string `mapstructure:"store"`
	SQLitePath  string `mapstructure:"sqlite_path"`
	RedisAddr   string `mapstructure:"redis_addr"`
	RedisPrefix string `mapstructure:"redis_prefix"`
	Salt        int    `mapstructure:"salt"`
	CellWidth   int    `mapstructure:"cell_width"`
	FPS         int    `mapstructure:"fps"`
	SSHAddr     string `mapstructure:"ssh_addr"`
	HostKey     string `mapstructure:"host_key"`
}

// SetDefaults registers the default of every setting, placing files under
// dir.
func SetDefaults(v *viper.Viper, dir string) {
	v.SetDefault("store", StoreSQLite)
	v.SetDefault("sqlite_path", filepath.Join(dir, "maps.db"))
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("redis_prefix", "tilemap:")
	v.SetDefault("salt", 0)
	v.SetDefault("cell_width", 6)
	v.SetDefault("fps", 8)
	v.SetDefault("ssh_addr", ":2323")
	v.SetDefault("host_key", filepath.Join(dir, "host_key"))
}

// LoadSettings reads settings.yaml from dir when it exists and decodes the
// merged settings.
func LoadSettings(v *viper.Viper, dir string) (*Settings, error) {
	SetDefaults(v, dir)
	v.SetConfigName("settings")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !stderrors.As(err, &notFound) {
			return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "reading settings file")
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "decoding settings")
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks the settings.
func (s *Settings) Validate() error {
	switch s.Store {
	case StoreSQLite, StoreRedis:
	default:
		return errors.InvalidArgumentf("unknown store %q, want %s or %s", s.Store, StoreSQLite, StoreRedis)
	}
	if s.CellWidth < 1 {
		return errors.InvalidArgumentf("cell_width must be at least 1, got %d", s.CellWidth)
	}
	if s.FPS < 1 {
		return errors.InvalidArgumentf("fps must be at least 1, got %d", s.FPS)
	}
	return nil
}
