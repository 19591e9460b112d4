package tilemap

import (
	"context"
	"encoding/json"
	"log/slog"
	"slices"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/f3rmion/tilesmith/internal/errors"
)

// DefaultRedisPrefix namespaces tilesmith keys.
const DefaultRedisPrefix = "tilemap:"

// RedisConfig configures a RedisStore.
type RedisConfig struct {
	Client redis.UniversalClient
	// Prefix is prepended to every key; DefaultRedisPrefix when empty.
	Prefix string
}

// Validate validates the RedisConfig.
func (cfg *RedisConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Client == nil {
		return errors.InvalidArgument("client cannot be nil")
	}
	return nil
}

// RedisStore keeps each snapshot as a JSON value under <prefix>map:<name>
// and the set of names under <prefix>index.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	now    func() time.Time
}

// NewRedis creates a Redis-backed store.
func NewRedis(cfg *RedisConfig) (*RedisStore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisStore{client: cfg.Client, prefix: prefix, now: time.Now}, nil
}

// NewRedisClient returns a client for a single Redis instance.
func NewRedisClient(addr string) (redis.UniversalClient, error) {
	if addr == "" {
		return nil, errors.InvalidArgument("redis address is required")
	}
	return redis.NewClient(&redis.Options{Addr: addr}), nil
}

func (r *RedisStore) key(name string) string { return r.prefix + "map:" + name }

func (r *RedisStore) indexKey() string { return r.prefix + "index" }

// Save implements Store.
func (r *RedisStore) Save(ctx context.Context, snap *Snapshot) error {
	if err := snap.Validate(); err != nil {
		return err
	}
	snap.UpdatedAt = r.now().UTC().Truncate(time.Millisecond)

	data, err := json.Marshal(snap)
	if err != nil {
		return errors.Wrap(err, "failed to marshal snapshot")
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.key(snap.Name), data, 0)
		pipe.SAdd(ctx, r.indexKey(), snap.Name)
		return nil
	})
	if err != nil {
		return errors.Wrapf(err, "failed to save map %s", snap.Name)
	}
	slog.Debug("map saved", "store", "redis", "name", snap.Name, "cells", snap.Count())
	return nil
}

// Load implements Store.
func (r *RedisStore) Load(ctx context.Context, name string) (*Snapshot, error) {
	result, err := r.client.Get(ctx, r.key(name)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, errors.NotFoundf("map %q not found", name)
		}
		return nil, errors.Wrapf(err, "failed to get map %s", name)
	}

	var snap Snapshot
	if err := json.Unmarshal([]byte(result), &snap); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal map %s", name)
	}
	return &snap, nil
}

// List implements Store.
func (r *RedisStore) List(ctx context.Context) ([]Summary, error) {
	names, err := r.client.SMembers(ctx, r.indexKey()).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to list maps")
	}
	slices.Sort(names)

	out := make([]Summary, 0, len(names))
	for _, name := range names {
		snap, err := r.Load(ctx, name)
		if errors.IsNotFound(err) {
			// index entry outlived its value
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, summarize(snap))
	}
	return out, nil
}

// Delete implements Store.
func (r *RedisStore) Delete(ctx context.Context, name string) error {
	var del *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, r.key(name))
		pipe.SRem(ctx, r.indexKey(), name)
		return nil
	})
	if err != nil {
		return errors.Wrapf(err, "failed to delete map %s", name)
	}
	if del.Val() == 0 {
		return errors.NotFoundf("map %q not found", name)
	}
	slog.Debug("map deleted", "store", "redis", "name", name)
	return nil
}

// Close closes the client.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
