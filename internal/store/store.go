// Package store persists small key/value flags such as "don't show again"
// and resume positions.
package store

import (
	"context"
	"fmt"
	"time"
)

// Store is a key/value store with optional expiry. A zero ttl never expires.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

// Config selects and configures a backend.
type Config struct {
	Backend       string `toml:"backend"`
	Path          string `toml:"path"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	KeyPrefix     string `toml:"key_prefix"`
}

// DefaultConfig keeps state in memory.
func DefaultConfig() Config {
	return Config{Backend: BackendMemory, KeyPrefix: "waypoint:"}
}

// Open creates the configured backend.
func Open(cfg Config) (Store, error) {
	switch cfg.Backend {
	case "", BackendMemory:
		return NewMemory(), nil
	case BackendFile:
		if cfg.Path == "" {
			return nil, fmt.Errorf("store: file backend needs a path")
		}
		return OpenFile(cfg.Path)
	case BackendRedis:
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("store: redis backend needs redis_addr")
		}
		return NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, WithPrefix(cfg.KeyPrefix)), nil
	case BackendSQLite:
		if cfg.Path == "" {
			return nil, fmt.Errorf("store: sqlite backend needs a path")
		}
		return OpenSQLite(cfg.Path)
	default:
		return nil, fmt.Errorf("store: unknown backend %q", cfg.Backend)
	}
}

func expiry(now time.Time, ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return now.Add(ttl)
}

func expired(exp, now time.Time) bool {
	return !exp.IsZero() && !now.Before(exp)
}
