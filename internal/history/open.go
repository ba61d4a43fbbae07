package history

import (
	"context"
	"fmt"
	"time"
)

// Options selects and configures a Backend.
type Options struct {
	Backend string // "file", "sqlite", "memcached", "redis" or "memory"

	FilePath   string
	SQLitePath string

	MemcachedAddrs        string
	MemcachedTimeout      time.Duration
	MemcachedMaxIdleConns int

	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// Pinger is implemented by backends with a reachability check.
type Pinger interface {
	Ping() error
}

// OpenBackend builds the backend named by opts.Backend. Backends holding connections
// also implement io.Closer.
func OpenBackend(ctx context.Context, opts Options) (Backend, error) {
	switch opts.Backend {
	case "", "file":
		return NewFileBackend(opts.FilePath)
	case "sqlite":
		return NewSQLiteBackend(opts.SQLitePath)
	case "memcached":
		return NewMemcachedBackend(opts.MemcachedAddrs, opts.MemcachedTimeout, opts.MemcachedMaxIdleConns), nil
	case "redis":
		b, err := NewRedisBackend(ctx, opts.RedisAddr, opts.RedisPassword, opts.RedisDB)
		if err != nil {
			return nil, fmt.Errorf("redis backend: %w", err)
		}
		return b, nil
	case "memory":
		return NewMemoryBackend(), nil
	default:
		return nil, fmt.Errorf("unknown history backend %q", opts.Backend)
	}
}
