// Package storage provides the key/value tiers that persist session
// records between runs. Every tier implements Store; Open picks one by
// driver name.
package storage

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnknownDriver is returned by Open for an unsupported driver name.
var ErrUnknownDriver = errors.New("unknown storage driver")

// Store persists raw values by key. Get reports found=false, with no error,
// for a missing key; Delete of a missing key is not an error.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
	Close() error
}

// Options selects and configures a store tier.
type Options struct {
	Driver string // file, sqlite, redis, memory
	Path   string // directory for file, database path for sqlite

	RedisAddr   string
	RedisDB     int
	RedisPrefix string
}

// Open builds the store described by opts
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Driver {
	case "file":
		return NewFileStore(opts.Path)
	case "sqlite":
		return NewSQLiteStore(ctx, opts.Path)
	case "redis":
		return NewRedisStore(ctx, opts.RedisAddr, opts.RedisDB, opts.RedisPrefix)
	case "memory", "":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, opts.Driver)
	}
}
