package repository

import (
	"context"
	"errors"
	"fmt"
)

// KeyValue is the durable key-value store the content controller writes through to
type KeyValue interface {
	// Get returns the value under key; ok is false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	// Remove deletes key; removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
	Close() error
}

// Storage drivers
const (
	DriverSQLite3 = "sqlite3" // github.com/mattn/go-sqlite3 (cgo)
	DriverSQLite  = "sqlite"  // modernc.org/sqlite (pure Go)
	DriverLibSQL  = "libsql"  // Turso / libsql remote
	DriverRedis   = "redis"
	DriverMemory  = "memory"
)

// ErrUnknownDriver is returned by Open for an unsupported driver name
var ErrUnknownDriver = errors.New("unknown storage driver")

// Options selects and configures a KeyValue backend
type Options struct {
	Driver string
	DSN    string
	Redis  RedisOptions
}

// Open creates the backend named by opts.Driver
func Open(ctx context.Context, opts Options) (KeyValue, error) {
	switch opts.Driver {
	case DriverSQLite3, DriverSQLite, DriverLibSQL, "":
		return NewSQLiteRepository(ctx, opts.Driver, opts.DSN)
	case DriverRedis:
		return NewRedisRepository(ctx, opts.Redis)
	case DriverMemory:
		return NewMemoryRepository(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, opts.Driver)
}
