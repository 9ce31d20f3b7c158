// Package counter persists the site-wide visitor count.
//
// A Store is selected once at process start and never swapped at runtime.
// Backends that talk to a real key-value service or database increment
// atomically; the file backend does not.
package counter

import (
	"context"
	"errors"
	"fmt"
	"log"

	"hemkey/internal/config"
)

// Backend names reported by Store.Backend.
const (
	BackendREST     = "rest"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendFile     = "file"
)

// ErrNotConfigured is returned when a backend is missing required settings.
var ErrNotConfigured = errors.New("counter backend not configured")

// Store owns the single visitor count.
type Store interface {
	// Read returns the current count, 0 if none has been stored yet.
	Read(ctx context.Context) (int64, error)
	// Increment adds exactly one and returns the new count.
	Increment(ctx context.Context) (int64, error)
	// Backend names the storage in use.
	Backend() string
	Close() error
}

// RemoteError is a non-2xx reply from the remote key-value endpoint.
type RemoteError struct {
	Op         string // "GET" or "INCR"
	StatusCode int
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("KV %s failed: %d", e.Op, e.StatusCode)
}

// Open selects the backend from configuration.
// Precedence is REST KV (URL and token), Redis, Postgres, then the local file.
// Errors from the selected backend are returned as-is; there is no fallback to
// another backend once one is configured.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch {
	case cfg.IsRESTCounterConfigured():
		store, err := NewRESTStore(cfg.CounterRESTURL, cfg.CounterRESTToken, cfg.CounterKey, cfg.CounterTimeout)
		if err != nil {
			return nil, err
		}
		log.Printf("Visitor counter: REST key-value store (key %q)", cfg.CounterKey)
		return store, nil

	case cfg.RedisURL != "":
		store, err := NewRedisStore(cfg.RedisURL, cfg.CounterKey)
		if err != nil {
			return nil, err
		}
		log.Printf("Visitor counter: Redis (key %q)", cfg.CounterKey)
		return store, nil

	case cfg.DatabaseURL != "":
		store, err := OpenPostgres(ctx, cfg.DatabaseURL, cfg.CounterKey)
		if err != nil {
			return nil, err
		}
		log.Printf("Visitor counter: Postgres (key %q)", cfg.CounterKey)
		return store, nil

	default:
		log.Printf("Visitor counter: local file %s (not shared between instances)", cfg.CounterFile)
		return NewFileStore(cfg.CounterFile), nil
	}
}
