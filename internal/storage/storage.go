// Package storage opens the optional run journal.
package storage

import (
	"fmt"

	"github.com/tjfontaine/support-inquiry-pipeline/internal/core/ports"
	"github.com/tjfontaine/support-inquiry-pipeline/internal/pkg/config"
	"github.com/tjfontaine/support-inquiry-pipeline/internal/storage/memory"
	"github.com/tjfontaine/support-inquiry-pipeline/internal/storage/redis"
	"github.com/tjfontaine/support-inquiry-pipeline/internal/storage/sqlite"
)

// Open returns the configured RunStore. Type "none" (or empty) returns a
// nil store and journaling is disabled.
func Open(cfg config.StorageConfig) (ports.RunStore, error) {
	switch cfg.Type {
	case "", "none":
		return nil, nil
	case "memory":
		return memory.New(), nil
	case "sqlite":
		store, err := sqlite.New(cfg.SQLite.Path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite journal: %w", err)
		}
		return store, nil
	case "redis":
		rc := cfg.Redis
		return redis.New(rc.Addr, rc.Password, rc.DB,
			redis.WithPrefix(rc.Prefix),
			redis.WithTTL(rc.TTL),
		), nil
	default:
		return nil, fmt.Errorf("unsupported storage type %q", cfg.Type)
	}
}
