package cache

import (
	"context"
	"fmt"

	"github.com/angelmondragon/salespulse-backend/pkg/config"
	"github.com/angelmondragon/salespulse-backend/pkg/db"
	"github.com/angelmondragon/salespulse-backend/pkg/logger"
)

// Backends carries the connections a store may be built on. Only the one
// matching the configured backend has to be set.
type Backends struct {
	Redis KV
	DB    *db.Client
}

// NewStore picks the store named by SALESPULSE_CACHE_BACKEND.
func NewStore(ctx context.Context, cfg *config.Config, backends Backends, logg *logger.Logger) (Store, error) {
	switch cfg.Cache.Backend {
	case config.CacheBackendRedis:
		if backends.Redis == nil {
			return nil, fmt.Errorf("redis cache backend requires a redis client")
		}
		return NewRedisStore(backends.Redis, cfg.Cache.Retention, logg), nil
	case config.CacheBackendSQL:
		if backends.DB == nil {
			return nil, fmt.Errorf("sql cache backend requires a database client")
		}
		store := NewSQLStore(backends.DB, cfg.Cache.Retention, logg)
		if cfg.DB.Driver == config.DBDriverSQLite {
			if err := store.AutoMigrate(ctx); err != nil {
				return nil, fmt.Errorf("migrate sqlite cache table: %w", err)
			}
		}
		return store, nil
	case config.CacheBackendMemory, "":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported cache backend %q", cfg.Cache.Backend)
	}
}
