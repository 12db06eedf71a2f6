package statestore

import (
	"context"
	"fmt"

	"github.com/greentill2020-cloud/greentillcmsProd/gomicro/config"
	"github.com/greentill2020-cloud/greentillcmsProd/gomicro/database"
	"github.com/greentill2020-cloud/greentillcmsProd/internal/storage"
)

// Backends selectable through STATE_BACKEND
const (
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Store is a document backend that can report its health
type Store interface {
	storage.Backend
	Ping(ctx context.Context) error
}

// Open connects the backend named by cfg.State.Backend
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.State.Backend {
	case BackendPostgres, "":
		db, err := database.InitDB(&cfg.DB)
		if err != nil {
			return nil, err
		}
		return NewPostgresStore(db)
	case BackendRedis:
		rdb, err := NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		return NewRedisStore(rdb), nil
	}
	return nil, fmt.Errorf("unknown state backend %q", cfg.State.Backend)
}
