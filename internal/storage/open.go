package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/rental-marketplace/internal/config"
	"github.com/iliyamo/rental-marketplace/internal/database"
)

// Open builds the backend named by cfg.Backend.  rdb may be nil unless
// the redis backend is selected.
func Open(ctx context.Context, cfg config.StoreConfig, rdb *redis.Client) (Storage, error) {
	switch strings.ToLower(cfg.Backend) {
	case "", "memory":
		return NewMemory(), nil
	case "file":
		return NewFile(cfg.FilePath), nil
	case "redis":
		if rdb == nil {
			return nil, fmt.Errorf("storage: redis backend selected but redis is unreachable")
		}
		return NewRedis(rdb, cfg.RedisPrefix), nil
	case "mysql":
		db, err := database.Open(cfg)
		if err != nil {
			return nil, fmt.Errorf("storage: open mysql: %w", err)
		}
		s := NewMySQL(db)
		if err := s.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
		return s, nil
	case "mongo":
		client, err := config.ConnectMongo(ctx, cfg.MongoURI)
		if err != nil {
			return nil, fmt.Errorf("storage: open mongo: %w", err)
		}
		return NewMongo(client, cfg.MongoDB, cfg.MongoCollection), nil
	}
	return nil, fmt.Errorf("storage: unknown backend %q", cfg.Backend)
}
