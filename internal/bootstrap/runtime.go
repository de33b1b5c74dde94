// Package bootstrap wires configuration into live store and cache
// connections for the server and the CLI commands.
package bootstrap

import (
	"context"
	"fmt"
	"strings"
	"time"

	"murmur/internal/cache"
	"murmur/internal/config"
	"murmur/internal/database"
	"murmur/internal/repository"
	"murmur/internal/store"

	"github.com/redis/go-redis/v9"
)

// InitRuntime opens the configured store backend and initializes the
// shared Redis cache. The returned Redis client is nil unless the store
// itself runs on Redis or REDIS_URL points at a reachable instance.
func InitRuntime(cfg *config.Config) (store.Store, *redis.Client, error) {
	var (
		st          store.Store
		redisClient *redis.Client
		err         error
	)

	switch cfg.StoreBackend {
	case config.BackendMemory:
		st = store.NewMemory(repository.Collections()...)
	case config.BackendRedis:
		redisClient, err = ConnectRedis(cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("redis connection failed: %w", err)
		}
		st = store.NewRedis(redisClient, repository.Collections()...)
	case config.BackendPostgres:
		db, err := database.Connect(cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("database connection failed: %w", err)
		}
		st, err = store.NewSQL(db, repository.Collections()...)
		if err != nil {
			return nil, nil, fmt.Errorf("store migration failed: %w", err)
		}
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}

	// The list cache and rate limiter share the store's Redis connection
	// when one exists; otherwise they get their own best-effort client.
	if redisClient != nil {
		cache.SetClient(redisClient)
	} else if cfg.RedisURL != "" {
		cache.InitRedis(cfg.RedisURL)
		redisClient = cache.GetClient()
	}

	return st, redisClient, nil
}

// ConnectRedis dials Redis at the given address or URL and verifies the
// connection with a ping.
func ConnectRedis(addr string) (*redis.Client, error) {
	var opts *redis.Options
	if strings.Contains(addr, "://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			return nil, err
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: addr}
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return client, nil
}
