// Package bootstrap wires up runtime dependencies shared by the server and
// auxiliary commands.
package bootstrap

import (
	"fmt"
	"log"
	"strings"

	"cirqls/internal/cache"
	"cirqls/internal/config"
	"cirqls/internal/database"
	"cirqls/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// SeedCommunities creates the built-in communities on startup.
	// Only honored in development.
	SeedCommunities bool
}

// InitRuntime connects to the database and Redis. The Redis client is nil
// when the server is unreachable; the application degrades without it (no
// cross-process push, no cache) but still serves requests.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	if err := database.Connect(cfg); err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	if err := cache.InitRedis(cfg.RedisURL); err != nil {
		log.Printf("redis unavailable, continuing without it: %v", err)
	}

	if opts.SeedCommunities && strings.EqualFold(cfg.Env, "development") {
		if err := seed.Communities(database.DB); err != nil {
			return nil, nil, fmt.Errorf("failed to seed built-in communities: %w", err)
		}
	}

	return database.DB, cache.GetClient(), nil
}
