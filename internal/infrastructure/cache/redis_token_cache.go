// Package cache guarda el token OAuth2 de SUNAT entre peticiones.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/gre-api/internal/infrastructure/sunat"
	"github.com/jhoicas/gre-api/pkg/config"
)

var _ sunat.TokenCache = (*RedisTokenCache)(nil)

// RedisTokenCache caché compartida entre réplicas.
type RedisTokenCache struct {
	rdb *redis.Client
}

// NewRedisClient construye el cliente Redis desde la configuración.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// NewRedisTokenCache envuelve un cliente existente.
func NewRedisTokenCache(rdb *redis.Client) *RedisTokenCache {
	return &RedisTokenCache{rdb: rdb}
}

// Get devuelve (token, true) si existe. redis.Nil no es error.
func (c *RedisTokenCache) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := c.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, v != "", nil
}

// Set guarda el token con TTL.
func (c *RedisTokenCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := c.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}
