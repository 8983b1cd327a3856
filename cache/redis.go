package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix is prepended to every Redis key when no prefix is configured.
const DefaultKeyPrefix = "transcache:"

// RedisCache is a Redis-backed translation cache, for sessions shared by
// several processes. Writes use SETNX so entries stay insert-only across
// all of them.
type RedisCache struct {
	client    *redis.Client
	ttl       time.Duration
	keyPrefix string
	timeout   time.Duration
	logger    *slog.Logger
}

// RedisConfig holds configuration for the Redis cache.
type RedisConfig struct {
	URL       string        // Redis connection URL (e.g., "redis://localhost:6379/0")
	KeyPrefix string        // Prefix for all keys (default: "transcache:")
	TTL       time.Duration // Session lifetime; 0 keeps entries until Redis drops them
	Logger    *slog.Logger  // Receives read errors (default: slog.Default())
}

// NewRedisCache connects to Redis and verifies the connection.
func NewRedisCache(cfg RedisConfig) (*RedisCache, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, &Error{Message: "invalid redis URL", Cause: err}
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, &Error{Message: "redis ping failed", Cause: err}
	}

	c := NewRedisCacheFromClient(client, cfg.TTL, cfg.KeyPrefix)
	if cfg.Logger != nil {
		c.logger = cfg.Logger
	}
	return c, nil
}

// NewRedisCacheFromClient creates a RedisCache from an existing Redis client.
func NewRedisCacheFromClient(client *redis.Client, ttl time.Duration, keyPrefix string) *RedisCache {
	if keyPrefix == "" {
		keyPrefix = DefaultKeyPrefix
	}
	if ttl < 0 {
		ttl = 0
	}

	return &RedisCache{
		client:    client,
		ttl:       ttl,
		keyPrefix: keyPrefix,
		timeout:   2 * time.Second,
		logger:    slog.Default(),
	}
}

func (c *RedisCache) redisKey(key Key) string {
	return c.keyPrefix + key.Digest()
}

// Get retrieves a value from Redis. Connection errors are logged and read
// as a miss.
func (c *RedisCache) Get(key Key) (string, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	val, err := c.client.Get(ctx, c.redisKey(key)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("redis read failed", "key", key.String(), "error", err)
		}
		return "", false
	}
	return val, true
}

// Put stores a value in Redis unless the key already exists.
func (c *RedisCache) Put(key Key, value string) error {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	if err := c.client.SetNX(ctx, c.redisKey(key), value, c.ttl).Err(); err != nil {
		return &Error{Message: "redis SETNX failed", Cause: err}
	}
	return nil
}

// Has reports whether key exists in Redis.
func (c *RedisCache) Has(key Key) bool {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	n, err := c.client.Exists(ctx, c.redisKey(key)).Result()
	if err != nil {
		c.logger.Warn("redis exists failed", "key", key.String(), "error", err)
		return false
	}
	return n > 0
}

// Close closes the Redis connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// Ping tests the Redis connection.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Verify RedisCache implements Cache
var _ Cache = (*RedisCache)(nil)
