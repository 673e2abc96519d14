// Package redis caches coverage results in Redis.
package redis

import (
	"context"
	"strconv"
	"strings"
	"time"

	"geocover/internal/logger"

	"github.com/cespare/xxhash/v2"
	"github.com/cockroachdb/errors"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "geocover:cover:"

// Cache stores sorted cell lists under a request key.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// Open connects to redisURL and checks the connection.
func Open(ctx context.Context, redisURL string, ttl time.Duration) (*Cache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse redis url")
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrapf(err, "connect to redis at %s", opts.Addr)
	}

	logger.L().Info("redis_connected", "addr", opts.Addr, "db", opts.DB, "ttl", ttl.String())
	return New(client, ttl), nil
}

// New wraps an existing client.
func New(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// Key identifies a coverage request by its geometry bytes, precision and mode.
func Key(geometry []byte, precision int, mode string) string {
	d := xxhash.New()
	_, _ = d.Write(geometry)
	return keyPrefix + mode + ":" + strconv.Itoa(precision) + ":" + strconv.FormatUint(d.Sum64(), 16)
}

// Get returns the cached cells for key. A miss is not an error.
func (c *Cache) Get(ctx context.Context, key string) ([]string, bool, error) {
	val, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "redis get %s", key)
	}
	if val == "" {
		return []string{}, true, nil
	}
	return strings.Split(val, ","), true, nil
}

// Set stores cells under key for the cache TTL.
func (c *Cache) Set(ctx context.Context, key string, cells []string) error {
	err := c.client.Set(ctx, key, strings.Join(cells, ","), c.ttl).Err()
	return errors.Wrapf(err, "redis set %s", key)
}

// Close closes the client connection
func (c *Cache) Close() error {
	return c.client.Close()
}
