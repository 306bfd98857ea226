package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/Rrens/storefront-assistant/internal/config"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	clientName  = "storefront-assistant"
	pingTimeout = 3 * time.Second
	scanBatch   = 100
)

// Client is a small connection to the Redis instance shared by kiosk terminals
type Client struct {
	rdb *redis.Client
}

// newOptions sizes the pool for a single interactive client
func newOptions(cfg config.RedisConfig) *redis.Options {
	return &redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		ClientName:   clientName,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     4,
		MinIdleConns: 1,
	}
}

// NewClient connects and pings. The ping gives up after pingTimeout even
// if ctx has no deadline.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	rdb := redis.NewClient(newOptions(cfg))

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to ping %s: %w", cfg.Addr(), err)
	}

	log.Debug().Str("addr", cfg.Addr()).Int("db", cfg.DB).Msg("Connected to Redis")
	return &Client{rdb: rdb}, nil
}

// deleteMatching removes every key matching pattern using SCAN, so large
// keyspaces are never blocked by KEYS. It returns the number of keys removed.
func (c *Client) deleteMatching(ctx context.Context, pattern string) (int, error) {
	var (
		cursor  uint64
		removed int
	)
	for {
		keys, next, err := c.rdb.Scan(ctx, cursor, pattern, scanBatch).Result()
		if err != nil {
			return removed, fmt.Errorf("failed to scan %s: %w", pattern, err)
		}
		if len(keys) > 0 {
			n, err := c.rdb.Del(ctx, keys...).Result()
			if err != nil {
				return removed, fmt.Errorf("failed to delete keys: %w", err)
			}
			removed += int(n)
		}
		if cursor = next; cursor == 0 {
			return removed, nil
		}
	}
}

// Close releases the pool
func (c *Client) Close() error {
	return c.rdb.Close()
}
