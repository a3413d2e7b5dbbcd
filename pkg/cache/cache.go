package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"inkwell/pkg/config"

	"github.com/redis/go-redis/v9"
)

const userTTL = 5 * time.Minute

// Client is an optional read-through cache for user profiles. A nil
// *Client is valid and degrades every call to a no-op, so the service
// runs without redis.
type Client struct {
	rdb *redis.Client
}

func NewRedisClient(cfg *config.Config) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

func userKey(id uint) string {
	return fmt.Sprintf("user:%d", id)
}

func (c *Client) GetUser(ctx context.Context, id uint, dest interface{}) bool {
	if c == nil {
		return false
	}
	data, err := c.rdb.Get(ctx, userKey(id)).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(data, dest) == nil
}

func (c *Client) SetUser(ctx context.Context, id uint, value interface{}) {
	if c == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	c.rdb.Set(ctx, userKey(id), data, userTTL)
}

func (c *Client) InvalidateUser(ctx context.Context, id uint) {
	if c == nil {
		return
	}
	c.rdb.Del(ctx, userKey(id))
}

func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}
