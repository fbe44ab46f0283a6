package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"carspotBack/internal/models"
)

const optionsKey = "listings:filter_options"

// OptionsCache keeps the distinct make/city dropdown values in Redis so the
// search page does not hit two DISTINCT scans per render. Every method is
// best-effort; callers fall back to the DB on any error.
type OptionsCache struct {
	RDB *redis.Client
	TTL time.Duration
}

func NewOptionsCache(rdb *redis.Client, ttl time.Duration) *OptionsCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &OptionsCache{RDB: rdb, TTL: ttl}
}

// Get returns the cached options, or (nil, nil) on a miss.
func (c *OptionsCache) Get(ctx context.Context) (*models.FilterOptions, error) {
	data, err := c.RDB.Get(ctx, optionsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var opts models.FilterOptions
	if err := json.Unmarshal(data, &opts); err != nil {
		return nil, err
	}
	return &opts, nil
}

func (c *OptionsCache) Set(ctx context.Context, opts models.FilterOptions) error {
	data, err := json.Marshal(opts)
	if err != nil {
		return err
	}
	return c.RDB.Set(ctx, optionsKey, data, c.TTL).Err()
}

// Invalidate drops the cached options after any listing mutation.
func (c *OptionsCache) Invalidate(ctx context.Context) error {
	return c.RDB.Del(ctx, optionsKey).Err()
}
