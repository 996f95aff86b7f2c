package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const nameKeyPrefix = "apptracker:app_name:"

// NameCache caches application display names by id.
type NameCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewNameCache creates a NameCache whose entries expire after ttl.
func NewNameCache(rdb *redis.Client, ttl time.Duration) *NameCache {
	return &NameCache{rdb: rdb, ttl: ttl}
}

func nameKey(id int64) string {
	return nameKeyPrefix + strconv.FormatInt(id, 10)
}

// GetMany returns the cached names for ids. Missing ids are absent from the
// result map.
func (c *NameCache) GetMany(ctx context.Context, ids []int64) (map[int64]string, error) {
	out := make(map[int64]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = nameKey(id)
	}

	vals, err := c.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return out, nil
		}
		return nil, fmt.Errorf("mget app names: %w", err)
	}

	for i, v := range vals {
		if s, ok := v.(string); ok {
			out[ids[i]] = s
		}
	}
	return out, nil
}

// SetMany stores names with the cache TTL in a single round trip.
func (c *NameCache) SetMany(ctx context.Context, names map[int64]string) error {
	if len(names) == 0 {
		return nil
	}

	pipe := c.rdb.Pipeline()
	for id, name := range names {
		pipe.Set(ctx, nameKey(id), name, c.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("set app names: %w", err)
	}
	return nil
}

// Invalidate drops the cached name of an application.
func (c *NameCache) Invalidate(ctx context.Context, id int64) error {
	if err := c.rdb.Del(ctx, nameKey(id)).Err(); err != nil {
		return fmt.Errorf("invalidate app name %d: %w", id, err)
	}
	return nil
}
