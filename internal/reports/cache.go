package reports

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores rendered reports in Redis behind a per-owner version counter.
// Writers bump the version so stale entries fall out without explicit keys
// to delete. Nil-safe: a nil cache always calls the loader.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache instantiates the cache helper.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func versionKey(ownerID string) string {
	return fmt.Sprintf("reports:ver:%s", ownerID)
}

// Bump invalidates the owner's cached reports.
func (c *Cache) Bump(ctx context.Context, ownerID string) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Incr(ctx, versionKey(ownerID)).Err()
}

func (c *Cache) key(ctx context.Context, ownerID string) (string, error) {
	ver, err := c.client.Get(ctx, versionKey(ownerID)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", err
	}
	return fmt.Sprintf("reports:%s:%d", ownerID, ver), nil
}

// Fetch loads the owner's cached report or populates it using the loader.
func (c *Cache) Fetch(ctx context.Context, ownerID string, loader func(context.Context) (Report, error)) (Report, error) {
	if loader == nil {
		return Report{}, errors.New("reports: cache loader required")
	}
	if c == nil || c.client == nil {
		return loader(ctx)
	}
	key, err := c.key(ctx, ownerID)
	if err != nil {
		return loader(ctx)
	}
	payload, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var cached Report
		if err := json.Unmarshal(payload, &cached); err == nil {
			return cached, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		return loader(ctx)
	}

	report, err := loader(ctx)
	if err != nil {
		return Report{}, err
	}
	if raw, err := json.Marshal(report); err == nil {
		_ = c.client.Set(ctx, key, raw, c.ttl).Err()
	}
	return report, nil
}
