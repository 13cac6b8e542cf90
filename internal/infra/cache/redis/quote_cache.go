package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"campstation/internal/app/policies"
)

// QuoteCache stores encoded quotes in Redis.
type QuoteCache struct {
	client *goredis.Client
}

func NewQuoteCache(ctx context.Context, addr, password string, db int) (*QuoteCache, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: connect %s: %w", addr, err)
	}
	return &QuoteCache{client: client}, nil
}

// NewQuoteCacheWithClient wraps an existing client.
func NewQuoteCacheWithClient(client *goredis.Client) *QuoteCache {
	return &QuoteCache{client: client}
}

func (c *QuoteCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (c *QuoteCache) Generation(ctx context.Context, siteID int64) (int64, error) {
	gen, err := c.client.Get(ctx, policies.QuoteGenerationKey(siteID)).Int64()
	if errors.Is(err, goredis.Nil) {
		return 0, nil
	}
	return gen, err
}

// Set writes inside a WATCH on the site's generation key, so an
// InvalidateSite that lands between the check and the write aborts it.
func (c *QuoteCache) Set(ctx context.Context, siteID, generation int64, key string, payload []byte, ttl time.Duration) (bool, error) {
	if ttl < 0 {
		ttl = 0
	}
	genKey := policies.QuoteGenerationKey(siteID)
	written := false
	err := c.client.Watch(ctx, func(tx *goredis.Tx) error {
		current, err := tx.Get(ctx, genKey).Int64()
		if err != nil && !errors.Is(err, goredis.Nil) {
			return err
		}
		if current != generation {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.Set(ctx, key, payload, ttl)
			return nil
		})
		if err == nil {
			written = true
		}
		return err
	}, genKey)
	if errors.Is(err, goredis.TxFailedErr) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis: set %s: %w", key, err)
	}
	return written, nil
}

// InvalidateSite advances the site generation, then scans for the site's key
// prefix and deletes matches in batches.
func (c *QuoteCache) InvalidateSite(ctx context.Context, siteID int64) (int, error) {
	if err := c.client.Incr(ctx, policies.QuoteGenerationKey(siteID)).Err(); err != nil {
		return 0, fmt.Errorf("redis: bump generation: %w", err)
	}
	pattern := policies.QuoteKeyPrefix(siteID) + "*"
	removed := 0
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return removed, fmt.Errorf("redis: scan %s: %w", pattern, err)
		}
		if len(keys) > 0 {
			n, err := c.client.Del(ctx, keys...).Result()
			if err != nil {
				return removed, fmt.Errorf("redis: delete quotes: %w", err)
			}
			removed += int(n)
		}
		if next == 0 {
			return removed, nil
		}
		cursor = next
	}
}

func (c *QuoteCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *QuoteCache) Close() error {
	return c.client.Close()
}

var _ policies.QuoteCache = (*QuoteCache)(nil)
