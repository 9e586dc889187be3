package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"etemplate-service/internal/core/domain"
	output "etemplate-service/internal/core/ports/output"
)

const (
	fieldBody  = "body"
	fieldMtime = "mtime"
)

type cacheStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCacheStore keeps converted templates in a redis hash per key. A zero
// ttl keeps entries until they are overwritten.
func NewCacheStore(client *redis.Client, ttl time.Duration) output.CacheStore {
	return &cacheStore{client: client, ttl: ttl}
}

func (c *cacheStore) Get(ctx context.Context, key string) (*domain.CacheEntry, error) {
	fields, err := c.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}

	body, ok := fields[fieldBody]
	if !ok {
		return nil, domain.ErrCacheMiss
	}
	nanos, err := strconv.ParseInt(fields[fieldMtime], 10, 64)
	if err != nil {
		// entry without a usable age can never be proven fresh
		return nil, domain.ErrCacheMiss
	}

	return &domain.CacheEntry{Body: []byte(body), ModTime: time.Unix(0, nanos)}, nil
}

func (c *cacheStore) Put(ctx context.Context, key string, body []byte) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, fieldBody, body, fieldMtime, time.Now().UnixNano())
		if c.ttl > 0 {
			pipe.Expire(ctx, key, c.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis put %s: %w", key, err)
	}
	return nil
}

func (c *cacheStore) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}
