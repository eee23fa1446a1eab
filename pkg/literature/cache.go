package literature

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/synaptica-ai/bedside/pkg/common/logger"
	"github.com/synaptica-ai/bedside/pkg/observability/metrics"
)

// ErrCacheMiss is returned by a Cache that holds no entry for a key.
var ErrCacheMiss = errors.New("literature: cache miss")

type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// RedisCache stores results as JSON strings.
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	return val, err
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

// CacheKey is stable for a query and its clamped result count.
func CacheKey(query string, maxResults int) string {
	sum := sha256.Sum256([]byte(query + "|" + strconv.Itoa(maxResults)))
	return "literature:" + hex.EncodeToString(sum[:])
}

// Cached serves repeated searches from a cache. Cache failures never fail a
// search.
type Cached struct {
	next  Searcher
	cache Cache
	ttl   time.Duration
}

func NewCached(next Searcher, cache Cache, ttl time.Duration) *Cached {
	return &Cached{next: next, cache: cache, ttl: ttl}
}

func (c *Cached) Search(ctx context.Context, query string, maxResults int) (*Result, error) {
	maxResults = ClampMaxResults(maxResults)
	key := CacheKey(query, maxResults)

	if raw, err := c.cache.Get(ctx, key); err == nil {
		var res Result
		if err := json.Unmarshal(raw, &res); err == nil {
			metrics.ObserveLiteratureCache(true)
			return &res, nil
		}
	} else if !errors.Is(err, ErrCacheMiss) {
		logger.Log.WithError(err).Warn("Literature cache read failed")
	}
	metrics.ObserveLiteratureCache(false)

	res, err := c.next.Search(ctx, query, maxResults)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(res); err == nil {
		if err := c.cache.Set(ctx, key, raw, c.ttl); err != nil {
			logger.Log.WithError(err).Warn("Literature cache write failed")
		}
	}
	return res, nil
}
