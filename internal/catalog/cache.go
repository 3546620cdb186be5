package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"storefront/internal/models"

	"github.com/redis/go-redis/v9"
)

// ListCache caches product list responses (popular, trending).
type ListCache interface {
	Get(ctx context.Context, key string) ([]models.Product, error)
	Set(ctx context.Context, key string, products []models.Product) error
	Delete(ctx context.Context, key string) error
}

var ErrCacheMiss = errors.New("cache miss")

type redisCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

// NewRedisCache caches lists in Redis with a jittered TTL so hot keys
// don't all expire at once.
func NewRedisCache(client *redis.Client) ListCache {
	return &redisCache{
		client:  client,
		baseTTL: 5 * time.Minute,
	}
}

func (r *redisCache) Get(ctx context.Context, key string) ([]models.Product, error) {
	data, err := r.client.Get(ctx, cacheKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var products []models.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("unmarshal products failed: %w", err)
	}
	return products, nil
}

func (r *redisCache) Set(ctx context.Context, key string, products []models.Product) error {
	data, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("marshal products failed: %w", err)
	}

	jitter := time.Duration(rand.Intn(60)) * time.Second
	if err := r.client.Set(ctx, cacheKey(key), data, r.baseTTL+jitter).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *redisCache) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, cacheKey(key)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func cacheKey(key string) string {
	return fmt.Sprintf("catalog:%s", key)
}

// noopCache is used when no Redis address is configured.
type noopCache struct{}

func NewNoopCache() ListCache { return noopCache{} }

func (noopCache) Get(context.Context, string) ([]models.Product, error) {
	return nil, ErrCacheMiss
}
func (noopCache) Set(context.Context, string, []models.Product) error { return nil }
func (noopCache) Delete(context.Context, string) error                { return nil }
