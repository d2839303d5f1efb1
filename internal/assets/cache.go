package assets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/datacat/asset-service/internal/models"
)

// ErrCacheMiss reports an absent (or expired) cache entry. A miss is not a
// failure of the cache layer.
var ErrCacheMiss = errors.New("cache miss")

// listKey and byIDKey are the only two cache keys this service uses. Keeping
// them as functions means the invalidation sites are checked by the compiler
// instead of relying on matching string literals.
func listKey() string {
	return "assets:all"
}

func byIDKey(id int64) string {
	return fmt.Sprintf("asset:%d", id)
}

// Cache holds point-in-time snapshots of asset reads. Entries self-expire
// after the configured TTL; the list entry is additionally deleted on every
// create.
type Cache interface {
	GetList(ctx context.Context) ([]models.Asset, error)
	SetList(ctx context.Context, list []models.Asset) error
	DeleteList(ctx context.Context) error
	GetAsset(ctx context.Context, id int64) (*models.Asset, error)
	SetAsset(ctx context.Context, a *models.Asset) error
}

// RedisCache implements Cache storing JSON-serialized assets under TTL keys.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache creates a redis-backed asset cache with the given entry TTL.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = 300 * time.Second
	}
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) GetList(ctx context.Context) ([]models.Asset, error) {
	b, err := c.client.Get(ctx, listKey()).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("cache get %s: %w", listKey(), err)
	}
	var list []models.Asset
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, fmt.Errorf("cache decode %s: %w", listKey(), err)
	}
	return list, nil
}

func (c *RedisCache) SetList(ctx context.Context, list []models.Asset) error {
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, listKey(), b, c.ttl).Err()
}

func (c *RedisCache) DeleteList(ctx context.Context) error {
	return c.client.Del(ctx, listKey()).Err()
}

func (c *RedisCache) GetAsset(ctx context.Context, id int64) (*models.Asset, error) {
	b, err := c.client.Get(ctx, byIDKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("cache get %s: %w", byIDKey(id), err)
	}
	var a models.Asset
	if err := json.Unmarshal(b, &a); err != nil {
		return nil, fmt.Errorf("cache decode %s: %w", byIDKey(id), err)
	}
	return &a, nil
}

func (c *RedisCache) SetAsset(ctx context.Context, a *models.Asset) error {
	b, err := json.Marshal(a)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, byIDKey(a.ID), b, c.ttl).Err()
}
