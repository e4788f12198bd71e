package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"part-sourcing-service/internal/domain"
	"part-sourcing-service/internal/platform/obs"
	"part-sourcing-service/internal/ports"
)

const (
	familiesKey   = "registry:families"
	rowsKeyPrefix = "registry:rows:"
)

// RedisRegistryCache is a read-through cache over the part family registry.
//
// The registry is read-only reference data with its own refresh cadence, so
// family mappings and spec rows are cached with a TTL. Exact-row resolution
// and nearest-neighbor queries stay on the live path. Redis failures degrade
// to the inner registry rather than failing the planning call.
type RedisRegistryCache struct {
	Inner  ports.PartRegistry
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisRegistryCache(inner ports.PartRegistry, client *redis.Client, ttl time.Duration) *RedisRegistryCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisRegistryCache{Inner: inner, Client: client, TTL: ttl}
}

func (c *RedisRegistryCache) Families(ctx context.Context) ([]domain.FamilyMapping, error) {
	var cached []domain.FamilyMapping
	if c.readThrough(ctx, familiesKey, &cached) {
		return cached, nil
	}

	mappings, err := c.Inner.Families(ctx)
	if err != nil {
		return nil, err
	}

	c.store(ctx, familiesKey, mappings)
	return mappings, nil
}

func (c *RedisRegistryCache) RowsForFamily(ctx context.Context, table domain.FamilyTable) ([]domain.PartRow, error) {
	key := rowsKeyPrefix + string(table)

	var cached []domain.PartRow
	if c.readThrough(ctx, key, &cached) {
		return cached, nil
	}

	rows, err := c.Inner.RowsForFamily(ctx, table)
	if err != nil {
		return nil, err
	}

	c.store(ctx, key, rows)
	return rows, nil
}

// FindExactRow stays on the live path: it is one indexed lookup per family
// and must see newly registered parts immediately.
func (c *RedisRegistryCache) FindExactRow(ctx context.Context, brand, code string) (*domain.PartMatch, error) {
	return c.Inner.FindExactRow(ctx, brand, code)
}

// NearestRows stays on the live path: distances depend on the query vector,
// so results are not reusable across calls.
func (c *RedisRegistryCache) NearestRows(ctx context.Context, table domain.FamilyTable, brand, code string, embedding []float32, k int) ([]domain.PartRow, error) {
	return c.Inner.NearestRows(ctx, table, brand, code, embedding, k)
}

// readThrough loads and decodes a cached value; false means miss or any
// cache-side failure.
func (c *RedisRegistryCache) readThrough(ctx context.Context, key string, out any) bool {
	if c.Client == nil {
		return false
	}

	raw, err := c.Client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			obs.L().Warnw("registry cache read failed",
				"req_id", obs.RequestID(ctx), "key", key, "err", err)
		}
		return false
	}

	if err := json.Unmarshal(raw, out); err != nil {
		obs.L().Warnw("registry cache decode failed",
			"req_id", obs.RequestID(ctx), "key", key, "err", err)
		return false
	}

	return true
}

func (c *RedisRegistryCache) store(ctx context.Context, key string, v any) {
	if c.Client == nil {
		return
	}

	raw, err := json.Marshal(v)
	if err != nil {
		obs.L().Warnw("registry cache encode failed",
			"req_id", obs.RequestID(ctx), "key", key, "err", fmt.Errorf("marshal %s: %w", key, err))
		return
	}

	if err := c.Client.Set(ctx, key, raw, c.TTL).Err(); err != nil {
		obs.L().Warnw("registry cache write failed",
			"req_id", obs.RequestID(ctx), "key", key, "err", err)
	}
}
