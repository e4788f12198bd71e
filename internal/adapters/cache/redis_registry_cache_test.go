package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"part-sourcing-service/internal/adapters/memory"
	"part-sourcing-service/internal/domain"
)

func newCacheFixture(t *testing.T) (*RedisRegistryCache, *memory.PartRegistry, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	inner := memory.NewPartRegistry()
	inner.AddFamily("mlcc", domain.TableMLCC)
	inner.AddFamily("chip_resistor", domain.TableChipResistor)

	return NewRedisRegistryCache(inner, client, time.Minute), inner, mr
}

func TestRegistryCacheServesFamiliesFromRedis(t *testing.T) {
	cached, inner, mr := newCacheFixture(t)
	ctx := context.Background()

	first, err := cached.Families(ctx)
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, 1, inner.FamiliesCalls)
	assert.True(t, mr.Exists(familiesKey))

	second, err := cached.Families(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	// Second read came from Redis, not the inner registry.
	assert.Equal(t, 1, inner.FamiliesCalls)
}

func TestRegistryCacheExpiresWithTTL(t *testing.T) {
	cached, inner, mr := newCacheFixture(t)
	ctx := context.Background()

	_, err := cached.Families(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, inner.FamiliesCalls)

	mr.FastForward(2 * time.Minute)

	_, err = cached.Families(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.FamiliesCalls)
}

func TestRegistryCacheDegradesWhenRedisDown(t *testing.T) {
	cached, inner, mr := newCacheFixture(t)
	ctx := context.Background()

	mr.Close()

	families, err := cached.Families(ctx)
	require.NoError(t, err)
	assert.Len(t, families, 2)
	assert.Equal(t, 1, inner.FamiliesCalls)
}

func TestRegistryCacheCachesFamilyRows(t *testing.T) {
	cached, inner, _ := newCacheFixture(t)
	ctx := context.Background()

	inner.AddRow(domain.TableMLCC, domain.PartRow{Brand: "Murata", Code: "GRM188", FamilySlug: "mlcc"})

	rows, err := cached.RowsForFamily(ctx, domain.TableMLCC)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	// Later rows added to the inner registry are invisible until the TTL
	// rolls over: the registry refreshes on its own cadence.
	inner.AddRow(domain.TableMLCC, domain.PartRow{Brand: "TDK", Code: "C1608", FamilySlug: "mlcc"})

	rows, err = cached.RowsForFamily(ctx, domain.TableMLCC)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
