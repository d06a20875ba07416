package cache

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/zone"
	"marketplace/internal/pkg/errs"

	"github.com/paulmach/orb"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func getRedisClient(t *testing.T) *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	return client
}

type MockZoneCatalog struct {
	mock.Mock
}

func (m *MockZoneCatalog) ActiveZones(ctx context.Context) ([]*zone.Zone, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*zone.Zone), args.Error(1)
}

func (m *MockZoneCatalog) Invalidate(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testZone(t *testing.T, code string, priority int) *zone.Zone {
	t.Helper()

	geometry, err := zone.NewGeometry(orb.Polygon{
		{{36.78, -1.27}, {36.82, -1.27}, {36.82, -1.25}, {36.78, -1.25}, {36.78, -1.27}},
	})
	require.NoError(t, err)
	fee, err := kernel.MoneyFromString("99.50")
	require.NoError(t, err)

	z, err := zone.NewZone(kernel.NewUUID(), zone.Attributes{
		Code:                     code,
		Name:                     "Zone " + code,
		Geometry:                 geometry,
		DeliveryFee:              fee,
		EstimatedDeliveryMinutes: 40,
		Priority:                 priority,
		Status:                   zone.StatusActive,
		Landmarks:                []string{"Landmark " + code},
	}, time.Now())
	require.NoError(t, err)
	return z
}

func TestSnapshot_RoundTrip(t *testing.T) {
	original := []*zone.Zone{testZone(t, "A", 3), testZone(t, "B", 1)}

	raw, err := encodeSnapshot(original)
	require.NoError(t, err)
	restored, err := decodeSnapshot(raw)
	require.NoError(t, err)

	require.Len(t, restored, 2)
	for i := range original {
		assert.True(t, restored[i].IsEqual(original[i]))
		assert.Equal(t, original[i].Code(), restored[i].Code())
		assert.Equal(t, original[i].Priority(), restored[i].Priority())
		assert.Equal(t, "99.50", restored[i].DeliveryFee().String())
		assert.Equal(t, original[i].Landmarks(), restored[i].Landmarks())
		assert.Equal(t, original[i].Geometry().Orb(), restored[i].Geometry().Orb())
		assert.True(t, original[i].CreatedAt().Equal(restored[i].CreatedAt()))
	}
}

func TestDecodeSnapshot_RejectsGarbage(t *testing.T) {
	_, err := decodeSnapshot([]byte(`[{"id":"not-a-uuid"}]`))
	assert.Error(t, err)

	_, err = decodeSnapshot([]byte(`{`))
	assert.Error(t, err)
}

func TestCachedZoneCatalog_LoadsOnceThenServesFromCache(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()
	ctx := context.Background()
	client.Del(ctx, activeZonesKey)

	zones := []*zone.Zone{testZone(t, "CBD", 2)}
	source := new(MockZoneCatalog)
	source.On("ActiveZones", mock.Anything).Return(zones, nil).Once()
	catalog := NewCachedZoneCatalog(client, source, time.Minute, discardLogger())

	first, err := catalog.ActiveZones(ctx)
	require.NoError(t, err)
	second, err := catalog.ActiveZones(ctx)
	require.NoError(t, err)

	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.True(t, second[0].IsEqual(zones[0]))
	source.AssertNumberOfCalls(t, "ActiveZones", 1)

	ttl := client.TTL(ctx, activeZonesKey).Val()
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Minute)
}

func TestCachedZoneCatalog_InvalidateForcesReload(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()
	ctx := context.Background()
	client.Del(ctx, activeZonesKey)

	before := []*zone.Zone{testZone(t, "OLD", 1)}
	after := []*zone.Zone{testZone(t, "OLD", 1), testZone(t, "NEW", 5)}
	source := new(MockZoneCatalog)
	source.On("ActiveZones", mock.Anything).Return(before, nil).Once()
	source.On("ActiveZones", mock.Anything).Return(after, nil).Once()
	catalog := NewCachedZoneCatalog(client, source, time.Minute, discardLogger())

	got, err := catalog.ActiveZones(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	require.NoError(t, catalog.Invalidate(ctx))

	got, err = catalog.ActiveZones(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	source.AssertExpectations(t)
}

func TestCachedZoneCatalog_SourceErrorIsReturned(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()
	ctx := context.Background()
	client.Del(ctx, activeZonesKey)

	boom := errors.New("db down")
	source := new(MockZoneCatalog)
	source.On("ActiveZones", mock.Anything).Return(nil, boom)
	catalog := NewCachedZoneCatalog(client, source, time.Minute, discardLogger())

	_, err := catalog.ActiveZones(ctx)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, int64(0), client.Exists(ctx, activeZonesKey).Val())
}

func TestCachedZoneCatalog_Warm(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()
	ctx := context.Background()
	client.Del(ctx, activeZonesKey)

	source := new(MockZoneCatalog)
	source.On("ActiveZones", mock.Anything).Return([]*zone.Zone{testZone(t, "W1", 0), testZone(t, "W2", 0)}, nil).Once()
	catalog := NewCachedZoneCatalog(client, source, time.Minute, discardLogger())

	count, err := catalog.Warm(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	got, err := catalog.ActiveZones(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	source.AssertNumberOfCalls(t, "ActiveZones", 1)
}

func TestCachedZoneCatalog_InvalidationDuringLoadIsNotOverwritten(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()
	ctx := context.Background()
	client.Del(ctx, activeZonesKey)

	stale := []*zone.Zone{testZone(t, "OLD", 1)}
	fresh := []*zone.Zone{testZone(t, "OLD", 1), testZone(t, "NEW", 5)}
	source := new(MockZoneCatalog)
	catalog := NewCachedZoneCatalog(client, source, time.Minute, discardLogger())
	source.On("ActiveZones", mock.Anything).
		Run(func(mock.Arguments) { require.NoError(t, catalog.Invalidate(ctx)) }).
		Return(stale, nil).Once()
	source.On("ActiveZones", mock.Anything).Return(fresh, nil).Once()

	got, err := catalog.ActiveZones(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, int64(0), client.Exists(ctx, activeZonesKey).Val())

	got, err = catalog.ActiveZones(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, int64(1), client.Exists(ctx, activeZonesKey).Val())
	source.AssertExpectations(t)
}

func TestCachedZoneCatalog_WarmSkipsSnapshotInvalidatedWhileLoading(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()
	ctx := context.Background()
	client.Del(ctx, activeZonesKey)

	source := new(MockZoneCatalog)
	catalog := NewCachedZoneCatalog(client, source, time.Minute, discardLogger())
	source.On("ActiveZones", mock.Anything).
		Run(func(mock.Arguments) { require.NoError(t, catalog.Invalidate(ctx)) }).
		Return([]*zone.Zone{testZone(t, "W1", 0)}, nil).Once()

	count, err := catalog.Warm(ctx)

	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Equal(t, int64(0), client.Exists(ctx, activeZonesKey).Val())
}

func TestCachedZoneCatalog_InvalidateAdvancesGeneration(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()
	ctx := context.Background()
	catalog := NewCachedZoneCatalog(client, new(MockZoneCatalog), time.Minute, discardLogger())

	before, err := readGeneration(ctx, client)
	require.NoError(t, err)
	require.NoError(t, catalog.Invalidate(ctx))
	after, err := readGeneration(ctx, client)
	require.NoError(t, err)

	assert.Equal(t, before+1, after)
}

func TestIdempotencyStore_ReserveOnce(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()
	ctx := context.Background()
	key := "test-" + kernel.NewUUID().String()
	defer client.Del(ctx, idempotencyKeyPrefix+key)

	store := NewIdempotencyStore(client)

	ok, err := store.Reserve(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Reserve(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok, "second reservation of the same key must fail")

	ttl := client.TTL(ctx, idempotencyKeyPrefix+key).Val()
	assert.Greater(t, ttl, 23*time.Hour)
}

func TestIdempotencyStore_ReleaseAllowsRetry(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()
	ctx := context.Background()
	key := "test-" + kernel.NewUUID().String()
	defer client.Del(ctx, idempotencyKeyPrefix+key)

	store := NewIdempotencyStore(client)

	ok, err := store.Reserve(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, store.Release(ctx, key))

	ok, err = store.Reserve(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIdempotencyStore_EmptyKey(t *testing.T) {
	store := NewIdempotencyStore(nil)

	_, err := store.Reserve(context.Background(), "")

	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}
