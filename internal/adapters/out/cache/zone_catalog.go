// Package cache holds the Redis-backed adapters: a read-through cache of the
// active delivery zones and the idempotency key store used by order placement.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/zone"
	"marketplace/internal/core/ports"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const (
	activeZonesKey           = "zones:active"
	activeZonesGenerationKey = "zones:active:generation"
	DefaultZoneCacheTTL      = 5 * time.Minute
)

// CachedZoneCatalog keeps a JSON snapshot of the active zones in Redis and
// loads it from source on a miss. Redis failures fall back to source.
//
// Every Invalidate bumps a generation counter. A snapshot loaded from source
// is written only while the generation it was loaded under is still current,
// so a load racing with a zone change never overwrites the invalidation.
type CachedZoneCatalog struct {
	client *redis.Client
	source ports.ZoneCatalog
	ttl    time.Duration
	logger *slog.Logger
}

func NewCachedZoneCatalog(client *redis.Client, source ports.ZoneCatalog, ttl time.Duration, logger *slog.Logger) *CachedZoneCatalog {
	if ttl <= 0 {
		ttl = DefaultZoneCacheTTL
	}
	return &CachedZoneCatalog{
		client: client,
		source: source,
		ttl:    ttl,
		logger: logger.With("component", "zone_cache"),
	}
}

func (c *CachedZoneCatalog) ActiveZones(ctx context.Context) ([]*zone.Zone, error) {
	raw, err := c.client.Get(ctx, activeZonesKey).Bytes()
	switch {
	case err == nil:
		zones, decodeErr := decodeSnapshot(raw)
		if decodeErr == nil {
			return zones, nil
		}
		c.logger.Warn("discarding unreadable zone snapshot", "error", decodeErr)
	case errors.Is(err, redis.Nil):
	default:
		c.logger.Warn("zone cache read failed", "error", err)
	}

	generation, generationErr := readGeneration(ctx, c.client)

	zones, err := c.source.ActiveZones(ctx)
	if err != nil {
		return nil, err
	}

	if generationErr != nil {
		c.logger.Warn("zone cache generation read failed", "error", generationErr)
		return zones, nil
	}
	if _, err = c.storeIfCurrent(ctx, generation, zones); err != nil {
		c.logger.Warn("zone cache write failed", "error", err)
	}
	return zones, nil
}

// Invalidate drops the snapshot and starts a new generation, so loads that
// began before the call are not cached.
func (c *CachedZoneCatalog) Invalidate(ctx context.Context) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, activeZonesGenerationKey)
		pipe.Del(ctx, activeZonesKey)
		return nil
	})
	return err
}

// Warm replaces the snapshot with a fresh load from source and returns the
// number of zones cached. It caches nothing, and returns zero, when the
// catalog was invalidated while loading.
func (c *CachedZoneCatalog) Warm(ctx context.Context) (int, error) {
	generation, err := readGeneration(ctx, c.client)
	if err != nil {
		return 0, err
	}

	zones, err := c.source.ActiveZones(ctx)
	if err != nil {
		return 0, err
	}

	stored, err := c.storeIfCurrent(ctx, generation, zones)
	if err != nil || !stored {
		return 0, err
	}
	return len(zones), nil
}

// storeIfCurrent writes the snapshot unless the generation moved past
// generation. It reports whether the snapshot was written.
func (c *CachedZoneCatalog) storeIfCurrent(ctx context.Context, generation int64, zones []*zone.Zone) (bool, error) {
	raw, err := encodeSnapshot(zones)
	if err != nil {
		return false, err
	}

	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := readGeneration(ctx, tx)
		if err != nil {
			return err
		}
		if current != generation {
			return errSnapshotIsStale
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, activeZonesKey, raw, c.ttl)
			return nil
		})
		return err
	}, activeZonesGenerationKey)

	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, errSnapshotIsStale), errors.Is(err, redis.TxFailedErr):
		c.logger.Debug("zone catalog changed while loading, snapshot not cached", "generation", generation)
		return false, nil
	default:
		return false, err
	}
}

var errSnapshotIsStale = errors.New("zone snapshot is stale")

type stringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// readGeneration returns the current generation. A missing counter is zero.
func readGeneration(ctx context.Context, client stringGetter) (int64, error) {
	generation, err := client.Get(ctx, activeZonesGenerationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return generation, err
}

// zoneSnapshot is the cached form of one zone.
type zoneSnapshot struct {
	ID                       string          `json:"id"`
	Code                     string          `json:"code"`
	Name                     string          `json:"name"`
	Geometry                 json.RawMessage `json:"geometry"`
	DeliveryFee              string          `json:"deliveryFee"`
	EstimatedDeliveryMinutes int             `json:"estimatedDeliveryMinutes"`
	Priority                 int             `json:"priority"`
	Status                   int             `json:"status"`
	Landmarks                []string        `json:"landmarks"`
	CreatedAt                time.Time       `json:"createdAt"`
	UpdatedAt                time.Time       `json:"updatedAt"`
}

func encodeSnapshot(zones []*zone.Zone) ([]byte, error) {
	snapshots := make([]zoneSnapshot, 0, len(zones))
	for _, z := range zones {
		geometry, err := z.Geometry().GeoJSON()
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, zoneSnapshot{
			ID:                       z.ID().String(),
			Code:                     z.Code(),
			Name:                     z.Name(),
			Geometry:                 geometry,
			DeliveryFee:              z.DeliveryFee().Amount().String(),
			EstimatedDeliveryMinutes: z.EstimatedDeliveryMinutes(),
			Priority:                 z.Priority(),
			Status:                   int(z.Status()),
			Landmarks:                z.Landmarks(),
			CreatedAt:                z.CreatedAt(),
			UpdatedAt:                z.UpdatedAt(),
		})
	}
	return json.Marshal(snapshots)
}

func decodeSnapshot(raw []byte) ([]*zone.Zone, error) {
	var snapshots []zoneSnapshot
	if err := json.Unmarshal(raw, &snapshots); err != nil {
		return nil, err
	}

	zones := make([]*zone.Zone, 0, len(snapshots))
	for _, s := range snapshots {
		id, err := kernel.UUIDFromString(s.ID)
		if err != nil {
			return nil, err
		}
		geometry, err := zone.GeometryFromGeoJSON(s.Geometry)
		if err != nil {
			return nil, err
		}
		amount, err := decimal.NewFromString(s.DeliveryFee)
		if err != nil {
			return nil, err
		}
		fee, err := kernel.NewMoney(amount)
		if err != nil {
			return nil, err
		}

		z, err := zone.RestoreZone(id, zone.Attributes{
			Code:                     s.Code,
			Name:                     s.Name,
			Geometry:                 geometry,
			DeliveryFee:              fee,
			EstimatedDeliveryMinutes: s.EstimatedDeliveryMinutes,
			Priority:                 s.Priority,
			Status:                   zone.Status(s.Status),
			Landmarks:                s.Landmarks,
		}, s.CreatedAt, s.UpdatedAt)
		if err != nil {
			return nil, err
		}
		zones = append(zones, z)
	}
	return zones, nil
}
