package queries

import (
	"context"
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/zone"
	"marketplace/internal/pkg/guard"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrGetZoneStatisticsQueryIsNotConstructed = errors.New(
	"GetZoneStatisticsQuery must be created via NewGetZoneStatisticsQuery constructor",
)

// GetZoneStatisticsQuery aggregates zone and order counts for reporting.
type GetZoneStatisticsQuery struct {
	guard guard.ConstructorGuard
}

func NewGetZoneStatisticsQuery() GetZoneStatisticsQuery {
	return GetZoneStatisticsQuery{guard: guard.NewConstructorGuard()}
}

func (q GetZoneStatisticsQuery) Validate() error {
	return q.guard.Validate(ErrGetZoneStatisticsQueryIsNotConstructed)
}

type ZoneOrderCount struct {
	ZoneID     kernel.UUID
	Code       string
	Name       string
	OrderCount int64
}

// ZoneStatisticsResponse always reports every zone status, with zero for
// statuses no zone is in. OrdersPerZone lists every zone, busiest first.
type ZoneStatisticsResponse struct {
	TotalZones    int64
	ZonesByStatus map[zone.Status]int64
	OrdersPerZone []ZoneOrderCount
}

type GetZoneStatisticsQueryHandler struct {
	db *gorm.DB
}

func NewGetZoneStatisticsQueryHandler(db *gorm.DB) GetZoneStatisticsQueryHandler {
	return GetZoneStatisticsQueryHandler{db: db}
}

func (h GetZoneStatisticsQueryHandler) Handle(ctx context.Context, query GetZoneStatisticsQuery) (ZoneStatisticsResponse, error) {
	if err := query.Validate(); err != nil {
		return ZoneStatisticsResponse{}, err
	}

	db := h.db.WithContext(ctx)
	stats := ZoneStatisticsResponse{
		ZonesByStatus: map[zone.Status]int64{
			zone.StatusActive:   0,
			zone.StatusInactive: 0,
		},
		OrdersPerZone: make([]ZoneOrderCount, 0),
	}

	statusRows, err := db.Raw(`
		SELECT status, COUNT(*)
		FROM delivery_zones
		GROUP BY status
	`).Rows()
	if err != nil {
		return ZoneStatisticsResponse{}, err
	}
	defer statusRows.Close()

	for statusRows.Next() {
		var status int
		var count int64
		if err = statusRows.Scan(&status, &count); err != nil {
			return ZoneStatisticsResponse{}, err
		}
		stats.ZonesByStatus[zone.Status(status)] = count
		stats.TotalZones += count
	}
	if err = statusRows.Err(); err != nil {
		return ZoneStatisticsResponse{}, err
	}

	zoneRows, err := db.Raw(`
		SELECT z.id, z.code, z.name, COUNT(o.id) AS order_count
		FROM delivery_zones z
		LEFT JOIN orders o ON o.zone_id = z.id
		GROUP BY z.id, z.code, z.name
		ORDER BY order_count DESC, z.code
	`).Rows()
	if err != nil {
		return ZoneStatisticsResponse{}, err
	}
	defer zoneRows.Close()

	for zoneRows.Next() {
		var id uuid.UUID
		var entry ZoneOrderCount
		if err = zoneRows.Scan(&id, &entry.Code, &entry.Name, &entry.OrderCount); err != nil {
			return ZoneStatisticsResponse{}, err
		}
		if entry.ZoneID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return ZoneStatisticsResponse{}, err
		}
		stats.OrdersPerZone = append(stats.OrdersPerZone, entry)
	}
	if err = zoneRows.Err(); err != nil {
		return ZoneStatisticsResponse{}, err
	}

	return stats, nil
}
