// Package zonerepo provides data transfer objects and mapping functions for
// delivery zone persistence. Geometry is stored as a GeoJSON geometry object in
// a jsonb column and landmarks as a text[] column.
package zonerepo

import (
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/zone"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// ZoneDTO represents the database structure for persisting delivery zones.
type ZoneDTO struct {
	ID                       uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Code                     string          `gorm:"type:varchar(32);not null;uniqueIndex"`
	Name                     string          `gorm:"type:varchar(128);not null"`
	Geometry                 string          `gorm:"type:jsonb;not null"`
	DeliveryFee              decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	EstimatedDeliveryMinutes int             `gorm:"type:int;not null"`
	Priority                 int             `gorm:"type:int;not null;index"`
	Status                   int             `gorm:"type:smallint;not null;index"`
	Landmarks                pq.StringArray  `gorm:"type:text[];not null"`
	CreatedAt                time.Time       `gorm:"not null;autoCreateTime:false"`
	UpdatedAt                time.Time       `gorm:"not null;autoUpdateTime:false"`
}

// TableName specifies the database table name for zone entities.
func (ZoneDTO) TableName() string {
	return "delivery_zones"
}

// fromDomain converts a zone aggregate to its database representation.
func fromDomain(aggregate *zone.Zone) (ZoneDTO, error) {
	geometry, err := aggregate.Geometry().GeoJSON()
	if err != nil {
		return ZoneDTO{}, err
	}

	return ZoneDTO{
		ID:                       aggregate.ID().Bytes(),
		Code:                     aggregate.Code(),
		Name:                     aggregate.Name(),
		Geometry:                 string(geometry),
		DeliveryFee:              aggregate.DeliveryFee().Amount(),
		EstimatedDeliveryMinutes: aggregate.EstimatedDeliveryMinutes(),
		Priority:                 aggregate.Priority(),
		Status:                   int(aggregate.Status()),
		Landmarks:                pq.StringArray(aggregate.Landmarks()),
		CreatedAt:                aggregate.CreatedAt(),
		UpdatedAt:                aggregate.UpdatedAt(),
	}, nil
}

// toDomain converts a database DTO to a zone aggregate using RestoreZone.
func toDomain(dto ZoneDTO) (*zone.Zone, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	geometry, err := zone.GeometryFromGeoJSON([]byte(dto.Geometry))
	if err != nil {
		return nil, err
	}

	fee, err := kernel.NewMoney(dto.DeliveryFee)
	if err != nil {
		return nil, err
	}

	return zone.RestoreZone(id, zone.Attributes{
		Code:                     dto.Code,
		Name:                     dto.Name,
		Geometry:                 geometry,
		DeliveryFee:              fee,
		EstimatedDeliveryMinutes: dto.EstimatedDeliveryMinutes,
		Priority:                 dto.Priority,
		Status:                   zone.Status(dto.Status),
		Landmarks:                dto.Landmarks,
	}, dto.CreatedAt, dto.UpdatedAt)
}

func toDomainList(dtos []ZoneDTO) ([]*zone.Zone, error) {
	zones := make([]*zone.Zone, 0, len(dtos))
	for _, dto := range dtos {
		z, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		zones = append(zones, z)
	}
	return zones, nil
}
