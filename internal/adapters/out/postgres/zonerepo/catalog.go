package zonerepo

import (
	"context"

	"marketplace/internal/core/domain/model/zone"

	"gorm.io/gorm"
)

// GormZoneCatalog serves active zones straight from the database. It is used
// directly when no cache is configured and as the source behind the Redis cache.
type GormZoneCatalog struct {
	db *gorm.DB
}

func NewGormZoneCatalog(db *gorm.DB) *GormZoneCatalog {
	return &GormZoneCatalog{db: db}
}

// ActiveZones loads every ACTIVE zone ordered like GormZoneRepository.List.
func (c *GormZoneCatalog) ActiveZones(ctx context.Context) ([]*zone.Zone, error) {
	var dtos []ZoneDTO
	if err := c.db.WithContext(ctx).
		Where("status = ?", int(zone.StatusActive)).
		Order(listOrder).
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	return toDomainList(dtos)
}

// Invalidate is a no-op; nothing is cached.
func (c *GormZoneCatalog) Invalidate(context.Context) error {
	return nil
}
