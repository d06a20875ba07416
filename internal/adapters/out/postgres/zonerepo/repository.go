package zonerepo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/zone"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"

	"gorm.io/gorm"
)

const listOrder = "priority DESC, created_at DESC, id"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// GormZoneRepository implements ports.ZoneRepository using GORM.
type GormZoneRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormZoneRepository creates a new GORM zone repository.
func NewGormZoneRepository(db *gorm.DB, tracker aggregateTracker) *GormZoneRepository {
	return &GormZoneRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new zone. The database must be opened with TranslateError so
// code collisions surface as gorm.ErrDuplicatedKey.
func (r *GormZoneRepository) Add(ctx context.Context, aggregate *zone.Zone) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}

	if err = r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewValueIsInvalidErrorWithCause("code", fmt.Errorf("%s is already used by another zone", dto.Code))
		}
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves the editable attributes of an existing zone.
func (r *GormZoneRepository) Update(ctx context.Context, aggregate *zone.Zone) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Model(&ZoneDTO{}).Where("id = ?", dto.ID).Updates(map[string]any{
		"code":                       dto.Code,
		"name":                       dto.Name,
		"geometry":                   dto.Geometry,
		"delivery_fee":               dto.DeliveryFee,
		"estimated_delivery_minutes": dto.EstimatedDeliveryMinutes,
		"priority":                   dto.Priority,
		"status":                     dto.Status,
		"landmarks":                  dto.Landmarks,
		"updated_at":                 dto.UpdatedAt,
	})
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return errs.NewValueIsInvalidErrorWithCause("code", fmt.Errorf("%s is already used by another zone", dto.Code))
		}
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("zone", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a zone by ID.
func (r *GormZoneRepository) Get(ctx context.Context, id kernel.UUID) (*zone.Zone, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto ZoneDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("zone", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// List retrieves zones ordered by priority, newest first on equal priority.
func (r *GormZoneRepository) List(ctx context.Context, filter ports.ZoneFilter) ([]*zone.Zone, error) {
	query := r.db.WithContext(ctx).Order(listOrder)
	if filter.Status != nil {
		if err := filter.Status.Validate(); err != nil {
			return nil, err
		}
		query = query.Where("status = ?", int(*filter.Status))
	}

	var dtos []ZoneDTO
	if err := query.Find(&dtos).Error; err != nil {
		return nil, err
	}

	return toDomainList(dtos)
}

// Search retrieves zones whose name or any landmark contains needle, ignoring case.
func (r *GormZoneRepository) Search(ctx context.Context, needle string) ([]*zone.Zone, error) {
	needle = strings.TrimSpace(needle)
	if needle == "" {
		return nil, errs.NewValueIsRequiredError("query")
	}

	pattern := "%" + likeEscaper.Replace(needle) + "%"

	var dtos []ZoneDTO
	if err := r.db.WithContext(ctx).
		Where("name ILIKE ? OR EXISTS (SELECT 1 FROM unnest(landmarks) AS landmark WHERE landmark ILIKE ?)", pattern, pattern).
		Order(listOrder).
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	return toDomainList(dtos)
}
