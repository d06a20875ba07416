package ports

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/zone"
)

// ZoneFilter narrows List. A nil Status lists zones in every status.
type ZoneFilter struct {
	Status *zone.Status
}

// ZoneRepository defines the persistence contract for delivery zones.
type ZoneRepository interface {
	// Add persists a new zone. A code already used by another zone is
	// rejected with errs.ErrValueIsInvalid.
	Add(ctx context.Context, aggregate *zone.Zone) error

	// Update persists the editable attributes of an existing zone.
	Update(ctx context.Context, aggregate *zone.Zone) error

	// Get retrieves a zone by id. Returns errs.ErrObjectNotFound when missing.
	Get(ctx context.Context, id kernel.UUID) (*zone.Zone, error)

	// List returns zones ordered by priority (highest first), then most recently created.
	List(ctx context.Context, filter ZoneFilter) ([]*zone.Zone, error)

	// Search returns every zone whose name or one of its landmarks contains
	// needle, ignoring case. Ranking is left to the caller.
	Search(ctx context.Context, needle string) ([]*zone.Zone, error)
}

// ZoneCatalog serves the active zones used by coordinate lookups. Implementations
// may cache; Invalidate drops whatever was cached after zones change.
type ZoneCatalog interface {
	ActiveZones(ctx context.Context) ([]*zone.Zone, error)
	Invalidate(ctx context.Context) error
}
