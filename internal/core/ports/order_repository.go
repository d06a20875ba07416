// Package ports defines the contracts between the marketplace core and its
// infrastructure: repositories, the unit of work, the zone catalog and the
// idempotency store.
package ports

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a newly placed order together with its items.
	Add(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order with its items.
	// Returns errs.ErrObjectNotFound when no order has the id.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// UpdateStatus persists a transition applied by order.ChangeStatus and
	// appends it to the order's status history.
	//
	// The write is conditional on the stored status still being change.From.
	// When another writer got there first nothing is written and
	// errs.ErrVersionIsInvalid is returned.
	UpdateStatus(ctx context.Context, aggregate *order.Order, change order.StatusChange) error
}
