package ports

import (
	"context"
)

// UnitOfWorkFactory hands out one UnitOfWork per command. Instances are never
// shared between requests.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork spans the order and zone repositories with a single transaction.
// Callers begin and finish it explicitly; repositories taken before Begin use
// the plain connection.
type UnitOfWork interface {
	Begin(ctx context.Context) error

	// Commit fails when no transaction is open.
	Commit(ctx context.Context) error

	// Rollback fails when no transaction is open, including after Commit.
	Rollback(ctx context.Context) error

	OrderRepository() OrderRepository
	ZoneRepository() ZoneRepository
}
