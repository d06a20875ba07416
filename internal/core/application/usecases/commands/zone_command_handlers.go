package commands

import (
	"context"
	"log/slog"
	"time"

	"marketplace/internal/core/domain/model/zone"
	"marketplace/internal/core/ports"
)

// CreateZoneCommandHandler lets admins add delivery zones. After commit the
// active-zone catalog is invalidated; a failed invalidation is logged and the
// stale snapshot expires on its own.
type CreateZoneCommandHandler struct {
	uowFactory ZoneUoWFactory
	catalog    ports.ZoneCatalog
	logger     *slog.Logger
}

func NewCreateZoneCommandHandler(uowFactory ZoneUoWFactory, catalog ports.ZoneCatalog, logger *slog.Logger) CreateZoneCommandHandler {
	return CreateZoneCommandHandler{
		uowFactory: uowFactory,
		catalog:    catalog,
		logger:     logger,
	}
}

func (h CreateZoneCommandHandler) Handle(ctx context.Context, cmd CreateZoneCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	if err := requireAdmin(cmd.Actor(), "create delivery zones"); err != nil {
		return err
	}

	created, err := zone.NewZone(cmd.ZoneID(), cmd.Attributes(), time.Now())
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.ZoneRepository().Add(ctx, created); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	invalidateCatalog(ctx, h.catalog, h.logger)
	return nil
}

// UpdateZoneCommandHandler lets admins edit delivery zones. Orders already
// placed keep the fee and ETA they were placed with.
type UpdateZoneCommandHandler struct {
	uowFactory ZoneUoWFactory
	catalog    ports.ZoneCatalog
	logger     *slog.Logger
}

func NewUpdateZoneCommandHandler(uowFactory ZoneUoWFactory, catalog ports.ZoneCatalog, logger *slog.Logger) UpdateZoneCommandHandler {
	return UpdateZoneCommandHandler{
		uowFactory: uowFactory,
		catalog:    catalog,
		logger:     logger,
	}
}

func (h UpdateZoneCommandHandler) Handle(ctx context.Context, cmd UpdateZoneCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	if err := requireAdmin(cmd.Actor(), "update delivery zones"); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	zoneRepo := uow.ZoneRepository()

	existing, err := zoneRepo.Get(ctx, cmd.ZoneID())
	if err != nil {
		return err
	}

	if err = existing.Update(cmd.Attributes(), time.Now()); err != nil {
		return err
	}

	if err = zoneRepo.Update(ctx, existing); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	invalidateCatalog(ctx, h.catalog, h.logger)
	return nil
}

func invalidateCatalog(ctx context.Context, catalog ports.ZoneCatalog, logger *slog.Logger) {
	if err := catalog.Invalidate(ctx); err != nil {
		logger.Warn("active zone cache invalidation failed", "error", err)
	}
}
