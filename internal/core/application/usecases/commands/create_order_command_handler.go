package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

// CreateOrderCommandHandler places orders in PENDING status with the delivery
// fee and ETA of their zone.
//
// When an idempotency store is configured, a command carrying a key the same
// actor already used with the same merchant in the last 24 hours fails with
// errs.ErrRequestIsDuplicate. The key is released again if placement fails,
// so the client may retry.
type CreateOrderCommandHandler struct {
	uowFactory  UoWFactory
	idempotency ports.IdempotencyStore
	logger      *slog.Logger
}

// NewCreateOrderCommandHandler creates the handler. idempotency may be nil,
// which disables duplicate detection.
func NewCreateOrderCommandHandler(uowFactory UoWFactory, idempotency ports.IdempotencyStore, logger *slog.Logger) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory:  uowFactory,
		idempotency: idempotency,
		logger:      logger,
	}
}

func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (err error) {
	if err = cmd.Validate(); err != nil {
		return err
	}

	if err = authorizePlacement(cmd.Actor(), cmd.UserID()); err != nil {
		return err
	}

	if key := cmd.ReservationKey(); key != "" && h.idempotency != nil {
		reserved, reserveErr := h.idempotency.Reserve(ctx, key)
		if reserveErr != nil {
			return reserveErr
		}
		if !reserved {
			return errs.NewRequestIsDuplicateError(cmd.IdempotencyKey())
		}
		defer func() {
			if err != nil {
				h.release(ctx, key)
			}
		}()
	}

	return h.place(ctx, cmd)
}

// release runs even when the request context is already cancelled, otherwise
// the key would stay claimed for an order that was never placed.
func (h CreateOrderCommandHandler) release(ctx context.Context, key string) {
	ctx = context.WithoutCancel(ctx)
	if err := h.idempotency.Release(ctx, key); err != nil {
		h.logger.ErrorContext(ctx, "Failed to release idempotency key", "key", key, "error", err)
	}
}

func (h CreateOrderCommandHandler) place(ctx context.Context, cmd CreateOrderCommand) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	deliveryZone, err := uow.ZoneRepository().Get(ctx, cmd.ZoneID())
	if err != nil {
		return err
	}
	if !deliveryZone.IsActive() {
		return errs.NewObjectNotFoundErrorWithCause("zone", cmd.ZoneID().String(),
			fmt.Errorf("zone %s is %s", deliveryZone.Code(), deliveryZone.Status()))
	}

	placed, err := order.NewOrder(cmd.OrderID(), cmd.MerchantID(), cmd.UserID(), cmd.Items(),
		order.DeliveryTerms{
			ZoneID:                   deliveryZone.ID(),
			DeliveryFee:              deliveryZone.DeliveryFee(),
			EstimatedDeliveryMinutes: deliveryZone.EstimatedDeliveryMinutes(),
		}, time.Now())
	if err != nil {
		return err
	}

	if err = uow.OrderRepository().Add(ctx, placed); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// authorizePlacement lets customers order for themselves and admins for anyone.
func authorizePlacement(actor kernel.Actor, userID kernel.UUID) error {
	switch {
	case actor.IsAdmin():
		return nil
	case actor.Role() == kernel.RoleCustomer && actor.ID().IsEqual(userID):
		return nil
	case actor.Role() == kernel.RoleCustomer:
		return errs.NewActorIsUnauthorizedError(actor.String(), "place an order for another customer")
	default:
		return errs.NewActorIsUnauthorizedError(actor.String(), "place an order")
	}
}
