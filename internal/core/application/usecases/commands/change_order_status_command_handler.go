package commands

import (
	"context"
	"time"

	"marketplace/internal/pkg/errs"
)

// ChangeOrderStatusCommandHandler applies one lifecycle transition.
//
// The order is read, checked and written inside one transaction. The write is
// conditional on the status that was read, so of two concurrent transitions
// from the same status exactly one succeeds; the other gets
// errs.ErrVersionIsInvalid and nothing of it is stored.
//
// Example:
//
//	cmd, _ := NewChangeOrderStatusCommand(orderID, driver, order.OnTheWay)
//	err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, errs.ErrActorIsUnauthorized):
//	    // 403
//	case errors.Is(err, errs.ErrTransitionIsInvalid):
//	    // 400
//	case errors.Is(err, errs.ErrVersionIsInvalid):
//	    // 409, someone else moved the order first
//	}
type ChangeOrderStatusCommandHandler struct {
	uowFactory OrderUoWFactory
}

func NewChangeOrderStatusCommandHandler(uowFactory OrderUoWFactory) ChangeOrderStatusCommandHandler {
	return ChangeOrderStatusCommandHandler{
		uowFactory: uowFactory,
	}
}

func (h ChangeOrderStatusCommandHandler) Handle(ctx context.Context, cmd ChangeOrderStatusCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()

	current, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if merchantID := cmd.MerchantID(); merchantID != nil && !merchantID.IsEqual(current.MerchantID()) {
		return errs.NewActorIsUnauthorizedError(cmd.Actor().String(), "change an order of another merchant")
	}

	change, err := current.ChangeStatus(cmd.Actor(), cmd.Target(), time.Now())
	if err != nil {
		return err
	}

	if err = orderRepo.UpdateStatus(ctx, current, change); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
