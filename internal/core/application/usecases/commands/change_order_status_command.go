package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrChangeOrderStatusCommandIsNotConstructed = errors.New(
	"ChangeOrderStatusCommand must be created via NewChangeOrderStatusCommand or NewChangeMerchantOrderStatusCommand",
)

// ChangeOrderStatusCommand moves an order to a new status on behalf of an actor.
// When issued through a merchant route the command also carries that merchant's
// id and the order must belong to it.
type ChangeOrderStatusCommand struct { //nolint:recvcheck //using for validation
	orderID    kernel.UUID
	actor      kernel.Actor
	target     order.Status
	merchantID *kernel.UUID

	guard guard.ConstructorGuard
}

func NewChangeOrderStatusCommand(orderID kernel.UUID, actor kernel.Actor, target order.Status) (ChangeOrderStatusCommand, error) {
	cmd := ChangeOrderStatusCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setActor(actor),
		cmd.setTarget(target),
	); err != nil {
		return ChangeOrderStatusCommand{}, err
	}

	return cmd, nil
}

// NewChangeMerchantOrderStatusCommand scopes the change to merchantID's orders.
func NewChangeMerchantOrderStatusCommand(
	merchantID, orderID kernel.UUID,
	actor kernel.Actor,
	target order.Status,
) (ChangeOrderStatusCommand, error) {
	var merchantErr error
	if err := merchantID.Validate(); err != nil {
		merchantErr = errs.NewValueIsInvalidErrorWithCause("merchant id", err)
	}

	cmd, err := NewChangeOrderStatusCommand(orderID, actor, target)
	if err = errors.Join(merchantErr, err); err != nil {
		return ChangeOrderStatusCommand{}, err
	}

	cmd.merchantID = &merchantID
	return cmd, nil
}

func (c ChangeOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrChangeOrderStatusCommandIsNotConstructed)
}

func (c ChangeOrderStatusCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c ChangeOrderStatusCommand) Actor() kernel.Actor {
	return c.actor
}

func (c ChangeOrderStatusCommand) Target() order.Status {
	return c.target
}

// MerchantID is the merchant scope of the request, nil outside merchant routes.
func (c ChangeOrderStatusCommand) MerchantID() *kernel.UUID {
	if c.merchantID == nil {
		return nil
	}
	id := *c.merchantID
	return &id
}

func (c *ChangeOrderStatusCommand) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.orderID = id
	return nil
}

func (c *ChangeOrderStatusCommand) setActor(actor kernel.Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	c.actor = actor
	return nil
}

func (c *ChangeOrderStatusCommand) setTarget(target order.Status) error {
	if err := target.Validate(); err != nil {
		return err
	}
	c.target = target
	return nil
}
