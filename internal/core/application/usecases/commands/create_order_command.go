package commands

import (
	"errors"
	"fmt"
	"strings"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

const maxIdempotencyKeyLength = 255

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand places an order with a merchant for delivery into a zone.
//
// Example:
//
//	item, _ := order.NewItem(productID, 2, price)
//	cmd, err := NewCreateOrderCommand(kernel.NewUUID(), actor, merchantID, userID, zoneID,
//	    []order.Item{item}, c.Request().Header.Get("Idempotency-Key"))
//	if err != nil {
//	    return err
//	}
//	err = handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID        kernel.UUID
	actor          kernel.Actor
	merchantID     kernel.UUID
	userID         kernel.UUID
	zoneID         kernel.UUID
	items          []order.Item
	idempotencyKey string

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates identifiers and the presence of items. Item
// contents are checked again by order.NewOrder. idempotencyKey may be empty.
func NewCreateOrderCommand(
	orderID kernel.UUID,
	actor kernel.Actor,
	merchantID, userID, zoneID kernel.UUID,
	items []order.Item,
	idempotencyKey string,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setActor(actor),
		cmd.setMerchantID(merchantID),
		cmd.setUserID(userID),
		cmd.setZoneID(zoneID),
		cmd.setItems(items),
		cmd.setIdempotencyKey(idempotencyKey),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c CreateOrderCommand) Actor() kernel.Actor {
	return c.actor
}

func (c CreateOrderCommand) MerchantID() kernel.UUID {
	return c.merchantID
}

func (c CreateOrderCommand) UserID() kernel.UUID {
	return c.userID
}

func (c CreateOrderCommand) ZoneID() kernel.UUID {
	return c.zoneID
}

// Items returns a copy of the order lines.
func (c CreateOrderCommand) Items() []order.Item {
	out := make([]order.Item, len(c.items))
	copy(out, c.items)
	return out
}

func (c CreateOrderCommand) IdempotencyKey() string {
	return c.idempotencyKey
}

// ReservationKey scopes the idempotency key to the actor and merchant, so
// unrelated callers never collide. It is empty when no key was given.
func (c CreateOrderCommand) ReservationKey() string {
	if c.idempotencyKey == "" {
		return ""
	}
	return fmt.Sprintf("order:%s:%s:%s:%s", c.actor.Role(), c.actor.ID(), c.merchantID, c.idempotencyKey)
}

func (c *CreateOrderCommand) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.orderID = id
	return nil
}

func (c *CreateOrderCommand) setActor(actor kernel.Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	c.actor = actor
	return nil
}

func (c *CreateOrderCommand) setMerchantID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("merchant id", err)
	}
	c.merchantID = id
	return nil
}

func (c *CreateOrderCommand) setUserID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("user id", err)
	}
	c.userID = id
	return nil
}

func (c *CreateOrderCommand) setZoneID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("zone id", err)
	}
	c.zoneID = id
	return nil
}

func (c *CreateOrderCommand) setItems(items []order.Item) error {
	if len(items) == 0 {
		return order.ErrItemsAreRequired
	}
	c.items = make([]order.Item, len(items))
	copy(c.items, items)
	return nil
}

func (c *CreateOrderCommand) setIdempotencyKey(key string) error {
	key = strings.TrimSpace(key)
	if len(key) > maxIdempotencyKeyLength {
		return errs.NewValueIsOutOfRangeError("idempotency key length", len(key), 1, maxIdempotencyKeyLength)
	}
	c.idempotencyKey = key
	return nil
}
