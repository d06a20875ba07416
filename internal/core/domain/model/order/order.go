package order

import (
	"errors"
	"fmt"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order was not built by NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrItemsAreRequired is returned when an order is placed without lines.
	ErrItemsAreRequired = errs.NewValueIsRequiredError("items")
)

// DeliveryTerms are copied from the delivery zone when the order is placed and
// never recomputed, so later zone edits do not affect existing orders.
type DeliveryTerms struct {
	ZoneID                   kernel.UUID
	DeliveryFee              kernel.Money
	EstimatedDeliveryMinutes int
}

func (t DeliveryTerms) validate() error {
	var etaErr error
	if t.EstimatedDeliveryMinutes <= 0 {
		etaErr = errs.NewValueIsInvalidErrorWithCause(
			"estimated delivery minutes is invalid",
			fmt.Errorf("%d is not greater than 0", t.EstimatedDeliveryMinutes),
		)
	}
	return errors.Join(t.ZoneID.Validate(), t.DeliveryFee.Validate(), etaErr)
}

// StatusChange describes one applied transition. Repositories persist it as
// the order's status history.
type StatusChange struct {
	OrderID   kernel.UUID
	From      Status
	To        Status
	Actor     kernel.Actor
	ChangedAt time.Time
}

// Order is the aggregate root of the order lifecycle.
//
// Invariants:
//   - identifiers of order, merchant, customer and zone are valid
//   - at least one item; items never change after placement
//   - status only moves along the transition table, never out of a terminal status
//   - updatedAt and version change on every transition
type Order struct {
	id         kernel.UUID
	merchantID kernel.UUID
	userID     kernel.UUID
	driverID   *kernel.UUID
	items      []Item
	terms      DeliveryTerms
	status     Status
	version    int
	createdAt  time.Time
	updatedAt  time.Time

	isConstructed bool
}

// NewOrder places an order in Pending status.
func NewOrder(
	id, merchantID, userID kernel.UUID,
	items []Item,
	terms DeliveryTerms,
	now time.Time,
) (*Order, error) {
	o := &Order{
		status:        Pending,
		version:       1,
		createdAt:     now.UTC(),
		updatedAt:     now.UTC(),
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setMerchantID(merchantID),
		o.setUserID(userID),
		o.setItems(items),
		o.setTerms(terms),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// State is the persisted form of an order used by RestoreOrder.
type State struct {
	ID         kernel.UUID
	MerchantID kernel.UUID
	UserID     kernel.UUID
	DriverID   *kernel.UUID
	Items      []Item
	Terms      DeliveryTerms
	Status     Status
	Version    int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// RestoreOrder rebuilds an order loaded from storage, re-checking every invariant.
func RestoreOrder(state State) (*Order, error) {
	o := &Order{
		version:       state.Version,
		createdAt:     state.CreatedAt,
		updatedAt:     state.UpdatedAt,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(state.ID),
		o.setMerchantID(state.MerchantID),
		o.setUserID(state.UserID),
		o.setDriverID(state.DriverID),
		o.setItems(state.Items),
		o.setTerms(state.Terms),
		o.setStatus(state.Status),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate ensures the order was built by a constructor.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) MerchantID() kernel.UUID {
	return o.merchantID
}

func (o *Order) UserID() kernel.UUID {
	return o.userID
}

// DriverID is nil until a driver accepts the order.
func (o *Order) DriverID() *kernel.UUID {
	return o.driverID
}

// Items returns a copy of the order lines.
func (o *Order) Items() []Item {
	out := make([]Item, len(o.items))
	copy(out, o.items)
	return out
}

func (o *Order) Terms() DeliveryTerms {
	return o.terms
}

func (o *Order) Status() Status {
	return o.status
}

func (o *Order) Version() int {
	return o.version
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// Subtotal is the sum of line totals.
func (o *Order) Subtotal() kernel.Money {
	total := kernel.ZeroMoney()
	for _, item := range o.items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// Total is the subtotal plus the delivery fee.
func (o *Order) Total() kernel.Money {
	return o.Subtotal().Add(o.terms.DeliveryFee)
}

// ChangeStatus applies target on behalf of actor. On failure the order is left
// untouched. Errors:
//   - errs.ErrActorIsUnauthorized: wrong owner, wrong role for the edge, or a customer
//   - errs.ErrTransitionIsInvalid: target is not an outgoing edge of the current status
//   - errs.ErrValueIsInvalid / errs.ErrValueIsRequired: malformed actor or target
func (o *Order) ChangeStatus(actor kernel.Actor, target Status, now time.Time) (StatusChange, error) {
	if err := errors.Join(o.Validate(), actor.Validate(), target.Validate()); err != nil {
		return StatusChange{}, err
	}

	if err := o.authorizeOwner(actor); err != nil {
		return StatusChange{}, err
	}

	edge, ok := o.status.EdgeTo(target)
	if !ok {
		return StatusChange{}, errs.NewTransitionIsInvalidError(o.status.String(), target.String())
	}

	if !actor.IsAdmin() && edge.Role != actor.Role() {
		return StatusChange{}, errs.NewActorIsUnauthorizedError(
			actor.Role().String(),
			fmt.Sprintf("move order from %s to %s", o.status, target),
		)
	}

	change := StatusChange{
		OrderID:   o.id,
		From:      o.status,
		To:        target,
		Actor:     actor,
		ChangedAt: now.UTC(),
	}

	if target == AcceptedByDriver && o.driverID == nil && actor.Role() == kernel.RoleDriver {
		driverID := actor.ID()
		o.driverID = &driverID
	}
	o.status = target
	o.updatedAt = change.ChangedAt
	o.version++

	return change, nil
}

func (o *Order) authorizeOwner(actor kernel.Actor) error {
	switch actor.Role() {
	case kernel.RoleAdmin:
		return nil
	case kernel.RoleMerchant:
		if !actor.ID().IsEqual(o.merchantID) {
			return errs.NewActorIsUnauthorizedError(actor.String(), "change another merchant's order")
		}
		return nil
	case kernel.RoleDriver:
		if o.driverID != nil && !actor.ID().IsEqual(*o.driverID) {
			return errs.NewActorIsUnauthorizedError(actor.String(), "change an order assigned to another driver")
		}
		return nil
	case kernel.RoleCustomer, kernel.RoleUnknown:
		return errs.NewActorIsUnauthorizedError(actor.String(), "change order status")
	}
	return errs.NewActorIsUnauthorizedError(actor.String(), "change order status")
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setMerchantID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("merchant id", err)
	}
	o.merchantID = id
	return nil
}

func (o *Order) setUserID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("user id", err)
	}
	o.userID = id
	return nil
}

func (o *Order) setDriverID(id *kernel.UUID) error {
	if id == nil {
		o.driverID = nil
		return nil
	}
	if err := id.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("driver id", err)
	}
	driverID := *id
	o.driverID = &driverID
	return nil
}

func (o *Order) setItems(items []Item) error {
	if len(items) == 0 {
		return ErrItemsAreRequired
	}
	for idx, item := range items {
		if err := item.validate(); err != nil {
			return errs.NewValueIsInvalidErrorWithCause(fmt.Sprintf("item %d", idx), err)
		}
	}
	o.items = make([]Item, len(items))
	copy(o.items, items)
	return nil
}

func (o *Order) setTerms(terms DeliveryTerms) error {
	if err := terms.validate(); err != nil {
		return err
	}
	o.terms = terms
	return nil
}

func (o *Order) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	o.status = status
	return nil
}
