package queries

import (
	"context"
	"errors"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrGetMerchantOrdersQueryIsNotConstructed = errors.New(
		"GetMerchantOrdersQuery must be created via NewGetMerchantOrdersQuery constructor",
	)
	ErrGetOrderQueryIsNotConstructed = errors.New(
		"GetOrderQuery must be created via NewGetOrderQuery or NewGetOrderHistoryQuery constructor",
	)
)

const orderSummaryColumns = `
	o.id,
	o.merchant_id,
	o.user_id,
	o.driver_id,
	o.zone_id,
	o.status,
	o.delivery_fee,
	COALESCE((SELECT SUM(i.quantity * i.unit_price) FROM order_items i WHERE i.order_id = o.id), 0),
	o.estimated_delivery_minutes,
	o.version,
	o.created_at,
	o.updated_at`

// OrderSummaryResponse is an order without its lines.
type OrderSummaryResponse struct {
	ID                       kernel.UUID
	MerchantID               kernel.UUID
	UserID                   kernel.UUID
	DriverID                 *kernel.UUID
	ZoneID                   kernel.UUID
	Status                   order.Status
	DeliveryFee              kernel.Money
	Subtotal                 kernel.Money
	Total                    kernel.Money
	EstimatedDeliveryMinutes int
	Version                  int
	CreatedAt                time.Time
	UpdatedAt                time.Time
}

type OrderItemResponse struct {
	ProductID kernel.UUID
	Quantity  int
	UnitPrice kernel.Money
	LineTotal kernel.Money
}

// OrderResponse is an order with its lines in placement order.
type OrderResponse struct {
	OrderSummaryResponse
	Items []OrderItemResponse
}

// GetMerchantOrdersQuery lists a merchant's orders, newest first.
type GetMerchantOrdersQuery struct {
	actor      kernel.Actor
	merchantID kernel.UUID
	status     *order.Status
	guard      guard.ConstructorGuard
}

func NewGetMerchantOrdersQuery(actor kernel.Actor, merchantID kernel.UUID, status *order.Status) (GetMerchantOrdersQuery, error) {
	var statusErr error
	if status != nil {
		statusErr = status.Validate()
	}
	if err := errors.Join(actor.Validate(), merchantID.Validate(), statusErr); err != nil {
		return GetMerchantOrdersQuery{}, err
	}

	q := GetMerchantOrdersQuery{actor: actor, merchantID: merchantID, guard: guard.NewConstructorGuard()}
	if status != nil {
		s := *status
		q.status = &s
	}
	return q, nil
}

func (q GetMerchantOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetMerchantOrdersQueryIsNotConstructed)
}

type GetMerchantOrdersQueryHandler struct {
	db *gorm.DB
}

func NewGetMerchantOrdersQueryHandler(db *gorm.DB) GetMerchantOrdersQueryHandler {
	return GetMerchantOrdersQueryHandler{db: db}
}

// Handle is allowed for admins and for the merchant itself.
func (h GetMerchantOrdersQueryHandler) Handle(ctx context.Context, query GetMerchantOrdersQuery) ([]OrderSummaryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	actor := query.actor
	if !actor.IsAdmin() && (actor.Role() != kernel.RoleMerchant || !actor.ID().IsEqual(query.merchantID)) {
		return nil, errs.NewActorIsUnauthorizedError(actor.String(), "list the orders of merchant "+query.merchantID.String())
	}

	sqlText := `SELECT` + orderSummaryColumns + `
		FROM orders o
		WHERE o.merchant_id = ?`
	args := []any{query.merchantID.Bytes()}
	if query.status != nil {
		sqlText += ` AND o.status = ?`
		args = append(args, int(*query.status))
	}
	sqlText += ` ORDER BY o.created_at DESC, o.id`

	rows, err := h.db.WithContext(ctx).Raw(sqlText, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]OrderSummaryResponse, 0)
	for rows.Next() {
		summary, scanErr := scanOrderSummary(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		orders = append(orders, summary)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

// GetOrderQuery reads one order. The same query value drives the history read.
type GetOrderQuery struct {
	actor   kernel.Actor
	orderID kernel.UUID
	guard   guard.ConstructorGuard
}

func NewGetOrderQuery(actor kernel.Actor, orderID kernel.UUID) (GetOrderQuery, error) {
	if err := errors.Join(actor.Validate(), orderID.Validate()); err != nil {
		return GetOrderQuery{}, err
	}
	return GetOrderQuery{actor: actor, orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

// GetOrderQueryHandler reads an order with its items.
//
// Readers: admins, the owning merchant, the ordering customer, the assigned
// driver, and any driver while no driver is assigned yet.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (OrderResponse, error) {
	if err := query.Validate(); err != nil {
		return OrderResponse{}, err
	}

	db := h.db.WithContext(ctx)

	rows, err := db.Raw(`SELECT`+orderSummaryColumns+`
		FROM orders o
		WHERE o.id = ?`, query.orderID.Bytes()).Rows()
	if err != nil {
		return OrderResponse{}, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return OrderResponse{}, err
		}
		return OrderResponse{}, errs.NewObjectNotFoundError("order", query.orderID.String())
	}
	summary, err := scanOrderSummary(rows)
	if err != nil {
		return OrderResponse{}, err
	}
	rows.Close()

	if err = authorizeOrderRead(query.actor, summary.MerchantID, summary.UserID, summary.DriverID); err != nil {
		return OrderResponse{}, err
	}

	itemRows, err := db.Raw(`
		SELECT product_id, quantity, unit_price
		FROM order_items
		WHERE order_id = ?
		ORDER BY position
	`, query.orderID.Bytes()).Rows()
	if err != nil {
		return OrderResponse{}, err
	}
	defer itemRows.Close()

	items := make([]OrderItemResponse, 0)
	for itemRows.Next() {
		var productID uuid.UUID
		var quantity int
		var unitPrice decimal.Decimal
		if err = itemRows.Scan(&productID, &quantity, &unitPrice); err != nil {
			return OrderResponse{}, err
		}

		id, idErr := kernel.UUIDFromBytes(productID[:])
		if idErr != nil {
			return OrderResponse{}, idErr
		}
		price, priceErr := kernel.NewMoney(unitPrice)
		if priceErr != nil {
			return OrderResponse{}, priceErr
		}
		items = append(items, OrderItemResponse{
			ProductID: id,
			Quantity:  quantity,
			UnitPrice: price,
			LineTotal: price.Times(quantity),
		})
	}

	if err = itemRows.Err(); err != nil {
		return OrderResponse{}, err
	}

	return OrderResponse{OrderSummaryResponse: summary, Items: items}, nil
}

func authorizeOrderRead(actor kernel.Actor, merchantID, userID kernel.UUID, driverID *kernel.UUID) error {
	allowed := false
	switch actor.Role() {
	case kernel.RoleAdmin:
		allowed = true
	case kernel.RoleMerchant:
		allowed = actor.ID().IsEqual(merchantID)
	case kernel.RoleCustomer:
		allowed = actor.ID().IsEqual(userID)
	case kernel.RoleDriver:
		allowed = driverID == nil || actor.ID().IsEqual(*driverID)
	case kernel.RoleUnknown:
	}

	if !allowed {
		return errs.NewActorIsUnauthorizedError(actor.String(), "read this order")
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrderSummary(rows rowScanner) (OrderSummaryResponse, error) {
	var (
		id, merchantID, userID, zoneID uuid.UUID
		driverID                       uuid.NullUUID
		status                         int
		fee, subtotal                  decimal.Decimal
		summary                        OrderSummaryResponse
	)

	if err := rows.Scan(
		&id,
		&merchantID,
		&userID,
		&driverID,
		&zoneID,
		&status,
		&fee,
		&subtotal,
		&summary.EstimatedDeliveryMinutes,
		&summary.Version,
		&summary.CreatedAt,
		&summary.UpdatedAt,
	); err != nil {
		return OrderSummaryResponse{}, err
	}

	var err error
	if summary.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
		return OrderSummaryResponse{}, err
	}
	if summary.MerchantID, err = kernel.UUIDFromBytes(merchantID[:]); err != nil {
		return OrderSummaryResponse{}, err
	}
	if summary.UserID, err = kernel.UUIDFromBytes(userID[:]); err != nil {
		return OrderSummaryResponse{}, err
	}
	if summary.ZoneID, err = kernel.UUIDFromBytes(zoneID[:]); err != nil {
		return OrderSummaryResponse{}, err
	}
	if driverID.Valid {
		driver, driverErr := kernel.UUIDFromBytes(driverID.UUID[:])
		if driverErr != nil {
			return OrderSummaryResponse{}, driverErr
		}
		summary.DriverID = &driver
	}

	summary.Status = order.Status(status)
	if summary.DeliveryFee, err = kernel.NewMoney(fee); err != nil {
		return OrderSummaryResponse{}, err
	}
	if summary.Subtotal, err = kernel.NewMoney(subtotal); err != nil {
		return OrderSummaryResponse{}, err
	}
	summary.Total = summary.Subtotal.Add(summary.DeliveryFee)
	summary.CreatedAt = summary.CreatedAt.UTC()
	summary.UpdatedAt = summary.UpdatedAt.UTC()

	return summary, nil
}
