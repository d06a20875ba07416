package queries

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StatusHistoryResponse is one applied transition of an order.
type StatusHistoryResponse struct {
	From      order.Status
	To        order.Status
	ActorRole kernel.Role
	ActorID   kernel.UUID
	ChangedAt time.Time
}

// NewGetOrderHistoryQuery reads the status history of an order. It has the
// same inputs and readers as GetOrderQuery.
func NewGetOrderHistoryQuery(actor kernel.Actor, orderID kernel.UUID) (GetOrderQuery, error) {
	return NewGetOrderQuery(actor, orderID)
}

// GetOrderHistoryQueryHandler lists transitions oldest first.
type GetOrderHistoryQueryHandler struct {
	db *gorm.DB
}

func NewGetOrderHistoryQueryHandler(db *gorm.DB) GetOrderHistoryQueryHandler {
	return GetOrderHistoryQueryHandler{db: db}
}

func (h GetOrderHistoryQueryHandler) Handle(ctx context.Context, query GetOrderQuery) ([]StatusHistoryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	db := h.db.WithContext(ctx)

	var owner struct {
		MerchantID uuid.UUID
		UserID     uuid.UUID
		DriverID   uuid.NullUUID
	}
	result := db.Raw(`SELECT merchant_id, user_id, driver_id FROM orders WHERE id = ?`, query.orderID.Bytes()).Scan(&owner)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, errs.NewObjectNotFoundError("order", query.orderID.String())
	}

	merchantID, err := kernel.UUIDFromBytes(owner.MerchantID[:])
	if err != nil {
		return nil, err
	}
	userID, err := kernel.UUIDFromBytes(owner.UserID[:])
	if err != nil {
		return nil, err
	}
	var driverID *kernel.UUID
	if owner.DriverID.Valid {
		driver, driverErr := kernel.UUIDFromBytes(owner.DriverID.UUID[:])
		if driverErr != nil {
			return nil, driverErr
		}
		driverID = &driver
	}

	if err = authorizeOrderRead(query.actor, merchantID, userID, driverID); err != nil {
		return nil, err
	}

	rows, err := db.Raw(`
		SELECT from_status, to_status, actor_role, actor_id, changed_at
		FROM order_status_history
		WHERE order_id = ?
		ORDER BY changed_at, id
	`, query.orderID.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	history := make([]StatusHistoryResponse, 0)
	for rows.Next() {
		var (
			from, to  int
			roleName  string
			actorID   uuid.UUID
			changedAt time.Time
		)
		if err = rows.Scan(&from, &to, &roleName, &actorID, &changedAt); err != nil {
			return nil, err
		}

		role, roleErr := kernel.ParseRole(roleName)
		if roleErr != nil {
			return nil, roleErr
		}
		id, idErr := kernel.UUIDFromBytes(actorID[:])
		if idErr != nil {
			return nil, idErr
		}

		history = append(history, StatusHistoryResponse{
			From:      order.Status(from),
			To:        order.Status(to),
			ActorRole: role,
			ActorID:   id,
			ChangedAt: changedAt.UTC(),
		})
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return history, nil
}
