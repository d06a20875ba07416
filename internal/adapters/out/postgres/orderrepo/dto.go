// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Status is stored as the integer value of order.Status.
type OrderDTO struct {
	ID                       uuid.UUID       `gorm:"type:uuid;primaryKey"`
	MerchantID               uuid.UUID       `gorm:"type:uuid;not null;index"`
	UserID                   uuid.UUID       `gorm:"type:uuid;not null;index"`
	DriverID                 *uuid.UUID      `gorm:"type:uuid;index"`
	ZoneID                   uuid.UUID       `gorm:"type:uuid;not null;index"`
	DeliveryFee              decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	EstimatedDeliveryMinutes int             `gorm:"type:int;not null"`
	Status                   int             `gorm:"type:smallint;not null;index"`
	Version                  int             `gorm:"type:int;not null"`
	Items                    []OrderItemDTO  `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt                time.Time       `gorm:"not null;autoCreateTime:false"`
	UpdatedAt                time.Time       `gorm:"not null;autoUpdateTime:false"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// OrderItemDTO is one order line. Position keeps the order in which lines were placed.
type OrderItemDTO struct {
	OrderID   uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Position  int             `gorm:"type:int;primaryKey;autoIncrement:false"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity  int             `gorm:"type:int;not null"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(12,2);not null"`
}

// TableName specifies the database table name for order lines.
func (OrderItemDTO) TableName() string {
	return "order_items"
}

// StatusHistoryDTO is the audit row written for every applied transition.
type StatusHistoryDTO struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement"`
	OrderID    uuid.UUID `gorm:"type:uuid;not null;index"`
	FromStatus int       `gorm:"type:smallint;not null"`
	ToStatus   int       `gorm:"type:smallint;not null"`
	ActorRole  string    `gorm:"type:varchar(16);not null"`
	ActorID    uuid.UUID `gorm:"type:uuid;not null"`
	ChangedAt  time.Time `gorm:"not null;index"`
}

// TableName specifies the database table name for the status audit trail.
func (StatusHistoryDTO) TableName() string {
	return "order_status_history"
}

// fromDomain converts an order domain aggregate to its database representation.
func fromDomain(aggregate *order.Order) OrderDTO {
	orderID := aggregate.ID().Bytes()

	var driverID *uuid.UUID
	if id := aggregate.DriverID(); id != nil {
		raw := id.Bytes()
		driverID = &raw
	}

	items := make([]OrderItemDTO, 0, len(aggregate.Items()))
	for idx, item := range aggregate.Items() {
		items = append(items, OrderItemDTO{
			OrderID:   orderID,
			Position:  idx,
			ProductID: item.ProductID().Bytes(),
			Quantity:  item.Quantity(),
			UnitPrice: item.UnitPrice().Amount(),
		})
	}

	terms := aggregate.Terms()
	return OrderDTO{
		ID:                       orderID,
		MerchantID:               aggregate.MerchantID().Bytes(),
		UserID:                   aggregate.UserID().Bytes(),
		DriverID:                 driverID,
		ZoneID:                   terms.ZoneID.Bytes(),
		DeliveryFee:              terms.DeliveryFee.Amount(),
		EstimatedDeliveryMinutes: terms.EstimatedDeliveryMinutes,
		Status:                   int(aggregate.Status()),
		Version:                  aggregate.Version(),
		Items:                    items,
		CreatedAt:                aggregate.CreatedAt(),
		UpdatedAt:                aggregate.UpdatedAt(),
	}
}

// historyFromDomain maps an applied transition to its audit row.
func historyFromDomain(change order.StatusChange) StatusHistoryDTO {
	return StatusHistoryDTO{
		OrderID:    change.OrderID.Bytes(),
		FromStatus: int(change.From),
		ToStatus:   int(change.To),
		ActorRole:  change.Actor.Role().String(),
		ActorID:    change.Actor.ID().Bytes(),
		ChangedAt:  change.ChangedAt,
	}
}

// toDomain converts a database DTO, items preloaded, to an order domain aggregate.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	merchantID, err := kernel.UUIDFromBytes(dto.MerchantID[:])
	if err != nil {
		return nil, err
	}
	userID, err := kernel.UUIDFromBytes(dto.UserID[:])
	if err != nil {
		return nil, err
	}
	zoneID, err := kernel.UUIDFromBytes(dto.ZoneID[:])
	if err != nil {
		return nil, err
	}

	var driverID *kernel.UUID
	if dto.DriverID != nil {
		dID, driverErr := kernel.UUIDFromBytes((*dto.DriverID)[:])
		if driverErr != nil {
			return nil, driverErr
		}
		driverID = &dID
	}

	fee, err := kernel.NewMoney(dto.DeliveryFee)
	if err != nil {
		return nil, err
	}

	items := make([]order.Item, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		item, itemErr := itemToDomain(itemDTO)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	return order.RestoreOrder(order.State{
		ID:         id,
		MerchantID: merchantID,
		UserID:     userID,
		DriverID:   driverID,
		Items:      items,
		Terms: order.DeliveryTerms{
			ZoneID:                   zoneID,
			DeliveryFee:              fee,
			EstimatedDeliveryMinutes: dto.EstimatedDeliveryMinutes,
		},
		Status:    order.Status(dto.Status),
		Version:   dto.Version,
		CreatedAt: dto.CreatedAt.UTC(),
		UpdatedAt: dto.UpdatedAt.UTC(),
	})
}

func itemToDomain(dto OrderItemDTO) (order.Item, error) {
	productID, err := kernel.UUIDFromBytes(dto.ProductID[:])
	if err != nil {
		return order.Item{}, err
	}
	price, err := kernel.NewMoney(dto.UnitPrice)
	if err != nil {
		return order.Item{}, err
	}
	return order.NewItem(productID, dto.Quantity, price)
}
