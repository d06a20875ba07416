package http

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/zone"
	"marketplace/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Zone is the wire form of a delivery zone. Geometry is a GeoJSON geometry object.
type Zone struct {
	ID                       string          `json:"id"`
	Code                     string          `json:"code"`
	Name                     string          `json:"name"`
	Geometry                 json.RawMessage `json:"geometry"`
	DeliveryFee              string          `json:"deliveryFee"`
	EstimatedDeliveryMinutes int             `json:"estimatedDeliveryMinutes"`
	Priority                 int             `json:"priority"`
	Status                   string          `json:"status"`
	Landmarks                []string        `json:"landmarks"`
	CreatedAt                time.Time       `json:"createdAt"`
	UpdatedAt                time.Time       `json:"updatedAt"`
}

func toZone(z queries.ZoneResponse) (Zone, error) {
	geometry, err := z.Geometry.GeoJSON()
	if err != nil {
		return Zone{}, err
	}
	landmarks := z.Landmarks
	if landmarks == nil {
		landmarks = []string{}
	}
	return Zone{
		ID:                       z.ID.String(),
		Code:                     z.Code,
		Name:                     z.Name,
		Geometry:                 geometry,
		DeliveryFee:              z.DeliveryFee.String(),
		EstimatedDeliveryMinutes: z.EstimatedDeliveryMinutes,
		Priority:                 z.Priority,
		Status:                   z.Status.String(),
		Landmarks:                landmarks,
		CreatedAt:                z.CreatedAt.UTC(),
		UpdatedAt:                z.UpdatedAt.UTC(),
	}, nil
}

func toZones(zones []queries.ZoneResponse) ([]Zone, error) {
	out := make([]Zone, 0, len(zones))
	for _, z := range zones {
		converted, err := toZone(z)
		if err != nil {
			return nil, err
		}
		out = append(out, converted)
	}
	return out, nil
}

// ZoneRequest is the body of zone create and update. Status defaults to ACTIVE.
type ZoneRequest struct {
	Code                     string           `json:"code"`
	Name                     string           `json:"name"`
	Geometry                 json.RawMessage  `json:"geometry"`
	DeliveryFee              *decimal.Decimal `json:"deliveryFee"`
	EstimatedDeliveryMinutes int              `json:"estimatedDeliveryMinutes"`
	Priority                 int              `json:"priority"`
	Status                   string           `json:"status"`
	Landmarks                []string         `json:"landmarks"`
}

func (r ZoneRequest) attributes() (zone.Attributes, error) {
	attrs := zone.Attributes{
		Code:                     r.Code,
		Name:                     r.Name,
		EstimatedDeliveryMinutes: r.EstimatedDeliveryMinutes,
		Priority:                 r.Priority,
		Status:                   zone.StatusActive,
		Landmarks:                r.Landmarks,
	}

	var geometryErr, feeErr, statusErr error
	if len(r.Geometry) == 0 || string(r.Geometry) == "null" {
		geometryErr = errs.NewValueIsRequiredError("geometry")
	} else {
		attrs.Geometry, geometryErr = zone.GeometryFromGeoJSON(r.Geometry)
	}
	if r.DeliveryFee == nil {
		feeErr = errs.NewValueIsRequiredError("deliveryFee")
	} else {
		attrs.DeliveryFee, feeErr = kernel.NewMoney(*r.DeliveryFee)
	}
	if strings.TrimSpace(r.Status) != "" {
		attrs.Status, statusErr = zone.ParseStatus(r.Status)
	}

	if err := errors.Join(geometryErr, feeErr, statusErr); err != nil {
		return zone.Attributes{}, err
	}
	return attrs, nil
}

type Neighborhood struct {
	Zone     Zone   `json:"zone"`
	Match    string `json:"match"`
	Landmark string `json:"landmark,omitempty"`
}

type ValidateZoneRequest struct {
	ZoneID string `json:"zoneId"`
}

type ZoneTerms struct {
	ZoneID                   string `json:"zoneId"`
	Code                     string `json:"code"`
	Name                     string `json:"name"`
	DeliveryFee              string `json:"deliveryFee"`
	EstimatedDeliveryMinutes int    `json:"estimatedDeliveryMinutes"`
}

type ZoneOrderCount struct {
	ZoneID     string `json:"zoneId"`
	Code       string `json:"code"`
	Name       string `json:"name"`
	OrderCount int64  `json:"orderCount"`
}

type ZoneStatistics struct {
	TotalZones    int64            `json:"totalZones"`
	ZonesByStatus map[string]int64 `json:"zonesByStatus"`
	OrdersPerZone []ZoneOrderCount `json:"ordersPerZone"`
}

func toZoneStatistics(stats queries.ZoneStatisticsResponse) ZoneStatistics {
	out := ZoneStatistics{
		TotalZones:    stats.TotalZones,
		ZonesByStatus: make(map[string]int64, len(stats.ZonesByStatus)),
		OrdersPerZone: make([]ZoneOrderCount, 0, len(stats.OrdersPerZone)),
	}
	for status, count := range stats.ZonesByStatus {
		out.ZonesByStatus[status.String()] = count
	}
	for _, c := range stats.OrdersPerZone {
		out.OrdersPerZone = append(out.OrdersPerZone, ZoneOrderCount{
			ZoneID:     c.ZoneID.String(),
			Code:       c.Code,
			Name:       c.Name,
			OrderCount: c.OrderCount,
		})
	}
	return out
}

// OrderItemRequest is one line of a new order.
type OrderItemRequest struct {
	ProductID string           `json:"productId"`
	Quantity  int              `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unitPrice"`
}

// CreateOrderRequest is the body of order placement. A customer may omit
// userId to order for themselves.
type CreateOrderRequest struct {
	UserID string             `json:"userId"`
	ZoneID string             `json:"zoneId"`
	Items  []OrderItemRequest `json:"items"`
}

func (r CreateOrderRequest) items() ([]order.Item, error) {
	items := make([]order.Item, 0, len(r.Items))
	var all []error
	for _, line := range r.Items {
		productID, err := parseUUID("productId", line.ProductID)
		if err != nil {
			all = append(all, err)
			continue
		}
		if line.UnitPrice == nil {
			all = append(all, errs.NewValueIsRequiredError("unitPrice"))
			continue
		}
		price, err := kernel.NewMoney(*line.UnitPrice)
		if err != nil {
			all = append(all, err)
			continue
		}
		item, err := order.NewItem(productID, line.Quantity, price)
		if err != nil {
			all = append(all, err)
			continue
		}
		items = append(items, item)
	}
	if err := errors.Join(all...); err != nil {
		return nil, err
	}
	return items, nil
}

type StatusChangeRequest struct {
	NewStatus string `json:"newStatus"`
}

func (r StatusChangeRequest) target() (order.Status, error) {
	if strings.TrimSpace(r.NewStatus) == "" {
		return order.Unknown, errs.NewValueIsRequiredError("newStatus")
	}
	return order.ParseStatus(r.NewStatus)
}

type OrderItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unitPrice"`
	LineTotal string `json:"lineTotal"`
}

// Order is the wire form of an order. Items is omitted from list responses.
type Order struct {
	ID                       string      `json:"id"`
	MerchantID               string      `json:"merchantId"`
	UserID                   string      `json:"userId"`
	DriverID                 *string     `json:"driverId"`
	ZoneID                   string      `json:"zoneId"`
	Status                   string      `json:"status"`
	DeliveryFee              string      `json:"deliveryFee"`
	Subtotal                 string      `json:"subtotal"`
	Total                    string      `json:"total"`
	EstimatedDeliveryMinutes int         `json:"estimatedDeliveryMinutes"`
	Version                  int         `json:"version"`
	Items                    []OrderItem `json:"items,omitempty"`
	CreatedAt                time.Time   `json:"createdAt"`
	UpdatedAt                time.Time   `json:"updatedAt"`
}

func toOrderSummary(o queries.OrderSummaryResponse) Order {
	var driverID *string
	if o.DriverID != nil {
		id := o.DriverID.String()
		driverID = &id
	}
	return Order{
		ID:                       o.ID.String(),
		MerchantID:               o.MerchantID.String(),
		UserID:                   o.UserID.String(),
		DriverID:                 driverID,
		ZoneID:                   o.ZoneID.String(),
		Status:                   o.Status.String(),
		DeliveryFee:              o.DeliveryFee.String(),
		Subtotal:                 o.Subtotal.String(),
		Total:                    o.Total.String(),
		EstimatedDeliveryMinutes: o.EstimatedDeliveryMinutes,
		Version:                  o.Version,
		CreatedAt:                o.CreatedAt.UTC(),
		UpdatedAt:                o.UpdatedAt.UTC(),
	}
}

func toOrder(o queries.OrderResponse) Order {
	out := toOrderSummary(o.OrderSummaryResponse)
	out.Items = make([]OrderItem, 0, len(o.Items))
	for _, item := range o.Items {
		out.Items = append(out.Items, OrderItem{
			ProductID: item.ProductID.String(),
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.String(),
			LineTotal: item.LineTotal.String(),
		})
	}
	return out
}

type StatusHistoryEntry struct {
	From      string    `json:"from"`
	To        string    `json:"to"`
	ActorRole string    `json:"actorRole"`
	ActorID   string    `json:"actorId"`
	ChangedAt time.Time `json:"changedAt"`
}
