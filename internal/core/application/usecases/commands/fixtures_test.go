package commands_test

import (
	"testing"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/zone"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/require"
)

func newActor(t *testing.T, role kernel.Role, id kernel.UUID) kernel.Actor {
	t.Helper()
	actor, err := kernel.NewActor(role, id)
	require.NoError(t, err)
	return actor
}

func newItem(t *testing.T) order.Item {
	t.Helper()
	price, err := kernel.MoneyFromString("12.50")
	require.NoError(t, err)
	item, err := order.NewItem(kernel.NewUUID(), 2, price)
	require.NoError(t, err)
	return item
}

func zoneAttributes(t *testing.T, code string, status zone.Status) zone.Attributes {
	t.Helper()
	geometry, err := zone.NewGeometry(orb.Polygon{
		{{36.78, -1.27}, {36.82, -1.27}, {36.82, -1.25}, {36.78, -1.25}, {36.78, -1.27}},
	})
	require.NoError(t, err)
	fee, err := kernel.MoneyFromString("150")
	require.NoError(t, err)
	return zone.Attributes{
		Code:                     code,
		Name:                     "Zone " + code,
		Geometry:                 geometry,
		DeliveryFee:              fee,
		EstimatedDeliveryMinutes: 30,
		Priority:                 1,
		Status:                   status,
	}
}

func newZone(t *testing.T, status zone.Status) *zone.Zone {
	t.Helper()
	z, err := zone.NewZone(kernel.NewUUID(), zoneAttributes(t, "WL", status), time.Now())
	require.NoError(t, err)
	return z
}

func pendingOrder(t *testing.T, merchantID kernel.UUID) *order.Order {
	t.Helper()
	fee, err := kernel.MoneyFromString("150")
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), merchantID, kernel.NewUUID(), []order.Item{newItem(t)},
		order.DeliveryTerms{ZoneID: kernel.NewUUID(), DeliveryFee: fee, EstimatedDeliveryMinutes: 30},
		time.Now())
	require.NoError(t, err)
	return o
}
