package http_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	adapter "marketplace/internal/adapters/in/http"
	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/zone"

	"github.com/labstack/echo/v4"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCommandHandler[C any] struct{ mock.Mock }

func (m *MockCommandHandler[C]) Handle(ctx context.Context, cmd C) error {
	return m.Called(ctx, cmd).Error(0)
}

type MockQueryHandler[Q, R any] struct{ mock.Mock }

func (m *MockQueryHandler[Q, R]) Handle(ctx context.Context, query Q) (R, error) {
	args := m.Called(ctx, query)
	var result R
	if v := args.Get(0); v != nil {
		result = v.(R)
	}
	return result, args.Error(1)
}

type handlerMocks struct {
	createOrder         *MockCommandHandler[commands.CreateOrderCommand]
	changeOrderStatus   *MockCommandHandler[commands.ChangeOrderStatusCommand]
	createZone          *MockCommandHandler[commands.CreateZoneCommand]
	updateZone          *MockCommandHandler[commands.UpdateZoneCommand]
	listZones           *MockQueryHandler[queries.ListZonesQuery, []queries.ZoneResponse]
	getZone             *MockQueryHandler[queries.GetZoneQuery, queries.ZoneResponse]
	findZone            *MockQueryHandler[queries.FindZoneByCoordinateQuery, *queries.ZoneResponse]
	searchNeighborhoods *MockQueryHandler[queries.SearchNeighborhoodsQuery, []queries.NeighborhoodResponse]
	validateOrder       *MockQueryHandler[queries.ValidateOrderForZoneQuery, queries.ZoneTermsResponse]
	zoneStatistics      *MockQueryHandler[queries.GetZoneStatisticsQuery, queries.ZoneStatisticsResponse]
	merchantOrders      *MockQueryHandler[queries.GetMerchantOrdersQuery, []queries.OrderSummaryResponse]
	getOrder            *MockQueryHandler[queries.GetOrderQuery, queries.OrderResponse]
	orderHistory        *MockQueryHandler[queries.GetOrderQuery, []queries.StatusHistoryResponse]
}

func newTestAPI(t *testing.T) (*echo.Echo, *handlerMocks) {
	t.Helper()
	m := &handlerMocks{
		createOrder:         new(MockCommandHandler[commands.CreateOrderCommand]),
		changeOrderStatus:   new(MockCommandHandler[commands.ChangeOrderStatusCommand]),
		createZone:          new(MockCommandHandler[commands.CreateZoneCommand]),
		updateZone:          new(MockCommandHandler[commands.UpdateZoneCommand]),
		listZones:           new(MockQueryHandler[queries.ListZonesQuery, []queries.ZoneResponse]),
		getZone:             new(MockQueryHandler[queries.GetZoneQuery, queries.ZoneResponse]),
		findZone:            new(MockQueryHandler[queries.FindZoneByCoordinateQuery, *queries.ZoneResponse]),
		searchNeighborhoods: new(MockQueryHandler[queries.SearchNeighborhoodsQuery, []queries.NeighborhoodResponse]),
		validateOrder:       new(MockQueryHandler[queries.ValidateOrderForZoneQuery, queries.ZoneTermsResponse]),
		zoneStatistics:      new(MockQueryHandler[queries.GetZoneStatisticsQuery, queries.ZoneStatisticsResponse]),
		merchantOrders:      new(MockQueryHandler[queries.GetMerchantOrdersQuery, []queries.OrderSummaryResponse]),
		getOrder:            new(MockQueryHandler[queries.GetOrderQuery, queries.OrderResponse]),
		orderHistory:        new(MockQueryHandler[queries.GetOrderQuery, []queries.StatusHistoryResponse]),
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	e := adapter.NewEcho(logger)
	adapter.NewServer(adapter.Handlers{
		CreateOrder:          m.createOrder,
		ChangeOrderStatus:    m.changeOrderStatus,
		CreateZone:           m.createZone,
		UpdateZone:           m.updateZone,
		ListZones:            m.listZones,
		GetZone:              m.getZone,
		FindZone:             m.findZone,
		SearchNeighborhoods:  m.searchNeighborhoods,
		ValidateOrderForZone: m.validateOrder,
		ZoneStatistics:       m.zoneStatistics,
		MerchantOrders:       m.merchantOrders,
		GetOrder:             m.getOrder,
		OrderHistory:         m.orderHistory,
	}, logger).Register(e)
	return e, m
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type request struct {
	method  string
	path    string
	body    string
	headers map[string]string
}

func serve(t *testing.T, e *echo.Echo, r request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var body io.Reader
	if r.body != "" {
		body = strings.NewReader(r.body)
	}
	req := httptest.NewRequest(r.method, r.path, body)
	if r.body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec, env
}

func actorHeaders(role kernel.Role, id kernel.UUID) map[string]string {
	return map[string]string{
		adapter.HeaderActorRole: role.String(),
		adapter.HeaderActorID:   id.String(),
	}
}

var fixedTime = time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)

func money(t *testing.T, amount string) kernel.Money {
	t.Helper()
	m, err := kernel.MoneyFromString(amount)
	require.NoError(t, err)
	return m
}

func westlands(t *testing.T) queries.ZoneResponse {
	t.Helper()
	geometry, err := zone.NewGeometry(orb.Polygon{{
		{36.80, -1.27}, {36.82, -1.27}, {36.82, -1.25}, {36.80, -1.25}, {36.80, -1.27},
	}})
	require.NoError(t, err)
	return queries.ZoneResponse{
		ID:                       kernel.NewUUID(),
		Code:                     "NBO-WL",
		Name:                     "Westlands",
		Geometry:                 geometry,
		DeliveryFee:              money(t, "150"),
		EstimatedDeliveryMinutes: 30,
		Priority:                 10,
		Status:                   zone.StatusActive,
		Landmarks:                []string{"Sarit Centre"},
		CreatedAt:                fixedTime,
		UpdatedAt:                fixedTime,
	}
}

func placedOrder(t *testing.T, id, merchantID, userID kernel.UUID, status order.Status) queries.OrderResponse {
	t.Helper()
	return queries.OrderResponse{
		OrderSummaryResponse: queries.OrderSummaryResponse{
			ID:                       id,
			MerchantID:               merchantID,
			UserID:                   userID,
			ZoneID:                   kernel.NewUUID(),
			Status:                   status,
			DeliveryFee:              money(t, "150"),
			Subtotal:                 money(t, "25"),
			Total:                    money(t, "175"),
			EstimatedDeliveryMinutes: 30,
			Version:                  1,
			CreatedAt:                fixedTime,
			UpdatedAt:                fixedTime,
		},
		Items: []queries.OrderItemResponse{{
			ProductID: kernel.NewUUID(),
			Quantity:  2,
			UnitPrice: money(t, "12.50"),
			LineTotal: money(t, "25"),
		}},
	}
}
