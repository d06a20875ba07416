package http

import (
	"context"
	"log/slog"
	"net/http"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"

	"github.com/labstack/echo/v4"
)

// CommandHandler is satisfied by every handler in the commands package.
type CommandHandler[C any] interface {
	Handle(ctx context.Context, cmd C) error
}

// QueryHandler is satisfied by every handler in the queries package.
type QueryHandler[Q, R any] interface {
	Handle(ctx context.Context, query Q) (R, error)
}

// Handlers groups the use cases the HTTP API exposes.
type Handlers struct {
	// Command handlers
	CreateOrder       CommandHandler[commands.CreateOrderCommand]
	ChangeOrderStatus CommandHandler[commands.ChangeOrderStatusCommand]
	CreateZone        CommandHandler[commands.CreateZoneCommand]
	UpdateZone        CommandHandler[commands.UpdateZoneCommand]

	// Query handlers
	ListZones            QueryHandler[queries.ListZonesQuery, []queries.ZoneResponse]
	GetZone              QueryHandler[queries.GetZoneQuery, queries.ZoneResponse]
	FindZone             QueryHandler[queries.FindZoneByCoordinateQuery, *queries.ZoneResponse]
	SearchNeighborhoods  QueryHandler[queries.SearchNeighborhoodsQuery, []queries.NeighborhoodResponse]
	ValidateOrderForZone QueryHandler[queries.ValidateOrderForZoneQuery, queries.ZoneTermsResponse]
	ZoneStatistics       QueryHandler[queries.GetZoneStatisticsQuery, queries.ZoneStatisticsResponse]
	MerchantOrders       QueryHandler[queries.GetMerchantOrdersQuery, []queries.OrderSummaryResponse]
	GetOrder             QueryHandler[queries.GetOrderQuery, queries.OrderResponse]
	OrderHistory         QueryHandler[queries.GetOrderQuery, []queries.StatusHistoryResponse]
}

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	handlers Handlers
	logger   *slog.Logger
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(handlers Handlers, logger *slog.Logger) *Server {
	return &Server{
		handlers: handlers,
		logger:   logger.With("component", "http"),
	}
}

// Register mounts every route on e and installs the envelope error handler.
func (s *Server) Register(e *echo.Echo) {
	e.HTTPErrorHandler = s.handleError

	e.GET("/health", s.Health)

	zones := e.Group("/delivery-zones")
	zones.GET("", s.ListZones)
	zones.POST("", s.CreateZone)
	zones.GET("/coordinates", s.FindZoneByCoordinate)
	zones.GET("/search", s.SearchNeighborhoods)
	zones.POST("/validate", s.ValidateOrderForZone)
	zones.GET("/statistics", s.GetZoneStatistics)
	zones.GET("/:zoneId", s.GetZone)
	zones.PUT("/:zoneId", s.UpdateZone)

	merchants := e.Group("/merchants/:merchantId")
	merchants.POST("/orders", s.CreateOrder)
	merchants.GET("/orders", s.GetMerchantOrders)
	merchants.PATCH("/orders/:orderId/status", s.ChangeMerchantOrderStatus)

	orders := e.Group("/orders/:orderId")
	orders.GET("", s.GetOrder)
	orders.GET("/history", s.GetOrderHistory)
	orders.PATCH("/status", s.ChangeOrderStatus)
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, ok(map[string]string{"status": "Healthy"}))
}
