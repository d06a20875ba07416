package http

import (
	"net/http"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

// CreateOrder handles POST /merchants/{merchantId}/orders. An Idempotency-Key
// header makes retries of the same request safe.
func (s *Server) CreateOrder(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	merchantID, err := pathUUID(ctx, "merchantId")
	if err != nil {
		return err
	}
	var request CreateOrderRequest
	if err = bind(ctx, &request); err != nil {
		return err
	}

	userID := actor.ID()
	if request.UserID != "" || actor.Role() != kernel.RoleCustomer {
		if userID, err = parseUUID("userId", request.UserID); err != nil {
			return err
		}
	}
	zoneID, err := parseUUID("zoneId", request.ZoneID)
	if err != nil {
		return err
	}
	items, err := request.items()
	if err != nil {
		return err
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(
		orderID, actor, merchantID, userID, zoneID, items,
		ctx.Request().Header.Get(HeaderIdempotencyKey),
	)
	if err != nil {
		return err
	}
	if err = s.handlers.CreateOrder.Handle(ctx.Request().Context(), cmd); err != nil {
		return err
	}
	return s.respondWithOrder(ctx, http.StatusCreated, actor, orderID)
}

// GetMerchantOrders handles GET /merchants/{merchantId}/orders[?status=].
func (s *Server) GetMerchantOrders(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	merchantID, err := pathUUID(ctx, "merchantId")
	if err != nil {
		return err
	}
	status, err := queryOrderStatus(ctx)
	if err != nil {
		return err
	}
	query, err := queries.NewGetMerchantOrdersQuery(actor, merchantID, status)
	if err != nil {
		return err
	}

	orders, err := s.handlers.MerchantOrders.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}
	response := make([]Order, 0, len(orders))
	for _, o := range orders {
		response = append(response, toOrderSummary(o))
	}
	return ctx.JSON(http.StatusOK, ok(response))
}

// ChangeMerchantOrderStatus handles PATCH /merchants/{merchantId}/orders/{orderId}/status.
func (s *Server) ChangeMerchantOrderStatus(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	merchantID, err := pathUUID(ctx, "merchantId")
	if err != nil {
		return err
	}
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return err
	}
	var request StatusChangeRequest
	if err = bind(ctx, &request); err != nil {
		return err
	}
	target, err := request.target()
	if err != nil {
		return err
	}

	cmd, err := commands.NewChangeMerchantOrderStatusCommand(merchantID, orderID, actor, target)
	if err != nil {
		return err
	}
	return s.changeStatus(ctx, actor, cmd)
}

// ChangeOrderStatus handles PATCH /orders/{orderId}/status, used by drivers and admins.
func (s *Server) ChangeOrderStatus(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return err
	}
	var request StatusChangeRequest
	if err = bind(ctx, &request); err != nil {
		return err
	}
	target, err := request.target()
	if err != nil {
		return err
	}

	cmd, err := commands.NewChangeOrderStatusCommand(orderID, actor, target)
	if err != nil {
		return err
	}
	return s.changeStatus(ctx, actor, cmd)
}

func (s *Server) changeStatus(ctx echo.Context, actor kernel.Actor, cmd commands.ChangeOrderStatusCommand) error {
	if err := s.handlers.ChangeOrderStatus.Handle(ctx.Request().Context(), cmd); err != nil {
		return err
	}
	return s.respondWithOrder(ctx, http.StatusOK, actor, cmd.OrderID())
}

// GetOrder handles GET /orders/{orderId}.
func (s *Server) GetOrder(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return err
	}
	return s.respondWithOrder(ctx, http.StatusOK, actor, orderID)
}

// GetOrderHistory handles GET /orders/{orderId}/history.
func (s *Server) GetOrderHistory(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return err
	}
	query, err := queries.NewGetOrderHistoryQuery(actor, orderID)
	if err != nil {
		return err
	}

	history, err := s.handlers.OrderHistory.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}
	response := make([]StatusHistoryEntry, 0, len(history))
	for _, h := range history {
		response = append(response, StatusHistoryEntry{
			From:      h.From.String(),
			To:        h.To.String(),
			ActorRole: h.ActorRole.String(),
			ActorID:   h.ActorID.String(),
			ChangedAt: h.ChangedAt.UTC(),
		})
	}
	return ctx.JSON(http.StatusOK, ok(response))
}

func (s *Server) respondWithOrder(ctx echo.Context, status int, actor kernel.Actor, orderID kernel.UUID) error {
	query, err := queries.NewGetOrderQuery(actor, orderID)
	if err != nil {
		return err
	}
	found, err := s.handlers.GetOrder.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}
	return ctx.JSON(status, ok(toOrder(found)))
}
