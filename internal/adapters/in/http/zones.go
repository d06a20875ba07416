package http

import (
	"net/http"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

// ListZones handles GET /delivery-zones[?status=].
func (s *Server) ListZones(ctx echo.Context) error {
	status, err := queryZoneStatus(ctx)
	if err != nil {
		return err
	}
	query, err := queries.NewListZonesQuery(status)
	if err != nil {
		return err
	}

	zones, err := s.handlers.ListZones.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}
	response, err := toZones(zones)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, ok(response))
}

// GetZone handles GET /delivery-zones/{zoneId}.
func (s *Server) GetZone(ctx echo.Context) error {
	zoneID, err := pathUUID(ctx, "zoneId")
	if err != nil {
		return err
	}
	return s.respondWithZone(ctx, http.StatusOK, zoneID)
}

// CreateZone handles POST /delivery-zones (admin).
func (s *Server) CreateZone(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	var request ZoneRequest
	if err = bind(ctx, &request); err != nil {
		return err
	}
	attrs, err := request.attributes()
	if err != nil {
		return err
	}

	zoneID := kernel.NewUUID()
	cmd, err := commands.NewCreateZoneCommand(zoneID, actor, attrs)
	if err != nil {
		return err
	}
	if err = s.handlers.CreateZone.Handle(ctx.Request().Context(), cmd); err != nil {
		return err
	}
	return s.respondWithZone(ctx, http.StatusCreated, zoneID)
}

// UpdateZone handles PUT /delivery-zones/{zoneId} (admin). The body replaces
// every editable property.
func (s *Server) UpdateZone(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	zoneID, err := pathUUID(ctx, "zoneId")
	if err != nil {
		return err
	}
	var request ZoneRequest
	if err = bind(ctx, &request); err != nil {
		return err
	}
	attrs, err := request.attributes()
	if err != nil {
		return err
	}

	cmd, err := commands.NewUpdateZoneCommand(zoneID, actor, attrs)
	if err != nil {
		return err
	}
	if err = s.handlers.UpdateZone.Handle(ctx.Request().Context(), cmd); err != nil {
		return err
	}
	return s.respondWithZone(ctx, http.StatusOK, zoneID)
}

func (s *Server) respondWithZone(ctx echo.Context, status int, zoneID kernel.UUID) error {
	query, err := queries.NewGetZoneQuery(zoneID)
	if err != nil {
		return err
	}
	found, err := s.handlers.GetZone.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}
	response, err := toZone(found)
	if err != nil {
		return err
	}
	return ctx.JSON(status, ok(response))
}

// FindZoneByCoordinate handles GET /delivery-zones/coordinates?lat=&lng=.
// A position outside every active zone answers 200 with null data.
func (s *Server) FindZoneByCoordinate(ctx echo.Context) error {
	lat, err := queryFloat(ctx, "lat")
	if err != nil {
		return err
	}
	lng, err := queryFloat(ctx, "lng")
	if err != nil {
		return err
	}
	query, err := queries.NewFindZoneByCoordinateQuery(lng, lat)
	if err != nil {
		return err
	}

	found, err := s.handlers.FindZone.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}
	if found == nil {
		return ctx.JSON(http.StatusOK, ok(nil))
	}
	response, err := toZone(*found)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, ok(response))
}

// SearchNeighborhoods handles GET /delivery-zones/search?q=.
func (s *Server) SearchNeighborhoods(ctx echo.Context) error {
	query, err := queries.NewSearchNeighborhoodsQuery(ctx.QueryParam("q"))
	if err != nil {
		return err
	}

	matches, err := s.handlers.SearchNeighborhoods.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}
	response := make([]Neighborhood, 0, len(matches))
	for _, m := range matches {
		z, err := toZone(m.Zone)
		if err != nil {
			return err
		}
		response = append(response, Neighborhood{Zone: z, Match: m.Match, Landmark: m.Landmark})
	}
	return ctx.JSON(http.StatusOK, ok(response))
}

// ValidateOrderForZone handles POST /delivery-zones/validate.
func (s *Server) ValidateOrderForZone(ctx echo.Context) error {
	var request ValidateZoneRequest
	if err := bind(ctx, &request); err != nil {
		return err
	}
	zoneID, err := parseUUID("zoneId", request.ZoneID)
	if err != nil {
		return err
	}
	query, err := queries.NewValidateOrderForZoneQuery(zoneID)
	if err != nil {
		return err
	}

	terms, err := s.handlers.ValidateOrderForZone.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, ok(ZoneTerms{
		ZoneID:                   terms.ZoneID.String(),
		Code:                     terms.Code,
		Name:                     terms.Name,
		DeliveryFee:              terms.DeliveryFee.String(),
		EstimatedDeliveryMinutes: terms.EstimatedDeliveryMinutes,
	}))
}

// GetZoneStatistics handles GET /delivery-zones/statistics.
func (s *Server) GetZoneStatistics(ctx echo.Context) error {
	stats, err := s.handlers.ZoneStatistics.Handle(ctx.Request().Context(), queries.NewGetZoneStatisticsQuery())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, ok(toZoneStatistics(stats)))
}
