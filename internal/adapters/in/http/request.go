package http

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/zone"
	"marketplace/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Actor identity headers. Authentication happens upstream; these carry its result.
const (
	HeaderActorRole      = "X-Actor-Role"
	HeaderActorID        = "X-Actor-ID"
	HeaderIdempotencyKey = "Idempotency-Key"
)

func actorFrom(ctx echo.Context) (kernel.Actor, error) {
	rawRole := strings.TrimSpace(ctx.Request().Header.Get(HeaderActorRole))
	rawID := strings.TrimSpace(ctx.Request().Header.Get(HeaderActorID))

	var roleErr, idErr error
	if rawRole == "" {
		roleErr = errs.NewValueIsRequiredError(HeaderActorRole)
	}
	if rawID == "" {
		idErr = errs.NewValueIsRequiredError(HeaderActorID)
	}
	if err := errors.Join(roleErr, idErr); err != nil {
		return kernel.Actor{}, err
	}

	role, err := kernel.ParseRole(rawRole)
	if err != nil {
		return kernel.Actor{}, err
	}
	id, err := parseUUID(HeaderActorID, rawID)
	if err != nil {
		return kernel.Actor{}, err
	}
	return kernel.NewActor(role, id)
}

func parseUUID(name, raw string) (kernel.UUID, error) {
	if strings.TrimSpace(raw) == "" {
		return kernel.UUID{}, errs.NewValueIsRequiredError(name)
	}
	id, err := kernel.UUIDFromString(strings.TrimSpace(raw))
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return id, nil
}

func pathUUID(ctx echo.Context, name string) (kernel.UUID, error) {
	return parseUUID(name, ctx.Param(name))
}

func queryFloat(ctx echo.Context, name string) (float64, error) {
	raw := strings.TrimSpace(ctx.QueryParam(name))
	if raw == "" {
		return 0, errs.NewValueIsRequiredError(name)
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errs.NewValueIsInvalidErrorWithCause(name, fmt.Errorf("%q is not a number", raw))
	}
	return value, nil
}

func queryOrderStatus(ctx echo.Context) (*order.Status, error) {
	raw := strings.TrimSpace(ctx.QueryParam("status"))
	if raw == "" {
		return nil, nil
	}
	status, err := order.ParseStatus(raw)
	if err != nil {
		return nil, err
	}
	return &status, nil
}

func queryZoneStatus(ctx echo.Context) (*zone.Status, error) {
	raw := strings.TrimSpace(ctx.QueryParam("status"))
	if raw == "" {
		return nil, nil
	}
	status, err := zone.ParseStatus(raw)
	if err != nil {
		return nil, err
	}
	return &status, nil
}

// bind decodes the request body, reporting malformed JSON as invalid input.
func bind(ctx echo.Context, target any) error {
	if err := ctx.Bind(target); err != nil {
		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			return errs.NewValueIsInvalidErrorWithCause("request body", fmt.Errorf("%v", httpErr.Message))
		}
		return errs.NewValueIsInvalidErrorWithCause("request body", err)
	}
	return nil
}
