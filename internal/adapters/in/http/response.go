package http

import (
	"errors"
	"net/http"

	"marketplace/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Error codes carried in the envelope.
const (
	CodeInvalidInput          = "INVALID_INPUT"
	CodeInvalidTransition     = "INVALID_TRANSITION"
	CodeUnauthorized          = "UNAUTHORIZED"
	CodeNotFound              = "NOT_FOUND"
	CodeConflictingTransition = "CONFLICTING_TRANSITION"
	CodeDuplicateRequest      = "DUPLICATE_REQUEST"
	CodeInternalError         = "INTERNAL_ERROR"
)

// Envelope wraps every response body.
type Envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data"`
	Error   *ErrorBody `json:"error,omitempty"`
}

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func ok(data any) Envelope {
	return Envelope{Success: true, Data: data}
}

// classify maps an error onto its HTTP status and envelope code.
func classify(err error) (int, string) {
	var httpErr *echo.HTTPError
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound, CodeNotFound
	case errors.Is(err, errs.ErrActorIsUnauthorized):
		return http.StatusForbidden, CodeUnauthorized
	case errors.Is(err, errs.ErrVersionIsInvalid):
		return http.StatusConflict, CodeConflictingTransition
	case errors.Is(err, errs.ErrRequestIsDuplicate):
		return http.StatusConflict, CodeDuplicateRequest
	case errors.Is(err, errs.ErrTransitionIsInvalid):
		return http.StatusBadRequest, CodeInvalidTransition
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest, CodeInvalidInput
	case errors.As(err, &httpErr):
		switch httpErr.Code {
		case http.StatusNotFound:
			return httpErr.Code, CodeNotFound
		case http.StatusInternalServerError:
			return httpErr.Code, CodeInternalError
		}
		return httpErr.Code, CodeInvalidInput
	default:
		return http.StatusInternalServerError, CodeInternalError
	}
}

// handleError is the echo error handler. Internal errors are logged and
// answered with a generic message.
func (s *Server) handleError(err error, ctx echo.Context) {
	if ctx.Response().Committed {
		return
	}

	status, code := classify(err)
	message := err.Error()
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		if m, isString := httpErr.Message.(string); isString {
			message = m
		}
	}
	if status == http.StatusInternalServerError {
		s.logger.ErrorContext(ctx.Request().Context(), "request failed",
			"method", ctx.Request().Method,
			"path", ctx.Path(),
			"error", err,
		)
		message = "internal error"
	}

	body := Envelope{Error: &ErrorBody{Code: code, Message: message}}
	var writeErr error
	if ctx.Request().Method == http.MethodHead {
		writeErr = ctx.NoContent(status)
	} else {
		writeErr = ctx.JSON(status, body)
	}
	if writeErr != nil {
		s.logger.Error("write error response", "error", writeErr)
	}
}
