package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/kmtdiscovery/admin-console/internal/core/domain"
)

// errorResponse is the canonical error envelope for all gateway errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that maps domain
// errors to status codes and renders {"error": "<message>"}. Upstream 5xx
// answers become 502; unexpected errors are logged and hidden.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	var rf *domain.RequestFailedError
	if errors.As(err, &rf) {
		if rf.Status >= http.StatusInternalServerError {
			return http.StatusBadGateway, rf.Error()
		}
		return rf.Status, rf.Error()
	}

	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, domain.MsgAuthRequired
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, domain.Message(err, "")
	case errors.Is(err, domain.ErrValidation):
		return http.StatusUnprocessableEntity, domain.Message(err, err.Error())
	case errors.Is(err, domain.ErrUnsupported):
		return http.StatusMethodNotAllowed, "operation not supported"
	case errors.Is(err, domain.ErrParseFailure):
		return http.StatusBadGateway, domain.MsgParseFailure
	case errors.Is(err, domain.ErrUnavailable):
		return http.StatusServiceUnavailable, domain.MsgUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "upstream timeout"
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
