package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/modernmember/member-directory/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrAuthenticationFailed):
		return http.StatusUnauthorized, domain.ErrAuthenticationFailed.Error()
	case errors.Is(err, domain.ErrTokenExpired),
		errors.Is(err, domain.ErrSessionRevoked):
		return http.StatusUnauthorized, "session has expired or been invalidated, please login again"
	case errors.Is(err, domain.ErrTokenInvalid):
		return http.StatusUnauthorized, "invalid token"
	case errors.Is(err, domain.ErrMemberNotFound):
		return http.StatusNotFound, "member not found"
	case errors.Is(err, domain.ErrHandleTaken),
		errors.Is(err, domain.ErrEmailTaken),
		errors.Is(err, domain.ErrPhoneTaken):
		return http.StatusConflict, err.Error()
	case errors.Is(err, domain.ErrAccessDenied):
		return http.StatusForbidden, "you do not have permission to access this resource"
	case errors.Is(err, domain.ErrLastAdmin):
		return http.StatusForbidden, "cannot remove the last administrator, promote another member first"
	case errors.Is(err, domain.ErrRoleUnknown):
		return http.StatusBadRequest, domain.ErrRoleUnknown.Error()
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
