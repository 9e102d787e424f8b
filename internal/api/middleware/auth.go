package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/modernmember/member-directory/internal/api/metrics"
	"github.com/modernmember/member-directory/internal/core/domain"
	"github.com/modernmember/member-directory/internal/core/token"
)

// PrincipalKey is the echo context key the authenticated principal is
// stored under.
const PrincipalKey = "principal"

// Authenticate is the per-request authentication gate. It extracts the
// bearer token, runs the full validation including the revocation check,
// and stores the resulting principal in the request context.
//
// A missing or invalid token never aborts the request here: the request
// continues anonymously and downstream authorization decides whether
// anonymous access is permitted. The one exception is an identity store
// failure, which surfaces as 503 — degraded infrastructure must never be
// mistaken for a revoked session or an anonymous caller.
func Authenticate(validator *token.Validator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := bearerToken(c.Request().Header.Get("Authorization"))

			principal, err := validator.Authenticate(c.Request().Context(), raw)
			if err != nil {
				switch {
				case errors.Is(err, domain.ErrTokenExpired):
					metrics.TokenValidationsTotal.WithLabelValues("expired").Inc()
				case errors.Is(err, domain.ErrTokenInvalid):
					metrics.TokenValidationsTotal.WithLabelValues("invalid").Inc()
				case errors.Is(err, domain.ErrSessionRevoked):
					metrics.TokenValidationsTotal.WithLabelValues("revoked").Inc()
				case errors.Is(err, domain.ErrMemberNotFound):
					metrics.TokenValidationsTotal.WithLabelValues("unknown_subject").Inc()
				default:
					metrics.TokenValidationsTotal.WithLabelValues("store_error").Inc()
					return echo.NewHTTPError(http.StatusServiceUnavailable, "identity store unavailable")
				}
				return next(c)
			}

			if principal == nil {
				metrics.TokenValidationsTotal.WithLabelValues("anonymous").Inc()
				return next(c)
			}

			metrics.TokenValidationsTotal.WithLabelValues("ok").Inc()
			c.Set(PrincipalKey, principal)
			return next(c)
		}
	}
}

// bearerToken extracts the token from an Authorization header. Returns ""
// when the header is absent or not a bearer scheme.
func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// Principal returns the authenticated principal from the context, or nil
// when the request is anonymous.
func Principal(c echo.Context) *domain.Principal {
	p, _ := c.Get(PrincipalKey).(*domain.Principal)
	return p
}
