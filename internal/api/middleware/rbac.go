package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/modernmember/member-directory/internal/core/domain"
)

// RequireAuthenticated rejects anonymous requests with 401. The gate has
// already run; anything without a principal at this point carried no usable
// token.
func RequireAuthenticated() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if Principal(c) == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			return next(c)
		}
	}
}

// RequireRole enforces role-based access control on a route group. Implies
// RequireAuthenticated.
func RequireRole(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p := Principal(c)
			if p == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			if _, ok := allowed[p.Role]; !ok {
				return echo.NewHTTPError(http.StatusForbidden, "forbidden")
			}
			return next(c)
		}
	}
}
