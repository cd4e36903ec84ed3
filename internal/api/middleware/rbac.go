package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kmtdiscovery/admin-console/internal/core/domain"
)

// RoleSource reports the role of the signed-in operator. ok is false when the
// session does not carry a user (for example a service token).
type RoleSource func() (role domain.Role, ok bool)

// RequireRole enforces role-based access on admin pages. Requests pass when
// the operator's role is allowed or when no operator is known; the remote API
// still authorizes the token itself.
func RequireRole(source RoleSource, allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := source()
			if !ok {
				return next(c)
			}
			if _, found := allowed[role]; !found {
				return echo.NewHTTPError(http.StatusForbidden, "forbidden")
			}
			c.Set("role", role)
			return next(c)
		}
	}
}
