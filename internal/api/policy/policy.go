// Package policy maps each route to the capability required to invoke it.
// The table is consulted by a single middleware, keeping every access rule in
// one testable place instead of scattering role checks across handlers.
package policy

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/youcode/ebanking-api/internal/core/domain"
)

// Capability is the access level required to invoke an operation.
type Capability int

const (
	// Public routes require no identity.
	Public Capability = iota
	// Authenticated routes require any valid identity.
	Authenticated
	// RoleUser routes require the ROLE_USER role.
	RoleUser
	// RoleAdmin routes require the ROLE_ADMIN role.
	RoleAdmin
)

func (c Capability) String() string {
	switch c {
	case Public:
		return "public"
	case Authenticated:
		return "authenticated"
	case RoleUser:
		return "role_user"
	case RoleAdmin:
		return "role_admin"
	default:
		return "unknown"
	}
}

// Table maps "METHOD /route/pattern" to the required capability. Patterns use
// echo's registered route form (":username" style parameters).
type Table map[string]Capability

// Required returns the capability for a route. Unlisted routes require an
// authenticated caller.
func (t Table) Required(method, path string) Capability {
	if required, ok := t[method+" "+path]; ok {
		return required
	}
	return Authenticated
}

// DefaultTable is the access policy for the full HTTP surface.
func DefaultTable() Table {
	return Table{
		"POST /api/users/register":       Public,
		"POST /api/users/login":          Public,
		"POST /api/users/changePassword": Authenticated,

		"PUT /api/users/:username/role":    RoleAdmin,
		"GET /api/users":                   RoleAdmin,
		"GET /api/users/:username":         RoleAdmin,
		"DELETE /api/users/:username":      RoleAdmin,
		"GET /api/users/:username/audit":   RoleAdmin,

		"GET /api/myLoans":   RoleUser,
		"GET /api/myCards":   RoleUser,
		"GET /api/myAccount": RoleUser,
		"GET /api/myBalance": RoleUser,

		"GET /api/notices": Public,
		"GET /api/contact": Public,

		"GET /health":       Public,
		"GET /health/ready": Public,
		"GET /metrics":      Public,
	}
}

// Enforce evaluates the table against the matched route before the handler
// runs. A missing identity on a protected route yields 401; a present
// identity with the wrong role yields 403.
func Enforce(t Table) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			required := t.Required(c.Request().Method, c.Path())
			if required == Public {
				return next(c)
			}

			role, _ := c.Get("role").(string)
			if role == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}

			switch required {
			case RoleUser:
				if role != domain.RoleUser {
					return echo.NewHTTPError(http.StatusForbidden, "access forbidden")
				}
			case RoleAdmin:
				if role != domain.RoleAdmin {
					return echo.NewHTTPError(http.StatusForbidden, "access forbidden")
				}
			}
			return next(c)
		}
	}
}
