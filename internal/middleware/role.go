package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireRole returns a middleware that enforces that the authenticated user
// carries at least one of the given roles. It assumes JWTAuth has already
// stored the roles claim in the context; a missing claim is treated the same
// as an insufficient one and answered with 403.
//
// The three authorization levels of the API are expressed through this one
// middleware: JWTAuth alone for "logged in", RequireRole("admin") for admin
// routes and RequireRole("admin", "mitarbeiter") for staff routes.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			held, ok := c.Get(CtxRoles).([]string)
			if !ok {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			for _, r := range held {
				if allowed[r] {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
	}
}
