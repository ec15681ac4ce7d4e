// Package middleware contains the reusable HTTP middleware: bearer-token
// authentication, role enforcement, Redis response caching and distributed
// rate limiting.
package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/djungler/filmkatalog/internal/utils"
)

// Context keys under which JWTAuth stores the verified identity.
const (
	CtxUsername = "username"
	CtxRoles    = "roles"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token and
// injects the subject and roles claims into the request context. Missing or
// invalid tokens short-circuit with 401 before any business logic runs; an
// expired token additionally carries a WWW-Authenticate header describing
// the error, as RFC 6750 asks.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			principal, err := utils.VerifyAccessToken(secret, raw)
			if err != nil {
				if errors.Is(err, utils.ErrTokenExpired) {
					c.Response().Header().Set("WWW-Authenticate",
						fmt.Sprintf(`Bearer realm="acme.com", error="invalid_token", error_description="%s"`, err))
					return c.JSON(http.StatusUnauthorized, echo.Map{"error": "token expired"})
				}
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}

			c.Set(CtxUsername, principal.Username)
			c.Set(CtxRoles, principal.Roles)
			return next(c)
		}
	}
}
