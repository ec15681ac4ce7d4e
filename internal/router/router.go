package router

import (
	"github.com/labstack/echo/v4"

	"github.com/djungler/filmkatalog/internal/handler"
	"github.com/djungler/filmkatalog/internal/middleware"
	"github.com/djungler/filmkatalog/internal/model"
)

// RegisterRoutes registers routes that need neither authentication nor a
// catalog handler. Currently that is only the health check used by load
// balancers and monitoring.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth exposes the login endpoint. It takes form-encoded
// credentials, so no JWT middleware applies here.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler) {
	e.POST("/api/login", a.Login)
}

// RegisterFilme wires the REST surface of the catalog under /api/filme.
//
// Reads are public; cacheMW, when non-nil, serves repeated GETs from the
// response cache. Writes require a valid token: create, update and the file
// upload are open to admin and mitarbeiter, delete to admin only.
func RegisterFilme(e *echo.Echo, f *handler.FilmHandler, ff *handler.FilmFileHandler, jwtSecret string, cacheMW echo.MiddlewareFunc) {
	read := e.Group(handler.FilmePath)
	if cacheMW != nil {
		read.Use(cacheMW)
	}
	read.GET("", f.Find)
	read.GET("/:id", f.FindByID)
	read.GET("/:id/file", ff.Download)

	write := e.Group(handler.FilmePath)
	write.Use(middleware.JWTAuth(jwtSecret))

	staff := write.Group("", middleware.RequireRole(model.RoleAdmin, model.RoleMitarbeiter))
	staff.POST("", f.Create)
	staff.PUT("/:id", f.Update)
	staff.PUT("/:id/file", ff.Upload)

	write.DELETE("/:id", f.Delete, middleware.RequireRole(model.RoleAdmin))
}

// RegisterGraphQL exposes the query and mutation endpoint. Like the REST
// reads it is public; the mutations go through the same service layer, so
// invalid input still fails there.
func RegisterGraphQL(e *echo.Echo, g *handler.GraphQLHandler) {
	e.POST("/graphql", g.Execute)
}
