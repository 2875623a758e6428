package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/rental-marketplace/internal/handler"
	"github.com/iliyamo/rental-marketplace/internal/middleware"
	"github.com/iliyamo/rental-marketplace/internal/model"
)

// RegisterOwner registers owner-scoped endpoints under /v1/owner.  All
// routes require a valid JWT and the owner role.
func RegisterOwner(e *echo.Echo, o *handler.OwnerHandler, b *handler.BookingHandler, jwtSecret string) {
	g := e.Group(
		"/v1/owner",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleOwner),
	)

	g.POST("/properties", o.CreateProperty)
	g.GET("/properties", o.MyProperties)
	g.GET("/stats", o.Stats)

	g.GET("/bookings", b.ForOwner)
	g.PATCH("/bookings/:id", b.Decide)
}

// RegisterAdmin registers moderation endpoints under /v1/admin.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, jwtSecret string) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
	)

	g.GET("/stats", a.Stats)
	g.GET("/properties/pending", a.Pending)
	g.PATCH("/properties/:id", a.SetPropertyStatus)
	g.GET("/users", a.Users)
	g.POST("/users/:id/block", a.ToggleBlock)
}
