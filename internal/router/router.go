package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/rental-marketplace/internal/handler"
	"github.com/iliyamo/rental-marketplace/internal/middleware"
)

// Handlers groups everything the routes dispatch to.
type Handlers struct {
	Auth     *handler.AuthHandler
	Property *handler.PropertyHandler
	Booking  *handler.BookingHandler
	Message  *handler.MessageHandler
	Owner    *handler.OwnerHandler
	Admin    *handler.AdminHandler
}

// Register mounts every route on e.  cache wraps the public listing
// routes; it may be a disabled cache.
func Register(e *echo.Echo, h Handlers, jwtSecret string, cache *middleware.ResponseCache) {
	RegisterRoutes(e)
	RegisterAuth(e, h.Auth, jwtSecret)
	RegisterPublic(e, h.Property, cache)
	RegisterUser(e, h, jwtSecret)
	RegisterOwner(e, h.Owner, h.Booking, jwtSecret)
	RegisterAdmin(e, h.Admin, jwtSecret)
}

// RegisterRoutes registers routes that need neither a session nor the
// store.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers login under /v1/auth and the session routes
// that need a token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	e.POST("/v1/auth/login", a.Login)

	jwt := middleware.JWTAuth(jwtSecret)
	e.POST("/v1/auth/refresh", a.Refresh, jwt)
	e.GET("/v1/me", a.Me, jwt)
}

// RegisterPublic registers guest browsing.  Only approved listings are
// returned by the list route.
func RegisterPublic(e *echo.Echo, p *handler.PropertyHandler, cache *middleware.ResponseCache) {
	cached := cache.Middleware()
	e.GET("/v1/properties", p.List, cached)
	e.GET("/v1/properties/:id", p.Get, cached)
}
