package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/rental-marketplace/internal/middleware"
	"github.com/iliyamo/rental-marketplace/internal/model"
)

// RegisterUser registers routes for any signed-in account: favorites,
// messaging and the caller's bookings.  Requesting a booking is limited
// to tenants.
func RegisterUser(e *echo.Echo, h Handlers, jwtSecret string) {
	jwt := middleware.JWTAuth(jwtSecret)

	e.POST("/v1/properties/:id/favorite", h.Property.ToggleFavorite, jwt)
	e.GET("/v1/me/favorites", h.Property.Favorites, jwt)
	e.GET("/v1/me/bookings", h.Booking.Mine, jwt)
	e.POST("/v1/properties/:id/bookings", h.Booking.Create, jwt, middleware.RequireRole(model.RoleUser))

	e.GET("/v1/messages", h.Message.List, jwt)
	e.POST("/v1/messages", h.Message.Send, jwt)
	e.GET("/v1/conversations", h.Message.Conversations, jwt)
	e.GET("/v1/conversations/:userId", h.Message.Thread, jwt)
}
