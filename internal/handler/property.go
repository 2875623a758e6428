package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/rental-marketplace/internal/model"
	"github.com/iliyamo/rental-marketplace/internal/repository"
)

// PropertyHandler serves listing browsing and the caller's favorites.
type PropertyHandler struct {
	Base
}

func NewPropertyHandler(b Base) *PropertyHandler { return &PropertyHandler{Base: b} }

// List returns approved properties, optionally narrowed by location
// (substring), type (exact) and q (keywords).
func (h *PropertyHandler) List(c echo.Context) error {
	f := repository.PropertyFilter{
		Location:     strings.TrimSpace(c.QueryParam("location")),
		Type:         model.PropertyType(strings.TrimSpace(c.QueryParam("type"))),
		Query:        strings.TrimSpace(c.QueryParam("q")),
		OnlyApproved: true,
	}
	if f.Type != "" && !f.Type.Valid() {
		return badRequest(c, "invalid type")
	}

	ctx, cancel := h.ctx(c)
	defer cancel()
	props, err := h.Store.SearchProperties(ctx, f)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": props, "total": len(props)})
}

// Get returns one property by id in any status.
func (h *PropertyHandler) Get(c echo.Context) error {
	ctx, cancel := h.ctx(c)
	defer cancel()
	p, err := h.Store.GetPropertyByID(ctx, c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// ToggleFavorite adds or removes the property from the caller's
// favorites and returns the updated account.  The property id is not
// checked.
func (h *PropertyHandler) ToggleFavorite(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return fail(c, err)
	}
	ctx, cancel := h.ctx(c)
	defer cancel()
	u, err := h.Store.ToggleFavorite(ctx, uid, c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, u)
}

// Favorites resolves the caller's favorite properties.
func (h *PropertyHandler) Favorites(c echo.Context) error {
	ctx, cancel := h.ctx(c)
	defer cancel()
	u, err := h.currentUser(ctx, c)
	if err != nil {
		return fail(c, err)
	}
	props, err := h.Store.FavoriteProperties(ctx, u)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": props})
}
