package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/rental-marketplace/internal/model"
)

// AdminHandler serves moderation: listing review, account blocking and
// site-wide counts.
type AdminHandler struct {
	Base
	Cache CachePurger
}

func NewAdminHandler(b Base, cache CachePurger) *AdminHandler {
	if cache == nil {
		cache = nopPurger{}
	}
	return &AdminHandler{Base: b, Cache: cache}
}

type propertyStatusReq struct {
	Status model.PropertyStatus `json:"status"`
}

// Stats returns the dashboard counts, computed on each call.
func (h *AdminHandler) Stats(c echo.Context) error {
	ctx, cancel := h.ctx(c)
	defer cancel()
	st, err := h.Store.AdminStats(ctx)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, st)
}

// Pending lists properties waiting for review.
func (h *AdminHandler) Pending(c echo.Context) error {
	ctx, cancel := h.ctx(c)
	defer cancel()
	props, err := h.Store.ListProperties(ctx)
	if err != nil {
		return fail(c, err)
	}
	out := []model.Property{}
	for _, p := range props {
		if p.Status == model.PropertyPending {
			out = append(out, p)
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// SetPropertyStatus records a review decision.  Unknown ids are accepted
// and change nothing.
func (h *AdminHandler) SetPropertyStatus(c echo.Context) error {
	var req propertyStatusReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if !req.Status.Valid() {
		return badRequest(c, "invalid status")
	}
	ctx, cancel := h.ctx(c)
	defer cancel()
	if err := h.Store.SetPropertyStatus(ctx, c.Param("id"), req.Status); err != nil {
		return fail(c, err)
	}
	h.Cache.Purge(ctx)
	return c.NoContent(http.StatusNoContent)
}

// Users lists accounts matching ?q= by name or email.
func (h *AdminHandler) Users(c echo.Context) error {
	ctx, cancel := h.ctx(c)
	defer cancel()
	users, err := h.Store.SearchUsers(ctx, c.QueryParam("q"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": users})
}

// ToggleBlock blocks or unblocks an account and returns it.  Tokens
// already issued to that account keep working until they expire; only
// new logins are refused.
func (h *AdminHandler) ToggleBlock(c echo.Context) error {
	ctx, cancel := h.ctx(c)
	defer cancel()
	u, err := h.Store.ToggleUserBlocked(ctx, c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, u)
}
