package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/rental-marketplace/internal/model"
)

// OwnerHandler serves the owner dashboard: listing properties and the
// request counts.  Booking decisions live on BookingHandler.
type OwnerHandler struct {
	Base
}

func NewOwnerHandler(b Base) *OwnerHandler { return &OwnerHandler{Base: b} }

type createPropertyReq struct {
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Type        model.PropertyType `json:"type"`
	Rent        float64            `json:"rent"`
	Location    string             `json:"location"`
	Amenities   []string           `json:"amenities"`
	Image       string             `json:"image"`
}

// CreateProperty lists a new property for review.  It is stored as
// pending whatever the body says, so public listings are unaffected
// until an admin approves it.
func (h *OwnerHandler) CreateProperty(c echo.Context) error {
	var req createPropertyReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return badRequest(c, "title required")
	}
	if req.Rent <= 0 {
		return badRequest(c, "rent must be positive")
	}
	if !req.Type.Valid() {
		return badRequest(c, "invalid type")
	}
	amenities := make([]string, 0, len(req.Amenities))
	for _, a := range req.Amenities {
		if a = strings.TrimSpace(a); a != "" {
			amenities = append(amenities, a)
		}
	}

	ctx, cancel := h.ctx(c)
	defer cancel()
	owner, err := h.currentUser(ctx, c)
	if err != nil {
		return fail(c, err)
	}
	p, err := h.Store.CreateProperty(ctx, model.Property{
		Title:       req.Title,
		Description: strings.TrimSpace(req.Description),
		Type:        req.Type,
		Rent:        req.Rent,
		Location:    strings.TrimSpace(req.Location),
		Amenities:   amenities,
		Image:       strings.TrimSpace(req.Image),
	}, owner)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

// MyProperties lists the caller's properties in every status.
func (h *OwnerHandler) MyProperties(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return fail(c, err)
	}
	ctx, cancel := h.ctx(c)
	defer cancel()
	props, err := h.Store.PropertiesByOwner(ctx, uid)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": props})
}

// Stats returns the caller's property and request counts.
func (h *OwnerHandler) Stats(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return fail(c, err)
	}
	ctx, cancel := h.ctx(c)
	defer cancel()
	st, err := h.Store.OwnerStats(ctx, uid)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, st)
}
