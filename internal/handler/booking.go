package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/rental-marketplace/internal/model"
	"github.com/iliyamo/rental-marketplace/internal/queue"
	"github.com/iliyamo/rental-marketplace/internal/repository"
	"github.com/iliyamo/rental-marketplace/internal/service"
)

// BookingHandler serves booking requests by tenants and decisions by
// owners.  Each change is published as a queue.BookingEvent; publish
// failures never fail the request.
type BookingHandler struct {
	Base
	Events service.Publisher
	Now    func() time.Time
}

func NewBookingHandler(b Base, events service.Publisher) *BookingHandler {
	if events == nil {
		events = service.NopPublisher{}
	}
	return &BookingHandler{Base: b, Events: events, Now: time.Now}
}

type createBookingReq struct {
	Date string `json:"date"` // RFC 3339 or YYYY-MM-DD; defaults to now
}

type decideBookingReq struct {
	Status model.BookingStatus `json:"status"`
}

// Create requests the property for the caller.
func (h *BookingHandler) Create(c echo.Context) error {
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	date, err := parseDate(req.Date, h.Now())
	if err != nil {
		return badRequest(c, "invalid date")
	}

	ctx, cancel := h.ctx(c)
	defer cancel()
	u, err := h.currentUser(ctx, c)
	if err != nil {
		return fail(c, err)
	}
	p, err := h.Store.GetPropertyByID(ctx, c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	b, err := h.Store.CreateBooking(ctx, p, u, date)
	if err != nil {
		return fail(c, err)
	}
	h.publish(c, queue.KindRequested, b)
	return c.JSON(http.StatusCreated, b)
}

// Mine lists the caller's own requests.
func (h *BookingHandler) Mine(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return fail(c, err)
	}
	ctx, cancel := h.ctx(c)
	defer cancel()
	bookings, err := h.Store.BookingsByUser(ctx, uid)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": bookings})
}

// ForOwner lists requests against the caller's properties.
func (h *BookingHandler) ForOwner(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return fail(c, err)
	}
	ctx, cancel := h.ctx(c)
	defer cancel()
	bookings, err := h.Store.BookingsByOwner(ctx, uid)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": bookings})
}

// Decide approves or rejects a request.  The booking must belong to one
// of the caller's properties; an unknown id is accepted and changes
// nothing.
func (h *BookingHandler) Decide(c echo.Context) error {
	var req decideBookingReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if req.Status != model.BookingApproved && req.Status != model.BookingRejected {
		return badRequest(c, "status must be approved or rejected")
	}
	uid, err := getUserID(c)
	if err != nil {
		return fail(c, err)
	}
	id := c.Param("id")

	ctx, cancel := h.ctx(c)
	defer cancel()
	b, err := h.Store.GetBooking(ctx, id)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		if err := h.Store.SetBookingStatus(ctx, id, req.Status); err != nil {
			return fail(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	case err != nil:
		return fail(c, err)
	case b.OwnerID != uid:
		return fail(c, repository.ErrForbidden)
	}

	if err := h.Store.SetBookingStatus(ctx, id, req.Status); err != nil {
		return fail(c, err)
	}
	b.Status = req.Status
	h.publish(c, queue.KindDecided, b)
	return c.JSON(http.StatusOK, b)
}

func (h *BookingHandler) publish(c echo.Context, kind string, b model.Booking) {
	ev := queue.NewBookingEvent(kind, b, h.Now())
	// not tied to the request: the client may hang up once it has the response
	d := h.Timeout
	if d <= 0 {
		d = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	if err := h.Events.PublishBooking(ctx, ev); err != nil {
		c.Logger().Warnf("booking %s: publish %s event: %v", b.ID, kind, err)
	}
}

func parseDate(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return now.UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	return time.Parse("2006-01-02", s)
}
