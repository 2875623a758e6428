package handler // handler defines the HTTP handlers of the marketplace API

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/rental-marketplace/internal/middleware"
	"github.com/iliyamo/rental-marketplace/internal/model"
	"github.com/iliyamo/rental-marketplace/internal/repository"
)

const defaultTimeout = 5 * time.Second

// CachePurger drops cached listing responses after a write changes what
// the public routes return.
type CachePurger interface {
	Purge(ctx context.Context)
}

type nopPurger struct{}

func (nopPurger) Purge(context.Context) {}

// Base carries what every handler needs: the store and the time budget
// for one store call.
type Base struct {
	Store   *repository.Store
	Timeout time.Duration
}

func (b Base) ctx(c echo.Context) (context.Context, context.CancelFunc) {
	d := b.Timeout
	if d <= 0 {
		d = defaultTimeout
	}
	return context.WithTimeout(c.Request().Context(), d)
}

// currentUser loads the caller named by the token's subject.  A subject
// that no longer exists is treated as signed out.
func (b Base) currentUser(ctx context.Context, c echo.Context) (model.User, error) {
	id, err := getUserID(c)
	if err != nil {
		return model.User{}, err
	}
	u, err := b.Store.GetUser(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return model.User{}, errUnknownSubject
	}
	return u, err
}

var (
	errNoSubject      = errors.New("invalid user_id in context")
	errUnknownSubject = errors.New("account no longer exists")
)

// getUserID returns the subject placed in the context by JWTAuth.
func getUserID(c echo.Context) (string, error) {
	if s, ok := c.Get(middleware.CtxUserID).(string); ok && s != "" {
		return s, nil
	}
	return "", errNoSubject
}

// fail maps store and context errors to JSON error responses.
func fail(c echo.Context, err error) error {
	switch {
	case errors.Is(err, errNoSubject), errors.Is(err, errUnknownSubject):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrBlocked):
		return c.JSON(http.StatusForbidden, echo.Map{"error": repository.BlockedMessage})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.Is(err, context.DeadlineExceeded):
		return c.JSON(http.StatusGatewayTimeout, echo.Map{"error": "store timeout"})
	}
	log.Printf("handler: %s %s: %v", c.Request().Method, c.Path(), err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}
