package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/rental-marketplace/internal/config"
	"github.com/iliyamo/rental-marketplace/internal/model"
	"github.com/iliyamo/rental-marketplace/internal/repository"
	"github.com/iliyamo/rental-marketplace/internal/utils"
)

// AuthHandler signs users in.  There are no passwords: an email either
// names an existing account or registers a new one.
type AuthHandler struct {
	Base
	Cfg config.Config
}

func NewAuthHandler(b Base, cfg config.Config) *AuthHandler {
	return &AuthHandler{Base: b, Cfg: cfg}
}

type loginReq struct {
	Email string `json:"email"`
	Role  string `json:"role"` // admin | owner | user; only used for new accounts
}

type authResp struct {
	User   model.User        `json:"user"`
	Access utils.AccessToken `json:"access"`
}

// Login resolves the account and returns it with an access token.
// Blocked accounts get 403 with BlockedMessage.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" {
		return badRequest(c, "email required")
	}

	ctx, cancel := h.ctx(c)
	defer cancel()
	u, err := h.Store.ResolveLogin(ctx, req.Email, model.Role(strings.ToLower(strings.TrimSpace(req.Role))))
	if err != nil {
		return fail(c, err)
	}
	return h.issue(c, u)
}

// Me returns the caller's current account record.
func (h *AuthHandler) Me(c echo.Context) error {
	ctx, cancel := h.ctx(c)
	defer cancel()
	u, err := h.currentUser(ctx, c)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, u)
}

// Refresh re-reads the caller's account and issues a token carrying its
// current role.  A deleted account gets 401, a blocked one 403.
func (h *AuthHandler) Refresh(c echo.Context) error {
	ctx, cancel := h.ctx(c)
	defer cancel()
	u, err := h.currentUser(ctx, c)
	if err != nil {
		return fail(c, err)
	}
	if u.IsBlocked {
		return fail(c, repository.ErrBlocked)
	}
	return h.issue(c, u)
}

func (h *AuthHandler) issue(c echo.Context, u model.User) error {
	at, err := utils.NewAccessToken(h.Cfg.JWTSecret, u, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token issue failed"})
	}
	return c.JSON(http.StatusOK, authResp{User: u, Access: at})
}
