package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/rental-marketplace/internal/chat"
)

// MessageHandler serves direct messages.  Clients poll these routes;
// nothing is pushed.
type MessageHandler struct {
	Base
}

func NewMessageHandler(b Base) *MessageHandler { return &MessageHandler{Base: b} }

type sendMessageReq struct {
	ReceiverID string `json:"receiverId"`
	Text       string `json:"text"`
}

// List returns every message the caller sent or received.
func (h *MessageHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return fail(c, err)
	}
	ctx, cancel := h.ctx(c)
	defer cancel()
	msgs, err := h.Store.MessagesFor(ctx, uid)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": msgs})
}

// Send stores a message from the caller.  The receiver need not exist.
func (h *MessageHandler) Send(c echo.Context) error {
	var req sendMessageReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	req.ReceiverID = strings.TrimSpace(req.ReceiverID)
	req.Text = strings.TrimSpace(req.Text)
	if req.ReceiverID == "" || req.Text == "" {
		return badRequest(c, "receiverId and text required")
	}

	ctx, cancel := h.ctx(c)
	defer cancel()
	u, err := h.currentUser(ctx, c)
	if err != nil {
		return fail(c, err)
	}
	m, err := h.Store.SendMessage(ctx, u, req.ReceiverID, req.Text)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, m)
}

// Conversations returns the caller's inbox, newest conversation first.
func (h *MessageHandler) Conversations(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return fail(c, err)
	}
	ctx, cancel := h.ctx(c)
	defer cancel()
	msgs, err := h.Store.MessagesFor(ctx, uid)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": chat.Conversations(msgs, uid)})
}

// Thread returns the caller's exchange with :userId, oldest first.
func (h *MessageHandler) Thread(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return fail(c, err)
	}
	ctx, cancel := h.ctx(c)
	defer cancel()
	msgs, err := h.Store.MessagesFor(ctx, uid)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": chat.Thread(msgs, uid, c.Param("userId"))})
}
