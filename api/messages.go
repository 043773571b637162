package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Waseeq-Zafar/Agri-Help-sub000/dispatch"
	"github.com/Waseeq-Zafar/Agri-Help-sub000/domain"
	"github.com/Waseeq-Zafar/Agri-Help-sub000/session"
)

type attachmentRequest struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
	URL  string `json:"url"`
	Size int64  `json:"size"`
	Data []byte `json:"data"` // base64 in JSON
}

type sendMessageRequest struct {
	Content     string              `json:"content"`
	Attachments []attachmentRequest `json:"attachments"`
}

// SendMessage appends a user turn, dispatches it, and appends the resulting
// assistant turn. A dispatch already in flight for the conversation yields
// 409; a missing verification token yields 403. Neither stores the turn.
// POST /v1/conversations/:conversation_id/messages
func (h *Handler) SendMessage(c echo.Context) error {
	conversationID := c.Param("conversation_id")

	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.Content == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "content is required"})
	}

	conv, ok := h.sessions.Get(conversationID)
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "conversation not found"})
	}

	return h.dispatchTurn(c, conv, req)
}

// SendToActive sends a message to the active conversation. With nothing
// active a fresh unbound conversation is started first, so a user can always
// just type.
// POST /v1/messages
func (h *Handler) SendToActive(c echo.Context) error {
	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.Content == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "content is required"})
	}

	conv := h.sessions.Active()
	if conv == nil {
		conv = h.sessions.Create(nil, h.defaultLanguage)
	}

	return h.dispatchTurn(c, conv, req)
}

// dispatchTurn builds the user turn from the request and runs one dispatch
// round trip against conv.
func (h *Handler) dispatchTurn(c echo.Context, conv *domain.Conversation, req sendMessageRequest) error {
	ctx := c.Request().Context()

	attachments := make([]domain.Attachment, 0, len(req.Attachments))
	for _, a := range req.Attachments {
		attachments = append(attachments, domain.Attachment{
			ID:   uuid.NewString(),
			Name: a.Name,
			Kind: domain.AttachmentKind(a.Kind),
			URL:  a.URL,
			Size: a.Size,
			Data: a.Data,
		})
	}

	userTurn := domain.Turn{
		ID:          uuid.NewString(),
		Role:        domain.RoleUser,
		Content:     req.Content,
		Timestamp:   time.Now(),
		Language:    conv.Language,
		Attachments: attachments,
	}

	assistantTurn, err := h.router.Dispatch(ctx, conv, userTurn)
	switch {
	case errors.Is(err, dispatch.ErrBusy):
		return c.JSON(http.StatusConflict, map[string]string{"error": "a response is already being generated for this conversation"})
	case errors.Is(err, dispatch.ErrUnverified):
		return c.JSON(http.StatusForbidden, map[string]string{"error": "human verification required"})
	case errors.Is(err, session.ErrNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": "conversation not found"})
	case err != nil:
		h.log.Error().Err(err).Str("conversation", conv.ID).Msg("dispatch failed")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to process message"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"conversation_id":   conv.ID,
		"user_message":      userTurn,
		"assistant_message": assistantTurn,
	})
}

// TranslateMessage returns one turn's text in the requested language. The
// translation is fetched fresh on every request and the stored overlay entry
// is replaced with the result.
// POST /v1/conversations/:conversation_id/messages/:message_id/translate
func (h *Handler) TranslateMessage(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		TargetLang string `json:"target_lang"`
	}
	if err := c.Bind(&req); err != nil || req.TargetLang == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "target_lang is required"})
	}

	text, err := h.overlay.Translate(ctx, c.Param("conversation_id"), c.Param("message_id"), req.TargetLang)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "message not found"})
		}
		h.log.Error().Err(err).Msg("translation failed")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to translate message"})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"target_lang": req.TargetLang,
		"text":        text,
	})
}
