package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Waseeq-Zafar/Agri-Help-sub000/catalog"
	"github.com/Waseeq-Zafar/Agri-Help-sub000/domain"
	"github.com/Waseeq-Zafar/Agri-Help-sub000/session"
)

// CreateConversation starts a new conversation, optionally bound to a
// catalog agent.
// POST /v1/conversations
func (h *Handler) CreateConversation(c echo.Context) error {
	var req struct {
		AgentID  string `json:"agent_id"`
		Language string `json:"language"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.Language == "" {
		req.Language = "en"
	}

	var agent *domain.AgentRef
	if req.AgentID != "" {
		ref, ok := catalog.Lookup(req.AgentID)
		if !ok {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "unknown agent"})
		}
		if !ref.AgentCapable() {
			return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": "agent does not support conversations"})
		}
		agent = &ref
	}

	conv := h.sessions.Create(agent, req.Language)
	return c.JSON(http.StatusCreated, conv)
}

// ListConversations returns all conversations, most recently updated first.
// GET /v1/conversations
func (h *Handler) ListConversations(c echo.Context) error {
	convs := h.sessions.List()
	summaries := make([]map[string]interface{}, 0, len(convs))
	for _, conv := range convs {
		summary := map[string]interface{}{
			"id":            conv.ID,
			"title":         conv.Title,
			"language":      conv.Language,
			"message_count": len(conv.Messages),
			"created_at":    conv.CreatedAt,
			"updated_at":    conv.UpdatedAt,
		}
		if conv.Agent != nil {
			summary["agent"] = conv.Agent
		}
		summaries = append(summaries, summary)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"conversations": summaries})
}

// GetConversationMessages returns the full turn list for a conversation.
// GET /v1/conversations/:conversation_id/messages
func (h *Handler) GetConversationMessages(c echo.Context) error {
	conv, ok := h.sessions.Get(c.Param("conversation_id"))
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "conversation not found"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"conversation_id": conv.ID,
		"messages":        conv.Messages,
	})
}

// SelectConversation marks a conversation as the active one. The previously
// active conversation is persisted right away instead of waiting out its
// quiet window.
// POST /v1/conversations/:conversation_id/select
func (h *Handler) SelectConversation(c echo.Context) error {
	conversationID := c.Param("conversation_id")

	prev := h.sessions.Active()
	if err := h.sessions.Select(conversationID); err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "conversation not found"})
	}
	if prev != nil && prev.ID != conversationID {
		h.flusher.Flush(prev.ID)
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteConversation removes a conversation from the session store and from
// durable storage.
// DELETE /v1/conversations/:conversation_id
func (h *Handler) DeleteConversation(c echo.Context) error {
	ctx := c.Request().Context()
	conversationID := c.Param("conversation_id")

	if err := h.sessions.Delete(conversationID); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "conversation not found"})
		}
		h.log.Error().Err(err).Msg("failed to delete conversation")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to delete conversation"})
	}
	if err := h.store.Delete(ctx, h.userID, conversationID); err != nil {
		h.log.Error().Err(err).Str("conversation", conversationID).Msg("failed to delete stored conversation")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to delete stored conversation"})
	}
	return c.NoContent(http.StatusNoContent)
}
