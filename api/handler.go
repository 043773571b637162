// Package api provides HTTP handlers for the advisory dispatch service.
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/Waseeq-Zafar/Agri-Help-sub000/dispatch"
	"github.com/Waseeq-Zafar/Agri-Help-sub000/persist"
	"github.com/Waseeq-Zafar/Agri-Help-sub000/security"
	"github.com/Waseeq-Zafar/Agri-Help-sub000/session"
	"github.com/Waseeq-Zafar/Agri-Help-sub000/translate"
)

// Flusher persists a conversation's pending snapshot immediately.
// *persist.Debouncer satisfies it.
type Flusher interface {
	Flush(conversationID string)
}

// Handler handles HTTP requests.
type Handler struct {
	sessions *session.Store
	router   *dispatch.Router
	overlay  *translate.Overlay
	verifier *security.Verifier
	gate     *security.Gate
	toolMode *dispatch.ToolModeFlag
	store    persist.Store
	flusher  Flusher

	userID          string
	defaultLanguage string
	log             zerolog.Logger
}

// NewHandler creates a new handler.
func NewHandler(sessions *session.Store, router *dispatch.Router, overlay *translate.Overlay, verifier *security.Verifier, gate *security.Gate, toolMode *dispatch.ToolModeFlag, store persist.Store, flusher Flusher, userID, defaultLanguage string, log zerolog.Logger) *Handler {
	return &Handler{
		sessions:        sessions,
		router:          router,
		overlay:         overlay,
		verifier:        verifier,
		gate:            gate,
		toolMode:        toolMode,
		store:           store,
		flusher:         flusher,
		userID:          userID,
		defaultLanguage: defaultLanguage,
		log:             log.With().Str("component", "api").Logger(),
	}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	// Conversation API
	e.POST("/v1/conversations", h.CreateConversation)
	e.GET("/v1/conversations", h.ListConversations)
	e.GET("/v1/conversations/:conversation_id/messages", h.GetConversationMessages)
	e.POST("/v1/conversations/:conversation_id/messages", h.SendMessage)
	e.POST("/v1/conversations/:conversation_id/messages/:message_id/translate", h.TranslateMessage)
	e.POST("/v1/conversations/:conversation_id/select", h.SelectConversation)
	e.DELETE("/v1/conversations/:conversation_id", h.DeleteConversation)

	// Shorthand that targets whatever conversation is active
	e.POST("/v1/messages", h.SendToActive)

	// Verification and tool mode
	e.POST("/v1/verify", h.Verify)
	e.PUT("/v1/toolmode", h.SetToolMode)

	// Agent registry API
	e.GET("/v1/agents", h.ListAgents)

	e.GET("/health", h.Health)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "0.1.0",
	})
}
