package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Waseeq-Zafar/Agri-Help-sub000/catalog"
)

// ListAgents returns the static agent catalog.
// GET /v1/agents
func (h *Handler) ListAgents(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"agents": catalog.All(),
	})
}
