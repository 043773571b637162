package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Verify checks a challenge token with the verification service and, on
// success, arms the gate for exactly one dispatch.
// POST /v1/verify
func (h *Handler) Verify(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Token string `json:"token"`
	}
	if err := c.Bind(&req); err != nil || req.Token == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "token is required"})
	}

	ok, err := h.verifier.Verify(ctx, req.Token)
	if err != nil {
		h.log.Error().Err(err).Msg("verification request failed")
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "verification service unavailable"})
	}
	if !ok {
		return c.JSON(http.StatusForbidden, map[string]string{"error": "verification failed"})
	}

	h.gate.Present(req.Token)
	return c.JSON(http.StatusOK, map[string]bool{"verified": true})
}

// SetToolMode flips whether the generic fallback may use live tools.
// PUT /v1/toolmode
func (h *Handler) SetToolMode(c echo.Context) error {
	var req struct {
		Enabled *bool `json:"enabled"`
	}
	if err := c.Bind(&req); err != nil || req.Enabled == nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "enabled is required"})
	}

	h.toolMode.Set(*req.Enabled)
	h.log.Info().Bool("enabled", *req.Enabled).Msg("tool mode updated")
	return c.JSON(http.StatusOK, map[string]bool{"enabled": h.toolMode.Enabled()})
}
