package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestVerifyArmsGate(t *testing.T) {
	e := echo.New()
	env := newTestHandler(t)

	c, rec := postJSON(e, "/v1/verify", `{"token":"good-token"}`)
	if err := env.handler.Verify(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !env.gate.Ready() {
		t.Fatal("gate not armed after successful verification")
	}
}

func TestVerifyRejectedTokenLeavesGateEmpty(t *testing.T) {
	e := echo.New()
	env := newTestHandler(t)

	c, rec := postJSON(e, "/v1/verify", `{"token":"bad"}`)
	if err := env.handler.Verify(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if env.gate.Ready() {
		t.Fatal("gate must stay empty after rejected verification")
	}
}

func TestVerifyMissingToken(t *testing.T) {
	e := echo.New()
	env := newTestHandler(t)

	c, rec := postJSON(e, "/v1/verify", `{}`)
	if err := env.handler.Verify(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestSetToolMode(t *testing.T) {
	e := echo.New()
	env := newTestHandler(t)

	c, rec := postJSON(e, "/v1/toolmode", `{"enabled":false}`)
	if err := env.handler.SetToolMode(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if env.toolMode.Enabled() {
		t.Fatal("tool mode still enabled")
	}

	c, rec = postJSON(e, "/v1/toolmode", `{"enabled":true}`)
	if err := env.handler.SetToolMode(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !env.toolMode.Enabled() {
		t.Fatal("tool mode not re-enabled")
	}
}

func TestSetToolModeMissingField(t *testing.T) {
	e := echo.New()
	env := newTestHandler(t)

	c, rec := postJSON(e, "/v1/toolmode", `{}`)
	if err := env.handler.SetToolMode(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestListAgents(t *testing.T) {
	e := echo.New()
	env := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/agents", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := env.handler.ListAgents(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Agents []struct {
			ID   string `json:"id"`
			Mode string `json:"mode"`
		} `json:"agents"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Agents) != 13 {
		t.Fatalf("expected 13 agents, got %d", len(resp.Agents))
	}
}
