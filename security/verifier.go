package security

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// siteverifyResponse is the challenge service's verification payload.
type siteverifyResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
	Hostname   string   `json:"hostname,omitempty"`
}

// Verifier validates widget tokens against the challenge service's
// siteverify endpoint before they are presented to the gate.
type Verifier struct {
	endpoint   string
	secret     string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewVerifier creates a verifier for the given siteverify endpoint.
func NewVerifier(endpoint, secret string, log zerolog.Logger) *Verifier {
	return &Verifier{
		endpoint:   endpoint,
		secret:     secret,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        log.With().Str("component", "verifier").Logger(),
	}
}

// Verify checks one widget token. A false return with nil error means the
// service rejected the token; an error means the check itself failed.
func (v *Verifier) Verify(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}
	if v.secret == "" {
		return false, fmt.Errorf("verification secret not configured")
	}

	form := url.Values{
		"secret":   {v.secret},
		"response": {token},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("failed to reach verification service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return false, fmt.Errorf("verification service returned status %d: %s", resp.StatusCode, string(body))
	}

	var result siteverifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return false, fmt.Errorf("failed to decode verification response: %w", err)
	}

	if !result.Success {
		for _, code := range result.ErrorCodes {
			v.log.Warn().Str("code", code).Msg(describeErrorCode(code))
		}
		return false, nil
	}
	return true, nil
}

func describeErrorCode(code string) string {
	switch code {
	case "missing-input-secret":
		return "secret key missing"
	case "invalid-input-secret":
		return "secret key invalid"
	case "missing-input-response":
		return "widget token missing"
	case "invalid-input-response":
		return "widget token invalid"
	case "timeout-or-duplicate":
		return "widget token expired or already used"
	default:
		return "verification rejected"
	}
}
