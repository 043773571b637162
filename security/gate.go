// Package security holds the single-use human-verification token and the
// client for the challenge verification service.
package security

import "sync"

// Gate owns the single-use verification token that must be present before a
// turn may be dispatched. Consume is read-and-clear in one step so the
// UI-driven verification flow and the dispatcher cannot race on it.
type Gate struct {
	mu    sync.Mutex
	token string
}

// NewGate returns an empty gate.
func NewGate() *Gate {
	return &Gate{}
}

// Present stores a freshly verified token. Empty input is ignored.
func (g *Gate) Present(token string) {
	if token == "" {
		return
	}
	g.mu.Lock()
	g.token = token
	g.mu.Unlock()
}

// Consume returns the held token and resets the gate. Returns "" when no
// token was held.
func (g *Gate) Consume() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	t := g.token
	g.token = ""
	return t
}

// Ready reports whether a token is currently held.
func (g *Gate) Ready() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.token != ""
}
