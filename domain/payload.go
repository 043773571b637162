package domain

import "time"

// PersistencePayload is the serializable projection of a conversation written
// to durable storage. It is the contract between the auto-persistence layer
// and the store: only these fields survive a round trip.
type PersistencePayload struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	AgentID   string    `json:"agent_id,omitempty"`
	AgentName string    `json:"agent_name,omitempty"`
	Language  string    `json:"language"`
	Turns     []Turn    `json:"messages"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Snapshot projects a conversation onto its persistence payload. Turns are
// deep-copied so later appends and translation writes do not alias the
// snapshot.
func Snapshot(c *Conversation) PersistencePayload {
	p := PersistencePayload{
		ID:        c.ID,
		Title:     c.Title,
		Language:  c.Language,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		Turns:     make([]Turn, len(c.Messages)),
	}
	for i := range c.Messages {
		p.Turns[i] = c.Messages[i].Clone()
	}
	if c.Agent != nil {
		p.AgentID = c.Agent.ID
		p.AgentName = c.Agent.Name
	}
	return p
}

// Restore rebuilds an in-memory conversation from a stored payload. The agent
// reference is re-resolved against the catalog by the caller when possible;
// here only the denormalized id/name are rehydrated.
func Restore(p PersistencePayload) *Conversation {
	c := &Conversation{
		ID:        p.ID,
		Title:     p.Title,
		Language:  p.Language,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
		Messages:  make([]Turn, len(p.Turns)),
	}
	copy(c.Messages, p.Turns)
	if p.AgentID != "" {
		c.Agent = &AgentRef{ID: p.AgentID, Name: p.AgentName}
	}
	return c
}
