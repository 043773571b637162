// Package domain defines the core domain models for the advisory chat core.
package domain

import "time"

// Role identifies the author of a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// AttachmentKind is the broad file category of an attachment.
type AttachmentKind string

const (
	AttachmentImage AttachmentKind = "image"
	AttachmentPDF   AttachmentKind = "pdf"
)

// Attachment is a file attached to a user turn.
type Attachment struct {
	ID   string         `json:"id"`
	Name string         `json:"name"`
	Kind AttachmentKind `json:"kind"`
	URL  string         `json:"url,omitempty"`
	Size int64          `json:"size,omitempty"`
	Data []byte         `json:"-"`
}

// Turn is a single message within a conversation. Content is immutable once
// created; Translations is an append-only overlay keyed by language code.
type Turn struct {
	ID           string            `json:"id"`
	Role         Role              `json:"role"`
	Content      string            `json:"content"`
	Timestamp    time.Time         `json:"timestamp"`
	Attachments  []Attachment      `json:"attachments,omitempty"`
	Language     string            `json:"language,omitempty"`
	Translations map[string]string `json:"translations,omitempty"`
	Metadata     map[string]any    `json:"metadata,omitempty"`
	Error        bool              `json:"error,omitempty"`
}

// Conversation is one chat thread. Agent is set exactly once at creation and
// never mutated afterwards; selecting a different capability creates a new
// conversation.
type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Messages  []Turn    `json:"messages"`
	Agent     *AgentRef `json:"agent,omitempty"`
	Language  string    `json:"language"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BoundAgentID returns the bound capability id, or "" when unbound.
func (c *Conversation) BoundAgentID() string {
	if c.Agent == nil {
		return ""
	}
	return c.Agent.ID
}

// Clone returns a copy that shares no mutable state with the receiver.
// Attachment data bytes are shared; they are write-once.
func (t Turn) Clone() Turn {
	out := t
	if t.Attachments != nil {
		out.Attachments = make([]Attachment, len(t.Attachments))
		copy(out.Attachments, t.Attachments)
	}
	if t.Translations != nil {
		out.Translations = make(map[string]string, len(t.Translations))
		for k, v := range t.Translations {
			out.Translations[k] = v
		}
	}
	if t.Metadata != nil {
		out.Metadata = make(map[string]any, len(t.Metadata))
		for k, v := range t.Metadata {
			out.Metadata[k] = v
		}
	}
	return out
}

// Clone returns a deep copy. Readers get clones so the store's lock stays the
// only serialization point for the live conversation.
func (c *Conversation) Clone() *Conversation {
	out := *c
	out.Messages = make([]Turn, len(c.Messages))
	for i := range c.Messages {
		out.Messages[i] = c.Messages[i].Clone()
	}
	if c.Agent != nil {
		agent := *c.Agent
		out.Agent = &agent
	}
	return &out
}
