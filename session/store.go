// Package session owns the in-memory conversation collection and the active
// conversation pointer behind a small, closed mutation API.
package session

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/Waseeq-Zafar/Agri-Help-sub000/domain"
)

// ErrNotFound is returned for mutations against an unknown conversation.
var ErrNotFound = errors.New("conversation not found")

const defaultTitle = "New Chat"

// titleRunes is how much of the first user turn becomes the title.
const titleRunes = 40

// Observer is notified after every mutation, outside the store lock.
// Auto-persistence hangs off this.
type Observer func(conversationID string)

// Store maps conversation id to conversation.
type Store struct {
	mu       sync.Mutex
	convs    map[string]*domain.Conversation
	activeID string
	observer Observer
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{convs: make(map[string]*domain.Conversation)}
}

// SetObserver installs the mutation observer. Must be called before the
// store is shared.
func (s *Store) SetObserver(fn Observer) {
	s.observer = fn
}

func (s *Store) notify(id string) {
	if s.observer != nil {
		s.observer(id)
	}
}

// Create starts a new conversation, optionally bound to a capability, and
// makes it active. Bound conversations are seeded with the capability's
// greeting turn.
func (s *Store) Create(agent *domain.AgentRef, language string) *domain.Conversation {
	now := time.Now()
	conv := &domain.Conversation{
		ID:        uuid.NewString(),
		Title:     defaultTitle,
		Language:  language,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if agent != nil {
		bound := *agent
		conv.Agent = &bound
		conv.Title = agent.Name
		conv.Messages = append(conv.Messages, domain.Turn{
			ID:        uuid.NewString(),
			Role:      domain.RoleAssistant,
			Content:   fmt.Sprintf("Hello! I'm your %s specialist. %s. How can I help you today?", agent.Name, agent.Description),
			Timestamp: now,
			Language:  language,
		})
	}

	s.mu.Lock()
	s.convs[conv.ID] = conv
	s.activeID = conv.ID
	out := conv.Clone()
	s.mu.Unlock()

	s.notify(conv.ID)
	return out
}

// Append adds a turn to a conversation. Turns are append-only: existing
// entries are never reordered or rewritten. The first user turn names an
// untitled conversation.
func (s *Store) Append(conversationID string, turn domain.Turn) error {
	s.mu.Lock()
	conv, ok := s.convs[conversationID]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	if turn.Role == domain.RoleUser && len(conv.Messages) == 0 && conv.Title == defaultTitle {
		conv.Title = truncateTitle(turn.Content)
	}
	conv.Messages = append(conv.Messages, turn)
	conv.UpdatedAt = time.Now()
	s.mu.Unlock()

	s.notify(conversationID)
	return nil
}

// SetTranslation stores a translated variant of a turn. Only the overlay
// entry for lang changes; the turn's content never does. Last write wins.
func (s *Store) SetTranslation(conversationID, turnID, lang, text string) error {
	s.mu.Lock()
	conv, ok := s.convs[conversationID]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	for i := range conv.Messages {
		if conv.Messages[i].ID != turnID {
			continue
		}
		if conv.Messages[i].Translations == nil {
			conv.Messages[i].Translations = make(map[string]string)
		}
		conv.Messages[i].Translations[lang] = text
		s.mu.Unlock()

		s.notify(conversationID)
		return nil
	}
	s.mu.Unlock()
	return ErrNotFound
}

// Turn looks up one turn by conversation and turn id.
func (s *Store) Turn(conversationID, turnID string) (domain.Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	conv, ok := s.convs[conversationID]
	if !ok {
		return domain.Turn{}, ErrNotFound
	}
	for _, t := range conv.Messages {
		if t.ID == turnID {
			return t.Clone(), nil
		}
	}
	return domain.Turn{}, ErrNotFound
}

// Select makes a conversation active.
func (s *Store) Select(conversationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.convs[conversationID]; !ok {
		return ErrNotFound
	}
	s.activeID = conversationID
	return nil
}

// Active returns a copy of the active conversation, or nil when none is
// selected.
func (s *Store) Active() *domain.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.activeID == "" {
		return nil
	}
	return s.convs[s.activeID].Clone()
}

// Get returns a copy of a conversation by id. Live pointers never leave the
// store; callers may read and serialize the result without holding the lock.
func (s *Store) Get(conversationID string) (*domain.Conversation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	conv, ok := s.convs[conversationID]
	if !ok {
		return nil, false
	}
	return conv.Clone(), true
}

// Snapshot projects a conversation onto its persistence payload. The second
// return is false for unknown ids and for conversations with no turns, which
// are never persisted.
func (s *Store) Snapshot(conversationID string) (domain.PersistencePayload, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	conv, ok := s.convs[conversationID]
	if !ok || len(conv.Messages) == 0 {
		return domain.PersistencePayload{}, false
	}
	return domain.Snapshot(conv), true
}

// List returns copies of all conversations ordered by recency, newest first.
func (s *Store) List() []*domain.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.Conversation, 0, len(s.convs))
	for _, c := range s.convs {
		out = append(out, c.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out
}

// Delete removes a conversation. Deleting the active conversation clears the
// active pointer.
func (s *Store) Delete(conversationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.convs[conversationID]; !ok {
		return ErrNotFound
	}
	delete(s.convs, conversationID)
	if s.activeID == conversationID {
		s.activeID = ""
	}
	return nil
}

// Load seeds the store from persisted payloads at startup. Existing entries
// with the same id are replaced; no observer notifications fire.
func (s *Store) Load(payloads []domain.PersistencePayload) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range payloads {
		s.convs[p.ID] = domain.Restore(p)
	}
}

func truncateTitle(content string) string {
	if utf8.RuneCountInString(content) <= titleRunes {
		return content
	}
	runes := []rune(content)
	return string(runes[:titleRunes]) + "..."
}
