package session

import (
	"encoding/json"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Waseeq-Zafar/Agri-Help-sub000/domain"
)

func userTurn(content string) domain.Turn {
	return domain.Turn{ID: "t-" + content, Role: domain.RoleUser, Content: content, Timestamp: time.Now()}
}

func TestCreateUnbound(t *testing.T) {
	s := NewStore()
	conv := s.Create(nil, "en")

	assert.Equal(t, "New Chat", conv.Title)
	assert.Empty(t, conv.Messages)
	active := s.Active()
	require.NotNil(t, active)
	assert.Equal(t, conv.ID, active.ID)
}

func TestCreateBoundSeedsGreeting(t *testing.T) {
	s := NewStore()
	agent := &domain.AgentRef{ID: domain.AgentWeatherAdvisory, Name: "Weather Advisory", Description: "Localized forecasts", Mode: domain.ModeAgent}
	conv := s.Create(agent, "en")

	assert.Equal(t, "Weather Advisory", conv.Title)
	require.Len(t, conv.Messages, 1)
	assert.Equal(t, domain.RoleAssistant, conv.Messages[0].Role)
	assert.Contains(t, conv.Messages[0].Content, "Weather Advisory specialist")
}

func TestAppendOrderAndTitle(t *testing.T) {
	s := NewStore()
	conv := s.Create(nil, "en")

	long := strings.Repeat("x", 60)
	require.NoError(t, s.Append(conv.ID, userTurn(long)))
	require.NoError(t, s.Append(conv.ID, domain.Turn{ID: "t2", Role: domain.RoleAssistant, Content: "answer"}))
	require.NoError(t, s.Append(conv.ID, userTurn("followup")))

	got, ok := s.Get(conv.ID)
	require.True(t, ok)
	assert.Equal(t, strings.Repeat("x", 40)+"...", got.Title)
	require.Len(t, got.Messages, 3)
	assert.Equal(t, "t-"+long, got.Messages[0].ID)
	assert.Equal(t, "t2", got.Messages[1].ID)
	assert.Equal(t, "t-followup", got.Messages[2].ID)
}

func TestAppendUnknownConversation(t *testing.T) {
	s := NewStore()
	assert.ErrorIs(t, s.Append("nope", userTurn("hi")), ErrNotFound)
}

func TestObserverFiresPerMutation(t *testing.T) {
	s := NewStore()
	var seen []string
	s.SetObserver(func(id string) { seen = append(seen, id) })

	conv := s.Create(nil, "en")
	require.NoError(t, s.Append(conv.ID, userTurn("hello")))

	assert.Equal(t, []string{conv.ID, conv.ID}, seen)
}

func TestSetTranslationDoesNotTouchContent(t *testing.T) {
	s := NewStore()
	conv := s.Create(nil, "en")
	require.NoError(t, s.Append(conv.ID, userTurn("hello")))

	turnID := "t-hello"
	require.NoError(t, s.SetTranslation(conv.ID, turnID, "hi", "नमस्ते"))
	require.NoError(t, s.SetTranslation(conv.ID, turnID, "hi", "नमस्ते!")) // last write wins

	turn, err := s.Turn(conv.ID, turnID)
	require.NoError(t, err)
	assert.Equal(t, "hello", turn.Content)
	assert.Equal(t, "नमस्ते!", turn.Translations["hi"])
}

func TestListRecency(t *testing.T) {
	s := NewStore()
	a := s.Create(nil, "en")
	b := s.Create(nil, "en")

	// touch a after b was created
	time.Sleep(2 * time.Millisecond)
	require.NoError(t, s.Append(a.ID, userTurn("bump")))

	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, a.ID, list[0].ID)
	assert.Equal(t, b.ID, list[1].ID)
}

func TestSnapshotSkipsEmpty(t *testing.T) {
	s := NewStore()
	conv := s.Create(nil, "en")

	if _, ok := s.Snapshot(conv.ID); ok {
		t.Fatalf("empty conversation must not snapshot")
	}

	require.NoError(t, s.Append(conv.ID, userTurn("hello")))
	snap, ok := s.Snapshot(conv.ID)
	require.True(t, ok)
	assert.Equal(t, conv.ID, snap.ID)
	require.Len(t, snap.Turns, 1)
}

func TestDeleteClearsActive(t *testing.T) {
	s := NewStore()
	conv := s.Create(nil, "en")
	require.NoError(t, s.Delete(conv.ID))
	assert.Nil(t, s.Active())
	assert.ErrorIs(t, s.Delete(conv.ID), ErrNotFound)
}

func TestGetReturnsIsolatedCopy(t *testing.T) {
	s := NewStore()
	conv := s.Create(nil, "en")
	require.NoError(t, s.Append(conv.ID, userTurn("hello")))

	got, ok := s.Get(conv.ID)
	require.True(t, ok)
	got.Messages[0].Content = "tampered"
	got.Messages = append(got.Messages, userTurn("extra"))

	fresh, ok := s.Get(conv.ID)
	require.True(t, ok)
	require.Len(t, fresh.Messages, 1)
	assert.Equal(t, "hello", fresh.Messages[0].Content)
}

func TestReadersSafeDuringAppends(t *testing.T) {
	s := NewStore()
	conv := s.Create(nil, "en")

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			_ = s.Append(conv.ID, domain.Turn{
				ID:       "t-" + strconv.Itoa(i),
				Role:     domain.RoleUser,
				Content:  "turn",
				Metadata: map[string]any{"n": i},
			})
		}
	}()

	// serializing a read result must not race the writer
	for i := 0; i < 200; i++ {
		got, ok := s.Get(conv.ID)
		require.True(t, ok)
		if _, err := json.Marshal(got.Messages); err != nil {
			t.Fatalf("marshal: %v", err)
		}
	}
	<-done
}

func TestLoadRestoresAgentRef(t *testing.T) {
	s := NewStore()
	s.Load([]domain.PersistencePayload{{
		ID:       "c1",
		Title:    "Weather Advisory",
		AgentID:  domain.AgentWeatherAdvisory,
		Language: "en",
		Turns:    []domain.Turn{{ID: "t1", Role: domain.RoleUser, Content: "rain?"}},
	}})

	conv, ok := s.Get("c1")
	require.True(t, ok)
	require.NotNil(t, conv.Agent)
	assert.Equal(t, domain.AgentWeatherAdvisory, conv.Agent.ID)
	require.Len(t, conv.Messages, 1)
}
