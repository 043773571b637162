package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/Waseeq-Zafar/Agri-Help-sub000/dispatch"
	"github.com/Waseeq-Zafar/Agri-Help-sub000/domain"
	"github.com/Waseeq-Zafar/Agri-Help-sub000/policy"
	"github.com/Waseeq-Zafar/Agri-Help-sub000/security"
	"github.com/Waseeq-Zafar/Agri-Help-sub000/session"
	"github.com/Waseeq-Zafar/Agri-Help-sub000/translate"
)

// stubBackend replays canned results for every capability.
type stubBackend struct {
	workflow domain.WorkflowResult
	text     domain.TextResult
	trans    domain.TranslationResult
}

func (s *stubBackend) Workflow(ctx context.Context, query string, mode domain.FallbackMode, image *domain.Attachment) (domain.WorkflowResult, error) {
	return s.workflow, nil
}
func (s *stubBackend) CropRecommendation(ctx context.Context, prompt string) (domain.CropRecommendationResult, error) {
	return domain.CropRecommendationResult{}, nil
}
func (s *stubBackend) WeatherForecast(ctx context.Context, query string) (domain.TextResult, error) {
	return s.text, nil
}
func (s *stubBackend) CropYield(ctx context.Context, query string) (domain.TextResult, error) {
	return s.text, nil
}
func (s *stubBackend) CreditPolicy(ctx context.Context, query string) (domain.TextResult, error) {
	return s.text, nil
}
func (s *stubBackend) MarketPrice(ctx context.Context, query string) (domain.TextResult, error) {
	return s.text, nil
}
func (s *stubBackend) PestPrediction(ctx context.Context, query string, image *domain.Attachment) (domain.PestResult, error) {
	return domain.PestResult{Success: true}, nil
}
func (s *stubBackend) DiseaseDetection(ctx context.Context, query string, image *domain.Attachment) (domain.DiseaseResult, error) {
	return domain.DiseaseResult{Success: true}, nil
}
func (s *stubBackend) RiskAnalysis(ctx context.Context, query string) (domain.RiskResult, error) {
	return domain.RiskResult{Success: true}, nil
}
func (s *stubBackend) DeepResearch(ctx context.Context, query string) (domain.ResearchResult, error) {
	return domain.ResearchResult{Success: true, Response: "ok"}, nil
}
func (s *stubBackend) Translate(ctx context.Context, text, targetLang string) (domain.TranslationResult, error) {
	return s.trans, nil
}

// memStore is an in-memory persist.Store.
type memStore struct {
	mu      sync.Mutex
	deleted []string
	saved   map[string]domain.PersistencePayload
}

func newMemStore() *memStore {
	return &memStore{saved: make(map[string]domain.PersistencePayload)}
}

func (m *memStore) Save(ctx context.Context, userID string, p domain.PersistencePayload) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved[p.ID] = p
	return nil
}

func (m *memStore) LoadAll(ctx context.Context, userID string) ([]domain.PersistencePayload, error) {
	return nil, nil
}

func (m *memStore) Delete(ctx context.Context, userID, conversationID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, conversationID)
	return nil
}

func (m *memStore) Close() error { return nil }

// recordingFlusher notes which conversations were flushed.
type recordingFlusher struct {
	mu      sync.Mutex
	flushed []string
}

func (f *recordingFlusher) Flush(conversationID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.flushed = append(f.flushed, conversationID)
}

func (f *recordingFlusher) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.flushed...)
}

type testEnv struct {
	handler  *Handler
	sessions *session.Store
	gate     *security.Gate
	toolMode *dispatch.ToolModeFlag
	backend  *stubBackend
	store    *memStore
	flusher  *recordingFlusher
	verify   *httptest.Server
}

// newTestHandler wires a handler against in-memory state and a fake
// verification service that accepts any token except "bad".
func newTestHandler(t *testing.T) *testEnv {
	t.Helper()

	verify := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.FormValue("response") == "bad" {
			w.Write([]byte(`{"success": false, "error-codes": ["invalid-input-response"]}`))
			return
		}
		w.Write([]byte(`{"success": true}`))
	}))
	t.Cleanup(verify.Close)

	sessions := session.NewStore()
	gate := security.NewGate()
	toolMode := dispatch.NewToolModeFlag()
	backend := &stubBackend{
		workflow: domain.WorkflowResult{Success: true, Answer: "generic answer"},
		text:     domain.TextResult{Success: true, Response: "sunny"},
		trans:    domain.TranslationResult{Success: true, TranslatedText: "धूप"},
	}
	store := newMemStore()

	engine, err := policy.NewEngine(context.Background(), policy.DefaultPolicy)
	if err != nil {
		t.Fatalf("policy engine: %v", err)
	}

	router := dispatch.NewRouter(backend, sessions, gate, engine, toolMode, "en", "Asha", zerolog.Nop())
	overlay := translate.NewOverlay(sessions, backend, zerolog.Nop())
	verifier := security.NewVerifier(verify.URL, "secret", zerolog.Nop())

	flusher := &recordingFlusher{}
	h := NewHandler(sessions, router, overlay, verifier, gate, toolMode, store, flusher, "user-1", "en", zerolog.Nop())
	return &testEnv{
		handler:  h,
		sessions: sessions,
		gate:     gate,
		toolMode: toolMode,
		backend:  backend,
		store:    store,
		flusher:  flusher,
		verify:   verify,
	}
}

func seedConversation(env *testEnv, agent *domain.AgentRef) *domain.Conversation {
	conv := env.sessions.Create(agent, "en")
	return conv
}
