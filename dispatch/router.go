// Package dispatch routes user turns to capability integrations and
// normalizes their heterogeneous responses into canonical assistant turns.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Waseeq-Zafar/Agri-Help-sub000/domain"
	"github.com/Waseeq-Zafar/Agri-Help-sub000/policy"
	"github.com/Waseeq-Zafar/Agri-Help-sub000/security"
)

var (
	// ErrUnverified means dispatch was attempted without a ready
	// verification token. No network call is made.
	ErrUnverified = errors.New("human verification required")

	// ErrBusy means a dispatch is already in flight for the conversation.
	// The attempt is rejected, never queued.
	ErrBusy = errors.New("dispatch already in flight for conversation")
)

// transportFailureMessage is the only content surfaced for transport-level
// failures; raw errors never reach the user.
const transportFailureMessage = "I'm sorry, I'm having trouble connecting to the agricultural AI service right now. Please try again later."

// Backend is the set of capability integrations the router dispatches to.
// *agentclient.Client satisfies it.
type Backend interface {
	Workflow(ctx context.Context, query string, mode domain.FallbackMode, image *domain.Attachment) (domain.WorkflowResult, error)
	CropRecommendation(ctx context.Context, prompt string) (domain.CropRecommendationResult, error)
	WeatherForecast(ctx context.Context, query string) (domain.TextResult, error)
	CropYield(ctx context.Context, query string) (domain.TextResult, error)
	CreditPolicy(ctx context.Context, query string) (domain.TextResult, error)
	MarketPrice(ctx context.Context, query string) (domain.TextResult, error)
	PestPrediction(ctx context.Context, query string, image *domain.Attachment) (domain.PestResult, error)
	DiseaseDetection(ctx context.Context, query string, image *domain.Attachment) (domain.DiseaseResult, error)
	RiskAnalysis(ctx context.Context, query string) (domain.RiskResult, error)
	DeepResearch(ctx context.Context, query string) (domain.ResearchResult, error)
}

// ModePolicy decides the generic fallback's execution mode.
// *policy.Engine satisfies it.
type ModePolicy interface {
	Mode(ctx context.Context, input policy.ModeInput) (domain.FallbackMode, error)
}

// Sessions is the slice of the session store the router needs: it appends the
// pending user turn before the backend call and the assistant turn after, so
// both land inside the conversation's busy window. *session.Store satisfies
// it.
type Sessions interface {
	Append(conversationID string, turn domain.Turn) error
}

// request carries one dispatch through the routing table.
type request struct {
	// prompt is the user text augmented with user context.
	prompt string
	// text is the raw user text; deep research receives it unaugmented.
	text  string
	image *domain.Attachment
	files bool
}

// outcome is a normalized integration result before it becomes a turn.
type outcome struct {
	content string
	meta    map[string]any
	failed  bool
}

// handlerFunc invokes one integration and normalizes its payload.
type handlerFunc func(ctx context.Context, b Backend, req request) (outcome, error)

// Router maps (bound agent, tool mode, verification state) to exactly one
// integration call per user turn.
type Router struct {
	backend  Backend
	sessions Sessions
	gate     *security.Gate
	modes    ModePolicy
	toolMode *ToolModeFlag
	handlers map[string]handlerFunc

	defaultLanguage string
	userName        string
	log             zerolog.Logger

	mu       sync.Mutex
	inflight map[string]struct{}
}

// NewRouter wires the dispatch core.
func NewRouter(backend Backend, sessions Sessions, gate *security.Gate, modes ModePolicy, toolMode *ToolModeFlag, defaultLanguage, userName string, log zerolog.Logger) *Router {
	return &Router{
		backend:         backend,
		sessions:        sessions,
		gate:            gate,
		modes:           modes,
		toolMode:        toolMode,
		handlers:        integrationTable(),
		defaultLanguage: defaultLanguage,
		userName:        userName,
		log:             log.With().Str("component", "dispatch").Logger(),
		inflight:        make(map[string]struct{}),
	}
}

// integrationTable is the routing table from capability id to integration.
// price-forecasting shares the risk-management integration.
func integrationTable() map[string]handlerFunc {
	return map[string]handlerFunc{
		domain.AgentCropRecommendations: handleCropRecommendation,
		domain.AgentWeatherAdvisory:     textHandler(domain.AgentWeatherAdvisory, "Weather forecast error", Backend.WeatherForecast),
		domain.AgentCropYield:           textHandler(domain.AgentCropYield, "Crop yield prediction error", Backend.CropYield),
		domain.AgentCreditLoanPolicy:    textHandler(domain.AgentCreditLoanPolicy, "Credit policy analysis error", Backend.CreditPolicy),
		domain.AgentMarketPrices:        textHandler(domain.AgentMarketPrices, "Market price analysis error", Backend.MarketPrice),
		domain.AgentPestPrediction:      handlePestPrediction,
		domain.AgentCropHealth:          handleDiseaseDetection,
		domain.AgentRiskManagement:      handleRiskAnalysis,
		domain.AgentPriceForecasting:    handleRiskAnalysis,
		domain.AgentDeepResearch:        handleDeepResearch,
	}
}

// Dispatch stores userTurn as the pending user message, sends it to the
// chosen capability, and stores and returns the normalized assistant turn.
// The verification token is consumed exactly once per attempt, success or
// failure; a second dispatch for the same conversation while one is
// outstanding returns ErrBusy. The busy window stays open until the assistant
// turn is stored, so no other dispatch can interleave between the pair.
func (r *Router) Dispatch(ctx context.Context, conv *domain.Conversation, userTurn domain.Turn) (domain.Turn, error) {
	if !r.acquire(conv.ID) {
		return domain.Turn{}, ErrBusy
	}
	defer r.release(conv.ID)

	if !r.gate.Ready() {
		return domain.Turn{}, ErrUnverified
	}
	defer r.gate.Consume()

	// the user's message must be visible (and the persistence window armed)
	// before the remote call starts, not after it returns
	if err := r.sessions.Append(conv.ID, userTurn); err != nil {
		return domain.Turn{}, err
	}

	req := request{
		prompt: AugmentPrompt(userTurn.Content, r.userName, ""),
		text:   userTurn.Content,
		files:  len(userTurn.Attachments) > 0,
	}
	for i := range userTurn.Attachments {
		if userTurn.Attachments[i].Kind == domain.AttachmentImage {
			req.image = &userTurn.Attachments[i]
			break
		}
	}

	agentID, handler := r.route(conv)
	r.log.Info().Str("conversation", conv.ID).Str("capability", agentID).Msg("dispatching turn")

	var out outcome
	var err error
	if handler != nil {
		out, err = handler(ctx, r.backend, req)
	} else {
		out, err = r.fallback(ctx, conv, req)
		agentID = out.meta["agent_type"].(string)
	}

	var turn domain.Turn
	if err != nil {
		r.log.Warn().Err(err).Str("capability", agentID).Msg("integration call failed")
		turn = r.assistantTurn(conv, transportFailureMessage, map[string]any{"agent_type": agentID}, true)
	} else {
		turn = r.assistantTurn(conv, out.content, out.meta, out.failed)
	}

	if err := r.sessions.Append(conv.ID, turn); err != nil {
		return domain.Turn{}, fmt.Errorf("failed to store assistant turn: %w", err)
	}
	return turn, nil
}

// route picks the integration for a conversation. Nil handler means generic
// fallback. Tool mode is read here, at dispatch time, never earlier.
func (r *Router) route(conv *domain.Conversation) (string, handlerFunc) {
	if conv.Agent == nil {
		return domain.AgentGeneric, nil
	}
	agent := *conv.Agent
	if !agent.AgentCapable() {
		return domain.AgentGeneric, nil
	}
	if handler, ok := r.handlers[agent.ID]; ok {
		return agent.ID, handler
	}
	return domain.AgentGeneric, nil
}

// fallback dispatches to the generic workflow capability, with the execution
// mode decided by the overridable policy.
func (r *Router) fallback(ctx context.Context, conv *domain.Conversation, req request) (outcome, error) {
	mode, err := r.modes.Mode(ctx, policy.ModeInput{
		ToolsEnabled:    r.toolMode.Enabled(),
		Text:            req.text,
		Language:        conv.Language,
		DefaultLanguage: r.defaultLanguage,
	})
	if err != nil {
		// policy trouble is not the user's problem; rag is the safe default
		r.log.Warn().Err(err).Msg("mode policy evaluation failed")
		mode = domain.FallbackRAG
	}

	agentID := conv.BoundAgentID()
	if agentID == "" {
		agentID = domain.AgentGeneric
	}
	meta := map[string]any{"agent_type": agentID, "mode": string(mode)}

	result, err := r.backend.Workflow(ctx, req.prompt, mode, req.image)
	if err != nil {
		return outcome{meta: meta}, err
	}

	if !result.Success {
		meta["success"] = false
		meta["error"] = result.Error
		return outcome{
			content: fmt.Sprintf("Error: %s", orUnknown(result.Error)),
			meta:    meta,
			failed:  true,
		}, nil
	}

	meta["success"] = true
	if result.ProcessingTime > 0 {
		meta["processing_time"] = result.ProcessingTime
	}
	content := result.Text()
	if content == "" {
		content = "I received your query but couldn't generate a response."
	}
	return outcome{content: content, meta: meta}, nil
}

func (r *Router) assistantTurn(conv *domain.Conversation, content string, meta map[string]any, failed bool) domain.Turn {
	return domain.Turn{
		ID:        uuid.NewString(),
		Role:      domain.RoleAssistant,
		Content:   content,
		Timestamp: time.Now(),
		Language:  conv.Language,
		Metadata:  meta,
		Error:     failed,
	}
}

func (r *Router) acquire(conversationID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, busy := r.inflight[conversationID]; busy {
		return false
	}
	r.inflight[conversationID] = struct{}{}
	return true
}

func (r *Router) release(conversationID string) {
	r.mu.Lock()
	delete(r.inflight, conversationID)
	r.mu.Unlock()
}

// AugmentPrompt appends the user context trailer the capability backends
// expect. Location is "Unknown" when the client did not share one.
func AugmentPrompt(content, userName, location string) string {
	if userName == "" {
		userName = "Farmer"
	}
	if location == "" {
		location = "Unknown"
	}
	return fmt.Sprintf("%s\n\n[User: %s] [Location: %s]", content, userName, location)
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown error occurred"
	}
	return s
}
