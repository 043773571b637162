// Package policy decides the generic fallback's execution mode.
package policy

import (
	"context"
	"fmt"
	"strings"

	"github.com/open-policy-agent/opa/rego"

	"github.com/Waseeq-Zafar/Agri-Help-sub000/domain"
)

// ModeInput is the evaluation input for one fallback dispatch.
type ModeInput struct {
	ToolsEnabled    bool   `json:"tools_enabled"`
	Text            string `json:"text"`
	Language        string `json:"language"`
	DefaultLanguage string `json:"default_language"`
}

// Engine evaluates the fallback-mode policy. The routing heuristic lives in
// Rego so deployments can override it without a rebuild.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine compiles the given policy content. Pass DefaultPolicy for the
// stock heuristic.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.dispatch_mode.mode"),
		rego.Module("dispatch_mode.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Engine{query: query}, nil
}

// Mode returns the fallback mode for one dispatch. Evaluation problems fall
// back to rag, the safer of the two strategies.
func (e *Engine) Mode(ctx context.Context, input ModeInput) (domain.FallbackMode, error) {
	results, err := e.query.Eval(ctx, rego.EvalInput(map[string]any{
		"tools_enabled":    input.ToolsEnabled,
		"text":             strings.ToLower(input.Text),
		"language":         input.Language,
		"default_language": input.DefaultLanguage,
	}))
	if err != nil {
		return domain.FallbackRAG, fmt.Errorf("failed to evaluate policy: %w", err)
	}

	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return domain.FallbackRAG, nil
	}

	if s, ok := results[0].Expressions[0].Value.(string); ok && s == string(domain.FallbackTooling) {
		return domain.FallbackTooling, nil
	}
	return domain.FallbackRAG, nil
}

// DefaultPolicy is the stock heuristic: rag when tools are off, when the text
// reads like a translation request, or when the conversation language is not
// the default; tooling otherwise.
const DefaultPolicy = `
package dispatch_mode

default mode = "tooling"

mode = "rag" {
	not input.tools_enabled
}

mode = "rag" {
	contains(input.text, "translate")
}

mode = "rag" {
	contains(input.text, "translation")
}

mode = "rag" {
	input.language != input.default_language
}
`
