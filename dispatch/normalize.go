package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Waseeq-Zafar/Agri-Help-sub000/domain"
)

// textHandler builds a handler for the capabilities that return a single
// text body (weather, crop yield, credit policy, market prices). errLabel
// prefixes remote-reported failures.
func textHandler(agentID, errLabel string, call func(Backend, context.Context, string) (domain.TextResult, error)) handlerFunc {
	return func(ctx context.Context, b Backend, req request) (outcome, error) {
		res, err := call(b, ctx, req.prompt)
		if err != nil {
			return outcome{}, err
		}
		meta := map[string]any{
			"agent_type": agentID,
			"success":    res.Success,
			"error":      res.Error,
		}
		if !res.Success {
			return outcome{
				content: fmt.Sprintf("%s: %s", errLabel, orUnknown(res.Error)),
				meta:    meta,
				failed:  true,
			}, nil
		}
		content := res.Text()
		if content == "" {
			content = "I received your query but couldn't generate a response."
		}
		return outcome{content: content, meta: meta}, nil
	}
}

func handleCropRecommendation(ctx context.Context, b Backend, req request) (outcome, error) {
	res, err := b.CropRecommendation(ctx, req.prompt)
	if err != nil {
		return outcome{}, err
	}

	var sb strings.Builder
	sb.WriteString("Based on your query, here are my crop recommendations:\n\n")
	for i, crop := range res.CropNames {
		var confidence float64
		if i < len(res.ConfidenceScores) {
			confidence = res.ConfidenceScores[i]
		}
		var justification string
		if i < len(res.Justifications) {
			justification = res.Justifications[i]
		}
		fmt.Fprintf(&sb, "🌾 **%s** (%.1f%% confidence)\n", crop, confidence*100)
		fmt.Fprintf(&sb, "   %s\n\n", justification)
	}

	return outcome{
		content: sb.String(),
		meta: map[string]any{
			"agent_type":        domain.AgentCropRecommendations,
			"crop_names":        res.CropNames,
			"confidence_scores": res.ConfidenceScores,
			"justifications":    res.Justifications,
		},
	}, nil
}

func handlePestPrediction(ctx context.Context, b Backend, req request) (outcome, error) {
	res, err := b.PestPrediction(ctx, req.prompt, req.image)
	if err != nil {
		return outcome{}, err
	}

	var sb strings.Builder
	if res.Success {
		sb.WriteString("Based on your query, here's my pest analysis:\n\n")
	} else {
		fmt.Fprintf(&sb, "Pest prediction error: %s\n\n", orUnknown(res.Error))
	}

	if res.Success && len(res.PossiblePestNames) > 0 {
		sb.WriteString("🐛 **Possible Pests:**\n")
		writeBullets(&sb, res.PossiblePestNames)
		if res.Description != "" {
			fmt.Fprintf(&sb, "📝 **Description:**\n%s\n\n", res.Description)
		}
		if res.PesticideRecommendation != "" {
			fmt.Fprintf(&sb, "💊 **Pesticide Recommendation:**\n%s\n\n", res.PesticideRecommendation)
		}
	}

	return outcome{
		content: sb.String(),
		meta: map[string]any{
			"agent_type":               domain.AgentPestPrediction,
			"success":                  res.Success,
			"possible_pest_names":      res.PossiblePestNames,
			"description":              res.Description,
			"pesticide_recommendation": res.PesticideRecommendation,
			"error":                    res.Error,
		},
		failed: !res.Success,
	}, nil
}

func handleDiseaseDetection(ctx context.Context, b Backend, req request) (outcome, error) {
	res, err := b.DiseaseDetection(ctx, req.prompt, req.image)
	if err != nil {
		return outcome{}, err
	}

	var sb strings.Builder
	switch {
	case !res.Success:
		fmt.Fprintf(&sb, "Crop disease detection error: %s\n\n", orUnknown(res.Error))
	case req.files:
		sb.WriteString("Based on the image analysis, here's my crop health assessment:\n\n")
	default:
		sb.WriteString("Based on your description, here's my crop health analysis:\n\n")
	}

	if res.Success && len(res.Diseases) > 0 {
		sb.WriteString("🦠 **Detected Diseases:**\n")
		for i, disease := range res.Diseases {
			if i < len(res.DiseaseProbabilities) && res.DiseaseProbabilities[i] > 0 {
				fmt.Fprintf(&sb, "• %s (%.1f%% confidence)\n", disease, res.DiseaseProbabilities[i]*100)
			} else {
				fmt.Fprintf(&sb, "• %s\n", disease)
			}
		}
		sb.WriteString("\n")

		if len(res.Symptoms) > 0 {
			sb.WriteString("🔍 **Symptoms:**\n")
			writeBullets(&sb, res.Symptoms)
		}
		if len(res.Treatments) > 0 {
			sb.WriteString("💊 **Treatments:**\n")
			writeBullets(&sb, res.Treatments)
		}
		if len(res.PreventionTips) > 0 {
			sb.WriteString("🛡️ **Prevention Tips:**\n")
			writeBullets(&sb, res.PreventionTips)
		}
	}

	return outcome{
		content: sb.String(),
		meta: map[string]any{
			"agent_type":            domain.AgentCropHealth,
			"success":               res.Success,
			"diseases":              res.Diseases,
			"disease_probabilities": res.DiseaseProbabilities,
			"symptoms":              res.Symptoms,
			"treatments":            res.Treatments,
			"prevention_tips":       res.PreventionTips,
			"error":                 res.Error,
			"has_image":             req.files,
		},
		failed: !res.Success,
	}, nil
}

func handleRiskAnalysis(ctx context.Context, b Backend, req request) (outcome, error) {
	res, err := b.RiskAnalysis(ctx, req.prompt)
	if err != nil {
		return outcome{}, err
	}

	var sb strings.Builder
	if res.Success {
		sb.WriteString("Based on my analysis, here's your agricultural risk assessment:\n\n")
	} else {
		fmt.Fprintf(&sb, "Risk analysis error: %s\n\n", orUnknown(res.Error))
	}

	if res.Success {
		if res.RiskAnalysis != nil {
			sb.WriteString("📊 **Risk Analysis:**\n")
			if text, ok := res.RiskAnalysis.(string); ok {
				fmt.Fprintf(&sb, "%s\n\n", text)
			} else if raw, jerr := json.MarshalIndent(res.RiskAnalysis, "", "  "); jerr == nil {
				fmt.Fprintf(&sb, "%s\n\n", raw)
			}
		}
		if len(res.Recommendations) > 0 {
			sb.WriteString("💡 **Recommendations:**\n")
			writeBullets(&sb, res.Recommendations)
		}
		if res.Timestamp != "" {
			fmt.Fprintf(&sb, "🕒 **Analysis Time:** %s\n", res.Timestamp)
		}
	}

	return outcome{
		content: sb.String(),
		meta: map[string]any{
			"agent_type":      domain.AgentRiskManagement,
			"success":         res.Success,
			"risk_analysis":   res.RiskAnalysis,
			"recommendations": res.Recommendations,
			"timestamp":       res.Timestamp,
			"error":           res.Error,
		},
		failed: !res.Success,
	}, nil
}

func handleDeepResearch(ctx context.Context, b Backend, req request) (outcome, error) {
	// research gets the raw user text, not the augmented prompt
	res, err := b.DeepResearch(ctx, req.text)
	if err != nil {
		return outcome{}, err
	}

	var remoteErr string
	if res.Metadata != nil {
		remoteErr = res.Metadata.Error
	}

	var sb strings.Builder
	if res.Success {
		sb.WriteString("Here's your comprehensive agricultural research:\n\n")
		sb.WriteString(res.Response)
		if m := res.Metadata; m != nil {
			sb.WriteString("\n\n---\n**Research Details:**\n")
			if m.ExecutionID != "" {
				fmt.Fprintf(&sb, "🔍 **Execution ID:** %s\n", m.ExecutionID)
			}
			if m.TotalAgents > 0 {
				fmt.Fprintf(&sb, "🤖 **Agents Used:** %d\n", m.TotalAgents)
			}
			if m.SuccessRate != "" {
				fmt.Fprintf(&sb, "✅ **Success Rate:** %s\n", m.SuccessRate)
			}
			if len(m.ToolsUsed) > 0 {
				fmt.Fprintf(&sb, "🛠️ **Tools:** %s\n", strings.Join(m.ToolsUsed, ", "))
			}
		}
		fmt.Fprintf(&sb, "⏱️ **Processing Time:** %.2fs", res.ExecutionTimeSeconds)
	} else {
		fmt.Fprintf(&sb, "Research error: %s\n\n", orUnknown(remoteErr))
	}

	return outcome{
		content: sb.String(),
		meta: map[string]any{
			"agent_type":         domain.AgentDeepResearch,
			"success":            res.Success,
			"processing_time":    res.ExecutionTimeSeconds,
			"final_mode":         "deep-research",
			"switched_modes":     false,
			"is_answer_complete": res.Success,
			"error":              remoteErr,
		},
		failed: !res.Success,
	}, nil
}

func writeBullets(sb *strings.Builder, items []string) {
	for _, item := range items {
		fmt.Fprintf(sb, "• %s\n", item)
	}
	sb.WriteString("\n")
}
