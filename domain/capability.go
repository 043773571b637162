package domain

// FallbackMode is the execution strategy for the generic fallback capability.
type FallbackMode string

const (
	FallbackTooling FallbackMode = "tooling"
	FallbackRAG     FallbackMode = "rag"
)

// WorkflowResult is the generic fallback capability's payload.
type WorkflowResult struct {
	Success        bool           `json:"success"`
	Answer         string         `json:"answer,omitempty"`
	Response       string         `json:"response,omitempty"`
	QualityGrade   map[string]any `json:"answer_quality_grade,omitempty"`
	FinalMode      string         `json:"final_mode,omitempty"`
	SwitchedModes  bool           `json:"switched_modes,omitempty"`
	ProcessingTime float64        `json:"processing_time,omitempty"`
	Error          string         `json:"error,omitempty"`
}

// Text returns whichever of the two answer fields the backend populated.
func (r WorkflowResult) Text() string {
	if r.Answer != "" {
		return r.Answer
	}
	return r.Response
}

// CropRecommendationResult is a ranked crop list with confidences.
type CropRecommendationResult struct {
	CropNames        []string  `json:"crop_names"`
	ConfidenceScores []float64 `json:"confidence_scores"`
	Justifications   []string  `json:"justifications"`
}

// TextResult is the free-text success/error shape shared by the weather,
// market-price, credit-policy and crop-yield integrations.
type TextResult struct {
	Success  bool   `json:"success"`
	Response string `json:"response,omitempty"`
	Result   string `json:"result,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Text returns the populated answer field.
func (r TextResult) Text() string {
	if r.Response != "" {
		return r.Response
	}
	return r.Result
}

// PestResult is the pest-prediction capability's payload.
type PestResult struct {
	Success                 bool     `json:"success"`
	PossiblePestNames       []string `json:"possible_pest_names,omitempty"`
	Description             string   `json:"description,omitempty"`
	PesticideRecommendation string   `json:"pesticide_recommendation,omitempty"`
	Error                   string   `json:"error,omitempty"`
}

// DiseaseResult is the crop-disease-detection capability's payload.
type DiseaseResult struct {
	Success              bool      `json:"success"`
	Diseases             []string  `json:"diseases,omitempty"`
	DiseaseProbabilities []float64 `json:"disease_probabilities,omitempty"`
	Symptoms             []string  `json:"symptoms,omitempty"`
	Treatments           []string  `json:"Treatments,omitempty"`
	PreventionTips       []string  `json:"prevention_tips,omitempty"`
	ImagePath            string    `json:"image_path,omitempty"`
	Error                string    `json:"error,omitempty"`
}

// RiskResult is the risk-management capability's payload. RiskAnalysis may be
// a plain string or a structured object depending on the backend path.
type RiskResult struct {
	Success         bool     `json:"success"`
	RiskAnalysis    any      `json:"risk_analysis,omitempty"`
	Recommendations []string `json:"recommendations,omitempty"`
	Timestamp       string   `json:"timestamp,omitempty"`
	Error           string   `json:"error,omitempty"`
}

// ResearchMetadata is the execution trace attached to a deep-research answer.
type ResearchMetadata struct {
	ExecutionID string   `json:"execution_id,omitempty"`
	TotalAgents int      `json:"total_agents,omitempty"`
	SuccessRate string   `json:"success_rate,omitempty"`
	ToolsUsed   []string `json:"tools_used,omitempty"`
	Error       string   `json:"error,omitempty"`
}

// ResearchResult is the deep-research capability's payload.
type ResearchResult struct {
	Success              bool              `json:"success"`
	Query                string            `json:"query,omitempty"`
	Response             string            `json:"response,omitempty"`
	ExecutionTimeSeconds float64           `json:"execution_time_seconds,omitempty"`
	ResponseFormat       string            `json:"response_format,omitempty"`
	Metadata             *ResearchMetadata `json:"metadata,omitempty"`
}

// TranslationResult is the translation service's payload.
type TranslationResult struct {
	Success        bool   `json:"success"`
	TranslatedText string `json:"translated_text,omitempty"`
	SourceLanguage string `json:"source_language,omitempty"`
	Error          string `json:"error,omitempty"`
}
