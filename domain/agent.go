package domain

// OperatingMode says how a capability can be driven: as a slider/form tool,
// as a conversational agent, or both.
type OperatingMode string

const (
	ModeTool  OperatingMode = "tool"
	ModeAgent OperatingMode = "agent"
	ModeBoth  OperatingMode = "both"
)

// AgentCategory groups capabilities in the catalog.
type AgentCategory string

const (
	CategoryPrediction AgentCategory = "prediction"
	CategoryAdvisory   AgentCategory = "advisory"
	CategoryAnalysis   AgentCategory = "analysis"
	CategoryMarket     AgentCategory = "market"
	CategoryNews       AgentCategory = "news"
	CategoryResearch   AgentCategory = "research"
)

// AgentRef identifies one specialized capability. Immutable, drawn from the
// static catalog; only ID and Name are denormalized onto conversations.
type AgentRef struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Category    AgentCategory `json:"category,omitempty"`
	Mode        OperatingMode `json:"mode"`
}

// AgentCapable reports whether the capability can be driven conversationally.
func (a AgentRef) AgentCapable() bool {
	return a.Mode == ModeAgent || a.Mode == ModeBoth
}

// Capability ids for the specialized integrations.
const (
	AgentCropRecommendations = "crop-recommendations"
	AgentWeatherAdvisory     = "weather-advisory"
	AgentCropYield           = "crop-yield"
	AgentCreditLoanPolicy    = "credit-loan-policy"
	AgentPestPrediction      = "pest-prediction"
	AgentCropHealth          = "crop-health"
	AgentMarketPrices        = "market-prices"
	AgentRiskManagement      = "risk-management"
	AgentPriceForecasting    = "price-forecasting"
	AgentDeepResearch        = "deep-research"
	AgentFertilizer          = "fertilizer-recommendations"
	AgentIrrigationPlanning  = "irrigation-planning"
	AgentAgriculturalNews    = "agricultural-news"

	// AgentGeneric tags turns answered by the generic fallback.
	AgentGeneric = "generic"
)
