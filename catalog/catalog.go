// Package catalog is the static registry of specialized capabilities.
package catalog

import "github.com/Waseeq-Zafar/Agri-Help-sub000/domain"

var agents = []domain.AgentRef{
	{
		ID:          domain.AgentCropRecommendations,
		Name:        "Crop Recommendations",
		Description: "Suggests crops suited to your soil and climate",
		Category:    domain.CategoryAdvisory,
		Mode:        domain.ModeBoth,
	},
	{
		ID:          domain.AgentWeatherAdvisory,
		Name:        "Weather Advisory",
		Description: "Localized weather forecasts and farming advisories",
		Category:    domain.CategoryAdvisory,
		Mode:        domain.ModeAgent,
	},
	{
		ID:          domain.AgentCropYield,
		Name:        "Crop Yield",
		Description: "Predicts production and yield per hectare",
		Category:    domain.CategoryPrediction,
		Mode:        domain.ModeBoth,
	},
	{
		ID:          domain.AgentCreditLoanPolicy,
		Name:        "Credit & Loan Policy",
		Description: "Agricultural finance and policy intelligence",
		Category:    domain.CategoryMarket,
		Mode:        domain.ModeAgent,
	},
	{
		ID:          domain.AgentPestPrediction,
		Name:        "Pest Prediction",
		Description: "Identifies likely pests and pesticide options",
		Category:    domain.CategoryPrediction,
		Mode:        domain.ModeBoth,
	},
	{
		ID:          domain.AgentCropHealth,
		Name:        "Crop Health",
		Description: "Detects crop diseases from photos or descriptions",
		Category:    domain.CategoryAnalysis,
		Mode:        domain.ModeBoth,
	},
	{
		ID:          domain.AgentMarketPrices,
		Name:        "Market Prices",
		Description: "Mandi price lookups and trend analysis",
		Category:    domain.CategoryMarket,
		Mode:        domain.ModeAgent,
	},
	{
		ID:          domain.AgentRiskManagement,
		Name:        "Risk Management",
		Description: "Assesses weather, market and input risks",
		Category:    domain.CategoryAnalysis,
		Mode:        domain.ModeAgent,
	},
	{
		ID:          domain.AgentPriceForecasting,
		Name:        "Price Forecasting",
		Description: "Forward price outlooks for major crops",
		Category:    domain.CategoryMarket,
		Mode:        domain.ModeAgent,
	},
	{
		ID:          domain.AgentDeepResearch,
		Name:        "Deep Research",
		Description: "Multi-agent long-form agricultural research",
		Category:    domain.CategoryResearch,
		Mode:        domain.ModeAgent,
	},
	{
		ID:          domain.AgentFertilizer,
		Name:        "Fertilizer Recommendations",
		Description: "Fertilizer selection from soil readings",
		Category:    domain.CategoryAdvisory,
		Mode:        domain.ModeTool,
	},
	{
		ID:          domain.AgentIrrigationPlanning,
		Name:        "Irrigation Planning",
		Description: "Irrigation calendars and water budgeting",
		Category:    domain.CategoryAdvisory,
		Mode:        domain.ModeTool,
	},
	{
		ID:          domain.AgentAgriculturalNews,
		Name:        "Agricultural News",
		Description: "Curated agricultural news and schemes",
		Category:    domain.CategoryNews,
		Mode:        domain.ModeTool,
	},
}

var byID = func() map[string]domain.AgentRef {
	m := make(map[string]domain.AgentRef, len(agents))
	for _, a := range agents {
		m[a.ID] = a
	}
	return m
}()

// Lookup resolves a capability id.
func Lookup(id string) (domain.AgentRef, bool) {
	a, ok := byID[id]
	return a, ok
}

// All returns the catalog in display order.
func All() []domain.AgentRef {
	out := make([]domain.AgentRef, len(agents))
	copy(out, agents)
	return out
}
