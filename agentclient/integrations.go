package agentclient

import (
	"context"

	"github.com/Waseeq-Zafar/Agri-Help-sub000/domain"
)

// Backend endpoint paths, one per capability integration.
const (
	pathWorkflow          = "/api/v1/workflow/process"
	pathWorkflowWithImage = "/api/v1/workflow/process-with-image"
	pathCropRecommender   = "/api/v1/crop-recommender/crop-recommendation"
	pathWeatherForecast   = "/api/v1/weather/forecast"
	pathCropYield         = "/api/v1/agent/predict"
	pathCreditPolicy      = "/api/v1/creditpolicy/analyze"
	pathPestPredict       = "/api/v1/pest/predict"
	pathDiseaseDetect     = "/api/v1/cropdisease/detect"
	pathMarketPrice       = "/api/v1/marketprice/analyze"
	pathRiskAnalyze       = "/api/v1/risk/analyze"
	pathDeepResearch      = "/api/deep-research/ask"
	pathTranslate         = "/api/v1/agriculture/translate"
)

// Workflow invokes the generic fallback capability. When an image attachment
// is present the multipart endpoint is used instead of the JSON one.
func (c *Client) Workflow(ctx context.Context, query string, mode domain.FallbackMode, image *domain.Attachment) (domain.WorkflowResult, error) {
	var result domain.WorkflowResult
	if image != nil {
		err := c.postMultipart(ctx, pathWorkflowWithImage, map[string]string{"query": query}, image, &result)
		return result, err
	}
	err := c.postJSON(ctx, pathWorkflow, map[string]string{
		"query": query,
		"mode":  string(mode),
	}, &result)
	return result, err
}

// CropRecommendation invokes the crop-recommendations integration.
func (c *Client) CropRecommendation(ctx context.Context, prompt string) (domain.CropRecommendationResult, error) {
	var result domain.CropRecommendationResult
	err := c.postJSON(ctx, pathCropRecommender, map[string]string{"prompt": prompt}, &result)
	return result, err
}

// WeatherForecast invokes the weather-advisory integration.
func (c *Client) WeatherForecast(ctx context.Context, query string) (domain.TextResult, error) {
	var result domain.TextResult
	err := c.postJSON(ctx, pathWeatherForecast, map[string]string{"query": query}, &result)
	return result, err
}

// CropYield invokes the crop-yield integration. The backend omits a success
// flag on this route; a decoded response counts as success.
func (c *Client) CropYield(ctx context.Context, query string) (domain.TextResult, error) {
	var result domain.TextResult
	err := c.postJSON(ctx, pathCropYield, map[string]string{"query": query}, &result)
	if err == nil && result.Error == "" {
		result.Success = true
	}
	return result, err
}

// CreditPolicy invokes the credit-loan-policy integration.
func (c *Client) CreditPolicy(ctx context.Context, query string) (domain.TextResult, error) {
	var result domain.TextResult
	err := c.postJSON(ctx, pathCreditPolicy, map[string]string{"query": query}, &result)
	return result, err
}

// MarketPrice invokes the market-prices integration.
func (c *Client) MarketPrice(ctx context.Context, query string) (domain.TextResult, error) {
	var result domain.TextResult
	err := c.postJSON(ctx, pathMarketPrice, map[string]string{"query": query}, &result)
	return result, err
}

// PestPrediction invokes the pest-prediction integration, optionally with a
// photo of the affected crop.
func (c *Client) PestPrediction(ctx context.Context, query string, image *domain.Attachment) (domain.PestResult, error) {
	var result domain.PestResult
	err := c.postMultipart(ctx, pathPestPredict, map[string]string{"query": query}, image, &result)
	return result, err
}

// DiseaseDetection invokes the crop-health integration. Both image and query
// are optional; the backend falls back to a generic description prompt.
func (c *Client) DiseaseDetection(ctx context.Context, query string, image *domain.Attachment) (domain.DiseaseResult, error) {
	if query == "" {
		query = "describe the diseases"
	}
	var result domain.DiseaseResult
	err := c.postMultipart(ctx, pathDiseaseDetect, map[string]string{"query": query}, image, &result)
	return result, err
}

// RiskAnalysis invokes the risk-management integration.
func (c *Client) RiskAnalysis(ctx context.Context, query string) (domain.RiskResult, error) {
	var result domain.RiskResult
	err := c.postJSON(ctx, pathRiskAnalyze, map[string]string{"query": query}, &result)
	return result, err
}

// DeepResearch invokes the deep-research integration with the detailed
// response format and the standard iteration budget.
func (c *Client) DeepResearch(ctx context.Context, query string) (domain.ResearchResult, error) {
	var result domain.ResearchResult
	err := c.postJSON(ctx, pathDeepResearch, map[string]any{
		"query":           query,
		"response_format": "detailed",
		"max_iterations":  3,
	}, &result)
	return result, err
}

// Translate asks the translation service for a target-language rendering.
// Source language detection is left to the service.
func (c *Client) Translate(ctx context.Context, text, targetLang string) (domain.TranslationResult, error) {
	var result domain.TranslationResult
	err := c.postJSON(ctx, pathTranslate, map[string]string{
		"text":        text,
		"target_lang": targetLang,
		"source_lang": "auto",
	}, &result)
	return result, err
}
