package insight

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Dan9191/cfo-dashboard/internal/models"
	"github.com/Dan9191/cfo-dashboard/internal/tax"
	jsonrepair "github.com/RealAlexandreAI/json-repair"
	"github.com/shopspring/decimal"
)

const (
	cfoSystemPrompt     = "You are an expert financial advisor and CFO with deep knowledge of UK tax law, startup finance, and financial planning. Provide specific, actionable insights based on the data provided."
	analystSystemPrompt = "You are a business analyst specializing in startup finance and market analysis. Focus on actionable insights for startup founders."
	taxSystemPrompt     = "You are a UK tax specialist with expertise in startup taxation, pension schemes, and HMRC regulations. Explain the figures you are given; do not recalculate them."
)

// LiveProvider asks a text-generation model for JSON answers
type LiveProvider struct {
	gen Generator
}

// Ensure interface compliance
var _ Provider = (*LiveProvider)(nil)

// NewLiveProvider wraps a Generator
func NewLiveProvider(gen Generator) *LiveProvider {
	return &LiveProvider{gen: gen}
}

type insightPayload struct {
	Insights []struct {
		Type        string  `json:"type"`
		Title       string  `json:"title"`
		Description string  `json:"description"`
		Impact      float64 `json:"impact"`
		Confidence  float64 `json:"confidence"`
		Priority    string  `json:"priority"`
	} `json:"insights"`
}

// FinancialInsights asks for three to five insights
func (p *LiveProvider) FinancialInsights(ctx context.Context, snapshot models.FinancialSnapshot, market models.MarketData) ([]models.Insight, error) {
	snapJSON, _ := json.Marshal(snapshot)
	marketJSON, _ := json.Marshal(market)
	prompt := fmt.Sprintf(`Analyze the following financial data and market conditions to generate actionable insights for a startup founder:

Financial Data:
%s

Market Data:
%s

Generate 3-5 specific, actionable financial insights. For each insight, provide:
- type: "opportunity", "risk", or "optimization"
- title: A clear, concise title
- description: Detailed explanation with specific recommendations
- impact: Estimated financial impact in GBP
- confidence: Confidence score between 0.0 and 1.0
- priority: "high", "medium", or "low"

Respond with JSON in this format: { "insights": [...] }`, snapJSON, marketJSON)

	var payload insightPayload
	if err := p.ask(ctx, cfoSystemPrompt, prompt, &payload); err != nil {
		return nil, fmt.Errorf("failed to generate financial insights: %w", err)
	}
	if len(payload.Insights) == 0 {
		return nil, fmt.Errorf("failed to generate financial insights: response contained no insights")
	}

	out := make([]models.Insight, 0, len(payload.Insights))
	for _, in := range payload.Insights {
		out = append(out, models.Insight{
			Type:        insightType(in.Type),
			Title:       in.Title,
			Description: in.Description,
			Impact:      decimal.NewFromFloat(in.Impact).Round(2),
			Confidence:  clamp01(in.Confidence),
			Priority:    priority(in.Priority),
			Actionable:  true,
		})
	}
	return out, nil
}

// SummarizeArticle asks for a short summary and an impact label
func (p *LiveProvider) SummarizeArticle(ctx context.Context, title, content, industry string) (ArticleAnalysis, error) {
	prompt := fmt.Sprintf(`Analyze this news article for a %s startup founder:

Title: %s
Content: %s

Provide:
- summary: 2-3 sentence summary highlighting key points and business impact
- impact: Overall impact assessment ("positive", "negative", or "neutral")

Respond with JSON in this format: { "summary": "...", "impact": "positive" }`, industry, title, content)

	var out ArticleAnalysis
	if err := p.ask(ctx, analystSystemPrompt, prompt, &out); err != nil {
		return ArticleAnalysis{}, fmt.Errorf("failed to summarize news article: %w", err)
	}
	if strings.TrimSpace(out.Summary) == "" {
		return ArticleAnalysis{}, fmt.Errorf("failed to summarize news article: empty summary")
	}
	if !out.Impact.Valid() {
		out.Impact = models.ImpactNeutral
	}
	return out, nil
}

// TaxRecommendations asks for compliance-aware advice around computed figures
func (p *LiveProvider) TaxRecommendations(ctx context.Context, in tax.Input, result tax.Result) ([]string, error) {
	prompt := fmt.Sprintf(`A UK startup founder has:
- Annual salary: £%.2f
- Company revenue: £%.2f
- Company expenses: £%.2f
- Current pension contribution: £%.2f

The optimisation plan is:
- Additional pension contribution: £%s
- Gift Aid relief: £%s
- Cycle to Work saving: £%s
- Total annual savings: £%s
- Effective income tax rate after savings: %s%%

Give 3-5 specific recommendations for implementing this plan in line with UK tax law.

Respond with JSON: { "recommendations": ["...", "..."] }`,
		in.AnnualSalary, in.CompanyRevenue, in.CompanyExpenses, in.CurrentPensionContribution,
		result.PensionContribution.StringFixed(2), result.GiftAid.StringFixed(2), result.CycleToWork.StringFixed(2),
		result.TotalAnnualSavings.StringFixed(2), result.EffectiveRatePercent.StringFixed(2))

	var payload struct {
		Recommendations []string `json:"recommendations"`
	}
	if err := p.ask(ctx, taxSystemPrompt, prompt, &payload); err != nil {
		return nil, fmt.Errorf("failed to generate tax recommendations: %w", err)
	}
	if len(payload.Recommendations) == 0 {
		return nil, fmt.Errorf("failed to generate tax recommendations: none returned")
	}
	return payload.Recommendations, nil
}

func (p *LiveProvider) ask(ctx context.Context, system, prompt string, v any) error {
	raw, err := p.gen.Generate(ctx, system, prompt)
	if err != nil {
		return err
	}
	return decodeJSON(raw, v)
}

// decodeJSON parses model output, repairing it first when it is not valid JSON
func decodeJSON(raw string, v any) error {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")

	if err := json.Unmarshal([]byte(raw), v); err == nil {
		return nil
	}
	repaired, err := jsonrepair.RepairJSON(raw)
	if err != nil {
		return fmt.Errorf("unparseable model response: %w", err)
	}
	if err := json.Unmarshal([]byte(repaired), v); err != nil {
		return fmt.Errorf("unparseable model response: %w", err)
	}
	return nil
}

func insightType(s string) models.InsightType {
	switch t := models.InsightType(strings.ToLower(s)); t {
	case models.InsightOpportunity, models.InsightRisk, models.InsightOptimization:
		return t
	}
	return models.InsightOpportunity
}

func priority(s string) models.Priority {
	switch p := models.Priority(strings.ToLower(s)); p {
	case models.PriorityHigh, models.PriorityMedium, models.PriorityLow:
		return p
	}
	return models.PriorityMedium
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
