package insight

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/Dan9191/cfo-dashboard/internal/models"
	"github.com/Dan9191/cfo-dashboard/internal/tax"
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

const summaryChars = 200

// FallbackProvider returns deterministic defaults and never fails
type FallbackProvider struct{}

// Ensure interface compliance
var _ Provider = FallbackProvider{}

// FinancialInsights returns the standing tax and growth insights
func (FallbackProvider) FinancialInsights(ctx context.Context, snapshot models.FinancialSnapshot, market models.MarketData) ([]models.Insight, error) {
	taxSaving := money.New(840000, money.GBP)
	return []models.Insight{
		{
			Type:  models.InsightOptimization,
			Title: "Tax Optimization Opportunity",
			Description: fmt.Sprintf(
				"Based on your current financial position, increasing pension contributions could save you %s annually in tax.",
				taxSaving.Display()),
			Impact:     decimal.NewFromInt(8400),
			Confidence: 0.85,
			Priority:   models.PriorityHigh,
			Actionable: true,
		},
		{
			Type:  models.InsightOpportunity,
			Title: "Revenue Growth Potential",
			Description: fmt.Sprintf(
				"Market conditions indicate a %.0f%% growth opportunity in your sector over the next quarter.",
				sectorGrowth(market)),
			Impact:     decimal.NewFromInt(25000),
			Confidence: 0.72,
			Priority:   models.PriorityMedium,
			Actionable: true,
		},
	}, nil
}

func sectorGrowth(m models.MarketData) float64 {
	if m.SectorGrowth > 0 {
		return m.SectorGrowth
	}
	return 15
}

// SummarizeArticle truncates the content and labels it neutral
func (FallbackProvider) SummarizeArticle(ctx context.Context, title, content, industry string) (ArticleAnalysis, error) {
	return ArticleAnalysis{Summary: Truncate(content, summaryChars), Impact: models.ImpactNeutral}, nil
}

// TaxRecommendations returns the calculator's own advice lines
func (FallbackProvider) TaxRecommendations(ctx context.Context, in tax.Input, result tax.Result) ([]string, error) {
	return tax.Recommendations(in, result), nil
}

// Truncate cuts s to n runes and appends an ellipsis when it was longer
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n]) + "..."
}
