// Package insight produces the narrative parts of the dashboard: financial
// insights, article summaries and tax recommendations.
//
// A Provider is either live (backed by a text-generation model) or the
// deterministic FallbackProvider. Callers choose which to use and are expected
// to fall back when a live call fails.
package insight

import (
	"context"

	"github.com/Dan9191/cfo-dashboard/internal/models"
	"github.com/Dan9191/cfo-dashboard/internal/tax"
)

// Provider is the interface for every text-insight variant
type Provider interface {
	FinancialInsights(ctx context.Context, snapshot models.FinancialSnapshot, market models.MarketData) ([]models.Insight, error)
	SummarizeArticle(ctx context.Context, title, content, industry string) (ArticleAnalysis, error)
	TaxRecommendations(ctx context.Context, in tax.Input, result tax.Result) ([]string, error)
}

// ArticleAnalysis is the summary and impact label for one article
type ArticleAnalysis struct {
	Summary string        `json:"summary"`
	Impact  models.Impact `json:"impact"`
}
