package newsfeed

import (
	"context"
	"time"

	"github.com/Dan9191/cfo-dashboard/internal/news"
)

// Source fetches candidate articles for an industry
type Source interface {
	Fetch(ctx context.Context, industry string, limit int) ([]news.Article, error)
}

// StaticSource serves a fixed catalogue of recent articles, filtered by industry relevance
type StaticSource struct {
	now func() time.Time
}

// NewStaticSource creates the built-in catalogue source
func NewStaticSource() *StaticSource {
	return &StaticSource{now: time.Now}
}

// Fetch returns the catalogue articles relevant to industry
func (s *StaticSource) Fetch(ctx context.Context, industry string, limit int) ([]news.Article, error) {
	now := s.now()
	var out []news.Article
	for _, item := range catalogue {
		a := news.Article{
			Title:       item.title,
			Content:     item.content,
			URL:         item.url,
			Source:      item.source,
			PublishedAt: now.Add(-item.age),
		}
		out = append(out, a)
	}
	return topRanked(out, industry, now, limit), nil
}

// topRanked keeps the relevant articles, best first, up to limit
func topRanked(articles []news.Article, industry string, now time.Time, limit int) []news.Article {
	ranked := news.Rank(articles, industry, now)
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	out := make([]news.Article, len(ranked))
	for i, r := range ranked {
		out[i] = r.Article
	}
	return out
}

var catalogue = []struct {
	title, content, url, source string
	age                         time.Duration
}{
	{
		title:   "FinTech Funding Reaches Record High in Q2",
		content: "UK fintech startups raised £2.1 billion in the second quarter, a 45% increase from Q1. The surge was driven by strong investor appetite for SaaS platforms and payment solutions, with several companies securing Series A rounds above £10 million. The payments sector led with £890 million in funding, followed by lending platforms at £620 million.",
		url:     "https://bloomberg.com/news/fintech-funding-q2",
		source:  "Bloomberg",
		age:     2 * time.Hour,
	},
	{
		title:   "Bank of England Signals Potential Rate Changes",
		content: "The Bank of England monetary policy committee indicated a potential 0.25% interest rate cut next quarter, citing stabilising inflation and growth concerns. Lower borrowing costs would reduce startup financing costs, and financial advisors recommend companies consider fixing borrowing rates. The announcement has already influenced corporate bond markets and venture debt pricing.",
		url:     "https://ft.com/content/bank-england-rates",
		source:  "Financial Times",
		age:     4 * time.Hour,
	},
	{
		title:   "New UK Tax Incentives for Tech Startups Announced",
		content: "The government has unveiled enhanced EIS and SEIS benefits for qualifying tech startups, including increased tax relief on qualifying investments and extended carry-forward periods for unused allowances. Companies in AI, cleantech and digital health are well positioned. Tax experts estimate eligible companies could access additional benefits worth £25,000-£100,000 annually depending on their funding structure.",
		url:     "https://bbc.co.uk/business/startup-tax-incentives",
		source:  "BBC Business",
		age:     6 * time.Hour,
	},
}
