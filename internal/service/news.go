package service

import (
	"context"

	"github.com/Dan9191/cfo-dashboard/internal/models"
	"github.com/Dan9191/cfo-dashboard/internal/news"
)

const (
	defaultIndustry = "fintech"
	newsLimit       = 10
)

// News fetches, ranks, summarises and stores industry articles for the user
func (s *Service) News(ctx context.Context, userID string) ([]models.NewsArticle, error) {
	user, err := s.repo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	industry := user.Industry
	if industry == "" {
		industry = defaultIndustry
	}

	raw, err := s.news.Fetch(ctx, industry, newsLimit)
	if err != nil {
		s.log.Warnf("News source failed for %s, using built-in catalogue: %v", industry, err)
		raw, _ = s.offline.Fetch(ctx, industry, newsLimit)
	}

	ranked := news.Rank(raw, industry, s.now())
	if len(ranked) > newsLimit {
		ranked = ranked[:newsLimit]
	}

	articles := make([]models.NewsArticle, 0, len(ranked))
	for _, a := range ranked {
		analysis, err := s.provider.SummarizeArticle(ctx, a.Title, a.Content, industry)
		if err != nil || !analysis.Impact.Valid() || analysis.Summary == "" {
			if err != nil {
				s.log.Warnf("Summary fell back for %q: %v", a.Title, err)
			}
			analysis, _ = s.fallback.SummarizeArticle(ctx, a.Title, a.Content, industry)
		}

		article := models.NewsArticle{
			UserID:         userID,
			Title:          a.Title,
			Summary:        analysis.Summary,
			Source:         a.Source,
			URL:            a.URL,
			PublishedAt:    a.PublishedAt,
			RelevanceScore: a.Score,
			Impact:         analysis.Impact,
		}
		if err := s.repo.CreateNewsArticle(ctx, &article); err != nil {
			return nil, err
		}
		articles = append(articles, article)
	}
	return articles, nil
}
