package service

import (
	"context"

	"github.com/Dan9191/cfo-dashboard/internal/models"
)

// Insights generates and stores narrative insights for the user's snapshot
func (s *Service) Insights(ctx context.Context, userID string) ([]models.Insight, error) {
	snap, err := s.repo.GetFinancialSnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	generated, err := s.provider.FinancialInsights(ctx, *snap, s.market)
	if err != nil || len(generated) == 0 {
		if err != nil {
			s.log.Warnf("Insights fell back for user %s: %v", userID, err)
		}
		generated, _ = s.fallback.FinancialInsights(ctx, *snap, s.market)
	}

	out := make([]models.Insight, 0, len(generated))
	for _, in := range generated {
		in.UserID = userID
		if err := s.repo.CreateInsight(ctx, &in); err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	return out, nil
}
