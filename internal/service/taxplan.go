package service

import (
	"context"

	"github.com/Dan9191/cfo-dashboard/internal/models"
	"github.com/Dan9191/cfo-dashboard/internal/tax"
)

const (
	salaryShareOfRevenue       = 0.3
	defaultPensionContribution = 3000
)

// TaxPlan is a stored optimisation with its advice
type TaxPlan struct {
	TaxOptimization *models.TaxOptimization `json:"tax_optimization"`
	Recommendations []string                `json:"recommendations"`
}

// OptimizeTax derives the founder's tax position from the stored snapshot,
// stores the optimisation and returns it with recommendations.
func (s *Service) OptimizeTax(ctx context.Context, userID string) (*TaxPlan, error) {
	snap, err := s.repo.GetFinancialSnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	in := taxInput(snap)
	result, err := s.tax.Compute(in)
	if err != nil {
		return nil, err
	}
	row, err := s.storeTax(ctx, userID, result)
	if err != nil {
		return nil, err
	}

	recs, err := s.provider.TaxRecommendations(ctx, in, result)
	if err != nil || len(recs) == 0 {
		if err != nil {
			s.log.Warnf("Tax recommendations fell back for user %s: %v", userID, err)
		}
		recs, _ = s.fallback.TaxRecommendations(ctx, in, result)
	}

	s.log.Infof("Tax optimization for user %s: total savings %s", userID, row.TotalAnnualSavings)
	return &TaxPlan{TaxOptimization: row, Recommendations: recs}, nil
}

func (s *Service) computeTax(ctx context.Context, snap *models.FinancialSnapshot) (*models.TaxOptimization, error) {
	result, err := s.tax.Compute(taxInput(snap))
	if err != nil {
		return nil, err
	}
	return s.storeTax(ctx, snap.UserID, result)
}

func (s *Service) storeTax(ctx context.Context, userID string, r tax.Result) (*models.TaxOptimization, error) {
	row := &models.TaxOptimization{
		UserID:               userID,
		PensionContribution:  r.PensionContribution,
		GiftAid:              r.GiftAid,
		CycleToWork:          r.CycleToWork,
		TotalAnnualSavings:   r.TotalAnnualSavings,
		EffectiveRatePercent: r.EffectiveRatePercent,
	}
	if err := s.repo.UpsertTaxOptimization(ctx, row); err != nil {
		return nil, err
	}
	return row, nil
}

func taxInput(snap *models.FinancialSnapshot) tax.Input {
	revenue := snap.MonthlyRevenue.InexactFloat64() * 12
	return tax.Input{
		AnnualSalary:               revenue * salaryShareOfRevenue,
		CompanyRevenue:             revenue,
		CompanyExpenses:            snap.MonthlyExpenses.InexactFloat64() * 12,
		CurrentPensionContribution: defaultPensionContribution,
	}
}
