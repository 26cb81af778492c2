package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dan9191/cfo-dashboard/internal/finance"
	"github.com/Dan9191/cfo-dashboard/internal/models"
	"github.com/Dan9191/cfo-dashboard/internal/repository"
	"github.com/shopspring/decimal"
)

// Monthly growth assumed for the dashboard breakeven card
const dashboardGrowthPercent = 8

// UpsertFinancialData stores the snapshot and recomputes its runway. All
// monetary fields must be non-negative.
func (s *Service) UpsertFinancialData(ctx context.Context, userID string, in models.FinancialSnapshotInput) (*models.FinancialSnapshot, error) {
	fields := []struct {
		name string
		v    decimal.Decimal
	}{
		{"cash balance", in.CashBalance},
		{"monthly revenue", in.MonthlyRevenue},
		{"monthly expenses", in.MonthlyExpenses},
		{"burn rate", in.BurnRate},
	}
	for _, f := range fields {
		if f.v.IsNegative() {
			return nil, fmt.Errorf("%w: %s must not be negative", finance.ErrInvalidInput, f.name)
		}
	}

	runway, err := finance.Runway(in.CashBalance.InexactFloat64(), in.BurnRate.InexactFloat64())
	if err != nil {
		return nil, err
	}

	snap := &models.FinancialSnapshot{
		UserID:          userID,
		CashBalance:     in.CashBalance,
		MonthlyRevenue:  in.MonthlyRevenue,
		MonthlyExpenses: in.MonthlyExpenses,
		BurnRate:        in.BurnRate,
		RunwayMonths:    runway,
	}
	if err := s.repo.UpsertFinancialSnapshot(ctx, snap); err != nil {
		return nil, err
	}

	s.log.Infof("Financial data updated for user %s: runway %.2f months", userID, float64(runway))
	return snap, nil
}

// Dashboard returns the snapshot, tax row, integrations and headline metrics
func (s *Service) Dashboard(ctx context.Context, userID string) (*models.Dashboard, error) {
	snap, err := s.repo.GetFinancialSnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	taxRow, err := s.repo.GetTaxOptimization(ctx, userID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	integrations, err := s.repo.ListIntegrations(ctx, userID)
	if err != nil {
		return nil, err
	}

	breakeven, err := finance.BreakevenMonths(
		snap.MonthlyRevenue.InexactFloat64(),
		snap.MonthlyExpenses.InexactFloat64(),
		dashboardGrowthPercent,
	)
	if err != nil {
		return nil, err
	}

	metrics := models.DashboardMetrics{
		Runway:    snap.RunwayMonths,
		BurnRate:  snap.BurnRate.InexactFloat64(),
		Breakeven: breakeven,
	}
	if taxRow != nil {
		metrics.TaxSavings = taxRow.TotalAnnualSavings.InexactFloat64()
	}

	if integrations == nil {
		integrations = []models.Integration{}
	}
	return &models.Dashboard{
		FinancialData:   snap,
		TaxOptimization: taxRow,
		Integrations:    integrations,
		Metrics:         metrics,
	}, nil
}

// CashFlowForecast projects twelve months of cash from the stored snapshot
func (s *Service) CashFlowForecast(ctx context.Context, userID string, trends models.MarketTrendAssumptions) ([]models.CashFlowPoint, error) {
	snap, err := s.repo.GetFinancialSnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	return finance.ProjectCashFlow(*snap, trends, s.noise())
}

// ProfitabilityForecast projects six quarters of profit from the stored snapshot
func (s *Service) ProfitabilityForecast(ctx context.Context, userID string, trends models.MarketTrendAssumptions) ([]models.ProfitabilityPoint, error) {
	snap, err := s.repo.GetFinancialSnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	return finance.ProjectProfitability(*snap, trends, s.noise())
}
