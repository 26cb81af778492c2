package service

import (
	"context"
	"errors"
	"io"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/Dan9191/cfo-dashboard/internal/config"
	"github.com/Dan9191/cfo-dashboard/internal/finance"
	"github.com/Dan9191/cfo-dashboard/internal/insight"
	"github.com/Dan9191/cfo-dashboard/internal/models"
	"github.com/Dan9191/cfo-dashboard/internal/news"
	"github.com/Dan9191/cfo-dashboard/internal/repository"
	"github.com/Dan9191/cfo-dashboard/internal/session"
	"github.com/Dan9191/cfo-dashboard/internal/tax"
	"github.com/Dan9191/cfo-dashboard/internal/utils"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var errUpstream = errors.New("upstream unavailable")

type failingProvider struct{}

func (failingProvider) FinancialInsights(context.Context, models.FinancialSnapshot, models.MarketData) ([]models.Insight, error) {
	return nil, errUpstream
}

func (failingProvider) SummarizeArticle(context.Context, string, string, string) (insight.ArticleAnalysis, error) {
	return insight.ArticleAnalysis{}, errUpstream
}

func (failingProvider) TaxRecommendations(context.Context, tax.Input, tax.Result) ([]string, error) {
	return nil, errUpstream
}

type failingSource struct{}

func (failingSource) Fetch(context.Context, string, int) ([]news.Article, error) {
	return nil, errUpstream
}

type recordingAlerts struct {
	sent []string
}

func (r *recordingAlerts) SendRunwayAlert(to string, _ *models.User, _ *models.FinancialSnapshot) error {
	r.sent = append(r.sent, to)
	return nil
}

type testEnv struct {
	svc    *Service
	repo   *repository.Memory
	alerts *recordingAlerts
}

func newTestEnv(t *testing.T, seed bool, mutate func(*Deps)) *testEnv {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	taxCfg, err := config.LoadTaxConfig("")
	if err != nil {
		t.Fatal(err)
	}
	cipher, err := utils.NewTokenCipher([]byte("0123456789abcdef0123456789abcdef"))
	if err != nil {
		t.Fatal(err)
	}

	repo := repository.NewMemory()
	alerts := &recordingAlerts{}
	deps := Deps{
		Repo:     repo,
		Sessions: session.NewMemoryStore(),
		Signer:   session.NewSigner("test-secret"),
		Log:      logger,
		Config: &config.Config{
			SessionTTL:        time.Hour,
			SeedDemoData:      seed,
			RunwayAlertMonths: 6,
		},
		Tax:      tax.NewCalculator(taxCfg),
		Cipher:   cipher,
		Provider: failingProvider{},
		Alerts:   alerts,
	}
	if mutate != nil {
		mutate(&deps)
	}
	return &testEnv{svc: NewService(deps), repo: repo, alerts: alerts}
}

func (e *testEnv) register(t *testing.T, username string) *models.User {
	t.Helper()
	u, err := e.svc.Register(context.Background(), RegisterInput{
		Username:    username,
		Password:    "demo123",
		Email:       username,
		CompanyName: "TechVenture Ltd",
		Industry:    "FinTech",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	return u
}

func TestAuthLifecycle(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, false, nil)
	user := env.register(t, "demo@cfo.ai")

	if user.Industry != "fintech" {
		t.Errorf("industry = %q, want normalised fintech", user.Industry)
	}

	token, loggedIn, err := env.svc.Login(ctx, "demo@cfo.ai", "demo123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if loggedIn.ID != user.ID {
		t.Errorf("Login returned user %s, want %s", loggedIn.ID, user.ID)
	}

	uid, err := env.svc.Authenticate(ctx, token)
	if err != nil || uid != user.ID {
		t.Fatalf("Authenticate = %q, %v", uid, err)
	}

	if err := env.svc.Logout(ctx, token); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := env.svc.Authenticate(ctx, token); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized after logout, got %v", err)
	}
}

func TestRegisterAndLoginErrors(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, false, nil)
	env.register(t, "demo@cfo.ai")

	_, err := env.svc.Register(ctx, RegisterInput{Username: "demo@cfo.ai", Password: "another1"})
	if !errors.Is(err, repository.ErrConflict) {
		t.Errorf("duplicate register: got %v", err)
	}
	_, err = env.svc.Register(ctx, RegisterInput{Username: "short@cfo.ai", Password: "x"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("short password: got %v", err)
	}

	if _, _, err := env.svc.Login(ctx, "demo@cfo.ai", "wrong-password"); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("wrong password: got %v", err)
	}
	if _, _, err := env.svc.Login(ctx, "nobody@cfo.ai", "demo123"); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("unknown user: got %v", err)
	}
	if _, err := env.svc.Authenticate(ctx, "garbage"); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("garbage token: got %v", err)
	}
}

func TestDashboard_DemoData(t *testing.T) {
	env := newTestEnv(t, true, nil)
	user := env.register(t, "demo@cfo.ai")

	dash, err := env.svc.Dashboard(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}

	if math.Abs(float64(dash.Metrics.Runway)-18.16) > 0.01 {
		t.Errorf("runway = %v, want ~18.16", dash.Metrics.Runway)
	}
	if dash.Metrics.Breakeven.IsUnbounded() || dash.Metrics.Breakeven <= 0 {
		t.Errorf("breakeven = %v, want finite positive", dash.Metrics.Breakeven)
	}
	if dash.Metrics.BurnRate != 24500 {
		t.Errorf("burn rate = %v", dash.Metrics.BurnRate)
	}
	if dash.Metrics.TaxSavings != 28480 {
		t.Errorf("tax savings = %v, want 28480", dash.Metrics.TaxSavings)
	}
	if len(dash.Integrations) != 3 {
		t.Errorf("integrations = %d, want 3", len(dash.Integrations))
	}
}

func TestDashboard_NoSnapshot(t *testing.T) {
	env := newTestEnv(t, false, nil)
	user := env.register(t, "demo@cfo.ai")

	if _, err := env.svc.Dashboard(context.Background(), user.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := env.svc.CashFlowForecast(context.Background(), user.ID, models.MarketTrendAssumptions{}); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestForecasts(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, true, nil)
	user := env.register(t, "demo@cfo.ai")

	cf, err := env.svc.CashFlowForecast(ctx, user.ID, models.MarketTrendAssumptions{GrowthRatePercent: 8, RiskFactorPercent: 0.05})
	if err != nil {
		t.Fatalf("CashFlowForecast: %v", err)
	}
	if len(cf) != 12 || cf[0].CashBalance != 445000 || !cf[11].IsProjected {
		t.Errorf("unexpected cash flow %+v", cf)
	}

	pf, err := env.svc.ProfitabilityForecast(ctx, user.ID, models.MarketTrendAssumptions{GrowthRatePercent: 15, RiskFactorPercent: 0.03})
	if err != nil {
		t.Fatalf("ProfitabilityForecast: %v", err)
	}
	if len(pf) != 6 || pf[0].Revenue != 204000 {
		t.Errorf("unexpected profitability %+v", pf)
	}

	_, err = env.svc.CashFlowForecast(ctx, user.ID, models.MarketTrendAssumptions{GrowthRatePercent: math.NaN()})
	if !errors.Is(err, finance.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestForecasts_SeededNoiseRepeats(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, true, func(d *Deps) { d.Config.ForecastNoiseSeed = 7 })
	user := env.register(t, "demo@cfo.ai")

	trends := models.MarketTrendAssumptions{GrowthRatePercent: 8, RiskFactorPercent: 0.05}
	a, _ := env.svc.CashFlowForecast(ctx, user.ID, trends)
	b, _ := env.svc.CashFlowForecast(ctx, user.ID, trends)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("point %d differs between runs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestOptimizeTax_FallsBack(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, true, nil)
	user := env.register(t, "demo@cfo.ai")

	plan, err := env.svc.OptimizeTax(ctx, user.ID)
	if err != nil {
		t.Fatalf("OptimizeTax: %v", err)
	}
	row := plan.TaxOptimization
	sum := row.PensionContribution.Add(row.GiftAid).Add(row.CycleToWork)
	if !sum.Equal(row.TotalAnnualSavings) {
		t.Errorf("total %s != sum %s", row.TotalAnnualSavings, sum)
	}
	if !row.PensionContribution.Equal(decimal.NewFromInt(24480)) {
		t.Errorf("pension = %s, want 24480", row.PensionContribution)
	}
	if len(plan.Recommendations) == 0 {
		t.Error("expected fallback recommendations")
	}

	stored, err := env.repo.GetTaxOptimization(ctx, user.ID)
	if err != nil || stored.ID != row.ID {
		t.Errorf("stored row = %+v, %v", stored, err)
	}
}

func TestNews_FallbackSummaries(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, false, func(d *Deps) { d.News = failingSource{} })
	user := env.register(t, "demo@cfo.ai")

	articles, err := env.svc.News(ctx, user.ID)
	if err != nil {
		t.Fatalf("News: %v", err)
	}
	if len(articles) == 0 {
		t.Fatal("expected catalogue articles")
	}
	for i, a := range articles {
		if a.Impact != models.ImpactNeutral {
			t.Errorf("article %d impact = %q", i, a.Impact)
		}
		if len([]rune(a.Summary)) > 203 {
			t.Errorf("article %d summary too long: %d runes", i, len([]rune(a.Summary)))
		}
		if a.RelevanceScore <= 0 || a.RelevanceScore > 1 {
			t.Errorf("article %d score = %v", i, a.RelevanceScore)
		}
		if i > 0 && a.RelevanceScore > articles[i-1].RelevanceScore {
			t.Errorf("articles not ranked by score at %d", i)
		}
	}

	stored, _ := env.repo.ListNewsArticles(ctx, user.ID, 0)
	if len(stored) != len(articles) {
		t.Errorf("stored %d articles, returned %d", len(stored), len(articles))
	}
}

func TestInsights_FallBack(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, true, nil)
	user := env.register(t, "demo@cfo.ai")

	insights, err := env.svc.Insights(ctx, user.ID)
	if err != nil {
		t.Fatalf("Insights: %v", err)
	}
	if len(insights) != 2 {
		t.Fatalf("expected 2 fallback insights, got %d", len(insights))
	}
	if insights[0].Title != "Tax Optimization Opportunity" || insights[0].UserID != user.ID {
		t.Errorf("unexpected first insight %+v", insights[0])
	}
	if !strings.Contains(insights[1].Description, "12%") && !strings.Contains(insights[1].Description, "13%") {
		t.Errorf("growth insight should use sector growth: %q", insights[1].Description)
	}
}

func TestUpsertFinancialData(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, false, nil)
	user := env.register(t, "demo@cfo.ai")

	snap, err := env.svc.UpsertFinancialData(ctx, user.ID, models.FinancialSnapshotInput{
		CashBalance:     decimal.NewFromInt(100000),
		MonthlyRevenue:  decimal.NewFromInt(20000),
		MonthlyExpenses: decimal.NewFromInt(20000),
		BurnRate:        decimal.Zero,
	})
	if err != nil {
		t.Fatalf("UpsertFinancialData: %v", err)
	}
	if !snap.RunwayMonths.IsUnbounded() {
		t.Errorf("runway = %v, want unbounded", snap.RunwayMonths)
	}

	_, err = env.svc.UpsertFinancialData(ctx, user.ID, models.FinancialSnapshotInput{MonthlyRevenue: decimal.NewFromInt(-1)})
	if !errors.Is(err, finance.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestUpsertFinancialData_NegativeFields(t *testing.T) {
	valid := func() models.FinancialSnapshotInput {
		return models.FinancialSnapshotInput{
			CashBalance:     decimal.NewFromInt(1000),
			MonthlyRevenue:  decimal.NewFromInt(100),
			MonthlyExpenses: decimal.NewFromInt(200),
			BurnRate:        decimal.NewFromInt(100),
		}
	}
	tests := []struct {
		name  string
		field string
		set   func(*models.FinancialSnapshotInput)
	}{
		{"cash balance", "cash balance", func(in *models.FinancialSnapshotInput) { in.CashBalance = decimal.NewFromInt(-1000) }},
		{"monthly revenue", "monthly revenue", func(in *models.FinancialSnapshotInput) { in.MonthlyRevenue = decimal.NewFromInt(-1) }},
		{"monthly expenses", "monthly expenses", func(in *models.FinancialSnapshotInput) { in.MonthlyExpenses = decimal.NewFromFloat(-0.01) }},
		{"burn rate", "burn rate", func(in *models.FinancialSnapshotInput) { in.BurnRate = decimal.NewFromInt(-100) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			env := newTestEnv(t, false, nil)
			user := env.register(t, "demo@cfo.ai")

			in := valid()
			tt.set(&in)
			_, err := env.svc.UpsertFinancialData(ctx, user.ID, in)
			if !errors.Is(err, finance.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("error %q should name %q", err, tt.field)
			}
			if _, err := env.repo.GetFinancialSnapshot(ctx, user.ID); !errors.Is(err, repository.ErrNotFound) {
				t.Errorf("rejected snapshot was stored: %v", err)
			}
		})
	}
}

func TestUpdateIntegration(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, false, nil)
	user := env.register(t, "demo@cfo.ai")

	if _, err := env.svc.UpdateIntegration(ctx, user.ID, "myspace", IntegrationUpdate{Status: models.StatusConnected}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("unknown platform: got %v", err)
	}
	if _, err := env.svc.UpdateIntegration(ctx, user.ID, models.PlatformPayabl, IntegrationUpdate{Status: "paused"}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("unknown status: got %v", err)
	}

	got, err := env.svc.UpdateIntegration(ctx, user.ID, models.PlatformPayabl, IntegrationUpdate{
		Status:      models.StatusConnected,
		Metadata:    []byte(`{"accounts":3}`),
		AccessToken: "pk_live_123",
	})
	if err != nil {
		t.Fatalf("UpdateIntegration: %v", err)
	}
	if got.LastSync == nil {
		t.Error("connected integration should record last sync")
	}
	if got.AccessToken == "pk_live_123" {
		t.Error("access token stored in clear")
	}

	token, err := env.svc.IntegrationToken(ctx, user.ID, models.PlatformPayabl)
	if err != nil || token != "pk_live_123" {
		t.Errorf("IntegrationToken = %q, %v", token, err)
	}

	rows, _ := env.svc.Integrations(ctx, user.ID)
	if len(rows) != 1 {
		t.Errorf("integrations = %d, want 1", len(rows))
	}
}

func TestCheckRunwayAlerts(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, false, nil)
	low := env.register(t, "low@cfo.ai")
	healthy := env.register(t, "healthy@cfo.ai")

	_, _ = env.svc.UpsertFinancialData(ctx, low.ID, models.FinancialSnapshotInput{
		CashBalance: decimal.NewFromInt(50000),
		BurnRate:    decimal.NewFromInt(20000),
	})
	_, _ = env.svc.UpsertFinancialData(ctx, healthy.ID, models.FinancialSnapshotInput{
		CashBalance: decimal.NewFromInt(445000),
		BurnRate:    decimal.NewFromInt(24500),
	})

	sent, err := env.svc.CheckRunwayAlerts(ctx)
	if err != nil {
		t.Fatalf("CheckRunwayAlerts: %v", err)
	}
	if sent != 1 || len(env.alerts.sent) != 1 || env.alerts.sent[0] != "low@cfo.ai" {
		t.Errorf("sent %d alerts to %v", sent, env.alerts.sent)
	}

	sent, _ = env.svc.CheckRunwayAlerts(ctx)
	if sent != 0 {
		t.Errorf("expected cooldown to suppress repeat alert, sent %d", sent)
	}
}

func TestCheckRunwayAlerts_ForgetsExpiredCooldowns(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, false, nil)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	env.svc.now = func() time.Time { return now }

	env.svc.alerted["expired"] = now.Add(-48 * time.Hour)
	env.svc.alerted["recent"] = now.Add(-time.Hour)

	if _, err := env.svc.CheckRunwayAlerts(ctx); err != nil {
		t.Fatalf("CheckRunwayAlerts: %v", err)
	}
	if _, ok := env.svc.alerted["expired"]; ok {
		t.Error("expired cooldown entry should be dropped")
	}
	if _, ok := env.svc.alerted["recent"]; !ok {
		t.Error("active cooldown entry should be kept")
	}
}
