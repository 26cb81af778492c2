package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/Dan9191/cfo-dashboard/internal/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

//go:embed schema.sql
var schema string

// Postgres provides database operations on PostgreSQL
type Postgres struct {
	db *sql.DB
}

// Ensure interface compliance
var _ Repository = (*Postgres)(nil)

// NewPostgres initializes a repository over an open database
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// Migrate creates the schema if it does not exist
func (r *Postgres) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

func (r *Postgres) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// CreateUser creates a new user in the database
func (r *Postgres) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	query := `
		INSERT INTO cfo.users (id, username, password_hash, email, company_name, industry, founding_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, CURRENT_TIMESTAMP)
		RETURNING created_at`
	err := r.db.QueryRowContext(ctx, query, user.ID, user.Username, user.PasswordHash, user.Email,
		user.CompanyName, user.Industry, user.FoundingDate).
		Scan(&user.CreatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("failed to create user: %w", ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

const userColumns = `id, username, password_hash, email, company_name, industry, founding_date, created_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	user := &models.User{}
	var founding sql.NullTime
	err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Email,
		&user.CompanyName, &user.Industry, &founding, &user.CreatedAt)
	if err != nil {
		return nil, err
	}
	if founding.Valid {
		user.FoundingDate = &founding.Time
	}
	return user, nil
}

// FindUserByID retrieves a user by id
func (r *Postgres) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM cfo.users WHERE id = $1`, id)
	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// FindUserByUsername retrieves a user by username, case-insensitively
func (r *Postgres) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM cfo.users WHERE lower(username) = lower($1)`, username)
	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", username, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// ListUsers returns every user, oldest first
func (r *Postgres) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM cfo.users ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var out []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		out = append(out, *user)
	}
	return out, rows.Err()
}

// GetFinancialSnapshot retrieves the snapshot of a user
func (r *Postgres) GetFinancialSnapshot(ctx context.Context, userID string) (*models.FinancialSnapshot, error) {
	s := &models.FinancialSnapshot{}
	query := `
		SELECT id, user_id, cash_balance, monthly_revenue, monthly_expenses, burn_rate, runway_months, last_updated
		FROM cfo.financial_data
		WHERE user_id = $1`
	err := r.db.QueryRowContext(ctx, query, userID).
		Scan(&s.ID, &s.UserID, &s.CashBalance, &s.MonthlyRevenue, &s.MonthlyExpenses, &s.BurnRate, &s.RunwayMonths, &s.LastUpdated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("financial data for %s: %w", userID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get financial data: %w", err)
	}
	return s, nil
}

// UpsertFinancialSnapshot inserts or replaces the snapshot of a user
func (r *Postgres) UpsertFinancialSnapshot(ctx context.Context, s *models.FinancialSnapshot) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	query := `
		INSERT INTO cfo.financial_data (id, user_id, cash_balance, monthly_revenue, monthly_expenses, burn_rate, runway_months, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6, $7, CURRENT_TIMESTAMP)
		ON CONFLICT (user_id) DO UPDATE SET
			cash_balance = EXCLUDED.cash_balance,
			monthly_revenue = EXCLUDED.monthly_revenue,
			monthly_expenses = EXCLUDED.monthly_expenses,
			burn_rate = EXCLUDED.burn_rate,
			runway_months = EXCLUDED.runway_months,
			last_updated = EXCLUDED.last_updated
		RETURNING id, last_updated`
	err := r.db.QueryRowContext(ctx, query, s.ID, s.UserID, s.CashBalance, s.MonthlyRevenue, s.MonthlyExpenses, s.BurnRate, s.RunwayMonths).
		Scan(&s.ID, &s.LastUpdated)
	if err != nil {
		return fmt.Errorf("failed to upsert financial data: %w", err)
	}
	return nil
}

// GetTaxOptimization retrieves the latest tax optimisation of a user
func (r *Postgres) GetTaxOptimization(ctx context.Context, userID string) (*models.TaxOptimization, error) {
	t := &models.TaxOptimization{}
	query := `
		SELECT id, user_id, pension_contribution, gift_aid, cycle_to_work, total_annual_savings, effective_rate_percent, calculated_at
		FROM cfo.tax_optimization
		WHERE user_id = $1`
	err := r.db.QueryRowContext(ctx, query, userID).
		Scan(&t.ID, &t.UserID, &t.PensionContribution, &t.GiftAid, &t.CycleToWork, &t.TotalAnnualSavings, &t.EffectiveRatePercent, &t.CalculatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("tax optimization for %s: %w", userID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tax optimization: %w", err)
	}
	return t, nil
}

// UpsertTaxOptimization inserts or replaces the tax optimisation of a user
func (r *Postgres) UpsertTaxOptimization(ctx context.Context, t *models.TaxOptimization) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	query := `
		INSERT INTO cfo.tax_optimization (id, user_id, pension_contribution, gift_aid, cycle_to_work, total_annual_savings, effective_rate_percent, calculated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, CURRENT_TIMESTAMP)
		ON CONFLICT (user_id) DO UPDATE SET
			pension_contribution = EXCLUDED.pension_contribution,
			gift_aid = EXCLUDED.gift_aid,
			cycle_to_work = EXCLUDED.cycle_to_work,
			total_annual_savings = EXCLUDED.total_annual_savings,
			effective_rate_percent = EXCLUDED.effective_rate_percent,
			calculated_at = EXCLUDED.calculated_at
		RETURNING id, calculated_at`
	err := r.db.QueryRowContext(ctx, query, t.ID, t.UserID, t.PensionContribution, t.GiftAid, t.CycleToWork, t.TotalAnnualSavings, t.EffectiveRatePercent).
		Scan(&t.ID, &t.CalculatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert tax optimization: %w", err)
	}
	return nil
}

// CreateNewsArticle stores a scored article
func (r *Postgres) CreateNewsArticle(ctx context.Context, a *models.NewsArticle) error {
	a.ID = uuid.NewString()
	query := `
		INSERT INTO cfo.news_articles (id, user_id, title, summary, source, url, published_at, relevance_score, impact, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, CURRENT_TIMESTAMP)
		RETURNING created_at`
	err := r.db.QueryRowContext(ctx, query, a.ID, a.UserID, a.Title, a.Summary, a.Source, a.URL,
		nullTime(a.PublishedAt), a.RelevanceScore, string(a.Impact)).
		Scan(&a.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create news article: %w", err)
	}
	return nil
}

// ListNewsArticles returns the newest articles of a user
func (r *Postgres) ListNewsArticles(ctx context.Context, userID string, limit int) ([]models.NewsArticle, error) {
	query := `
		SELECT id, user_id, title, summary, source, url, published_at, relevance_score, impact, created_at
		FROM cfo.news_articles
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, userID, sqlLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list news articles: %w", err)
	}
	defer rows.Close()

	var out []models.NewsArticle
	for rows.Next() {
		var (
			a         models.NewsArticle
			published sql.NullTime
			impact    string
		)
		if err := rows.Scan(&a.ID, &a.UserID, &a.Title, &a.Summary, &a.Source, &a.URL, &published, &a.RelevanceScore, &impact, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan news article: %w", err)
		}
		a.PublishedAt = published.Time
		a.Impact = models.Impact(impact)
		out = append(out, a)
	}
	return out, rows.Err()
}

// CreateInsight stores a generated insight
func (r *Postgres) CreateInsight(ctx context.Context, in *models.Insight) error {
	in.ID = uuid.NewString()
	query := `
		INSERT INTO cfo.ai_insights (id, user_id, type, title, description, impact, confidence, priority, actionable, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, CURRENT_TIMESTAMP)
		RETURNING created_at`
	err := r.db.QueryRowContext(ctx, query, in.ID, in.UserID, string(in.Type), in.Title, in.Description,
		in.Impact, in.Confidence, string(in.Priority), in.Actionable, nullJSON(in.Metadata)).
		Scan(&in.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create insight: %w", err)
	}
	return nil
}

// ListInsights returns the newest insights of a user
func (r *Postgres) ListInsights(ctx context.Context, userID string, limit int) ([]models.Insight, error) {
	query := `
		SELECT id, user_id, type, title, description, impact, confidence, priority, actionable, metadata, created_at
		FROM cfo.ai_insights
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, userID, sqlLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list insights: %w", err)
	}
	defer rows.Close()

	var out []models.Insight
	for rows.Next() {
		var (
			in        models.Insight
			typ, prio string
			metadata  []byte
		)
		if err := rows.Scan(&in.ID, &in.UserID, &typ, &in.Title, &in.Description, &in.Impact, &in.Confidence, &prio, &in.Actionable, &metadata, &in.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan insight: %w", err)
		}
		in.Type = models.InsightType(typ)
		in.Priority = models.Priority(prio)
		in.Metadata = metadata
		out = append(out, in)
	}
	return out, rows.Err()
}

// ListIntegrations returns the integration rows of a user
func (r *Postgres) ListIntegrations(ctx context.Context, userID string) ([]models.Integration, error) {
	query := `
		SELECT id, user_id, platform, status, last_sync, metadata, access_token, updated_at
		FROM cfo.integration_status
		WHERE user_id = $1
		ORDER BY platform`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list integrations: %w", err)
	}
	defer rows.Close()

	var out []models.Integration
	for rows.Next() {
		var (
			in       models.Integration
			lastSync sql.NullTime
			metadata []byte
		)
		if err := rows.Scan(&in.ID, &in.UserID, &in.Platform, &in.Status, &lastSync, &metadata, &in.AccessToken, &in.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan integration: %w", err)
		}
		if lastSync.Valid {
			in.LastSync = &lastSync.Time
		}
		in.Metadata = metadata
		out = append(out, in)
	}
	return out, rows.Err()
}

// UpsertIntegration inserts or replaces the row for a user and platform
func (r *Postgres) UpsertIntegration(ctx context.Context, in *models.Integration) error {
	if in.ID == "" {
		in.ID = uuid.NewString()
	}
	query := `
		INSERT INTO cfo.integration_status (id, user_id, platform, status, last_sync, metadata, access_token, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, CURRENT_TIMESTAMP)
		ON CONFLICT (user_id, platform) DO UPDATE SET
			status = EXCLUDED.status,
			last_sync = EXCLUDED.last_sync,
			metadata = EXCLUDED.metadata,
			access_token = EXCLUDED.access_token,
			updated_at = EXCLUDED.updated_at
		RETURNING id, updated_at`
	err := r.db.QueryRowContext(ctx, query, in.ID, in.UserID, in.Platform, in.Status, in.LastSync, nullJSON(in.Metadata), in.AccessToken).
		Scan(&in.ID, &in.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert integration: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func nullJSON(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

// sqlLimit maps a non-positive limit to LIMIT ALL
func sqlLimit(limit int) any {
	if limit <= 0 {
		return nil
	}
	return limit
}
