package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Dan9191/cfo-dashboard/internal/models"
	"github.com/google/uuid"
)

// Memory is an in-memory Repository safe for concurrent use
type Memory struct {
	mu           sync.RWMutex
	users        map[string]models.User
	snapshots    map[string]models.FinancialSnapshot
	taxes        map[string]models.TaxOptimization
	articles     map[string][]models.NewsArticle
	insights     map[string][]models.Insight
	integrations map[string][]models.Integration
	now          func() time.Time
}

// Ensure interface compliance
var _ Repository = (*Memory)(nil)

// NewMemory creates an empty in-memory repository
func NewMemory() *Memory {
	return &Memory{
		users:        make(map[string]models.User),
		snapshots:    make(map[string]models.FinancialSnapshot),
		taxes:        make(map[string]models.TaxOptimization),
		articles:     make(map[string][]models.NewsArticle),
		insights:     make(map[string][]models.Insight),
		integrations: make(map[string][]models.Integration),
		now:          time.Now,
	}
}

func (m *Memory) Ping(ctx context.Context) error { return nil }

func (m *Memory) CreateUser(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if strings.EqualFold(u.Username, user.Username) {
			return fmt.Errorf("failed to create user: %w", ErrConflict)
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.CreatedAt = m.now()
	m.users[user.ID] = *user
	return nil
}

func (m *Memory) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	return &u, nil
}

func (m *Memory) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if strings.EqualFold(u.Username, username) {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", username, ErrNotFound)
}

func (m *Memory) ListUsers(ctx context.Context) ([]models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *Memory) GetFinancialSnapshot(ctx context.Context, userID string) (*models.FinancialSnapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.snapshots[userID]
	if !ok {
		return nil, fmt.Errorf("financial data for %s: %w", userID, ErrNotFound)
	}
	return &s, nil
}

func (m *Memory) UpsertFinancialSnapshot(ctx context.Context, snap *models.FinancialSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.snapshots[snap.UserID]; ok {
		snap.ID = existing.ID
	} else if snap.ID == "" {
		snap.ID = uuid.NewString()
	}
	snap.LastUpdated = m.now()
	m.snapshots[snap.UserID] = *snap
	return nil
}

func (m *Memory) GetTaxOptimization(ctx context.Context, userID string) (*models.TaxOptimization, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.taxes[userID]
	if !ok {
		return nil, fmt.Errorf("tax optimization for %s: %w", userID, ErrNotFound)
	}
	return &t, nil
}

func (m *Memory) UpsertTaxOptimization(ctx context.Context, opt *models.TaxOptimization) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.taxes[opt.UserID]; ok {
		opt.ID = existing.ID
	} else if opt.ID == "" {
		opt.ID = uuid.NewString()
	}
	opt.CalculatedAt = m.now()
	m.taxes[opt.UserID] = *opt
	return nil
}

func (m *Memory) CreateNewsArticle(ctx context.Context, article *models.NewsArticle) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	article.ID = uuid.NewString()
	article.CreatedAt = m.now()
	m.articles[article.UserID] = append(m.articles[article.UserID], *article)
	return nil
}

// ListNewsArticles returns the newest articles first
func (m *Memory) ListNewsArticles(ctx context.Context, userID string, limit int) ([]models.NewsArticle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	src := m.articles[userID]
	out := make([]models.NewsArticle, 0, len(src))
	for i := len(src) - 1; i >= 0; i-- {
		out = append(out, src[i])
	}
	return limited(out, limit), nil
}

func (m *Memory) CreateInsight(ctx context.Context, insight *models.Insight) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	insight.ID = uuid.NewString()
	insight.CreatedAt = m.now()
	m.insights[insight.UserID] = append(m.insights[insight.UserID], *insight)
	return nil
}

// ListInsights returns the newest insights first
func (m *Memory) ListInsights(ctx context.Context, userID string, limit int) ([]models.Insight, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	src := m.insights[userID]
	out := make([]models.Insight, 0, len(src))
	for i := len(src) - 1; i >= 0; i-- {
		out = append(out, src[i])
	}
	return limited(out, limit), nil
}

func (m *Memory) ListIntegrations(ctx context.Context, userID string) ([]models.Integration, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return append([]models.Integration(nil), m.integrations[userID]...), nil
}

// UpsertIntegration replaces the row for the same user and platform
func (m *Memory) UpsertIntegration(ctx context.Context, in *models.Integration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	in.UpdatedAt = m.now()
	rows := m.integrations[in.UserID]
	for i := range rows {
		if rows[i].Platform == in.Platform {
			in.ID = rows[i].ID
			rows[i] = *in
			return nil
		}
	}
	if in.ID == "" {
		in.ID = uuid.NewString()
	}
	m.integrations[in.UserID] = append(rows, *in)
	return nil
}

func limited[T any](rows []T, limit int) []T {
	if limit > 0 && len(rows) > limit {
		return rows[:limit]
	}
	return rows
}
